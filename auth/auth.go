// Package auth checks admin credentials and issues the bearer tokens that
// guard the write endpoints.
package auth

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rpupo63/portfolio-backend/errs"
	"golang.org/x/crypto/bcrypt"
)

// Principal is the identity behind an authenticated request.
type Principal struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

type credential struct {
	hash        []byte
	displayName string
}

// Authorizer holds the admin credential set.
type Authorizer struct {
	credentials map[string]credential
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// ParseCredentials reads entries of the form "user|bcryptHash|Display Name"
// separated by semicolons. The display name defaults to the username.
func ParseCredentials(raw string) (*Authorizer, error) {
	a := &Authorizer{credentials: make(map[string]credential)}

	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.SplitN(entry, "|", 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("%w: malformed admin credential entry", errs.ErrValidation)
		}
		if _, err := bcrypt.Cost([]byte(parts[1])); err != nil {
			return nil, fmt.Errorf("%w: credential for %s is not a bcrypt hash: %w", errs.ErrValidation, parts[0], err)
		}

		displayName := parts[0]
		if len(parts) == 3 && strings.TrimSpace(parts[2]) != "" {
			displayName = strings.TrimSpace(parts[2])
		}
		a.credentials[parts[0]] = credential{hash: []byte(parts[1]), displayName: displayName}
	}

	return a, nil
}

// Len reports how many admins can log in.
func (a *Authorizer) Len() int {
	return len(a.credentials)
}

// Authorize returns the principal for a matching username and password.
// Unknown usernames still pay for one bcrypt comparison.
func (a *Authorizer) Authorize(username, password string) (Principal, error) {
	cred, ok := a.credentials[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(placeholderHash(), []byte(password))
		return Principal{}, errs.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(cred.hash, []byte(password)); err != nil {
		return Principal{}, errs.ErrInvalidCredentials
	}
	return Principal{Username: username, DisplayName: cred.displayName}, nil
}

func placeholderHash() []byte {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("placeholder-password"), bcrypt.DefaultCost)
	})
	return dummyHash
}
