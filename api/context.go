package api

import (
	"context"

	"github.com/rpupo63/portfolio-backend/auth"
)

type keyType string

const principalKey keyType = "principal"

// ctxWithPrincipal adds the authenticated admin to the context
func ctxWithPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// ctxGetPrincipal retrieves the authenticated admin from the context
func ctxGetPrincipal(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(principalKey).(auth.Principal)
	return p, ok
}
