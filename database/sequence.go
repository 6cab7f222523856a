package database

import (
	"sort"
	"strconv"

	"github.com/rpupo63/portfolio-backend/models"
)

// nextSequentialID returns max(existing integer keys)+1, or 1 when the
// collection is empty. Keys that are not integers are ignored. IDs freed by
// deleting the highest entry are handed out again.
func nextSequentialID(current any) int {
	highest := 0
	switch members := current.(type) {
	case map[string]any:
		for key := range members {
			if n, err := strconv.Atoi(key); err == nil && n > highest {
				highest = n
			}
		}
	case []any:
		for i, member := range members {
			if member != nil && i > highest {
				highest = i
			}
		}
	}
	return highest + 1
}

// asObject returns current as a mutable object, converting a sparse array
// (how integer keyed children are sometimes exported) into a map.
func asObject(current any) map[string]any {
	switch members := current.(type) {
	case map[string]any:
		return members
	case []any:
		out := make(map[string]any, len(members))
		for i, member := range members {
			if member != nil {
				out[strconv.Itoa(i)] = member
			}
		}
		return out
	}
	return make(map[string]any)
}

// sortedIntKeys orders integer keys numerically so "10" follows "9".
func sortedIntKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		if errA == nil || errB == nil {
			return errA == nil
		}
		return keys[i] < keys[j]
	})
	return keys
}

func sortIntents(intents []*models.UploadIntent) {
	sort.SliceStable(intents, func(i, j int) bool {
		return intents[i].CreatedAt.Before(intents[j].CreatedAt)
	})
}
