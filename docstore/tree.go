package docstore

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rpupo63/portfolio-backend/errs"
)

// SplitPath turns "projects/abc/pdfs/1" into its segments. Leading and
// trailing slashes are ignored; empty or illegal segments are rejected.
func SplitPath(path string) ([]string, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, nil
	}

	segments := strings.Split(trimmed, "/")
	for _, segment := range segments {
		if segment == "" || strings.ContainsAny(segment, ".#$[]") {
			return nil, fmt.Errorf("%w: %q", errs.ErrInvalidPath, path)
		}
	}
	return segments, nil
}

// JoinPath joins path segments with "/".
func JoinPath(segments ...string) string {
	return strings.Join(segments, "/")
}

// normalize converts an arbitrary Go value into the JSON tree representation
// the store keeps (map[string]any, []any, string, float64, bool). Nil values
// and empty objects normalize to nil.
func normalize(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return prune(tree), nil
}

// prune drops nil children and empty objects so a removed value leaves no
// trace in its parents.
func prune(value any) any {
	m, ok := value.(map[string]any)
	if !ok {
		return value
	}

	for key, child := range m {
		child = prune(child)
		if child == nil {
			delete(m, key)
			continue
		}
		m[key] = child
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

// lookup walks segments from root and returns the value found there.
func lookup(root any, segments []string) (any, bool) {
	current := root
	for _, segment := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, current != nil
}

// assign returns root with value placed at segments. A nil value removes the
// node and any parents left empty. Intermediate non-object values are
// replaced by objects, mirroring a realtime tree's write semantics.
func assign(root any, segments []string, value any) any {
	if len(segments) == 0 {
		return value
	}

	m, ok := root.(map[string]any)
	if !ok || m == nil {
		if value == nil {
			return root
		}
		m = make(map[string]any)
	}

	head, rest := segments[0], segments[1:]
	child := assign(m[head], rest, value)
	if child == nil {
		delete(m, head)
	} else {
		m[head] = child
	}

	if len(m) == 0 {
		return nil
	}
	return m
}

// clone deep copies a normalized tree so readers never alias store state.
func clone(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, child := range v {
			out[key] = clone(child)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = clone(child)
		}
		return out
	default:
		return v
	}
}

// expandUpdate resolves the keys of a multi-path update relative to base.
// Each key may itself contain "/" separated segments.
func expandUpdate(base []string, fields map[string]any) (map[string][]string, map[string]any, error) {
	paths := make(map[string][]string, len(fields))
	values := make(map[string]any, len(fields))

	for key, value := range fields {
		relative, err := SplitPath(key)
		if err != nil {
			return nil, nil, err
		}
		if len(relative) == 0 {
			return nil, nil, fmt.Errorf("%w: empty update key", errs.ErrInvalidPath)
		}

		normalized, err := normalize(value)
		if err != nil {
			return nil, nil, err
		}

		full := append(append([]string{}, base...), relative...)
		paths[key] = full
		values[key] = normalized
	}
	return paths, values, nil
}
