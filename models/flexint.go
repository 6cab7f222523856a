package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt decodes from a JSON number or a numeric string. Older education
// records carry their order as a string.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		data = []byte(s)
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("not an integer: %s", data)
	}
	if f != float64(int(f)) {
		return fmt.Errorf("not an integer: %s", data)
	}
	*n = FlexInt(f)
	return nil
}

// ParseFlexInt parses a form value the same way.
func ParseFlexInt(s string) (FlexInt, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return FlexInt(v), nil
}
