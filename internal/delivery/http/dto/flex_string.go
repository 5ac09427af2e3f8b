package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexString accepts a JSON string or number. Numbers keep their literal
// text so salary inputs validate the same whether typed or pasted.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*s = FlexString(n.String())
	return nil
}

func (s *FlexString) StringPtr() *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}
