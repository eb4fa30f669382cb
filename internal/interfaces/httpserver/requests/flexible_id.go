package requests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexibleID accepts an identifier sent either as a JSON number or a JSON
// string and keeps its textual form. Null and absent values stay empty.
type FlexibleID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a number or a string")
	}
	*f = FlexibleID(n.String())
	return nil
}

// String returns the identifier as received.
func (f FlexibleID) String() string {
	return string(f)
}

// Empty reports whether no identifier was sent.
func (f FlexibleID) Empty() bool {
	return strings.TrimSpace(string(f)) == ""
}

// Int64 parses the identifier as an integer.
func (f FlexibleID) Int64() (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(string(f)), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
