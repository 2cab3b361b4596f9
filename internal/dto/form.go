package dto

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FormValue is a form field submitted as text. JSON numbers are accepted and kept verbatim
// so that "1.25" and 1.25 reach the parser identically.
type FormValue string

// UnmarshalJSON accepts a JSON string, number or null.
func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = FormValue(n.String())
	return nil
}

// Trim returns the value without surrounding whitespace.
func (v FormValue) Trim() string {
	return strings.TrimSpace(string(v))
}
