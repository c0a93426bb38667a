package types

import (
	"encoding/json"
	"fmt"
)

// StringOrNumber is a JSON scalar that the API serves inconsistently as a
// string or a number. It always decodes to its string form.
type StringOrNumber string

func (s *StringOrNumber) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = StringOrNumber(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("scalar is neither string nor number: %w", err)
	}
	*s = StringOrNumber(num.String())
	return nil
}

func (s StringOrNumber) String() string {
	return string(s)
}
