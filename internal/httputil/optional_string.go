package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString tracks presence and value for JSON partial updates.
//   - Present=false: field absent from JSON (don't change)
//   - Present=true, Value=nil: field is JSON null (clear/set to NULL)
//   - Present=true, Value=&"text": field has value
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if isNull(data) {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// OptionalStrings is the list counterpart of OptionalString.
// JSON null is read as an empty list.
type OptionalStrings struct {
	Present bool
	Values  []string
}

func (o *OptionalStrings) UnmarshalJSON(data []byte) error {
	o.Present = true

	if isNull(data) {
		o.Values = []string{}
		return nil
	}
	return json.Unmarshal(data, &o.Values)
}

func isNull(data []byte) bool {
	return string(bytes.TrimSpace(data)) == "null"
}
