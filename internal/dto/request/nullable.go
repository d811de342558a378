package request

import "github.com/goccy/go-json"

// NullableString tells an absent field from an explicit null.
// Set is true when the key was present; Value is nil for null.
type NullableString struct {
	Set   bool
	Value *string
}

// SetString is a present, non-null value.
func SetString(value string) NullableString {
	return NullableString{Set: true, Value: &value}
}

// Null is a present null.
func Null() NullableString {
	return NullableString{Set: true}
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	n.Value = &value
	return nil
}
