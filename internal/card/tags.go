package card

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Tags is a list of labels stored as a JSON array.
type Tags []string

// Scan implements sql.Scanner.
func (t *Tags) Scan(value any) error {
	if value == nil {
		*t = Tags{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for Tags: %T", value)
	}
	if len(data) == 0 {
		*t = Tags{}
		return nil
	}
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return fmt.Errorf("json.Unmarshal(tags) > %w", err)
	}
	*t = tags
	return nil
}

// Value implements driver.Valuer.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(t))
	if err != nil {
		return nil, fmt.Errorf("json.Marshal(tags) > %w", err)
	}
	return string(data), nil
}
