package task

import (
	"encoding/json"
	"fmt"
)

// UnmarshalJSON decodes a task, using the category to pick the details variant.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	var raw struct {
		plain
		Details json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode task: %w", err)
	}
	decoded := Task(raw.plain)
	decoded.Details = nil
	if len(raw.Details) > 0 && string(raw.Details) != "null" {
		details, err := DecodeDetails(decoded.Category, raw.Details)
		if err != nil {
			return err
		}
		decoded.Details = details
	}
	*t = decoded
	return nil
}
