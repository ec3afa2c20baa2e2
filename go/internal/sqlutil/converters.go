package sqlutil

import (
	"encoding/json"
	"fmt"

	"github.com/sqlc-dev/pqtype"
)

// Helper functions for converting between Go values and jsonb columns

// ToNullRawMessage marshals v into a jsonb parameter. A nil v is SQL NULL.
func ToNullRawMessage(v any) (pqtype.NullRawMessage, error) {
	if v == nil {
		return pqtype.NullRawMessage{Valid: false}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return pqtype.NullRawMessage{}, fmt.Errorf("marshal jsonb: %w", err)
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}, nil
}

// FromNullRawMessage unmarshals a jsonb column into target. NULL leaves target untouched.
func FromNullRawMessage(val pqtype.NullRawMessage, target any) error {
	if !val.Valid || len(val.RawMessage) == 0 {
		return nil
	}
	if err := json.Unmarshal(val.RawMessage, target); err != nil {
		return fmt.Errorf("unmarshal jsonb: %w", err)
	}
	return nil
}
