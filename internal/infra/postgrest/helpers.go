package postgrest

import (
	"encoding/json"
	"fmt"
	"time"
)

// storeTime tolerates the two timestamp shapes the store emits:
// RFC3339 and bare dates.
type storeTime struct {
	time.Time
}

func (t *storeTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// insertedID extracts the id column from a return=representation body,
// which PostgREST wraps in a one-element array.
func insertedID(body []byte) (int64, error) {
	var rows []struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, fmt.Errorf("decode insert representation: %w", err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("insert returned no representation")
	}
	return rows[0].ID, nil
}

func timeOrNil(t *storeTime) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	tt := t.Time
	return &tt
}
