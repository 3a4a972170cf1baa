package petmed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MedicineID is the canonical identifier for a catalog medicine. Remote and
// legacy sources disagree on the wire type (some send numbers, some strings),
// so every id is normalized to a string at the boundary and compared as such.
type MedicineID string

// NewMedicineID normalizes an integer id to its canonical form.
func NewMedicineID(id int64) MedicineID {
	return MedicineID(strconv.FormatInt(id, 10))
}

func (m MedicineID) String() string { return string(m) }

// UnmarshalJSON accepts both a JSON number and a JSON string.
func (m *MedicineID) UnmarshalJSON(data []byte) error {
	s, err := flexString(data)
	if err != nil {
		return fmt.Errorf("decoding medicine id: %w", err)
	}
	*m = MedicineID(s)
	return nil
}

// MarshalJSON always emits the canonical string form.
func (m MedicineID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

// flexString decodes a JSON value that may be a number or a string into its
// string representation.
func flexString(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
