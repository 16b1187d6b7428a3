package core

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// GUIDLength is the width of the textual GUID form stored in columns.
const GUIDLength = 32

// GUID is the 128-bit identity of a persisted entity.
// Its textual form is 32 lowercase hex digits without separators.
type GUID uuid.UUID

// NilGUID is the zero GUID, meaning "no identity".
var NilGUID GUID

// NewGUID returns a fresh random GUID.
func NewGUID() GUID {
	return GUID(uuid.New())
}

// ParseGUID parses the 32-digit form as well as the dashed UUID forms.
func ParseGUID(s string) (GUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NilGUID, fmt.Errorf("invalid guid %q: %w", s, err)
	}
	return GUID(u), nil
}

// IsZero reports whether g is the nil GUID.
func (g GUID) IsZero() bool {
	return g == NilGUID
}

func (g GUID) String() string {
	return hex.EncodeToString(g[:])
}
