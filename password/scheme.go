package password

import (
	"fmt"

	"github.com/google/uuid"
)

// DefaultScheme is the scheme used for every new hash.
const DefaultScheme = "02"

var schemeIDs = []string{"01", "02", "03"}

// SchemeIDs returns the registered scheme identifiers in order.
func SchemeIDs() []string {
	out := make([]string, len(schemeIDs))
	copy(out, schemeIDs)
	return out
}

// ContentToHash is the transient input of a hash or validation. Salt is the
// owning record's stable identifier; its 16 raw bytes are hashed.
type ContentToHash struct {
	Content string
	Salt    uuid.UUID
}

// SchemeStatus reports whether a matching credential used the default scheme.
type SchemeStatus int

const (
	// UpToDate means the credential was produced by DefaultScheme.
	UpToDate SchemeStatus = iota
	// Outdated means the credential matched under an older scheme.
	Outdated
)

// String returns the status name.
func (s SchemeStatus) String() string {
	switch s {
	case UpToDate:
		return "up_to_date"
	case Outdated:
		return "outdated"
	default:
		return "unknown"
	}
}

// Scheme is one registered hashing algorithm.
type Scheme interface {
	Hash(c ContentToHash) (string, error)
	Validate(c ContentToHash, ref string) error
}

// Scheme returns the registered scheme for id. No work is performed for
// unknown ids.
func (h *Hasher) Scheme(id string) (Scheme, error) {
	switch id {
	case "01":
		return h.s01, nil
	case "02":
		return h.s02, nil
	case "03":
		return h.s03, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrSchemeNotFound, id)
	}
}
