// Package identity defines the opaque canister-style identifiers shared by
// every governance subsystem: tokens, stations, users and lock canisters are
// all the same underlying shape, distinguished only by the maps that key on
// them.
package identity

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Principal is an opaque identifier, compared and ordered by its raw bytes.
// It stands in for the Internet Computer's canister/user principal: a
// variable-length byte string with a canonical hex textual form.
//
// The raw bytes are held as a string, not a []byte: Principal is used as a
// map key throughout this module (token↔station bindings, proposal keys,
// ballot maps, admin-identity sets), and a struct containing a slice field
// is not comparable in Go. Strings are immutable and comparable, so this
// representation costs one copy at construction and nothing thereafter.
type Principal struct {
	raw string
}

// Anonymous is the sentinel identity every write entry point must reject.
var Anonymous = Principal{raw: ""}

// New wraps raw bytes as a Principal.
func New(raw []byte) Principal {
	if len(raw) == 0 {
		return Anonymous
	}
	return Principal{raw: string(raw)}
}

// FromText parses the canonical hex textual form produced by String.
func FromText(text string) (Principal, error) {
	if text == "" {
		return Anonymous, nil
	}
	raw, err := hex.DecodeString(text)
	if err != nil {
		return Principal{}, fmt.Errorf("identity: invalid principal text %q: %w", text, err)
	}
	return New(raw), nil
}

// IsAnonymous reports whether p is the anonymous sentinel.
func (p Principal) IsAnonymous() bool {
	return p.raw == ""
}

// Equal reports byte-for-byte equality. Principal also supports ==
// directly since it is a comparable struct, but Equal reads better at
// call sites.
func (p Principal) Equal(o Principal) bool {
	return p.raw == o.raw
}

// Less gives a total order over principals for use as deterministic map
// iteration / sort keys.
func (p Principal) Less(o Principal) bool {
	return strings.Compare(p.raw, o.raw) < 0
}

// String renders the canonical hex textual form.
func (p Principal) String() string {
	if p.IsAnonymous() {
		return ""
	}
	return hex.EncodeToString([]byte(p.raw))
}

// Bytes returns the underlying identifier bytes as a fresh copy.
func (p Principal) Bytes() []byte {
	return []byte(p.raw)
}

// MarshalJSON renders the principal as its hex string form.
func (p Principal) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON parses the hex string form produced by MarshalJSON.
func (p *Principal) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := FromText(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
