package oid

import (
	"strings"

	"github.com/google/uuid"
)

// OID identifies a note across imports (the Anki note GUID).
// Importing a package again updates the notes sharing the same OID.
type OID string

// namespace scopes name-based UUIDs to notes created by this module.
var namespace = uuid.MustParse("5f0ad1e4-7a3b-4c8e-9d2f-a6b1c3e5f7a9")

func (o OID) String() string {
	return string(o)
}

// NewFromBytes returns a name-based (SHA-1) UUID without dashes.
// The same bytes always return the same OID.
func NewFromBytes(b []byte) OID {
	return OID(strings.ReplaceAll(uuid.NewSHA1(namespace, b).String(), "-", ""))
}

// NewFromFields joins note fields like Anki does before hashing them.
func NewFromFields(fields ...string) OID {
	return NewFromBytes([]byte(strings.Join(fields, "\x1f")))
}
