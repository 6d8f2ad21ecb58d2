package sessionstore

import (
	"github.com/google/uuid"
	"github.com/rs/xid"
)

// KeyGenerator produces candidate session keys. Generators are not
// required to guarantee uniqueness; Handler.GenerateKey probes the store
// for collisions.
type KeyGenerator interface {
	Generate() string
}

var (
	_ KeyGenerator = UUIDGenerator{}
	_ KeyGenerator = XIDGenerator{}
)

// UUIDGenerator issues random version 4 UUIDs. It is the default.
type UUIDGenerator struct{}

func (UUIDGenerator) Generate() string { return uuid.NewString() }

// XIDGenerator issues sortable 20 character xid identifiers, shorter than
// UUIDs and ordered by creation time.
type XIDGenerator struct{}

func (XIDGenerator) Generate() string { return xid.New().String() }
