package kgo

import (
	"github.com/hashicorp/go-uuid"
)

// newTopicID mints a random 16-byte topic UUID. No code path in this
// module calls it.
func newTopicID() ([16]byte, error) {
	var id [16]byte
	raw, err := uuid.GenerateRandomBytes(16)
	if err != nil {
		return id, err
	}
	copy(id[:], raw)
	return id, nil
}
