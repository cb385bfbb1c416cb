package kmsg

import (
	"errors"
	"hash/crc32"
)

// ErrRecordBatchCorrupt is returned when a record batch's CRC32-C does not
// match its contents.
var ErrRecordBatchCorrupt = errors.New("record batch crc mismatch, batch is corrupt")

// ErrUnsupportedMagic is returned when a record batch's magic byte is not
// 2; this module only speaks the v2 batch format (message sets v0/v1 are a
// Non-goal).
var ErrUnsupportedMagic = errors.New("unsupported record batch magic byte, only v2 batches are supported")

var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

// Crc32c computes the Castagnoli CRC32 checksum the record batch format
// uses, as opposed to the IEEE checksum the older message set format used.
func Crc32c(b []byte) uint32 {
	return crc32.Checksum(b, castagnoliTable)
}
