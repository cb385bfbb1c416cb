package kmsg

import (
	"github.com/platformatic/kgo/pkg/kbin"
)

// RecordBatch is the v2 record batch container format used by both the
// produce and fetch paths. Everything from Attributes through Records is
// covered by the CRC.
type RecordBatch struct {
	BaseOffset           int64
	BatchLength          int32 // computed on encode, set on decode
	PartitionLeaderEpoch int32
	Magic                int8 // always 2
	CRC                   int32
	Attributes           int16
	LastOffsetDelta      int32
	FirstTimestamp       int64
	MaxTimestamp         int64
	ProducerID           int64
	ProducerEpoch        int16
	BaseSequence         int32
	Records              []Record
}

// Record is a single record inside a RecordBatch, before the base-relative
// fields (offset, timestamp) have been resolved against the batch they
// came from.
type Record struct {
	Attributes     int8
	TimestampDelta int64
	OffsetDelta    int32
	Key            []byte
	Value          []byte
	Headers        []RecordHeader
}

// RecordHeader is a single header key/value pair carried on a record.
type RecordHeader struct {
	Key   string
	Value []byte
}

// Record batch attribute bits (lower 3 bits: compression codec).
const (
	CompressionNone   = 0
	CompressionGzip   = 1
	CompressionSnappy = 2
	CompressionLz4    = 3
	CompressionZstd   = 4

	compressionMask = 0b0000_0111
	attrTransactional = 0b0001_0000
	attrControl        = 0b0010_0000
)

// IsTransactional reports whether the batch's attributes mark it as part
// of a transaction.
func (b *RecordBatch) IsTransactional() bool { return b.Attributes&attrTransactional != 0 }

// IsControl reports whether the batch is a transaction marker (commit or
// abort), rather than user data.
func (b *RecordBatch) IsControl() bool { return b.Attributes&attrControl != 0 }

// Codec returns the compression codec bits of the batch's attributes.
func (b *RecordBatch) Codec() int16 { return b.Attributes & compressionMask }

// AppendTo serializes the batch, including computing BatchLength and CRC,
// appending the encoded bytes to dst. codec compresses the record section
// if non-nil; the low 3 bits of Attributes are overwritten to match.
func (b *RecordBatch) AppendTo(dst []byte, codec Codec) []byte {
	var body []byte
	for i := range b.Records {
		body = appendRecord(body, &b.Records[i])
	}
	codecBits := int16(CompressionNone)
	if codec != nil {
		compressed, bits := codec.Compress(body)
		if compressed != nil {
			body = compressed
			codecBits = bits
		}
	}
	attrs := (b.Attributes &^ compressionMask) | codecBits

	start := len(dst)
	dst = kbin.AppendInt64(dst, b.BaseOffset)
	lenAt := len(dst)
	dst = kbin.AppendInt32(dst, 0) // batch length patched below
	dst = kbin.AppendInt32(dst, b.PartitionLeaderEpoch)
	dst = kbin.AppendInt8(dst, 2) // magic
	crcAt := len(dst)
	dst = kbin.AppendInt32(dst, 0) // crc patched below
	crcStart := len(dst)
	dst = kbin.AppendInt16(dst, attrs)
	dst = kbin.AppendInt32(dst, b.LastOffsetDelta)
	dst = kbin.AppendInt64(dst, b.FirstTimestamp)
	dst = kbin.AppendInt64(dst, b.MaxTimestamp)
	dst = kbin.AppendInt64(dst, b.ProducerID)
	dst = kbin.AppendInt16(dst, b.ProducerEpoch)
	dst = kbin.AppendInt32(dst, b.BaseSequence)
	dst = kbin.AppendInt32(dst, int32(len(b.Records)))
	dst = append(dst, body...)

	batchLen := int32(len(dst) - lenAt - 4)
	putInt32(dst[lenAt:], batchLen)
	crc := Crc32c(dst[crcStart:])
	putInt32(dst[crcAt:], int32(crc))
	_ = start
	return dst
}

func putInt32(dst []byte, v int32) {
	u := uint32(v)
	dst[0] = byte(u >> 24)
	dst[1] = byte(u >> 16)
	dst[2] = byte(u >> 8)
	dst[3] = byte(u)
}

func appendRecord(dst []byte, r *Record) []byte {
	var body []byte
	body = kbin.AppendInt8(body, r.Attributes)
	body = kbin.AppendVarlong(body, r.TimestampDelta)
	body = kbin.AppendVarint(body, r.OffsetDelta)
	body = appendVarintBytes(body, r.Key)
	body = appendVarintBytes(body, r.Value)
	body = kbin.AppendVarint(body, int32(len(r.Headers)))
	for _, h := range r.Headers {
		body = kbin.AppendVarint(body, int32(len(h.Key)))
		body = append(body, h.Key...)
		body = appendVarintBytes(body, h.Value)
	}
	dst = kbin.AppendVarint(dst, int32(len(body)))
	return append(dst, body...)
}

func appendVarintBytes(dst, b []byte) []byte {
	if b == nil {
		return kbin.AppendVarint(dst, -1)
	}
	dst = kbin.AppendVarint(dst, int32(len(b)))
	return append(dst, b...)
}

// ReadRecordBatch parses a single record batch (header plus however many
// records BatchLength says are present) from the front of src, returning
// the remainder of src after the batch and any error.
//
// A nil, nil return (with unchanged src) signals there was not enough
// data in src for the 12-byte offset+length prefix or for the whole batch
// that prefix announces, which callers
// use to know a fetch response ended mid-batch and should be retried
// rather than treated as corrupt.
func ReadRecordBatch(src []byte) (*RecordBatch, []byte, error) {
	if len(src) < 12 {
		return nil, src, nil
	}
	r := kbin.Reader{Src: src}
	b := new(RecordBatch)
	b.BaseOffset = r.Int64()
	b.BatchLength = r.Int32()
	if !r.Ok() {
		return nil, src, nil
	}
	need := int(b.BatchLength)
	if len(r.Src) < need {
		return nil, src, nil
	}
	batchBody := r.Src[:need]
	rest := src[12+need:]

	r = kbin.Reader{Src: batchBody}
	b.PartitionLeaderEpoch = r.Int32()
	b.Magic = r.Int8()
	if b.Magic != 2 {
		return nil, rest, ErrUnsupportedMagic
	}
	b.CRC = r.Int32()
	crcBody := r.Src
	b.Attributes = r.Int16()
	b.LastOffsetDelta = r.Int32()
	b.FirstTimestamp = r.Int64()
	b.MaxTimestamp = r.Int64()
	b.ProducerID = r.Int64()
	b.ProducerEpoch = r.Int16()
	b.BaseSequence = r.Int32()
	numRecords := r.Int32()
	if err := r.Complete(); err != nil {
		return nil, rest, err
	}

	if got := Crc32c(crcBody); int32(got) != b.CRC {
		return nil, rest, ErrRecordBatchCorrupt
	}

	codec := b.Codec()
	recordsBody := r.Src
	if codec != CompressionNone {
		decompressed, err := Decompress(recordsBody, codec)
		if err != nil {
			return nil, rest, err
		}
		recordsBody = decompressed
	}

	rr := kbin.Reader{Src: recordsBody}
	b.Records = make([]Record, 0, numRecords)
	for i := int32(0); i < numRecords; i++ {
		rec, err := readRecord(&rr)
		if err != nil {
			return nil, rest, err
		}
		b.Records = append(b.Records, rec)
	}
	if err := rr.Complete(); err != nil {
		return nil, rest, err
	}
	return b, rest, nil
}

func readRecord(r *kbin.Reader) (Record, error) {
	var rec Record
	length := r.Varint()
	body := r.Span(int(length))
	if !r.Ok() {
		return rec, ErrNotEnoughData
	}
	br := kbin.Reader{Src: body}
	rec.Attributes = br.Int8()
	rec.TimestampDelta = br.Varlong()
	rec.OffsetDelta = br.Varint()
	rec.Key = readVarintBytes(&br)
	rec.Value = readVarintBytes(&br)
	numHeaders := br.Varint()
	for i := int32(0); i < numHeaders; i++ {
		var h RecordHeader
		klen := br.Varint()
		h.Key = string(br.Span(int(klen)))
		h.Value = readVarintBytes(&br)
		rec.Headers = append(rec.Headers, h)
	}
	if err := br.Complete(); err != nil {
		return rec, err
	}
	return rec, nil
}

func readVarintBytes(r *kbin.Reader) []byte {
	l := r.Varint()
	if l < 0 {
		return nil
	}
	return r.Span(int(l))
}

// ErrNotEnoughData mirrors kbin.ErrNotEnoughData for record-local parsing.
var ErrNotEnoughData = kbin.ErrNotEnoughData
