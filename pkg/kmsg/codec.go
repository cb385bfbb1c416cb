package kmsg

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrUnsupportedCompression is returned when a fetched record batch uses a
// compression codec this build was not compiled to understand.
var ErrUnsupportedCompression = errors.New("unsupported compression codec")

// Codec compresses the serialized records section of a batch before it is
// appended to the batch header, and is consulted again on decode via
// Decompress. A Codec that declines to compress (e.g. too small a payload)
// returns a nil slice from Compress and the batch is written uncompressed.
type Codec interface {
	// Compress returns the compressed form of src and the attribute bits
	// identifying the codec, or (nil, 0) to decline compression.
	Compress(src []byte) ([]byte, int16)
}

// NoCodec never compresses; producing with it yields CompressionNone
// batches.
type NoCodec struct{}

func (NoCodec) Compress(src []byte) ([]byte, int16) { return nil, CompressionNone }

// GzipCodec compresses with the standard library's gzip implementation at
// the given level (gzip.DefaultCompression if zero).
type GzipCodec struct{ Level int }

func (c GzipCodec) Compress(src []byte) ([]byte, int16) {
	level := c.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, CompressionNone
	}
	if _, err := w.Write(src); err != nil {
		return nil, CompressionNone
	}
	if err := w.Close(); err != nil {
		return nil, CompressionNone
	}
	return buf.Bytes(), CompressionGzip
}

// SnappyCodec compresses using Kafka's xerial-framed snappy format, which
// prefixes each chunk with the xerial magic and block length rather than
// using raw block snappy.
type SnappyCodec struct{}

var xerialHeader = []byte{0x82, 'S', 'N', 'A', 'P', 'P', 'Y', 0, 0, 0, 0, 1, 0, 0, 0, 1}

func (SnappyCodec) Compress(src []byte) ([]byte, int16) {
	block := snappy.Encode(nil, src)
	out := make([]byte, 0, len(xerialHeader)+4+len(block))
	out = append(out, xerialHeader...)
	out = appendBigEndianUint32(out, uint32(len(block)))
	out = append(out, block...)
	return out, CompressionSnappy
}

func appendBigEndianUint32(dst []byte, v uint32) []byte {
	return append(dst, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// Lz4Codec compresses using the Kafka-flavored LZ4 frame format (frame
// content checksum disabled, as brokers do not verify it).
type Lz4Codec struct{}

func (Lz4Codec) Compress(src []byte) ([]byte, int16) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	opts := []lz4.Option{lz4.ChecksumOption(false)}
	if err := w.Apply(opts...); err != nil {
		return nil, CompressionNone
	}
	if _, err := w.Write(src); err != nil {
		return nil, CompressionNone
	}
	if err := w.Close(); err != nil {
		return nil, CompressionNone
	}
	return buf.Bytes(), CompressionLz4
}

// ZstdCodec compresses using klauspost/compress's zstd implementation at
// the given encoder level (zstd.SpeedDefault if zero-valued).
type ZstdCodec struct{ Level zstd.EncoderLevel }

func (c ZstdCodec) Compress(src []byte) ([]byte, int16) {
	level := c.Level
	if level == 0 {
		level = zstd.SpeedDefault
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, CompressionNone
	}
	defer enc.Close()
	return enc.EncodeAll(src, nil), CompressionZstd
}

// Decompress decompresses a record section according to codec (one of the
// CompressionXxx constants), as identified by the batch's attribute bits.
func Decompress(src []byte, codec int16) ([]byte, error) {
	switch codec {
	case CompressionNone:
		return src, nil
	case CompressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(src))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case CompressionSnappy:
		return decompressSnappy(src)
	case CompressionLz4:
		r := lz4.NewReader(bytes.NewReader(src))
		return io.ReadAll(r)
	case CompressionZstd:
		d, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer d.Close()
		return d.DecodeAll(src, nil)
	default:
		return nil, ErrUnsupportedCompression
	}
}

func decompressSnappy(src []byte) ([]byte, error) {
	if len(src) > len(xerialHeader) && bytes.Equal(src[:8], xerialHeader[:8]) {
		var out []byte
		body := src[16:]
		for len(body) > 0 {
			if len(body) < 4 {
				return nil, errors.New("truncated xerial snappy chunk length")
			}
			chunkLen := int(body[0])<<24 | int(body[1])<<16 | int(body[2])<<8 | int(body[3])
			body = body[4:]
			if len(body) < chunkLen {
				return nil, errors.New("truncated xerial snappy chunk body")
			}
			decoded, err := snappy.Decode(nil, body[:chunkLen])
			if err != nil {
				return nil, err
			}
			out = append(out, decoded...)
			body = body[chunkLen:]
		}
		return out, nil
	}
	return snappy.Decode(nil, src)
}
