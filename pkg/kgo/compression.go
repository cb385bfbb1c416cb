package kgo

import (
	"fmt"

	"github.com/platformatic/kgo/pkg/kmsg"
)

// CompressionCodec configures one compression algorithm a producer may use,
// in order of preference passed to WithCompressionPreference. The first
// codec in that list is used for every batch; broker support for it is not
// checked, and there is no fallback to another codec.
type CompressionCodec struct {
	codec kmsg.Codec
	name  string
}

func (c CompressionCodec) validate() error {
	if c.codec == nil {
		return fmt.Errorf("invalid zero-value CompressionCodec")
	}
	return nil
}

// NoCompression sends batches uncompressed. This is the default.
func NoCompression() CompressionCodec {
	return CompressionCodec{codec: kmsg.NoCodec{}, name: "none"}
}

// GzipCompression compresses batches with gzip at the given level (0 means
// gzip.DefaultCompression).
func GzipCompression(level int) CompressionCodec {
	return CompressionCodec{codec: kmsg.GzipCodec{Level: level}, name: "gzip"}
}

// SnappyCompression compresses batches with Kafka's xerial-framed snappy
// format.
func SnappyCompression() CompressionCodec {
	return CompressionCodec{codec: kmsg.SnappyCodec{}, name: "snappy"}
}

// Lz4Compression compresses batches with the Kafka-flavored LZ4 frame
// format.
func Lz4Compression() CompressionCodec {
	return CompressionCodec{codec: kmsg.Lz4Codec{}, name: "lz4"}
}

// ZstdCompression compresses batches with zstd at zstd.SpeedDefault; the
// encoder level cannot be chosen through this function.
func ZstdCompression() CompressionCodec {
	return CompressionCodec{codec: kmsg.ZstdCodec{}, name: "zstd"}
}

func (c CompressionCodec) String() string { return c.name }
