package kgo

import (
	"golang.org/x/exp/rand"
)

// TopicPartitioner is returned by Partitioner.ForTopic for each topic a
// client produces to. A new one is created whenever a topic's partition
// count changes.
type TopicPartitioner interface {
	// RequiresConsistency returns whether a record given to Partition
	// must be partitioned to the same partition every time it is seen
	// with the same key (used to decide whether records may be split
	// across retries / batch rebuilds).
	RequiresConsistency(r *Record) bool
	// Partition returns the partition to use for r, given n partitions.
	Partition(r *Record, n int) int
	// OnNewBatch is called whenever a new batch is produced to a
	// partition, letting round-robin style partitioners roll forward.
	OnNewBatch()
}

// Partitioner creates per-topic partitioning state.
type Partitioner interface {
	ForTopic(topic string) TopicPartitioner
}

// StickyKeyPartitioner returns the default partitioner: records with a key
// are hashed with murmur2 to a partition, and stick to that partition for
// the lifetime of the current batch when keyless (round-robin otherwise
// would interleave keyless and keyed records across partitions batch by
// batch).
func StickyKeyPartitioner() Partitioner { return new(stickyKeyPartitioner) }

type stickyKeyPartitioner struct{}

func (*stickyKeyPartitioner) ForTopic(string) TopicPartitioner {
	return &stickyKeyTopicPartitioner{sticky: -1}
}

type stickyKeyTopicPartitioner struct {
	sticky int // current partition for keyless records, -1 until chosen
}

func (*stickyKeyTopicPartitioner) RequiresConsistency(r *Record) bool {
	return r.Key != nil
}

func (p *stickyKeyTopicPartitioner) Partition(r *Record, n int) int {
	if n <= 0 {
		return 0
	}
	if r.Key != nil {
		return int(murmur2(r.Key)&0x7fffffff) % n
	}
	if p.sticky < 0 || p.sticky >= n {
		p.sticky = int(uint64(randUint32())) % n
	}
	return p.sticky
}

func (p *stickyKeyTopicPartitioner) OnNewBatch() { p.sticky = -1 }

// RoundRobinPartitioner cycles through partitions one record at a time,
// ignoring keys entirely.
func RoundRobinPartitioner() Partitioner { return new(roundRobinPartitioner) }

type roundRobinPartitioner struct{}

func (*roundRobinPartitioner) ForTopic(string) TopicPartitioner {
	return &roundRobinTopicPartitioner{}
}

type roundRobinTopicPartitioner struct {
	counter int
}

func (*roundRobinTopicPartitioner) RequiresConsistency(*Record) bool { return false }

func (p *roundRobinTopicPartitioner) Partition(_ *Record, n int) int {
	if n <= 0 {
		return 0
	}
	part := p.counter % n
	p.counter++
	return part
}

func (*roundRobinTopicPartitioner) OnNewBatch() {}

// ManualPartitioner uses whatever partition the caller set on Record.Partition;
// a negative value becomes 0, and the result is taken modulo the topic's
// partition count.
func ManualPartitioner() Partitioner { return new(manualPartitioner) }

type manualPartitioner struct{}

func (*manualPartitioner) ForTopic(string) TopicPartitioner { return manualTopicPartitioner{} }

type manualTopicPartitioner struct{}

func (manualTopicPartitioner) RequiresConsistency(*Record) bool { return true }
func (manualTopicPartitioner) Partition(r *Record, n int) int {
	if n <= 0 {
		return 0
	}
	p := r.Partition
	if p < 0 {
		p = 0
	}
	return p % n
}
func (manualTopicPartitioner) OnNewBatch() {}

var globalRand = rand.New(new(rand.PCGSource))

// randUint32 picks the package's sticky-partition starting point. A *Client
// carries its own rng (seeded the same way), which it uses only to shuffle
// its broker list; retry backoff has no jitter.
func randUint32() uint32 { return globalRand.Uint32() }

// murmur2 is the 32-bit murmur2 variant the Kafka Java client uses for key
// partitioning (org.apache.kafka.common.utils.Utils.murmur2): seed
// 0x9747b28c, single mixing constant m=0x5bd1e995, shift r=24.
func murmur2(data []byte) int32 {
	const (
		seed uint32 = 0x9747b28c
		m    uint32 = 0x5bd1e995
		r    uint32 = 24
	)

	length := len(data)
	h := seed ^ uint32(length)
	nblocks := length / 4

	for i := 0; i < nblocks; i++ {
		k := uint32(data[i*4+0]) |
			uint32(data[i*4+1])<<8 |
			uint32(data[i*4+2])<<16 |
			uint32(data[i*4+3])<<24

		k *= m
		k ^= k >> r
		k *= m

		h *= m
		h ^= k
	}

	extra := length % 4
	tail := data[length-extra:]
	switch extra {
	case 3:
		h ^= uint32(tail[2]) << 16
		fallthrough
	case 2:
		h ^= uint32(tail[1]) << 8
		fallthrough
	case 1:
		h ^= uint32(tail[0])
		h *= m
	}

	h ^= h >> 13
	h *= m
	h ^= h >> 15

	return int32(h)
}
