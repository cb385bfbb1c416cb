package kgo

import (
	"time"
	"unsafe"
)

// RecordHeader is an extra key/value pair carried alongside a record. Kafka
// does not interpret these; they pass through to consumers untouched.
type RecordHeader struct {
	Key   string
	Value []byte
}

// RecordAttrs holds the per-record batch attribute bits a fetched record was
// read under (compression, timestamp type, transactional/control markers).
// Records built for producing leave this zero, and the producer does not set it.
type RecordAttrs struct {
	attrs uint8
}

// TimestampType returns how Timestamp was determined: 0 if set by the
// producing client (CreateTime), 1 if set by the broker (LogAppendTime),
// -1 if the record predates timestamps entirely.
func (a RecordAttrs) TimestampType() int8 {
	if a.attrs&0b1000_0000 != 0 {
		return -1
	}
	return int8(a.attrs & 0b0000_1000 >> 3)
}

// CompressionType returns the codec the record's batch was compressed with:
// 0 none, 1 gzip, 2 snappy, 3 lz4, 4 zstd.
func (a RecordAttrs) CompressionType() uint8 { return a.attrs & 0b0000_0111 }

// IsTransactional returns whether the record was written as part of a
// transaction.
func (a RecordAttrs) IsTransactional() bool { return a.attrs&0b0001_0000 != 0 }

// IsControl returns whether the record is a transaction control record
// (commit/abort marker), which is filtered out of fetches by default.
func (a RecordAttrs) IsControl() bool { return a.attrs&0b0010_0000 != 0 }

// Record is a single Kafka record, for producing or as returned by a fetch.
type Record struct {
	// Key is optional and, absent a custom Partitioner, determines which
	// partition the record is assigned to via murmur2 hashing.
	Key []byte
	// Value is the record's payload.
	Value []byte
	// Headers are optional application-level key/value pairs.
	Headers []RecordHeader

	// Timestamp is the record's timestamp. For producing, the zero value
	// is replaced with time.Now() when the record is partitioned.
	Timestamp time.Time

	// Topic must be set before producing.
	Topic string
	// Partition is set by the client during production (via the
	// configured Partitioner) and is always set on a fetched record.
	Partition int32

	Attrs RecordAttrs

	// ProducerEpoch and ProducerID are set on a fetched record from its
	// batch. The producer does not set them on the records it sends.
	ProducerEpoch int16
	ProducerID    int64

	// LeaderEpoch is the partition leader epoch of the batch a fetched
	// record came from. The producer does not set it.
	LeaderEpoch int32

	// Offset is set by the client after a successful produce, and is
	// always set on a fetched record.
	Offset int64

	// Result is set by the client after a successful produce. Its shape
	// depends on the configured ack mode: RequireNoAck populates only
	// UnwritableNodes, RequireLeaderAck/RequireAllISRAcks populate only
	// Offsets.
	Result *ProduceResult
}

// StringRecord returns a Record with Value set to value without copying.
// The returned record's Value must not be mutated.
func StringRecord(value string) *Record {
	return &Record{Value: unsafe.Slice(unsafe.StringData(value), len(value))}
}

// KeyStringRecord returns a Record with Key and Value set to key and value
// without copying. Neither field may be mutated afterward.
func KeyStringRecord(key, value string) *Record {
	r := StringRecord(value)
	r.Key = unsafe.Slice(unsafe.StringData(key), len(key))
	return r
}

// SliceRecord returns a Record with Value set to value.
func SliceRecord(value []byte) *Record { return &Record{Value: value} }

// KeySliceRecord returns a Record with Key and Value set to key and value.
func KeySliceRecord(key, value []byte) *Record { return &Record{Key: key, Value: value} }

// FetchPartition is one partition's worth of a Fetch response from a single
// broker.
type FetchPartition struct {
	Partition int32
	// Err is set for a partition-level fetch error. The partition stays
	// assigned and is fetched again on the next poll.
	Err              error
	HighWatermark    int64
	LastStableOffset int64
	LogStartOffset   int64
	Records          []*Record
}

// FetchTopic is one topic's worth of partitions from a single broker's Fetch
// response.
type FetchTopic struct {
	Topic      string
	Partitions []FetchPartition
}

// Fetch is one broker's response to a single Fetch request.
type Fetch struct {
	Topics []FetchTopic
}

// Fetches is everything returned by one PollFetches call: potentially one
// Fetch per broker the consumer currently has assigned partitions on.
type Fetches []Fetch

// FetchError pairs a fetch error with the topic/partition it occurred on.
type FetchError struct {
	Topic     string
	Partition int32
	Err       error
}

// Errors returns every partition-level error across all fetches.
func (fs Fetches) Errors() []FetchError {
	var errs []FetchError
	fs.EachErr(func(t string, p int32, err error) {
		errs = append(errs, FetchError{t, p, err})
	})
	return errs
}

// EachErr calls fn once per partition that had a fetch error.
func (fs Fetches) EachErr(fn func(string, int32, error)) {
	for _, f := range fs {
		for _, ft := range f.Topics {
			for _, fp := range ft.Partitions {
				if fp.Err != nil {
					fn(ft.Topic, fp.Partition, fp.Err)
				}
			}
		}
	}
}

// FetchTopicPartition pairs a topic name with one of its fetched partitions,
// for EachPartition.
type FetchTopicPartition struct {
	Topic     string
	Partition FetchPartition
}

// EachRecord calls fn for every record in this partition.
func (p *FetchTopicPartition) EachRecord(fn func(*Record)) {
	for _, r := range p.Partition.Records {
		fn(r)
	}
}

// EachPartition calls fn once per fetched partition, in no particular order.
func (fs Fetches) EachPartition(fn func(FetchTopicPartition)) {
	for _, fetch := range fs {
		for _, topic := range fetch.Topics {
			for i := range topic.Partitions {
				fn(FetchTopicPartition{Topic: topic.Topic, Partition: topic.Partitions[i]})
			}
		}
	}
}

// EachTopic calls fn once per distinct topic, merging that topic's
// partitions across every broker's fetch in this batch.
func (fs Fetches) EachTopic(fn func(FetchTopic)) {
	switch len(fs) {
	case 0:
		return
	case 1:
		for _, topic := range fs[0].Topics {
			fn(topic)
		}
		return
	}

	topics := make(map[string][]FetchPartition)
	var order []string
	for _, fetch := range fs {
		for _, topic := range fetch.Topics {
			if _, ok := topics[topic.Topic]; !ok {
				order = append(order, topic.Topic)
			}
			topics[topic.Topic] = append(topics[topic.Topic], topic.Partitions...)
		}
	}
	for _, topic := range order {
		fn(FetchTopic{Topic: topic, Partitions: topics[topic]})
	}
}

// EachRecord calls fn for every record across every fetch, in fetch order.
func (fs Fetches) EachRecord(fn func(*Record)) {
	for iter := fs.RecordIter(); !iter.Done(); {
		fn(iter.Next())
	}
}

// RecordIter returns a stateful iterator over every record in fs.
func (fs Fetches) RecordIter() *FetchesRecordIter {
	iter := &FetchesRecordIter{fetches: fs}
	iter.prepareNext()
	return iter
}

// FetchesRecordIter walks every record across a batch of Fetches, in order.
type FetchesRecordIter struct {
	fetches []Fetch
	ti, pi, ri int
}

// Done reports whether any records remain.
func (i *FetchesRecordIter) Done() bool { return len(i.fetches) == 0 }

// Next returns the next record and advances the iterator.
func (i *FetchesRecordIter) Next() *Record {
	next := i.fetches[0].Topics[i.ti].Partitions[i.pi].Records[i.ri]
	i.ri++
	i.prepareNext()
	return next
}

func (i *FetchesRecordIter) prepareNext() {
beforeFetch0:
	if len(i.fetches) == 0 {
		return
	}
	fetch0 := &i.fetches[0]
beforeTopic:
	if i.ti >= len(fetch0.Topics) {
		i.fetches = i.fetches[1:]
		i.ti = 0
		goto beforeFetch0
	}
	topic := &fetch0.Topics[i.ti]
beforePartition:
	if i.pi >= len(topic.Partitions) {
		i.ti++
		i.pi = 0
		goto beforeTopic
	}
	partition := &topic.Partitions[i.pi]
	if i.ri >= len(partition.Records) {
		i.pi++
		i.ri = 0
		goto beforePartition
	}
}
