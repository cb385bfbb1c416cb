package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// Isolation levels for Fetch's IsolationLevel field.
const (
	IsolationReadUncommitted int8 = 0
	IsolationReadCommitted   int8 = 1
)

// FetchRequest is a Fetch request, current (flexible) version.
type FetchRequest struct {
	Version         int16
	ReplicaID       int32
	MaxWaitMillis   int32
	MinBytes        int32
	MaxBytes        int32
	IsolationLevel  int8
	SessionID       int32
	SessionEpoch    int32
	Topics          []FetchRequestTopic
}

type FetchRequestTopic struct {
	Topic      string
	Partitions []FetchRequestPartition
}

type FetchRequestPartition struct {
	Partition          int32
	CurrentLeaderEpoch int32
	FetchOffset        int64
	LastFetchedEpoch   int32
	LogStartOffset     int64
	PartitionMaxBytes  int32
}

func (*FetchRequest) Key() int16          { return Fetch }
func (*FetchRequest) MaxVersion() int16   { return 16 }
func (r *FetchRequest) SetVersion(v int16) { r.Version = v }
func (r *FetchRequest) GetVersion() int16  { return r.Version }
func (*FetchRequest) IsFlexible() bool     { return true }
func (*FetchRequest) ResponseKind() Response { return new(FetchResponse) }

func (r *FetchRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.Int32(r.ReplicaID)
	w.Int32(r.MaxWaitMillis)
	w.Int32(r.MinBytes)
	w.Int32(r.MaxBytes)
	w.Int8(r.IsolationLevel)
	w.Int32(r.SessionID)
	w.Int32(r.SessionEpoch)
	w.CompactArrayLen(len(r.Topics))
	for _, t := range r.Topics {
		w.CompactString(t.Topic)
		w.CompactArrayLen(len(t.Partitions))
		for _, p := range t.Partitions {
			w.Int32(p.Partition)
			w.Int32(p.CurrentLeaderEpoch)
			w.Int64(p.FetchOffset)
			w.Int32(p.LastFetchedEpoch)
			w.Int64(p.LogStartOffset)
			w.Int32(p.PartitionMaxBytes)
			w.EmptyTags()
		}
		w.EmptyTags()
	}
	w.CompactArrayLen(0) // forgotten topics, always empty: we never use fetch sessions' incremental removal
	w.EmptyTags()
	return w.Src
}

type FetchResponse struct {
	Version        int16
	ThrottleMillis int32
	ErrorCode      int16
	SessionID      int32
	Topics         []FetchResponseTopic
}

type FetchResponseTopic struct {
	Topic      string
	Partitions []FetchResponsePartition
}

type FetchResponsePartition struct {
	Partition        int32
	ErrorCode        int16
	HighWatermark    int64
	LastStableOffset int64
	LogStartOffset   int64
	AbortedTxns      []FetchAbortedTransaction
	PreferredReadReplica int32
	RecordsData      []byte
}

type FetchAbortedTransaction struct {
	ProducerID  int64
	FirstOffset int64
}

func (*FetchResponse) Key() int16          { return Fetch }
func (r *FetchResponse) SetVersion(v int16) { r.Version = v }
func (r *FetchResponse) GetVersion() int16  { return r.Version }
func (*FetchResponse) IsFlexible() bool     { return true }

func (r *FetchResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	r.ErrorCode = b.Int16()
	r.SessionID = b.Int32()
	numTopics := b.CompactArrayLen()
	r.Topics = make([]FetchResponseTopic, numTopics)
	for i := range r.Topics {
		t := &r.Topics[i]
		t.Topic = b.CompactString()
		numParts := b.CompactArrayLen()
		t.Partitions = make([]FetchResponsePartition, numParts)
		for j := range t.Partitions {
			p := &t.Partitions[j]
			p.Partition = b.Int32()
			p.ErrorCode = b.Int16()
			p.HighWatermark = b.Int64()
			p.LastStableOffset = b.Int64()
			p.LogStartOffset = b.Int64()
			numAborted := b.CompactArrayLen()
			p.AbortedTxns = make([]FetchAbortedTransaction, numAborted)
			for k := range p.AbortedTxns {
				p.AbortedTxns[k].ProducerID = b.Int64()
				p.AbortedTxns[k].FirstOffset = b.Int64()
				SkipTags(b)
			}
			p.PreferredReadReplica = b.Int32()
			p.RecordsData = b.CompactNullableBytes()
			SkipTags(b)
		}
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}
