package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// Sentinel timestamps for ListOffsetsRequestPartition.Timestamp.
const (
	TimestampLatest   int64 = -1
	TimestampEarliest int64 = -2
)

// ListOffsetsRequest is a ListOffsets request, v6+ (flexible).
type ListOffsetsRequest struct {
	Version        int16
	ReplicaID      int32
	IsolationLevel int8
	Topics         []ListOffsetsRequestTopic
}

type ListOffsetsRequestTopic struct {
	Topic      string
	Partitions []ListOffsetsRequestPartition
}

type ListOffsetsRequestPartition struct {
	Partition          int32
	CurrentLeaderEpoch int32
	Timestamp          int64
}

func (*ListOffsetsRequest) Key() int16          { return ListOffsets }
func (*ListOffsetsRequest) MaxVersion() int16   { return 8 }
func (r *ListOffsetsRequest) SetVersion(v int16) { r.Version = v }
func (r *ListOffsetsRequest) GetVersion() int16  { return r.Version }
func (*ListOffsetsRequest) IsFlexible() bool     { return true }
func (*ListOffsetsRequest) ResponseKind() Response { return new(ListOffsetsResponse) }

func (r *ListOffsetsRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.Int32(r.ReplicaID)
	w.Int8(r.IsolationLevel)
	w.CompactArrayLen(len(r.Topics))
	for _, t := range r.Topics {
		w.CompactString(t.Topic)
		w.CompactArrayLen(len(t.Partitions))
		for _, p := range t.Partitions {
			w.Int32(p.Partition)
			w.Int32(p.CurrentLeaderEpoch)
			w.Int64(p.Timestamp)
			w.EmptyTags()
		}
		w.EmptyTags()
	}
	w.EmptyTags()
	return w.Src
}

type ListOffsetsResponse struct {
	Version        int16
	ThrottleMillis int32
	Topics         []ListOffsetsResponseTopic
}

type ListOffsetsResponseTopic struct {
	Topic      string
	Partitions []ListOffsetsResponsePartition
}

type ListOffsetsResponsePartition struct {
	Partition   int32
	ErrorCode   int16
	Timestamp   int64
	Offset      int64
	LeaderEpoch int32
}

func (*ListOffsetsResponse) Key() int16          { return ListOffsets }
func (r *ListOffsetsResponse) SetVersion(v int16) { r.Version = v }
func (r *ListOffsetsResponse) GetVersion() int16  { return r.Version }
func (*ListOffsetsResponse) IsFlexible() bool     { return true }

func (r *ListOffsetsResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	numTopics := b.CompactArrayLen()
	r.Topics = make([]ListOffsetsResponseTopic, numTopics)
	for i := range r.Topics {
		t := &r.Topics[i]
		t.Topic = b.CompactString()
		numParts := b.CompactArrayLen()
		t.Partitions = make([]ListOffsetsResponsePartition, numParts)
		for j := range t.Partitions {
			p := &t.Partitions[j]
			p.Partition = b.Int32()
			p.ErrorCode = b.Int16()
			p.Timestamp = b.Int64()
			p.Offset = b.Int64()
			p.LeaderEpoch = b.Int32()
			SkipTags(b)
		}
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}
