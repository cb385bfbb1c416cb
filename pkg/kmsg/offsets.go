package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// OffsetCommitRequest is an OffsetCommit request, v9 (flexible).
type OffsetCommitRequest struct {
	Version         int16
	Group           string
	Generation      int32
	MemberID        string
	InstanceID      *string
	Topics          []OffsetCommitRequestTopic
}

type OffsetCommitRequestTopic struct {
	Topic      string
	Partitions []OffsetCommitRequestPartition
}

type OffsetCommitRequestPartition struct {
	Partition   int32
	Offset      int64
	LeaderEpoch int32
	Metadata    *string
}

func (*OffsetCommitRequest) Key() int16          { return OffsetCommit }
func (*OffsetCommitRequest) MaxVersion() int16   { return 9 }
func (r *OffsetCommitRequest) SetVersion(v int16) { r.Version = v }
func (r *OffsetCommitRequest) GetVersion() int16  { return r.Version }
func (*OffsetCommitRequest) IsFlexible() bool     { return true }
func (*OffsetCommitRequest) ResponseKind() Response { return new(OffsetCommitResponse) }
func (*OffsetCommitRequest) IsGroupCoordinatorRequest() {}

func (r *OffsetCommitRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactString(r.Group)
	w.Int32(r.Generation)
	w.CompactString(r.MemberID)
	w.CompactNullableString(r.InstanceID)
	w.CompactArrayLen(len(r.Topics))
	for _, t := range r.Topics {
		w.CompactString(t.Topic)
		w.CompactArrayLen(len(t.Partitions))
		for _, p := range t.Partitions {
			w.Int32(p.Partition)
			w.Int64(p.Offset)
			w.Int32(p.LeaderEpoch)
			w.CompactNullableString(p.Metadata)
			w.EmptyTags()
		}
		w.EmptyTags()
	}
	w.EmptyTags()
	return w.Src
}

type OffsetCommitResponse struct {
	Version        int16
	ThrottleMillis int32
	Topics         []OffsetCommitResponseTopic
}

type OffsetCommitResponseTopic struct {
	Topic      string
	Partitions []OffsetCommitResponsePartition
}

type OffsetCommitResponsePartition struct {
	Partition int32
	ErrorCode int16
}

func (*OffsetCommitResponse) Key() int16          { return OffsetCommit }
func (r *OffsetCommitResponse) SetVersion(v int16) { r.Version = v }
func (r *OffsetCommitResponse) GetVersion() int16  { return r.Version }
func (*OffsetCommitResponse) IsFlexible() bool     { return true }

func (r *OffsetCommitResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	numTopics := b.CompactArrayLen()
	r.Topics = make([]OffsetCommitResponseTopic, numTopics)
	for i := range r.Topics {
		t := &r.Topics[i]
		t.Topic = b.CompactString()
		numParts := b.CompactArrayLen()
		t.Partitions = make([]OffsetCommitResponsePartition, numParts)
		for j := range t.Partitions {
			t.Partitions[j].Partition = b.Int32()
			t.Partitions[j].ErrorCode = b.Int16()
			SkipTags(b)
		}
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}

// OffsetFetchRequest is an OffsetFetch request, current (single-group,
// flexible) version.
type OffsetFetchRequest struct {
	Version       int16
	Group         string
	Topics        []OffsetFetchRequestTopic
	RequireStable bool
}

type OffsetFetchRequestTopic struct {
	Topic      string
	Partitions []int32
}

func (*OffsetFetchRequest) Key() int16          { return OffsetFetch }
func (*OffsetFetchRequest) MaxVersion() int16   { return 8 }
func (r *OffsetFetchRequest) SetVersion(v int16) { r.Version = v }
func (r *OffsetFetchRequest) GetVersion() int16  { return r.Version }
func (*OffsetFetchRequest) IsFlexible() bool     { return true }
func (*OffsetFetchRequest) ResponseKind() Response { return new(OffsetFetchResponse) }
func (*OffsetFetchRequest) IsGroupCoordinatorRequest() {}

func (r *OffsetFetchRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactString(r.Group)
	if r.Topics == nil {
		w.Uvarint(0)
	} else {
		w.CompactArrayLen(len(r.Topics))
		for _, t := range r.Topics {
			w.CompactString(t.Topic)
			w.CompactArrayLen(len(t.Partitions))
			for _, p := range t.Partitions {
				w.Int32(p)
			}
			w.EmptyTags()
		}
	}
	w.Bool(r.RequireStable)
	w.EmptyTags()
	return w.Src
}

type OffsetFetchResponse struct {
	Version        int16
	ThrottleMillis int32
	Topics         []OffsetFetchResponseTopic
	ErrorCode      int16
}

type OffsetFetchResponseTopic struct {
	Topic      string
	Partitions []OffsetFetchResponsePartition
}

type OffsetFetchResponsePartition struct {
	Partition   int32
	Offset      int64
	LeaderEpoch int32
	Metadata    *string
	ErrorCode   int16
}

func (*OffsetFetchResponse) Key() int16          { return OffsetFetch }
func (r *OffsetFetchResponse) SetVersion(v int16) { r.Version = v }
func (r *OffsetFetchResponse) GetVersion() int16  { return r.Version }
func (*OffsetFetchResponse) IsFlexible() bool     { return true }

func (r *OffsetFetchResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	numTopics := b.CompactArrayLen()
	r.Topics = make([]OffsetFetchResponseTopic, numTopics)
	for i := range r.Topics {
		t := &r.Topics[i]
		t.Topic = b.CompactString()
		numParts := b.CompactArrayLen()
		t.Partitions = make([]OffsetFetchResponsePartition, numParts)
		for j := range t.Partitions {
			p := &t.Partitions[j]
			p.Partition = b.Int32()
			p.Offset = b.Int64()
			p.LeaderEpoch = b.Int32()
			p.Metadata = b.CompactNullableString()
			p.ErrorCode = b.Int16()
			SkipTags(b)
		}
		SkipTags(b)
	}
	r.ErrorCode = b.Int16()
	SkipTags(b)
	return b.Complete()
}
