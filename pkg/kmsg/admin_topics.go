package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// CreateTopicsRequest is a CreateTopics request, current (flexible)
// version.
type CreateTopicsRequest struct {
	Version        int16
	Topics         []CreateTopicsRequestTopic
	TimeoutMillis  int32
	ValidateOnly   bool
}

type CreateTopicsRequestTopic struct {
	Topic             string
	NumPartitions     int32
	ReplicationFactor int16
	Assignments       []CreateTopicsRequestTopicAssignment
	Configs           []CreateTopicsRequestTopicConfig
}

type CreateTopicsRequestTopicAssignment struct {
	Partition int32
	Replicas  []int32
}

type CreateTopicsRequestTopicConfig struct {
	Name  string
	Value *string
}

func (*CreateTopicsRequest) Key() int16          { return CreateTopics }
func (*CreateTopicsRequest) MaxVersion() int16   { return 7 }
func (r *CreateTopicsRequest) SetVersion(v int16) { r.Version = v }
func (r *CreateTopicsRequest) GetVersion() int16  { return r.Version }
func (*CreateTopicsRequest) IsFlexible() bool     { return true }
func (*CreateTopicsRequest) ResponseKind() Response { return new(CreateTopicsResponse) }
func (*CreateTopicsRequest) IsAdminRequest() {}

func (r *CreateTopicsRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactArrayLen(len(r.Topics))
	for _, t := range r.Topics {
		w.CompactString(t.Topic)
		w.Int32(t.NumPartitions)
		w.Int16(t.ReplicationFactor)
		w.CompactArrayLen(len(t.Assignments))
		for _, a := range t.Assignments {
			w.Int32(a.Partition)
			w.CompactArrayLen(len(a.Replicas))
			for _, rep := range a.Replicas {
				w.Int32(rep)
			}
			w.EmptyTags()
		}
		w.CompactArrayLen(len(t.Configs))
		for _, c := range t.Configs {
			w.CompactString(c.Name)
			w.CompactNullableString(c.Value)
			w.EmptyTags()
		}
		w.EmptyTags()
	}
	w.Int32(r.TimeoutMillis)
	w.Bool(r.ValidateOnly)
	w.EmptyTags()
	return w.Src
}

type CreateTopicsResponse struct {
	Version        int16
	ThrottleMillis int32
	Topics         []CreateTopicsResponseTopic
}

type CreateTopicsResponseTopic struct {
	Topic         string
	TopicID       [16]byte
	ErrorCode     int16
	ErrorMessage  *string
	NumPartitions int32
	ReplicationFactor int16
}

func (*CreateTopicsResponse) Key() int16          { return CreateTopics }
func (r *CreateTopicsResponse) SetVersion(v int16) { r.Version = v }
func (r *CreateTopicsResponse) GetVersion() int16  { return r.Version }
func (*CreateTopicsResponse) IsFlexible() bool     { return true }

func (r *CreateTopicsResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	n := b.CompactArrayLen()
	r.Topics = make([]CreateTopicsResponseTopic, n)
	for i := range r.Topics {
		t := &r.Topics[i]
		t.Topic = b.CompactString()
		t.TopicID = b.UUID()
		t.ErrorCode = b.Int16()
		t.ErrorMessage = b.CompactNullableString()
		t.NumPartitions = b.Int32()
		t.ReplicationFactor = b.Int16()
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}

// DeleteTopicsRequest is a DeleteTopics request, current (flexible)
// version.
type DeleteTopicsRequest struct {
	Version       int16
	Topics        []DeleteTopicsRequestTopic
	TimeoutMillis int32
}

type DeleteTopicsRequestTopic struct {
	Topic   *string
	TopicID [16]byte
}

func (*DeleteTopicsRequest) Key() int16          { return DeleteTopics }
func (*DeleteTopicsRequest) MaxVersion() int16   { return 6 }
func (r *DeleteTopicsRequest) SetVersion(v int16) { r.Version = v }
func (r *DeleteTopicsRequest) GetVersion() int16  { return r.Version }
func (*DeleteTopicsRequest) IsFlexible() bool     { return true }
func (*DeleteTopicsRequest) ResponseKind() Response { return new(DeleteTopicsResponse) }
func (*DeleteTopicsRequest) IsAdminRequest() {}

func (r *DeleteTopicsRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactArrayLen(len(r.Topics))
	for _, t := range r.Topics {
		w.CompactNullableString(t.Topic)
		w.UUID(t.TopicID)
		w.EmptyTags()
	}
	w.Int32(r.TimeoutMillis)
	w.EmptyTags()
	return w.Src
}

type DeleteTopicsResponse struct {
	Version        int16
	ThrottleMillis int32
	Topics         []DeleteTopicsResponseTopic
}

type DeleteTopicsResponseTopic struct {
	Topic        *string
	TopicID      [16]byte
	ErrorCode    int16
	ErrorMessage *string
}

func (*DeleteTopicsResponse) Key() int16          { return DeleteTopics }
func (r *DeleteTopicsResponse) SetVersion(v int16) { r.Version = v }
func (r *DeleteTopicsResponse) GetVersion() int16  { return r.Version }
func (*DeleteTopicsResponse) IsFlexible() bool     { return true }

func (r *DeleteTopicsResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	n := b.CompactArrayLen()
	r.Topics = make([]DeleteTopicsResponseTopic, n)
	for i := range r.Topics {
		t := &r.Topics[i]
		t.Topic = b.CompactNullableString()
		t.TopicID = b.UUID()
		t.ErrorCode = b.Int16()
		t.ErrorMessage = b.CompactNullableString()
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}

// DeleteRecordsRequest is a DeleteRecords request, current (flexible)
// version.
type DeleteRecordsRequest struct {
	Version       int16
	Topics        []DeleteRecordsRequestTopic
	TimeoutMillis int32
}

type DeleteRecordsRequestTopic struct {
	Topic      string
	Partitions []DeleteRecordsRequestPartition
}

type DeleteRecordsRequestPartition struct {
	Partition int32
	Offset    int64
}

func (*DeleteRecordsRequest) Key() int16          { return DeleteRecords }
func (*DeleteRecordsRequest) MaxVersion() int16   { return 2 }
func (r *DeleteRecordsRequest) SetVersion(v int16) { r.Version = v }
func (r *DeleteRecordsRequest) GetVersion() int16  { return r.Version }
func (*DeleteRecordsRequest) IsFlexible() bool     { return true }
func (*DeleteRecordsRequest) ResponseKind() Response { return new(DeleteRecordsResponse) }
func (*DeleteRecordsRequest) IsAdminRequest() {}

func (r *DeleteRecordsRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactArrayLen(len(r.Topics))
	for _, t := range r.Topics {
		w.CompactString(t.Topic)
		w.CompactArrayLen(len(t.Partitions))
		for _, p := range t.Partitions {
			w.Int32(p.Partition)
			w.Int64(p.Offset)
			w.EmptyTags()
		}
		w.EmptyTags()
	}
	w.Int32(r.TimeoutMillis)
	w.EmptyTags()
	return w.Src
}

type DeleteRecordsResponse struct {
	Version        int16
	ThrottleMillis int32
	Topics         []DeleteRecordsResponseTopic
}

type DeleteRecordsResponseTopic struct {
	Topic      string
	Partitions []DeleteRecordsResponsePartition
}

type DeleteRecordsResponsePartition struct {
	Partition      int32
	LowWatermark   int64
	ErrorCode      int16
}

func (*DeleteRecordsResponse) Key() int16          { return DeleteRecords }
func (r *DeleteRecordsResponse) SetVersion(v int16) { r.Version = v }
func (r *DeleteRecordsResponse) GetVersion() int16  { return r.Version }
func (*DeleteRecordsResponse) IsFlexible() bool     { return true }

func (r *DeleteRecordsResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	n := b.CompactArrayLen()
	r.Topics = make([]DeleteRecordsResponseTopic, n)
	for i := range r.Topics {
		t := &r.Topics[i]
		t.Topic = b.CompactString()
		np := b.CompactArrayLen()
		t.Partitions = make([]DeleteRecordsResponsePartition, np)
		for j := range t.Partitions {
			t.Partitions[j].Partition = b.Int32()
			t.Partitions[j].LowWatermark = b.Int64()
			t.Partitions[j].ErrorCode = b.Int16()
			SkipTags(b)
		}
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}

// OffsetForLeaderEpochRequest is an OffsetForLeaderEpoch request, v4
// (flexible).
type OffsetForLeaderEpochRequest struct {
	Version     int16
	ReplicaID   int32
	Topics      []OffsetForLeaderEpochRequestTopic
}

type OffsetForLeaderEpochRequestTopic struct {
	Topic      string
	Partitions []OffsetForLeaderEpochRequestPartition
}

type OffsetForLeaderEpochRequestPartition struct {
	Partition          int32
	CurrentLeaderEpoch int32
	LeaderEpoch        int32
}

func (*OffsetForLeaderEpochRequest) Key() int16          { return OffsetForLeaderEpoch }
func (*OffsetForLeaderEpochRequest) MaxVersion() int16   { return 4 }
func (r *OffsetForLeaderEpochRequest) SetVersion(v int16) { r.Version = v }
func (r *OffsetForLeaderEpochRequest) GetVersion() int16  { return r.Version }
func (*OffsetForLeaderEpochRequest) IsFlexible() bool     { return true }
func (*OffsetForLeaderEpochRequest) ResponseKind() Response {
	return new(OffsetForLeaderEpochResponse)
}

func (r *OffsetForLeaderEpochRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.Int32(r.ReplicaID)
	w.CompactArrayLen(len(r.Topics))
	for _, t := range r.Topics {
		w.CompactString(t.Topic)
		w.CompactArrayLen(len(t.Partitions))
		for _, p := range t.Partitions {
			w.Int32(p.Partition)
			w.Int32(p.CurrentLeaderEpoch)
			w.Int32(p.LeaderEpoch)
			w.EmptyTags()
		}
		w.EmptyTags()
	}
	w.EmptyTags()
	return w.Src
}

type OffsetForLeaderEpochResponse struct {
	Version        int16
	ThrottleMillis int32
	Topics         []OffsetForLeaderEpochResponseTopic
}

type OffsetForLeaderEpochResponseTopic struct {
	Topic      string
	Partitions []OffsetForLeaderEpochResponsePartition
}

type OffsetForLeaderEpochResponsePartition struct {
	ErrorCode   int16
	Partition   int32
	LeaderEpoch int32
	EndOffset   int64
}

func (*OffsetForLeaderEpochResponse) Key() int16          { return OffsetForLeaderEpoch }
func (r *OffsetForLeaderEpochResponse) SetVersion(v int16) { r.Version = v }
func (r *OffsetForLeaderEpochResponse) GetVersion() int16  { return r.Version }
func (*OffsetForLeaderEpochResponse) IsFlexible() bool     { return true }

func (r *OffsetForLeaderEpochResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	n := b.CompactArrayLen()
	r.Topics = make([]OffsetForLeaderEpochResponseTopic, n)
	for i := range r.Topics {
		t := &r.Topics[i]
		t.Topic = b.CompactString()
		np := b.CompactArrayLen()
		t.Partitions = make([]OffsetForLeaderEpochResponsePartition, np)
		for j := range t.Partitions {
			p := &t.Partitions[j]
			p.ErrorCode = b.Int16()
			p.Partition = b.Int32()
			p.LeaderEpoch = b.Int32()
			p.EndOffset = b.Int64()
			SkipTags(b)
		}
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}
