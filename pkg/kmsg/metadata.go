package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// MetadataRequest is a Metadata request, v12 (flexible, topic UUIDs).
type MetadataRequest struct {
	Version                int16
	Topics                 []MetadataRequestTopic
	AllowAutoTopicCreation bool
	IncludeTopicAuthorizedOperations bool
}

// Topics being nil (as opposed to an empty, non-nil slice) requests
// metadata for all topics; this mirrors the broker's null-vs-empty-array
// distinction for this one request.
type MetadataRequestTopic struct {
	TopicID [16]byte
	Topic   *string
}

func (*MetadataRequest) Key() int16          { return Metadata }
func (*MetadataRequest) MaxVersion() int16   { return 12 }
func (r *MetadataRequest) SetVersion(v int16) { r.Version = v }
func (r *MetadataRequest) GetVersion() int16  { return r.Version }
func (*MetadataRequest) IsFlexible() bool     { return true }
func (*MetadataRequest) ResponseKind() Response { return new(MetadataResponse) }

func (r *MetadataRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	if r.Topics == nil {
		w.Uvarint(0) // null array: no topics filter means "all topics"
	} else {
		w.CompactArrayLen(len(r.Topics))
		for _, t := range r.Topics {
			w.UUID(t.TopicID)
			w.CompactNullableString(t.Topic)
			w.EmptyTags()
		}
	}
	w.Bool(r.AllowAutoTopicCreation)
	w.Bool(r.IncludeTopicAuthorizedOperations)
	w.EmptyTags()
	return w.Src
}

type MetadataResponse struct {
	Version      int16
	ThrottleMillis int32
	Brokers      []MetadataResponseBroker
	ClusterID    *string
	ControllerID int32
	Topics       []MetadataResponseTopic
}

type MetadataResponseBroker struct {
	NodeID int32
	Host   string
	Port   int32
	Rack   *string
}

type MetadataResponseTopic struct {
	ErrorCode  int16
	Topic      string
	TopicID    [16]byte
	IsInternal bool
	Partitions []MetadataResponsePartition
}

type MetadataResponsePartition struct {
	ErrorCode      int16
	Partition      int32
	Leader         int32
	LeaderEpoch    int32
	Replicas       []int32
	ISR            []int32
	OfflineReplicas []int32
}

func (*MetadataResponse) Key() int16          { return Metadata }
func (r *MetadataResponse) SetVersion(v int16) { r.Version = v }
func (r *MetadataResponse) GetVersion() int16  { return r.Version }
func (*MetadataResponse) IsFlexible() bool     { return true }

func (r *MetadataResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	numBrokers := b.CompactArrayLen()
	r.Brokers = make([]MetadataResponseBroker, numBrokers)
	for i := range r.Brokers {
		br := &r.Brokers[i]
		br.NodeID = b.Int32()
		br.Host = b.CompactString()
		br.Port = b.Int32()
		br.Rack = b.CompactNullableString()
		SkipTags(b)
	}
	r.ClusterID = b.CompactNullableString()
	r.ControllerID = b.Int32()
	numTopics := b.CompactArrayLen()
	r.Topics = make([]MetadataResponseTopic, numTopics)
	for i := range r.Topics {
		t := &r.Topics[i]
		t.ErrorCode = b.Int16()
		t.Topic = b.CompactString()
		t.TopicID = b.UUID()
		t.IsInternal = b.Bool()
		numParts := b.CompactArrayLen()
		t.Partitions = make([]MetadataResponsePartition, numParts)
		for j := range t.Partitions {
			p := &t.Partitions[j]
			p.ErrorCode = b.Int16()
			p.Partition = b.Int32()
			p.Leader = b.Int32()
			p.LeaderEpoch = b.Int32()
			p.Replicas = readCompactInt32Array(b)
			p.ISR = readCompactInt32Array(b)
			p.OfflineReplicas = readCompactInt32Array(b)
			SkipTags(b)
		}
		SkipTags(b) // topic authorized operations tag not decoded
	}
	SkipTags(b)
	return b.Complete()
}

func readCompactInt32Array(b *kbin.Reader) []int32 {
	n := b.CompactArrayLen()
	out := make([]int32, n)
	for i := range out {
		out[i] = b.Int32()
	}
	return out
}
