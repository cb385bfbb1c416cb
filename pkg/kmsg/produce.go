package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// ProduceRequest is a Produce request, apiKey 0. This module encodes the
// v9+ flexible body (compact arrays/strings, trailing tagged fields);
// v7 through v8 legacy encodings are not supported, matching the
// module's flexible-first stance for every API that has one.
type ProduceRequest struct {
	Version          int16
	TransactionalID  *string
	Acks             int16
	TimeoutMillis    int32
	Topics           []ProduceRequestTopic
}

type ProduceRequestTopic struct {
	Topic      string
	Partitions []ProduceRequestPartition
}

type ProduceRequestPartition struct {
	Partition int32
	Batch     *RecordBatch
	Codec     Codec
}

func (*ProduceRequest) Key() int16        { return Produce }
func (*ProduceRequest) MaxVersion() int16 { return 11 }
func (r *ProduceRequest) SetVersion(v int16) { r.Version = v }
func (r *ProduceRequest) GetVersion() int16  { return r.Version }
func (*ProduceRequest) IsFlexible() bool     { return true }
func (*ProduceRequest) ResponseKind() Response { return new(ProduceResponse) }

func (r *ProduceRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactNullableString(r.TransactionalID)
	w.Int16(r.Acks)
	w.Int32(r.TimeoutMillis)
	w.CompactArrayLen(len(r.Topics))
	for _, t := range r.Topics {
		w.CompactString(t.Topic)
		w.CompactArrayLen(len(t.Partitions))
		for _, p := range t.Partitions {
			w.Int32(p.Partition)
			var batch []byte
			if p.Batch != nil {
				batch = p.Batch.AppendTo(nil, p.Codec)
			}
			w.CompactNullableBytes(batch)
			w.EmptyTags()
		}
		w.EmptyTags()
	}
	w.EmptyTags()
	return w.Src
}

type ProduceResponse struct {
	Version      int16
	Topics       []ProduceResponseTopic
	ThrottleMillis int32
}

type ProduceResponseTopic struct {
	Topic      string
	Partitions []ProduceResponsePartition
}

type ProduceResponsePartition struct {
	Partition       int32
	ErrorCode       int16
	BaseOffset      int64
	LogAppendTime   int64
	LogStartOffset  int64
}

func (*ProduceResponse) Key() int16        { return Produce }
func (r *ProduceResponse) SetVersion(v int16) { r.Version = v }
func (r *ProduceResponse) GetVersion() int16  { return r.Version }
func (*ProduceResponse) IsFlexible() bool     { return true }

func (r *ProduceResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	numTopics := b.CompactArrayLen()
	r.Topics = make([]ProduceResponseTopic, numTopics)
	for i := range r.Topics {
		t := &r.Topics[i]
		t.Topic = b.CompactString()
		numParts := b.CompactArrayLen()
		t.Partitions = make([]ProduceResponsePartition, numParts)
		for j := range t.Partitions {
			p := &t.Partitions[j]
			p.Partition = b.Int32()
			p.ErrorCode = b.Int16()
			p.BaseOffset = b.Int64()
			p.LogAppendTime = b.Int64()
			p.LogStartOffset = b.Int64()
			SkipTags(b)
		}
		SkipTags(b)
	}
	r.ThrottleMillis = b.Int32()
	SkipTags(b)
	return b.Complete()
}
