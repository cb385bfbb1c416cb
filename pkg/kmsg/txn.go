package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// InitProducerIDRequest is an InitProducerId request, v5 (flexible).
type InitProducerIDRequest struct {
	Version              int16
	TransactionalID      *string
	TransactionTimeoutMillis int32
	ProducerID           int64
	ProducerEpoch        int16
}

func (*InitProducerIDRequest) Key() int16          { return InitProducerID }
func (*InitProducerIDRequest) MaxVersion() int16   { return 5 }
func (r *InitProducerIDRequest) SetVersion(v int16) { r.Version = v }
func (r *InitProducerIDRequest) GetVersion() int16  { return r.Version }
func (*InitProducerIDRequest) IsFlexible() bool     { return true }
func (*InitProducerIDRequest) ResponseKind() Response { return new(InitProducerIDResponse) }
func (*InitProducerIDRequest) IsTxnCoordinatorRequest() {}

func (r *InitProducerIDRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactNullableString(r.TransactionalID)
	w.Int32(r.TransactionTimeoutMillis)
	w.Int64(r.ProducerID)
	w.Int16(r.ProducerEpoch)
	w.EmptyTags()
	return w.Src
}

type InitProducerIDResponse struct {
	Version        int16
	ThrottleMillis int32
	ErrorCode      int16
	ProducerID     int64
	ProducerEpoch  int16
}

func (*InitProducerIDResponse) Key() int16          { return InitProducerID }
func (r *InitProducerIDResponse) SetVersion(v int16) { r.Version = v }
func (r *InitProducerIDResponse) GetVersion() int16  { return r.Version }
func (*InitProducerIDResponse) IsFlexible() bool     { return true }

func (r *InitProducerIDResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	r.ErrorCode = b.Int16()
	r.ProducerID = b.Int64()
	r.ProducerEpoch = b.Int16()
	SkipTags(b)
	return b.Complete()
}

// AddPartitionsToTxnRequest is an AddPartitionsToTxn request, current
// (flexible, single-transaction) version.
type AddPartitionsToTxnRequest struct {
	Version         int16
	TransactionalID string
	ProducerID      int64
	ProducerEpoch   int16
	Topics          []AddPartitionsToTxnRequestTopic
}

type AddPartitionsToTxnRequestTopic struct {
	Topic      string
	Partitions []int32
}

func (*AddPartitionsToTxnRequest) Key() int16          { return AddPartitionsToTxn }
func (*AddPartitionsToTxnRequest) MaxVersion() int16   { return 4 }
func (r *AddPartitionsToTxnRequest) SetVersion(v int16) { r.Version = v }
func (r *AddPartitionsToTxnRequest) GetVersion() int16  { return r.Version }
func (*AddPartitionsToTxnRequest) IsFlexible() bool     { return true }
func (*AddPartitionsToTxnRequest) ResponseKind() Response { return new(AddPartitionsToTxnResponse) }
func (*AddPartitionsToTxnRequest) IsTxnCoordinatorRequest() {}

func (r *AddPartitionsToTxnRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactString(r.TransactionalID)
	w.Int64(r.ProducerID)
	w.Int16(r.ProducerEpoch)
	w.CompactArrayLen(len(r.Topics))
	for _, t := range r.Topics {
		w.CompactString(t.Topic)
		w.CompactArrayLen(len(t.Partitions))
		for _, p := range t.Partitions {
			w.Int32(p)
		}
		w.EmptyTags()
	}
	w.EmptyTags()
	return w.Src
}

type AddPartitionsToTxnResponse struct {
	Version        int16
	ThrottleMillis int32
	Topics         []AddPartitionsToTxnResponseTopic
}

type AddPartitionsToTxnResponseTopic struct {
	Topic      string
	Partitions []AddPartitionsToTxnResponsePartition
}

type AddPartitionsToTxnResponsePartition struct {
	Partition int32
	ErrorCode int16
}

func (*AddPartitionsToTxnResponse) Key() int16          { return AddPartitionsToTxn }
func (r *AddPartitionsToTxnResponse) SetVersion(v int16) { r.Version = v }
func (r *AddPartitionsToTxnResponse) GetVersion() int16  { return r.Version }
func (*AddPartitionsToTxnResponse) IsFlexible() bool     { return true }

func (r *AddPartitionsToTxnResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	n := b.CompactArrayLen()
	r.Topics = make([]AddPartitionsToTxnResponseTopic, n)
	for i := range r.Topics {
		t := &r.Topics[i]
		t.Topic = b.CompactString()
		np := b.CompactArrayLen()
		t.Partitions = make([]AddPartitionsToTxnResponsePartition, np)
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

// AddOffsetsToTxnRequest is an AddOffsetsToTxn request, v1+ (flexible).
type AddOffsetsToTxnRequest struct {
	Version         int16
	TransactionalID string
	ProducerID      int64
	ProducerEpoch   int16
	Group           string
}

func (*AddOffsetsToTxnRequest) Key() int16          { return AddOffsetsToTxn }
func (*AddOffsetsToTxnRequest) MaxVersion() int16   { return 3 }
func (r *AddOffsetsToTxnRequest) SetVersion(v int16) { r.Version = v }
func (r *AddOffsetsToTxnRequest) GetVersion() int16  { return r.Version }
func (*AddOffsetsToTxnRequest) IsFlexible() bool     { return true }
func (*AddOffsetsToTxnRequest) ResponseKind() Response { return new(AddOffsetsToTxnResponse) }
func (*AddOffsetsToTxnRequest) IsTxnCoordinatorRequest() {}

func (r *AddOffsetsToTxnRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactString(r.TransactionalID)
	w.Int64(r.ProducerID)
	w.Int16(r.ProducerEpoch)
	w.CompactString(r.Group)
	w.EmptyTags()
	return w.Src
}

type AddOffsetsToTxnResponse struct {
	Version        int16
	ThrottleMillis int32
	ErrorCode      int16
}

func (*AddOffsetsToTxnResponse) Key() int16          { return AddOffsetsToTxn }
func (r *AddOffsetsToTxnResponse) SetVersion(v int16) { r.Version = v }
func (r *AddOffsetsToTxnResponse) GetVersion() int16  { return r.Version }
func (*AddOffsetsToTxnResponse) IsFlexible() bool     { return true }

func (r *AddOffsetsToTxnResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	r.ErrorCode = b.Int16()
	SkipTags(b)
	return b.Complete()
}

// EndTxnRequest is an EndTxn request, v4 (flexible).
type EndTxnRequest struct {
	Version         int16
	TransactionalID string
	ProducerID      int64
	ProducerEpoch   int16
	Commit          bool
}

func (*EndTxnRequest) Key() int16          { return EndTxn }
func (*EndTxnRequest) MaxVersion() int16   { return 4 }
func (r *EndTxnRequest) SetVersion(v int16) { r.Version = v }
func (r *EndTxnRequest) GetVersion() int16  { return r.Version }
func (*EndTxnRequest) IsFlexible() bool     { return true }
func (*EndTxnRequest) ResponseKind() Response { return new(EndTxnResponse) }
func (*EndTxnRequest) IsTxnCoordinatorRequest() {}

func (r *EndTxnRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactString(r.TransactionalID)
	w.Int64(r.ProducerID)
	w.Int16(r.ProducerEpoch)
	w.Bool(r.Commit)
	w.EmptyTags()
	return w.Src
}

type EndTxnResponse struct {
	Version        int16
	ThrottleMillis int32
	ErrorCode      int16
}

func (*EndTxnResponse) Key() int16          { return EndTxn }
func (r *EndTxnResponse) SetVersion(v int16) { r.Version = v }
func (r *EndTxnResponse) GetVersion() int16  { return r.Version }
func (*EndTxnResponse) IsFlexible() bool     { return true }

func (r *EndTxnResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	r.ErrorCode = b.Int16()
	SkipTags(b)
	return b.Complete()
}

// TxnOffsetCommitRequest is a TxnOffsetCommit request, current (flexible)
// version.
type TxnOffsetCommitRequest struct {
	Version         int16
	TransactionalID string
	Group           string
	ProducerID      int64
	ProducerEpoch   int16
	Generation      int32
	MemberID        string
	InstanceID      *string
	Topics          []TxnOffsetCommitRequestTopic
}

type TxnOffsetCommitRequestTopic struct {
	Topic      string
	Partitions []TxnOffsetCommitRequestPartition
}

type TxnOffsetCommitRequestPartition struct {
	Partition   int32
	Offset      int64
	LeaderEpoch int32
	Metadata    *string
}

func (*TxnOffsetCommitRequest) Key() int16          { return TxnOffsetCommit }
func (*TxnOffsetCommitRequest) MaxVersion() int16   { return 4 }
func (r *TxnOffsetCommitRequest) SetVersion(v int16) { r.Version = v }
func (r *TxnOffsetCommitRequest) GetVersion() int16  { return r.Version }
func (*TxnOffsetCommitRequest) IsFlexible() bool     { return true }
func (*TxnOffsetCommitRequest) ResponseKind() Response { return new(TxnOffsetCommitResponse) }
func (*TxnOffsetCommitRequest) IsTxnCoordinatorRequest() {}

func (r *TxnOffsetCommitRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactString(r.TransactionalID)
	w.CompactString(r.Group)
	w.Int64(r.ProducerID)
	w.Int16(r.ProducerEpoch)
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

type TxnOffsetCommitResponse struct {
	Version        int16
	ThrottleMillis int32
	Topics         []TxnOffsetCommitResponseTopic
}

type TxnOffsetCommitResponseTopic struct {
	Topic      string
	Partitions []TxnOffsetCommitResponsePartition
}

type TxnOffsetCommitResponsePartition struct {
	Partition int32
	ErrorCode int16
}

func (*TxnOffsetCommitResponse) Key() int16          { return TxnOffsetCommit }
func (r *TxnOffsetCommitResponse) SetVersion(v int16) { r.Version = v }
func (r *TxnOffsetCommitResponse) GetVersion() int16  { return r.Version }
func (*TxnOffsetCommitResponse) IsFlexible() bool     { return true }

func (r *TxnOffsetCommitResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	n := b.CompactArrayLen()
	r.Topics = make([]TxnOffsetCommitResponseTopic, n)
	for i := range r.Topics {
		t := &r.Topics[i]
		t.Topic = b.CompactString()
		np := b.CompactArrayLen()
		t.Partitions = make([]TxnOffsetCommitResponsePartition, np)
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

// ListTransactionsRequest is a ListTransactions request, v1 (flexible).
type ListTransactionsRequest struct {
	Version       int16
	StateFilters  []string
	ProducerIDFilters []int64
}

func (*ListTransactionsRequest) Key() int16          { return ListTransactions }
func (*ListTransactionsRequest) MaxVersion() int16   { return 1 }
func (r *ListTransactionsRequest) SetVersion(v int16) { r.Version = v }
func (r *ListTransactionsRequest) GetVersion() int16  { return r.Version }
func (*ListTransactionsRequest) IsFlexible() bool     { return true }
func (*ListTransactionsRequest) ResponseKind() Response { return new(ListTransactionsResponse) }
func (*ListTransactionsRequest) IsAdminRequest() {}

func (r *ListTransactionsRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactArrayLen(len(r.StateFilters))
	for _, s := range r.StateFilters {
		w.CompactString(s)
	}
	w.CompactArrayLen(len(r.ProducerIDFilters))
	for _, p := range r.ProducerIDFilters {
		w.Int64(p)
	}
	w.EmptyTags()
	return w.Src
}

type ListTransactionsResponse struct {
	Version        int16
	ErrorCode      int16
	UnknownStateFilters []string
	TransactionStates   []ListTransactionsResponseState
}

type ListTransactionsResponseState struct {
	TransactionalID string
	ProducerID      int64
	TransactionState string
}

func (*ListTransactionsResponse) Key() int16          { return ListTransactions }
func (r *ListTransactionsResponse) SetVersion(v int16) { r.Version = v }
func (r *ListTransactionsResponse) GetVersion() int16  { return r.Version }
func (*ListTransactionsResponse) IsFlexible() bool     { return true }

func (r *ListTransactionsResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ErrorCode = b.Int16()
	n := b.CompactArrayLen()
	r.UnknownStateFilters = make([]string, n)
	for i := range r.UnknownStateFilters {
		r.UnknownStateFilters[i] = b.CompactString()
	}
	ns := b.CompactArrayLen()
	r.TransactionStates = make([]ListTransactionsResponseState, ns)
	for i := range r.TransactionStates {
		r.TransactionStates[i].TransactionalID = b.CompactString()
		r.TransactionStates[i].ProducerID = b.Int64()
		r.TransactionStates[i].TransactionState = b.CompactString()
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}
