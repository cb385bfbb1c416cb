package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// FindCoordinator key types.
const (
	CoordinatorKeyGroup int8 = 0
	CoordinatorKeyTxn   int8 = 1
	CoordinatorKeyShare int8 = 2
)

// FindCoordinatorRequest is a FindCoordinator request, v6 (flexible,
// batched coordinator keys).
type FindCoordinatorRequest struct {
	Version     int16
	Key         string
	KeyType     int8
}

func (*FindCoordinatorRequest) Key() int16          { return FindCoordinator }
func (*FindCoordinatorRequest) MaxVersion() int16   { return 6 }
func (r *FindCoordinatorRequest) SetVersion(v int16) { r.Version = v }
func (r *FindCoordinatorRequest) GetVersion() int16  { return r.Version }
func (*FindCoordinatorRequest) IsFlexible() bool     { return true }
func (*FindCoordinatorRequest) ResponseKind() Response { return new(FindCoordinatorResponse) }

func (r *FindCoordinatorRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactArrayLen(1)
	w.CompactString(r.Key)
	w.Int8(r.KeyType)
	w.EmptyTags()
	w.EmptyTags()
	return w.Src
}

type FindCoordinatorResponse struct {
	Version        int16
	ThrottleMillis int32
	Coordinators   []FindCoordinatorResponseCoordinator
}

type FindCoordinatorResponseCoordinator struct {
	Key       string
	NodeID    int32
	Host      string
	Port      int32
	ErrorCode int16
	ErrorMessage *string
}

func (*FindCoordinatorResponse) Key() int16          { return FindCoordinator }
func (r *FindCoordinatorResponse) SetVersion(v int16) { r.Version = v }
func (r *FindCoordinatorResponse) GetVersion() int16  { return r.Version }
func (*FindCoordinatorResponse) IsFlexible() bool     { return true }

func (r *FindCoordinatorResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	n := b.CompactArrayLen()
	r.Coordinators = make([]FindCoordinatorResponseCoordinator, n)
	for i := range r.Coordinators {
		c := &r.Coordinators[i]
		c.Key = b.CompactString()
		c.NodeID = b.Int32()
		c.Host = b.CompactString()
		c.Port = b.Int32()
		c.ErrorCode = b.Int16()
		c.ErrorMessage = b.CompactNullableString()
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}

// JoinGroupRequest is a JoinGroup request, v9 (flexible).
type JoinGroupRequest struct {
	Version            int16
	Group              string
	SessionTimeoutMillis int32
	RebalanceTimeoutMillis int32
	MemberID           string
	InstanceID         *string
	ProtocolType       string
	Protocols          []JoinGroupRequestProtocol
	Reason             *string
}

type JoinGroupRequestProtocol struct {
	Name     string
	Metadata []byte
}

func (*JoinGroupRequest) Key() int16          { return JoinGroup }
func (*JoinGroupRequest) MaxVersion() int16   { return 9 }
func (r *JoinGroupRequest) SetVersion(v int16) { r.Version = v }
func (r *JoinGroupRequest) GetVersion() int16  { return r.Version }
func (*JoinGroupRequest) IsFlexible() bool     { return true }
func (*JoinGroupRequest) ResponseKind() Response { return new(JoinGroupResponse) }
func (*JoinGroupRequest) IsGroupCoordinatorRequest() {}

func (r *JoinGroupRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactString(r.Group)
	w.Int32(r.SessionTimeoutMillis)
	w.Int32(r.RebalanceTimeoutMillis)
	w.CompactString(r.MemberID)
	w.CompactNullableString(r.InstanceID)
	w.CompactString(r.ProtocolType)
	w.CompactArrayLen(len(r.Protocols))
	for _, p := range r.Protocols {
		w.CompactString(p.Name)
		w.CompactBytes(p.Metadata)
		w.EmptyTags()
	}
	w.CompactNullableString(r.Reason)
	w.EmptyTags()
	return w.Src
}

type JoinGroupResponse struct {
	Version       int16
	ThrottleMillis int32
	ErrorCode     int16
	GenerationID  int32
	ProtocolType  *string
	ProtocolName  *string
	Leader        string
	SkipAssignment bool
	MemberID      string
	Members       []JoinGroupResponseMember
}

type JoinGroupResponseMember struct {
	MemberID   string
	InstanceID *string
	Metadata   []byte
}

func (*JoinGroupResponse) Key() int16          { return JoinGroup }
func (r *JoinGroupResponse) SetVersion(v int16) { r.Version = v }
func (r *JoinGroupResponse) GetVersion() int16  { return r.Version }
func (*JoinGroupResponse) IsFlexible() bool     { return true }

func (r *JoinGroupResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	r.ErrorCode = b.Int16()
	r.GenerationID = b.Int32()
	r.ProtocolType = b.CompactNullableString()
	p := b.CompactString()
	r.ProtocolName = &p
	r.Leader = b.CompactString()
	r.SkipAssignment = b.Bool()
	r.MemberID = b.CompactString()
	n := b.CompactArrayLen()
	r.Members = make([]JoinGroupResponseMember, n)
	for i := range r.Members {
		m := &r.Members[i]
		m.MemberID = b.CompactString()
		m.InstanceID = b.CompactNullableString()
		m.Metadata = b.CompactBytes()
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}

// SyncGroupRequest is a SyncGroup request, v5 (flexible).
type SyncGroupRequest struct {
	Version      int16
	Group        string
	GenerationID int32
	MemberID     string
	InstanceID   *string
	ProtocolType *string
	ProtocolName *string
	Assignments  []SyncGroupRequestAssignment
}

type SyncGroupRequestAssignment struct {
	MemberID   string
	Assignment []byte
}

func (*SyncGroupRequest) Key() int16          { return SyncGroup }
func (*SyncGroupRequest) MaxVersion() int16   { return 5 }
func (r *SyncGroupRequest) SetVersion(v int16) { r.Version = v }
func (r *SyncGroupRequest) GetVersion() int16  { return r.Version }
func (*SyncGroupRequest) IsFlexible() bool     { return true }
func (*SyncGroupRequest) ResponseKind() Response { return new(SyncGroupResponse) }
func (*SyncGroupRequest) IsGroupCoordinatorRequest() {}

func (r *SyncGroupRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactString(r.Group)
	w.Int32(r.GenerationID)
	w.CompactString(r.MemberID)
	w.CompactNullableString(r.InstanceID)
	w.CompactNullableString(r.ProtocolType)
	w.CompactNullableString(r.ProtocolName)
	w.CompactArrayLen(len(r.Assignments))
	for _, a := range r.Assignments {
		w.CompactString(a.MemberID)
		w.CompactBytes(a.Assignment)
		w.EmptyTags()
	}
	w.EmptyTags()
	return w.Src
}

type SyncGroupResponse struct {
	Version        int16
	ThrottleMillis int32
	ErrorCode      int16
	ProtocolType   *string
	ProtocolName   *string
	Assignment     []byte
}

func (*SyncGroupResponse) Key() int16          { return SyncGroup }
func (r *SyncGroupResponse) SetVersion(v int16) { r.Version = v }
func (r *SyncGroupResponse) GetVersion() int16  { return r.Version }
func (*SyncGroupResponse) IsFlexible() bool     { return true }

func (r *SyncGroupResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	r.ErrorCode = b.Int16()
	r.ProtocolType = b.CompactNullableString()
	r.ProtocolName = b.CompactNullableString()
	r.Assignment = b.CompactBytes()
	SkipTags(b)
	return b.Complete()
}

// HeartbeatRequest is a Heartbeat request, v4 (flexible).
type HeartbeatRequest struct {
	Version      int16
	Group        string
	GenerationID int32
	MemberID     string
	InstanceID   *string
}

func (*HeartbeatRequest) Key() int16          { return Heartbeat }
func (*HeartbeatRequest) MaxVersion() int16   { return 4 }
func (r *HeartbeatRequest) SetVersion(v int16) { r.Version = v }
func (r *HeartbeatRequest) GetVersion() int16  { return r.Version }
func (*HeartbeatRequest) IsFlexible() bool     { return true }
func (*HeartbeatRequest) ResponseKind() Response { return new(HeartbeatResponse) }
func (*HeartbeatRequest) IsGroupCoordinatorRequest() {}

func (r *HeartbeatRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactString(r.Group)
	w.Int32(r.GenerationID)
	w.CompactString(r.MemberID)
	w.CompactNullableString(r.InstanceID)
	w.EmptyTags()
	return w.Src
}

type HeartbeatResponse struct {
	Version        int16
	ThrottleMillis int32
	ErrorCode      int16
}

func (*HeartbeatResponse) Key() int16          { return Heartbeat }
func (r *HeartbeatResponse) SetVersion(v int16) { r.Version = v }
func (r *HeartbeatResponse) GetVersion() int16  { return r.Version }
func (*HeartbeatResponse) IsFlexible() bool     { return true }

func (r *HeartbeatResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	r.ErrorCode = b.Int16()
	SkipTags(b)
	return b.Complete()
}

// LeaveGroupRequest is a LeaveGroup request, v5 (flexible, batched
// members).
type LeaveGroupRequest struct {
	Version int16
	Group   string
	Members []LeaveGroupRequestMember
}

type LeaveGroupRequestMember struct {
	MemberID   string
	InstanceID *string
	Reason     *string
}

func (*LeaveGroupRequest) Key() int16          { return LeaveGroup }
func (*LeaveGroupRequest) MaxVersion() int16   { return 5 }
func (r *LeaveGroupRequest) SetVersion(v int16) { r.Version = v }
func (r *LeaveGroupRequest) GetVersion() int16  { return r.Version }
func (*LeaveGroupRequest) IsFlexible() bool     { return true }
func (*LeaveGroupRequest) ResponseKind() Response { return new(LeaveGroupResponse) }
func (*LeaveGroupRequest) IsGroupCoordinatorRequest() {}

func (r *LeaveGroupRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactString(r.Group)
	w.CompactArrayLen(len(r.Members))
	for _, m := range r.Members {
		w.CompactString(m.MemberID)
		w.CompactNullableString(m.InstanceID)
		w.CompactNullableString(m.Reason)
		w.EmptyTags()
	}
	w.EmptyTags()
	return w.Src
}

type LeaveGroupResponse struct {
	Version        int16
	ThrottleMillis int32
	ErrorCode      int16
	Members        []LeaveGroupResponseMember
}

type LeaveGroupResponseMember struct {
	MemberID   string
	InstanceID *string
	ErrorCode  int16
}

func (*LeaveGroupResponse) Key() int16          { return LeaveGroup }
func (r *LeaveGroupResponse) SetVersion(v int16) { r.Version = v }
func (r *LeaveGroupResponse) GetVersion() int16  { return r.Version }
func (*LeaveGroupResponse) IsFlexible() bool     { return true }

func (r *LeaveGroupResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	r.ErrorCode = b.Int16()
	n := b.CompactArrayLen()
	r.Members = make([]LeaveGroupResponseMember, n)
	for i := range r.Members {
		r.Members[i].MemberID = b.CompactString()
		r.Members[i].InstanceID = b.CompactNullableString()
		r.Members[i].ErrorCode = b.Int16()
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}

// ConsumerGroupHeartbeatRequest is a ConsumerGroupHeartbeat request
// (KIP-848 "next generation" consumer group protocol), apiKey 68, v0.
type ConsumerGroupHeartbeatRequest struct {
	Version           int16
	Group             string
	MemberID          string
	MemberEpoch       int32
	InstanceID        *string
	RackID            *string
	RebalanceTimeoutMillis int32
	SubscribedTopicNames []string
	ServerAssignor    *string
	TopicPartitions   []ConsumerGroupHeartbeatRequestTopicPartitions
}

type ConsumerGroupHeartbeatRequestTopicPartitions struct {
	TopicID    [16]byte
	Partitions []int32
}

func (*ConsumerGroupHeartbeatRequest) Key() int16          { return ConsumerGroupHeartbeat }
func (*ConsumerGroupHeartbeatRequest) MaxVersion() int16   { return 0 }
func (r *ConsumerGroupHeartbeatRequest) SetVersion(v int16) { r.Version = v }
func (r *ConsumerGroupHeartbeatRequest) GetVersion() int16  { return r.Version }
func (*ConsumerGroupHeartbeatRequest) IsFlexible() bool     { return true }
func (*ConsumerGroupHeartbeatRequest) ResponseKind() Response {
	return new(ConsumerGroupHeartbeatResponse)
}
func (*ConsumerGroupHeartbeatRequest) IsGroupCoordinatorRequest() {}

func (r *ConsumerGroupHeartbeatRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactString(r.Group)
	w.CompactString(r.MemberID)
	w.Int32(r.MemberEpoch)
	w.CompactNullableString(r.InstanceID)
	w.CompactNullableString(r.RackID)
	w.Int32(r.RebalanceTimeoutMillis)
	if r.SubscribedTopicNames == nil {
		w.Uvarint(0)
	} else {
		w.CompactArrayLen(len(r.SubscribedTopicNames))
		for _, t := range r.SubscribedTopicNames {
			w.CompactString(t)
		}
	}
	w.CompactNullableString(r.ServerAssignor)
	if r.TopicPartitions == nil {
		w.Uvarint(0)
	} else {
		w.CompactArrayLen(len(r.TopicPartitions))
		for _, tp := range r.TopicPartitions {
			w.UUID(tp.TopicID)
			w.CompactArrayLen(len(tp.Partitions))
			for _, p := range tp.Partitions {
				w.Int32(p)
			}
			w.EmptyTags()
		}
	}
	w.EmptyTags()
	return w.Src
}

type ConsumerGroupHeartbeatResponse struct {
	Version        int16
	ThrottleMillis int32
	ErrorCode      int16
	ErrorMessage   *string
	MemberID       string
	MemberEpoch    int32
	HeartbeatIntervalMillis int32
	Assignment     *ConsumerGroupHeartbeatResponseAssignment
}

type ConsumerGroupHeartbeatResponseAssignment struct {
	TopicPartitions []ConsumerGroupHeartbeatRequestTopicPartitions
}

func (*ConsumerGroupHeartbeatResponse) Key() int16          { return ConsumerGroupHeartbeat }
func (r *ConsumerGroupHeartbeatResponse) SetVersion(v int16) { r.Version = v }
func (r *ConsumerGroupHeartbeatResponse) GetVersion() int16  { return r.Version }
func (*ConsumerGroupHeartbeatResponse) IsFlexible() bool     { return true }

func (r *ConsumerGroupHeartbeatResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	r.ErrorCode = b.Int16()
	r.ErrorMessage = b.CompactNullableString()
	r.MemberID = b.CompactString()
	r.MemberEpoch = b.Int32()
	r.HeartbeatIntervalMillis = b.Int32()
	if present := b.Int8(); present != 0 {
		a := &ConsumerGroupHeartbeatResponseAssignment{}
		n := b.CompactArrayLen()
		a.TopicPartitions = make([]ConsumerGroupHeartbeatRequestTopicPartitions, n)
		for i := range a.TopicPartitions {
			a.TopicPartitions[i].TopicID = b.UUID()
			np := b.CompactArrayLen()
			a.TopicPartitions[i].Partitions = make([]int32, np)
			for j := range a.TopicPartitions[i].Partitions {
				a.TopicPartitions[i].Partitions[j] = b.Int32()
			}
			SkipTags(b)
		}
		r.Assignment = a
	}
	SkipTags(b)
	return b.Complete()
}
