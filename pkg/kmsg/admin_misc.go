package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// ACL operation/permission enums, per the broker's Acl protocol.
const (
	AclOperationAll    int8 = 2
	AclOperationRead    int8 = 3
	AclOperationWrite   int8 = 4
	AclOperationCreate  int8 = 5
	AclOperationDescribe int8 = 8

	AclPermissionDeny  int8 = 2
	AclPermissionAllow int8 = 3

	AclPatternLiteral int8 = 3
	AclPatternPrefixed int8 = 4
)

// CreateAclsRequest is a CreateAcls request, v2+ (flexible).
type CreateAclsRequest struct {
	Version int16
	Creations []CreateAclsRequestCreation
}

type CreateAclsRequestCreation struct {
	ResourceType        int8
	ResourceName        string
	ResourcePatternType int8
	Principal           string
	Host                string
	Operation           int8
	PermissionType       int8
}

func (*CreateAclsRequest) Key() int16          { return CreateAcls }
func (*CreateAclsRequest) MaxVersion() int16   { return 3 }
func (r *CreateAclsRequest) SetVersion(v int16) { r.Version = v }
func (r *CreateAclsRequest) GetVersion() int16  { return r.Version }
func (*CreateAclsRequest) IsFlexible() bool     { return true }
func (*CreateAclsRequest) ResponseKind() Response { return new(CreateAclsResponse) }
func (*CreateAclsRequest) IsAdminRequest() {}

func (r *CreateAclsRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactArrayLen(len(r.Creations))
	for _, c := range r.Creations {
		w.Int8(c.ResourceType)
		w.CompactString(c.ResourceName)
		w.Int8(c.ResourcePatternType)
		w.CompactString(c.Principal)
		w.CompactString(c.Host)
		w.Int8(c.Operation)
		w.Int8(c.PermissionType)
		w.EmptyTags()
	}
	w.EmptyTags()
	return w.Src
}

type CreateAclsResponse struct {
	Version        int16
	ThrottleMillis int32
	Results        []CreateAclsResponseResult
}

type CreateAclsResponseResult struct {
	ErrorCode    int16
	ErrorMessage *string
}

func (*CreateAclsResponse) Key() int16          { return CreateAcls }
func (r *CreateAclsResponse) SetVersion(v int16) { r.Version = v }
func (r *CreateAclsResponse) GetVersion() int16  { return r.Version }
func (*CreateAclsResponse) IsFlexible() bool     { return true }

func (r *CreateAclsResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	n := b.CompactArrayLen()
	r.Results = make([]CreateAclsResponseResult, n)
	for i := range r.Results {
		r.Results[i].ErrorCode = b.Int16()
		r.Results[i].ErrorMessage = b.CompactNullableString()
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}

// DescribeAclsRequest is a DescribeAcls request, v2+ (flexible).
type DescribeAclsRequest struct {
	Version             int16
	ResourceType        int8
	ResourceName        *string
	ResourcePatternType int8
	Principal           *string
	Host                *string
	Operation           int8
	PermissionType      int8
}

func (*DescribeAclsRequest) Key() int16          { return DescribeAcls }
func (*DescribeAclsRequest) MaxVersion() int16   { return 3 }
func (r *DescribeAclsRequest) SetVersion(v int16) { r.Version = v }
func (r *DescribeAclsRequest) GetVersion() int16  { return r.Version }
func (*DescribeAclsRequest) IsFlexible() bool     { return true }
func (*DescribeAclsRequest) ResponseKind() Response { return new(DescribeAclsResponse) }
func (*DescribeAclsRequest) IsAdminRequest() {}

func (r *DescribeAclsRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.Int8(r.ResourceType)
	w.CompactNullableString(r.ResourceName)
	w.Int8(r.ResourcePatternType)
	w.CompactNullableString(r.Principal)
	w.CompactNullableString(r.Host)
	w.Int8(r.Operation)
	w.Int8(r.PermissionType)
	w.EmptyTags()
	return w.Src
}

type DescribeAclsResponse struct {
	Version        int16
	ThrottleMillis int32
	ErrorCode      int16
	ErrorMessage   *string
	Resources      []DescribeAclsResponseResource
}

type DescribeAclsResponseResource struct {
	ResourceType        int8
	ResourceName        string
	ResourcePatternType int8
	Acls                []DescribeAclsResponseAcl
}

type DescribeAclsResponseAcl struct {
	Principal      string
	Host           string
	Operation      int8
	PermissionType int8
}

func (*DescribeAclsResponse) Key() int16          { return DescribeAcls }
func (r *DescribeAclsResponse) SetVersion(v int16) { r.Version = v }
func (r *DescribeAclsResponse) GetVersion() int16  { return r.Version }
func (*DescribeAclsResponse) IsFlexible() bool     { return true }

func (r *DescribeAclsResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	r.ErrorCode = b.Int16()
	r.ErrorMessage = b.CompactNullableString()
	n := b.CompactArrayLen()
	r.Resources = make([]DescribeAclsResponseResource, n)
	for i := range r.Resources {
		res := &r.Resources[i]
		res.ResourceType = b.Int8()
		res.ResourceName = b.CompactString()
		res.ResourcePatternType = b.Int8()
		na := b.CompactArrayLen()
		res.Acls = make([]DescribeAclsResponseAcl, na)
		for j := range res.Acls {
			res.Acls[j].Principal = b.CompactString()
			res.Acls[j].Host = b.CompactString()
			res.Acls[j].Operation = b.Int8()
			res.Acls[j].PermissionType = b.Int8()
			SkipTags(b)
		}
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}

// DeleteAclsRequest is a DeleteAcls request, v2+ (flexible).
type DeleteAclsRequest struct {
	Version int16
	Filters []DescribeAclsRequest
}

func (*DeleteAclsRequest) Key() int16          { return DeleteAcls }
func (*DeleteAclsRequest) MaxVersion() int16   { return 3 }
func (r *DeleteAclsRequest) SetVersion(v int16) { r.Version = v }
func (r *DeleteAclsRequest) GetVersion() int16  { return r.Version }
func (*DeleteAclsRequest) IsFlexible() bool     { return true }
func (*DeleteAclsRequest) ResponseKind() Response { return new(DeleteAclsResponse) }
func (*DeleteAclsRequest) IsAdminRequest() {}

func (r *DeleteAclsRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactArrayLen(len(r.Filters))
	for _, f := range r.Filters {
		w.Int8(f.ResourceType)
		w.CompactNullableString(f.ResourceName)
		w.Int8(f.ResourcePatternType)
		w.CompactNullableString(f.Principal)
		w.CompactNullableString(f.Host)
		w.Int8(f.Operation)
		w.Int8(f.PermissionType)
		w.EmptyTags()
	}
	w.EmptyTags()
	return w.Src
}

type DeleteAclsResponse struct {
	Version        int16
	ThrottleMillis int32
	Filters        []DeleteAclsResponseFilter
}

type DeleteAclsResponseFilter struct {
	ErrorCode    int16
	ErrorMessage *string
	MatchingAcls []DescribeAclsResponseAcl
}

func (*DeleteAclsResponse) Key() int16          { return DeleteAcls }
func (r *DeleteAclsResponse) SetVersion(v int16) { r.Version = v }
func (r *DeleteAclsResponse) GetVersion() int16  { return r.Version }
func (*DeleteAclsResponse) IsFlexible() bool     { return true }

func (r *DeleteAclsResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	n := b.CompactArrayLen()
	r.Filters = make([]DeleteAclsResponseFilter, n)
	for i := range r.Filters {
		f := &r.Filters[i]
		f.ErrorCode = b.Int16()
		f.ErrorMessage = b.CompactNullableString()
		nm := b.CompactArrayLen()
		f.MatchingAcls = make([]DescribeAclsResponseAcl, nm)
		for j := range f.MatchingAcls {
			b.Int8() // resource type, folded into the acl match itself
			b.CompactString()
			b.Int8()
			f.MatchingAcls[j].Principal = b.CompactString()
			f.MatchingAcls[j].Host = b.CompactString()
			f.MatchingAcls[j].Operation = b.Int8()
			f.MatchingAcls[j].PermissionType = b.Int8()
			SkipTags(b)
		}
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}

// DescribeClientQuotasRequest is a DescribeClientQuotas request, v1
// (flexible).
type DescribeClientQuotasRequest struct {
	Version    int16
	Components []DescribeClientQuotasRequestComponent
	Strict     bool
}

type DescribeClientQuotasRequestComponent struct {
	EntityType string
	MatchType  int8
	Match      *string
}

func (*DescribeClientQuotasRequest) Key() int16          { return DescribeClientQuotas }
func (*DescribeClientQuotasRequest) MaxVersion() int16   { return 1 }
func (r *DescribeClientQuotasRequest) SetVersion(v int16) { r.Version = v }
func (r *DescribeClientQuotasRequest) GetVersion() int16  { return r.Version }
func (*DescribeClientQuotasRequest) IsFlexible() bool     { return true }
func (*DescribeClientQuotasRequest) ResponseKind() Response {
	return new(DescribeClientQuotasResponse)
}
func (*DescribeClientQuotasRequest) IsAdminRequest() {}

func (r *DescribeClientQuotasRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactArrayLen(len(r.Components))
	for _, c := range r.Components {
		w.CompactString(c.EntityType)
		w.Int8(c.MatchType)
		w.CompactNullableString(c.Match)
		w.EmptyTags()
	}
	w.Bool(r.Strict)
	w.EmptyTags()
	return w.Src
}

type DescribeClientQuotasResponse struct {
	Version        int16
	ThrottleMillis int32
	ErrorCode      int16
	ErrorMessage   *string
	Entries        []DescribeClientQuotasResponseEntry
}

type DescribeClientQuotasResponseEntry struct {
	Entity []DescribeClientQuotasResponseEntityElem
	Values []DescribeClientQuotasResponseValue
}

type DescribeClientQuotasResponseEntityElem struct {
	EntityType string
	EntityName *string
}

type DescribeClientQuotasResponseValue struct {
	Key   string
	Value float64
}

func (*DescribeClientQuotasResponse) Key() int16          { return DescribeClientQuotas }
func (r *DescribeClientQuotasResponse) SetVersion(v int16) { r.Version = v }
func (r *DescribeClientQuotasResponse) GetVersion() int16  { return r.Version }
func (*DescribeClientQuotasResponse) IsFlexible() bool     { return true }

func (r *DescribeClientQuotasResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	r.ErrorCode = b.Int16()
	r.ErrorMessage = b.CompactNullableString()
	n := b.CompactArrayLen()
	r.Entries = make([]DescribeClientQuotasResponseEntry, n)
	for i := range r.Entries {
		e := &r.Entries[i]
		ne := b.CompactArrayLen()
		e.Entity = make([]DescribeClientQuotasResponseEntityElem, ne)
		for j := range e.Entity {
			e.Entity[j].EntityType = b.CompactString()
			e.Entity[j].EntityName = b.CompactNullableString()
			SkipTags(b)
		}
		nv := b.CompactArrayLen()
		e.Values = make([]DescribeClientQuotasResponseValue, nv)
		for j := range e.Values {
			e.Values[j].Key = b.CompactString()
			e.Values[j].Value = b.Float64()
			SkipTags(b)
		}
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}

// AlterClientQuotasRequest is an AlterClientQuotas request, v1 (flexible).
type AlterClientQuotasRequest struct {
	Version      int16
	Entries      []AlterClientQuotasRequestEntry
	ValidateOnly bool
}

type AlterClientQuotasRequestEntry struct {
	Entity []DescribeClientQuotasResponseEntityElem
	Ops    []AlterClientQuotasRequestOp
}

type AlterClientQuotasRequestOp struct {
	Key    string
	Value  float64
	Remove bool
}

func (*AlterClientQuotasRequest) Key() int16          { return AlterClientQuotas }
func (*AlterClientQuotasRequest) MaxVersion() int16   { return 1 }
func (r *AlterClientQuotasRequest) SetVersion(v int16) { r.Version = v }
func (r *AlterClientQuotasRequest) GetVersion() int16  { return r.Version }
func (*AlterClientQuotasRequest) IsFlexible() bool     { return true }
func (*AlterClientQuotasRequest) ResponseKind() Response { return new(AlterClientQuotasResponse) }
func (*AlterClientQuotasRequest) IsAdminRequest() {}

func (r *AlterClientQuotasRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactArrayLen(len(r.Entries))
	for _, e := range r.Entries {
		w.CompactArrayLen(len(e.Entity))
		for _, el := range e.Entity {
			w.CompactString(el.EntityType)
			w.CompactNullableString(el.EntityName)
			w.EmptyTags()
		}
		w.CompactArrayLen(len(e.Ops))
		for _, op := range e.Ops {
			w.CompactString(op.Key)
			w.Float64(op.Value)
			w.Bool(op.Remove)
			w.EmptyTags()
		}
		w.EmptyTags()
	}
	w.Bool(r.ValidateOnly)
	w.EmptyTags()
	return w.Src
}

type AlterClientQuotasResponse struct {
	Version        int16
	ThrottleMillis int32
	Entries        []AlterClientQuotasResponseEntry
}

type AlterClientQuotasResponseEntry struct {
	ErrorCode    int16
	ErrorMessage *string
	Entity       []DescribeClientQuotasResponseEntityElem
}

func (*AlterClientQuotasResponse) Key() int16          { return AlterClientQuotas }
func (r *AlterClientQuotasResponse) SetVersion(v int16) { r.Version = v }
func (r *AlterClientQuotasResponse) GetVersion() int16  { return r.Version }
func (*AlterClientQuotasResponse) IsFlexible() bool     { return true }

func (r *AlterClientQuotasResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	n := b.CompactArrayLen()
	r.Entries = make([]AlterClientQuotasResponseEntry, n)
	for i := range r.Entries {
		e := &r.Entries[i]
		e.ErrorCode = b.Int16()
		e.ErrorMessage = b.CompactNullableString()
		ne := b.CompactArrayLen()
		e.Entity = make([]DescribeClientQuotasResponseEntityElem, ne)
		for j := range e.Entity {
			e.Entity[j].EntityType = b.CompactString()
			e.Entity[j].EntityName = b.CompactNullableString()
			SkipTags(b)
		}
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}

// DescribeClusterRequest is a DescribeCluster request, current (flexible)
// version.
type DescribeClusterRequest struct {
	Version                         int16
	IncludeClusterAuthorizedOperations bool
}

func (*DescribeClusterRequest) Key() int16          { return DescribeCluster }
func (*DescribeClusterRequest) MaxVersion() int16   { return 1 }
func (r *DescribeClusterRequest) SetVersion(v int16) { r.Version = v }
func (r *DescribeClusterRequest) GetVersion() int16  { return r.Version }
func (*DescribeClusterRequest) IsFlexible() bool     { return true }
func (*DescribeClusterRequest) ResponseKind() Response { return new(DescribeClusterResponse) }
func (*DescribeClusterRequest) IsAdminRequest() {}

func (r *DescribeClusterRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.Bool(r.IncludeClusterAuthorizedOperations)
	w.EmptyTags()
	return w.Src
}

type DescribeClusterResponse struct {
	Version        int16
	ThrottleMillis int32
	ErrorCode      int16
	ErrorMessage   *string
	ClusterID      string
	ControllerID   int32
	Brokers        []MetadataResponseBroker
}

func (*DescribeClusterResponse) Key() int16          { return DescribeCluster }
func (r *DescribeClusterResponse) SetVersion(v int16) { r.Version = v }
func (r *DescribeClusterResponse) GetVersion() int16  { return r.Version }
func (*DescribeClusterResponse) IsFlexible() bool     { return true }

func (r *DescribeClusterResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	r.ErrorCode = b.Int16()
	r.ErrorMessage = b.CompactNullableString()
	r.ClusterID = b.CompactString()
	r.ControllerID = b.Int32()
	n := b.CompactArrayLen()
	r.Brokers = make([]MetadataResponseBroker, n)
	for i := range r.Brokers {
		br := &r.Brokers[i]
		br.NodeID = b.Int32()
		br.Host = b.CompactString()
		br.Port = b.Int32()
		br.Rack = b.CompactNullableString()
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}

// UnregisterBrokerRequest is an UnregisterBroker request, current
// (flexible) version.
type UnregisterBrokerRequest struct {
	Version int16
	BrokerID int32
}

func (*UnregisterBrokerRequest) Key() int16          { return UnregisterBroker }
func (*UnregisterBrokerRequest) MaxVersion() int16   { return 0 }
func (r *UnregisterBrokerRequest) SetVersion(v int16) { r.Version = v }
func (r *UnregisterBrokerRequest) GetVersion() int16  { return r.Version }
func (*UnregisterBrokerRequest) IsFlexible() bool     { return true }
func (*UnregisterBrokerRequest) ResponseKind() Response { return new(UnregisterBrokerResponse) }
func (*UnregisterBrokerRequest) IsAdminRequest() {}

func (r *UnregisterBrokerRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.Int32(r.BrokerID)
	w.EmptyTags()
	return w.Src
}

type UnregisterBrokerResponse struct {
	Version        int16
	ThrottleMillis int32
	ErrorCode      int16
	ErrorMessage   *string
}

func (*UnregisterBrokerResponse) Key() int16          { return UnregisterBroker }
func (r *UnregisterBrokerResponse) SetVersion(v int16) { r.Version = v }
func (r *UnregisterBrokerResponse) GetVersion() int16  { return r.Version }
func (*UnregisterBrokerResponse) IsFlexible() bool     { return true }

func (r *UnregisterBrokerResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	r.ErrorCode = b.Int16()
	r.ErrorMessage = b.CompactNullableString()
	SkipTags(b)
	return b.Complete()
}

// UpdateFeaturesRequest is an UpdateFeatures request, current (flexible)
// version.
type UpdateFeaturesRequest struct {
	Version          int16
	TimeoutMillis    int32
	FeatureUpdates   []UpdateFeaturesRequestFeature
	ValidateOnly     bool
}

type UpdateFeaturesRequestFeature struct {
	Feature         string
	MaxVersionLevel int16
	UpgradeType     int8
}

func (*UpdateFeaturesRequest) Key() int16          { return UpdateFeatures }
func (*UpdateFeaturesRequest) MaxVersion() int16   { return 1 }
func (r *UpdateFeaturesRequest) SetVersion(v int16) { r.Version = v }
func (r *UpdateFeaturesRequest) GetVersion() int16  { return r.Version }
func (*UpdateFeaturesRequest) IsFlexible() bool     { return true }
func (*UpdateFeaturesRequest) ResponseKind() Response { return new(UpdateFeaturesResponse) }
func (*UpdateFeaturesRequest) IsAdminRequest() {}

func (r *UpdateFeaturesRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.Int32(r.TimeoutMillis)
	w.CompactArrayLen(len(r.FeatureUpdates))
	for _, f := range r.FeatureUpdates {
		w.CompactString(f.Feature)
		w.Int16(f.MaxVersionLevel)
		w.Int8(f.UpgradeType)
		w.EmptyTags()
	}
	w.Bool(r.ValidateOnly)
	w.EmptyTags()
	return w.Src
}

type UpdateFeaturesResponse struct {
	Version        int16
	ThrottleMillis int32
	ErrorCode      int16
	ErrorMessage   *string
	Results        []UpdateFeaturesResponseResult
}

type UpdateFeaturesResponseResult struct {
	Feature      string
	ErrorCode    int16
	ErrorMessage *string
}

func (*UpdateFeaturesResponse) Key() int16          { return UpdateFeatures }
func (r *UpdateFeaturesResponse) SetVersion(v int16) { r.Version = v }
func (r *UpdateFeaturesResponse) GetVersion() int16  { return r.Version }
func (*UpdateFeaturesResponse) IsFlexible() bool     { return true }

func (r *UpdateFeaturesResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	r.ErrorCode = b.Int16()
	r.ErrorMessage = b.CompactNullableString()
	n := b.CompactArrayLen()
	r.Results = make([]UpdateFeaturesResponseResult, n)
	for i := range r.Results {
		r.Results[i].Feature = b.CompactString()
		r.Results[i].ErrorCode = b.Int16()
		r.Results[i].ErrorMessage = b.CompactNullableString()
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}

// AlterPartitionReassignmentsRequest is an AlterPartitionReassignments
// request, current (flexible) version.
type AlterPartitionReassignmentsRequest struct {
	Version       int16
	TimeoutMillis int32
	Topics        []AlterPartitionReassignmentsRequestTopic
}

type AlterPartitionReassignmentsRequestTopic struct {
	Topic      string
	Partitions []AlterPartitionReassignmentsRequestPartition
}

type AlterPartitionReassignmentsRequestPartition struct {
	Partition int32
	Replicas  []int32 // nil cancels a pending reassignment
}

func (*AlterPartitionReassignmentsRequest) Key() int16        { return AlterPartitionReassignments }
func (*AlterPartitionReassignmentsRequest) MaxVersion() int16 { return 0 }
func (r *AlterPartitionReassignmentsRequest) SetVersion(v int16) { r.Version = v }
func (r *AlterPartitionReassignmentsRequest) GetVersion() int16  { return r.Version }
func (*AlterPartitionReassignmentsRequest) IsFlexible() bool     { return true }
func (*AlterPartitionReassignmentsRequest) ResponseKind() Response {
	return new(AlterPartitionReassignmentsResponse)
}
func (*AlterPartitionReassignmentsRequest) IsAdminRequest() {}

func (r *AlterPartitionReassignmentsRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.Int32(r.TimeoutMillis)
	w.CompactArrayLen(len(r.Topics))
	for _, t := range r.Topics {
		w.CompactString(t.Topic)
		w.CompactArrayLen(len(t.Partitions))
		for _, p := range t.Partitions {
			w.Int32(p.Partition)
			if p.Replicas == nil {
				w.Uvarint(0)
			} else {
				w.CompactArrayLen(len(p.Replicas))
				for _, rep := range p.Replicas {
					w.Int32(rep)
				}
			}
			w.EmptyTags()
		}
		w.EmptyTags()
	}
	w.EmptyTags()
	return w.Src
}

type AlterPartitionReassignmentsResponse struct {
	Version        int16
	ThrottleMillis int32
	ErrorCode      int16
	ErrorMessage   *string
	Topics         []AlterPartitionReassignmentsResponseTopic
}

type AlterPartitionReassignmentsResponseTopic struct {
	Topic      string
	Partitions []AlterPartitionReassignmentsResponsePartition
}

type AlterPartitionReassignmentsResponsePartition struct {
	Partition    int32
	ErrorCode    int16
	ErrorMessage *string
}

func (*AlterPartitionReassignmentsResponse) Key() int16 { return AlterPartitionReassignments }
func (r *AlterPartitionReassignmentsResponse) SetVersion(v int16) { r.Version = v }
func (r *AlterPartitionReassignmentsResponse) GetVersion() int16  { return r.Version }
func (*AlterPartitionReassignmentsResponse) IsFlexible() bool     { return true }

func (r *AlterPartitionReassignmentsResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	r.ErrorCode = b.Int16()
	r.ErrorMessage = b.CompactNullableString()
	n := b.CompactArrayLen()
	r.Topics = make([]AlterPartitionReassignmentsResponseTopic, n)
	for i := range r.Topics {
		t := &r.Topics[i]
		t.Topic = b.CompactString()
		np := b.CompactArrayLen()
		t.Partitions = make([]AlterPartitionReassignmentsResponsePartition, np)
		for j := range t.Partitions {
			t.Partitions[j].Partition = b.Int32()
			t.Partitions[j].ErrorCode = b.Int16()
			t.Partitions[j].ErrorMessage = b.CompactNullableString()
			SkipTags(b)
		}
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}

// DescribeTopicPartitionsRequest is a DescribeTopicPartitions request,
// current (flexible) version.
type DescribeTopicPartitionsRequest struct {
	Version            int16
	Topics             []string
	ResponsePartitionLimit int32
	Cursor             *DescribeTopicPartitionsCursor
}

type DescribeTopicPartitionsCursor struct {
	Topic              string
	PartitionIndex     int32
}

func (*DescribeTopicPartitionsRequest) Key() int16        { return DescribeTopicPartitions }
func (*DescribeTopicPartitionsRequest) MaxVersion() int16 { return 0 }
func (r *DescribeTopicPartitionsRequest) SetVersion(v int16) { r.Version = v }
func (r *DescribeTopicPartitionsRequest) GetVersion() int16  { return r.Version }
func (*DescribeTopicPartitionsRequest) IsFlexible() bool     { return true }
func (*DescribeTopicPartitionsRequest) ResponseKind() Response {
	return new(DescribeTopicPartitionsResponse)
}

func (r *DescribeTopicPartitionsRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactArrayLen(len(r.Topics))
	for _, t := range r.Topics {
		w.CompactString(t)
		w.EmptyTags()
	}
	w.Int32(r.ResponsePartitionLimit)
	if r.Cursor == nil {
		w.Int8(-1)
	} else {
		w.Int8(0)
		w.CompactString(r.Cursor.Topic)
		w.Int32(r.Cursor.PartitionIndex)
		w.EmptyTags()
	}
	w.EmptyTags()
	return w.Src
}

type DescribeTopicPartitionsResponse struct {
	Version        int16
	ThrottleMillis int32
	Topics         []MetadataResponseTopic
	NextCursor     *DescribeTopicPartitionsCursor
}

func (*DescribeTopicPartitionsResponse) Key() int16        { return DescribeTopicPartitions }
func (r *DescribeTopicPartitionsResponse) SetVersion(v int16) { r.Version = v }
func (r *DescribeTopicPartitionsResponse) GetVersion() int16  { return r.Version }
func (*DescribeTopicPartitionsResponse) IsFlexible() bool     { return true }

func (r *DescribeTopicPartitionsResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	n := b.CompactArrayLen()
	r.Topics = make([]MetadataResponseTopic, n)
	for i := range r.Topics {
		t := &r.Topics[i]
		t.ErrorCode = b.Int16()
		t.Topic = b.CompactString()
		t.TopicID = b.UUID()
		t.IsInternal = b.Bool()
		np := b.CompactArrayLen()
		t.Partitions = make([]MetadataResponsePartition, np)
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
		b.Int32() // topic authorized operations bitfield, not decoded
		SkipTags(b)
	}
	if present := b.Int8(); present == 0 {
		r.NextCursor = &DescribeTopicPartitionsCursor{
			Topic:          b.CompactString(),
			PartitionIndex: b.Int32(),
		}
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}

// DescribeQuorumRequest is a DescribeQuorum request, current (flexible)
// version.
type DescribeQuorumRequest struct {
	Version int16
	Topics  []DescribeQuorumRequestTopic
}

type DescribeQuorumRequestTopic struct {
	Topic      string
	Partitions []int32
}

func (*DescribeQuorumRequest) Key() int16          { return DescribeQuorum }
func (*DescribeQuorumRequest) MaxVersion() int16   { return 2 }
func (r *DescribeQuorumRequest) SetVersion(v int16) { r.Version = v }
func (r *DescribeQuorumRequest) GetVersion() int16  { return r.Version }
func (*DescribeQuorumRequest) IsFlexible() bool     { return true }
func (*DescribeQuorumRequest) ResponseKind() Response { return new(DescribeQuorumResponse) }
func (*DescribeQuorumRequest) IsAdminRequest() {}

func (r *DescribeQuorumRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
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

type DescribeQuorumResponse struct {
	Version   int16
	ErrorCode int16
	Topics    []DescribeQuorumResponseTopic
}

type DescribeQuorumResponseTopic struct {
	Topic      string
	Partitions []DescribeQuorumResponsePartition
}

type DescribeQuorumResponsePartition struct {
	Partition   int32
	ErrorCode   int16
	LeaderID    int32
	LeaderEpoch int32
	HighWatermark int64
}

func (*DescribeQuorumResponse) Key() int16          { return DescribeQuorum }
func (r *DescribeQuorumResponse) SetVersion(v int16) { r.Version = v }
func (r *DescribeQuorumResponse) GetVersion() int16  { return r.Version }
func (*DescribeQuorumResponse) IsFlexible() bool     { return true }

func (r *DescribeQuorumResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ErrorCode = b.Int16()
	n := b.CompactArrayLen()
	r.Topics = make([]DescribeQuorumResponseTopic, n)
	for i := range r.Topics {
		t := &r.Topics[i]
		t.Topic = b.CompactString()
		np := b.CompactArrayLen()
		t.Partitions = make([]DescribeQuorumResponsePartition, np)
		for j := range t.Partitions {
			p := &t.Partitions[j]
			p.Partition = b.Int32()
			p.ErrorCode = b.Int16()
			p.LeaderID = b.Int32()
			p.LeaderEpoch = b.Int32()
			p.HighWatermark = b.Int64()
			SkipTags(b)
		}
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}
