package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// DescribeGroupsRequest is a DescribeGroups request, current (flexible)
// version.
type DescribeGroupsRequest struct {
	Version                      int16
	Groups                       []string
	IncludeAuthorizedOperations bool
}

func (*DescribeGroupsRequest) Key() int16          { return DescribeGroups }
func (*DescribeGroupsRequest) MaxVersion() int16   { return 5 }
func (r *DescribeGroupsRequest) SetVersion(v int16) { r.Version = v }
func (r *DescribeGroupsRequest) GetVersion() int16  { return r.Version }
func (*DescribeGroupsRequest) IsFlexible() bool     { return true }
func (*DescribeGroupsRequest) ResponseKind() Response { return new(DescribeGroupsResponse) }
func (*DescribeGroupsRequest) IsAdminRequest() {}

func (r *DescribeGroupsRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactArrayLen(len(r.Groups))
	for _, g := range r.Groups {
		w.CompactString(g)
	}
	w.Bool(r.IncludeAuthorizedOperations)
	w.EmptyTags()
	return w.Src
}

type DescribeGroupsResponse struct {
	Version        int16
	ThrottleMillis int32
	Groups         []DescribeGroupsResponseGroup
}

type DescribeGroupsResponseGroup struct {
	ErrorCode    int16
	Group        string
	State        string
	ProtocolType string
	Protocol     string
	Members      []DescribeGroupsResponseMember
}

type DescribeGroupsResponseMember struct {
	MemberID         string
	InstanceID       *string
	ClientID         string
	ClientHost       string
	MemberMetadata   []byte
	MemberAssignment []byte
}

func (*DescribeGroupsResponse) Key() int16          { return DescribeGroups }
func (r *DescribeGroupsResponse) SetVersion(v int16) { r.Version = v }
func (r *DescribeGroupsResponse) GetVersion() int16  { return r.Version }
func (*DescribeGroupsResponse) IsFlexible() bool     { return true }

func (r *DescribeGroupsResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	n := b.CompactArrayLen()
	r.Groups = make([]DescribeGroupsResponseGroup, n)
	for i := range r.Groups {
		g := &r.Groups[i]
		g.ErrorCode = b.Int16()
		g.Group = b.CompactString()
		g.State = b.CompactString()
		g.ProtocolType = b.CompactString()
		g.Protocol = b.CompactString()
		nm := b.CompactArrayLen()
		g.Members = make([]DescribeGroupsResponseMember, nm)
		for j := range g.Members {
			m := &g.Members[j]
			m.MemberID = b.CompactString()
			m.InstanceID = b.CompactNullableString()
			m.ClientID = b.CompactString()
			m.ClientHost = b.CompactString()
			m.MemberMetadata = b.CompactBytes()
			m.MemberAssignment = b.CompactBytes()
			SkipTags(b)
		}
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}

// ListGroupsRequest is a ListGroups request, current (flexible) version.
type ListGroupsRequest struct {
	Version        int16
	StatesFilter   []string
}

func (*ListGroupsRequest) Key() int16          { return ListGroups }
func (*ListGroupsRequest) MaxVersion() int16   { return 5 }
func (r *ListGroupsRequest) SetVersion(v int16) { r.Version = v }
func (r *ListGroupsRequest) GetVersion() int16  { return r.Version }
func (*ListGroupsRequest) IsFlexible() bool     { return true }
func (*ListGroupsRequest) ResponseKind() Response { return new(ListGroupsResponse) }
func (*ListGroupsRequest) IsAdminRequest() {}

func (r *ListGroupsRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactArrayLen(len(r.StatesFilter))
	for _, s := range r.StatesFilter {
		w.CompactString(s)
	}
	w.EmptyTags()
	return w.Src
}

type ListGroupsResponse struct {
	Version        int16
	ThrottleMillis int32
	ErrorCode      int16
	Groups         []ListGroupsResponseGroup
}

type ListGroupsResponseGroup struct {
	Group        string
	ProtocolType string
	State        string
}

func (*ListGroupsResponse) Key() int16          { return ListGroups }
func (r *ListGroupsResponse) SetVersion(v int16) { r.Version = v }
func (r *ListGroupsResponse) GetVersion() int16  { return r.Version }
func (*ListGroupsResponse) IsFlexible() bool     { return true }

func (r *ListGroupsResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	r.ErrorCode = b.Int16()
	n := b.CompactArrayLen()
	r.Groups = make([]ListGroupsResponseGroup, n)
	for i := range r.Groups {
		r.Groups[i].Group = b.CompactString()
		r.Groups[i].ProtocolType = b.CompactString()
		r.Groups[i].State = b.CompactString()
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}

// DeleteGroupsRequest is a DeleteGroups request, current (flexible)
// version.
type DeleteGroupsRequest struct {
	Version int16
	Groups  []string
}

func (*DeleteGroupsRequest) Key() int16          { return DeleteGroups }
func (*DeleteGroupsRequest) MaxVersion() int16   { return 2 }
func (r *DeleteGroupsRequest) SetVersion(v int16) { r.Version = v }
func (r *DeleteGroupsRequest) GetVersion() int16  { return r.Version }
func (*DeleteGroupsRequest) IsFlexible() bool     { return true }
func (*DeleteGroupsRequest) ResponseKind() Response { return new(DeleteGroupsResponse) }
func (*DeleteGroupsRequest) IsAdminRequest() {}

func (r *DeleteGroupsRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactArrayLen(len(r.Groups))
	for _, g := range r.Groups {
		w.CompactString(g)
	}
	w.EmptyTags()
	return w.Src
}

type DeleteGroupsResponse struct {
	Version        int16
	ThrottleMillis int32
	Groups         []DeleteGroupsResponseGroup
}

type DeleteGroupsResponseGroup struct {
	Group     string
	ErrorCode int16
}

func (*DeleteGroupsResponse) Key() int16          { return DeleteGroups }
func (r *DeleteGroupsResponse) SetVersion(v int16) { r.Version = v }
func (r *DeleteGroupsResponse) GetVersion() int16  { return r.Version }
func (*DeleteGroupsResponse) IsFlexible() bool     { return true }

func (r *DeleteGroupsResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	n := b.CompactArrayLen()
	r.Groups = make([]DeleteGroupsResponseGroup, n)
	for i := range r.Groups {
		r.Groups[i].Group = b.CompactString()
		r.Groups[i].ErrorCode = b.Int16()
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}
