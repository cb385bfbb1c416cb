package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// Resource types shared by the config/ACL/quota admin APIs.
const (
	ResourceTypeUnknown int8 = 0
	ResourceTypeTopic   int8 = 2
	ResourceTypeBroker  int8 = 4
)

// DescribeConfigsRequest is a DescribeConfigs request, current (flexible)
// version.
type DescribeConfigsRequest struct {
	Version            int16
	Resources          []DescribeConfigsRequestResource
	IncludeSynonyms    bool
	IncludeDocumentation bool
}

type DescribeConfigsRequestResource struct {
	ResourceType int8
	ResourceName string
	ConfigNames  []string
}

func (*DescribeConfigsRequest) Key() int16          { return DescribeConfigs }
func (*DescribeConfigsRequest) MaxVersion() int16   { return 4 }
func (r *DescribeConfigsRequest) SetVersion(v int16) { r.Version = v }
func (r *DescribeConfigsRequest) GetVersion() int16  { return r.Version }
func (*DescribeConfigsRequest) IsFlexible() bool     { return true }
func (*DescribeConfigsRequest) ResponseKind() Response { return new(DescribeConfigsResponse) }
func (*DescribeConfigsRequest) IsAdminRequest() {}

func (r *DescribeConfigsRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactArrayLen(len(r.Resources))
	for _, res := range r.Resources {
		w.Int8(res.ResourceType)
		w.CompactString(res.ResourceName)
		if res.ConfigNames == nil {
			w.Uvarint(0)
		} else {
			w.CompactArrayLen(len(res.ConfigNames))
			for _, n := range res.ConfigNames {
				w.CompactString(n)
			}
		}
		w.EmptyTags()
	}
	w.Bool(r.IncludeSynonyms)
	w.Bool(r.IncludeDocumentation)
	w.EmptyTags()
	return w.Src
}

type DescribeConfigsResponse struct {
	Version        int16
	ThrottleMillis int32
	Resources      []DescribeConfigsResponseResource
}

type DescribeConfigsResponseResource struct {
	ErrorCode    int16
	ErrorMessage *string
	ResourceType int8
	ResourceName string
	Configs      []DescribeConfigsResponseConfig
}

type DescribeConfigsResponseConfig struct {
	Name      string
	Value     *string
	ReadOnly  bool
	Source    int8
	Sensitive bool
}

func (*DescribeConfigsResponse) Key() int16          { return DescribeConfigs }
func (r *DescribeConfigsResponse) SetVersion(v int16) { r.Version = v }
func (r *DescribeConfigsResponse) GetVersion() int16  { return r.Version }
func (*DescribeConfigsResponse) IsFlexible() bool     { return true }

func (r *DescribeConfigsResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	n := b.CompactArrayLen()
	r.Resources = make([]DescribeConfigsResponseResource, n)
	for i := range r.Resources {
		res := &r.Resources[i]
		res.ErrorCode = b.Int16()
		res.ErrorMessage = b.CompactNullableString()
		res.ResourceType = b.Int8()
		res.ResourceName = b.CompactString()
		nc := b.CompactArrayLen()
		res.Configs = make([]DescribeConfigsResponseConfig, nc)
		for j := range res.Configs {
			c := &res.Configs[j]
			c.Name = b.CompactString()
			c.Value = b.CompactNullableString()
			c.ReadOnly = b.Bool()
			c.Source = b.Int8()
			c.Sensitive = b.Bool()
			nsyn := b.CompactArrayLen()
			for k := int32(0); k < nsyn; k++ {
				b.CompactString()
				b.CompactNullableString()
				b.Int8()
				SkipTags(b)
			}
			SkipTags(b)
		}
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}

// AlterConfigsRequest is an AlterConfigs request, current (flexible)
// version.
type AlterConfigsRequest struct {
	Version      int16
	Resources    []AlterConfigsRequestResource
	ValidateOnly bool
}

type AlterConfigsRequestResource struct {
	ResourceType int8
	ResourceName string
	Configs      []AlterConfigsRequestConfig
}

type AlterConfigsRequestConfig struct {
	Name  string
	Value *string
}

func (*AlterConfigsRequest) Key() int16          { return AlterConfigs }
func (*AlterConfigsRequest) MaxVersion() int16   { return 2 }
func (r *AlterConfigsRequest) SetVersion(v int16) { r.Version = v }
func (r *AlterConfigsRequest) GetVersion() int16  { return r.Version }
func (*AlterConfigsRequest) IsFlexible() bool     { return true }
func (*AlterConfigsRequest) ResponseKind() Response { return new(AlterConfigsResponse) }
func (*AlterConfigsRequest) IsAdminRequest() {}

func (r *AlterConfigsRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactArrayLen(len(r.Resources))
	for _, res := range r.Resources {
		w.Int8(res.ResourceType)
		w.CompactString(res.ResourceName)
		w.CompactArrayLen(len(res.Configs))
		for _, c := range res.Configs {
			w.CompactString(c.Name)
			w.CompactNullableString(c.Value)
			w.EmptyTags()
		}
		w.EmptyTags()
	}
	w.Bool(r.ValidateOnly)
	w.EmptyTags()
	return w.Src
}

type AlterConfigsResponse struct {
	Version        int16
	ThrottleMillis int32
	Resources      []AlterConfigsResponseResource
}

type AlterConfigsResponseResource struct {
	ErrorCode    int16
	ErrorMessage *string
	ResourceType int8
	ResourceName string
}

func (*AlterConfigsResponse) Key() int16          { return AlterConfigs }
func (r *AlterConfigsResponse) SetVersion(v int16) { r.Version = v }
func (r *AlterConfigsResponse) GetVersion() int16  { return r.Version }
func (*AlterConfigsResponse) IsFlexible() bool     { return true }

func (r *AlterConfigsResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	n := b.CompactArrayLen()
	r.Resources = make([]AlterConfigsResponseResource, n)
	for i := range r.Resources {
		res := &r.Resources[i]
		res.ErrorCode = b.Int16()
		res.ErrorMessage = b.CompactNullableString()
		res.ResourceType = b.Int8()
		res.ResourceName = b.CompactString()
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}

// IncrementalAlterConfigs op types.
const (
	AlterConfigOpSet      int8 = 0
	AlterConfigOpDelete   int8 = 1
	AlterConfigOpAppend   int8 = 2
	AlterConfigOpSubtract int8 = 3
)

// IncrementalAlterConfigsRequest is an IncrementalAlterConfigs request,
// current (flexible) version.
type IncrementalAlterConfigsRequest struct {
	Version      int16
	Resources    []IncrementalAlterConfigsRequestResource
	ValidateOnly bool
}

type IncrementalAlterConfigsRequestResource struct {
	ResourceType int8
	ResourceName string
	Configs      []IncrementalAlterConfigsRequestConfig
}

type IncrementalAlterConfigsRequestConfig struct {
	Name  string
	Op    int8
	Value *string
}

func (*IncrementalAlterConfigsRequest) Key() int16        { return IncrementalAlterConfigs }
func (*IncrementalAlterConfigsRequest) MaxVersion() int16 { return 1 }
func (r *IncrementalAlterConfigsRequest) SetVersion(v int16) { r.Version = v }
func (r *IncrementalAlterConfigsRequest) GetVersion() int16  { return r.Version }
func (*IncrementalAlterConfigsRequest) IsFlexible() bool     { return true }
func (*IncrementalAlterConfigsRequest) ResponseKind() Response {
	return new(IncrementalAlterConfigsResponse)
}
func (*IncrementalAlterConfigsRequest) IsAdminRequest() {}

func (r *IncrementalAlterConfigsRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactArrayLen(len(r.Resources))
	for _, res := range r.Resources {
		w.Int8(res.ResourceType)
		w.CompactString(res.ResourceName)
		w.CompactArrayLen(len(res.Configs))
		for _, c := range res.Configs {
			w.CompactString(c.Name)
			w.Int8(c.Op)
			w.CompactNullableString(c.Value)
			w.EmptyTags()
		}
		w.EmptyTags()
	}
	w.Bool(r.ValidateOnly)
	w.EmptyTags()
	return w.Src
}

type IncrementalAlterConfigsResponse struct {
	Version        int16
	ThrottleMillis int32
	Resources      []AlterConfigsResponseResource
}

func (*IncrementalAlterConfigsResponse) Key() int16        { return IncrementalAlterConfigs }
func (r *IncrementalAlterConfigsResponse) SetVersion(v int16) { r.Version = v }
func (r *IncrementalAlterConfigsResponse) GetVersion() int16  { return r.Version }
func (*IncrementalAlterConfigsResponse) IsFlexible() bool     { return true }

func (r *IncrementalAlterConfigsResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ThrottleMillis = b.Int32()
	n := b.CompactArrayLen()
	r.Resources = make([]AlterConfigsResponseResource, n)
	for i := range r.Resources {
		res := &r.Resources[i]
		res.ErrorCode = b.Int16()
		res.ErrorMessage = b.CompactNullableString()
		res.ResourceType = b.Int8()
		res.ResourceName = b.CompactString()
		SkipTags(b)
	}
	SkipTags(b)
	return b.Complete()
}
