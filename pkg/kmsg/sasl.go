package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// SaslHandshakeRequest is a SaslHandshake request, v1. This API predates
// the flexible/tagged-field convention, so it always uses legacy
// (non-compact) strings and arrays even at its max version.
type SaslHandshakeRequest struct {
	Version   int16
	Mechanism string
}

func (*SaslHandshakeRequest) Key() int16          { return SaslHandshake }
func (*SaslHandshakeRequest) MaxVersion() int16   { return 1 }
func (r *SaslHandshakeRequest) SetVersion(v int16) { r.Version = v }
func (r *SaslHandshakeRequest) GetVersion() int16  { return r.Version }
func (*SaslHandshakeRequest) IsFlexible() bool     { return false }
func (*SaslHandshakeRequest) ResponseKind() Response { return new(SaslHandshakeResponse) }

func (r *SaslHandshakeRequest) AppendTo(dst []byte) []byte {
	return kbin.AppendString(dst, r.Mechanism)
}

type SaslHandshakeResponse struct {
	Version           int16
	ErrorCode         int16
	EnabledMechanisms []string
}

func (*SaslHandshakeResponse) Key() int16          { return SaslHandshake }
func (r *SaslHandshakeResponse) SetVersion(v int16) { r.Version = v }
func (r *SaslHandshakeResponse) GetVersion() int16  { return r.Version }
func (*SaslHandshakeResponse) IsFlexible() bool     { return false }

func (r *SaslHandshakeResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ErrorCode = b.Int16()
	n := b.ArrayLen()
	r.EnabledMechanisms = make([]string, n)
	for i := range r.EnabledMechanisms {
		r.EnabledMechanisms[i] = b.String()
	}
	return b.Complete()
}

// SaslAuthenticateRequest is a SaslAuthenticate request, v2 (flexible).
type SaslAuthenticateRequest struct {
	Version    int16
	AuthBytes  []byte
}

func (*SaslAuthenticateRequest) Key() int16          { return SaslAuthenticate }
func (*SaslAuthenticateRequest) MaxVersion() int16   { return 2 }
func (r *SaslAuthenticateRequest) SetVersion(v int16) { r.Version = v }
func (r *SaslAuthenticateRequest) GetVersion() int16  { return r.Version }
func (*SaslAuthenticateRequest) IsFlexible() bool     { return true }
func (*SaslAuthenticateRequest) ResponseKind() Response { return new(SaslAuthenticateResponse) }

func (r *SaslAuthenticateRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactBytes(r.AuthBytes)
	w.EmptyTags()
	return w.Src
}

type SaslAuthenticateResponse struct {
	Version            int16
	ErrorCode          int16
	ErrorMessage       *string
	AuthBytes          []byte
	SessionLifetimeMillis int64
}

func (*SaslAuthenticateResponse) Key() int16          { return SaslAuthenticate }
func (r *SaslAuthenticateResponse) SetVersion(v int16) { r.Version = v }
func (r *SaslAuthenticateResponse) GetVersion() int16  { return r.Version }
func (*SaslAuthenticateResponse) IsFlexible() bool     { return true }

func (r *SaslAuthenticateResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ErrorCode = b.Int16()
	r.ErrorMessage = b.CompactNullableString()
	r.AuthBytes = b.CompactBytes()
	r.SessionLifetimeMillis = b.Int64()
	SkipTags(b)
	return b.Complete()
}

// ApiVersionsRequest is an ApiVersions request, current (flexible)
// version. The broker negotiates flexibility on this one API
// specially: a client sends it legacy-encoded and the broker always
// replies legacy (v0-shaped) even though the request can be flexible;
// this module follows the pack convention of speaking the flexible
// request body and tolerating either response shape would require
// bytes not currently inspected, so ApiVersions truncates at the classic
// fields all versions share.
type ApiVersionsRequest struct {
	Version        int16
	ClientSoftwareName    string
	ClientSoftwareVersion string
}

func (*ApiVersionsRequest) Key() int16          { return ApiVersions }
func (*ApiVersionsRequest) MaxVersion() int16   { return 3 }
func (r *ApiVersionsRequest) SetVersion(v int16) { r.Version = v }
func (r *ApiVersionsRequest) GetVersion() int16  { return r.Version }
func (*ApiVersionsRequest) IsFlexible() bool     { return true }
func (*ApiVersionsRequest) ResponseKind() Response { return new(ApiVersionsResponse) }

func (r *ApiVersionsRequest) AppendTo(dst []byte) []byte {
	var w kbin.Writer
	w.Src = dst
	w.CompactString(r.ClientSoftwareName)
	w.CompactString(r.ClientSoftwareVersion)
	w.EmptyTags()
	return w.Src
}

type ApiVersionsResponse struct {
	Version        int16
	ErrorCode      int16
	ApiKeys        []ApiVersionsResponseKey
	ThrottleMillis int32
}

type ApiVersionsResponseKey struct {
	ApiKey     int16
	MinVersion int16
	MaxVersion int16
}

func (*ApiVersionsResponse) Key() int16          { return ApiVersions }
func (r *ApiVersionsResponse) SetVersion(v int16) { r.Version = v }
func (r *ApiVersionsResponse) GetVersion() int16  { return r.Version }
func (*ApiVersionsResponse) IsFlexible() bool     { return true }

func (r *ApiVersionsResponse) ReadFrom(src []byte) error {
	b := &kbin.Reader{Src: src}
	r.ErrorCode = b.Int16()
	n := b.CompactArrayLen()
	r.ApiKeys = make([]ApiVersionsResponseKey, n)
	for i := range r.ApiKeys {
		r.ApiKeys[i].ApiKey = b.Int16()
		r.ApiKeys[i].MinVersion = b.Int16()
		r.ApiKeys[i].MaxVersion = b.Int16()
		SkipTags(b)
	}
	r.ThrottleMillis = b.Int32()
	SkipTags(b)
	return b.Complete()
}
