package kgo

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/platformatic/kgo/pkg/kbin"
	"github.com/platformatic/kgo/pkg/kerr"
	"github.com/platformatic/kgo/pkg/kmsg"
	"github.com/platformatic/kgo/pkg/sasl"
)

// BrokerMetadata is what the client knows about a broker from the cluster's
// metadata, mirroring kmsg.MetadataResponseBroker.
type BrokerMetadata struct {
	NodeID int32
	Host   string
	Port   int32
	Rack   *string
}

func (m BrokerMetadata) addr() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

func logID(id int32) string {
	if id < 0 {
		return fmt.Sprintf("seed %d", -(id + 1))
	}
	return fmt.Sprint(id)
}

// connKind partitions requests into one of five independent connections per
// broker, so that one slow request class (a long poll Fetch, a group
// rebalance) cannot head-of-line block an unrelated one (a Produce).
type connKind int8

const (
	connNormal connKind = iota
	connProduce
	connFetch
	connGroup
	connSlow
	numConnKinds
)

func connKindFor(req kmsg.Request) connKind {
	switch req.Key() {
	case kmsg.Produce:
		return connProduce
	case kmsg.Fetch:
		return connFetch
	case kmsg.JoinGroup, kmsg.SyncGroup, kmsg.Heartbeat, kmsg.LeaveGroup,
		kmsg.OffsetCommit, kmsg.OffsetFetch, kmsg.ConsumerGroupHeartbeat:
		return connGroup
	case kmsg.ListGroups, kmsg.DescribeGroups, kmsg.DeleteGroups, kmsg.ListTransactions:
		return connSlow
	default:
		return connNormal
	}
}

// brokerVersions is the broker's advertised max version for every API key
// this client knows about, as reported by ApiVersions. A version of -1
// means the broker has not reported support for that key.
type brokerVersions struct {
	versions [kmsg.MaxKey + 1]int16
}

func newBrokerVersions() *brokerVersions {
	v := new(brokerVersions)
	for i := range v.versions {
		v.versions[i] = -1
	}
	return v
}

func (v *brokerVersions) lookup(key int16) (int16, bool) {
	if v == nil || key < 0 || int(key) >= len(v.versions) {
		return -1, false
	}
	max := v.versions[key]
	return max, max >= 0
}

// broker manages a logical connection to one Kafka broker, split into up to
// five physical TCP connections by connKind so unrelated request classes do
// not block each other.
type broker struct {
	cl   *Client
	meta BrokerMetadata

	versionsMu sync.Mutex
	versions   *brokerVersions

	cxnsMu sync.Mutex
	cxns   [numConnKinds]*brokerCxn

	dead int32 // atomic bool
}

func (b *broker) addr() string { return b.meta.addr() }

// loadConnection returns the connection for kind, dialing and initializing
// it (ApiVersions probe, then SASL) if this is the first use.
func (b *broker) loadConnection(ctx context.Context, kind connKind) (*brokerCxn, error) {
	b.cxnsMu.Lock()
	defer b.cxnsMu.Unlock()

	if cxn := b.cxns[kind]; cxn != nil && !cxn.isDead() {
		return cxn, nil
	}

	conn, err := b.cl.cfg.dialFn(ctx, b.addr())
	if err != nil {
		return nil, fmt.Errorf("unable to dial %s: %w", b.addr(), err)
	}

	cxn := &brokerCxn{cl: b.cl, b: b, conn: conn}
	if err := cxn.init(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	b.cxns[kind] = cxn
	return cxn, nil
}

// stopForever closes every live connection of this broker, used when a
// broker is dropped from the cluster's metadata and on Close. It does not
// mark the broker unusable: a later request through it dials a new
// connection.
func (b *broker) stopForever() {
	b.cxnsMu.Lock()
	defer b.cxnsMu.Unlock()
	for i, cxn := range b.cxns {
		if cxn != nil {
			cxn.die()
			b.cxns[i] = nil
		}
	}
}

// do issues req against the connection kind appropriate for req's type and
// decodes the response into req.ResponseKind().
func (b *broker) do(ctx context.Context, req kmsg.Request) (kmsg.Response, error) {
	kind := connKindFor(req)
	cxn, err := b.loadConnection(ctx, kind)
	if err != nil {
		return nil, err
	}
	resp, err := cxn.roundTrip(ctx, req)
	if err != nil {
		cxn.die()
		b.cxnsMu.Lock()
		if b.cxns[kind] == cxn {
			b.cxns[kind] = nil
		}
		b.cxnsMu.Unlock()
	}
	return resp, err
}

// doNoResponse issues req fire-and-forget: the frame is written but no
// response is read back, for Produce requests sent with acks=NO_RESPONSE.
// It reports whether the frame was written to the socket without hitting
// back-pressure.
func (b *broker) doNoResponse(ctx context.Context, req kmsg.Request) (bool, error) {
	kind := connKindFor(req)
	cxn, err := b.loadConnection(ctx, kind)
	if err != nil {
		return false, err
	}
	wrote, err := cxn.writeOnly(ctx, req)
	if err != nil {
		cxn.die()
		b.cxnsMu.Lock()
		if b.cxns[kind] == cxn {
			b.cxns[kind] = nil
		}
		b.cxnsMu.Unlock()
	}
	return wrote, err
}

// brokerCxn is one physical connection to a broker. Requests are serialized
// through mu: this module favors a simple, provably-FIFO round trip per
// connection over the pipelined inflight-ring-buffer approach used
// elsewhere, trading peak per-connection throughput for a much smaller
// surface area. Ordering and correlation-ID matching guarantees hold either
// way; only concurrent inflight depth differs.
type brokerCxn struct {
	cl *Client
	b  *broker

	conn net.Conn
	mu   sync.Mutex

	corrID int32

	mechanism sasl.Mechanism
	expiry    time.Time // sasl re-authentication deadline, zero if none

	dead int32 // atomic bool
}

func (cxn *brokerCxn) isDead() bool { return atomic.LoadInt32(&cxn.dead) != 0 }

func (cxn *brokerCxn) die() {
	atomic.StoreInt32(&cxn.dead, 1)
	cxn.conn.Close()
}

func (cxn *brokerCxn) init(ctx context.Context) error {
	if cxn.b.loadVersions() == nil {
		if err := cxn.requestAPIVersions(ctx); err != nil {
			return err
		}
	}
	if err := cxn.sasl(ctx); err != nil {
		return err
	}
	return nil
}

func (b *broker) loadVersions() *brokerVersions {
	b.versionsMu.Lock()
	defer b.versionsMu.Unlock()
	return b.versions
}

func (b *broker) storeVersions(v *brokerVersions) {
	b.versionsMu.Lock()
	defer b.versionsMu.Unlock()
	b.versions = v
}

// requestAPIVersions probes the broker for its supported API key versions.
// Brokers older than 2.4.0 reply to an unrecognized ApiVersions version with
// a v0-shaped UNSUPPORTED_VERSION error; this retries once at v0 in that
// case, matching the well-known quirk of this API (it alone never uses a
// flexible response header, even on versions whose body is flexible).
func (cxn *brokerCxn) requestAPIVersions(ctx context.Context) error {
	maxVersion := int16(3)

start:
	req := &kmsg.ApiVersionsRequest{
		Version:               maxVersion,
		ClientSoftwareName:    cxn.cl.cfg.softwareName,
		ClientSoftwareVersion: cxn.cl.cfg.softwareVersion,
	}

	rawResp, err := cxn.writeReadRaw(ctx, req, false)
	if err != nil {
		return err
	}
	if len(rawResp) < 2 {
		return fmt.Errorf("invalid %d byte response to ApiVersions", len(rawResp))
	}

	if rawResp[0] == 0 && rawResp[1] == 35 { // UNSUPPORTED_VERSION
		if maxVersion == 0 {
			return errors.New("broker replied UNSUPPORTED_VERSION to an ApiVersions v0 request")
		}
		s := string(rawResp)
		if s == "\x00\x23\x00\x00\x00\x00" || s == "\x00\x23\x00\x00\x00\x00\x00\x00\x00\x00" {
			maxVersion = 0
			goto start
		}
	}

	resp := new(kmsg.ApiVersionsResponse)
	if rawResp[0] == 0 && rawResp[1] == 35 {
		resp.Version = 0
	}
	if err := resp.ReadFrom(rawResp); err != nil {
		return fmt.Errorf("unable to read ApiVersions response: %w", err)
	}
	if err := kerr.ErrorForCode(resp.ErrorCode); err != nil {
		return err
	}

	v := newBrokerVersions()
	for _, k := range resp.ApiKeys {
		if k.ApiKey < 0 || int(k.ApiKey) >= len(v.versions) {
			continue
		}
		v.versions[k.ApiKey] = k.MaxVersion
	}
	cxn.b.storeVersions(v)
	return nil
}

// sasl negotiates and performs the SASL handshake, falling back to the next
// configured mechanism if the broker reports UNSUPPORTED_SASL_MECHANISM.
func (cxn *brokerCxn) sasl(ctx context.Context) error {
	if len(cxn.cl.cfg.sasls) == 0 {
		return nil
	}

	v := cxn.b.loadVersions()
	mechanisms := cxn.cl.cfg.sasls
	var lastErr error

	for _, mech := range mechanisms {
		handshakeVersion, ok := v.lookup(kmsg.SaslHandshake)
		if !ok {
			handshakeVersion = 1
		}
		req := &kmsg.SaslHandshakeRequest{Version: handshakeVersion, Mechanism: mech.Name()}
		rawResp, err := cxn.writeReadRaw(ctx, req, req.IsFlexible())
		if err != nil {
			return err
		}
		resp := new(kmsg.SaslHandshakeResponse)
		if err := resp.ReadFrom(rawResp); err != nil {
			return err
		}
		if err := kerr.ErrorForCode(resp.ErrorCode); err != nil {
			if kerr.IsRetriable(err) {
				return err
			}
			lastErr = err
			continue // try the next configured mechanism
		}

		cxn.mechanism = mech
		return cxn.doSasl(ctx, handshakeVersion == 1)
	}
	if lastErr == nil {
		lastErr = errors.New("no configured SASL mechanism was accepted by the broker")
	}
	return lastErr
}

// doSasl drives mech's challenge/response loop to completion, wrapping each
// round in SaslAuthenticate when the broker's handshake was v1+, or writing
// raw length-prefixed bytes directly otherwise (the pre-KIP-152 wire form).
func (cxn *brokerCxn) doSasl(ctx context.Context, wrapInAuthenticate bool) error {
	session, err := cxn.mechanism.Session(ctx)
	if err != nil {
		return err
	}

	var serverResp []byte
	start := time.Now()
	var sessionLifetimeMillis int64

	for {
		clientResp, done, err := session.Challenge(serverResp)
		if err != nil {
			return fmt.Errorf("sasl (%s): %w", cxn.mechanism.Name(), err)
		}
		if len(clientResp) == 0 && done {
			break
		}

		if wrapInAuthenticate {
			req := &kmsg.SaslAuthenticateRequest{AuthBytes: clientResp}
			rawResp, err := cxn.writeReadRaw(ctx, req, req.IsFlexible())
			if err != nil {
				return err
			}
			resp := new(kmsg.SaslAuthenticateResponse)
			if err := resp.ReadFrom(rawResp); err != nil {
				return err
			}
			if err := kerr.ErrorForCode(resp.ErrorCode); err != nil {
				return err
			}
			serverResp = resp.AuthBytes
			sessionLifetimeMillis = resp.SessionLifetimeMillis
		} else {
			if err := cxn.writeRaw(clientResp); err != nil {
				return err
			}
			serverResp, err = cxn.readRaw()
			if err != nil {
				return err
			}
		}

		if done {
			break
		}
	}

	if sessionLifetimeMillis > 0 {
		lifetime := time.Duration(sessionLifetimeMillis) * time.Millisecond
		const latencyFloor = 2500 * time.Millisecond
		if lifetime > latencyFloor {
			lifetime -= latencyFloor
		} else {
			lifetime = 100 * time.Millisecond // avoid spin-looping reauth
		}
		cxn.expiry = start.Add(lifetime)
	}
	return nil
}

// reauthIfExpired redoes the SASL handshake if the session's lifetime has
// elapsed, per the broker-advertised re-authentication deadline.
func (cxn *brokerCxn) reauthIfExpired(ctx context.Context) error {
	if cxn.expiry.IsZero() || time.Now().Before(cxn.expiry) {
		return nil
	}
	return cxn.sasl(ctx)
}

// roundTrip writes req and decodes its response, serialized under cxn.mu so
// a connection's requests and responses stay strictly FIFO.
func (cxn *brokerCxn) roundTrip(ctx context.Context, req kmsg.Request) (kmsg.Response, error) {
	cxn.mu.Lock()
	defer cxn.mu.Unlock()

	if req.Key() != kmsg.SaslHandshake && req.Key() != kmsg.SaslAuthenticate {
		if err := cxn.reauthIfExpired(ctx); err != nil {
			return nil, err
		}
	}

	version := req.MaxVersion()
	if v, ok := cxn.b.loadVersions().lookup(req.Key()); ok && v < version {
		version = v
	}
	req.SetVersion(version)

	rawResp, err := cxn.writeReadRaw(ctx, req, req.IsFlexible() && req.Key() != kmsg.ApiVersions)
	if err != nil {
		return nil, err
	}

	resp := req.ResponseKind()
	resp.SetVersion(version)
	if err := resp.ReadFrom(rawResp); err != nil {
		return nil, fmt.Errorf("unable to read %s response: %w", kmsg.NameForKey(req.Key()), err)
	}
	return resp, nil
}

// writeReadRaw writes req's framed request and returns the raw response
// body (header already stripped). skipTags controls whether a flexible
// response header's tag buffer is consumed; ApiVersions is the one
// exception that never carries one, even at a flexible version.
func (cxn *brokerCxn) writeReadRaw(ctx context.Context, req kmsg.Request, skipTags bool) ([]byte, error) {
	corrID := cxn.corrID
	cxn.corrID++

	buf := appendRequestHeader(nil, req, corrID, *cxn.cl.cfg.id)
	buf = req.AppendTo(buf)

	if err := cxn.writeFrame(ctx, buf); err != nil {
		return nil, err
	}

	frame, err := cxn.readFrame(ctx)
	if err != nil {
		return nil, err
	}
	if len(frame) < 4 {
		return nil, io.ErrUnexpectedEOF
	}
	gotCorrID := int32(binary.BigEndian.Uint32(frame))
	if gotCorrID != corrID {
		return nil, ErrCorrelationIDMismatch
	}
	body := frame[4:]
	if skipTags {
		r := &kbin.Reader{Src: body}
		kmsg.SkipTags(r)
		body = r.Src
	}
	return body, nil
}

// writeOnly writes req's framed bytes without allocating any inflight entry
// or reading a reply — the broker never sends one for acks=NO_RESPONSE. It
// first probes with a write deadline one millisecond out: if the whole frame
// is accepted by the socket before that deadline passes, the write was fully
// buffered immediately (true); otherwise the remainder is flushed under the
// normal write deadline and false is returned (fully buffered vs. the write
// hitting back-pressure).
func (cxn *brokerCxn) writeOnly(ctx context.Context, req kmsg.Request) (bool, error) {
	cxn.mu.Lock()
	defer cxn.mu.Unlock()

	version := req.MaxVersion()
	if v, ok := cxn.b.loadVersions().lookup(req.Key()); ok && v < version {
		version = v
	}
	req.SetVersion(version)

	corrID := cxn.corrID
	cxn.corrID++
	buf := appendRequestHeader(nil, req, corrID, *cxn.cl.cfg.id)
	buf = req.AppendTo(buf)

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(buf)))
	framed := append(lenBuf[:], buf...)

	cxn.conn.SetWriteDeadline(time.Now().Add(time.Millisecond))
	n, err := cxn.conn.Write(framed)
	immediate := err == nil
	if err != nil {
		if ne, ok := err.(net.Error); !ok || !ne.Timeout() {
			return false, err
		}
	}
	if n < len(framed) {
		if deadline, ok := cxn.writeDeadline(); ok {
			cxn.conn.SetWriteDeadline(deadline)
		}
		if _, err := cxn.conn.Write(framed[n:]); err != nil {
			return false, err
		}
	}
	return immediate, nil
}

func (cxn *brokerCxn) writeRaw(b []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	return cxn.writeFrameBytes(append(lenBuf[:], b...))
}

func (cxn *brokerCxn) readRaw() ([]byte, error) {
	return cxn.readFrame(nil)
}

func (cxn *brokerCxn) writeFrame(ctx context.Context, body []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	return cxn.writeFrameBytes(append(lenBuf[:], body...))
}

func (cxn *brokerCxn) writeFrameBytes(framed []byte) error {
	if deadline, ok := cxn.writeDeadline(); ok {
		cxn.conn.SetWriteDeadline(deadline)
	}
	_, err := cxn.conn.Write(framed)
	return err
}

func (cxn *brokerCxn) readFrame(ctx context.Context) ([]byte, error) {
	if deadline, ok := cxn.readDeadline(); ok {
		cxn.conn.SetReadDeadline(deadline)
	}
	var lenBuf [4]byte
	if _, err := io.ReadFull(cxn.conn, lenBuf[:]); err != nil {
		return nil, err
	}
	size := int32(binary.BigEndian.Uint32(lenBuf[:]))
	if size < 0 || int64(size) > int64(cxn.cl.cfg.maxBrokerReadBytes) {
		return nil, fmt.Errorf("invalid response size %d", size)
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(cxn.conn, body); err != nil {
		return nil, err
	}
	return body, nil
}

func (cxn *brokerCxn) writeDeadline() (time.Time, bool) {
	return time.Now().Add(30 * time.Second), true
}

func (cxn *brokerCxn) readDeadline() (time.Time, bool) {
	return time.Now().Add(30 * time.Second), true
}

// appendRequestHeader appends a Kafka request header (v1, or v2 if req is
// flexible) to dst. The caller appends req's body after it, and the 4-byte
// big-endian length prefix is added when the frame is written.
func appendRequestHeader(dst []byte, req kmsg.Request, corrID int32, clientID string) []byte {
	var hdr []byte
	hdr = appendInt16(hdr, req.Key())
	hdr = appendInt16(hdr, req.GetVersion())
	hdr = appendInt32(hdr, corrID)
	hdr = appendNullableString(hdr, clientID)
	if req.IsFlexible() {
		hdr = append(hdr, 0) // empty tagged-field section
	}
	return append(dst, hdr...)
}

func appendInt16(dst []byte, v int16) []byte { return append(dst, byte(v>>8), byte(v)) }
func appendInt32(dst []byte, v int32) []byte {
	return append(dst, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
func appendNullableString(dst []byte, s string) []byte {
	dst = appendInt16(dst, int16(len(s)))
	return append(dst, s...)
}
