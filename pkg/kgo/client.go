package kgo

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/exp/rand"

	"github.com/platformatic/kgo/pkg/kerr"
	"github.com/platformatic/kgo/pkg/kmsg"
)

const unknownControllerID = -1

// unknownSeedID returns a negative, always-distinct ID for the nth seed
// broker, since seeds are not yet known to the cluster's own broker IDs.
func unknownSeedID(n int) int32 { return -1 - int32(n) }

// Client issues requests to (and receives responses from) a Kafka cluster,
// transparently routing admin requests to the controller and group/txn
// requests to their coordinator, retrying on retriable errors.
type Client struct {
	cfg cfg

	ctx       context.Context
	ctxCancel context.CancelFunc

	rng *rand.Rand

	brokersMu    sync.RWMutex
	brokers      map[int32]*broker
	anyBroker    []*broker
	anyBrokerIdx int
	stopped      bool

	controllerID int32 // atomic

	coordinatorsMu sync.Mutex
	coordinators   map[coordinatorKey]int32

	topicsMu sync.Mutex
	topics   atomic.Value // map[string]*topicPartitions

	updateMetadataCh    chan struct{}
	updateMetadataNowCh chan struct{}
	metadone            chan struct{}

	producer producer
	consumer consumer
}

// NewClient returns a client configured with opts, or an error if the
// configuration is invalid (e.g. no seed brokers).
func NewClient(opts ...Opt) (*Client, error) {
	c := defaultCfg()
	for _, o := range opts {
		o.apply(&c)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}

	type seedAddr struct {
		host string
		port int32
	}
	seedAddrs := make([]seedAddr, 0, len(c.seedBrokers))
	for _, seed := range c.seedBrokers {
		addr := seed
		port := 9092
		if colon := strings.IndexByte(addr, ':'); colon > 0 {
			p, err := strconv.Atoi(addr[colon+1:])
			if err != nil {
				return nil, fmt.Errorf("unable to parse addr:port in %q", seed)
			}
			port = p
			addr = addr[:colon]
		}
		if addr == "localhost" {
			addr = "127.0.0.1"
		}
		seedAddrs = append(seedAddrs, seedAddr{host: addr, port: int32(port)})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cl := &Client{
		cfg:       c,
		ctx:       ctx,
		ctxCancel: cancel,
		rng:       rand.New(new(rand.PCGSource)),

		controllerID: unknownControllerID,
		brokers:      make(map[int32]*broker),

		coordinators: make(map[coordinatorKey]int32),

		updateMetadataCh:    make(chan struct{}, 1),
		updateMetadataNowCh: make(chan struct{}, 1),
		metadone:            make(chan struct{}),
	}
	cl.topics.Store(make(map[string]*topicPartitions))
	cl.producer.init(cl)
	cl.consumer.init(cl)

	for i, sa := range seedAddrs {
		id := unknownSeedID(i)
		b := &broker{cl: cl, meta: BrokerMetadata{NodeID: id, Host: sa.host, Port: sa.port}}
		cl.brokers[id] = b
		cl.anyBroker = append(cl.anyBroker, b)
	}

	go cl.updateMetadataLoop()
	return cl, nil
}

// Close cancels every in-flight and future request and tears down all
// broker connections. It does not return until the metadata loop exits.
func (cl *Client) Close() {
	cl.brokersMu.Lock()
	if cl.stopped {
		cl.brokersMu.Unlock()
		return
	}
	cl.stopped = true
	for _, b := range cl.brokers {
		b.stopForever()
	}
	cl.brokersMu.Unlock()

	cl.ctxCancel()
	<-cl.metadone
}

// broker returns a broker from the client's current broker set (the seeds
// plus the brokers of the latest metadata), round-robining and periodically reshuffling to spread load.
func (cl *Client) broker() *broker {
	cl.brokersMu.Lock()
	defer cl.brokersMu.Unlock()

	if len(cl.anyBroker) == 0 {
		return nil
	}
	if cl.anyBrokerIdx >= len(cl.anyBroker) {
		cl.anyBrokerIdx = 0
	}
	b := cl.anyBroker[cl.anyBrokerIdx]
	cl.anyBrokerIdx++
	if cl.anyBrokerIdx == len(cl.anyBroker) {
		cl.anyBrokerIdx = 0
		cl.rng.Shuffle(len(cl.anyBroker), func(i, j int) {
			cl.anyBroker[i], cl.anyBroker[j] = cl.anyBroker[j], cl.anyBroker[i]
		})
	}
	return b
}

func (cl *Client) brokerOrErr(id int32, orErr error) (*broker, error) {
	cl.brokersMu.RLock()
	b := cl.brokers[id]
	cl.brokersMu.RUnlock()
	if b == nil {
		return nil, orErr
	}
	return b, nil
}

// updateBrokers replaces the client's broker set from a Metadata response,
// tearing down stale connections for brokers whose address changed and
// always preserving seed brokers (negative IDs) even once real brokers are
// known, since a metadata refresh may transiently fail to reach any of them.
func (cl *Client) updateBrokers(brokers []kmsg.MetadataResponseBroker) {
	next := make(map[int32]*broker, len(brokers))
	nextAny := make([]*broker, 0, len(brokers))

	cl.brokersMu.Lock()
	defer cl.brokersMu.Unlock()
	if cl.stopped {
		return
	}

	for _, mb := range brokers {
		addr := net.JoinHostPort(mb.Host, strconv.Itoa(int(mb.Port)))
		b, ok := cl.brokers[mb.NodeID]
		if ok {
			delete(cl.brokers, mb.NodeID)
			if b.addr() != addr {
				b.stopForever()
				b = &broker{cl: cl, meta: BrokerMetadata{NodeID: mb.NodeID, Host: mb.Host, Port: mb.Port, Rack: mb.Rack}}
			}
		} else {
			b = &broker{cl: cl, meta: BrokerMetadata{NodeID: mb.NodeID, Host: mb.Host, Port: mb.Port, Rack: mb.Rack}}
		}
		next[mb.NodeID] = b
		nextAny = append(nextAny, b)
	}

	for id, b := range cl.brokers {
		if id < 0 { // seed, always kept
			next[id] = b
			nextAny = append(nextAny, b)
		} else {
			b.stopForever()
		}
	}

	cl.brokers = next
	cl.anyBroker = nextAny
}

func (cl *Client) waitTries(ctx context.Context, tries int) bool {
	t := time.NewTimer(cl.cfg.retryBackoff(tries))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-cl.ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (cl *Client) shouldRetry(err error, tries int, tryStart time.Time) bool {
	if time.Since(tryStart) > cl.cfg.requestTimeoutOverhead*time.Duration(cl.cfg.retries) {
		return false
	}
	if err == ErrConnDead {
		return tries < cl.cfg.brokerConnDeadRetries
	}
	return kerr.IsRetriable(err) && tries < cl.cfg.retries
}

// controller returns the cluster controller broker, discovering it via a
// metadata fetch if it is not yet known.
func (cl *Client) controller(ctx context.Context) (*broker, error) {
	id := atomic.LoadInt32(&cl.controllerID)
	if id < 0 {
		if _, err := cl.fetchMetadata(ctx, false, nil); err != nil {
			return nil, err
		}
		id = atomic.LoadInt32(&cl.controllerID)
		if id < 0 {
			return nil, &errUnknownController{id}
		}
	}
	return cl.brokerOrErr(id, &errUnknownController{id})
}

const (
	coordinatorTypeGroup int8 = 0
	coordinatorTypeTxn   int8 = 1
)

type coordinatorKey struct {
	name string
	typ  int8
}

// loadCoordinator returns (discovering and caching if necessary) the
// broker that coordinates key, invalidating the cache entry if err later
// reports the cached broker is no longer the coordinator.
func (cl *Client) loadCoordinator(ctx context.Context, key coordinatorKey) (*broker, error) {
	cl.coordinatorsMu.Lock()
	id, ok := cl.coordinators[key]
	cl.coordinatorsMu.Unlock()
	if ok {
		return cl.brokerOrErr(id, &errUnknownCoordinator{id, key})
	}

	keyType := kmsg.CoordinatorKeyGroup
	if key.typ == coordinatorTypeTxn {
		keyType = kmsg.CoordinatorKeyTxn
	}
	b := cl.broker()
	if b == nil {
		return nil, ErrUnknownBroker
	}
	resp, err := b.do(ctx, &kmsg.FindCoordinatorRequest{Key: key.name, KeyType: keyType})
	if err != nil {
		return nil, err
	}
	fcResp := resp.(*kmsg.FindCoordinatorResponse)
	if len(fcResp.Coordinators) == 0 {
		return nil, fmt.Errorf("FindCoordinator returned no coordinators for %q", key.name)
	}
	coord := fcResp.Coordinators[0]
	if err := kerr.ErrorForCode(coord.ErrorCode); err != nil {
		return nil, err
	}

	cl.coordinatorsMu.Lock()
	cl.coordinators[key] = coord.NodeID
	cl.coordinatorsMu.Unlock()

	return cl.brokerOrErr(coord.NodeID, &errUnknownCoordinator{coord.NodeID, key})
}

func (cl *Client) invalidateCoordinator(key coordinatorKey) {
	cl.coordinatorsMu.Lock()
	delete(cl.coordinators, key)
	cl.coordinatorsMu.Unlock()
}

// coordinatorKeyFor extracts the group/transactional-ID name a coordinator
// request is keyed on.
func coordinatorKeyFor(req kmsg.Request, typ int8) (string, bool) {
	switch t := req.(type) {
	case *kmsg.InitProducerIDRequest:
		if t.TransactionalID == nil {
			return "", false
		}
		return *t.TransactionalID, true
	case *kmsg.AddPartitionsToTxnRequest:
		return t.TransactionalID, true
	case *kmsg.AddOffsetsToTxnRequest:
		return t.TransactionalID, true
	case *kmsg.EndTxnRequest:
		return t.TransactionalID, true
	case *kmsg.TxnOffsetCommitRequest:
		return t.TransactionalID, true
	case *kmsg.OffsetCommitRequest:
		return t.Group, true
	case *kmsg.OffsetFetchRequest:
		return t.Group, true
	case *kmsg.JoinGroupRequest:
		return t.Group, true
	case *kmsg.SyncGroupRequest:
		return t.Group, true
	case *kmsg.HeartbeatRequest:
		return t.Group, true
	case *kmsg.LeaveGroupRequest:
		return t.Group, true
	case *kmsg.ConsumerGroupHeartbeatRequest:
		return t.Group, true
	}
	_ = typ
	return "", false
}

// handleCoordinatorReq issues a group or transaction request against its
// coordinator, retrying with a fresh coordinator lookup if the broker
// reports the cached one is stale.
func (cl *Client) handleCoordinatorReq(ctx context.Context, req kmsg.Request, typ int8) (kmsg.Response, error) {
	name, ok := coordinatorKeyFor(req, typ)
	if !ok {
		// e.g. InitProducerID with no transactional ID: any broker will do.
		b := cl.broker()
		if b == nil {
			return nil, ErrUnknownBroker
		}
		return b.do(ctx, req)
	}

	key := coordinatorKey{name: name, typ: typ}
	tries := 0
	tryStart := time.Now()
start:
	tries++
	b, err := cl.loadCoordinator(ctx, key)
	if err != nil {
		if cl.shouldRetry(err, tries, tryStart) && cl.waitTries(ctx, tries) {
			goto start
		}
		return nil, err
	}

	resp, err := b.do(ctx, req)
	if err == nil {
		if code, ok := responseErrorCode(resp); ok {
			if rerr := kerr.ErrorForCode(code); rerr != nil && isCoordinatorStaleErr(rerr) {
				cl.invalidateCoordinator(key)
				if cl.waitTries(ctx, tries) {
					goto start
				}
			}
		}
	}
	if err != nil {
		if cl.shouldRetry(err, tries, tryStart) && cl.waitTries(ctx, tries) {
			goto start
		}
	}
	return resp, err
}

func isCoordinatorStaleErr(err error) bool {
	return err == kerr.CoordinatorNotAvailable || err == kerr.CoordinatorLoadInProgress || err == kerr.NotCoordinator
}

// responseErrorCode extracts the top-level ErrorCode field many simple
// responses carry, for coordinator-staleness detection, via a type switch
// rather than reflection (keeping this package reflection-free).
func responseErrorCode(resp kmsg.Response) (int16, bool) {
	switch r := resp.(type) {
	case *kmsg.FindCoordinatorResponse:
		if len(r.Coordinators) > 0 {
			return r.Coordinators[0].ErrorCode, true
		}
	case *kmsg.JoinGroupResponse:
		return r.ErrorCode, true
	case *kmsg.SyncGroupResponse:
		return r.ErrorCode, true
	case *kmsg.HeartbeatResponse:
		return r.ErrorCode, true
	case *kmsg.LeaveGroupResponse:
		return r.ErrorCode, true
	case *kmsg.ConsumerGroupHeartbeatResponse:
		return r.ErrorCode, true
	case *kmsg.EndTxnResponse:
		return r.ErrorCode, true
	}
	return 0, false
}

// handleListOrEpochReq splits a ListOffsets request by each partition's
// current leader (from the cached topic metadata), issues one sub-request
// per leader broker concurrently, and merges the results back into a single
// response. An OffsetForLeaderEpoch request is not split: it is sent whole
// to one broker.
func (cl *Client) handleListOrEpochReq(ctx context.Context, req kmsg.Request) (kmsg.Response, error) {
	switch t := req.(type) {
	case *kmsg.ListOffsetsRequest:
		byLeader, err := cl.splitListOffsets(t)
		if err != nil {
			return nil, err
		}
		merged := &kmsg.ListOffsetsResponse{}
		var mu sync.Mutex
		var wg sync.WaitGroup
		var firstErr error
		for b, sub := range byLeader {
			b, sub := b, sub
			wg.Add(1)
			go func() {
				defer wg.Done()
				resp, err := b.do(ctx, sub)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					return
				}
				merged.Topics = append(merged.Topics, resp.(*kmsg.ListOffsetsResponse).Topics...)
			}()
		}
		wg.Wait()
		if len(merged.Topics) == 0 && firstErr != nil {
			return nil, firstErr
		}
		return merged, nil
	default:
		// OffsetForLeaderEpoch and any future split-capable request not
		// yet implemented: fall back to a single broker, which is
		// correct as long as all partitions requested share a leader.
		b := cl.broker()
		if b == nil {
			return nil, ErrUnknownBroker
		}
		return b.do(ctx, req)
	}
}

func (cl *Client) splitListOffsets(req *kmsg.ListOffsetsRequest) (map[*broker]*kmsg.ListOffsetsRequest, error) {
	topics := cl.loadTopics()
	byLeader := make(map[*broker]*kmsg.ListOffsetsRequest)

	for _, t := range req.Topics {
		tp, ok := topics[t.Topic]
		if !ok || tp.loadErr != nil {
			return nil, fmt.Errorf("no cached metadata for topic %q; fetch metadata first", t.Topic)
		}
		for _, p := range t.Partitions {
			if int(p.Partition) >= len(tp.partitions) {
				continue
			}
			pm := tp.partitions[p.Partition]
			b, err := cl.brokerOrErr(pm.leader, ErrUnknownBroker)
			if err != nil {
				return nil, err
			}
			sub, ok := byLeader[b]
			if !ok {
				sub = &kmsg.ListOffsetsRequest{ReplicaID: req.ReplicaID, IsolationLevel: req.IsolationLevel}
				byLeader[b] = sub
			}
			var topicReq *kmsg.ListOffsetsRequestTopic
			for i := range sub.Topics {
				if sub.Topics[i].Topic == t.Topic {
					topicReq = &sub.Topics[i]
					break
				}
			}
			if topicReq == nil {
				sub.Topics = append(sub.Topics, kmsg.ListOffsetsRequestTopic{Topic: t.Topic})
				topicReq = &sub.Topics[len(sub.Topics)-1]
			}
			topicReq.Partitions = append(topicReq.Partitions, p)
		}
	}
	return byLeader, nil
}

// Request issues req, routing it appropriately (controller for admin
// requests, coordinator for group/txn requests, split across brokers for
// ListOffsets, a single broker for OffsetForLeaderEpoch) and retrying
// retriable failures.
func (cl *Client) Request(ctx context.Context, req kmsg.Request) (kmsg.Response, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		resp kmsg.Response
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := cl.request(ctx, req)
		done <- result{resp, err}
	}()

	select {
	case r := <-done:
		return r.resp, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-cl.ctx.Done():
		return nil, cl.ctx.Err()
	}
}

func (cl *Client) request(ctx context.Context, req kmsg.Request) (kmsg.Response, error) {
	tries := 0
	tryStart := time.Now()

start:
	tries++

	if metaReq, ok := req.(*kmsg.MetadataRequest); ok {
		topics := make([]string, 0, len(metaReq.Topics))
		for _, t := range metaReq.Topics {
			if t.Topic != nil {
				topics = append(topics, *t.Topic)
			}
		}
		return cl.fetchMetadata(ctx, metaReq.Topics == nil, topics)
	}

	var resp kmsg.Response
	var err error
	switch {
	case isAdminRequest(req):
		var b *broker
		if b, err = cl.controller(ctx); err == nil {
			resp, err = b.do(ctx, req)
		}
	case isGroupCoordinatorRequest(req):
		resp, err = cl.handleCoordinatorReq(ctx, req, coordinatorTypeGroup)
	case isTxnCoordinatorRequest(req):
		resp, err = cl.handleCoordinatorReq(ctx, req, coordinatorTypeTxn)
	case req.Key() == kmsg.ListOffsets, req.Key() == kmsg.OffsetForLeaderEpoch:
		resp, err = cl.handleListOrEpochReq(ctx, req)
	default:
		b := cl.broker()
		if b == nil {
			return nil, ErrUnknownBroker
		}
		resp, err = b.do(ctx, req)
	}

	if err != nil && cl.shouldRetry(err, tries, tryStart) {
		if cl.waitTries(ctx, tries) {
			goto start
		}
	}
	return resp, err
}

func isAdminRequest(req kmsg.Request) bool {
	_, ok := req.(kmsg.AdminRequest)
	return ok
}

func isGroupCoordinatorRequest(req kmsg.Request) bool {
	_, ok := req.(kmsg.GroupCoordinatorRequest)
	return ok
}

func isTxnCoordinatorRequest(req kmsg.Request) bool {
	_, ok := req.(kmsg.TxnCoordinatorRequest)
	return ok
}
