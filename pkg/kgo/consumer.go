package kgo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/platformatic/kgo/pkg/kbin"
	"github.com/platformatic/kgo/pkg/kerr"
	"github.com/platformatic/kgo/pkg/kmsg"
)

// groupState is the consumer group membership state machine.
type groupState int8

const (
	groupUnjoined groupState = iota
	groupCoordinatorKnown
	groupJoining
	groupSyncing
	groupStable
	groupHeartbeating
	groupLeft
)

// consumer drives this client's membership in a single consumer group:
// join/sync/heartbeat/leave, the fetch loop over assigned partitions, and
// offset commits. One Client supports at most one active group.
type consumer struct {
	cl *Client

	mu    sync.Mutex
	state groupState

	memberID     string
	generationID int32
	memberEpoch  int32 // KIP-848 ConsumerGroupHeartbeat generation analogue
	protocol     string

	assigned map[string][]int32 // topic -> partitions
	offsets  map[topicPartition]int64

	heartbeatCancel context.CancelFunc
	heartbeatDone   chan struct{}
}

func (c *consumer) init(cl *Client) {
	c.cl = cl
	c.assigned = make(map[string][]int32)
	c.offsets = make(map[topicPartition]int64)
}

// Join starts this client's membership in the configured consumer group,
// subscribing to the configured topics, and blocks until the group has
// reached STABLE for the first time (or a fatal join error occurs).
func (cl *Client) Join(ctx context.Context) error {
	if cl.cfg.consumerGroup == "" {
		return fmt.Errorf("no consumer group configured")
	}
	c := &cl.consumer
	c.mu.Lock()
	c.state = groupCoordinatorKnown
	c.mu.Unlock()

	if cl.cfg.useKip848 {
		if err := c.heartbeatKip848(ctx); err != nil {
			return err
		}
		c.startKip848Loop()
		cl.startAutoCommitLoop(cl.ctx)
		return nil
	}

	if err := c.joinAndSync(ctx); err != nil {
		return err
	}
	c.startHeartbeatLoop()
	cl.startAutoCommitLoop(cl.ctx)
	return nil
}

// Leave sends LeaveGroup and resets this client's membership to the
// terminal LEFT state. Subsequent operations require a fresh Join.
func (cl *Client) Leave(ctx context.Context) error {
	c := &cl.consumer
	c.stopHeartbeatLoop()

	c.mu.Lock()
	memberID := c.memberID
	c.mu.Unlock()
	if memberID == "" {
		return nil
	}

	req := &kmsg.LeaveGroupRequest{
		Group: cl.cfg.consumerGroup,
		Members: []kmsg.LeaveGroupRequestMember{{
			MemberID: memberID,
			Reason:   strPtr("client leaving"),
		}},
	}
	_, err := cl.Request(ctx, req)

	c.mu.Lock()
	c.state = groupLeft
	c.memberID = ""
	c.assigned = make(map[string][]int32)
	c.mu.Unlock()
	return err
}

// joinAndSync runs JoinGroup followed (for the leader) by assignment
// computation, then SyncGroup for every member, looping back to JoinGroup
// on MEMBER_ID_REQUIRED or REBALANCE_IN_PROGRESS.
func (c *consumer) joinAndSync(ctx context.Context) error {
	for {
		c.mu.Lock()
		c.state = groupJoining
		memberID := c.memberID
		c.mu.Unlock()

		joinResp, err := c.join(ctx, memberID)
		if err != nil {
			if kerr.IsRebalanceInProgress(err) {
				continue
			}
			if rerr, ok := err.(*memberIDRequiredErr); ok {
				c.mu.Lock()
				c.memberID = rerr.memberID
				c.mu.Unlock()
				continue
			}
			return err
		}

		c.mu.Lock()
		c.memberID = joinResp.MemberID
		c.generationID = joinResp.GenerationID
		if joinResp.ProtocolName != nil {
			c.protocol = *joinResp.ProtocolName
		}
		c.state = groupSyncing
		c.mu.Unlock()

		var assignments []kmsg.SyncGroupRequestAssignment
		if joinResp.Leader == joinResp.MemberID {
			assignments, err = c.computeAssignments(joinResp.Members)
			if err != nil {
				return err
			}
		}

		syncResp, err := c.sync(ctx, joinResp.MemberID, joinResp.GenerationID, assignments)
		if err != nil {
			if kerr.IsRebalanceInProgress(err) {
				continue
			}
			return err
		}

		assigned, err := decodeAssignment(syncResp.Assignment)
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.assigned = assigned
		c.state = groupStable
		c.mu.Unlock()
		return nil
	}
}

type memberIDRequiredErr struct{ memberID string }

func (e *memberIDRequiredErr) Error() string { return "member id required: " + e.memberID }

func (c *consumer) join(ctx context.Context, memberID string) (*kmsg.JoinGroupResponse, error) {
	req := &kmsg.JoinGroupRequest{
		Group:                  c.cl.cfg.consumerGroup,
		SessionTimeoutMillis:   int32(c.cl.cfg.sessionTimeout / time.Millisecond),
		RebalanceTimeoutMillis: int32(c.cl.cfg.rebalanceTimeout / time.Millisecond),
		MemberID:               memberID,
		ProtocolType:           "consumer",
		Protocols: []kmsg.JoinGroupRequestProtocol{{
			Name:     "roundrobin",
			Metadata: encodeSubscription(c.cl.cfg.consumerTopics),
		}},
	}
	resp, err := c.cl.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	joinResp := resp.(*kmsg.JoinGroupResponse)
	if err := kerr.ErrorForCode(joinResp.ErrorCode); err != nil {
		if err == kerr.MemberIDRequired {
			return nil, &memberIDRequiredErr{memberID: joinResp.MemberID}
		}
		return nil, err
	}
	return joinResp, nil
}

func (c *consumer) sync(ctx context.Context, memberID string, generation int32, assignments []kmsg.SyncGroupRequestAssignment) (*kmsg.SyncGroupResponse, error) {
	req := &kmsg.SyncGroupRequest{
		Group:        c.cl.cfg.consumerGroup,
		GenerationID: generation,
		MemberID:     memberID,
		ProtocolType: strPtr("consumer"),
		ProtocolName: strPtr("roundrobin"),
		Assignments:  assignments,
	}
	resp, err := c.cl.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	syncResp := resp.(*kmsg.SyncGroupResponse)
	if err := kerr.ErrorForCode(syncResp.ErrorCode); err != nil {
		return nil, err
	}
	return syncResp, nil
}

// computeAssignments runs the round-robin strategy: for each subscribed
// topic in ascending name order, for each partition 0..partitionsCount-1,
// assign to members[i % len(members)], with i incremented across all
// partitions of all topics (not reset per topic).
func (c *consumer) computeAssignments(members []kmsg.JoinGroupResponseMember) ([]kmsg.SyncGroupRequestAssignment, error) {
	topicSet := make(map[string]bool)
	for _, m := range members {
		topics, err := decodeSubscription(m.Metadata)
		if err != nil {
			return nil, err
		}
		for _, t := range topics {
			topicSet[t] = true
		}
	}

	topics := make([]string, 0, len(topicSet))
	for t := range topicSet {
		topics = append(topics, t)
	}
	sort.Strings(topics) // stand-in for "metadata iteration order" absent a live fetch here

	cached := c.cl.loadTopics()
	assign := make(map[string]map[string][]int32, len(members)) // memberID -> topic -> partitions
	for _, m := range members {
		assign[m.MemberID] = make(map[string][]int32)
	}

	memberIDs := make([]string, len(members))
	for i, m := range members {
		memberIDs[i] = m.MemberID
	}

	i := 0
	for _, topic := range topics {
		tp := cached[topic]
		if tp == nil {
			continue
		}
		for partition := 0; partition < len(tp.partitions); partition++ {
			assignee := memberIDs[i%len(memberIDs)]
			assign[assignee][topic] = append(assign[assignee][topic], int32(partition))
			i++
		}
	}

	out := make([]kmsg.SyncGroupRequestAssignment, len(members))
	for idx, m := range members {
		out[idx] = kmsg.SyncGroupRequestAssignment{
			MemberID:   m.MemberID,
			Assignment: encodeAssignment(assign[m.MemberID]),
		}
	}
	return out, nil
}

// encodeSubscription encodes a JoinGroup protocol metadata blob: i16
// version, array<string> topics, bytes userData (always empty here).
func encodeSubscription(topics []string) []byte {
	var w kbin.Writer
	w.Int16(1)
	w.ArrayLen(len(topics))
	for _, t := range topics {
		w.String(t)
	}
	w.Bytes(nil)
	return w.Src
}

func decodeSubscription(data []byte) ([]string, error) {
	r := &kbin.Reader{Src: data}
	r.Int16() // version
	n := r.ArrayLen()
	topics := make([]string, n)
	for i := range topics {
		topics[i] = r.String()
	}
	r.Bytes()
	if err := r.Complete(); err != nil {
		return nil, fmt.Errorf("unable to decode group subscription: %w", err)
	}
	return topics, nil
}

// encodeAssignment encodes a SyncGroup assignment blob: i16 version,
// array<topic, array<partition>>, bytes userData (always empty here).
func encodeAssignment(byTopic map[string][]int32) []byte {
	var w kbin.Writer
	w.Int16(1)
	w.ArrayLen(len(byTopic))
	topics := make([]string, 0, len(byTopic))
	for t := range byTopic {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	for _, t := range topics {
		w.String(t)
		parts := byTopic[t]
		w.ArrayLen(len(parts))
		for _, p := range parts {
			w.Int32(p)
		}
	}
	w.Bytes(nil)
	return w.Src
}

func decodeAssignment(data []byte) (map[string][]int32, error) {
	out := make(map[string][]int32)
	if len(data) == 0 {
		return out, nil
	}
	r := &kbin.Reader{Src: data}
	r.Int16() // version
	n := r.ArrayLen()
	for i := int32(0); i < n; i++ {
		topic := r.String()
		np := r.ArrayLen()
		parts := make([]int32, np)
		for j := range parts {
			parts[j] = r.Int32()
		}
		out[topic] = parts
	}
	r.Bytes()
	if err := r.Complete(); err != nil {
		return nil, fmt.Errorf("unable to decode group assignment: %w", err)
	}
	return out, nil
}

// startHeartbeatLoop begins the periodic Heartbeat ticker at the
// configured interval (default sessionTimeout/3), re-entering JoinGroup
// on a rebalance or an unknown member ID. Any other error, including a
// failed request, is ignored until the next tick.
func (c *consumer) startHeartbeatLoop() {
	ctx, cancel := context.WithCancel(c.cl.ctx)
	c.heartbeatCancel = cancel
	c.heartbeatDone = make(chan struct{})

	interval := c.cl.cfg.heartbeatInterval
	if interval <= 0 {
		interval = c.cl.cfg.sessionTimeout / 3
	}

	go func() {
		defer close(c.heartbeatDone)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}

			c.mu.Lock()
			c.state = groupHeartbeating
			memberID, generation := c.memberID, c.generationID
			c.mu.Unlock()

			req := &kmsg.HeartbeatRequest{
				Group:        c.cl.cfg.consumerGroup,
				GenerationID: generation,
				MemberID:     memberID,
			}
			resp, err := c.cl.Request(ctx, req)
			if err != nil {
				continue
			}
			hbResp := resp.(*kmsg.HeartbeatResponse)
			if herr := kerr.ErrorForCode(hbResp.ErrorCode); herr != nil {
				if kerr.IsRebalanceInProgress(herr) || kerr.IsUnknownMemberID(herr) {
					c.mu.Lock()
					c.state = groupJoining
					c.mu.Unlock()
					c.joinAndSync(ctx)
					continue
				}
				continue
			}

			c.mu.Lock()
			if c.state == groupHeartbeating {
				c.state = groupStable
			}
			c.mu.Unlock()
		}
	}()
}

// heartbeatKip848 sends one ConsumerGroupHeartbeat (apiKey 68) request,
// the KIP-848 alternative to Join/Sync/Heartbeat: the broker computes and
// returns this member's assignment directly in the response, so no
// separate SyncGroup round trip is needed.
func (c *consumer) heartbeatKip848(ctx context.Context) error {
	c.mu.Lock()
	memberID, epoch := c.memberID, c.memberEpoch
	c.mu.Unlock()

	req := &kmsg.ConsumerGroupHeartbeatRequest{
		Group:                c.cl.cfg.consumerGroup,
		MemberID:             memberID,
		MemberEpoch:          epoch,
		SubscribedTopicNames: c.cl.cfg.consumerTopics,
	}
	resp, err := c.cl.Request(ctx, req)
	if err != nil {
		return err
	}
	hbResp := resp.(*kmsg.ConsumerGroupHeartbeatResponse)
	if err := kerr.ErrorForCode(hbResp.ErrorCode); err != nil {
		return err
	}

	c.mu.Lock()
	c.memberID = hbResp.MemberID
	c.memberEpoch = hbResp.MemberEpoch
	if hbResp.Assignment != nil {
		assigned := make(map[string][]int32, len(hbResp.Assignment.TopicPartitions))
		for _, tp := range hbResp.Assignment.TopicPartitions {
			assigned[topicNameForID(c.cl, tp.TopicID)] = tp.Partitions
		}
		c.assigned = assigned
	}
	c.state = groupStable
	c.mu.Unlock()
	return nil
}

// topicNameForID resolves a topic UUID back to its name via the cached
// metadata; ConsumerGroupHeartbeat assignments are keyed by topic ID, not
// name, unlike every other request this client issues.
func topicNameForID(cl *Client, id [16]byte) string {
	topics := cl.loadTopics()
	for name, tp := range topics {
		if tp.id == id {
			return name
		}
	}
	return ""
}

// startKip848Loop re-sends ConsumerGroupHeartbeat at the configured
// heartbeat interval (default sessionTimeout/3), stopping on a fatal
// (non-retriable) error. The interval returned by the broker is not used.
func (c *consumer) startKip848Loop() {
	ctx, cancel := context.WithCancel(c.cl.ctx)
	c.heartbeatCancel = cancel
	c.heartbeatDone = make(chan struct{})

	interval := c.cl.cfg.heartbeatInterval
	if interval <= 0 {
		interval = c.cl.cfg.sessionTimeout / 3
	}

	go func() {
		defer close(c.heartbeatDone)
		t := time.NewTimer(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			if err := c.heartbeatKip848(ctx); err != nil && !kerr.IsRetriable(err) {
				return
			}
			t.Reset(interval)
		}
	}()
}

func (c *consumer) stopHeartbeatLoop() {
	if c.heartbeatCancel != nil {
		c.heartbeatCancel()
		<-c.heartbeatDone
		c.heartbeatCancel = nil
	}
}

// PollFetches issues one round of Fetch requests against every currently
// assigned partition's leader and returns the combined result. Offsets
// fetched fresh (never polled before) are loaded via OffsetFetch first.
func (cl *Client) PollFetches(ctx context.Context) Fetches {
	c := &cl.consumer
	c.mu.Lock()
	if c.state != groupStable && c.state != groupHeartbeating {
		c.mu.Unlock()
		return nil
	}
	assigned := make(map[string][]int32, len(c.assigned))
	for t, ps := range c.assigned {
		assigned[t] = append([]int32(nil), ps...)
	}
	c.mu.Unlock()

	if err := c.loadStartingOffsets(ctx, assigned); err != nil {
		return Fetches{{Topics: []FetchTopic{{Partitions: []FetchPartition{{Err: err}}}}}}
	}

	byLeader := make(map[*broker]*kmsg.FetchRequest)
	for topic, partitions := range assigned {
		for _, partition := range partitions {
			b, err := cl.partitionLeader(ctx, topic, partition)
			if err != nil {
				continue
			}
			req, ok := byLeader[b]
			if !ok {
				req = &kmsg.FetchRequest{
					ReplicaID:      -1,
					MaxWaitMillis:  500,
					MinBytes:       1,
					MaxBytes:       50 << 20,
					IsolationLevel: kmsg.IsolationReadCommitted,
				}
				byLeader[b] = req
			}
			tp := topicPartition{topic: topic, partition: partition}
			offset := c.offsets[tp]
			var topicReq *kmsg.FetchRequestTopic
			for i := range req.Topics {
				if req.Topics[i].Topic == topic {
					topicReq = &req.Topics[i]
					break
				}
			}
			if topicReq == nil {
				req.Topics = append(req.Topics, kmsg.FetchRequestTopic{Topic: topic})
				topicReq = &req.Topics[len(req.Topics)-1]
			}
			topicReq.Partitions = append(topicReq.Partitions, kmsg.FetchRequestPartition{
				Partition:         partition,
				FetchOffset:       offset,
				PartitionMaxBytes: 1 << 20,
			})
		}
	}

	var mu sync.Mutex
	var fetches Fetches
	var wg sync.WaitGroup
	for b, req := range byLeader {
		b, req := b, req
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := b.do(ctx, req)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fetches = append(fetches, Fetch{Topics: []FetchTopic{{Partitions: []FetchPartition{{Err: err}}}}})
				return
			}
			fetches = append(fetches, cl.toFetch(resp.(*kmsg.FetchResponse), &c.mu, c.offsets))
		}()
	}
	wg.Wait()
	return fetches
}

func (cl *Client) toFetch(resp *kmsg.FetchResponse, mu *sync.Mutex, offsets map[topicPartition]int64) Fetch {
	var f Fetch
	for _, t := range resp.Topics {
		ft := FetchTopic{Topic: t.Topic}
		for _, p := range t.Partitions {
			fp := FetchPartition{
				Partition:        p.Partition,
				HighWatermark:    p.HighWatermark,
				LastStableOffset: p.LastStableOffset,
				LogStartOffset:   p.LogStartOffset,
			}
			if err := kerr.ErrorForCode(p.ErrorCode); err != nil {
				fp.Err = err
				ft.Partitions = append(ft.Partitions, fp)
				continue
			}
			rest := p.RecordsData
			var maxOffset int64 = -1
			aborted := newAbortedTracker(p.AbortedTxns)
			for len(rest) > 0 {
				batch, next, err := kmsg.ReadRecordBatch(rest)
				if err != nil || batch == nil {
					break
				}
				rest = next
				if batch.IsControl() {
					// A control batch's single record marks the end (commit or
					// abort) of its producer's transaction; either way the
					// producer's pending abort range, if any, is now resolved.
					aborted.resolve(batch.ProducerID)
					continue
				}
				skip := batch.IsTransactional() && aborted.isAborted(batch.ProducerID, batch.BaseOffset)
				if skip {
					continue
				}
				for _, rec := range batch.Records {
					offset := batch.BaseOffset + int64(rec.OffsetDelta)
					fp.Records = append(fp.Records, &Record{
						Key:       rec.Key,
						Value:     rec.Value,
						Headers:   fromKmsgHeaders(rec.Headers),
						Timestamp: time.UnixMilli(batch.FirstTimestamp + rec.TimestampDelta),
						Topic:     t.Topic,
						Partition: p.Partition,
						Offset:    offset,

						Attrs:         RecordAttrs{attrs: uint8(batch.Attributes)},
						ProducerEpoch: batch.ProducerEpoch,
						ProducerID:    batch.ProducerID,
						LeaderEpoch:   batch.PartitionLeaderEpoch,
					})
					if offset > maxOffset {
						maxOffset = offset
					}
				}
			}
			if maxOffset >= 0 {
				mu.Lock()
				offsets[topicPartition{topic: t.Topic, partition: p.Partition}] = maxOffset + 1
				mu.Unlock()
			}
			ft.Partitions = append(ft.Partitions, fp)
		}
		f.Topics = append(f.Topics, ft)
	}
	return f
}

func fromKmsgHeaders(hs []kmsg.RecordHeader) []RecordHeader {
	if len(hs) == 0 {
		return nil
	}
	out := make([]RecordHeader, len(hs))
	for i, h := range hs {
		out[i] = RecordHeader{Key: h.Key, Value: h.Value}
	}
	return out
}

// abortedTracker tells whether a transactional batch falls inside a range
// the broker reported as aborted, per FetchResponsePartition.AbortedTxns.
// A producer's transaction is "pending abort" from its FirstOffset until
// the matching control batch is seen; batches in between are discarded
// in read-committed isolation.
type abortedTracker struct {
	pending map[int64]int64 // producerID -> FirstOffset of its earliest unresolved abort
}

func newAbortedTracker(txns []kmsg.FetchAbortedTransaction) *abortedTracker {
	if len(txns) == 0 {
		return &abortedTracker{}
	}
	pending := make(map[int64]int64, len(txns))
	for _, txn := range txns {
		if first, ok := pending[txn.ProducerID]; !ok || txn.FirstOffset < first {
			pending[txn.ProducerID] = txn.FirstOffset
		}
	}
	return &abortedTracker{pending: pending}
}

func (a *abortedTracker) isAborted(producerID, baseOffset int64) bool {
	first, ok := a.pending[producerID]
	return ok && baseOffset >= first
}

func (a *abortedTracker) resolve(producerID int64) {
	delete(a.pending, producerID)
}

// loadStartingOffsets fetches committed offsets (via OffsetFetch) for any
// assigned partition this consumer has not yet polled. A partition with no
// commit starts at the configured reset offset (ConsumeResetOffset, default
// AtStart), resolved through resolveOffsets.
func (c *consumer) loadStartingOffsets(ctx context.Context, assigned map[string][]int32) error {
	var need []kmsg.OffsetFetchRequestTopic
	c.mu.Lock()
	for topic, partitions := range assigned {
		var missing []int32
		for _, p := range partitions {
			if _, ok := c.offsets[topicPartition{topic: topic, partition: p}]; !ok {
				missing = append(missing, p)
			}
		}
		if len(missing) > 0 {
			need = append(need, kmsg.OffsetFetchRequestTopic{Topic: topic, Partitions: missing})
		}
	}
	c.mu.Unlock()
	if len(need) == 0 {
		return nil
	}

	resp, err := c.cl.Request(ctx, &kmsg.OffsetFetchRequest{Group: c.cl.cfg.consumerGroup, Topics: need})
	if err != nil {
		return err
	}
	ofResp := resp.(*kmsg.OffsetFetchResponse)
	if err := kerr.ErrorForCode(ofResp.ErrorCode); err != nil {
		return err
	}

	noCommit := make(map[string][]int32)
	committed := make(map[topicPartition]int64)
	for _, t := range ofResp.Topics {
		for _, p := range t.Partitions {
			if p.Offset < 0 {
				noCommit[t.Topic] = append(noCommit[t.Topic], p.Partition)
				continue
			}
			committed[topicPartition{topic: t.Topic, partition: p.Partition}] = p.Offset
		}
	}

	var reset map[topicPartition]int64
	if len(noCommit) > 0 {
		var err error
		reset, err = c.cl.resolveOffsets(ctx, c.cl.cfg.resetOffset, noCommit)
		if err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for tp, offset := range committed {
		c.offsets[tp] = offset
	}
	for tp, offset := range reset {
		c.offsets[tp] = offset
	}
	return nil
}

// CommitOffsets commits the current fetch position for every assigned
// partition. On ILLEGAL_GENERATION or UNKNOWN_MEMBER_ID, membership is
// dropped and the caller must Join again.
func (cl *Client) CommitOffsets(ctx context.Context) error {
	c := &cl.consumer
	c.mu.Lock()
	memberID, generation := c.memberID, c.generationID
	var topics []kmsg.OffsetCommitRequestTopic
	for topic, partitions := range c.assigned {
		var parts []kmsg.OffsetCommitRequestPartition
		for _, p := range partitions {
			offset, ok := c.offsets[topicPartition{topic: topic, partition: p}]
			if !ok {
				continue
			}
			parts = append(parts, kmsg.OffsetCommitRequestPartition{Partition: p, Offset: offset, LeaderEpoch: -1})
		}
		if len(parts) > 0 {
			topics = append(topics, kmsg.OffsetCommitRequestTopic{Topic: topic, Partitions: parts})
		}
	}
	c.mu.Unlock()
	if len(topics) == 0 {
		return nil
	}

	req := &kmsg.OffsetCommitRequest{
		Group:      cl.cfg.consumerGroup,
		Generation: generation,
		MemberID:   memberID,
		Topics:     topics,
	}
	resp, err := cl.Request(ctx, req)
	if err != nil {
		return err
	}
	commitResp := resp.(*kmsg.OffsetCommitResponse)
	for _, t := range commitResp.Topics {
		for _, p := range t.Partitions {
			if err := kerr.ErrorForCode(p.ErrorCode); err != nil {
				if err == kerr.IllegalGeneration || kerr.IsUnknownMemberID(err) {
					c.mu.Lock()
					c.state = groupUnjoined
					c.memberID = ""
					c.mu.Unlock()
				}
				return err
			}
		}
	}
	return nil
}

// startAutoCommitLoop periodically calls CommitOffsets while autoCommit
// is configured, stopping when ctx is done.
func (cl *Client) startAutoCommitLoop(ctx context.Context) {
	if !cl.cfg.autoCommit {
		return
	}
	interval := cl.cfg.autoCommitInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				cl.CommitOffsets(ctx)
			}
		}
	}()
}
