package kgo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/platformatic/kgo/pkg/kerr"
	"github.com/platformatic/kgo/pkg/kmsg"
)

// transactionalAttr mirrors the record batch attribute bit Kafka uses to
// mark a batch as part of a transaction (kmsg.RecordBatch.IsTransactional
// checks the same bit on read).
const transactionalAttr int16 = 0b0001_0000

var (
	ErrNotTransactional     = errors.New("client is not configured for transactions")
	ErrAlreadyInTransaction = errors.New("client is already in a transaction")
	ErrNotInTransaction     = errors.New("client is not in a transaction")
	ErrAborting             = errors.New("record was aborted")
)

// PromiseFn is called once a produced record has either been acknowledged
// or permanently failed. It is always called exactly once per Produce call.
type PromiseFn func(*Record, error)

// ProduceResult reports what a produce call actually did to the wire. Its
// populated field depends on the ack mode the client was configured with:
// RequireNoAck never reads a response, so UnwritableNodes is the only signal
// available (which brokers hit back-pressure writing the request); the
// other ack modes wait for a response and report the assigned offset.
type ProduceResult struct {
	// Offsets holds the broker-assigned base offset for a successful
	// RequireLeaderAck or RequireAllISRAcks produce, keyed by topic then
	// partition. Nil under RequireNoAck.
	Offsets map[string]map[int32]int64
	// UnwritableNodes lists the broker node IDs whose socket write hit
	// back-pressure during a RequireNoAck produce (request bytes queued
	// rather than clearing the socket immediately). Empty, not nil, when
	// the write cleared cleanly. Nil for other ack modes.
	UnwritableNodes []int32
}

// producer owns every piece of state this client needs to issue Produce
// requests: the idempotent producer ID/epoch, sequence numbers per
// partition, and transaction bookkeeping. Records are partitioned and sent
// synchronously one Produce request at a time per call, consistent with
// this module's single-round-trip-per-connection broker model; the
// idempotence and transaction state machine is kept, the batching
// pipeline is not.
type producer struct {
	cl *Client

	idMu          sync.Mutex
	id            int64
	epoch         int16
	idLoaded      bool

	seqMu     sync.Mutex
	seqs      map[topicPartition]int32
	partLocks map[topicPartition]*sync.Mutex

	txnMu             sync.Mutex
	inTxn             bool
	producingTxn      uint32 // atomic bool
	addedToTxn        map[topicPartition]bool

	inflight int64 // atomic count of unacknowledged Produce calls
}

type topicPartition struct {
	topic     string
	partition int32
}

func (p *producer) init(cl *Client) {
	p.cl = cl
	p.seqs = make(map[topicPartition]int32)
	p.partLocks = make(map[topicPartition]*sync.Mutex)
	p.addedToTxn = make(map[topicPartition]bool)
	p.id = -1
	p.epoch = -1
}

// BeginTransaction marks the client as being inside a transaction. The
// client must be configured with a transactional ID.
func (cl *Client) BeginTransaction() error {
	if cl.cfg.transactionID == nil {
		return ErrNotTransactional
	}
	cl.producer.txnMu.Lock()
	defer cl.producer.txnMu.Unlock()
	if cl.producer.inTxn {
		return ErrAlreadyInTransaction
	}
	cl.producer.inTxn = true
	atomic.StoreUint32(&cl.producer.producingTxn, 1)
	return nil
}

// EndTransaction commits or aborts the current transaction. Flush must be
// called first to ensure every buffered record has actually been sent.
func (cl *Client) EndTransaction(ctx context.Context, commit bool) error {
	cl.producer.txnMu.Lock()
	defer cl.producer.txnMu.Unlock()

	atomic.StoreUint32(&cl.producer.producingTxn, 0)
	if !cl.producer.inTxn {
		return ErrNotInTransaction
	}
	cl.producer.inTxn = false

	anyAdded := len(cl.producer.addedToTxn) > 0
	for k := range cl.producer.addedToTxn {
		delete(cl.producer.addedToTxn, k)
	}
	if !anyAdded {
		return nil
	}

	id, epoch, err := cl.producer.loadProducerID(ctx)
	if err != nil {
		return err
	}
	req := &kmsg.EndTxnRequest{
		TransactionalID: *cl.cfg.transactionID,
		ProducerID:      id,
		ProducerEpoch:   epoch,
		Commit:          commit,
	}
	resp, err := cl.Request(ctx, req)
	if err != nil {
		return err
	}
	return kerr.ErrorForCode(resp.(*kmsg.EndTxnResponse).ErrorCode)
}

// AbortBufferedRecords waits for every in-flight Produce call this client
// has issued to finish, failing none of them itself: there is no record
// buffer to drain in this client's synchronous produce model, so the
// wait is all that remains of the call's original purpose.
func (cl *Client) AbortBufferedRecords(ctx context.Context) error {
	return cl.Flush(ctx)
}

// Flush blocks until every Produce call issued before this one returns.
func (cl *Client) Flush(ctx context.Context) error {
	t := time.NewTicker(5 * time.Millisecond)
	defer t.Stop()
	for atomic.LoadInt64(&cl.producer.inflight) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}

// loadProducerID returns the idempotent producer ID and epoch, issuing an
// InitProducerID request (through the transaction coordinator if a
// transactional ID is configured, otherwise through any broker) the first
// time it is needed.
func (p *producer) loadProducerID(ctx context.Context) (int64, int16, error) {
	p.idMu.Lock()
	defer p.idMu.Unlock()
	if p.idLoaded {
		return p.id, p.epoch, nil
	}

	req := &kmsg.InitProducerIDRequest{
		TransactionalID:      p.cl.cfg.transactionID,
		TransactionTimeoutMillis: int32(p.cl.cfg.transactionTimeout / time.Millisecond),
	}
	resp, err := p.cl.Request(ctx, req)
	if err != nil {
		return 0, 0, err
	}
	ipResp := resp.(*kmsg.InitProducerIDResponse)
	if err := kerr.ErrorForCode(ipResp.ErrorCode); err != nil {
		return 0, 0, err
	}
	p.id = ipResp.ProducerID
	p.epoch = ipResp.ProducerEpoch
	p.idLoaded = true
	return p.id, p.epoch, nil
}

// peekSeq returns tp's next base sequence without consuming it. The
// sequence only actually advances once the batch that used it is
// acknowledged (see advanceSeq); a failed or retried produce must be able
// to reuse the same sequence without leaving a gap.
func (p *producer) peekSeq(tp topicPartition) int32 {
	p.seqMu.Lock()
	defer p.seqMu.Unlock()
	return p.seqs[tp]
}

// advanceSeq commits n records' worth of sequence numbers for tp, called
// only after the broker has acknowledged the batch that used them.
func (p *producer) advanceSeq(tp topicPartition, n int32) {
	p.seqMu.Lock()
	defer p.seqMu.Unlock()
	p.seqs[tp] += n
}

// partitionLock returns the mutex serializing idempotent/transactional
// sends to tp: sequence assignment and the wire write for a given partition
// must happen in the same order across concurrent Produce calls, or the
// broker sees BaseSequence values out of order and rejects the batch.
func (p *producer) partitionLock(tp topicPartition) *sync.Mutex {
	p.seqMu.Lock()
	defer p.seqMu.Unlock()
	m, ok := p.partLocks[tp]
	if !ok {
		m = new(sync.Mutex)
		p.partLocks[tp] = m
	}
	return m
}

// addPartitionToTxn ensures tp has been registered with the transaction
// coordinator before any record for it is sent, as required by the
// transactional protocol.
func (p *producer) addPartitionToTxn(ctx context.Context, tp topicPartition) error {
	if p.cl.cfg.transactionID == nil {
		return nil
	}
	p.txnMu.Lock()
	defer p.txnMu.Unlock()
	if p.addedToTxn[tp] {
		return nil
	}
	id, epoch, err := p.loadProducerID(ctx)
	if err != nil {
		return err
	}
	req := &kmsg.AddPartitionsToTxnRequest{
		TransactionalID: *p.cl.cfg.transactionID,
		ProducerID:      id,
		ProducerEpoch:   epoch,
		Topics: []kmsg.AddPartitionsToTxnRequestTopic{{
			Topic:      tp.topic,
			Partitions: []int32{tp.partition},
		}},
	}
	resp, err := p.cl.Request(ctx, req)
	if err != nil {
		return err
	}
	addResp := resp.(*kmsg.AddPartitionsToTxnResponse)
	for _, t := range addResp.Topics {
		for _, part := range t.Partitions {
			if err := kerr.ErrorForCode(part.ErrorCode); err != nil {
				return err
			}
		}
	}
	p.addedToTxn[tp] = true
	return nil
}

// Produce partitions r (assigning r.Partition if the configured
// partitioner is used), sends it in a single-record Produce request to
// r's partition leader, and calls promise with the result. Produce does
// not block for the response; promise runs on its own goroutine.
func (cl *Client) Produce(ctx context.Context, r *Record, promise PromiseFn) {
	if promise == nil {
		promise = func(*Record, error) {}
	}

	if cl.cfg.transactionID != nil && atomic.LoadUint32(&cl.producer.producingTxn) == 0 {
		promise(r, ErrNotInTransaction)
		return
	}

	atomic.AddInt64(&cl.producer.inflight, 1)
	go func() {
		defer atomic.AddInt64(&cl.producer.inflight, -1)
		err := cl.doProduce(ctx, r)
		promise(r, err)
	}()
}

func (cl *Client) doProduce(ctx context.Context, r *Record) error {
	if err := cl.partitionRecord(ctx, r); err != nil {
		return err
	}
	tp := topicPartition{topic: r.Topic, partition: r.Partition}

	if err := cl.producer.addPartitionToTxn(ctx, tp); err != nil {
		return err
	}

	idempotent := cl.cfg.idempotent || cl.cfg.transactionID != nil
	if idempotent {
		lock := cl.producer.partitionLock(tp)
		lock.Lock()
		defer lock.Unlock()
	}

	result, err := cl.produceWithRetry(ctx, r, tp, idempotent)
	if err != nil {
		return err
	}
	r.Result = result
	return nil
}

// produceWithRetry sends r once, and retries exactly once more if the
// response reports stale partition leadership and repeatOnStaleMetadata is
// enabled. The retry reuses r's already-assigned partition; only the
// leader that partition resolves to is re-looked-up, against metadata
// refreshed by clearMetadata.
func (cl *Client) produceWithRetry(ctx context.Context, r *Record, tp topicPartition, idempotent bool) (*ProduceResult, error) {
	result, err := cl.produceOnce(ctx, r, tp, idempotent)
	if err == nil || !cl.cfg.repeatOnStaleMetadata || !kerr.HasStaleMetadata(err) {
		return result, err
	}
	cl.clearMetadata(r.Topic)
	if _, mErr := cl.fetchMetadata(ctx, false, []string{r.Topic}); mErr != nil {
		return nil, err
	}
	return cl.produceOnce(ctx, r, tp, idempotent)
}

func (cl *Client) produceOnce(ctx context.Context, r *Record, tp topicPartition, idempotent bool) (*ProduceResult, error) {
	var producerID int64 = -1
	var producerEpoch int16 = -1
	var seq int32
	if idempotent {
		id, epoch, err := cl.producer.loadProducerID(ctx)
		if err != nil {
			return nil, err
		}
		producerID, producerEpoch = id, epoch
		seq = cl.producer.peekSeq(tp)
	}

	batch := &kmsg.RecordBatch{
		ProducerID:    producerID,
		ProducerEpoch: producerEpoch,
		BaseSequence:  seq,
		FirstTimestamp: r.Timestamp.UnixMilli(),
		MaxTimestamp:   r.Timestamp.UnixMilli(),
		Records: []kmsg.Record{{
			Key:     r.Key,
			Value:   r.Value,
			Headers: toKmsgHeaders(r.Headers),
		}},
	}
	if cl.cfg.transactionID != nil {
		batch.Attributes |= transactionalAttr
	}

	b, err := cl.partitionLeader(ctx, r.Topic, r.Partition)
	if err != nil {
		return nil, err
	}

	req := &kmsg.ProduceRequest{
		Acks:          int16(cl.cfg.acks.val),
		TimeoutMillis: int32(cl.cfg.produceTimeout / time.Millisecond),
		Topics: []kmsg.ProduceRequestTopic{{
			Topic: r.Topic,
			Partitions: []kmsg.ProduceRequestPartition{{
				Partition: r.Partition,
				Batch:     batch,
				Codec:     cl.firstCodec(),
			}},
		}},
	}
	if cl.cfg.transactionID != nil {
		req.TransactionalID = cl.cfg.transactionID
	}

	if cl.cfg.acks.val == 0 {
		wrote, err := b.doNoResponse(ctx, req)
		if err != nil {
			return nil, err
		}
		result := &ProduceResult{UnwritableNodes: []int32{}}
		if !wrote {
			result.UnwritableNodes = []int32{b.meta.NodeID}
		}
		return result, nil
	}

	resp, err := b.do(ctx, req)
	if err != nil {
		return nil, err
	}
	pResp := resp.(*kmsg.ProduceResponse)
	for _, t := range pResp.Topics {
		for _, p := range t.Partitions {
			if p.Partition == r.Partition && t.Topic == r.Topic {
				if err := kerr.ErrorForCode(p.ErrorCode); err != nil {
					return nil, err
				}
				r.Offset = p.BaseOffset
				if idempotent {
					cl.producer.advanceSeq(tp, 1)
				}
				return &ProduceResult{Offsets: map[string]map[int32]int64{
					r.Topic: {r.Partition: p.BaseOffset},
				}}, nil
			}
		}
	}
	return &ProduceResult{}, nil
}

func (cl *Client) firstCodec() kmsg.Codec {
	if len(cl.cfg.compression) == 0 {
		return nil
	}
	return cl.cfg.compression[0].codec
}

func toKmsgHeaders(hs []RecordHeader) []kmsg.RecordHeader {
	if len(hs) == 0 {
		return nil
	}
	out := make([]kmsg.RecordHeader, len(hs))
	for i, h := range hs {
		out[i] = kmsg.RecordHeader{Key: h.Key, Value: h.Value}
	}
	return out
}

// partitionRecord always assigns r.Partition via the configured
// partitioner (ManualPartitioner is the only partitioner that respects a
// caller-assigned partition).
func (cl *Client) partitionRecord(ctx context.Context, r *Record) error {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	if err := cl.ensureTopicKnown(ctx, r.Topic); err != nil {
		return err
	}
	topics := cl.loadTopics()
	tp := topics[r.Topic]
	if tp == nil || tp.loadErr != nil {
		return ErrUnknownBroker
	}
	tpart := cl.cfg.partitioner.ForTopic(r.Topic)
	r.Partition = int32(tpart.Partition(r, len(tp.partitions)))
	return nil
}

func (cl *Client) ensureTopicKnown(ctx context.Context, topic string) error {
	topics := cl.loadTopics()
	if tp, ok := topics[topic]; ok && tp.loadErr == nil {
		return nil
	}
	_, err := cl.fetchMetadata(ctx, false, []string{topic})
	return err
}

func (cl *Client) partitionLeader(ctx context.Context, topic string, partition int32) (*broker, error) {
	topics := cl.loadTopics()
	tp, ok := topics[topic]
	if !ok || tp.loadErr != nil || int(partition) >= len(tp.partitions) {
		return nil, ErrUnknownBroker
	}
	pm := tp.partitions[partition]
	if pm.err != nil {
		return nil, pm.err
	}
	return cl.brokerOrErr(pm.leader, ErrUnknownBroker)
}
