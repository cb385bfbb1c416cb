package kgo

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/platformatic/kgo/pkg/kerr"
	"github.com/platformatic/kgo/pkg/kmsg"
)

// partitionMetadata is one partition's current leadership, as last reported
// by a Metadata response.
type partitionMetadata struct {
	leader      int32
	leaderEpoch int32
	err         error // non-nil if the broker reported a partition-level error
}

// topicPartitions is the metadata this client has cached for one topic.
type topicPartitions struct {
	id         [16]byte
	loadErr    error
	partitions []partitionMetadata
}

// loadTopics returns a snapshot of the topic metadata cache. The returned
// map must not be mutated; updates always replace the whole map.
func (cl *Client) loadTopics() map[string]*topicPartitions {
	return cl.topics.Load().(map[string]*topicPartitions)
}

// storeTopics clones the current topic metadata and replaces it, merging in
// newly observed MetadataResponseTopic entries.
func (cl *Client) storeTopics(resp []kmsg.MetadataResponseTopic) {
	cl.topicsMu.Lock()
	defer cl.topicsMu.Unlock()

	old := cl.loadTopics()
	next := make(map[string]*topicPartitions, len(old)+len(resp))
	for k, v := range old {
		next[k] = v
	}

	for _, t := range resp {
		tp := &topicPartitions{id: t.TopicID}
		if err := errorForTopicCode(t.ErrorCode); err != nil {
			tp.loadErr = err
		} else {
			tp.partitions = make([]partitionMetadata, len(t.Partitions))
			for i, p := range t.Partitions {
				tp.partitions[i] = partitionMetadata{
					leader:      p.Leader,
					leaderEpoch: p.LeaderEpoch,
					err:         errorForTopicCode(p.ErrorCode),
				}
			}
		}
		next[t.Topic] = tp
	}
	cl.topics.Store(next)
}

func errorForTopicCode(code int16) error { return kerr.ErrorForCode(code) }

// clearMetadata drops topic's cached leadership, so that the next
// ensureTopicKnown call refetches it. Used after a produce response
// reports stale metadata (NOT_LEADER_OR_FOLLOWER,
// LEADER_NOT_AVAILABLE, UNKNOWN_TOPIC_OR_PARTITION).
func (cl *Client) clearMetadata(topic string) {
	cl.topicsMu.Lock()
	defer cl.topicsMu.Unlock()
	old := cl.loadTopics()
	next := make(map[string]*topicPartitions, len(old))
	for k, v := range old {
		if k != topic {
			next[k] = v
		}
	}
	cl.topics.Store(next)
}

// triggerUpdateMetadata enqueues a metadata refresh, coalescing concurrent
// callers into a single upstream request (the metadata loop wakes on
// whichever channel has room and drops the rest).
func (cl *Client) triggerUpdateMetadata() {
	select {
	case cl.updateMetadataCh <- struct{}{}:
	default:
	}
}

// triggerUpdateMetadataNow is like triggerUpdateMetadata but additionally
// wakes a loop that may currently be sleeping out its normal interval,
// used after a response reports stale metadata (hasStaleMetadata=true).
func (cl *Client) triggerUpdateMetadataNow() {
	select {
	case cl.updateMetadataNowCh <- struct{}{}:
	default:
	}
	cl.triggerUpdateMetadata()
}

// updateMetadataLoop periodically (and on-demand) refreshes the full topic
// metadata cache, deduplicating concurrent triggers into one RPC.
func (cl *Client) updateMetadataLoop() {
	defer close(cl.metadone)

	const minBackoff = 100 * time.Millisecond
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-cl.ctx.Done():
			return
		case <-cl.updateMetadataNowCh:
		case <-cl.updateMetadataCh:
		case <-ticker.C:
		}

		cl.topicsMu.Lock()
		topics := make([]string, 0, len(cl.loadTopics()))
		for topic := range cl.loadTopics() {
			topics = append(topics, topic)
		}
		cl.topicsMu.Unlock()

		if len(topics) == 0 {
			continue
		}

		ctx, cancel := context.WithTimeout(cl.ctx, 30*time.Second)
		resp, err := cl.fetchMetadata(ctx, false, topics)
		cancel()
		if err != nil {
			time.Sleep(minBackoff)
			continue
		}
		cl.storeTopics(resp.Topics)
	}
}

// fetchMetadata issues (and retries) a Metadata request, populating broker
// and controller state from every response regardless of caller intent.
func (cl *Client) fetchMetadata(ctx context.Context, all bool, topics []string) (*kmsg.MetadataResponse, error) {
	var reqTopics []kmsg.MetadataRequestTopic
	if !all {
		reqTopics = make([]kmsg.MetadataRequestTopic, len(topics))
		for i, t := range topics {
			topic := t
			reqTopics[i] = kmsg.MetadataRequestTopic{Topic: &topic}
		}
		if reqTopics == nil {
			reqTopics = []kmsg.MetadataRequestTopic{}
		}
	}

	tries := 0
	tryStart := time.Now()
start:
	tries++
	req := &kmsg.MetadataRequest{
		Topics:                 reqTopics,
		AllowAutoTopicCreation: cl.cfg.allowAutoTopicCreation,
	}
	b := cl.broker()
	rawResp, err := b.do(ctx, req)
	if err != nil {
		if cl.shouldRetry(err, tries, tryStart) {
			if cl.waitTries(ctx, tries) {
				goto start
			}
		}
		return nil, err
	}
	meta := rawResp.(*kmsg.MetadataResponse)
	if meta.ControllerID >= 0 {
		atomic.StoreInt32(&cl.controllerID, meta.ControllerID)
	}
	cl.updateBrokers(meta.Brokers)
	cl.storeTopics(meta.Topics)
	return meta, nil
}
