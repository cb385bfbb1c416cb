package kgo

import (
	"context"

	"github.com/platformatic/kgo/pkg/kmsg"
)

// Offset specifies where a partition's consumption should begin when no
// committed offset exists for it (or when explicitly overridden). The
// zero value is At(0), not AtStart.
type Offset struct {
	at        int64
	afterMilli bool
	relative  int64
}

// AtStart begins consumption at the partition's earliest available offset.
func AtStart() Offset { return Offset{at: kmsg.TimestampEarliest} }

// AtEnd begins consumption at the partition's log end (only new records
// produced after the fetch begins are returned).
func AtEnd() Offset { return Offset{at: kmsg.TimestampLatest} }

// At begins consumption at the exact offset given.
func At(offset int64) Offset { return Offset{at: offset} }

// AfterMilli begins consumption at the first offset with a timestamp at
// or after millis (Unix epoch milliseconds).
func AfterMilli(millis int64) Offset { return Offset{at: millis, afterMilli: true} }

// Relative adjusts the resolved offset by n once it is known, e.g.
// AtEnd().Relative(-100) starts 100 records behind the current end.
func (o Offset) Relative(n int64) Offset {
	o.relative = n
	return o
}

// needsResolve reports whether this offset must be resolved against the
// broker via ListOffsets (anything but an exact At, which is already
// absolute, needs a round trip for the timestamp/earliest/latest cases).
func (o Offset) needsResolve() bool {
	return o.afterMilli || o.at == kmsg.TimestampEarliest || o.at == kmsg.TimestampLatest
}

// resolveOffsets issues one ListOffsets request per leader broker for the
// given topic/partitions, all using the same reset Offset, and returns the
// resolved starting offset per partition.
func (cl *Client) resolveOffsets(ctx context.Context, want Offset, byTopic map[string][]int32) (map[topicPartition]int64, error) {
	ts := want.at
	if !want.needsResolve() {
		// An exact At offset resolves to itself; still honor Relative.
		out := make(map[topicPartition]int64)
		for topic, partitions := range byTopic {
			for _, p := range partitions {
				off := want.at + want.relative
				if off < 0 {
					off = 0
				}
				out[topicPartition{topic: topic, partition: p}] = off
			}
		}
		return out, nil
	}

	req := &kmsg.ListOffsetsRequest{ReplicaID: -1, IsolationLevel: kmsg.IsolationReadCommitted}
	for topic, partitions := range byTopic {
		rt := kmsg.ListOffsetsRequestTopic{Topic: topic}
		for _, p := range partitions {
			rt.Partitions = append(rt.Partitions, kmsg.ListOffsetsRequestPartition{
				Partition:          p,
				CurrentLeaderEpoch: -1,
				Timestamp:          ts,
			})
		}
		req.Topics = append(req.Topics, rt)
	}

	resp, err := cl.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	loResp := resp.(*kmsg.ListOffsetsResponse)

	out := make(map[topicPartition]int64)
	for _, t := range loResp.Topics {
		for _, p := range t.Partitions {
			off := p.Offset + want.relative
			if off < 0 {
				off = 0
			}
			out[topicPartition{topic: t.Topic, partition: p.Partition}] = off
		}
	}
	return out, nil
}
