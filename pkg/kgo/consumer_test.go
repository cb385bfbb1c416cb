package kgo

import (
	"reflect"
	"sort"
	"testing"

	"github.com/platformatic/kgo/pkg/kmsg"
)

func TestEncodeDecodeSubscription(t *testing.T) {
	topics := []string{"orders", "payments", "shipments"}
	encoded := encodeSubscription(topics)

	decoded, err := decodeSubscription(encoded)
	if err != nil {
		t.Fatalf("decodeSubscription: %v", err)
	}
	if !reflect.DeepEqual(decoded, topics) {
		t.Fatalf("round trip mismatch: got %v, want %v", decoded, topics)
	}
}

func TestEncodeDecodeAssignment(t *testing.T) {
	in := map[string][]int32{
		"orders":   {0, 1, 2},
		"payments": {0},
	}
	encoded := encodeAssignment(in)

	decoded, err := decodeAssignment(encoded)
	if err != nil {
		t.Fatalf("decodeAssignment: %v", err)
	}
	if !reflect.DeepEqual(decoded, in) {
		t.Fatalf("round trip mismatch: got %v, want %v", decoded, in)
	}
}

func TestDecodeAssignmentEmpty(t *testing.T) {
	decoded, err := decodeAssignment(nil)
	if err != nil {
		t.Fatalf("decodeAssignment(nil): %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("expected empty assignment, got %v", decoded)
	}
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cl, err := NewClient(SeedBrokers("localhost:9092"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(cl.Close)
	return cl
}

func TestComputeAssignmentsRoundRobin(t *testing.T) {
	cl := newTestClient(t)
	cl.storeTopics([]kmsg.MetadataResponseTopic{
		{
			Topic: "orders",
			Partitions: []kmsg.MetadataResponsePartition{
				{Partition: 0}, {Partition: 1}, {Partition: 2},
			},
		},
		{
			Topic: "payments",
			Partitions: []kmsg.MetadataResponsePartition{
				{Partition: 0}, {Partition: 1},
			},
		},
	})

	c := &cl.consumer
	members := []kmsg.JoinGroupResponseMember{
		{MemberID: "m1", Metadata: encodeSubscription([]string{"orders", "payments"})},
		{MemberID: "m2", Metadata: encodeSubscription([]string{"orders", "payments"})},
	}

	assignments, err := c.computeAssignments(members)
	if err != nil {
		t.Fatalf("computeAssignments: %v", err)
	}
	if len(assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(assignments))
	}

	byMember := make(map[string]map[string][]int32)
	for _, a := range assignments {
		decoded, err := decodeAssignment(a.Assignment)
		if err != nil {
			t.Fatalf("decodeAssignment: %v", err)
		}
		byMember[a.MemberID] = decoded
	}

	// Visitation order: sorted topic names ("orders" then "payments"),
	// partitions 0..n-1, one counter across all partitions:
	// orders/0 -> m1, orders/1 -> m2, orders/2 -> m1,
	// payments/0 -> m2, payments/1 -> m1.
	want := map[string]map[string][]int32{
		"m1": {"orders": {0, 2}, "payments": {1}},
		"m2": {"orders": {1}, "payments": {0}},
	}
	for member, topics := range want {
		got := byMember[member]
		for topic, parts := range topics {
			gotParts := got[topic]
			sort.Slice(gotParts, func(i, j int) bool { return gotParts[i] < gotParts[j] })
			if !reflect.DeepEqual(gotParts, parts) {
				t.Fatalf("%s/%s: got %v, want %v", member, topic, gotParts, parts)
			}
		}
	}
}

func TestAbortedTrackerSkipsPendingRange(t *testing.T) {
	txns := []kmsg.FetchAbortedTransaction{
		{ProducerID: 100, FirstOffset: 5},
	}
	tr := newAbortedTracker(txns)

	if tr.isAborted(100, 3) {
		t.Fatalf("batch before FirstOffset should not be reported aborted")
	}
	if !tr.isAborted(100, 5) {
		t.Fatalf("batch at FirstOffset should be reported aborted")
	}
	if !tr.isAborted(100, 10) {
		t.Fatalf("batch after FirstOffset should still be aborted until resolved")
	}
	if tr.isAborted(200, 10) {
		t.Fatalf("unrelated producer should never be reported aborted")
	}

	tr.resolve(100)
	if tr.isAborted(100, 20) {
		t.Fatalf("producer should no longer be aborted after its control batch resolves it")
	}
}

func TestAbortedTrackerNoTxns(t *testing.T) {
	tr := newAbortedTracker(nil)
	if tr.isAborted(1, 0) {
		t.Fatalf("tracker with no aborted transactions should never report aborted")
	}
}
