package kgo

import "testing"

func TestOffsetAtIsAbsolute(t *testing.T) {
	o := At(42)
	if o.needsResolve() {
		t.Fatalf("an exact At offset should never need a broker round trip")
	}
}

func TestOffsetRelative(t *testing.T) {
	o := At(42).Relative(-10)
	if o.at != 42 || o.relative != -10 {
		t.Fatalf("Relative should only adjust the relative field: got %+v", o)
	}
}

func TestOffsetAtStartAtEndNeedResolve(t *testing.T) {
	if !AtStart().needsResolve() {
		t.Fatalf("AtStart should resolve against the broker")
	}
	if !AtEnd().needsResolve() {
		t.Fatalf("AtEnd should resolve against the broker")
	}
	if !AfterMilli(1000).needsResolve() {
		t.Fatalf("AfterMilli should resolve against the broker")
	}
}

func TestResolveOffsetsExactAt(t *testing.T) {
	cl := newTestClient(t)
	got, err := cl.resolveOffsets(cl.ctx, At(7).Relative(3), map[string][]int32{"orders": {0, 1}})
	if err != nil {
		t.Fatalf("resolveOffsets: %v", err)
	}
	for _, p := range []int32{0, 1} {
		tp := topicPartition{topic: "orders", partition: p}
		if got[tp] != 10 {
			t.Fatalf("partition %d: got offset %d, want 10", p, got[tp])
		}
	}
}

func TestResolveOffsetsExactAtClampsNegative(t *testing.T) {
	cl := newTestClient(t)
	got, err := cl.resolveOffsets(cl.ctx, At(0).Relative(-5), map[string][]int32{"orders": {0}})
	if err != nil {
		t.Fatalf("resolveOffsets: %v", err)
	}
	if got[topicPartition{topic: "orders", partition: 0}] != 0 {
		t.Fatalf("negative resolved offset should clamp to 0, got %d", got[topicPartition{topic: "orders", partition: 0}])
	}
}
