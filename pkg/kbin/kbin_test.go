package kbin

import (
	"bytes"
	"testing"
)

func TestInt32RoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 1 << 30, -(1 << 30), -2147483648, 2147483647} {
		dst := AppendInt32(nil, v)
		r := Reader{Src: dst}
		got := r.Int32()
		if err := r.Complete(); err != nil {
			t.Fatalf("v=%d: %v", v, err)
		}
		if got != v {
			t.Errorf("got %d, want %d", got, v)
		}
	}
}

func TestVarintZigZagRoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 63, -64, 1000000, -1000000, 2147483647, -2147483648} {
		dst := AppendVarint(nil, v)
		r := Reader{Src: dst}
		got := r.Varint()
		if err := r.Complete(); err != nil {
			t.Fatalf("v=%d: %v", v, err)
		}
		if got != v {
			t.Errorf("got %d, want %d", got, v)
		}
	}
}

func TestVarlongRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 1 << 40, -(1 << 40)} {
		dst := AppendVarlong(nil, v)
		r := Reader{Src: dst}
		got := r.Varlong()
		if err := r.Complete(); err != nil {
			t.Fatalf("v=%d: %v", v, err)
		}
		if got != v {
			t.Errorf("got %d, want %d", got, v)
		}
	}
}

func TestCompactStringRoundTrip(t *testing.T) {
	dst := AppendCompactString(nil, "hello")
	r := Reader{Src: dst}
	got := r.CompactString()
	if err := r.Complete(); err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Errorf("got %q", got)
	}
}

func TestCompactNullableStringNull(t *testing.T) {
	dst := AppendCompactNullableString(nil, nil)
	r := Reader{Src: dst}
	got := r.CompactNullableString()
	if err := r.Complete(); err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("expected nil, got %v", *got)
	}
}

func TestNullableStringNull(t *testing.T) {
	dst := AppendNullableString(nil, nil)
	r := Reader{Src: dst}
	got := r.NullableString()
	if err := r.Complete(); err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("expected nil, got %v", *got)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	dst := AppendBytes(nil, payload)
	r := Reader{Src: dst}
	got := r.Bytes()
	if err := r.Complete(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("got %v, want %v", got, payload)
	}
}

func TestNotEnoughData(t *testing.T) {
	r := Reader{Src: []byte{0, 1}}
	_ = r.Int32()
	if err := r.Complete(); err != ErrNotEnoughData {
		t.Errorf("expected ErrNotEnoughData, got %v", err)
	}
}

func TestCompactArrayLenNull(t *testing.T) {
	dst := AppendUvarint(nil, 0)
	r := Reader{Src: dst}
	got := r.CompactArrayLen()
	if err := r.Complete(); err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestWriterMatchesAppendFunctions(t *testing.T) {
	var w Writer
	w.Int16(7)
	w.CompactString("topic")
	w.EmptyTags()

	var expect []byte
	expect = AppendInt16(expect, 7)
	expect = AppendCompactString(expect, "topic")
	expect = AppendTags(expect)

	if !bytes.Equal(w.Src, expect) {
		t.Errorf("writer output mismatch:\ngot  %v\nwant %v", w.Src, expect)
	}
}
