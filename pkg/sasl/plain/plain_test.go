package plain

import (
	"context"
	"testing"
)

func TestPlainChallenge(t *testing.T) {
	m := Auth{User: "alice", Pass: "wonderland"}.AsMechanism()
	if m.Name() != "PLAIN" {
		t.Fatalf("name = %q, want PLAIN", m.Name())
	}
	sess, err := m.Session(context.Background())
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	msg, done, err := sess.Challenge(nil)
	if err != nil {
		t.Fatalf("Challenge: %v", err)
	}
	if !done {
		t.Fatalf("PLAIN should complete in one round")
	}
	want := "\x00alice\x00wonderland"
	if string(msg) != want {
		t.Fatalf("msg = %q, want %q", msg, want)
	}
}

func TestPlainChallengeWithZid(t *testing.T) {
	m := Auth{Zid: "admin", User: "alice", Pass: "x"}.AsMechanism()
	sess, _ := m.Session(context.Background())
	msg, _, _ := sess.Challenge(nil)
	want := "admin\x00alice\x00x"
	if string(msg) != want {
		t.Fatalf("msg = %q, want %q", msg, want)
	}
}
