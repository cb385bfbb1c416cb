package kgo

import "testing"

func TestDefaultCfgResetOffsetIsAtStart(t *testing.T) {
	c := defaultCfg()
	if c.resetOffset.needsResolve() != AtStart().needsResolve() || c.resetOffset.at != AtStart().at {
		t.Fatalf("default reset offset should be AtStart, got %+v", c.resetOffset)
	}
}

func TestValidateRequiresSeedBrokers(t *testing.T) {
	c := defaultCfg()
	if err := c.validate(); err == nil {
		t.Fatalf("expected an error with no seed brokers configured")
	}
}

func TestValidateIdempotentRequiresAllAcks(t *testing.T) {
	c := defaultCfg()
	c.seedBrokers = []string{"localhost:9092"}
	c.idempotent = true
	c.acks = RequireLeaderAck()
	if err := c.validate(); err == nil {
		t.Fatalf("expected an error when idempotent production doesn't require all acks")
	}

	c.acks = RequireAllISRAcks()
	if err := c.validate(); err != nil {
		t.Fatalf("idempotent + RequireAllISRAcks should validate cleanly: %v", err)
	}
}

func TestWithIdempotentProduceForcesAllAcks(t *testing.T) {
	c := defaultCfg()
	WithIdempotentProduce().apply(&c)
	if !c.idempotent {
		t.Fatalf("expected idempotent to be enabled")
	}
	if c.acks.val != RequireAllISRAcks().val {
		t.Fatalf("expected acks to be forced to all-ISR, got %+v", c.acks)
	}
}

func TestWithTransactionalIDImpliesIdempotence(t *testing.T) {
	c := defaultCfg()
	WithTransactionalID("txn-1").apply(&c)
	if !c.idempotent {
		t.Fatalf("transactional production should imply idempotence")
	}
	if c.transactionID == nil || *c.transactionID != "txn-1" {
		t.Fatalf("expected transaction ID to be set, got %v", c.transactionID)
	}
	if c.transactionTimeout == 0 {
		t.Fatalf("expected a default transaction timeout to be set")
	}
}

func TestConsumerGroupOption(t *testing.T) {
	c := defaultCfg()
	ConsumerGroup("my-group", "orders", "payments").apply(&c)
	if c.consumerGroup != "my-group" {
		t.Fatalf("got group %q, want my-group", c.consumerGroup)
	}
	if len(c.consumerTopics) != 2 || c.consumerTopics[0] != "orders" || c.consumerTopics[1] != "payments" {
		t.Fatalf("got topics %v, want [orders payments]", c.consumerTopics)
	}
}
