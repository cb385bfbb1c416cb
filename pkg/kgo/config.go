package kgo

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/platformatic/kgo/pkg/sasl"
)

// Opt is an option to configure a client.
type Opt interface {
	apply(*cfg)
}

type opt struct{ fn func(*cfg) }

func (o opt) apply(cfg *cfg) { o.fn(cfg) }

type cfg struct {
	seedBrokers []string
	id          *string
	dialFn      func(context.Context, string) (net.Conn, error)
	tlsCfg      *tls.Config
	sasls       []sasl.Mechanism

	logger Logger

	softwareName    string
	softwareVersion string

	retries              int
	retryBackoff         func(tries int) time.Duration
	brokerConnDeadRetries int
	requestTimeoutOverhead time.Duration

	maxBrokerReadBytes  int32
	maxBrokerWriteBytes int32

	allowAutoTopicCreation bool

	acks           RequiredAcks
	compression    []CompressionCodec
	partitioner    Partitioner
	produceTimeout time.Duration
	idempotent     bool
	transactionID  *string
	transactionTimeout time.Duration
	repeatOnStaleMetadata bool

	consumerGroup     string
	consumerTopics    []string
	sessionTimeout    time.Duration
	rebalanceTimeout  time.Duration
	heartbeatInterval time.Duration
	autoCommit        bool
	autoCommitInterval time.Duration
	useKip848         bool
	resetOffset       Offset
}

func defaultCfg() cfg {
	return cfg{
		id:     strPtr("kgo"),
		dialFn: stdDial,
		logger: nopLogger{},

		softwareName:    "kgo",
		softwareVersion: "1.0",

		retries:               11,
		retryBackoff:          defaultRetryBackoff,
		brokerConnDeadRetries: 20,
		requestTimeoutOverhead: 10 * time.Second,

		maxBrokerReadBytes:  100 << 20,
		maxBrokerWriteBytes: 100 << 20,

		acks:           RequireLeaderAck(),
		compression:    []CompressionCodec{NoCompression()},
		partitioner:    StickyKeyPartitioner(),
		produceTimeout: 10 * time.Second,
		repeatOnStaleMetadata: true,

		sessionTimeout:     45 * time.Second,
		rebalanceTimeout:   60 * time.Second,
		heartbeatInterval:  0, // 0 means sessionTimeout/3
		autoCommit:         true,
		autoCommitInterval: 5 * time.Second,
		resetOffset:        AtStart(),
	}
}

// ConsumeResetOffset sets where a partition's consumption begins when it
// has no committed offset (or a committed offset the broker has already
// expired off its log). Defaults to AtStart.
func ConsumeResetOffset(o Offset) Opt {
	return opt{func(c *cfg) { c.resetOffset = o }}
}

func strPtr(s string) *string { return &s }

var stdDialer = net.Dialer{Timeout: 10 * time.Second}

func stdDial(ctx context.Context, addr string) (net.Conn, error) {
	return stdDialer.DialContext(ctx, "tcp", addr)
}

func defaultRetryBackoff(tries int) time.Duration {
	const maxBackoff = 1500 * time.Millisecond
	backoff := time.Duration(1<<uint(tries)) * 50 * time.Millisecond
	if backoff > maxBackoff || backoff <= 0 {
		return maxBackoff
	}
	return backoff
}

func (c *cfg) validate() error {
	if len(c.seedBrokers) == 0 {
		return fmt.Errorf("at least one seed broker is required")
	}
	for _, codec := range c.compression {
		if err := codec.validate(); err != nil {
			return err
		}
	}
	if c.idempotent && c.acks.val != -1 {
		return fmt.Errorf("idempotent production requires acks=all")
	}
	return nil
}

// SeedBrokers sets the seed brokers for the client to use, overriding any
// existing seed brokers.
func SeedBrokers(seeds ...string) Opt {
	return opt{func(c *cfg) { c.seedBrokers = seeds }}
}

// WithLogger sets the client's logger, overriding the default no-op logger.
func WithLogger(l Logger) Opt {
	return opt{func(c *cfg) { c.logger = l }}
}

// ClientID sets the client ID sent with every request, overriding the
// default "kgo".
func ClientID(id string) Opt {
	return opt{func(c *cfg) { c.id = &id }}
}

// Dialer overrides the default 10s-timeout TCP dialer.
func Dialer(fn func(context.Context, string) (net.Conn, error)) Opt {
	return opt{func(c *cfg) { c.dialFn = fn }}
}

// DialTLSConfig enables TLS for all broker connections using cfg.
func DialTLSConfig(tlsCfg *tls.Config) Opt {
	return opt{func(c *cfg) {
		c.tlsCfg = tlsCfg
		c.dialFn = func(ctx context.Context, addr string) (net.Conn, error) {
			d := tls.Dialer{Config: tlsCfg}
			return d.DialContext(ctx, "tcp", addr)
		}
	}}
}

// SASL appends sasl mechanisms to use for authentication, tried in order
// with fallback on UNSUPPORTED_SASL_MECHANISM, matching the handshake
// fallback the broker connection layer performs.
func SASL(mechanisms ...sasl.Mechanism) Opt {
	return opt{func(c *cfg) { c.sasls = append(c.sasls, mechanisms...) }}
}

// RequestRetries sets the number of tries a request is issued before giving
// up, overriding the default of 11.
func RequestRetries(n int) Opt {
	return opt{func(c *cfg) { c.retries = n }}
}

// RequestTimeoutOverhead bounds how long a failed request keeps being
// retried: once the time since its first try exceeds this value times the
// RequestRetries count, it is not retried again. It does not change the
// connection read and write deadlines, which are a fixed 30s.
func RequestTimeoutOverhead(d time.Duration) Opt {
	return opt{func(c *cfg) { c.requestTimeoutOverhead = d }}
}

// AllowAutoTopicCreation enables topics to be auto-created by produce and
// metadata requests when they do not yet exist.
func AllowAutoTopicCreation() Opt {
	return opt{func(c *cfg) { c.allowAutoTopicCreation = true }}
}

// RequiredAcks represents the number of acks a broker leader must have
// before a produce request is considered complete.
type RequiredAcks struct{ val int16 }

// RequireNoAck considers records sent as soon as they are written to the
// wire; the leader does not reply.
func RequireNoAck() RequiredAcks { return RequiredAcks{0} }

// RequireLeaderAck waits for only the partition leader to persist a record.
func RequireLeaderAck() RequiredAcks { return RequiredAcks{1} }

// RequireAllISRAcks waits for all in-sync replicas to persist a record.
func RequireAllISRAcks() RequiredAcks { return RequiredAcks{-1} }

// WithRequiredAcks overrides the default RequireLeaderAck.
func WithRequiredAcks(acks RequiredAcks) Opt {
	return opt{func(c *cfg) { c.acks = acks }}
}

// WithCompressionPreference sets the compression codecs to try, in order of
// preference, overriding the default of no compression. The first codec in
// the list is used; broker support for it is not checked.
func WithCompressionPreference(preference ...CompressionCodec) Opt {
	return opt{func(c *cfg) { c.compression = preference }}
}

// WithPartitioner overrides the default sticky-key partitioner.
func WithPartitioner(p Partitioner) Opt {
	return opt{func(c *cfg) { c.partitioner = p }}
}

// WithProduceTimeout overrides the default 10s produce request timeout.
func WithProduceTimeout(d time.Duration) Opt {
	return opt{func(c *cfg) { c.produceTimeout = d }}
}

// WithIdempotentProduce enables idempotent production (forcing RequireAllISRAcks
// and a producer ID/epoch obtained via InitProducerID).
func WithIdempotentProduce() Opt {
	return opt{func(c *cfg) {
		c.idempotent = true
		c.acks = RequireAllISRAcks()
	}}
}

// WithTransactionalID enables transactional production under id, implying
// idempotence.
func WithTransactionalID(id string) Opt {
	return opt{func(c *cfg) {
		c.idempotent = true
		c.acks = RequireAllISRAcks()
		c.transactionID = &id
		if c.transactionTimeout == 0 {
			c.transactionTimeout = 40 * time.Second
		}
	}}
}

// WithTransactionTimeout overrides the default 40s transaction timeout used
// with WithTransactionalID.
func WithTransactionTimeout(d time.Duration) Opt {
	return opt{func(c *cfg) { c.transactionTimeout = d }}
}

// DisableRepeatOnStaleMetadata disables the default behavior of clearing the
// metadata cache and retrying a produce once when the broker reports the
// partition's leadership is stale (NOT_LEADER_OR_FOLLOWER,
// LEADER_NOT_AVAILABLE, UNKNOWN_TOPIC_OR_PARTITION).
func DisableRepeatOnStaleMetadata() Opt {
	return opt{func(c *cfg) { c.repeatOnStaleMetadata = false }}
}

// ConsumerGroup configures the client to join the named consumer group for
// any of the given topics, using the classic JoinGroup/SyncGroup/Heartbeat
// protocol unless WithKip848Heartbeat is also set.
func ConsumerGroup(group string, topics ...string) Opt {
	return opt{func(c *cfg) {
		c.consumerGroup = group
		c.consumerTopics = topics
	}}
}

// WithSessionTimeout overrides the default 45s group session timeout.
func WithSessionTimeout(d time.Duration) Opt {
	return opt{func(c *cfg) { c.sessionTimeout = d }}
}

// WithRebalanceTimeout overrides the default 60s rebalance timeout.
func WithRebalanceTimeout(d time.Duration) Opt {
	return opt{func(c *cfg) { c.rebalanceTimeout = d }}
}

// WithHeartbeatInterval overrides the default heartbeat interval of one
// third of the session timeout.
func WithHeartbeatInterval(d time.Duration) Opt {
	return opt{func(c *cfg) { c.heartbeatInterval = d }}
}

// DisableAutoCommit disables the default periodic offset auto-commit.
func DisableAutoCommit() Opt {
	return opt{func(c *cfg) { c.autoCommit = false }}
}

// WithAutoCommitInterval overrides the default 5s auto-commit interval.
func WithAutoCommitInterval(d time.Duration) Opt {
	return opt{func(c *cfg) { c.autoCommitInterval = d }}
}

// WithKip848Heartbeat switches the consumer group protocol to
// ConsumerGroupHeartbeat (apiKey 68, KIP-848): no SyncGroup step, the
// broker assigns partitions directly in the heartbeat response.
func WithKip848Heartbeat() Opt {
	return opt{func(c *cfg) { c.useKip848 = true }}
}
