// Package kmsg contains the request and response types for every API this
// client speaks, plus the record batch container format shared by the
// produce and fetch paths.
//
// Every request/response pair in this package is a plain struct with an
// AppendTo/ReadFrom pair rather than a reflection-based codec: this keeps
// the hot produce/fetch paths allocation-predictable, matching how the
// wire format is handled throughout the rest of this module.
package kmsg

import "github.com/platformatic/kgo/pkg/kbin"

// Request is any request this client can issue.
type Request interface {
	// Key is the request's API key.
	Key() int16
	// MaxVersion is the highest version of this request that this
	// module knows how to encode.
	MaxVersion() int16
	// SetVersion sets the version this request will be encoded as.
	SetVersion(int16)
	// GetVersion returns the currently set version.
	GetVersion() int16
	// IsFlexible returns whether the current version uses the compact
	// flexible encoding (tagged header and compact arrays/strings).
	IsFlexible() bool
	// AppendTo appends this request's encoded body (everything after
	// the standard request header) to dst.
	AppendTo(dst []byte) []byte
	// ResponseKind returns a zero-value response of the type this
	// request expects back, for the broker layer to decode into.
	ResponseKind() Response
}

// Response is any response this client can decode.
type Response interface {
	Key() int16
	SetVersion(int16)
	GetVersion() int16
	IsFlexible() bool
	// ReadFrom decodes src fully into the response, returning
	// kbin.ErrNotEnoughData if src is short.
	ReadFrom(src []byte) error
}

// AdminRequest marks requests that only make sense against a cluster
// controller or group/txn coordinator, as opposed to any broker.
type AdminRequest interface {
	Request
	IsAdminRequest()
}

// GroupCoordinatorRequest marks requests that must be issued against a
// group's (or transactional ID's) coordinator broker.
type GroupCoordinatorRequest interface {
	Request
	IsGroupCoordinatorRequest()
}

// TxnCoordinatorRequest marks requests that must be issued against a
// transactional ID's coordinator broker.
type TxnCoordinatorRequest interface {
	Request
	IsTxnCoordinatorRequest()
}

// SkipTags reads and discards a tagged field section (a varint count
// followed by, for each tag, a varint tag id, a varint length, and that
// many bytes), advancing b.Src past it. Every flexible-version message
// this client round trips carries an empty or not-yet-understood tag
// section, so skip rather than interpret.
func SkipTags(b *kbin.Reader) {
	for n := b.Uvarint(); n > 0; n-- {
		if !b.Ok() {
			return
		}
		b.Uvarint() // tag id
		l := int(b.Uvarint())
		b.Span(l)
	}
}

// NameForKey returns the human name of an API key, for logging. Unknown
// keys return "unknown".
func NameForKey(key int16) string {
	if name, ok := keyNames[key]; ok {
		return name
	}
	return "unknown"
}

// Well-known API keys, per the broker's request/response protocol table.
const (
	Produce                      int16 = 0
	Fetch                        int16 = 1
	ListOffsets                  int16 = 2
	Metadata                     int16 = 3
	OffsetCommit                 int16 = 8
	OffsetFetch                  int16 = 9
	FindCoordinator              int16 = 10
	JoinGroup                    int16 = 11
	Heartbeat                    int16 = 12
	LeaveGroup                   int16 = 13
	SyncGroup                    int16 = 14
	DescribeGroups               int16 = 15
	ListGroups                   int16 = 16
	SaslHandshake                int16 = 17
	ApiVersions                  int16 = 18
	CreateTopics                 int16 = 19
	DeleteTopics                 int16 = 20
	DeleteRecords                int16 = 21
	InitProducerID               int16 = 22
	OffsetForLeaderEpoch         int16 = 23
	AddPartitionsToTxn           int16 = 24
	AddOffsetsToTxn              int16 = 25
	EndTxn                       int16 = 26
	TxnOffsetCommit              int16 = 28
	DescribeAcls                 int16 = 29
	CreateAcls                   int16 = 30
	DeleteAcls                   int16 = 31
	DescribeConfigs              int16 = 32
	AlterConfigs                 int16 = 33
	AlterPartitionReassignments  int16 = 45
	DeleteGroups                 int16 = 42
	SaslAuthenticate             int16 = 36
	IncrementalAlterConfigs      int16 = 44
	DescribeClientQuotas         int16 = 48
	AlterClientQuotas            int16 = 49
	DescribeCluster              int16 = 60
	DescribeQuorum               int16 = 55
	UpdateFeatures               int16 = 57
	DescribeTopicPartitions      int16 = 75
	ConsumerGroupHeartbeat       int16 = 68
	ListTransactions             int16 = 66
	UnregisterBroker             int16 = 64

	// MaxKey is the highest API key this module knows about, used to
	// size a per-broker version table.
	MaxKey int16 = DescribeTopicPartitions
)

var keyNames = map[int16]string{
	Produce:                     "Produce",
	Fetch:                       "Fetch",
	ListOffsets:                 "ListOffsets",
	Metadata:                    "Metadata",
	OffsetCommit:                "OffsetCommit",
	OffsetFetch:                 "OffsetFetch",
	FindCoordinator:             "FindCoordinator",
	JoinGroup:                   "JoinGroup",
	Heartbeat:                   "Heartbeat",
	LeaveGroup:                  "LeaveGroup",
	SyncGroup:                   "SyncGroup",
	DescribeGroups:              "DescribeGroups",
	ListGroups:                  "ListGroups",
	SaslHandshake:               "SaslHandshake",
	ApiVersions:                 "ApiVersions",
	CreateTopics:                "CreateTopics",
	DeleteTopics:                "DeleteTopics",
	DeleteRecords:               "DeleteRecords",
	InitProducerID:              "InitProducerId",
	OffsetForLeaderEpoch:        "OffsetForLeaderEpoch",
	AddPartitionsToTxn:          "AddPartitionsToTxn",
	AddOffsetsToTxn:             "AddOffsetsToTxn",
	EndTxn:                      "EndTxn",
	TxnOffsetCommit:             "TxnOffsetCommit",
	DescribeAcls:                "DescribeAcls",
	CreateAcls:                  "CreateAcls",
	DeleteAcls:                  "DeleteAcls",
	DescribeConfigs:             "DescribeConfigs",
	AlterConfigs:                "AlterConfigs",
	AlterPartitionReassignments: "AlterPartitionReassignments",
	DeleteGroups:                "DeleteGroups",
	SaslAuthenticate:            "SaslAuthenticate",
	IncrementalAlterConfigs:     "IncrementalAlterConfigs",
	DescribeClientQuotas:        "DescribeClientQuotas",
	AlterClientQuotas:           "AlterClientQuotas",
	DescribeCluster:             "DescribeCluster",
	DescribeQuorum:              "DescribeQuorum",
	UpdateFeatures:              "UpdateFeatures",
	DescribeTopicPartitions:     "DescribeTopicPartitions",
	ConsumerGroupHeartbeat:      "ConsumerGroupHeartbeat",
	ListTransactions:            "ListTransactions",
	UnregisterBroker:            "UnregisterBroker",
}
