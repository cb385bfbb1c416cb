// Package kerr contains the broker's standard error code table and the
// classification flags the rest of the client uses to decide whether to
// retry, clear metadata, or rejoin a consumer group.
package kerr

import "fmt"

// Error is a broker-returned error code, decoded off the wire.
//
// Error implements the error interface. Every code in this package's table
// maps to one shared *Error, so callers may compare those with ==; a code
// outside the table yields a new *Error on each ErrorForCode call.
type Error struct {
	Message string
	Code    int16

	// Retriable is whether the action that caused this error can be
	// retried as-is.
	Retriable bool

	// HasStaleMetadata is whether this error indicates that the client's
	// view of partition leadership is stale and should be refreshed
	// before retrying.
	HasStaleMetadata bool

	// NeedsRejoin is whether a consumer group member must leave and
	// rejoin the group after seeing this error.
	NeedsRejoin bool

	// RebalanceInProgress is whether this error signals a broker-driven
	// rebalance that the consumer group state machine must fall back to
	// JOINING for.
	RebalanceInProgress bool

	// UnknownMemberID is whether this error specifically indicates the
	// member ID the client used is no longer valid.
	UnknownMemberID bool
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %s", e.Message, errorText(e.Code))
}

// ErrorForCode returns the Error corresponding to code, or nil if code is
// 0 (no error).
func ErrorForCode(code int16) error {
	if code == 0 {
		return nil
	}
	if err, ok := code2err[code]; ok {
		return err
	}
	return &Error{Message: "UNKNOWN_SERVER_ERROR", Code: code, Retriable: false}
}

// IsRetriable returns whether err is a retriable broker error, per its
// decoded Retriable flag. Non-kerr errors are never retriable through this
// function (callers should also check network/timeout kinds separately).
func IsRetriable(err error) bool {
	ke, ok := err.(*Error)
	return ok && ke != nil && ke.Retriable
}

// HasStaleMetadata reports whether err indicates the client's metadata
// cache for the involved partition(s) is stale and should be refreshed
// before the next attempt.
func HasStaleMetadata(err error) bool {
	ke, ok := err.(*Error)
	return ok && ke != nil && ke.HasStaleMetadata
}

// NeedsRejoin reports whether err requires a consumer group member to
// leave and rejoin the group.
func NeedsRejoin(err error) bool {
	ke, ok := err.(*Error)
	return ok && ke != nil && ke.NeedsRejoin
}

// IsRebalanceInProgress reports whether err is REBALANCE_IN_PROGRESS.
func IsRebalanceInProgress(err error) bool {
	ke, ok := err.(*Error)
	return ok && ke != nil && ke.RebalanceInProgress
}

// IsUnknownMemberID reports whether err is UNKNOWN_MEMBER_ID.
func IsUnknownMemberID(err error) bool {
	ke, ok := err.(*Error)
	return ok && ke != nil && ke.UnknownMemberID
}

func errorText(code int16) string {
	if e, ok := code2err[code]; ok {
		return e.Message
	}
	return "unknown error"
}

func newErr(code int16, msg string, retriable bool, flags ...func(*Error)) *Error {
	e := &Error{Message: msg, Code: code, Retriable: retriable}
	for _, f := range flags {
		f(e)
	}
	return e
}

func staleMeta(e *Error) { e.HasStaleMetadata = true }
func rejoin(e *Error)    { e.NeedsRejoin = true }
func rebalance(e *Error) { e.RebalanceInProgress = true; e.NeedsRejoin = true }
func unknownMember(e *Error) {
	e.UnknownMemberID = true
	e.NeedsRejoin = true
}

// The broker's standard error code table, with retry/rejoin/stale-metadata
// classification matching how a well-behaved client reacts to each one.
var (
	UnknownServerError                 = newErr(-1, "UNKNOWN_SERVER_ERROR", false)
	OffsetOutOfRange                    = newErr(1, "OFFSET_OUT_OF_RANGE", false)
	CorruptMessage                      = newErr(2, "CORRUPT_MESSAGE", true)
	UnknownTopicOrPartition             = newErr(3, "UNKNOWN_TOPIC_OR_PARTITION", true, staleMeta)
	InvalidFetchSize                    = newErr(4, "INVALID_FETCH_SIZE", false)
	LeaderNotAvailable                  = newErr(5, "LEADER_NOT_AVAILABLE", true, staleMeta)
	NotLeaderOrFollower                 = newErr(6, "NOT_LEADER_OR_FOLLOWER", true, staleMeta)
	RequestTimedOut                     = newErr(7, "REQUEST_TIMED_OUT", true)
	BrokerNotAvailable                  = newErr(8, "BROKER_NOT_AVAILABLE", false)
	ReplicaNotAvailable                 = newErr(9, "REPLICA_NOT_AVAILABLE", true)
	MessageTooLarge                     = newErr(10, "MESSAGE_TOO_LARGE", false)
	StaleControllerEpoch                = newErr(11, "STALE_CONTROLLER_EPOCH", false)
	OffsetMetadataTooLarge               = newErr(12, "OFFSET_METADATA_TOO_LARGE", false)
	NetworkException                    = newErr(13, "NETWORK_EXCEPTION", true)
	CoordinatorLoadInProgress           = newErr(14, "COORDINATOR_LOAD_IN_PROGRESS", true)
	CoordinatorNotAvailable             = newErr(15, "COORDINATOR_NOT_AVAILABLE", true)
	NotCoordinator                      = newErr(16, "NOT_COORDINATOR", true)
	InvalidTopicException               = newErr(17, "INVALID_TOPIC_EXCEPTION", false)
	RecordListTooLarge                  = newErr(18, "RECORD_LIST_TOO_LARGE", false)
	NotEnoughReplicas                   = newErr(19, "NOT_ENOUGH_REPLICAS", true)
	NotEnoughReplicasAfterAppend        = newErr(20, "NOT_ENOUGH_REPLICAS_AFTER_APPEND", true)
	InvalidRequiredAcks                 = newErr(21, "INVALID_REQUIRED_ACKS", false)
	IllegalGeneration                   = newErr(22, "ILLEGAL_GENERATION", false, rejoin)
	InconsistentGroupProtocol           = newErr(23, "INCONSISTENT_GROUP_PROTOCOL", false)
	InvalidGroupID                      = newErr(24, "INVALID_GROUP_ID", false)
	UnknownMemberID                     = newErr(25, "UNKNOWN_MEMBER_ID", false, unknownMember)
	InvalidSessionTimeout               = newErr(26, "INVALID_SESSION_TIMEOUT", false)
	RebalanceInProgress                 = newErr(27, "REBALANCE_IN_PROGRESS", false, rebalance)
	InvalidCommitOffsetSize             = newErr(28, "INVALID_COMMIT_OFFSET_SIZE", false)
	TopicAuthorizationFailed            = newErr(29, "TOPIC_AUTHORIZATION_FAILED", false)
	GroupAuthorizationFailed            = newErr(30, "GROUP_AUTHORIZATION_FAILED", false)
	ClusterAuthorizationFailed          = newErr(31, "CLUSTER_AUTHORIZATION_FAILED", false)
	InvalidTimestamp                    = newErr(32, "INVALID_TIMESTAMP", false)
	UnsupportedSaslMechanism            = newErr(33, "UNSUPPORTED_SASL_MECHANISM", false)
	IllegalSaslState                    = newErr(34, "ILLEGAL_SASL_STATE", false)
	UnsupportedVersion                  = newErr(35, "UNSUPPORTED_VERSION", false)
	TopicAlreadyExists                  = newErr(36, "TOPIC_ALREADY_EXISTS", false)
	InvalidPartitions                   = newErr(37, "INVALID_PARTITIONS", false)
	InvalidReplicationFactor            = newErr(38, "INVALID_REPLICATION_FACTOR", false)
	InvalidReplicaAssignment            = newErr(39, "INVALID_REPLICA_ASSIGNMENT", false)
	InvalidConfig                       = newErr(40, "INVALID_CONFIG", false)
	NotController                       = newErr(41, "NOT_CONTROLLER", true)
	InvalidRequest                      = newErr(42, "INVALID_REQUEST", false)
	UnsupportedForMessageFormat         = newErr(43, "UNSUPPORTED_FOR_MESSAGE_FORMAT", false)
	PolicyViolation                     = newErr(44, "POLICY_VIOLATION", false)
	OutOfOrderSequenceNumber            = newErr(45, "OUT_OF_ORDER_SEQUENCE_NUMBER", false)
	DuplicateSequenceNumber             = newErr(46, "DUPLICATE_SEQUENCE_NUMBER", false)
	InvalidProducerEpoch                = newErr(47, "INVALID_PRODUCER_EPOCH", false)
	InvalidTxnState                     = newErr(48, "INVALID_TXN_STATE", false)
	InvalidProducerIDMapping            = newErr(49, "INVALID_PRODUCER_ID_MAPPING", false)
	InvalidTransactionTimeout           = newErr(50, "INVALID_TRANSACTION_TIMEOUT", false)
	ConcurrentTransactions              = newErr(51, "CONCURRENT_TRANSACTIONS", true)
	TransactionCoordinatorFenced        = newErr(52, "TRANSACTION_COORDINATOR_FENCED", false)
	TransactionalIDAuthorizationFailed  = newErr(53, "TRANSACTIONAL_ID_AUTHORIZATION_FAILED", false)
	SecurityDisabled                    = newErr(54, "SECURITY_DISABLED", false)
	OperationNotAttempted               = newErr(55, "OPERATION_NOT_ATTEMPTED", false)
	KafkaStorageError                   = newErr(56, "KAFKA_STORAGE_ERROR", true)
	LogDirNotFound                      = newErr(57, "LOG_DIR_NOT_FOUND", false)
	SaslAuthenticationFailed            = newErr(58, "SASL_AUTHENTICATION_FAILED", false)
	UnknownProducerID                   = newErr(59, "UNKNOWN_PRODUCER_ID", false)
	ReassignmentInProgress              = newErr(60, "REASSIGNMENT_IN_PROGRESS", false)
	DelegationTokenAuthDisabled         = newErr(61, "DELEGATION_TOKEN_AUTH_DISABLED", false)
	DelegationTokenNotFound             = newErr(62, "DELEGATION_TOKEN_NOT_FOUND", false)
	DelegationTokenOwnerMismatch        = newErr(63, "DELEGATION_TOKEN_OWNER_MISMATCH", false)
	DelegationTokenRequestNotAllowed    = newErr(64, "DELEGATION_TOKEN_REQUEST_NOT_ALLOWED", false)
	DelegationTokenAuthorizationFailed  = newErr(65, "DELEGATION_TOKEN_AUTHORIZATION_FAILED", false)
	DelegationTokenExpired              = newErr(66, "DELEGATION_TOKEN_EXPIRED", false)
	InvalidPrincipalType                = newErr(67, "INVALID_PRINCIPAL_TYPE", false)
	NonEmptyGroup                       = newErr(68, "NON_EMPTY_GROUP", false)
	GroupIDNotFound                     = newErr(69, "GROUP_ID_NOT_FOUND", false)
	FetchSessionIDNotFound              = newErr(70, "FETCH_SESSION_ID_NOT_FOUND", true)
	InvalidFetchSessionEpoch            = newErr(71, "INVALID_FETCH_SESSION_EPOCH", true)
	ListenerNotFound                    = newErr(72, "LISTENER_NOT_FOUND", true)
	TopicDeletionDisabled               = newErr(73, "TOPIC_DELETION_DISABLED", false)
	FencedLeaderEpoch                   = newErr(74, "FENCED_LEADER_EPOCH", true, staleMeta)
	UnknownLeaderEpoch                  = newErr(75, "UNKNOWN_LEADER_EPOCH", true, staleMeta)
	UnsupportedCompressionType          = newErr(76, "UNSUPPORTED_COMPRESSION_TYPE", false)
	StaleBrokerEpoch                    = newErr(77, "STALE_BROKER_EPOCH", false)
	OffsetNotAvailable                  = newErr(78, "OFFSET_NOT_AVAILABLE", true)
	MemberIDRequired                    = newErr(79, "MEMBER_ID_REQUIRED", false)
	PreferredLeaderNotAvailable         = newErr(80, "PREFERRED_LEADER_NOT_AVAILABLE", true)
	GroupMaxSizeReached                 = newErr(81, "GROUP_MAX_SIZE_REACHED", false)
	FencedInstanceID                    = newErr(82, "FENCED_INSTANCE_ID", false)
	EligibleLeadersNotAvailable         = newErr(83, "ELIGIBLE_LEADERS_NOT_AVAILABLE", true)
	ElectionNotNeeded                   = newErr(84, "ELECTION_NOT_NEEDED", true)
	NoReassignmentInProgress            = newErr(85, "NO_REASSIGNMENT_IN_PROGRESS", false)
	GroupSubscribedToTopic              = newErr(86, "GROUP_SUBSCRIBED_TO_TOPIC", false)
	InvalidRecord                       = newErr(87, "INVALID_RECORD", false)
	UnstableOffsetCommit                = newErr(88, "UNSTABLE_OFFSET_COMMIT", true)
	ThrottlingQuotaExceeded             = newErr(89, "THROTTLING_QUOTA_EXCEEDED", true)
	ProducerFenced                      = newErr(90, "PRODUCER_FENCED", false)
)

var code2err = map[int16]*Error{}

func register(e *Error) { code2err[e.Code] = e }

func init() {
	for _, e := range []*Error{
		UnknownServerError, OffsetOutOfRange, CorruptMessage, UnknownTopicOrPartition,
		InvalidFetchSize, LeaderNotAvailable, NotLeaderOrFollower, RequestTimedOut,
		BrokerNotAvailable, ReplicaNotAvailable, MessageTooLarge, StaleControllerEpoch,
		OffsetMetadataTooLarge, NetworkException, CoordinatorLoadInProgress,
		CoordinatorNotAvailable, NotCoordinator, InvalidTopicException,
		RecordListTooLarge, NotEnoughReplicas, NotEnoughReplicasAfterAppend,
		InvalidRequiredAcks, IllegalGeneration, InconsistentGroupProtocol,
		InvalidGroupID, UnknownMemberID, InvalidSessionTimeout, RebalanceInProgress,
		InvalidCommitOffsetSize, TopicAuthorizationFailed, GroupAuthorizationFailed,
		ClusterAuthorizationFailed, InvalidTimestamp, UnsupportedSaslMechanism,
		IllegalSaslState, UnsupportedVersion, TopicAlreadyExists, InvalidPartitions,
		InvalidReplicationFactor, InvalidReplicaAssignment, InvalidConfig, NotController,
		InvalidRequest, UnsupportedForMessageFormat, PolicyViolation,
		OutOfOrderSequenceNumber, DuplicateSequenceNumber, InvalidProducerEpoch,
		InvalidTxnState, InvalidProducerIDMapping, InvalidTransactionTimeout,
		ConcurrentTransactions, TransactionCoordinatorFenced,
		TransactionalIDAuthorizationFailed, SecurityDisabled, OperationNotAttempted,
		KafkaStorageError, LogDirNotFound, SaslAuthenticationFailed, UnknownProducerID,
		ReassignmentInProgress, DelegationTokenAuthDisabled, DelegationTokenNotFound,
		DelegationTokenOwnerMismatch, DelegationTokenRequestNotAllowed,
		DelegationTokenAuthorizationFailed, DelegationTokenExpired, InvalidPrincipalType,
		NonEmptyGroup, GroupIDNotFound, FetchSessionIDNotFound, InvalidFetchSessionEpoch,
		ListenerNotFound, TopicDeletionDisabled, FencedLeaderEpoch, UnknownLeaderEpoch,
		UnsupportedCompressionType, StaleBrokerEpoch, OffsetNotAvailable, MemberIDRequired,
		PreferredLeaderNotAvailable, GroupMaxSizeReached, FencedInstanceID,
		EligibleLeadersNotAvailable, ElectionNotNeeded, NoReassignmentInProgress,
		GroupSubscribedToTopic, InvalidRecord, UnstableOffsetCommit,
		ThrottlingQuotaExceeded, ProducerFenced,
	} {
		register(e)
	}
}
