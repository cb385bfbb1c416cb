package kerr

import "testing"

func TestErrorForCodeZeroIsNil(t *testing.T) {
	if err := ErrorForCode(0); err != nil {
		t.Fatalf("expected nil for code 0, got %v", err)
	}
}

func TestErrorForCodeKnown(t *testing.T) {
	err := ErrorForCode(3)
	if err == nil {
		t.Fatal("expected non-nil error for code 3")
	}
	ke, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if ke.Message != "UNKNOWN_TOPIC_OR_PARTITION" {
		t.Errorf("message = %q", ke.Message)
	}
	if !ke.HasStaleMetadata {
		t.Error("expected UnknownTopicOrPartition to mark stale metadata")
	}
	if !IsRetriable(err) {
		t.Error("expected UnknownTopicOrPartition to be retriable")
	}
}

func TestErrorForCodeUnknown(t *testing.T) {
	err := ErrorForCode(12345)
	ke, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if ke.Message != "UNKNOWN_SERVER_ERROR" {
		t.Errorf("message = %q", ke.Message)
	}
	if IsRetriable(err) {
		t.Error("unmapped codes should not be marked retriable")
	}
}

func TestRebalanceInProgressImpliesRejoin(t *testing.T) {
	err := ErrorForCode(RebalanceInProgress.Code)
	if !NeedsRejoin(err) {
		t.Error("expected REBALANCE_IN_PROGRESS to require rejoin")
	}
	if !IsRebalanceInProgress(err) {
		t.Error("expected IsRebalanceInProgress to report true")
	}
}

func TestUnknownMemberIDImpliesRejoin(t *testing.T) {
	err := ErrorForCode(UnknownMemberID.Code)
	if !IsUnknownMemberID(err) {
		t.Error("expected UNKNOWN_MEMBER_ID to report true")
	}
	if !NeedsRejoin(err) {
		t.Error("expected UNKNOWN_MEMBER_ID to require rejoin")
	}
}

func TestErrorMessageFormat(t *testing.T) {
	err := ErrorForCode(MessageTooLarge.Code)
	if got, want := err.Error(), "MESSAGE_TOO_LARGE: MESSAGE_TOO_LARGE"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
