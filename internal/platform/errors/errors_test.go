package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestGRPCCodeMapping(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeEntityEmptyID, codes.InvalidArgument},
		{CodeConditionUnknownKey, codes.InvalidArgument},
		{CodeInvalidTimeframe, codes.InvalidArgument},
		{CodeBatchEmpty, codes.InvalidArgument},
		{CodeOwnershipViolation, codes.PermissionDenied},
		{CodeBatchRejected, codes.FailedPrecondition},
		{CodeEvolutionConflict, codes.Aborted},
		{CodeEntityNotFound, codes.NotFound},
		{CodeNotFound, codes.NotFound},
		{CodeStoreUnavailable, codes.Unavailable},
		{CodeUnknown, codes.Internal},
		{Code("SOMETHING_ELSE"), codes.Internal},
	}

	for _, tt := range tests {
		if got := tt.code.GRPCCode(); got != tt.want {
			t.Fatalf("%s GRPCCode() = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestErrorChainTraversal(t *testing.T) {
	cause := stderrors.New("disk io failure")
	err := Wrap(CodeStoreUnavailable, "put entity: history store failure", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be found")
	}
	wrapped := fmt.Errorf("outer: %w", err)
	if GetCode(wrapped) != CodeStoreUnavailable {
		t.Fatalf("GetCode = %q, want %q", GetCode(wrapped), CodeStoreUnavailable)
	}
	if !IsCode(wrapped, CodeStoreUnavailable) {
		t.Fatal("expected IsCode to match through wrapping")
	}
}

func TestIsMatchesByCode(t *testing.T) {
	a := New(CodeOwnershipViolation, "one message")
	b := New(CodeOwnershipViolation, "different message")
	if !stderrors.Is(a, b) {
		t.Fatal("expected errors with same code to match")
	}
	c := New(CodeEntityNotFound, "other code")
	if stderrors.Is(a, c) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestGetCodeFallsBackToUnknown(t *testing.T) {
	if got := GetCode(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("GetCode(plain) = %q, want %q", got, CodeUnknown)
	}
	if got := GetCode(nil); got != CodeUnknown {
		t.Fatalf("GetCode(nil) = %q, want %q", got, CodeUnknown)
	}
}

func TestGetMetadata(t *testing.T) {
	err := WithMetadata(CodeConditionUnknownKey, "unknown condition", map[string]string{"ConditionKey": "mystery"})
	meta := GetMetadata(err)
	if meta["ConditionKey"] != "mystery" {
		t.Fatalf("metadata = %v", meta)
	}
	if GetMetadata(stderrors.New("plain")) != nil {
		t.Fatal("expected nil metadata for plain error")
	}
}

func TestHandleErrorProducesStatusWithDetails(t *testing.T) {
	err := WithMetadata(
		CodeInvalidTimeframe,
		"prediction horizon out of range: 999",
		map[string]string{"MaxHorizonDays": "365"},
	)

	grpcErr := HandleError(err, "")
	st, ok := status.FromError(grpcErr)
	if !ok {
		t.Fatal("expected a grpc status error")
	}
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("status code = %v, want InvalidArgument", st.Code())
	}

	var info *errdetails.ErrorInfo
	var localized *errdetails.LocalizedMessage
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			info = d
		case *errdetails.LocalizedMessage:
			localized = d
		}
	}
	if info == nil || info.Reason != string(CodeInvalidTimeframe) || info.Domain != Domain {
		t.Fatalf("error info = %+v", info)
	}
	if localized == nil {
		t.Fatal("expected localized message detail")
	}
	if localized.Message != "Prediction horizon must be between 1 and 365 days" {
		t.Fatalf("localized message = %q", localized.Message)
	}
}

func TestHandleErrorUnknownErrorIsInternal(t *testing.T) {
	grpcErr := HandleError(stderrors.New("boom"), "en-US")
	st, ok := status.FromError(grpcErr)
	if !ok {
		t.Fatal("expected a grpc status error")
	}
	if st.Code() != codes.Internal {
		t.Fatalf("status code = %v, want Internal", st.Code())
	}
}

func TestHandleErrorNil(t *testing.T) {
	if HandleError(nil, "en-US") != nil {
		t.Fatal("expected nil for nil error")
	}
}
