// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Entity errors
	CodeEntityEmptyID        Code = "ENTITY_EMPTY_ID"
	CodeEntityNotFound       Code = "ENTITY_NOT_FOUND"
	CodeEntityInvalidKind    Code = "ENTITY_INVALID_KIND"
	CodeEntityEmptyOwnerID   Code = "ENTITY_EMPTY_OWNER_ID"
	CodeTraitEmptyKey        Code = "TRAIT_EMPTY_KEY"
	CodePersonalityInvalid   Code = "PERSONALITY_INVALID_STATE"
	CodeInteractionInvalid   Code = "INTERACTION_INVALID_KIND"
	CodeInteractionTimestamp Code = "INTERACTION_MISSING_TIMESTAMP"

	// Condition catalog errors
	CodeConditionUnknownKey     Code = "CONDITION_UNKNOWN_KEY"
	CodeConditionDuplicateKey   Code = "CONDITION_DUPLICATE_KEY"
	CodeConditionInvalidWindow  Code = "CONDITION_INVALID_WINDOW"
	CodeConditionInvalidOutcome Code = "CONDITION_INVALID_OUTCOME"

	// Evolution errors
	CodeEvolutionEmptyTrigger Code = "EVOLUTION_EMPTY_TRIGGER_KEY"
	CodeEvolutionConflict     Code = "EVOLUTION_CONCURRENT_CONFLICT"
	CodeEvolutionInvalidType  Code = "EVOLUTION_INVALID_OUTCOME_TYPE"

	// Batch authorization errors
	CodeBatchEmpty         Code = "BATCH_EMPTY"
	CodeBatchRejected      Code = "BATCH_REJECTED"
	CodeOwnershipViolation Code = "OWNERSHIP_VIOLATION"

	// Prediction errors
	CodeInvalidTimeframe Code = "PREDICTION_INVALID_TIMEFRAME"

	// Storage errors
	CodeNotFound         Code = "NOT_FOUND"
	CodeStoreUnavailable Code = "DATA_STORE_UNAVAILABLE"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeEntityEmptyID,
		CodeEntityInvalidKind,
		CodeEntityEmptyOwnerID,
		CodeTraitEmptyKey,
		CodePersonalityInvalid,
		CodeInteractionInvalid,
		CodeInteractionTimestamp,
		CodeConditionUnknownKey,
		CodeConditionDuplicateKey,
		CodeConditionInvalidWindow,
		CodeConditionInvalidOutcome,
		CodeEvolutionEmptyTrigger,
		CodeEvolutionInvalidType,
		CodeBatchEmpty,
		CodeInvalidTimeframe:
		return codes.InvalidArgument

	// PermissionDenied - requester does not own the resource
	case CodeOwnershipViolation:
		return codes.PermissionDenied

	// FailedPrecondition - batch rejected as a whole
	case CodeBatchRejected:
		return codes.FailedPrecondition

	// Aborted - lost a same-entity race; callers treat this as a no-op
	case CodeEvolutionConflict:
		return codes.Aborted

	// NotFound - resource doesn't exist
	case CodeNotFound, CodeEntityNotFound:
		return codes.NotFound

	// Unavailable - history store timed out, retryable
	case CodeStoreUnavailable:
		return codes.Unavailable

	default:
		return codes.Internal
	}
}
