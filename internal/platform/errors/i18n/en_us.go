package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeEntityEmptyID        = "ENTITY_EMPTY_ID"
	CodeEntityNotFound       = "ENTITY_NOT_FOUND"
	CodeEntityInvalidKind    = "ENTITY_INVALID_KIND"
	CodeEntityEmptyOwnerID   = "ENTITY_EMPTY_OWNER_ID"
	CodeTraitEmptyKey        = "TRAIT_EMPTY_KEY"
	CodePersonalityInvalid   = "PERSONALITY_INVALID_STATE"
	CodeInteractionInvalid   = "INTERACTION_INVALID_KIND"
	CodeInteractionTimestamp = "INTERACTION_MISSING_TIMESTAMP"

	CodeConditionUnknownKey     = "CONDITION_UNKNOWN_KEY"
	CodeConditionDuplicateKey   = "CONDITION_DUPLICATE_KEY"
	CodeConditionInvalidWindow  = "CONDITION_INVALID_WINDOW"
	CodeConditionInvalidOutcome = "CONDITION_INVALID_OUTCOME"

	CodeEvolutionEmptyTrigger = "EVOLUTION_EMPTY_TRIGGER_KEY"
	CodeEvolutionConflict     = "EVOLUTION_CONCURRENT_CONFLICT"
	CodeEvolutionInvalidType  = "EVOLUTION_INVALID_OUTCOME_TYPE"

	CodeBatchEmpty         = "BATCH_EMPTY"
	CodeBatchRejected      = "BATCH_REJECTED"
	CodeOwnershipViolation = "OWNERSHIP_VIOLATION"

	CodeInvalidTimeframe = "PREDICTION_INVALID_TIMEFRAME"

	CodeNotFound         = "NOT_FOUND"
	CodeStoreUnavailable = "DATA_STORE_UNAVAILABLE"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Entity errors
		CodeEntityEmptyID:        "Entity ID is required",
		CodeEntityNotFound:       "Entity {{.EntityID}} was not found",
		CodeEntityInvalidKind:    "Invalid entity kind specified",
		CodeEntityEmptyOwnerID:   "Entity owner ID is required",
		CodeTraitEmptyKey:        "Trait key cannot be empty",
		CodePersonalityInvalid:   "Invalid personality state specified",
		CodeInteractionInvalid:   "Invalid interaction kind specified",
		CodeInteractionTimestamp: "Interaction timestamp is required",

		// Condition catalog errors
		CodeConditionUnknownKey:     "Condition {{.ConditionKey}} does not exist",
		CodeConditionDuplicateKey:   "Condition {{.ConditionKey}} is defined more than once",
		CodeConditionInvalidWindow:  "Condition lookback window is invalid",
		CodeConditionInvalidOutcome: "Condition outcome table is invalid",

		// Evolution errors
		CodeEvolutionEmptyTrigger: "Evolution trigger key is required",
		CodeEvolutionConflict:     "Another evolution request for this entity is in flight",
		CodeEvolutionInvalidType:  "Invalid evolution outcome type",

		// Batch authorization errors
		CodeBatchEmpty:         "At least one entity ID is required",
		CodeBatchRejected:      "Batch rejected: {{.ViolationCount}} entity(ies) failed ownership validation",
		CodeOwnershipViolation: "You do not own entity {{.EntityID}}",

		// Prediction errors
		CodeInvalidTimeframe: "Prediction horizon must be between 1 and {{.MaxHorizonDays}} days",

		// Storage errors
		CodeNotFound:         "The requested record was not found",
		CodeStoreUnavailable: "The history store is temporarily unavailable, please retry",
	},
}
