// Package domain defines the core value types for the trait discovery and
// personality evolution engine: entities (horses and grooms), their
// interaction history, revealed traits, personality states, and the
// immutable evolution events that form the audit trail.
//
// Domain values are plain data with constructor-style validation. Entities
// are created by external game logic and handed to the engine by reference;
// the engine only appends to history, trait, and state fields.
package domain
