// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the dispatch system.
//
// The package includes:
//   - PreferenceResolver: computes the delivery-eligible courier set for a
//     restaurant's new order from the bidirectional preference filters
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts.
package services
