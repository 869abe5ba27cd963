// Package kernel provides core domain primitives for the dispatch system.
// It implements the fundamental building blocks used throughout the domain model.
//
// The package includes:
//   - UUID: A value object for unique identifiers with validation and comparison capabilities
//   - GeoPoint: A value object representing validated WGS84 coordinates
//   - Identity: The (user id, role) pair that names an account for presence,
//     session and notification purposes
//
// These primitives enforce domain invariants and validation rules, ensuring
// that domain objects are always in a valid state. They are immutable and
// thread-safe, making them suitable for concurrent use.
package kernel
