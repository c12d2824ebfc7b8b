// Package kernel provides the value objects shared by every aggregate of the
// fulfillment domain.
//
// The package includes:
//   - UUID: identifier of aggregates owned by this service
//   - Location: a validated WGS84 point with distance and interpolation
//   - Money: a full-precision amount rounded to minor units only on the way out
//   - Role and Actor: the closed set of caller roles and the authenticated caller
//
// All types are immutable values and safe for concurrent use.
package kernel
