// Package courier provides the delivery personnel aggregate: registration,
// administrative review, availability and live position.
//
// Key business rules:
//   - Couriers register as pending and are approved or rejected exactly once
//   - Only approved, available couriers can be bound to a delivery
//   - Position reports overwrite the previous point
package courier
