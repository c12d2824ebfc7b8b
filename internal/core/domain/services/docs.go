// Package services provides domain services that span more than one
// aggregate.
//
// The package includes:
//   - CourierDispatcher: picks the nearest free courier for a delivery and
//     binds the delivery and the courier together
package services
