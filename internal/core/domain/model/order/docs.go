// Package order implements the Order aggregate and its lifecycle state machine.
//
// The package includes:
//   - Order: the aggregate root holding lines, fixed total, address and status
//   - Status: the lifecycle states and the edge table between them
//   - AuthorizeTransition: the role to target-status authorization table
//   - StatusChange: the audit record emitted by every transition
//
// Key business rules:
//   - Status moves only along Pending -> Confirmed -> Preparing ->
//     Out for Delivery -> Delivered, or Pending -> Cancelled
//   - Role authorization is checked before the edge
//   - Only the owning customer may cancel, and only while Pending
package order
