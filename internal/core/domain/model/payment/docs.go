// Package payment implements the Payment aggregate: the capture record that
// bridges an order to the external payment gateway.
//
// Key business rules:
//   - amount equals cart amount plus delivery fee, rounded to minor units
//   - only a pending payment is settled by gateway events; settling a
//     terminal payment is a no-op
//   - only a completed payment can be refunded
package payment
