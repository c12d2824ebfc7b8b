// Package delivery implements the Delivery aggregate: courier binding and
// fulfillment status of one order, plus the explicit mapping between the
// delivery and order status vocabularies.
package delivery
