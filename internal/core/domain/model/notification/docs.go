// Package notification holds the record of customer notification attempts.
package notification
