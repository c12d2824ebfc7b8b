// Package simulation models demo courier movement between a restaurant and
// a delivery address. Positions it produces are reported through the same
// path as live courier reports.
package simulation
