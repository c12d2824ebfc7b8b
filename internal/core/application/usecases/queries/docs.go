// Package queries contains the read side of the orchestrator. Handlers read
// straight from the database with raw SQL and never load aggregates; access
// rules are applied in the query so that a record the actor may not see is
// reported exactly like a missing one.
package queries
