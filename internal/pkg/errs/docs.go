// Package errs provides standardized error types for the fulfillment service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package covers the error taxonomy of the orchestrator:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed or missing input
//   - ObjectNotFoundError: entity absent or not owned by the requester
//   - ForbiddenError: the actor lacks authority for the requested action
//   - InvalidTransitionError: a state machine rejected a status change
//   - UpstreamError: a required collaborator call failed
//   - DegradedResultError: a non-essential collaborator call failed and the result is partial
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
package errs
