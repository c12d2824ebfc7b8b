// Package guard provides the constructor guard used by value objects, commands
// and queries to detect zero-value instances.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the object is a zero
// value and no specific error was supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in structs that must only be created through
// their constructor. The zero value reports the object as not constructed.
//
//	type AssignCourierCommand struct {
//	    deliveryID kernel.UUID
//	    guard      guard.ConstructorGuard
//	}
//
//	func (c AssignCourierCommand) Validate() error {
//	    return c.guard.Validate(ErrAssignCourierCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that marks its owner as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the owner was not built through its constructor.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
