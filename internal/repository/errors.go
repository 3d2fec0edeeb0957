// Package repository implements persistence over MySQL for accounts and
// reviewer applications.  Sentinel errors let handlers distinguish
// validation failures from infrastructure failures; anything not listed
// here should be treated as a 500.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no record.  Deletion of a
// protected Admin account also reports ErrNotFound so callers cannot tell
// "absent" apart from "exempt".
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when creating an account whose normalized email
// is already taken.  The accounts.email unique index reports the same error
// when a concurrent writer wins the pre-check race.
var ErrEmailExists = errors.New("an account with that email already exists")

// ErrAdminRegistration is returned when a create request names the Admin
// type; admin accounts exist only through bootstrap seeding.
var ErrAdminRegistration = errors.New("admin accounts cannot be created via website")

// ErrAlreadyApplied is returned when a reviewer who already has an
// application submits another one.
var ErrAlreadyApplied = errors.New("application already submitted")

// ErrInvalidStatus is returned when a status update names a value outside
// {Pending, Approved, Denied}.
var ErrInvalidStatus = errors.New("invalid status")

// ErrMissingFields is returned when a create request omits a required field.
var ErrMissingFields = errors.New("missing required fields")
