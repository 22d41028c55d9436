package rls

import "errors"

var (
	// ErrUnauthenticated is returned when a principal has no role assignments
	// at all. Routes must translate this to 401, not 403: the principal could
	// not be placed in the organization, which is an authentication failure.
	ErrUnauthenticated = errors.New("no role assignments for principal")

	// ErrForbidden is returned when a resolved scope does not cover a
	// requested resource, identifier or identifier combination.
	ErrForbidden = errors.New("access denied")

	// ErrMalformedScope is returned when a role assignment carries a scope
	// tag but is missing the identifier that defines it (for example a
	// region assignment without a region ID). Such assignments grant no
	// access; treating them as unrestricted would be a privilege escalation.
	ErrMalformedScope = errors.New("role assignment is missing its defining identifier")
)
