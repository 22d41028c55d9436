// Package auth provides authentication and the role-assignment source for
// the application.
//
// This package supports two authentication sources:
//   - Local database authentication with Argon2id password hashing
//   - OpenID Connect (OIDC) authentication with external identity providers
//
// # Authorization model
//
// Authorization is organizational, not permission-list based: a user holds
// one or more role assignments anchoring their authority at a level of the
// hierarchy (national office, region, university, small group or alumni
// small group). The Service type is the role-assignment source the rls
// package consumes:
//   - Assignments: load a user's role-assignment tuples for scope resolution
//   - Grant / Revoke: manage assignments (superadmin surface)
//   - SyncAssignments: replace OIDC-sourced assignments from group claims
//
// The rls package itself never touches the database; middleware fetches
// assignments here once per request and passes them in explicitly.
//
// # Group claim synchronization
//
// For OIDC authentication, the provider's group claims are mapped to role
// assignments on each login. Claims use the form "scope" for the
// unrestricted levels and "scope:id" for anchored ones, for example
// "national", "region:4" or "smallgroup:12". Stale OIDC-sourced assignments
// are removed on each sync; locally granted assignments are left alone.
//
// Example usage:
//
//	authService := auth.NewService(db)
//
//	assignments, err := authService.Assignments(userID)
//	scope, ok := rls.Resolve(assignments)
package auth
