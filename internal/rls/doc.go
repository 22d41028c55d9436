// Package rls implements row-level security for the organizational hierarchy.
//
// Every authenticated user holds one or more role assignments anchoring their
// authority at some level of the hierarchy (national office, region,
// university, small group or alumni small group). This package turns those
// assignments into query predicates and yes/no access decisions that route
// handlers apply to every data operation.
//
// # Pipeline
//
// The package is consumed as a per-request pipeline:
//
//  1. Resolve collapses the user's role assignments into one effective
//     UserScope, preferring the most restrictive assignment.
//  2. Generate maps the UserScope into a Result: an Unrestricted, Restricted
//     or Denied decision plus the filter Conditions for the restricted case.
//  3. ForTable narrows the generic conditions to the columns a specific table
//     actually has. Querying universities by small group would silently match
//     nothing or break the query, so the adapter is mandatory, not sugar.
//  4. Narrow merges an explicit client-supplied filter into the resolved
//     conditions, rejecting any attempt to widen beyond the resolved scope.
//  5. CanAccess answers point checks ("may this user touch university #4")
//     for single-entity reads and writes.
//
// # Decisions, not bare conditions
//
// An empty set of conditions is deliberately ambiguous: it is what a
// superadmin gets (no restriction) and also what a malformed role assignment
// would naively produce (nothing matched). The two must never be confused,
// so every generator returns a Result carrying an explicit Decision. A role
// assignment whose defining identifier is missing yields Denied and callers
// must reject the request; it can never fall through to full access.
//
// # Purity
//
// Everything in this package is a pure function of its arguments. The caller
// fetches role assignments and passes them in explicitly; the package
// performs no I/O, keeps no state between requests and never logs. The only
// third-party surface is emitting gorm WHERE clauses from Conditions.
package rls
