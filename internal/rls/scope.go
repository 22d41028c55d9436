package rls

// Scope is the organizational level at which a principal's authority is
// anchored. It is a closed set; Precedence returns 0 for anything else.
type Scope string

const (
	// ScopeSuperAdmin grants unrestricted access to everything.
	ScopeSuperAdmin Scope = "superadmin"
	// ScopeNational grants unrestricted access to everything (national office staff).
	ScopeNational Scope = "national"
	// ScopeRegion anchors authority at one region.
	ScopeRegion Scope = "region"
	// ScopeUniversity anchors authority at one university.
	ScopeUniversity Scope = "university"
	// ScopeSmallGroup anchors authority at one small group.
	ScopeSmallGroup Scope = "smallgroup"
	// ScopeAlumniSmallGroup anchors authority at one alumni small group.
	ScopeAlumniSmallGroup Scope = "alumnismallgroup"
)

// precedence ranks scopes from broadest (1) to most restrictive (6). The
// resolver keeps the assignment with the highest rank: when a principal holds
// both a superadmin and a small group assignment (common in fixture data),
// the narrower scope wins so that a stray broad assignment cannot silently
// widen what a request can see.
var precedence = map[Scope]int{ //nolint:gochecknoglobals
	ScopeSuperAdmin:       1,
	ScopeNational:         2,
	ScopeRegion:           3,
	ScopeUniversity:       4,
	ScopeSmallGroup:       5,
	ScopeAlumniSmallGroup: 6,
}

// Precedence returns the scope's restrictiveness rank, or 0 for an unknown tag.
func (s Scope) Precedence() int {
	return precedence[s]
}

// Valid reports whether s is one of the known scope tags.
func (s Scope) Valid() bool {
	return precedence[s] != 0
}

// Assignment is one role-assignment tuple supplied by the identity
// collaborator. Only the identifiers meaningful for Scope are expected to be
// set; ancestors may be carried along for convenience.
type Assignment struct {
	Scope         Scope
	RegionID      *uint64
	UniversityID  *uint64
	SmallGroupID  *uint64
	AlumniGroupID *uint64
}

// UserScope is the resolved, effective authorization context for one
// principal on one request. It is constructed fresh per request and must not
// be mutated afterwards.
type UserScope struct {
	Scope         Scope
	RegionID      *uint64
	UniversityID  *uint64
	SmallGroupID  *uint64
	AlumniGroupID *uint64
}

// Resolve collapses a principal's role assignments into one effective
// UserScope. It keeps the most restrictive assignment (highest precedence
// rank); unknown scope tags are skipped. The second return is false when no
// usable assignment exists, which callers must treat as an authentication
// failure, not an authorization failure.
func Resolve(assignments []Assignment) (UserScope, bool) {
	var (
		best  Assignment
		found bool
	)

	for _, a := range assignments {
		if !a.Scope.Valid() {
			continue
		}

		if !found || a.Scope.Precedence() > best.Scope.Precedence() {
			best = a
			found = true
		}
	}

	if !found {
		return UserScope{}, false
	}

	return UserScope{
		Scope:         best.Scope,
		RegionID:      best.RegionID,
		UniversityID:  best.UniversityID,
		SmallGroupID:  best.SmallGroupID,
		AlumniGroupID: best.AlumniGroupID,
	}, true
}

// ID returns a pointer to v. Convenience for building filters and fixtures.
func ID(v uint64) *uint64 {
	return &v
}
