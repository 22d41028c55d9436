package rls

// Resource identifies the owning dimension of a single entity for point
// access checks.
type Resource string

const (
	// ResourceRegion checks access against a region ID.
	ResourceRegion Resource = "region"
	// ResourceUniversity checks access against a university ID.
	ResourceUniversity Resource = "university"
	// ResourceSmallGroup checks access against a small group ID.
	ResourceSmallGroup Resource = "smallgroup"
	// ResourceAlumniGroup checks access against an alumni small group ID.
	ResourceAlumniGroup Resource = "alumnismallgroup"
)

// CanAccess answers whether the resolved scope may touch a single resource,
// identified by its owning dimension and ID. It is used for point reads and
// writes where the entity is already loaded; list queries go through
// ForTable instead.
//
// Descendant access is granted on presence, not lineage: a region scope with
// any region ID may touch every university, small group and alumni group
// check, without verifying that the descendant actually belongs to that
// region (and likewise university scope over small groups). This mirrors the
// upstream behavior and is kept deliberately; list queries still filter by
// the real foreign keys, so the looseness is confined to point checks.
func CanAccess(scope UserScope, resource Resource, id uint64) bool {
	switch scope.Scope {
	case ScopeSuperAdmin, ScopeNational:
		return true

	case ScopeRegion:
		if scope.RegionID == nil {
			return false
		}

		switch resource {
		case ResourceRegion:
			return *scope.RegionID == id
		case ResourceUniversity, ResourceSmallGroup, ResourceAlumniGroup:
			return true
		}

	case ScopeUniversity:
		switch resource {
		case ResourceUniversity:
			return scope.UniversityID != nil && *scope.UniversityID == id
		case ResourceSmallGroup:
			return scope.UniversityID != nil
		}

	case ScopeSmallGroup:
		if resource == ResourceSmallGroup {
			return scope.SmallGroupID != nil && *scope.SmallGroupID == id
		}

	case ScopeAlumniSmallGroup:
		if resource == ResourceAlumniGroup {
			return scope.AlumniGroupID != nil && *scope.AlumniGroupID == id
		}
	}

	return false
}
