package rls

import "gorm.io/gorm"

// Decision classifies what a generated predicate means. Empty conditions on
// their own are ambiguous (superadmin and a malformed assignment would both
// produce them), so every generator returns the decision explicitly.
type Decision int

const (
	// Unrestricted means no filtering: superadmin and national scopes.
	Unrestricted Decision = iota
	// Restricted means the attached Conditions must be applied to the query.
	Restricted
	// Denied means the scope grants no access at all (malformed assignment).
	// Callers must reject the request; Denied never reaches a query.
	Denied
)

// String implements fmt.Stringer.
func (d Decision) String() string {
	switch d {
	case Unrestricted:
		return "unrestricted"
	case Restricted:
		return "restricted"
	case Denied:
		return "denied"
	default:
		return "unknown"
	}
}

// Conditions is a sparse equality predicate over the organizational foreign
// keys. A nil field means no restriction on that dimension. SelfID is used
// only by the region table adapter, where the filter targets the row's own
// primary key instead of a foreign key.
type Conditions struct {
	SelfID        *uint64
	RegionID      *uint64
	UniversityID  *uint64
	SmallGroupID  *uint64
	AlumniGroupID *uint64
}

// Empty reports whether the conditions carry no restriction at all.
func (c Conditions) Empty() bool {
	return c.SelfID == nil && c.RegionID == nil && c.UniversityID == nil &&
		c.SmallGroupID == nil && c.AlumniGroupID == nil
}

// Scoped applies the conditions to a gorm query as WHERE clauses. Column
// names follow the shared model conventions (region_id, university_id,
// small_group_id, alumni_group_id).
func (c Conditions) Scoped(tx *gorm.DB) *gorm.DB {
	if c.SelfID != nil {
		tx = tx.Where("id = ?", *c.SelfID)
	}

	if c.RegionID != nil {
		tx = tx.Where("region_id = ?", *c.RegionID)
	}

	if c.UniversityID != nil {
		tx = tx.Where("university_id = ?", *c.UniversityID)
	}

	if c.SmallGroupID != nil {
		tx = tx.Where("small_group_id = ?", *c.SmallGroupID)
	}

	if c.AlumniGroupID != nil {
		tx = tx.Where("alumni_group_id = ?", *c.AlumniGroupID)
	}

	return tx
}

// MatchesRow reports whether a row with the given organizational keys
// satisfies the predicate. It mirrors the WHERE clauses Scoped emits, so a
// point check on a loaded row and a filtered list query always agree.
func (c Conditions) MatchesRow(rowID, regionID uint64, universityID, smallGroupID, alumniGroupID *uint64) bool {
	if c.SelfID != nil && *c.SelfID != rowID {
		return false
	}

	if c.RegionID != nil && *c.RegionID != regionID {
		return false
	}

	if c.UniversityID != nil && (universityID == nil || *universityID != *c.UniversityID) {
		return false
	}

	if c.SmallGroupID != nil && (smallGroupID == nil || *smallGroupID != *c.SmallGroupID) {
		return false
	}

	if c.AlumniGroupID != nil && (alumniGroupID == nil || *alumniGroupID != *c.AlumniGroupID) {
		return false
	}

	return true
}

// Result is a decision plus the conditions that apply when the decision is
// Restricted. Conditions are meaningless for Unrestricted and Denied.
type Result struct {
	Decision   Decision
	Conditions Conditions
}

// AllowsRow applies the decision to one already loaded row. Handlers use it
// for point reads and writes after the 404 lookup; list queries apply the
// same conditions through Scoped instead.
func (r Result) AllowsRow(rowID, regionID uint64, universityID, smallGroupID, alumniGroupID *uint64) bool {
	switch r.Decision {
	case Unrestricted:
		return true
	case Denied:
		return false
	case Restricted:
	}

	return r.Conditions.MatchesRow(rowID, regionID, universityID, smallGroupID, alumniGroupID)
}

// Generate maps a resolved UserScope into the base filter predicate. It is an
// ordered decision list; the first matching rule wins:
//
//  1. superadmin and national scopes are unrestricted.
//  2. A region scope filters by its region.
//  3. A university scope filters by its university (the region key is carried
//     along when present; it is redundant but cheap and aids debugging).
//  4. A small group scope filters by its group, carrying ancestors when present.
//  5. An alumni small group scope filters by its group, carrying the region.
//  6. Anything else is a scope tag without its defining identifier: Denied.
//
// Conditions only ever reference identifiers present on the scope itself.
func Generate(scope UserScope) Result {
	switch scope.Scope {
	case ScopeSuperAdmin, ScopeNational:
		return Result{Decision: Unrestricted}

	case ScopeRegion:
		if scope.RegionID != nil {
			return Result{
				Decision:   Restricted,
				Conditions: Conditions{RegionID: scope.RegionID},
			}
		}

	case ScopeUniversity:
		if scope.UniversityID != nil {
			return Result{
				Decision: Restricted,
				Conditions: Conditions{
					RegionID:     scope.RegionID,
					UniversityID: scope.UniversityID,
				},
			}
		}

	case ScopeSmallGroup:
		if scope.SmallGroupID != nil {
			return Result{
				Decision: Restricted,
				Conditions: Conditions{
					RegionID:     scope.RegionID,
					UniversityID: scope.UniversityID,
					SmallGroupID: scope.SmallGroupID,
				},
			}
		}

	case ScopeAlumniSmallGroup:
		if scope.AlumniGroupID != nil {
			return Result{
				Decision: Restricted,
				Conditions: Conditions{
					RegionID:      scope.RegionID,
					AlumniGroupID: scope.AlumniGroupID,
				},
			}
		}
	}

	return Result{Decision: Denied}
}
