package rls

import "fmt"

// Filter carries explicit client-supplied organizational identifiers, from
// query parameters on list requests or from request bodies on writes. A nil
// field means the client did not ask for that dimension.
type Filter struct {
	RegionID      *uint64
	UniversityID  *uint64
	SmallGroupID  *uint64
	AlumniGroupID *uint64
}

// Narrow merges a client filter into a resolved result, producing the final
// query conditions. For every dimension:
//
//   - If the resolved conditions pin the dimension and the client asks for a
//     different value, the request is rejected with ErrForbidden. A
//     region-scoped user asking for another region must get an error, never a
//     silent substitution.
//   - If the resolved conditions pin the dimension, the pinned value is used.
//   - Otherwise the client value is taken as-is: a superadmin, whose resolved
//     conditions are empty, may narrow voluntarily.
//
// A Denied result rejects everything with ErrMalformedScope.
func (r Result) Narrow(f Filter) (Conditions, error) {
	if r.Decision == Denied {
		return Conditions{}, ErrMalformedScope
	}

	out := Conditions{SelfID: r.Conditions.SelfID}

	var err error

	if out.RegionID, err = mergeKey(r.Conditions.RegionID, f.RegionID, "region"); err != nil {
		return Conditions{}, err
	}

	if out.UniversityID, err = mergeKey(r.Conditions.UniversityID, f.UniversityID, "university"); err != nil {
		return Conditions{}, err
	}

	if out.SmallGroupID, err = mergeKey(r.Conditions.SmallGroupID, f.SmallGroupID, "small group"); err != nil {
		return Conditions{}, err
	}

	if out.AlumniGroupID, err = mergeKey(r.Conditions.AlumniGroupID, f.AlumniGroupID, "alumni group"); err != nil {
		return Conditions{}, err
	}

	return out, nil
}

func mergeKey(resolved, requested *uint64, dimension string) (*uint64, error) {
	if resolved == nil {
		return requested, nil
	}

	if requested != nil && *requested != *resolved {
		return nil, fmt.Errorf("%w to requested %s", ErrForbidden, dimension)
	}

	return resolved, nil
}

// ValidateWrite checks that every organizational identifier a create or
// update request carries sits inside the resolved scope. It applies the same
// per-dimension comparison as Narrow and additionally forbids cross-branch
// combinations: university and small group scopes may not target an alumni
// group (a sibling branch, not a descendant), and an alumni group scope may
// not target the campus branch.
func ValidateWrite(scope UserScope, f Filter) error {
	switch scope.Scope {
	case ScopeUniversity, ScopeSmallGroup:
		if f.AlumniGroupID != nil {
			return fmt.Errorf("%w to alumni group from a campus scope", ErrForbidden)
		}
	case ScopeAlumniSmallGroup:
		if f.UniversityID != nil || f.SmallGroupID != nil {
			return fmt.Errorf("%w to campus branch from an alumni scope", ErrForbidden)
		}
	}

	_, err := Generate(scope).Narrow(f)

	return err
}
