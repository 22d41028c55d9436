package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/rls"
)

// OrgKeys is the organizational ownership block embedded in write bodies.
// Field layout matches the core filter type so the conversion below is direct.
type OrgKeys struct {
	RegionID      *uint64 `json:"region_id"`
	UniversityID  *uint64 `json:"university_id"`
	SmallGroupID  *uint64 `json:"small_group_id"`
	AlumniGroupID *uint64 `json:"alumni_group_id"`
}

// Filter converts the body keys into a core filter.
func (k OrgKeys) Filter() rls.Filter {
	return rls.Filter(k)
}

// RequireUnrestricted guards administrative endpoints: only scopes with no
// organizational restriction at all (superadmin, national) may pass.
func RequireUnrestricted(c *fiber.Ctx) error {
	scope, ok := CurrentScope(c)
	if !ok {
		return rls.ErrUnauthenticated
	}

	if rls.Generate(scope).Decision != rls.Unrestricted {
		return rls.ErrForbidden
	}

	return nil
}

// ParamID parses the ":id" route parameter.
func ParamID(c *fiber.Ctx) (uint64, error) {
	return parseUint(c.Params("id"), "id")
}

// QueryFilter parses the optional organizational narrowing query parameters
// (?regionId=, ?universityId=, ?smallGroupId=, ?alumniGroupId=).
func QueryFilter(c *fiber.Ctx) (rls.Filter, error) {
	var (
		f   rls.Filter
		err error
	)

	if f.RegionID, err = queryID(c, "regionId"); err != nil {
		return rls.Filter{}, err
	}

	if f.UniversityID, err = queryID(c, "universityId"); err != nil {
		return rls.Filter{}, err
	}

	if f.SmallGroupID, err = queryID(c, "smallGroupId"); err != nil {
		return rls.Filter{}, err
	}

	if f.AlumniGroupID, err = queryID(c, "alumniGroupId"); err != nil {
		return rls.Filter{}, err
	}

	return f, nil
}

// ListConditions runs the list enforcement pipeline for one table: take the
// resolved scope from locals, specialize it for the table, and merge the
// client's query filter. The returned conditions are final; handlers apply
// them with Conditions.Scoped and nothing else.
func ListConditions(c *fiber.Ctx, table rls.Table) (rls.Conditions, error) {
	scope, ok := CurrentScope(c)
	if !ok {
		return rls.Conditions{}, rls.ErrUnauthenticated
	}

	filter, err := QueryFilter(c)
	if err != nil {
		return rls.Conditions{}, err
	}

	return rls.ForTable(scope, table).Narrow(filter)
}

// WriteKeys validates the organizational identifiers a create or update body
// carries against the resolved scope and returns the merged keys to store on
// the row. Scope-pinned dimensions fill anything the body omitted, so a small
// group leader's rows land in their own group without the client spelling the
// ancestry out.
func WriteKeys(scope rls.UserScope, f rls.Filter) (rls.Conditions, error) {
	if err := rls.ValidateWrite(scope, f); err != nil {
		return rls.Conditions{}, err
	}

	return rls.Generate(scope).Narrow(f)
}

func queryID(c *fiber.Ctx, name string) (*uint64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}

	v, err := parseUint(raw, name)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

func parseUint(raw, name string) (uint64, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%w: invalid %s", ErrBadRequest, name)
	}

	return v, nil
}
