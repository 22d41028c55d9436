package rls

// Table identifies a target table for condition specialization. Values match
// the gorm table names so handlers can pass model TableName() results.
type Table string

const (
	// TableMember is the members table (all four organizational keys).
	TableMember Table = "members"
	// TableTraining is the trainings table (all four organizational keys).
	TableTraining Table = "trainings"
	// TableEvent is the permanent ministry events table (all four organizational keys).
	TableEvent Table = "permanentministryevents"
	// TableBudget is the budgets table (all four organizational keys).
	TableBudget Table = "budgets"
	// TableDocument is the documents table (all four organizational keys).
	TableDocument Table = "documents"
	// TableDesignation is the contribution designations table (all four organizational keys).
	TableDesignation Table = "contributiondesignations"
	// TableUniversity is the universities table (region key only).
	TableUniversity Table = "universities"
	// TableSmallGroup is the smallgroups table (region and university keys).
	TableSmallGroup Table = "smallgroups"
	// TableAlumniGroup is the alumni smallgroups table (region key only).
	TableAlumniGroup Table = "alumnismallgroups"
	// TableRegion is the regions table (self-identity filter, see ForTable).
	TableRegion Table = "regions"
)

// tableKeys describes which organizational foreign keys a table actually has.
// Emitting a condition on a column a table lacks either breaks the query or
// gets silently ignored; both are bugs, so the projection is mandatory.
type tableKeys struct {
	region      bool
	university  bool
	smallGroup  bool
	alumniGroup bool
}

var allowedKeys = map[Table]tableKeys{ //nolint:gochecknoglobals
	TableMember:      {region: true, university: true, smallGroup: true, alumniGroup: true},
	TableTraining:    {region: true, university: true, smallGroup: true, alumniGroup: true},
	TableEvent:       {region: true, university: true, smallGroup: true, alumniGroup: true},
	TableBudget:      {region: true, university: true, smallGroup: true, alumniGroup: true},
	TableDocument:    {region: true, university: true, smallGroup: true, alumniGroup: true},
	TableDesignation: {region: true, university: true, smallGroup: true, alumniGroup: true},
	TableUniversity:  {region: true},
	TableSmallGroup:  {region: true, university: true},
	TableAlumniGroup: {region: true},
}

// ForTable specializes the base conditions for one target table, keeping only
// the foreign keys that table has.
//
// The regions table is special: it has no organizational foreign keys at all,
// so a region scope filters on the row's own primary key. All other scopes
// see regions unrestricted (broad scopes legitimately so; narrower scopes
// still need their region row for display, matching the upstream behavior).
// A Denied base decision always stays Denied.
func ForTable(scope UserScope, table Table) Result {
	base := Generate(scope)
	if base.Decision == Denied {
		return base
	}

	if table == TableRegion {
		if scope.Scope == ScopeRegion {
			return Result{
				Decision:   Restricted,
				Conditions: Conditions{SelfID: scope.RegionID},
			}
		}

		return Result{Decision: Unrestricted}
	}

	if base.Decision == Unrestricted {
		return base
	}

	keys, ok := allowedKeys[table]
	if !ok {
		// Unknown table: grant nothing rather than an unfiltered query.
		return Result{Decision: Denied}
	}

	out := Conditions{}

	if keys.region {
		out.RegionID = base.Conditions.RegionID
	}

	if keys.university {
		out.UniversityID = base.Conditions.UniversityID
	}

	if keys.smallGroup {
		out.SmallGroupID = base.Conditions.SmallGroupID
	}

	if keys.alumniGroup {
		out.AlumniGroupID = base.Conditions.AlumniGroupID
	}

	// Projection can strip every key a Restricted scope had (a small group
	// scope without ancestor IDs querying alumni groups). An empty predicate
	// here must not widen into full access, so it becomes Denied.
	if out.Empty() {
		return Result{Decision: Denied}
	}

	return Result{Decision: Restricted, Conditions: out}
}
