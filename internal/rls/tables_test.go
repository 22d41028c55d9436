package rls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForTable(t *testing.T) {
	smallGroupScope := UserScope{
		Scope:        ScopeSmallGroup,
		RegionID:     ID(1),
		UniversityID: ID(7),
		SmallGroupID: ID(3),
	}

	alumniScope := UserScope{
		Scope:         ScopeAlumniSmallGroup,
		RegionID:      ID(1),
		AlumniGroupID: ID(9),
	}

	testCases := []struct {
		name             string
		scope            UserScope
		table            Table
		expectedDecision Decision
		expected         Conditions
	}{
		{
			name:             "member table keeps all keys",
			scope:            smallGroupScope,
			table:            TableMember,
			expectedDecision: Restricted,
			expected: Conditions{
				RegionID:     ID(1),
				UniversityID: ID(7),
				SmallGroupID: ID(3),
			},
		},
		{
			name:             "university table keeps region key only",
			scope:            smallGroupScope,
			table:            TableUniversity,
			expectedDecision: Restricted,
			expected:         Conditions{RegionID: ID(1)},
		},
		{
			name:             "smallgroup table keeps region and university keys",
			scope:            smallGroupScope,
			table:            TableSmallGroup,
			expectedDecision: Restricted,
			expected:         Conditions{RegionID: ID(1), UniversityID: ID(7)},
		},
		{
			name:             "alumni group table keeps region key only",
			scope:            alumniScope,
			table:            TableAlumniGroup,
			expectedDecision: Restricted,
			expected:         Conditions{RegionID: ID(1)},
		},
		{
			name:             "alumni scope on member table never leaks university key",
			scope:            alumniScope,
			table:            TableMember,
			expectedDecision: Restricted,
			expected:         Conditions{RegionID: ID(1), AlumniGroupID: ID(9)},
		},
		{
			name:             "region table self filter for region scope",
			scope:            UserScope{Scope: ScopeRegion, RegionID: ID(4)},
			table:            TableRegion,
			expectedDecision: Restricted,
			expected:         Conditions{SelfID: ID(4)},
		},
		{
			name:             "region table unrestricted for other scopes",
			scope:            smallGroupScope,
			table:            TableRegion,
			expectedDecision: Unrestricted,
		},
		{
			name:             "region table unrestricted for superadmin",
			scope:            UserScope{Scope: ScopeSuperAdmin},
			table:            TableRegion,
			expectedDecision: Unrestricted,
		},
		{
			name:             "superadmin unrestricted everywhere",
			scope:            UserScope{Scope: ScopeSuperAdmin},
			table:            TableBudget,
			expectedDecision: Unrestricted,
		},
		{
			name:             "malformed scope stays denied through the adapter",
			scope:            UserScope{Scope: ScopeRegion},
			table:            TableMember,
			expectedDecision: Denied,
		},
		{
			name:             "malformed scope denied for the region table too",
			scope:            UserScope{Scope: ScopeRegion},
			table:            TableRegion,
			expectedDecision: Denied,
		},
		{
			name:             "unknown table is denied",
			scope:            smallGroupScope,
			table:            Table("payments"),
			expectedDecision: Denied,
		},
		{
			name: "projection stripping every key is denied not unrestricted",
			scope: UserScope{
				Scope:        ScopeSmallGroup,
				SmallGroupID: ID(3), // no ancestor IDs on the assignment
			},
			table:            TableAlumniGroup,
			expectedDecision: Denied,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := ForTable(tc.scope, tc.table)

			require.Equal(t, tc.expectedDecision, result.Decision)

			if tc.expectedDecision == Restricted {
				assertConditionsEqual(t, tc.expected, result.Conditions)
			}
		})
	}
}

// TestForTableNeverEmitsDisallowedKeys checks that whatever the upstream
// generator produced, the adapter output stays inside the table's allowed
// key set.
func TestForTableNeverEmitsDisallowedKeys(t *testing.T) {
	scopes := []UserScope{
		{Scope: ScopeRegion, RegionID: ID(1)},
		{Scope: ScopeUniversity, RegionID: ID(1), UniversityID: ID(7)},
		{Scope: ScopeSmallGroup, RegionID: ID(1), UniversityID: ID(7), SmallGroupID: ID(3)},
		{Scope: ScopeAlumniSmallGroup, RegionID: ID(1), AlumniGroupID: ID(9)},
	}

	for table, keys := range allowedKeys {
		for _, scope := range scopes {
			result := ForTable(scope, table)
			if result.Decision != Restricted {
				continue
			}

			c := result.Conditions

			assert.Nil(t, c.SelfID, "%s: self id is region table only", table)

			if !keys.region {
				assert.Nil(t, c.RegionID, "%s must not filter by region", table)
			}

			if !keys.university {
				assert.Nil(t, c.UniversityID, "%s must not filter by university", table)
			}

			if !keys.smallGroup {
				assert.Nil(t, c.SmallGroupID, "%s must not filter by small group", table)
			}

			if !keys.alumniGroup {
				assert.Nil(t, c.AlumniGroupID, "%s must not filter by alumni group", table)
			}
		}
	}
}
