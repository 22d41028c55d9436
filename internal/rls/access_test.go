package rls

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAccess(t *testing.T) {
	testCases := []struct {
		name     string
		scope    UserScope
		resource Resource
		id       uint64
		expected bool
	}{
		{
			name:     "superadmin can access anything",
			scope:    UserScope{Scope: ScopeSuperAdmin},
			resource: ResourceSmallGroup,
			id:       42,
			expected: true,
		},
		{
			name:     "national can access anything",
			scope:    UserScope{Scope: ScopeNational},
			resource: ResourceRegion,
			id:       42,
			expected: true,
		},
		{
			name:     "region scope matches its own region",
			scope:    UserScope{Scope: ScopeRegion, RegionID: ID(1)},
			resource: ResourceRegion,
			id:       1,
			expected: true,
		},
		{
			name:     "region scope rejects other regions",
			scope:    UserScope{Scope: ScopeRegion, RegionID: ID(1)},
			resource: ResourceRegion,
			id:       2,
			expected: false,
		},
		{
			name:     "region scope reaches universities without lineage check",
			scope:    UserScope{Scope: ScopeRegion, RegionID: ID(1)},
			resource: ResourceUniversity,
			id:       99,
			expected: true,
		},
		{
			name:     "region scope reaches small groups without lineage check",
			scope:    UserScope{Scope: ScopeRegion, RegionID: ID(1)},
			resource: ResourceSmallGroup,
			id:       99,
			expected: true,
		},
		{
			name:     "region scope reaches alumni groups without lineage check",
			scope:    UserScope{Scope: ScopeRegion, RegionID: ID(1)},
			resource: ResourceAlumniGroup,
			id:       99,
			expected: true,
		},
		{
			name:     "malformed region scope reaches nothing",
			scope:    UserScope{Scope: ScopeRegion},
			resource: ResourceUniversity,
			id:       99,
			expected: false,
		},
		{
			name:     "university scope matches its own university",
			scope:    UserScope{Scope: ScopeUniversity, UniversityID: ID(7)},
			resource: ResourceUniversity,
			id:       7,
			expected: true,
		},
		{
			name:     "university scope rejects other universities",
			scope:    UserScope{Scope: ScopeUniversity, UniversityID: ID(7)},
			resource: ResourceUniversity,
			id:       8,
			expected: false,
		},
		{
			name:     "university scope reaches small groups without lineage check",
			scope:    UserScope{Scope: ScopeUniversity, UniversityID: ID(7)},
			resource: ResourceSmallGroup,
			id:       99,
			expected: true,
		},
		{
			name:     "university scope never reaches alumni groups",
			scope:    UserScope{Scope: ScopeUniversity, UniversityID: ID(7)},
			resource: ResourceAlumniGroup,
			id:       9,
			expected: false,
		},
		{
			name:     "university scope never reaches regions",
			scope:    UserScope{Scope: ScopeUniversity, UniversityID: ID(7), RegionID: ID(1)},
			resource: ResourceRegion,
			id:       1,
			expected: false,
		},
		{
			name:     "small group scope matches only its own group",
			scope:    UserScope{Scope: ScopeSmallGroup, SmallGroupID: ID(7)},
			resource: ResourceSmallGroup,
			id:       7,
			expected: true,
		},
		{
			name:     "small group scope rejects any other id",
			scope:    UserScope{Scope: ScopeSmallGroup, SmallGroupID: ID(7)},
			resource: ResourceSmallGroup,
			id:       8,
			expected: false,
		},
		{
			name:     "small group scope never reaches its university",
			scope:    UserScope{Scope: ScopeSmallGroup, SmallGroupID: ID(7), UniversityID: ID(2)},
			resource: ResourceUniversity,
			id:       2,
			expected: false,
		},
		{
			name:     "alumni scope matches only its own group",
			scope:    UserScope{Scope: ScopeAlumniSmallGroup, AlumniGroupID: ID(9)},
			resource: ResourceAlumniGroup,
			id:       9,
			expected: true,
		},
		{
			name:     "alumni scope rejects other alumni groups",
			scope:    UserScope{Scope: ScopeAlumniSmallGroup, AlumniGroupID: ID(9)},
			resource: ResourceAlumniGroup,
			id:       10,
			expected: false,
		},
		{
			name:     "alumni scope never reaches small groups",
			scope:    UserScope{Scope: ScopeAlumniSmallGroup, AlumniGroupID: ID(9)},
			resource: ResourceSmallGroup,
			id:       9,
			expected: false,
		},
		{
			name:     "unknown scope reaches nothing",
			scope:    UserScope{Scope: Scope("director")},
			resource: ResourceRegion,
			id:       1,
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CanAccess(tc.scope, tc.resource, tc.id))
		})
	}
}
