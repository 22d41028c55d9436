package rls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	testCases := []struct {
		name          string
		assignments   []Assignment
		expectedOK    bool
		expectedScope Scope
	}{
		{
			name:        "no assignments",
			assignments: nil,
			expectedOK:  false,
		},
		{
			name:        "empty slice",
			assignments: []Assignment{},
			expectedOK:  false,
		},
		{
			name: "single region assignment",
			assignments: []Assignment{
				{Scope: ScopeRegion, RegionID: ID(1)},
			},
			expectedOK:    true,
			expectedScope: ScopeRegion,
		},
		{
			name: "most restrictive wins over superadmin",
			assignments: []Assignment{
				{Scope: ScopeSuperAdmin},
				{Scope: ScopeSmallGroup, SmallGroupID: ID(3)},
			},
			expectedOK:    true,
			expectedScope: ScopeSmallGroup,
		},
		{
			name: "most restrictive wins regardless of order",
			assignments: []Assignment{
				{Scope: ScopeSmallGroup, SmallGroupID: ID(3)},
				{Scope: ScopeSuperAdmin},
			},
			expectedOK:    true,
			expectedScope: ScopeSmallGroup,
		},
		{
			name: "alumni group beats region",
			assignments: []Assignment{
				{Scope: ScopeRegion, RegionID: ID(1)},
				{Scope: ScopeAlumniSmallGroup, RegionID: ID(1), AlumniGroupID: ID(9)},
			},
			expectedOK:    true,
			expectedScope: ScopeAlumniSmallGroup,
		},
		{
			name: "unknown scope tags are skipped",
			assignments: []Assignment{
				{Scope: Scope("director")},
				{Scope: ScopeNational},
			},
			expectedOK:    true,
			expectedScope: ScopeNational,
		},
		{
			name: "only unknown scope tags",
			assignments: []Assignment{
				{Scope: Scope("director")},
			},
			expectedOK: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			scope, ok := Resolve(tc.assignments)

			require.Equal(t, tc.expectedOK, ok)

			if tc.expectedOK {
				assert.Equal(t, tc.expectedScope, scope.Scope)
			}
		})
	}
}

func TestResolveKeepsIdentifiers(t *testing.T) {
	scope, ok := Resolve([]Assignment{
		{Scope: ScopeSuperAdmin},
		{
			Scope:        ScopeSmallGroup,
			RegionID:     ID(1),
			UniversityID: ID(2),
			SmallGroupID: ID(3),
		},
	})

	require.True(t, ok)
	assert.Equal(t, ScopeSmallGroup, scope.Scope)
	require.NotNil(t, scope.SmallGroupID)
	assert.Equal(t, uint64(3), *scope.SmallGroupID)
	require.NotNil(t, scope.UniversityID)
	assert.Equal(t, uint64(2), *scope.UniversityID)
	require.NotNil(t, scope.RegionID)
	assert.Equal(t, uint64(1), *scope.RegionID)
	assert.Nil(t, scope.AlumniGroupID)
}

func TestScopePrecedence(t *testing.T) {
	// The full ordering is part of the contract: broad to narrow.
	ordered := []Scope{
		ScopeSuperAdmin,
		ScopeNational,
		ScopeRegion,
		ScopeUniversity,
		ScopeSmallGroup,
		ScopeAlumniSmallGroup,
	}

	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, ordered[i].Precedence(), ordered[i-1].Precedence(),
			"%s must rank more restrictive than %s", ordered[i], ordered[i-1])
	}

	assert.Equal(t, 0, Scope("director").Precedence())
	assert.False(t, Scope("").Valid())
}
