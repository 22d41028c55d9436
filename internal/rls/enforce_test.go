package rls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNarrow(t *testing.T) {
	regionScope := UserScope{Scope: ScopeRegion, RegionID: ID(1)}

	testCases := []struct {
		name          string
		result        Result
		filter        Filter
		expectedError error
		expected      Conditions
	}{
		{
			name:     "no client filter keeps resolved conditions",
			result:   Generate(regionScope),
			filter:   Filter{},
			expected: Conditions{RegionID: ID(1)},
		},
		{
			name:     "matching client filter is a no-op",
			result:   Generate(regionScope),
			filter:   Filter{RegionID: ID(1)},
			expected: Conditions{RegionID: ID(1)},
		},
		{
			name:          "widening beyond the resolved region is forbidden",
			result:        Generate(regionScope),
			filter:        Filter{RegionID: ID(2)},
			expectedError: ErrForbidden,
		},
		{
			name:     "region scope may narrow on an open dimension",
			result:   Generate(regionScope),
			filter:   Filter{UniversityID: ID(7)},
			expected: Conditions{RegionID: ID(1), UniversityID: ID(7)},
		},
		{
			name:     "superadmin narrows voluntarily",
			result:   Generate(UserScope{Scope: ScopeSuperAdmin}),
			filter:   Filter{RegionID: ID(5)},
			expected: Conditions{RegionID: ID(5)},
		},
		{
			name:     "superadmin with no filter stays unrestricted",
			result:   Generate(UserScope{Scope: ScopeSuperAdmin}),
			filter:   Filter{},
			expected: Conditions{},
		},
		{
			name: "small group scope rejects a foreign group",
			result: Generate(UserScope{
				Scope:        ScopeSmallGroup,
				RegionID:     ID(1),
				UniversityID: ID(7),
				SmallGroupID: ID(3),
			}),
			filter:        Filter{SmallGroupID: ID(4)},
			expectedError: ErrForbidden,
		},
		{
			name:          "denied result rejects everything",
			result:        Generate(UserScope{Scope: ScopeRegion}), // malformed
			filter:        Filter{},
			expectedError: ErrMalformedScope,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conditions, err := tc.result.Narrow(tc.filter)

			if tc.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.expectedError)

				return
			}

			require.NoError(t, err)
			assertConditionsEqual(t, tc.expected, conditions)
		})
	}
}

func TestNarrowKeepsRegionSelfFilter(t *testing.T) {
	result := ForTable(UserScope{Scope: ScopeRegion, RegionID: ID(4)}, TableRegion)

	conditions, err := result.Narrow(Filter{})
	require.NoError(t, err)
	require.NotNil(t, conditions.SelfID)
	assert.Equal(t, uint64(4), *conditions.SelfID)
}

func TestValidateWrite(t *testing.T) {
	testCases := []struct {
		name          string
		scope         UserScope
		filter        Filter
		expectedError error
	}{
		{
			name:   "superadmin may write anywhere",
			scope:  UserScope{Scope: ScopeSuperAdmin},
			filter: Filter{RegionID: ID(5), AlumniGroupID: ID(9)},
		},
		{
			name:   "region scope may write inside its region",
			scope:  UserScope{Scope: ScopeRegion, RegionID: ID(1)},
			filter: Filter{RegionID: ID(1), UniversityID: ID(7)},
		},
		{
			name:          "region scope may not write into another region",
			scope:         UserScope{Scope: ScopeRegion, RegionID: ID(1)},
			filter:        Filter{RegionID: ID(2)},
			expectedError: ErrForbidden,
		},
		{
			name: "university scope may not target an alumni group",
			scope: UserScope{
				Scope:        ScopeUniversity,
				RegionID:     ID(1),
				UniversityID: ID(7),
			},
			filter:        Filter{UniversityID: ID(7), AlumniGroupID: ID(9)},
			expectedError: ErrForbidden,
		},
		{
			name: "small group scope may not target an alumni group",
			scope: UserScope{
				Scope:        ScopeSmallGroup,
				SmallGroupID: ID(3),
			},
			filter:        Filter{AlumniGroupID: ID(9)},
			expectedError: ErrForbidden,
		},
		{
			name: "alumni scope may not target the campus branch",
			scope: UserScope{
				Scope:         ScopeAlumniSmallGroup,
				RegionID:      ID(1),
				AlumniGroupID: ID(9),
			},
			filter:        Filter{SmallGroupID: ID(3)},
			expectedError: ErrForbidden,
		},
		{
			name: "alumni scope may write inside its own group",
			scope: UserScope{
				Scope:         ScopeAlumniSmallGroup,
				RegionID:      ID(1),
				AlumniGroupID: ID(9),
			},
			filter: Filter{RegionID: ID(1), AlumniGroupID: ID(9)},
		},
		{
			name:          "malformed scope may not write at all",
			scope:         UserScope{Scope: ScopeRegion},
			filter:        Filter{},
			expectedError: ErrMalformedScope,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateWrite(tc.scope, tc.filter)

			if tc.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.expectedError)

				return
			}

			require.NoError(t, err)
		})
	}
}
