package rls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	testCases := []struct {
		name             string
		scope            UserScope
		expectedDecision Decision
		expected         Conditions
	}{
		{
			name:             "superadmin is unrestricted",
			scope:            UserScope{Scope: ScopeSuperAdmin},
			expectedDecision: Unrestricted,
		},
		{
			name:             "national is unrestricted",
			scope:            UserScope{Scope: ScopeNational},
			expectedDecision: Unrestricted,
		},
		{
			name:             "region scope filters by exactly its region",
			scope:            UserScope{Scope: ScopeRegion, RegionID: ID(4)},
			expectedDecision: Restricted,
			expected:         Conditions{RegionID: ID(4)},
		},
		{
			name: "university scope carries redundant region key",
			scope: UserScope{
				Scope:        ScopeUniversity,
				RegionID:     ID(1),
				UniversityID: ID(7),
			},
			expectedDecision: Restricted,
			expected:         Conditions{RegionID: ID(1), UniversityID: ID(7)},
		},
		{
			name:             "university scope without region still restricted",
			scope:            UserScope{Scope: ScopeUniversity, UniversityID: ID(7)},
			expectedDecision: Restricted,
			expected:         Conditions{UniversityID: ID(7)},
		},
		{
			name: "small group scope carries ancestors when present",
			scope: UserScope{
				Scope:        ScopeSmallGroup,
				RegionID:     ID(1),
				UniversityID: ID(7),
				SmallGroupID: ID(3),
			},
			expectedDecision: Restricted,
			expected: Conditions{
				RegionID:     ID(1),
				UniversityID: ID(7),
				SmallGroupID: ID(3),
			},
		},
		{
			name: "alumni group scope carries region but never university",
			scope: UserScope{
				Scope:         ScopeAlumniSmallGroup,
				RegionID:      ID(1),
				AlumniGroupID: ID(9),
			},
			expectedDecision: Restricted,
			expected:         Conditions{RegionID: ID(1), AlumniGroupID: ID(9)},
		},
		{
			name:             "region scope without region id is denied, not unrestricted",
			scope:            UserScope{Scope: ScopeRegion},
			expectedDecision: Denied,
		},
		{
			name:             "university scope without university id is denied",
			scope:            UserScope{Scope: ScopeUniversity, RegionID: ID(1)},
			expectedDecision: Denied,
		},
		{
			name:             "small group scope without group id is denied",
			scope:            UserScope{Scope: ScopeSmallGroup, UniversityID: ID(7)},
			expectedDecision: Denied,
		},
		{
			name:             "alumni scope without group id is denied",
			scope:            UserScope{Scope: ScopeAlumniSmallGroup, RegionID: ID(1)},
			expectedDecision: Denied,
		},
		{
			name:             "unknown scope tag is denied",
			scope:            UserScope{Scope: Scope("director")},
			expectedDecision: Denied,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Generate(tc.scope)

			require.Equal(t, tc.expectedDecision, result.Decision)

			if tc.expectedDecision == Restricted {
				assertConditionsEqual(t, tc.expected, result.Conditions)
			} else {
				// Unrestricted and Denied must not smuggle conditions along.
				assert.True(t, result.Conditions.Empty())
			}
		})
	}
}

// TestGenerateDeniedIsDistinguishable pins the tri-state contract: a
// malformed assignment and a superadmin both yield empty conditions, but
// their decisions differ and downstream code keys off the decision.
func TestGenerateDeniedIsDistinguishable(t *testing.T) {
	super := Generate(UserScope{Scope: ScopeSuperAdmin})
	malformed := Generate(UserScope{Scope: ScopeRegion}) // region id missing

	assert.True(t, super.Conditions.Empty())
	assert.True(t, malformed.Conditions.Empty())
	assert.NotEqual(t, super.Decision, malformed.Decision)
	assert.Equal(t, Denied, malformed.Decision)
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "unrestricted", Unrestricted.String())
	assert.Equal(t, "restricted", Restricted.String())
	assert.Equal(t, "denied", Denied.String())
	assert.Equal(t, "unknown", Decision(42).String())
}

func assertConditionsEqual(t *testing.T, expected, actual Conditions) {
	t.Helper()

	assertKeyEqual(t, "SelfID", expected.SelfID, actual.SelfID)
	assertKeyEqual(t, "RegionID", expected.RegionID, actual.RegionID)
	assertKeyEqual(t, "UniversityID", expected.UniversityID, actual.UniversityID)
	assertKeyEqual(t, "SmallGroupID", expected.SmallGroupID, actual.SmallGroupID)
	assertKeyEqual(t, "AlumniGroupID", expected.AlumniGroupID, actual.AlumniGroupID)
}

func assertKeyEqual(t *testing.T, key string, expected, actual *uint64) {
	t.Helper()

	if expected == nil {
		assert.Nil(t, actual, "%s should be absent", key)
		return
	}

	require.NotNil(t, actual, "%s should be present", key)
	assert.Equal(t, *expected, *actual, "%s mismatch", key)
}
