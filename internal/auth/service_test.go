package auth

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/db/models"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/rls"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{}, &models.RoleAssignment{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()

	user := models.User{
		Active:   true,
		Username: "staff",
		Email:    "staff@example.org",
	}
	require.NoError(t, db.Create(&user).Error)

	return user
}

func TestAssignments(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	user := seedUser(t, db)

	// No assignments yet: empty, not an error.
	assignments, err := service.Assignments(user.ID)
	require.NoError(t, err)
	assert.Empty(t, assignments)

	require.NoError(t, service.Grant(&models.RoleAssignment{
		UserID:   user.ID,
		Scope:    rls.ScopeRegion,
		RegionID: rls.ID(4),
	}))

	assignments, err = service.Assignments(user.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, rls.ScopeRegion, assignments[0].Scope)
	require.NotNil(t, assignments[0].RegionID)
	assert.Equal(t, uint64(4), *assignments[0].RegionID)
}

func TestGrantRejectsUnknownScope(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	user := seedUser(t, db)

	err := service.Grant(&models.RoleAssignment{
		UserID: user.ID,
		Scope:  rls.Scope("director"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidScopeClaim)
}

func TestRevoke(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	user := seedUser(t, db)

	assignment := models.RoleAssignment{
		UserID:       user.ID,
		Scope:        rls.ScopeSmallGroup,
		SmallGroupID: rls.ID(3),
	}
	require.NoError(t, service.Grant(&assignment))

	require.NoError(t, service.Revoke(assignment.ID))

	err := service.Revoke(assignment.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSyncAssignments(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	user := seedUser(t, db)

	// A locally granted assignment must survive OIDC syncs.
	require.NoError(t, service.Grant(&models.RoleAssignment{
		UserID:   user.ID,
		Scope:    rls.ScopeRegion,
		RegionID: rls.ID(1),
		Source:   models.RoleAssignmentSourceLocal,
	}))

	require.NoError(t, service.SyncAssignments(user.ID, []string{
		"smallgroup:3",
		"bogus-group",      // unparseable, skipped
		"region",           // missing id, skipped
		"smallgroup:zero",  // bad id, skipped
		"superadmin:1",     // unrestricted scope with id, skipped
	}))

	rows, err := service.ListRoleAssignments(user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Re-sync with different claims replaces only the OIDC-sourced rows.
	require.NoError(t, service.SyncAssignments(user.ID, []string{"national"}))

	rows, err = service.ListRoleAssignments(user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	var scopes []rls.Scope
	for _, row := range rows {
		scopes = append(scopes, row.Scope)
	}

	assert.Contains(t, scopes, rls.ScopeRegion)
	assert.Contains(t, scopes, rls.ScopeNational)
	assert.NotContains(t, scopes, rls.ScopeSmallGroup)
}

func TestParseScopeClaim(t *testing.T) {
	testCases := []struct {
		name          string
		claim         string
		expectedError error
		check         func(t *testing.T, a models.RoleAssignment)
	}{
		{
			name:  "national without id",
			claim: "national",
			check: func(t *testing.T, a models.RoleAssignment) {
				t.Helper()
				assert.Equal(t, rls.ScopeNational, a.Scope)
			},
		},
		{
			name:  "region with id",
			claim: "region:4",
			check: func(t *testing.T, a models.RoleAssignment) {
				t.Helper()
				assert.Equal(t, rls.ScopeRegion, a.Scope)
				require.NotNil(t, a.RegionID)
				assert.Equal(t, uint64(4), *a.RegionID)
			},
		},
		{
			name:  "alumni group with id",
			claim: "alumnismallgroup:9",
			check: func(t *testing.T, a models.RoleAssignment) {
				t.Helper()
				assert.Equal(t, rls.ScopeAlumniSmallGroup, a.Scope)
				require.NotNil(t, a.AlumniGroupID)
				assert.Equal(t, uint64(9), *a.AlumniGroupID)
			},
		},
		{
			name:          "unknown scope",
			claim:         "director:1",
			expectedError: ErrInvalidScopeClaim,
		},
		{
			name:          "scoped claim missing id",
			claim:         "university",
			expectedError: ErrInvalidScopeClaim,
		},
		{
			name:          "zero id",
			claim:         "university:0",
			expectedError: ErrInvalidScopeClaim,
		},
		{
			name:          "superadmin must not carry an id",
			claim:         "superadmin:7",
			expectedError: ErrInvalidScopeClaim,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assignment, err := ParseScopeClaim(tc.claim)

			if tc.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.expectedError)

				return
			}

			require.NoError(t, err)
			tc.check(t, assignment)
		})
	}
}
