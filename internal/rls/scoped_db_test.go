package rls_test

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

	err = db.AutoMigrate(
		&models.Region{},
		&models.University{},
		&models.SmallGroup{},
		&models.AlumniSmallGroup{},
		&models.Member{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedHierarchy creates two regions, each with a university, a small group
// and an alumni group, and a member in every leaf.
func seedHierarchy(t *testing.T, db *gorm.DB) {
	t.Helper()

	for _, r := range []uint64{1, 2} {
		require.NoError(t, db.Create(&models.Region{ID: r, Name: regionName(r)}).Error)
		require.NoError(t, db.Create(&models.University{
			ID: r, Name: regionName(r) + " State", RegionID: r,
		}).Error)
		require.NoError(t, db.Create(&models.SmallGroup{
			ID: r, Name: regionName(r) + " Core", RegionID: r, UniversityID: r,
		}).Error)
		require.NoError(t, db.Create(&models.AlumniSmallGroup{
			ID: r, Name: regionName(r) + " Alumni", RegionID: r,
		}).Error)

		require.NoError(t, db.Create(&models.Member{
			FirstName: "Student", LastName: regionName(r),
			RegionID: r, UniversityID: rls.ID(r), SmallGroupID: rls.ID(r),
		}).Error)
		require.NoError(t, db.Create(&models.Member{
			FirstName: "Alum", LastName: regionName(r),
			Status: models.MemberStatusAlumni, RegionID: r, AlumniGroupID: rls.ID(r),
		}).Error)
	}
}

func regionName(r uint64) string {
	if r == 1 {
		return "North"
	}

	return "South"
}

// TestScopedListMatchesPointChecks verifies the bulk filter and the point
// access checks agree: no row returned by a scoped list query is rejected by
// CanAccess on the same dimension.
func TestScopedListMatchesPointChecks(t *testing.T) {
	db := setupTestDB(t)
	seedHierarchy(t, db)

	testCases := []struct {
		name  string
		scope rls.UserScope
	}{
		{
			name:  "region scope",
			scope: rls.UserScope{Scope: rls.ScopeRegion, RegionID: rls.ID(1)},
		},
		{
			name: "university scope",
			scope: rls.UserScope{
				Scope:        rls.ScopeUniversity,
				RegionID:     rls.ID(1),
				UniversityID: rls.ID(1),
			},
		},
		{
			name: "small group scope",
			scope: rls.UserScope{
				Scope:        rls.ScopeSmallGroup,
				RegionID:     rls.ID(1),
				UniversityID: rls.ID(1),
				SmallGroupID: rls.ID(1),
			},
		},
		{
			name: "alumni group scope",
			scope: rls.UserScope{
				Scope:         rls.ScopeAlumniSmallGroup,
				RegionID:      rls.ID(1),
				AlumniGroupID: rls.ID(1),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := rls.ForTable(tc.scope, rls.TableMember)
			require.NotEqual(t, rls.Denied, result.Decision)

			conditions, err := result.Narrow(rls.Filter{})
			require.NoError(t, err)

			var members []models.Member
			require.NoError(t, conditions.Scoped(db.Model(&models.Member{})).Find(&members).Error)
			require.NotEmpty(t, members, "scoped list should see its own rows")

			for _, m := range members {
				assert.True(t, rls.CanAccess(tc.scope, rls.ResourceRegion, m.RegionID) ||
					tc.scope.Scope != rls.ScopeRegion,
					"region check disagrees for member %d", m.ID)

				if m.SmallGroupID != nil {
					assert.True(t, rls.CanAccess(tc.scope, rls.ResourceSmallGroup, *m.SmallGroupID) ||
						tc.scope.Scope == rls.ScopeAlumniSmallGroup,
						"small group check disagrees for member %d", m.ID)
				}

				if m.AlumniGroupID != nil && tc.scope.Scope == rls.ScopeAlumniSmallGroup {
					assert.True(t, rls.CanAccess(tc.scope, rls.ResourceAlumniGroup, *m.AlumniGroupID),
						"alumni group check disagrees for member %d", m.ID)
				}
			}
		})
	}
}

// TestScopedListNeverLeaksAcrossRegions seeds two regions and checks a
// region-scoped query only sees its own subtree, for every scoped table.
func TestScopedListNeverLeaksAcrossRegions(t *testing.T) {
	db := setupTestDB(t)
	seedHierarchy(t, db)

	scope := rls.UserScope{Scope: rls.ScopeRegion, RegionID: rls.ID(1)}

	t.Run("members", func(t *testing.T) {
		conditions, err := rls.ForTable(scope, rls.TableMember).Narrow(rls.Filter{})
		require.NoError(t, err)

		var members []models.Member
		require.NoError(t, conditions.Scoped(db.Model(&models.Member{})).Find(&members).Error)
		require.Len(t, members, 2)

		for _, m := range members {
			assert.Equal(t, uint64(1), m.RegionID)
		}
	})

	t.Run("universities", func(t *testing.T) {
		conditions, err := rls.ForTable(scope, rls.TableUniversity).Narrow(rls.Filter{})
		require.NoError(t, err)

		var universities []models.University
		require.NoError(t, conditions.Scoped(db.Model(&models.University{})).Find(&universities).Error)
		require.Len(t, universities, 1)
		assert.Equal(t, uint64(1), universities[0].RegionID)
	})

	t.Run("regions self filter", func(t *testing.T) {
		conditions, err := rls.ForTable(scope, rls.TableRegion).Narrow(rls.Filter{})
		require.NoError(t, err)

		var regions []models.Region
		require.NoError(t, conditions.Scoped(db.Model(&models.Region{})).Find(&regions).Error)
		require.Len(t, regions, 1)
		assert.Equal(t, uint64(1), regions[0].ID)
	})
}

// TestSuperadminVoluntaryNarrowing covers the admin convenience path: empty
// resolved conditions accept an explicit region filter.
func TestSuperadminVoluntaryNarrowing(t *testing.T) {
	db := setupTestDB(t)
	seedHierarchy(t, db)

	scope := rls.UserScope{Scope: rls.ScopeSuperAdmin}

	conditions, err := rls.ForTable(scope, rls.TableMember).Narrow(rls.Filter{RegionID: rls.ID(2)})
	require.NoError(t, err)

	var members []models.Member
	require.NoError(t, conditions.Scoped(db.Model(&models.Member{})).Find(&members).Error)
	require.Len(t, members, 2)

	for _, m := range members {
		assert.Equal(t, uint64(2), m.RegionID)
	}
}
