package member

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/config"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/db/models"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/rls"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open sqlite in-memory db")

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

// newTestApp builds a Fiber app with the member routes mounted. When scope is
// non-nil it is injected into locals the same way the session and scope
// middleware would; a nil scope simulates an unauthenticated request.
func newTestApp(t *testing.T, db *gorm.DB, scope *rls.UserScope) *fiber.App {
	t.Helper()

	app := fiber.New()

	if scope != nil {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals(handler.LocalsKeyUser, models.User{ID: 1, Username: "leader", Active: true})
			c.Locals(handler.LocalsKeyScope, *scope)

			return c.Next()
		})
	}

	var s Service
	s.Init(app, &config.Config{}, db)

	return app
}

// seedOrg creates two regions, one university and one small group in region 1,
// and one member in each region. Returns the two member IDs.
func seedOrg(t *testing.T, db *gorm.DB) (uint64, uint64) {
	t.Helper()

	for _, m := range []interface{}{
		&models.Region{ID: 1, Name: "North"},
		&models.Region{ID: 2, Name: "South"},
		&models.University{ID: 1, Name: "State University", RegionID: 1},
		&models.SmallGroup{ID: 1, Name: "Campus Group", RegionID: 1, UniversityID: 1},
	} {
		require.NoError(t, db.Create(m).Error)
	}

	inside := models.Member{
		FirstName:    "Ann",
		LastName:     "Field",
		Status:       models.MemberStatusActive,
		RegionID:     1,
		UniversityID: rls.ID(1),
		SmallGroupID: rls.ID(1),
	}
	require.NoError(t, db.Create(&inside).Error)

	outside := models.Member{
		FirstName: "Ben",
		LastName:  "Harbor",
		Status:    models.MemberStatusActive,
		RegionID:  2,
	}
	require.NoError(t, db.Create(&outside).Error)

	return inside.ID, outside.ID
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test failed")

	return resp
}

func decodeMembers(t *testing.T, resp *http.Response) []models.Member {
	t.Helper()

	defer func() { _ = resp.Body.Close() }()

	var members []models.Member
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&members))

	return members
}

func TestListRequiresScope(t *testing.T) {
	db := newTestDB(t)
	seedOrg(t, db)

	app := newTestApp(t, db, nil)

	resp := doJSON(t, app, http.MethodGet, Path, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListScopedToRegion(t *testing.T) {
	db := newTestDB(t)
	insideID, _ := seedOrg(t, db)

	scope := rls.UserScope{Scope: rls.ScopeRegion, RegionID: rls.ID(1)}
	app := newTestApp(t, db, &scope)

	resp := doJSON(t, app, http.MethodGet, Path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	members := decodeMembers(t, resp)
	require.Len(t, members, 1)
	assert.Equal(t, insideID, members[0].ID)
	assert.Equal(t, uint64(1), members[0].RegionID)
}

func TestListUnrestrictedSeesEverything(t *testing.T) {
	db := newTestDB(t)
	seedOrg(t, db)

	scope := rls.UserScope{Scope: rls.ScopeSuperAdmin}
	app := newTestApp(t, db, &scope)

	resp := doJSON(t, app, http.MethodGet, Path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	members := decodeMembers(t, resp)
	assert.Len(t, members, 2)
}

func TestListForeignNarrowingForbidden(t *testing.T) {
	db := newTestDB(t)
	seedOrg(t, db)

	scope := rls.UserScope{Scope: rls.ScopeRegion, RegionID: rls.ID(1)}
	app := newTestApp(t, db, &scope)

	// Asking for another region than the scope pins is a denial, not an
	// empty list.
	resp := doJSON(t, app, http.MethodGet, Path+"?regionId=2", nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestListNarrowingInsideScope(t *testing.T) {
	db := newTestDB(t)
	insideID, _ := seedOrg(t, db)

	scope := rls.UserScope{Scope: rls.ScopeRegion, RegionID: rls.ID(1)}
	app := newTestApp(t, db, &scope)

	resp := doJSON(t, app, http.MethodGet, Path+"?universityId=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	members := decodeMembers(t, resp)
	require.Len(t, members, 1)
	assert.Equal(t, insideID, members[0].ID)
}

func TestGetPointCheck(t *testing.T) {
	db := newTestDB(t)
	insideID, outsideID := seedOrg(t, db)

	scope := rls.UserScope{Scope: rls.ScopeRegion, RegionID: rls.ID(1)}
	app := newTestApp(t, db, &scope)

	testCases := []struct {
		name           string
		memberID       uint64
		expectedStatus int
	}{
		{name: "row inside scope", memberID: insideID, expectedStatus: http.StatusOK},
		{name: "row in foreign region", memberID: outsideID, expectedStatus: http.StatusForbidden},
		{name: "unknown row", memberID: 9999, expectedStatus: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodGet, idPath(tc.memberID), nil)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
		})
	}
}

func TestCreateFillsKeysFromScope(t *testing.T) {
	db := newTestDB(t)
	seedOrg(t, db)

	scope := rls.UserScope{
		Scope:        rls.ScopeSmallGroup,
		RegionID:     rls.ID(1),
		UniversityID: rls.ID(1),
		SmallGroupID: rls.ID(1),
	}
	app := newTestApp(t, db, &scope)

	// The body names nobody's placement; the scope supplies it.
	resp := doJSON(t, app, http.MethodPost, Path, fiber.Map{
		"first_name": "Cara",
		"last_name":  "Lake",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	defer func() { _ = resp.Body.Close() }()

	var created models.Member
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	assert.Equal(t, uint64(1), created.RegionID)
	require.NotNil(t, created.UniversityID)
	assert.Equal(t, uint64(1), *created.UniversityID)
	require.NotNil(t, created.SmallGroupID)
	assert.Equal(t, uint64(1), *created.SmallGroupID)
	assert.Equal(t, models.MemberStatusActive, created.Status)
}

func TestCreateForeignKeysForbidden(t *testing.T) {
	db := newTestDB(t)
	seedOrg(t, db)

	scope := rls.UserScope{Scope: rls.ScopeRegion, RegionID: rls.ID(1)}
	app := newTestApp(t, db, &scope)

	resp := doJSON(t, app, http.MethodPost, Path, fiber.Map{
		"first_name": "Dana",
		"last_name":  "Reed",
		"region_id":  2,
	})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCreateSuperadminNeedsExplicitRegion(t *testing.T) {
	db := newTestDB(t)
	seedOrg(t, db)

	scope := rls.UserScope{Scope: rls.ScopeSuperAdmin}
	app := newTestApp(t, db, &scope)

	// Unrestricted scopes pin nothing, so the body must say where the row goes.
	resp := doJSON(t, app, http.MethodPost, Path, fiber.Map{
		"first_name": "Eve",
		"last_name":  "Stone",
	})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, Path, fiber.Map{
		"first_name": "Eve",
		"last_name":  "Stone",
		"region_id":  2,
	})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestUpdateForeignRowForbidden(t *testing.T) {
	db := newTestDB(t)
	_, outsideID := seedOrg(t, db)

	scope := rls.UserScope{Scope: rls.ScopeRegion, RegionID: rls.ID(1)}
	app := newTestApp(t, db, &scope)

	resp := doJSON(t, app, http.MethodPut, idPath(outsideID), fiber.Map{
		"first_name": "Ben",
		"last_name":  "Harbor",
	})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDeleteInsideScope(t *testing.T) {
	db := newTestDB(t)
	insideID, _ := seedOrg(t, db)

	scope := rls.UserScope{Scope: rls.ScopeRegion, RegionID: rls.ID(1)}
	app := newTestApp(t, db, &scope)

	resp := doJSON(t, app, http.MethodDelete, idPath(insideID), nil)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var count int64
	db.Model(&models.Member{}).Where("id = ?", insideID).Count(&count)
	assert.Zero(t, count)
}

func idPath(v uint64) string {
	return Path + "/" + strconv.FormatUint(v, 10)
}
