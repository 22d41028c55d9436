package auth

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/db/models"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/rls"
)

// Service is the role-assignment source consumed by the rls package.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Assignments loads a user's role assignments as pure rls tuples. An empty
// result means the user cannot be placed in the organization; callers must
// treat that as an authentication failure.
func (s *Service) Assignments(userID uint64) ([]rls.Assignment, error) {
	var rows []models.RoleAssignment

	err := s.db.Where("user_id = ?", userID).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load role assignments: %w", err)
	}

	out := make([]rls.Assignment, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].Assignment())
	}

	return out, nil
}

// ListRoleAssignments loads a user's role assignment rows (admin surface).
func (s *Service) ListRoleAssignments(userID uint64) ([]models.RoleAssignment, error) {
	var rows []models.RoleAssignment

	err := s.db.Where("user_id = ?", userID).Order("id ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list role assignments: %w", err)
	}

	return rows, nil
}

// Grant creates a role assignment for a user.
func (s *Service) Grant(assignment *models.RoleAssignment) error {
	if !assignment.Scope.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidScopeClaim, assignment.Scope)
	}

	if err := s.db.Create(assignment).Error; err != nil {
		return fmt.Errorf("failed to create role assignment: %w", err)
	}

	return nil
}

// Revoke deletes one role assignment by ID.
func (s *Service) Revoke(assignmentID uint64) error {
	result := s.db.Delete(&models.RoleAssignment{}, assignmentID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete role assignment: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// SyncAssignments replaces a user's OIDC-sourced role assignments with the
// ones parsed from the provider's group claims. Locally granted assignments
// are untouched. Unparseable claims are skipped rather than failing the
// login; a user whose claims all fail to parse simply ends up without
// OIDC assignments and is rejected at scope resolution.
func (s *Service) SyncAssignments(userID uint64, groups []string) error {
	assignments := make([]models.RoleAssignment, 0, len(groups))

	for _, group := range groups {
		a, err := ParseScopeClaim(group)
		if err != nil {
			continue
		}

		a.UserID = userID
		a.Source = models.RoleAssignmentSourceOIDC
		assignments = append(assignments, a)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND source = ?", userID, models.RoleAssignmentSourceOIDC).
			Delete(&models.RoleAssignment{}).Error; err != nil {
			return fmt.Errorf("failed to remove stale role assignments: %w", err)
		}

		for i := range assignments {
			if err := tx.Create(&assignments[i]).Error; err != nil {
				return fmt.Errorf("failed to create role assignment: %w", err)
			}
		}

		return nil
	})
}

// ParseScopeClaim parses one group claim of the form "scope" or "scope:id"
// into a role assignment, e.g. "national", "region:4", "smallgroup:12".
func ParseScopeClaim(claim string) (models.RoleAssignment, error) {
	tag, idPart, hasID := strings.Cut(claim, ":")

	scope := rls.Scope(tag)
	if !scope.Valid() {
		return models.RoleAssignment{}, fmt.Errorf("%w: unknown scope %q", ErrInvalidScopeClaim, tag)
	}

	out := models.RoleAssignment{Scope: scope}

	if scope == rls.ScopeSuperAdmin || scope == rls.ScopeNational {
		if hasID {
			return models.RoleAssignment{}, fmt.Errorf("%w: %q carries an identifier", ErrInvalidScopeClaim, claim)
		}

		return out, nil
	}

	if !hasID {
		return models.RoleAssignment{}, fmt.Errorf("%w: %q is missing its identifier", ErrInvalidScopeClaim, claim)
	}

	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil || id == 0 {
		return models.RoleAssignment{}, fmt.Errorf("%w: bad identifier in %q", ErrInvalidScopeClaim, claim)
	}

	switch scope {
	case rls.ScopeRegion:
		out.RegionID = &id
	case rls.ScopeUniversity:
		out.UniversityID = &id
	case rls.ScopeSmallGroup:
		out.SmallGroupID = &id
	case rls.ScopeAlumniSmallGroup:
		out.AlumniGroupID = &id
	}

	return out, nil
}
