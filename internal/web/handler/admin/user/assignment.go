package user

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/auth"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/db/models"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/rls"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler"
)

// AssignmentForm is the grant request body. The identifier fields mirror the
// role assignment row; only the one matching the scope is expected.
type AssignmentForm struct {
	Scope         rls.Scope `json:"scope" validate:"required"`
	RegionID      *uint64   `json:"region_id"`
	UniversityID  *uint64   `json:"university_id"`
	SmallGroupID  *uint64   `json:"small_group_id"`
	AlumniGroupID *uint64   `json:"alumni_group_id"`
}

// ListAssignments returns the user's role assignments.
func (s *Service) ListAssignments(c *fiber.Ctx) error {
	target, errResp := s.loadTarget(c)
	if target == nil {
		return errResp
	}

	assignments, err := s.authService.ListRoleAssignments(target.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", target.ID).Msg("failed to list role assignments")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(assignments)
}

// GrantAssignment anchors the user's authority at one level of the
// hierarchy. A scoped assignment must carry exactly its defining identifier;
// an assignment without it would resolve to no access at all.
func (s *Service) GrantAssignment(c *fiber.Ctx) error {
	target, errResp := s.loadTarget(c)
	if target == nil {
		return errResp
	}

	form := new(AssignmentForm)
	if err := c.BodyParser(form); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validator.Struct(form); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	assignment := models.RoleAssignment{
		UserID:        target.ID,
		Scope:         form.Scope,
		RegionID:      form.RegionID,
		UniversityID:  form.UniversityID,
		SmallGroupID:  form.SmallGroupID,
		AlumniGroupID: form.AlumniGroupID,
		Source:        models.RoleAssignmentSourceLocal,
	}

	if err := validateDefiningID(&assignment); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	if err := s.authService.Grant(&assignment); err != nil {
		if errors.Is(err, auth.ErrInvalidScopeClaim) {
			return handler.Error(c, fiber.StatusBadRequest, err.Error())
		}

		log.Error().Err(err).Uint64("user_id", target.ID).Msg("failed to grant role assignment")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	log.Info().Uint64("user_id", target.ID).Str("scope", string(form.Scope)).
		Msg("role assignment granted")

	return c.Status(fiber.StatusCreated).JSON(assignment)
}

// RevokeAssignment removes one role assignment.
func (s *Service) RevokeAssignment(c *fiber.Ctx) error {
	target, errResp := s.loadTarget(c)
	if target == nil {
		return errResp
	}

	assignmentID, err := strconv.ParseUint(c.Params("assignmentID"), 10, 64)
	if err != nil || assignmentID == 0 {
		return handler.Error(c, fiber.StatusBadRequest, "invalid assignment id")
	}

	// The assignment must belong to the addressed user.
	var assignment models.RoleAssignment
	if err := s.db.Where("id = ? AND user_id = ?", assignmentID, target.ID).
		First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
		}

		log.Error().Err(err).Uint64("assignment_id", assignmentID).Msg("failed to load role assignment")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	if err := s.authService.Revoke(assignment.ID); err != nil {
		log.Error().Err(err).Uint64("assignment_id", assignment.ID).Msg("failed to revoke role assignment")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	log.Info().Uint64("user_id", target.ID).Uint64("assignment_id", assignment.ID).
		Msg("role assignment revoked")

	return c.SendStatus(fiber.StatusNoContent)
}

// validateDefiningID rejects assignments whose defining identifier is
// missing or that carry identifiers for unrestricted scopes.
func validateDefiningID(a *models.RoleAssignment) error {
	hasAnyID := a.RegionID != nil || a.UniversityID != nil ||
		a.SmallGroupID != nil || a.AlumniGroupID != nil

	switch a.Scope {
	case rls.ScopeSuperAdmin, rls.ScopeNational:
		if hasAnyID {
			return fmt.Errorf("scope %q must not carry organizational identifiers", a.Scope)
		}
	case rls.ScopeRegion:
		if a.RegionID == nil {
			return errors.New("region scope requires region_id")
		}
	case rls.ScopeUniversity:
		if a.UniversityID == nil {
			return errors.New("university scope requires university_id")
		}
	case rls.ScopeSmallGroup:
		if a.SmallGroupID == nil {
			return errors.New("smallgroup scope requires small_group_id")
		}
	case rls.ScopeAlumniSmallGroup:
		if a.AlumniGroupID == nil {
			return errors.New("alumnismallgroup scope requires alumni_group_id")
		}
	}

	return nil
}
