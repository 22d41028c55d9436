package contribution

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/db/models"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler"
)

// ContributionForm is the create request body for contributions.
type ContributionForm struct {
	MemberID    *uint64   `json:"member_id"`
	AmountCents int64     `json:"amount_cents" validate:"required,min=1"`
	Currency    string    `json:"currency"     validate:"omitempty,len=3"`
	Method      string    `json:"method"       validate:"max=30"`
	ReceivedAt  time.Time `json:"received_at"`
}

// ListContributions returns the contributions recorded against one
// designation.
func (s *Service) ListContributions(c *fiber.Ctx) error {
	designation, errResp := s.load(c)
	if designation == nil {
		return errResp
	}

	var contributions []models.Contribution
	if err := s.db.Where("designation_id = ?", designation.ID).
		Order("received_at ASC, id ASC").Find(&contributions).Error; err != nil {
		log.Error().Err(err).Uint64("designation_id", designation.ID).Msg("failed to list contributions")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(contributions)
}

// CreateContribution records one gift toward the designation. When the gift
// is attributed, the member must exist and belong to the designation's
// region.
func (s *Service) CreateContribution(c *fiber.Ctx) error {
	designation, errResp := s.load(c)
	if designation == nil {
		return errResp
	}

	form := new(ContributionForm)
	if err := c.BodyParser(form); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validator.Struct(form); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	if form.MemberID != nil {
		var member models.Member
		if err := s.db.First(&member, *form.MemberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return handler.Error(c, fiber.StatusBadRequest, "member does not exist")
			}

			log.Error().Err(err).Uint64("member_id", *form.MemberID).Msg("failed to load member")

			return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
		}

		if member.RegionID != designation.RegionID {
			return handler.Error(c, fiber.StatusBadRequest,
				"member belongs to a different region than the designation")
		}
	}

	currency := form.Currency
	if currency == "" {
		currency = "USD"
	}

	receivedAt := form.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	contribution := models.Contribution{
		DesignationID: designation.ID,
		MemberID:      form.MemberID,
		AmountCents:   form.AmountCents,
		Currency:      currency,
		Method:        form.Method,
		ReceivedAt:    receivedAt,
	}

	if err := s.db.Create(&contribution).Error; err != nil {
		log.Error().Err(err).Uint64("designation_id", designation.ID).Msg("failed to create contribution")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.Status(fiber.StatusCreated).JSON(contribution)
}

// DeleteContribution removes one recorded gift.
func (s *Service) DeleteContribution(c *fiber.Ctx) error {
	designation, errResp := s.load(c)
	if designation == nil {
		return errResp
	}

	contributionID, err := strconv.ParseUint(c.Params("contributionID"), 10, 64)
	if err != nil || contributionID == 0 {
		return handler.ScopeError(c, fmt.Errorf("%w: invalid contribution id", handler.ErrBadRequest))
	}

	result := s.db.Where("designation_id = ?", designation.ID).
		Delete(&models.Contribution{}, contributionID)
	if result.Error != nil {
		log.Error().Err(result.Error).Uint64("contribution_id", contributionID).
			Msg("failed to delete contribution")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	if result.RowsAffected == 0 {
		return handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
