package event

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

// AttendanceForm is the create/update request body for attendance records.
type AttendanceForm struct {
	MemberID uint64                  `json:"member_id" validate:"required"`
	Date     time.Time               `json:"date"      validate:"required"`
	Status   models.AttendanceStatus `json:"status"    validate:"required,oneof=present absent excused"`
}

// ListAttendances returns the attendance records of one event.
func (s *Service) ListAttendances(c *fiber.Ctx) error {
	event, errResp := s.load(c)
	if event == nil {
		return errResp
	}

	tx := s.db.Where("event_id = ?", event.ID)

	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return handler.Error(c, fiber.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}

		tx = tx.Where("date = ?", date)
	}

	var records []models.Attendance
	if err := tx.Order("date ASC, member_id ASC").Find(&records).Error; err != nil {
		log.Error().Err(err).Uint64("event_id", event.ID).Msg("failed to list attendances")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(records)
}

// CreateAttendance records one member's attendance at the event. The member
// must belong to the same region as the event; the unique index on
// (event, member, date) rejects duplicate records.
func (s *Service) CreateAttendance(c *fiber.Ctx) error {
	event, errResp := s.load(c)
	if event == nil {
		return errResp
	}

	form, err := s.parseAttendanceForm(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	var member models.Member
	if err := s.db.First(&member, form.MemberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return handler.Error(c, fiber.StatusBadRequest, "member does not exist")
		}

		log.Error().Err(err).Uint64("member_id", form.MemberID).Msg("failed to load member")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	if member.RegionID != event.RegionID {
		return handler.Error(c, fiber.StatusBadRequest, "member belongs to a different region than the event")
	}

	record := models.Attendance{
		EventID:  event.ID,
		MemberID: member.ID,
		Date:     form.Date,
		Status:   form.Status,
	}

	if err := s.db.Create(&record).Error; err != nil {
		log.Error().Err(err).Uint64("event_id", event.ID).Uint64("member_id", member.ID).
			Msg("failed to create attendance")

		return handler.Error(c, fiber.StatusConflict, "attendance already recorded for this member and date")
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

// UpdateAttendance changes the status of one attendance record.
func (s *Service) UpdateAttendance(c *fiber.Ctx) error {
	event, record, errResp := s.loadAttendance(c)
	if record == nil {
		return errResp
	}

	form, err := s.parseAttendanceForm(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	record.Status = form.Status

	if err := s.db.Save(record).Error; err != nil {
		log.Error().Err(err).Uint64("event_id", event.ID).Uint64("attendance_id", record.ID).
			Msg("failed to update attendance")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(record)
}

// DeleteAttendance removes one attendance record.
func (s *Service) DeleteAttendance(c *fiber.Ctx) error {
	event, record, errResp := s.loadAttendance(c)
	if record == nil {
		return errResp
	}

	if err := s.db.Delete(record).Error; err != nil {
		log.Error().Err(err).Uint64("event_id", event.ID).Uint64("attendance_id", record.ID).
			Msg("failed to delete attendance")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// loadAttendance loads the event (running the scope check) and then the
// attendance record, which must belong to that event.
func (s *Service) loadAttendance(c *fiber.Ctx) (*models.PermanentMinistryEvent, *models.Attendance, error) {
	event, errResp := s.load(c)
	if event == nil {
		return nil, nil, errResp
	}

	attendanceID, err := parseAttendanceID(c)
	if err != nil {
		return nil, nil, handler.ScopeError(c, err)
	}

	var record models.Attendance
	if err := s.db.Where("id = ? AND event_id = ?", attendanceID, event.ID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
		}

		log.Error().Err(err).Uint64("attendance_id", attendanceID).Msg("failed to load attendance")

		return nil, nil, handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return event, &record, nil
}

func parseAttendanceID(c *fiber.Ctx) (uint64, error) {
	v, err := strconv.ParseUint(c.Params("attendanceID"), 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%w: invalid attendance id", handler.ErrBadRequest)
	}

	return v, nil
}

func (s *Service) parseAttendanceForm(c *fiber.Ctx) (*AttendanceForm, error) {
	form := new(AttendanceForm)
	if err := c.BodyParser(form); err != nil {
		return nil, errors.New("invalid request body")
	}

	if err := s.validator.Struct(form); err != nil {
		return nil, err
	}

	return form, nil
}
