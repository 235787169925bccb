package handlers

import (
	"strings"
	"time"

	"appointment-scheduler/internal/models"
	"appointment-scheduler/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB *gorm.DB
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB) *AppointmentHandler {
	return &AppointmentHandler{DB: db}
}

// AppointmentRequest represents the request body for creating or updating an
// appointment. StartTime and EndTime are combined timestamps carrying local
// wall-clock fields; the trailing Z is part of the historical wire format and
// is not a real UTC marker.
type AppointmentRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

// AppointmentResponse is the wire shape returned to clients.
type AppointmentResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Priority    string `json:"priority"`
}

const wireTimeLayout = "2006-01-02T15:04:05"

// parseWireTime extracts the literal wall-clock fields from a wire timestamp,
// deliberately ignoring the zone marker. The returned value uses UTC only as
// a neutral container for the naive fields.
func parseWireTime(s string) (time.Time, error) {
	s = strings.TrimSuffix(s, "Z")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	return time.ParseInLocation(wireTimeLayout, s, time.UTC)
}

// formatWireTime renders the stored naive fields back into the wire format.
func formatWireTime(t time.Time) string {
	return t.Format(wireTimeLayout) + ".000Z"
}

func toResponse(a models.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		StartTime:   formatWireTime(a.StartTime),
		EndTime:     formatWireTime(a.EndTime),
		Priority:    string(a.Priority),
	}
}

func toResponses(appts []models.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appts))
	for _, a := range appts {
		out = append(out, toResponse(a))
	}
	return out
}

// parseRequest validates the timestamps of a bound request and returns the
// assembled model.
func (h *AppointmentHandler) parseRequest(c *gin.Context, req *AppointmentRequest) (models.Appointment, bool) {
	start, err := parseWireTime(req.StartTime)
	if err != nil {
		utils.BadRequest(c, "Invalid startTime format: "+req.StartTime)
		return models.Appointment{}, false
	}
	end, err := parseWireTime(req.EndTime)
	if err != nil {
		utils.BadRequest(c, "Invalid endTime format: "+req.EndTime)
		return models.Appointment{}, false
	}
	if !end.After(start) {
		utils.BadRequest(c, "endTime must be after startTime")
		return models.Appointment{}, false
	}
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if sy != ey || sm != em || sd != ed {
		utils.BadRequest(c, "An appointment must start and end on the same day")
		return models.Appointment{}, false
	}

	priority := models.Priority(req.Priority)
	if priority == "" {
		priority = models.PriorityLow
	}

	return models.Appointment{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   start,
		EndTime:     end,
		Priority:    priority,
	}, true
}

// hasOverlap reports whether any stored appointment other than excludeID
// overlaps the half-open range [start, end). Appointments never cross
// midnight, so comparing the combined timestamps is enough.
func (h *AppointmentHandler) hasOverlap(start, end time.Time, excludeID string) (bool, error) {
	query := h.DB.Model(&models.Appointment{}).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListAppointments handles fetching appointments. Without parameters it
// returns everything; ?date=YYYY-MM-DD restricts to one day and
// ?start=YYYY-MM-DD&end=YYYY-MM-DD to an inclusive range.
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	query := h.DB.Model(&models.Appointment{}).Order("start_time asc")

	if date := c.Query("date"); date != "" {
		day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
		if err != nil {
			utils.BadRequest(c, "Invalid date format, expected YYYY-MM-DD")
			return
		}
		query = query.Where("start_time >= ? AND start_time < ?", day, day.AddDate(0, 0, 1))
	} else if start := c.Query("start"); start != "" {
		startDay, err := time.ParseInLocation("2006-01-02", start, time.UTC)
		if err != nil {
			utils.BadRequest(c, "Invalid start format, expected YYYY-MM-DD")
			return
		}
		endDay, err := time.ParseInLocation("2006-01-02", c.Query("end"), time.UTC)
		if err != nil {
			utils.BadRequest(c, "Invalid end format, expected YYYY-MM-DD")
			return
		}
		query = query.Where("start_time >= ? AND start_time < ?", startDay, endDay.AddDate(0, 0, 1))
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", toResponses(appointments))
}

// CreateAppointment handles creating a new appointment. A request whose time
// range overlaps an existing appointment is rejected with 409.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req AppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, ok := h.parseRequest(c, &req)
	if !ok {
		return
	}

	overlap, err := h.hasOverlap(appointment.StartTime, appointment.EndTime, "")
	if err != nil {
		utils.InternalServerError(c, "Database error checking availability: "+err.Error())
		return
	}
	if overlap {
		utils.Conflict(c, "The requested time slot is already booked")
		return
	}

	if err := h.DB.Create(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to create appointment: "+err.Error())
		return
	}

	utils.Created(c, "Appointment created successfully", toResponse(appointment))
}

// UpdateAppointment handles replacing an existing appointment. The record
// being updated is excluded from the overlap scan so it cannot conflict with
// itself; moving the appointment to another day is allowed.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	id := c.Param("id")

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var req AppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	updated, ok := h.parseRequest(c, &req)
	if !ok {
		return
	}

	overlap, err := h.hasOverlap(updated.StartTime, updated.EndTime, id)
	if err != nil {
		utils.InternalServerError(c, "Database error checking availability: "+err.Error())
		return
	}
	if overlap {
		utils.Conflict(c, "The requested time slot is already booked")
		return
	}

	appointment.Title = updated.Title
	appointment.Description = updated.Description
	appointment.StartTime = updated.StartTime
	appointment.EndTime = updated.EndTime
	appointment.Priority = updated.Priority

	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to update appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment updated successfully", toResponse(appointment))
}

// DeleteAppointment handles deleting an appointment by id.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	id := c.Param("id")

	result := h.DB.Delete(&models.Appointment{}, "id = ?", id)
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to delete appointment: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Appointment not found")
		return
	}

	utils.Success(c, "Appointment deleted successfully", nil)
}
