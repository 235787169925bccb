package handlers

import (
	"net/http"

	"appointment-scheduler/internal/models"
	"appointment-scheduler/internal/utils"

	ical "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"
)

// ExportICS serves the full appointment list as an iCalendar feed, so the
// schedule can be subscribed to from desktop calendar apps. Timestamps keep
// the same naive-local semantics as the JSON API.
func (h *AppointmentHandler) ExportICS(c *gin.Context) {
	var appointments []models.Appointment
	if err := h.DB.Order("start_time asc").Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//appointment-scheduler//EN")

	for _, a := range appointments {
		event := cal.AddEvent(a.ID)
		event.SetSummary(a.Title)
		if a.Description != "" {
			event.SetDescription(a.Description)
		}
		event.SetStartAt(a.StartTime)
		event.SetEndAt(a.EndTime)
		event.SetDtStampTime(a.UpdatedAt)
	}

	c.Header("Content-Disposition", `attachment; filename="appointments.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
}
