// File: /controllers/event_controller.go
package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"questbridge-api/middleware"
	"questbridge-api/models"
	"questbridge-api/services"
	"questbridge-api/utils"
)

type EventController struct {
	events   services.EventService
	meetings services.MeetingProvisioner
	log      *zap.Logger
}

func NewEventController(events services.EventService, meetings services.MeetingProvisioner, log *zap.Logger) *EventController {
	return &EventController{events: events, meetings: meetings, log: log}
}

type StartEventRequest struct {
	models.SessionCredentials
	// AutoProvision asks the meeting provider for credentials when none are
	// supplied. A provider failure falls back to starting without them.
	AutoProvision bool `json:"auto_provision"`
	Duration      int  `json:"duration"`
}

func (ec *EventController) GetEvents(c *gin.Context) {
	events, err := ec.events.ListPublic(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	for i := range events {
		events[i] = events[i].Public()
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (ec *EventController) GetEvent(c *gin.Context) {
	event, err := ec.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event.Public()})
}

func (ec *EventController) GetMyEvents(c *gin.Context) {
	host, _ := middleware.CurrentIdentity(c)

	events, err := ec.events.ListForHost(c.Request.Context(), host)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (ec *EventController) CreateEvent(c *gin.Context) {
	host, _ := middleware.CurrentIdentity(c)

	var req models.EventFields
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	event, err := ec.events.Create(c.Request.Context(), host, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Event created successfully.", "event": event})
}

func (ec *EventController) UpdateEvent(c *gin.Context) {
	host, _ := middleware.CurrentIdentity(c)

	var req models.EventUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	event, err := ec.events.Update(c.Request.Context(), host, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event updated successfully.", "event": event})
}

func (ec *EventController) StartEvent(c *gin.Context) {
	host, _ := middleware.CurrentIdentity(c)
	eventID := c.Param("id")

	// The body is optional; chunked requests report ContentLength -1.
	var req StartEventRequest
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			utils.SendValidationError(c, err.Error())
			return
		}
	}

	creds := req.SessionCredentials
	if req.AutoProvision && creds.MeetingURL == "" {
		creds = ec.provision(c, host, eventID, req.Duration, creds)
	}

	event, err := ec.events.Start(c.Request.Context(), host, eventID, creds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event started successfully.", "event": event})
}

// provision returns fresh meeting credentials, or fallback when the
// provider is unavailable.
func (ec *EventController) provision(c *gin.Context, host models.Identity, eventID string, duration int, fallback models.SessionCredentials) models.SessionCredentials {
	if ec.meetings == nil || !ec.meetings.Configured() {
		return fallback
	}

	event, err := ec.events.Get(c.Request.Context(), eventID)
	if err != nil || event.HostID != host.ID {
		// Start reports the ownership error itself.
		return fallback
	}

	meeting, err := ec.meetings.CreateMeeting(c.Request.Context(), services.MeetingRequest{
		Topic:     event.Title,
		StartTime: event.StartDate,
		Duration:  duration,
	})
	if err != nil {
		ec.log.Warn("meeting provisioning failed, starting without credentials",
			zap.String("event_id", eventID), zap.Error(err))
		return fallback
	}
	return meeting.SessionCredentials
}

func (ec *EventController) EndEvent(c *gin.Context) {
	host, _ := middleware.CurrentIdentity(c)

	event, err := ec.events.End(c.Request.Context(), host, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event ended successfully.", "event": event})
}

func (ec *EventController) DeleteEvent(c *gin.Context) {
	host, _ := middleware.CurrentIdentity(c)

	if err := ec.events.Delete(c.Request.Context(), host, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "Event deleted successfully.", nil)
}
