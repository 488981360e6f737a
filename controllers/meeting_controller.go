package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"questbridge-api/services"
	"questbridge-api/utils"
)

type MeetingController struct {
	meetings services.MeetingProvisioner
}

func NewMeetingController(meetings services.MeetingProvisioner) *MeetingController {
	return &MeetingController{meetings: meetings}
}

type CreateMeetingRequest struct {
	Topic     string     `json:"topic"`
	StartTime *time.Time `json:"start_time"`
	Duration  int        `json:"duration"`
}

// CreateMeeting provisions conference credentials a host can attach when
// starting an event.
func (mc *MeetingController) CreateMeeting(c *gin.Context) {
	var req CreateMeetingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.SendValidationError(c, err.Error())
			return
		}
	}
	if mc.meetings == nil || !mc.meetings.Configured() {
		utils.SendError(c, http.StatusServiceUnavailable, "Meeting provisioning is not configured.")
		return
	}

	meeting, err := mc.meetings.CreateMeeting(c.Request.Context(), services.MeetingRequest{
		Topic:     req.Topic,
		StartTime: req.StartTime,
		Duration:  req.Duration,
	})
	if err != nil {
		if _, ok := services.AsError(err); ok {
			respondError(c, err)
			return
		}
		_ = c.Error(err)
		utils.SendError(c, http.StatusBadGateway, "Failed to create meeting.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Meeting created successfully.", "meeting": meeting})
}
