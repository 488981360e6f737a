package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"questbridge-api/middleware"
	"questbridge-api/models"
	"questbridge-api/services"
	"questbridge-api/utils"
)

type JoinRequestController struct {
	requests services.JoinRequestService
	gate     services.SessionGate
}

func NewJoinRequestController(requests services.JoinRequestService, gate services.SessionGate) *JoinRequestController {
	return &JoinRequestController{requests: requests, gate: gate}
}

type CreateJoinRequestRequest struct {
	EventID string `json:"event_id" binding:"required"`
	Message string `json:"message"`
}

type UpdateJoinRequestRequest struct {
	Status     models.JoinRequestStatus `json:"status" binding:"required"`
	TicketType string                   `json:"ticket_type"`
}

func (jc *JoinRequestController) Create(c *gin.Context) {
	attendee, _ := middleware.CurrentIdentity(c)

	var req CreateJoinRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	request, err := jc.requests.Create(c.Request.Context(), attendee, req.EventID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Request sent successfully.", "request": request})
}

func (jc *JoinRequestController) ListAllForHost(c *gin.Context) {
	host, _ := middleware.CurrentIdentity(c)

	requests, err := jc.requests.ListAllForHost(c.Request.Context(), host)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (jc *JoinRequestController) ListForEvent(c *gin.Context) {
	host, _ := middleware.CurrentIdentity(c)

	requests, err := jc.requests.ListForEvent(c.Request.Context(), host, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (jc *JoinRequestController) ListMine(c *gin.Context) {
	attendee, _ := middleware.CurrentIdentity(c)

	requests, err := jc.requests.ListForAttendee(c.Request.Context(), attendee)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (jc *JoinRequestController) GetParticipation(c *gin.Context) {
	attendee, _ := middleware.CurrentIdentity(c)

	request, err := jc.requests.GetApprovedParticipation(c.Request.Context(), attendee, c.Param("event_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": request})
}

func (jc *JoinRequestController) UpdateStatus(c *gin.Context) {
	host, _ := middleware.CurrentIdentity(c)

	var req UpdateJoinRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	request, err := jc.requests.UpdateStatus(c.Request.Context(), host, c.Param("id"), req.Status, req.TicketType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request " + string(request.Status) + ".", "request": request})
}

// SessionAccess answers whether the attendee may enter the live session.
func (jc *JoinRequestController) SessionAccess(c *gin.Context) {
	attendee, _ := middleware.CurrentIdentity(c)

	access, err := jc.gate.CanEnter(c.Request.Context(), attendee, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, access)
}
