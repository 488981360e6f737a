package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"questbridge-api/middleware"
	"questbridge-api/services"
	"questbridge-api/utils"
)

type EngagementController struct {
	engagement services.EngagementService
	quiz       services.QuizService
}

func NewEngagementController(engagement services.EngagementService, quiz services.QuizService) *EngagementController {
	return &EngagementController{engagement: engagement, quiz: quiz}
}

type QuizRequest struct {
	Topic string `json:"topic" binding:"required"`
}

func (ec *EngagementController) Record(c *gin.Context) {
	attendee, _ := middleware.CurrentIdentity(c)

	var req services.EngagementInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	entry, err := ec.engagement.Record(c.Request.Context(), attendee, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"log": entry})
}

func (ec *EngagementController) GenerateQuiz(c *gin.Context) {
	var req QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	questions, err := ec.quiz.Generate(c.Request.Context(), req.Topic)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}
