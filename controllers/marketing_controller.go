package controllers

import (
	"github.com/gin-gonic/gin"
	"questbridge-api/middleware"
	"questbridge-api/services"
	"questbridge-api/utils"
)

type MarketingController struct {
	campaigns services.CampaignService
}

func NewMarketingController(campaigns services.CampaignService) *MarketingController {
	return &MarketingController{campaigns: campaigns}
}

type CampaignRequest struct {
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

type SingleSendRequest struct {
	Email   string `json:"email" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

func (mc *MarketingController) Broadcast(c *gin.Context) {
	host, _ := middleware.CurrentIdentity(c)

	var req CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	result, err := mc.campaigns.Broadcast(c.Request.Context(), host, c.Param("id"), req.Subject, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Campaign sent successfully."
	if result.Simulated {
		message = "Simulation successful (email credentials not set)."
	}
	utils.SendSuccess(c, message, result)
}

func (mc *MarketingController) SingleSend(c *gin.Context) {
	host, _ := middleware.CurrentIdentity(c)

	var req SingleSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	result, err := mc.campaigns.SendSingle(c.Request.Context(), host, req.Email, req.Subject, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Email sent successfully!"
	if result.Simulated {
		message = "Simulation successful (email credentials not set)."
	}
	utils.SendSuccess(c, message, result)
}
