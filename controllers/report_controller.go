package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"questbridge-api/middleware"
	"questbridge-api/services"
	"questbridge-api/utils"
)

type ReportController struct {
	reports services.ReportService
}

func NewReportController(reports services.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

func (rc *ReportController) Leaderboard(c *gin.Context) {
	host, _ := middleware.CurrentIdentity(c)

	entries, err := rc.reports.Leaderboard(c.Request.Context(), host, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

func (rc *ReportController) Summary(c *gin.Context) {
	host, _ := middleware.CurrentIdentity(c)

	summaries, err := rc.reports.EventSummaries(c.Request.Context(), host)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": summaries})
}

func (rc *ReportController) DownloadEvents(c *gin.Context) {
	host, _ := middleware.CurrentIdentity(c)

	summaries, err := rc.reports.EventSummaries(c.Request.Context(), host)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := services.WriteEventSummariesCSV(&buf, summaries); err != nil {
		_ = c.Error(err)
		return
	}
	utils.SendCSV(c, "events_summary.csv", &buf)
}

func (rc *ReportController) DownloadRequests(c *gin.Context) {
	host, _ := middleware.CurrentIdentity(c)

	requests, err := rc.reports.Requests(c.Request.Context(), host, c.Query("event_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := services.WriteJoinRequestsCSV(&buf, requests); err != nil {
		_ = c.Error(err)
		return
	}
	utils.SendCSV(c, "join_requests.csv", &buf)
}

func (rc *ReportController) DownloadLeaderboard(c *gin.Context) {
	host, _ := middleware.CurrentIdentity(c)

	entries, err := rc.reports.Leaderboard(c.Request.Context(), host, c.Query("event_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := services.WriteLeaderboardCSV(&buf, entries); err != nil {
		_ = c.Error(err)
		return
	}
	utils.SendCSV(c, "event_leaderboard.csv", &buf)
}

func (rc *ReportController) DownloadEngagement(c *gin.Context) {
	host, _ := middleware.CurrentIdentity(c)

	logs, err := rc.reports.EngagementLogs(c.Request.Context(), host, c.Query("event_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := services.WriteEngagementLogsCSV(&buf, logs); err != nil {
		_ = c.Error(err)
		return
	}
	utils.SendCSV(c, "engagement_logs.csv", &buf)
}
