// File: /routes/routes.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"questbridge-api/config"
	"questbridge-api/controllers"
	"questbridge-api/middleware"
	"questbridge-api/models"
	"questbridge-api/services"
)

type Controllers struct {
	Auth       *controllers.AuthController
	Events     *controllers.EventController
	Requests   *controllers.JoinRequestController
	Reports    *controllers.ReportController
	Engagement *controllers.EngagementController
	Marketing  *controllers.MarketingController
	Meetings   *controllers.MeetingController
}

func SetupRoutes(r *gin.Engine, cfg *config.Config, auth services.AuthService, ctl Controllers) {
	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":   "pong",
			"status":    "healthy",
			"email":     emailMode(cfg),
			"timestamp": time.Now().UTC(),
		})
	}
	r.GET("/ping", health)

	v1 := r.Group("/api/v1")
	v1.GET("/health", health)

	authRoutes := v1.Group("/auth")
	authRoutes.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst))
	{
		authRoutes.POST("/register", ctl.Auth.Register)
		authRoutes.POST("/login", ctl.Auth.Login)
	}

	// Public event catalogue
	v1.GET("/events", ctl.Events.GetEvents)
	v1.GET("/events/:id", ctl.Events.GetEvent)

	protected := v1.Group("")
	protected.Use(middleware.AuthRequired(auth))
	{
		protected.GET("/auth/me", ctl.Auth.Me)
		protected.POST("/quiz", ctl.Engagement.GenerateQuiz)

		host := protected.Group("")
		host.Use(middleware.RequireRole(auth, models.RoleHost))
		{
			host.GET("/events/my", ctl.Events.GetMyEvents)
			host.POST("/events", ctl.Events.CreateEvent)
			host.PUT("/events/:id", ctl.Events.UpdateEvent)
			host.DELETE("/events/:id", ctl.Events.DeleteEvent)
			host.POST("/events/:id/start", ctl.Events.StartEvent)
			host.POST("/events/:id/end", ctl.Events.EndEvent)
			host.GET("/events/:id/requests", ctl.Requests.ListForEvent)
			host.GET("/events/:id/leaderboard", ctl.Reports.Leaderboard)
			host.POST("/events/:id/campaign", ctl.Marketing.Broadcast)

			host.GET("/requests/all", ctl.Requests.ListAllForHost)
			host.PUT("/requests/:id", ctl.Requests.UpdateStatus)

			host.POST("/meetings", ctl.Meetings.CreateMeeting)
			host.POST("/marketing/single-send", ctl.Marketing.SingleSend)

			host.GET("/reports/summary", ctl.Reports.Summary)
			download := host.Group("/download")
			{
				download.GET("/events", ctl.Reports.DownloadEvents)
				download.GET("/requests", ctl.Reports.DownloadRequests)
				download.GET("/leaderboard", ctl.Reports.DownloadLeaderboard)
				download.GET("/engagement", ctl.Reports.DownloadEngagement)
			}
		}

		attendee := protected.Group("")
		attendee.Use(middleware.RequireRole(auth, models.RoleAttendee))
		{
			attendee.POST("/requests", ctl.Requests.Create)
			attendee.GET("/requests/my", ctl.Requests.ListMine)
			attendee.GET("/requests/participation/:event_id", ctl.Requests.GetParticipation)
			attendee.GET("/events/:id/session", ctl.Requests.SessionAccess)
			attendee.POST("/engagement", ctl.Engagement.Record)
		}
	}
}

func emailMode(cfg *config.Config) string {
	if cfg.SMTPConfigured() {
		return "configured"
	}
	return "simulated"
}
