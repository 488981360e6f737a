package services

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"questbridge-api/models"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func WriteEventSummariesCSV(w io.Writer, summaries []models.EventSummary) error {
	header := []string{"id", "title", "status", "start_date", "host_name", "host_email",
		"max_attendees", "is_live", "total_requests", "approved", "pending", "rejected", "checked_in", "created_at"}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Event.ID,
			s.Event.Title,
			string(s.Event.Status),
			formatOptionalTime(s.Event.StartDate),
			s.Event.HostName,
			s.Event.HostEmail,
			strconv.Itoa(s.Event.MaxAttendees),
			yesNo(s.Event.IsStarted),
			strconv.FormatInt(s.Requests.Total, 10),
			strconv.FormatInt(s.Requests.Approved, 10),
			strconv.FormatInt(s.Requests.Pending, 10),
			strconv.FormatInt(s.Requests.Rejected, 10),
			strconv.FormatInt(s.Requests.CheckedIn, 10),
			formatTime(s.Event.CreatedAt),
		})
	}
	return writeCSV(w, header, rows)
}

func WriteJoinRequestsCSV(w io.Writer, requests []models.JoinRequest) error {
	header := []string{"id", "event_title", "user_name", "user_email", "status", "ticket_type", "message", "created_at"}

	rows := make([][]string, 0, len(requests))
	for _, r := range requests {
		title := ""
		if r.Event != nil {
			title = r.Event.Title
		}
		rows = append(rows, []string{
			r.ID,
			title,
			r.UserName,
			r.UserEmail,
			string(r.Status),
			r.TicketType,
			r.Message,
			formatTime(r.CreatedAt),
		})
	}
	return writeCSV(w, header, rows)
}

func WriteLeaderboardCSV(w io.Writer, entries []models.LeaderboardEntry) error {
	header := []string{"participant_email", "total_score", "activities_completed"}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ParticipantEmail,
			strconv.FormatInt(e.TotalScore, 10),
			strconv.FormatInt(e.ActivitiesCompleted, 10),
		})
	}
	return writeCSV(w, header, rows)
}

func WriteEngagementLogsCSV(w io.Writer, logs []models.EngagementLog) error {
	header := []string{"id", "participant_email", "activity_type", "details", "score", "timestamp"}

	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []string{
			l.ID,
			l.ParticipantEmail,
			l.ActivityType,
			string(l.Details),
			strconv.Itoa(l.Score),
			formatTime(l.Timestamp),
		})
	}
	return writeCSV(w, header, rows)
}
