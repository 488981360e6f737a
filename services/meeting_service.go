package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"questbridge-api/config"
	"questbridge-api/models"
)

const defaultMeetingDuration = 60

type MeetingRequest struct {
	Topic     string     `json:"topic"`
	StartTime *time.Time `json:"start_time"`
	// Duration in minutes.
	Duration int `json:"duration"`
}

type MeetingDetails struct {
	models.SessionCredentials
	StartURL string `json:"start_url"`
}

// MeetingProvisioner creates video-conference sessions for events.
type MeetingProvisioner interface {
	Configured() bool
	CreateMeeting(ctx context.Context, in MeetingRequest) (*MeetingDetails, error)
}

// ZoomClient talks to the Zoom REST API with server-to-server OAuth.
type ZoomClient struct {
	cfg        config.ZoomConfig
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func NewZoomClient(cfg *config.Config, log *zap.Logger) *ZoomClient {
	return &ZoomClient{
		cfg: cfg.Zoom,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Logger: log,
	}
}

func (c *ZoomClient) Configured() bool {
	return c.cfg.AccountID != "" && c.cfg.ClientID != "" && c.cfg.ClientSecret != ""
}

type zoomTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type zoomMeetingSettings struct {
	JoinBeforeHost bool `json:"join_before_host"`
	WaitingRoom    bool `json:"waiting_room"`
}

type zoomMeetingRequest struct {
	Topic     string              `json:"topic"`
	Type      int                 `json:"type"`
	StartTime string              `json:"start_time,omitempty"`
	Duration  int                 `json:"duration"`
	Settings  zoomMeetingSettings `json:"settings"`
}

type zoomMeetingResponse struct {
	ID       int64  `json:"id"`
	JoinURL  string `json:"join_url"`
	StartURL string `json:"start_url"`
	Password string `json:"password"`
}

func (c *ZoomClient) CreateMeeting(ctx context.Context, in MeetingRequest) (*MeetingDetails, error) {
	if !c.Configured() {
		return nil, invalidState("meeting provisioning is not configured")
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		topic = "QuestBridge Event"
	}
	duration := in.Duration
	if duration <= 0 {
		duration = defaultMeetingDuration
	}
	payload := zoomMeetingRequest{
		Topic:    topic,
		Type:     2, // scheduled
		Duration: duration,
		Settings: zoomMeetingSettings{JoinBeforeHost: true},
	}
	if in.StartTime != nil {
		payload.StartTime = in.StartTime.UTC().Format("2006-01-02T15:04:05Z")
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal meeting request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.APIURL, "/") + "/users/me/meetings"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	respBody, err := c.do(httpReq, http.StatusCreated)
	if err != nil {
		return nil, err
	}

	var meeting zoomMeetingResponse
	if err := sonic.Unmarshal(respBody, &meeting); err != nil {
		return nil, fmt.Errorf("unmarshal meeting response: %w", err)
	}

	return &MeetingDetails{
		SessionCredentials: models.SessionCredentials{
			MeetingURL: meeting.JoinURL,
			MeetingID:  strconv.FormatInt(meeting.ID, 10),
			Password:   meeting.Password,
		},
		StartURL: meeting.StartURL,
	}, nil
}

func (c *ZoomClient) accessToken(ctx context.Context) (string, error) {
	query := url.Values{}
	query.Set("grant_type", "account_credentials")
	query.Set("account_id", c.cfg.AccountID)
	endpoint := c.cfg.OAuthURL + "?" + query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	httpReq.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)

	respBody, err := c.do(httpReq, http.StatusOK)
	if err != nil {
		return "", err
	}

	var token zoomTokenResponse
	if err := sonic.Unmarshal(respBody, &token); err != nil {
		return "", fmt.Errorf("unmarshal token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("zoom token response has no access token")
	}
	return token.AccessToken, nil
}

func (c *ZoomClient) do(req *http.Request, wantStatus int) ([]byte, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != wantStatus {
		c.Logger.Error("zoom request failed",
			zap.String("url", req.URL.Path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(respBody)))
		return nil, fmt.Errorf("zoom request failed with status %d", resp.StatusCode)
	}
	return respBody, nil
}
