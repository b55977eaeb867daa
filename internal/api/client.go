package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/model"
)

// CoachClient talks JSON-over-HTTP to the remote coaching API. The base
// URL and timeout come from configuration; nothing in here is hard-coded
// to a host.
type CoachClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func NewCoachClient(baseURL string, timeout time.Duration) *CoachClient {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &CoachClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// doJSON performs one round trip and decodes the response into out (when
// out is non-nil). A body of {"error": "..."} becomes a *BackendError on
// any status; transport failures and timeouts become ErrUnavailable.
func (c *CoachClient) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return classifyTransportErr(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportErr(err)
	}

	// The backend reports application errors as {"error": "..."} on 2xx
	// and non-2xx alike; surface both the same way.
	var probe struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &probe) == nil && probe.Error != "" {
		return &BackendError{Status: resp.StatusCode, Message: probe.Error}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &BackendError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// CheckExistingResult is the /generate/check-existing payload.
type CheckExistingResult struct {
	Exists        bool   `json:"exists"`
	LatestProgram string `json:"latest_program"`
}

// CheckExisting asks whether the user already has a generated plan.
func (c *CoachClient) CheckExisting(ctx context.Context, uid string) (*CheckExistingResult, error) {
	var out CheckExistingResult
	body := map[string]string{"firebase_uid": uid}
	if err := c.doJSON(ctx, http.MethodPost, "/generate/check-existing", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateWorkout submits the completed answer set and returns the
// generated program text.
func (c *CoachClient) GenerateWorkout(ctx context.Context, uid string, answers model.AnswerSet) (string, error) {
	body := map[string]string{"firebase_uid": uid}
	for k, v := range answers {
		body[k] = v
	}
	var out struct {
		Program string `json:"program"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/generate/generate-workout", body, &out); err != nil {
		return "", err
	}
	if out.Program == "" {
		return "", &BackendError{Status: http.StatusOK, Message: "empty program in response"}
	}
	return out.Program, nil
}

// FollowUpResult is the /generate/chat-follow-up payload. AdjustedProgram
// is set when the feedback produced a new plan version; Response carries
// a conversational answer when it did not.
type FollowUpResult struct {
	AdjustedProgram string `json:"adjusted_program"`
	Response        string `json:"response"`
}

// ChatFollowUp sends free-text feedback about the current plan.
func (c *CoachClient) ChatFollowUp(ctx context.Context, uid, feedback, currentPlan string) (*FollowUpResult, error) {
	body := map[string]string{
		"firebase_uid": uid,
		"feedback":     feedback,
	}
	if currentPlan != "" {
		body["current_plan"] = currentPlan
	}
	var out FollowUpResult
	if err := c.doJSON(ctx, http.MethodPost, "/generate/chat-follow-up", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History lists the user's past conversations.
func (c *CoachClient) History(ctx context.Context, uid string) ([]model.ConversationSummary, error) {
	var out []model.ConversationSummary
	if err := c.doJSON(ctx, http.MethodGet, "/generate/history/"+url.PathEscape(uid), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StoredMessage is one replayed message of a past conversation.
type StoredMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConversationMessages replays the messages of one conversation.
func (c *CoachClient) ConversationMessages(ctx context.Context, conversationID int) ([]StoredMessage, error) {
	var out []StoredMessage
	path := fmt.Sprintf("/generate/messages/%d", conversationID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExportPDF requests a PDF rendering of the given plan version and
// returns the raw document bytes.
func (c *CoachClient) ExportPDF(ctx context.Context, uid string, version int) ([]byte, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"firebase_uid": uid,
		"version":      version,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate/pdf", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransportErr(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportErr(err)
	}
	if resp.StatusCode != http.StatusOK {
		var probe struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &probe) == nil && probe.Error != "" {
			return nil, &BackendError{Status: resp.StatusCode, Message: probe.Error}
		}
		return nil, &BackendError{Status: resp.StatusCode, Message: "pdf export failed"}
	}
	return data, nil
}

// CurrentWorkout fetches the structured weekly plan.
func (c *CoachClient) CurrentWorkout(ctx context.Context, uid string) (*model.CurrentWorkout, error) {
	var out model.CurrentWorkout
	if err := c.doJSON(ctx, http.MethodGet, "/workout/current/"+url.PathEscape(uid), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Progress fetches the server-computed workout counters.
func (c *CoachClient) Progress(ctx context.Context, uid string) (*model.ProgressSummary, error) {
	var out struct {
		Progress model.ProgressSummary `json:"progress"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/workout/progress/"+url.PathEscape(uid), nil, &out); err != nil {
		return nil, err
	}
	return &out.Progress, nil
}

// ToggleExercise persists the completion state of one exercise.
func (c *CoachClient) ToggleExercise(ctx context.Context, exerciseID string, completed bool) error {
	body := map[string]interface{}{"completed": completed}
	path := "/workout/exercise/" + url.PathEscape(exerciseID) + "/complete"
	return c.doJSON(ctx, http.MethodPost, path, body, nil)
}

// DayCompletion is the workout-session submission payload.
type DayCompletion struct {
	UserID    string                  `json:"user_id"`
	Week      string                  `json:"week"`
	Day       string                  `json:"day"`
	Duration  int                     `json:"duration"`
	Notes     string                  `json:"notes"`
	Exercises []model.SessionExercise `json:"exercises"`
}

// CompleteDay submits one finished workout session.
func (c *CoachClient) CompleteDay(ctx context.Context, completion DayCompletion) error {
	return c.doJSON(ctx, http.MethodPost, "/workout/day/complete", completion, nil)
}

// Dashboard fetches the aggregated KPI object for the given period
// (7_days, 30_days, 90_days, all_time).
func (c *CoachClient) Dashboard(ctx context.Context, uid, period string) (model.Dashboard, error) {
	var out struct {
		Success   bool            `json:"success"`
		Dashboard model.Dashboard `json:"dashboard"`
	}
	path := "/dashboard/full/" + url.PathEscape(uid) + "?period=" + url.QueryEscape(period)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Dashboard, nil
}

// authResponse is shared by the identity endpoints.
type authResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	IDToken     string `json:"idToken"`
}

// Login authenticates against the identity endpoints and returns the
// provider's opaque user. The idToken is kept for a later verify call; it
// is never attached to coaching requests (the observed contract carries
// only the raw uid in JSON bodies).
func (c *CoachClient) Login(ctx context.Context, email, password string) (*model.AuthUser, error) {
	body := map[string]string{"username": email, "password": password}
	var out authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	if out.Status != "success" {
		return nil, &BackendError{Status: http.StatusUnauthorized, Message: out.Message}
	}
	return &model.AuthUser{UID: out.UID, Email: out.Email, DisplayName: out.DisplayName, IDToken: out.IDToken}, nil
}

// Signup registers a new account with the identity provider.
func (c *CoachClient) Signup(ctx context.Context, username, email, password string) (*model.AuthUser, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var out authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/signup", body, &out); err != nil {
		return nil, err
	}
	if out.Status != "success" {
		return nil, &BackendError{Status: http.StatusBadRequest, Message: out.Message}
	}
	return &model.AuthUser{UID: out.UID, Email: out.Email, DisplayName: out.DisplayName, IDToken: out.IDToken}, nil
}

// Verify checks an idToken with the provider and returns the uid it maps
// to.
func (c *CoachClient) Verify(ctx context.Context, idToken string) (string, error) {
	body := map[string]string{"idToken": idToken}
	var out authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/verify", body, &out); err != nil {
		return "", err
	}
	if out.Status != "success" {
		return "", &BackendError{Status: http.StatusUnauthorized, Message: out.Message}
	}
	return out.UID, nil
}
