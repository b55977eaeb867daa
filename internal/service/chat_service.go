package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/api"
	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/model"
	"github.com/NouhaAwachri/Zenfit-Trainer-App/utilities"
)

// Fixed fallback shown when a request never reached the server.
const connectionErrorMessage = "Connection error, please check your internet and try again."

var (
	ErrEmptyFeedback   = errors.New("feedback must not be empty")
	ErrRequestInFlight = errors.New("a request is already in flight")
	ErrNoPlan          = errors.New("no plan generated yet")
	ErrBadVersion      = errors.New("version index out of range")
)

// ChatSession is the post-generation conversation controller. It owns the
// append-only chat history and the append-only plan version list, plus the
// index of the version currently displayed.
//
// Failures of follow-up calls are injected into the history as AI-style
// error messages so they stay inside the conversational surface.
type ChatSession struct {
	client *api.CoachClient
	uid    string
	bus    *utilities.EventBus

	mu       sync.Mutex
	history  []model.ChatMessage
	versions []string
	selected int // index into versions, -1 when none
	loading  bool
}

// NewChatSession creates an empty session for the given user.
func NewChatSession(client *api.CoachClient, uid string, bus *utilities.EventBus) *ChatSession {
	if bus == nil {
		bus = utilities.GlobalEventBus
	}
	return &ChatSession{
		client:   client,
		uid:      uid,
		bus:      bus,
		selected: -1,
	}
}

// Seed resets the session around a freshly generated (or recovered)
// plan: version 0 selected, history holding one AI message with the plan
// text.
func (s *ChatSession) Seed(planText string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = []model.ChatMessage{newMessage(model.RoleAI, planText)}
	s.versions = []string{planText}
	s.selected = 0
	s.loading = false
}

// Reset clears everything; used by the wizard's restart.
func (s *ChatSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.versions = nil
	s.selected = -1
	s.loading = false
}

// SendFollowUp appends the user message and a typing placeholder, sends
// the feedback to the backend and appends the reply. When the backend
// returns an adjusted program it becomes a new plan version and the
// selection advances to it.
//
// Whatever happens, the typing placeholder is removed by filtering the
// history by role, never by index, so the invariant "no typing messages
// after the call resolves" holds even if something else appended
// meanwhile.
func (s *ChatSession) SendFollowUp(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyFeedback
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrRequestInFlight
	}
	s.loading = true
	currentPlan := ""
	if s.selected >= 0 {
		currentPlan = s.versions[s.selected]
	}
	s.history = append(s.history,
		newMessage(model.RoleUser, text),
		newMessage(model.RoleTyping, "..."),
	)
	s.mu.Unlock()

	result, err := s.client.ChatFollowUp(ctx, s.uid, text, currentPlan)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.history = dropTyping(s.history)

	if err != nil {
		reply := newMessage(model.RoleAI, connectionErrorMessage)
		reply.IsError = true
		if be, ok := api.AsBackendError(err); ok {
			reply.Text = "Coach error: " + be.Message
		}
		s.history = append(s.history, reply)
		utilities.Warn("follow-up failed: %v", err)
		return err
	}

	replyText := result.Response
	if result.AdjustedProgram != "" {
		s.versions = append(s.versions, result.AdjustedProgram)
		s.selected = len(s.versions) - 1
		if replyText == "" {
			replyText = result.AdjustedProgram
		}
		s.bus.Publish(utilities.EventPlanUpdated, result.AdjustedProgram)
	}
	if replyText == "" {
		replyText = "I didn't catch that, could you rephrase?"
	}
	s.history = append(s.history, newMessage(model.RoleAI, replyText))
	return nil
}

// SelectVersion switches the displayed plan without touching the history.
func (s *ChatSession) SelectVersion(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.versions) {
		return ErrBadVersion
	}
	s.selected = index
	return nil
}

// CurrentPlan returns the text of the selected version, or "" when no
// plan exists yet.
func (s *ChatSession) CurrentPlan() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected < 0 {
		return ""
	}
	return s.versions[s.selected]
}

// Versions returns a copy of the version list.
func (s *ChatSession) Versions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.versions...)
}

// SelectedVersion returns the index of the displayed version, -1 when no
// plan exists.
func (s *ChatSession) SelectedVersion() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// History returns a copy of the chat history.
func (s *ChatSession) History() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ChatMessage(nil), s.history...)
}

// Loading reports whether a follow-up request is outstanding.
func (s *ChatSession) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// DownloadCurrentVersion exports the selected version as PDF into dir and
// returns the written path. Opening the file is left to the caller.
func (s *ChatSession) DownloadCurrentVersion(ctx context.Context, dir string) (string, error) {
	s.mu.Lock()
	selected := s.selected
	s.mu.Unlock()
	if selected < 0 {
		return "", ErrNoPlan
	}

	data, err := s.client.ExportPDF(ctx, s.uid, selected)
	if err != nil {
		utilities.Warn("pdf export failed: %v", err)
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("workout_plan_v%d.pdf", selected))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	utilities.Info("saved plan version %d to %s", selected, path)
	return path, nil
}

// Conversations fetches the read-only history picker entries.
func (s *ChatSession) Conversations(ctx context.Context) ([]model.ConversationSummary, error) {
	return s.client.History(ctx, s.uid)
}

// LoadConversation replays a stored conversation into the session
// history. Plan versions are untouched; replay is display-only.
func (s *ChatSession) LoadConversation(ctx context.Context, conversationID int) error {
	msgs, err := s.client.ConversationMessages(ctx, conversationID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = s.history[:0]
	for _, m := range msgs {
		role := model.RoleAI
		if m.Role == "user" {
			role = model.RoleUser
		}
		s.history = append(s.history, newMessage(role, m.Content))
	}
	return nil
}

func newMessage(role model.Role, text string) model.ChatMessage {
	return model.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// dropTyping removes every typing placeholder, wherever it sits.
func dropTyping(history []model.ChatMessage) []model.ChatMessage {
	out := history[:0]
	for _, m := range history {
		if m.Role != model.RoleTyping {
			out = append(out, m)
		}
	}
	return out
}
