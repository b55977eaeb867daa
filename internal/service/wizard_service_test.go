package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/api"
	"github.com/NouhaAwachri/Zenfit-Trainer-App/utilities"
)

var intakeAnswers = map[string]string{
	"gender":        "male",
	"age":           "28",
	"goal":          "muscle gain",
	"experience":    "beginner",
	"days_per_week": "4",
	"equipment":     "gym",
	"style":         "Push/Pull/Legs",
}

func newTestWizard(t *testing.T, handler http.Handler) (*WizardService, *ChatSession, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := api.NewCoachClient(srv.URL, 2*time.Second)
	chat := NewChatSession(client, "uid-1", utilities.NewEventBus())
	return NewWizardService(client, "uid-1", chat), chat, srv
}

func answerAll(t *testing.T, wizard *WizardService) error {
	t.Helper()
	for {
		q, ok := wizard.CurrentQuestion()
		if !ok {
			return nil
		}
		answer, found := intakeAnswers[q.Key]
		if !found {
			t.Fatalf("no canned answer for question %q", q.Key)
		}
		if err := wizard.SubmitCurrentAnswer(context.Background(), answer); err != nil {
			return err
		}
		if wizard.Mode() == ModeChat {
			return nil
		}
	}
}

func TestWizardWalkthroughGeneratesPlan(t *testing.T) {
	var received map[string]string
	wizard, chat, _ := newTestWizard(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/generate/check-existing":
			w.Write([]byte(`{"exists": false}`))
		case "/generate/generate-workout":
			json.NewDecoder(r.Body).Decode(&received)
			w.Write([]byte(`{"program": "Week 1: squats"}`))
		default:
			http.NotFound(w, r)
		}
	}))

	if mode, err := wizard.Start(context.Background()); err != nil || mode != ModeWizard {
		t.Fatalf("Start = %v, %v", mode, err)
	}
	if err := answerAll(t, wizard); err != nil {
		t.Fatalf("walkthrough: %v", err)
	}

	if wizard.Mode() != ModeChat {
		t.Fatal("wizard did not hand over to chat")
	}
	if chat.CurrentPlan() != "Week 1: squats" {
		t.Errorf("chat plan = %q", chat.CurrentPlan())
	}
	if received["firebase_uid"] != "uid-1" {
		t.Errorf("payload missing uid: %v", received)
	}
	// Raw strings as entered, no normalization.
	for key, want := range intakeAnswers {
		if received[key] != want {
			t.Errorf("payload[%s] = %q, want %q", key, received[key], want)
		}
	}
}

func TestWizardRejectsInvalidAnswers(t *testing.T) {
	wizard, _, _ := newTestWizard(t, http.NotFoundHandler())

	cases := []struct {
		key   string
		value string
	}{
		{"gender", "yes"},
		{"gender", ""},
		{"age", "twenty"},
		{"days_per_week", "0"},
		{"days_per_week", "9"},
		{"days_per_week", "four"},
	}
	for _, tc := range cases {
		// Advance to the target question with valid answers first.
		wizard.Restart()
		for {
			q, ok := wizard.CurrentQuestion()
			if !ok {
				t.Fatalf("ran past question %q", tc.key)
			}
			if q.Key == tc.key {
				break
			}
			if err := wizard.SubmitCurrentAnswer(context.Background(), intakeAnswers[q.Key]); err != nil {
				t.Fatalf("setup answer for %q: %v", q.Key, err)
			}
		}
		err := wizard.SubmitCurrentAnswer(context.Background(), tc.value)
		if !errors.Is(err, ErrInvalidAnswer) {
			t.Errorf("%s=%q: got %v, want ErrInvalidAnswer", tc.key, tc.value, err)
		}
		if q, _ := wizard.CurrentQuestion(); q.Key != tc.key {
			t.Errorf("%s=%q: wizard advanced past the rejected answer", tc.key, tc.value)
		}
	}
}

func TestWizardNumericValidationCanBeDisabled(t *testing.T) {
	wizard, _, _ := newTestWizard(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"program": "Week 1: squats"}`))
	}))
	wizard.SetNumericValidation(false)

	loose := map[string]string{
		"gender":        "male",
		"age":           "twenty",
		"goal":          "muscle gain",
		"experience":    "beginner",
		"days_per_week": "9",
		"equipment":     "gym",
		"style":         "Full body",
	}
	for {
		q, ok := wizard.CurrentQuestion()
		if !ok {
			break
		}
		if err := wizard.SubmitCurrentAnswer(context.Background(), loose[q.Key]); err != nil {
			t.Fatalf("answer %q for %q rejected: %v", loose[q.Key], q.Key, err)
		}
		if wizard.Mode() == ModeChat {
			break
		}
	}

	// Empty answers stay invalid even with numeric checks off.
	wizard.Restart()
	if err := wizard.SubmitCurrentAnswer(context.Background(), "  "); !errors.Is(err, ErrInvalidAnswer) {
		t.Errorf("blank answer: got %v, want ErrInvalidAnswer", err)
	}
}

func TestWizardKeepsFinalStepOnGenerationFailure(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	var attempts atomic.Int32
	wizard, chat, _ := newTestWizard(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate/generate-workout" {
			http.NotFound(w, r)
			return
		}
		attempts.Add(1)
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "model overloaded"}`))
			return
		}
		w.Write([]byte(`{"program": "Week 1: squats"}`))
	}))

	if err := answerAll(t, wizard); err == nil {
		t.Fatal("want generation failure")
	}

	if wizard.Mode() != ModeWizard {
		t.Fatal("failed generation must keep the wizard visible")
	}
	q, ok := wizard.CurrentQuestion()
	if !ok || q.Key != "style" {
		t.Fatalf("current question = %q, want final step", q.Key)
	}
	if wizard.LastError() != "Error: model overloaded" {
		t.Errorf("last error = %q", wizard.LastError())
	}
	if got := wizard.Answers()["style"]; got != intakeAnswers["style"] {
		t.Errorf("final answer not retained: %q", got)
	}

	// Retry re-sends the identical payload and succeeds.
	fail.Store(false)
	if err := wizard.SubmitCurrentAnswer(context.Background(), intakeAnswers["style"]); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if wizard.Mode() != ModeChat || chat.CurrentPlan() != "Week 1: squats" {
		t.Errorf("retry did not hand over: mode=%v plan=%q", wizard.Mode(), chat.CurrentPlan())
	}
	if wizard.LastError() != "" {
		t.Errorf("last error not cleared: %q", wizard.LastError())
	}
	if attempts.Load() != 2 {
		t.Errorf("attempts = %d, want 2", attempts.Load())
	}
}

func TestStartSkipsWizardWhenPlanExists(t *testing.T) {
	wizard, chat, _ := newTestWizard(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"exists": true, "latest_program": "saved plan"}`))
	}))

	mode, err := wizard.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if mode != ModeChat {
		t.Fatal("existing plan must short-circuit into chat")
	}
	if chat.CurrentPlan() != "saved plan" {
		t.Errorf("chat plan = %q", chat.CurrentPlan())
	}
}

func TestStartFailureFallsBackToWizard(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := api.NewCoachClient(srv.URL, time.Second)
	chat := NewChatSession(client, "uid-1", utilities.NewEventBus())
	wizard := NewWizardService(client, "uid-1", chat)

	mode, err := wizard.Start(context.Background())
	if err == nil {
		t.Fatal("want error from unreachable backend")
	}
	if mode != ModeWizard {
		t.Error("check failure must leave the wizard available")
	}
}

func TestRestartClearsEverything(t *testing.T) {
	wizard, chat, _ := newTestWizard(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"program": "Week 1: squats"}`))
	}))
	if err := answerAll(t, wizard); err != nil {
		t.Fatalf("walkthrough: %v", err)
	}

	wizard.Restart()

	if wizard.Mode() != ModeWizard {
		t.Error("restart must return to wizard mode")
	}
	if len(wizard.Answers()) != 0 {
		t.Errorf("answers survive restart: %v", wizard.Answers())
	}
	if q, ok := wizard.CurrentQuestion(); !ok || q.Key != "gender" {
		t.Errorf("current question = %q, want first", q.Key)
	}
	if chat.CurrentPlan() != "" || len(chat.History()) != 0 {
		t.Error("chat state survives restart")
	}
}
