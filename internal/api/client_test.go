package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/model"
)

func TestGenerateWorkoutDecodesProgram(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate/generate-workout" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"program": "Week 1\nDay 1: squats"}`))
	}))
	defer srv.Close()

	c := NewCoachClient(srv.URL, 5*time.Second)
	program, err := c.GenerateWorkout(context.Background(), "uid-1", model.AnswerSet{"goal": "muscle gain"})
	if err != nil {
		t.Fatalf("GenerateWorkout: %v", err)
	}
	if program != "Week 1\nDay 1: squats" {
		t.Errorf("got program %q", program)
	}
}

func TestBackendErrorFromErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Missing fields: age"}`))
	}))
	defer srv.Close()

	c := NewCoachClient(srv.URL, 5*time.Second)
	_, err := c.GenerateWorkout(context.Background(), "uid-1", nil)
	be, ok := AsBackendError(err)
	if !ok {
		t.Fatalf("want BackendError, got %v", err)
	}
	if be.Status != http.StatusBadRequest || be.Message != "Missing fields: age" {
		t.Errorf("got status=%d message=%q", be.Status, be.Message)
	}
	if IsUnavailable(err) {
		t.Error("backend error must not classify as unavailable")
	}
}

func TestErrorBodyOnOKStatusStillFails(t *testing.T) {
	// The backend reports some failures with a 200 and an error body.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "model overloaded"}`))
	}))
	defer srv.Close()

	c := NewCoachClient(srv.URL, 5*time.Second)
	_, err := c.ChatFollowUp(context.Background(), "uid-1", "make it harder", "")
	be, ok := AsBackendError(err)
	if !ok {
		t.Fatalf("want BackendError, got %v", err)
	}
	if be.Message != "model overloaded" {
		t.Errorf("got message %q", be.Message)
	}
}

func TestConnectionRefusedIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewCoachClient(srv.URL, 2*time.Second)
	_, err := c.CheckExisting(context.Background(), "uid-1")
	if !IsUnavailable(err) {
		t.Fatalf("want unavailable, got %v", err)
	}
	if _, ok := AsBackendError(err); ok {
		t.Error("transport failure must not classify as backend error")
	}
}

func TestTimeoutIsUnavailable(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() {
		close(block)
		srv.Close()
	}()

	c := NewCoachClient(srv.URL, 100*time.Millisecond)
	_, err := c.Progress(context.Background(), "uid-1")
	if !IsUnavailable(err) {
		t.Fatalf("want unavailable on timeout, got %v", err)
	}
}

func TestProgressUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"progress": {"completion_percentage": 62.5, "total_workouts": 4, "current_streak": 2}}`))
	}))
	defer srv.Close()

	c := NewCoachClient(srv.URL, 5*time.Second)
	p, err := c.Progress(context.Background(), "uid-1")
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if p.CompletionPercentage != 62.5 || p.TotalWorkouts != 4 || p.CurrentStreak != 2 {
		t.Errorf("got %+v", p)
	}
}

func TestLoginRejectsNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "error", "message": "bad password"}`))
	}))
	defer srv.Close()

	c := NewCoachClient(srv.URL, 5*time.Second)
	_, err := c.Login(context.Background(), "a@b.c", "nope")
	be, ok := AsBackendError(err)
	if !ok || be.Message != "bad password" {
		t.Fatalf("want backend error with message, got %v", err)
	}
}
