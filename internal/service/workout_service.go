package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/api"
	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/model"
	"github.com/NouhaAwachri/Zenfit-Trainer-App/utilities"
)

var (
	ErrNoWorkoutPlan   = errors.New("no workout plan loaded")
	ErrUnknownExercise = errors.New("exercise not found in plan")
	ErrSessionActive   = errors.New("a workout session is already running")
	ErrNoActiveSession = errors.New("no workout session is running")
	ErrUnknownDay      = errors.New("day not found in plan")
)

type activeSession struct {
	id      string
	week    string
	day     string
	started time.Time
	ticker  *time.Ticker
	done    chan struct{}
	elapsed int
}

// WorkoutService is the workout log controller: it holds the structured
// weekly plan, flips exercise completion optimistically with rollback,
// and runs the per-day session timer.
type WorkoutService struct {
	client *api.CoachClient
	uid    string
	bus    *utilities.EventBus

	mu       sync.Mutex
	current  *model.CurrentWorkout
	progress *model.ProgressSummary
	session  *activeSession
}

func NewWorkoutService(client *api.CoachClient, uid string, bus *utilities.EventBus) *WorkoutService {
	if bus == nil {
		bus = utilities.GlobalEventBus
	}
	return &WorkoutService{client: client, uid: uid, bus: bus}
}

// Refresh fetches the canonical plan and the progress snapshot.
func (s *WorkoutService) Refresh(ctx context.Context) error {
	current, err := s.client.CurrentWorkout(ctx, s.uid)
	if err != nil {
		return err
	}
	progress, err := s.client.Progress(ctx, s.uid)
	if err != nil {
		// The plan alone is still useful; keep it and report the partial
		// failure.
		s.mu.Lock()
		s.current = current
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.current = current
	s.progress = progress
	s.mu.Unlock()
	return nil
}

// Current returns the loaded plan payload, nil before the first Refresh.
func (s *WorkoutService) Current() *model.CurrentWorkout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Progress returns the last progress snapshot, nil before the first
// Refresh.
func (s *WorkoutService) Progress() *model.ProgressSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// ToggleExercise flips one exercise's completed flag locally first, then
// persists it. The pre-toggle value is retained; when the backend call
// fails the local flip is rolled back so client and server never diverge
// silently. On success only the progress snapshot is re-fetched, since
// counters and streaks are server-computed.
//
// The local mutation is applied as a single plan replacement (clone,
// rewrite, swap), never field-by-field on the shared structure.
func (s *WorkoutService) ToggleExercise(ctx context.Context, exerciseID string, completed bool) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return ErrNoWorkoutPlan
	}
	prior := s.current.Plan.FindExercise(exerciseID)
	if prior == nil {
		s.mu.Unlock()
		return ErrUnknownExercise
	}
	priorValue := prior.Completed

	// Optimistic flip.
	s.applyCompletionLocked(exerciseID, completed)
	s.mu.Unlock()

	if err := s.client.ToggleExercise(ctx, exerciseID, completed); err != nil {
		s.mu.Lock()
		s.applyCompletionLocked(exerciseID, priorValue)
		s.mu.Unlock()
		utilities.Error("toggle for %s failed, rolled back: %v", exerciseID, err)
		return err
	}

	if progress, err := s.client.Progress(ctx, s.uid); err != nil {
		utilities.Warn("progress refresh after toggle failed: %v", err)
	} else {
		s.mu.Lock()
		s.progress = progress
		s.mu.Unlock()
	}
	return nil
}

// applyCompletionLocked swaps in a new plan with the one exercise
// rewritten. Callers hold s.mu.
func (s *WorkoutService) applyCompletionLocked(exerciseID string, completed bool) {
	next := s.current.Plan.Clone()
	if ex := next.FindExercise(exerciseID); ex != nil {
		ex.Completed = completed
	}
	s.current.Plan = next
}

// StartSession begins a timed workout for one plan day (keys as they
// appear in the plan, e.g. "Week 1", "Day 2"). The timer ticks once per
// second until EndSession tears it down.
func (s *WorkoutService) StartSession(week, day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		return ErrSessionActive
	}
	if s.current == nil {
		return ErrNoWorkoutPlan
	}
	if _, ok := s.current.Plan[week][day]; !ok {
		return ErrUnknownDay
	}

	sess := &activeSession{
		id:      uuid.NewString(),
		week:    week,
		day:     day,
		started: time.Now(),
		ticker:  time.NewTicker(time.Second),
		done:    make(chan struct{}),
	}
	s.session = sess
	go func() {
		for {
			select {
			case <-sess.ticker.C:
				s.mu.Lock()
				sess.elapsed++
				s.mu.Unlock()
			case <-sess.done:
				return
			}
		}
	}()
	utilities.Info("workout session %s started (%s, %s)", sess.id, week, day)
	return nil
}

// ElapsedSeconds returns the running session's elapsed time, 0 when none
// is active.
func (s *WorkoutService) ElapsedSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return 0
	}
	return s.session.elapsed
}

// ActiveSession reports the running session's day, ok=false when idle.
func (s *WorkoutService) ActiveSession() (week, day string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return "", "", false
	}
	return s.session.week, s.session.day, true
}

// EndSession stops the timer and submits the session record: exercises
// of the day marked completed, elapsed minutes and notes. The timer is
// torn down whether or not the submission succeeds.
func (s *WorkoutService) EndSession(ctx context.Context, notes string) error {
	s.mu.Lock()
	sess := s.session
	if sess == nil {
		s.mu.Unlock()
		return ErrNoActiveSession
	}
	sess.ticker.Stop()
	close(sess.done)
	s.session = nil

	var completed []model.SessionExercise
	if s.current != nil {
		if day, ok := s.current.Plan[sess.week][sess.day]; ok {
			for _, ex := range day.Exercises {
				if !ex.Completed {
					continue
				}
				completed = append(completed, model.SessionExercise{
					Name:      ex.Name,
					Sets:      ex.Sets,
					Reps:      ex.Reps,
					Completed: true,
					Notes:     ex.Notes,
				})
			}
		}
	}
	duration := sess.elapsed / 60
	s.mu.Unlock()

	err := s.client.CompleteDay(ctx, api.DayCompletion{
		UserID:    s.uid,
		Week:      strings.TrimPrefix(sess.week, "Week "),
		Day:       strings.TrimPrefix(sess.day, "Day "),
		Duration:  duration,
		Notes:     notes,
		Exercises: completed,
	})
	if err != nil {
		utilities.Error("workout session %s submission failed: %v", sess.id, err)
		return err
	}

	if progress, perr := s.client.Progress(ctx, s.uid); perr == nil {
		s.mu.Lock()
		s.progress = progress
		s.mu.Unlock()
	}
	s.bus.Publish(utilities.EventWorkoutCompleted, sess.id)
	utilities.Info("workout session %s completed: %d exercises, %d min", sess.id, len(completed), duration)
	return nil
}
