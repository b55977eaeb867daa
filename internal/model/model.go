package model

import "time"

// Role tags the author of a chat message.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
	// RoleTyping marks the transient placeholder shown while a reply is
	// in flight. It must never survive a completed request.
	RoleTyping Role = "typing"
)

// ChatMessage is one entry in a plan conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	// IsError marks messages injected by the client to surface a failed
	// request inside the conversation.
	IsError bool `json:"is_error,omitempty"`
}

// AnswerSet maps intake question keys (goal, experience, ...) to the raw
// value the user entered. Values stay strings end to end; numeric answers
// are validated at the input layer but never converted.
type AnswerSet map[string]string

// Clone returns an independent copy of the set.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// QuestionKind selects the input widget and validation for a question.
type QuestionKind string

const (
	QuestionText   QuestionKind = "text"
	QuestionNumber QuestionKind = "number"
	QuestionChoice QuestionKind = "choice"
)

// Question is one step of the intake wizard.
type Question struct {
	Key     string
	Prompt  string
	Kind    QuestionKind
	Choices []string
	// Validate is a validator/v10 tag applied to the raw answer.
	Validate string
}

// ConversationSummary is one row of the backend's conversation history
// list. Read-only on the client.
type ConversationSummary struct {
	ConversationID int    `json:"conversation_id"`
	Title          string `json:"title"`
	CreatedAt      string `json:"created_at"`
}

// Exercise is a single exercise inside a workout day. Completed is the
// only field the client ever mutates.
type Exercise struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	RestSeconds int    `json:"rest_seconds"`
	Completed   bool   `json:"completed"`
	Notes       string `json:"notes,omitempty"`
}

// WorkoutDay groups the exercises of one training day.
type WorkoutDay struct {
	Label     string     `json:"label"`
	Exercises []Exercise `json:"exercises"`
}

// WorkoutPlan is the structured weekly plan: week label -> day label -> day.
type WorkoutPlan map[string]map[string]WorkoutDay

// Clone deep-copies the plan so a toggle can be applied as one atomic
// state replacement with the previous snapshot kept for rollback.
func (p WorkoutPlan) Clone() WorkoutPlan {
	out := make(WorkoutPlan, len(p))
	for week, days := range p {
		outDays := make(map[string]WorkoutDay, len(days))
		for day, d := range days {
			exercises := make([]Exercise, len(d.Exercises))
			copy(exercises, d.Exercises)
			outDays[day] = WorkoutDay{Label: d.Label, Exercises: exercises}
		}
		out[week] = outDays
	}
	return out
}

// FindExercise scans all week/day buckets for the exercise with the given
// id. Returns nil when absent.
func (p WorkoutPlan) FindExercise(id string) *Exercise {
	for _, days := range p {
		for _, day := range days {
			for i := range day.Exercises {
				if day.Exercises[i].ID == id {
					return &day.Exercises[i]
				}
			}
		}
	}
	return nil
}

// CurrentWorkout is the /workout/current payload.
type CurrentWorkout struct {
	UserID               string      `json:"user_id"`
	ProgramID            int         `json:"program_id"`
	ProgramName          string      `json:"program_name"`
	Plan                 WorkoutPlan `json:"plan"`
	CompletionPercentage float64     `json:"completion_percentage"`
	TotalExercises       int         `json:"total_exercises"`
	CompletedExercises   int         `json:"completed_exercises"`
}

// ProgressSummary holds the server-computed workout counters. The client
// treats it as a read-only snapshot.
type ProgressSummary struct {
	CompletionPercentage float64 `json:"completion_percentage"`
	TotalWorkouts        int     `json:"total_workouts"`
	CurrentStreak        int     `json:"current_streak"`
	TotalTime            int     `json:"total_time"`
	TotalExercises       int     `json:"total_exercises"`
	CompletedExercises   int     `json:"completed_exercises"`
}

// SessionExercise is one completed exercise inside a workout session
// submission.
type SessionExercise struct {
	Name      string `json:"name"`
	Sets      int    `json:"sets"`
	Reps      int    `json:"reps"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes"`
}

// Dashboard is the nested metrics/achievements object returned by the
// dashboard endpoint. The client renders it opaquely.
type Dashboard map[string]any

// AuthUser is the identity the provider hands back after sign-in.
type AuthUser struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	IDToken     string `json:"id_token,omitempty"`
}
