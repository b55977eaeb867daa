package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/api"
	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/model"
	"github.com/NouhaAwachri/Zenfit-Trainer-App/utilities"
)

// Mode tells which surface the intake controller is showing.
type Mode int

const (
	ModeWizard Mode = iota
	ModeChat
)

var (
	ErrWizardDone    = errors.New("wizard already completed")
	ErrInvalidAnswer = errors.New("invalid answer")
)

// IntakeQuestions is the ordered list of profile questions, one answer
// key per step.
func IntakeQuestions() []model.Question {
	return []model.Question{
		{Key: "gender", Prompt: "What's your gender?", Kind: model.QuestionChoice, Choices: []string{"male", "female"}, Validate: "required,oneof=male female"},
		{Key: "age", Prompt: "What's your age?", Kind: model.QuestionNumber, Validate: "required,number"},
		{Key: "goal", Prompt: "What's your primary goal? (e.g. muscle gain, fat loss)", Kind: model.QuestionText, Validate: "required"},
		{Key: "experience", Prompt: "What's your experience level? (e.g. beginner, intermediate, advanced)", Kind: model.QuestionText, Validate: "required"},
		{Key: "days_per_week", Prompt: "How many days per week can you work out?", Kind: model.QuestionNumber, Validate: "required,number"},
		{Key: "equipment", Prompt: "What equipment do you have access to? (e.g. gym, dumbbells, bodyweight only)", Kind: model.QuestionText, Validate: "required"},
		{Key: "style", Prompt: "Preferred workout style? (e.g. Full body, Push/Pull/Legs, HIIT)", Kind: model.QuestionText, Validate: "required"},
	}
}

// WizardService is the intake wizard controller: it walks the ordered
// question list, accumulates the answer set and triggers plan generation
// on the last step. Answers are validated at the input layer but stored
// and transmitted as the raw entered strings; no unit conversion happens
// anywhere.
type WizardService struct {
	client   *api.CoachClient
	validate *validator.Validate
	uid      string
	chat     *ChatSession

	mu            sync.Mutex
	questions     []model.Question
	index         int
	answers       model.AnswerSet
	mode          Mode
	lastErr       string
	busy          bool
	numericChecks bool
}

// NewWizardService creates the wizard for one authenticated user. The
// chat session is seeded by the wizard on generation or on the
// existing-plan short-circuit.
func NewWizardService(client *api.CoachClient, uid string, chat *ChatSession) *WizardService {
	return &WizardService{
		client:        client,
		validate:      validator.New(),
		uid:           uid,
		chat:          chat,
		questions:     IntakeQuestions(),
		answers:       make(model.AnswerSet),
		numericChecks: true,
	}
}

// SetNumericValidation gates the numeric answer checks; answers still
// must be non-empty.
func (w *WizardService) SetNumericValidation(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.numericChecks = enabled
}

// Start runs the mount-time existing-plan check. When the backend already
// has a plan the wizard is skipped entirely and the session starts in
// chat mode. The returned error means the check itself failed; the caller
// should surface it as a blocking alert (no conversational surface exists
// yet) and may fall back to the wizard.
func (w *WizardService) Start(ctx context.Context) (Mode, error) {
	existing, err := w.client.CheckExisting(ctx, w.uid)
	if err != nil {
		utilities.Warn("existing-plan check failed: %v", err)
		return ModeWizard, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if existing.Exists && existing.LatestProgram != "" {
		w.chat.Seed(existing.LatestProgram)
		w.mode = ModeChat
		utilities.Info("existing plan found for %s, skipping wizard", w.uid)
		return ModeChat, nil
	}
	w.mode = ModeWizard
	return ModeWizard, nil
}

// CurrentQuestion returns the active question. ok is false once the
// wizard has completed.
func (w *WizardService) CurrentQuestion() (model.Question, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.mode == ModeChat || w.index >= len(w.questions) {
		return model.Question{}, false
	}
	return w.questions[w.index], true
}

// StepNumber returns the 1-based step and the total count, for the UI.
func (w *WizardService) StepNumber() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	step := w.index + 1
	if step > len(w.questions) {
		step = len(w.questions)
	}
	return step, len(w.questions)
}

// SubmitCurrentAnswer validates and records value for the active
// question. On any step but the last it advances; on the last it submits
// the full answer set for generation. A failed generation keeps the
// wizard on the final step with the answer retained, so submitting again
// re-sends the same payload.
func (w *WizardService) SubmitCurrentAnswer(ctx context.Context, value string) error {
	value = strings.TrimSpace(value)

	w.mu.Lock()
	if w.mode == ModeChat {
		w.mu.Unlock()
		return ErrWizardDone
	}
	if w.busy {
		w.mu.Unlock()
		return ErrRequestInFlight
	}
	q := w.questions[w.index]
	if err := w.checkAnswer(q, value); err != nil {
		w.mu.Unlock()
		return err
	}

	w.answers[q.Key] = value
	last := w.index == len(w.questions)-1
	if !last {
		w.index++
		w.mu.Unlock()
		return nil
	}
	w.busy = true
	payload := w.answers.Clone()
	w.mu.Unlock()

	program, err := w.client.GenerateWorkout(ctx, w.uid, payload)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = false
	if err != nil {
		// Stay in wizard mode on the final step; the answer is kept so a
		// retry re-submits the identical payload.
		if be, ok := api.AsBackendError(err); ok {
			w.lastErr = "Error: " + be.Message
		} else {
			w.lastErr = connectionErrorMessage
		}
		utilities.Error("plan generation failed: %v", err)
		return err
	}

	w.lastErr = ""
	w.chat.Seed(program)
	w.mode = ModeChat
	utilities.Info("plan generated for %s (%d answers)", w.uid, len(payload))
	return nil
}

func (w *WizardService) checkAnswer(q model.Question, value string) error {
	if value == "" {
		return fmt.Errorf("%w: answer required", ErrInvalidAnswer)
	}
	tag := q.Validate
	if !w.numericChecks && q.Kind == model.QuestionNumber {
		tag = "required"
	}
	if tag != "" {
		if err := w.validate.Var(value, tag); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidAnswer, q.Prompt)
		}
	}
	// validator's string comparisons work on length, so the range check
	// for training days is explicit.
	if w.numericChecks && q.Key == "days_per_week" {
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 7 {
			return fmt.Errorf("%w: days per week must be between 1 and 7", ErrInvalidAnswer)
		}
	}
	return nil
}

// Restart clears the answer set, the generated plan and the chat state
// and returns to the first question.
func (w *WizardService) Restart() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.answers = make(model.AnswerSet)
	w.index = 0
	w.mode = ModeWizard
	w.lastErr = ""
	w.chat.Reset()
}

// Answers returns a copy of the accumulated answer set.
func (w *WizardService) Answers() model.AnswerSet {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.answers.Clone()
}

// Mode reports whether the controller shows the wizard or the chat.
func (w *WizardService) Mode() Mode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode
}

// LastError returns the visible error string from a failed generation,
// "" when the last attempt succeeded.
func (w *WizardService) LastError() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Chat exposes the session this wizard seeds.
func (w *WizardService) Chat() *ChatSession {
	return w.chat
}
