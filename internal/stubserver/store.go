package stubserver

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/model"
)

// stubUser is the single seeded account of the stub identity provider.
type stubUser struct {
	UID          string
	Email        string
	DisplayName  string
	PasswordHash []byte
}

type storedMessage struct {
	Role    string
	Content string
}

type storedConversation struct {
	ID        int
	Title     string
	CreatedAt time.Time
	Messages  []storedMessage
}

type dayLog struct {
	Week     string
	Day      string
	Date     time.Time
	Duration int
}

// Store keeps all stub state in memory: program versions, the structured
// plan with completion flags, conversations and workout logs, per uid.
// There is no database behind it.
type Store struct {
	mu            sync.RWMutex
	user          *stubUser
	programs      map[string][]string
	plans         map[string]model.WorkoutPlan
	conversations map[string][]*storedConversation
	logs          map[string][]dayLog
	nextConvID    int
}

func NewStore(email, password, displayName string) (*Store, error) {
	if email == "" {
		email = "dev@zenfit.local"
	}
	if password == "" {
		password = "zenfit-dev"
	}
	if displayName == "" {
		displayName = "Dev User"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	return &Store{
		user: &stubUser{
			UID:          "stub-" + displayName,
			Email:        email,
			DisplayName:  displayName,
			PasswordHash: hash,
		},
		programs:      make(map[string][]string),
		plans:         make(map[string]model.WorkoutPlan),
		conversations: make(map[string][]*storedConversation),
		logs:          make(map[string][]dayLog),
		nextConvID:    1,
	}, nil
}

// Authenticate checks the seeded credentials.
func (s *Store) Authenticate(email, password string) (*stubUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if email != s.user.Email {
		return nil, fmt.Errorf("user not found")
	}
	if err := bcrypt.CompareHashAndPassword(s.user.PasswordHash, []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	return s.user, nil
}

// Register replaces the seed account; the stub supports exactly one user.
func (s *Store) Register(username, email, password string) (*stubUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &stubUser{
		UID:          "stub-" + username,
		Email:        email,
		DisplayName:  username,
		PasswordHash: hash,
	}
	return s.user, nil
}

// LatestProgram returns the newest version for uid, "" when none exists.
func (s *Store) LatestProgram(uid string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions := s.programs[uid]
	if len(versions) == 0 {
		return ""
	}
	return versions[len(versions)-1]
}

// Program returns version number n for uid.
func (s *Store) Program(uid string, version int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions := s.programs[uid]
	if version < 0 || version >= len(versions) {
		return "", false
	}
	return versions[version], true
}

// AppendProgram stores a new program version and (re)builds the
// structured plan for it.
func (s *Store) AppendProgram(uid, program string, daysPerWeek int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs[uid] = append(s.programs[uid], program)
	s.plans[uid] = buildPlan(daysPerWeek)
}

// Plan returns a snapshot of the structured plan for uid. Handlers
// marshal the plan after the lock is released, so the live map must not
// escape.
func (s *Store) Plan(uid string) (model.WorkoutPlan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plan, ok := s.plans[uid]
	if !ok {
		return nil, false
	}
	return plan.Clone(), true
}

// SetExerciseCompleted flips one exercise by id, across all users (ids
// are globally unique in the stub).
func (s *Store) SetExerciseCompleted(exerciseID string, completed bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, plan := range s.plans {
		if ex := plan.FindExercise(exerciseID); ex != nil {
			ex.Completed = completed
			return true
		}
	}
	return false
}

// AddConversation records a conversation with its messages.
func (s *Store) AddConversation(uid, title string, messages []storedMessage) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv := &storedConversation{
		ID:        s.nextConvID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
		Messages:  messages,
	}
	s.nextConvID++
	s.conversations[uid] = append(s.conversations[uid], conv)
	return conv.ID
}

// AppendConversationMessages extends the newest conversation of uid.
func (s *Store) AppendConversationMessages(uid string, messages ...storedMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	convs := s.conversations[uid]
	if len(convs) == 0 {
		return
	}
	last := convs[len(convs)-1]
	last.Messages = append(last.Messages, messages...)
}

// Conversations lists uid's conversations, newest last.
func (s *Store) Conversations(uid string) []model.ConversationSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ConversationSummary, 0, len(s.conversations[uid]))
	for _, conv := range s.conversations[uid] {
		out = append(out, model.ConversationSummary{
			ConversationID: conv.ID,
			Title:          conv.Title,
			CreatedAt:      conv.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

// ConversationMessages returns the messages of one conversation.
func (s *Store) ConversationMessages(conversationID int) ([]storedMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, convs := range s.conversations {
		for _, conv := range convs {
			if conv.ID == conversationID {
				return append([]storedMessage(nil), conv.Messages...), true
			}
		}
	}
	return nil, false
}

// AddLog records a completed workout day.
func (s *Store) AddLog(uid, week, day string, duration int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[uid] = append(s.logs[uid], dayLog{
		Week:     week,
		Day:      day,
		Date:     time.Now().UTC(),
		Duration: duration,
	})
}

// ProgressFor derives the progress counters from the stored plan and
// logs.
func (s *Store) ProgressFor(uid string) model.ProgressSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total, completed int
	for _, days := range s.plans[uid] {
		for _, day := range days {
			for _, ex := range day.Exercises {
				total++
				if ex.Completed {
					completed++
				}
			}
		}
	}

	var pct float64
	if total > 0 {
		pct = float64(completed) / float64(total) * 100
	}
	var totalTime int
	for _, l := range s.logs[uid] {
		totalTime += l.Duration
	}
	return model.ProgressSummary{
		CompletionPercentage: pct,
		TotalWorkouts:        len(s.logs[uid]),
		CurrentStreak:        streak(s.logs[uid]),
		TotalTime:            totalTime,
		TotalExercises:       total,
		CompletedExercises:   completed,
	}
}

func streak(logs []dayLog) int {
	days := make(map[string]bool, len(logs))
	for _, l := range logs {
		days[l.Date.Format("2006-01-02")] = true
	}
	count := 0
	for d := time.Now().UTC(); days[d.Format("2006-01-02")]; d = d.AddDate(0, 0, -1) {
		count++
	}
	return count
}

// buildPlan produces the canned two-week structured plan the stub serves
// for any generated program.
func buildPlan(daysPerWeek int) model.WorkoutPlan {
	if daysPerWeek < 1 || daysPerWeek > 7 {
		daysPerWeek = 3
	}
	templates := []struct {
		label     string
		exercises []string
	}{
		{"Push", []string{"Bench Press", "Overhead Press", "Triceps Dips"}},
		{"Pull", []string{"Deadlift", "Barbell Row", "Chin-Ups"}},
		{"Legs", []string{"Back Squat", "Lunges", "Calf Raises"}},
		{"Full Body", []string{"Burpees", "Kettlebell Swings", "Plank"}},
	}

	plan := make(model.WorkoutPlan)
	exID := 0
	for week := 1; week <= 2; week++ {
		weekKey := fmt.Sprintf("Week %d", week)
		plan[weekKey] = make(map[string]model.WorkoutDay)
		for day := 1; day <= daysPerWeek; day++ {
			tmpl := templates[(day-1)%len(templates)]
			exercises := make([]model.Exercise, 0, len(tmpl.exercises))
			for _, name := range tmpl.exercises {
				exID++
				exercises = append(exercises, model.Exercise{
					ID:          fmt.Sprintf("ex-%d", exID),
					Name:        name,
					Sets:        3,
					Reps:        10,
					RestSeconds: 60,
				})
			}
			plan[weekKey][fmt.Sprintf("Day %d", day)] = model.WorkoutDay{
				Label:     tmpl.label,
				Exercises: exercises,
			}
		}
	}
	return plan
}
