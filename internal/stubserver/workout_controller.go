package stubserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/model"
)

func (s *Server) currentWorkout(c *gin.Context) {
	uid := c.Param("uid")
	plan, ok := s.store.Plan(uid)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active workout plan"})
		return
	}

	total, completed := 0, 0
	for _, days := range plan {
		for _, day := range days {
			for _, ex := range day.Exercises {
				total++
				if ex.Completed {
					completed++
				}
			}
		}
	}
	pct := 0.0
	if total > 0 {
		pct = float64(completed) / float64(total) * 100
	}

	c.JSON(http.StatusOK, model.CurrentWorkout{
		UserID:               uid,
		ProgramID:            1,
		ProgramName:          "Current Program",
		Plan:                 plan,
		CompletionPercentage: pct,
		TotalExercises:       total,
		CompletedExercises:   completed,
	})
}

func (s *Server) workoutProgress(c *gin.Context) {
	uid := c.Param("uid")
	c.JSON(http.StatusOK, gin.H{"progress": s.store.ProgressFor(uid)})
}

func (s *Server) toggleExercise(c *gin.Context) {
	id := c.Param("id")
	var req struct {
		Completed *bool `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Completed == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing completed flag"})
		return
	}
	if !s.store.SetExerciseCompleted(id, *req.Completed) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Exercise not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "exercise_id": id, "completed": *req.Completed})
}

func (s *Server) completeDay(c *gin.Context) {
	var req struct {
		UserID    string                  `json:"user_id"`
		Week      string                  `json:"week"`
		Day       string                  `json:"day"`
		Duration  int                     `json:"duration"`
		Notes     string                  `json:"notes"`
		Exercises []model.SessionExercise `json:"exercises"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.Week == "" || req.Day == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user_id, week or day"})
		return
	}
	if _, err := strconv.Atoi(req.Week); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid week"})
		return
	}

	s.store.AddLog(req.UserID, "Week "+req.Week, "Day "+req.Day, req.Duration)
	c.JSON(http.StatusOK, gin.H{"success": true, "logged_exercises": len(req.Exercises)})
}
