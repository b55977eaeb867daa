package stubserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var validPeriods = map[string]bool{
	"7_days":   true,
	"30_days":  true,
	"90_days":  true,
	"all_time": true,
}

func (s *Server) fullDashboard(c *gin.Context) {
	uid := c.Param("uid")
	period := c.DefaultQuery("period", "30_days")
	if !validPeriods[period] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid period"})
		return
	}

	progress := s.store.ProgressFor(uid)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"dashboard": gin.H{
			"period": period,
			"overview": gin.H{
				"total_workouts":        progress.TotalWorkouts,
				"current_streak":        progress.CurrentStreak,
				"total_time_minutes":    progress.TotalTime,
				"completion_percentage": progress.CompletionPercentage,
			},
			"exercises": gin.H{
				"total":     progress.TotalExercises,
				"completed": progress.CompletedExercises,
			},
			"achievements": []gin.H{
				{"name": "First Workout", "unlocked": progress.TotalWorkouts > 0},
				{"name": "Week Streak", "unlocked": progress.CurrentStreak >= 7},
			},
		},
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	})
}
