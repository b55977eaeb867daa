package stubserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

var requiredIntakeKeys = []string{
	"firebase_uid", "gender", "age", "goal", "experience",
	"days_per_week", "equipment", "style",
}

func (s *Server) checkExisting(c *gin.Context) {
	var req struct {
		FirebaseUID string `json:"firebase_uid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.FirebaseUID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing firebase_uid"})
		return
	}

	latest := s.store.LatestProgram(req.FirebaseUID)
	if latest == "" {
		c.JSON(http.StatusOK, gin.H{"exists": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": true, "latest_program": latest})
}

func (s *Server) generateWorkout(c *gin.Context) {
	var data map[string]string
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No input data provided"})
		return
	}

	var missing []string
	for _, key := range requiredIntakeKeys {
		if data[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields: " + strings.Join(missing, ", ")})
		return
	}

	uid := data["firebase_uid"]
	days, _ := strconv.Atoi(data["days_per_week"])
	program := cannedProgram(data)
	s.store.AppendProgram(uid, program, days)
	s.store.AddConversation(uid, "Workout Plan", []storedMessage{
		{Role: "ai", Content: program},
	})

	c.JSON(http.StatusOK, gin.H{"program": program})
}

func (s *Server) chatFollowUp(c *gin.Context) {
	var req struct {
		FirebaseUID string `json:"firebase_uid"`
		Feedback    string `json:"feedback"`
		CurrentPlan string `json:"current_plan"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.FirebaseUID == "" || req.Feedback == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing firebase_uid or feedback"})
		return
	}

	current := req.CurrentPlan
	if current == "" {
		current = s.store.LatestProgram(req.FirebaseUID)
	}
	if current == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No previous program found"})
		return
	}

	s.store.AppendConversationMessages(req.FirebaseUID, storedMessage{Role: "user", Content: req.Feedback})

	// Adjustment feedback yields a new program version; anything else
	// gets a conversational answer.
	if wantsAdjustment(req.Feedback) {
		adjusted := current + "\n\n[Adjusted per feedback: " + req.Feedback + "]"
		days := 3
		s.store.AppendProgram(req.FirebaseUID, adjusted, days)
		s.store.AppendConversationMessages(req.FirebaseUID, storedMessage{Role: "ai", Content: adjusted})
		c.JSON(http.StatusOK, gin.H{"adjusted_program": adjusted})
		return
	}

	answer := "Coach says: stick with the plan and focus on form. (" + req.Feedback + ")"
	s.store.AppendConversationMessages(req.FirebaseUID, storedMessage{Role: "ai", Content: answer})
	c.JSON(http.StatusOK, gin.H{"response": answer})
}

func wantsAdjustment(feedback string) bool {
	f := strings.ToLower(feedback)
	for _, kw := range []string{"harder", "easier", "adjust", "change", "more", "less", "swap"} {
		if strings.Contains(f, kw) {
			return true
		}
	}
	return false
}

func (s *Server) conversationHistory(c *gin.Context) {
	uid := c.Param("uid")
	c.JSON(http.StatusOK, s.store.Conversations(uid))
}

func (s *Server) conversationMessages(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("conversationId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation id"})
		return
	}
	msgs, ok := s.store.ConversationMessages(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}
	out := make([]gin.H, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, gin.H{"role": m.Role, "content": m.Content})
	}
	c.JSON(http.StatusOK, out)
}

func cannedProgram(data map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Week 1 - %s program (%s, %s)\n", data["style"], data["goal"], data["experience"])
	fmt.Fprintf(&b, "Training %s days per week with %s.\n\n", data["days_per_week"], data["equipment"])
	days, _ := strconv.Atoi(data["days_per_week"])
	if days < 1 || days > 7 {
		days = 3
	}
	for d := 1; d <= days; d++ {
		fmt.Fprintf(&b, "Day %d: 3 sets x 10 reps, 60s rest.\n", d)
	}
	return b.String()
}
