package stubserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Missing username or password"})
		return
	}

	user, err := s.store.Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Invalid credentials"})
		return
	}

	token, err := s.tokens.Issue(user.UID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"uid":          user.UID,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"idToken":      token,
	})
}

func (s *Server) signup(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Missing email or password"})
		return
	}

	user, err := s.store.Register(req.Username, req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"status": "error", "message": err.Error()})
		return
	}

	token, err := s.tokens.Issue(user.UID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"uid":          user.UID,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"idToken":      token,
	})
}

func (s *Server) verifyToken(c *gin.Context) {
	var req struct {
		IDToken string `json:"idToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IDToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Missing idToken"})
		return
	}

	claims, err := s.tokens.Verify(req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Invalid or expired token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"uid":    claims.UID,
		"email":  claims.Email,
	})
}
