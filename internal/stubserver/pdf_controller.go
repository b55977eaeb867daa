package stubserver

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

func (s *Server) exportPDF(c *gin.Context) {
	var req struct {
		FirebaseUID string `json:"firebase_uid"`
		Version     int    `json:"version"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.FirebaseUID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing firebase_uid"})
		return
	}

	program, ok := s.store.Program(req.FirebaseUID, req.Version)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Program version not found"})
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Workout Plan", "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Arial", "", 11)
	for _, line := range strings.Split(program, "\n") {
		pdf.MultiCell(0, 6, line, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "PDF generation failed"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=workout_plan.pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
