package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const reportDateLayout = "2006-01-02"

// GenerateCdr regenerates one year of synthetic call records for the whole
// subscriber directory.
func (s *Server) GenerateCdr(c *gin.Context) {
	count, err := s.cdrsvc.GenerateForOneYear(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"generated": count})
}

// GenerateCdrReport writes the call report for one subscriber over an
// inclusive day range and returns the report identity.
func (s *Server) GenerateCdrReport(c *gin.Context) {
	var verrs ValidationErrors

	msisdn := strings.TrimSpace(c.Query("msisdn"))
	if msisdn == "" {
		verrs = append(verrs, ValidationError{Field: "msisdn", Message: "is required"})
	}

	startDate, err := parseReportDate(c.Query("startDate"))
	if err != nil {
		verrs = append(verrs, ValidationError{Field: "startDate", Message: "must be a date in YYYY-MM-DD format"})
	}
	endDate, err := parseReportDate(c.Query("endDate"))
	if err != nil {
		verrs = append(verrs, ValidationError{Field: "endDate", Message: "must be a date in YYYY-MM-DD format"})
	}

	if len(verrs) > 0 {
		AbortWithError(c, verrs)
		return
	}

	token := uuid.New()
	fileName, err := s.cdrsvc.GenerateReport(c.Request.Context(), msisdn, startDate, endDate, token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uuid": token.String(),
		"file": fileName,
	})
}

func parseReportDate(raw string) (time.Time, error) {
	return time.Parse(reportDateLayout, strings.TrimSpace(raw))
}
