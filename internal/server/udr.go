package server

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

var yearMonthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// GetUdrForSubscriber returns the aggregated usage for one subscriber, either
// for all time or scoped to a single month when yearAndMonth is supplied.
func (s *Server) GetUdrForSubscriber(c *gin.Context) {
	var verrs ValidationErrors

	msisdn := strings.TrimSpace(c.Query("msisdn"))
	if msisdn == "" {
		verrs = append(verrs, ValidationError{Field: "msisdn", Message: "is required"})
	}

	rawMonth := strings.TrimSpace(c.Query("yearAndMonth"))
	var year, month int
	if rawMonth != "" {
		var err error
		year, month, err = parseYearMonth(rawMonth)
		if err != nil {
			verrs = append(verrs, ValidationError{Field: "yearAndMonth", Message: "must match YYYY-MM"})
		}
	}

	if len(verrs) > 0 {
		AbortWithError(c, verrs)
		return
	}

	ctx := c.Request.Context()
	if rawMonth == "" {
		udr, err := s.udrsvc.ForSubscriberForAllTime(ctx, msisdn)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, udr)
		return
	}

	udr, err := s.udrsvc.ForSubscriberForMonth(ctx, msisdn, year, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, udr)
}

// GetUdrForAllSubscribers returns one usage record per subscriber for the
// requested month.
func (s *Server) GetUdrForAllSubscribers(c *gin.Context) {
	rawMonth := strings.TrimSpace(c.Query("yearAndMonth"))
	if rawMonth == "" {
		AbortWithError(c, ValidationErrors{{Field: "yearAndMonth", Message: "is required"}})
		return
	}

	year, month, err := parseYearMonth(rawMonth)
	if err != nil {
		AbortWithError(c, ValidationErrors{{Field: "yearAndMonth", Message: "must match YYYY-MM"}})
		return
	}

	udrs, err := s.udrsvc.ForAllSubscribersForMonth(c.Request.Context(), year, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, udrs)
}

func parseYearMonth(raw string) (year, month int, err error) {
	if !yearMonthPattern.MatchString(raw) {
		return 0, 0, strconv.ErrSyntax
	}

	year, err = strconv.Atoi(raw[:4])
	if err != nil {
		return 0, 0, err
	}
	month, err = strconv.Atoi(raw[5:])
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}
