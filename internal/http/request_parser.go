// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data:
// reference dates, month selectors, horizons and JSON bodies.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"scadenze/internal/core"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// maxHorizonDays bounds ?days= on list endpoints.
const maxHorizonDays = 366

// maxOccurrenceWindowDays bounds the from..to span of an occurrence listing.
const maxOccurrenceWindowDays = maxHorizonDays

// errBadRequest marks malformed query strings or bodies.
var errBadRequest = errors.New("bad request")

// MonthParams holds parsed year/month values from request parameters.
type MonthParams struct {
	Year  int
	Month int
}

// parseToday reads ?today=YYYY-MM-DD, defaulting to fallback.
func parseToday(query url.Values, fallback core.Date) (core.Date, error) {
	return parseDateParam(query, "today", fallback)
}

func parseDateParam(query url.Values, key string, fallback core.Date) (core.Date, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return fallback, nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: %s: %v", errBadRequest, key, err)
	}
	return d, nil
}

// ParseMonthParams extracts year and month from query parameters, defaulting to the month of today.
// Out-of-range months are passed through so the grid builder can reject them.
func ParseMonthParams(query url.Values, today core.Date) (MonthParams, error) {
	params := MonthParams{Year: today.Year(), Month: today.Month()}

	var err error
	if params.Year, err = parseIntParam(query, "year", params.Year); err != nil {
		return MonthParams{}, err
	}
	if params.Month, err = parseIntParam(query, "month", params.Month); err != nil {
		return MonthParams{}, err
	}
	return params, nil
}

// parseDays reads ?days=N in [0, maxHorizonDays].
func parseDays(query url.Values, fallback int) (int, error) {
	days, err := parseIntParam(query, "days", fallback)
	if err != nil {
		return 0, err
	}
	if days < 0 || days > maxHorizonDays {
		return 0, fmt.Errorf("%w: days must be between 0 and %d", errBadRequest, maxHorizonDays)
	}
	return days, nil
}

// checkWindowSpan rejects windows longer than maxOccurrenceWindowDays.
// Reversed windows pass through so the engine reports them.
func checkWindowSpan(from, to core.Date) error {
	if span := core.DaysBetween(from, to); span > maxOccurrenceWindowDays {
		return fmt.Errorf("%w: window spans %d days, max %d", errBadRequest, span, maxOccurrenceWindowDays)
	}
	return nil
}

func parseIntParam(query url.Values, key string, fallback int) (int, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errBadRequest, key)
	}
	return n, nil
}

// decodeJSON reads a single JSON object into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: body must contain a single JSON object", errBadRequest)
	}
	return nil
}
