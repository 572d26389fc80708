package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/dispensary_backend/repositories"
)

const dateLayout = "2006-01-02"

// ParseListOptions reads page, limit, search, status, category, from and to
// from the query string. Bad numbers fall back to defaults; bad dates fail.
func ParseListOptions(c echo.Context) (repositories.ListOptions, error) {
	opts := repositories.ListOptions{
		Page:     atoiOr(c.QueryParam("page"), 1),
		Limit:    atoiOr(c.QueryParam("limit"), repositories.DefaultPageSize),
		Search:   strings.TrimSpace(c.QueryParam("search")),
		Status:   strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))),
		Category: strings.TrimSpace(c.QueryParam("category")),
	}

	from, err := ParseDate(c.QueryParam("from"), false)
	if err != nil {
		return opts, fmt.Errorf("from: %w", err)
	}
	to, err := ParseDate(c.QueryParam("to"), true)
	if err != nil {
		return opts, fmt.Errorf("to: %w", err)
	}
	if from != nil && to != nil && to.Before(*from) {
		return opts, fmt.Errorf("to is before from")
	}
	opts.From, opts.To = from, to

	return opts.Normalize(), nil
}

// ParseDate accepts YYYY-MM-DD or RFC3339. A bare date used as the end of a
// range covers the whole day. Empty input yields nil.
func ParseDate(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func atoiOr(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return n
}
