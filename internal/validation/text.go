package validation

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/fixedpoint"
)

var strictHTMLPolicy = bluemonday.StrictPolicy()

// ContainsMarkup reports whether s carries any HTML that the strict policy would strip.
func ContainsMarkup(s string) bool {
	return html.UnescapeString(strictHTMLPolicy.Sanitize(s)) != s
}

// checkText records a field error for empty, oversized or markup-bearing values.
func checkText(errs map[string]string, field, value string, max int) {
	if strings.TrimSpace(value) == "" {
		errs[field] = fmt.Sprintf("%s is required", field)
		return
	}
	checkFreeText(errs, field, value, max)
}

// checkFreeText is checkText without the presence requirement.
func checkFreeText(errs map[string]string, field, value string, max int) {
	switch {
	case len(value) > max:
		errs[field] = fmt.Sprintf("%s must be at most %d bytes", field, max)
	case ContainsMarkup(value):
		errs[field] = fmt.Sprintf("%s must not contain markup", field)
	}
}

// checkAmount parses an unsigned decimal and records a field error on failure.
func checkAmount(errs map[string]string, field, value string, positive bool) fixedpoint.Amount {
	if strings.TrimSpace(value) == "" {
		errs[field] = fmt.Sprintf("%s is required", field)
		return 0
	}
	v, err := fixedpoint.Parse(strings.TrimSpace(value))
	if err != nil {
		errs[field] = err.Error()
		return 0
	}
	if positive && v == 0 {
		errs[field] = fmt.Sprintf("%s must be positive", field)
	}
	return v
}

// ParseDate parses a date string in "2006-01-02" or RFC3339 format.
func ParseDate(str string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", str)
	if err != nil {
		t, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return t.UTC(), nil
}
