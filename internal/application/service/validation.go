package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/erpdesk/erpdesk-api/pkg/apperror"
	"github.com/erpdesk/erpdesk-api/pkg/datetime"
	"github.com/erpdesk/erpdesk-api/pkg/money"
)

const (
	maxNameLength    = 100
	maxContactLength = 255
)

// requireName trims value and records an error when it is blank or too long.
func requireName(errs *apperror.FieldErrors, field, value string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		errs.Add(field, "is required")
	case utf8.RuneCountInString(value) > maxNameLength:
		errs.Add(field, fmt.Sprintf("must be at most %d characters", maxNameLength))
	}
	return value
}

// optionalText trims value, turning blanks into nil, and enforces max when positive.
func optionalText(errs *apperror.FieldErrors, field string, value *string, max int) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	if max > 0 && utf8.RuneCountInString(trimmed) > max {
		errs.Add(field, fmt.Sprintf("must be at most %d characters", max))
	}
	return &trimmed
}

// checkLine validates the quantity, rate and date of a purchase or sale and
// returns the rate in cents. A line whose total would not fit in int64 is
// rejected, so money.LineTotal is safe afterwards.
func checkLine(errs *apperror.FieldErrors, quantity int, rate float64, date datetime.Date) int64 {
	if quantity <= 0 {
		errs.Add("quantity", "must be greater than 0")
	}
	var cents int64
	switch {
	case !(rate > 0):
		errs.Add("rate", "must be greater than 0")
	case rate > money.MaxRate:
		errs.Add("rate", fmt.Sprintf("must be at most %.0f", money.MaxRate))
	default:
		if cents = money.ToCents(rate); cents <= 0 {
			errs.Add("rate", "must be greater than 0")
		}
	}
	if !money.LineTotalFits(quantity, cents) {
		errs.Add("quantity", "makes the total too large")
	}
	if date.IsZero() {
		errs.Add("date", "is required")
	}
	return cents
}

// checkDateRange rejects a start date after the end date.
func checkDateRange(start, end *datetime.Date) error {
	if start != nil && end != nil && !start.IsZero() && !end.IsZero() && start.After(*end) {
		return apperror.NewBadRequestError("start_date must not be after end_date")
	}
	return nil
}
