package services

import (
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// Dashboard period presets.
const (
	PeriodCurrentMonth = "current_month"
	PeriodLastMonth    = "last_month"
	PeriodLast3Months  = "last_3_months"
	PeriodCurrentYear  = "current_year"
	PeriodCustom       = "custom"
)

// ResolvePeriod turns a preset into an inclusive date range ending relative to today.
// Unknown presets fall back to the current month. For custom, a missing from defaults
// to the first of the month and a missing to defaults to today.
func ResolvePeriod(preset string, today time.Time, from, to *time.Time) (domain.Period, error) {
	today = domain.DateOnly(today)
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	p := domain.Period{Preset: preset, From: firstOfMonth, To: today}
	switch preset {
	case PeriodLastMonth:
		lastDayOfPrev := firstOfMonth.AddDate(0, 0, -1)
		p.From = time.Date(lastDayOfPrev.Year(), lastDayOfPrev.Month(), 1, 0, 0, 0, 0, time.UTC)
		p.To = lastDayOfPrev
	case PeriodLast3Months:
		p.From = today.AddDate(0, 0, -90)
	case PeriodCurrentYear:
		p.From = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case PeriodCustom:
		if from != nil {
			p.From = domain.DateOnly(*from)
		}
		if to != nil {
			p.To = domain.DateOnly(*to)
		}
		if p.From.After(p.To) {
			return domain.Period{}, apperrors.NewValidationErrors(map[string]string{
				"dateFrom": "start date must not be after end date",
			})
		}
	default:
		p.Preset = PeriodCurrentMonth
	}
	return p, nil
}
