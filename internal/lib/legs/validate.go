package legs

import (
	"strings"
	"time"
)

const (
	fieldFrom      = "from"
	fieldTo        = "to"
	fieldStartDate = "startDate"
	fieldEndDate   = "endDate"
)

// ValidateDates checks date ordering across the sequence. Empty dates are
// skipped here; Validate reports them as missing.
func (b *Builder) ValidateDates() ValidationErrors {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.validateDates()
}

// Validate runs the submission checks: both endpoints and both dates are
// required, then the date ordering rules apply.
func (b *Builder) Validate() ValidationErrors {
	b.mu.RLock()
	defer b.mu.RUnlock()

	errs := ValidationErrors{}
	for _, leg := range b.legs {
		if !b.hasEndpoint(leg.From.ID, leg.From.Name, leg.From.IsPlaced()) {
			errs[FieldKey(leg.ID, fieldFrom)] = "Origin is required"
		}
		if !b.hasEndpoint(leg.To.ID, leg.To.Name, leg.To.IsPlaced()) {
			errs[FieldKey(leg.ID, fieldTo)] = "Destination is required"
		}
		if strings.TrimSpace(leg.StartDate) == "" {
			errs[FieldKey(leg.ID, fieldStartDate)] = "Start date is required"
		}
		if strings.TrimSpace(leg.EndDate) == "" {
			errs[FieldKey(leg.ID, fieldEndDate)] = "End date is required"
		}
	}

	for key, msg := range b.validateDates() {
		if _, exists := errs[key]; !exists {
			errs[key] = msg
		}
	}
	return errs
}

func (b *Builder) validateDates() ValidationErrors {
	errs := ValidationErrors{}
	now := b.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var prevEnd *time.Time
	for i, leg := range b.legs {
		start, startOK := parseDate(leg.StartDate)
		end, endOK := parseDate(leg.EndDate)
		startKey := FieldKey(leg.ID, fieldStartDate)
		endKey := FieldKey(leg.ID, fieldEndDate)

		if leg.StartDate != "" && !startOK {
			errs[startKey] = "Start date must be a valid date (YYYY-MM-DD)"
		}
		if leg.EndDate != "" && !endOK {
			errs[endKey] = "End date must be a valid date (YYYY-MM-DD)"
		}

		if startOK && endOK && end.Before(start) {
			errs[endKey] = "End date cannot be before start date"
		}

		if startOK {
			if i == 0 && start.Before(today) {
				errs[startKey] = "Start date cannot be in the past"
			}
			if i > 0 && prevEnd != nil && start.Before(*prevEnd) {
				errs[startKey] = "Start date cannot be before the previous leg's end date"
			}
		}

		if endOK {
			e := end
			prevEnd = &e
		} else {
			prevEnd = nil
		}
	}
	return errs
}

func (b *Builder) hasEndpoint(officeID, name string, placed bool) bool {
	if _, ok := b.offices.Office(officeID); ok {
		return true
	}
	return strings.TrimSpace(name) != "" && placed
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	return t, err == nil
}
