package legs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datedLegs(t *testing.T, dates ...[2]string) *Builder {
	t.Helper()
	b, dir := newTestBuilder(t)
	for i, d := range dates {
		leg, err := b.AddLeg(false)
		require.NoError(t, err)
		update := LegUpdate{StartDate: strPtr(d[0]), EndDate: strPtr(d[1])}
		if i == 0 {
			update.From = office(t, dir, "dict-co")
		}
		update.To = office(t, dir, []string{"dict-r7", "dict-r11", "dict-r3"}[i%3])
		_, err = b.UpdateLeg(leg.ID, update)
		require.NoError(t, err)
	}
	return b
}

func TestValidateDates_OverlapWithPreviousLeg(t *testing.T) {
	b := datedLegs(t,
		[2]string{"2026-03-02", "2026-03-05"},
		[2]string{"2026-03-04", "2026-03-06"},
	)

	errs := b.ValidateDates()

	require.Len(t, errs, 1)
	assert.Contains(t, errs, "leg-2.startDate")
}

func TestValidateDates_Valid(t *testing.T) {
	b := datedLegs(t,
		[2]string{"2026-03-01", "2026-03-05"},
		[2]string{"2026-03-05", "2026-03-06"},
	)

	assert.Empty(t, b.ValidateDates())
	assert.Empty(t, b.Validate())
}

func TestValidateDates_EndBeforeStart(t *testing.T) {
	b := datedLegs(t, [2]string{"2026-03-04", "2026-03-02"})

	errs := b.ValidateDates()

	require.Len(t, errs, 1)
	assert.Equal(t, "End date cannot be before start date", errs["leg-1.endDate"])
}

func TestValidateDates_FirstLegInPast(t *testing.T) {
	b := datedLegs(t, [2]string{"2026-02-27", "2026-03-02"})

	errs := b.ValidateDates()

	require.Len(t, errs, 1)
	assert.Equal(t, "Start date cannot be in the past", errs["leg-1.startDate"])
}

func TestValidateDates_MalformedDate(t *testing.T) {
	b := datedLegs(t, [2]string{"03/02/2026", "2026-03-02"})

	errs := b.ValidateDates()
	assert.Contains(t, errs, "leg-1.startDate")
}

func TestValidate_RequiredFields(t *testing.T) {
	b, _ := newTestBuilder(t)
	_, err := b.AddLeg(false)
	require.NoError(t, err)

	assert.Empty(t, b.ValidateDates())

	errs := b.Validate()
	assert.Equal(t, ValidationErrors{
		"leg-1.from":      "Origin is required",
		"leg-1.to":        "Destination is required",
		"leg-1.startDate": "Start date is required",
		"leg-1.endDate":   "End date is required",
	}, errs)
}
