package itinerary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/legs"
)

// templateSummarizer writes a deterministic itinerary without any model
type templateSummarizer struct {
	now func() time.Time
}

// NewTemplateSummarizer creates the offline summarizer
func NewTemplateSummarizer() Summarizer {
	return &templateSummarizer{now: time.Now}
}

func (t *templateSummarizer) Summarize(ctx context.Context, req Request) (Itinerary, error) {
	it := baseItinerary(req)
	it.GeneratedBy = "template"
	it.GeneratedAt = t.now()

	if len(req.Legs) == 0 {
		it.Title = "Travel itinerary"
		it.Narrative = "No travel legs have been added."
		return it, nil
	}

	first := req.Legs[0]
	last := req.Legs[len(req.Legs)-1]
	it.Title = fmt.Sprintf("%s to %s", placeName(first.From.Name), placeName(furthestStop(req.Legs)))

	var b strings.Builder
	if req.Traveler != "" {
		fmt.Fprintf(&b, "%s will travel", req.Traveler)
	} else {
		b.WriteString("Travel")
	}
	fmt.Fprintf(&b, " from %s", placeName(first.From.Name))
	if span := dateSpan(it.StartDate, it.EndDate); span != "" {
		fmt.Fprintf(&b, " %s", span)
	}
	if req.Purpose != "" {
		fmt.Fprintf(&b, " for %s", strings.TrimSuffix(strings.TrimSpace(req.Purpose), "."))
	}
	fmt.Fprintf(&b, ", covering %d leg", len(req.Legs))
	if len(req.Legs) != 1 {
		b.WriteString("s")
	}
	fmt.Fprintf(&b, " and about %.1f km", it.TotalDistanceKm)
	if last.IsReturn {
		fmt.Fprintf(&b, " before returning to %s", placeName(last.To.Name))
	}
	b.WriteString(".")
	it.Narrative = b.String()

	return it, nil
}

func (t *templateSummarizer) HealthCheck(ctx context.Context) error {
	return nil
}

// baseItinerary fills the fields every summarizer derives from the legs
func baseItinerary(req Request) Itinerary {
	it := Itinerary{Lines: make([]string, 0, len(req.Legs))}
	for _, leg := range req.Legs {
		it.TotalDistanceKm += leg.DistanceKm
		it.Lines = append(it.Lines, legLine(leg))
	}
	it.TotalDistanceKm = float64(int64(it.TotalDistanceKm*10+0.5)) / 10
	if len(req.Legs) > 0 {
		it.StartDate = req.Legs[0].StartDate
		it.EndDate = req.Legs[len(req.Legs)-1].EndDate
	}
	return it
}

// legLine renders one leg, e.g.
// "Mar 2, 2026: DICT Central Office to Cebu City via Tagaytay (571.0 km, direct estimate)"
func legLine(leg legs.TravelLeg) string {
	var b strings.Builder
	if d := formatDate(leg.StartDate); d != "" {
		b.WriteString(d)
		if end := formatDate(leg.EndDate); end != "" && leg.EndDate != leg.StartDate {
			fmt.Fprintf(&b, " to %s", end)
		}
		b.WriteString(": ")
	}

	fmt.Fprintf(&b, "%s to %s", placeName(leg.From.Name), placeName(leg.To.Name))
	if len(leg.Waypoints) > 0 {
		names := make([]string, len(leg.Waypoints))
		for i, wp := range leg.Waypoints {
			names[i] = placeName(wp.Name)
		}
		fmt.Fprintf(&b, " via %s", strings.Join(names, ", "))
	}

	fmt.Fprintf(&b, " (%.1f km", leg.DistanceKm)
	if leg.Direct {
		b.WriteString(", direct estimate")
	}
	b.WriteString(")")
	if leg.IsReturn {
		b.WriteString(" [return]")
	}
	return b.String()
}

// furthestStop is the last destination before the return phase
func furthestStop(ls []legs.TravelLeg) string {
	for i := len(ls) - 1; i >= 0; i-- {
		if !ls[i].IsReturn {
			return ls[i].To.Name
		}
	}
	return ls[len(ls)-1].To.Name
}

func dateSpan(start, end string) string {
	s, e := formatDate(start), formatDate(end)
	switch {
	case s != "" && e != "" && start != end:
		return fmt.Sprintf("between %s and %s", s, e)
	case s != "":
		return "on " + s
	}
	return ""
}

func formatDate(s string) string {
	t, err := time.Parse(legs.DateLayout, s)
	if err != nil {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func placeName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "an unspecified location"
	}
	return strings.TrimSpace(name)
}
