package itinerary

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

// ContentHasher keys itineraries by the content they are written from
type ContentHasher struct{}

// NewContentHasher creates a new content hasher
func NewContentHasher() *ContentHasher {
	return &ContentHasher{}
}

// HashRequest hashes the parts of req that change the itinerary text. Leg
// ids, geometry and coordinates are ignored.
func (h *ContentHasher) HashRequest(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s", h.normalizeText(req.Traveler), h.normalizeText(req.Purpose))
	for _, leg := range req.Legs {
		fmt.Fprintf(&b, "|%s>%s", h.normalizeText(leg.From.Name), h.normalizeText(leg.To.Name))
		for _, wp := range leg.Waypoints {
			fmt.Fprintf(&b, "~%s", h.normalizeText(wp.Name))
		}
		fmt.Fprintf(&b, "#%.1f#%s#%s#%t#%t", leg.DistanceKm, leg.StartDate, leg.EndDate, leg.Direct, leg.IsReturn)
	}

	hash := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%x", hash)
}

// normalizeText lowercases and collapses whitespace
func (h *ContentHasher) normalizeText(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(strings.ToLower(text), " "))
}
