package location

import (
	"context"
	"errors"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
)

// ErrOutsideCountry is returned by reverse lookups that land outside the
// operating country. Callers treat it as "no match".
var ErrOutsideCountry = errors.New("place is outside the operating country")

// Geocoder resolves free-text queries and map coordinates to places
type Geocoder interface {
	// Search returns ranked matches for query, at most limit of them
	Search(ctx context.Context, query string, limit int) ([]GeocodeResult, error)

	// Reverse returns the place nearest to p
	Reverse(ctx context.Context, p geo.Point) (*GeocodeResult, error)
}
