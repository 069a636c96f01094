package picker

// MarkerDiff is the change set that turns one rendered point list into another
type MarkerDiff struct {
	Add    []RoutePoint `json:"add"`
	Update []RoutePoint `json:"update"`
	Remove []string     `json:"remove"`
}

// Empty reports whether the diff changes nothing
func (d MarkerDiff) Empty() bool {
	return len(d.Add) == 0 && len(d.Update) == 0 && len(d.Remove) == 0
}

// MarkerSurface is anything that renders point markers, keyed by point id
type MarkerSurface interface {
	ApplyMarkers(diff MarkerDiff)
}

// DiffMarkers compares two point lists by id. Points only in next are added,
// points only in prev are removed, and points in both whose role, location
// or lock changed are updated.
func DiffMarkers(prev, next []RoutePoint) MarkerDiff {
	before := make(map[string]RoutePoint, len(prev))
	for _, p := range prev {
		before[p.ID] = p
	}
	after := make(map[string]struct{}, len(next))

	var diff MarkerDiff
	for _, p := range next {
		after[p.ID] = struct{}{}
		old, ok := before[p.ID]
		switch {
		case !ok:
			diff.Add = append(diff.Add, p)
		case old != p:
			diff.Update = append(diff.Update, p)
		}
	}
	for _, p := range prev {
		if _, ok := after[p.ID]; !ok {
			diff.Remove = append(diff.Remove, p.ID)
		}
	}
	return diff
}
