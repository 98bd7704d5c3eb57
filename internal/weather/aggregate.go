package weather

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateCity   = errors.New("duplicate city in pass")
	ErrOutcomeMismatch = errors.New("outcome count does not match city count")
)

// AggregateOutcomes combines the settled per-city outcomes of a pass into a
// single map keyed by city name. outcomes[i] must belong to cities[i].
// Duplicate names are rejected since they would silently drop a city.
func AggregateOutcomes(cities []City, outcomes []Outcome) (OutcomeMap, error) {
	if len(cities) != len(outcomes) {
		return nil, fmt.Errorf("%w: %d cities, %d outcomes", ErrOutcomeMismatch, len(cities), len(outcomes))
	}

	m := make(OutcomeMap, len(cities))
	for i, c := range cities {
		if _, exists := m[c.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCity, c.Name)
		}
		m[c.Name] = outcomes[i]
	}

	return m, nil
}
