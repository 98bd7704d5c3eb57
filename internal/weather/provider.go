package weather

import (
	"context"
)

// Fetcher fetches current weather for a single city. Implementations must
// never panic or block forever, and must be safe for concurrent use across
// cities.
type Fetcher interface {
	FetchCityWeather(ctx context.Context, city City) Outcome
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, city City) Outcome

func (f FetcherFunc) FetchCityWeather(ctx context.Context, city City) Outcome {
	return f(ctx, city)
}

// Observer receives every state transition of a pass, tagged with its ID.
type Observer func(passID string, state State)
