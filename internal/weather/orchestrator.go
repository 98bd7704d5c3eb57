package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
)

var errNoFetcher = errors.New("no weather fetcher configured")

// Orchestrator fans a Fetcher out over a set of cities and joins the
// results into one OutcomeMap per pass.
type Orchestrator struct {
	fetcher Fetcher
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(fetcher Fetcher) *Orchestrator {
	return &Orchestrator{fetcher: fetcher}
}

// NewPassID returns a fresh identifier for an orchestration pass.
func NewPassID() string {
	return uuid.NewString()
}

// Run executes one pass under a fresh pass ID. See RunPass.
func (o *Orchestrator) Run(ctx context.Context, cities []City, observe Observer) State {
	return o.RunPass(ctx, NewPassID(), cities, observe)
}

// RunPass fetches every city concurrently and waits for all of them to
// settle. The observer sees Loading first and then exactly one of Ready or
// FatalError; the terminal state is also returned. A failing city never
// affects its siblings.
func (o *Orchestrator) RunPass(ctx context.Context, passID string, cities []City, observe Observer) State {
	safeObserve(observe, passID, Loading())
	return o.Settle(ctx, passID, cities, observe)
}

// Settle is RunPass for a caller that has already published Loading for
// passID. The observer only sees the terminal state.
func (o *Orchestrator) Settle(ctx context.Context, passID string, cities []City, observe Observer) (final State) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		log.Printf("ERROR: orchestrator: pass %s panicked: %v", passID, r)
		final = FatalError(fmt.Sprintf("orchestration failed: %v", r))
		safeObserve(observe, passID, final)
	}()

	log.Printf("INFO: orchestrator: pass %s started for %d cities", passID, len(cities))

	if o.fetcher == nil {
		final = FatalError(errNoFetcher.Error())
		safeObserve(observe, passID, final)
		return final
	}

	outcomes := make([]Outcome, len(cities))

	var wg sync.WaitGroup
	for i, c := range cities {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = o.fetchContained(ctx, c)
		}()
	}
	wg.Wait()

	m, err := AggregateOutcomes(cities, outcomes)
	if err != nil {
		log.Printf("ERROR: orchestrator: pass %s aggregation failed: %v", passID, err)
		final = FatalError(err.Error())
		safeObserve(observe, passID, final)
		return final
	}

	log.Printf("INFO: orchestrator: pass %s ready (%d cities, %d failed)", passID, len(m), m.Failed())
	final = Ready(m)
	safeObserve(observe, passID, final)
	return final
}

// safeObserve delivers s to observe. A panicking observer is logged and
// never reaches the pass.
func safeObserve(observe Observer, passID string, s State) {
	if observe == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: orchestrator: observer for pass %s panicked on %s: %v", passID, s.Phase, r)
		}
	}()
	observe(passID, s)
}

// fetchContained keeps a misbehaving fetcher from taking the pass down.
func (o *Orchestrator) fetchContained(ctx context.Context, city City) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: orchestrator: fetch for %s panicked: %v", city.Name, r)
			out = Failure(fmt.Sprintf("fetch panicked: %v", r))
		}
	}()
	return o.fetcher.FetchCityWeather(ctx, city)
}
