package weather

import (
	"github.com/goccy/go-json"
)

// PlaceholderDescription is set on every fetched Condition. Human-readable
// text is derived from the numeric code by the presentation layer.
const PlaceholderDescription = "Current conditions"

// GenericFailure is the message carried by a Failure that has no better one.
const GenericFailure = "failed to fetch"

// City is a named location with fixed coordinates.
type City struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Condition is the raw WMO weather code plus a description.
type Condition struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}

// CurrentWeather is the normalized snapshot produced by a single fetch.
// Temperatures are whole degrees Fahrenheit, wind speed is mph.
type CurrentWeather struct {
	Temperature int       `json:"temperature"`
	FeelsLike   int       `json:"feelsLike"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"`
	UVIndex     float64   `json:"uvIndex"`
	Condition   Condition `json:"condition"`
}

// Outcome is the result of fetching one city: either a snapshot or a
// failure message, never both.
type Outcome struct {
	weather CurrentWeather
	failure string
	ok      bool
}

// Success wraps a fetched snapshot.
func Success(w CurrentWeather) Outcome {
	return Outcome{weather: w, ok: true}
}

// Failure wraps a failure message. An empty message becomes GenericFailure.
func Failure(msg string) Outcome {
	if msg == "" {
		msg = GenericFailure
	}
	return Outcome{failure: msg}
}

// OK reports whether the outcome is a Success.
func (o Outcome) OK() bool {
	return o.ok
}

// Weather returns the snapshot of a Success.
func (o Outcome) Weather() (CurrentWeather, bool) {
	return o.weather, o.ok
}

// Err returns the message of a Failure.
func (o Outcome) Err() (string, bool) {
	if o.ok {
		return "", false
	}
	if o.failure == "" {
		return GenericFailure, true
	}
	return o.failure, true
}

type outcomeJSON struct {
	Status  string          `json:"status"`
	Weather *CurrentWeather `json:"weather,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// MarshalJSON renders the outcome as {"status":"success","weather":{...}}
// or {"status":"failure","error":"..."}.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if w, ok := o.Weather(); ok {
		return json.Marshal(outcomeJSON{Status: "success", Weather: &w})
	}
	msg, _ := o.Err()
	return json.Marshal(outcomeJSON{Status: "failure", Error: msg})
}

// OutcomeMap maps a city name to the outcome of its fetch within one pass.
type OutcomeMap map[string]Outcome

// Failed returns the number of failed cities.
func (m OutcomeMap) Failed() int {
	n := 0
	for _, o := range m {
		if !o.OK() {
			n++
		}
	}
	return n
}

// Phase is the stage of an orchestration pass.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFatal   Phase = "error"
)

// State is what observers of a pass see. Outcomes is set only when Ready,
// Err only when the pass failed as a whole.
type State struct {
	Phase    Phase      `json:"state"`
	Outcomes OutcomeMap `json:"outcomes,omitempty"`
	Err      string     `json:"error,omitempty"`
}

// Loading is the initial state of every pass.
func Loading() State {
	return State{Phase: PhaseLoading}
}

// Ready publishes the complete outcome map of a pass.
func Ready(m OutcomeMap) State {
	return State{Phase: PhaseReady, Outcomes: m}
}

// FatalError reports a pass-wide failure.
func FatalError(msg string) State {
	return State{Phase: PhaseFatal, Err: msg}
}

// Terminal reports whether the state ends a pass.
func (s State) Terminal() bool {
	return s.Phase == PhaseReady || s.Phase == PhaseFatal
}
