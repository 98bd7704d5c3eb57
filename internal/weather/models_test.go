package weather

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeIsExactlyOneVariant(t *testing.T) {
	s := Success(CurrentWeather{Temperature: 70})
	_, failed := s.Err()
	w, ok := s.Weather()
	assert.True(t, ok)
	assert.False(t, failed)
	assert.Equal(t, 70, w.Temperature)

	f := Failure("timeout")
	msg, failed := f.Err()
	_, ok = f.Weather()
	assert.False(t, ok)
	assert.True(t, failed)
	assert.Equal(t, "timeout", msg)
}

func TestFailureWithoutMessage(t *testing.T) {
	msg, _ := Failure("").Err()
	assert.Equal(t, GenericFailure, msg)

	// The zero Outcome is a failure too.
	msg, failed := Outcome{}.Err()
	assert.True(t, failed)
	assert.Equal(t, GenericFailure, msg)
}

func TestOutcomeJSON(t *testing.T) {
	b, err := json.Marshal(OutcomeMap{
		"Houston": Success(CurrentWeather{Temperature: 73, FeelsLike: 73, Condition: Condition{Code: 2}}),
		"Chicago": Failure("boom"),
	})
	require.NoError(t, err)

	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "success", decoded["Houston"]["status"])
	assert.Equal(t, float64(73), decoded["Houston"]["weather"].(map[string]any)["temperature"])
	assert.Equal(t, "failure", decoded["Chicago"]["status"])
	assert.Equal(t, "boom", decoded["Chicago"]["error"])
}

func TestStateConstructors(t *testing.T) {
	assert.False(t, Loading().Terminal())
	assert.True(t, Ready(OutcomeMap{}).Terminal())
	assert.True(t, FatalError("x").Terminal())
	assert.Equal(t, 1, OutcomeMap{"a": Failure("x"), "b": Success(CurrentWeather{})}.Failed())
}

func TestAggregateOutcomes(t *testing.T) {
	cities := []City{{Name: "Houston"}, {Name: "Chicago"}}

	m, err := AggregateOutcomes(cities, []Outcome{Success(CurrentWeather{}), Failure("x")})
	require.NoError(t, err)
	assert.Len(t, m, 2)
	assert.True(t, m["Houston"].OK())
	assert.False(t, m["Chicago"].OK())

	_, err = AggregateOutcomes(cities, []Outcome{Failure("x")})
	assert.True(t, errors.Is(err, ErrOutcomeMismatch))

	_, err = AggregateOutcomes([]City{{Name: "Houston"}, {Name: "Houston"}}, []Outcome{Failure("a"), Failure("b")})
	assert.True(t, errors.Is(err, ErrDuplicateCity))
}
