package httpapi

import (
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	cardOK    = "ok"
	cardError = "error"
)

// cardView is one city tile on a dashboard view.
type cardView struct {
	City    string       `json:"city"`
	Status  string       `json:"status"`
	Weather *weatherView `json:"weather,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type weatherView struct {
	Temperature int       `json:"temperatureF"`
	FeelsLike   int       `json:"feelsLikeF"`
	Humidity    int       `json:"humidityPercent"`
	WindSpeed   float64   `json:"windSpeedMph"`
	UVIndex     float64   `json:"uvIndex"`
	Code        int       `json:"code"`
	Condition   Condition `json:"condition"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
}

func renderCard(name string, o weather.Outcome) cardView {
	w, ok := o.Weather()
	if !ok {
		msg, _ := o.Err()
		return cardView{City: name, Status: cardError, Error: msg}
	}

	info := describeCode(w.Condition.Code)
	return cardView{
		City:   name,
		Status: cardOK,
		Weather: &weatherView{
			Temperature: w.Temperature,
			FeelsLike:   w.FeelsLike,
			Humidity:    w.Humidity,
			WindSpeed:   w.WindSpeed,
			UVIndex:     w.UVIndex,
			Code:        w.Condition.Code,
			Condition:   info.Kind,
			Description: info.Description,
			Icon:        info.Icon,
		},
	}
}

// renderCards lays out one card per city in the view's order.
func renderCards(cities []weather.City, m weather.OutcomeMap) []cardView {
	cards := make([]cardView, 0, len(cities))
	for _, c := range cities {
		o, ok := m[c.Name]
		if !ok {
			o = weather.Failure("")
		}
		cards = append(cards, renderCard(c.Name, o))
	}
	return cards
}
