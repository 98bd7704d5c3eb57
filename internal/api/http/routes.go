package httpapi

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/cities"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

const (
	ViewFavorites = "favorites"
	ViewAll       = "all"
)

// Dashboard holds what the routes need to mount views.
type Dashboard struct {
	Registry     *cities.Registry
	Favorites    []weather.City
	Orchestrator *weather.Orchestrator
	Fetcher      weather.Fetcher
	Board        *store.Board

	// Ctx is the parent of every pass. Passes outlive the request that
	// started them and stop only when Ctx is done.
	Ctx context.Context
}

func (d *Dashboard) passContext() context.Context {
	if d.Ctx != nil {
		return d.Ctx
	}
	return context.Background()
}

func (d *Dashboard) viewCities(view string) []weather.City {
	if view == ViewFavorites {
		return d.Favorites
	}
	return d.Registry.All()
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, d *Dashboard) {
	v1 := app.Group("/api/v1")

	v1.Get("/cities", func(c *fiber.Ctx) error {
		return c.JSON(d.Registry.All())
	})

	v1.Get("/cities/random", func(c *fiber.Ctx) error {
		city, ok := d.Registry.Random()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no cities configured")
		}
		return c.JSON(city)
	})

	v1.Get("/cities/:name", func(c *fiber.Ctx) error {
		city, ok := d.Registry.Lookup(c.Params("name"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown city")
		}
		return c.JSON(city)
	})

	v1.Get("/views/:view", func(c *fiber.Ctx) error {
		p, err := parseViewParams(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		list := d.viewCities(p.View)
		passID := weather.NewPassID()
		state := d.Orchestrator.RunPass(d.passContext(), passID, list, d.Board.Observer(p.View))
		if state.Phase == weather.PhaseFatal {
			return fiber.NewError(fiber.StatusInternalServerError, state.Err)
		}

		return c.JSON(fiber.Map{
			"view":   p.View,
			"passId": passID,
			"state":  state.Phase,
			"cards":  renderCards(list, state.Outcomes),
		})
	})

	v1.Post("/views/:view/mount", func(c *fiber.Ctx) error {
		p, err := parseViewParams(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		list := d.viewCities(p.View)
		passID := weather.NewPassID()
		observe := d.Board.Observer(p.View)

		// Loading is published here, once, so the state endpoint never
		// reports the previous pass for this mount. The background pass
		// only publishes its terminal state.
		observe(passID, weather.Loading())
		go d.Orchestrator.Settle(d.passContext(), passID, list, observe)

		log.Printf("INFO: http: mounted view %s as pass %s", p.View, passID)
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"view":   p.View,
			"passId": passID,
		})
	})

	v1.Get("/views/:view/state", func(c *fiber.Ctx) error {
		p, err := parseViewParams(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		entry, err := d.Board.Latest(p.View)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "view has not been mounted")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read view state")
		}

		return c.JSON(renderEntry(entry, d.viewCities(p.View)))
	})

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		var q cityQuery
		q.City = c.Query("city")
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		city, ok := d.Registry.Lookup(q.City)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown city")
		}

		card := renderCard(city.Name, d.Fetcher.FetchCityWeather(d.passContext(), city))
		if card.Status != cardOK {
			return c.Status(fiber.StatusBadGateway).JSON(card)
		}
		return c.JSON(card)
	})
}

// viewParams identifies which dashboard view is being mounted.
type viewParams struct {
	View string `validate:"required,oneof=favorites all"`
}

func parseViewParams(c *fiber.Ctx) (viewParams, error) {
	var p viewParams
	p.View = c.Params("view")

	if err := validate.Struct(p); err != nil {
		return p, err
	}
	return p, nil
}

// cityQuery holds query parameters for the single-city endpoint.
type cityQuery struct {
	City string `validate:"required"`
}

type entryView struct {
	View      string        `json:"view"`
	PassID    string        `json:"passId"`
	State     weather.Phase `json:"state"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Cards     []cardView    `json:"cards,omitempty"`
	Error     string        `json:"error,omitempty"`
}

func renderEntry(e store.Entry, list []weather.City) entryView {
	out := entryView{
		View:      e.View,
		PassID:    e.PassID,
		State:     e.State.Phase,
		UpdatedAt: e.UpdatedAt,
		Error:     e.State.Err,
	}
	if e.State.Phase == weather.PhaseReady {
		out.Cards = renderCards(list, e.State.Outcomes)
	}
	return out
}
