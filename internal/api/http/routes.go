package httpapi

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/geocode"
	"github.com/i474232898/weather-dashboard/internal/locate"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app. searcher and ip
// may be nil; the routes depending on them then answer 503.
func RegisterRoutes(app *fiber.App, session *dashboard.Session, searcher geocode.Searcher, ip locate.IPLocator) {
	v1 := app.Group("/api/v1")

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		return c.JSON(session.Snapshot())
	})

	v1.Post("/refresh", func(c *fiber.Ctx) error {
		session.Refresh(c.UserContext())
		return c.JSON(session.Snapshot())
	})

	v1.Get("/city", func(c *fiber.Ctx) error {
		return c.JSON(cityResponse(session))
	})

	v1.Put("/city", func(c *fiber.Ctx) error {
		var req cityRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if _, err := session.Resolver().SetCity(c.UserContext(), req.City); err != nil {
			if errors.Is(err, locate.ErrEmptyCity) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save city")
		}
		return c.JSON(cityResponse(session))
	})

	v1.Post("/city/ip", func(c *fiber.Ctx) error {
		if ip == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "ip location is not configured")
		}
		_, located, err := session.Resolver().LocateByIP(c.UserContext(), ip)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save city")
		}

		resp := cityResponse(session)
		resp["located"] = located
		return c.JSON(resp)
	})

	v1.Get("/cities", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"cities": session.Resolver().Options().List(),
		})
	})

	v1.Get("/cities/search", func(c *fiber.Ctx) error {
		if searcher == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "geocoding is not configured")
		}

		q := strings.TrimSpace(c.Query("q"))
		places, err := searcher.Search(c.UserContext(), q)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "geocoding lookup failed")
		}

		suggestions := make([]suggestion, 0, len(places))
		for _, p := range places {
			suggestions = append(suggestions, suggestion{
				Name:    p.Name,
				Display: p.Display(),
				Lat:     p.Lat,
				Lon:     p.Lon,
			})
		}
		return c.JSON(fiber.Map{
			"query":   q,
			"results": suggestions,
		})
	})

	v1.Get("/theme", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"theme": session.Theme()})
	})

	v1.Put("/theme", func(c *fiber.Ctx) error {
		var req themeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := session.SetTheme(c.UserContext(), dashboard.Theme(req.Theme)); err != nil {
			if errors.Is(err, dashboard.ErrInvalidTheme) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save theme")
		}
		return c.JSON(fiber.Map{"theme": session.Theme()})
	})

	v1.Get("/advice", func(c *fiber.Ctx) error {
		return c.JSON(session.Ask(c.UserContext(), c.Query("q")))
	})
}

// cityRequest is the body of PUT /city.
type cityRequest struct {
	City string `json:"city" validate:"required"`
}

// themeRequest is the body of PUT /theme.
type themeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=system light dark"`
}

type suggestion struct {
	Name    string   `json:"name"`
	Display string   `json:"display"`
	Lat     *float64 `json:"latitude,omitempty"`
	Lon     *float64 `json:"longitude,omitempty"`
}

func cityResponse(session *dashboard.Session) fiber.Map {
	opts := session.Resolver().Options()
	return fiber.Map{
		"city":    session.City(),
		"options": opts.List(),
	}
}
