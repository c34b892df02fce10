package httpapi

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/hajj-kiosk/internal/compass"
	"github.com/i474232898/hajj-kiosk/internal/location"
	"github.com/i474232898/hajj-kiosk/internal/prayer"
	"github.com/i474232898/hajj-kiosk/internal/qibla"
	"github.com/i474232898/hajj-kiosk/internal/settings"
	"github.com/i474232898/hajj-kiosk/internal/store"
	"github.com/i474232898/hajj-kiosk/internal/weather"
)

var validate = validator.New()

// PlaceResolver looks up the coordinate of a named place.
type PlaceResolver interface {
	Lookup(place string) (qibla.Coordinate, error)
}

// Deps are the services behind the routes.
type Deps struct {
	PingMessage string

	Weather     weather.Fetcher
	CampWeather *weather.Service
	Prayer      prayer.Fetcher
	PrayerTimes *prayer.Service
	Compass     *compass.Service
	Settings    *settings.Manager
	Places      PlaceResolver
	Now         func() time.Time
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{Deps: d}

	api := app.Group("/api")

	api.Get("/ping", h.ping)

	api.Get("/weather", h.weather)
	api.Get("/weather/camps", h.campWeather)
	api.Get("/weather/history", h.weatherHistory)

	api.Get("/prayer-times", h.prayerTimes)
	api.Get("/prayer-times/schedule", h.prayerSchedule)

	api.Get("/qibla", h.qibla)
	api.Get("/compass", h.compass)
	api.Post("/compass/permission", h.compassPermission)

	api.Get("/settings", h.getSettings)
	api.Put("/settings", h.putSettings)
}

type handlers struct {
	Deps
}

func (h *handlers) ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": h.PingMessage})
}

// weatherQuery holds the query parameters of the weather proxy.
type weatherQuery struct {
	Location string `validate:"required"`
}

func (h *handlers) weather(c *fiber.Ctx) error {
	q := weatherQuery{Location: strings.TrimSpace(c.Query("location"))}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Location parameter required")
	}

	raw, err := h.Weather.Current(c.UserContext(), q.Location)
	if err != nil {
		log.Printf("ERROR: weather API error for %q: %v", q.Location, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch weather data")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(raw)
}

func (h *handlers) campWeather(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"locations": h.CampWeather.Summaries(),
	})
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Location weatherQuery
	From     time.Time `validate:"required"`
	To       time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	h.Location = weatherQuery{Location: strings.TrimSpace(c.Query("location"))}
	if err := validate.Struct(h.Location); err != nil {
		return errors.New("location query parameter is required")
	}

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

func (h *handlers) weatherHistory(c *fiber.Ctx) error {
	var req historyQuery
	if err := req.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "to must not be before from")
	}

	loc := weather.Location{Name: req.Location.Location}
	summaries, err := h.CampWeather.GetRange(loc, req.From, req.To)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
	}

	return c.JSON(fiber.Map{
		"location":  loc,
		"from":      req.From,
		"to":        req.To,
		"summaries": summaries,
	})
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}

func (h *handlers) prayerTimes(c *fiber.Ctx) error {
	raw, err := h.Prayer.Timings(c.UserContext())
	if err != nil {
		log.Printf("ERROR: prayer times API error: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch prayer times")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(raw)
}

func (h *handlers) prayerSchedule(c *fiber.Ctx) error {
	schedule, fetchedAt, err := h.PrayerTimes.Schedule(c.UserContext())
	if err != nil {
		log.Printf("ERROR: prayer schedule unavailable: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch prayer times")
	}

	return c.JSON(fiber.Map{
		"prayers":   schedule,
		"next":      schedule.Next(h.Now()),
		"fetchedAt": fetchedAt,
	})
}

func (h *handlers) qibla(c *fiber.Ctx) error {
	observer, source, err := h.observer(c)
	if err != nil {
		return err
	}

	fix := qibla.ToKaaba(observer)
	return c.JSON(fiber.Map{
		"fix":          fix,
		"compassPoint": qibla.CompassPoint(fix.Bearing),
		"destination":  qibla.Kaaba,
		"source":       source,
	})
}

// observer picks the qibla observer: explicit lat/lng, a geocoded place, the
// camp settings, or the fallback camp, in that order.
func (h *handlers) observer(c *fiber.Ctx) (qibla.Coordinate, string, error) {
	lat, lng := c.Query("lat"), c.Query("lng")
	if lat != "" || lng != "" {
		coord, ok := qibla.ParseCoordinate(lat, lng)
		if !ok {
			return qibla.Coordinate{}, "", fiber.NewError(fiber.StatusBadRequest, "lat and lng must both be numbers")
		}
		return coord, "query", nil
	}

	if place := strings.TrimSpace(c.Query("place")); place != "" {
		if h.Places == nil {
			return qibla.Coordinate{}, "", fiber.NewError(fiber.StatusServiceUnavailable, "place lookup is not configured")
		}
		coord, err := h.Places.Lookup(place)
		if err != nil {
			if errors.Is(err, location.ErrGeocoderDisabled) {
				return qibla.Coordinate{}, "", fiber.NewError(fiber.StatusServiceUnavailable, "place lookup is not configured")
			}
			log.Printf("ERROR: place lookup for %q: %v", place, err)
			return qibla.Coordinate{}, "", fiber.NewError(fiber.StatusInternalServerError, "failed to resolve place")
		}
		return coord, "place", nil
	}

	s, err := h.Settings.Current(c.UserContext())
	if err != nil {
		log.Printf("ERROR: %v", err)
		return qibla.FallbackCamp, "fallback", nil
	}
	if coord, ok := s.Camp(); ok {
		return coord, "settings", nil
	}
	return qibla.FallbackCamp, "fallback", nil
}

func (h *handlers) compass(c *fiber.Ctx) error {
	if h.Compass == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "compass is not running")
	}
	reading, ok := h.Compass.Latest()
	if !ok {
		return fiber.NewError(fiber.StatusServiceUnavailable, "no location fix yet")
	}
	return c.JSON(reading)
}

// permissionRequest is the display's answer to the sensor permission prompt.
type permissionRequest struct {
	Granted *bool `json:"granted" validate:"required"`
}

func (h *handlers) compassPermission(c *fiber.Ctx) error {
	if h.Compass == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "compass is not running")
	}

	var req permissionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "granted is required")
	}

	granted := *req.Granted
	reading, err := h.Compass.Enable(c.UserContext(), compass.PermitterFunc(func(context.Context) (bool, error) {
		return granted, nil
	}))
	switch {
	case errors.Is(err, compass.ErrPermissionDenied):
		return fiber.NewError(fiber.StatusForbidden, "Permission denied for compass")
	case errors.Is(err, compass.ErrUnsupported):
		return fiber.NewError(fiber.StatusConflict, "orientation sensing is not supported on this device")
	case err != nil:
		log.Printf("ERROR: compass permission: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to enable compass")
	}
	return c.JSON(reading)
}

func (h *handlers) getSettings(c *fiber.Ctx) error {
	s, err := h.Settings.Current(c.UserContext())
	if err != nil {
		log.Printf("ERROR: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load settings")
	}

	q, _ := url.ParseQuery(string(c.Request().URI().QueryString()))
	s = s.WithOverrides(q)
	return c.JSON(settingsResponse(s))
}

func (h *handlers) putSettings(c *fiber.Ctx) error {
	var s settings.Settings
	if err := c.BodyParser(&s); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	saved, err := h.Settings.Save(c.UserContext(), s)
	if err != nil {
		log.Printf("ERROR: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to save settings")
	}

	// The compass follows an edited camp position right away. A live
	// location source supersedes it with its next fix.
	if camp, ok := saved.Camp(); ok && h.Compass != nil {
		r := h.Compass.UpdateLocation(camp)
		log.Printf("INFO: compass moved to camp %.6f,%.6f (bearing %.2f)", camp.Latitude, camp.Longitude, r.Fix.Bearing)
	}
	return c.JSON(settingsResponse(saved))
}

func settingsResponse(s settings.Settings) fiber.Map {
	return fiber.Map{
		"settings":        s,
		"assemblyPoint":   s.AssemblyPointURL(),
		"assemblyPointQR": s.AssemblyPointQR(),
	}
}
