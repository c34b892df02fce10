package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/hajj-kiosk/internal/prayer"
	"github.com/i474232898/hajj-kiosk/internal/weather"
)

type AppConfig struct {
	Port        string
	PingMessage string

	// Outbound HTTP.
	HTTPTimeout        time.Duration
	UpstreamMaxRetries int

	WeatherAPIKey     string
	WeatherAPIBaseURL string
	AladhanBaseURL    string
	PrayerQuery       prayer.Query

	// RefreshInterval controls how often camp weather and prayer timings are refreshed.
	RefreshInterval time.Duration

	// Locations shown on the temperature panel.
	Locations []weather.Location

	// In-memory store retention.
	StoreMaxHistory int           // max number of summaries per location (0 = unlimited)
	StoreMaxAge     time.Duration // max age of summaries (0 = unlimited)

	// Settings persistence: "memory" or "redis".
	SettingsStore string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Sensor streams. An empty MQTTBroker disables MQTT.
	MQTTBroker       string
	MQTTClientID     string
	MQTTTopicHeading string
	MQTTTopicGPS     string
	GPSSerialPort    string
	GPSBaudRate      uint
	FirstFixTimeout  time.Duration
	CompassSupported bool
	CompassWobble    bool

	GeocoderAPIKey string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.PingMessage = getenvDefault("PING_MESSAGE", "ping")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	cfg.UpstreamMaxRetries = getenvInt("UPSTREAM_MAX_RETRIES", 0)
	if cfg.UpstreamMaxRetries < 0 {
		return nil, fmt.Errorf("invalid UPSTREAM_MAX_RETRIES: must not be negative")
	}

	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.WeatherAPIBaseURL = getenvDefault("WEATHERAPI_BASE_URL", weather.DefaultBaseURL)
	cfg.AladhanBaseURL = getenvDefault("ALADHAN_BASE_URL", prayer.DefaultBaseURL)
	cfg.PrayerQuery = prayer.Query{
		City:    getenvDefault("PRAYER_CITY", prayer.DefaultQuery.City),
		Country: getenvDefault("PRAYER_COUNTRY", prayer.DefaultQuery.Country),
		Method:  getenvInt("PRAYER_METHOD", prayer.DefaultQuery.Method),
	}

	// Refresh interval: default 10 minutes.
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "10m"); err != nil {
		return nil, err
	}

	cfg.Locations = loadLocations(getenvDefault("WEATHER_LOCATIONS", "Mina,Arafat,Makkah"))

	// Store retention.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 144) // roughly 24h at 10-minute intervals
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}

	cfg.SettingsStore = strings.ToLower(getenvDefault("SETTINGS_STORE", "memory"))
	if cfg.SettingsStore != "memory" && cfg.SettingsStore != "redis" {
		return nil, fmt.Errorf("invalid SETTINGS_STORE %q: want memory or redis", cfg.SettingsStore)
	}
	cfg.RedisAddr = getenvDefault("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getenvInt("REDIS_DB", 0)

	cfg.MQTTBroker = os.Getenv("MQTT_BROKER")
	cfg.MQTTClientID = getenvDefault("MQTT_CLIENT_ID", "hajj-kiosk")
	cfg.MQTTTopicHeading = getenvDefault("MQTT_TOPIC_HEADING", "kiosk/compass/orientation")
	cfg.MQTTTopicGPS = os.Getenv("MQTT_TOPIC_GPS")
	cfg.GPSSerialPort = os.Getenv("GPS_SERIAL_PORT")
	cfg.GPSBaudRate = uint(getenvInt("GPS_BAUD_RATE", 9600))
	if cfg.FirstFixTimeout, err = getenvDuration("FIRST_FIX_TIMEOUT", "5s"); err != nil {
		return nil, err
	}
	cfg.CompassSupported = getenvBool("COMPASS_SUPPORTED", true)
	cfg.CompassWobble = getenvBool("COMPASS_WOBBLE", false)

	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	return cfg, nil
}

func loadLocations(names string) []weather.Location {
	var locs []weather.Location
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		locs = append(locs, weather.Location{Name: name})
	}
	return locs
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
