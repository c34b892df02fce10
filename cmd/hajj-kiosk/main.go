package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	httpapi "github.com/i474232898/hajj-kiosk/internal/api/http"
	"github.com/i474232898/hajj-kiosk/internal/broker"
	"github.com/i474232898/hajj-kiosk/internal/compass"
	"github.com/i474232898/hajj-kiosk/internal/config"
	"github.com/i474232898/hajj-kiosk/internal/location"
	"github.com/i474232898/hajj-kiosk/internal/prayer"
	"github.com/i474232898/hajj-kiosk/internal/qibla"
	"github.com/i474232898/hajj-kiosk/internal/scheduler"
	"github.com/i474232898/hajj-kiosk/internal/settings"
	"github.com/i474232898/hajj-kiosk/internal/store"
	"github.com/i474232898/hajj-kiosk/internal/upstream"
	"github.com/i474232898/hajj-kiosk/internal/weather"
)

const serviceName = "hajj-kiosk"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared HTTP client for outbound upstream calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	weatherClient := weather.NewClient(
		upstream.NewClient("weatherapi", httpClient, cfg.UpstreamMaxRetries),
		cfg.WeatherAPIKey,
		cfg.WeatherAPIBaseURL,
	)
	prayerClient := prayer.NewClient(
		upstream.NewClient("aladhan", httpClient, cfg.UpstreamMaxRetries),
		cfg.AladhanBaseURL,
		cfg.PrayerQuery,
	)

	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	weatherSvc := weather.NewService(memStore, weatherClient, cfg.Locations)
	prayerSvc := prayer.NewService(prayerClient)

	sched := scheduler.New([]scheduler.Job{
		{Name: "camp-weather", Run: weatherSvc.Refresh},
		{Name: "prayer-times", Run: prayerSvc.Refresh},
	}, cfg.RefreshInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	settingsStore, closeStore, err := openSettingsStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open settings store: %v", err)
	}
	defer closeStore()
	settingsMgr := settings.NewManager(settingsStore, settings.Defaults())

	var mqttClient mqtt.Client
	if cfg.MQTTBroker != "" {
		mqttClient, err = broker.Connect(cfg.MQTTBroker, cfg.MQTTClientID)
		if err != nil {
			log.Printf("ERROR: %v; continuing without sensor streams", err)
		} else {
			defer mqttClient.Disconnect(250)
		}
	}

	compassSvc := startCompass(ctx, cfg, settingsMgr, mqttClient)

	app := httpapi.NewApp(serviceName)
	httpapi.RegisterRoutes(app, httpapi.Deps{
		PingMessage: cfg.PingMessage,
		Weather:     weatherClient,
		CampWeather: weatherSvc,
		Prayer:      prayerClient,
		PrayerTimes: prayerSvc,
		Compass:     compassSvc,
		Settings:    settingsMgr,
		Places:      location.NewGeocoder(cfg.GeocoderAPIKey, "SA"),
	})

	go func() {
		log.Printf("INFO: %s listening on :%s", serviceName, cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

func openSettingsStore(ctx context.Context, cfg *config.AppConfig) (settings.Store, func(), error) {
	if cfg.SettingsStore != "redis" {
		return settings.NewMemoryStore(), func() {}, nil
	}
	rs, err := settings.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	return rs, func() {
		if err := rs.Close(); err != nil {
			log.Printf("ERROR: close redis: %v", err)
		}
	}, nil
}

// startCompass feeds the needle from the location provider and, when a
// broker is connected, from the display's orientation events.
func startCompass(ctx context.Context, cfg *config.AppConfig, mgr *settings.Manager, mqttClient mqtt.Client) *compass.Service {
	smoother := &compass.Smoother{}
	if cfg.CompassWobble {
		smoother.Jitter = compass.RandomWobble
	}
	svc := compass.NewService(compass.NewNeedle(cfg.CompassSupported, smoother))

	var cached *qibla.Coordinate
	if s, err := mgr.Current(ctx); err != nil {
		log.Printf("ERROR: %v", err)
	} else if c, ok := s.Camp(); ok {
		cached = &c
	}

	provider := location.NewProvider(cached, liveSource(cfg, mqttClient))
	provider.FirstFixTimeout = cfg.FirstFixTimeout

	var events chan compass.OrientationEvent
	if mqttClient != nil {
		events = make(chan compass.OrientationEvent, 8)
		headings := &compass.MQTTHeadings{Client: mqttClient, Topic: cfg.MQTTTopicHeading}
		go func() {
			if err := headings.Watch(ctx, events); err != nil {
				log.Printf("ERROR: orientation stream: %v", err)
			}
		}()
	}

	go svc.Run(ctx, location.Coordinates(ctx, provider.Subscribe(ctx)), events)
	return svc
}

func liveSource(cfg *config.AppConfig, mqttClient mqtt.Client) location.Source {
	switch {
	case cfg.GPSSerialPort != "":
		return &location.SerialSource{PortName: cfg.GPSSerialPort, BaudRate: cfg.GPSBaudRate}
	case mqttClient != nil && cfg.MQTTTopicGPS != "":
		return &location.MQTTSource{Client: mqttClient, Topic: cfg.MQTTTopicGPS}
	default:
		log.Println("INFO: no live location source configured; using camp settings")
		return nil
	}
}
