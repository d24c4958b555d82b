//go:build tinygo

// Command mqttclimate is oledclimate for the Pico W: every frame is also
// published as JSON to an MQTT broker.
//
// The broker and Wi-Fi credentials are set with linker flags, see package
// config.
package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/harveysanders/picoclimate/assets"
	"github.com/harveysanders/picoclimate/config"
	"github.com/harveysanders/picoclimate/internal/board"
	"github.com/harveysanders/picoclimate/station"
	"github.com/harveysanders/picoclimate/telemetry"
	"github.com/harveysanders/picoclimate/weather"
	"github.com/harveysanders/picoclimate/wifi"
	"tinygo.org/x/tinyfont/freesans"
)

func main() {
	start := time.Now()
	cfg, err := config.Load()
	if err != nil {
		board.PrintErrForever(board.Logger(slog.LevelInfo), "load config", slog.Any("reason", err))
	}
	logger := board.Logger(cfg.LogLevel)

	bus, err := board.ConfigureI2C()
	if err != nil {
		board.PrintErrForever(logger, "configure I2C", slog.Any("reason", err))
	}
	display, err := board.Display(bus, logger)
	if err != nil {
		board.PrintErrForever(logger, "configure display", slog.Any("reason", err))
	}

	// Readings queue up while the broker is unreachable; once full, new
	// readings are dropped rather than stalling the display.
	var readings chan telemetry.Telemetry
	if cfg.MQTT.Enabled() {
		readings = make(chan telemetry.Telemetry, cfg.MQTT.PublishBuffer)
		go publish(cfg, readings, logger)
	} else {
		logger.Warn("mqtt:disabled", slog.String("reason", "no broker configured"))
	}

	st, err := station.New(station.Config{
		Display: display,
		Font:    &freesans.Bold12pt7b,
		Assets:  assets.FS,
		Source:  board.Sensor(cfg, bus, logger),
		Logger:  logger,
		OnReading: func(s weather.Sample, r weather.Reading) {
			if readings == nil {
				return
			}
			if !telemetry.Enqueue(readings, telemetry.New(s, r, time.Since(start))) {
				logger.Warn("mqtt:queue-full")
			}
		},
	})
	if err != nil {
		board.PrintErrForever(logger, "start station", slog.Any("reason", err))
	}

	err = st.Run(context.Background(), cfg.Interval)
	board.PrintErrForever(logger, "station stopped", slog.Any("reason", err))
}

func publish(cfg config.Config, readings <-chan telemetry.Telemetry, logger *slog.Logger) {
	link, err := wifi.Connect(wifi.Config{
		SSID:        cfg.WiFi.SSID,
		Password:    cfg.WiFi.Password,
		Hostname:    cfg.WiFi.Hostname,
		MaxTCPConns: 1,
		Logger:      logger,
	})
	if err != nil {
		board.PrintErrForever(logger, "wifi connect", slog.Any("reason", err))
	}
	logger.Info("wifi:ready", slog.String("ip", link.Addr().String()))

	c := telemetry.Client{
		ID:                cfg.MQTT.ClientID,
		Topic:             cfg.MQTT.Topic,
		Timeout:           5 * time.Second,
		TCPBufSize:        2030, // MTU - ethhdr - iphdr - tcphdr
		HeartbeatInterval: cfg.MQTT.Heartbeat,
		Username:          cfg.MQTT.Username,
		Password:          cfg.MQTT.Password,
		Logger:            logger,
	}
	err = c.ConnectAndPublish(link, cfg.MQTT.Host, cfg.MQTT.Port, readings)
	board.PrintErrForever(logger, "connect to MQTT broker", slog.Any("reason", err))
}
