//go:build tinygo

// Command oledclimate shows temperature and humidity on a 128x64 SSD1306.
//
//	tinygo flash -target=pico ./oledclimate
package main

import (
	"context"
	"log/slog"

	"github.com/harveysanders/picoclimate/assets"
	"github.com/harveysanders/picoclimate/config"
	"github.com/harveysanders/picoclimate/internal/board"
	"github.com/harveysanders/picoclimate/station"
	"github.com/harveysanders/picoclimate/weather"
	"tinygo.org/x/tinyfont/freesans"
)

func main() {
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

	st, err := station.New(station.Config{
		Display: display,
		Font:    &freesans.Bold12pt7b,
		Assets:  assets.FS,
		Source:  board.Sensor(cfg, bus, logger),
		Logger:  logger,
		OnReading: func(weather.Sample, weather.Reading) {
			board.Blink()
		},
	})
	if err != nil {
		board.PrintErrForever(logger, "start station", slog.Any("reason", err))
	}

	err = st.Run(context.Background(), cfg.Interval)
	board.PrintErrForever(logger, "station stopped", slog.Any("reason", err))
}
