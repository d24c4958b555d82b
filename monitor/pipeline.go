// Package monitor runs the sample, render, flush loop.
package monitor

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/harveysanders/picoclimate/weather"
)

// Renderer draws one frame for a reading.
type Renderer interface {
	Frame(r weather.Reading) error
}

// Config configures a Pipeline.
type Config struct {
	Source   weather.Source
	Renderer Renderer
	Logger   *slog.Logger

	// OnReading, if set, is called after every successful frame. It runs on
	// the tick loop and must not block.
	OnReading func(s weather.Sample, r weather.Reading)
}

// Pipeline turns sensor samples into frames, one tick at a time.
type Pipeline struct {
	src       weather.Source
	renderer  Renderer
	logger    *slog.Logger
	onReading func(weather.Sample, weather.Reading)

	ticks       uint32
	badReadings uint32
}

// New returns a pipeline. A nil logger discards output.
func New(cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}
	return &Pipeline{
		src:       cfg.Source,
		renderer:  cfg.Renderer,
		logger:    logger,
		onReading: cfg.OnReading,
	}
}

// Tick samples the sensor once and renders the result. A *weather.SensorReadError
// is logged and swallowed, leaving the previous frame on screen. Any other
// error is returned.
func (p *Pipeline) Tick() error {
	p.ticks++
	s, err := p.src.Read()
	if err != nil {
		if weather.IsSensorReadError(err) {
			p.badReadings++
			p.logger.Warn("tick:bad-reading", slog.Any("reason", err))
			return nil
		}
		return err
	}

	r := weather.NewReading(s)
	if err := p.renderer.Frame(r); err != nil {
		return err
	}
	p.logger.Debug("tick:frame",
		slog.Int("tempC", r.TempC),
		slog.Int("tempF", r.TempF),
		slog.Int("humidity", r.Humidity),
	)
	if p.onReading != nil {
		p.onReading(s, r)
	}
	return nil
}

// Run ticks immediately and then once per interval until ctx is done or a
// tick fails with an error other than a sensor read error.
func (p *Pipeline) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := p.Tick(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Stats returns the number of ticks run and how many of them hit a bad
// reading.
func (p *Pipeline) Stats() (ticks, badReadings uint32) {
	return p.ticks, p.badReadings
}
