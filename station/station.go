// Package station assembles the climate display from its parts: the icon
// cache, the canvas and text writer sharing one display, the compositor and
// the tick pipeline.
//
// A Station is built once at startup and owns all of this state; nothing
// lives in package-level variables.
package station

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/harveysanders/picoclimate/compositor"
	"github.com/harveysanders/picoclimate/icons"
	"github.com/harveysanders/picoclimate/monitor"
	"github.com/harveysanders/picoclimate/screen"
	"github.com/harveysanders/picoclimate/text"
	"github.com/harveysanders/picoclimate/weather"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Config holds the collaborators a Station is built from.
type Config struct {
	Display drivers.Displayer // Framebuffer owner, already configured.
	Font    tinyfont.Fonter
	Assets  fs.FS // Holds the icons directory.
	Source  weather.Source
	Logger  *slog.Logger

	// Layout defaults to compositor.DefaultLayout.
	Layout *compositor.Layout

	// OnReading is passed through to the pipeline.
	OnReading func(weather.Sample, weather.Reading)
}

// Station is the running climate display.
type Station struct {
	Icons      *icons.Cache
	Canvas     *screen.Canvas
	Compositor *compositor.Compositor
	Pipeline   *monitor.Pipeline
}

// All icons drawn by the layout, decoded up front.
var allIcons = []string{
	icons.Temperature,
	icons.Humidity,
	icons.Fahrenheit,
	icons.Celsius,
	icons.Percent,
}

// New builds a Station, decodes every icon and draws the static icons. Any
// error here is a packaging or wiring defect.
func New(cfg Config) (*Station, error) {
	if cfg.Display == nil || cfg.Font == nil || cfg.Assets == nil || cfg.Source == nil {
		return nil, errors.New("station: display, font, assets and source are required")
	}
	layout := compositor.DefaultLayout()
	if cfg.Layout != nil {
		layout = *cfg.Layout
	}

	cache := icons.NewCache(cfg.Assets, icons.Dir)
	if err := cache.Preload(allIcons...); err != nil {
		return nil, err
	}

	canvas := screen.New(cfg.Display)
	writer := text.NewWriter(cfg.Display, cfg.Font, screen.On)
	comp := compositor.New(canvas, writer, cache, layout)
	if err := comp.DrawStatic(); err != nil {
		return nil, errors.New("station: drawing static icons: " + err.Error())
	}

	return &Station{
		Icons:      cache,
		Canvas:     canvas,
		Compositor: comp,
		Pipeline: monitor.New(monitor.Config{
			Source:    cfg.Source,
			Renderer:  comp,
			Logger:    cfg.Logger,
			OnReading: cfg.OnReading,
		}),
	}, nil
}

// Run ticks the pipeline every interval until ctx is done or a tick fails
// fatally.
func (s *Station) Run(ctx context.Context, interval time.Duration) error {
	return s.Pipeline.Run(ctx, interval)
}
