// Package telemetry publishes climate readings to an MQTT broker.
package telemetry

import (
	"encoding/json"
	"time"

	"github.com/harveysanders/picoclimate/weather"
)

// Telemetry is the JSON payload published for each frame.
type Telemetry struct {
	TempC       int     `json:"temp_c"`
	TempF       int     `json:"temp_f"`
	Humidity    int     `json:"humidity"`
	PressurePa  float32 `json:"pressure_pa"`
	SinceBootMS int64   `json:"since_boot_ms"`
}

// New builds the payload for one rendered reading.
func New(s weather.Sample, r weather.Reading, sinceBoot time.Duration) Telemetry {
	return Telemetry{
		TempC:       r.TempC,
		TempF:       r.TempF,
		Humidity:    r.Humidity,
		PressurePa:  s.PressurePa,
		SinceBootMS: sinceBoot.Milliseconds(),
	}
}

// Marshal encodes t as JSON.
func (t Telemetry) Marshal() ([]byte, error) {
	return json.Marshal(t)
}

// Enqueue sends t on ch without blocking. It reports false when the queue is
// full and the reading was dropped.
func Enqueue(ch chan<- Telemetry, t Telemetry) bool {
	select {
	case ch <- t:
		return true
	default:
		return false
	}
}
