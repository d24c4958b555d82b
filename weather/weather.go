// Package weather samples temperature, pressure and humidity sensors and
// turns raw samples into display-ready readings.
package weather

import (
	"errors"
	"math"
	"strconv"
)

// Sample is one raw measurement.
type Sample struct {
	TemperatureC float32 // Degrees Celsius.
	PressurePa   float32 // Pascal. Zero when the sensor has no barometer.
	Humidity     float32 // Relative humidity percentage.
}

// Source produces samples. Transient failures (bus errors, timeouts,
// malformed readings) are reported as *SensorReadError.
type Source interface {
	Read() (Sample, error)
}

// SensorReadError is a recoverable failure to take one sample.
type SensorReadError struct {
	Sensor string // e.g. "bme280"
	Op     string // What was being read.
	Err    error
}

func (e *SensorReadError) Error() string {
	msg := "weather: " + e.Sensor + ": " + e.Op
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SensorReadError) Unwrap() error { return e.Err }

// IsSensorReadError reports whether err is, or wraps, a *SensorReadError.
func IsSensorReadError(err error) bool {
	var sre *SensorReadError
	return errors.As(err, &sre)
}

// Physical limits used to reject readings a healthy sensor cannot produce.
const (
	minTempC = -40
	maxTempC = 85
)

// Validate returns a *SensorReadError if s is outside what the sensors can
// physically report.
func Validate(sensor string, s Sample) error {
	t := float64(s.TemperatureC)
	if math.IsNaN(t) || math.IsInf(t, 0) || t < minTempC || t > maxTempC {
		return &SensorReadError{Sensor: sensor, Op: "temperature out of range",
			Err: errors.New(strconv.FormatFloat(t, 'f', 2, 32) + "C")}
	}
	h := float64(s.Humidity)
	if math.IsNaN(h) || h < 0 || h > 100 {
		return &SensorReadError{Sensor: sensor, Op: "humidity out of range",
			Err: errors.New(strconv.FormatFloat(h, 'f', 2, 32) + "%")}
	}
	if p := float64(s.PressurePa); math.IsNaN(p) || p < 0 {
		return &SensorReadError{Sensor: sensor, Op: "pressure out of range",
			Err: errors.New(strconv.FormatFloat(p, 'f', 0, 32) + "Pa")}
	}
	return nil
}

// Reading is a sample rounded for display.
type Reading struct {
	TempC    int
	TempF    int
	Humidity int
}

// NewReading rounds s for display. Ties round to even, so 22.5C shows as 22.
func NewReading(s Sample) Reading {
	c := float64(s.TemperatureC)
	return Reading{
		TempC:    int(math.RoundToEven(c)),
		TempF:    int(math.RoundToEven(CelsiusToFahrenheit(c))),
		Humidity: int(math.RoundToEven(float64(s.Humidity))),
	}
}

// CelsiusToFahrenheit converts degrees Celsius to degrees Fahrenheit.
func CelsiusToFahrenheit(c float64) float64 {
	return c*1.8 + 32
}
