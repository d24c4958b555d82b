package weather

import (
	"errors"

	"tinygo.org/x/drivers/bme280"
)

// BME280Device is the part of *bme280.Device used for sampling.
type BME280Device interface {
	Connected() bool
	ReadTemperature() (int32, error) // milli degrees Celsius
	ReadPressure() (int32, error)    // milli Pascal
	ReadHumidity() (int32, error)    // hundredths of a percent
}

var _ BME280Device = (*bme280.Device)(nil)

var errDisconnected = errors.New("chip did not answer on the bus")

const bme280Name = "bme280"

// BME280 samples a Bosch BME280 over I2C. The bus is expected to be
// configured and the device's Configure method already called.
type BME280 struct {
	dev BME280Device
}

// NewBME280 wraps a configured device.
func NewBME280(dev BME280Device) *BME280 {
	return &BME280{dev: dev}
}

// Read takes one sample. Every failure is a *SensorReadError.
func (b *BME280) Read() (Sample, error) {
	if !b.dev.Connected() {
		return Sample{}, &SensorReadError{Sensor: bme280Name, Op: "probe", Err: errDisconnected}
	}
	t, err := b.dev.ReadTemperature()
	if err != nil {
		return Sample{}, &SensorReadError{Sensor: bme280Name, Op: "read temperature", Err: err}
	}
	p, err := b.dev.ReadPressure()
	if err != nil {
		return Sample{}, &SensorReadError{Sensor: bme280Name, Op: "read pressure", Err: err}
	}
	h, err := b.dev.ReadHumidity()
	if err != nil {
		return Sample{}, &SensorReadError{Sensor: bme280Name, Op: "read humidity", Err: err}
	}

	s := Sample{
		TemperatureC: float32(t) / 1000,
		PressurePa:   float32(p) / 1000,
		Humidity:     float32(h) / 100,
	}
	if err := Validate(bme280Name, s); err != nil {
		return Sample{}, err
	}
	return s, nil
}
