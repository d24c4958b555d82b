//go:build tinygo

package weather

import (
	"machine"

	"tinygo.org/x/drivers/dht"
)

const dht11Name = "dht11"

// DHT11 samples a DHT11 on a single data pin. The DHT11 has no barometer, so
// PressurePa is always zero. Wrap it in a Throttled source: the part needs
// at least two seconds between reads.
type DHT11 struct {
	dev dht.Device
}

// NewDHT11 returns a source reading the DHT11 on pin.
func NewDHT11(pin machine.Pin) *DHT11 {
	return &DHT11{dev: dht.New(pin, dht.DHT11)}
}

// Read takes one sample. Every failure is a *SensorReadError.
func (d *DHT11) Read() (Sample, error) {
	if err := d.dev.ReadMeasurements(); err != nil {
		return Sample{}, &SensorReadError{Sensor: dht11Name, Op: "read measurements", Err: err}
	}
	temp, err := d.dev.TemperatureFloat(dht.C)
	if err != nil {
		return Sample{}, &SensorReadError{Sensor: dht11Name, Op: "read temperature", Err: err}
	}
	hum, err := d.dev.HumidityFloat()
	if err != nil {
		return Sample{}, &SensorReadError{Sensor: dht11Name, Op: "read humidity", Err: err}
	}
	s := Sample{TemperatureC: temp, Humidity: hum}
	if err := Validate(dht11Name, s); err != nil {
		return Sample{}, err
	}
	return s, nil
}
