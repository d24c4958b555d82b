//go:build tinygo

// Package board wires the climate station to Raspberry Pi Pico hardware:
// an SSD1306 OLED and a BME280 sharing I2C0 on GP4/GP5, or a DHT11 on GP16.
package board

import (
	"errors"
	"log/slog"
	"machine"
	"time"

	"github.com/harveysanders/picoclimate/config"
	"github.com/harveysanders/picoclimate/weather"
	"tinygo.org/x/drivers/bme280"
	"tinygo.org/x/drivers/ssd1306"
)

const (
	displayWidth  = 128
	displayHeight = 64
)

// SSD1306 modules ship strapped to one of two addresses.
var displayAddrs = []uint16{0x3C, 0x3D}

// Pins.
var (
	SDA      = machine.GP4
	SCL      = machine.GP5
	DHTPin   = machine.GP16
	DebugLED = machine.GP21
)

// Logger returns a text logger on the USB serial port.
func Logger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level: level,
	}))
}

// ConfigureI2C sets up I2C0, shared by the display and the BME280.
func ConfigureI2C() (*machine.I2C, error) {
	bus := machine.I2C0
	err := bus.Configure(machine.I2CConfig{
		SDA:       SDA,
		SCL:       SCL,
		Frequency: 400 * machine.KHz,
	})
	if err != nil {
		return nil, errors.New("configure I2C: " + err.Error())
	}
	return bus, nil
}

// Display finds the SSD1306 on bus, configures it and blanks it.
func Display(bus *machine.I2C, logger *slog.Logger) (*ssd1306.Device, error) {
	addr, ok := probe(bus, displayAddrs)
	if !ok {
		return nil, errors.New("ssd1306 not found at 0x3C/0x3D")
	}
	logger.Info("ssd1306:found", slog.Int("addr", int(addr)))

	dev := ssd1306.NewI2C(bus)
	dev.Configure(ssd1306.Config{
		Width:    displayWidth,
		Height:   displayHeight,
		Address:  addr,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	dev.ClearDisplay()
	return dev, nil
}

// probe returns the first address in addrs that acknowledges a one byte read.
func probe(bus *machine.I2C, addrs []uint16) (uint16, bool) {
	var b [1]byte
	for _, a := range addrs {
		if bus.Tx(a, nil, b[:]) == nil {
			return a, true
		}
	}
	return 0, false
}

// Sensor returns the configured sensor source. For the BME280 it blocks,
// blinking the debug LED, until the chip answers on the bus.
func Sensor(cfg config.Config, bus *machine.I2C, logger *slog.Logger) weather.Source {
	DebugLED.Configure(machine.PinConfig{Mode: machine.PinOutput})

	var src weather.Source
	switch cfg.Sensor {
	case config.SensorDHT11:
		src = weather.NewDHT11(DHTPin)
	default:
		dev := bme280.New(bus)
		dev.Configure()
		for !dev.Connected() {
			logger.Warn("bme280:waiting")
			DebugLED.High()
			time.Sleep(250 * time.Millisecond)
			DebugLED.Low()
			time.Sleep(time.Second)
		}
		src = weather.NewBME280(&dev)
	}
	logger.Info("sensor:ready", slog.String("kind", string(cfg.Sensor)))

	if cfg.Throttle > 0 {
		return weather.NewThrottled(src, cfg.Throttle)
	}
	return src
}

// Blink flashes the debug LED once. Used as a heartbeat after each tick.
func Blink() {
	DebugLED.High()
	time.Sleep(20 * time.Millisecond)
	DebugLED.Low()
}

// PrintErrForever logs msg once a second and never returns. A
// microcontroller has nowhere to exit to, and the serial monitor may attach
// after the first message.
func PrintErrForever(logger *slog.Logger, msg string, args ...any) {
	for {
		logger.Error(msg, args...)
		time.Sleep(time.Second)
	}
}
