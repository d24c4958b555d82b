// Package config holds the build-time settings of the climate programs.
//
// Microcontrollers have no environment or command line, so settings are
// baked in with linker flags, e.g.
//
//	tinygo flash -target=pico-w -ldflags="-X 'github.com/harveysanders/picoclimate/config.interval=2s' \
//	  -X 'github.com/harveysanders/picoclimate/config.ssid=home' \
//	  -X 'github.com/harveysanders/picoclimate/config.pass=secret'" ./mqttclimate
package config

import (
	"log/slog"
	"strings"
	"time"
)

// Values set via -ldflags -X. All are strings because that is all the linker
// can inject.
var (
	interval      = "1s"
	sensor        = "bme280"
	throttle      = ""
	logLevel      = "info"
	brokerAddr    = ""
	topic         = "sensors/climate"
	clientID      = "tinygo-climate"
	brokerUser    = ""
	brokerPass    = ""
	ssid          = ""
	pass          = ""
	hostname      = "picoclimate"
	heartbeat     = "30s"
	publishBuffer = "10"
)

// SensorKind selects the sensor driver.
type SensorKind string

const (
	SensorBME280 SensorKind = "bme280"
	SensorDHT11  SensorKind = "dht11"
)

// dht11MinInterval is the shortest time the DHT11 allows between reads.
const dht11MinInterval = 2 * time.Second

// Values is the raw, unparsed form of Config.
type Values struct {
	Interval      string
	Sensor        string
	Throttle      string
	LogLevel      string
	BrokerAddr    string
	Topic         string
	ClientID      string
	BrokerUser    string
	BrokerPass    string
	SSID          string
	Pass          string
	Hostname      string
	Heartbeat     string
	PublishBuffer string
}

// Config is the parsed program configuration.
type Config struct {
	Interval time.Duration // Time between ticks.
	Sensor   SensorKind
	Throttle time.Duration // Minimum time between sensor queries. Zero disables.
	LogLevel slog.Level

	MQTT MQTT
	WiFi WiFi
}

// MQTT configures telemetry. Telemetry is off when Host is empty.
type MQTT struct {
	Addr          string // host:port as given.
	Host          string
	Port          uint16
	Topic         string
	ClientID      string
	Username      string
	Password      string
	Heartbeat     time.Duration
	PublishBuffer int // Readings queued while the broker is unreachable.
}

// Enabled reports whether a broker is configured.
func (m MQTT) Enabled() bool { return m.Host != "" }

// WiFi configures the Pico W network link.
type WiFi struct {
	SSID     string
	Password string
	Hostname string
}

// Linked returns the values injected at link time.
func Linked() Values {
	return Values{
		Interval:      interval,
		Sensor:        sensor,
		Throttle:      throttle,
		LogLevel:      logLevel,
		BrokerAddr:    brokerAddr,
		Topic:         topic,
		ClientID:      clientID,
		BrokerUser:    brokerUser,
		BrokerPass:    brokerPass,
		SSID:          ssid,
		Pass:          pass,
		Hostname:      hostname,
		Heartbeat:     heartbeat,
		PublishBuffer: publishBuffer,
	}
}

// Load parses the values injected at link time.
func Load() (Config, error) {
	return Parse(Linked())
}

// Error reports an invalid setting.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return "config: " + e.Field + ": " + e.Reason
}

// Parse validates v and converts it to a Config.
func Parse(v Values) (Config, error) {
	var cfg Config
	var err error

	if cfg.Interval, err = parseDuration("interval", v.Interval, false); err != nil {
		return Config{}, err
	}

	switch kind := SensorKind(strings.ToLower(strings.TrimSpace(v.Sensor))); kind {
	case "", SensorBME280:
		cfg.Sensor = SensorBME280
	case SensorDHT11:
		cfg.Sensor = SensorDHT11
	default:
		return Config{}, &Error{Field: "sensor", Reason: "unknown sensor " + `"` + v.Sensor + `"`}
	}

	if v.Throttle != "" {
		if cfg.Throttle, err = parseDuration("throttle", v.Throttle, true); err != nil {
			return Config{}, err
		}
	} else if cfg.Sensor == SensorDHT11 {
		cfg.Throttle = dht11MinInterval
	}

	if cfg.LogLevel, err = parseLevel(v.LogLevel); err != nil {
		return Config{}, err
	}

	if cfg.MQTT, err = parseMQTT(v); err != nil {
		return Config{}, err
	}

	cfg.WiFi = WiFi{SSID: v.SSID, Password: v.Pass, Hostname: v.Hostname}
	if cfg.MQTT.Enabled() {
		if cfg.WiFi.SSID == "" {
			return Config{}, &Error{Field: "ssid", Reason: "required when a broker is set"}
		}
		if cfg.WiFi.Hostname == "" {
			return Config{}, &Error{Field: "hostname", Reason: "required when a broker is set"}
		}
	}
	return cfg, nil
}

func parseMQTT(v Values) (MQTT, error) {
	m := MQTT{
		Addr:     strings.TrimSpace(v.BrokerAddr),
		Topic:    v.Topic,
		ClientID: v.ClientID,
		Username: v.BrokerUser,
		Password: v.BrokerPass,
	}
	if m.Addr == "" {
		return m, nil
	}
	var err error
	if m.Host, m.Port, err = SplitHostPort(m.Addr); err != nil {
		return MQTT{}, &Error{Field: "broker", Reason: err.Error()}
	}
	if m.Topic == "" {
		return MQTT{}, &Error{Field: "topic", Reason: "required when a broker is set"}
	}
	if m.ClientID == "" {
		return MQTT{}, &Error{Field: "client id", Reason: "required when a broker is set"}
	}
	if m.Password != "" && m.Username == "" {
		return MQTT{}, &Error{Field: "broker password", Reason: "requires a username"}
	}
	if m.Heartbeat, err = parseDuration("heartbeat", v.Heartbeat, false); err != nil {
		return MQTT{}, err
	}
	n, ok := parseUint(v.PublishBuffer)
	if !ok || n == 0 || n > 256 {
		return MQTT{}, &Error{Field: "publish buffer", Reason: "must be between 1 and 256"}
	}
	m.PublishBuffer = int(n)
	return m, nil
}

func parseDuration(field, s string, allowZero bool) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, &Error{Field: field, Reason: err.Error()}
	}
	if d < 0 || (d == 0 && !allowZero) {
		return 0, &Error{Field: field, Reason: "must be positive"}
	}
	return d, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, &Error{Field: "log level", Reason: "unknown level " + `"` + s + `"`}
}
