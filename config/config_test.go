package config

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Interval != time.Second {
		t.Errorf("Expected 1s interval, got %v", cfg.Interval)
	}
	if cfg.Sensor != SensorBME280 {
		t.Errorf("Expected bme280, got %q", cfg.Sensor)
	}
	if cfg.Throttle != 0 {
		t.Errorf("Expected no throttle, got %v", cfg.Throttle)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("Expected info level, got %v", cfg.LogLevel)
	}
	if cfg.MQTT.Enabled() {
		t.Error("Expected telemetry disabled without a broker")
	}
}

func validMQTT() Values {
	v := Linked()
	v.BrokerAddr = "broker.local:1883"
	v.SSID = "home"
	v.Pass = "secret"
	return v
}

func TestParseMQTT(t *testing.T) {
	v := validMQTT()
	v.BrokerUser = "pico"
	v.BrokerPass = "hunter2"
	cfg, err := Parse(v)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	m := cfg.MQTT
	if !m.Enabled() || m.Host != "broker.local" || m.Port != 1883 {
		t.Errorf("Unexpected broker %+v", m)
	}
	if m.Heartbeat != 30*time.Second || m.PublishBuffer != 10 {
		t.Errorf("Unexpected heartbeat/buffer %v/%d", m.Heartbeat, m.PublishBuffer)
	}
	if cfg.WiFi.SSID != "home" || cfg.WiFi.Hostname != "picoclimate" {
		t.Errorf("Unexpected wifi %+v", cfg.WiFi)
	}
}

func TestParseDHT11Throttle(t *testing.T) {
	v := Linked()
	v.Sensor = "DHT11"
	cfg, err := Parse(v)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Sensor != SensorDHT11 || cfg.Throttle != 2*time.Second {
		t.Errorf("Expected dht11 with 2s throttle, got %q %v", cfg.Sensor, cfg.Throttle)
	}

	v.Throttle = "5s"
	if cfg, err = Parse(v); err != nil || cfg.Throttle != 5*time.Second {
		t.Errorf("Expected explicit 5s throttle, got %v (%v)", cfg.Throttle, err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Values)
		field string
	}{
		{"zero interval", func(v *Values) { v.Interval = "0s" }, "interval"},
		{"bad interval", func(v *Values) { v.Interval = "soon" }, "interval"},
		{"negative throttle", func(v *Values) { v.Throttle = "-1s" }, "throttle"},
		{"unknown sensor", func(v *Values) { v.Sensor = "sht31" }, "sensor"},
		{"unknown level", func(v *Values) { v.LogLevel = "loud" }, "log level"},
		{"broker without port", func(v *Values) { v.BrokerAddr = "broker.local" }, "broker"},
		{"broker bad port", func(v *Values) { v.BrokerAddr = "broker.local:http" }, "broker"},
		{"broker port range", func(v *Values) { v.BrokerAddr = "broker.local:70000" }, "broker"},
		{"empty topic", func(v *Values) { v.Topic = "" }, "topic"},
		{"password without user", func(v *Values) { v.BrokerPass = "x" }, "broker password"},
		{"no ssid", func(v *Values) { v.SSID = "" }, "ssid"},
		{"no buffer", func(v *Values) { v.PublishBuffer = "0" }, "publish buffer"},
		{"bad heartbeat", func(v *Values) { v.Heartbeat = "" }, "heartbeat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validMQTT()
			tt.edit(&v)
			_, err := Parse(v)
			var cerr *Error
			if !errors.As(err, &cerr) {
				t.Fatalf("Expected *config.Error, got %v", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("Expected field %q, got %q (%v)", tt.field, cerr.Field, err)
			}
		})
	}
}

func TestSplitHostPort(t *testing.T) {
	tests := []struct {
		in       string
		wantHost string
		wantPort uint16
		wantErr  bool
	}{
		{"10.0.0.9:1883", "10.0.0.9", 1883, false},
		{"broker.hivemq.com:8883", "broker.hivemq.com", 8883, false},
		{"[fe80::1]:1883", "fe80::1", 1883, false},
		{"fe80::1:1883", "fe80::1", 1883, false},
		{"broker", "", 0, true},
		{":1883", "", 0, true},
		{"broker:", "", 0, true},
		{"broker:0", "", 0, true},
		{"broker:18a3", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			host, port, err := SplitHostPort(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitHostPort(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if host != tt.wantHost || port != tt.wantPort {
				t.Errorf("SplitHostPort(%q) = %q, %d; want %q, %d", tt.in, host, port, tt.wantHost, tt.wantPort)
			}
		})
	}
}
