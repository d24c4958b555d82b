package weather

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNewReading(t *testing.T) {
	tests := []struct {
		name string
		in   Sample
		want Reading
	}{
		{"room", Sample{TemperatureC: 20, Humidity: 45.2}, Reading{TempC: 20, TempF: 68, Humidity: 45}},
		{"freezing", Sample{TemperatureC: 0, Humidity: 80.6}, Reading{TempC: 0, TempF: 32, Humidity: 81}},
		{"below zero", Sample{TemperatureC: -17.2, Humidity: 10}, Reading{TempC: -17, TempF: 1, Humidity: 10}},
		{"warm", Sample{TemperatureC: 22.3, Humidity: 45}, Reading{TempC: 22, TempF: 72, Humidity: 45}},
		{"tie rounds to even", Sample{TemperatureC: 22.5, Humidity: 44.5}, Reading{TempC: 22, TempF: 72, Humidity: 44}},
		{"body", Sample{TemperatureC: 37, Humidity: 99.9}, Reading{TempC: 37, TempF: 99, Humidity: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewReading(tt.in); got != tt.want {
				t.Errorf("NewReading(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      Sample
		wantErr bool
	}{
		{"ok", Sample{TemperatureC: 21, PressurePa: 101325, Humidity: 40}, false},
		{"limits", Sample{TemperatureC: -40, Humidity: 100}, false},
		{"too hot", Sample{TemperatureC: 120, Humidity: 40}, true},
		{"nan temperature", Sample{TemperatureC: float32(math.NaN()), Humidity: 40}, true},
		{"humidity over 100", Sample{TemperatureC: 21, Humidity: 100.5}, true},
		{"negative humidity", Sample{TemperatureC: 21, Humidity: -1}, true},
		{"negative pressure", Sample{TemperatureC: 21, Humidity: 40, PressurePa: -5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate("test", tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsSensorReadError(err) {
				t.Errorf("Expected *SensorReadError, got %T", err)
			}
		})
	}
}

type fakeBME struct {
	connected bool
	temp      int32
	press     int32
	hum       int32
	tempErr   error
	humErr    error
}

func (f *fakeBME) Connected() bool { return f.connected }

func (f *fakeBME) ReadTemperature() (int32, error) { return f.temp, f.tempErr }

func (f *fakeBME) ReadPressure() (int32, error) { return f.press, nil }

func (f *fakeBME) ReadHumidity() (int32, error) { return f.hum, f.humErr }

func TestBME280Read(t *testing.T) {
	dev := &fakeBME{connected: true, temp: 22340, press: 101325000, hum: 4512}
	s, err := NewBME280(dev).Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if math.Abs(float64(s.TemperatureC)-22.34) > 1e-4 {
		t.Errorf("Expected 22.34C, got %v", s.TemperatureC)
	}
	if math.Abs(float64(s.PressurePa)-101325) > 1 {
		t.Errorf("Expected 101325Pa, got %v", s.PressurePa)
	}
	if math.Abs(float64(s.Humidity)-45.12) > 1e-4 {
		t.Errorf("Expected 45.12%%, got %v", s.Humidity)
	}
}

func TestBME280Errors(t *testing.T) {
	busErr := errors.New("i2c: timeout")
	tests := []struct {
		name string
		dev  *fakeBME
	}{
		{"disconnected", &fakeBME{connected: false}},
		{"temperature bus error", &fakeBME{connected: true, tempErr: busErr}},
		{"humidity bus error", &fakeBME{connected: true, temp: 20000, humErr: busErr}},
		{"malformed humidity", &fakeBME{connected: true, temp: 20000, hum: 25000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBME280(tt.dev).Read()
			var sre *SensorReadError
			if !errors.As(err, &sre) {
				t.Fatalf("Expected *SensorReadError, got %v", err)
			}
			if sre.Sensor != "bme280" {
				t.Errorf("Expected sensor bme280, got %q", sre.Sensor)
			}
		})
	}

	_, err := NewBME280(&fakeBME{connected: true, tempErr: busErr}).Read()
	if !errors.Is(err, busErr) {
		t.Errorf("Expected bus error to be wrapped, got %v", err)
	}
}

type scriptedSource struct {
	samples []Sample
	errs    []error
	calls   int
}

func (s *scriptedSource) Read() (Sample, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return Sample{}, s.errs[i]
	}
	return s.samples[i], nil
}

func TestThrottled(t *testing.T) {
	readErr := &SensorReadError{Sensor: "test", Op: "read"}
	src := &scriptedSource{
		samples: []Sample{{TemperatureC: 20}, {}, {TemperatureC: 21}},
		errs:    []error{nil, readErr, nil},
	}
	clock := time.Unix(0, 0)
	th := NewThrottled(src, 2*time.Second)
	th.now = func() time.Time { return clock }

	s, cached, err := th.ReadCached()
	if err != nil || cached || s.TemperatureC != 20 {
		t.Fatalf("first read = %+v cached=%v err=%v", s, cached, err)
	}

	clock = clock.Add(time.Second)
	s, cached, err = th.ReadCached()
	if err != nil || !cached || s.TemperatureC != 20 {
		t.Errorf("throttled read = %+v cached=%v err=%v", s, cached, err)
	}
	if src.calls != 1 {
		t.Errorf("Expected 1 sensor query, got %d", src.calls)
	}

	clock = clock.Add(2 * time.Second)
	if _, err = th.Read(); !errors.Is(err, readErr) {
		t.Errorf("Expected read error to surface, got %v", err)
	}

	// The failed read does not refresh the cache timestamp, so the next
	// read queries the sensor again.
	s, err = th.Read()
	if err != nil || s.TemperatureC != 21 {
		t.Errorf("read after failure = %+v err=%v", s, err)
	}
	if src.calls != 3 {
		t.Errorf("Expected 3 sensor queries, got %d", src.calls)
	}
}
