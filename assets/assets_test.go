package assets

import (
	"testing"

	"github.com/harveysanders/picoclimate/icons"
)

func TestIconsDecode(t *testing.T) {
	c := icons.NewCache(FS, icons.Dir)
	for _, id := range []string{icons.Temperature, icons.Humidity, icons.Fahrenheit, icons.Celsius, icons.Percent} {
		bm, err := c.Get(id)
		if err != nil {
			t.Errorf("Get(%q) failed: %v", id, err)
			continue
		}
		if bm.Width() != 20 || bm.Height() != 20 {
			t.Errorf("%s: expected 20x20, got %dx%d", id, bm.Width(), bm.Height())
		}
	}
}
