package weather

import "time"

// Throttled limits how often the wrapped source is queried. Reads within
// MinInterval of the last successful read return the cached sample.
type Throttled struct {
	src         Source
	minInterval time.Duration
	now         func() time.Time

	cached   Sample    // Last successfully read sample.
	lastRead time.Time // When cached was read.
	valid    bool      // Whether cached holds a sample.
}

// NewThrottled wraps src. A non-positive minInterval disables throttling.
func NewThrottled(src Source, minInterval time.Duration) *Throttled {
	return &Throttled{src: src, minInterval: minInterval, now: time.Now}
}

// Read returns a fresh sample, or the cached one if the last successful read
// was less than the minimum interval ago. Errors are never masked by the
// cache.
func (t *Throttled) Read() (s Sample, err error) {
	s, _, err = t.ReadCached()
	return s, err
}

// ReadCached is Read that also reports whether the sample came from the
// cache.
func (t *Throttled) ReadCached() (s Sample, isCached bool, err error) {
	now := t.now()
	if t.valid && now.Sub(t.lastRead) < t.minInterval {
		return t.cached, true, nil
	}
	s, err = t.src.Read()
	if err != nil {
		return Sample{}, false, err
	}
	t.cached = s
	t.lastRead = now
	t.valid = true
	return s, false, nil
}
