package clock

import "time"

// Clock supplies the current time. Every logical operation samples it exactly
// once, so a listing never classifies the same booking against two different
// instants within one response.
type Clock interface {
	Now() time.Time
}

// System is a Clock backed by time.Now.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed returns a Clock frozen at t.
func Fixed(t time.Time) Clock {
	return fixed{t}
}

type fixed struct {
	t time.Time
}

func (f fixed) Now() time.Time {
	return f.t
}
