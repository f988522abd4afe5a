package metrics

import "github.com/san-kum/rhythms/internal/dynamo"

// Episodes counts rising edges of a boolean metadata flag, e.g. how many
// avalanches started during a run.
type Episodes struct {
	name    string
	flag    string
	active  bool
	count   int
	samples int
}

func NewEpisodes(name, flag string) *Episodes {
	return &Episodes{name: name, flag: flag}
}

func (e *Episodes) Name() string { return e.name }

func (e *Episodes) Observe(s dynamo.Snapshot) {
	on := s.Flag(e.flag)
	if on && !e.active {
		e.count++
	}
	e.active = on
	e.samples++
}

func (e *Episodes) Value() float64 { return float64(e.count) }

func (e *Episodes) Reset() {
	e.active = false
	e.count = 0
	e.samples = 0
}
