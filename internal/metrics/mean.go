package metrics

import "github.com/san-kum/rhythms/internal/dynamo"

// Mean averages one value channel.
type Mean struct {
	name    string
	channel int
	sum     float64
	samples int
}

func NewMean(name string, channel int) *Mean {
	return &Mean{name: name, channel: channel}
}

func (m *Mean) Name() string { return m.name }

func (m *Mean) Observe(s dynamo.Snapshot) {
	if m.channel >= len(s.Values) {
		return
	}
	m.sum += s.Values[m.channel]
	m.samples++
}

func (m *Mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Mean) Reset() {
	m.sum = 0
	m.samples = 0
}
