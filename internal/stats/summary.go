package stats

import (
	"strconv"
	"strings"
)

// Summary describes the cell population at one simulation tick.
type Summary struct {
	Active    int
	Appearing int
	Settled   int
	Fading    int
	MeanNoise float64
	// Activity is the active share of all cell coordinates.
	Activity float64
	Envelope float64
	// Churn is the change in active cells since the previous tick.
	Churn int
	// FlickerPeriod is in ticks; 0 while unknown.
	FlickerPeriod float64
}

// AppendStatus writes a compact one-line description of s to builder.
func (s Summary) AppendStatus(builder *strings.Builder) {
	builder.WriteString("cells ")
	builder.WriteString(strconv.Itoa(s.Active))
	builder.WriteString(" (+")
	builder.WriteString(strconv.Itoa(s.Appearing))
	builder.WriteString(" -")
	builder.WriteString(strconv.Itoa(s.Fading))
	builder.WriteString(") act ")
	appendFloat(builder, s.Activity, 2)
	builder.WriteString(" env ")
	appendFloat(builder, s.Envelope, 2)
	builder.WriteString(" noise ")
	appendFloat(builder, s.MeanNoise, 2)
	if s.FlickerPeriod > 0 {
		builder.WriteString(" flicker ")
		appendFloat(builder, s.FlickerPeriod, 1)
		builder.WriteString("t")
	}
}

func appendFloat(builder *strings.Builder, value float64, precision int) {
	var buf [32]byte
	b := strconv.AppendFloat(buf[:0], value, 'f', precision, 64)
	builder.Write(b)
}
