package collectors

import (
	"math"
	"time"

	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/state"
)

// Visualizer synthesizes animated spectrum bands for the front-end
// equalizer widget. Real capture (cava) would slot in behind the same
// Collect signature.
type Visualizer struct {
	bandCount int
	now       func() time.Time
}

func NewVisualizer(bandCount int) *Visualizer {
	if bandCount <= 0 {
		bandCount = state.DefaultBandCount
	}
	return &Visualizer{bandCount: bandCount, now: time.Now}
}

// Collect renders one frame of the animation. It cannot fail.
func (v *Visualizer) Collect() state.VisualizerData {
	t := float64(v.now().UnixNano()) / float64(time.Second)

	bands := make([]float64, v.bandCount)
	for i := range bands {
		fi := float64(i)
		bands[i] = math.Abs(math.Sin(fi*0.5+t*2.0))*0.5 +
			math.Abs(math.Cos(fi*0.2+t*3.0))*0.3
	}

	return state.VisualizerData{
		FrequencyBands: bands,
		SampleRate:     44100,
		BandCount:      v.bandCount,
	}
}
