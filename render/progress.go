package render

import (
	"time"

	"github.com/schollz/progressbar/v3"

	sim "github.com/Hayser8/SistosSheduling"
)

// ReplayBar is a progress bar over the cycles of a replay, 0..maxCycle.
func (p *Printer) ReplayBar(maxCycle int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxCycle+1,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "",
			BarEnd:        "",
		}),
		progressbar.OptionThrottle(50*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// OnCycleProgress returns an engine callback that advances bar once per cycle instead of
// printing the cycle.
func OnCycleProgress[T sim.Timed](bar *progressbar.ProgressBar) sim.CycleFunc[T] {
	return func(int, []T) {
		_ = bar.Add(1)
	}
}
