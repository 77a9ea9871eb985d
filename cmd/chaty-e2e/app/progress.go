package app

import (
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/chaty-app/chaty-e2e/internal/report"
)

// Progress renders a progress bar advancing as scenarios finish.
type Progress struct {
	bar *progressbar.ProgressBar
}

func NewProgress(total int, w io.Writer) *Progress {
	return &Progress{
		bar: progressbar.NewOptions(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("running scenarios"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		),
	}
}

func (p *Progress) ScenarioFinished(res report.ScenarioResult) {
	p.bar.Describe(string(res.Status) + " " + res.ID())
	_ = p.bar.Add(1)
}

func (p *Progress) Finish() {
	_ = p.bar.Finish()
}
