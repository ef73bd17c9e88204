// Package progress provides terminal progress reporting for transfers:
// a single-transfer bar for pull/push and a multi-bar UI for batches.
// Bars render on stderr so stdout stays parseable.
package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives transfer progress in bytes. Implementations decide how
// to render it; a nil-safe NoOp exists for silent operations.
type Reporter interface {
	Start(total int64, description string)
	Update(current int64)
	Finish()
	Error(err error)
}

// SingleBar renders one transfer as a progress bar on stderr.
type SingleBar struct {
	bar *progressbar.ProgressBar
}

// NewSingleBar creates an unstarted single-transfer bar.
func NewSingleBar() *SingleBar {
	return &SingleBar{}
}

// Start initializes the bar. A total of 100 with unknown byte counts still
// renders sensibly: the engine reports raw percent in that case.
func (p *SingleBar) Start(total int64, description string) {
	p.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Update moves the bar to the current byte position.
func (p *SingleBar) Update(current int64) {
	if p.bar != nil {
		_ = p.bar.Set64(current)
	}
}

// Finish completes the bar.
func (p *SingleBar) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// Error prints an error below the bar.
func (p *SingleBar) Error(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
	}
}

// NoOp is a Reporter that does nothing.
type NoOp struct{}

func (NoOp) Start(total int64, description string) {}
func (NoOp) Update(current int64)                  {}
func (NoOp) Finish()                               {}
func (NoOp) Error(err error)                       {}
