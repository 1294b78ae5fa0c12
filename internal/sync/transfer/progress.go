package transfer

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gitpan/App-dropboxapi/internal/utils"
)

// ProgressBar renders a fixed-width ASCII transfer bar, redrawn in place
// after each committed chunk.
type ProgressBar struct {
	out   io.Writer
	total int64
	width int
	drawn bool
}

// NewProgressBar creates a bar for a transfer of total bytes. A nil writer
// disables rendering entirely.
func NewProgressBar(out io.Writer, total int64) *ProgressBar {
	return &ProgressBar{out: out, total: total, width: utils.ProgressBarWidth}
}

// Update redraws the bar for the given committed offset
func (p *ProgressBar) Update(offset int64) {
	if p == nil || p.out == nil || p.total <= 0 {
		return
	}
	if offset > p.total {
		offset = p.total
	}
	filled := int(int64(p.width) * offset / p.total)
	percent := float64(offset) / float64(p.total) * 100

	fmt.Fprintf(p.out, "\r[%s%s] %5.1f%% %s/%s",
		strings.Repeat("=", filled),
		strings.Repeat(" ", p.width-filled),
		percent,
		humanize.IBytes(uint64(offset)),
		humanize.IBytes(uint64(p.total)))
	p.drawn = true
}

// Finish terminates the in-place line
func (p *ProgressBar) Finish() {
	if p == nil || p.out == nil || !p.drawn {
		return
	}
	fmt.Fprintln(p.out)
}
