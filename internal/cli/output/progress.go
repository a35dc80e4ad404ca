package output

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/yndnr/filedrop/pkg/bytesize"
)

// ProgressBar displays transfer progress on a single terminal line.
type ProgressBar struct {
	w       io.Writer
	title   string
	total   int64
	current int64
	width   int
	mu      sync.Mutex
}

// NewProgressBar creates a progress bar. A non-positive total shows only
// the byte count.
func NewProgressBar(w io.Writer, title string, total int64) *ProgressBar {
	return &ProgressBar{
		w:     w,
		title: title,
		total: total,
		width: 40,
	}
}

// Add records n more bytes.
func (p *ProgressBar) Add(n int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current += n
	p.render()
}

// Finish renders the final state and ends the line.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.total > 0 && p.current < p.total {
		p.current = p.total
	}
	p.render()
	fmt.Fprintln(p.w)
}

// Reader wraps r so every read advances the bar.
func (p *ProgressBar) Reader(r io.Reader) io.Reader {
	return &progressReader{r: r, bar: p}
}

func (p *ProgressBar) render() {
	if p.total <= 0 {
		fmt.Fprintf(p.w, "\r%s %s", p.title, bytesize.Format(p.current))
		return
	}

	ratio := float64(p.current) / float64(p.total)
	if ratio > 1 {
		ratio = 1
	}
	filled := int(float64(p.width) * ratio)

	fmt.Fprintf(p.w, "\r%s [%s%s] %3.0f%% (%s/%s)",
		p.title,
		strings.Repeat("#", filled),
		strings.Repeat(".", p.width-filled),
		ratio*100,
		bytesize.Format(p.current),
		bytesize.Format(p.total),
	)
}

type progressReader struct {
	r   io.Reader
	bar *ProgressBar
}

func (pr *progressReader) Read(b []byte) (int, error) {
	n, err := pr.r.Read(b)
	if n > 0 {
		pr.bar.Add(int64(n))
	}
	return n, err
}
