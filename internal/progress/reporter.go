package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const defaultUpdateInterval = 100 * time.Millisecond

var spinner = []rune{'|', '/', '-', '\\'}

// Reporter renders a single-line progress display to a terminal. Updates are
// throttled so fast transfers don't spam the output.
type Reporter struct {
	label    string
	out      io.Writer
	interval time.Duration

	mu       sync.Mutex
	total    int64
	done     int64
	spinIdx  int
	lastTick time.Time
	finished bool
}

var _ Sink = (*Reporter)(nil)

// NewReporter creates a Reporter that writes to out. If out is nil,
// os.Stderr is used.
func NewReporter(label string, out io.Writer) *Reporter {
	if out == nil {
		out = os.Stderr
	}
	return &Reporter{
		label:    label,
		out:      out,
		interval: defaultUpdateInterval,
		total:    -1,
	}
}

func (r *Reporter) Start(total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = total
	fmt.Fprintf(r.out, "%s\n", r.label)
}

func (r *Reporter) Add(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done += n
	r.render(false)
}

func (r *Reporter) Done() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return
	}
	r.finished = true
	r.render(true)
	fmt.Fprintln(r.out)
}

// render assumes r.mu is held.
func (r *Reporter) render(force bool) {
	if !force && time.Since(r.lastTick) < r.interval {
		return
	}
	r.lastTick = time.Now()

	if r.total > 0 {
		done := r.done
		if done > r.total {
			done = r.total
		}
		pct := float64(done) / float64(r.total) * 100
		fmt.Fprintf(r.out, "\r%6.2f%% (%s / %s)   ", pct, FormatBytes(done), FormatBytes(r.total))
		return
	}

	ch := spinner[r.spinIdx%len(spinner)]
	r.spinIdx++
	fmt.Fprintf(r.out, "\r[%c] %s transferred   ", ch, FormatBytes(r.done))
}

// FormatBytes renders a byte count as a human-readable size.
func FormatBytes(n int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
		tb = 1024 * gb
	)

	switch {
	case n >= tb:
		return fmt.Sprintf("%.2f TB", float64(n)/float64(tb))
	case n >= gb:
		return fmt.Sprintf("%.2f GB", float64(n)/float64(gb))
	case n >= mb:
		return fmt.Sprintf("%.2f MB", float64(n)/float64(mb))
	case n >= kb:
		return fmt.Sprintf("%.2f KB", float64(n)/float64(kb))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
