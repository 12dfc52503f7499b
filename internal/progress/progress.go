package progress

import "io"

// Sink receives byte-level progress updates from a transfer. Implementations
// must tolerate Add being called before Start when the total is unknown.
type Sink interface {
	// Start announces the total number of bytes, or a negative value when the
	// total is unknown.
	Start(total int64)

	// Add reports that n more bytes have been transferred.
	Add(n int64)

	// Done marks the transfer as finished.
	Done()
}

// Nop is a Sink that discards all updates.
type Nop struct{}

func (Nop) Start(int64) {}
func (Nop) Add(int64)   {}
func (Nop) Done()       {}

// CountingReader wraps an io.Reader and forwards the number of bytes read to
// a Sink.
type CountingReader struct {
	R    io.Reader
	Sink Sink
}

func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.R.Read(p)
	if n > 0 {
		c.Sink.Add(int64(n))
	}
	return n, err
}
