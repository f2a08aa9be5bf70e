package mediax

import "io"

// capReader passes through at most max bytes and fails with errBodyTooLarge
// as soon as the source has more. max <= 0 disables the cap.
type capReader struct {
	r    io.Reader
	max  int64
	read int64
}

func newCapReader(r io.Reader, max int64) io.Reader {
	if max <= 0 {
		return r
	}
	return &capReader{r: r, max: max}
}

func (c *capReader) Read(p []byte) (int, error) {
	if c.read > c.max {
		return 0, errBodyTooLarge
	}
	// Allow one byte past the cap so an exactly-max body still reports EOF.
	if room := c.max + 1 - c.read; int64(len(p)) > room {
		p = p[:room]
	}
	n, err := c.r.Read(p)
	c.read += int64(n)
	if c.read > c.max {
		return n - int(c.read-c.max), errBodyTooLarge
	}
	return n, err
}
