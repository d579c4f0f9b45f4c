package writer

import "io"

// CountingWriter tracks the number of bytes written through it. With no
// destination it discards the bytes and only keeps the running offset,
// which makes it the sink for measuring serialized sizes without touching
// storage. With a destination it tees while counting, which is how the
// document writer records cross-reference offsets.
type CountingWriter struct {
	dst io.Writer
	n   int64
}

// NewCountingWriter returns a writer that discards bytes and counts them.
func NewCountingWriter() *CountingWriter {
	return &CountingWriter{}
}

// NewCountingTee returns a writer that forwards bytes to dst and counts
// them.
func NewCountingTee(dst io.Writer) *CountingWriter {
	return &CountingWriter{dst: dst}
}

// Write implements io.Writer.
func (cw *CountingWriter) Write(p []byte) (int, error) {
	if cw.dst != nil {
		n, err := cw.dst.Write(p)
		cw.n += int64(n)
		return n, err
	}
	cw.n += int64(len(p))
	return len(p), nil
}

// Count returns the number of bytes written so far.
func (cw *CountingWriter) Count() int64 {
	return cw.n
}
