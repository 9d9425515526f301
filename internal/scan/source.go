// Package scan manages the live QR decode session the admin console runs at
// the venue entrance: a decode source emitting secrets, dedup of repeated
// reads, ticket lookup, and the validate (consume) action.
package scan

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// ErrNotFound signals a frame with no decodable code in it. It is expected
// steady-state noise, not an error condition.
var ErrNotFound = errors.New("no code found")

// Result is one emission from a decode source: a decoded text or an error,
// never both.
type Result struct {
	Text string
	Err  error
}

// Source is a continuous decode stream. Results stays open until Close;
// consumers must call Close on every exit path to release the device.
type Source interface {
	Results() <-chan Result
	Close() error
}

// LineSource adapts a line-oriented reader into a Source. Hardware QR
// scanners in keyboard-wedge/serial mode emit one decoded payload per line;
// a blank line is a frame with nothing in it.
type LineSource struct {
	results chan Result
	closer  io.Closer
	done    chan struct{}
}

// NewLineSource starts reading decoded lines from r. If r is also an
// io.Closer it is closed when the source is.
func NewLineSource(r io.Reader) *LineSource {
	s := &LineSource{
		results: make(chan Result),
		done:    make(chan struct{}),
	}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	go s.read(r)
	return s
}

func (s *LineSource) read(r io.Reader) {
	defer close(s.results)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		res := Result{Text: strings.TrimSpace(scanner.Text())}
		if res.Text == "" {
			res = Result{Err: ErrNotFound}
		}
		select {
		case s.results <- res:
		case <-s.done:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		select {
		case s.results <- Result{Err: err}:
		case <-s.done:
		}
	}
}

// Results returns the decode stream.
func (s *LineSource) Results() <-chan Result {
	return s.results
}

// Close releases the underlying device. Safe to call more than once.
func (s *LineSource) Close() error {
	select {
	case <-s.done:
		return nil
	default:
		close(s.done)
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
