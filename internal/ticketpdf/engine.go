// Package ticketpdf renders a purchased ticket as a one-page PDF with its QR
// code embedded, saved to disk for printing or offline use.
package ticketpdf

import (
	"context"
	"sync"

	"github.com/go-pdf/fpdf"
	"golang.org/x/sync/singleflight"
)

// Engine is the document-rendering capability. Constructing it is treated as
// expensive, so it goes through the Loader exactly once per process.
type Engine struct{}

// NewDocument returns a fresh portrait A4 document in point units.
func (e *Engine) NewDocument() *fpdf.Fpdf {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	return doc
}

// Loader memoizes engine construction. Concurrent callers share one
// in-flight load; a failed load is not cached, so the next caller retries.
type Loader struct {
	init func() (*Engine, error)

	sf     singleflight.Group
	mu     sync.Mutex
	cached *Engine
}

// NewLoader returns a loader around init. A nil init builds the default
// engine.
func NewLoader(init func() (*Engine, error)) *Loader {
	if init == nil {
		init = func() (*Engine, error) { return &Engine{}, nil }
	}
	return &Loader{init: init}
}

// Load returns the engine, constructing it on first use.
func (l *Loader) Load(ctx context.Context) (*Engine, error) {
	l.mu.Lock()
	if l.cached != nil {
		engine := l.cached
		l.mu.Unlock()
		return engine, nil
	}
	l.mu.Unlock()

	ch := l.sf.DoChan("engine", func() (any, error) {
		engine, err := l.init()
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cached = engine
		l.mu.Unlock()
		return engine, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Engine), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
