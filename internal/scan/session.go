package scan

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studi-jo/billetterie/pkg/domain"
)

// API is the backend surface the scan session needs. *client.AdminClient
// satisfies it.
type API interface {
	ScanTicket(ctx context.Context, secret string) (*domain.TicketScan, error)
	ValidateTicket(ctx context.Context, secret string) (*domain.ValidateResponse, error)
}

// Session tracks one scanning shift: the currently displayed ticket keyed by
// its decoded secret, lookup/validation errors, and the optimistic USED flip
// after a successful validation.
type Session struct {
	mu  sync.Mutex
	api API
	log *zap.Logger
	id  string

	secret    string
	ticket    *domain.TicketScan
	scanErr   error
	deviceErr error
	notice    string
}

// NewSession creates a scan session with a fresh identifier for log
// correlation.
func NewSession(api API, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{api: api, log: log, id: uuid.NewString()}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Decode handles one decoded secret. Re-reading the secret already on
// display is a no-op so a ticket held in front of the scanner does not hammer
// the backend. A new secret clears prior state and fetches its details; a
// lookup failure is kept inline and the session stays live.
func (s *Session) Decode(ctx context.Context, secret string) {
	s.mu.Lock()
	if secret == "" || secret == s.secret {
		s.mu.Unlock()
		return
	}
	s.secret = secret
	s.ticket = nil
	s.scanErr = nil
	s.notice = ""
	s.mu.Unlock()

	s.log.Debug("ticket decoded", zap.String("session", s.id))
	ticket, err := s.api.ScanTicket(ctx, secret)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.secret != secret {
		// A different secret took over while this lookup was in flight.
		return
	}
	if err != nil {
		s.scanErr = err
		return
	}
	s.ticket = ticket
}

// Validate consumes one entry on the displayed ticket. A ticket already
// marked USED is a no-op with no backend call. On success the local snapshot
// flips to USED without a re-fetch; on failure the status is left unchanged
// so the operator can retry.
func (s *Session) Validate(ctx context.Context) error {
	s.mu.Lock()
	secret := s.secret
	ticket := s.ticket
	s.mu.Unlock()

	if secret == "" || ticket == nil || ticket.IsUsed() {
		return nil
	}

	resp, err := s.api.ValidateTicket(ctx, secret)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.scanErr = err
		return err
	}
	if s.secret == secret && s.ticket != nil {
		flipped := *s.ticket
		flipped.Status = "USED"
		s.ticket = &flipped
		s.notice = resp.Message
	}
	s.log.Info("ticket validated", zap.String("session", s.id))
	return nil
}

// HandleResult routes one source emission: "not found" noise is dropped,
// other decode errors become the device-level banner without stopping the
// loop, and decoded text goes through Decode.
func (s *Session) HandleResult(ctx context.Context, res Result) {
	if res.Err != nil {
		if res.Err == ErrNotFound {
			return
		}
		s.mu.Lock()
		s.deviceErr = res.Err
		s.mu.Unlock()
		return
	}
	s.Decode(ctx, res.Text)
}

// Run consumes a source until the context ends or the stream closes. The
// source is released on every exit path.
func (s *Session) Run(ctx context.Context, src Source) {
	defer src.Close() //nolint:errcheck
	for {
		select {
		case <-ctx.Done():
			return
		case res, ok := <-src.Results():
			if !ok {
				return
			}
			s.HandleResult(ctx, res)
		}
	}
}

// Reset clears the displayed ticket and all transient errors, keeping the
// session (and its source) alive for the next scan.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = ""
	s.ticket = nil
	s.scanErr = nil
	s.notice = ""
}

// Secret returns the secret currently on display, or "".
func (s *Session) Secret() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.secret
}

// Ticket returns the displayed ticket snapshot, or nil.
func (s *Session) Ticket() *domain.TicketScan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticket
}

// CanValidate reports whether the validate action is available.
func (s *Session) CanValidate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.secret != "" && s.ticket != nil && !s.ticket.IsUsed()
}

// ScanErr returns the inline lookup/validation error, or nil.
func (s *Session) ScanErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scanErr
}

// DeviceErr returns the persistent device-level error, or nil.
func (s *Session) DeviceErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deviceErr
}

// Notice returns the last success message, or "".
func (s *Session) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}
