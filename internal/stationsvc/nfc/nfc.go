package nfc

import (
	"context"
	"errors"
	"sync"
)

// ErrUnsupported means the host has no tag-read capability. This is a
// supported degraded mode, not a failure: the QR path keeps working.
var ErrUnsupported = errors.New("nfc reader not available on this host")

// Reader is the host tag-read capability. Implementations deliver the stable
// serial identifier of each tag until the context is canceled.
type Reader interface {
	Scan(ctx context.Context, onRead func(serial string)) error
}

// Session owns one start/stoppable scan on a reader. Stopping cancels the
// scan context so the underlying resource is released immediately and the
// session can be restarted without leaking.
type Session struct {
	reader Reader

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewSession wraps a reader; a nil reader yields a session that reports
// ErrUnsupported on Start.
func NewSession(reader Reader) *Session {
	return &Session{reader: reader}
}

func (s *Session) Start(onRead func(serial string), onErr func(error)) error {
	if s.reader == nil {
		return ErrUnsupported
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return errors.New("scan already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go func() {
		err := s.reader.Scan(ctx, onRead)
		if err != nil && !errors.Is(err, context.Canceled) {
			onErr(err)
		}
	}()

	return nil
}

func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cancel != nil
}
