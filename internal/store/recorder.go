package store

import (
	"sync"

	"github.com/ayusman/mediagraph/internal/app"
	"github.com/ayusman/mediagraph/internal/logger"
)

// Recorder is an app.Sink writing every processed frame to a session.
// Write failures are logged and counted; they never stop the loop.
type Recorder struct {
	store   *Store
	session *Session

	mu       sync.Mutex
	failures int
	ended    bool
}

var _ app.Sink = (*Recorder)(nil)

// NewRecorder starts a session for the named detector.
func NewRecorder(s *Store, detector string, config any) (*Recorder, error) {
	sess, err := s.Sessions().Create(detector, config)
	if err != nil {
		return nil, err
	}
	logger.S().Infow("recording session", "session", sess.ID, "detector", detector, "db", s.Path())
	return &Recorder{store: s, session: sess}, nil
}

// Session returns the session being recorded.
func (r *Recorder) Session() *Session {
	return r.session
}

// Consume implements app.Sink.
func (r *Recorder) Consume(p app.Processed) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ended {
		return
	}

	f := &Frame{
		SessionID:  r.session.ID,
		Seq:        p.Seq,
		Detected:   p.Result.Detected,
		CapturedAt: p.Timestamp,
		Entities:   p.Result.Entities,
	}
	if err := r.store.Frames().Add(f); err != nil {
		r.failures++
		logger.S().Warnw("record frame", "session", r.session.ID, "seq", p.Seq, "error", err)
	}
}

// Failures returns how many frames could not be written.
func (r *Recorder) Failures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failures
}

// Close ends the session. The store stays open.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ended {
		return nil
	}
	r.ended = true
	return r.store.Sessions().End(r.session.ID)
}
