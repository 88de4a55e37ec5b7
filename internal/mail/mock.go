package mail

import (
	"context"
	"fmt"
	"sync"
)

// Recorder is a Transport that records messages instead of sending them. It
// backs the demo mode and tests. Setting Fail makes every Send return an
// error, which exercises dispatch failure handling.
type Recorder struct {
	mu   sync.Mutex
	sent []Message

	Fail bool
}

var _ Transport = (*Recorder)(nil)

// NewRecorder creates a recording transport.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Send records the message and returns a synthetic message id. The template
// is still rendered so bad template/variable combinations surface in tests.
func (r *Recorder) Send(_ context.Context, msg Message) (Result, error) {
	if _, err := Render(msg.Template, msg.Vars); err != nil {
		return Result{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return Result{}, fmt.Errorf("mail transport unavailable")
	}
	r.sent = append(r.sent, msg)
	return Result{MessageID: fmt.Sprintf("recorded-%d", len(r.sent))}, nil
}

// Sent returns a copy of the recorded messages.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.sent))
	copy(out, r.sent)
	return out
}
