package chat

import (
	"strings"
	"sync"

	"vliz-backend/internal/state"
)

// AuthorshipOracle decides whether a rendered message originated from the
// current client. The contract is content-based on purpose: the shared log
// has no per-message identity, so trimmed-text membership is the only
// available signal. An identity-based implementation can replace this one
// once the log grows structured records with real IDs.
type AuthorshipOracle interface {
	RecordSent(body string) error
	IsMine(body string) bool
	Forget(body string) error
}

// ContentEchoSet is the content-based oracle, persisting the set of sent
// bodies through the client state store.
//
// Known limitation: two distinct authors sending byte-identical trimmed
// text are indistinguishable here; both render as "mine" on the client
// that sent that text first. This is a property of the design, not a bug.
type ContentEchoSet struct {
	mu    sync.Mutex
	state *state.ClientState
}

func NewContentEchoSet(st *state.ClientState) *ContentEchoSet {
	return &ContentEchoSet{state: st}
}

func (e *ContentEchoSet) RecordSent(body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	bodies := e.state.SentBodies()
	for _, b := range bodies {
		if b == body {
			return nil
		}
	}
	return e.state.SetSentBodies(append(bodies, body))
}

func (e *ContentEchoSet) IsMine(body string) bool {
	body = strings.TrimSpace(body)

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, b := range e.state.SentBodies() {
		if b == body {
			return true
		}
	}
	return false
}

// Forget removes a body from the set after its log record is deleted.
// Without this the set grows without bound and a stale entry would
// misattribute a future message with identical text.
func (e *ContentEchoSet) Forget(body string) error {
	body = strings.TrimSpace(body)

	e.mu.Lock()
	defer e.mu.Unlock()

	bodies := e.state.SentBodies()
	kept := bodies[:0]
	for _, b := range bodies {
		if b != body {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(bodies) {
		return nil
	}
	return e.state.SetSentBodies(kept)
}
