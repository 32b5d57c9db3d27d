package service

import "sync"

// RequestGuard hands out increasing sequence numbers per session so that a
// calculation finishing after a newer one started can be discarded. A session
// is forgotten once none of its calculations is in flight.
type RequestGuard struct {
	mu       sync.Mutex
	sessions map[string]*sessionState
}

type sessionState struct {
	latest   uint64
	inflight int
}

func NewRequestGuard() *RequestGuard {
	return &RequestGuard{sessions: make(map[string]*sessionState)}
}

// Ticket identifies one calculation within a session
type Ticket struct {
	Session  string
	Sequence uint64
	guard    *RequestGuard
}

// Begin registers a new calculation for session. An empty session is never
// superseded. Every ticket must be released with Done.
func (g *RequestGuard) Begin(session string) Ticket {
	if session == "" {
		return Ticket{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	state, ok := g.sessions[session]
	if !ok {
		state = &sessionState{}
		g.sessions[session] = state
	}
	state.latest++
	state.inflight++
	return Ticket{Session: session, Sequence: state.latest, guard: g}
}

// Current reports whether no newer calculation began for the ticket's session
func (t Ticket) Current() bool {
	if t.guard == nil {
		return true
	}

	t.guard.mu.Lock()
	defer t.guard.mu.Unlock()

	state, ok := t.guard.sessions[t.Session]
	return ok && state.latest == t.Sequence
}

// Done releases the ticket. The session entry is dropped with its last
// in-flight calculation.
func (t Ticket) Done() {
	if t.guard == nil {
		return
	}

	t.guard.mu.Lock()
	defer t.guard.mu.Unlock()

	state, ok := t.guard.sessions[t.Session]
	if !ok {
		return
	}
	state.inflight--
	if state.inflight <= 0 {
		delete(t.guard.sessions, t.Session)
	}
}

// size returns the number of tracked sessions
func (g *RequestGuard) size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sessions)
}
