package game

import (
	"sync"
	"testing"
	"time"
)

// sent is one call made on fakeBroadcaster.
type sent struct {
	kind    string // "send", "broadcast" or "except"
	target  string // connection ID or room
	skip    string
	event   string
	payload any
}

// fakeBroadcaster records every event in call order.
type fakeBroadcaster struct {
	mu      sync.Mutex
	calls   []sent
	members map[string]map[string]bool
	closed  []string
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{members: make(map[string]map[string]bool)}
}

func (f *fakeBroadcaster) Join(connID, room string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.members[room] == nil {
		f.members[room] = make(map[string]bool)
	}
	f.members[room][connID] = true
}

func (f *fakeBroadcaster) Send(connID, event string, payload any) {
	f.record(sent{kind: "send", target: connID, event: event, payload: payload})
}

func (f *fakeBroadcaster) Broadcast(room, event string, payload any) {
	f.record(sent{kind: "broadcast", target: room, event: event, payload: payload})
}

func (f *fakeBroadcaster) BroadcastExcept(room, skipConnID, event string, payload any) {
	f.record(sent{kind: "except", target: room, skip: skipConnID, event: event, payload: payload})
}

func (f *fakeBroadcaster) CloseRoom(room string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.members, room)
	f.closed = append(f.closed, room)
}

func (f *fakeBroadcaster) record(c sent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeBroadcaster) all() []sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sent(nil), f.calls...)
}

// named returns the calls for one event name.
func (f *fakeBroadcaster) named(event string) []sent {
	var out []sent
	for _, c := range f.all() {
		if c.event == event {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeBroadcaster) eventNames() []string {
	var out []string
	for _, c := range f.all() {
		out = append(out, c.event)
	}
	return out
}

func (f *fakeBroadcaster) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeBroadcaster) isMember(room, connID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.members[room][connID]
}

func testParams() Parameters {
	p := DefaultParameters()
	p.RoundBreak = 30 * time.Millisecond
	p.StartDelay = 10 * time.Millisecond
	return p
}

func testEnv() Environment {
	env := DefaultEnvironment()
	env.FrameInterval = 5 * time.Millisecond
	return env
}

// runningSession returns a seated session in the running phase without a
// ticker, so tests drive it with Tick.
func runningSession(t *testing.T, out *fakeBroadcaster) *Session {
	t.Helper()
	s := newSession("R1", testEnv(), testParams(), out, nil)
	s.p1.Name, s.p2.Name = "Alice", "Bob"
	s.phase = PhaseRunning
	t.Cleanup(s.teardown)
	return s
}
