package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/lonng/motionpad/mock"
)

type recordingDispatcher struct {
	routes []string
}

func (d *recordingDispatcher) Dispatch(route string, data []byte) {
	d.routes = append(d.routes, route)
}

func TestNewSession(t *testing.T) {
	s := New(mock.NewNetworkEntity(), "alice")
	if s.ID() < 1 {
		t.Fail()
	}
	if s.Name() != "alice" {
		t.Fatalf("name = %q", s.Name())
	}
	if next := New(nil, ""); next.ID() <= s.ID() {
		t.Fatal("session ids must increase")
	}
}

func TestSession_Dispatch(t *testing.T) {
	s := New(mock.NewNetworkEntity(), "")
	d := &recordingDispatcher{}

	s.Dispatch("move", nil)
	s.Bind(d)
	if !s.Bound() {
		t.Fatal("dispatcher not bound")
	}
	s.Dispatch("move", nil)
	s.Bind(nil)
	s.Dispatch("rot", nil)

	if len(d.routes) != 1 || d.routes[0] != "move" {
		t.Fatalf("dispatched %v", d.routes)
	}
}

func TestSession_LastActive(t *testing.T) {
	s := New(mock.NewNetworkEntity(), "")
	atomic.StoreInt64(&s.lastTime, 0)

	s.Dispatch("move", nil)
	if now := time.Now().Unix(); s.LastActive() < now-1 || s.LastActive() > now {
		t.Fatalf("last active %d, now %d", s.LastActive(), now)
	}
}

func TestSession_Rename(t *testing.T) {
	s := New(mock.NewNetworkEntity(), "old")
	var got []string
	cancel := s.OnNameChange(func(_ *Session, name string) {
		got = append(got, name)
	})

	s.Rename("new")
	cancel()
	s.Rename("newer")

	if len(got) != 1 || got[0] != "new" {
		t.Fatalf("notified %v", got)
	}
	if s.Name() != "newer" {
		t.Fatalf("name = %q", s.Name())
	}
}

func TestSession_DisconnectOnce(t *testing.T) {
	defer Lifetime.Reset()

	s := New(mock.NewNetworkEntity(), "")
	var fired, cancelled, global int
	s.OnDisconnect(func(*Session) { fired++ })
	cancel := s.OnDisconnect(func(*Session) { cancelled++ })
	Lifetime.OnClosed(func(*Session) { global++ })
	cancel()

	s.Disconnect()
	s.Disconnect()

	if fired != 1 || cancelled != 0 || global != 1 {
		t.Fatalf("fired=%d cancelled=%d global=%d", fired, cancelled, global)
	}
	if !s.Disconnected() {
		t.Fatal("session should be disconnected")
	}

	d := &recordingDispatcher{}
	s.Bind(d)
	s.Dispatch("move", nil)
	if len(d.routes) != 0 {
		t.Fatal("disconnected session dispatched a command")
	}
}

func TestSession_CancelInsideHandler(t *testing.T) {
	s := New(mock.NewNetworkEntity(), "")
	var cancel func()
	var calls int
	cancel = s.OnNameChange(func(*Session, string) {
		calls++
		cancel()
	})
	s.Rename("a")
	s.Rename("b")
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
}
