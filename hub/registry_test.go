package hub

import (
	"testing"

	"github.com/OhASys/sstracker-backend/domain"
)

type fakeConn struct {
	id     string
	auth   string
	events []domain.ServerEvent
}

func (c *fakeConn) ID() string                 { return c.id }
func (c *fakeConn) AuthUserID() string         { return c.auth }
func (c *fakeConn) Send(ev domain.ServerEvent) { c.events = append(c.events, ev) }

func (c *fakeConn) received(event string) int {
	n := 0
	for _, ev := range c.events {
		if ev.Event == event {
			n++
		}
	}
	return n
}

func TestRegistryJoinIsIdempotent(t *testing.T) {
	r := NewRegistry()
	a := &fakeConn{id: "a"}
	r.Join(a, "7")
	r.Join(a, "7")

	if got := len(r.Members("7")); got != 1 {
		t.Fatalf("expected 1 member, got %d", got)
	}
}

func TestRegistryJoinMovesBetweenRooms(t *testing.T) {
	r := NewRegistry()
	a := &fakeConn{id: "a"}
	r.Join(a, "7")
	r.Join(a, "8")

	if got := len(r.Members("7")); got != 0 {
		t.Fatalf("expected old room to be empty, got %d members", got)
	}
	if got := len(r.Members("8")); got != 1 {
		t.Fatalf("expected 1 member in new room, got %d", got)
	}
	if userID, ok := r.Room("a"); !ok || userID != "8" {
		t.Fatalf("unexpected room for a: %q %v", userID, ok)
	}
}

func TestRegistryLeavePrunesEmptyRoom(t *testing.T) {
	r := NewRegistry()
	a := &fakeConn{id: "a"}
	b := &fakeConn{id: "b"}
	r.Join(a, "7")
	r.Join(b, "7")

	r.Leave("a")
	if got := len(r.Members("7")); got != 1 {
		t.Fatalf("expected 1 member after leave, got %d", got)
	}

	r.Leave("b")
	if got := len(r.rooms); got != 0 {
		t.Fatalf("expected empty room to be pruned, got %d rooms", got)
	}
	if _, ok := r.Room("a"); ok {
		t.Fatal("expected reverse index entry to be removed")
	}
}

func TestRegistryUnknownIDsAreNoOps(t *testing.T) {
	r := NewRegistry()
	r.Leave("never-joined")
	if got := r.Members("nobody"); len(got) != 0 {
		t.Fatalf("expected empty member set, got %d", len(got))
	}
}
