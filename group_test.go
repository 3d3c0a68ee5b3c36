package motionpad

import (
	"math/rand"
	"testing"

	"github.com/lonng/motionpad/mock"
	"github.com/lonng/motionpad/session"
)

func TestGroup_Add(t *testing.T) {
	c := NewGroup("test_add")

	var paraCount = 100
	w := make(chan *session.Session, paraCount)
	for i := 0; i < paraCount; i++ {
		go func() {
			s := session.New(mock.NewNetworkEntity(), "")
			c.Add(s)
			w <- s
		}()
	}

	var all []*session.Session
	for i := 0; i < paraCount; i++ {
		all = append(all, <-w)
	}

	if c.Count() != paraCount {
		t.Fatalf("count expect: %d, got: %d", paraCount, c.Count())
	}

	s := all[rand.Intn(paraCount)]
	if !c.Contains(s.ID()) || c.Member(s.ID()) != s {
		t.Fail()
	}

	members := c.Members()
	for i := 1; i < len(members); i++ {
		if members[i-1] >= members[i] {
			t.Fatalf("members not ordered: %v", members)
		}
	}

	if err := c.Leave(s); err != nil {
		t.Fatal(err)
	}
	if err := c.Leave(s); err != ErrMemberNotFound {
		t.Fatalf("leave twice: %v", err)
	}

	// leave
	c.LeaveAll()
	if c.Count() != 0 {
		t.Fail()
	}
}

func TestGroup_Close(t *testing.T) {
	c := NewGroup("test_close")
	entity := mock.NewNetworkEntity()
	c.Add(session.New(entity, ""))

	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if entity.Closed() != 1 {
		t.Fatalf("member connection closed %d times", entity.Closed())
	}
	if err := c.Close(); err != ErrCloseClosedGroup {
		t.Fatalf("close twice: %v", err)
	}
	if err := c.Add(session.New(entity, "")); err != ErrClosedGroup {
		t.Fatalf("add after close: %v", err)
	}
}
