package scheduler

import (
	"testing"
	"time"

	"github.com/pingcap/errors"
)

func TestScheduleOrder(t *testing.T) {
	s := New(10*time.Millisecond, 8)
	go s.Run()
	defer s.Close()

	done := make(chan []int, 1)
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		if err := s.Schedule(func() { got = append(got, i) }); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Schedule(func() { panic("recovered") }); err != nil {
		t.Fatal(err)
	}
	s.Schedule(func() { done <- got })

	select {
	case res := <-done:
		for i, v := range res {
			if v != i {
				t.Fatalf("tasks out of order: %v", res)
			}
		}
		if len(res) != 5 {
			t.Fatalf("ran %d tasks", len(res))
		}
	case <-time.After(time.Second):
		t.Fatal("tasks never ran")
	}
}

func TestScheduleAfterClose(t *testing.T) {
	s := New(10*time.Millisecond, 1)
	s.Close()
	s.Close()
	if err := s.Schedule(func() {}); errors.Cause(err) != ErrClosed {
		t.Fatalf("want ErrClosed, got %v", err)
	}
}

func TestRunFiresTimers(t *testing.T) {
	s := New(time.Millisecond, 0)
	go s.Run()
	defer s.Close()

	fired := make(chan struct{})
	s.NewAfterTimer(2*time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}
