package service

import (
	"testing"
)

const paraCount = 500000

func TestNewConnectionService(t *testing.T) {
	service := newConnectionService()
	w := make(chan bool, paraCount)
	for i := 0; i < paraCount; i++ {
		go func() {
			service.Increment()
			service.SessionID()
			w <- true
		}()
	}

	for i := 0; i < paraCount; i++ {
		<-w
	}

	if service.Count() != paraCount {
		t.Error("wrong connection count")
	}

	if service.SessionID() != paraCount+1 {
		t.Error("wrong session id")
	}
}

func TestConnectionPeak(t *testing.T) {
	service := newConnectionService()
	service.Increment()
	service.Increment()
	service.Decrement()
	service.Increment()
	service.Decrement()
	service.Decrement()

	if service.Count() != 0 {
		t.Fatalf("count = %d", service.Count())
	}
	if service.Peak() != 2 {
		t.Fatalf("peak = %d", service.Peak())
	}

	service.Reset()
	if service.Peak() != 0 || service.SessionID() != 1 {
		t.Fatal("reset did not clear counters")
	}
}
