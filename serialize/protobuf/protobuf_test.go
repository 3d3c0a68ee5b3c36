package protobuf

import (
	"reflect"
	"testing"

	"github.com/lonng/motionpad/protocol"
	"github.com/pingcap/errors"
)

func TestProtobufSerializer_Serialize(t *testing.T) {
	m := &protocol.Accel{X: 1, Y: -2, Z: 3, A: 0.5, B: 0, G: 12}
	s := NewSerializer()

	b, err := s.Marshal(m)
	if err != nil {
		t.Error(err)
	}

	m1 := &protocol.Accel{}
	if err := s.Unmarshal(b, m1); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(m, m1) {
		t.Fatalf("got %v, want %v", m1, m)
	}
}

func TestProtobufSerializer_WrongType(t *testing.T) {
	s := NewSerializer()
	if _, err := s.Marshal(struct{}{}); errors.Cause(err) != ErrWrongValueType {
		t.Fatalf("want ErrWrongValueType, got %v", err)
	}
	if err := s.Unmarshal(nil, &struct{}{}); errors.Cause(err) != ErrWrongValueType {
		t.Fatalf("want ErrWrongValueType, got %v", err)
	}
}

func BenchmarkSerializer_Serialize(b *testing.B) {
	m := &protocol.Rot{X: -90, Y: 12, Z: 4}
	s := NewSerializer()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := s.Marshal(m); err != nil {
			b.Fatalf("marshal failed: %v", err)
		}
	}
}

func BenchmarkSerializer_Deserialize(b *testing.B) {
	m := &protocol.Rot{X: -90, Y: 12, Z: 4}
	s := NewSerializer()

	d, err := s.Marshal(m)
	if err != nil {
		b.Error(err)
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m1 := &protocol.Rot{}
		if err := s.Unmarshal(d, m1); err != nil {
			b.Fatalf("unmarshal failed: %v", err)
		}
	}
}
