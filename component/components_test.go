package component

import (
	"reflect"
	"testing"
)

type traced struct {
	Base
	name  string
	trace *[]string
}

func (t *traced) Init()      { *t.trace = append(*t.trace, t.name+".init") }
func (t *traced) AfterInit() { *t.trace = append(*t.trace, t.name+".after") }
func (t *traced) Shutdown()  { *t.trace = append(*t.trace, t.name+".shutdown") }

func TestComponentsLifecycle(t *testing.T) {
	var trace []string
	cs := &Components{}
	cs.Register(&traced{name: "a", trace: &trace}, WithName("first"))
	cs.Register(&traced{name: "b", trace: &trace})

	cs.Startup()
	cs.Shutdown()

	want := []string{"a.init", "b.init", "a.after", "b.after", "b.shutdown", "a.shutdown"}
	if !reflect.DeepEqual(trace, want) {
		t.Fatalf("trace = %v", trace)
	}

	list := cs.List()
	if list[0].Name() != "first" || list[1].Name() != "*component.traced" {
		t.Fatalf("names = %s, %s", list[0].Name(), list[1].Name())
	}
}
