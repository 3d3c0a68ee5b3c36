package protocol

import (
	"encoding/json"
	"testing"
)

func TestCommands(t *testing.T) {
	cmds := Commands()
	if len(cmds) != 7 {
		t.Fatalf("want 7 commands, got %d", len(cmds))
	}
	for i := 1; i < len(cmds); i++ {
		if cmds[i-1].Name >= cmds[i].Name {
			t.Fatalf("commands not sorted: %s before %s", cmds[i-1].Name, cmds[i].Name)
		}
	}
	for _, cmd := range cmds {
		if cmd.Name == CmdScored && cmd.Direction != ToController {
			t.Fatalf("scored must flow to the controller, got %s", cmd.Direction)
		}
	}
}

func TestWireFieldNames(t *testing.T) {
	tables := []struct {
		in   interface{}
		want string
	}{
		{&Color{Color: "rgb(1,2,3)"}, `{"color":"rgb(1,2,3)"}`},
		{&Move{X: 0.5, Y: 0.25}, `{"x":0.5,"y":0.25}`},
		{&SetName{Name: "bob"}, `{"name":"bob"}`},
		{&Busy{Busy: true}, `{"busy":true}`},
		{&Accel{X: 1, Y: 2, Z: 3, A: 4, B: 5, G: 6}, `{"x":1,"y":2,"z":3,"a":4,"b":5,"g":6}`},
		{&Rot{X: -90}, `{"x":-90,"y":0,"z":0}`},
		{&Scored{Points: 7}, `{"points":7}`},
	}

	for _, tt := range tables {
		data, err := json.Marshal(tt.in)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != tt.want {
			t.Fatalf("got %s, want %s", data, tt.want)
		}
	}
}

func TestSchemas(t *testing.T) {
	schemas := Schemas()
	if len(schemas) != 7 {
		t.Fatalf("want 7 schemas, got %d", len(schemas))
	}

	data, err := json.Marshal(schemas[CmdAccel])
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Title      string                     `json:"title"`
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Title != CmdAccel {
		t.Fatalf("title = %q", doc.Title)
	}
	for _, field := range []string{"x", "y", "z", "a", "b", "g"} {
		if _, ok := doc.Properties[field]; !ok {
			t.Fatalf("accel schema misses %q: %s", field, data)
		}
	}
}

func TestProtoMessage(t *testing.T) {
	m := &Scored{Points: 9}
	if m.String() == "" {
		t.Fatal("empty text form")
	}
	m.Reset()
	if m.Points != 0 {
		t.Fatalf("reset left %d", m.Points)
	}
}
