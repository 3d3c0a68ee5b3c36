// Package protocol defines the wire contract between a controller and the
// player it drives. Command names and payload field names are fixed, both
// sides may be reimplemented independently.
package protocol

import (
	"github.com/golang/protobuf/proto"
)

// Command names
const (
	CmdColor   = "color"
	CmdMove    = "move"
	CmdSetName = "setName"
	CmdBusy    = "busy"
	CmdAccel   = "accel"
	CmdRot     = "rot"
	CmdScored  = "scored"
)

type (
	// Color asks the player to change its color, in CSS format rgb(r,g,b)
	Color struct {
		Color string `json:"color" msgpack:"color" protobuf:"bytes,1,opt,name=color,proto3" jsonschema:"description=CSS color such as rgb(12,34,56)"`
	}

	// Move places the player at an absolute, normalized screen position.
	// Screen Y grows downwards.
	Move struct {
		X float64 `json:"x" msgpack:"x" protobuf:"fixed64,1,opt,name=x,proto3" jsonschema:"minimum=0,maximum=1"`
		Y float64 `json:"y" msgpack:"y" protobuf:"fixed64,2,opt,name=y,proto3" jsonschema:"minimum=0,maximum=1"`
	}

	// SetName changes the display name, an empty name queries the current one
	SetName struct {
		Name string `json:"name" msgpack:"name" protobuf:"bytes,1,opt,name=name,proto3"`
	}

	// Busy is accepted but carries no behaviour yet
	Busy struct {
		Busy bool `json:"busy" msgpack:"busy" protobuf:"varint,1,opt,name=busy,proto3"`
	}

	// Accel carries quantized device acceleration (x,y,z) and rotation
	// rate (a,b,g = alpha,beta,gamma), already divided by the sample interval.
	Accel struct {
		X float64 `json:"x" msgpack:"x" protobuf:"fixed64,1,opt,name=x,proto3"`
		Y float64 `json:"y" msgpack:"y" protobuf:"fixed64,2,opt,name=y,proto3"`
		Z float64 `json:"z" msgpack:"z" protobuf:"fixed64,3,opt,name=z,proto3"`
		A float64 `json:"a" msgpack:"a" protobuf:"fixed64,4,opt,name=a,proto3"`
		B float64 `json:"b" msgpack:"b" protobuf:"fixed64,5,opt,name=b,proto3"`
		G float64 `json:"g" msgpack:"g" protobuf:"fixed64,6,opt,name=g,proto3"`
	}

	// Rot is the device orientation as Euler angles in degrees
	Rot struct {
		X float64 `json:"x" msgpack:"x" protobuf:"fixed64,1,opt,name=x,proto3" jsonschema:"description=degrees"`
		Y float64 `json:"y" msgpack:"y" protobuf:"fixed64,2,opt,name=y,proto3" jsonschema:"description=degrees"`
		Z float64 `json:"z" msgpack:"z" protobuf:"fixed64,3,opt,name=z,proto3" jsonschema:"description=degrees"`
	}

	// Scored is pushed to the controller when its player reaches the goal.
	// It is only ever sent by the game.
	Scored struct {
		Points int32 `json:"points" msgpack:"points" protobuf:"varint,1,opt,name=points,proto3" jsonschema:"minimum=5,maximum=14"`
	}
)

func (m *Color) Reset()         { *m = Color{} }
func (m *Color) String() string { return proto.CompactTextString(m) }
func (*Color) ProtoMessage()    {}

func (m *Move) Reset()         { *m = Move{} }
func (m *Move) String() string { return proto.CompactTextString(m) }
func (*Move) ProtoMessage()    {}

func (m *SetName) Reset()         { *m = SetName{} }
func (m *SetName) String() string { return proto.CompactTextString(m) }
func (*SetName) ProtoMessage()    {}

func (m *Busy) Reset()         { *m = Busy{} }
func (m *Busy) String() string { return proto.CompactTextString(m) }
func (*Busy) ProtoMessage()    {}

func (m *Accel) Reset()         { *m = Accel{} }
func (m *Accel) String() string { return proto.CompactTextString(m) }
func (*Accel) ProtoMessage()    {}

func (m *Rot) Reset()         { *m = Rot{} }
func (m *Rot) String() string { return proto.CompactTextString(m) }
func (*Rot) ProtoMessage()    {}

func (m *Scored) Reset()         { *m = Scored{} }
func (m *Scored) String() string { return proto.CompactTextString(m) }
func (*Scored) ProtoMessage()    {}
