package protocol

import (
	"sort"

	"github.com/invopop/jsonschema"
)

// Direction of a command on the wire
type Direction string

const (
	ToPlayer     Direction = "controller->player"
	ToController Direction = "player->controller"
	Both         Direction = "both"
)

// Command describes one entry of the wire contract
type Command struct {
	Name      string
	Direction Direction
	Payload   interface{}
}

// Commands returns the full wire contract ordered by name
func Commands() []Command {
	cmds := []Command{
		{CmdColor, ToPlayer, &Color{}},
		{CmdMove, ToPlayer, &Move{}},
		{CmdSetName, Both, &SetName{}},
		{CmdBusy, ToPlayer, &Busy{}},
		{CmdAccel, ToPlayer, &Accel{}},
		{CmdRot, ToPlayer, &Rot{}},
		{CmdScored, ToController, &Scored{}},
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// Schemas returns the JSON schema of every command payload keyed by
// command name
func Schemas() map[string]*jsonschema.Schema {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}

	schemas := make(map[string]*jsonschema.Schema)
	for _, cmd := range Commands() {
		schema := reflector.Reflect(cmd.Payload)
		schema.Title = cmd.Name
		schema.Description = string(cmd.Direction)
		schemas[cmd.Name] = schema
	}
	return schemas
}
