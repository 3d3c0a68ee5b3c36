package command_test

import (
	"testing"

	"github.com/lonng/motionpad/command"
	"github.com/lonng/motionpad/mock"
	"github.com/lonng/motionpad/protocol"
	"github.com/lonng/motionpad/serialize/json"
	"github.com/lonng/motionpad/service"
	. "github.com/pingcap/check"
	"github.com/pingcap/errors"
)

func TestRegistry(t *testing.T) {
	TestingT(t)
}

type registrySuite struct {
	entity   *mock.NetworkEntity
	reported []error
	registry *command.Registry
}

var _ = Suite(&registrySuite{})

func (s *registrySuite) SetUpTest(c *C) {
	service.Stats.Reset()
	s.entity = mock.NewNetworkEntity()
	s.reported = nil
	s.registry = command.NewRegistry(s.entity, json.NewSerializer(),
		command.WithErrorReporter(func(err error) { s.reported = append(s.reported, err) }))
}

func (s *registrySuite) TestDispatch(c *C) {
	var got []protocol.Move
	c.Assert(command.Handle(s.registry, protocol.CmdMove, func(m *protocol.Move) {
		got = append(got, *m)
	}), IsNil)

	s.registry.Dispatch(protocol.CmdMove, []byte(`{"x":0.5,"y":0.25}`))
	c.Assert(got, DeepEquals, []protocol.Move{{X: 0.5, Y: 0.25}})
	c.Assert(service.Stats.Snapshot()["dispatched"], Equals, int64(1))
}

func (s *registrySuite) TestDuplicateRegistration(c *C) {
	noop := func(*protocol.Busy) {}
	c.Assert(command.Handle(s.registry, protocol.CmdBusy, noop), IsNil)

	err := command.Handle(s.registry, protocol.CmdBusy, noop)
	dup, ok := errors.Cause(err).(*command.DuplicateRegistrationError)
	c.Assert(ok, IsTrue)
	c.Assert(dup.Name, Equals, protocol.CmdBusy)
	c.Assert(s.registry.Names(), DeepEquals, []string{protocol.CmdBusy})
}

func (s *registrySuite) TestUnknownCommandIgnored(c *C) {
	var calls int
	c.Assert(command.Handle(s.registry, protocol.CmdRot, func(*protocol.Rot) { calls++ }), IsNil)

	s.registry.Dispatch("teleport", []byte(`{"x":1}`))
	c.Assert(calls, Equals, 0)
	c.Assert(s.reported, HasLen, 0)
	c.Assert(service.Stats.Snapshot()["unknown"], Equals, int64(1))
}

func (s *registrySuite) TestDecodeFailureReported(c *C) {
	var calls int
	c.Assert(command.Handle(s.registry, protocol.CmdAccel, func(*protocol.Accel) { calls++ }), IsNil)

	s.registry.Dispatch(protocol.CmdAccel, []byte(`{"y":"fast"}`))
	c.Assert(calls, Equals, 0)
	c.Assert(s.reported, HasLen, 1)

	de, ok := s.reported[0].(*command.DecodeError)
	c.Assert(ok, IsTrue)
	c.Assert(de.Name, Equals, protocol.CmdAccel)
	c.Assert(de.Unwrap(), NotNil)
}

func (s *registrySuite) TestDefaultsForMissingFields(c *C) {
	var got *protocol.Accel
	c.Assert(command.Handle(s.registry, protocol.CmdAccel, func(a *protocol.Accel) { got = a }), IsNil)

	s.registry.Dispatch(protocol.CmdAccel, []byte(`{"y":3}`))
	c.Assert(got, DeepEquals, &protocol.Accel{Y: 3})

	s.registry.Dispatch(protocol.CmdAccel, nil)
	c.Assert(got, DeepEquals, &protocol.Accel{})
	c.Assert(s.reported, HasLen, 0)
}

func (s *registrySuite) TestSend(c *C) {
	c.Assert(s.registry.Send(protocol.CmdScored, &protocol.Scored{Points: 7}), IsNil)

	msgs := s.entity.FindMessagesByRoute(protocol.CmdScored)
	c.Assert(msgs, HasLen, 1)
	c.Assert(string(msgs[0].([]byte)), Equals, `{"points":7}`)

	s.registry.Clear()
	c.Assert(s.registry.Names(), HasLen, 0)
	c.Assert(errors.Cause(s.registry.Send(protocol.CmdScored, &protocol.Scored{})), Equals, command.ErrUnbound)
}

func (s *registrySuite) TestSendFailure(c *C) {
	s.entity.FailPush(errors.New("broken pipe"))
	c.Assert(s.registry.Send(protocol.CmdSetName, &protocol.SetName{Name: "bob"}), NotNil)
}
