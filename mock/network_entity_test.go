// Copyright (c) motionpad Authors. All Rights Reserved.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package mock_test

import (
	"testing"

	"github.com/lonng/motionpad/mock"
	"github.com/pingcap/errors"
	. "github.com/pingcap/check"
)

type networkEntitySuite struct{}

func TestNetworkEntity(t *testing.T) {
	TestingT(t)
}

var _ = Suite(&networkEntitySuite{})

func (s *networkEntitySuite) TestNetworkEntity(c *C) {
	entity := mock.NewNetworkEntity()

	c.Assert(entity.LastMessage(), IsNil)
	c.Assert(entity.FindMessagesByRoute("scored"), HasLen, 0)
	c.Assert(entity.Push("scored", 7), IsNil)
	c.Assert(entity.Push("setName", "bob"), IsNil)
	c.Assert(entity.LastMessage().Route, Equals, "setName")
	c.Assert(entity.FindMessagesByRoute("scored"), DeepEquals, []interface{}{7})
	c.Assert(entity.Messages(), HasLen, 2)

	entity.Reset()
	c.Assert(entity.Messages(), HasLen, 0)

	c.Assert(entity.RemoteAddr().String(), Equals, "mock-addr")
	c.Assert(entity.Close(), IsNil)
	c.Assert(entity.Closed(), Equals, 1)
}

func (s *networkEntitySuite) TestFailPush(c *C) {
	entity := mock.NewNetworkEntity()
	broken := errors.New("broken pipe")

	entity.FailPush(broken)
	c.Assert(entity.Push("scored", 1), Equals, broken)
	c.Assert(entity.Messages(), HasLen, 0)

	entity.FailPush(nil)
	c.Assert(entity.Push("scored", 1), IsNil)
	c.Assert(entity.Messages(), HasLen, 1)
}
