package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lonng/motionpad"
	"github.com/lonng/motionpad/arena"
	"github.com/lonng/motionpad/component"
	"github.com/lonng/motionpad/connector"
	"github.com/lonng/motionpad/controller"
	"github.com/lonng/motionpad/internal/log"
	"github.com/lonng/motionpad/pipeline"
	"github.com/lonng/motionpad/protocol"
	"github.com/lonng/motionpad/serialize"
	jsonser "github.com/lonng/motionpad/serialize/json"
	"github.com/lonng/motionpad/serialize/msgpack"
	"github.com/lonng/motionpad/serialize/protobuf"
	"github.com/lonng/motionpad/session"
	"github.com/pingcap/errors"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()

	app.Name = "motionpad"
	app.Author = "motionpad Authors"
	app.Version = motionpad.VERSION
	app.Usage = "phone controllers driving players in a shared arena"

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "serializer",
			Value: "json",
			Usage: "payload encoding: json, protobuf or msgpack",
		},
		cli.StringFlag{
			Name:  "log",
			Usage: "write logs to rotated `FILE` instead of stdout",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "log every packet and command",
		},
	}

	app.Before = func(c *cli.Context) error {
		if path := c.GlobalString("log"); path != "" {
			log.InitFile(path)
		}
		return nil
	}
	app.After = func(*cli.Context) error {
		log.Sync()
		return nil
	}

	app.Commands = []cli.Command{
		{
			Name:   "serve",
			Usage:  "run the arena server",
			Action: serve,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "addr", Value: ":3250", Usage: "listen address"},
				cli.StringFlag{Name: "path", Value: "/controller", Usage: "WebSocket path"},
				cli.IntFlag{Name: "width", Value: arena.DefaultWidth, Usage: "arena width"},
				cli.IntFlag{Name: "height", Value: arena.DefaultHeight, Usage: "arena height"},
				cli.Float64Flag{Name: "goal-radius", Value: arena.DefaultGoalRadius, Usage: "goal radius"},
				cli.DurationFlag{Name: "tick", Value: arena.DefaultTickInterval, Usage: "goal check interval"},
				cli.DurationFlag{Name: "heartbeat", Value: 30 * time.Second, Usage: "heartbeat interval"},
				cli.IntFlag{Name: "max-connections", Usage: "concurrent connection cap, 0 for unlimited"},
			},
		},
		{
			Name:   "controller",
			Usage:  "run a simulated controller",
			Action: simulate,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "url", Value: "ws://127.0.0.1:3250/controller", Usage: "server URL"},
				cli.StringFlag{Name: "name", Usage: "player name"},
				cli.DurationFlag{Name: "interval", Value: 100 * time.Millisecond, Usage: "sensor sample interval"},
				cli.BoolFlag{Name: "no-motion", Usage: "simulate a device without motion sensor"},
				cli.BoolFlag{Name: "no-orientation", Usage: "simulate a device without orientation sensor"},
			},
		},
		{
			Name:   "schema",
			Usage:  "write the JSON schema of every command",
			Action: schema,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "out", Value: "commands.schema.json", Usage: "output `FILE`"},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serializer(c *cli.Context) (serialize.Serializer, error) {
	switch name := c.GlobalString("serializer"); name {
	case "json":
		return jsonser.NewSerializer(), nil
	case "protobuf":
		return protobuf.NewSerializer(), nil
	case "msgpack":
		return msgpack.NewSerializer(), nil
	default:
		return nil, errors.Errorf("unknown serializer %q", name)
	}
}

func serve(c *cli.Context) error {
	ser, err := serializer(c)
	if err != nil {
		return err
	}

	area, err := arena.Install(c.Int("width"), c.Int("height"), c.Float64("goal-radius"))
	if err != nil {
		return err
	}

	routes := pipeline.NewRouteCounter()
	pip := pipeline.New()
	pip.Inbound().PushBack(routes.Count)

	comps := &component.Components{}
	opts := []motionpad.Option{
		motionpad.WithSerializer(ser),
		motionpad.WithWSPath(c.String("path")),
		motionpad.WithHeartbeatInterval(c.Duration("heartbeat")),
		motionpad.WithMaxConnections(c.Int("max-connections")),
		motionpad.WithComponents(comps),
		motionpad.WithPipeline(pip),
		motionpad.WithMetricsSource("routes", func() interface{} { return routes.Snapshot() }),
	}
	if c.GlobalBool("debug") {
		opts = append(opts, motionpad.WithDebugMode())
	}

	var world *arena.Arena
	opts = append(opts,
		motionpad.WithSpawnHandler(func(s *session.Session) { world.Spawn(s) }),
		motionpad.WithMetricsSource("players", func() interface{} { return world.Count() }),
	)
	srv := motionpad.NewServer(opts...)

	world = arena.New(area,
		arena.WithScheduler(srv.Scheduler()),
		arena.WithSerializer(ser),
		arena.WithTickInterval(c.Duration("tick")),
	)
	comps.Register(world, component.WithName("arena"))

	return srv.Listen(c.String("addr"))
}

func simulate(c *cli.Context) error {
	ser, err := serializer(c)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	host := controller.NewSimulatedHost(c.Duration("interval"), rng)
	host.Motion = !c.Bool("no-motion")
	host.Orientation = !c.Bool("no-orientation")

	conn := connector.NewConnector(
		connector.WithName(c.String("name")),
		connector.WithSerializer(ser),
	)
	pad := controller.NewPipeline(conn, controller.LogDisplay{}, host, controller.WithRand(rng))

	conn.On(protocol.CmdScored, func(data []byte) {
		var m protocol.Scored
		if err := ser.Unmarshal(data, &m); err != nil {
			log.Println("Bad scored payload:", err)
			return
		}
		log.Println("Scored", m.Points, "points")
	})
	conn.On(protocol.CmdSetName, func(data []byte) {
		var m protocol.SetName
		if err := ser.Unmarshal(data, &m); err != nil {
			log.Println("Bad setName payload:", err)
			return
		}
		log.Println("Player name is", m.Name)
	})
	conn.OnConnected(func() {
		if err := pad.Start(); err != nil {
			log.Println("Start controller failed:", err)
			return
		}
		log.Println("Controller connected, motion", pad.MotionState(), "orientation", pad.OrientationState())
	})

	if err := conn.Start(c.String("url")); err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	go func() {
		select {
		case <-conn.Done():
			log.Println("Connection closed")
		case <-ctx.Done():
		}
		cancel()
	}()

	if err := host.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func schema(c *cli.Context) error {
	out := c.String("out")
	data, err := json.MarshalIndent(protocol.Schemas(), "", "  ")
	if err != nil {
		return errors.Annotate(err, "marshal schema")
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return errors.Annotate(err, "create schema directory")
	}

	tmp := out + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return errors.Annotate(err, "write temp schema")
	}
	if err := os.Rename(tmp, out); err != nil {
		return errors.Annotate(err, "replace schema")
	}

	fmt.Println("wrote", out)
	return nil
}
