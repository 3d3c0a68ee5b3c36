package component

import "fmt"

// CompWithOptions is a registered component and its options
type CompWithOptions struct {
	Comp Component
	Opts []Option
}

// Components is an ordered component list
type Components struct {
	comps []CompWithOptions
}

// Register appends c to the list
func (cs *Components) Register(c Component, options ...Option) {
	cs.comps = append(cs.comps, CompWithOptions{c, options})
}

// List returns all components in registration order
func (cs *Components) List() []CompWithOptions {
	return cs.comps
}

// Name returns the configured name of c, or its type name
func (c CompWithOptions) Name() string {
	opt := options{}
	for _, o := range c.Opts {
		o(&opt)
	}
	if opt.name != "" {
		return opt.name
	}
	return fmt.Sprintf("%T", c.Comp)
}

// Startup runs Init on every component, then AfterInit
func (cs *Components) Startup() {
	for _, c := range cs.comps {
		c.Comp.Init()
	}
	for _, c := range cs.comps {
		c.Comp.AfterInit()
	}
}

// Shutdown runs BeforeShutdown then Shutdown in reverse registration order
func (cs *Components) Shutdown() {
	for i := len(cs.comps) - 1; i >= 0; i-- {
		cs.comps[i].Comp.BeforeShutdown()
	}
	for i := len(cs.comps) - 1; i >= 0; i-- {
		cs.comps[i].Comp.Shutdown()
	}
}
