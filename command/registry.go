// Package command implements the per-entity command table. Inbound commands
// are looked up by name, decoded and handed to their handler on the caller's
// goroutine. Outbound commands are serialized and pushed fire-and-forget.
package command

import (
	"sort"

	"github.com/lonng/motionpad/internal/env"
	"github.com/lonng/motionpad/internal/log"
	"github.com/lonng/motionpad/serialize"
	"github.com/lonng/motionpad/service"
	"github.com/pingcap/errors"
)

type (
	// Sender delivers an encoded command to the remote side
	Sender interface {
		Push(route string, v interface{}) error
	}

	// Envelope is a named command and its payload
	Envelope struct {
		Name    string
		Payload interface{}
	}

	// Decoder turns a raw payload into the typed payload of one command
	Decoder func(data []byte) (interface{}, error)

	// Handler applies a decoded payload
	Handler func(payload interface{})

	// ErrorReporter receives dropped command failures
	ErrorReporter func(err error)

	// Option configures a Registry
	Option func(*Registry)

	entry struct {
		decode Decoder
		handle Handler
	}
)

// Registry maps command names to decoders and handlers for one entity.
// It is not safe for concurrent use, callers serialize access.
type Registry struct {
	sender     Sender
	serializer serialize.Serializer
	report     ErrorReporter
	handlers   map[string]entry
}

// WithErrorReporter replaces the default logging reporter
func WithErrorReporter(fn ErrorReporter) Option {
	return func(r *Registry) {
		r.report = fn
	}
}

// NewRegistry returns an empty registry sending through sender. A nil
// serializer selects the process default.
func NewRegistry(sender Sender, serializer serialize.Serializer, opts ...Option) *Registry {
	if serializer == nil {
		serializer = env.Serializer
	}
	r := &Registry{
		sender:     sender,
		serializer: serializer,
		report: func(err error) {
			log.Println(err.Error())
		},
		handlers: map[string]entry{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Serializer returns the serializer payloads are decoded with
func (r *Registry) Serializer() serialize.Serializer {
	return r.serializer
}

// Register associates name with a decoder and a handler
func (r *Registry) Register(name string, decode Decoder, handle Handler) error {
	if decode == nil || handle == nil {
		return errors.Errorf("command: nil decoder or handler for %q", name)
	}
	if _, ok := r.handlers[name]; ok {
		return errors.WithStack(&DuplicateRegistrationError{Name: name})
	}
	r.handlers[name] = entry{decode: decode, handle: handle}
	return nil
}

// Names returns the registered command names in order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch decodes data and invokes the handler registered for name.
// Unknown names are ignored and decode failures are reported, neither is
// returned to the caller.
func (r *Registry) Dispatch(name string, data []byte) {
	e, ok := r.handlers[name]
	if !ok {
		service.Stats.IncUnknown()
		if env.Debug {
			log.Println("Ignore unknown command:", name)
		}
		return
	}

	payload, err := e.decode(data)
	if err != nil {
		service.Stats.IncDecodeFailed()
		r.report(&DecodeError{Name: name, Err: err})
		return
	}

	service.Stats.IncDispatched()
	e.handle(payload)
}

// Send serializes payload and pushes it as command name. It does not wait
// for any acknowledgement.
func (r *Registry) Send(name string, payload interface{}) error {
	return r.SendEnvelope(Envelope{Name: name, Payload: payload})
}

// SendEnvelope pushes a prepared envelope
func (r *Registry) SendEnvelope(e Envelope) error {
	if r.sender == nil {
		return ErrUnbound
	}
	data, err := r.serializer.Marshal(e.Payload)
	if err != nil {
		return errors.Annotatef(err, "command: encode %q", e.Name)
	}
	if err := r.sender.Push(e.Name, data); err != nil {
		return errors.Trace(err)
	}
	service.Stats.IncSent()
	return nil
}

// Clear drops every registration and unbinds the sender
func (r *Registry) Clear() {
	r.handlers = map[string]entry{}
	r.sender = nil
}

// Handle registers fn for name with a decoder that unmarshals into a zero
// valued T, so fields missing from the payload keep their defaults.
func Handle[T any](r *Registry, name string, fn func(*T)) error {
	serializer := r.serializer
	decode := func(data []byte) (interface{}, error) {
		v := new(T)
		if err := serializer.Unmarshal(data, v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return r.Register(name, decode, func(payload interface{}) {
		fn(payload.(*T))
	})
}
