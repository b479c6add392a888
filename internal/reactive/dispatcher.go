// Package reactive binds named UI inputs to the callbacks that recompute
// named outputs.
//
// Callbacks are registered explicitly. A Dispatch call names the input that
// changed, runs every callback bound to it in registration order, and returns
// the new value of each affected output. Nothing runs implicitly.
package reactive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownInput is returned when Dispatch names an input no callback reads.
	ErrUnknownInput = errors.New("unknown input")
	// ErrMissingInput is returned when the state lacks a value a callback reads.
	ErrMissingInput = errors.New("missing input")
)

// State holds the current value of every input, keyed by input ID.
// Values stay raw until a callback decodes them.
type State map[string]json.RawMessage

// Decode unmarshals the value of input id into v.
func (s State) Decode(id string, v any) error {
	raw, ok := s[id]
	if !ok {
		return fmt.Errorf("%w %q", ErrMissingInput, id)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid request: input %q: %w", id, err)
	}
	return nil
}

// Handler computes one output from the current input state.
type Handler func(ctx context.Context, state State) (any, error)

// Callback binds a handler to the inputs it reads and the output it writes.
type Callback struct {
	Output  string
	Inputs  []string
	Handler Handler
}

// CallbackError reports which output's handler failed.
type CallbackError struct {
	Output string
	Err    error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("callback %s: %v", e.Output, e.Err)
}

func (e *CallbackError) Unwrap() error {
	return e.Err
}

// Dispatcher routes input changes to callbacks. Registration and dispatch are
// safe for concurrent use; handlers must not retain the State.
type Dispatcher struct {
	mu        sync.RWMutex
	callbacks []Callback
	outputs   map[string]bool
	byInput   map[string][]int
}

// New returns an empty dispatcher.
func New() *Dispatcher {
	return &Dispatcher{
		outputs: make(map[string]bool),
		byInput: make(map[string][]int),
	}
}

// Register adds a callback. Each output may be written by only one callback.
func (d *Dispatcher) Register(cb Callback) error {
	if cb.Output == "" {
		return errors.New("callback has no output")
	}
	if len(cb.Inputs) == 0 {
		return fmt.Errorf("callback %s has no inputs", cb.Output)
	}
	if cb.Handler == nil {
		return fmt.Errorf("callback %s has no handler", cb.Output)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.outputs[cb.Output] {
		return fmt.Errorf("output already registered: %s", cb.Output)
	}

	inputs := make([]string, len(cb.Inputs))
	copy(inputs, cb.Inputs)
	cb.Inputs = inputs

	idx := len(d.callbacks)
	d.callbacks = append(d.callbacks, cb)
	d.outputs[cb.Output] = true
	for _, in := range inputs {
		d.byInput[in] = append(d.byInput[in], idx)
	}
	return nil
}

// MustRegister is Register that panics on error, for wiring at startup.
func (d *Dispatcher) MustRegister(cb Callback) {
	if err := d.Register(cb); err != nil {
		panic(err)
	}
}

// Dispatch runs the callbacks bound to changed and returns their outputs.
// An empty changed runs every callback, which is how the initial render is
// produced. The first failing callback aborts the dispatch; no partial
// outputs are returned.
func (d *Dispatcher) Dispatch(ctx context.Context, changed string, state State) (map[string]any, error) {
	d.mu.RLock()
	var run []Callback
	if changed == "" {
		run = append(run, d.callbacks...)
	} else {
		idx, ok := d.byInput[changed]
		if !ok {
			d.mu.RUnlock()
			return nil, fmt.Errorf("invalid request: %w %q", ErrUnknownInput, changed)
		}
		for _, i := range idx {
			run = append(run, d.callbacks[i])
		}
	}
	d.mu.RUnlock()

	out := make(map[string]any, len(run))
	for _, cb := range run {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, in := range cb.Inputs {
			if _, ok := state[in]; !ok {
				return nil, &CallbackError{Output: cb.Output, Err: fmt.Errorf("invalid request: %w %q", ErrMissingInput, in)}
			}
		}
		v, err := cb.Handler(ctx, state)
		if err != nil {
			return nil, &CallbackError{Output: cb.Output, Err: err}
		}
		out[cb.Output] = v
	}
	return out, nil
}

// Inputs returns every input ID some callback reads, sorted.
func (d *Dispatcher) Inputs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]string, 0, len(d.byInput))
	for id := range d.byInput {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Outputs returns the registered output IDs in registration order.
func (d *Dispatcher) Outputs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]string, len(d.callbacks))
	for i, cb := range d.callbacks {
		ids[i] = cb.Output
	}
	return ids
}
