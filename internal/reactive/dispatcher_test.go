package reactive

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func state(t *testing.T, kv map[string]any) State {
	t.Helper()
	s := make(State, len(kv))
	for k, v := range kv {
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		s[k] = raw
	}
	return s
}

func newTestDispatcher(t *testing.T, calls *[]string) *Dispatcher {
	t.Helper()
	d := New()
	d.MustRegister(Callback{
		Output: "graph",
		Inputs: []string{"countries", "years"},
		Handler: func(ctx context.Context, s State) (any, error) {
			*calls = append(*calls, "graph")
			var countries []string
			if err := s.Decode("countries", &countries); err != nil {
				return nil, err
			}
			return len(countries), nil
		},
	})
	d.MustRegister(Callback{
		Output: "label",
		Inputs: []string{"years"},
		Handler: func(ctx context.Context, s State) (any, error) {
			*calls = append(*calls, "label")
			var years [2]int
			if err := s.Decode("years", &years); err != nil {
				return nil, err
			}
			return years[1] - years[0], nil
		},
	})
	return d
}

func TestDispatch_RunsBoundCallbacks(t *testing.T) {
	var calls []string
	d := newTestDispatcher(t, &calls)
	s := state(t, map[string]any{"countries": []string{"USA", "CHN"}, "years": []int{2000, 2010}})

	out, err := d.Dispatch(context.Background(), "countries", s)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"graph": 2}, out)
	assert.Equal(t, []string{"graph"}, calls)

	calls = nil
	out, err = d.Dispatch(context.Background(), "years", s)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"graph": 2, "label": 10}, out)
	assert.Equal(t, []string{"graph", "label"}, calls)
}

func TestDispatch_EmptyChangedRunsAll(t *testing.T) {
	var calls []string
	d := newTestDispatcher(t, &calls)
	s := state(t, map[string]any{"countries": []string{}, "years": []int{1950, 1950}})

	out, err := d.Dispatch(context.Background(), "", s)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, []string{"graph", "label"}, calls)
}

func TestDispatch_UnknownInput(t *testing.T) {
	var calls []string
	d := newTestDispatcher(t, &calls)

	_, err := d.Dispatch(context.Background(), "colour", State{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownInput)
	assert.Empty(t, calls)
}

func TestDispatch_MissingInput(t *testing.T) {
	var calls []string
	d := newTestDispatcher(t, &calls)
	s := state(t, map[string]any{"countries": []string{"USA"}})

	_, err := d.Dispatch(context.Background(), "countries", s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingInput)

	var cbErr *CallbackError
	require.ErrorAs(t, err, &cbErr)
	assert.Equal(t, "graph", cbErr.Output)
	assert.Empty(t, calls)
}

func TestDispatch_HandlerErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	d := New()
	d.MustRegister(Callback{
		Output:  "a",
		Inputs:  []string{"x"},
		Handler: func(context.Context, State) (any, error) { return nil, boom },
	})
	ran := false
	d.MustRegister(Callback{
		Output: "b",
		Inputs: []string{"x"},
		Handler: func(context.Context, State) (any, error) {
			ran = true
			return "ok", nil
		},
	})

	out, err := d.Dispatch(context.Background(), "x", state(t, map[string]any{"x": 1}))
	assert.Nil(t, out)
	assert.ErrorIs(t, err, boom)
	assert.False(t, ran, "callbacks after a failure must not run")
}

func TestDispatch_CancelledContext(t *testing.T) {
	var calls []string
	d := newTestDispatcher(t, &calls)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Dispatch(ctx, "", state(t, map[string]any{"countries": []string{}, "years": []int{1, 2}}))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, calls)
}

func TestRegister_Validation(t *testing.T) {
	noop := func(context.Context, State) (any, error) { return nil, nil }

	tests := []struct {
		name string
		cb   Callback
	}{
		{"no output", Callback{Inputs: []string{"x"}, Handler: noop}},
		{"no inputs", Callback{Output: "y", Handler: noop}},
		{"no handler", Callback{Output: "y", Inputs: []string{"x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, New().Register(tt.cb))
		})
	}

	d := New()
	require.NoError(t, d.Register(Callback{Output: "y", Inputs: []string{"x"}, Handler: noop}))
	assert.Error(t, d.Register(Callback{Output: "y", Inputs: []string{"z"}, Handler: noop}), "duplicate output")
	assert.Panics(t, func() { d.MustRegister(Callback{Output: "y", Inputs: []string{"z"}, Handler: noop}) })
}

func TestInputsAndOutputs(t *testing.T) {
	var calls []string
	d := newTestDispatcher(t, &calls)

	assert.Equal(t, []string{"countries", "years"}, d.Inputs())
	assert.Equal(t, []string{"graph", "label"}, d.Outputs())
}

func TestState_Decode(t *testing.T) {
	s := State{"n": json.RawMessage(`"abc"`)}

	var n int
	err := s.Decode("n", &n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid request")

	err = s.Decode("missing", &n)
	assert.ErrorIs(t, err, ErrMissingInput)
}
