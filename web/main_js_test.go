//go:build js && wasm

package main

import (
	"syscall/js"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stateful/launchpad/pkg/session"
)

func jsError(t *testing.T, result any) string {
	t.Helper()
	v, ok := result.(js.Value)
	require.True(t, ok, "expected a js.Value, got %T", result)
	require.True(t, v.InstanceOf(js.Global().Get("Error")))
	return v.Get("message").String()
}

func TestNonNumericBlockID(t *testing.T) {
	sess = session.New()
	id, _ := sess.AddBlock("hero")
	before := sess.Snapshot()

	testCases := []struct {
		name     string
		call     func(js.Value, []js.Value) any
		args     []any
		expected string
	}{
		{name: "updateField", call: updateField, args: []any{"1", "title", "x"}, expected: "argument 1 must be a number, got string"},
		{name: "removeBlock", call: removeBlock, args: []any{js.Undefined()}, expected: "argument 1 must be a number, got undefined"},
		{name: "selectBlock", call: selectBlock, args: []any{js.Null()}, expected: "argument 1 must be a number, got null"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			args := make([]js.Value, 0, len(tc.args))
			for _, a := range tc.args {
				args = append(args, js.ValueOf(a))
			}
			assert.Equal(t, tc.expected, jsError(t, tc.call(js.Undefined(), args)))
		})
	}

	assert.True(t, before.Equal(sess.Snapshot()))
	assert.Equal(t, true, removeBlock(js.Undefined(), []js.Value{js.ValueOf(id)}))
}

func TestLoadState(t *testing.T) {
	sess = session.New()
	sess.LoadTemplate("event")
	data := currentState(js.Undefined(), nil).(string)

	sess = session.New()
	assert.Equal(t, true, loadState(js.Undefined(), []js.Value{js.ValueOf(data)}))
	assert.Equal(t, 3, sess.Len())

	assert.Equal(t, "argument 1 must be a string, got number", jsError(t, loadState(js.Undefined(), []js.Value{js.ValueOf(1)})))
	assert.Equal(t, false, loadState(js.Undefined(), []js.Value{js.ValueOf("not json")}))
}
