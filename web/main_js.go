//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/pkg/errors"

	"github.com/stateful/launchpad/internal/log"
	"github.com/stateful/launchpad/pkg/document"
	"github.com/stateful/launchpad/pkg/session"
)

var sess *session.Session

type state struct {
	Session  string           `json:"session"`
	Blocks   []document.Block `json:"blocks"`
	Selected int              `json:"selected,omitempty"`
	CanUndo  bool             `json:"canUndo"`
	CanRedo  bool             `json:"canRedo"`
}

func main() {
	log.Set(false)
	sess = session.New(session.WithLogger(log.Get()))

	launchpad := map[string]interface{}{
		"addBlock":       js.FuncOf(addBlock),
		"updateField":    js.FuncOf(updateField),
		"removeBlock":    js.FuncOf(removeBlock),
		"selectBlock":    js.FuncOf(selectBlock),
		"clear":          js.FuncOf(clearDocument),
		"undo":           js.FuncOf(undo),
		"redo":           js.FuncOf(redo),
		"loadTemplate":   js.FuncOf(loadTemplate),
		"loadState":      js.FuncOf(loadState),
		"editableMarkup": js.FuncOf(editableMarkup),
		"cleanMarkup":    js.FuncOf(cleanMarkup),
		"state":          js.FuncOf(currentState),
	}
	js.Global().Set("Launchpad", js.ValueOf(launchpad))

	select {}
}

func argsError(want int, args []js.Value) js.Value {
	if len(args) < want {
		return toJSError(errors.Errorf("expected %d arguments, got %d", want, len(args)))
	}
	return js.Null()
}

// intArg returns args[i] as an int. syscall/js panics when Int is called
// on anything but a number.
func intArg(args []js.Value, i int) (int, js.Value) {
	if args[i].Type() != js.TypeNumber {
		return 0, toJSError(errors.Errorf("argument %d must be a number, got %s", i+1, args[i].Type()))
	}
	return args[i].Int(), js.Null()
}

// addBlock returns the id of the new block or 0.
func addBlock(_ js.Value, args []js.Value) any {
	if err := argsError(1, args); !err.IsNull() {
		return err
	}
	id, _ := sess.AddBlock(args[0].String())
	return id
}

func updateField(_ js.Value, args []js.Value) any {
	if err := argsError(3, args); !err.IsNull() {
		return err
	}
	id, err := intArg(args, 0)
	if !err.IsNull() {
		return err
	}
	return sess.UpdateField(id, args[1].String(), args[2].String())
}

func removeBlock(_ js.Value, args []js.Value) any {
	if err := argsError(1, args); !err.IsNull() {
		return err
	}
	id, err := intArg(args, 0)
	if !err.IsNull() {
		return err
	}
	return sess.RemoveBlock(id)
}

func selectBlock(_ js.Value, args []js.Value) any {
	if err := argsError(1, args); !err.IsNull() {
		return err
	}
	id, err := intArg(args, 0)
	if !err.IsNull() {
		return err
	}
	return sess.Select(id)
}

func clearDocument(js.Value, []js.Value) any {
	sess.Clear()
	return true
}

func undo(js.Value, []js.Value) any { return sess.Undo() }

func redo(js.Value, []js.Value) any { return sess.Redo() }

func loadTemplate(_ js.Value, args []js.Value) any {
	if err := argsError(1, args); !err.IsNull() {
		return err
	}
	return sess.LoadTemplate(args[0].String())
}

// loadState replaces the document with the JSON returned by state.
func loadState(_ js.Value, args []js.Value) any {
	if err := argsError(1, args); !err.IsNull() {
		return err
	}
	if args[0].Type() != js.TypeString {
		return toJSError(errors.Errorf("argument 1 must be a string, got %s", args[0].Type()))
	}
	return sess.Load([]byte(args[0].String()))
}

func editableMarkup(js.Value, []js.Value) any { return sess.EditableMarkup() }

func cleanMarkup(js.Value, []js.Value) any { return sess.CleanMarkup() }

// currentState returns the session state as a JSON string.
func currentState(js.Value, []js.Value) any {
	s := state{
		Session: sess.ID,
		Blocks:  make([]document.Block, 0, sess.Len()),
		CanUndo: sess.CanUndo(),
		CanRedo: sess.CanRedo(),
	}
	for b := range sess.Blocks() {
		s.Blocks = append(s.Blocks, b)
	}
	s.Selected, _ = sess.Selected()

	data, err := json.Marshal(s)
	if err != nil {
		return toJSError(err)
	}
	return string(data)
}

func toJSError(err error) js.Value {
	if err == nil {
		return js.Null()
	}
	return js.Global().Get("Error").New(err.Error())
}
