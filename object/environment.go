package object

import "tree_lox/value"

// Environment is a lexical frame mapping names to values, chained to an
// enclosing frame (§3). Per the spec's data model this is a plain
// name->value map, not the teacher's slot-indexed array: the resolver
// hands the evaluator a depth only (§9's node-identity side-table), and
// GetAt/AssignAt walk that many frames up and then look the name up by
// string, same as the globals frame does.
type Environment struct {
	enclosing *Environment
	values    map[string]value.Value
}

// NewEnvironment creates a frame enclosed by parent (nil for the globals
// frame, created once per interpreter per §3's invariant).
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{enclosing: parent, values: make(map[string]value.Value)}
}

// Define binds name in this frame, shadowing any binding of the same name
// in an enclosing frame.
func (e *Environment) Define(name string, v value.Value) {
	e.values[name] = v
}

// Get looks up name in this frame only (no enclosing fallback); used by
// GetAt once the resolver-supplied distance has located the frame.
func (e *Environment) Get(name string) (value.Value, bool) {
	v, ok := e.values[name]
	return v, ok
}

// GetGlobal looks up name starting at this frame and walking outward to
// the globals frame. The interpreter reads variables with no side-table
// entry with Get on its globals frame instead.
func (e *Environment) GetGlobal(name string) (value.Value, bool) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// AssignGlobal assigns name starting at this frame and walking outward,
// reporting whether an existing binding was found.
func (e *Environment) AssignGlobal(name string, v value.Value) bool {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name]; ok {
			env.values[name] = v
			return true
		}
	}
	return false
}

// GetAt returns the value bound to name in the ancestor `distance` frames
// up (§4.4's variable lookup dispatch). The binding must exist there --
// that is the resolver's side-table invariant (§3, §8).
func (e *Environment) GetAt(distance int, name string) value.Value {
	v, _ := e.ancestor(distance).Get(name)
	return v
}

// AssignAt assigns name in the ancestor `distance` frames up.
func (e *Environment) AssignAt(distance int, name string, v value.Value) {
	e.ancestor(distance).Define(name, v)
}

func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}

// Enclosing exposes the parent frame, so that callers can check how frames
// are chained (for example, that a bound method's frame encloses the
// function's own closure).
func (e *Environment) Enclosing() *Environment { return e.enclosing }
