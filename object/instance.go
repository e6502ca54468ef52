package object

import (
	"fmt"
	"tree_lox/value"
)

// Instance is a Lox class instance (§3): (class_ref, fields).
type Instance struct {
	Class  *Class
	Fields map[string]value.Value
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]value.Value)}
}

func (*Instance) LoxValue() {}

func (i *Instance) String() string {
	return fmt.Sprintf("%s instance", i.Class.Name)
}

// Get implements property access (§4.4's `Get`): fields shadow methods.
// A found method is bound to the instance before being returned.
func (i *Instance) Get(name string) (value.Value, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if method := i.Class.Get(name); method != nil {
		return method.Bind(i), true
	}
	return nil, false
}

// Set implements property assignment (§4.4's `Set`): fields are created
// on first assignment.
func (i *Instance) Set(name string, v value.Value) {
	i.Fields[name] = v
}
