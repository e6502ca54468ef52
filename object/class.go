package object

// Class is a Lox class value (§3): (name, superclass?, methods).
type Class struct {
	Name       string
	Methods    map[string]*Function
	Superclass *Class // nil for a class with no superclass
}

func NewClass(name string, methods map[string]*Function, superclass *Class) *Class {
	return &Class{Name: name, Methods: methods, Superclass: superclass}
}

func (*Class) LoxValue() {}

// String stringifies a class value as just its name (§4.4).
func (c *Class) String() string { return c.Name }

// Arity is the init method's arity (including an inherited one), or 0 if
// no init method exists anywhere in the superclass chain (§3).
func (c *Class) Arity() int {
	if method := c.Get("init"); method != nil {
		return method.Arity()
	}
	return 0
}

// Get looks up a method by name through the superclass chain.
func (c *Class) Get(name string) *Function {
	if fun, ok := c.Methods[name]; ok {
		return fun
	}
	if c.Superclass != nil {
		return c.Superclass.Get(name)
	}
	return nil
}
