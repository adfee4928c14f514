// prototypes.go - the process-wide prototype registry (§3 "Prototype
// registry", §9 "initialization order").
package value

var (
	valuePrototype    *Object
	objectPrototype   *Object
	arrayPrototype    *Object
	numberPrototype   *Object
	stringPrototype   *Object
	functionPrototype *Object
)

// init builds the six prototypes bottom-up, per spec.md §9: "The six
// prototypes form a DAG rooted at ValuePrototype and must be built
// bottom-up and locked before the first user Value is created." Locking
// happens separately, in LockPrototypes: host code (pkg/stdlib's
// Register functions) is expected to attach bindings to these objects
// during process setup before anything is locked.
func init() {
	valuePrototype = &Object{values: newFieldMap()}

	objectPrototype = &Object{values: newFieldMap()}
	vp := FromObject(valuePrototype)
	objectPrototype.setExplicitPrototype(&vp)

	arrayPrototype = newDirectChild(valuePrototype)
	numberPrototype = newDirectChild(valuePrototype)
	stringPrototype = newDirectChild(valuePrototype)
	functionPrototype = newDirectChild(valuePrototype)
}

func newDirectChild(parent *Object) *Object {
	child := &Object{values: newFieldMap()}
	p := FromObject(parent)
	child.setExplicitPrototype(&p)
	return child
}

// LockPrototypes locks all six registry prototypes. The host calls
// this once, after every pkg/stdlib binding has been installed and
// before the first script runs — matching spec.md §9's "built
// bottom-up and locked before the first user Value is created."
func LockPrototypes() {
	for _, p := range []*Object{valuePrototype, objectPrototype, arrayPrototype, numberPrototype, stringPrototype, functionPrototype} {
		p.Lock()
	}
}

// ValuePrototype is the root of the prototype DAG; it is the implicit
// prototype of the four singleton variants.
func ValuePrototype() Value { return FromObject(valuePrototype) }

// ObjectPrototype is the default prototype of any Object without an
// explicit one; it inherits from ValuePrototype.
func ObjectPrototype() Value { return FromObject(objectPrototype) }

// ArrayPrototype is the implicit prototype of Array values.
func ArrayPrototype() Value { return FromObject(arrayPrototype) }

// NumberPrototype is the implicit prototype of Number values.
func NumberPrototype() Value { return FromObject(numberPrototype) }

// StringPrototype is the implicit prototype of String values.
func StringPrototype() Value { return FromObject(stringPrototype) }

// FunctionPrototype is the implicit prototype of Function values.
func FunctionPrototype() Value { return FromObject(functionPrototype) }

// InstallOnPrototype lets host code (pkg/stdlib) attach bindings onto
// one of the six registry prototypes during process setup, before
// LockPrototypes runs. Calling it after LockPrototypes is a bug in the
// host (it returns ObjectIsLocked, same as any other write to a locked
// object — there is no special bootstrap bypass).
func InstallOnPrototype(proto, name, fn Value) error {
	return Set(proto, name, fn)
}
