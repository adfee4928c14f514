// dispatch.go - Metadispatch (§4.10): the safe prototype walk used from
// within operators themselves, which must never re-enter the Indexer.
package value

// Dispatcher is the Executor collaborator spec.md §1/§6 assumes exists
// externally: something able to invoke a callable Value with arguments.
// pkg/lang's tree-walking interpreter is the concrete implementation;
// pkg/value only depends on this interface.
type Dispatcher interface {
	Call(fn Value, args []Value) (Value, error)
}

const maxPrototypeDepth = 100

// TryDispatch implements §4.10 try_dispatch(R, name, args).
//
// The walk here is deliberately independent of Get/Set (indexer.go): it
// looks up name directly in each node's own fields via OwnGet, never
// through the public Indexer, so a metamethod named e.g. __get cannot
// recurse into itself. Implementing this by calling Get would infinite
// loop the moment an object defines __get (spec.md §9 "Metamethod
// recursion").
func TryDispatch(receiver Value, name string, args []Value) (bool, Value, error) {
	if !receiver.IsObject() {
		return false, Undefined(), nil
	}

	key := String(name)
	node := receiver.Obj
	atReceiver := true

	for depth := 0; ; depth++ {
		if depth >= maxPrototypeDepth {
			return false, Undefined(), NewRuntimeError(CodeCircularPrototype, "prototype walk exceeded depth %d while dispatching %q", maxPrototypeDepth, name)
		}
		if node == nil {
			break
		}
		if v, ok := node.OwnGet(key); ok {
			return invokeMetamethod(receiver, v, node.State(), args, name)
		}

		// The step away from the receiver falls back to ObjectPrototype
		// when no explicit prototype is set, matching §4.6's default;
		// every step after that follows only explicit links, exactly
		// like the indexer's walk (indexer.go's startWalk/loop).
		var proto Value
		var ok bool
		if atReceiver {
			proto, ok = Prototype(receiver), true
			atReceiver = false
		} else {
			proto, ok = node.ExplicitPrototype()
		}
		if !ok || !proto.IsObject() {
			break
		}
		node = proto.Obj
	}

	return false, Undefined(), nil
}

// invokeMetamethod wraps the callable found at some node in the walk
// (binding it to receiver per §4.5) and runs it through that node's
// attached Executor.
func invokeMetamethod(receiver, callable Value, state Dispatcher, args []Value, name string) (bool, Value, error) {
	bound := CheckWrapFunction(callable, receiver)
	if state == nil {
		return false, Undefined(), NewRuntimeError(CodeCantUseOperatorOnTypes, "metamethod %q has no attached executor", name)
	}
	result, err := state.Call(bound, args)
	if err != nil {
		return false, Undefined(), err
	}
	return true, result, nil
}
