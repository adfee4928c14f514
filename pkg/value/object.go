package value

// Object is a keyed mapping from Value to Value with an optional
// prototype link, a monotonic lock flag, an opaque host userData slot,
// and an optional back-reference to the Executor able to run its
// metamethods (§3 "Object record").
type Object struct {
	values    *fieldMap
	prototype *Value // nil means "no explicit prototype"
	locked    bool
	state     Dispatcher
	userData  any
}

// fieldMap is an insertion-order-preserving map keyed by Value. Value is
// a plain comparable Go struct (Kind/Num/Str plus handle pointers), so
// it can be used directly as a Go map key: structural equality already
// matches spec.md's default identity/value semantics for every variant
// except the __eq override, which callers apply above this layer.
type fieldMap struct {
	index   map[Value]int
	entries []fieldEntry
}

type fieldEntry struct {
	key     Value
	val     Value
	deleted bool
}

func newFieldMap() *fieldMap {
	return &fieldMap{index: make(map[Value]int)}
}

func (m *fieldMap) get(k Value) (Value, bool) {
	i, ok := m.index[k]
	if !ok || m.entries[i].deleted {
		return Value{}, false
	}
	return m.entries[i].val, true
}

func (m *fieldMap) has(k Value) bool {
	i, ok := m.index[k]
	return ok && !m.entries[i].deleted
}

func (m *fieldMap) set(k, v Value) {
	if i, ok := m.index[k]; ok && !m.entries[i].deleted {
		m.entries[i].val = v
		return
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, fieldEntry{key: k, val: v})
}

func (m *fieldMap) delete(k Value) {
	if i, ok := m.index[k]; ok {
		m.entries[i].deleted = true
		delete(m.index, k)
	}
}

func (m *fieldMap) len() int {
	n := 0
	for _, e := range m.entries {
		if !e.deleted {
			n++
		}
	}
	return n
}

// keys returns keys in insertion order, skipping deleted entries.
func (m *fieldMap) keys() []Value {
	out := make([]Value, 0, len(m.entries))
	for _, e := range m.entries {
		if !e.deleted {
			out = append(out, e.key)
		}
	}
	return out
}

// Lock sets the monotonic locked flag (§5 "Locking here refers
// exclusively to the script-visible Object.locked flag"). Locking is
// one-way: once true, Unlock does not exist.
func (o *Object) Lock() {
	o.locked = true
}

// Locked reports whether mutation of this object's fields and
// prototype is forbidden (invariant I1).
func (o *Object) Locked() bool {
	return o.locked
}

// SetState attaches the Executor used to run this object's metamethods.
func (o *Object) SetState(d Dispatcher) {
	o.state = d
}

// State returns the attached Executor, or nil if none was attached.
func (o *Object) State() Dispatcher {
	return o.state
}

// UserData returns the opaque host-side payload; the core never
// interprets it.
func (o *Object) UserData() any {
	return o.userData
}

// SetUserData stores an opaque host-side payload, whether or not the
// object is locked. Locking does not gate userData: it is host bookkeeping, not
// script-visible mutable state (spec.md does not list userData among
// the fields I1 protects).
func (o *Object) SetUserData(d any) {
	o.userData = d
}

// OwnGet looks up key directly in this object's own fields, without
// consulting the prototype chain or any metamethod.
func (o *Object) OwnGet(key Value) (Value, bool) {
	return o.values.get(key)
}

// OwnHas reports whether key is an own field of this object.
func (o *Object) OwnHas(key Value) bool {
	return o.values.has(key)
}

// OwnSet stores key->val as an own field, bypassing the lock check.
// Callers (Indexer) are responsible for enforcing I1 before calling this.
func (o *Object) OwnSet(key, val Value) {
	o.values.set(key, val)
}

// OwnDelete removes key from this object's own fields, bypassing the
// lock check; callers enforce I1.
func (o *Object) OwnDelete(key Value) {
	o.values.delete(key)
}

// Len returns the number of own fields.
func (o *Object) Len() int {
	return o.values.len()
}

// OwnKeys returns own field keys in insertion order.
func (o *Object) OwnKeys() []Value {
	return o.values.keys()
}

// ExplicitPrototype returns the prototype explicitly assigned to this
// object (distinct from ObjectPrototype, the default), and whether one
// is set.
func (o *Object) ExplicitPrototype() (Value, bool) {
	if o.prototype == nil {
		return Value{}, false
	}
	return *o.prototype, true
}

// setExplicitPrototype is the low-level prototype mutator used by
// SetPrototype (indexer.go) after lock/type checks have already run.
func (o *Object) setExplicitPrototype(v *Value) {
	o.prototype = v
}

// AsDictionary exposes the underlying field map for host iteration, as
// required by spec.md §6. It fails (returns false) if v is not an
// Object.
func AsDictionary(v Value) (*Object, bool) {
	if !v.IsObject() {
		return nil, false
	}
	return v.Obj, true
}
