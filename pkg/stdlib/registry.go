// registry.go - the narrow surface stdlib bindings need to attach
// themselves to a running interpreter: a place to define globals.
package stdlib

import "github.com/vela-lang/vela/pkg/value"

// Globals is satisfied by *lang.Environment. Kept as an interface so
// pkg/stdlib never imports pkg/lang: bindings attach to the core
// through value.Value and this one method, nothing else.
type Globals interface {
	Define(name string, v value.Value)
}

// Options collects binding settings. No function in this package reads
// it; cmd/vela passes the datastore DSN to NewDatastore directly.
type Options struct {
	DatastoreDSN string // empty disables the datastore() global
}
