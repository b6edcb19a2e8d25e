// Package persistence provides decorators for ports.LogStore and shared setup
// helpers for the store adapters.
package persistence

import "github.com/aretw0/interviewer/pkg/ports"

// Middleware allows wrapping a LogStore to add behavior.
type Middleware func(ports.LogStore) ports.LogStore

// Wrap applies mws to store; the first middleware is the outermost.
func Wrap(store ports.LogStore, mws ...Middleware) ports.LogStore {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			store = mws[i](store)
		}
	}
	return store
}

// Unwrap returns the innermost store beneath any middlewares.
func Unwrap(store ports.LogStore) ports.LogStore {
	for {
		u, ok := store.(interface{ Unwrap() ports.LogStore })
		if !ok {
			return store
		}
		store = u.Unwrap()
	}
}
