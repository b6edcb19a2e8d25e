// Package generation holds decorators for ports.Generator: retry, timeout and logging.
package generation

import "github.com/aretw0/interviewer/pkg/ports"

// Middleware decorates a Generator to inject cross-cutting concerns.
type Middleware func(ports.Generator) ports.Generator

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner ports.Generator, mws ...Middleware) ports.Generator {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		out = mws[i](out)
	}
	return out
}
