package panicutil

import (
	"github.com/sourcegraph/conc/panics"
)

// Invoke runs fn and recovers from panics, returning them as errors.
// If fn returns normally, its error value is returned as is.
// If fn panics, the recovered panic value is returned as a *panics.ErrRecovered.
// If fn calls runtime.Goexit, it returns nil and the goroutine exit proceeds.
func Invoke(fn func() error) error {
	var r Recoverer
	return r.Invoke(fn)
}

// Recoverer invokes functions with a double defer sandwich so that panics
// and runtime.Goexit can be told apart from normal returns.
type Recoverer struct {
	// OnGoexit is called when the invoked function exits via runtime.Goexit.
	// It runs on the exiting goroutine, before the exit completes.
	OnGoexit func()
}

// Invoke runs fn and recovers from panics, returning them as errors.
// If fn returns normally, its error value is returned as is.
// If fn panics, the recovered panic value is returned as a *panics.ErrRecovered.
// If fn calls runtime.Goexit, OnGoexit is called (when set) and the goroutine
// exit proceeds.
func (r *Recoverer) Invoke(fn func() error) (err error) {
	var (
		returned   bool
		panicked   bool
		panicValue panics.Recovered
	)
	defer func() {
		switch {
		case returned:
			return
		case panicked:
			err = panicValue.AsError()
		default:
			if r.OnGoexit != nil {
				r.OnGoexit()
			}
		}
	}()
	func() {
		defer func() {
			panicValue = panics.NewRecovered(2, recover())
		}()
		err = fn()
		returned = true
	}()
	if !returned {
		panicked = true
	}
	return
}
