// Package sigguard defers termination signals around a critical section.
//
// A history rewrite must never be cut short half way through; a SIGINT or SIGTERM
// that arrives while the guarded function runs is held back and re-delivered once
// the function has returned, whether it succeeded or failed.
package sigguard

import (
	"os"
	"os/signal"
	"syscall"
)

// Guard runs functions with termination signals deferred.
type Guard struct {
	// Signals to defer. Defaults to SIGINT and SIGTERM.
	Signals []os.Signal
	// OnDeferred is called with each signal caught during the critical section after
	// it finishes. Defaults to re-delivering the signal to the current process.
	OnDeferred func(os.Signal)
}

// New returns a guard for SIGINT and SIGTERM that re-raises deferred signals.
func New() *Guard {
	return &Guard{}
}

func (g *Guard) signals() []os.Signal {
	if len(g.Signals) > 0 {
		return g.Signals
	}
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}

// Run calls fn with the guard's signals deferred and returns fn's error.
func (g *Guard) Run(fn func() error) error {
	if g == nil {
		return fn()
	}
	sigs := g.signals()
	ch := make(chan os.Signal, len(sigs))
	signal.Notify(ch, sigs...)

	err := fn()

	signal.Stop(ch)
	var caught []os.Signal
drain:
	for {
		select {
		case sig := <-ch:
			caught = append(caught, sig)
		default:
			break drain
		}
	}
	for _, sig := range caught {
		g.deliver(sig)
	}
	return err
}

func (g *Guard) deliver(sig os.Signal) {
	if g.OnDeferred != nil {
		g.OnDeferred(sig)
		return
	}
	if p, err := os.FindProcess(os.Getpid()); err == nil {
		_ = p.Signal(sig)
	}
}
