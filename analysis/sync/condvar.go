package sync

import (
	"github.com/cs-au-dk/petrify/analysis/memory"
	"github.com/cs-au-dk/petrify/analysis/naming"
	"github.com/cs-au-dk/petrify/analysis/netif"
	"github.com/cs-au-dk/petrify/petrinet"
)

// Condvar is the gadget of a condition variable.
//
// A notification puts a token in SignalInput. If a waiter has put a token in
// WaitInput, Signal may pass the notification on to SignalOutput. Without a
// waiter, LostSignalPossible is marked and LostSignal discards the notification.
// Waiting empties LostSignalPossible until the waiter has been signaled.
type Condvar struct {
	Index              int
	LostSignalPossible *petrinet.Place
	SignalInput        *petrinet.Place
	WaitInput          *petrinet.Place
	SignalOutput       *petrinet.Place
	LostSignal         *petrinet.Transition
	Signal             *petrinet.Transition
}

type Condvars struct {
	b        *netif.Builder
	mutexes  *Mutexes
	arena    []*Condvar
	waits    int
	notifies int
}

func (c *Condvars) Get(i int) *Condvar { return c.arena[i] }

func (c *Condvars) Len() int { return len(c.arena) }

// New creates the gadget of a condition variable and binds the destination of
// the call to it.
func (c *Condvars) New(site Site) (Fragment, Task) {
	i := len(c.arena)
	cv := &Condvar{
		Index:              i,
		LostSignalPossible: c.b.Place(naming.CondvarLostSignalPossible(i)),
		SignalInput:        c.b.Place(naming.CondvarSignalInput(i)),
		WaitInput:          c.b.Place(naming.CondvarWaitInput(i)),
		SignalOutput:       c.b.Place(naming.CondvarSignalOutput(i)),
		LostSignal:         c.b.Transition(naming.CondvarLostSignal(i)),
		Signal:             c.b.Transition(naming.CondvarSignal(i)),
	}
	c.b.Tokens(cv.LostSignalPossible, 1)

	c.b.Consume(cv.LostSignal, cv.LostSignalPossible, cv.SignalInput)
	c.b.Produce(cv.LostSignal, cv.LostSignalPossible)

	c.b.Consume(cv.Signal, cv.SignalInput, cv.WaitInput)
	c.b.Produce(cv.Signal, cv.SignalOutput, cv.LostSignalPossible)

	c.arena = append(c.arena, cv)

	f := single(c.b, naming.Indexed(site.Name, i), site)
	return f, func() {
		site.Memory.Bind(site.Dest, memory.Handle{Kind: memory.Condvar, Index: i})
	}
}

// Wait splits the call in a start and an end transition. The start releases
// the mutex of the guard (second argument) and registers as a waiter, the end
// waits for a signal and reacquires the mutex. The destination of the call
// denotes the guard.
func (c *Condvars) Wait(site Site) (Fragment, Task) {
	cv := c.arena[site.receiver(0, memory.Condvar).Index]
	guard := site.receiver(1, memory.Guard)

	label := naming.Indexed(site.Name, c.waits)
	c.waits++

	f := Fragment{
		Start: c.b.Transition(label + "_START"),
		End:   c.b.Transition(label + "_END"),
	}
	if site.Cleanup {
		f.Unwind = c.b.Transition(naming.Unwind(label))
	}

	c.b.Consume(f.Start, cv.LostSignalPossible)
	c.b.Produce(f.Start, cv.WaitInput)
	c.mutexes.Unlock(f.Start, guard)

	c.b.Consume(f.End, cv.SignalOutput)
	c.mutexes.Relock(f.End, guard)

	return f, func() {
		site.Memory.BindValue(site.Dest, guard)
	}
}

// NotifyOne sends a signal to the receiver.
func (c *Condvars) NotifyOne(site Site) (Fragment, Task) {
	cv := c.arena[site.receiver(0, memory.Condvar).Index]

	f := single(c.b, naming.Indexed(site.Name, c.notifies), site)
	c.notifies++
	c.b.Produce(f.Start, cv.SignalInput)

	return f, func() {}
}
