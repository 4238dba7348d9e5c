package sync

import (
	"github.com/cs-au-dk/petrify/analysis/memory"
	"github.com/cs-au-dk/petrify/analysis/naming"
	"github.com/cs-au-dk/petrify/analysis/netif"
	"github.com/cs-au-dk/petrify/petrinet"
)

// Mutex is the gadget of a mutex: a token in Unlocked means the mutex is free.
type Mutex struct {
	Index    int
	Unlocked *petrinet.Place
	Locked   *petrinet.Place
}

type Mutexes struct {
	b     *netif.Builder
	arena []*Mutex
	locks int
}

// Get returns the mutex with the given arena index.
func (m *Mutexes) Get(i int) *Mutex { return m.arena[i] }

func (m *Mutexes) Len() int { return len(m.arena) }

// New creates the gadget of a mutex and binds the destination of the call to it.
func (m *Mutexes) New(site Site) (Fragment, Task) {
	mu := &Mutex{
		Index:    len(m.arena),
		Unlocked: m.b.Place(naming.MutexUnlocked(len(m.arena))),
		Locked:   m.b.Place(naming.MutexLocked(len(m.arena))),
	}
	m.b.Tokens(mu.Unlocked, 1)
	m.arena = append(m.arena, mu)

	f := single(m.b, naming.Indexed(site.Name, mu.Index), site)
	return f, func() {
		site.Memory.Bind(site.Dest, memory.Handle{Kind: memory.Mutex, Index: mu.Index})
	}
}

// Lock moves the token of the receiver from Unlocked to Locked. The destination
// of the call becomes a guard of the mutex.
func (m *Mutexes) Lock(site Site) (Fragment, Task) {
	h := site.receiver(0, memory.Mutex)
	mu := m.arena[h.Index]

	f := single(m.b, naming.Indexed(site.Name, m.locks), site)
	m.locks++
	m.b.Consume(f.Start, mu.Unlocked)
	m.b.Produce(f.Start, mu.Locked)

	return f, func() {
		site.Memory.Bind(site.Dest, memory.Handle{Kind: memory.Guard, Index: mu.Index})
	}
}

// Unlock makes t release the mutex of a guard.
func (m *Mutexes) Unlock(t *petrinet.Transition, guard memory.Handle) {
	mu := m.arena[guard.Index]
	m.b.Consume(t, mu.Locked)
	m.b.Produce(t, mu.Unlocked)
}

// Relock makes t reacquire the mutex of a guard.
func (m *Mutexes) Relock(t *petrinet.Transition, guard memory.Handle) {
	mu := m.arena[guard.Index]
	m.b.Consume(t, mu.Unlocked)
	m.b.Produce(t, mu.Locked)
}
