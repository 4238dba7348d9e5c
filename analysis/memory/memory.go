package memory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/benbjohnson/immutable"
	"github.com/cs-au-dk/petrify/analysis/cfg"
	"github.com/cs-au-dk/petrify/utils"
)

// Memory tracks which synchronization handles the local slots of one
// activation record denote. Slots that denote nothing are absent.
type Memory struct {
	slots *immutable.Map[cfg.Local, Value]
}

func New() *Memory {
	return &Memory{utils.NewImmMap[cfg.Local, Value]()}
}

// Get returns the value denoted by a whole local.
func (m *Memory) Get(l cfg.Local) (Value, bool) {
	return m.slots.Get(l)
}

// Len returns the number of slots denoting a value.
func (m *Memory) Len() int { return m.slots.Len() }

// Resolve returns the value denoted by a place. Dereferences are transparent.
// A field projection selects a position of an aggregate and is transparent on
// a plain handle, e.g. for a guard wrapped in a Result.
func (m *Memory) Resolve(p cfg.Place) (Value, bool) {
	v, ok := m.slots.Get(p.Local)
	if !ok {
		return nil, false
	}
	for _, proj := range p.Projection {
		if proj.Kind != cfg.Field {
			continue
		}
		if agg, isAgg := v.(Aggregate); isAgg {
			if proj.Field >= len(agg) || agg[proj.Field] == nil {
				return nil, false
			}
			v = agg[proj.Field]
		}
	}
	return v, true
}

// ResolveOperand returns the value read by an operand. Constants denote nothing.
func (m *Memory) ResolveOperand(op cfg.Operand) (Value, bool) {
	if !op.IsPlace() {
		return nil, false
	}
	return m.Resolve(op.Place)
}

// set writes a value (or nil to clear) to a place. Writes to whole locals
// replace the binding, writes to fields of a tracked aggregate replace the
// position. Writes through dereferences are not tracked.
func (m *Memory) set(p cfg.Place, v Value) {
	if len(p.Projection) == 0 {
		if v == nil {
			m.slots = m.slots.Delete(p.Local)
		} else {
			m.slots = m.slots.Set(p.Local, v)
		}
		return
	}

	for _, proj := range p.Projection {
		if proj.Kind == cfg.Deref {
			return
		}
	}

	cur, _ := m.slots.Get(p.Local)
	if updated := setField(cur, p.Projection, v); updated != nil {
		m.slots = m.slots.Set(p.Local, updated)
	} else {
		m.slots = m.slots.Delete(p.Local)
	}
}

// setField returns a copy of cur with the value at the projected position
// replaced. Positions missing from cur are filled with nil.
func setField(cur Value, projs []cfg.Projection, v Value) Value {
	if len(projs) == 0 {
		return v
	}
	field := projs[0].Field
	agg, _ := cur.(Aggregate)
	size := len(agg)
	if field >= size {
		size = field + 1
	}
	res := make(Aggregate, size)
	copy(res, agg)
	res[field] = setField(res[field], projs[1:], v)
	if res.Empty() {
		return nil
	}
	return res
}

// Link makes dst denote whatever src denotes, clearing dst if src denotes nothing.
func (m *Memory) Link(dst, src cfg.Place) {
	v, _ := m.Resolve(src)
	m.set(dst, v)
}

// LinkOperand makes dst denote whatever the operand reads.
func (m *Memory) LinkOperand(dst cfg.Place, op cfg.Operand) {
	v, _ := m.ResolveOperand(op)
	m.set(dst, v)
}

// LinkField makes dst denote the value at the given position of an aggregate.
func (m *Memory) LinkField(dst, aggregate cfg.Place, field int) {
	src := cfg.Place{
		Local:      aggregate.Local,
		Projection: append(append([]cfg.Projection{}, aggregate.Projection...), cfg.Projection{Kind: cfg.Field, Field: field}),
	}
	m.Link(dst, src)
}

// CreateAggregate makes dst an aggregate of the values of the members, at
// their respective positions. If no member denotes a handle, dst is cleared.
func (m *Memory) CreateAggregate(dst cfg.Place, members []cfg.Operand) {
	agg := make(Aggregate, len(members))
	for i, op := range members {
		if v, ok := m.ResolveOperand(op); ok {
			agg[i] = v
		}
	}
	if agg.Empty() {
		m.set(dst, nil)
		return
	}
	m.set(dst, agg)
}

// Bind makes dst denote a freshly created handle.
func (m *Memory) Bind(dst cfg.Place, h Handle) {
	m.set(dst, h)
}

// BindValue binds an already resolved value, e.g. an argument of a call.
func (m *Memory) BindValue(dst cfg.Place, v Value) {
	m.set(dst, v)
}

// Clear makes dst denote nothing.
func (m *Memory) Clear(dst cfg.Place) {
	m.set(dst, nil)
}

// Lookup returns the handle of the given kind denoted by p. A place that does not
// denote such a handle is a translator defect.
func (m *Memory) Lookup(p cfg.Place, kind Kind) (Handle, error) {
	v, ok := m.Resolve(p)
	if !ok {
		return Handle{}, fmt.Errorf("%w: %s does not denote a %s", utils.ErrInternal, p, kind)
	}
	h, ok := v.(Handle)
	if !ok || h.Kind != kind {
		return Handle{}, fmt.Errorf("%w: %s denotes %s, expected a %s", utils.ErrInternal, p, v, kind)
	}
	return h, nil
}

func (m *Memory) Mutex(p cfg.Place) (Handle, error)   { return m.Lookup(p, Mutex) }
func (m *Memory) Guard(p cfg.Place) (Handle, error)   { return m.Lookup(p, Guard) }
func (m *Memory) Condvar(p cfg.Place) (Handle, error) { return m.Lookup(p, Condvar) }
func (m *Memory) Thread(p cfg.Place) (Handle, error)  { return m.Lookup(p, Thread) }

func (m *Memory) String() string {
	type binding struct {
		l cfg.Local
		v Value
	}
	var bs []binding
	for iter := m.slots.Iterator(); !iter.Done(); {
		l, v, _ := iter.Next()
		bs = append(bs, binding{l, v})
	}
	sort.Slice(bs, func(i, j int) bool { return bs[i].l < bs[j].l })

	strs := make([]string, len(bs))
	for i, b := range bs {
		strs[i] = fmt.Sprintf("%s: %s", b.l, b.v)
	}
	return "{" + strings.Join(strs, ", ") + "}"
}
