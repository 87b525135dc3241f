package reconcile

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/zenithkart/storefront-bff/internal/domain"
)

var (
	// ErrInFlight means a mutation for the same record id has not
	// settled yet. The caller must wait for it instead of stacking a
	// second speculative value on top.
	ErrInFlight = errors.New("mutation already in flight for this record")

	ErrUnknownRecord = errors.New("record is not tracked")
	ErrExists        = errors.New("record already tracked")
)

// entry is the per-record state machine. token == "" means the entry
// is confirmed and lastConfirmed is the visible value. A non-empty
// token means a mutation is in flight: speculative is what the UI
// sees (nil for a speculative removal) and lastConfirmed is the
// rollback value (nil for a speculative creation).
type entry struct {
	lastConfirmed *domain.Order
	speculative   *domain.Order
	token         string
}

func (e *entry) visible() *domain.Order {
	if e.token != "" {
		return e.speculative
	}
	return e.lastConfirmed
}

// Token identifies one outstanding mutation. Commit and Rollback
// ignore tokens that no longer match the entry, so a late settlement
// after the mirror was refreshed cannot clobber newer state.
type Token struct {
	id string
	op string
}

func (t Token) ID() string { return t.id }

// Table mirrors one owner's order records. Reads see optimistic
// values immediately; a failed mutation restores the last value the
// store confirmed.
type Table struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ids     []string // insertion order, as the store returned it
}

func NewTable() *Table {
	return &Table{entries: make(map[string]*entry)}
}

// ConfirmAll replaces the mirror with the store's answer. Records
// with a mutation in flight keep their speculative value; only their
// rollback value is refreshed.
func (t *Table) ConfirmAll(orders []domain.Order) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fresh := make(map[string]*entry, len(orders))
	ids := make([]string, 0, len(orders))
	for i := range orders {
		o := orders[i]
		if old, ok := t.entries[o.ID]; ok && old.token != "" {
			old.lastConfirmed = &o
			fresh[o.ID] = old
		} else {
			fresh[o.ID] = &entry{lastConfirmed: &o}
		}
		ids = append(ids, o.ID)
	}
	// keep pending creations the store does not know about yet
	for _, id := range t.ids {
		e := t.entries[id]
		if e == nil || fresh[id] != nil {
			continue
		}
		if e.token != "" {
			fresh[id] = e
			ids = append(ids, id)
		}
	}
	t.entries = fresh
	t.ids = ids
}

// Confirm records server truth for a single record.
func (t *Table) Confirm(o domain.Order) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[o.ID]; ok {
		// an in-flight entry keeps its speculation; only the
		// rollback value is refreshed
		e.lastConfirmed = &o
		return
	}
	t.entries[o.ID] = &entry{lastConfirmed: &o}
	t.ids = append(t.ids, o.ID)
}

// Get returns the visible value for id, optimistic or confirmed.
func (t *Table) Get(id string) (domain.Order, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[id]
	if !ok {
		return domain.Order{}, false
	}
	v := e.visible()
	if v == nil {
		return domain.Order{}, false
	}
	return *v, true
}

// Snapshot returns every visible record in insertion order.
func (t *Table) Snapshot() []domain.Order {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.Order, 0, len(t.ids))
	for _, id := range t.ids {
		e, ok := t.entries[id]
		if !ok {
			continue
		}
		if v := e.visible(); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func (t *Table) InFlight(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[id]
	return ok && e.token != ""
}

// BeginUpdate applies speculative as the visible value for id and
// marks the record in flight. Only one mutation per id at a time.
func (t *Table) BeginUpdate(id string, speculative domain.Order) (Token, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[id]
	if !ok {
		return Token{}, ErrUnknownRecord
	}
	if e.token != "" {
		return Token{}, ErrInFlight
	}
	e.token = uuid.NewString()
	e.speculative = &speculative
	return Token{id: id, op: e.token}, nil
}

// BeginDelete hides the record from view while the deletion runs.
func (t *Table) BeginDelete(id string) (Token, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[id]
	if !ok {
		return Token{}, ErrUnknownRecord
	}
	if e.token != "" {
		return Token{}, ErrInFlight
	}
	e.token = uuid.NewString()
	e.speculative = nil
	return Token{id: id, op: e.token}, nil
}

// BeginCreate inserts a record the store has not assigned an id to
// yet. Commit with the server echo replaces the placeholder id.
func (t *Table) BeginCreate(id string, o domain.Order) (Token, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[id]; ok {
		return Token{}, ErrExists
	}
	tok := uuid.NewString()
	o.ID = id
	t.entries[id] = &entry{speculative: &o, token: tok}
	t.ids = append(t.ids, id)
	return Token{id: id, op: tok}, nil
}

// Commit settles a mutation as successful. If echo is non-nil the
// server's copy wins over the speculative one; a creation committed
// under a placeholder id is re-keyed to the id the store assigned.
func (t *Table) Commit(tok Token, echo *domain.Order) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[tok.id]
	if !ok || e.token != tok.op {
		return // stale settlement
	}
	if e.speculative == nil {
		// deletion confirmed: drop the record entirely
		delete(t.entries, tok.id)
		t.dropID(tok.id)
		return
	}
	final := *e.speculative
	if echo != nil {
		final = *echo
	}
	e.token = ""
	e.speculative = nil
	e.lastConfirmed = &final
	if final.ID != tok.id {
		delete(t.entries, tok.id)
		t.entries[final.ID] = e
		for i, id := range t.ids {
			if id == tok.id {
				t.ids[i] = final.ID
				break
			}
		}
	}
}

// Rollback settles a mutation as failed and restores the last
// confirmed value: a failed delete re-inserts the record into view, a
// failed create removes the placeholder.
func (t *Table) Rollback(tok Token) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[tok.id]
	if !ok || e.token != tok.op {
		return
	}
	if e.lastConfirmed == nil {
		delete(t.entries, tok.id)
		t.dropID(tok.id)
		return
	}
	e.token = ""
	e.speculative = nil
}

func (t *Table) dropID(id string) {
	for i, v := range t.ids {
		if v == id {
			t.ids = append(t.ids[:i], t.ids[i+1:]...)
			return
		}
	}
}
