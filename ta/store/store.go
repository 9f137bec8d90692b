// Package store persists named platform-TA definitions so a CLI
// invocation doesn't have to rebuild a platform's automaton in code every
// run (spec.md's Non-goals exclude a model-checking algorithm, not a
// reusable platform-description library). [EXPANSION]
//
// Grounded on the teacher's datalog/storage/database.go and
// badger_store.go (the Open-with-tuned-options idiom, one BadgerDB
// directory per store), simplified to a flat key space: one key per
// platform name, since this module has no multi-index datom model to
// replicate.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/wbrown/tasched/ta"
	"github.com/wbrown/tasched/ta/automaton"
)

// PlatformLibrary is a badger-backed named lookup table of platform
// automaton definitions.
type PlatformLibrary struct {
	db *badger.DB
}

// Open opens (creating if absent) a platform library at path.
func Open(path string) (*PlatformLibrary, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: opening platform library: %w", err)
	}
	return &PlatformLibrary{db: db}, nil
}

// Close closes the underlying database.
func (l *PlatformLibrary) Close() error {
	return l.db.Close()
}

// Put stores a under name, overwriting any existing definition.
func (l *PlatformLibrary) Put(name string, a *automaton.Automaton) error {
	data, err := json.Marshal(automatonToDTO(a))
	if err != nil {
		return fmt.Errorf("store: encoding platform %q: %w", name, err)
	}
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(name), data)
	})
}

// Get retrieves the platform automaton stored under name. ok is false if
// no such platform is defined.
func (l *PlatformLibrary) Get(name string) (a *automaton.Automaton, ok bool, err error) {
	err = l.db.View(func(txn *badger.Txn) error {
		item, getErr := txn.Get([]byte(name))
		if getErr == badger.ErrKeyNotFound {
			return nil
		}
		if getErr != nil {
			return getErr
		}
		ok = true
		return item.Value(func(val []byte) error {
			var dto automatonDTO
			if jsonErr := json.Unmarshal(val, &dto); jsonErr != nil {
				return jsonErr
			}
			a = dtoToAutomaton(dto)
			return nil
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("store: reading platform %q: %w", name, err)
	}
	return a, ok, nil
}

// List returns every platform name currently stored, in key order.
func (l *PlatformLibrary) List() ([]string, error) {
	var names []string
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: listing platforms: %w", err)
	}
	return names, nil
}

// automatonDTO is the JSON-serializable projection of automaton.Automaton.
// encoding/json is used rather than a hand-rolled fixed-layout codec (the
// style the teacher's storage package uses for flat datoms) because a
// ClockConstraint is a variable-depth tree, not a fixed-width record; the
// teacher's own closed-variant style (query.Comparison-like tagged
// structs) translates into JSON's tagged-field encoding without needing a
// third-party codec the retrieval pack does not otherwise use.
type automatonDTO struct {
	Locations []locationDTO `json:"locations"`
	Edges     []edgeDTO     `json:"edges"`
	Clocks    []string      `json:"clocks"`
	BoolVars  []string      `json:"bool_vars"`
	Prefix    string        `json:"prefix"`
}

type locationDTO struct {
	Id        string        `json:"id"`
	Invariant *constraintDTO `json:"invariant,omitempty"`
	Urgent    bool          `json:"urgent"`
	Initial   bool          `json:"initial"`
}

type edgeDTO struct {
	SourceId string        `json:"source_id"`
	DestId   string        `json:"dest_id"`
	Action   string        `json:"action,omitempty"`
	Guard    *constraintDTO `json:"guard,omitempty"`
	Reset    []string      `json:"reset,omitempty"`
	Sync     string        `json:"sync,omitempty"`
	Orient   int           `json:"orient"`
}

type constraintDTO struct {
	Kind   int            `json:"kind"`
	Clock  string         `json:"clock,omitempty"`
	Clock2 string         `json:"clock2,omitempty"`
	Op     int            `json:"op,omitempty"`
	K      int            `json:"k,omitempty"`
	Left   *constraintDTO `json:"left,omitempty"`
	Right  *constraintDTO `json:"right,omitempty"`
}

func constraintToDTO(cc *ta.ClockConstraint) *constraintDTO {
	if cc.IsTrue() {
		return &constraintDTO{Kind: int(ta.CCTrue)}
	}
	dto := &constraintDTO{Kind: int(cc.Kind), Op: int(cc.Op), K: cc.K}
	if cc.Clock != nil {
		dto.Clock = cc.Clock.Name()
	}
	if cc.Clock2 != nil {
		dto.Clock2 = cc.Clock2.Name()
	}
	if cc.Left != nil {
		dto.Left = constraintToDTO(cc.Left)
	}
	if cc.Right != nil {
		dto.Right = constraintToDTO(cc.Right)
	}
	return dto
}

func dtoToConstraint(dto *constraintDTO) *ta.ClockConstraint {
	if dto == nil || ta.CCKind(dto.Kind) == ta.CCTrue {
		return ta.True()
	}
	switch ta.CCKind(dto.Kind) {
	case ta.CCAtomic:
		return ta.Atomic(ta.InternClock(dto.Clock), ta.CompareOp(dto.Op), dto.K)
	case ta.CCDiff:
		return ta.Diff(ta.InternClock(dto.Clock), ta.InternClock(dto.Clock2), ta.CompareOp(dto.Op), dto.K)
	case ta.CCAnd:
		return ta.And(dtoToConstraint(dto.Left), dtoToConstraint(dto.Right))
	default:
		return ta.True()
	}
}

func automatonToDTO(a *automaton.Automaton) automatonDTO {
	dto := automatonDTO{Prefix: a.Prefix}
	for _, l := range a.Locations {
		dto.Locations = append(dto.Locations, locationDTO{
			Id:        l.Id,
			Invariant: constraintToDTO(l.Invariant),
			Urgent:    l.Urgent,
			Initial:   l.Initial,
		})
	}
	for _, e := range a.Edges {
		var reset []string
		for c := range e.Reset {
			reset = append(reset, c.Name())
		}
		dto.Edges = append(dto.Edges, edgeDTO{
			SourceId: e.SourceId,
			DestId:   e.DestId,
			Action:   e.Action,
			Guard:    constraintToDTO(e.Guard),
			Reset:    reset,
			Sync:     e.Sync,
			Orient:   int(e.Orient),
		})
	}
	for c := range a.Clocks {
		dto.Clocks = append(dto.Clocks, c.Name())
	}
	for b := range a.BoolVars {
		dto.BoolVars = append(dto.BoolVars, b)
	}
	return dto
}

func dtoToAutomaton(dto automatonDTO) *automaton.Automaton {
	a := automaton.New(dto.Prefix)
	for _, name := range dto.Clocks {
		a.Clocks[ta.InternClock(name)] = true
	}
	for _, b := range dto.BoolVars {
		a.BoolVars[b] = true
	}
	for _, l := range dto.Locations {
		a.AddLocation(automaton.NewLocation(l.Id, dtoToConstraint(l.Invariant), l.Urgent, l.Initial))
	}
	for _, e := range dto.Edges {
		edge := automaton.NewEdge(e.SourceId, e.DestId)
		edge.Action = e.Action
		edge.Guard = dtoToConstraint(e.Guard)
		edge.Sync = e.Sync
		edge.Orient = automaton.Orientation(e.Orient)
		for _, name := range e.Reset {
			edge.Reset[ta.InternClock(name)] = true
		}
		a.AddEdge(edge)
	}
	return a
}
