// Package results drives the search results view: a query moves the view
// into Loading, and the evaluated result set moves it to Empty or Populated.
package results

import (
	"slices"

	"github.com/meur/gamecatalog/internal/models"
)

// State is the observable state of the results view.
type State int

const (
	Loading State = iota
	Empty
	Populated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Empty:
		return "empty"
	case Populated:
		return "populated"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// BrowsePath is the unfiltered catalog view.
const BrowsePath = "/browse"

// ActionKind identifies a recovery action offered by the Empty state.
type ActionKind string

const (
	ActionBack   ActionKind = "back"
	ActionBrowse ActionKind = "browse"
)

// Action is a recovery affordance shown when nothing matched.
type Action struct {
	Kind  ActionKind `json:"kind"`
	Label string     `json:"label"`
	Path  string     `json:"path,omitempty"`
}

// RecoveryActions returns the actions offered by the Empty state.
func RecoveryActions() []Action {
	return []Action{
		{Kind: ActionBack, Label: "Go back"},
		{Kind: ActionBrowse, Label: "Browse all games", Path: BrowsePath},
	}
}

// Navigator receives outbound navigation requests.
type Navigator interface {
	Back()
	Navigate(path string)
}

// Perform dispatches a recovery action to nav.
func Perform(a Action, nav Navigator) {
	switch a.Kind {
	case ActionBack:
		nav.Back()
	case ActionBrowse:
		nav.Navigate(a.Path)
	}
}

// Ticket identifies one query evaluation.
type Ticket struct {
	Seq   uint64
	Query string
}

// Snapshot is what the view renders.
type Snapshot struct {
	Seq     uint64        `json:"-"`
	Query   string        `json:"query"`
	State   State         `json:"state"`
	Games   []models.Game `json:"items"`
	Actions []Action      `json:"actions,omitempty"`
}

// Machine tracks the latest query and discards stale evaluations.
// It has a single owner and is not safe for concurrent use.
type Machine struct {
	seq  uint64
	snap Snapshot
}

// Begin starts a new evaluation for query and enters Loading, even when
// query equals the current one.
func (m *Machine) Begin(query string) Ticket {
	m.seq++
	m.snap = Snapshot{Seq: m.seq, Query: query, State: Loading}
	return Ticket{Seq: m.seq, Query: query}
}

// Resolve completes the evaluation identified by t. It returns false and
// leaves the state untouched when a newer evaluation has begun.
func (m *Machine) Resolve(t Ticket, games []models.Game) bool {
	if t.Seq != m.seq || m.snap.State != Loading {
		return false
	}
	m.snap.Games = slices.Clone(games)
	if len(games) == 0 {
		m.snap.State = Empty
		m.snap.Actions = RecoveryActions()
	} else {
		m.snap.State = Populated
	}
	return true
}

// Current reports whether t is the latest evaluation.
func (m *Machine) Current(t Ticket) bool {
	return t.Seq == m.seq
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() Snapshot {
	s := m.snap
	s.Games = slices.Clone(s.Games)
	s.Actions = slices.Clone(s.Actions)
	return s
}
