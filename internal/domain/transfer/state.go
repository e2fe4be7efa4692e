package transfer

import (
	"database/sql/driver"
	"fmt"
)

// State is a TransferProcess's position in the handler graph, persisted as
// a stable integer code so store implementations never depend on name
// ordering.
type State int

const (
	StateInitial State = iota
	StateProvisioning
	StateProvisioned
	StateRequesting
	StateRequested
	StateInProgress
	StateStreaming
	StateCompleted
	StateDeprovisioning
	StateDeprovisioned
	StateEnded
	StateError
)

var stateNames = map[State]string{
	StateInitial:        "INITIAL",
	StateProvisioning:   "PROVISIONING",
	StateProvisioned:    "PROVISIONED",
	StateRequesting:     "REQUESTING",
	StateRequested:      "REQUESTED",
	StateInProgress:     "IN_PROGRESS",
	StateStreaming:      "STREAMING",
	StateCompleted:      "COMPLETED",
	StateDeprovisioning: "DEPROVISIONING",
	StateDeprovisioned:  "DEPROVISIONED",
	StateEnded:          "ENDED",
	StateError:          "ERROR",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(s))
}

// IsTerminal reports whether s is absorbing: ENDED or ERROR.
func (s State) IsTerminal() bool {
	return s == StateEnded || s == StateError
}

// ActiveStates is the fixed dispatch order the scheduler visits each tick
// (spec §4.2 step 2). REQUESTED is visited right after REQUESTING so a
// newly-created process can be carried as far as possible in one tick.
var ActiveStates = []State{
	StateInitial,
	StateProvisioning,
	StateProvisioned,
	StateRequesting,
	StateRequested,
	StateInProgress,
	StateStreaming,
	StateDeprovisioning,
	StateDeprovisioned,
}

// Scan implements sql.Scanner so State round-trips through the persistence
// layer's integer column.
func (s *State) Scan(value interface{}) error {
	if value == nil {
		*s = StateInitial
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = State(v)
	case int:
		*s = State(v)
	default:
		return fmt.Errorf("transfer: cannot scan %T into State", value)
	}
	return nil
}

// Value implements driver.Valuer.
func (s State) Value() (driver.Value, error) {
	return int64(s), nil
}
