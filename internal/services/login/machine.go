// Package login drives the QR-code login flow.
package login

import (
	"fmt"

	"github.com/j-veylop/biliinsight-tui/internal/bilibili"
	"github.com/j-veylop/biliinsight-tui/internal/models"
)

// State is the login flow state.
type State int

const (
	// StatePending means the code is waiting to be scanned or confirmed.
	StatePending State = iota
	// StateConfirmed means the user confirmed and a session was issued.
	StateConfirmed
	// StateExpired means the code timed out and a new one is needed.
	StateExpired
	// StateFailed means polling hit an error or an unknown code.
	StateFailed
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateConfirmed:
		return "confirmed"
	case StateExpired:
		return "expired"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s != StatePending
}

// Machine tracks one QR code through its login states. Terminal states are
// sticky: later poll results are ignored.
type Machine struct {
	state   State
	scanned bool
	session *models.Session
	err     error
}

// NewMachine returns a machine in the pending state.
func NewMachine() *Machine {
	return &Machine{state: StatePending}
}

// Advance applies one poll outcome and returns the resulting state.
func (m *Machine) Advance(res *bilibili.PollResult, err error) State {
	if m.state.Terminal() {
		return m.state
	}

	switch {
	case err != nil:
		m.fail(err)
	case res == nil:
		m.fail(fmt.Errorf("empty poll result"))
	case res.Code == bilibili.QRCodeNotScanned:
	case res.Code == bilibili.QRCodeScanned:
		m.scanned = true
	case res.Code == bilibili.QRCodeExpired:
		m.state = StateExpired
	case res.Code == bilibili.QRCodeConfirmed && res.Session != nil:
		m.state = StateConfirmed
		m.session = res.Session
	default:
		m.fail(fmt.Errorf("unexpected poll code %d: %s", res.Code, res.Message))
	}
	return m.state
}

func (m *Machine) fail(err error) {
	m.state = StateFailed
	m.err = err
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Scanned reports whether the code has been scanned but not yet confirmed.
func (m *Machine) Scanned() bool { return m.scanned }

// Session returns the issued session once confirmed.
func (m *Machine) Session() *models.Session { return m.session }

// Err returns the failure cause in the failed state.
func (m *Machine) Err() error { return m.err }
