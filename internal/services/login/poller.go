package login

import (
	"context"
	"time"

	"github.com/j-veylop/biliinsight-tui/internal/bilibili"
	"github.com/j-veylop/biliinsight-tui/internal/logger"
)

// DefaultPollTimeout bounds a single poll request.
const DefaultPollTimeout = 10 * time.Second

// QRPoller reports the state of a QR code.
type QRPoller interface {
	PollQRCode(ctx context.Context, key string) (*bilibili.PollResult, error)
}

// Poller polls one QR code and feeds the results into a Machine.
type Poller struct {
	client  QRPoller
	key     string
	timeout time.Duration
	machine *Machine
}

// NewPoller creates a poller for the given QR code key.
func NewPoller(client QRPoller, key string, timeout time.Duration) *Poller {
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}
	return &Poller{
		client:  client,
		key:     key,
		timeout: timeout,
		machine: NewMachine(),
	}
}

// Machine returns the underlying state machine.
func (p *Poller) Machine() *Machine {
	return p.machine
}

// Poll performs one poll under its own timeout and returns the new state.
func (p *Poller) Poll(ctx context.Context) State {
	if p.machine.State().Terminal() {
		return p.machine.State()
	}

	pollCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	res, err := p.client.PollQRCode(pollCtx, p.key)
	state := p.machine.Advance(res, err)
	if state == StateFailed {
		logger.Warn("login poll failed", "error", p.machine.Err())
	}
	return state
}

// Wait polls every interval until a terminal state or ctx is done.
func (p *Poller) Wait(ctx context.Context, interval time.Duration) (State, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return p.machine.State(), err
		}
		if state := p.Poll(ctx); state.Terminal() {
			return state, nil
		}

		select {
		case <-ctx.Done():
			return p.machine.State(), ctx.Err()
		case <-ticker.C:
		}
	}
}
