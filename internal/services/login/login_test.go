package login

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/j-veylop/biliinsight-tui/internal/bilibili"
	"github.com/j-veylop/biliinsight-tui/internal/models"
)

var confirmedSession = models.NewSession([]models.Cookie{{Name: "SESSDATA", Value: "s"}}, "rt", time.Now())

func TestMachine_Advance(t *testing.T) {
	tests := []struct {
		name        string
		res         *bilibili.PollResult
		err         error
		want        State
		wantScanned bool
	}{
		{"NotScanned", &bilibili.PollResult{Code: bilibili.QRCodeNotScanned}, nil, StatePending, false},
		{"Scanned", &bilibili.PollResult{Code: bilibili.QRCodeScanned}, nil, StatePending, true},
		{"Expired", &bilibili.PollResult{Code: bilibili.QRCodeExpired}, nil, StateExpired, false},
		{"Confirmed", &bilibili.PollResult{Code: bilibili.QRCodeConfirmed, Session: &confirmedSession}, nil, StateConfirmed, false},
		{"ConfirmedWithoutSession", &bilibili.PollResult{Code: bilibili.QRCodeConfirmed}, nil, StateFailed, false},
		{"UnknownCode", &bilibili.PollResult{Code: 12345, Message: "?"}, nil, StateFailed, false},
		{"TransportError", nil, errors.New("timeout"), StateFailed, false},
		{"NilResult", nil, nil, StateFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine()
			if got := m.Advance(tt.res, tt.err); got != tt.want {
				t.Errorf("Advance() = %v, want %v", got, tt.want)
			}
			if m.Scanned() != tt.wantScanned {
				t.Errorf("Scanned() = %v, want %v", m.Scanned(), tt.wantScanned)
			}
			if (m.Err() != nil) != (tt.want == StateFailed) {
				t.Errorf("Err() = %v in state %v", m.Err(), m.State())
			}
		})
	}
}

func TestMachine_TerminalIsSticky(t *testing.T) {
	m := NewMachine()
	m.Advance(&bilibili.PollResult{Code: bilibili.QRCodeExpired}, nil)

	if got := m.Advance(&bilibili.PollResult{Code: bilibili.QRCodeConfirmed, Session: &confirmedSession}, nil); got != StateExpired {
		t.Errorf("expired machine moved to %v", got)
	}
	if m.Session() != nil {
		t.Error("expired machine should not hold a session")
	}

	m = NewMachine()
	m.Advance(&bilibili.PollResult{Code: bilibili.QRCodeConfirmed, Session: &confirmedSession}, nil)
	if got := m.Advance(nil, errors.New("late error")); got != StateConfirmed {
		t.Errorf("confirmed machine moved to %v", got)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StatePending, "pending"},
		{StateConfirmed, "confirmed"},
		{StateExpired, "expired"},
		{StateFailed, "failed"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

// scriptedPoller returns its results in order, repeating the last one.
type scriptedPoller struct {
	results []*bilibili.PollResult
	calls   int
}

func (s *scriptedPoller) PollQRCode(ctx context.Context, key string) (*bilibili.PollResult, error) {
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("poll without deadline")
	}
	i := min(s.calls, len(s.results)-1)
	s.calls++
	return s.results[i], nil
}

func TestPoller_Wait(t *testing.T) {
	client := &scriptedPoller{results: []*bilibili.PollResult{
		{Code: bilibili.QRCodeNotScanned},
		{Code: bilibili.QRCodeScanned},
		{Code: bilibili.QRCodeConfirmed, Session: &confirmedSession},
	}}
	p := NewPoller(client, "key", time.Second)

	state, err := p.Wait(t.Context(), time.Millisecond)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if state != StateConfirmed || client.calls != 3 {
		t.Errorf("state=%v calls=%d, want confirmed after 3 polls", state, client.calls)
	}
	if p.Machine().Session() == nil || !p.Machine().Scanned() {
		t.Error("expected session and scanned flag")
	}

	// Polling a terminal machine sends no request.
	if got := p.Poll(t.Context()); got != StateConfirmed || client.calls != 3 {
		t.Errorf("Poll after confirm: state=%v calls=%d", got, client.calls)
	}
}

func TestPoller_WaitCancelled(t *testing.T) {
	client := &scriptedPoller{results: []*bilibili.PollResult{{Code: bilibili.QRCodeNotScanned}}}
	p := NewPoller(client, "key", time.Second)

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	state, err := p.Wait(ctx, 5*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if state != StatePending {
		t.Errorf("state = %v, want pending", state)
	}
}
