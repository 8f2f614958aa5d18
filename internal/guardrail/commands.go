package guardrail

import (
	"errors"
	"fmt"

	"github.com/eddiebelaval/deepstack-guardrail/internal/activity"
	"github.com/eddiebelaval/deepstack-guardrail/internal/metrics"
)

// Command actions accepted by Apply.
const (
	ActionRecordTrade   = "record_trade"
	ActionRecordQuery   = "record_query"
	ActionCheckTrade    = "check_trade"
	ActionStartSession  = "start_session"
	ActionEndSession    = "end_session"
	ActionClearCooldown = "clear_cooldown"
	ActionDismissBreak  = "dismiss_break"
	ActionReset         = "reset"
)

// ErrInvalidAction is returned for unknown or missing command actions. No
// state is mutated when it is returned.
var ErrInvalidAction = errors.New("invalid action")

// DefaultSubject is used when a command names no subject (single-user
// dashboards).
const DefaultSubject = "default"

// Command is the inbound mutation envelope.
type Command struct {
	Action  string   `json:"action"`
	Subject string   `json:"subject"`
	Outcome *float64 `json:"outcome,omitempty"`
	Size    float64  `json:"size,omitempty"`
}

// Apply executes a command and returns the freshly recomputed assessment.
// All commands are synchronous; clear_cooldown and reset are idempotent.
func (e *Engine) Apply(cmd Command) (Assessment, error) {
	subject := cmd.Subject
	if subject == "" {
		subject = DefaultSubject
	}

	st := e.state(subject)
	st.mu.Lock()
	defer st.mu.Unlock()
	now := e.clk.Now()

	switch cmd.Action {
	case ActionRecordTrade:
		// Recording auto-opens a session: activity implies one.
		st.session.Start(now, e.cfg.Loc)
		st.log.Append(activity.Event{At: now, Subject: subject, PnL: cmd.Outcome, Size: cmd.Size})
		st.session.CountEvent()

	case ActionRecordQuery:
		st.session.Start(now, e.cfg.Loc)
		st.log.Append(activity.Event{At: now, Subject: subject})
		st.session.CountEvent()

	case ActionCheckTrade:
		// Pure read; evaluation below still persists any earned cooldown.

	case ActionStartSession:
		st.session.Start(now, e.cfg.Loc)

	case ActionEndSession:
		st.session.End()

	case ActionClearCooldown:
		st.cooldownUntil = nil
		st.cooldownTag = ""

	case ActionDismissBreak:
		st.cooldownUntil = nil
		st.cooldownTag = ""
		st.dismissed = true

	case ActionReset:
		st.log.Reset()
		st.session.Reset()
		st.cooldownUntil = nil
		st.cooldownTag = ""
		st.dismissed = false
		st.notifiedBlocked = false

	default:
		return Assessment{}, fmt.Errorf("%w: %q", ErrInvalidAction, cmd.Action)
	}

	metrics.Commands.WithLabelValues(cmd.Action).Inc()
	return e.evaluate(subject, st, now), nil
}
