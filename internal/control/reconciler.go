package control

import (
	"context"
	"log/slog"
	"strings"

	"github.com/five82/presence/internal/backend"
	"github.com/five82/presence/internal/notify"
	"github.com/five82/presence/internal/presence"
	"github.com/five82/presence/internal/state"
)

// DefaultMaxPollFailures is the number of consecutive failed status checks
// after which the backend is treated as unreachable.
const DefaultMaxPollFailures = 5

const notifyTitle = "presence"

// Reconciler applies polled backend status to the session.
type Reconciler struct {
	backend     backend.Backend
	session     *state.Session
	notifier    notify.Notifier
	log         *slog.Logger
	maxFailures int
}

// NewReconciler builds a Reconciler. A nil notifier disables notifications
// and maxFailures <= 0 uses DefaultMaxPollFailures.
func NewReconciler(b backend.Backend, session *state.Session, n notify.Notifier, maxFailures int, logger *slog.Logger) *Reconciler {
	if n == nil {
		n = notify.Noop{}
	}
	if maxFailures <= 0 {
		maxFailures = DefaultMaxPollFailures
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		backend:     b,
		session:     session,
		notifier:    n,
		log:         logger,
		maxFailures: maxFailures,
	}
}

// Poll queries the backend once. The activation flags always follow the
// result; the banner only does while no command is in flight.
func (r *Reconciler) Poll(ctx context.Context) (presence.Status, error) {
	status, err := r.backend.Status(ctx)
	if err != nil {
		failures := r.session.RecordPollFailure(err)
		r.session.PublishBanner(state.OwnerReconciler, warning(msgPollFailed+err.Error()))
		r.log.Debug("status poll failed", "failures", failures, "error", err)
		if failures == r.maxFailures {
			prev := r.session.MarkUnreachable()
			r.log.Warn("backend unreachable", "failures", failures)
			r.transition(prev, presence.StatusError, MsgErrorDefault)
		}
		return "", err
	}

	prev := r.session.ApplyStatus(status)
	if prev != status {
		r.log.Info("presence status changed", "from", prev.String(), "to", status.String())
	}
	if r.session.Busy() {
		r.transition(prev, status, quietText(status))
		return status, nil
	}

	var banner state.Banner
	switch status {
	case presence.StatusActive:
		banner = success(MsgActive)
	case presence.StatusConnecting:
		banner = progress(MsgConnecting)
	case presence.StatusError:
		banner = warning(r.errorText(ctx))
	default:
		banner = neutral(MsgInactive)
	}
	r.session.PublishBanner(state.OwnerReconciler, banner)
	r.transition(prev, status, banner.Text)
	return status, nil
}

// quietText is the notification text used when the banner is owned by a
// command and the backend must not be queried.
func quietText(status presence.Status) string {
	if status == presence.StatusActive {
		return MsgActive
	}
	return MsgErrorDefault
}

func (r *Reconciler) errorText(ctx context.Context) string {
	detail, err := r.backend.LastError(ctx)
	if err != nil {
		r.log.Debug("last error query failed", "error", err)
		return MsgErrorDefault
	}
	if msg, ok := detail.Get(); ok && strings.TrimSpace(msg) != "" {
		return msg
	}
	return MsgErrorDefault
}

// transition notifies when the presence goes live or fails. The first poll
// only establishes the baseline.
func (r *Reconciler) transition(prev, next presence.Status, text string) {
	if prev == "" || prev == next {
		return
	}
	if next != presence.StatusActive && next != presence.StatusError {
		return
	}
	if err := r.notifier.Notify(notifyTitle, text); err != nil {
		r.log.Debug("notification failed", "error", err)
	}
}
