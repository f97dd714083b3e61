// Package scroll keeps a viewport's offset visually stationary while
// asynchronously resolving content keeps growing the layout underneath it.
package scroll

import (
	"log"
)

// Viewport is the numeric surface of whatever renders the gallery. The
// stabilizer only ever reads the offset, forces it, and listens for changes;
// rendering stays on the other side of this interface.
//
// Implementations must deliver notifications asynchronously on the owner
// goroutine: a SetOffset call may enqueue a notification but must never
// invoke subscribers before returning, or the converge loop would recurse.
type Viewport interface {
	// Offset returns the current scroll offset
	Offset() float64
	// SetOffset forces the scroll offset
	SetOffset(offset float64)
	// Subscribe registers fn for offset-change notifications and returns
	// the matching cancel. Cancel must be safe to call more than once.
	Subscribe(fn func(offset float64)) (cancel func())
}

// Options tunes the convergence protocol
type Options struct {
	// SettleThreshold is the number of notifications the settle counter
	// must exceed before an on-target observation detaches. It guards
	// against unsubscribing on the notification the stabilizer's own
	// SetOffset fired. Values below 1 are raised to 1.
	SettleThreshold int
	// MaxAttempts bounds the notifications handled per anchor before the
	// stabilizer gives up and detaches, leaving the offset wherever
	// layout put it. 0 means no bound.
	MaxAttempts int
	// Logger receives a warning when MaxAttempts is exhausted; nil is fine
	Logger *log.Logger
}

// DefaultOptions returns the tuning the shell ships with
func DefaultOptions() Options {
	return Options{
		SettleThreshold: 1,
		MaxAttempts:     120,
	}
}

type phase int

const (
	phaseIdle phase = iota
	phaseConverging
)

// Stabilizer pins a viewport offset across a pagination event. It is a
// two-state machine driven by Engage ("page appended at this anchor") and
// the viewport's offset-change notifications; while converging it forces
// the anchor back after every change until the offset sticks.
//
// All methods, and the notifications feeding them, run on the owner
// goroutine; the stabilizer has no locking of its own.
type Stabilizer struct {
	vp   Viewport
	opts Options

	state    phase
	target   float64
	settles  int
	attempts int
	cancel   func()
}

// NewStabilizer creates a stabilizer over vp
func NewStabilizer(vp Viewport, opts Options) *Stabilizer {
	if opts.SettleThreshold < 1 {
		opts.SettleThreshold = 1
	}
	return &Stabilizer{
		vp:   vp,
		opts: opts,
	}
}

// Engage anchors the viewport to target after a page append. A zero target
// means the user sat at the top and wants new content to flow in naturally,
// so the protocol is skipped entirely. Engaging while a previous anchor is
// still converging re-anchors to the new target and resets the counters,
// keeping the one live subscription.
func (s *Stabilizer) Engage(target float64) {
	if s.vp == nil || target <= 0 {
		return
	}
	s.target = target
	s.settles = 0
	s.attempts = 0
	s.vp.SetOffset(target)
	if s.state == phaseConverging {
		return
	}
	s.state = phaseConverging
	s.cancel = s.vp.Subscribe(s.offsetChanged)
}

// Converging reports whether an anchor is still being held
func (s *Stabilizer) Converging() bool {
	return s.state == phaseConverging
}

// Target returns the offset currently being held, 0 while idle
func (s *Stabilizer) Target() float64 {
	if s.state != phaseConverging {
		return 0
	}
	return s.target
}

// Detach drops the anchor and the subscription. Safe to call while idle and
// safe to call twice; the gallery calls it on close so no listener outlives
// the view collection.
func (s *Stabilizer) Detach() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.state = phaseIdle
	s.settles = 0
	s.attempts = 0
}

// offsetChanged is the converge step: force the anchor back, count the
// settle, and detach once the observed offset has stuck. The settle counter
// must exceed the threshold because the force in the previous step fired one
// of these notifications itself; a single match proves nothing.
func (s *Stabilizer) offsetChanged(observed float64) {
	if s.state != phaseConverging {
		return
	}
	s.attempts++
	if s.opts.MaxAttempts > 0 && s.attempts > s.opts.MaxAttempts {
		if s.opts.Logger != nil {
			s.opts.Logger.Printf("scroll: giving up on anchor %.0f after %d notifications", s.target, s.attempts-1)
		}
		s.Detach()
		return
	}
	s.vp.SetOffset(s.target)
	s.settles++
	if int(observed) == int(s.target) && s.settles > s.opts.SettleThreshold {
		s.Detach()
	}
}
