// Package reward implements the reward surfaces: grids of independent slots
// that post fixed credits to the ledger and then lock out for a cooldown.
//
// One Surface engine drives every surface. Immediate surfaces credit on the
// click; delayed surfaces open a link, wait for a confirm click and credit
// after a confirmation delay. A single repeating tick per surface counts
// cooldowns down.
package reward

import (
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/earnbox/earnbox/internal/domain"
	"github.com/earnbox/earnbox/internal/infra/clock"
	"github.com/earnbox/earnbox/internal/infra/observability"
)

// State is the lifecycle position of one slot.
type State string

const (
	StateIdle                State = "idle"
	StatePendingConfirmation State = "pending_confirmation"
	StatePaymentPending      State = "payment_pending"
	StateOnCooldown          State = "on_cooldown"
)

// Slot labels shown outside the idle state.
const (
	LabelConfirm = "Confirm & Earn"
	LabelAdding  = "Adding..."
)

// ActionKind is what a click did.
type ActionKind string

const (
	ActionNone      ActionKind = "none"      // click ignored in the slot's state
	ActionStarted   ActionKind = "started"   // link opened, awaiting confirm
	ActionConfirmed ActionKind = "confirmed" // credit scheduled
	ActionCredited  ActionKind = "credited"  // credit posted, cooldown running
)

// Action is the outcome of a click.
type Action struct {
	Kind    ActionKind `json:"action"`
	Slot    SlotView   `json:"slot"`
	OpenURL string     `json:"open_url,omitempty"`
}

// SlotView is a read-only snapshot of one slot.
type SlotView struct {
	Index             int    `json:"index"`
	State             State  `json:"state"`
	CooldownRemaining int    `json:"cooldown_remaining"`
	Label             string `json:"label"`
	Link              string `json:"link,omitempty"`
	Actionable        bool   `json:"actionable"`
}

// SurfaceView is a read-only snapshot of a whole surface.
type SurfaceView struct {
	Name    string     `json:"name"`
	Title   string     `json:"title"`
	Variant Variant    `json:"variant"`
	Credit  string     `json:"credit"`
	Slots   []SlotView `json:"slots"`
}

type slot struct {
	state    State
	cooldown int         // whole seconds remaining
	payment  clock.Timer // pending credit, Delayed only
	gen      uint64      // bumped on every confirm; stale payment callbacks see a mismatch
}

// Surface is one reward surface. All methods are safe for concurrent use.
//
// The sink is called outside the surface lock, so a slow sink does not stall
// the tick or snapshots. Sink calls are serialized and may block other clicks
// on the same surface; the sink must not call back into the surface.
type Surface struct {
	cfg    Config
	clk    clock.Clock
	sink   domain.EarningSink
	opener domain.LinkOpener

	post     sync.Mutex // held across sink calls; taken before mu
	mu       sync.Mutex
	slots    []slot
	tick     clock.Timer
	closed   bool
	cooldown int
}

// NewSurface validates cfg and starts the surface tick.
func NewSurface(cfg Config, clk clock.Clock, sink domain.EarningSink, opener domain.LinkOpener) (*Surface, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opener == nil {
		opener = LogOpener()
	}
	s := &Surface{
		cfg:      cfg,
		clk:      clk,
		sink:     sink,
		opener:   opener,
		slots:    make([]slot, cfg.Slots),
		cooldown: int(cfg.Cooldown / time.Second),
	}
	for i := range s.slots {
		s.slots[i].state = StateIdle
	}

	s.mu.Lock()
	s.tick = clk.AfterFunc(TickInterval, s.onTick)
	s.mu.Unlock()
	return s, nil
}

// Name returns the surface id.
func (s *Surface) Name() string { return s.cfg.Name }

// Config returns the surface configuration.
func (s *Surface) Config() Config { return s.cfg }

// Click dispatches on the slot's current state the way the single slot
// button does: idle starts, pending_confirmation confirms, anything else is
// ignored.
func (s *Surface) Click(i int) (Action, error) {
	return s.do(i, StateIdle, StatePendingConfirmation)
}

// Start begins the action on an idle slot: it opens the slot link, then
// credits (Immediate) or waits for a confirm click (Delayed).
func (s *Surface) Start(i int) (Action, error) {
	return s.do(i, StateIdle)
}

// Confirm schedules the credit for a slot awaiting confirmation.
func (s *Surface) Confirm(i int) (Action, error) {
	return s.do(i, StatePendingConfirmation)
}

// do runs the transition for slot i if its state is one of allowed. A credit
// produced by the transition reaches the sink after the surface lock is
// released.
func (s *Surface) do(i int, allowed ...State) (Action, error) {
	s.post.Lock()
	defer s.post.Unlock()

	s.mu.Lock()
	if err := s.checkLocked(i); err != nil {
		s.mu.Unlock()
		return Action{}, err
	}
	var (
		act    Action
		credit *domain.Entry
	)
	switch st := s.slots[i].state; {
	case !slices.Contains(allowed, st):
		act = s.noneLocked(i)
	case st == StateIdle:
		act, credit = s.startLocked(i)
	case st == StatePendingConfirmation:
		act = s.confirmLocked(i)
	default:
		act = s.noneLocked(i)
	}
	s.mu.Unlock()

	s.postCredit(credit)
	return act, nil
}

// Slot returns a snapshot of slot i.
func (s *Surface) Slot(i int) (SlotView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.slots) {
		return SlotView{}, fmt.Errorf("%w: %s[%d]", domain.ErrSlotOutOfRange, s.cfg.Name, i)
	}
	return s.viewLocked(i), nil
}

// Snapshot returns the whole surface.
func (s *Surface) Snapshot() SurfaceView {
	s.mu.Lock()
	defer s.mu.Unlock()
	views := make([]SlotView, len(s.slots))
	for i := range s.slots {
		views[i] = s.viewLocked(i)
	}
	return SurfaceView{
		Name:    s.cfg.Name,
		Title:   s.cfg.Title,
		Variant: s.cfg.Variant,
		Credit:  s.cfg.Credit.StringFixed(2),
		Slots:   views,
	}
}

// Close stops the tick and cancels every scheduled credit. No credit is
// posted after Close returns. Close is idempotent.
func (s *Surface) Close() error {
	s.post.Lock()
	defer s.post.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.tick != nil {
		s.tick.Stop()
	}
	cancelled := 0
	for i := range s.slots {
		if t := s.slots[i].payment; t != nil {
			if t.Stop() {
				cancelled++
			}
			s.slots[i].payment = nil
		}
	}
	if cancelled > 0 {
		observability.RewardCreditsCancelled.WithLabelValues(s.cfg.Name).Add(float64(cancelled))
		log.Printf("[reward] %s closed, %d pending credits cancelled", s.cfg.Name, cancelled)
	}
	return nil
}

// ─── Transitions ────────────────────────────────────────────────────────────

func (s *Surface) checkLocked(i int) error {
	if s.closed {
		return fmt.Errorf("%w: %s", domain.ErrSurfaceClosed, s.cfg.Name)
	}
	if i < 0 || i >= len(s.slots) {
		return fmt.Errorf("%w: %s[%d]", domain.ErrSlotOutOfRange, s.cfg.Name, i)
	}
	return nil
}

func (s *Surface) startLocked(i int) (Action, *domain.Entry) {
	url := s.cfg.link(i)
	if url != "" {
		if err := s.opener.Open(url); err != nil {
			log.Printf("[reward] %s[%d]: could not open %s: %v", s.cfg.Name, i, url, err)
		}
	}

	if s.cfg.Variant == Immediate {
		credit := s.creditLocked(i)
		return Action{Kind: ActionCredited, Slot: s.viewLocked(i), OpenURL: url}, &credit
	}

	s.setLocked(i, StatePendingConfirmation)
	return Action{Kind: ActionStarted, Slot: s.viewLocked(i), OpenURL: url}, nil
}

func (s *Surface) confirmLocked(i int) Action {
	s.setLocked(i, StatePaymentPending)

	sl := &s.slots[i]
	sl.gen++
	gen := sl.gen
	sl.payment = s.clk.AfterFunc(s.cfg.ConfirmDelay, func() { s.onPayment(i, gen) })
	return Action{Kind: ActionConfirmed, Slot: s.viewLocked(i)}
}

func (s *Surface) noneLocked(i int) Action {
	return Action{Kind: ActionNone, Slot: s.viewLocked(i)}
}

// creditLocked puts the slot on cooldown and returns the credit to post.
func (s *Surface) creditLocked(i int) domain.Entry {
	credit := domain.Entry{
		Source: s.cfg.Source,
		Amount: s.cfg.Credit,
		Date:   domain.DateOf(s.clk.Now()),
	}
	if s.cooldown == 0 {
		s.setLocked(i, StateIdle)
		return credit
	}
	s.slots[i].cooldown = s.cooldown
	s.setLocked(i, StateOnCooldown)
	return credit
}

// postCredit hands credit to the sink. Callers hold post but not mu.
func (s *Surface) postCredit(credit *domain.Entry) {
	if credit != nil {
		s.sink.Append(*credit)
	}
}

func (s *Surface) setLocked(i int, st State) {
	s.slots[i].state = st
	observability.RewardTransitions.WithLabelValues(s.cfg.Name, string(st)).Inc()
}

func (s *Surface) onPayment(i int, gen uint64) {
	s.post.Lock()
	defer s.post.Unlock()

	s.mu.Lock()
	sl := &s.slots[i]
	if s.closed || sl.gen != gen || sl.state != StatePaymentPending {
		s.mu.Unlock()
		return
	}
	sl.payment = nil
	credit := s.creditLocked(i)
	s.mu.Unlock()

	s.postCredit(&credit)
}

func (s *Surface) onTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for i := range s.slots {
		sl := &s.slots[i]
		if sl.cooldown == 0 {
			continue
		}
		sl.cooldown--
		if sl.cooldown == 0 && sl.state == StateOnCooldown {
			s.setLocked(i, StateIdle)
		}
	}
	s.tick = s.clk.AfterFunc(TickInterval, s.onTick)
}

// ─── Views ──────────────────────────────────────────────────────────────────

func (s *Surface) viewLocked(i int) SlotView {
	sl := s.slots[i]
	v := SlotView{
		Index:             i,
		State:             sl.state,
		CooldownRemaining: sl.cooldown,
		Link:              s.cfg.link(i),
	}
	switch sl.state {
	case StateIdle:
		v.Label = s.cfg.IdleLabel
		v.Actionable = true
	case StatePendingConfirmation:
		v.Label = LabelConfirm
		v.Actionable = true
	case StatePaymentPending:
		v.Label = LabelAdding
	case StateOnCooldown:
		v.Label = fmt.Sprintf("Wait (%ds)", sl.cooldown)
	}
	return v
}
