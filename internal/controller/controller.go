// Package controller owns the search and per-card analysis state machines.
// All transitions happen under one mutex and every logical slot (the search,
// each lead card) carries a monotonic sequence token: a response arriving
// for a superseded sequence is discarded, so the final visible state always
// reflects the newest request.
package controller

import (
	"context"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadgenius/prospect-cli/internal/model"
	"github.com/leadgenius/prospect-cli/internal/prospect"
)

// SearchState is the state of the search slot.
type SearchState string

const (
	StateIdle      SearchState = "idle"
	StateSearching SearchState = "searching"
	StateResults   SearchState = "results"
	StateFailed    SearchState = "failed"
)

// CardState is the state of one lead card's analysis slot.
type CardState string

const (
	CardNoStrategy  CardState = "no_strategy"
	CardAnalyzing   CardState = "analyzing"
	CardHasStrategy CardState = "has_strategy"
)

// FailedSearchMessage is the fixed user-facing banner shown on prospecting
// failure. The underlying error is logged, never displayed.
const FailedSearchMessage = "Ocorreu um erro ao buscar leads. Verifique sua conexão ou tente novamente mais tarde."

// ErrUnknownLead is returned when a card operation names a lead that is not
// part of the live batch.
var ErrUnknownLead = eris.New("controller: unknown lead id")

// Prospector runs a prospecting search.
type Prospector interface {
	Prospect(ctx context.Context, params model.SearchParams) (*prospect.Result, error)
}

// Analyzer produces an outreach strategy for a lead. It never fails.
type Analyzer interface {
	Analyze(ctx context.Context, lead model.Lead) string
}

// Card is the ephemeral presentation state of one lead card. It is not part
// of the Lead entity and lives only as long as the batch that produced it.
type Card struct {
	State    CardState `json:"state"`
	Strategy string    `json:"strategy,omitempty"`
}

// Snapshot is an immutable copy of the controller state for rendering.
type Snapshot struct {
	State        SearchState             `json:"state"`
	Params       model.SearchParams      `json:"params"`
	Leads        []model.Lead            `json:"leads"`
	Sources      []model.GroundingSource `json:"sources"`
	ErrorMessage string                  `json:"error_message,omitempty"`
	Cards        map[string]Card         `json:"cards"`
}

type cardSlot struct {
	state    CardState
	strategy string
	seq      uint64
}

// Controller orchestrates the prospecting and outreach clients and owns all
// UI-facing state.
type Controller struct {
	prospector Prospector
	analyzer   Analyzer

	mu        sync.Mutex
	state     SearchState
	params    model.SearchParams
	leads     []model.Lead
	sources   []model.GroundingSource
	errMsg    string
	cards     map[string]*cardSlot
	searchSeq uint64
	subs      []func(Snapshot)
}

// New creates a Controller in the Idle state.
func New(p Prospector, a Analyzer) *Controller {
	return &Controller{
		prospector: p,
		analyzer:   a,
		state:      StateIdle,
		cards:      map[string]*cardSlot{},
	}
}

// Subscribe registers a callback invoked with a fresh snapshot after every
// state transition. Intended for the rendering layer. Callbacks run with the
// controller lock held and must not call back into the controller.
func (c *Controller) Subscribe(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:        c.state,
		Params:       c.params,
		Leads:        append([]model.Lead(nil), c.leads...),
		Sources:      append([]model.GroundingSource(nil), c.sources...),
		ErrorMessage: c.errMsg,
		Cards:        make(map[string]Card, len(c.cards)),
	}
	for id, slot := range c.cards {
		snap.Cards[id] = Card{State: slot.state, Strategy: slot.strategy}
	}
	return snap
}

func (c *Controller) notifyLocked() {
	snap := c.snapshotLocked()
	for _, fn := range c.subs {
		fn(snap)
	}
}

// Search runs one prospecting search. An empty niche is silently dropped:
// no transition, no network call, and the returned bool is false. Otherwise
// the search slot moves to Searching and, once the newest in-flight request
// resolves, to exactly one of Results or Failed. The previous batch stays
// visible while Searching but is replaced wholesale, never merged.
func (c *Controller) Search(ctx context.Context, params model.SearchParams) (Snapshot, bool) {
	if strings.TrimSpace(params.Niche) == "" {
		return c.Snapshot(), false
	}

	c.mu.Lock()
	c.searchSeq++
	seq := c.searchSeq
	c.state = StateSearching
	c.params = params
	c.errMsg = ""
	c.notifyLocked()
	c.mu.Unlock()

	res, err := c.prospector.Prospect(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.searchSeq {
		// A newer search started while this one was in flight.
		zap.L().Debug("discarding superseded search result",
			zap.Uint64("seq", seq),
			zap.Uint64("current", c.searchSeq),
		)
		return c.snapshotLocked(), true
	}

	if err != nil {
		zap.L().Error("prospect search failed",
			zap.String("niche", params.Niche),
			zap.String("location", params.Location),
			zap.Error(err),
		)
		c.state = StateFailed
		c.leads = []model.Lead{}
		c.sources = []model.GroundingSource{}
		c.cards = map[string]*cardSlot{}
		c.errMsg = FailedSearchMessage
		c.notifyLocked()
		return c.snapshotLocked(), true
	}

	// Leads and sources are replaced together, atomically. Card slots are
	// scoped to the batch, so a new batch gets a fresh set.
	c.state = StateResults
	c.leads = res.Leads
	c.sources = res.Sources
	c.cards = make(map[string]*cardSlot, len(res.Leads))
	for _, lead := range res.Leads {
		c.cards[lead.ID] = &cardSlot{state: CardNoStrategy}
	}
	c.notifyLocked()
	return c.snapshotLocked(), true
}

// Analyze requests an outreach strategy for one lead. Analysis on different
// leads is fully independent; re-analysis of the same lead discards the old
// strategy text immediately and supersedes any in-flight request for that
// card. The outreach client never fails, so the card always lands in
// HasStrategy with non-empty text.
func (c *Controller) Analyze(ctx context.Context, leadID string) (Card, error) {
	c.mu.Lock()
	slot, ok := c.cards[leadID]
	if !ok {
		c.mu.Unlock()
		return Card{}, ErrUnknownLead
	}
	var lead model.Lead
	for _, l := range c.leads {
		if l.ID == leadID {
			lead = l
			break
		}
	}
	slot.seq++
	seq := slot.seq
	slot.state = CardAnalyzing
	slot.strategy = ""
	c.notifyLocked()
	c.mu.Unlock()

	text := c.analyzer.Analyze(ctx, lead)

	c.mu.Lock()
	defer c.mu.Unlock()

	// The batch may have been replaced, or a newer analysis/dismissal may
	// have superseded this one. Either way the result is dropped.
	current, ok := c.cards[leadID]
	if !ok || current != slot || seq != slot.seq {
		if cur, stillThere := c.cards[leadID]; stillThere {
			return Card{State: cur.state, Strategy: cur.strategy}, nil
		}
		return Card{}, ErrUnknownLead
	}

	slot.state = CardHasStrategy
	slot.strategy = text
	c.notifyLocked()
	return Card{State: slot.state, Strategy: slot.strategy}, nil
}

// Dismiss clears a card's strategy, returning it to NoStrategy. Dismissing
// while an analysis is in flight also supersedes that request.
func (c *Controller) Dismiss(leadID string) (Card, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	slot, ok := c.cards[leadID]
	if !ok {
		return Card{}, ErrUnknownLead
	}
	slot.seq++
	slot.state = CardNoStrategy
	slot.strategy = ""
	c.notifyLocked()
	return Card{State: slot.state}, nil
}

// Card returns the current state of one lead card.
func (c *Controller) Card(leadID string) (Card, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	slot, ok := c.cards[leadID]
	if !ok {
		return Card{}, ErrUnknownLead
	}
	return Card{State: slot.state, Strategy: slot.strategy}, nil
}
