package scoreboard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rachao-basket/scoreboard/models"
)

const (
	tickInterval = time.Second
	pollInterval = time.Second
	beepInterval = 900 * time.Millisecond
)

var ErrControllerStopped = errors.New("scoreboard controller is stopped")

// Controller owns the machine and runs it on a single event loop: user
// intents, the countdown tick, the live poll and the beep cadence are all
// serialized onto one goroutine, so the machine needs no locks. Timer-driven
// side effects (onTimerEnd) are posted as queued events and processed after
// the tick that produced them completes.
type Controller struct {
	m      *machine
	clock  clockwork.Clock
	logger *slog.Logger

	cmds      chan func(context.Context)
	timerEnds chan struct{}
	done      chan struct{}

	// pollBusy is loop-owned: set when a poll goroutine is launched, cleared
	// by its completion command. A stalled gateway skips ticks instead of
	// stacking one poller per second.
	pollBusy bool
}

type Option func(*Controller)

// WithClock injects a clock; tests pass a clockwork fake to drive time.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.m.notifier = n }
}

func WithSounder(s Sounder) Option {
	return func(c *Controller) { c.m.sounder = s }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
		c.m.logger = logger
	}
}

// AsObserver makes this instance a read-only mirror: it applies accepted
// snapshots instead of broadcasting its own.
func AsObserver() Option {
	return func(c *Controller) { c.m.authoritative = false }
}

func NewController(gateway Gateway, source SettingsSource, opts ...Option) *Controller {
	c := &Controller{
		clock:     clockwork.NewRealClock(),
		logger:    slog.Default(),
		cmds:      make(chan func(context.Context), 16),
		timerEnds: make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	c.m = newMachine(gateway, source, c.logger, nil)
	for _, opt := range opts {
		opt(c)
	}
	c.m.now = c.clock.Now
	return c
}

// Run drives the event loop until ctx is cancelled. All tickers are stopped
// on exit; nothing fires after the loop is gone.
func (c *Controller) Run(ctx context.Context) {
	tick := c.clock.NewTicker(tickInterval)
	defer tick.Stop()
	poll := c.clock.NewTicker(pollInterval)
	defer poll.Stop()
	beep := c.clock.NewTicker(beepInterval)
	defer beep.Stop()

	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.timerEnds:
			c.m.onTimerEnd()
		case fn := <-c.cmds:
			fn(ctx)
		case <-tick.Chan():
			if ended := c.m.tick(ctx); ended {
				select {
				case c.timerEnds <- struct{}{}:
				default:
				}
			}
		case <-poll.Chan():
			if !c.pollBusy {
				c.pollBusy = true
				go c.pollLive(ctx)
			}
		case <-beep.Chan():
			if c.m.sounder != nil && c.m.beepActive() {
				c.m.sounder.Beep()
			}
		}
	}
}

// pollLive fetches the shared snapshot off the loop and posts the result back
// as a command, so slow reads never stall the clock. The completion command
// always runs so pollBusy is released even when the fetch fails.
func (c *Controller) pollLive(ctx context.Context) {
	live, err := c.m.gateway.FetchLiveGame(ctx)
	c.submit(func(cmdCtx context.Context) {
		c.pollBusy = false
		if err != nil {
			return
		}
		c.m.ingestLive(cmdCtx, live)
	})
}

func (c *Controller) submit(fn func(context.Context)) {
	select {
	case c.cmds <- fn:
	case <-c.done:
	}
}

// do runs fn on the loop and waits for it, returning its error.
func (c *Controller) do(fn func(ctx context.Context) error) error {
	res := make(chan error, 1)
	select {
	case c.cmds <- func(ctx context.Context) { res <- fn(ctx) }:
	case <-c.done:
		return ErrControllerStopped
	}
	select {
	case err := <-res:
		return err
	case <-c.done:
		return ErrControllerStopped
	}
}

func (c *Controller) StartQuick() error {
	return c.do(func(ctx context.Context) error {
		c.m.startQuick(ctx)
		return nil
	})
}

func (c *Controller) StartTournament(match *models.Match) error {
	if match == nil {
		return errors.New("match is required")
	}
	return c.do(func(ctx context.Context) error {
		c.m.startTournament(ctx, match)
		return nil
	})
}

func (c *Controller) Play() error {
	return c.do(func(ctx context.Context) error {
		c.m.play(ctx)
		return nil
	})
}

func (c *Controller) Pause() error {
	return c.do(func(ctx context.Context) error {
		c.m.pause(ctx)
		return nil
	})
}

func (c *Controller) AddPoint(side models.TeamSide, delta int) error {
	return c.do(func(ctx context.Context) error {
		c.m.addPoint(ctx, side, delta)
		return nil
	})
}

func (c *Controller) ResetTimer() error {
	return c.do(func(ctx context.Context) error {
		c.m.resetTimer(ctx)
		return nil
	})
}

// Finish ends the active match (the operator's ENCERRAR PARTIDA button).
func (c *Controller) Finish() error {
	return c.do(func(ctx context.Context) error {
		return c.m.finish(ctx)
	})
}

// ResolvePrompt answers the pending timer-end prompt.
func (c *Controller) ResolvePrompt(accept bool) error {
	return c.do(func(ctx context.Context) error {
		return c.m.resolvePrompt(ctx, accept)
	})
}

func (c *Controller) SetTeamNames(teamA, teamB string) error {
	return c.do(func(ctx context.Context) error {
		c.m.setTeamNames(ctx, teamA, teamB)
		return nil
	})
}

func (c *Controller) ClearAlert() error {
	return c.do(func(ctx context.Context) error {
		c.m.clearAlert()
		return nil
	})
}

// State returns a point-in-time snapshot for the presentation layer.
func (c *Controller) State() (State, error) {
	var snap State
	err := c.do(func(ctx context.Context) error {
		snap = c.m.state()
		return nil
	})
	return snap, err
}
