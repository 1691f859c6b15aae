package scoreboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rachao-basket/scoreboard/models"
)

func startTestController(t *testing.T, source SettingsSource) (*Controller, *stubGateway, *clockwork.FakeClock, context.CancelFunc) {
	t.Helper()
	gw := newStubGateway()
	fc := clockwork.NewFakeClockAt(time.Date(2025, 7, 12, 9, 0, 0, 0, time.UTC))
	c := NewController(gw, source, WithClock(fc))
	c.m.syncBroadcast = true

	ctx, cancel := context.WithCancel(context.Background())
	go c.Run(ctx)

	// Wait for the loop to arm its three tickers before driving time.
	fc.BlockUntil(3)
	return c, gw, fc, cancel
}

func waitForState(t *testing.T, c *Controller, ok func(State) bool) State {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		st, err := c.State()
		if err != nil {
			t.Fatalf("State: %v", err)
		}
		if ok(st) {
			return st
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for state condition")
	return State{}
}

func TestControllerTickDrivesCountdown(t *testing.T) {
	c, _, fc, cancel := startTestController(t, testSettings())
	defer cancel()

	if err := c.StartQuick(); err != nil {
		t.Fatal(err)
	}
	if err := c.Play(); err != nil {
		t.Fatal(err)
	}

	fc.Advance(time.Second)
	st := waitForState(t, c, func(st State) bool { return st.TotalSeconds == 419 })
	if st.Clock != "06:59" {
		t.Errorf("expected clock 06:59, got %s", st.Clock)
	}

	fc.Advance(time.Second)
	waitForState(t, c, func(st State) bool { return st.TotalSeconds == 418 })
}

func TestControllerRaisesPromptWhenClockExpires(t *testing.T) {
	source := &stubSettings{
		settings: models.Settings{QuickDurationSeconds: 3, AlertSeconds: 1, SoundEnabled: false},
		appDate:  "2025-07-12",
	}
	c, _, fc, cancel := startTestController(t, source)
	defer cancel()

	if err := c.StartQuick(); err != nil {
		t.Fatal(err)
	}
	if err := c.Play(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		fc.Advance(time.Second)
		remaining := 3 - (i + 1)
		waitForState(t, c, func(st State) bool { return st.TotalSeconds == remaining })
	}

	st := waitForState(t, c, func(st State) bool { return st.Prompt != nil })
	if st.Prompt.Kind != PromptMatchEnd {
		t.Errorf("expected match-end prompt, got %s", st.Prompt.Kind)
	}
	if st.Running || st.TotalSeconds != 0 {
		t.Errorf("expected a stopped zero clock, got %+v", st)
	}

	// Accepting the 0-0 prompt aborts the match and rolls to the next slot.
	if err := c.ResolvePrompt(true); err != nil {
		t.Fatal(err)
	}
	st = waitForState(t, c, func(st State) bool { return st.Prompt == nil })
	if st.TotalSeconds != 3 {
		t.Errorf("expected a fresh clock, got %d", st.TotalSeconds)
	}
}

func TestControllerStoppedIntentsFail(t *testing.T) {
	c, _, _, cancel := startTestController(t, testSettings())

	cancel()
	<-c.done

	if err := c.Play(); !errors.Is(err, ErrControllerStopped) {
		t.Errorf("expected ErrControllerStopped, got %v", err)
	}
	if _, err := c.State(); !errors.Is(err, ErrControllerStopped) {
		t.Errorf("expected ErrControllerStopped, got %v", err)
	}
}

type blockingLiveGateway struct {
	*stubGateway
	mu      sync.Mutex
	fetches int
	release chan struct{}
}

func (g *blockingLiveGateway) FetchLiveGame(ctx context.Context) (*models.LiveGame, error) {
	g.mu.Lock()
	g.fetches++
	g.mu.Unlock()
	<-g.release
	return nil, nil
}

func (g *blockingLiveGateway) fetchCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fetches
}

func TestControllerSkipsPollWhileOneIsOutstanding(t *testing.T) {
	gw := &blockingLiveGateway{
		stubGateway: newStubGateway(),
		release:     make(chan struct{}),
	}
	fc := clockwork.NewFakeClockAt(time.Date(2025, 7, 12, 9, 0, 0, 0, time.UTC))
	c := NewController(gw, testSettings(), WithClock(fc))
	c.m.syncBroadcast = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)
	fc.BlockUntil(3)

	// Let the first poll tick launch its fetch before driving more time.
	fc.Advance(time.Second)
	deadline := time.Now().Add(2 * time.Second)
	for gw.fetchCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := gw.fetchCount(); got != 1 {
		t.Fatalf("expected the first poll fetch to launch, got %d", got)
	}

	for i := 0; i < 4; i++ {
		fc.Advance(time.Second)
		// State round-trips through the loop, so every poll tick fired so
		// far has been handled before the next advance.
		if _, err := c.State(); err != nil {
			t.Fatal(err)
		}
	}

	if got := gw.fetchCount(); got != 1 {
		t.Fatalf("expected a single outstanding fetch, got %d", got)
	}

	close(gw.release)
}

type countingSounder struct {
	beeps chan struct{}
}

func (s *countingSounder) Beep() {
	select {
	case s.beeps <- struct{}{}:
	default:
	}
}

func TestControllerBeepsInsideAlertWindow(t *testing.T) {
	source := &stubSettings{
		settings: models.Settings{QuickDurationSeconds: 5, AlertSeconds: 5, SoundEnabled: true},
		appDate:  "2025-07-12",
	}
	gw := newStubGateway()
	fc := clockwork.NewFakeClockAt(time.Date(2025, 7, 12, 9, 0, 0, 0, time.UTC))
	sounder := &countingSounder{beeps: make(chan struct{}, 16)}
	c := NewController(gw, source, WithClock(fc), WithSounder(sounder))
	c.m.syncBroadcast = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)
	fc.BlockUntil(3)

	if err := c.StartQuick(); err != nil {
		t.Fatal(err)
	}
	if err := c.Play(); err != nil {
		t.Fatal(err)
	}

	fc.Advance(time.Second)
	waitForState(t, c, func(st State) bool { return st.TotalSeconds == 4 })

	select {
	case <-sounder.beeps:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a beep inside the alert window")
	}
}
