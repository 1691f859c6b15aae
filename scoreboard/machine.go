package scoreboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rachao-basket/scoreboard/models"
	"github.com/rachao-basket/scoreboard/repositories"
	"github.com/rachao-basket/scoreboard/utils"
)

// Fixed side names of a quick match. Tournament matches carry their own.
const (
	quickTeamA = "COM COLETE"
	quickTeamB = "SEM COLETE"
)

// broadcastCooldown suppresses live writes right after a remote reset so the
// pre-reset state is not immediately re-announced by an in-flight tick (the
// write/read race would otherwise bounce the reset back).
const broadcastCooldown = time.Second

// machine is the authoritative game state. It is not goroutine-safe: every
// method runs on the controller's event loop. Persistence writes that are
// advisory (live snapshots) are swallowed on failure; critical writes
// (creating/finishing a match) surface their error to the caller.
type machine struct {
	gateway  Gateway
	source   SettingsSource
	notifier Notifier
	sounder  Sounder
	logger   *slog.Logger
	now      func() time.Time

	// authoritative is false on read-only mirror instances, which apply
	// incoming snapshots instead of producing them.
	authoritative bool
	// syncBroadcast forces live upserts to run inline (deterministic tests).
	syncBroadcast bool

	mode        models.MatchMode
	matchID     *int
	current     *models.Match
	quarterIdx  int
	durationSec int
	totalSec    int
	running     bool
	finalAdjust bool

	teamAName string
	teamBName string
	scoreA    int
	scoreB    int
	basketsA  Baskets
	basketsB  Baskets
	quickNo   int

	prompt *Prompt
	alert  string

	lastLiveAt    time.Time
	lastResetAt   time.Time
	suppressUntil time.Time
}

func newMachine(gateway Gateway, source SettingsSource, logger *slog.Logger, now func() time.Time) *machine {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	m := &machine{
		gateway:       gateway,
		source:        source,
		logger:        logger,
		now:           now,
		authoritative: true,
		mode:          models.ModeQuick,
		teamAName:     quickTeamA,
		teamBName:     quickTeamB,
		quickNo:       1,
	}
	duration := source.Settings().QuickDurationSeconds
	m.durationSec = duration
	m.totalSec = duration
	return m
}

func (m *machine) dateISO() string {
	if d := m.source.AppDate(); d != "" {
		return d
	}
	return utils.TodayISO()
}

func (m *machine) suppressed() bool {
	return m.now().Before(m.suppressUntil)
}

// tick decrements the countdown by one second. Returns true exactly when the
// clock reaches zero, so the caller can queue onTimerEnd after the current
// transition completes.
func (m *machine) tick(ctx context.Context) bool {
	if !m.running || m.totalSec <= 0 {
		return false
	}
	m.totalSec--
	if m.totalSec == 0 {
		m.running = false
		// Remote screens must not keep showing a running 00:01 while the
		// operator sits on the prompt.
		m.pushLive(ctx, models.LivePaused)
		return true
	}
	m.pushLive(ctx, models.LiveRunning)
	return false
}

// beepActive reports whether the audible alert window is open.
func (m *machine) beepActive() bool {
	s := m.source.Settings()
	return m.running && s.SoundEnabled && m.totalSec > 0 && m.totalSec <= s.AlertSeconds
}

func (m *machine) resetCounters() {
	m.scoreA = 0
	m.scoreB = 0
	m.basketsA = Baskets{}
	m.basketsB = Baskets{}
}

// refreshQuickNumber resolves the sequence number of the current quick match:
// an already pending match keeps its number, otherwise the day's next one.
// Falls back to 1 when the gateway is unreachable.
func (m *machine) refreshQuickNumber(ctx context.Context) int {
	pending, err := m.gateway.FindLatestPendingQuick(ctx, m.dateISO())
	if err == nil && pending != nil && pending.MatchNumber != nil {
		m.quickNo = *pending.MatchNumber
		return m.quickNo
	}
	next, err := m.gateway.FetchNextMatchNumber(ctx, m.dateISO(), models.ModeQuick)
	if err != nil {
		m.quickNo = 1
		return 1
	}
	m.quickNo = next
	return next
}

// ensureQuickMatch lazily creates (or adopts) the backing pending match row
// for the current quick game. Best-effort: the scoreboard keeps working when
// this fails; the row is created again on finish.
func (m *machine) ensureQuickMatch(ctx context.Context, desiredNo int) {
	if m.suppressed() || m.matchID != nil {
		return
	}
	targetNo := desiredNo
	if targetNo == 0 {
		targetNo = m.quickNo
	}

	if existing, err := m.gateway.FindPendingQuickMatch(ctx, m.dateISO(), targetNo); err == nil && existing != nil {
		m.adoptMatch(existing)
		return
	}

	if latest, err := m.gateway.FindLatestPendingQuick(ctx, m.dateISO()); err == nil && latest != nil {
		if err := m.gateway.UpdateMatch(ctx, latest.ID, repositories.MatchUpdate{MatchNumber: &targetNo}); err == nil {
			latest.MatchNumber = &targetNo
			m.adoptMatch(latest)
			return
		}
	}

	nextNo := desiredNo
	if nextNo == 0 {
		n, err := m.gateway.FetchNextMatchNumber(ctx, m.dateISO(), models.ModeQuick)
		if err != nil {
			return
		}
		nextNo = n
	}
	match := &models.Match{
		DateISO:     m.dateISO(),
		Mode:        models.ModeQuick,
		TeamAName:   quickTeamA,
		TeamBName:   quickTeamB,
		Quarters:    1,
		Durations:   []int64{int64(m.source.Settings().QuickDurationSeconds)},
		Status:      models.MatchStatusPending,
		MatchNumber: &nextNo,
	}
	if err := m.gateway.CreateMatch(ctx, match); err != nil {
		m.logger.Debug("quick match create failed", slog.Any("error", err))
		return
	}
	m.quickNo = nextNo
	m.adoptMatch(match)
	if m.running {
		m.pushLive(ctx, models.LiveRunning)
	} else {
		m.pushLive(ctx, models.LivePaused)
	}
}

func (m *machine) adoptMatch(match *models.Match) {
	id := match.ID
	m.matchID = &id
	m.current = match
	if match.MatchNumber != nil {
		m.quickNo = *match.MatchNumber
	}
}

// startQuick resets the aggregate to quick-mode defaults. The backing match
// row stays unpersisted until the game is first played.
func (m *machine) startQuick(ctx context.Context) {
	m.mode = models.ModeQuick
	m.matchID = nil
	m.current = nil
	m.quarterIdx = 0
	m.teamAName = quickTeamA
	m.teamBName = quickTeamB
	m.resetCounters()
	duration := m.source.Settings().QuickDurationSeconds
	m.durationSec = duration
	m.totalSec = duration
	m.finalAdjust = false
	m.running = false
	m.prompt = nil
	m.suppressUntil = time.Time{}
	nextNo := m.refreshQuickNumber(ctx)
	m.ensureQuickMatch(ctx, nextNo)
}

// startTournament loads a pre-scheduled match and broadcasts a paused
// snapshot so observers switch over before the first play.
func (m *machine) startTournament(ctx context.Context, match *models.Match) {
	m.mode = models.ModeTournament
	m.adoptMatch(match)
	m.quarterIdx = 0
	m.teamAName = match.TeamAName
	m.teamBName = match.TeamBName
	m.resetCounters()
	m.durationSec = m.quarterDuration(match, 0)
	m.totalSec = m.durationSec
	m.finalAdjust = false
	m.running = false
	m.prompt = nil
	m.suppressUntil = time.Time{}
	m.pushLive(ctx, models.LivePaused)
}

func (m *machine) quarterDuration(match *models.Match, index int) int {
	if match != nil && index < len(match.Durations) && match.Durations[index] > 0 {
		return int(match.Durations[index])
	}
	return m.source.Settings().QuickDurationSeconds
}

// play starts the countdown. Rejected when the clock sits at zero inside the
// final adjustment window: that quarter/match is genuinely over.
func (m *machine) play(ctx context.Context) {
	if m.totalSec == 0 && m.finalAdjust {
		return
	}
	m.suppressUntil = time.Time{}
	m.finalAdjust = false
	if m.running {
		return
	}
	m.running = true
	if m.mode == models.ModeQuick {
		m.ensureQuickMatch(ctx, 0)
	}
	m.pushLive(ctx, models.LiveRunning)
}

func (m *machine) pause(ctx context.Context) {
	if m.suppressed() {
		return
	}
	if !m.running {
		return
	}
	m.running = false
	m.pushLive(ctx, models.LivePaused)
}

// addPoint applies a basket to one team. Allowed only while the clock runs or
// the final adjustment window is open; otherwise a silent no-op. Undo (-1)
// removes the largest denomination first since no true entry history is kept.
func (m *machine) addPoint(ctx context.Context, side models.TeamSide, delta int) {
	if !m.running && !m.finalAdjust {
		return
	}
	if m.suppressed() {
		return
	}
	switch delta {
	case 1, 2, 3, -1:
	default:
		return
	}
	if m.mode == models.ModeQuick {
		m.ensureQuickMatch(ctx, 0)
	}

	score, baskets := &m.scoreA, &m.basketsA
	if side == models.SideB {
		score, baskets = &m.scoreB, &m.basketsB
	}

	switch delta {
	case 1:
		baskets.One++
	case 2:
		baskets.Two++
	case 3:
		baskets.Three++
	case -1:
		switch {
		case baskets.Three > 0:
			baskets.Three--
		case baskets.Two > 0:
			baskets.Two--
		case baskets.One > 0:
			baskets.One--
		}
	}
	next := *score + delta
	if next < 0 {
		next = 0
	}
	*score = next

	status := models.LivePaused
	if m.running {
		status = models.LiveRunning
	}
	m.pushLive(ctx, status)
}

// onTimerEnd raises the operator prompt for the expired clock. Runs as a
// queued event after the zeroing tick, never inside it.
func (m *machine) onTimerEnd() {
	if m.mode == models.ModeTournament {
		m.prompt = &Prompt{
			Kind:    PromptQuarterEnd,
			Message: fmt.Sprintf("Tempo encerrado! Encerrar o Quarter %d?", m.quarterIdx+1),
		}
		return
	}
	m.prompt = &Prompt{
		Kind:    PromptMatchEnd,
		Message: "Tempo encerrado! Deseja encerrar a partida?",
	}
}

// resolvePrompt answers the pending timer-end prompt. Declining opens the
// final adjustment window: scores stay editable, the clock stays at zero, and
// play() is rejected until the match/quarter is formally ended.
func (m *machine) resolvePrompt(ctx context.Context, accept bool) error {
	if m.prompt == nil {
		return nil
	}
	kind := m.prompt.Kind
	m.prompt = nil

	if accept {
		if kind == PromptQuarterEnd {
			return m.advanceQuarterOrFinish(ctx)
		}
		return m.finishQuick(ctx)
	}

	m.finalAdjust = true
	if kind == PromptQuarterEnd {
		m.alert = "Quarter ficou em 00:00. Ajuste o placar se precisar e depois continue."
	} else {
		m.alert = "Cronômetro ficou em 00:00. Ajuste o placar se precisar e clique em ENCERRAR PARTIDA."
		m.pushLive(ctx, models.LivePaused)
	}
	return nil
}

// advanceQuarterOrFinish closes the current quarter: either rolls the clock
// into the next one (score untouched) or, on the last quarter, finishes the
// tournament match.
func (m *machine) advanceQuarterOrFinish(ctx context.Context) error {
	match := m.current
	if match == nil {
		return nil
	}
	if m.quarterIdx >= match.Quarters-1 {
		return m.finishTournament(ctx, true)
	}
	m.quarterIdx++
	m.durationSec = m.quarterDuration(match, m.quarterIdx)
	m.totalSec = m.durationSec
	m.finalAdjust = false
	m.pushLive(ctx, models.LivePaused)
	return nil
}

// finishQuick ends the quick match. A 0-0 game is an aborted no-op: its rows
// are deleted instead of recorded. Otherwise the match is marked done and the
// result sheet upserted. Either way the next quick slot is prepared.
func (m *machine) finishQuick(ctx context.Context) error {
	if m.scoreA == 0 && m.scoreB == 0 {
		if m.matchID != nil {
			if err := m.gateway.DeleteMatch(ctx, *m.matchID); err != nil {
				m.fail("Erro ao remover partida 0x0.", err)
				return err
			}
		}
		if err := m.gateway.DeletePendingQuickMatch(ctx, m.dateISO(), m.quickNo); err != nil {
			m.logger.Debug("pending quick cleanup failed", slog.Any("error", err))
		}
		m.pushEnded(ctx)
		m.prepareNextQuick(ctx)
		return nil
	}

	if err := m.saveQuickMatch(ctx); err != nil {
		m.fail("Erro ao salvar partida rápida.", err)
		return err
	}
	m.alert = "Partida (rápida) salva!"
	m.pushEnded(ctx)
	m.prepareNextQuick(ctx)
	return nil
}

func (m *machine) saveQuickMatch(ctx context.Context) error {
	if m.matchID == nil {
		done := models.MatchStatusDone
		no := m.quickNo
		match := &models.Match{
			DateISO:     m.dateISO(),
			Mode:        models.ModeQuick,
			TeamAName:   quickTeamA,
			TeamBName:   quickTeamB,
			Quarters:    1,
			Durations:   []int64{int64(m.source.Settings().QuickDurationSeconds)},
			Status:      done,
			MatchNumber: &no,
		}
		if err := m.gateway.CreateMatch(ctx, match); err != nil {
			return err
		}
		m.adoptMatch(match)
	} else {
		done := models.MatchStatusDone
		no := m.quickNo
		if err := m.gateway.UpdateMatch(ctx, *m.matchID, repositories.MatchUpdate{Status: &done, MatchNumber: &no}); err != nil {
			return err
		}
	}
	return m.gateway.UpsertMatchResult(ctx, m.buildResult(*m.matchID))
}

// buildResult aggregates both teams' baskets per denomination into the final
// sheet.
func (m *machine) buildResult(matchID int) *models.MatchResult {
	return &models.MatchResult{
		MatchID:    matchID,
		ScoreA:     m.scoreA,
		ScoreB:     m.scoreB,
		Baskets1:   m.basketsA.One + m.basketsB.One,
		Baskets2:   m.basketsA.Two + m.basketsB.Two,
		Baskets3:   m.basketsA.Three + m.basketsB.Three,
		FinishedAt: m.now(),
	}
}

// prepareNextQuick rolls the scoreboard forward to the next quick slot.
func (m *machine) prepareNextQuick(ctx context.Context) {
	m.finalAdjust = false
	m.running = false
	duration := m.source.Settings().QuickDurationSeconds
	m.durationSec = duration
	m.totalSec = duration
	m.resetCounters()
	nextNo := m.refreshQuickNumber(ctx)
	m.matchID = nil
	m.current = nil
	m.teamAName = quickTeamA
	m.teamBName = quickTeamB
	m.quickNo = nextNo
	m.pushLive(ctx, models.LivePaused)
}

// finishTournament ends the loaded tournament match. silent suppresses the
// confirmation toast (used when the last quarter rolls over automatically).
func (m *machine) finishTournament(ctx context.Context, silent bool) error {
	match := m.current
	if match == nil {
		return nil
	}

	if m.scoreA == 0 && m.scoreB == 0 {
		if err := m.gateway.DeleteMatch(ctx, match.ID); err != nil {
			m.fail("Erro ao remover partida 0x0.", err)
			return err
		}
		m.matchID = nil
		m.pushEnded(ctx)
		if !silent {
			m.alert = "Partida 0x0 removida."
		}
		return nil
	}

	done := models.MatchStatusDone
	if err := m.gateway.UpdateMatch(ctx, match.ID, repositories.MatchUpdate{Status: &done}); err != nil {
		m.fail("Erro ao salvar partida do torneio.", err)
		return err
	}
	if err := m.gateway.UpsertMatchResult(ctx, m.buildResult(match.ID)); err != nil {
		m.fail("Erro ao salvar partida do torneio.", err)
		return err
	}
	m.pushEnded(ctx)
	if !silent {
		m.alert = "Partida salva no Torneio!"
	}
	return nil
}

// finish dispatches the operator's end-match intent by mode.
func (m *machine) finish(ctx context.Context) error {
	if m.mode == models.ModeTournament {
		return m.finishTournament(ctx, false)
	}
	return m.finishQuick(ctx)
}

// resetTimer rewinds the clock to the full quarter duration. Score untouched.
func (m *machine) resetTimer(ctx context.Context) {
	m.running = false
	m.finalAdjust = false
	m.totalSec = m.durationSec
	m.pushLive(ctx, models.LivePaused)
}

func (m *machine) setTeamNames(ctx context.Context, teamA, teamB string) {
	if teamA != "" {
		m.teamAName = teamA
	}
	if teamB != "" {
		m.teamBName = teamB
	}
	status := models.LivePaused
	if m.running {
		status = models.LiveRunning
	}
	m.pushLive(ctx, status)
}

func (m *machine) clearAlert() {
	m.alert = ""
}

func (m *machine) fail(message string, err error) {
	m.alert = message
	m.logger.Error("scoreboard persistence failure", slog.Any("error", err))
}

// ingestLive processes one polled snapshot. Acceptance is monotonic on
// UpdatedAt so retries and clock skew never roll state backward. The
// authoritative scorer only consumes the reset marker; mirrors overwrite
// their display state.
func (m *machine) ingestLive(ctx context.Context, live *models.LiveGame) {
	if live == nil {
		return
	}
	if !live.UpdatedAt.After(m.lastLiveAt) {
		return
	}
	m.lastLiveAt = live.UpdatedAt

	if live.ResetAt != nil && live.ResetAt.After(m.lastResetAt) {
		m.lastResetAt = *live.ResetAt
		m.applyRemoteReset()
		return
	}

	// The row keeps its last reset_at forever; a marker that is not newer
	// than the last one seen is already consumed, so mirrors keep mirroring.
	if !m.authoritative {
		m.applySnapshot(live)
	}
}

// applyRemoteReset forces the whole aggregate back to quick-mode defaults and
// opens the broadcast cooldown window.
func (m *machine) applyRemoteReset() {
	m.running = false
	m.finalAdjust = false
	m.prompt = nil
	m.mode = models.ModeQuick
	m.quarterIdx = 0
	m.teamAName = quickTeamA
	m.teamBName = quickTeamB
	m.resetCounters()
	duration := m.source.Settings().QuickDurationSeconds
	m.durationSec = duration
	m.totalSec = duration
	m.matchID = nil
	m.current = nil
	m.quickNo = 1
	m.suppressUntil = m.now().Add(broadcastCooldown)
}

// applySnapshot overwrites the display fields from an accepted remote
// snapshot. Read path only: it never triggers persistence.
func (m *machine) applySnapshot(live *models.LiveGame) {
	m.mode = live.Mode
	if m.mode == "" {
		m.mode = models.ModeQuick
	}
	if live.Quarter > 0 {
		m.quarterIdx = live.Quarter - 1
	} else {
		m.quarterIdx = 0
	}
	m.teamAName = live.TeamA
	m.teamBName = live.TeamB
	if m.teamAName == "" {
		m.teamAName = quickTeamA
	}
	if m.teamBName == "" {
		m.teamBName = quickTeamB
	}
	m.scoreA = live.ScoreA
	m.scoreB = live.ScoreB
	m.totalSec = live.TimeLeft
	m.durationSec = live.TimeLeft
	m.matchID = live.MatchID
	if live.MatchNumber != nil {
		m.quickNo = *live.MatchNumber
	}
	m.finalAdjust = false
	m.running = live.Status == models.LiveRunning
}

func (m *machine) snapshot(status models.LiveStatus) models.LiveGame {
	timeLeft := m.totalSec
	if status == models.LiveEnded {
		timeLeft = 0
	}
	var matchNo *int
	if m.mode == models.ModeQuick {
		no := m.quickNo
		matchNo = &no
	} else if m.current != nil {
		matchNo = m.current.MatchNumber
	}
	return models.LiveGame{
		ID:          models.LiveGameID,
		Status:      status,
		Mode:        m.mode,
		MatchID:     m.matchID,
		MatchNumber: matchNo,
		Quarter:     m.quarterIdx + 1,
		TimeLeft:    timeLeft,
		TeamA:       m.teamAName,
		TeamB:       m.teamBName,
		ScoreA:      m.scoreA,
		ScoreB:      m.scoreB,
		UpdatedAt:   m.now(),
	}
}

// pushLive broadcasts the current state: to the notifier (websocket hub) and,
// best-effort, to the shared live row. Failures are swallowed; this is a
// liveness broadcast, not a source of truth.
func (m *machine) pushLive(ctx context.Context, status models.LiveStatus) {
	if !m.authoritative || m.suppressed() {
		return
	}
	live := m.snapshot(status)
	if m.notifier != nil {
		m.notifier.LiveUpdated(live)
	}
	if m.syncBroadcast {
		if err := m.gateway.UpsertLiveGame(ctx, live); err != nil {
			m.logger.Debug("live broadcast failed", slog.Any("error", err))
		}
		return
	}
	go func() {
		if err := m.gateway.UpsertLiveGame(context.WithoutCancel(ctx), live); err != nil {
			m.logger.Debug("live broadcast failed", slog.Any("error", err))
		}
	}()
}

func (m *machine) pushEnded(ctx context.Context) {
	m.pushLive(ctx, models.LiveEnded)
}

// state renders the read-only snapshot served to screens.
func (m *machine) state() State {
	quarters := 1
	if m.current != nil && m.current.Quarters > 0 {
		quarters = m.current.Quarters
	}
	var prompt *Prompt
	if m.prompt != nil {
		p := *m.prompt
		prompt = &p
	}
	return State{
		Mode:                   m.mode,
		MatchID:                m.matchID,
		QuarterIndex:           m.quarterIdx,
		Quarters:               quarters,
		CurrentDurationSeconds: m.durationSec,
		TotalSeconds:           m.totalSec,
		Clock:                  utils.FormatClock(m.totalSec),
		Running:                m.running,
		FinalAdjustment:        m.finalAdjust,
		TeamAName:              m.teamAName,
		TeamBName:              m.teamBName,
		ScoreA:                 m.scoreA,
		ScoreB:                 m.scoreB,
		BasketsA:               m.basketsA,
		BasketsB:               m.basketsB,
		QuickMatchNumber:       m.quickNo,
		Prompt:                 prompt,
		Alert:                  m.alert,
	}
}
