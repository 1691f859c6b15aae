package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/rachao-basket/scoreboard/models"
	"github.com/rachao-basket/scoreboard/repositories"
	"github.com/rachao-basket/scoreboard/scoreboard"
	"github.com/rachao-basket/scoreboard/services"
)

// memoryGateway is the minimal persistence seam the controller needs in
// handler tests: match writes are acknowledged, the live row lives in memory.
type memoryGateway struct {
	mu   sync.Mutex
	live *models.LiveGame
}

func (g *memoryGateway) FetchNextMatchNumber(ctx context.Context, dateISO string, mode models.MatchMode) (int, error) {
	return 1, nil
}

func (g *memoryGateway) FindPendingQuickMatch(ctx context.Context, dateISO string, number int) (*models.Match, error) {
	return nil, nil
}

func (g *memoryGateway) FindLatestPendingQuick(ctx context.Context, dateISO string) (*models.Match, error) {
	return nil, nil
}

func (g *memoryGateway) CreateMatch(ctx context.Context, match *models.Match) error {
	match.ID = 1
	return nil
}

func (g *memoryGateway) UpdateMatch(ctx context.Context, id int, upd repositories.MatchUpdate) error {
	return nil
}

func (g *memoryGateway) DeleteMatch(ctx context.Context, id int) error { return nil }

func (g *memoryGateway) DeletePendingQuickMatch(ctx context.Context, dateISO string, number int) error {
	return nil
}

func (g *memoryGateway) UpsertMatchResult(ctx context.Context, result *models.MatchResult) error {
	return nil
}

func (g *memoryGateway) FetchLiveGame(ctx context.Context) (*models.LiveGame, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.live == nil {
		return nil, nil
	}
	copied := *g.live
	return &copied, nil
}

func (g *memoryGateway) UpsertLiveGame(ctx context.Context, live models.LiveGame) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.live = &live
	return nil
}

type fixedSettings struct{}

func (fixedSettings) Settings() models.Settings {
	return models.Settings{QuickDurationSeconds: 420, AlertSeconds: 20, SoundEnabled: true}
}

func (fixedSettings) AppDate() string { return "2025-07-12" }

type stubGameTournamentService struct {
	match *models.Match
}

func (s *stubGameTournamentService) EnsureCurrent(ctx context.Context, dateISO string) (*models.Tournament, error) {
	return &models.Tournament{ID: 1, StartDate: dateISO, Status: models.TournamentActive}, nil
}

func (s *stubGameTournamentService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	if s.match == nil || s.match.ID != matchID {
		return nil, services.ErrMatchNotFound
	}
	return s.match, nil
}

func (s *stubGameTournamentService) ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	return nil, nil
}

func (s *stubGameTournamentService) ScheduleMatch(ctx context.Context, input services.ScheduleMatchInput) (*models.Match, error) {
	return nil, services.ErrMatchNotFound
}

func (s *stubGameTournamentService) GenerateRoundRobin(ctx context.Context, tournamentID int, dateISO string, quarters int, durations []int64) ([]*models.Match, error) {
	return nil, nil
}

func (s *stubGameTournamentService) DeleteMatch(ctx context.Context, matchID int) error {
	return nil
}

// startGameServer wires a real controller (on a fake clock, so only intents
// run) behind the game routes and returns the test server.
func startGameServer(t *testing.T, ts services.TournamentService) (*httptest.Server, context.CancelFunc) {
	t.Helper()
	fc := clockwork.NewFakeClockAt(time.Date(2025, 7, 12, 9, 0, 0, 0, time.UTC))
	c := scoreboard.NewController(&memoryGateway{}, fixedSettings{}, scoreboard.WithClock(fc))

	ctx, cancel := context.WithCancel(context.Background())
	go c.Run(ctx)

	h := NewGameHandler(c, ts)
	router := chi.NewRouter()
	router.Get("/game/state", h.State)
	router.Post("/game/quick", h.StartQuick)
	router.Post("/game/tournament/{matchID}/start", h.StartTournament)
	router.Post("/game/play", h.Play)
	router.Post("/game/pause", h.Pause)
	router.Post("/game/points", h.AddPoint)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, cancel
}

func postGame(t *testing.T, srv *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeGame(t *testing.T, resp *http.Response) scoreboard.State {
	t.Helper()
	defer resp.Body.Close()
	var env struct {
		Game scoreboard.State `json:"game"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	return env.Game
}

func TestGameHandlerStartQuickReturnsState(t *testing.T) {
	srv, cancel := startGameServer(t, &stubGameTournamentService{})
	defer cancel()

	resp := postGame(t, srv, "/game/quick", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	game := decodeGame(t, resp)
	if game.Mode != models.ModeQuick {
		t.Errorf("expected quick mode, got %s", game.Mode)
	}
	if game.Clock != "07:00" {
		t.Errorf("expected clock 07:00, got %s", game.Clock)
	}
	if game.TeamAName != "COM COLETE" || game.TeamBName != "SEM COLETE" {
		t.Errorf("unexpected team names %q / %q", game.TeamAName, game.TeamBName)
	}
	if game.Running {
		t.Error("quick start must not auto-run the clock")
	}
}

func TestGameHandlerScoreFlow(t *testing.T) {
	srv, cancel := startGameServer(t, &stubGameTournamentService{})
	defer cancel()

	postGame(t, srv, "/game/quick", "").Body.Close()
	postGame(t, srv, "/game/play", "").Body.Close()

	resp := postGame(t, srv, "/game/points", `{"side":"A","delta":2}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	game := decodeGame(t, resp)
	if game.ScoreA != 2 {
		t.Errorf("expected score A 2, got %d", game.ScoreA)
	}
	if game.BasketsA.Two != 1 {
		t.Errorf("expected one two-point basket, got %+v", game.BasketsA)
	}
	if !game.Running {
		t.Error("expected a running clock after play")
	}
}

func TestGameHandlerAddPointValidation(t *testing.T) {
	srv, cancel := startGameServer(t, &stubGameTournamentService{})
	defer cancel()

	cases := []struct {
		name string
		body string
	}{
		{"unknown side", `{"side":"C","delta":2}`},
		{"unsupported delta", `{"side":"A","delta":5}`},
		{"empty body", ``},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postGame(t, srv, "/game/points", tc.body)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestGameHandlerStartTournament(t *testing.T) {
	ts := &stubGameTournamentService{
		match: &models.Match{
			ID:        7,
			DateISO:   "2025-07-12",
			Mode:      models.ModeTournament,
			TeamAName: "Leões",
			TeamBName: "Tubarões",
			Quarters:  2,
			Durations: []int64{600, 300},
			Status:    models.MatchStatusPending,
		},
	}
	srv, cancel := startGameServer(t, ts)
	defer cancel()

	resp := postGame(t, srv, "/game/tournament/7/start", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	game := decodeGame(t, resp)
	if game.Mode != models.ModeTournament {
		t.Errorf("expected tournament mode, got %s", game.Mode)
	}
	if game.Quarters != 2 || game.TotalSeconds != 600 {
		t.Errorf("expected 2 quarters on a 600s clock, got %d/%d", game.Quarters, game.TotalSeconds)
	}
	if game.TeamAName != "Leões" {
		t.Errorf("unexpected team A %q", game.TeamAName)
	}
}

func TestGameHandlerStartTournamentUnknownMatch(t *testing.T) {
	srv, cancel := startGameServer(t, &stubGameTournamentService{})
	defer cancel()

	resp := postGame(t, srv, "/game/tournament/99/start", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGameHandlerStoppedControllerUnavailable(t *testing.T) {
	srv, cancel := startGameServer(t, &stubGameTournamentService{})

	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp := postGame(t, srv, "/game/play", "")
		resp.Body.Close()
		if resp.StatusCode == http.StatusServiceUnavailable {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected 503 after shutdown, got %d", resp.StatusCode)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
