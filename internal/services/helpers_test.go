package services_test

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/abrezinsky/gridpicks/internal/logger"
	"github.com/abrezinsky/gridpicks/internal/repository/mock"
	"github.com/abrezinsky/gridpicks/internal/services"
	"github.com/abrezinsky/gridpicks/internal/testutil"
	"github.com/abrezinsky/gridpicks/pkg/timing"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	repo        *mock.Repository
	clock       *services.ManualClock
	feed        *timing.MockClient
	broadcasts  *recordingBroadcaster
	cal         testutil.Calendar
	settings    *services.SettingsService
	players     *services.PlayerService
	calendar    *services.CalendarService
	predictions *services.PredictionService
	results     *services.ResultsService
	leaderboard *services.LeaderboardService
}

// newTestEnv wires every service over a fresh in-memory database seeded
// with ten riders and two rounds. The clock starts one day before FP1.
func newTestEnv(t *testing.T, feedOpts ...timing.MockOption) *testEnv {
	t.Helper()

	db := testutil.NewTestRepository(t)
	repo := mock.NewRepository(db)
	log := logger.NewWithOptions(logger.Options{Output: io.Discard})

	env := &testEnv{
		repo:       repo,
		clock:      services.NewManualClock(testutil.FP1.Add(-24 * time.Hour)),
		feed:       timing.NewMockClient(feedOpts...),
		broadcasts: &recordingBroadcaster{},
		cal:        testutil.SeedCalendar(t, db, 10),
	}
	env.settings = services.NewSettingsService(log, repo)
	env.players = services.NewPlayerService(log, repo, env.settings)
	env.players.SetHashCost(bcrypt.MinCost)
	env.calendar = services.NewCalendarService(log, repo, env.clock, env.settings, env.feed)
	env.predictions = services.NewPredictionService(log, repo, env.clock, env.settings)
	env.results = services.NewResultsService(log, repo, env.clock, env.settings, env.feed)
	env.results.SetBroadcaster(env.broadcasts)
	env.leaderboard = services.NewLeaderboardService(log, repo)
	return env
}

func (e *testEnv) rider(n int) string {
	return e.cal.Riders[n-1].ID
}

func (e *testEnv) race(round int) string {
	return e.cal.Races[round-1].ID
}

// afterFP1 moves the clock past round 1's FP1
func (e *testEnv) afterFP1() {
	e.clock.Set(testutil.FP1.Add(time.Minute))
}

type recordingBroadcaster struct {
	mu           sync.Mutex
	races        []string
	championship []int
}

func (b *recordingBroadcaster) BroadcastScoresUpdated(raceID string) {
	b.mu.Lock()
	b.races = append(b.races, raceID)
	b.mu.Unlock()
}

func (b *recordingBroadcaster) BroadcastChampionshipUpdated(season int) {
	b.mu.Lock()
	b.championship = append(b.championship, season)
	b.mu.Unlock()
}
