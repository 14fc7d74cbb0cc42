package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/abrezinsky/gridpicks/internal/models"
	"github.com/abrezinsky/gridpicks/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// Season is the season year used by fixtures
const Season = 2025

// FP1 is the first practice start of the fixture's round 1
var FP1 = time.Date(Season, 3, 14, 1, 45, 0, 0, time.UTC)

// Calendar is a seeded set of riders and races
type Calendar struct {
	Riders []models.Rider
	Races  []models.Race
}

// RiderIDs returns the ids of riders in the order they were created
func (c Calendar) RiderIDs() []string {
	ids := make([]string, len(c.Riders))
	for i, r := range c.Riders {
		ids[i] = r.ID
	}
	return ids
}

// SeedCalendar creates riderCount active riders numbered from 1 and two
// rounds, the first with FP1 at FP1 and the second one week later.
func SeedCalendar(t *testing.T, repo repository.CalendarRepository, riderCount int) Calendar {
	t.Helper()
	ctx := context.Background()

	var c Calendar
	for i := 1; i <= riderCount; i++ {
		r := models.Rider{Name: riderName(i), Number: i, Team: "Factory", Active: true}
		if err := repo.CreateRider(ctx, &r); err != nil {
			t.Fatalf("failed to seed rider: %v", err)
		}
		c.Riders = append(c.Riders, r)
	}

	for round := 1; round <= 2; round++ {
		fp1 := FP1.Add(time.Duration(round-1) * 7 * 24 * time.Hour)
		race := models.Race{
			SeasonYear:  Season,
			RoundNumber: round,
			Name:        riderName(round) + " Grand Prix",
			RaceAt:      fp1.Add(54 * time.Hour),
			FP1At:       fp1,
		}
		if err := repo.CreateRace(ctx, &race); err != nil {
			t.Fatalf("failed to seed race: %v", err)
		}
		c.Races = append(c.Races, race)
	}
	return c
}

func riderName(i int) string {
	names := []string{"Bagnaia", "Martin", "Marquez", "Bastianini", "Vinales", "Acosta",
		"Bezzecchi", "Binder", "Morbidelli", "Alex Marquez", "Di Giannantonio", "Quartararo"}
	if i-1 < len(names) {
		return names[i-1]
	}
	return "Rider"
}

// SeedPlayer creates a player with a placeholder hash
func SeedPlayer(t *testing.T, repo repository.PlayerRepository, name string) models.Player {
	t.Helper()
	p := models.Player{Name: name, PassphraseHash: "x"}
	if err := repo.CreatePlayer(context.Background(), &p); err != nil {
		t.Fatalf("failed to seed player: %v", err)
	}
	return p
}
