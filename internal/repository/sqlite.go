package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/abrezinsky/gridpicks/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sqlx.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sqlx.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection; :memory: requires it
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection
func (r *Repository) DB() *sqlx.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			passphrase_hash TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS riders (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			number INTEGER NOT NULL UNIQUE,
			team TEXT NOT NULL DEFAULT '',
			active BOOLEAN NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS races (
			id TEXT PRIMARY KEY,
			season_year INTEGER NOT NULL,
			round_number INTEGER NOT NULL,
			name TEXT NOT NULL,
			circuit TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			race_at DATETIME NOT NULL,
			sprint_at DATETIME,
			fp1_at DATETIME NOT NULL,
			status TEXT NOT NULL DEFAULT 'upcoming',
			UNIQUE(season_year, round_number)
		)`,
		`CREATE TABLE IF NOT EXISTS race_results (
			race_id TEXT NOT NULL,
			result_type TEXT NOT NULL CHECK (result_type IN ('sprint', 'race')),
			position INTEGER NOT NULL,
			rider_id TEXT NOT NULL,
			FOREIGN KEY (race_id) REFERENCES races(id) ON DELETE CASCADE,
			FOREIGN KEY (rider_id) REFERENCES riders(id),
			UNIQUE(race_id, result_type, position),
			UNIQUE(race_id, result_type, rider_id)
		)`,
		`CREATE TABLE IF NOT EXISTS race_predictions (
			id TEXT PRIMARY KEY,
			player_id TEXT NOT NULL,
			race_id TEXT NOT NULL,
			sprint_winner_id TEXT NOT NULL,
			race_winner_id TEXT NOT NULL,
			glorious_7_id TEXT NOT NULL,
			submitted_at DATETIME NOT NULL,
			is_late BOOLEAN NOT NULL DEFAULT 0,
			FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE,
			FOREIGN KEY (race_id) REFERENCES races(id) ON DELETE CASCADE,
			UNIQUE(player_id, race_id)
		)`,
		`CREATE TABLE IF NOT EXISTS championship_predictions (
			id TEXT PRIMARY KEY,
			player_id TEXT NOT NULL,
			season_year INTEGER NOT NULL,
			first_place_id TEXT NOT NULL,
			second_place_id TEXT NOT NULL,
			third_place_id TEXT NOT NULL,
			submitted_at DATETIME NOT NULL,
			FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE,
			UNIQUE(player_id, season_year)
		)`,
		`CREATE TABLE IF NOT EXISTS championship_results (
			season_year INTEGER NOT NULL,
			position INTEGER NOT NULL CHECK (position BETWEEN 1 AND 3),
			rider_id TEXT NOT NULL,
			FOREIGN KEY (rider_id) REFERENCES riders(id),
			UNIQUE(season_year, position)
		)`,
		`CREATE TABLE IF NOT EXISTS player_scores (
			player_id TEXT NOT NULL,
			race_id TEXT NOT NULL,
			sprint_points INTEGER NOT NULL DEFAULT 0,
			race_points INTEGER NOT NULL DEFAULT 0,
			glorious_7_points INTEGER NOT NULL DEFAULT 0,
			penalty_points INTEGER NOT NULL DEFAULT 0,
			total_points INTEGER NOT NULL DEFAULT 0,
			calculated_at DATETIME NOT NULL,
			FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE,
			FOREIGN KEY (race_id) REFERENCES races(id) ON DELETE CASCADE,
			UNIQUE(player_id, race_id)
		)`,
		`CREATE TABLE IF NOT EXISTS championship_scores (
			player_id TEXT NOT NULL,
			season_year INTEGER NOT NULL,
			points INTEGER NOT NULL DEFAULT 0,
			calculated_at DATETIME NOT NULL,
			FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE,
			UNIQUE(player_id, season_year)
		)`,
		`CREATE TABLE IF NOT EXISTS penalties (
			id TEXT PRIMARY KEY,
			player_id TEXT NOT NULL,
			race_id TEXT NOT NULL,
			offense_number INTEGER NOT NULL,
			penalty_points INTEGER NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE,
			FOREIGN KEY (race_id) REFERENCES races(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_races_season ON races(season_year, round_number)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_race ON race_predictions(race_id)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_race ON player_scores(race_id)`,
		`CREATE INDEX IF NOT EXISTS idx_penalties_player ON penalties(player_id)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	// base_url is set by app.go with the detected LAN address
	defaultSettings := map[string]string{
		"allow_late_submissions": "true",
		"timing_feed_url":        "",
	}

	for key, value := range defaultSettings {
		if _, err := r.db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, value); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) transaction(ctx context.Context, cb func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if err := cb(tx); err != nil {
		if err2 := tx.Rollback(); err2 != nil {
			return fmt.Errorf("rollback error: %s; original error: %w", err2, err)
		}
		return err
	}

	return tx.Commit()
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func insert(ctx context.Context, ext sqlx.ExecerContext, table string, values sq.Eq) error {
	query, args, err := sq.Insert(table).SetMap(values).ToSql()
	if err != nil {
		return err
	}
	if _, err := ext.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ==================== Player Methods ====================

// CreatePlayer inserts a player, assigning an id when empty
func (r *Repository) CreatePlayer(ctx context.Context, p *models.Player) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return insert(ctx, r.db, "players", sq.Eq{
		"id":              p.ID,
		"name":            p.Name,
		"passphrase_hash": p.PassphraseHash,
		"created_at":      p.CreatedAt,
	})
}

// GetPlayer retrieves a player by id
func (r *Repository) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	var p models.Player
	if err := r.db.GetContext(ctx, &p, `SELECT * FROM players WHERE id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// GetPlayerByName retrieves a player by display name
func (r *Repository) GetPlayerByName(ctx context.Context, name string) (*models.Player, error) {
	var p models.Player
	if err := r.db.GetContext(ctx, &p, `SELECT * FROM players WHERE name = ? COLLATE NOCASE`, name); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// ListPlayers returns all players ordered by name
func (r *Repository) ListPlayers(ctx context.Context) ([]models.Player, error) {
	players := []models.Player{}
	if err := r.db.SelectContext(ctx, &players, `SELECT * FROM players ORDER BY name`); err != nil {
		return nil, err
	}
	return players, nil
}

// DeletePlayer removes a player and, through cascades, their picks and scores
func (r *Repository) DeletePlayer(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ==================== Rider Methods ====================

// CreateRider inserts a rider, assigning an id when empty
func (r *Repository) CreateRider(ctx context.Context, rider *models.Rider) error {
	if rider.ID == "" {
		rider.ID = uuid.NewString()
	}
	return insert(ctx, r.db, "riders", sq.Eq{
		"id":     rider.ID,
		"name":   rider.Name,
		"number": rider.Number,
		"team":   rider.Team,
		"active": rider.Active,
	})
}

// GetRider retrieves a rider by id
func (r *Repository) GetRider(ctx context.Context, id string) (*models.Rider, error) {
	var rider models.Rider
	if err := r.db.GetContext(ctx, &rider, `SELECT * FROM riders WHERE id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	return &rider, nil
}

// GetRiderByNumber retrieves a rider by race number
func (r *Repository) GetRiderByNumber(ctx context.Context, number int) (*models.Rider, error) {
	var rider models.Rider
	if err := r.db.GetContext(ctx, &rider, `SELECT * FROM riders WHERE number = ?`, number); err != nil {
		return nil, notFound(err)
	}
	return &rider, nil
}

// ListRiders returns riders ordered by number
func (r *Repository) ListRiders(ctx context.Context, activeOnly bool) ([]models.Rider, error) {
	q := sq.Select("*").From("riders").OrderBy("number")
	if activeOnly {
		q = q.Where(sq.Eq{"active": true})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	riders := []models.Rider{}
	if err := r.db.SelectContext(ctx, &riders, query, args...); err != nil {
		return nil, err
	}
	return riders, nil
}

// SetRiderActive toggles whether a rider can be picked
func (r *Repository) SetRiderActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE riders SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ==================== Race Methods ====================

// CreateRace inserts a race, assigning an id and status when empty
func (r *Repository) CreateRace(ctx context.Context, race *models.Race) error {
	if race.ID == "" {
		race.ID = uuid.NewString()
	}
	if race.Status == "" {
		race.Status = models.RaceUpcoming
	}
	return insert(ctx, r.db, "races", sq.Eq{
		"id":           race.ID,
		"season_year":  race.SeasonYear,
		"round_number": race.RoundNumber,
		"name":         race.Name,
		"circuit":      race.Circuit,
		"country":      race.Country,
		"race_at":      race.RaceAt.UTC(),
		"sprint_at":    race.SprintAt,
		"fp1_at":       race.FP1At.UTC(),
		"status":       race.Status,
	})
}

// GetRace retrieves a race by id
func (r *Repository) GetRace(ctx context.Context, id string) (*models.Race, error) {
	var race models.Race
	if err := r.db.GetContext(ctx, &race, `SELECT * FROM races WHERE id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	return &race, nil
}

// ListRaces returns a season's races ordered by round
func (r *Repository) ListRaces(ctx context.Context, season int) ([]models.Race, error) {
	races := []models.Race{}
	err := r.db.SelectContext(ctx, &races,
		`SELECT * FROM races WHERE season_year = ? ORDER BY round_number`, season)
	if err != nil {
		return nil, err
	}
	return races, nil
}

// FirstRace returns the lowest-numbered round of a season
func (r *Repository) FirstRace(ctx context.Context, season int) (*models.Race, error) {
	var race models.Race
	err := r.db.GetContext(ctx, &race,
		`SELECT * FROM races WHERE season_year = ? ORDER BY round_number LIMIT 1`, season)
	if err != nil {
		return nil, notFound(err)
	}
	return &race, nil
}

// SetRaceStatus updates a race's lifecycle status
func (r *Repository) SetRaceStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE races SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ==================== Prediction Methods ====================

// GetRacePrediction retrieves a player's prediction for a race
func (r *Repository) GetRacePrediction(ctx context.Context, playerID, raceID string) (*models.RacePrediction, error) {
	var p models.RacePrediction
	err := r.db.GetContext(ctx, &p,
		`SELECT * FROM race_predictions WHERE player_id = ? AND race_id = ?`, playerID, raceID)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// UpsertRacePrediction creates or overwrites the (player, race) prediction.
// p.ID is set to the stored row's id.
func (r *Repository) UpsertRacePrediction(ctx context.Context, p *models.RacePrediction) error {
	query, args, err := sq.Insert("race_predictions").SetMap(sq.Eq{
		"id":               uuid.NewString(),
		"player_id":        p.PlayerID,
		"race_id":          p.RaceID,
		"sprint_winner_id": p.SprintWinnerID,
		"race_winner_id":   p.RaceWinnerID,
		"glorious_7_id":    p.Glorious7ID,
		"submitted_at":     p.SubmittedAt.UTC(),
		"is_late":          p.IsLate,
	}).Suffix(`ON CONFLICT(player_id, race_id) DO UPDATE SET
		sprint_winner_id = excluded.sprint_winner_id,
		race_winner_id = excluded.race_winner_id,
		glorious_7_id = excluded.glorious_7_id,
		submitted_at = excluded.submitted_at,
		is_late = excluded.is_late`).ToSql()
	if err != nil {
		return err
	}

	return r.transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
		return tx.GetContext(ctx, &p.ID,
			`SELECT id FROM race_predictions WHERE player_id = ? AND race_id = ?`, p.PlayerID, p.RaceID)
	})
}

// InsertLatePrediction stores a first-time late prediction together with its
// penalty. The offense number is the player's existing penalty count plus one
// and penaltyFor converts it into points.
func (r *Repository) InsertLatePrediction(ctx context.Context, p *models.RacePrediction, penaltyFor func(offense int) int) (*models.Penalty, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.IsLate = true

	var penalty *models.Penalty
	err := r.transaction(ctx, func(tx *sqlx.Tx) error {
		var count int
		if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM penalties WHERE player_id = ?`, p.PlayerID); err != nil {
			return err
		}

		if err := insert(ctx, tx, "race_predictions", sq.Eq{
			"id":               p.ID,
			"player_id":        p.PlayerID,
			"race_id":          p.RaceID,
			"sprint_winner_id": p.SprintWinnerID,
			"race_winner_id":   p.RaceWinnerID,
			"glorious_7_id":    p.Glorious7ID,
			"submitted_at":     p.SubmittedAt.UTC(),
			"is_late":          true,
		}); err != nil {
			return err
		}

		offense := count + 1
		penalty = &models.Penalty{
			ID:            uuid.NewString(),
			PlayerID:      p.PlayerID,
			RaceID:        p.RaceID,
			OffenseNumber: offense,
			PenaltyPoints: penaltyFor(offense),
			Reason:        fmt.Sprintf("late submission (offense #%d)", offense),
			CreatedAt:     p.SubmittedAt.UTC(),
		}
		return insert(ctx, tx, "penalties", sq.Eq{
			"id":             penalty.ID,
			"player_id":      penalty.PlayerID,
			"race_id":        penalty.RaceID,
			"offense_number": penalty.OffenseNumber,
			"penalty_points": penalty.PenaltyPoints,
			"reason":         penalty.Reason,
			"created_at":     penalty.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return penalty, nil
}

// ListRacePredictions returns predictions for a race, optionally for one player
func (r *Repository) ListRacePredictions(ctx context.Context, raceID, playerID string) ([]models.RacePrediction, error) {
	q := sq.Select("*").From("race_predictions").Where(sq.Eq{"race_id": raceID}).OrderBy("submitted_at")
	if playerID != "" {
		q = q.Where(sq.Eq{"player_id": playerID})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	predictions := []models.RacePrediction{}
	if err := r.db.SelectContext(ctx, &predictions, query, args...); err != nil {
		return nil, err
	}
	return predictions, nil
}

// GetChampionshipPrediction retrieves a player's podium pick for a season
func (r *Repository) GetChampionshipPrediction(ctx context.Context, playerID string, season int) (*models.ChampionshipPrediction, error) {
	var p models.ChampionshipPrediction
	err := r.db.GetContext(ctx, &p,
		`SELECT * FROM championship_predictions WHERE player_id = ? AND season_year = ?`, playerID, season)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// UpsertChampionshipPrediction creates or overwrites the (player, season) pick
func (r *Repository) UpsertChampionshipPrediction(ctx context.Context, p *models.ChampionshipPrediction) error {
	query, args, err := sq.Insert("championship_predictions").SetMap(sq.Eq{
		"id":              uuid.NewString(),
		"player_id":       p.PlayerID,
		"season_year":     p.SeasonYear,
		"first_place_id":  p.FirstPlaceID,
		"second_place_id": p.SecondPlaceID,
		"third_place_id":  p.ThirdPlaceID,
		"submitted_at":    p.SubmittedAt.UTC(),
	}).Suffix(`ON CONFLICT(player_id, season_year) DO UPDATE SET
		first_place_id = excluded.first_place_id,
		second_place_id = excluded.second_place_id,
		third_place_id = excluded.third_place_id,
		submitted_at = excluded.submitted_at`).ToSql()
	if err != nil {
		return err
	}

	return r.transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
		return tx.GetContext(ctx, &p.ID,
			`SELECT id FROM championship_predictions WHERE player_id = ? AND season_year = ?`, p.PlayerID, p.SeasonYear)
	})
}

// ListChampionshipPredictions returns every podium pick for a season
func (r *Repository) ListChampionshipPredictions(ctx context.Context, season int) ([]models.ChampionshipPrediction, error) {
	predictions := []models.ChampionshipPrediction{}
	err := r.db.SelectContext(ctx, &predictions,
		`SELECT * FROM championship_predictions WHERE season_year = ? ORDER BY submitted_at`, season)
	if err != nil {
		return nil, err
	}
	return predictions, nil
}

// ==================== Penalty Methods ====================

// ListPenalties returns penalties assessed for a race
func (r *Repository) ListPenalties(ctx context.Context, raceID string) ([]models.Penalty, error) {
	penalties := []models.Penalty{}
	err := r.db.SelectContext(ctx, &penalties,
		`SELECT * FROM penalties WHERE race_id = ? ORDER BY created_at`, raceID)
	if err != nil {
		return nil, err
	}
	return penalties, nil
}

// ==================== Result Methods ====================

// ReplaceRaceResults atomically replaces the classification of one session.
// riderIDs are in finishing order.
func (r *Repository) ReplaceRaceResults(ctx context.Context, raceID, resultType string, riderIDs []string) error {
	return r.transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM race_results WHERE race_id = ? AND result_type = ?`, raceID, resultType); err != nil {
			return err
		}
		for i, riderID := range riderIDs {
			if err := insert(ctx, tx, "race_results", sq.Eq{
				"race_id":     raceID,
				"result_type": resultType,
				"position":    i + 1,
				"rider_id":    riderID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListRaceResults returns all classification entries of a race
func (r *Repository) ListRaceResults(ctx context.Context, raceID string) ([]models.RaceResult, error) {
	results := []models.RaceResult{}
	err := r.db.SelectContext(ctx, &results,
		`SELECT * FROM race_results WHERE race_id = ? ORDER BY result_type, position`, raceID)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// HasRaceResults reports whether any official result exists for a race
func (r *Repository) HasRaceResults(ctx context.Context, raceID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM race_results WHERE race_id = ?)`, raceID)
	return exists, err
}

// ReplaceChampionshipResults atomically replaces a season's final podium
func (r *Repository) ReplaceChampionshipResults(ctx context.Context, season int, riderIDs []string) error {
	return r.transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM championship_results WHERE season_year = ?`, season); err != nil {
			return err
		}
		for i, riderID := range riderIDs {
			if err := insert(ctx, tx, "championship_results", sq.Eq{
				"season_year": season,
				"position":    i + 1,
				"rider_id":    riderID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListChampionshipResults returns a season's podium ordered by position
func (r *Repository) ListChampionshipResults(ctx context.Context, season int) ([]models.ChampionshipResult, error) {
	results := []models.ChampionshipResult{}
	err := r.db.SelectContext(ctx, &results,
		`SELECT * FROM championship_results WHERE season_year = ? ORDER BY position`, season)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ==================== Score Methods ====================

// ReplaceRaceScores atomically replaces all stored scores for a race
func (r *Repository) ReplaceRaceScores(ctx context.Context, raceID string, scores []models.PlayerScore) error {
	return r.transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM player_scores WHERE race_id = ?`, raceID); err != nil {
			return err
		}
		for _, s := range scores {
			if err := insert(ctx, tx, "player_scores", sq.Eq{
				"player_id":         s.PlayerID,
				"race_id":           raceID,
				"sprint_points":     s.SprintPoints,
				"race_points":       s.RacePoints,
				"glorious_7_points": s.Glorious7Points,
				"penalty_points":    s.PenaltyPoints,
				"total_points":      s.TotalPoints,
				"calculated_at":     s.CalculatedAt.UTC(),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListRaceScores returns stored scores for a race, optionally for one player
func (r *Repository) ListRaceScores(ctx context.Context, raceID, playerID string) ([]models.PlayerScore, error) {
	q := sq.Select("*").From("player_scores").Where(sq.Eq{"race_id": raceID})
	if playerID != "" {
		q = q.Where(sq.Eq{"player_id": playerID})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	scores := []models.PlayerScore{}
	if err := r.db.SelectContext(ctx, &scores, query, args...); err != nil {
		return nil, err
	}
	return scores, nil
}

// ReplaceChampionshipScores atomically replaces a season's podium scores
func (r *Repository) ReplaceChampionshipScores(ctx context.Context, season int, scores []models.ChampionshipScore) error {
	return r.transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM championship_scores WHERE season_year = ?`, season); err != nil {
			return err
		}
		for _, s := range scores {
			if err := insert(ctx, tx, "championship_scores", sq.Eq{
				"player_id":     s.PlayerID,
				"season_year":   season,
				"points":        s.Points,
				"calculated_at": s.CalculatedAt.UTC(),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListChampionshipScores returns a season's podium scores
func (r *Repository) ListChampionshipScores(ctx context.Context, season int) ([]models.ChampionshipScore, error) {
	scores := []models.ChampionshipScore{}
	err := r.db.SelectContext(ctx, &scores,
		`SELECT * FROM championship_scores WHERE season_year = ?`, season)
	if err != nil {
		return nil, err
	}
	return scores, nil
}

// Standings aggregates race and championship points per player for a
// season. Players without any score appear with zero. Rows are unranked.
func (r *Repository) Standings(ctx context.Context, season int) ([]models.LeaderboardEntry, error) {
	racePoints := sq.Expr(`COALESCE((
		SELECT SUM(ps.total_points) FROM player_scores ps
		JOIN races r ON r.id = ps.race_id
		WHERE ps.player_id = p.id AND r.season_year = ?), 0)`, season)
	championshipPoints := sq.Expr(`COALESCE((
		SELECT cs.points FROM championship_scores cs
		WHERE cs.player_id = p.id AND cs.season_year = ?), 0)`, season)

	query, args, err := sq.Select("p.id AS player_id", "p.name AS name").
		Column(sq.Alias(racePoints, "race_points")).
		Column(sq.Alias(championshipPoints, "championship_points")).
		From("players p").
		OrderBy("p.name").
		ToSql()
	if err != nil {
		return nil, err
	}

	entries := []models.LeaderboardEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].TotalPoints = entries[i].RacePoints + entries[i].ChampionshipPoints
	}
	return entries, nil
}

// ==================== Settings Methods ====================

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	if err := r.db.GetContext(ctx, &value, `SELECT value FROM settings WHERE key = ?`, key); err != nil {
		return "", notFound(err)
	}
	return value, nil
}

// SetSetting updates a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

// ==================== Stats Methods ====================

// GetGameStats returns overall counts for the admin dashboard
func (r *Repository) GetGameStats(ctx context.Context) (map[string]interface{}, error) {
	counts := []struct {
		key   string
		query string
	}{
		{"total_players", `SELECT COUNT(*) FROM players`},
		{"active_riders", `SELECT COUNT(*) FROM riders WHERE active = 1`},
		{"total_races", `SELECT COUNT(*) FROM races`},
		{"completed_races", `SELECT COUNT(*) FROM races WHERE status = 'completed'`},
		{"race_predictions", `SELECT COUNT(*) FROM race_predictions`},
		{"late_predictions", `SELECT COUNT(*) FROM race_predictions WHERE is_late = 1`},
		{"championship_predictions", `SELECT COUNT(*) FROM championship_predictions`},
	}

	stats := make(map[string]interface{}, len(counts))
	for _, c := range counts {
		var n int
		if err := r.db.GetContext(ctx, &n, c.query); err != nil {
			return nil, err
		}
		stats[c.key] = n
	}
	return stats, nil
}

// ==================== Database Management Methods ====================

// validTables defines which tables can be safely cleared
var validTables = map[string]bool{
	"race_predictions":         true,
	"championship_predictions": true,
	"race_results":             true,
	"championship_results":     true,
	"player_scores":            true,
	"championship_scores":      true,
	"penalties":                true,
}

// ClearTable clears all data from a table
// Only allows clearing whitelisted tables to prevent SQL injection
func (r *Repository) ClearTable(ctx context.Context, table string) error {
	if !validTables[table] {
		return ErrInvalidTable
	}

	// Safe to use string concatenation now that we've validated the table name
	_, err := r.db.ExecContext(ctx, "DELETE FROM "+table)
	return err
}
