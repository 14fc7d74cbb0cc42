package scoring

// Classification maps rider id to official finishing position for one
// session. Riders that did not finish are simply absent.
type Classification map[string]int

// Position returns where riderID finished, or false if unclassified.
func (c Classification) Position(riderID string) (int, bool) {
	pos, ok := c[riderID]
	return pos, ok && pos > 0
}

// RacePicks are a player's three picks for one race weekend.
type RacePicks struct {
	SprintWinner string
	RaceWinner   string
	Glorious7    string
}

// RaceScore is the per-slot breakdown stored for a (player, race).
type RaceScore struct {
	Sprint    int `json:"sprint_points"`
	Race      int `json:"race_points"`
	Glorious7 int `json:"glorious_7_points"`
	Penalty   int `json:"penalty_points"`
	Total     int `json:"total_points"`
}

// ScoreRace scores picks against the sprint and race classifications and
// deducts penalty. An unclassified pick scores zero.
func ScoreRace(picks RacePicks, sprint, race Classification, penalty int) RaceScore {
	score := RaceScore{
		Sprint:    slotPoints(sprint, picks.SprintWinner, WinnerPosition, KindWinner),
		Race:      slotPoints(race, picks.RaceWinner, WinnerPosition, KindWinner),
		Glorious7: slotPoints(race, picks.Glorious7, Glorious7Position, KindGlorious7),
		Penalty:   penalty,
	}
	score.Total = score.Sprint + score.Race + score.Glorious7 - score.Penalty
	return score
}

func slotPoints(c Classification, riderID string, target int, kind Kind) int {
	pos, ok := c.Position(riderID)
	if !ok {
		return 0
	}
	return PositionPoints(pos, target, kind)
}
