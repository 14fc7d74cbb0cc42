package scoring

import "testing"

func TestPositionPoints_Winner(t *testing.T) {
	tests := []struct {
		predicted, actual int
		expected          int
	}{
		{1, 1, 12},
		{2, 1, 9},
		{3, 1, 7},
		{4, 1, 5},
		{5, 1, 4},
		{6, 1, 2},
		{7, 1, 0},
		{20, 1, 0},
	}

	for _, tt := range tests {
		if got := PositionPoints(tt.predicted, tt.actual, KindWinner); got != tt.expected {
			t.Errorf("PositionPoints(%d, %d, winner) = %d, want %d", tt.predicted, tt.actual, got, tt.expected)
		}
	}
}

func TestPositionPoints_Glorious7(t *testing.T) {
	tests := []struct {
		predicted, actual int
		expected          int
	}{
		{7, 7, 12},
		{8, 7, 9},
		{9, 7, 7},
		{4, 7, 5},
		{3, 7, 4},
		{2, 7, 0},
		{12, 7, 0},
		{1, 7, 0},
	}

	for _, tt := range tests {
		if got := PositionPoints(tt.predicted, tt.actual, KindGlorious7); got != tt.expected {
			t.Errorf("PositionPoints(%d, %d, glorious7) = %d, want %d", tt.predicted, tt.actual, got, tt.expected)
		}
	}
}

func TestPositionPoints_ZeroBeyondTable(t *testing.T) {
	for diff := 6; diff < 40; diff++ {
		if got := PositionPoints(1+diff, 1, KindWinner); got != 0 {
			t.Errorf("winner diff %d: expected 0, got %d", diff, got)
		}
	}
	for diff := 5; diff < 40; diff++ {
		if got := PositionPoints(7+diff, 7, KindGlorious7); got != 0 {
			t.Errorf("glorious7 diff %d: expected 0, got %d", diff, got)
		}
	}
}

func TestPositionPoints_Symmetric(t *testing.T) {
	for _, kind := range []Kind{KindWinner, KindGlorious7} {
		for a := 1; a <= 22; a++ {
			for b := 1; b <= 22; b++ {
				if PositionPoints(a, b, kind) != PositionPoints(b, a, kind) {
					t.Fatalf("%s: PositionPoints(%d,%d) != PositionPoints(%d,%d)", kind, a, b, b, a)
				}
			}
		}
	}
}

func TestPositionPoints_UnknownKind(t *testing.T) {
	if got := PositionPoints(1, 1, Kind("podium")); got != 0 {
		t.Errorf("expected 0 for unknown kind, got %d", got)
	}
}

func TestPenalty(t *testing.T) {
	if got := Penalty(1); got != 10 {
		t.Errorf("Penalty(1) = %d, want 10", got)
	}
	if got := Penalty(2); got != 25 {
		t.Errorf("Penalty(2) = %d, want 25", got)
	}
	for n := 3; n <= 50; n++ {
		if got := Penalty(n); got != 50 {
			t.Errorf("Penalty(%d) = %d, want 50", n, got)
		}
	}
}

func TestPenalty_NonDecreasing(t *testing.T) {
	prev := Penalty(1)
	for n := 2; n <= 100; n++ {
		cur := Penalty(n)
		if cur < prev {
			t.Fatalf("Penalty(%d) = %d is less than Penalty(%d) = %d", n, cur, n-1, prev)
		}
		prev = cur
	}
}

func TestChampionshipPoints(t *testing.T) {
	actual := Podium{First: "A", Second: "B", Third: "C"}

	tests := []struct {
		name      string
		predicted Podium
		expected  int
	}{
		{"all correct", Podium{"A", "B", "C"}, 87},
		{"first only", Podium{"A", "C", "B"}, 37},
		{"second and third", Podium{"X", "B", "C"}, 50},
		{"third only", Podium{"B", "A", "C"}, 25},
		{"right riders wrong slots", Podium{"C", "A", "B"}, 0},
		{"none", Podium{"X", "Y", "Z"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChampionshipPoints(tt.predicted, actual); got != tt.expected {
				t.Errorf("ChampionshipPoints(%v) = %d, want %d", tt.predicted, got, tt.expected)
			}
		})
	}
}

func TestChampionshipPoints_MaxOnlyOnExactMatch(t *testing.T) {
	riders := []string{"A", "B", "C", "D"}
	actual := Podium{"A", "B", "C"}
	for _, f := range riders {
		for _, s := range riders {
			for _, th := range riders {
				p := Podium{f, s, th}
				got := ChampionshipPoints(p, actual)
				if got > MaxChampionshipPoints {
					t.Fatalf("%v scored %d, above max", p, got)
				}
				if got == MaxChampionshipPoints && p != actual {
					t.Fatalf("%v reached max without matching exactly", p)
				}
			}
		}
	}
	if MaxChampionshipPoints != 87 {
		t.Errorf("expected max 87, got %d", MaxChampionshipPoints)
	}
}

func TestScoreRace(t *testing.T) {
	sprint := Classification{"r2": 1, "r1": 2, "r3": 3}
	race := Classification{"r4": 1, "r5": 2, "r1": 3, "r6": 4, "r7": 5, "r8": 6, "r9": 7, "r2": 8, "r3": 9}

	picks := RacePicks{SprintWinner: "r1", RaceWinner: "r1", Glorious7: "r3"}
	got := ScoreRace(picks, sprint, race, 25)

	// r1: sprint P2 -> 9; race P3 -> 7. r3: race P9 vs 7 -> 7.
	want := RaceScore{Sprint: 9, Race: 7, Glorious7: 7, Penalty: 25, Total: -2}
	if got != want {
		t.Errorf("ScoreRace = %+v, want %+v", got, want)
	}
}

func TestScoreRace_UnclassifiedPicksScoreZero(t *testing.T) {
	race := Classification{"r1": 1, "r2": 2}

	picks := RacePicks{SprintWinner: "r1", RaceWinner: "dnf", Glorious7: "r1"}
	got := ScoreRace(picks, nil, race, 0)

	// no sprint held; r1 won the race so it is 6 places off the 7th target
	want := RaceScore{}
	if got != want {
		t.Errorf("ScoreRace = %+v, want %+v", got, want)
	}
}

func TestEndToEndScenario(t *testing.T) {
	if got := PositionPoints(3, 1, KindWinner); got != 7 {
		t.Errorf("winner 3 vs 1: expected 7, got %d", got)
	}
	if got := PositionPoints(9, 7, KindGlorious7); got != 7 {
		t.Errorf("glorious7 9 vs 7: expected 7, got %d", got)
	}
	if got := Penalty(2); got != 25 {
		t.Errorf("second offense: expected 25, got %d", got)
	}
	got := ChampionshipPoints(Podium{"R1", "R2", "R3"}, Podium{"R1", "R3", "R2"})
	if got != 37 {
		t.Errorf("championship: expected 37, got %d", got)
	}
}
