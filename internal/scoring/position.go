// Package scoring turns picks and official classifications into points.
// Every function here is pure and safe for concurrent use.
package scoring

// Kind selects the points table used by PositionPoints.
type Kind string

const (
	KindWinner    Kind = "winner"
	KindGlorious7 Kind = "glorious7"
)

// Target finishing positions for each pick slot.
const (
	WinnerPosition    = 1
	Glorious7Position = 7
)

// Points by absolute distance between predicted and actual position.
// Distances missing from a table score zero.
var (
	winnerPoints = map[int]int{
		0: 12,
		1: 9,
		2: 7,
		3: 5,
		4: 4,
		5: 2,
	}
	glorious7Points = map[int]int{
		0: 12,
		1: 9,
		2: 7,
		3: 5,
		4: 4,
	}
)

// PositionPoints returns the points for a pick that finished at predicted
// when the slot targets actual. Only |predicted-actual| matters.
func PositionPoints(predicted, actual int, kind Kind) int {
	diff := predicted - actual
	if diff < 0 {
		diff = -diff
	}

	switch kind {
	case KindWinner:
		return winnerPoints[diff]
	case KindGlorious7:
		return glorious7Points[diff]
	default:
		return 0
	}
}
