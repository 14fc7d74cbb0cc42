package scoring

// Penalty returns the points deducted for a player's offense-th late
// submission: 10, then 25, then 50 for every later one.
func Penalty(offense int) int {
	switch {
	case offense <= 1:
		return 10
	case offense == 2:
		return 25
	default:
		return 50
	}
}
