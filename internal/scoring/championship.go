package scoring

// Championship bonuses per exactly matched podium slot.
const (
	ChampionFirstBonus  = 37
	ChampionSecondBonus = 25
	ChampionThirdBonus  = 25

	MaxChampionshipPoints = ChampionFirstBonus + ChampionSecondBonus + ChampionThirdBonus
)

// Podium holds rider ids for 1st, 2nd and 3rd place.
type Podium struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Third  string `json:"third"`
}

// Riders returns the podium in finishing order.
func (p Podium) Riders() []string {
	return []string{p.First, p.Second, p.Third}
}

// ChampionshipPoints compares each slot independently. A rider placed in the
// wrong slot earns nothing for that slot.
func ChampionshipPoints(predicted, actual Podium) int {
	points := 0
	if predicted.First == actual.First {
		points += ChampionFirstBonus
	}
	if predicted.Second == actual.Second {
		points += ChampionSecondBonus
	}
	if predicted.Third == actual.Third {
		points += ChampionThirdBonus
	}
	return points
}
