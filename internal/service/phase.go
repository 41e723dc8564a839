package service

// Phase is a named metabolic stage derived solely from elapsed hours.
// It is never persisted.
type Phase struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

var phases = []struct {
	upTo  float64 // exclusive upper bound in hours
	phase Phase
}{
	{12, Phase{
		Name:        "Glycogen Depletion",
		Description: "Initial hunger expected, body using stored glycogen",
		Color:       "#ff8c00",
	}},
	{24, Phase{
		Name:        "Ketosis Begins",
		Description: "Fat burning starts, ketone production begins",
		Color:       "#ffd700",
	}},
	{36, Phase{
		Name:        "Deep Ketosis",
		Description: "Full ketosis active, autophagy accelerates",
		Color:       "#90ee90",
	}},
	{48, Phase{
		Name:        "Peak Metabolic State",
		Description: "Highest ketone production, mental clarity peaks",
		Color:       "#00ff00",
	}},
}

var extendedFasting = Phase{
	Name:        "Extended Fasting",
	Description: "Sustained ketosis, cellular repair in full swing",
	Color:       "#006400",
}

// ClassifyPhase maps elapsed hours to a metabolic phase. The caller
// guarantees elapsedHours >= 0.
func ClassifyPhase(elapsedHours float64) Phase {
	for _, p := range phases {
		if elapsedHours < p.upTo {
			return p.phase
		}
	}
	return extendedFasting
}
