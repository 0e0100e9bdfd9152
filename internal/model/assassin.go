package model

// AssassinID identifies an assassin in the static roster
type AssassinID string

// Faction is the allegiance an assassin fights under
type Faction string

const (
	FactionAzureCovenant  Faction = "Azure Covenant"
	FactionVerdantPact    Faction = "Verdant Pact"
	FactionVioletConclave Faction = "Violet Conclave"
	FactionCrimsonOath    Faction = "Crimson Oath"
)

// Assassin is static reference data for a selectable character.
// The roster is immutable and loaded wholesale; sessions persist only
// the chosen AssassinID.
type Assassin struct {
	ID            AssassinID `json:"id"`
	Name          string     `json:"name"`
	Faction       Faction    `json:"faction"`
	Age           int        `json:"age"`
	Abilities     []string   `json:"abilities"`
	PortraitImage string     `json:"portraitImage"`
	CardImage     string     `json:"cardImage"`
}

// roster is the full selectable assassin list. Order is presentation
// order in clients.
var roster = []Assassin{
	{
		ID:            "veyra-thorn",
		Name:          "Veyra Thorn",
		Faction:       FactionCrimsonOath,
		Age:           27,
		Abilities:     []string{"shadowstep", "twin-blades"},
		PortraitImage: "/images/assassins/veyra-thorn.png",
		CardImage:     "/images/cards/veyra-thorn.png",
	},
	{
		ID:            "kael-dravic",
		Name:          "Kael Dravic",
		Faction:       FactionAzureCovenant,
		Age:           41,
		Abilities:     []string{"frost-veil", "garrote"},
		PortraitImage: "/images/assassins/kael-dravic.png",
		CardImage:     "/images/cards/kael-dravic.png",
	},
	{
		ID:            "sable-miren",
		Name:          "Sable Miren",
		Faction:       FactionVioletConclave,
		Age:           33,
		Abilities:     []string{"mind-fog", "poisoncraft"},
		PortraitImage: "/images/assassins/sable-miren.png",
		CardImage:     "/images/cards/sable-miren.png",
	},
	{
		ID:            "orin-vasq",
		Name:          "Orin Vasq",
		Faction:       FactionVerdantPact,
		Age:           52,
		Abilities:     []string{"snare-craft", "longshot"},
		PortraitImage: "/images/assassins/orin-vasq.png",
		CardImage:     "/images/cards/orin-vasq.png",
	},
	{
		ID:            "lyssa-qorin",
		Name:          "Lyssa Qorin",
		Faction:       FactionVioletConclave,
		Age:           24,
		Abilities:     []string{"pool-walker", "silver-tongue"},
		PortraitImage: "/images/assassins/lyssa-qorin.png",
		CardImage:     "/images/cards/lyssa-qorin.png",
	},
	{
		ID:            "dren-halvard",
		Name:          "Dren Halvard",
		Faction:       FactionCrimsonOath,
		Age:           38,
		Abilities:     []string{"arena-born", "blood-rite"},
		PortraitImage: "/images/assassins/dren-halvard.png",
		CardImage:     "/images/cards/dren-halvard.png",
	},
	{
		ID:            "isolde-fen",
		Name:          "Isolde Fen",
		Faction:       FactionAzureCovenant,
		Age:           29,
		Abilities:     []string{"sanctuary-ward", "mirror-feint"},
		PortraitImage: "/images/assassins/isolde-fen.png",
		CardImage:     "/images/cards/isolde-fen.png",
	},
	{
		ID:            "marrok-tein",
		Name:          "Marrok Tein",
		Faction:       FactionVerdantPact,
		Age:           46,
		Abilities:     []string{"fate-reader", "dice-bane"},
		PortraitImage: "/images/assassins/marrok-tein.png",
		CardImage:     "/images/cards/marrok-tein.png",
	},
}

// Roster returns the full assassin roster. The returned slice is a
// copy; callers may not mutate the underlying data.
func Roster() []Assassin {
	out := make([]Assassin, len(roster))
	copy(out, roster)
	return out
}

// FindAssassin looks up an assassin by ID.
func FindAssassin(id AssassinID) (*Assassin, error) {
	for i := range roster {
		if roster[i].ID == id {
			return &roster[i], nil
		}
	}
	return nil, ErrAssassinNotFound
}
