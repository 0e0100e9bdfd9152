package model

// SquareStatus is the open/closed state of a board square
type SquareStatus string

const (
	SquareOpen SquareStatus = "open"
)

// Location is a [row, col] board coordinate
type Location [2]int

// ArenaSquare is a board square with a status flag
type ArenaSquare struct {
	Location Location     `json:"location"`
	Status   SquareStatus `json:"status,omitempty"`
}

// Quadrant is one of the four colored board regions
type Quadrant struct {
	ID    int    `json:"id"`
	Color string `json:"color"`
}

// SpecialSquares groups the board's fixed special locations
type SpecialSquares struct {
	Sanctuaries        []ArenaSquare `json:"sanctuaries"`
	QorinthPoolSquares []ArenaSquare `json:"qorinthPoolSquares"`
	FateSquares        []ArenaSquare `json:"fateSquares"`
	EngagementSquares  []ArenaSquare `json:"engagementSquares"`
}

// MovementDice is the shared dice state persisted with the board
type MovementDice struct {
	Dice1         int  `json:"dice1"`
	Dice2         int  `json:"dice2"`
	DoublesRolled bool `json:"doublesRolled"`
}

// LegendaryAssassins lists the legendary characters available on this
// board; they are not part of the selectable roster.
type LegendaryAssassins struct {
	Available []string `json:"available"`
}

// ResetTool is the board-reset control state
type ResetTool struct {
	Status    string  `json:"status"`
	LastReset *string `json:"lastReset"`
}

// Board is the static layout persisted with every session. Nothing in
// the lobby flow mutates it.
type Board struct {
	Size               string             `json:"size"`
	ScarletArena       ArenaSquare        `json:"scarletArena"`
	Quadrants          []Quadrant         `json:"quadrants"`
	SpecialSquares     SpecialSquares     `json:"specialSquares"`
	MovementDice       MovementDice       `json:"movementDice"`
	LegendaryAssassins LegendaryAssassins `json:"legendaryAssassins"`
	ResetTool          ResetTool          `json:"resetTool"`
}

// DefaultBoard returns the fixed 13x13 layout every session starts with.
func DefaultBoard() Board {
	return Board{
		Size:         "13x13",
		ScarletArena: ArenaSquare{Location: Location{6, 6}, Status: SquareOpen},
		Quadrants: []Quadrant{
			{ID: 1, Color: "Blue"},
			{ID: 2, Color: "Green"},
			{ID: 3, Color: "Violet"},
			{ID: 4, Color: "Crimson"},
		},
		SpecialSquares: SpecialSquares{
			Sanctuaries:        []ArenaSquare{{Location: Location{2, 2}, Status: SquareOpen}},
			QorinthPoolSquares: []ArenaSquare{{Location: Location{8, 8}}},
			FateSquares:        []ArenaSquare{{Location: Location{4, 4}}},
			EngagementSquares:  []ArenaSquare{{Location: Location{10, 10}}},
		},
		MovementDice: MovementDice{
			Dice1:         6,
			Dice2:         6,
			DoublesRolled: false,
		},
		LegendaryAssassins: LegendaryAssassins{
			Available: []string{"Ashen Vow", "The Qorinth Widow"},
		},
		ResetTool: ResetTool{
			Status:    "enabled",
			LastReset: nil,
		},
	}
}
