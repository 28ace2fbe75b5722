package domain

// Task represents a single note on the board.
type Task struct {
	ID    string   `json:"id"`
	Color Color    `json:"color"`
	Pos   Position `json:"pos"`
	Text  string   `json:"text"`
}

// Position is the note's placement on the board. The coordinates are
// advisory for clients and never validated server-side.
type Position struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// Message is the envelope carried by every task-bearing socket event,
// inbound and outbound.
type Message struct {
	Tasks []Task `json:"tasks"`
}
