package domain

// Socket event names. Each inbound event carries a Message; the result of
// processing is broadcast back out under the same name. EventWelcome is
// outbound only and carries the full board snapshot.
const (
	EventWelcome = "welcome"
	EventCreate  = "create"
	EventColor   = "color"
	EventText    = "text"
	EventMove    = "move"
	EventDelete  = "delete"
	EventToFront = "tofront"
)
