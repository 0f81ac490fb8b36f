package econparse

// EventType defines a known, parsable message type emitted over the
// external console.
type EventType int

const (
	// IgnoredMsg is used for messages we are ignoring.
	IgnoredMsg EventType = 0
	// UnknownMsg is for any unexpected message formats.
	UnknownMsg EventType = 1

	RoundStart  EventType = 10
	FlagGrab    EventType = 20
	FlagCapture EventType = 21
	Kill        EventType = 30
	Pickup      EventType = 40
	TeamJoin    EventType = 50
	Chat        EventType = 60

	// Any is used by consumers wanting to receive all event types.
	Any EventType = 1000
)

// Team is the numeric in-game team identifier as sent over the console.
type Team int

const (
	TeamRed        Team = 0
	TeamBlue       Team = 1
	TeamSpectators Team = 3
)

// ItemKatana is the pickup item identifier of the ninja katana powerup.
const ItemKatana = 5
