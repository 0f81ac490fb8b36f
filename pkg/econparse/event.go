package econparse

// RoundStartEvt fires when the server starts a new round. The server also
// emits this for warm-up restarts, so a round start alone does not mean a
// previous match completed.
type RoundStartEvt struct {
	Type     string `mapstructure:"type"`
	Teamplay int    `mapstructure:"teamplay"`
}

type FlagGrabEvt struct {
	Player string `mapstructure:"player"`
}

type FlagCaptureEvt struct {
	Player string `mapstructure:"player"`
}

// KillEvt carries the killer and victim identities. Unlike every other game
// message, the console does not separate the client id from the name here:
// both fields arrive as the raw "N:name" composite and must be normalized
// before use.
type KillEvt struct {
	Killer  string `mapstructure:"killer"`
	Victim  string `mapstructure:"victim"`
	Weapon  int    `mapstructure:"weapon"`
	Special int    `mapstructure:"special"`
}

type PickupEvt struct {
	Player string `mapstructure:"player"`
	Item   int    `mapstructure:"item"`
}

type TeamJoinEvt struct {
	Player string `mapstructure:"player"`
	Team   Team   `mapstructure:"team"`
}

type ChatEvt struct {
	ClientID int    `mapstructure:"client_id"`
	Team     Team   `mapstructure:"team"`
	Player   string `mapstructure:"player"`
	Msg      string `mapstructure:"msg"`
}
