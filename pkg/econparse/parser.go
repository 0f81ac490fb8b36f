// Package econparse provides functionality for parsing Teeworlds external
// console (econ) output into known events and values.
//
// The econ stream is line oriented. Game messages look like:
//
//	[game]: kill killer='0:nameless tee' victim='1:brainless tee' weapon=5 special=0
//	[chat]: 0:-2:nameless tee: hello
//
// Lines may additionally carry a leading bracketed timestamp depending on the
// server's console output configuration.
package econparse

import (
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
)

type parserType struct {
	Rx   *regexp.Regexp
	Type EventType
}

var (
	// Optional timestamp prefix, eg: [2023-01-20 21:15:04]
	ts = `^(?:\[[0-9: -]+\])?`
	// Most game messages wrap the acting player as 'id:name'. The name half
	// is what the rest of the system keys on.
	player = `player='\d+:(?P<player>.+?)'`

	rxRoundStart  = regexp.MustCompile(ts + `\[game\]: start round(?:\s+type='(?P<type>.+?)' teamplay='(?P<teamplay>\d+)')?$`)
	rxFlagGrab    = regexp.MustCompile(ts + `\[game\]: flag_grab ` + player + `$`)
	rxFlagCapture = regexp.MustCompile(ts + `\[game\]: flag_capture ` + player + `(?:\s+.*)?$`)
	rxKill        = regexp.MustCompile(ts + `\[game\]: kill killer='(?P<killer>.+?)' victim='(?P<victim>.+?)' weapon=(?P<weapon>-?\d+) special=(?P<special>\d+)$`)
	rxPickup      = regexp.MustCompile(ts + `\[game\]: pickup ` + player + ` item=(?P<item>\d+)(?:/\d+)?$`)
	rxTeamJoin    = regexp.MustCompile(ts + `\[game\]: team_join ` + player + ` team=(?P<team>-?\d+)$`)
	rxChat        = regexp.MustCompile(ts + `\[chat\]: (?P<client_id>\d+):(?P<team>-?\d+):(?P<player>.+?): (?P<msg>.*)$`)
	rxIgnored     = regexp.MustCompile(ts + `\[(?:game|server|chat|econ|net_ban)\]: `)

	rxParsers = []parserType{
		{rxRoundStart, RoundStart},
		{rxFlagGrab, FlagGrab},
		{rxFlagCapture, FlagCapture},
		{rxKill, Kill},
		{rxPickup, Pickup},
		{rxTeamJoin, TeamJoin},
		{rxChat, Chat},
	}
)

// Results hold the results of parsing a single console line.
type Results struct {
	MsgType EventType
	Values  map[string]any
}

func reSubMatchMap(rx *regexp.Regexp, str string) (map[string]any, bool) {
	match := rx.FindStringSubmatch(str)
	if match == nil {
		return nil, false
	}

	subMatchMap := make(map[string]any)
	for i, name := range rx.SubexpNames() {
		if i != 0 && name != "" {
			subMatchMap[name] = match[i]
		}
	}

	return subMatchMap, true
}

// Parse will parse the console line into a known type and values.
func Parse(line string) Results {
	line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
	for _, rx := range rxParsers {
		if values, found := reSubMatchMap(rx.Rx, line); found {
			return Results{rx.Type, values}
		}
	}

	if rxIgnored.MatchString(line) {
		return Results{IgnoredMsg, nil}
	}

	return Results{UnknownMsg, map[string]any{"raw": line}}
}

// Unmarshal will transform a map of parsed values into the event struct passed in,
// eg: {"player": "Kirby", "item": "5"} -> PickupEvt.
func Unmarshal(input any, output any) error {
	decoder, errDecoder := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           output,
		WeaklyTypedInput: true, // Lets us do str -> int easily
		Squash:           true,
	})
	if errDecoder != nil {
		return errDecoder
	}

	return decoder.Decode(input)
}
