package main

import "github.com/saylorsolutions/typebus/eventbus"

// PlayerEvent reports a change to a player's stats.
type PlayerEvent struct {
	Player string `yaml:"player"`
	Health int    `yaml:"health"`
	Mana   int    `yaml:"mana"`
}

func (PlayerEvent) EventName() string {
	return "game.PlayerEvent"
}

type ScoreChanged struct {
	Player string `yaml:"player"`
	Score  int    `yaml:"score"`
}

func (ScoreChanged) EventName() string {
	return "game.ScoreChanged"
}

type SessionEnded struct {
	Reason string `yaml:"reason"`
}

func (SessionEnded) EventName() string {
	return "session.Ended"
}

func init() {
	eventbus.Declare[PlayerEvent]()
	eventbus.Declare[ScoreChanged]()
	eventbus.Declare[SessionEnded]()
}
