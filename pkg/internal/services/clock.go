package services

import "github.com/jonboulle/clockwork"

// Clock is the time source of every time-dependent rule. Tests swap it for a fake clock.
var Clock clockwork.Clock = clockwork.NewRealClock()
