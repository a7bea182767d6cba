package volley

// Snapshot is a read-only copy of everything a renderer or a replay check needs
// after a tick has completed.
type Snapshot struct {
	Tick   int        `msgpack:"tick"`
	Ball   Ball       `msgpack:"ball"`
	Actors []Actor    `msgpack:"actors"`
	Match  MatchState `msgpack:"match"`
}

// Snapshot returns the current state. The copy shares nothing with the
// simulation.
func (s *Simulation) Snapshot() Snapshot {
	return Snapshot{
		Tick:   s.ticks,
		Ball:   s.ball,
		Actors: s.Actors(),
		Match:  s.match.State(),
	}
}
