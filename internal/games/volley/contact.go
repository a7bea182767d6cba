package volley

// contactTracker remembers which actors currently overlap the ball so a contact
// fires once when the overlap begins, not on every tick the ball stays in reach.
type contactTracker struct {
	active map[ActorID]bool
}

func newContactTracker() *contactTracker {
	return &contactTracker{active: make(map[ActorID]bool)}
}

// begin registers an overlap. It returns true only if the overlap is new.
func (t *contactTracker) begin(id ActorID) bool {
	if t.active[id] {
		return false
	}
	t.active[id] = true
	return true
}

// end forgets an overlap once the actor and the ball separate.
func (t *contactTracker) end(id ActorID) {
	delete(t.active, id)
}

func (t *contactTracker) isActive(id ActorID) bool {
	return t.active[id]
}

func (t *contactTracker) reset() {
	clear(t.active)
}
