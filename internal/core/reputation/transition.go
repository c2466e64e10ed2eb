package reputation

// transition decides what a cast-vote request does to the voter's existing
// vote and the resulting change to the author's reputation.
//
//	none            -> create, +value*m
//	same type       -> remove, -existing*m
//	different type  -> switch, (new-old)*m
func transition(existing *Vote, requested VoteType, magnitude int) (Action, int) {
	switch {
	case existing == nil:
		return ActionCreated, requested.Value() * magnitude
	case existing.Type == requested:
		return ActionRemoved, -existing.Value * magnitude
	default:
		return ActionSwitched, (requested.Value() - existing.Value) * magnitude
	}
}
