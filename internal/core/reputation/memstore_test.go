package reputation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"Cignito/internal/core/bugs"
	"Cignito/internal/core/solutions"
)

type memBug struct {
	id       string
	authorID string
	slug     string
	status   bugs.Status
}

type memSolution struct {
	id          string
	bugID       string
	authorID    string
	isAccepted  bool
	bonusAwards int
}

type memState struct {
	reputation map[string]int
	bugs       map[string]*memBug
	solutions  map[string]*memSolution
	votes      map[string]*Vote
}

func (s *memState) clone() *memState {
	c := &memState{
		reputation: make(map[string]int, len(s.reputation)),
		bugs:       make(map[string]*memBug, len(s.bugs)),
		solutions:  make(map[string]*memSolution, len(s.solutions)),
		votes:      make(map[string]*Vote, len(s.votes)),
	}
	for k, v := range s.reputation {
		c.reputation[k] = v
	}
	for k, v := range s.bugs {
		b := *v
		c.bugs[k] = &b
	}
	for k, v := range s.solutions {
		sol := *v
		c.solutions[k] = &sol
	}
	for k, v := range s.votes {
		vote := *v
		c.votes[k] = &vote
	}
	return c
}

// memStore is a serializable in-memory Store. Each unit of work runs against
// a copy of the state that replaces the original only on success.
type memStore struct {
	state  *memState
	failOn string
	mu     sync.Mutex
}

var errInjected = errors.New("injected store failure")

func newMemStore() *memStore {
	return &memStore{state: &memState{
		reputation: map[string]int{},
		bugs:       map[string]*memBug{},
		solutions:  map[string]*memSolution{},
		votes:      map[string]*Vote{},
	}}
}

func (m *memStore) addUser(id string) {
	m.state.reputation[id] = 0
}

func (m *memStore) addBug(id, authorID, slug string) {
	m.state.bugs[id] = &memBug{id: id, authorID: authorID, slug: slug, status: bugs.StatusOpen}
}

func (m *memStore) addSolution(id, bugID, authorID string) {
	m.state.solutions[id] = &memSolution{id: id, bugID: bugID, authorID: authorID}
}

func (m *memStore) rep(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.reputation[userID]
}

func (m *memStore) voteCount(userID, targetID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, v := range m.state.votes {
		if v.UserID == userID && v.TargetID == targetID {
			n++
		}
	}
	return n
}

func (m *memStore) acceptedFor(bugID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, s := range m.state.solutions {
		if s.bugID == bugID && s.isAccepted {
			out = append(out, s.id)
		}
	}
	return out
}

func (m *memStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := m.state.clone()
	if err := fn(&memTx{state: work, failOn: m.failOn}); err != nil {
		return err
	}
	m.state = work
	return nil
}

func (m *memStore) Tally(ctx context.Context, targetID string, kind TargetKind) (Tally, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return tallyOf(m.state, targetID, kind), nil
}

func (m *memStore) GetUserVote(ctx context.Context, userID, targetID string, kind TargetKind) (*Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.state.votes {
		if v.UserID == userID && v.TargetID == targetID && v.Kind == kind {
			vote := *v
			return &vote, nil
		}
	}
	return nil, ErrVoteNotFound
}

func (m *memStore) Sources(ctx context.Context) ([]Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byUser := map[string]*Source{}
	for id, rep := range m.state.reputation {
		byUser[id] = &Source{UserID: id, Stored: rep}
	}
	for _, v := range m.state.votes {
		switch v.Kind {
		case KindBug:
			byUser[m.state.bugs[v.TargetID].authorID].BugVoteSum += v.Value
		case KindSolution:
			byUser[m.state.solutions[v.TargetID].authorID].SolutionVoteSum += v.Value
		}
	}
	for _, s := range m.state.solutions {
		byUser[s.authorID].BonusAwards += s.bonusAwards
	}

	out := make([]Source, 0, len(byUser))
	for _, s := range byUser {
		out = append(out, *s)
	}
	return out, nil
}

func tallyOf(state *memState, targetID string, kind TargetKind) Tally {
	var t Tally
	for _, v := range state.votes {
		if v.TargetID != targetID || v.Kind != kind {
			continue
		}
		switch v.Value {
		case 1:
			t.Upvotes++
		case -1:
			t.Downvotes++
		}
	}
	t.Total = t.Upvotes - t.Downvotes
	return t
}

type memTx struct {
	state  *memState
	failOn string
}

func (t *memTx) check(op string) error {
	if t.failOn == op {
		return fmt.Errorf("%s: %w", op, errInjected)
	}
	return nil
}

func (t *memTx) LockTarget(ctx context.Context, targetID string, kind TargetKind) (*Target, error) {
	if err := t.check("LockTarget"); err != nil {
		return nil, err
	}
	switch kind {
	case KindBug:
		b, ok := t.state.bugs[targetID]
		if !ok {
			return nil, ErrTargetNotFound
		}
		return &Target{ID: b.id, Kind: kind, AuthorID: b.authorID, BugID: b.id, BugSlug: b.slug}, nil
	case KindSolution:
		s, ok := t.state.solutions[targetID]
		if !ok {
			return nil, ErrTargetNotFound
		}
		b := t.state.bugs[s.bugID]
		return &Target{ID: s.id, Kind: kind, AuthorID: s.authorID, BugID: b.id, BugSlug: b.slug}, nil
	}
	return nil, ErrInvalidKind
}

func (t *memTx) GetVoteForUpdate(ctx context.Context, userID, targetID string, kind TargetKind) (*Vote, error) {
	for _, v := range t.state.votes {
		if v.UserID == userID && v.TargetID == targetID && v.Kind == kind {
			vote := *v
			return &vote, nil
		}
	}
	return nil, ErrVoteNotFound
}

func (t *memTx) CreateVote(ctx context.Context, vote *Vote) error {
	if err := t.check("CreateVote"); err != nil {
		return err
	}
	for _, v := range t.state.votes {
		if v.UserID == vote.UserID && v.TargetID == vote.TargetID && v.Kind == vote.Kind {
			return fmt.Errorf("duplicate vote for %s on %s", vote.UserID, vote.TargetID)
		}
	}
	stored := *vote
	t.state.votes[vote.ID] = &stored
	return nil
}

func (t *memTx) UpdateVoteType(ctx context.Context, voteID string, voteType VoteType) error {
	if err := t.check("UpdateVoteType"); err != nil {
		return err
	}
	v := t.state.votes[voteID]
	v.Type = voteType
	v.Value = voteType.Value()
	return nil
}

func (t *memTx) DeleteVote(ctx context.Context, voteID string) error {
	if err := t.check("DeleteVote"); err != nil {
		return err
	}
	delete(t.state.votes, voteID)
	return nil
}

func (t *memTx) AdjustReputation(ctx context.Context, userID string, delta int) error {
	if err := t.check("AdjustReputation"); err != nil {
		return err
	}
	if _, ok := t.state.reputation[userID]; !ok {
		return fmt.Errorf("user %s not found", userID)
	}
	t.state.reputation[userID] += delta
	return nil
}

func (t *memTx) Tally(ctx context.Context, targetID string, kind TargetKind) (Tally, error) {
	return tallyOf(t.state, targetID, kind), nil
}

func (t *memTx) LockCandidate(ctx context.Context, solutionID string) (*Candidate, error) {
	s, ok := t.state.solutions[solutionID]
	if !ok {
		return nil, ErrTargetNotFound
	}
	b := t.state.bugs[s.bugID]
	return &Candidate{
		SolutionID:       s.id,
		SolutionAuthorID: s.authorID,
		BugID:            b.id,
		BugAuthorID:      b.authorID,
		BugSlug:          b.slug,
		IsAccepted:       s.isAccepted,
		BonusAwards:      s.bonusAwards,
	}, nil
}

func (t *memTx) ClearAccepted(ctx context.Context, bugID string) error {
	if err := t.check("ClearAccepted"); err != nil {
		return err
	}
	for _, s := range t.state.solutions {
		if s.bugID == bugID {
			s.isAccepted = false
		}
	}
	return nil
}

func (t *memTx) MarkAccepted(ctx context.Context, solutionID string, awardBonus bool) (*solutions.Solution, error) {
	if err := t.check("MarkAccepted"); err != nil {
		return nil, err
	}
	s := t.state.solutions[solutionID]
	s.isAccepted = true
	if awardBonus {
		s.bonusAwards++
	}
	return &solutions.Solution{ID: s.id, BugID: s.bugID, AuthorID: s.authorID, IsAccepted: true}, nil
}

func (t *memTx) SetBugStatus(ctx context.Context, bugID string, status bugs.Status) error {
	if err := t.check("SetBugStatus"); err != nil {
		return err
	}
	t.state.bugs[bugID].status = status
	return nil
}
