package services

import (
	"context"
	"sort"
	"time"

	"github.com/pitchside/crease/models"
	"github.com/pitchside/crease/repositories"
)

// In-memory repository doubles. They mirror the contracts of the Postgres
// implementations closely enough for service-level behavior tests: fixture
// updates preserve id, creation time and bracket uid; stats mutations operate
// on a copy of the document and write it back atomically.

type fakeMatchRepo struct {
	nextID  int
	matches map[int]*models.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{nextID: 1, matches: make(map[int]*models.Match)}
}

func (r *fakeMatchRepo) add(m models.Match) *models.Match {
	if m.ID == 0 {
		m.ID = r.nextID
		r.nextID++
	} else if m.ID >= r.nextID {
		r.nextID = m.ID + 1
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Unix(int64(1700000000+m.ID), 0)
	}
	r.matches[m.ID] = &m
	return r.matches[m.ID]
}

func (r *fakeMatchRepo) Create(ctx context.Context, match *models.Match) error {
	stored := r.add(*match)
	match.ID = stored.ID
	match.CreatedAt = stored.CreatedAt
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range r.sorted() {
		if m.TournamentID != tournamentID {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		copied := *m
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeMatchRepo) ListKnockoutByStage(ctx context.Context, tournamentID int, stageKey string) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range r.sorted() {
		if m.TournamentID != tournamentID || m.StageKey == nil || *m.StageKey != stageKey {
			continue
		}
		copied := *m
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeMatchRepo) ApplyFixtureBatch(ctx context.Context, batch repositories.FixtureBatch) error {
	for _, u := range batch.Updates {
		existing, ok := r.matches[u.MatchID]
		if !ok {
			return repositories.ErrMatchNotFound
		}
		updated := u.Fixture
		updated.ID = existing.ID
		updated.CreatedAt = existing.CreatedAt
		updated.BracketUID = existing.BracketUID
		r.matches[u.MatchID] = &updated
	}
	for _, c := range batch.Creates {
		r.add(c)
	}
	for _, id := range batch.DeleteIDs {
		delete(r.matches, id)
	}
	return nil
}

func (r *fakeMatchRepo) UpdateStatus(ctx context.Context, id int, status models.MatchStatus) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Status = status
	return nil
}

func (r *fakeMatchRepo) MarkChampionRecorded(ctx context.Context, id int, winnerSquadID, loserSquadID int) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.ChampionRecorded = true
	m.WinnerSquadID = &winnerSquadID
	m.LoserSquadID = &loserSquadID
	return nil
}

func (r *fakeMatchRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

func (r *fakeMatchRepo) sorted() []*models.Match {
	out := make([]*models.Match, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type fakeSquadRepo struct {
	squads map[int]*models.Squad
}

func newFakeSquadRepo(squads ...models.Squad) *fakeSquadRepo {
	r := &fakeSquadRepo{squads: make(map[int]*models.Squad)}
	for _, s := range squads {
		copied := s
		r.squads[s.ID] = &copied
	}
	return r
}

func (r *fakeSquadRepo) Create(ctx context.Context, squad *models.Squad) error {
	copied := *squad
	r.squads[squad.ID] = &copied
	return nil
}

func (r *fakeSquadRepo) GetByID(ctx context.Context, id int) (*models.Squad, error) {
	s, ok := r.squads[id]
	if !ok {
		return nil, repositories.ErrSquadNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSquadRepo) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Squad, error) {
	var out []*models.Squad
	for _, s := range r.squads {
		if s.TournamentID == tournamentID {
			copied := *s
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSquadRepo) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	s, ok := r.squads[id]
	if !ok {
		return repositories.ErrSquadNotFound
	}
	s.LogoKey = logoKey
	return nil
}

type fakePlayerRepo struct {
	players map[int]*models.Player
}

func newFakePlayerRepo(players ...models.Player) *fakePlayerRepo {
	r := &fakePlayerRepo{players: make(map[int]*models.Player)}
	for _, p := range players {
		copied := p
		r.players[p.ID] = &copied
	}
	return r
}

func (r *fakePlayerRepo) Create(ctx context.Context, player *models.Player) error {
	copied := *player
	r.players[player.ID] = &copied
	return nil
}

func (r *fakePlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	p, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePlayerRepo) ListBySquad(ctx context.Context, squadID int) ([]*models.Player, error) {
	var out []*models.Player
	for _, p := range r.players {
		if p.SquadID == squadID {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePlayerRepo) MutateStats(ctx context.Context, playerID int, mutate func(doc *repositories.PlayerStatsDoc) error) error {
	p, ok := r.players[playerID]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	doc := repositories.PlayerStatsDoc{
		PastMatches: append([]models.PlayerMatchSummary(nil), p.PastMatches...),
		Totals:      p.Totals,
		LastMatch:   p.LastMatch,
	}
	if err := mutate(&doc); err != nil {
		return err
	}
	p.PastMatches = doc.PastMatches
	p.Totals = doc.Totals
	p.LastMatch = doc.LastMatch
	return nil
}

func (r *fakePlayerRepo) ListIDsByPastMatch(ctx context.Context, matchID int) ([]int, error) {
	var ids []int
	for _, p := range r.players {
		for _, s := range p.PastMatches {
			if s.MatchID == matchID {
				ids = append(ids, p.ID)
				break
			}
		}
	}
	sort.Ints(ids)
	return ids, nil
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
}

func newFakeTournamentRepo(tournaments ...models.Tournament) *fakeTournamentRepo {
	r := &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament)}
	for _, t := range tournaments {
		copied := t
		r.tournaments[t.ID] = &copied
	}
	return r
}

func (r *fakeTournamentRepo) Create(ctx context.Context, tournament *models.Tournament) error {
	copied := *tournament
	r.tournaments[tournament.ID] = &copied
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTournamentRepo) List(ctx context.Context, limit, offset int) ([]*models.Tournament, error) {
	var out []*models.Tournament
	for _, t := range r.tournaments {
		copied := *t
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTournamentRepo) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTournamentRepo) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.LogoKey = logoKey
	return nil
}

type fakeChampionRepo struct {
	nextID  int
	records map[int]*models.ChampionRecord
}

func newFakeChampionRepo() *fakeChampionRepo {
	return &fakeChampionRepo{nextID: 1, records: make(map[int]*models.ChampionRecord)}
}

func (r *fakeChampionRepo) Upsert(ctx context.Context, record *models.ChampionRecord) error {
	if existing, ok := r.records[record.TournamentID]; ok {
		record.ID = existing.ID
		record.RecordedAt = existing.RecordedAt
	} else {
		record.ID = r.nextID
		r.nextID++
		record.RecordedAt = time.Now()
	}
	copied := *record
	r.records[record.TournamentID] = &copied
	return nil
}

func (r *fakeChampionRepo) GetByTournament(ctx context.Context, tournamentID int) (*models.ChampionRecord, error) {
	rec, ok := r.records[tournamentID]
	if !ok {
		return nil, repositories.ErrChampionNotFound
	}
	copied := *rec
	return &copied, nil
}
