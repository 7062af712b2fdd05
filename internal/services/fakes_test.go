package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/soof-golan/tix-q/internal/models"
)

// fakeRoomRepo is an in-memory RoomRepository with observable call counts.
type fakeRoomRepo struct {
	mu       sync.Mutex
	rooms    map[uuid.UUID]*models.Room
	getCalls int
	err      error
}

func newFakeRoomRepo(rooms ...*models.Room) *fakeRoomRepo {
	m := make(map[uuid.UUID]*models.Room, len(rooms))
	for _, r := range rooms {
		m[r.ID] = r
	}
	return &fakeRoomRepo{rooms: m}
}

func (f *fakeRoomRepo) Create(_ context.Context, room *models.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rooms[room.ID] = room
	return nil
}

func (f *fakeRoomRepo) GetVisibleByID(_ context.Context, id uuid.UUID, callerID *uuid.UUID) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	room, ok := f.rooms[id]
	if !ok {
		return nil, nil
	}
	if room.Published {
		return room, nil
	}
	if callerID != nil && *callerID == room.OwnerID {
		return room, nil
	}
	return nil, nil
}

func (f *fakeRoomRepo) UpdateUnpublished(_ context.Context, room *models.Room) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.rooms[room.ID]
	if !ok || existing.Published || existing.OwnerID != room.OwnerID {
		return false, f.err
	}
	existing.Title = room.Title
	existing.Markdown = room.Markdown
	existing.OpensAt = room.OpensAt
	existing.ClosesAt = room.ClosesAt
	return true, nil
}

func (f *fakeRoomRepo) SetPublished(_ context.Context, id, ownerID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.rooms[id]
	if !ok || existing.OwnerID != ownerID {
		return false, f.err
	}
	existing.Published = true
	return true, nil
}

// fakeUserRepo upserts users in memory, counting round-trips.
type fakeUserRepo struct {
	mu          sync.Mutex
	users       map[string]*models.User
	upsertCalls int
	err         error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Upsert(_ context.Context, externalID, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertCalls++
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[externalID]; ok {
		u.Email = email
		return u, nil
	}
	u := &models.User{ID: uuid.New(), ExternalID: externalID, Email: email}
	f.users[externalID] = u
	return u, nil
}

// fakeRegistrantRepo captures every recorded attempt.
type fakeRegistrantRepo struct {
	mu      sync.Mutex
	created []*models.Registrant
	err     error
}

func (f *fakeRegistrantRepo) Create(_ context.Context, reg *models.Registrant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, reg)
	return nil
}

func (f *fakeRegistrantRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

// fakeVerifier returns a scripted outcome and counts calls, so tests can
// assert the single-use token contract (exactly one verification per
// request, none for absent tokens).
type fakeVerifier struct {
	mu      sync.Mutex
	outcome *models.TurnstileOutcome
	err     error
	calls   int
}

func (f *fakeVerifier) Verify(_ context.Context, token string) (*models.TurnstileOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token == "" {
		return models.NoTokenOutcome(), nil
	}
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

// nopNotifier satisfies DeployNotifier for room service tests.
type nopNotifier struct {
	mu    sync.Mutex
	calls int
}

func (n *nopNotifier) Notify(string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
}
