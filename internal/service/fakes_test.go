package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"alcyxob/trainer-scheduler/internal/domain"
	"alcyxob/trainer-scheduler/internal/repository"
)

type memSessionRepo struct {
	mu        sync.Mutex
	nextID    int
	sessions  map[string]domain.Session
	failList  error
	failOnDel map[string]error
	deleted   []string
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]domain.Session), failOnDel: make(map[string]error)}
}

func (r *memSessionRepo) CreateMany(_ context.Context, trainerID string, sessions []domain.Session) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Session, len(sessions))
	for i, s := range sessions {
		r.nextID++
		s.ID = fmt.Sprintf("s%d", r.nextID)
		s.TrainerID = trainerID
		s.Status = s.StoredStatus()
		r.sessions[s.ID] = s
		out[i] = s
	}
	return out, nil
}

func (r *memSessionRepo) put(s domain.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

func (r *memSessionRepo) ListByTrainer(_ context.Context, trainerID string) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failList != nil {
		return nil, r.failList
	}
	var out []domain.Session
	for _, s := range r.sessions {
		if s.TrainerID == trainerID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a := out[i].Date.String() + out[i].Time.String()
		b := out[j].Date.String() + out[j].Time.String()
		if a == b {
			return out[i].ID < out[j].ID
		}
		return a < b
	})
	return out, nil
}

func (r *memSessionRepo) GetByID(_ context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *memSessionRepo) UpdateStatus(_ context.Context, id, trainerID string, from, to domain.SessionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.TrainerID != trainerID {
		return repository.ErrNotFound
	}
	if s.StoredStatus() != from {
		return repository.ErrStatusChanged
	}
	s.Status = to
	r.sessions[id] = s
	return nil
}

func (r *memSessionRepo) Delete(_ context.Context, id, trainerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failOnDel[id]; err != nil {
		return err
	}
	s, ok := r.sessions[id]
	if !ok || s.TrainerID != trainerID {
		return repository.ErrNotFound
	}
	delete(r.sessions, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *memSessionRepo) CountByTrainer(ctx context.Context, trainerID string) (int64, error) {
	list, err := r.ListByTrainer(ctx, trainerID)
	return int64(len(list)), err
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return "", repository.ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("u%d", len(r.users)+1)
	}
	user.CreatedAt = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *memUserRepo) ListTrainers(_ context.Context, search string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	term := strings.ToLower(strings.TrimSpace(search))
	var out []domain.User
	for _, u := range r.users {
		if u.Role != domain.RoleTrainer {
			continue
		}
		hay := strings.ToLower(u.Name + "\x00" + u.Username + "\x00" + u.Email)
		if term == "" || strings.Contains(hay, term) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memStorage struct {
	objects     map[string][]byte
	types       map[string]string
	failPut     error
	failPresign error
	failDelete  error
	deletedKeys []string
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (m *memStorage) PutObject(_ context.Context, key, contentType string, body []byte) error {
	if m.failPut != nil {
		return m.failPut
	}
	m.objects[key] = body
	m.types[key] = contentType
	return nil
}

func (m *memStorage) GeneratePresignedDownloadURL(_ context.Context, key string, expires time.Duration) (string, error) {
	if m.failPresign != nil {
		return "", m.failPresign
	}
	if _, ok := m.objects[key]; !ok {
		return "", errors.New("no such key")
	}
	return fmt.Sprintf("https://bucket.example/%s?expires=%d", key, int(expires.Seconds())), nil
}

func (m *memStorage) DeleteObject(_ context.Context, key string) error {
	m.deletedKeys = append(m.deletedKeys, key)
	if m.failDelete != nil {
		return m.failDelete
	}
	delete(m.objects, key)
	return nil
}

// staleSessionRepo serves a fixed snapshot from GetByID, as a reader that
// loaded the session before another request changed it would see.
type staleSessionRepo struct {
	*memSessionRepo
	snapshot domain.Session
}

func (r *staleSessionRepo) GetByID(_ context.Context, id string) (*domain.Session, error) {
	if id != r.snapshot.ID {
		return nil, repository.ErrNotFound
	}
	s := r.snapshot
	return &s, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func mustDate(s string) domain.Date {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func mustTime(s string) domain.TimeOfDay {
	t, err := domain.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func session(id, trainerID, day, hhmm string, status domain.SessionStatus) domain.Session {
	return domain.Session{
		ID:              id,
		TrainerID:       trainerID,
		Title:           "Strength",
		ClientName:      "Alex",
		SessionType:     "personal",
		Date:            mustDate(day),
		Time:            mustTime(hhmm),
		DurationMinutes: 60,
		Status:          status,
	}
}
