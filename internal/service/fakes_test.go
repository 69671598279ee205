package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"vacation-planner/internal/models"

	"github.com/google/uuid"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.VacationRequests = append([]models.VacationRequest(nil), u.VacationRequests...)
	return &c
}

// fakeUserRepo keeps copies, like a real store would.
type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]*models.User
	saveErr error
	saves   int
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		repo.users[u.Username] = cloneUser(u)
	}
	return repo
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByChatID(_ context.Context, chatID int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ChatID != nil && *u.ChatID == chatID {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetAll(_ context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var users []*models.User
	for _, u := range f.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (f *fakeUserRepo) Save(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	for i := range user.VacationRequests {
		if user.VacationRequests[i].ID == uuid.Nil {
			user.VacationRequests[i].ID = uuid.New()
		}
	}
	f.users[user.Username] = cloneUser(user)
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.Username]; !ok {
		return errors.New("user not found")
	}
	delete(f.users, user.Username)
	return nil
}

func (f *fakeUserRepo) GetAdmins(_ context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var admins []*models.User
	for _, u := range f.users {
		if u.IsAdmin() {
			admins = append(admins, cloneUser(u))
		}
	}
	return admins, nil
}

func (f *fakeUserRepo) GetStats(_ context.Context) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	admins := 0
	for _, u := range f.users {
		if u.IsAdmin() {
			admins++
		}
	}
	return len(f.users), admins, nil
}

type fakeRequestStore struct {
	mu       sync.Mutex
	requests map[uuid.UUID]models.VacationRequest
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: map[uuid.UUID]models.VacationRequest{}}
}

func (f *fakeRequestStore) Save(_ context.Context, r *models.VacationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	f.requests[r.ID] = *r
	return nil
}

func (f *fakeRequestStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.requests, id)
	return nil
}

func (f *fakeRequestStore) GetByID(_ context.Context, id uuid.UUID) (*models.VacationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeRequestStore) list(keep func(models.VacationRequest) bool) []models.VacationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.VacationRequest
	for _, r := range f.requests {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

func (f *fakeRequestStore) GetAll(_ context.Context) ([]models.VacationRequest, error) {
	return f.list(func(models.VacationRequest) bool { return true }), nil
}

func (f *fakeRequestStore) GetByUsername(_ context.Context, username string) ([]models.VacationRequest, error) {
	return f.list(func(r models.VacationRequest) bool { return r.Username == username }), nil
}

func (f *fakeRequestStore) GetPending(_ context.Context) ([]models.VacationRequest, error) {
	return f.list(func(r models.VacationRequest) bool { return r.Status == models.StatusPending }), nil
}

type fakeHolidays struct {
	mu       sync.Mutex
	holidays []models.NationalHoliday
	err      error
	years    []int
}

func (f *fakeHolidays) GetHolidays(_ context.Context, year int, _ string) ([]models.NationalHoliday, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.years = append(f.years, year)
	return f.holidays, f.err
}
