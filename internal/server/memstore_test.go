package server

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/brk3/wellnest/internal/storage"
	"github.com/brk3/wellnest/pkg/wellness"
)

var errStoreDown = errors.New("store down")

type memStore struct {
	mu       sync.RWMutex
	users    map[string]wellness.User
	habits   map[string]map[string]wellness.Habit
	food     map[string][]wellness.FoodLogEntry
	journals map[string]map[string]wellness.JournalEntry
	goals    map[string]wellness.UserGoals
	keys     map[string]string

	// failing makes every read of user data return errStoreDown.
	failing bool
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]wellness.User{},
		habits:   map[string]map[string]wellness.Habit{},
		food:     map[string][]wellness.FoodLogEntry{},
		journals: map[string]map[string]wellness.JournalEntry{},
		goals:    map[string]wellness.UserGoals{},
		keys:     map[string]string{},
	}
}

func (m *memStore) down() error {
	if m.failing {
		return errStoreDown
	}
	return nil
}

func (m *memStore) GetUser(userID string) (wellness.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	return u, ok, m.down()
}

func (m *memStore) PutUser(u wellness.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *memStore) Timezone(userID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[userID].Timezone, m.down()
}

func (m *memStore) ListUserIDs() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []string{}
	for id := range m.users {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (m *memStore) GetHabit(userID, habitID string) (wellness.Habit, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.habits[userID][habitID]
	return h, ok, m.down()
}

func (m *memStore) PutHabit(userID string, h wellness.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.habits[userID] == nil {
		m.habits[userID] = map[string]wellness.Habit{}
	}
	m.habits[userID][h.ID] = h
	return nil
}

func (m *memStore) FindHabitsByUser(userID string) ([]wellness.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []wellness.Habit{}
	for _, h := range m.habits[userID] {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, m.down()
}

func (m *memStore) DeleteHabit(userID, habitID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.habits[userID][habitID]
	delete(m.habits[userID], habitID)
	return ok, nil
}

func (m *memStore) PutFoodLog(userID string, f wellness.FoodLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.food[userID] = append(m.food[userID], f)
	return nil
}

func (m *memStore) FindFoodLogsByUser(userID string) ([]wellness.FoodLogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]wellness.FoodLogEntry{}, m.food[userID]...), m.down()
}

func (m *memStore) FindFoodLogsByUserAndRange(userID string, start, end time.Time) ([]wellness.FoodLogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []wellness.FoodLogEntry{}
	for _, f := range m.food[userID] {
		if !f.Date.Before(start) && !f.Date.After(end) {
			out = append(out, f)
		}
	}
	return out, m.down()
}

func (m *memStore) DeleteFoodLog(userID, foodID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	logs := m.food[userID]
	for i, f := range logs {
		if f.ID == foodID {
			m.food[userID] = append(logs[:i], logs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) PutJournal(userID string, j wellness.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.journals[userID] == nil {
		m.journals[userID] = map[string]wellness.JournalEntry{}
	}
	m.journals[userID][j.Date] = j
	return nil
}

func (m *memStore) FindJournalByUserAndDate(userID, day string) (*wellness.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.down(); err != nil {
		return nil, err
	}
	j, ok := m.journals[userID][day]
	if !ok {
		return nil, nil
	}
	return &j, nil
}

func (m *memStore) FindJournalByUserAndRange(userID string, start, end time.Time) (*wellness.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.down(); err != nil {
		return nil, err
	}
	for k, j := range m.journals[userID] {
		at, err := time.Parse(time.RFC3339Nano, k)
		if err != nil || at.Before(start) || at.After(end) {
			continue
		}
		return &j, nil
	}
	return nil, nil
}

func (m *memStore) ListJournals(userID string) ([]wellness.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []wellness.JournalEntry{}
	for _, j := range m.journals[userID] {
		out = append(out, j)
	}
	return out, m.down()
}

func (m *memStore) PutGoals(userID string, g wellness.UserGoals) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals[userID] = g
	return nil
}

func (m *memStore) FindGoalsByUser(userID string) (*wellness.UserGoals, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.down(); err != nil {
		return nil, err
	}
	g, ok := m.goals[userID]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (m *memStore) DeleteGoals(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.goals, userID)
	return nil
}

func (m *memStore) PutAPIKey(keyHash, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[keyHash] = userID
	return nil
}

func (m *memStore) GetAPIKey(keyHash string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	userID, ok := m.keys[keyHash]
	return userID, ok, nil
}

func (m *memStore) DeleteAPIKey(keyHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, keyHash)
	return nil
}

func (m *memStore) ListAPIKeyHashes(userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for h, u := range m.keys {
		if u == userID {
			out = append(out, h)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memStore) Close() error {
	return nil
}

var _ storage.Store = (*memStore)(nil)
