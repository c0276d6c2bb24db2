package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/julianstephens/sixtysix/internal/models"
	"github.com/julianstephens/sixtysix/internal/notify"
)

type jsonDocument struct {
	Version       int                       `json:"version"`
	Habits        map[string]models.Habit   `json:"habits"`
	Notifications map[string]notify.Request `json:"notifications"`
}

// JSONStore keeps everything in a single JSON document, rewritten on every
// change. It suits small collections and hand inspection.
type JSONStore struct {
	path string

	mu  sync.Mutex
	doc *jsonDocument
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{path: configPath}
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return s.load()
	}

	s.doc = &jsonDocument{
		Version:       1,
		Habits:        make(map[string]models.Habit),
		Notifications: make(map[string]notify.Request),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc != nil {
		return nil
	}
	return s.load()
}

func (s *JSONStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'sixtysix init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &jsonDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Habits == nil {
		doc.Habits = make(map[string]models.Habit)
	}
	if doc.Notifications == nil {
		doc.Notifications = make(map[string]notify.Request)
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// save writes to a temporary file and renames it over the document.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) loaded() error {
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *JSONStore) AddHabit(h models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.doc.Habits[h.ID]; ok {
		return fmt.Errorf("habit %s already exists", h.ID)
	}
	s.doc.Habits[h.ID] = h.Clone()
	return s.save()
}

func (s *JSONStore) GetHabit(id string) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return models.Habit{}, err
	}
	h, ok := s.doc.Habits[id]
	if !ok {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, ErrNotFound)
	}
	return h.Clone(), nil
}

func (s *JSONStore) GetHabitByTitle(title string) (models.Habit, error) {
	habits, err := s.GetAllHabits()
	if err != nil {
		return models.Habit{}, err
	}
	for _, h := range habits {
		if h.Title == title {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit %q: %w", title, ErrNotFound)
}

// GetAllHabits returns habits in creation order.
func (s *JSONStore) GetAllHabits() ([]models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return nil, err
	}

	habits := make([]models.Habit, 0, len(s.doc.Habits))
	for _, h := range s.doc.Habits {
		habits = append(habits, h.Clone())
	}
	sort.Slice(habits, func(i, j int) bool {
		if habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].ID < habits[j].ID
		}
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})
	return habits, nil
}

func (s *JSONStore) UpdateHabit(h models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.doc.Habits[h.ID]; !ok {
		return fmt.Errorf("habit %s: %w", h.ID, ErrNotFound)
	}
	s.doc.Habits[h.ID] = h.Clone()
	return s.save()
}

func (s *JSONStore) DeleteHabit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.doc.Habits[id]; !ok {
		return fmt.Errorf("habit %s: %w", id, ErrNotFound)
	}
	delete(s.doc.Habits, id)
	return s.save()
}

func (s *JSONStore) Cancel(_ context.Context, identifiers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	changed := false
	for _, id := range identifiers {
		if _, ok := s.doc.Notifications[id]; ok {
			delete(s.doc.Notifications, id)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save()
}

func (s *JSONStore) Add(_ context.Context, req notify.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.Notifications[req.Identifier] = req
	return s.save()
}

func (s *JSONStore) Pending(_ context.Context) ([]notify.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return nil, err
	}
	reqs := make([]notify.Request, 0, len(s.doc.Notifications))
	for _, r := range s.doc.Notifications {
		reqs = append(reqs, r)
	}
	notify.SortRequests(reqs)
	return reqs, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
