// Package prefs stores small process-wide values (review counters, the
// notification permission flag) as one file per key.
package prefs

import (
	"fmt"
	"strconv"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"github.com/julianstephens/sixtysix/internal/constants"
	"github.com/julianstephens/sixtysix/internal/models"
)

type Store struct {
	d *diskv.Diskv
}

// Open returns a store rooted at dir. The directory is created on first write.
func Open(dir string) *Store {
	return &Store{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 64 * 1024,
	})}
}

func (s *Store) read(key string) (string, bool, error) {
	if !s.d.Has(key) {
		return "", false, nil
	}
	val, err := s.d.Read(key)
	if err != nil {
		return "", false, fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return string(val), true, nil
}

func (s *Store) write(key, val string) error {
	if err := s.d.Write(key, []byte(val)); err != nil {
		return fmt.Errorf("failed to write preference %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("failed to delete preference %s: %w", key, err)
	}
	return nil
}

// GetInt returns 0 for a missing key.
func (s *Store) GetInt(key string) (int, error) {
	val, ok, err := s.read(key)
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("preference %s is not an integer: %w", key, err)
	}
	return n, nil
}

func (s *Store) SetInt(key string, n int) error {
	return s.write(key, strconv.Itoa(n))
}

// GetTime returns nil for a missing key.
func (s *Store) GetTime(key string) (*time.Time, error) {
	val, ok, err := s.read(key)
	if err != nil || !ok {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		return nil, fmt.Errorf("preference %s is not a timestamp: %w", key, err)
	}
	return &t, nil
}

// SetTime stores t, or deletes key when t is nil.
func (s *Store) SetTime(key string, t *time.Time) error {
	if t == nil {
		return s.Delete(key)
	}
	return s.write(key, t.Format(time.RFC3339Nano))
}

func (s *Store) GetBool(key string) (bool, error) {
	val, ok, err := s.read(key)
	if err != nil || !ok {
		return false, err
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("preference %s is not a boolean: %w", key, err)
	}
	return b, nil
}

func (s *Store) SetBool(key string, b bool) error {
	return s.write(key, strconv.FormatBool(b))
}

// NotificationsGranted reports the stored notification permission. It is
// false until granted.
func (s *Store) NotificationsGranted() bool {
	granted, err := s.GetBool(constants.NotificationPermissionKey)
	return err == nil && granted
}

func (s *Store) SetNotificationsGranted(granted bool) error {
	return s.SetBool(constants.NotificationPermissionKey, granted)
}

// ReviewCounters persists the review gate state under its three keys.
type ReviewCounters struct {
	Store *Store
}

func (c ReviewCounters) Load() (models.ReviewState, error) {
	var st models.ReviewState
	var err error
	if st.PromptCount, err = c.Store.GetInt(constants.ReviewPromptCountKey); err != nil {
		return models.ReviewState{}, err
	}
	if st.LastPromptDate, err = c.Store.GetTime(constants.LastReviewPromptDateKey); err != nil {
		return models.ReviewState{}, err
	}
	if st.EpochStart, err = c.Store.GetTime(constants.ReviewPromptEpochStartKey); err != nil {
		return models.ReviewState{}, err
	}
	return st, nil
}

func (c ReviewCounters) Save(st models.ReviewState) error {
	if err := c.Store.SetInt(constants.ReviewPromptCountKey, st.PromptCount); err != nil {
		return err
	}
	if err := c.Store.SetTime(constants.LastReviewPromptDateKey, st.LastPromptDate); err != nil {
		return err
	}
	return c.Store.SetTime(constants.ReviewPromptEpochStartKey, st.EpochStart)
}

// Clear removes all three counters.
func (c ReviewCounters) Clear() error {
	for _, key := range []string{
		constants.ReviewPromptCountKey,
		constants.LastReviewPromptDateKey,
		constants.ReviewPromptEpochStartKey,
	} {
		if err := c.Store.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
