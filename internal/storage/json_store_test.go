package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/sixtysix/internal/models"
	"github.com/julianstephens/sixtysix/internal/notify"
)

func TestJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits.json")
	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"b", "a"} {
		h := models.Habit{ID: id, Title: "Habit " + id, Chapter: 1, Status: models.HabitStatusActive, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := store.AddHabit(h); err != nil {
			t.Fatalf("AddHabit(%s) failed: %v", id, err)
		}
	}
	if err := store.Add(context.Background(), notify.Request{Identifier: "motivation-a", Trigger: notify.DailyAt(8, 0)}); err != nil {
		t.Fatal(err)
	}

	reopened := NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	habits, err := reopened.GetAllHabits()
	if err != nil || len(habits) != 2 || habits[0].ID != "b" {
		t.Fatalf("GetAllHabits() = %v, %v", habits, err)
	}
	if h, err := reopened.GetHabitByTitle("Habit a"); err != nil || h.ID != "a" {
		t.Errorf("GetHabitByTitle() = %v, %v", h.ID, err)
	}

	habits[0].CurrentStreak = 1
	habits[0].CompletedDates = []time.Time{base}
	if err := reopened.UpdateHabit(habits[0]); err != nil {
		t.Fatalf("UpdateHabit() failed: %v", err)
	}
	if h, _ := reopened.GetHabit("b"); h.CurrentStreak != 1 {
		t.Errorf("UpdateHabit() not persisted: %+v", h)
	}

	pending, _ := reopened.Pending(context.Background())
	if len(pending) != 1 {
		t.Errorf("Pending() = %v", pending)
	}
	if err := reopened.Cancel(context.Background(), []string{"motivation-a"}); err != nil {
		t.Fatal(err)
	}

	if err := reopened.DeleteHabit("a"); err != nil {
		t.Fatalf("DeleteHabit() failed: %v", err)
	}
	if _, err := reopened.GetHabit("a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetHabit() after delete = %v, want ErrNotFound", err)
	}
}

func TestJSONStoreNotLoaded(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	if err := store.Load(); err == nil {
		t.Error("Load() on missing file should fail")
	}
	if _, err := store.GetAllHabits(); err == nil {
		t.Error("GetAllHabits() before load should fail")
	}
}
