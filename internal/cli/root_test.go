package cli

import (
	"testing"

	"github.com/julianstephens/sixtysix/internal/models"
)

func TestProgressBar(t *testing.T) {
	h := models.Habit{CurrentStreak: 33}
	if got := ProgressBar(h, 10); got != "[#####-----]" {
		t.Errorf("ProgressBar() = %q", got)
	}
	h.CurrentStreak = 66
	if got := ProgressBar(h, 4); got != "[####]" {
		t.Errorf("ProgressBar() at goal = %q", got)
	}
}
