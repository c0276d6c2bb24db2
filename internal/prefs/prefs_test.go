package prefs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/sixtysix/internal/models"
)

func TestStoreTypedValues(t *testing.T) {
	s := Open(t.TempDir())

	n, err := s.GetInt("missing")
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, s.SetInt("count", 2))
	n, err = s.GetInt("count")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ts, err := s.GetTime("when")
	require.NoError(t, err)
	assert.Nil(t, ts)

	at := time.Date(2025, 4, 1, 9, 15, 30, 500, time.UTC)
	require.NoError(t, s.SetTime("when", &at))
	ts, err = s.GetTime("when")
	require.NoError(t, err)
	require.NotNil(t, ts)
	assert.True(t, at.Equal(*ts))

	require.NoError(t, s.SetTime("when", nil))
	ts, err = s.GetTime("when")
	require.NoError(t, err)
	assert.Nil(t, ts)

	require.NoError(t, s.SetInt("bad", 1))
	require.NoError(t, s.Delete("bad"))
	require.NoError(t, s.Delete("bad"))
}

func TestNotificationPermission(t *testing.T) {
	dir := t.TempDir()
	s := Open(dir)
	assert.False(t, s.NotificationsGranted())

	require.NoError(t, s.SetNotificationsGranted(true))
	assert.True(t, Open(dir).NotificationsGranted())
}

func TestReviewCountersPersist(t *testing.T) {
	dir := t.TempDir()
	c := ReviewCounters{Store: Open(dir)}

	st, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, models.ReviewState{}, st)

	last := time.Date(2025, 5, 1, 20, 0, 0, 0, time.UTC)
	epoch := last.AddDate(0, -2, 0)
	require.NoError(t, c.Save(models.ReviewState{PromptCount: 2, LastPromptDate: &last, EpochStart: &epoch}))

	reopened := ReviewCounters{Store: Open(dir)}
	st, err = reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, st.PromptCount)
	assert.True(t, last.Equal(*st.LastPromptDate))
	assert.True(t, epoch.Equal(*st.EpochStart))

	require.NoError(t, reopened.Clear())
	st, err = reopened.Load()
	require.NoError(t, err)
	assert.Zero(t, st.PromptCount)
	assert.Nil(t, st.LastPromptDate)
	assert.Nil(t, st.EpochStart)
}
