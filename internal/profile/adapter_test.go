package profile_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"efi_checklist/internal/model"
	"efi_checklist/internal/profile"
	"efi_checklist/internal/repository"
	"efi_checklist/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func expectEmptyProfile(m *mocks.ProfileStore, id string) {
	m.On("GetStats", mock.Anything, mock.Anything, id).Return(nil, model.ErrNotFound).Once()
	m.On("GetAvatar", mock.Anything, mock.Anything, id).Return("", model.ErrNotFound).Once()
	m.On("GetHistory", mock.Anything, mock.Anything, id).Return(nil, model.ErrNotFound).Once()
	m.On("GetNotifications", mock.Anything, mock.Anything, id).Return(false, model.ErrNotFound).Once()
	m.On("GetDisplayName", mock.Anything, mock.Anything, id).Return("", model.ErrNotFound).Once()
}

func TestAdapter_LoadDefaults(t *testing.T) {
	store := mocks.NewProfileStore(t)
	expectEmptyProfile(store, "cat-1")
	a := profile.NewAdapter(nil, store)

	state, err := a.Load(context.Background(), "cat-1")
	require.NoError(t, err)
	assert.Equal(t, "cat-1", state.ProfileID)
	assert.Equal(t, 0, state.Stats.TotalPoints)
	assert.Len(t, state.Stats.Achievements, 6)
	assert.NotNil(t, state.History)
	assert.Empty(t, state.History)
	assert.False(t, state.NotificationsEnabled)
	assert.Empty(t, state.DisplayName)

	id, loaded := a.Active()
	assert.Equal(t, "cat-1", id)
	assert.True(t, loaded)
}

func TestAdapter_LoadOverlaysAvatar(t *testing.T) {
	store := mocks.NewProfileStore(t)
	stats := model.UserStats{TotalPoints: 120, Achievements: model.DefaultAchievements()}
	store.On("GetStats", mock.Anything, mock.Anything, "cat-1").Return(&stats, nil).Once()
	store.On("GetAvatar", mock.Anything, mock.Anything, "cat-1").Return("data:image/png;base64,QQ==", nil).Once()
	store.On("GetHistory", mock.Anything, mock.Anything, "cat-1").Return([]model.WeeklyHistoryEntry{{Week: 43, Percentage: 100}}, nil).Once()
	store.On("GetNotifications", mock.Anything, mock.Anything, "cat-1").Return(true, nil).Once()
	store.On("GetDisplayName", mock.Anything, mock.Anything, "cat-1").Return("Ana", nil).Once()
	a := profile.NewAdapter(nil, store)

	state, err := a.Load(context.Background(), "cat-1")
	require.NoError(t, err)
	assert.Equal(t, 120, state.Stats.TotalPoints)
	assert.Equal(t, "data:image/png;base64,QQ==", state.Stats.AvatarURL)
	assert.Len(t, state.History, 1)
	assert.True(t, state.NotificationsEnabled)
	assert.Equal(t, "Ana", state.DisplayName)
}

func TestAdapter_CorruptRecordsResetToDefaults(t *testing.T) {
	store := mocks.NewProfileStore(t)
	store.On("GetStats", mock.Anything, mock.Anything, "cat-1").Return(nil, fmt.Errorf("wrapped: %w", model.ErrCorruptRecord)).Once()
	store.On("GetAvatar", mock.Anything, mock.Anything, "cat-1").Return("", model.ErrNotFound).Once()
	store.On("GetHistory", mock.Anything, mock.Anything, "cat-1").Return(nil, model.ErrCorruptRecord).Once()
	store.On("GetNotifications", mock.Anything, mock.Anything, "cat-1").Return(false, nil).Once()
	store.On("GetDisplayName", mock.Anything, mock.Anything, "cat-1").Return("", model.ErrNotFound).Once()
	a := profile.NewAdapter(nil, store)

	state, err := a.Load(context.Background(), "cat-1")
	require.NoError(t, err)
	assert.Equal(t, 0, state.Stats.TotalPoints)
	assert.Len(t, state.Stats.Achievements, 6)
	assert.Empty(t, state.History)
}

func TestAdapter_StoreFailureKeepsGateClosed(t *testing.T) {
	store := mocks.NewProfileStore(t)
	store.On("GetStats", mock.Anything, mock.Anything, "cat-1").Return(nil, errors.New("connection refused")).Once()
	a := profile.NewAdapter(nil, store)

	_, err := a.Load(context.Background(), "cat-1")
	require.Error(t, err)

	// SetStats は期待値に無いため、呼ばれればモックが失敗させる
	require.NoError(t, a.SaveStats(context.Background(), "cat-1", model.UserStats{TotalPoints: 10}))
	_, loaded := a.Active()
	assert.False(t, loaded)
}

func TestAdapter_SaveBeforeLoadIsNoop(t *testing.T) {
	store := mocks.NewProfileStore(t)
	a := profile.NewAdapter(nil, store)
	ctx := context.Background()

	assert.NoError(t, a.SaveStats(ctx, "cat-1", model.UserStats{}))
	assert.NoError(t, a.SaveHistory(ctx, "cat-1", nil))
	assert.NoError(t, a.SaveAvatar(ctx, "cat-1", "data:image/png;base64,QQ=="))
	assert.NoError(t, a.SaveNotifications(ctx, "cat-1", true))
	assert.NoError(t, a.SaveDisplayName(ctx, "cat-1", "Ana"))
}

func TestAdapter_EmptyIDHasNoActiveProfile(t *testing.T) {
	store := mocks.NewProfileStore(t)
	a := profile.NewAdapter(nil, store)

	state, err := a.Load(context.Background(), "   ")
	require.NoError(t, err)
	assert.Len(t, state.Stats.Achievements, 6)

	assert.NoError(t, a.SaveStats(context.Background(), "", model.UserStats{}))
	_, loaded := a.Active()
	assert.False(t, loaded)
}

func TestAdapter_SaveForOtherProfileIsNoop(t *testing.T) {
	store := mocks.NewProfileStore(t)
	expectEmptyProfile(store, "cat-1")
	store.On("SetDisplayName", mock.Anything, mock.Anything, "cat-1", "Ana").Return(nil).Once()
	a := profile.NewAdapter(nil, store)
	ctx := context.Background()

	_, err := a.Load(ctx, "cat-1")
	require.NoError(t, err)

	require.NoError(t, a.SaveDisplayName(ctx, "cat-2", "Luis"))
	require.NoError(t, a.SaveDisplayName(ctx, "cat-1", "Ana"))
	require.NoError(t, a.SaveAvatar(ctx, "cat-1", ""))
}

// 古いプロフィールの読み込み中に切り替えが起きた場合、
// どちらのプロフィールにも他方の状態が書き込まれないこと。
func TestAdapter_SwitchDuringLoad(t *testing.T) {
	store := mocks.NewProfileStore(t)
	started := make(chan struct{})
	release := make(chan struct{})

	store.On("GetStats", mock.Anything, mock.Anything, "old").
		Run(func(args mock.Arguments) {
			close(started)
			<-release
		}).
		Return(nil, model.ErrNotFound).Once()
	store.On("GetAvatar", mock.Anything, mock.Anything, "old").Return("", model.ErrNotFound).Once()
	store.On("GetHistory", mock.Anything, mock.Anything, "old").Return(nil, model.ErrNotFound).Once()
	store.On("GetNotifications", mock.Anything, mock.Anything, "old").Return(false, model.ErrNotFound).Once()
	store.On("GetDisplayName", mock.Anything, mock.Anything, "old").Return("", model.ErrNotFound).Once()
	expectEmptyProfile(store, "new")
	store.On("SetStats", mock.Anything, mock.Anything, "new", mock.AnythingOfType("model.UserStats")).Return(nil).Once()

	a := profile.NewAdapter(nil, store)
	ctx := context.Background()

	type result struct {
		state *model.ProfileState
		err   error
	}
	oldDone := make(chan result, 1)
	go func() {
		s, err := a.Load(ctx, "old")
		oldDone <- result{s, err}
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("old load never reached the store")
	}

	// 切り替え中は old への保存は無視される
	require.NoError(t, a.SaveStats(ctx, "old", model.UserStats{TotalPoints: 999}))

	_, err := a.Load(ctx, "new")
	require.NoError(t, err)

	close(release)
	res := <-oldDone
	assert.ErrorIs(t, res.err, profile.ErrSwitched)
	assert.Nil(t, res.state)

	id, loaded := a.Active()
	assert.Equal(t, "new", id)
	assert.True(t, loaded)

	require.NoError(t, a.SaveStats(ctx, "old", model.UserStats{TotalPoints: 999}))
	require.NoError(t, a.SaveStats(ctx, "new", model.UserStats{TotalPoints: 10}))
}

// Begin の順序が勝者を決める。読み込みが終わる順序には依存しない
func TestAdapter_LatestBeginWins(t *testing.T) {
	testCases := []struct {
		name        string
		finishFirst string
	}{
		{"後発が先に読み終わる", "b"},
		{"先発が先に読み終わる", "a"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := mocks.NewProfileStore(t)
			expectEmptyProfile(store, "a")
			expectEmptyProfile(store, "b")
			store.On("SetStats", mock.Anything, mock.Anything, "b", mock.AnythingOfType("model.UserStats")).Return(nil).Once()

			a := profile.NewAdapter(nil, store)
			ctx := context.Background()

			first := a.Begin("a")
			second := a.Begin(" b ")
			assert.Equal(t, "b", second.ProfileID)

			var errA, errB error
			if tc.finishFirst == "b" {
				_, errB = a.Finish(ctx, second)
				_, errA = a.Finish(ctx, first)
			} else {
				_, errA = a.Finish(ctx, first)
				_, errB = a.Finish(ctx, second)
			}
			assert.ErrorIs(t, errA, profile.ErrSwitched)
			require.NoError(t, errB)

			id, loaded := a.Active()
			assert.Equal(t, "b", id)
			assert.True(t, loaded)

			require.NoError(t, a.SaveStats(ctx, "a", model.UserStats{TotalPoints: 999}))
			require.NoError(t, a.SaveStats(ctx, "b", model.UserStats{TotalPoints: 10}))
		})
	}
}

func TestAdapter_WithGormStore(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:adapter_gorm?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	ctx := context.Background()
	a := profile.NewAdapter(db, repository.NewGormProfileStore())

	_, err = a.Load(ctx, "cat-9")
	require.NoError(t, err)
	stats := profile.DefaultState("cat-9").Stats
	stats.TotalPoints = 170
	require.NoError(t, a.SaveStats(ctx, "cat-9", stats))
	require.NoError(t, a.SaveHistory(ctx, "cat-9", []model.WeeklyHistoryEntry{{Week: 43, Percentage: 100, CompletedTasks: 17}}))
	require.NoError(t, a.SaveDisplayName(ctx, "cat-9", "María"))
	require.NoError(t, a.SaveNotifications(ctx, "cat-9", true))

	// 別プロフィールに切り替えてから戻る
	other, err := a.Load(ctx, "cat-10")
	require.NoError(t, err)
	assert.Equal(t, 0, other.Stats.TotalPoints)

	back, err := a.Load(ctx, "cat-9")
	require.NoError(t, err)
	assert.Equal(t, 170, back.Stats.TotalPoints)
	assert.Equal(t, "María", back.DisplayName)
	assert.True(t, back.NotificationsEnabled)
	require.Len(t, back.History, 1)
	assert.Equal(t, 17, back.History[0].CompletedTasks)
}
