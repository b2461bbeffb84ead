package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rajatvd/GifGenerator/internal/data"
	"github.com/rajatvd/GifGenerator/internal/domain/model"
	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
	"github.com/rajatvd/GifGenerator/internal/mocks"
)

func sampleSummary() model.RunSummary {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return model.RunSummary{
		RunID:      "run-42",
		Generator:  "neural_ode",
		StartedAt:  start,
		FinishedAt: start.Add(3 * time.Minute),
		Requested:  2,
		Items: []model.ItemOutcome{
			{Seq: 1, Status: model.ItemDelivered, Path: "gifs/neural_ode_gifs/neural_ode_1.mp4", Attempts: 1},
			{Seq: 2, Status: model.ItemGenerationFailed, Attempts: 3, FailureReason: model.FailureTimeoutExhausted},
		},
	}
}

func TestStatusService_RunFinishedWritesCacheAndHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCacheRepository(ctrl)
	history := mocks.NewMockRunHistoryRepository(ctrl)
	summary := sampleSummary()

	cache.EXPECT().Set(gomock.Any(), LastRunKey, gomock.Any(), time.Hour).
		DoAndReturn(func(ctx context.Context, _ string, value []byte, _ time.Duration) error {
			var got model.RunSummary
			require.NoError(t, json.Unmarshal(value, &got))
			assert.Equal(t, summary.RunID, got.RunID)
			assert.Len(t, got.Items, 2)
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return nil
		})
	history.EXPECT().Record(gomock.Any(), summary).Return(nil)

	svc := NewStatusService(StatusServiceOptions{Cache: cache, History: history, TTL: time.Hour})

	// A canceled parent must not prevent recording.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.RunFinished(ctx, summary)
}

func TestStatusService_RunFinishedSwallowsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCacheRepository(ctrl)
	history := mocks.NewMockRunHistoryRepository(ctrl)

	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
	history.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	svc := NewStatusService(StatusServiceOptions{Cache: cache, History: history})
	svc.RunFinished(context.Background(), sampleSummary())
}

func TestStatusService_LastRunFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCacheRepository(ctrl)
	summary := sampleSummary()
	b, err := json.Marshal(summary)
	require.NoError(t, err)
	cache.EXPECT().Get(gomock.Any(), LastRunKey).Return(b, nil)

	svc := NewStatusService(StatusServiceOptions{Cache: cache})
	got, err := svc.LastRun(context.Background())

	require.NoError(t, err)
	assert.Equal(t, summary.RunID, got.RunID)
	assert.True(t, summary.StartedAt.Equal(got.StartedAt))
}

func TestStatusService_LastRunFallsBackToHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCacheRepository(ctrl)
	history := mocks.NewMockRunHistoryRepository(ctrl)
	cache.EXPECT().Get(gomock.Any(), LastRunKey).Return(nil, nil)
	history.EXPECT().ListRecent(gomock.Any(), 1).Return([]model.RunSummary{sampleSummary()}, nil)

	svc := NewStatusService(StatusServiceOptions{Cache: cache, History: history})
	got, err := svc.LastRun(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "run-42", got.RunID)
}

func TestStatusService_LastRunNotFound(t *testing.T) {
	svc := NewStatusService(StatusServiceOptions{})
	_, err := svc.LastRun(context.Background())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStatusService_ClearLastRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCacheRepository(ctrl)
	gomock.InOrder(
		cache.EXPECT().Delete(gomock.Any(), LastRunKey).Return(true, nil),
		cache.EXPECT().Delete(gomock.Any(), LastRunKey).Return(false, errors.New("redis down")),
	)
	svc := NewStatusService(StatusServiceOptions{Cache: cache})

	removed, err := svc.ClearLastRun(context.Background())
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = svc.ClearLastRun(context.Background())
	assert.ErrorContains(t, err, "redis down")

	_, err = NewStatusService(StatusServiceOptions{}).ClearLastRun(context.Background())
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestStatusService_ClearLastRunFallsBackToHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	history := mocks.NewMockRunHistoryRepository(ctrl)
	history.EXPECT().ListRecent(gomock.Any(), 1).Return([]model.RunSummary{sampleSummary()}, nil)

	cache := data.NewMemoryCacheRepo(time.Minute)
	svc := NewStatusService(StatusServiceOptions{Cache: cache, History: history})
	newer := sampleSummary()
	newer.RunID = "run-43"
	require.NoError(t, svc.cacheLastRun(context.Background(), newer))

	removed, err := svc.ClearLastRun(context.Background())
	require.NoError(t, err)
	assert.True(t, removed)

	got, err := svc.LastRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "run-42", got.RunID)
}

func TestStatusService_HistoryDisabled(t *testing.T) {
	svc := NewStatusService(StatusServiceOptions{})

	_, err := svc.Recent(context.Background(), 5)
	assert.True(t, apperrors.IsConfiguration(err))
	_, err = svc.Run(context.Background(), "x")
	assert.True(t, apperrors.IsConfiguration(err))
	assert.NoError(t, svc.Health(context.Background()))
}
