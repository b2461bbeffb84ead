package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rajatvd/GifGenerator/internal/core"
	"github.com/rajatvd/GifGenerator/internal/domain/generator"
	"github.com/rajatvd/GifGenerator/internal/domain/model"
	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
	"github.com/rajatvd/GifGenerator/internal/mocks"
	"github.com/rajatvd/GifGenerator/internal/observability/metrics"
	"github.com/rajatvd/GifGenerator/internal/observability/notify"
	"github.com/rajatvd/GifGenerator/internal/observability/statsd"
)

var testDestination = model.Destination{ID: "-100123", Token: "bot-token"}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func testJobSpec(dir string, count, maxAttempts int) model.JobSpec {
	return model.JobSpec{
		GeneratorName:     "test_gen",
		Config:            model.GenerationConfig{"frames": 10},
		Destination:       testDestination,
		OutputDir:         dir,
		NamePrefix:        "g_",
		Extension:         ".gif",
		ArtifactCount:     count,
		PerAttemptTimeout: testAttemptTimeout,
		MaxAttempts:       maxAttempts,
		Interval:          time.Hour,
		DeliveryTimeout:   time.Second,
	}
}

type jobFixture struct {
	channel  *mocks.MockDeliveryChannel
	session  *mocks.MockDeliverySession
	notifier *mocks.MockFailureNotifier
	observer *mocks.MockRunObserver
	metrics  *statsd.Recorder
	svc      *JobService
}

func newJobFixture(t *testing.T, r *scriptedRenderer) *jobFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	registry, err := generator.NewRegistry(generator.Capability{
		Name:      "test_gen",
		Prefix:    "g_",
		Extension: ".gif",
		Invoke:    r.Render,
	})
	require.NoError(t, err)

	f := &jobFixture{
		channel:  mocks.NewMockDeliveryChannel(ctrl),
		session:  mocks.NewMockDeliverySession(ctrl),
		notifier: mocks.NewMockFailureNotifier(ctrl),
		observer: mocks.NewMockRunObserver(ctrl),
		metrics:  &statsd.Recorder{},
	}
	f.channel.EXPECT().Name().Return("fake").AnyTimes()

	f.svc, err = NewJobService(JobServiceOptions{
		Registry:   registry,
		Generation: NewGenerationService(GenerationServiceOptions{Metrics: f.metrics}),
		Channel:    f.channel,
		Notifier:   f.notifier,
		Observers:  []core.RunObserver{f.observer},
		Clock:      fixedClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		Metrics:    f.metrics,
		NewRunID:   func() string { return "run-1" },
	})
	require.NoError(t, err)
	return f
}

func TestRunJob_GeneratesAndDeliversInOrder(t *testing.T) {
	dir := t.TempDir()
	f := newJobFixture(t, &scriptedRenderer{steps: []string{"ok"}})
	spec := testJobSpec(dir, 2, 3)

	first := filepath.Join(dir, "g_1.gif")
	second := filepath.Join(dir, "g_2.gif")
	f.channel.EXPECT().Connect(gomock.Any(), testDestination).Return(f.session, nil)
	gomock.InOrder(
		f.session.EXPECT().Send(gomock.Any(), model.DeliveryRequest{Path: first, Destination: testDestination, Timeout: time.Second}).Return(nil),
		f.session.EXPECT().Send(gomock.Any(), model.DeliveryRequest{Path: second, Destination: testDestination, Timeout: time.Second}).Return(nil),
		f.session.EXPECT().Close().Return(nil),
	)
	f.observer.EXPECT().RunFinished(gomock.Any(), gomock.Any()).Times(1)

	summary, err := f.svc.RunJob(context.Background(), spec)

	require.NoError(t, err)
	assert.Equal(t, "run-1", summary.RunID)
	assert.Equal(t, 2, summary.Requested)
	assert.False(t, summary.Aborted)
	require.Len(t, summary.Items, 2)
	assert.Equal(t, model.ItemOutcome{Seq: 1, Status: model.ItemDelivered, Path: first, Attempts: 1}, summary.Items[0])
	assert.Equal(t, model.ItemOutcome{Seq: 2, Status: model.ItemDelivered, Path: second, Attempts: 1}, summary.Items[1])
	assert.ElementsMatch(t, []string{"g_1.gif", "g_2.gif"}, dirEntries(t, dir))
	assert.EqualValues(t, 2, f.metrics.Total(metrics.DeliveryResult))
	assert.EqualValues(t, 1, f.metrics.Total(metrics.JobRun))
}

func TestRunJob_AllAttemptsTimeOut(t *testing.T) {
	dir := t.TempDir()
	r := &scriptedRenderer{steps: []string{"hang"}}
	f := newJobFixture(t, r)
	spec := testJobSpec(dir, 2, 2)

	f.channel.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(f.session, nil)
	f.session.EXPECT().Send(gomock.Any(), gomock.Any()).Times(0)
	f.session.EXPECT().Close().Return(nil)
	var payloads []notify.FailurePayload
	f.notifier.EXPECT().NotifyFailure(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, p notify.FailurePayload) { payloads = append(payloads, p) }).
		Times(2)
	f.observer.EXPECT().RunFinished(gomock.Any(), gomock.Any())

	summary, err := f.svc.RunJob(context.Background(), spec)

	require.NoError(t, err)
	assert.EqualValues(t, 4, r.calls.Load(), "count x maxAttempts render calls")
	assert.Empty(t, dirEntries(t, dir))
	assert.Equal(t, 2, summary.Count(model.ItemGenerationFailed))
	for i, p := range payloads {
		assert.Equal(t, notify.StageGeneration, p.Stage)
		assert.Equal(t, i+1, p.Seq)
		assert.Equal(t, string(model.FailureTimeoutExhausted), p.Reason)
		assert.Equal(t, notify.SeverityWarning, p.Severity)
	}
}

func TestRunJob_ContinuesAfterFailedItem(t *testing.T) {
	dir := t.TempDir()
	f := newJobFixture(t, &scriptedRenderer{steps: []string{"fail", "ok"}})
	spec := testJobSpec(dir, 2, 1)

	f.channel.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(f.session, nil)
	f.session.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	f.session.EXPECT().Close().Return(nil)
	f.notifier.EXPECT().NotifyFailure(gomock.Any(), gomock.Any()).Times(1)
	f.observer.EXPECT().RunFinished(gomock.Any(), gomock.Any())

	summary, err := f.svc.RunJob(context.Background(), spec)

	require.NoError(t, err)
	require.Len(t, summary.Items, 2)
	assert.Equal(t, model.ItemGenerationFailed, summary.Items[0].Status)
	assert.Equal(t, model.FailureGeneratorFailed, summary.Items[0].FailureReason)
	assert.Equal(t, model.ItemDelivered, summary.Items[1].Status)
	assert.Equal(t, filepath.Join(dir, "g_1.gif"), summary.Items[1].Path)
}

func TestRunJob_DeliveryFailureDoesNotStopRun(t *testing.T) {
	dir := t.TempDir()
	f := newJobFixture(t, &scriptedRenderer{steps: []string{"ok"}})
	spec := testJobSpec(dir, 2, 1)

	f.channel.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(f.session, nil)
	gomock.InOrder(
		f.session.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("413 request entity too large")),
		f.session.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil),
	)
	f.session.EXPECT().Close().Return(nil)
	f.notifier.EXPECT().NotifyFailure(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, p notify.FailurePayload) {
			assert.Equal(t, notify.StageDelivery, p.Stage)
			assert.Equal(t, 1, p.Seq)
			assert.Equal(t, "fake", p.Metadata["channel"])
		})
	f.observer.EXPECT().RunFinished(gomock.Any(), gomock.Any())

	summary, err := f.svc.RunJob(context.Background(), spec)

	require.NoError(t, err)
	assert.Equal(t, model.ItemDeliveryFailed, summary.Items[0].Status)
	assert.Contains(t, summary.Items[0].Error, "413")
	assert.Equal(t, model.ItemDelivered, summary.Items[1].Status)
	// Artifacts stay on disk regardless of delivery.
	assert.Len(t, dirEntries(t, dir), 2)
}

func TestRunJob_AbandonedRenderDoesNotOverwriteDelivered(t *testing.T) {
	dir := t.TempDir()
	r := &scriptedRenderer{steps: []string{"late", "ok"}}
	f := newJobFixture(t, r)
	spec := testJobSpec(dir, 2, 2)

	first := filepath.Join(dir, "g_1.gif")
	second := filepath.Join(dir, "g_2.gif")
	f.channel.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(f.session, nil)
	gomock.InOrder(
		f.session.EXPECT().Send(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, req model.DeliveryRequest) { assert.Equal(t, first, req.Path) }).
			Return(nil),
		f.session.EXPECT().Send(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, req model.DeliveryRequest) { assert.Equal(t, second, req.Path) }).
			Return(nil),
	)
	f.session.EXPECT().Close().Return(nil)
	f.observer.EXPECT().RunFinished(gomock.Any(), gomock.Any())

	summary, err := f.svc.RunJob(context.Background(), spec)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count(model.ItemDelivered))
	assert.Equal(t, 2, summary.Items[0].Attempts)

	require.Eventually(t, func() bool { return r.lateWrites.Load() == 1 },
		time.Second, 5*time.Millisecond)
	for _, path := range []string{first, second} {
		body, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "GIF89a", string(body), path)
	}
	assert.ElementsMatch(t, []string{"g_1.gif", "g_2.gif"}, numberedEntries(t, dir))
}

func TestRunJob_ConnectFailureAborts(t *testing.T) {
	dir := t.TempDir()
	r := &scriptedRenderer{steps: []string{"ok"}}
	f := newJobFixture(t, r)

	f.channel.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil, errors.New("401 unauthorized"))
	f.notifier.EXPECT().NotifyFailure(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, p notify.FailurePayload) {
			assert.Equal(t, notify.StageRun, p.Stage)
			assert.Equal(t, notify.SeverityCritical, p.Severity)
		})
	var observed model.RunSummary
	f.observer.EXPECT().RunFinished(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, s model.RunSummary) { observed = s })

	summary, err := f.svc.RunJob(context.Background(), testJobSpec(dir, 3, 1))

	require.Error(t, err)
	assert.True(t, apperrors.IsDeliveryUnavailable(err))
	assert.True(t, summary.Aborted)
	assert.Empty(t, summary.Items)
	assert.Zero(t, r.calls.Load())
	assert.Equal(t, summary.RunID, observed.RunID)
	assert.True(t, observed.Aborted)
}

func TestRunJob_UnreadableDirectoryAborts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gone")
	f := newJobFixture(t, &scriptedRenderer{steps: []string{"ok"}})

	f.channel.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(f.session, nil)
	f.session.EXPECT().Close().Return(nil)
	f.notifier.EXPECT().NotifyFailure(gomock.Any(), gomock.Any())
	f.observer.EXPECT().RunFinished(gomock.Any(), gomock.Any())

	summary, err := f.svc.RunJob(context.Background(), testJobSpec(dir, 2, 1))

	require.Error(t, err)
	assert.True(t, apperrors.IsDirectoryUnreadable(err))
	assert.True(t, summary.Aborted)
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunJob_UnknownGenerator(t *testing.T) {
	f := newJobFixture(t, &scriptedRenderer{steps: []string{"ok"}})
	f.notifier.EXPECT().NotifyFailure(gomock.Any(), gomock.Any())
	f.observer.EXPECT().RunFinished(gomock.Any(), gomock.Any())

	spec := testJobSpec(t.TempDir(), 1, 1)
	spec.GeneratorName = "stylegan"
	_, err := f.svc.RunJob(context.Background(), spec)

	assert.True(t, apperrors.IsConfiguration(err))
}

func TestRunJob_ZeroCount(t *testing.T) {
	f := newJobFixture(t, &scriptedRenderer{steps: []string{"ok"}})
	f.channel.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(f.session, nil)
	f.session.EXPECT().Close().Return(nil)
	f.observer.EXPECT().RunFinished(gomock.Any(), gomock.Any())

	summary, err := f.svc.RunJob(context.Background(), testJobSpec(t.TempDir(), 0, 1))

	require.NoError(t, err)
	assert.Empty(t, summary.Items)
}

func TestNewJobService_RequiresDependencies(t *testing.T) {
	_, err := NewJobService(JobServiceOptions{})
	assert.Error(t, err)
}
