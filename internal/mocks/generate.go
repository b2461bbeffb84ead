// Package mocks provides gomock implementations of the internal/core ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	channel := mocks.NewMockDeliveryChannel(ctrl)
//	channel.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(session, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=renderer_mock.go github.com/rajatvd/GifGenerator/internal/core Renderer
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=delivery_channel_mock.go github.com/rajatvd/GifGenerator/internal/core DeliveryChannel
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=delivery_session_mock.go github.com/rajatvd/GifGenerator/internal/core DeliverySession
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=run_history_repository_mock.go github.com/rajatvd/GifGenerator/internal/core RunHistoryRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/rajatvd/GifGenerator/internal/core CacheRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=failure_notifier_mock.go github.com/rajatvd/GifGenerator/internal/core FailureNotifier
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=run_observer_mock.go github.com/rajatvd/GifGenerator/internal/core RunObserver
