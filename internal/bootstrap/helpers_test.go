package bootstrap

import (
	"io"
	"log/slog"

	"github.com/rajatvd/GifGenerator/internal/data"
	"github.com/rajatvd/GifGenerator/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMemoryStatus() *service.StatusService {
	return service.NewStatusService(service.StatusServiceOptions{
		Cache:  data.NewMemoryCacheRepo(0),
		Logger: discardLogger(),
	})
}
