package migrate_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajatvd/GifGenerator/internal/migrate"
	"github.com/rajatvd/GifGenerator/internal/testutil"
)

func TestStatusAfterRun(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()

		// Running again is a no-op.
		require.NoError(t, migrate.Run(ctx, db))

		migrations, err := migrate.Status(ctx, db)
		require.NoError(t, err)
		require.NotEmpty(t, migrations)
		assert.Equal(t, "0001_run_history", migrations[0].Version)
		for _, m := range migrations {
			assert.True(t, m.Applied, m.Version)
		}
	})
}
