package repo

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/config"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := config.Config{
		Env:        "test",
		DBDriver:   "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "nested", "app.db"),
	}

	st, err := Open(context.Background(), cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(st.Close)

	require.NoError(t, st.Ping(context.Background()))

	exists, err := st.Users.ExistsByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.Config{DBDriver: "oracle"}, nil, slog.Default())
	require.ErrorContains(t, err, "unsupported db driver")
}
