package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/five82/navigator/internal/career"
	"github.com/five82/navigator/internal/store/rest"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("NAVIGATOR_API_KEY", "")
	path := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestBootstrap_MemoryBackend(t *testing.T) {
	path := writeConfig(t, "backend = \"memory\"\nuser_id = \"me\"\n")
	ctx := context.Background()

	env, err := Bootstrap(ctx, Options{ConfigPath: path})
	require.NoError(t, err)
	defer env.Close()

	sess, err := env.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, "me", sess.UserID)
	assert.Nil(t, env.Keyring)
	assert.Error(t, env.Migrate(ctx))

	ws, err := env.Workspace(ctx)
	require.NoError(t, err)
	require.NoError(t, ws.Goals.Create(ctx, career.NewGoal("Learn Go")))
	goals := ws.Goals.Snapshot().Items
	require.Len(t, goals, 1)
	assert.Equal(t, "me", goals[0].UserID)

	_, err = os.Stat(env.Config.LogPath())
	assert.NoError(t, err, "log file is created")
}

func TestBootstrap_SQLitePersistsAcrossRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "navigator.db")
	path := writeConfig(t, "backend = \"sqlite\"\ndatabase_url = \""+dbPath+"\"\n")
	ctx := context.Background()

	env, err := Bootstrap(ctx, Options{ConfigPath: path})
	require.NoError(t, err)
	require.NoError(t, env.Migrate(ctx))
	ws, err := env.Workspace(ctx)
	require.NoError(t, err)
	require.NoError(t, ws.Goals.Create(ctx, career.NewGoal("Ship v1")))
	require.NoError(t, env.Close())

	env, err = Bootstrap(ctx, Options{ConfigPath: path})
	require.NoError(t, err)
	defer env.Close()
	ws, err = env.Workspace(ctx)
	require.NoError(t, err)
	goals, err := ws.Goals.Load(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "Ship v1", goals[0].Title)
	assert.Equal(t, "local", goals[0].UserID)
}

func TestBootstrap_RESTBackendStartsSignedOut(t *testing.T) {
	keyring.MockInit()
	path := writeConfig(t, "api_url = \"http://127.0.0.1:1\"\n")

	env, err := Bootstrap(context.Background(), Options{ConfigPath: path, LogStderr: true})
	require.NoError(t, err)
	defer env.Close()

	require.NotNil(t, env.Keyring)
	assert.IsType(t, &rest.Client{}, env.Store)
	sess, err := env.Session(context.Background())
	require.NoError(t, err)
	assert.False(t, sess.SignedIn())
}

func TestBootstrap_BadConfig(t *testing.T) {
	path := writeConfig(t, "backend = \"cassandra\"\n")
	_, err := Bootstrap(context.Background(), Options{ConfigPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
