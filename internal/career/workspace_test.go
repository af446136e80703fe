package career

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/five82/navigator/internal/store"
	"github.com/five82/navigator/internal/store/memstore"
)

func seedWorkspace(t *testing.T, s *memstore.Store) {
	t.Helper()
	seedDashboard(t, s)
	require.NoError(t, s.Seed(CoursesCollection,
		store.Row{"title": "Go in Practice", "category": "Technical", "rating": 4.8},
		store.Row{"title": "Retired", "category": "Technical", "is_active": false},
	))
	require.NoError(t, s.Seed(CredentialsCollection,
		store.Row{"user_id": "u1", "credential_type": "certification", "title": "CKA", "issuer": "CNCF", "issue_date": "2024-05-01"},
		store.Row{"user_id": "u2", "credential_type": "degree", "title": "BSc", "issuer": "IIT", "issue_date": "2022-06-01"},
	))
}

func TestWorkspace_LoadAllAndSwitchOwner(t *testing.T) {
	s := memstore.New(Tables()...)
	seedWorkspace(t, s)
	ws := NewWorkspace(s, zaptest.NewLogger(t), "u1")
	ctx := context.Background()

	require.NoError(t, ws.LoadAll(ctx))
	assert.Len(t, ws.Goals.Snapshot().Items, 5)
	assert.Len(t, ws.Dashboard.Snapshot().Goals, 3)
	require.Len(t, ws.Courses.Snapshot().Items, 1)
	require.Len(t, ws.Credentials.Snapshot().Items, 1)
	assert.Equal(t, "CKA", ws.Credentials.Snapshot().Items[0].Title)

	require.True(t, ws.SetOwner("u2"))
	assert.Equal(t, "u2", ws.Owner())
	assert.Empty(t, ws.Goals.Snapshot().Items)
	assert.Len(t, ws.Courses.Snapshot().Items, 1, "catalogs survive an owner switch")

	require.NoError(t, ws.LoadAll(ctx))
	require.Len(t, ws.Credentials.Snapshot().Items, 1)
	assert.Equal(t, "BSc", ws.Credentials.Snapshot().Items[0].Title)
	assert.False(t, ws.SetOwner("u2"))
}

func TestWorkspace_SignedOutStillLoadsCatalogs(t *testing.T) {
	s := memstore.New(Tables()...)
	seedWorkspace(t, s)
	ws := NewWorkspace(s, nil, "")

	require.NoError(t, ws.LoadAll(context.Background()))
	assert.Len(t, ws.Courses.Snapshot().Items, 1)
	assert.Empty(t, ws.Goals.Snapshot().Items)
}

func TestWorkspace_LoadAllNamesFailingCollection(t *testing.T) {
	s := memstore.New(Tables()...)
	seedWorkspace(t, s)
	ws := NewWorkspace(brokenCollection{Client: s, name: CredentialsCollection}, zaptest.NewLogger(t), "u1")

	err := ws.LoadAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials:")
	assert.Len(t, ws.Goals.Snapshot().Items, 5)
	assert.True(t, ws.Credentials.Snapshot().LastError != nil)
}
