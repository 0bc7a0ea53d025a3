package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestScope_Validate(t *testing.T) {
	uid := uuid.New()
	wid := uuid.New()

	assert.NoError(t, Scope{UserID: &uid}.Validate())
	assert.NoError(t, Scope{WorkspaceID: &wid}.Validate())
	assert.ErrorIs(t, Scope{}.Validate(), ErrScopeRequired)
	assert.ErrorIs(t, Scope{UserID: &uid, WorkspaceID: &wid}.Validate(), ErrScopeConflict)
}

func TestScope_IsWorkspace(t *testing.T) {
	uid := uuid.New()
	wid := uuid.New()

	assert.False(t, Scope{UserID: &uid}.IsWorkspace())
	assert.True(t, Scope{WorkspaceID: &wid}.IsWorkspace())
}

func TestSyncReport_Total(t *testing.T) {
	r := SyncReport{Renamed: 1, PriceUpdated: 2, Added: 3}
	assert.Equal(t, 6, r.Total())
	assert.Equal(t, 0, (&SyncReport{}).Total())
}
