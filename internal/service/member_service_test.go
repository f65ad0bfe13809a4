package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fonuscebu/coop-admin-api/internal/models"
	appErrors "github.com/fonuscebu/coop-admin-api/pkg/errors"
)

type mockMemberStore struct {
	mu        sync.Mutex
	inserted  []string
	updated   []string
	insertErr error
	updateErr error
}

func (m *mockMemberStore) Insert(ctx context.Context, member *models.MemberRecord) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserted = append(m.inserted, member.Name)
	return nil
}

func (m *mockMemberStore) Update(ctx context.Context, member *models.MemberRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated = append(m.updated, member.Name)
	return nil
}

func completeMember(name string) *models.MemberRecord {
	m := models.NewDefaultMember()
	m.Name = name
	m.PresentAddress = "MANDAUE CITY"
	m.Birthdate = "1/1/1990"
	m.Gender = "MALE"
	return m
}

func saveBatch(t *testing.T, members ...*models.MemberRecord) *BatchService {
	t.Helper()
	batch := NewBatchService(nil)
	require.NoError(t, batch.Replace(members, true))
	return batch
}

func TestSaveAllInsertsNewRecords(t *testing.T) {
	store := &mockMemberStore{}
	batch := saveBatch(t, completeMember("JUAN"), completeMember("MARIA"))
	svc := NewMemberService(store, batch, nil)

	result, err := svc.SaveAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Saved)
	assert.Equal(t, 0, result.Updated)
	assert.Len(t, store.inserted, 2)

	// IDs stamped back so a second save updates instead of duplicating.
	for _, record := range batch.Snapshot() {
		assert.NotEmpty(t, record.ID)
	}

	result, err = svc.SaveAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Saved)
	assert.Equal(t, 2, result.Updated)
}

func TestSaveAllValidatesBeforeWriting(t *testing.T) {
	store := &mockMemberStore{}
	incomplete := completeMember("JUAN")
	incomplete.Birthdate = ""
	batch := saveBatch(t, incomplete)
	svc := NewMemberService(store, batch, nil)

	_, err := svc.SaveAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.inserted)
}

func TestSaveAllFailsWhole(t *testing.T) {
	store := &mockMemberStore{insertErr: errors.New("connection reset")}
	batch := saveBatch(t, completeMember("JUAN"))
	svc := NewMemberService(store, batch, nil)

	_, err := svc.SaveAll(context.Background())
	assert.Error(t, err)
}
