package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fonuscebu/coop-admin-api/internal/dto"
	"github.com/fonuscebu/coop-admin-api/internal/models"
	appErrors "github.com/fonuscebu/coop-admin-api/pkg/errors"
)

type mockInquiryStore struct {
	inquiries    []models.Inquiry
	createErr    error
	updateErr    error
	listCalls    int
	lastStatus   models.InquiryStatus
	lastStatusID string
}

func (m *mockInquiryStore) Create(ctx context.Context, inquiry *models.Inquiry) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.inquiries = append(m.inquiries, *inquiry)
	return nil
}

func (m *mockInquiryStore) FindByID(ctx context.Context, id string) (*models.Inquiry, error) {
	for i := range m.inquiries {
		if m.inquiries[i].ID == id {
			return &m.inquiries[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockInquiryStore) List(ctx context.Context, filter dto.InquiryFilter, page, pageSize int) ([]models.Inquiry, int, error) {
	m.listCalls++
	return m.inquiries, len(m.inquiries), nil
}

func (m *mockInquiryStore) ListAll(ctx context.Context, filter dto.InquiryFilter) ([]models.Inquiry, error) {
	return m.inquiries, nil
}

func (m *mockInquiryStore) UpdateStatus(ctx context.Context, id string, status models.InquiryStatus) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for i := range m.inquiries {
		if m.inquiries[i].ID == id {
			m.inquiries[i].Status = status
			m.lastStatus = status
			m.lastStatusID = id
			return nil
		}
	}
	return sql.ErrNoRows
}

// memoryCache is a map-backed stand-in for the redis cache repository.
type memoryCache struct {
	values      map[string][]byte
	invalidated int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}

func (c *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.invalidated++
	c.values = map[string][]byte{}
	return nil
}

func TestInquiryCreateAssignsIdentity(t *testing.T) {
	store := &mockInquiryStore{}
	svc := NewInquiryService(store, nil, time.Minute, nil)

	inquiry, err := svc.Create(context.Background(), dto.CreateInquiryRequest{
		Name:    "Juan",
		Email:   "juan@example.com",
		Subject: "Membership",
		Message: "How do I enroll my coop?",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, inquiry.ID)
	assert.Equal(t, models.InquiryStatusNew, inquiry.Status)
	assert.False(t, inquiry.CreatedAt.IsZero())
}

func TestInquiryListUsesCache(t *testing.T) {
	store := &mockInquiryStore{inquiries: []models.Inquiry{{ID: "i1", Name: "Juan", Status: models.InquiryStatusNew}}}
	cache := newMemoryCache()
	svc := NewInquiryService(store, cache, time.Minute, nil)

	_, _, err := svc.List(context.Background(), dto.InquiryFilter{}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, store.listCalls)

	inquiries, pagination, err := svc.List(context.Background(), dto.InquiryFilter{}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, store.listCalls, "second listing served from cache")
	assert.Equal(t, 1, pagination.TotalCount)
	require.Len(t, inquiries, 1)
	assert.Equal(t, "Juan", inquiries[0].Name)
}

func TestInquirySetStatusInvalidates(t *testing.T) {
	store := &mockInquiryStore{inquiries: []models.Inquiry{{ID: "i1", Status: models.InquiryStatusNew}}}
	cache := newMemoryCache()
	svc := NewInquiryService(store, cache, time.Minute, nil)

	inquiry, err := svc.SetStatus(context.Background(), "i1", models.InquiryStatusRead)
	require.NoError(t, err)
	assert.Equal(t, models.InquiryStatusRead, inquiry.Status)
	assert.Equal(t, 1, cache.invalidated)
}

func TestInquirySetStatusRejectsNew(t *testing.T) {
	svc := NewInquiryService(&mockInquiryStore{}, nil, time.Minute, nil)

	_, err := svc.SetStatus(context.Background(), "i1", models.InquiryStatusNew)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.SetStatus(context.Background(), "i1", models.InquiryStatus("BOGUS"))
	assert.Error(t, err)
}

func TestInquirySetStatusNotFound(t *testing.T) {
	svc := NewInquiryService(&mockInquiryStore{}, nil, time.Minute, nil)
	_, err := svc.SetStatus(context.Background(), "missing", models.InquiryStatusArchived)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestInquiryExportCSV(t *testing.T) {
	store := &mockInquiryStore{inquiries: []models.Inquiry{
		{ID: "i1", Name: "Juan", Email: "juan@example.com", Subject: "Membership", Status: models.InquiryStatusNew, CreatedAt: time.Now()},
	}}
	svc := NewInquiryService(store, nil, time.Minute, nil)

	out, err := svc.ExportCSV(context.Background(), dto.InquiryFilter{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "juan@example.com")
	assert.Contains(t, string(out), "ID,Name,Email")
}
