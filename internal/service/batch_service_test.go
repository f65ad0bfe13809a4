package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fonuscebu/coop-admin-api/internal/models"
	appErrors "github.com/fonuscebu/coop-admin-api/pkg/errors"
)

func seedBatch(t *testing.T, n int) *BatchService {
	t.Helper()
	batch := NewBatchService(nil)
	records := make([]*models.MemberRecord, n)
	for i := range records {
		m := models.NewDefaultMember()
		m.Name = fmt.Sprintf("MEMBER %03d", i)
		records[i] = m
	}
	require.NoError(t, batch.Replace(records, true))
	return batch
}

func TestBatchStartsWithOneDefaultRecord(t *testing.T) {
	batch := NewBatchService(nil)
	page := batch.Page(0)
	require.Len(t, page.Records, 1)
	assert.True(t, page.Records[0].IsBlank())
}

func TestBatchReplaceRequiresConfirmation(t *testing.T) {
	batch := NewBatchService(nil)
	require.NoError(t, batch.EditField(0, models.FieldName, "JUAN"))

	incoming := []*models.MemberRecord{models.NewDefaultMember()}
	err := batch.Replace(incoming, false)
	assert.ErrorIs(t, err, appErrors.ErrConfirmRequired)

	assert.NoError(t, batch.Replace(incoming, true))
}

func TestBatchReplaceWithoutUserDataNeedsNoConfirmation(t *testing.T) {
	batch := NewBatchService(nil)
	incoming := []*models.MemberRecord{models.NewDefaultMember(), models.NewDefaultMember()}
	assert.NoError(t, batch.Replace(incoming, false))
	assert.Equal(t, 2, batch.Len())
}

func TestBatchPagination(t *testing.T) {
	batch := seedBatch(t, 45)

	page := batch.Page(1)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 45, page.Total)
	require.Len(t, page.Records, 20)
	assert.Equal(t, "MEMBER 020", page.Records[0].Name)
	assert.Equal(t, "MEMBER 039", page.Records[19].Name)

	last := batch.Page(2)
	assert.Len(t, last.Records, 5)

	beyond := batch.Page(9)
	assert.Empty(t, beyond.Records)
	assert.Equal(t, 3, beyond.TotalPages)
}

func TestBatchCoopNamePropagation(t *testing.T) {
	batch := seedBatch(t, 5)

	require.NoError(t, batch.EditField(3, models.FieldCoopName, "ABC COOP"))

	snapshot := batch.Snapshot()
	current := models.CurrentYearIndex()
	assert.Equal(t, "ABC COOP", snapshot[3].CoopName)
	assert.Equal(t, "ABC COOP", snapshot[3].Records[current].Representative)
	// Other records keep their representative untouched.
	assert.Empty(t, snapshot[2].Records[current].Representative)
}

func TestBatchEditYearFieldYearImmutable(t *testing.T) {
	batch := seedBatch(t, 1)

	require.NoError(t, batch.EditYearField(0, 1, models.YearFieldRemarks, "RENEWED"))
	err := batch.EditYearField(0, 1, "year", "1999")
	assert.Error(t, err)

	err = batch.EditYearField(0, 99, models.YearFieldRemarks, "X")
	assert.Error(t, err)
}

func TestBatchRemoveCollapsesSequence(t *testing.T) {
	batch := seedBatch(t, 3)

	require.NoError(t, batch.Remove(1))
	snapshot := batch.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "MEMBER 000", snapshot[0].Name)
	assert.Equal(t, "MEMBER 002", snapshot[1].Name)
}

func TestBatchRemoveLastLeavesDefault(t *testing.T) {
	batch := seedBatch(t, 1)

	require.NoError(t, batch.Remove(0))
	snapshot := batch.Snapshot()
	require.Len(t, snapshot, 1)
	assert.True(t, snapshot[0].IsBlank())
}

func TestBatchIndexOutOfRange(t *testing.T) {
	batch := seedBatch(t, 2)
	assert.ErrorIs(t, batch.EditField(5, models.FieldName, "X"), appErrors.ErrNotFound)
	assert.ErrorIs(t, batch.Remove(-1), appErrors.ErrNotFound)
}
