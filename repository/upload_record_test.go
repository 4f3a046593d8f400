package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clusterbreakdown/cost-report-service/entity"
	"github.com/clusterbreakdown/cost-report-service/utils"
)

const testTable = "cost_report_log"

func newTestRepository(t *testing.T) *UploadRecordRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "records.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Table(testTable).AutoMigrate(&entity.UploadRecord{}))

	return NewUploadRecordRepository(db, testTable)
}

func storedPatch(size int64, account string) entity.UploadRecordPatch {
	status := entity.ReportStatusStored
	now := time.Now().UTC()
	date := "2024-03-15"
	display := account + "_" + date
	return entity.UploadRecordPatch{
		Status:        &status,
		UploadedAt:    &now,
		SizeBytes:     &size,
		AccountName:   &account,
		ExtractedDate: &date,
		DisplayName:   &display,
	}
}

func TestUpsertCreatesRecord(t *testing.T) {
	repo := newTestRepository(t)

	patch := storedPatch(120, "acme")
	patch.Extra = map[string]interface{}{"team": "platform"}
	require.NoError(t, repo.Upsert("jan.csv", patch))

	record, err := repo.FindByFilename("jan.csv")
	require.NoError(t, err)
	assert.Equal(t, entity.ReportStatusStored, record.Status)
	assert.Equal(t, int64(120), record.SizeBytes)
	assert.Equal(t, "acme", record.AccountName)
	assert.Equal(t, "acme_2024-03-15", record.DisplayName)
	assert.Equal(t, "platform", record.Extra["team"])
	assert.False(t, record.CreatedAt.IsZero())
}

func TestUpsertAppliesOnlySuppliedFields(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Upsert("jan.csv", storedPatch(120, "acme")))

	size := int64(400)
	require.NoError(t, repo.Upsert("jan.csv", entity.UploadRecordPatch{SizeBytes: &size}))

	record, err := repo.FindByFilename("jan.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(400), record.SizeBytes)
	assert.Equal(t, "acme", record.AccountName, "unsupplied fields keep their stored values")
	assert.Equal(t, "acme_2024-03-15", record.DisplayName)
}

func TestUpsertMergesExtraKeys(t *testing.T) {
	repo := newTestRepository(t)

	first := storedPatch(120, "acme")
	first.Extra = map[string]interface{}{"team": "platform", "region": "us"}
	require.NoError(t, repo.Upsert("jan.csv", first))

	require.NoError(t, repo.Upsert("jan.csv", entity.UploadRecordPatch{
		Extra: map[string]interface{}{"region": "eu", "owner": "ops"},
	}))

	record, err := repo.FindByFilename("jan.csv")
	require.NoError(t, err)
	assert.Equal(t, "platform", record.Extra["team"], "untouched keys survive the merge")
	assert.Equal(t, "eu", record.Extra["region"], "supplied keys overwrite")
	assert.Equal(t, "ops", record.Extra["owner"])
}

func TestUpsertEmptyPatchLeavesRecordIntact(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Upsert("jan.csv", storedPatch(120, "acme")))

	require.NoError(t, repo.Upsert("jan.csv", entity.UploadRecordPatch{}))

	record, err := repo.FindByFilename("jan.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(120), record.SizeBytes)
	assert.Equal(t, "acme", record.AccountName)
}

func TestFindByFilenameMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.FindByFilename("missing.csv")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestListAll(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Upsert("a.csv", storedPatch(1, "acme")))
	require.NoError(t, repo.Upsert("b.csv", storedPatch(2, "acme")))

	records, err := repo.ListAll()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestListAllInBatches(t *testing.T) {
	repo := newTestRepository(t)
	for _, filename := range []string{"a.csv", "b.csv", "c.csv"} {
		require.NoError(t, repo.Upsert(filename, storedPatch(1, "acme")))
	}

	var seen []string
	err := repo.ListAllInBatches(2, func(records []entity.UploadRecord) error {
		for _, record := range records {
			seen = append(seen, record.Filename)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, 3)
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Upsert("jan.csv", storedPatch(120, "acme")))

	require.NoError(t, repo.Delete("jan.csv"))
	_, err := repo.FindByFilename("jan.csv")
	assert.ErrorIs(t, err, utils.ErrNotFound)

	assert.NoError(t, repo.Delete("jan.csv"), "deleting an absent record succeeds")
}
