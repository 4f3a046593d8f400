package repository

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clusterbreakdown/cost-report-service/entity"
	"github.com/clusterbreakdown/cost-report-service/utils"
)

// UploadRecordRepository is the metadata-store adapter. One row per filename;
// writes are merge-upserts that leave unsupplied fields untouched.
type UploadRecordRepository struct {
	db    *gorm.DB
	table string
}

func NewUploadRecordRepository(db *gorm.DB, table string) *UploadRecordRepository {
	return &UploadRecordRepository{db: db, table: table}
}

// Upsert creates the record if absent, otherwise applies only the supplied
// fields. Extra keys are merged into the stored JSON map, mirroring the
// open-schema table entity this record originated from.
func (r *UploadRecordRepository) Upsert(filename string, patch entity.UploadRecordPatch) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing entity.UploadRecord
		err := tx.Table(r.table).Where("filename = ?", filename).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Concurrent first-writes race here; last write wins on the
			// supplied columns, consistent with the blob side.
			return tx.Table(r.table).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "filename"}},
				DoUpdates: clause.Assignments(patch.Assignments()),
			}).Create(patch.NewRecord(filename)).Error
		}
		if err != nil {
			return err
		}

		fields := patch.Assignments()
		if len(patch.Extra) > 0 {
			merged := datatypes.JSONMap{}
			for k, v := range existing.Extra {
				merged[k] = v
			}
			for k, v := range patch.Extra {
				merged[k] = v
			}
			fields["extra"] = merged
		}
		if len(fields) == 0 {
			return nil
		}
		fields["updated_at"] = time.Now()

		return tx.Table(r.table).Where("filename = ?", filename).Updates(fields).Error
	})
	return utils.ClassifyRecordStoreError("upsert record", filename, err)
}

func (r *UploadRecordRepository) FindByFilename(filename string) (*entity.UploadRecord, error) {
	var record entity.UploadRecord
	err := r.db.Table(r.table).Where("filename = ?", filename).First(&record).Error
	if err != nil {
		return nil, utils.ClassifyRecordStoreError("find record", filename, err)
	}
	return &record, nil
}

// ListAll returns every record. No ordering is guaranteed; callers that need
// an order sort the result themselves.
func (r *UploadRecordRepository) ListAll() ([]entity.UploadRecord, error) {
	var records []entity.UploadRecord
	err := r.db.Table(r.table).Find(&records).Error
	if err != nil {
		return nil, utils.ClassifyRecordStoreError("list records", "*", err)
	}
	return records, nil
}

// ListAllInBatches walks the table in fixed-size batches so large collections
// never need a full materialization.
func (r *UploadRecordRepository) ListAllInBatches(batchSize int, fn func(records []entity.UploadRecord) error) error {
	var batch []entity.UploadRecord
	err := r.db.Table(r.table).FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
		return fn(batch)
	}).Error
	if err != nil {
		return utils.ClassifyRecordStoreError("list records", "*", err)
	}
	return nil
}

// Delete removes the record for a filename. Deleting an absent record is a
// no-op, so the operation is idempotent.
func (r *UploadRecordRepository) Delete(filename string) error {
	err := r.db.Table(r.table).Where("filename = ?", filename).Delete(&entity.UploadRecord{}).Error
	if err != nil {
		return utils.ClassifyRecordStoreError("delete record", filename, err)
	}
	return nil
}
