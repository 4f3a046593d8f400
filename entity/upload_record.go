package entity

import (
	"time"

	"gorm.io/datatypes"
)

// ReportStatus represents the lifecycle status of an uploaded report.
type ReportStatus string

const (
	ReportStatusPending ReportStatus = "pending"
	ReportStatusStored  ReportStatus = "stored"
	ReportStatusFailed  ReportStatus = "failed"
)

// UploadRecord is the metadata row kept for every uploaded cost report.
// The filename is the unique key; the blob of the same name in the report
// bucket holds the raw CSV bytes. The two writes are not transactional, so a
// blob without a record can exist after a crash between them.
type UploadRecord struct {
	Filename      string            `json:"filename" gorm:"type:varchar(512);primaryKey"`
	Status        ReportStatus      `json:"status" gorm:"type:varchar(16);not null;default:'pending'"`
	UploadedAt    time.Time         `json:"uploaded_at" gorm:"index"`
	SizeBytes     int64             `json:"size_bytes"`
	AccountName   string            `json:"account_name" gorm:"type:varchar(255)"`
	ExtractedDate string            `json:"extracted_date" gorm:"type:varchar(32)"`
	DisplayName   string            `json:"display_name" gorm:"type:varchar(512)"`
	Extra         datatypes.JSONMap `json:"extra,omitempty" gorm:"type:jsonb"`
	CreatedAt     time.Time         `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt     time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
}

// UploadRecordPatch carries the fields of a merge-upsert. Nil fields are left
// unchanged on an existing record; Extra keys are merged into the stored map.
type UploadRecordPatch struct {
	Status        *ReportStatus
	UploadedAt    *time.Time
	SizeBytes     *int64
	AccountName   *string
	ExtractedDate *string
	DisplayName   *string
	Extra         map[string]interface{}
}

// Assignments returns the supplied scalar fields as a column map suitable for
// a partial GORM update. Extra is handled separately by the repository since
// merging requires the stored value.
func (p UploadRecordPatch) Assignments() map[string]interface{} {
	fields := map[string]interface{}{}
	if p.Status != nil {
		fields["status"] = *p.Status
	}
	if p.UploadedAt != nil {
		fields["uploaded_at"] = *p.UploadedAt
	}
	if p.SizeBytes != nil {
		fields["size_bytes"] = *p.SizeBytes
	}
	if p.AccountName != nil {
		fields["account_name"] = *p.AccountName
	}
	if p.ExtractedDate != nil {
		fields["extracted_date"] = *p.ExtractedDate
	}
	if p.DisplayName != nil {
		fields["display_name"] = *p.DisplayName
	}
	return fields
}

// NewRecord builds a fresh record for a filename that has no row yet.
func (p UploadRecordPatch) NewRecord(filename string) *UploadRecord {
	record := &UploadRecord{
		Filename: filename,
		Status:   ReportStatusPending,
	}
	if p.Status != nil {
		record.Status = *p.Status
	}
	if p.UploadedAt != nil {
		record.UploadedAt = *p.UploadedAt
	}
	if p.SizeBytes != nil {
		record.SizeBytes = *p.SizeBytes
	}
	if p.AccountName != nil {
		record.AccountName = *p.AccountName
	}
	if p.ExtractedDate != nil {
		record.ExtractedDate = *p.ExtractedDate
	}
	if p.DisplayName != nil {
		record.DisplayName = *p.DisplayName
	}
	if len(p.Extra) > 0 {
		record.Extra = datatypes.JSONMap{}
		for k, v := range p.Extra {
			record.Extra[k] = v
		}
	}
	return record
}
