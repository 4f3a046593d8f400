package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPatchAssignmentsOnlySuppliedFields(t *testing.T) {
	status := ReportStatusStored
	patch := UploadRecordPatch{Status: &status}

	fields := patch.Assignments()
	assert.Equal(t, map[string]interface{}{"status": ReportStatusStored}, fields)
}

func TestPatchAssignmentsAllFields(t *testing.T) {
	status := ReportStatusStored
	now := time.Now()
	size := int64(120)
	account := "acme"
	date := "2024-03-15"
	display := "acme_2024-03-15"

	patch := UploadRecordPatch{
		Status:        &status,
		UploadedAt:    &now,
		SizeBytes:     &size,
		AccountName:   &account,
		ExtractedDate: &date,
		DisplayName:   &display,
	}

	fields := patch.Assignments()
	assert.Len(t, fields, 6)
	assert.Equal(t, int64(120), fields["size_bytes"])
	assert.Equal(t, "acme_2024-03-15", fields["display_name"])
}

func TestPatchNewRecordDefaults(t *testing.T) {
	record := UploadRecordPatch{}.NewRecord("jan.csv")
	assert.Equal(t, "jan.csv", record.Filename)
	assert.Equal(t, ReportStatusPending, record.Status)
	assert.Nil(t, record.Extra)
}

func TestPatchNewRecordCopiesExtra(t *testing.T) {
	extra := map[string]interface{}{"team": "platform"}
	record := UploadRecordPatch{Extra: extra}.NewRecord("jan.csv")

	assert.Equal(t, "platform", record.Extra["team"])
	record.Extra["team"] = "other"
	assert.Equal(t, "platform", extra["team"], "patch map must not alias the record map")
}
