package utils

import (
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassifyObjectStoreError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"missing key", minio.ErrorResponse{Code: "NoSuchKey"}, ErrNotFound},
		{"missing bucket", minio.ErrorResponse{Code: "NoSuchBucket"}, ErrNotFound},
		{"denied", minio.ErrorResponse{Code: "AccessDenied"}, ErrPermissionDenied},
		{"connectivity", errors.New("connection refused"), ErrStorageUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyObjectStoreError("get object", "jan.csv", tt.err)
			assert.ErrorIs(t, got, tt.want)
		})
	}

	assert.NoError(t, ClassifyObjectStoreError("get object", "jan.csv", nil))
}

func TestClassifyRecordStoreError(t *testing.T) {
	assert.ErrorIs(t, ClassifyRecordStoreError("find record", "jan.csv", gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, ClassifyRecordStoreError("find record", "jan.csv", errors.New("dial tcp")), ErrStorageUnavailable)
	assert.NoError(t, ClassifyRecordStoreError("find record", "jan.csv", nil))
}

func TestPermissionDeniedIsDistinguishable(t *testing.T) {
	err := ClassifyObjectStoreError("put object", "jan.csv", minio.ErrorResponse{Code: "AccessDenied"})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.NotErrorIs(t, err, ErrNotFound)
}
