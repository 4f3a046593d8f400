package utils

import (
	"context"
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
)

// Storage error taxonomy. Adapters translate provider errors into these
// sentinels so handler logic never branches on MinIO or GORM types.
var (
	// ErrNotFound indicates the referenced object or record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable indicates a connectivity or backend failure
	// against one of the backing stores. Fatal for the current request.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrPermissionDenied is a subset of ErrStorageUnavailable kept
	// distinguishable for diagnostics.
	ErrPermissionDenied = errors.New("permission denied")
)

// ClassifyObjectStoreError maps a minio-go error onto the taxonomy.
func ClassifyObjectStoreError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %q: %w: %v", op, key, ErrStorageUnavailable, err)
	}

	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%s %q: %w", op, key, ErrNotFound)
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return fmt.Errorf("%s %q: %w: %v", op, key, ErrPermissionDenied, err)
	default:
		return fmt.Errorf("%s %q: %w: %v", op, key, ErrStorageUnavailable, err)
	}
}

// ClassifyRecordStoreError maps a GORM error onto the taxonomy.
func ClassifyRecordStoreError(op, filename string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %q: %w", op, filename, ErrNotFound)
	}
	return fmt.Errorf("%s %q: %w: %v", op, filename, ErrStorageUnavailable, err)
}
