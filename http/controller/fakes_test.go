package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/clusterbreakdown/cost-report-service/config"
	"github.com/clusterbreakdown/cost-report-service/entity"
	"github.com/clusterbreakdown/cost-report-service/http/controller"
	routes "github.com/clusterbreakdown/cost-report-service/http/route"
	"github.com/clusterbreakdown/cost-report-service/infra"
	"github.com/clusterbreakdown/cost-report-service/utils"
)

const sampleCSV = `Deployment name,SKU Name,Usage type,Unit price,Total
prod-cluster,Standard_aws.es.datahot.i3_us-east-1_65536_2,RAM Hours,0.5,100
analytics,Premium_gcp.es.datahot.n2_us-west1_133120_2,ram hours,0.25,50
`

type fakeObjectStore struct {
	objects map[string][]byte
	failPut bool
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (f *fakeObjectStore) PutObject(_ context.Context, _, key string, data io.Reader, _ int64, _ string) error {
	if f.failPut {
		return fmt.Errorf("put object %q: %w", key, utils.ErrStorageUnavailable)
	}
	content, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.objects[key] = content
	return nil
}

func (f *fakeObjectStore) GetObject(_ context.Context, _, key string) ([]byte, string, error) {
	content, ok := f.objects[key]
	if !ok {
		return nil, "", fmt.Errorf("get object %q: %w", key, utils.ErrNotFound)
	}
	return content, "text/csv", nil
}

func (f *fakeObjectStore) DeleteObject(_ context.Context, _, key string) error {
	delete(f.objects, key)
	return nil
}

type fakeRecordStore struct {
	records    map[string]entity.UploadRecord
	failUpsert bool
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{records: map[string]entity.UploadRecord{}}
}

func (f *fakeRecordStore) Upsert(filename string, patch entity.UploadRecordPatch) error {
	if f.failUpsert {
		return fmt.Errorf("upsert record %q: %w", filename, utils.ErrStorageUnavailable)
	}
	existing, ok := f.records[filename]
	if !ok {
		f.records[filename] = *patch.NewRecord(filename)
		return nil
	}
	if patch.Status != nil {
		existing.Status = *patch.Status
	}
	if patch.UploadedAt != nil {
		existing.UploadedAt = *patch.UploadedAt
	}
	if patch.SizeBytes != nil {
		existing.SizeBytes = *patch.SizeBytes
	}
	if patch.AccountName != nil {
		existing.AccountName = *patch.AccountName
	}
	if patch.ExtractedDate != nil {
		existing.ExtractedDate = *patch.ExtractedDate
	}
	if patch.DisplayName != nil {
		existing.DisplayName = *patch.DisplayName
	}
	if len(patch.Extra) > 0 {
		if existing.Extra == nil {
			existing.Extra = datatypes.JSONMap{}
		}
		for k, v := range patch.Extra {
			existing.Extra[k] = v
		}
	}
	f.records[filename] = existing
	return nil
}

func (f *fakeRecordStore) FindByFilename(filename string) (*entity.UploadRecord, error) {
	record, ok := f.records[filename]
	if !ok {
		return nil, fmt.Errorf("find record %q: %w", filename, utils.ErrNotFound)
	}
	return &record, nil
}

func (f *fakeRecordStore) ListAll() ([]entity.UploadRecord, error) {
	var records []entity.UploadRecord
	for _, record := range f.records {
		records = append(records, record)
	}
	return records, nil
}

func (f *fakeRecordStore) Delete(filename string) error {
	delete(f.records, filename)
	return nil
}

type fakeCache struct {
	entries map[string][]byte
	sets    int
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = data
	f.sets++
	return nil
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	data, ok := f.entries[key]
	if !ok {
		return infra.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.entries, key)
	}
	f.deletes++
	return nil
}

type testEnv struct {
	router  *gin.Engine
	objects *fakeObjectStore
	records *fakeRecordStore
	cache   *fakeCache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	objects := newFakeObjectStore()
	records := newFakeRecordStore()
	cache := newFakeCache()

	ctrl := &controller.Controller{
		Config:  config.NewConfig(),
		Objects: objects,
		Records: records,
		Cache:   cache,
		Logger:  &infra.LoggerClient{Slog: slog.New(slog.NewTextHandler(io.Discard, nil))},
	}

	return &testEnv{
		router:  routes.SetupRouter(ctrl),
		objects: objects,
		records: records,
		cache:   cache,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) upload(t *testing.T, filename string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return e.do(t, http.MethodPost, "/api/v1/reports/uploads", body, writer.FormDataContentType())
}
