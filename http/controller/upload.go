package controller

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clusterbreakdown/cost-report-service/entity"
	"github.com/clusterbreakdown/cost-report-service/report"
	"github.com/clusterbreakdown/cost-report-service/utils"
)

// UploadReport stores an uploaded CSV in the report bucket and then
// merge-upserts its metadata record. The two writes are intentionally not
// transactional: a put failure leaves no record at all, a record failure
// leaves the blob orphaned until the next upload of the same filename.
func (ctrl *Controller) UploadReport(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		ctrl.Logger.WarningWithContextf(ctx, "[Upload] No file in form data: %v", err)
		utils.JSON400(c, "No file part")
		return
	}

	filename := fileHeader.Filename
	if filename == "" {
		utils.JSON400(c, "No selected file")
		return
	}
	if strings.Contains(filename, "/") || strings.Contains(filename, "\\") || strings.Contains(filename, "..") {
		ctrl.Logger.WarningWithContextf(ctx, "[Upload] Rejected filename %q", filename)
		utils.JSON400(c, "Invalid filename")
		return
	}

	accountName := strings.TrimSpace(c.PostForm("account_name"))
	if accountName == "" {
		accountName = "UnknownAccount"
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/csv"
	}

	src, err := fileHeader.Open()
	if err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to open uploaded file %q", filename)
		utils.JSON400(c, "Failed to read file: "+err.Error())
		return
	}
	defer src.Close()

	ctrl.Logger.InfoWithContextf(ctx, "[Upload] Storing %q (%d bytes) for account %q", filename, fileHeader.Size, accountName)

	if err := ctrl.Objects.PutObject(ctx, ctrl.bucket(), filename, src, fileHeader.Size, contentType); err != nil {
		// No metadata write on a failed put; the filename stays absent.
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Upload] Object store write failed for %q", filename)
		utils.JSONStorageError(c, err, "File upload to object storage failed")
		return
	}

	now := time.Now().UTC()
	status := entity.ReportStatusStored
	size := fileHeader.Size
	extractedDate := report.ExtractDate(filename)
	displayName := accountName + "_" + extractedDate

	patch := entity.UploadRecordPatch{
		Status:        &status,
		UploadedAt:    &now,
		SizeBytes:     &size,
		AccountName:   &accountName,
		ExtractedDate: &extractedDate,
		DisplayName:   &displayName,
	}
	// Any additional form fields ride along in the open-schema Extra map.
	if form := c.Request.MultipartForm; form != nil {
		for key, values := range form.Value {
			if key == "account_name" || len(values) == 0 {
				continue
			}
			if patch.Extra == nil {
				patch.Extra = map[string]interface{}{}
			}
			patch.Extra[key] = values[0]
		}
	}

	if err := ctrl.Records.Upsert(filename, patch); err != nil {
		// The blob stays behind as an orphan; no compensating delete, a
		// re-upload of the same filename heals the record.
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Upload] Metadata write failed for %q, blob is orphaned", filename)
		utils.JSON500(c, "File logging failed")
		return
	}

	ctrl.invalidateSummary(c, filename)

	record, err := ctrl.Records.FindByFilename(filename)
	if err != nil {
		ctrl.Logger.WarningWithContextf(ctx, "[Upload] Stored %q but could not read record back: %v", filename, err)
		utils.JSON201(c, gin.H{"filename": filename, "status": entity.ReportStatusStored})
		return
	}

	ctrl.Logger.InfoWithContextf(ctx, "[Upload] Stored %q with record status %s", filename, record.Status)
	utils.JSON201(c, gin.H{"record": record})
}

// DeleteReport removes the blob and its metadata record. Both deletes are
// idempotent, so deleting an unknown filename succeeds.
func (ctrl *Controller) DeleteReport(c *gin.Context) {
	ctx := c.Request.Context()
	filename := c.Param("filename")

	if err := ctrl.Objects.DeleteObject(ctx, ctrl.bucket(), filename); err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Delete] Object delete failed for %q", filename)
		utils.JSONStorageError(c, err, "Failed to delete report file")
		return
	}

	if err := ctrl.Records.Delete(filename); err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Delete] Record delete failed for %q", filename)
		utils.JSONStorageError(c, err, "Failed to delete report record")
		return
	}

	ctrl.invalidateSummary(c, filename)

	ctrl.Logger.InfoWithContextf(ctx, "[Delete] Deleted %q", filename)
	utils.JSON200(c, gin.H{"message": "Report deleted", "filename": filename})
}

func (ctrl *Controller) invalidateSummary(c *gin.Context, filename string) {
	if ctrl.Cache == nil {
		return
	}
	ctx := c.Request.Context()
	if err := ctrl.Cache.Delete(ctx, ctrl.summaryCacheKey(filename)); err != nil {
		ctrl.Logger.WarningWithContextf(ctx, "[Cache] Failed to invalidate summary for %q: %v", filename, err)
	}
}
