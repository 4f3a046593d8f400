package controller

import (
	"errors"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/clusterbreakdown/cost-report-service/http/controller/dto"
	"github.com/clusterbreakdown/cost-report-service/report"
	"github.com/clusterbreakdown/cost-report-service/utils"
)

// ListUploads returns every upload record, newest first. With
// ?include=summary each record's CSV is fetched and aggregated; a record
// whose blob is missing keeps a null summary instead of failing the listing.
func (ctrl *Controller) ListUploads(c *gin.Context) {
	ctx := c.Request.Context()

	records, err := ctrl.Records.ListAll()
	if err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[List] Failed to list upload records")
		utils.JSONStorageError(c, err, "Failed to list uploads")
		return
	}

	// Adapters return unordered sequences; ordering is presentation.
	sort.Slice(records, func(i, j int) bool {
		return records[i].UploadedAt.After(records[j].UploadedAt)
	})

	includeSummary := c.Query("include") == "summary"
	items := make([]dto.UploadListItem, 0, len(records))
	for _, record := range records {
		item := dto.UploadListItem{UploadRecord: record}
		if includeSummary {
			if summary, ok := ctrl.loadSummary(c, record.Filename); ok {
				item.Summary = summary
			}
		}
		items = append(items, item)
	}

	utils.JSON200(c, gin.H{"uploads": items, "count": len(items)})
}

// GetDeployments lists the unique deployment names present in one CSV.
func (ctrl *Controller) GetDeployments(c *gin.Context) {
	ctx := c.Request.Context()
	filename := c.Param("filename")

	data, _, err := ctrl.Objects.GetObject(ctx, ctrl.bucket(), filename)
	if err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Deployments] Failed to fetch %q", filename)
		utils.JSONStorageError(c, err, "Report file not available")
		return
	}

	deployments, err := report.Deployments(data)
	if err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Deployments] Failed to parse %q", filename)
		utils.JSON400(c, "Failed to parse report file")
		return
	}

	utils.JSON200(c, dto.DeploymentsResponse{
		Filename:    filename,
		Deployments: deployments,
	})
}

// Dashboard serves the aggregated cost breakdown for one uploaded CSV,
// cached in Redis between requests.
func (ctrl *Controller) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	filename := c.Param("filename")

	summary, err := ctrl.computeSummary(c, filename)
	if err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Dashboard] Failed to build summary for %q", filename)
		utils.JSONStorageError(c, err, "Failed to generate dashboard")
		return
	}

	// A missing record only costs us the display name, as in the original app.
	displayName := filename
	if record, err := ctrl.Records.FindByFilename(filename); err == nil && record.DisplayName != "" {
		displayName = record.DisplayName
	} else if err != nil {
		ctrl.Logger.WarningWithContextf(ctx, "[Dashboard] No record for %q: %v", filename, err)
	}

	utils.JSON200(c, dto.DashboardResponse{
		Filename:    filename,
		DisplayName: displayName,
		Summary:     *summary,
	})
}

// DeploymentReport serves the RAM-hours cost rows of a single deployment.
func (ctrl *Controller) DeploymentReport(c *gin.Context) {
	ctx := c.Request.Context()
	filename := c.Param("filename")
	deployment := c.Param("deployment")

	data, _, err := ctrl.Objects.GetObject(ctx, ctrl.bucket(), filename)
	if err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Report] Failed to fetch %q", filename)
		utils.JSONStorageError(c, err, "Report file not available")
		return
	}

	parsed, err := report.Parse(data)
	if err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Report] Failed to parse %q", filename)
		utils.JSON400(c, "Failed to parse report file")
		return
	}
	filtered := parsed.FilterByDeployment(deployment)

	displayName := deployment
	if record, err := ctrl.Records.FindByFilename(filename); err == nil && record.DisplayName != "" {
		displayName = record.DisplayName
	}

	rows := filtered.Rows
	if rows == nil {
		rows = []report.Row{}
	}

	utils.JSON200(c, dto.DeploymentReportResponse{
		Filename:    filename,
		Deployment:  deployment,
		DisplayName: displayName,
		Rows:        rows,
		Totals:      filtered.Totals(),
	})
}

// computeSummary returns the cached summary for a filename, building and
// caching it on a miss.
func (ctrl *Controller) computeSummary(c *gin.Context, filename string) (*report.Summary, error) {
	ctx := c.Request.Context()
	key := ctrl.summaryCacheKey(filename)

	if ctrl.Cache != nil {
		var cached report.Summary
		if err := ctrl.Cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	data, _, err := ctrl.Objects.GetObject(ctx, ctrl.bucket(), filename)
	if err != nil {
		return nil, err
	}
	parsed, err := report.Parse(data)
	if err != nil {
		return nil, err
	}
	summary := parsed.Summarize()

	if ctrl.Cache != nil {
		if err := ctrl.Cache.Set(ctx, key, summary, ctrl.summaryCacheTTL()); err != nil {
			ctrl.Logger.WarningWithContextf(ctx, "[Cache] Failed to cache summary for %q: %v", filename, err)
		}
	}
	return &summary, nil
}

// loadSummary is computeSummary with skip-and-continue semantics for the
// listing: a missing blob yields (nil, false) instead of an error.
func (ctrl *Controller) loadSummary(c *gin.Context, filename string) (*report.Summary, bool) {
	ctx := c.Request.Context()
	summary, err := ctrl.computeSummary(c, filename)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			ctrl.Logger.WarningWithContextf(ctx, "[List] Blob missing for record %q, skipping summary", filename)
		} else {
			ctrl.Logger.WarningWithContextf(ctx, "[List] Could not summarize %q: %v", filename, err)
		}
		return nil, false
	}
	return summary, true
}
