package dto

import (
	"github.com/clusterbreakdown/cost-report-service/entity"
	"github.com/clusterbreakdown/cost-report-service/report"
)

// UploadListItem is one row of the upload listing; Summary is only populated
// when the caller asks for it and stays null when the backing blob is gone.
type UploadListItem struct {
	entity.UploadRecord
	Summary *report.Summary `json:"summary,omitempty"`
}

// DeploymentsResponse lists the deployments found in one uploaded CSV.
type DeploymentsResponse struct {
	Filename    string   `json:"filename"`
	Deployments []string `json:"deployments"`
}

// DashboardResponse is the aggregated dashboard for one uploaded CSV.
type DashboardResponse struct {
	Filename    string `json:"filename"`
	DisplayName string `json:"display_name"`
	report.Summary
}

// DeploymentReportResponse is the per-deployment cost report.
type DeploymentReportResponse struct {
	Filename    string        `json:"filename"`
	Deployment  string        `json:"deployment"`
	DisplayName string        `json:"display_name"`
	Rows        []report.Row  `json:"rows"`
	Totals      report.Totals `json:"totals"`
}
