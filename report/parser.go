// Package report parses uploaded CSV cost reports and computes the
// cost-breakdown figures served by the dashboard endpoints.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Candidate header names for the cluster/deployment column, checked in order.
var clusterColumns = []string{"Deployment name", "Cluster Name", "Cluster", "ClusterName"}

var datePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)

// Row is one RAM-hours line of a parsed cost report.
type Row struct {
	Deployment  string  `json:"deployment"`
	Tier        string  `json:"tier"`
	Provider    string  `json:"provider"`
	Edition     string  `json:"edition"`
	SKUCode     string  `json:"sku_code"`
	Region      string  `json:"region"`
	SizeGB      int     `json:"size_gb"`
	Nodes       int     `json:"number_of_nodes"`
	CostPerHour float64 `json:"cost_per_hour"`
	CostPerDay  float64 `json:"cost_per_day"`
	CostPerYear float64 `json:"cost_per_year"`
	TotalCost   float64 `json:"total_cost_period"`
}

// Report holds the RAM-hours rows of one uploaded CSV.
type Report struct {
	Rows []Row `json:"rows"`
}

// Totals are the summed costs over a report's rows.
type Totals struct {
	Hour float64 `json:"hour"`
	Day  float64 `json:"day"`
	Year float64 `json:"year"`
}

// Summary is the aggregated dashboard view of a report.
type Summary struct {
	TotalYearlyCost float64            `json:"total_yearly_cost"`
	ByDeployment    map[string]float64 `json:"by_deployment"`
	ByProvider      map[string]float64 `json:"by_provider"`
}

// ExtractDate pulls a YYYY-MM-DD date out of a filename, "NoDate" otherwise.
func ExtractDate(filename string) string {
	if match := datePattern.FindString(filename); match != "" {
		return match
	}
	return "NoDate"
}

// Parse reads a CSV cost report and returns its RAM-hours rows with the
// per-hour/day/year cost columns computed.
func Parse(data []byte) (*Report, error) {
	header, records, err := readCSV(data)
	if err != nil {
		return nil, err
	}

	clusterIdx := findClusterColumn(header)
	skuIdx := columnIndex(header, "SKU Name")
	usageIdx := columnIndex(header, "Usage type")
	priceIdx := columnIndex(header, "Unit price")
	totalIdx := columnIndex(header, "Total")

	rep := &Report{}
	for _, record := range records {
		component := "Unknown"
		if v := cell(record, usageIdx); v != "" {
			component = strings.TrimSpace(v)
		}
		if !strings.EqualFold(component, "ram hours") {
			continue
		}

		row := Row{
			Deployment: "Unknown",
			Tier:       "Unknown",
			Provider:   "Unknown",
			Edition:    "Unknown",
			SKUCode:    "Unknown",
			Region:     "Unknown",
		}
		if clusterIdx >= 0 {
			if v := strings.TrimSpace(cell(record, clusterIdx)); v != "" {
				row.Deployment = v
			}
		}
		if skuIdx >= 0 {
			parseSKUName(cell(record, skuIdx), &row)
		}

		row.CostPerHour = toFloat(cell(record, priceIdx))
		row.CostPerDay = row.CostPerHour * 24
		row.CostPerYear = row.CostPerDay * 365
		row.TotalCost = toFloat(cell(record, totalIdx))

		rep.Rows = append(rep.Rows, row)
	}
	return rep, nil
}

// Deployments returns the unique cluster-column values of the raw CSV, in
// order of appearance. Reports without a recognizable cluster column get a
// single "All Data" bucket.
func Deployments(data []byte) ([]string, error) {
	header, records, err := readCSV(data)
	if err != nil {
		return nil, err
	}

	clusterIdx := findClusterColumn(header)
	if clusterIdx < 0 {
		return []string{"All Data"}, nil
	}

	seen := map[string]bool{}
	var deployments []string
	for _, record := range records {
		v := strings.TrimSpace(cell(record, clusterIdx))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		deployments = append(deployments, v)
	}
	return deployments, nil
}

// FilterByDeployment keeps the rows of a single deployment.
func (r *Report) FilterByDeployment(deployment string) *Report {
	filtered := &Report{}
	for _, row := range r.Rows {
		if row.Deployment == deployment {
			filtered.Rows = append(filtered.Rows, row)
		}
	}
	return filtered
}

// Totals sums the cost columns over all rows.
func (r *Report) Totals() Totals {
	var t Totals
	for _, row := range r.Rows {
		t.Hour += row.CostPerHour
		t.Day += row.CostPerDay
		t.Year += row.CostPerYear
	}
	t.Hour = round2(t.Hour)
	t.Day = round2(t.Day)
	t.Year = round2(t.Year)
	return t
}

// Summarize aggregates yearly cost by deployment and by provider, dropping
// zero-cost buckets.
func (r *Report) Summarize() Summary {
	byDeployment := map[string]float64{}
	byProvider := map[string]float64{}
	var total float64

	for _, row := range r.Rows {
		total += row.CostPerYear
		byDeployment[row.Deployment] += row.CostPerYear
		byProvider[row.Provider] += row.CostPerYear
	}

	for k, v := range byDeployment {
		if v <= 0 {
			delete(byDeployment, k)
			continue
		}
		byDeployment[k] = round2(v)
	}
	for k, v := range byProvider {
		if v <= 0 {
			delete(byProvider, k)
			continue
		}
		byProvider[k] = round2(v)
	}

	return Summary{
		TotalYearlyCost: round2(total),
		ByDeployment:    byDeployment,
		ByProvider:      byProvider,
	}
}

// parseSKUName splits "Tier_code.edition.sku_Region_SizeMB_Nodes" SKU names
// into their components. Missing parts keep their "Unknown"/zero defaults.
func parseSKUName(sku string, row *Row) {
	parts := strings.SplitN(sku, "_", 5)
	for len(parts) < 5 {
		parts = append(parts, "")
	}
	tier, skuCodeFull, region, sizeMB, nodes := parts[0], parts[1], parts[2], parts[3], parts[4]

	if tier != "" {
		row.Tier = tier
	}
	if region != "" {
		row.Region = region
	}

	if skuCodeFull != "" {
		codeParts := strings.SplitN(skuCodeFull, ".", 3)
		row.Provider = codeParts[0]
		if len(codeParts) > 1 && codeParts[1] != "" {
			row.Edition = codeParts[1]
		}
		if len(codeParts) > 2 && codeParts[2] != "" {
			row.SKUCode = codeParts[2]
		}
	}

	sizeGB := toFloat(sizeMB) / 1024
	row.Nodes = int(toFloat(nodes))
	// Sizes above 64GB are reported as cluster totals, not per node.
	if sizeGB > 64 && row.Nodes > 0 {
		sizeGB = sizeGB / float64(row.Nodes)
	}
	row.SizeGB = int(math.Round(sizeGB))
}

func readCSV(data []byte) ([]string, [][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty CSV")
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(name)
	}
	return header, records[1:], nil
}

func findClusterColumn(header []string) int {
	for _, candidate := range clusterColumns {
		if idx := columnIndex(header, candidate); idx >= 0 {
			return idx
		}
	}
	return -1
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func toFloat(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
