package output

import (
	"encoding/json"
	"fmt"

	"github.com/jenian/envsensei/internal/config"
	"github.com/jenian/envsensei/internal/detect"
	"github.com/jenian/envsensei/internal/inventory"
)

// jsonDetection adds the configured severity. Detection itself has no raw
// value field, so nothing secret reaches the encoder.
type jsonDetection struct {
	detect.Detection
	Severity config.Severity `json:"severity"`
}

type jsonFile struct {
	Path       string          `json:"path"`
	Detections []jsonDetection `json:"detections"`
}

// JSONOutput is the scan report in JSON format
type JSONOutput struct {
	Files   []jsonFile `json:"files"`
	Total   int        `json:"total"`
	Secrets int        `json:"secrets"`
	Config  int        `json:"config"`
}

func (f *Formatter) detectionsJSON(results []FileResult) error {
	out := JSONOutput{Files: []jsonFile{}}
	for _, r := range results {
		if len(r.Detections) == 0 {
			continue
		}
		file := jsonFile{Path: displayPath(r.Path), Detections: make([]jsonDetection, 0, len(r.Detections))}
		for _, d := range r.Detections {
			file.Detections = append(file.Detections, jsonDetection{
				Detection: d,
				Severity:  f.cfg.SeverityFor(string(d.Category)),
			})
			out.Total++
			if d.Category == detect.CategorySecret {
				out.Secrets++
			} else {
				out.Config++
			}
		}
		out.Files = append(out.Files, file)
	}
	return f.encode(out)
}

// InventoryVar is a variable with the places it was found
type InventoryVar struct {
	Name      string   `json:"name"`
	Locations []string `json:"locations"`
}

// InventoryOutput is the reconciliation report in JSON format
type InventoryOutput struct {
	Missing []InventoryVar `json:"missing"`
	Unused  []InventoryVar `json:"unused"`
}

func (f *Formatter) inventoryJSON(issues []inventory.Issue) error {
	missing, unused := groupIssues(issues)
	return f.encode(InventoryOutput{Missing: missing, Unused: unused})
}

// groupIssues groups issue locations by kind and name, keeping first-seen order
func groupIssues(issues []inventory.Issue) (missing, unused []InventoryVar) {
	missing, unused = []InventoryVar{}, []InventoryVar{}
	index := map[inventory.IssueKind]map[string]int{
		inventory.IssueMissing: {},
		inventory.IssueUnused:  {},
	}
	for _, is := range issues {
		list := &missing
		if is.Kind == inventory.IssueUnused {
			list = &unused
		}
		loc := formatLocation(is.Location)
		if i, ok := index[is.Kind][is.Name]; ok {
			(*list)[i].Locations = append((*list)[i].Locations, loc)
			continue
		}
		index[is.Kind][is.Name] = len(*list)
		*list = append(*list, InventoryVar{Name: is.Name, Locations: []string{loc}})
	}
	return missing, unused
}

func formatLocation(l inventory.Location) string {
	return fmt.Sprintf("%s:%s", displayPath(l.Path), l.Range)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
