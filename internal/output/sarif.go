package output

import (
	"fmt"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/jenian/envsensei/internal/config"
	"github.com/jenian/envsensei/internal/detect"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"

	// fingerprintKey versions the partialFingerprints hash
	fingerprintKey = "envsensei/v1"
)

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level"`
	Message             sarifMessage      `json:"message"`
	Locations           []sarifLoc        `json:"locations"`
	PartialFingerprints map[string]string `json:"partialFingerprints"`
	Properties          sarifProperties   `json:"properties"`
}

type sarifProperties struct {
	Category           detect.Category `json:"category"`
	ProposedEnvVarName string          `json:"proposedEnvVarName"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

// sarifRegion is one-based; SARIF columns default to UTF-16 code units,
// the unit Range already uses.
type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

var sarifRules = []sarifRule{
	{ID: string(detect.SourceKeyBased), Name: "HardcodedSecretByName", ShortDescription: sarifMessage{Text: "Literal assigned to a secret-looking identifier"}},
	{ID: string(detect.SourceHeaderBased), Name: "HardcodedAuthHeader", ShortDescription: sarifMessage{Text: "Literal value of a sensitive HTTP header"}},
	{ID: string(detect.SourcePatternBased), Name: "HardcodedValuePattern", ShortDescription: sarifMessage{Text: "Literal matching a known secret or URL shape"}},
	{ID: string(detect.SourceConfigBased), Name: "HardcodedConfigValue", ShortDescription: sarifMessage{Text: "Literal assigned to a configuration identifier"}},
}

func severityToLevel(s config.Severity) string {
	switch s {
	case config.SeverityError:
		return "error"
	case config.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

func ruleIndex(source detect.Source) int {
	for i, r := range sarifRules {
		if r.ID == string(source) {
			return i
		}
	}
	return -1
}

// fingerprint identifies a detection across runs without hashing its value
func fingerprint(path string, d detect.Detection) string {
	sum := xxhash.Sum64String(path + "\x00" + d.ProposedEnvVarName + "\x00" + d.Range.Key())
	return fmt.Sprintf("%016x", sum)
}

func (f *Formatter) detectionsSARIF(results []FileResult) error {
	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: "envsensei", Version: f.version, Rules: sarifRules}},
		Results: []sarifResult{},
	}
	for _, r := range results {
		uri := displayPath(r.Path)
		for _, d := range r.Detections {
			run.Results = append(run.Results, sarifResult{
				RuleID:    string(d.Source),
				RuleIndex: ruleIndex(d.Source),
				Level:     severityToLevel(f.cfg.SeverityFor(string(d.Category))),
				Message:   sarifMessage{Text: d.Message},
				Locations: []sarifLoc{{
					PhysicalLocation: sarifPhys{
						ArtifactLocation: sarifArt{URI: uri},
						Region: sarifRegion{
							StartLine:   d.Range.Start.Line + 1,
							StartColumn: d.Range.Start.Column + 1,
							EndLine:     d.Range.End.Line + 1,
							EndColumn:   d.Range.End.Column + 1,
						},
					},
				}},
				PartialFingerprints: map[string]string{fingerprintKey: fingerprint(uri, d)},
				Properties:          sarifProperties{Category: d.Category, ProposedEnvVarName: d.ProposedEnvVarName},
			})
		}
	}
	return f.encode(sarif{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}})
}
