// Package inventory cross-references environment variables read in code
// with the ones declared in the example env file.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jenian/envsensei/internal/envfile"
	"github.com/jenian/envsensei/internal/languages"
	"github.com/jenian/envsensei/internal/logging"
	"github.com/jenian/envsensei/internal/pool"
	"github.com/jenian/envsensei/internal/scanner"
	"github.com/jenian/envsensei/internal/syntax"
)

// Location is a position in a file
type Location struct {
	Path  string       `json:"path"`
	Range syntax.Range `json:"range"`
}

// UsageMap maps variable names to the places reading them, keeping names in
// first-seen order.
type UsageMap struct {
	names     []string
	locations map[string][]Location
}

// NewUsageMap creates an empty usage map
func NewUsageMap() *UsageMap {
	return &UsageMap{locations: make(map[string][]Location)}
}

// Add records a read of name at loc
func (u *UsageMap) Add(name string, loc Location) {
	if _, ok := u.locations[name]; !ok {
		u.names = append(u.names, name)
	}
	u.locations[name] = append(u.locations[name], loc)
}

// Names returns the variable names in first-seen order
func (u *UsageMap) Names() []string {
	return append([]string(nil), u.names...)
}

// Locations returns the reads of name
func (u *UsageMap) Locations(name string) []Location {
	return u.locations[name]
}

// Has reports whether name is read anywhere
func (u *UsageMap) Has(name string) bool {
	_, ok := u.locations[name]
	return ok
}

// Len is the number of distinct names
func (u *UsageMap) Len() int {
	return len(u.names)
}

// Scan parses files concurrently and collects their env var reads. Results
// are merged in file order so the map is deterministic. Files that fail to
// read or parse are logged and skipped. Scan only reads; abandoning it
// through ctx leaves nothing behind.
func Scan(ctx context.Context, p *syntax.Parser, files []scanner.File) (*UsageMap, error) {
	return scan(ctx, p, files, 0)
}

func scan(ctx context.Context, p *syntax.Parser, files []scanner.File, workers int) (*UsageMap, error) {
	results := pool.Map(ctx, files, workers, func(ctx context.Context, f scanner.File) ([]languages.Read, error) {
		if !languages.Supported(f.Language) {
			return nil, nil
		}
		src, err := f.Read()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Path, err)
		}
		doc, err := p.ParseLanguage(f.Language, f.Path, src)
		if err != nil {
			return nil, err
		}
		defer doc.Close()
		return languages.FindReads(p, doc)
	})

	usages := NewUsageMap()
	for i, r := range results {
		if r.Err != nil {
			if errors.Is(r.Err, context.Canceled) || errors.Is(r.Err, context.DeadlineExceeded) {
				return nil, r.Err
			}
			logging.Logger.Warnf("skipping %s: %v", files[i].Path, r.Err)
			continue
		}
		for _, read := range r.Value {
			usages.Add(read.Name, Location{Path: files[i].Name(), Range: read.Range})
		}
	}
	return usages, nil
}

// IssueKind classifies a reconciliation finding
type IssueKind string

const (
	// IssueMissing is a variable read in code but absent from the manifest
	IssueMissing IssueKind = "missing-in-env-example"
	// IssueUnused is a manifest entry no code reads
	IssueUnused IssueKind = "unused-in-code"
)

// Issue is one reconciliation finding
type Issue struct {
	Kind     IssueKind `json:"kind"`
	Name     string    `json:"name"`
	Location Location  `json:"location"`
}

// Reconcile compares usages with the manifest entries read from manifestPath.
// Every read of an undeclared variable is reported, in usage order, followed
// by every declared variable nothing reads, at its manifest line.
func Reconcile(usages *UsageMap, entries []envfile.Entry, manifestPath string) []Issue {
	issues := []Issue{}
	if usages == nil {
		usages = NewUsageMap()
	}

	declared := make(map[string]bool, len(entries))
	for _, e := range entries {
		declared[e.Key] = true
	}

	for _, name := range usages.names {
		if declared[name] {
			continue
		}
		for _, loc := range usages.locations[name] {
			issues = append(issues, Issue{Kind: IssueMissing, Name: name, Location: loc})
		}
	}

	reported := make(map[string]bool)
	for _, e := range entries {
		if usages.Has(e.Key) || reported[e.Key] {
			continue
		}
		reported[e.Key] = true
		issues = append(issues, Issue{
			Kind: IssueUnused,
			Name: e.Key,
			Location: Location{
				Path: manifestPath,
				Range: syntax.Range{
					Start: syntax.Position{Line: e.Line, Column: 0},
					End:   syntax.Position{Line: e.Line, Column: syntax.UTF16Len(e.Key)},
				},
			},
		})
	}
	return issues
}
