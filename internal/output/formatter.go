// Package output renders scan and inventory results for terminals and tools.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jenian/envsensei/internal/config"
	"github.com/jenian/envsensei/internal/detect"
	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// Format is an output encoding
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatSARIF Format = "sarif"
)

// ParseFormat validates s against the formats a command supports
func ParseFormat(s string, allowed ...Format) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return "", fmt.Errorf("unknown format %q (want one of %s)", s, strings.Join(names, ", "))
}

// FileResult holds the detections of one file
type FileResult struct {
	Path       string             `json:"path"`
	Detections []detect.Detection `json:"detections"`
}

// Formatter writes results to w using the severities of one config snapshot
type Formatter struct {
	w       io.Writer
	cfg     config.Config
	color   bool
	version string
}

// NewFormatter creates a formatter. Colors are used only when w is a terminal.
func NewFormatter(w io.Writer, cfg config.Config, version string) *Formatter {
	return &Formatter{w: w, cfg: cfg, color: colorSupported(w), version: version}
}

// colorSupported reports whether w is a terminal that understands ANSI codes
func colorSupported(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false
	}
	return enableANSI(f)
}

// getColor returns the color code if colors are enabled, empty string otherwise
func (f *Formatter) getColor(code string) string {
	if f.color {
		return code
	}
	return ""
}

func (f *Formatter) severityColor(s config.Severity) string {
	switch s {
	case config.SeverityError:
		return f.getColor(colorRed)
	case config.SeverityWarning:
		return f.getColor(colorYellow)
	case config.SeverityInformation:
		return f.getColor(colorBlue)
	}
	return f.getColor(colorGray)
}

// Detections writes the scan results in the given format
func (f *Formatter) Detections(format Format, results []FileResult) error {
	switch format {
	case FormatJSON:
		return f.detectionsJSON(results)
	case FormatSARIF:
		return f.detectionsSARIF(results)
	}
	return f.detectionsText(results)
}

func (f *Formatter) detectionsText(results []FileResult) error {
	total, secrets, files := 0, 0, 0
	for _, r := range results {
		if len(r.Detections) == 0 {
			continue
		}
		files++
		fmt.Fprintf(f.w, "%s%s%s%s\n", f.getColor(colorBold), f.getColor(colorCyan), displayPath(r.Path), f.getColor(colorReset))
		for _, d := range r.Detections {
			total++
			if d.Category == detect.CategorySecret {
				secrets++
			}
			sev := f.cfg.SeverityFor(string(d.Category))
			fmt.Fprintf(f.w, "  %s%s:%s%s  %s%s%s  %s\n",
				f.getColor(colorGray), displayPath(r.Path), d.Range, f.getColor(colorReset),
				f.severityColor(sev), padRight(string(sev), 11), f.getColor(colorReset),
				d.Message)
			fmt.Fprintf(f.w, "    %s→ %s (%s)%s\n", f.getColor(colorGray), d.ProposedEnvVarName, d.Source, f.getColor(colorReset))
		}
		fmt.Fprintln(f.w)
	}

	if total == 0 {
		fmt.Fprintf(f.w, "%s%s✓ No hardcoded secrets or config values found.%s\n", f.getColor(colorGreen), f.getColor(colorBold), f.getColor(colorReset))
		return nil
	}
	fmt.Fprintf(f.w, "%s%s✗ %d hardcoded %s (%d %s, %d config) in %d %s%s\n",
		f.getColor(colorBold), f.getColor(colorRed),
		total, plural(total, "value", "values"),
		secrets, plural(secrets, "secret", "secrets"), total-secrets,
		files, plural(files, "file", "files"),
		f.getColor(colorReset))
	return nil
}

// CountDetections returns the number of detections across results
func CountDetections(results []FileResult) int {
	n := 0
	for _, r := range results {
		n += len(r.Detections)
	}
	return n
}

// FormatError formats an error message
func FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err)
}

func displayPath(p string) string {
	if p == "" {
		return "<unknown>"
	}
	return filepath.ToSlash(p)
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
