package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jenian/envsensei/internal/config"
	"github.com/jenian/envsensei/internal/detect"
	"github.com/jenian/envsensei/internal/envfile"
	"github.com/jenian/envsensei/internal/inventory"
	"github.com/jenian/envsensei/internal/languages"
	"github.com/jenian/envsensei/internal/logging"
	"github.com/jenian/envsensei/internal/output"
	"github.com/jenian/envsensei/internal/pool"
	"github.com/jenian/envsensei/internal/scanner"
	"github.com/jenian/envsensei/internal/syntax"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

// errIssuesFound makes the process exit with status 1 without printing an error
var errIssuesFound = errors.New("issues found")

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	debug    bool
	settings string
}

func (g *globalOptions) hostPath() string {
	if g.settings != "" {
		return g.settings
	}
	return config.DefaultHostPath()
}

func (g *globalOptions) loader() *config.Loader {
	return config.NewLoader(g.hostPath())
}

type scanOptions struct {
	format       string
	silent       bool
	includeGlobs []string
	excludeGlobs []string
}

type inventoryOptions struct {
	format string
	silent bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "envsensei",
		Short:         "Find hardcoded secrets and config values in JS/TS code",
		Long:          "A CLI tool that finds hardcoded secrets and configuration values in JavaScript and TypeScript code and moves them into environment variables.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Init(g.debug)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&g.settings, "settings", "", "User settings file (default: $XDG_CONFIG_HOME/envsensei/settings.yaml)")

	rootCmd.AddCommand(newScanCmd(g))
	rootCmd.AddCommand(newInventoryCmd(g))
	rootCmd.AddCommand(newFixCmd(g))
	rootCmd.AddCommand(newAddCmd(g))
	rootCmd.AddCommand(newIgnoreCmd(g))
	rootCmd.AddCommand(newInitConfigCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "Print the version number of envsensei",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	})
	return rootCmd
}

func newScanCmd(g *globalOptions) *cobra.Command {
	opts := &scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan JS/TS files for hardcoded secrets and config values",
		Long:  "Recursively scan a directory (or a single file) for hardcoded secrets and configuration values. Exits with status 1 when anything is found.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, g, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json or sarif")
	cmd.Flags().BoolVar(&opts.silent, "silent", false, "Silent mode (exit code only)")
	cmd.Flags().StringSliceVar(&opts.includeGlobs, "include", []string{}, "Glob patterns to include")
	cmd.Flags().StringSliceVar(&opts.excludeGlobs, "exclude", []string{}, "Glob patterns to exclude")
	return cmd
}

func newInventoryCmd(g *globalOptions) *cobra.Command {
	opts := &inventoryOptions{}
	cmd := &cobra.Command{
		Use:   "inventory [path]",
		Short: "Compare environment variable reads with the example env file",
		Long:  "Find every static environment variable read (JS/TS, Go, Python, Rust, Java) and report variables missing from, or unused in, the example env file. Exits with status 1 on any issue.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInventory(cmd, g, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&opts.silent, "silent", false, "Silent mode (exit code only)")
	return cmd
}

// resolveTarget returns the absolute scan target and the project root it
// belongs to: the target itself, or its directory when it is a file.
func resolveTarget(args []string) (target, root string, err error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	target, err = filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(target)
	if os.IsNotExist(err) {
		return "", "", fmt.Errorf("path does not exist: %s", target)
	}
	if err != nil {
		return "", "", err
	}

	root = target
	if !info.IsDir() {
		root = filepath.Dir(target)
	}
	return target, root, nil
}

func runScan(cmd *cobra.Command, g *globalOptions, opts *scanOptions, args []string) error {
	format, err := output.ParseFormat(opts.format, output.FormatText, output.FormatJSON, output.FormatSARIF)
	if err != nil {
		return err
	}

	target, root, err := resolveTarget(args)
	if err != nil {
		return err
	}
	cfg := g.loader().Load(root)

	fileScanner := scanner.NewScanner()
	fileScanner.SetLanguageFilter(syntax.Language.IsJavaScriptFamily)
	fileScanner.SetExcludeGlobs(append(append([]string(nil), cfg.IgnoredGlobs...), opts.excludeGlobs...))
	if len(opts.includeGlobs) > 0 {
		fileScanner.SetIncludeGlobs(opts.includeGlobs)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logging.Logger.Debugf("scanning %s", target)
	files, err := fileScanner.Scan(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to scan directory: %w", err)
	}
	logging.Logger.Debugf("found %d files to parse", len(files))

	results := detectFiles(ctx, syntax.NewParser(), detect.New(cfg), files)
	if err := ctx.Err(); err != nil {
		return err
	}

	if !opts.silent {
		formatter := output.NewFormatter(cmd.OutOrStdout(), cfg, Version)
		if err := formatter.Detections(format, results); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
	}

	if output.CountDetections(results) > 0 {
		return errIssuesFound
	}
	return nil
}

// detectFiles parses and analyzes files in parallel, one tree-sitter parser per file,
// and returns the results in file order
func detectFiles(ctx context.Context, p *syntax.Parser, detector *detect.Detector, files []scanner.File) []output.FileResult {
	analyzed := pool.Map(ctx, files, 0, func(ctx context.Context, f scanner.File) ([]detect.Detection, error) {
		src, err := f.Read()
		if err != nil {
			return nil, err
		}
		doc, err := p.ParseLanguage(f.Language, f.Path, src)
		if err != nil {
			return nil, err
		}
		defer doc.Close()
		return detector.Analyze(doc), nil
	})

	results := make([]output.FileResult, 0, len(files))
	for i, r := range analyzed {
		if r.Err != nil {
			logging.Logger.Warnf("failed to analyze %s: %v", files[i].Name(), r.Err)
			continue
		}
		results = append(results, output.FileResult{Path: files[i].Name(), Detections: r.Value})
	}
	return results
}

func runInventory(cmd *cobra.Command, g *globalOptions, opts *inventoryOptions, args []string) error {
	format, err := output.ParseFormat(opts.format, output.FormatText, output.FormatJSON)
	if err != nil {
		return err
	}

	_, root, err := resolveTarget(args)
	if err != nil {
		return err
	}
	cfg := g.loader().Load(root)

	fileScanner := scanner.NewScanner()
	fileScanner.SetLanguageFilter(languages.Supported)
	fileScanner.SetExcludeGlobs(cfg.IgnoredGlobs)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	files, err := fileScanner.Scan(ctx, root)
	if err != nil {
		return fmt.Errorf("failed to scan directory: %w", err)
	}

	usages, err := inventory.Scan(ctx, syntax.NewParser(), files)
	if err != nil {
		return err
	}

	manifestPath := filepath.Join(root, cfg.EnvExampleFileName)
	entries, err := envfile.Read(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", cfg.EnvExampleFileName, err)
	}

	issues := inventory.Reconcile(usages, entries, cfg.EnvExampleFileName)
	if !opts.silent {
		formatter := output.NewFormatter(cmd.OutOrStdout(), cfg, Version)
		if err := formatter.Inventory(format, issues); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
	}

	if len(issues) > 0 {
		return errIssuesFound
	}
	return nil
}

// exitCode prints err (unless it only signals findings) and maps it to a status
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	if !errors.Is(err, errIssuesFound) {
		fmt.Fprint(stderr, output.FormatError(err))
	}
	return 1
}

func main() {
	err := newRootCmd(os.Stdout, os.Stderr).Execute()
	logging.Sync()
	os.Exit(exitCode(err, os.Stderr))
}
