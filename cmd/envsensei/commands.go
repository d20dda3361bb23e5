package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jenian/envsensei/internal/config"
	"github.com/jenian/envsensei/internal/detect"
	"github.com/jenian/envsensei/internal/envfile"
	"github.com/jenian/envsensei/internal/naming"
	"github.com/jenian/envsensei/internal/remedy"
	"github.com/jenian/envsensei/internal/schema"
	"github.com/jenian/envsensei/internal/syntax"
	"github.com/spf13/cobra"
)

type fixOptions struct {
	names  []string
	dir    string
	dryRun bool
}

func newFixCmd(g *globalOptions) *cobra.Command {
	opts := &fixOptions{}
	cmd := &cobra.Command{
		Use:   "fix <file>",
		Short: "Replace hardcoded values in a file with process.env reads",
		Long: "Replace every hardcoded value found in a JS/TS file (or only the ones with the given --name) " +
			"with a process.env read, and register the variables in the example env file and, when enabled, the env schema.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, g, opts, args[0])
		},
	}
	cmd.Flags().StringSliceVar(&opts.names, "name", []string{}, "Only fix detections with these proposed variable names")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "Project root (default: nearest directory with .envsenseirc.json or package.json)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the planned changes without writing anything")
	return cmd
}

// projectRoot finds the project a file belongs to
func projectRoot(file string) string {
	for _, marker := range []string{config.ProjectFileName, "package.json"} {
		if found, ok := envfile.FindNearest(file, marker); ok {
			return filepath.Dir(found)
		}
	}
	return filepath.Dir(file)
}

func selectDetections(detections []detect.Detection, names []string) []detect.Detection {
	if len(names) == 0 {
		return detections
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[strings.TrimSpace(n)] = true
	}
	var out []detect.Detection
	for _, d := range detections {
		if wanted[d.ProposedEnvVarName] {
			out = append(out, d)
		}
	}
	return out
}

func runFix(cmd *cobra.Command, g *globalOptions, opts *fixOptions, path string) error {
	out := cmd.OutOrStdout()

	file, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("cannot fix %s: %w", path, err)
	}
	lang := syntax.LanguageFor(file)
	if !lang.IsJavaScriptFamily() {
		return fmt.Errorf("cannot fix %s: not a JavaScript or TypeScript file", path)
	}

	root := opts.dir
	if root == "" {
		root = projectRoot(file)
	}
	cfg := g.loader().Load(root)

	src, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	p := syntax.NewParser()
	doc, err := p.ParseLanguage(lang, file, src)
	if err != nil {
		return err
	}
	detections := selectDetections(detect.New(cfg).Analyze(doc), opts.names)
	doc.Close()

	if len(detections) == 0 {
		fmt.Fprintf(out, "Nothing to fix in %s\n", path)
		return nil
	}

	edits := make([]remedy.Edit, 0, len(detections))
	for _, d := range detections {
		edits = append(edits, remedy.Extraction(d, cfg.InsertFallback))
	}
	fixed, err := remedy.Apply(src, edits)
	if err != nil {
		return fmt.Errorf("cannot fix %s: %w", path, err)
	}

	manifestPath, ok := envfile.FindNearest(file, cfg.EnvExampleFileName)
	if !ok {
		manifestPath = filepath.Join(root, cfg.EnvExampleFileName)
	}
	schemaPath := filepath.Join(root, cfg.Schema.Path)

	if opts.dryRun {
		for i, d := range detections {
			fmt.Fprintf(out, "%s:%s  %s → %s\n", path, d.Range, d.RedactedValue(), edits[i].Text)
			if word, ok := remedy.SuggestIgnoreWord(d); ok {
				fmt.Fprintf(out, "    to keep it instead: envsensei ignore %s\n", word)
			}
		}
		fmt.Fprintf(out, "Would add %d variable(s) to %s\n", len(uniqueNames(detections)), manifestPath)
		return nil
	}

	if err := os.WriteFile(file, fixed, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(out, "Extracted %d value(s) in %s\n", len(detections), path)

	for _, d := range uniqueNames(detections) {
		added, err := envfile.Append(manifestPath, d.ProposedEnvVarName, d.Category)
		if err != nil {
			return err
		}
		if added {
			fmt.Fprintf(out, "Added %s to %s\n", d.ProposedEnvVarName, manifestPath)
		}

		if cfg.Schema.Enabled {
			added, err := schema.Add(schemaPath, d.ProposedEnvVarName, d.Category)
			if err != nil {
				return err
			}
			if added {
				fmt.Fprintf(out, "Added %s to %s\n", d.ProposedEnvVarName, schemaPath)
			}
		}
	}
	return nil
}

// uniqueNames keeps the first detection for every proposed name
func uniqueNames(detections []detect.Detection) []detect.Detection {
	seen := make(map[string]bool)
	var out []detect.Detection
	for _, d := range detections {
		if d.ProposedEnvVarName == "" || seen[d.ProposedEnvVarName] {
			continue
		}
		seen[d.ProposedEnvVarName] = true
		out = append(out, d)
	}
	return out
}

type addOptions struct {
	category string
	dir      string
	schema   bool
}

func newAddCmd(g *globalOptions) *cobra.Command {
	opts := &addOptions{}
	cmd := &cobra.Command{
		Use:   "add <NAME>",
		Short: "Add a variable to the example env file",
		Long:  "Append NAME with a placeholder value to the example env file, and optionally to the env schema.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, g, opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.category, "category", string(detect.CategorySecret), "Variable category: secret or config")
	cmd.Flags().StringVar(&opts.dir, "dir", ".", "Project root")
	cmd.Flags().BoolVar(&opts.schema, "schema", false, "Also add the variable to the env schema")
	return cmd
}

func parseCategory(s string) (detect.Category, error) {
	switch c := detect.Category(strings.ToLower(strings.TrimSpace(s))); c {
	case detect.CategorySecret, detect.CategoryConfig:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q (want secret or config)", s)
}

func runAdd(cmd *cobra.Command, g *globalOptions, opts *addOptions, arg string) error {
	out := cmd.OutOrStdout()

	category, err := parseCategory(opts.category)
	if err != nil {
		return err
	}
	name := naming.ToEnvVarName(arg, "")
	if name == "" {
		return fmt.Errorf("invalid variable name %q", arg)
	}

	cfg := g.loader().Load(opts.dir)
	manifestPath := filepath.Join(opts.dir, cfg.EnvExampleFileName)
	added, err := envfile.Append(manifestPath, name, category)
	if err != nil {
		return err
	}
	if added {
		fmt.Fprintf(out, "Added %s to %s\n", name, manifestPath)
	} else {
		fmt.Fprintf(out, "%s is already in %s\n", name, manifestPath)
	}

	if opts.schema || cfg.Schema.Enabled {
		schemaPath := filepath.Join(opts.dir, cfg.Schema.Path)
		added, err := schema.Add(schemaPath, name, category)
		if err != nil {
			return err
		}
		if added {
			fmt.Fprintf(out, "Added %s to %s\n", name, schemaPath)
		}
	}
	return nil
}

func newIgnoreCmd(g *globalOptions) *cobra.Command {
	var (
		dir  string
		user bool
	)
	cmd := &cobra.Command{
		Use:   "ignore <word>",
		Short: "Stop reporting values matching a word",
		Long:  "Add a word to ignoredWords in .envsenseirc.json, or in the user settings file with --user. Detections whose identifier, proposed name or value contain it are no longer reported.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			word := strings.TrimSpace(args[0])
			target := config.ProjectFileName
			var (
				added bool
				err   error
			)
			if user {
				target = g.hostPath()
				added, err = config.AddHostIgnoredWord(target, word)
			} else {
				added, err = config.AddIgnoredWord(dir, word)
			}
			if err != nil {
				return err
			}
			if added {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q to %s\n", word, target)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%q is already ignored\n", word)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "Project root")
	cmd.Flags().BoolVar(&user, "user", false, "Write to the user settings file instead of the project")
	return cmd
}

func newInitConfigCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Create a .envsenseirc.json file",
		Long:  "Creates a .envsenseirc.json file with the default settings in the project root.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteDefault(dir)
			if errors.Is(err, config.ErrProjectFileExists) {
				return fmt.Errorf("%s already exists in %s", config.ProjectFileName, dir)
			}
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", config.ProjectFileName, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "Project root")
	return cmd
}
