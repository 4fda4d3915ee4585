package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"lkgen/internal/config"
	"lkgen/internal/freeze"
	"lkgen/internal/marker"
	"lkgen/internal/matrix"
	"lkgen/internal/requirements"
)

var (
	configPath string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lkgen",
		Short: "Generates last-known-good requirements files from CI freeze snapshots",
		Long:  "lkgen consolidates the pip freeze output of a CI test matrix into requirements files whose pins carry environment markers, so one file reproduces the last known good set of every job.",
	}

	generateCmd := &cobra.Command{
		Use:   "generate <snapshot-dir> <output-dir>",
		Short: "Generate lkg.txt and lkg-notebook.txt from freeze snapshots",
		Args:  cobra.ExactArgs(2),
		RunE:  runGenerate,
	}
	generateCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultFile, "Config file path")
	generateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	diffCmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Show pin changes between two requirements files",
		Args:  cobra.ExactArgs(2),
		RunE:  runDiff,
	}

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(diffCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	log := func(format string, args ...interface{}) {
		if verbose {
			fmt.Printf(format+"\n", args...)
		}
	}

	snapshotDir, outputDir := args[0], args[1]

	// Load optional config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg == nil && configPath != config.DefaultFile {
		return fmt.Errorf("config file not found: %s", configPath)
	}
	if cfg == nil {
		log("No %s found, using defaults", config.DefaultFile)
	} else {
		log("Loaded config %s (%d exclusions)", configPath, len(cfg.Excluded()))
	}

	// Scan freeze snapshots
	log("Scanning snapshots: %s", snapshotDir)
	scanner := freeze.NewScanner(cfg.Excluded(), verbose)
	tests, notebooks, err := scanner.ScanDir(snapshotDir)
	if err != nil {
		return fmt.Errorf("scanning snapshots: %w", err)
	}

	// Tests output
	if err := writeRequirements(tests, filepath.Join(outputDir, cfg.TestsFile()), log); err != nil {
		return err
	}

	// Notebooks output
	if err := writeRequirements(notebooks, filepath.Join(outputDir, cfg.NotebooksFile()), log); err != nil {
		return err
	}
	return nil
}

func writeRequirements(collection *matrix.Collection, path string, log func(string, ...interface{})) error {
	// Drop conflicting pins before synthesizing markers
	for _, c := range collection.ResolveConflicts() {
		fmt.Fprintf(os.Stderr, "warning: multiple versions of %s for (%s, python %s): %s; keeping %s\n",
			c.Package, c.Platform, c.PyVersion, strings.Join(c.Versions, ", "), c.Kept)
	}

	lines, err := marker.Synthesize(collection)
	if err != nil {
		return fmt.Errorf("synthesizing markers for %s: %w", path, err)
	}
	log("Synthesized %d pins for %s", len(lines), path)

	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer outFile.Close()

	if err := requirements.NewEmitter(outFile).Emit(lines); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Printf("Generated %s with %d pinned requirements\n", path, len(lines))
	return nil
}

func runDiff(cmd *cobra.Command, args []string) error {
	before, err := readRequirements(args[0])
	if err != nil {
		return err
	}
	after, err := readRequirements(args[1])
	if err != nil {
		return err
	}

	for _, change := range diffLines(before, after) {
		fmt.Println(change)
	}
	return nil
}

func readRequirements(path string) ([]requirements.Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	lines, err := requirements.NewParser(f).Parse()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return lines, nil
}

// diffLines keys changes on name plus marker, so a pin that moves targets
// within the same environment shows as one "~" line instead of an
// add/remove pair.
func diffLines(before, after []requirements.Line) []string {
	key := func(l requirements.Line) string {
		if l.Marker == "" {
			return l.Name
		}
		return l.Name + "; " + l.Marker
	}

	old := make(map[string]requirements.Line, len(before))
	for _, l := range before {
		old[key(l)] = l
	}
	seen := make(map[string]bool, len(after))

	var changes []string
	for _, l := range after {
		k := key(l)
		seen[k] = true
		prev, ok := old[k]
		switch {
		case !ok:
			changes = append(changes, "+ "+l.String())
		case prev.Version != l.Version:
			changes = append(changes, fmt.Sprintf("~ %s: %s -> %s", k, prev.Version, l.Version))
		}
	}
	for _, l := range before {
		if !seen[key(l)] {
			changes = append(changes, "- "+l.String())
		}
	}

	sort.Strings(changes)
	return changes
}
