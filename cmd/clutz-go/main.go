// Command clutz-go is the CLI surface spec.md §6 describes as "external
// collaborator, listed for completeness": it is a thin wrapper around
// pkg/driver.Transpile, not part of the three-pass core itself.
//
// Flag parsing follows the teacher's cmd/uispec/main.go idiom: a manual
// os.Args loop rather than a flag-parsing library, since the teacher never
// reaches for one either.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gmoothart/clutzgo/catalogs"
	"github.com/gmoothart/clutzgo/pkg/driver"
	"github.com/gmoothart/clutzgo/pkg/externsmap"
	"github.com/gmoothart/clutzgo/pkg/util"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

type cliArgs struct {
	outDir      string
	root        string
	debug       bool
	convert     []string
	externs     []string
	externsMap  string
	positionals []string
}

func parseArgs(args []string) (cliArgs, error) {
	var a cliArgs

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o":
			if i+1 >= len(args) {
				return a, fmt.Errorf("-o requires an OUTPUT_DIR argument")
			}
			i++
			a.outDir = args[i]
		case "--root":
			if i+1 >= len(args) {
				return a, fmt.Errorf("--root requires a ROOT argument")
			}
			i++
			a.root = args[i]
		case "--debug":
			a.debug = true
		case "--externsMap":
			if i+1 >= len(args) {
				return a, fmt.Errorf("--externsMap requires a PATH argument")
			}
			i++
			a.externsMap = args[i]
		case "--convert":
			for i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
				a.convert = append(a.convert, args[i])
			}
		case "--externs":
			for i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
				a.externs = append(a.externs, args[i])
			}
		default:
			if strings.HasPrefix(args[i], "-") {
				return a, fmt.Errorf("unknown flag: %s", args[i])
			}
			a.positionals = append(a.positionals, args[i])
		}
	}

	return a, nil
}

func run(args []string) int {
	a, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clutz-go: %v\n", err)
		printUsage()
		return 1
	}

	logCfg := util.DefaultLoggerConfig()
	logCfg.Format = util.FormatText
	logCfg.Output = os.Stderr
	if a.debug {
		logCfg.Level = util.LevelDebug
	}
	logger := util.NewLogger(logCfg)

	emitFiles := append(append([]string{}, a.positionals...), a.convert...)
	if len(emitFiles) == 0 {
		fmt.Fprintln(os.Stderr, "clutz-go: no input files given")
		printUsage()
		return 1
	}

	externs, err := loadExternsMap(a.externsMap, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clutz-go: %v\n", err)
		return 1
	}

	d, err := driver.New(externs, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clutz-go: %v\n", err)
		return 1
	}
	defer d.Close()

	sources, emit, err := collectSources(a.root, emitFiles, a.externs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clutz-go: %v\n", err)
		return 1
	}

	out, errs := d.Transpile(driver.FilesToEmitSet(emit), sources)
	for name, fileErr := range errs {
		logger.Warn("file failed", "file", name, "error", fileErr)
	}

	if len(out) == 0 && len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "clutz-go: all inputs failed, nothing emitted")
		return 1
	}

	if err := writeOutputs(a.outDir, out); err != nil {
		fmt.Fprintf(os.Stderr, "clutz-go: %v\n", err)
		return 1
	}

	if len(errs) > 0 {
		return 1
	}
	return 0
}

// loadExternsMap builds the externs lookup table the type-annotation pass
// falls back to for names matching no known namespace: the bundled defaults (catalogs.DefaultExterns)
// overridden by a caller-supplied --externsMap file, if any.
func loadExternsMap(path string, logger *slog.Logger) (externsmap.Map, error) {
	defaults, err := catalogs.DefaultExterns()
	if err != nil {
		return nil, fmt.Errorf("loading bundled default externs: %w", err)
	}

	override, err := externsmap.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading externs map: %w", err)
	}

	logger.Debug("loaded externs map", "defaults", len(defaults), "overrides", len(override))
	return externsmap.Merge(defaults, override), nil
}

// collectSources reads every file named by emitFiles and externsFiles from
// disk, naming each Source relative to root (or its own path, if root is
// empty), and returns the combined Source slice plus the subset of names
// that should actually be emitted (emitFiles, not externsFiles) — spec.md
// §7, P7's "externs files are indexed, never emitted."
func collectSources(root string, emitFiles, externsFiles []string) ([]driver.Source, []string, error) {
	sources := make([]driver.Source, 0, len(emitFiles)+len(externsFiles))
	emit := make([]string, 0, len(emitFiles))

	add := func(path string) (string, error) {
		text, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		name := path
		if root != "" {
			if rel, relErr := filepath.Rel(root, path); relErr == nil {
				name = rel
			}
		}
		name = filepath.ToSlash(name)
		sources = append(sources, driver.Source{Name: name, Text: string(text)})
		return name, nil
	}

	for _, path := range emitFiles {
		name, err := add(path)
		if err != nil {
			return nil, nil, err
		}
		emit = append(emit, name)
	}
	for _, path := range externsFiles {
		if _, err := add(path); err != nil {
			return nil, nil, err
		}
	}

	return sources, emit, nil
}

// writeOutputs writes each basename->text pair under outDir with a ".ts"
// extension, per spec.md §6's emission convention. An empty outDir writes
// to the current directory.
func writeOutputs(outDir string, out map[string]string) error {
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("creating output dir %s: %w", outDir, err)
		}
	}

	for basename, text := range out {
		dest := basename + ".ts"
		if outDir != "" {
			dest = filepath.Join(outDir, dest)
		}
		if err := os.WriteFile(dest, []byte(text), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", dest, err)
		}
	}
	return nil
}

func printUsage() {
	fmt.Println("Usage: clutz-go [-o OUTPUT_DIR] [--root ROOT] [--debug] [--convert FILE...] [--externs FILE...] [--externsMap PATH] FILE...")
}
