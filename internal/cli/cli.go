package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/jenian/locgrd/internal/analyzer"
	"github.com/jenian/locgrd/internal/config"
	"github.com/jenian/locgrd/internal/fsys"
	"github.com/jenian/locgrd/internal/locfile"
	"github.com/jenian/locgrd/internal/output"
	"github.com/jenian/locgrd/internal/parser"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

// ErrIssuesFound is returned by check when keys are missing definitions.
// The error is not printed; it only sets the exit code.
var ErrIssuesFound = errors.New("missing localization keys")

// scanOptions holds the flags shared by scan and check
type scanOptions struct {
	path         string
	jsonOutput   bool
	silent       bool
	debug        bool
	noHeader     bool
	includeGlobs []string
	excludeGlobs []string
	excludeDirs  []string
}

// checkOptions holds the flags specific to check
type checkOptions struct {
	scanOptions
	definitions  []string
	noAutoDetect bool
	maxLocations int
}

// Execute runs the CLI application and exits with its status
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := NewRootCmd(fsys.NewOsProvider()).ExecuteContext(ctx)
	cancel()
	if err != nil {
		if !errors.Is(err, ErrIssuesFound) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree operating on fs
func NewRootCmd(fs *fsys.Provider) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "locgrd",
		Short:         "Find L[\"...\"] localization keys without a translation",
		Long:          "A CLI tool that scans Lua addons for L[\"key\"] usages and compares them with the keys defined in the translation tables.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newScanCmd(fs))
	rootCmd.AddCommand(newCheckCmd(fs))
	rootCmd.AddCommand(newInitConfigCmd(fs))
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "Print the version number of locgrd",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	})

	return rootCmd
}

func addScanFlags(cmd *cobra.Command, opts *scanOptions) {
	cmd.Flags().StringVarP(&opts.path, "path", "p", ".", "Addon directory to scan (default: current directory)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output results in JSON format")
	cmd.Flags().BoolVar(&opts.silent, "silent", false, "Silent mode (exit code only)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&opts.noHeader, "no-header", false, "Skip printing the header")
	cmd.Flags().StringSliceVar(&opts.includeGlobs, "include", []string{}, "Glob patterns to include")
	cmd.Flags().StringSliceVar(&opts.excludeGlobs, "exclude", []string{}, "Glob patterns to exclude")
	cmd.Flags().StringSliceVar(&opts.excludeDirs, "exclude-dir", []string{}, "Additional folders to skip when collecting usages")
}

func newScanCmd(fs *fsys.Provider) *cobra.Command {
	opts := &scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "List the localization keys used by an addon",
		Long:  "Recursively scan a directory for L[\"key\"] usages and list the unique keys.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, fs, opts, args)
		},
	}
	addScanFlags(cmd, opts)
	return cmd
}

func newCheckCmd(fs *fsys.Provider) *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Report localization keys that have no translation",
		Long:  "Scan a directory for L[\"key\"] usages and compare them with the keys assigned in the translation tables.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, fs, opts, args)
		},
	}
	addScanFlags(cmd, &opts.scanOptions)
	cmd.Flags().StringSliceVar(&opts.definitions, "definitions", []string{}, "Translation-table files (replaces the configured list)")
	cmd.Flags().BoolVar(&opts.noAutoDetect, "no-auto-detect", false, "Only load the configured translation tables")
	cmd.Flags().IntVar(&opts.maxLocations, "max-locations", 5, "Locations listed per key (0 for all)")
	return cmd
}

func newInitConfigCmd(fs *fsys.Provider) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Create a .locgrd.config file in the current directory",
		Long:  "Creates a .locgrd.config file with default configuration in the current directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInitConfig(cmd, fs)
		},
	}
}

// setupLogging configures the global zerolog logger
func setupLogging(w io.Writer, level string, debug bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}
	if debug {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// prepare resolves the scan root, loads the configuration and configures
// logging and the parser
func prepare(cmd *cobra.Command, fs *fsys.Provider, opts *scanOptions, args []string) (string, *config.Config, *parser.Parser, error) {
	path := opts.path
	if len(args) > 0 {
		path = args[0]
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", nil, nil, fmt.Errorf("invalid path: %w", err)
	}

	setupLogging(cmd.ErrOrStderr(), "", opts.debug)

	if !fs.DirectoryExists(absPath) {
		return "", nil, nil, fmt.Errorf("path does not exist: %s: %w", absPath, fsys.ErrDirectoryNotFound)
	}

	cfg, err := config.LoadConfig(fs.Fs(), absPath)
	if err != nil {
		if !opts.silent {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to load %s: %v\n", config.FileName, err)
		}
		// Continue with default config
		cfg = config.Default()
	}
	setupLogging(cmd.ErrOrStderr(), cfg.LogLevel, opts.debug)
	log.Debug().Str("root", absPath).Strs("folders", cfg.Ignores.Folders).Strs("definitions", cfg.Definitions).Msg("Loaded configuration")

	p := parser.NewParser(fs)
	if len(opts.includeGlobs) > 0 {
		p.Scanner().SetIncludeGlobs(opts.includeGlobs)
	}
	if len(opts.excludeGlobs) > 0 {
		p.Scanner().SetExcludeGlobs(opts.excludeGlobs)
	}

	if !opts.noHeader && !opts.jsonOutput && !opts.silent {
		printHeader(cmd.ErrOrStderr())
	}

	return absPath, cfg, p, nil
}

// scanUsages scans the root for usages, skipping configured and flagged folders
func scanUsages(cmd *cobra.Command, p *parser.Parser, absPath string, cfg *config.Config, opts *scanOptions) (*analyzer.ParseResult, error) {
	exclude := append(append([]string{}, cfg.Ignores.Folders...), opts.excludeDirs...)

	if !opts.silent {
		fmt.Fprintf(cmd.ErrOrStderr(), "Scanning %s...\n", absPath)
	}

	usage, err := p.ScanDirectoryContext(cmd.Context(), absPath, exclude...)
	if err != nil {
		if errors.Is(err, parser.ErrCanceled) {
			return nil, fmt.Errorf("scan interrupted: %w", err)
		}
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}
	return usage, nil
}

func runScan(cmd *cobra.Command, fs *fsys.Provider, opts *scanOptions, args []string) error {
	absPath, cfg, p, err := prepare(cmd, fs, opts, args)
	if err != nil {
		return err
	}

	usage, err := scanUsages(cmd, p, absPath, cfg, opts)
	if err != nil {
		return err
	}

	if err := output.FormatScan(cmd.OutOrStdout(), usage, output.Options{JSON: opts.jsonOutput, Silent: opts.silent, Root: absPath}); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}

func runCheck(cmd *cobra.Command, fs *fsys.Provider, opts *checkOptions, args []string) error {
	absPath, cfg, p, err := prepare(cmd, fs, &opts.scanOptions, args)
	if err != nil {
		return err
	}

	usage, err := scanUsages(cmd, p, absPath, cfg, &opts.scanOptions)
	if err != nil {
		return err
	}

	loader := locfile.NewLoader(fs, p)
	loader.SetFiles(cfg.Definitions)
	if len(opts.definitions) > 0 {
		loader.SetFiles(opts.definitions)
	}
	loader.SetFolders(cfg.Ignores.Folders)
	loader.SetAutoDetect(!opts.noAutoDetect)

	defined, sources, err := loader.Load(cmd.Context(), absPath)
	if err != nil {
		return fmt.Errorf("failed to load translation tables: %w", err)
	}

	if !opts.silent {
		for _, source := range sources {
			fmt.Fprintf(cmd.ErrOrStderr(), "Found %d defined keys in %s\n", source.Defined, filepath.Base(source.Path))
		}
		if len(sources) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: no translation tables found, every key will be reported\n")
		}
	}

	report := analyzer.Analyze(usage, defined, cfg)

	formatOpts := output.Options{
		JSON:         opts.jsonOutput,
		Silent:       opts.silent,
		Root:         absPath,
		MaxLocations: opts.maxLocations,
	}
	if err := output.Format(cmd.OutOrStdout(), report, formatOpts); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if output.HasIssues(report) {
		return ErrIssuesFound
	}
	return nil
}

func runInitConfig(cmd *cobra.Command, fs *fsys.Provider) error {
	configPath := config.FileName

	// Check if file already exists
	if fs.FileExists(configPath) {
		return fmt.Errorf("%s already exists in the current directory", config.FileName)
	}

	if err := afero.WriteFile(fs.Fs(), configPath, []byte(config.Template()), 0644); err != nil {
		return fmt.Errorf("failed to create %s: %w", config.FileName, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s in the current directory\n", config.FileName)
	return nil
}

func printHeader(w io.Writer) {
	fmt.Fprintf(w, "locgrd %s\n\n", Version)
}
