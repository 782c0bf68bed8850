// Package cmd provides the CLI commands for colorname.
package cmd

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-colorname/internal/applog"
	"github.com/wethinkt/go-colorname/internal/config"
	"github.com/wethinkt/go-colorname/internal/i18n"
	"github.com/wethinkt/go-colorname/internal/metrics"
	"github.com/wethinkt/go-colorname/internal/palette"
)

// app holds state shared by every command in one invocation.
type app struct {
	// global flags
	palettePath string
	logPath     string
	lang        string
	verbose     bool

	cfg         config.Config
	matcher     *palette.Matcher
	profileFile *os.File // held open for profiling
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "colorname",
		Short: "Name colors by their nearest match in a reference palette",
		Long: `colorname classifies colors by name using a reference palette of named colors.

Given an RGB sample it finds the palette entry with the smallest Euclidean
distance, looks up stored colors by name and lists palette neighbors.

The bundled palette holds the 148 CSS named colors. Use --palette or the
palette_file config key to load your own tab-separated table.

Examples:
  colorname name '#e60d0d'            # nearest palette name
  colorname name 0.9,0.05,0.05        # same, from components in [0,1]
  colorname color teal                # stored color for a name
  colorname neighbors teal -n 4       # names around teal in palette order
  colorname sample photo.png --x 40 --y 12 --size 9
  colorname pick                      # interactive picker
  colorname serve                     # HTTP API on localhost:8791`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			a.teardown()
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.palettePath, "palette", "", "palette table to load (default: bundled CSS colors)")
	rootCmd.PersistentFlags().StringVar(&a.logPath, "log", "", "write debug log to file")
	rootCmd.PersistentFlags().StringVar(&a.lang, "lang", "", "UI language (e.g. en, de)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(
		a.nameCmd(),
		a.colorCmd(),
		a.neighborsCmd(),
		a.countCmd(),
		a.listCmd(),
		a.sampleCmd(),
		a.pickCmd(),
		a.serveCmd(),
		versionCmd(),
	)

	return rootCmd
}

// setup loads config, logging, locale and the palette matcher.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	// Start pprof profiling if COLORNAME_PROFILE is set
	if profilePath := os.Getenv("COLORNAME_PROFILE"); profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			return fmt.Errorf("create profile file: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("start CPU profile: %w", err)
		}
		a.profileFile = f
	}

	if err := applog.Init(a.logPath); err != nil {
		return err
	}
	applog.Log.SetVerbose(a.verbose)

	cfg, err := config.Load()
	if err != nil {
		applog.Log.Warn("Using default config", "error", err)
		cfg = config.Default()
	}
	if a.palettePath != "" {
		cfg.PaletteFile = a.palettePath
	}
	a.cfg = cfg

	lang := a.lang
	if lang == "" {
		lang = i18n.ResolveLocale(cfg.Language)
	}
	i18n.Init(lang)

	a.matcher = palette.NewMatcher(paletteSource(cfg.PaletteFile),
		palette.OnLoad(metrics.ObserveLoad),
		palette.OnLoad(logLoad),
	)
	return nil
}

func (a *app) teardown() {
	if a.profileFile != nil {
		pprof.StopCPUProfile()
		a.profileFile.Close()
		a.profileFile = nil
	}
	applog.Log.Close()
}

// paletteSource maps a configured path to a palette source.
func paletteSource(path string) palette.Source {
	if path == "" {
		return palette.Bundled()
	}
	return palette.File(path)
}

func logLoad(p *palette.Palette, src palette.Source) {
	applog.Log.Info("Palette loaded", "source", src.String(), "count", p.Count())
	if d := p.Degraded(); len(d) > 0 {
		applog.Log.Warn("Palette rows with malformed hex fell back to gray", "names", d)
	}
}
