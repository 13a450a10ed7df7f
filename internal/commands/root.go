package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/grocktx/grocktx/internal/buildinfo"
	"github.com/grocktx/grocktx/internal/config"
	"github.com/grocktx/grocktx/internal/gazetteer"
	"github.com/grocktx/grocktx/internal/logging"
	"github.com/grocktx/grocktx/internal/memo"
	"github.com/grocktx/grocktx/internal/vendor"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath    string
	gazetteerPath string
	logLevel      string
}

// env is what a subcommand needs after config and logging are set up.
type env struct {
	cfg *config.Config
	log *slog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	gf := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "grocktx",
		Short:   "Classify bank transaction memos",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	// Command lookup must already know these are boolean, or
	// "--version --config x" looks up a command named x.
	rootCmd.InitDefaultHelpFlag()
	rootCmd.InitDefaultVersionFlag()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&gf.configPath, "config", config.DefaultPath, "config file (defaults apply when missing)")
	pf.StringVar(&gf.gazetteerPath, "gazetteer", "", "zip,city,state CSV overriding the embedded table")
	pf.StringVar(&gf.logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newParseCommand(gf),
		newBatchCommand(gf),
		newCitiesCommand(gf),
		newRunsCommand(gf),
		newConfigCommand(gf),
	)

	return rootCmd
}

// load reads the config file and builds the logger. Command-line flags
// override their config counterparts.
func (gf *globalFlags) load(cmd *cobra.Command) (*env, error) {
	cfg, err := config.LoadOrDefault(gf.configPath)
	if err != nil {
		return nil, err
	}
	if gf.gazetteerPath != "" {
		cfg.Gazetteer.Path = gf.gazetteerPath
	}
	if gf.logLevel != "" {
		cfg.Logging.Level = gf.logLevel
	}
	log := logging.New(cfg.Logging, cmd.ErrOrStderr())
	cmd.SetContext(logging.WithLogger(cmd.Context(), log))
	return &env{cfg: cfg, log: log}, nil
}

func (e *env) gazetteer() (*gazetteer.Gazetteer, error) {
	gaz, err := gazetteer.Open(e.cfg.Gazetteer.Path)
	if err != nil {
		return nil, fmt.Errorf("loading gazetteer: %w", err)
	}
	return gaz, nil
}

func (e *env) parser() (*memo.Parser, error) {
	gaz, err := e.gazetteer()
	if err != nil {
		return nil, err
	}
	e.log.Debug("gazetteer_loaded", "rows", gaz.Len(), "path", e.cfg.Gazetteer.Path)
	return memo.New(vendor.NewResolver(gaz), memo.WithLogger(e.log)), nil
}

// reference picks the reference date: the --date flag, then
// parser.reference_date, then the zero time (today).
func (e *env) reference(date string) (time.Time, error) {
	if date == "" {
		return e.cfg.Parser.Reference()
	}
	ref, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
	}
	return ref, nil
}
