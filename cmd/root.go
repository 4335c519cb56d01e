package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arcanaland/cardhouse/internal/config"
	"github.com/arcanaland/cardhouse/internal/deck"
	"github.com/arcanaland/cardhouse/internal/placement"
	"github.com/arcanaland/cardhouse/internal/session"
	"github.com/arcanaland/cardhouse/internal/store"
)

var (
	configFlag   string
	dataDirFlag  string
	logLevelFlag string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cardhouse",
	Short: "Build a house of cards on a physics-simulated table",
	Long: `Cardhouse places virtual playing cards on a simulated table. Cards are
aimed with a pointer, oriented with rotation presets and fine rotation keys,
and can be frozen in place or released to the physics simulation.

Play in the terminal, replay a TOML script, or serve the table to a remote
renderer over a websocket.`,
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default $XDG_CONFIG_HOME/cardhouse/config.toml)")
	RootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "directory saves and presets are kept in")
	RootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "debug, info, warn or error")

	RootCmd.AddCommand(validateCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// loadConfig reads the config file and applies the persistent flags.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFlag != "" {
		cfg, err = config.LoadConfigFrom(configFlag)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, err
	}
	if dataDirFlag != "" {
		cfg.DataDir = dataDirFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	return cfg, nil
}

// newLogger builds a logger at the configured level: JSON for long-running
// servers, console output on stderr otherwise.
func newLogger(cfg *config.Config, production bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	zc := zap.NewDevelopmentConfig()
	if production {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

// openStore opens the file store in the data directory.
func openStore(cfg *config.Config) (*store.File, error) {
	kv, err := store.NewFile(cfg.DataPath())
	if err != nil {
		return nil, fmt.Errorf("error opening data directory: %w", err)
	}
	return kv, nil
}

// sessionOptions builds the options for a session backed by kv.
func sessionOptions(cfg *config.Config, kv store.KV, log *zap.Logger, seed int64) (session.Options, error) {
	d := deck.Standard()
	deckPath, err := cfg.GetDeckPath()
	if err != nil {
		return session.Options{}, err
	}
	if deckPath != "" {
		if d, err = deck.LoadDeck(deckPath); err != nil {
			return session.Options{}, err
		}
	}

	pc := placement.DefaultConfig()
	pc.GridSnap = cfg.GridSnap
	pc.RotationStep = cfg.RotationStep
	pc.EaseFactor = cfg.EaseFactor

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return session.Options{
		KV:        kv,
		Placement: &pc,
		Deck:      d,
		Seed:      seed,
		Logger:    log,
	}, nil
}
