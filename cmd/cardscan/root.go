package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/width"

	"github.com/ericlevine/libcodabar/internal/config"
)

// app carries state shared by the subcommands once the root command has
// loaded the configuration.
type app struct {
	cfg *config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		debug      bool
	)
	a := &app{
		cfg: config.Defaults(),
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	cmd := &cobra.Command{
		Use:          "cardscan",
		Short:        "Read and print library card barcodes",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}
			if debug {
				level = slog.LevelDebug
			}
			a.cfg = cfg
			a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			a.log.Debug("config loaded", "path", path)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cardscan/config.yaml)")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging on stderr")

	cmd.AddCommand(newScanCmd(a))
	cmd.AddCommand(newEncodeCmd(a))
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadConfig reads the explicit path, or the default path if it exists.
// It returns the path actually read, empty when defaults are used.
func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		cfg, err := config.Load(path)
		return cfg, path, err
	}
	path = config.DefaultPath()
	if path == "" {
		return config.Defaults(), "", nil
	}
	cfg, err := config.Load(path)
	if os.IsNotExist(err) {
		return config.Defaults(), "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// normalizeDigits folds full-width characters to ASCII and drops whitespace,
// so payloads typed as "２１２３ ４０００..." or "2 1234 00012345 3" are
// accepted.
func normalizeDigits(s string) string {
	return strings.Join(strings.Fields(width.Narrow.String(s)), "")
}
