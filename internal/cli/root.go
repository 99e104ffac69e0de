package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yungbote/mapping-manager/internal/app"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	viper      *viper.Viper
}

// NewRootCommand creates the root command for the registry binary.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{viper: app.NewViper()}

	cmd := &cobra.Command{
		Use:           "mapping-manager",
		Short:         "Local concept mapping registry",
		Long:          "Registry of locally defined concepts and their versioned \"Maps to\" links into a standard terminology.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "config file (yaml)")
	cmd.PersistentFlags().String("log-mode", "", "logger mode (development|production)")
	cmd.PersistentFlags().String("db-driver", "", "store driver (postgres|sqlite)")
	_ = opts.viper.BindPFlag("log.mode", cmd.PersistentFlags().Lookup("log-mode"))
	_ = opts.viper.BindPFlag("db.driver", cmd.PersistentFlags().Lookup("db-driver"))

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewVocabCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// openApp resolves configuration and wires the application.
func (o *RootOptions) openApp(ctx context.Context) (*app.App, error) {
	cfg, err := app.LoadConfig(o.viper, o.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return a, nil
}
