package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewExportCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an audit snapshot of every concept and relationship",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			svc, sink, err := a.NewAuditExport(cmd.Context())
			if err != nil {
				return err
			}
			defer sink.Close()

			res, err := svc.Export(cmd.Context())
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d concepts, %d relationships)\n", res.URI, res.Concepts, res.Relationships)
			return nil
		},
	}
	cmd.Flags().String("driver", "", "sink driver (fs|gcs|s3)")
	cmd.Flags().String("dir", "", "directory for the fs sink")
	cmd.Flags().String("bucket", "", "bucket for the gcs and s3 sinks")
	_ = opts.viper.BindPFlag("export.driver", cmd.Flags().Lookup("driver"))
	_ = opts.viper.BindPFlag("export.dir", cmd.Flags().Lookup("dir"))
	_ = opts.viper.BindPFlag("export.bucket", cmd.Flags().Lookup("bucket"))
	return cmd
}
