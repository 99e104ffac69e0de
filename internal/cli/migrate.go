package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	var withVocab bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the registry schema",
		Long: `Apply the registry schema idempotently.

--with-vocab also creates the target terminology table. Use it only for development
databases; production terminology tables are owned by the vocabulary load.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.Migrate(cmd.Context(), withVocab); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
	cmd.Flags().BoolVar(&withVocab, "with-vocab", false, "also create the target terminology table")
	return cmd
}
