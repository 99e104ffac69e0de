package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewVocabCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Manage the development terminology table",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "load <file.yaml>",
		Short: "Insert target concepts from a YAML seed file",
		Long: `Insert target concepts into the configured vocabulary table. Rows whose
concept_id already exists are skipped.

Example:
  mapping-manager vocab load ./seed/vocab.yaml --db-driver sqlite`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			n, err := a.Services.Vocabulary.LoadFile(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("vocab load: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d target concepts into %s\n", n, a.Cfg.VocabularyTable)
			return nil
		},
	})
	return cmd
}
