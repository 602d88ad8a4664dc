package command

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"bloglist/internal/stats"
)

func statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "print statistics of the stored blogs as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			cfg, log, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			st, err := openStore(cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				runErr = errors.Join(runErr, st.Close())
			}()

			blogs, err := st.blogs.GetAll(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stats.Summarize(blogs))
		},
	}
}
