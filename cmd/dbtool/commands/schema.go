package commands

import (
	"fmt"
	"freight-fulfillment-service/internal/adapters/repositories"
	"freight-fulfillment-service/internal/config"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the schema if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := repositories.InitSchema(cmd.Context(), conn, store.Dialect()); err != nil {
				return err
			}
			fmt.Printf("Schema ready (%s).\n", store.Dialect())
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load routes, carriers and orders from a JSON seed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = config.Get("SEED_PATH", "data/seeds/seed.json")
			}

			if err := repositories.InitSchema(cmd.Context(), conn, store.Dialect()); err != nil {
				return err
			}

			ok, err := repositories.SeedFromJSON(cmd.Context(), store, path, force)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Database already seeded; use --force to overwrite.")
				return nil
			}
			fmt.Printf("Seeded from %s.\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "seed file (default $SEED_PATH)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite routes, ledger and orders even if already seeded")
	return cmd
}
