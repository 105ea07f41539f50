package commands

import (
	"database/sql"
	"freight-fulfillment-service/internal/adapters/repositories"
	"freight-fulfillment-service/internal/config"
	"freight-fulfillment-service/internal/platform/db"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	databaseURL string
	dbPath      string

	conn  *sql.DB
	store *repositories.SQLStore
)

func Execute() error {
	root := &cobra.Command{
		Use:          "dbtool",
		Short:        "Administer the freight fulfillment database",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil {
				log.Println("No .env file found (using environment variables)")
			}

			cfg := config.Load()
			if databaseURL == "" {
				databaseURL = cfg.DatabaseURL
			}
			if dbPath == "" {
				dbPath = cfg.DBPath
			}

			var err error
			if databaseURL != "" {
				conn, err = db.Open(databaseURL)
				if err != nil {
					return err
				}
				store = repositories.NewPostgresStore(conn)
				return nil
			}

			conn, err = db.OpenSqlite(dbPath)
			if err != nil {
				return err
			}
			store = repositories.NewSqliteStore(conn)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if conn != nil {
				return conn.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres URL (default $DATABASE_URL)")
	root.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite path used when no Postgres URL is set (default $DB_PATH)")

	root.AddCommand(initCmd(), seedCmd(), distanceCmd(), carriersCmd())
	return root.Execute()
}
