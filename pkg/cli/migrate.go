package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/ideabank/ideabank/pkg/cli/config"
	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/ideabank/ideabank/pkg/repository/sqlite"
	"github.com/ideabank/ideabank/pkg/utils/logging"
)

func cmdMigrate() *cli.Command {
	var dryRun bool
	var repoCfg config.Repository
	var tuningCfg config.Tuning

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Preview changes without applying",
			Destination: &dryRun,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, tuningCfg.Flags()...)

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Provision backend indexes and schema",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			indexCfg, _, err := tuningCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load tuning")
			}

			logger.Info("Migrate configuration",
				"backend", repoCfg.Backend(),
				"dimension", indexCfg.Dimension,
				"dryRun", dryRun)

			switch repoCfg.Backend() {
			case "firestore":
				return migrateFirestore(ctx, &repoCfg, indexCfg, dryRun)

			case "sqlite":
				if dryRun {
					logger.Info("Dry run mode - sqlite schema would be applied",
						"path", repoCfg.SQLitePath())
					return nil
				}
				repo, err := sqlite.New(ctx, repoCfg.SQLitePath(), sqlite.WithIndexConfig(indexCfg))
				if err != nil {
					return goerr.Wrap(err, "failed to apply sqlite schema")
				}
				if err := repo.Close(); err != nil {
					return goerr.Wrap(err, "failed to close sqlite repository")
				}
				logger.Info("SQLite schema applied", "path", repoCfg.SQLitePath())
				return nil

			case "memory":
				logger.Info("Memory backend needs no migration")
				return nil

			default:
				return goerr.New("invalid repository backend", goerr.V("backend", repoCfg.Backend()))
			}
		},
	}
}

func migrateFirestore(ctx context.Context, repoCfg *config.Repository, indexCfg model.IndexConfig, dryRun bool) error {
	logger := logging.Default()

	if repoCfg.ProjectID() == "" {
		return goerr.New("firestore-project-id is required when using firestore backend")
	}

	client, err := fireconf.NewClient(ctx, repoCfg.ProjectID(), repoCfg.DatabaseID())
	if err != nil {
		return goerr.Wrap(err, "failed to create fireconf client")
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close fireconf client", "error", err.Error())
		}
	}()

	firestoreConfig := getFirestoreIndexConfig(indexCfg)

	if dryRun {
		logger.Info("Dry run mode - previewing changes")
		plan, err := client.GetMigrationPlan(ctx, firestoreConfig)
		if err != nil {
			return goerr.Wrap(err, "failed to create migration plan")
		}

		if len(plan.Steps) == 0 {
			logger.Info("No changes required")
			return nil
		}

		for _, step := range plan.Steps {
			logger.Info("Migration step",
				"collection", step.Collection,
				"operation", step.Operation,
				"description", step.Description,
				"destructive", step.Destructive)
		}
		return nil
	}

	logger.Info("Applying migrations")
	if err := client.Migrate(ctx, firestoreConfig); err != nil {
		return goerr.Wrap(err, "failed to apply migrations")
	}
	logger.Info("Migrations applied successfully")

	return nil
}

// getFirestoreIndexConfig returns the Firestore index configuration
func getFirestoreIndexConfig(indexCfg model.IndexConfig) *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: "ideas",
				Indexes: []fireconf.Index{
					// List: UserID ASC, CreatedAt DESC
					{
						Fields: []fireconf.IndexField{
							{Path: "UserID", Order: fireconf.OrderAscending},
							{Path: "CreatedAt", Order: fireconf.OrderDescending},
						},
					},
					// List: ChatID ASC, CreatedAt DESC
					{
						Fields: []fireconf.IndexField{
							{Path: "ChatID", Order: fireconf.OrderAscending},
							{Path: "CreatedAt", Order: fireconf.OrderDescending},
						},
					},
					// Vector search index
					{
						Fields: []fireconf.IndexField{
							{
								Path: "Embedding",
								Vector: &fireconf.VectorConfig{
									Dimension: indexCfg.Dimension,
								},
							},
						},
					},
					// Filtered vector search: UserID ASC + Embedding vector
					{
						Fields: []fireconf.IndexField{
							{Path: "UserID", Order: fireconf.OrderAscending},
							{
								Path: "Embedding",
								Vector: &fireconf.VectorConfig{
									Dimension: indexCfg.Dimension,
								},
							},
						},
					},
					// Filtered vector search: ChatID ASC + Embedding vector
					{
						Fields: []fireconf.IndexField{
							{Path: "ChatID", Order: fireconf.OrderAscending},
							{
								Path: "Embedding",
								Vector: &fireconf.VectorConfig{
									Dimension: indexCfg.Dimension,
								},
							},
						},
					},
				},
			},
			{
				Name: "reminders",
				Indexes: []fireconf.Index{
					// ListDue: IsActive ASC, IsSent ASC, ScheduledFor ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "IsActive", Order: fireconf.OrderAscending},
							{Path: "IsSent", Order: fireconf.OrderAscending},
							{Path: "ScheduledFor", Order: fireconf.OrderAscending},
						},
					},
				},
			},
		},
	}
}
