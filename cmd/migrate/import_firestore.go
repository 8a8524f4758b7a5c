package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vfg2006/insect-control-api/infrastructure/cache"
	"github.com/vfg2006/insect-control-api/infrastructure/database/firestore"
	"github.com/vfg2006/insect-control-api/infrastructure/database/postgres"
	"github.com/vfg2006/insect-control-api/infrastructure/migration"
	"github.com/vfg2006/insect-control-api/infrastructure/repository"
	"github.com/vfg2006/insect-control-api/internal/domain"
)

func importFirestoreCmd() *cobra.Command {
	var (
		owners []string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "import-firestore",
		Short: "Copia clientes e serviços das coleções do Firestore para o PostgreSQL",
		Long: `Copia as coleções "clientes" e "servicos" do Firestore para o PostgreSQL,
preservando os IDs dos documentos. Registros já importados são ignorados.

Exemplos:
  migrate import-firestore --dry-run
  migrate import-firestore --owner maria@exemplo.com`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			domain.SetDateLocation(cfg.Reporting.Location)

			if err := postgres.RunMigrations(cfg.Database.DSN); err != nil {
				return err
			}

			app, err := firestore.NewApp(ctx, cfg.Firebase)
			if err != nil {
				return err
			}
			defer app.Close()

			conn, err := postgres.NewConnection(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer conn.Close()

			summaryCache := cache.NewNoopSummaryCache()
			if cfg.Redis.Enabled && !dryRun {
				redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
				if err != nil {
					logrus.WithError(err).Warn("Redis indisponível, resumos em cache expiram pelo TTL")
				} else {
					defer redisClient.Close()
					summaryCache = cache.NewRedisSummaryCache(redisClient, cfg.Redis.TTL)
				}
			}

			importer := migration.NewImporter(
				repository.NewFirestoreClientRepository(app.Firestore),
				repository.NewFirestoreServiceRecordRepository(app.Firestore),
				conn,
				summaryCache,
			)

			report, err := importer.Import(ctx, owners, dryRun)
			if err != nil {
				return err
			}

			logrus.WithFields(logrus.Fields{
				"dry_run":           dryRun,
				"owners":            report.Owners,
				"clients":           report.Clients,
				"services":          report.Services,
				"skipped":           report.Skipped,
				"orphaned_services": report.OrphanedServices,
			}).Info("Importação do Firestore finalizada")

			fmt.Fprintf(cmd.OutOrStdout(), "usuários=%d clientes=%d serviços=%d ignorados=%d\n",
				report.Owners, report.Clients, report.Services, report.Skipped)

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&owners, "owner", nil, "email do usuário a importar (pode repetir)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "apenas lista o que seria importado")

	return cmd
}
