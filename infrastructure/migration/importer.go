// Package migration copia os dados do Firestore para o PostgreSQL
package migration

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/insect-control-api/infrastructure/cache"
	"github.com/vfg2006/insect-control-api/infrastructure/database/postgres"
	"github.com/vfg2006/insect-control-api/infrastructure/repository"
	"github.com/vfg2006/insect-control-api/internal/domain"
)

// Report resume o resultado da importação de um ou mais usuários
type Report struct {
	Owners           int `json:"owners"`
	Clients          int `json:"clients"`
	Services         int `json:"services"`
	Skipped          int `json:"skipped"`
	OrphanedServices int `json:"orphaned_services"`
}

// Importer lê clientes e serviços de um store e grava no postgres mantendo os IDs
type Importer struct {
	clients  repository.ClientRepository
	services repository.ServiceRecordRepository
	conn     postgres.Conn
	summary  cache.SummaryCache
}

func NewImporter(
	clients repository.ClientRepository,
	services repository.ServiceRecordRepository,
	conn postgres.Conn,
	summaryCache cache.SummaryCache,
) *Importer {
	if summaryCache == nil {
		summaryCache = cache.NewNoopSummaryCache()
	}

	return &Importer{
		clients:  clients,
		services: services,
		conn:     conn,
		summary:  summaryCache,
	}
}

// Import importa os usuários informados. Sem usuários, importa todos que possuem serviços.
// Registros já existentes no postgres são ignorados, então a importação pode ser repetida.
func (i *Importer) Import(ctx context.Context, owners []string, dryRun bool) (*Report, error) {
	if len(owners) == 0 {
		var err error
		owners, err = i.services.ListOwners(ctx)
		if err != nil {
			return nil, err
		}
	}

	report := &Report{}
	for _, owner := range owners {
		startTime := time.Now()

		clients, err := i.clients.ListByOwner(ctx, owner)
		if err != nil {
			return report, err
		}

		records, err := i.services.ListByOwner(ctx, owner)
		if err != nil {
			return report, err
		}

		plan := planImport(clients, records)

		logrus.WithFields(logrus.Fields{
			"owner":    owner,
			"clients":  len(plan.clients),
			"services": len(plan.records),
			"orphaned": plan.orphaned,
		}).Info("Importação planejada")

		report.Owners++
		report.OrphanedServices += plan.orphaned

		if dryRun {
			report.Clients += len(plan.clients)
			report.Services += len(plan.records)
			continue
		}

		err = i.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
			return i.write(ctx, tx, plan, report)
		})
		if err != nil {
			logrus.WithError(err).WithField("owner", owner).Error("Erro ao importar usuário")
			return report, err
		}

		// resumo em cache não conhece os registros importados
		if err := i.summary.Invalidate(ctx, owner); err != nil {
			logrus.WithError(err).WithField("owner", owner).Warn("Erro ao invalidar resumo em cache")
		}

		logrus.WithField("owner", owner).Infof("Importação concluída em %v", time.Since(startTime))
	}

	return report, nil
}

type importPlan struct {
	clients  []*domain.Client
	records  []*domain.ServiceRecord
	orphaned int
}

// planImport desvincula serviços que apontam para clientes removidos, mantendo o nome gravado
func planImport(clients []*domain.Client, records []*domain.ServiceRecord) importPlan {
	known := make(map[string]struct{}, len(clients))
	for _, c := range clients {
		known[c.ID] = struct{}{}
	}

	plan := importPlan{clients: clients, records: make([]*domain.ServiceRecord, 0, len(records))}
	for _, record := range records {
		if record.ClientID != nil {
			if _, ok := known[*record.ClientID]; !ok {
				copied := *record
				copied.ClientID = nil
				record = &copied
				plan.orphaned++
			}
		}
		plan.records = append(plan.records, record)
	}

	return plan
}

func (i *Importer) write(ctx context.Context, tx *sql.Tx, plan importPlan, report *Report) error {
	for _, c := range plan.clients {
		inserted, err := execInsert(ctx, tx, importClientQuery(c))
		if err != nil {
			return err
		}
		if inserted {
			report.Clients++
		} else {
			report.Skipped++
		}
	}

	for n, record := range plan.records {
		inserted, err := execInsert(ctx, tx, importServiceRecordQuery(record))
		if err != nil {
			return err
		}
		if inserted {
			report.Services++
		} else {
			report.Skipped++
		}

		if n > 0 && n%50 == 0 {
			logrus.Debugf("Progresso: %d/%d serviços processados", n+1, len(plan.records))
		}
	}

	return nil
}

func execInsert(ctx context.Context, tx *sql.Tx, builder squirrel.InsertBuilder) (bool, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return false, err
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func importClientQuery(c *domain.Client) squirrel.InsertBuilder {
	return squirrel.
		Insert("clients").
		Columns("id", "owner", "name", "phone", "address", "city", "neighborhood", "email", "created_at", "updated_at").
		Values(c.ID, c.Owner, c.Name, c.Phone, c.Address, c.City, c.Neighborhood, c.Email, timestampOrNow(c.CreatedAt), timestampOrNow(c.UpdatedAt)).
		Suffix("ON CONFLICT (id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)
}

func importServiceRecordQuery(record *domain.ServiceRecord) squirrel.InsertBuilder {
	date, _ := record.Date.(string)
	if date == "" {
		date = record.NormalizedDate()
	}

	status := record.Status
	if status == "" {
		status = domain.DefaultStatus
	}

	return squirrel.
		Insert("service_records").
		Columns("id", "owner", "client_id", "client_name", "contact", "location", "service_date", "service_type", "value", "status", "created_at", "updated_at").
		Values(
			record.ID,
			record.Owner,
			record.ClientID,
			record.ClientName,
			record.Contact,
			record.Location,
			date,
			record.ServiceType,
			string(record.Value),
			status,
			timestampOrNow(record.CreatedAt),
			timestampOrNow(record.UpdatedAt),
		).
		Suffix("ON CONFLICT (id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)
}

func timestampOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
