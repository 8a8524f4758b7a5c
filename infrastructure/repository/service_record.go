package repository

//go:generate mockgen -source=service_record.go -destination=mocks/service_record.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/insect-control-api/infrastructure/database/postgres"
	"github.com/vfg2006/insect-control-api/internal/domain"
	"github.com/vfg2006/insect-control-api/pkg/utils"
)

const (
	serviceRecordsTable = "service_records"
)

var serviceRecordColumns = []string{
	"id", "owner", "client_id", "client_name", "contact", "location",
	"service_date", "service_type", "value", "status", "created_at", "updated_at",
}

// ServiceRecordRepository acessa os serviços de um usuário. Toda operação é filtrada pelo dono.
type ServiceRecordRepository interface {
	Create(ctx context.Context, record *domain.ServiceRecord) error
	Update(ctx context.Context, record *domain.ServiceRecord) error
	Delete(ctx context.Context, owner, id string) error
	GetByID(ctx context.Context, owner, id string) (*domain.ServiceRecord, error)
	ListByOwner(ctx context.Context, owner string) ([]*domain.ServiceRecord, error)
	CountByClient(ctx context.Context, owner, clientID string) (int, error)
	ListOwners(ctx context.Context) ([]string, error)
}

type serviceRecordRepository struct {
	conn postgres.Conn
}

func NewServiceRecordRepository(conn postgres.Conn) ServiceRecordRepository {
	return &serviceRecordRepository{
		conn: conn,
	}
}

func (r *serviceRecordRepository) Create(ctx context.Context, record *domain.ServiceRecord) error {
	id, err := utils.GenerateID()
	if err != nil {
		return err
	}
	record.ID = id

	query, args, err := insertServiceRecordQuery(record).ToSql()
	if err != nil {
		return err
	}

	return r.conn.QueryRow(ctx, query, args...).Scan(&record.CreatedAt, &record.UpdatedAt)
}

func (r *serviceRecordRepository) Update(ctx context.Context, record *domain.ServiceRecord) error {
	query, args, err := updateServiceRecordQuery(record).ToSql()
	if err != nil {
		return err
	}

	err = r.conn.QueryRow(ctx, query, args...).Scan(&record.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	return err
}

func (r *serviceRecordRepository) Delete(ctx context.Context, owner, id string) error {
	query, args, err := squirrel.
		Delete(serviceRecordsTable).
		Where(squirrel.Eq{"id": id, "owner": owner}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *serviceRecordRepository) GetByID(ctx context.Context, owner, id string) (*domain.ServiceRecord, error) {
	query, args, err := selectServiceRecordsQuery(owner).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	record, err := scanServiceRecord(r.conn.QueryRow(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (r *serviceRecordRepository) ListByOwner(ctx context.Context, owner string) ([]*domain.ServiceRecord, error) {
	query, args, err := selectServiceRecordsQuery(owner).
		OrderBy("created_at DESC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.ServiceRecord, 0)
	for rows.Next() {
		record, err := scanServiceRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *serviceRecordRepository) CountByClient(ctx context.Context, owner, clientID string) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From(serviceRecordsTable).
		Where(squirrel.Eq{"owner": owner, "client_id": clientID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var total int
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func (r *serviceRecordRepository) ListOwners(ctx context.Context) ([]string, error) {
	query, args, err := squirrel.
		Select("DISTINCT owner").
		From(serviceRecordsTable).
		OrderBy("owner ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owners := make([]string, 0)
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, err
		}
		owners = append(owners, owner)
	}

	return owners, rows.Err()
}

func selectServiceRecordsQuery(owner string) squirrel.SelectBuilder {
	return squirrel.
		Select(serviceRecordColumns...).
		From(serviceRecordsTable).
		Where(squirrel.Eq{"owner": owner}).
		PlaceholderFormat(squirrel.Dollar)
}

func insertServiceRecordQuery(record *domain.ServiceRecord) squirrel.InsertBuilder {
	return squirrel.
		Insert(serviceRecordsTable).
		Columns("id", "owner", "client_id", "client_name", "contact", "location", "service_date", "service_type", "value", "status").
		Values(
			record.ID,
			record.Owner,
			record.ClientID,
			record.ClientName,
			record.Contact,
			record.Location,
			dateText(record.Date),
			record.ServiceType,
			string(record.Value),
			record.Status,
		).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)
}

// owner não é alterado na atualização
func updateServiceRecordQuery(record *domain.ServiceRecord) squirrel.UpdateBuilder {
	return squirrel.
		Update(serviceRecordsTable).
		Set("client_id", record.ClientID).
		Set("client_name", record.ClientName).
		Set("contact", record.Contact).
		Set("location", record.Location).
		Set("service_date", dateText(record.Date)).
		Set("service_type", record.ServiceType).
		Set("value", string(record.Value)).
		Set("status", record.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": record.ID, "owner": record.Owner}).
		Suffix("RETURNING updated_at").
		PlaceholderFormat(squirrel.Dollar)
}

// dateText mantém strings como recebidas e converte timestamps para YYYY-MM-DD
func dateText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	default:
		return domain.NormalizeDate(value)
	}
}

func scanServiceRecord(row rowScanner) (*domain.ServiceRecord, error) {
	var (
		record   domain.ServiceRecord
		clientID sql.NullString
		date     string
		value    string
	)

	err := row.Scan(
		&record.ID,
		&record.Owner,
		&clientID,
		&record.ClientName,
		&record.Contact,
		&record.Location,
		&date,
		&record.ServiceType,
		&value,
		&record.Status,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if clientID.Valid {
		record.ClientID = &clientID.String
	}
	record.Date = date
	record.Value = domain.MoneyText(value)

	return &record, nil
}
