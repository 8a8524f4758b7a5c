package repository

//go:generate mockgen -source=client.go -destination=mocks/client.go -package=mocks

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
	clientsTable = "clients"
)

var clientColumns = []string{"id", "owner", "name", "phone", "address", "city", "neighborhood", "email", "created_at", "updated_at"}

// ClientRepository acessa os clientes de um usuário. Toda operação é filtrada pelo dono.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, owner, id string) error
	GetByID(ctx context.Context, owner, id string) (*domain.Client, error)
	ListByOwner(ctx context.Context, owner string) ([]*domain.Client, error)
	Count(ctx context.Context, owner string) (int, error)
}

type clientRepository struct {
	conn postgres.Conn
}

func NewClientRepository(conn postgres.Conn) ClientRepository {
	return &clientRepository{
		conn: conn,
	}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	id, err := utils.GenerateID()
	if err != nil {
		return err
	}
	client.ID = id

	query, args, err := squirrel.
		Insert(clientsTable).
		Columns("id", "owner", "name", "phone", "address", "city", "neighborhood", "email").
		Values(client.ID, client.Owner, client.Name, client.Phone, client.Address, client.City, client.Neighborhood, client.Email).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	return r.conn.QueryRow(ctx, query, args...).Scan(&client.CreatedAt, &client.UpdatedAt)
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	query, args, err := squirrel.
		Update(clientsTable).
		Set("name", client.Name).
		Set("phone", client.Phone).
		Set("address", client.Address).
		Set("city", client.City).
		Set("neighborhood", client.Neighborhood).
		Set("email", client.Email).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": client.ID, "owner": client.Owner}).
		Suffix("RETURNING updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	err = r.conn.QueryRow(ctx, query, args...).Scan(&client.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	return err
}

func (r *clientRepository) Delete(ctx context.Context, owner, id string) error {
	query, args, err := squirrel.
		Delete(clientsTable).
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

func (r *clientRepository) GetByID(ctx context.Context, owner, id string) (*domain.Client, error) {
	query, args, err := squirrel.
		Select(clientColumns...).
		From(clientsTable).
		Where(squirrel.Eq{"id": id, "owner": owner}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	client, err := scanClient(r.conn.QueryRow(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return client, nil
}

func (r *clientRepository) ListByOwner(ctx context.Context, owner string) ([]*domain.Client, error) {
	query, args, err := squirrel.
		Select(clientColumns...).
		From(clientsTable).
		Where(squirrel.Eq{"owner": owner}).
		OrderBy("name ASC", "id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return clients, nil
}

func (r *clientRepository) Count(ctx context.Context, owner string) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From(clientsTable).
		Where(squirrel.Eq{"owner": owner}).
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

func scanClient(row rowScanner) (*domain.Client, error) {
	var client domain.Client
	err := row.Scan(
		&client.ID,
		&client.Owner,
		&client.Name,
		&client.Phone,
		&client.Address,
		&client.City,
		&client.Neighborhood,
		&client.Email,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &client, nil
}
