package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/vfg2006/insect-control-api/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	clientsCollection = "clientes"
)

type clientDocument struct {
	Usuario      string `firestore:"usuario"`
	Name         string `firestore:"name"`
	Phone        string `firestore:"phone"`
	Address      string `firestore:"address"`
	City         string `firestore:"city"`
	Neighborhood string `firestore:"neighborhood"`
	Email        string `firestore:"email"`
	Criado       any    `firestore:"criado"`
	Atualizado   any    `firestore:"atualizado"`
}

type firestoreClientRepository struct {
	client *firestore.Client
}

func NewFirestoreClientRepository(client *firestore.Client) ClientRepository {
	return &firestoreClientRepository{
		client: client,
	}
}

func (r *firestoreClientRepository) Create(ctx context.Context, client *domain.Client) error {
	ref := r.client.Collection(clientsCollection).NewDoc()

	now := time.Now().UTC()
	fields := clientFields(client, now)
	fields["usuario"] = client.Owner
	fields["criado"] = now.Format(time.RFC3339Nano)

	if _, err := ref.Set(ctx, fields); err != nil {
		return err
	}

	client.ID = ref.ID
	client.CreatedAt = now
	client.UpdatedAt = now

	return nil
}

func (r *firestoreClientRepository) Update(ctx context.Context, client *domain.Client) error {
	existing, err := r.GetByID(ctx, client.Owner, client.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	now := time.Now().UTC()
	_, err = r.client.Collection(clientsCollection).Doc(client.ID).Set(ctx, clientFields(client, now), firestore.MergeAll)
	if err != nil {
		return err
	}

	client.CreatedAt = existing.CreatedAt
	client.UpdatedAt = now

	return nil
}

func (r *firestoreClientRepository) Delete(ctx context.Context, owner, id string) error {
	existing, err := r.GetByID(ctx, owner, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	_, err = r.client.Collection(clientsCollection).Doc(id).Delete(ctx)
	return err
}

func (r *firestoreClientRepository) GetByID(ctx context.Context, owner, id string) (*domain.Client, error) {
	snap, err := r.client.Collection(clientsCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var doc clientDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}

	if doc.Usuario != owner {
		return nil, nil
	}

	return clientFromDocument(snap.Ref.ID, doc), nil
}

func (r *firestoreClientRepository) ListByOwner(ctx context.Context, owner string) ([]*domain.Client, error) {
	snaps, err := r.client.Collection(clientsCollection).
		Where("usuario", "==", owner).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, err
	}

	clients := make([]*domain.Client, 0, len(snaps))
	for _, snap := range snaps {
		var doc clientDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, err
		}
		clients = append(clients, clientFromDocument(snap.Ref.ID, doc))
	}

	sort.SliceStable(clients, func(i, j int) bool {
		left, right := strings.ToLower(clients[i].Name), strings.ToLower(clients[j].Name)
		if left != right {
			return left < right
		}
		return clients[i].ID < clients[j].ID
	})

	return clients, nil
}

func (r *firestoreClientRepository) Count(ctx context.Context, owner string) (int, error) {
	snaps, err := r.client.Collection(clientsCollection).
		Where("usuario", "==", owner).
		Select().
		Documents(ctx).
		GetAll()
	if err != nil {
		return 0, err
	}

	return len(snaps), nil
}

func clientFields(client *domain.Client, updatedAt time.Time) map[string]any {
	return map[string]any{
		"name":         client.Name,
		"phone":        client.Phone,
		"address":      client.Address,
		"city":         client.City,
		"neighborhood": client.Neighborhood,
		"email":        client.Email,
		"atualizado":   updatedAt.Format(time.RFC3339Nano),
	}
}

func clientFromDocument(id string, doc clientDocument) *domain.Client {
	client := &domain.Client{
		ID:           id,
		Owner:        doc.Usuario,
		Name:         doc.Name,
		Phone:        doc.Phone,
		Address:      doc.Address,
		City:         doc.City,
		Neighborhood: doc.Neighborhood,
		Email:        doc.Email,
		CreatedAt:    timeFromDocument(doc.Criado),
		UpdatedAt:    timeFromDocument(doc.Atualizado),
	}

	if client.UpdatedAt.IsZero() {
		client.UpdatedAt = client.CreatedAt
	}

	return client
}
