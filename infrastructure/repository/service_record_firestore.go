package repository

import (
	"context"
	"sort"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/vfg2006/insect-control-api/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	servicesCollection = "servicos"
)

// serviceDocument segue o formato dos documentos já existentes na coleção "servicos".
// data e criado podem ser Timestamp ou string. valor pode ser número ou string.
type serviceDocument struct {
	Usuario    string `firestore:"usuario"`
	ClienteID  string `firestore:"clienteId"`
	Cliente    string `firestore:"cliente"`
	Contato    string `firestore:"contato"`
	Local      string `firestore:"local"`
	Data       any    `firestore:"data"`
	Tipo       string `firestore:"tipo"`
	Valor      any    `firestore:"valor"`
	Status     string `firestore:"status"`
	Criado     any    `firestore:"criado"`
	Atualizado any    `firestore:"atualizado"`
}

type firestoreServiceRecordRepository struct {
	client *firestore.Client
}

func NewFirestoreServiceRecordRepository(client *firestore.Client) ServiceRecordRepository {
	return &firestoreServiceRecordRepository{
		client: client,
	}
}

func (r *firestoreServiceRecordRepository) Create(ctx context.Context, record *domain.ServiceRecord) error {
	ref := r.client.Collection(servicesCollection).NewDoc()

	now := time.Now().UTC()
	fields := serviceRecordFields(record, now)
	fields["usuario"] = record.Owner
	fields["criado"] = now.Format(time.RFC3339Nano)

	if _, err := ref.Set(ctx, fields); err != nil {
		return err
	}

	record.ID = ref.ID
	record.CreatedAt = now
	record.UpdatedAt = now

	return nil
}

func (r *firestoreServiceRecordRepository) Update(ctx context.Context, record *domain.ServiceRecord) error {
	existing, err := r.GetByID(ctx, record.Owner, record.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	now := time.Now().UTC()
	_, err = r.client.Collection(servicesCollection).Doc(record.ID).Set(ctx, serviceRecordFields(record, now), firestore.MergeAll)
	if err != nil {
		return err
	}

	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = now

	return nil
}

func (r *firestoreServiceRecordRepository) Delete(ctx context.Context, owner, id string) error {
	existing, err := r.GetByID(ctx, owner, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	_, err = r.client.Collection(servicesCollection).Doc(id).Delete(ctx)
	return err
}

func (r *firestoreServiceRecordRepository) GetByID(ctx context.Context, owner, id string) (*domain.ServiceRecord, error) {
	snap, err := r.client.Collection(servicesCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var doc serviceDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}

	// documentos de outro usuário são tratados como inexistentes
	if doc.Usuario != owner {
		return nil, nil
	}

	return serviceRecordFromDocument(snap.Ref.ID, doc), nil
}

func (r *firestoreServiceRecordRepository) ListByOwner(ctx context.Context, owner string) ([]*domain.ServiceRecord, error) {
	snaps, err := r.client.Collection(servicesCollection).
		Where("usuario", "==", owner).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, err
	}

	records := make([]*domain.ServiceRecord, 0, len(snaps))
	for _, snap := range snaps {
		var doc serviceDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, err
		}
		records = append(records, serviceRecordFromDocument(snap.Ref.ID, doc))
	}

	// mesma ordem do repositório postgres
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})

	return records, nil
}

func (r *firestoreServiceRecordRepository) CountByClient(ctx context.Context, owner, clientID string) (int, error) {
	snaps, err := r.client.Collection(servicesCollection).
		Where("usuario", "==", owner).
		Where("clienteId", "==", clientID).
		Documents(ctx).
		GetAll()
	if err != nil {
		return 0, err
	}

	return len(snaps), nil
}

func (r *firestoreServiceRecordRepository) ListOwners(ctx context.Context) ([]string, error) {
	snaps, err := r.client.Collection(servicesCollection).
		Select("usuario").
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	owners := make([]string, 0)
	for _, snap := range snaps {
		owner, ok := snap.Data()["usuario"].(string)
		if !ok || owner == "" {
			continue
		}
		if _, exists := seen[owner]; exists {
			continue
		}
		seen[owner] = struct{}{}
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	return owners, nil
}

// serviceRecordFields monta os campos editáveis. usuario e criado ficam de fora.
func serviceRecordFields(record *domain.ServiceRecord, updatedAt time.Time) map[string]any {
	clientID := ""
	if record.ClientID != nil {
		clientID = *record.ClientID
	}

	return map[string]any{
		"clienteId":  clientID,
		"cliente":    record.ClientName,
		"contato":    record.Contact,
		"local":      record.Location,
		"data":       dateText(record.Date),
		"tipo":       record.ServiceType,
		"valor":      string(record.Value),
		"status":     record.Status,
		"atualizado": updatedAt.Format(time.RFC3339Nano),
	}
}

func serviceRecordFromDocument(id string, doc serviceDocument) *domain.ServiceRecord {
	record := &domain.ServiceRecord{
		ID:          id,
		Owner:       doc.Usuario,
		ClientName:  doc.Cliente,
		Contact:     doc.Contato,
		Location:    doc.Local,
		Date:        doc.Data,
		ServiceType: doc.Tipo,
		Value:       moneyFromDocument(doc.Valor),
		Status:      doc.Status,
		CreatedAt:   timeFromDocument(doc.Criado),
		UpdatedAt:   timeFromDocument(doc.Atualizado),
	}

	if doc.ClienteID != "" {
		clientID := doc.ClienteID
		record.ClientID = &clientID
	}

	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = record.CreatedAt
	}

	return record
}

func moneyFromDocument(value any) domain.MoneyText {
	switch v := value.(type) {
	case string:
		return domain.MoneyText(v)
	case int64:
		return domain.MoneyText(strconv.FormatInt(v, 10))
	case int:
		return domain.MoneyText(strconv.Itoa(v))
	case float64:
		return domain.MoneyText(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return ""
	}
}

// timeFromDocument aceita Timestamp do Firestore ou string ISO-8601
func timeFromDocument(value any) time.Time {
	switch v := value.(type) {
	case time.Time:
		return v
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}
		}
		return t
	default:
		return time.Time{}
	}
}
