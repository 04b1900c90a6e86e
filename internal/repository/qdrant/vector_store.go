package qdrant

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/DRSN-tech/indexer-backend/internal/domain"
	"github.com/DRSN-tech/indexer-backend/pkg/e"
)

// Служебные ключи payload, не входящие в пользовательские метаданные
const (
	payloadKeyID       = "_id"
	payloadKeyDocument = "_document"
)

// pointNamespace пространство имён для детерминированных UUID точек.
// Qdrant принимает только UUID или числа в качестве id точки, поэтому
// естественный строковый id записи отображается в UUIDv5 и дублируется
// в payload.
var pointNamespace = uuid.MustParse("5b6a3a2e-9c1f-4f37-9d20-8f0f6f1c7a41")

// VectorStore хранилище embedding-векторов в Qdrant.
// Коллекция создается лениво при первом Upsert: размерность векторов
// фиксируется по первой успешно записанной записи.
type VectorStore struct {
	client *qdrant.Client

	mu   sync.Mutex
	dims map[string]uint64 // имя коллекции -> размерность, 0 если еще не создана
}

func NewVectorStore(client *qdrant.Client) *VectorStore {
	return &VectorStore{
		client: client,
		dims:   make(map[string]uint64),
	}
}

// GetOrCreateCollection регистрирует коллекцию. Если коллекция уже есть в
// Qdrant, кэшируется ее размерность; иначе создание откладывается до первого
// Upsert, когда станет известна размерность векторов.
func (s *VectorStore) GetOrCreateCollection(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dims[name]; ok {
		return nil
	}

	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), mapStoreError(err))
	}

	if !exists {
		s.dims[name] = 0
		return nil
	}

	info, err := s.client.GetCollectionInfo(ctx, name)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), mapStoreError(err))
	}

	s.dims[name] = info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()
	return nil
}

// Upsert сохраняет или перезаписывает запись в коллекции. Повторная вставка
// с тем же ID обновляет вектор и метаданные, не создавая дубликата.
func (s *VectorStore) Upsert(ctx context.Context, collection string, entry *domain.IndexEntry) error {
	if len(entry.Vector) == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrEmptyVector)
	}

	if err := s.ensureCollection(ctx, collection, uint64(len(entry.Vector))); err != nil {
		return err
	}

	payload := make(map[string]any, len(entry.Metadata)+2)
	for k, v := range entry.Metadata {
		payload[k] = v
	}
	payload[payloadKeyID] = entry.ID
	payload[payloadKeyDocument] = entry.Document

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDUUID(pointID(entry.ID)),
				Vectors: qdrant.NewVectors(entry.Vector...),
				Payload: qdrant.NewValueMap(payload),
			},
		},
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), mapStoreError(err))
	}

	return nil
}

// Query возвращает k ближайших записей по косинусной близости.
// При равенстве score записи упорядочиваются по возрастанию ID.
func (s *VectorStore) Query(ctx context.Context, collection string, vector []float32, k int) ([]domain.QueryHit, error) {
	if len(vector) == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrEmptyVector)
	}

	s.mu.Lock()
	dim, ok := s.dims[collection]
	s.mu.Unlock()
	if ok && dim > 0 && uint64(len(vector)) != dim {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrDimensionMismatch)
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapStoreError(err))
	}

	hits := make([]domain.QueryHit, 0, len(points))
	for _, point := range points {
		hits = append(hits, toQueryHit(point))
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	return hits, nil
}

// ensureCollection создает коллекцию с метрикой Cosine при первом обращении
// и проверяет совпадение размерности для всех последующих векторов
func (s *VectorStore) ensureCollection(ctx context.Context, collection string, dim uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	known, ok := s.dims[collection]
	if ok && known > 0 {
		if known != dim {
			return e.Wrap(whereami.WhereAmI(), e.ErrDimensionMismatch)
		}
		return nil
	}

	if !ok {
		exists, err := s.client.CollectionExists(ctx, collection)
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), mapStoreError(err))
		}
		if exists {
			info, err := s.client.GetCollectionInfo(ctx, collection)
			if err != nil {
				return e.Wrap(whereami.WhereAmI(), mapStoreError(err))
			}
			size := info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()
			s.dims[collection] = size
			if size != dim {
				return e.Wrap(whereami.WhereAmI(), e.ErrDimensionMismatch)
			}
			return nil
		}
	}

	err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dim,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), mapStoreError(err))
	}

	s.dims[collection] = dim
	return nil
}

func pointID(id string) string {
	return uuid.NewSHA1(pointNamespace, []byte(id)).String()
}

func toQueryHit(point *qdrant.ScoredPoint) domain.QueryHit {
	payload := point.GetPayload()

	hit := domain.QueryHit{
		ID:       payload[payloadKeyID].GetStringValue(),
		Score:    point.GetScore(),
		Metadata: make(domain.Metadata, len(payload)),
	}

	for k, v := range payload {
		if k == payloadKeyID || k == payloadKeyDocument {
			continue
		}
		hit.Metadata[k] = v.GetStringValue()
	}

	return hit
}

// mapStoreError переводит сетевые ошибки Qdrant в доменную ошибку
// недоступности хранилища
func mapStoreError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return e.ErrStoreUnavailable
	default:
		return err
	}
}
