package diagnosis

import (
	"context"
	"errors"

	"github.com/leafsense/plant-backend/internal/shared"
	"github.com/qdrant/go-client/qdrant"
	"gorm.io/gorm"
)

const embeddingCollection = "diagnoses"

type Store struct {
	db     *gorm.DB
	qdrant *qdrant.Client
}

func NewStore(db *gorm.DB, qdrantClient *qdrant.Client) *Store {
	return &Store{
		db:     db,
		qdrant: qdrantClient,
	}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Record{})
}

func (s *Store) Create(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = shared.NewID("diag_")
	}
	return s.db.WithContext(ctx).Create(rec).Error
}

func (s *Store) GetByID(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	return &rec, err
}

func (s *Store) GetBySession(ctx context.Context, sessionID string) ([]*Record, error) {
	var recs []*Record
	err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).
		Order("created_at DESC").Find(&recs).Error
	return recs, err
}

func (s *Store) List(ctx context.Context, status *HealthStatus, limit, offset int) ([]*Record, error) {
	var recs []*Record
	q := s.db.WithContext(ctx)
	if status != nil {
		q = q.Where("health_status = ?", *status)
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&recs).Error
	return recs, err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&Record{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (s *Store) UpsertEmbedding(ctx context.Context, recordID string, embedding []float32) error {
	if s.qdrant == nil {
		return errors.New("qdrant client not configured")
	}

	_, err := s.qdrant.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: embeddingCollection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(recordID),
				Vectors: qdrant.NewVectors(embedding...),
			},
		},
	})
	return err
}

func (s *Store) SearchByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*Record, error) {
	if s.qdrant == nil {
		return nil, errors.New("qdrant client not configured")
	}

	results, err := s.qdrant.Query(ctx, &qdrant.QueryPoints{
		CollectionName: embeddingCollection,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(false),
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(results))
	for _, r := range results {
		if r.Id != nil {
			if uuid := r.Id.GetUuid(); uuid != "" {
				ids = append(ids, uuid)
			}
		}
	}

	if len(ids) == 0 {
		return []*Record{}, nil
	}

	var recs []*Record
	err = s.db.WithContext(ctx).Where("id IN ?", ids).Find(&recs).Error
	return recs, err
}

func (s *Store) DeleteEmbedding(ctx context.Context, recordID string) error {
	if s.qdrant == nil {
		return nil
	}

	_, err := s.qdrant.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: embeddingCollection,
		Points: qdrant.NewPointsSelector(
			qdrant.NewID(recordID),
		),
	})
	return err
}
