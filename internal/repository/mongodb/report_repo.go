package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/petshop-backend/internal/cfg"
	"github.com/DRSN-tech/petshop-backend/internal/domain"
	"github.com/DRSN-tech/petshop-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const snapshotsCollection = "statistics_snapshots"

// ReportRepo хранит снимки статистики документами MongoDB.
type ReportRepo struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewReportRepo подключается к MongoDB и проверяет соединение.
func NewReportRepo(ctx context.Context, cfg *cfg.MongoCfg) (*ReportRepo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect to mongodb: %w", whereami.WhereAmI(), err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%s: failed to ping mongodb: %w", whereami.WhereAmI(), err)
	}

	return &ReportRepo{
		client:   client,
		dbName:   cfg.DBName,
		collName: snapshotsCollection,
	}, nil
}

// SaveSnapshot вставляет снимок и возвращает id документа.
func (r *ReportRepo) SaveSnapshot(ctx context.Context, snapshot *domain.StatisticsSnapshot) (string, error) {
	collection := r.client.Database(r.dbName).Collection(r.collName)

	res, err := collection.InsertOne(ctx, toDocument(snapshot))
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		return id.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

func (r *ReportRepo) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// Документы хранят деньги строками: decimal не имеет BSON-представления без потери точности.

type snapshotDocument struct {
	GeneratedAt          time.Time         `bson:"generated_at"`
	TopClientsByQuantity []rankingDocument `bson:"top_clients_by_quantity"`
	MostConsumedItems    []itemDocument    `bson:"most_consumed_items"`
	PetSegments          []segmentDocument `bson:"pet_segments"`
	TopClientsByValue    []rankingDocument `bson:"top_clients_by_value"`
}

type rankingDocument struct {
	ClientID   int64  `bson:"client_id"`
	ClientName string `bson:"client_name"`
	Quantity   int64  `bson:"quantity"`
	Value      string `bson:"value"`
}

type itemDocument struct {
	ItemID   int64  `bson:"item_id"`
	Name     string `bson:"name"`
	Kind     string `bson:"kind"`
	Quantity int64  `bson:"quantity"`
}

type segmentDocument struct {
	Type  string         `bson:"type"`
	Breed string         `bson:"breed"`
	Items []itemDocument `bson:"items"`
}

func toDocument(s *domain.StatisticsSnapshot) snapshotDocument {
	return snapshotDocument{
		GeneratedAt:          s.GeneratedAt.UTC(),
		TopClientsByQuantity: toRankingDocuments(s.TopClientsByQuantity),
		MostConsumedItems:    toItemDocuments(s.MostConsumedItems),
		PetSegments:          toSegmentDocuments(s.PetSegments),
		TopClientsByValue:    toRankingDocuments(s.TopClientsByValue),
	}
}

func toRankingDocuments(rankings []domain.ClientRanking) []rankingDocument {
	docs := make([]rankingDocument, 0, len(rankings))
	for _, r := range rankings {
		docs = append(docs, rankingDocument{
			ClientID:   r.Client.ID,
			ClientName: r.Client.Name,
			Quantity:   r.Quantity,
			Value:      r.Value.StringFixed(2),
		})
	}
	return docs
}

func toItemDocuments(items []domain.ItemConsumption) []itemDocument {
	docs := make([]itemDocument, 0, len(items))
	for _, it := range items {
		docs = append(docs, itemDocument{
			ItemID:   it.Item.ID,
			Name:     it.Item.Name,
			Kind:     string(it.Item.Kind),
			Quantity: it.Quantity,
		})
	}
	return docs
}

func toSegmentDocuments(segments []domain.PetSegment) []segmentDocument {
	docs := make([]segmentDocument, 0, len(segments))
	for _, s := range segments {
		docs = append(docs, segmentDocument{
			Type:  s.Type,
			Breed: s.Breed,
			Items: toItemDocuments(s.Items),
		})
	}
	return docs
}
