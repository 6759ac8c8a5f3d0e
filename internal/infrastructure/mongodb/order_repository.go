package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/garment-mes/scantrack-service/internal/domain"
)

const (
	ordersCollection = "production_orders"
	scansCollection  = "bundle_scans"
)

// orderDocument is the persisted shape of a production order.
type orderDocument struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty"`
	OrderNo         string               `bson:"order_no"`
	StyleNo         string               `bson:"style_no,omitempty"`
	ProcessNodes    []domain.ProcessNode `bson:"process_nodes"`
	Lines           []domain.OrderLine   `bson:"lines,omitempty"`
	OverallProgress int                  `bson:"overall_progress"`
	ActiveStageName string               `bson:"active_stage,omitempty"`
}

// ProductionOrderRepository loads order snapshots from MongoDB. The
// per-bundle scan history is joined in from the scan record repository at
// read time so the snapshot reflects every recorded step.
type ProductionOrderRepository struct {
	orders  *mongo.Collection
	records domain.ScanRecordRepository
}

func NewProductionOrderRepository(db *mongo.Database, records domain.ScanRecordRepository) *ProductionOrderRepository {
	repo := &ProductionOrderRepository{
		orders:  db.Collection(ordersCollection),
		records: records,
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *ProductionOrderRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_no", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "style_no", Value: 1}}},
		{Keys: bson.D{{Key: "active_stage", Value: 1}}},
	}
	r.orders.Indexes().CreateMany(ctx, indexes)
}

// GetOrderSnapshot resolves by order number first, then by document id.
func (r *ProductionOrderRepository) GetOrderSnapshot(ctx context.Context, orderNoOrID string) (*domain.OrderSnapshot, error) {
	var doc orderDocument
	err := r.orders.FindOne(ctx, bson.M{"order_no": orderNoOrID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		if oid, oidErr := primitive.ObjectIDFromHex(orderNoOrID); oidErr == nil {
			err = r.orders.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
		}
	}
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", orderNoOrID, err)
	}

	scanned, err := r.records.ProcessesByBundle(ctx, doc.OrderNo)
	if err != nil {
		return nil, err
	}

	return &domain.OrderSnapshot{
		OrderNo:         doc.OrderNo,
		OrderID:         doc.ID.Hex(),
		StyleNo:         doc.StyleNo,
		ProcessNodes:    doc.ProcessNodes,
		Lines:           doc.Lines,
		ScannedByBundle: scanned,
		OverallProgress: doc.OverallProgress,
		ActiveStageName: doc.ActiveStageName,
	}, nil
}
