package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/garment-mes/scantrack-service/internal/domain"
)

// ScanRecordRepository persists scan records in MongoDB.
type ScanRecordRepository struct {
	collection *mongo.Collection
}

func NewScanRecordRepository(db *mongo.Database) *ScanRecordRepository {
	repo := &ScanRecordRepository{collection: db.Collection(scansCollection)}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *ScanRecordRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_no", Value: 1}, {Key: "bundle_no", Value: 1}}},
		{Keys: bson.D{{Key: "scanned_at", Value: -1}}},
		{Keys: bson.D{{Key: "operator_id", Value: 1}, {Key: "scanned_at", Value: -1}}},
		{Keys: bson.D{{Key: "process_name", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

// Save inserts a scan record and returns the generated record id.
func (r *ScanRecordRepository) Save(ctx context.Context, record *domain.ScanRecord) (string, error) {
	doc := bson.M{
		"order_no":     record.OrderNo,
		"order_id":     record.OrderID,
		"style_no":     record.StyleNo,
		"color":        record.Color,
		"size":         record.Size,
		"bundle_no":    record.BundleNo,
		"quantity":     record.Quantity,
		"unit_price":   record.UnitPrice,
		"process_name": record.ProcessName,
		"scan_type":    record.ScanType,
		"scan_mode":    record.ScanMode,
		"operator_id":  record.OperatorID,
		"workstation":  record.Workstation,
		"defective":    record.Defective,
		"scanned_at":   record.ScannedAt,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to insert scan record: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}

// FindByDateRange returns records scanned within [from, to), oldest first.
func (r *ScanRecordRepository) FindByDateRange(ctx context.Context, from, to time.Time, pagination domain.Pagination) ([]*domain.ScanRecord, error) {
	filter := bson.M{"scanned_at": bson.M{"$gte": from, "$lt": to}}
	opts := options.Find().
		SetSort(bson.D{{Key: "scanned_at", Value: 1}}).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*domain.ScanRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode scan records: %w", err)
	}
	return records, nil
}

// ProcessesByBundle groups an order's recorded scans into bundle number ->
// distinct process names.
func (r *ScanRecordRepository) ProcessesByBundle(ctx context.Context, orderNo string) (map[string][]string, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"order_no": orderNo}}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$bundle_no",
			"processes": bson.M{"$addToSet": "$process_name"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate scans for %s: %w", orderNo, err)
	}
	defer cursor.Close(ctx)

	result := make(map[string][]string)
	for cursor.Next(ctx) {
		var row struct {
			BundleNo  string   `bson:"_id"`
			Processes []string `bson:"processes"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode scan group: %w", err)
		}
		result[row.BundleNo] = row.Processes
	}
	return result, cursor.Err()
}
