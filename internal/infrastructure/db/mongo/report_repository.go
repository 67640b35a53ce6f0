package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wastewise/wastewise/internal/core/domain"
	"github.com/wastewise/wastewise/internal/core/ports"
)

const collectionReports = "reports"

type ReportRepository struct {
	col *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{col: db.Collection(collectionReports)}
}

var _ ports.ReportRepository = (*ReportRepository)(nil)

type mongoReport struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       string             `bson:"user_id"`
	UserName     string             `bson:"user_name"`
	UserEmail    string             `bson:"user_email"`
	ImageURL     string             `bson:"image_url"`
	Location     string             `bson:"location"`
	Latitude     *float64           `bson:"latitude,omitempty"`
	Longitude    *float64           `bson:"longitude,omitempty"`
	Description  string             `bson:"description"`
	Status       string             `bson:"status"`
	AdminComment string             `bson:"admin_comment"`
	Timestamp    time.Time          `bson:"timestamp"`
}

func toMongoReport(r *domain.Report) mongoReport {
	return mongoReport{
		UserID:       r.UserID,
		UserName:     r.UserName,
		UserEmail:    r.UserEmail,
		ImageURL:     r.ImageURL,
		Location:     r.Location,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		Description:  r.Description,
		Status:       string(r.Status),
		AdminComment: r.AdminComment,
		Timestamp:    r.Timestamp.UTC(),
	}
}

func (m *mongoReport) toDomain() *domain.Report {
	return &domain.Report{
		ID:           m.ID.Hex(),
		UserID:       m.UserID,
		UserName:     m.UserName,
		UserEmail:    m.UserEmail,
		ImageURL:     m.ImageURL,
		Location:     m.Location,
		Latitude:     m.Latitude,
		Longitude:    m.Longitude,
		Description:  m.Description,
		Status:       domain.ReportStatus(m.Status),
		AdminComment: m.AdminComment,
		Timestamp:    m.Timestamp.UTC(),
	}
}

// Create inserts a new report document and sets r.ID.
func (r *ReportRepository) Create(ctx context.Context, rep *domain.Report) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toMongoReport(rep))
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rep.ID = oid.Hex()
	}
	return nil
}

func (r *ReportRepository) FindByID(ctx context.Context, id string) (*domain.Report, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidReportID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoReport
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("find report: %w", err)
	}
	return m.toDomain(), nil
}

func (r *ReportRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Report, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *ReportRepository) ListAll(ctx context.Context) ([]*domain.Report, error) {
	return r.find(ctx, bson.M{})
}

func (r *ReportRepository) find(ctx context.Context, filter bson.M) ([]*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoReport
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}

	out := make([]*domain.Report, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// Update applies the non-nil fields and returns the stored document.
func (r *ReportRepository) Update(ctx context.Context, id string, fields ports.ReportFields) (*domain.Report, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidReportID
	}

	set := bson.M{}
	if fields.Status != nil {
		set["status"] = string(*fields.Status)
	}
	if fields.AdminComment != nil {
		set["admin_comment"] = *fields.AdminComment
	}
	if len(set) == 0 {
		return nil, domain.ErrNoFieldsToUpdate
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m mongoReport
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("update report: %w", err)
	}
	return m.toDomain(), nil
}

type statusCount struct {
	Status string `bson:"_id"`
	Count  int    `bson:"count"`
}

// CountByStatus groups reports by status in a single aggregation.
func (r *ReportRepository) CountByStatus(ctx context.Context, userID string) (domain.Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if userID != "" {
		match["user_id"] = userID
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	var stats domain.Stats
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return stats, fmt.Errorf("count reports: %w", err)
	}
	defer cur.Close(ctx)

	var rows []statusCount
	if err := cur.All(ctx, &rows); err != nil {
		return stats, fmt.Errorf("decode counts: %w", err)
	}
	for _, row := range rows {
		stats.Add(domain.ReportStatus(row.Status), row.Count)
	}
	return stats, nil
}

// EnsureIndexes creates necessary indexes on the reports collection.
func (r *ReportRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
