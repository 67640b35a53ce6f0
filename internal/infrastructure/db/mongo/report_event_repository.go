package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wastewise/wastewise/internal/core/domain"
	"github.com/wastewise/wastewise/internal/core/ports"
)

const collectionReportEvents = "report_events"

// ReportEventRepository implements ports.ReportEventRepository using MongoDB.
type ReportEventRepository struct {
	col *mongo.Collection
}

// NewReportEventRepository creates a new ReportEventRepository.
func NewReportEventRepository(db *mongo.Database) ports.ReportEventRepository {
	return &ReportEventRepository{col: db.Collection(collectionReportEvents)}
}

// InsertEvent persists an update to the report_events audit collection.
func (r *ReportEventRepository) InsertEvent(ctx context.Context, event *domain.ReportEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"report_id":    event.ReportID,
		"status":       string(event.Status),
		"actor_id":     event.ActorID,
		"actor_email":  event.ActorEmail,
		"timestamp":    event.Timestamp.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if event.AdminComment != nil {
		doc["admin_comment"] = *event.AdminComment
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}
