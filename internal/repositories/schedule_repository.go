// internal/repositories/schedule_repository.go
// Schedule data access (MongoDB). Grounded on the teacher's
// user_preferences_repository.go: a single collection, documents upserted
// by a natural key, no fixed column shape — a good fit here because a
// schedule's nesting (every cell plus, for the optimal phase, the whole
// Q-table) does not normalize cleanly into SQL columns and is only ever
// fetched whole by (run id, phase, episode), never queried by sub-field.
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SlotDocument mirrors one row of internal/exporter's schedule CSV.
type SlotDocument struct {
	Time     string `bson:"time"`
	Round    string `bson:"round"`
	Location string `bson:"location"`
	Team     int    `bson:"team"`
}

// QEntryDocument mirrors one row of internal/exporter's Q-table CSV.
type QEntryDocument struct {
	Time     string  `bson:"time"`
	Round    string  `bson:"round"`
	Location string  `bson:"location"`
	Team     int     `bson:"team"`
	QValue   float64 `bson:"q_value"`
}

// ScheduleDocument is one persisted phase's output: every static slot
// (filled or not) plus, for phases where it matters, the full Q-table.
type ScheduleDocument struct {
	RunID     string           `bson:"run_id"`
	Phase     string           `bson:"phase"`
	Episode   int              `bson:"episode"`
	Slots     []SlotDocument   `bson:"slots"`
	QTable    []QEntryDocument `bson:"q_table,omitempty"`
	Score     float64          `bson:"score"`
	SavedAt   time.Time        `bson:"saved_at"`
}

// ScheduleRepository handles schedule documents in MongoDB.
type ScheduleRepository struct {
	collection *mongo.Collection
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *mongo.Database) *ScheduleRepository {
	return &ScheduleRepository{
		collection: db.Collection("schedules"),
	}
}

// Save upserts a phase's schedule document, keyed on (run_id, phase,
// episode) so re-saving the same episode (e.g. a retried broadcast)
// overwrites rather than duplicates.
func (r *ScheduleRepository) Save(ctx context.Context, doc ScheduleDocument) error {
	doc.SavedAt = time.Now()
	filter := bson.M{"run_id": doc.RunID, "phase": doc.Phase, "episode": doc.Episode}
	update := bson.M{"$set": doc}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetLatest retrieves the most recently saved document for a run and
// phase (the highest episode number), used by the CSV download endpoints.
func (r *ScheduleRepository) GetLatest(ctx context.Context, runID, phase string) (*ScheduleDocument, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "episode", Value: -1}})
	var doc ScheduleDocument
	err := r.collection.FindOne(ctx, bson.M{"run_id": runID, "phase": phase}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListEpisodes retrieves every saved episode document for a run and phase,
// ordered by episode ascending.
func (r *ScheduleRepository) ListEpisodes(ctx context.Context, runID, phase string) ([]ScheduleDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "episode", Value: 1}})
	cur, err := r.collection.Find(ctx, bson.M{"run_id": runID, "phase": phase}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	docs := make([]ScheduleDocument, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteByRun removes every document belonging to a run.
func (r *ScheduleRepository) DeleteByRun(ctx context.Context, runID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"run_id": runID})
	return err
}
