package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/confessit/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VoteKind selects which counter and IP set a vote touches.
type VoteKind string

const (
	VoteLike    VoteKind = "like"
	VoteDislike VoteKind = "dislike"
)

// Errors shared by every ConfessionRepository implementation.
var (
	ErrNotFound     = errors.New("confession not found")
	ErrAlreadyVoted = errors.New("already voted")
)

// ConfessionRepository defines the interface for confession data operations.
// IsValidID is store-defined because the backends use incompatible id
// schemes (24-hex ObjectIDs for Mongo, UUIDs for SQL).
type ConfessionRepository interface {
	IsValidID(id string) bool
	CreateConfession(ctx context.Context, confession *models.Confession) (string, error)
	ListConfessions(ctx context.Context) ([]models.ConfessionSummary, error)
	GetVoteState(ctx context.Context, id string) (*models.VoteState, error)
	ApplyVote(ctx context.Context, id string, kind VoteKind, ip string) error
	DeleteConfession(ctx context.Context, id string) error
	AppendComment(ctx context.Context, id string, comment models.Comment) error
	ListComments(ctx context.Context, id string) ([]models.Comment, error)
}

// MongoConfessionRepository implements ConfessionRepository for MongoDB
type MongoConfessionRepository struct {
	collection *mongo.Collection
}

// NewMongoConfessionRepository creates a new MongoConfessionRepository
func NewMongoConfessionRepository(db *mongo.Database) *MongoConfessionRepository {
	return &MongoConfessionRepository{collection: db.Collection("confessions")}
}

// IsValidID reports whether id is a well-formed ObjectID hex string.
func (r *MongoConfessionRepository) IsValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// CreateConfession inserts a new confession and returns its assigned id.
func (r *MongoConfessionRepository) CreateConfession(ctx context.Context, confession *models.Confession) (string, error) {
	confession.ID = primitive.NewObjectID()
	if confession.CreatedAt.IsZero() {
		confession.CreatedAt = nowUTC()
	}
	if confession.LikedIPs == nil {
		confession.LikedIPs = []string{}
	}
	if confession.DislikedIPs == nil {
		confession.DislikedIPs = []string{}
	}
	if confession.Comments == nil {
		confession.Comments = []models.Comment{}
	}
	if _, err := r.collection.InsertOne(ctx, confession); err != nil {
		return "", err
	}
	return confession.ID.Hex(), nil
}

// ListConfessions returns all confessions sorted by likes descending.
// Ties are broken by creation time ascending so the order is stable.
func (r *MongoConfessionRepository) ListConfessions(ctx context.Context) ([]models.ConfessionSummary, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "likes", Value: -1}, {Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var confessions []models.Confession
	if err = cursor.All(ctx, &confessions); err != nil {
		return nil, err
	}

	summaries := make([]models.ConfessionSummary, 0, len(confessions))
	for _, c := range confessions {
		summaries = append(summaries, models.ConfessionSummary{
			ID:           c.ID.Hex(),
			Text:         c.Text,
			DisplayName:  c.DisplayName,
			Likes:        c.Likes,
			Dislikes:     c.Dislikes,
			CommentCount: len(c.Comments),
		})
	}
	return summaries, nil
}

// GetVoteState retrieves the counters and voter IP sets of a confession.
func (r *MongoConfessionRepository) GetVoteState(ctx context.Context, id string) (*models.VoteState, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var confession models.Confession
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&confession)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &models.VoteState{
		Likes:       confession.Likes,
		Dislikes:    confession.Dislikes,
		LikedIPs:    confession.LikedIPs,
		DislikedIPs: confession.DislikedIPs,
	}, nil
}

// ApplyVote appends ip to the relevant IP set and increments the matching
// counter in one conditional update, so two concurrent votes from the same
// IP cannot both succeed.
func (r *MongoConfessionRepository) ApplyVote(ctx context.Context, id string, kind VoteKind, ip string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	countField, ipsField := "likes", "liked_ips"
	if kind == VoteDislike {
		countField, ipsField = "dislikes", "disliked_ips"
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, ipsField: bson.M{"$ne": ip}},
		bson.M{
			"$inc":  bson.M{countField: 1},
			"$push": bson.M{ipsField: ip},
		},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		// The filter did not match: either the confession is gone or this
		// IP already voted. Disambiguate with a plain existence check.
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objID})
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrAlreadyVoted
	}
	return nil
}

// DeleteConfession removes a confession and its embedded comments. Deleting
// an absent confession is not an error.
func (r *MongoConfessionRepository) DeleteConfession(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	return err
}

// AppendComment appends a comment to a confession.
func (r *MongoConfessionRepository) AppendComment(ctx context.Context, id string, comment models.Comment) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$push": bson.M{"comments": comment}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListComments retrieves the comments of a confession in creation order.
// A missing confession yields an empty list, not an error.
func (r *MongoConfessionRepository) ListComments(ctx context.Context, id string) ([]models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return []models.Comment{}, nil
	}

	var confession models.Confession
	err = r.collection.FindOne(ctx, bson.M{"_id": objID},
		options.FindOne().SetProjection(bson.M{"comments": 1}),
	).Decode(&confession)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return []models.Comment{}, nil
		}
		return nil, err
	}
	if confession.Comments == nil {
		return []models.Comment{}, nil
	}
	return confession.Comments, nil
}

var _ ConfessionRepository = (*MongoConfessionRepository)(nil)

// nowUTC is the creation-timestamp source shared by the repositories.
func nowUTC() time.Time {
	return time.Now().UTC()
}
