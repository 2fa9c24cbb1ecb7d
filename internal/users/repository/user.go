package repository

import (
	"context"
	"fmt"

	"homestay/pkg/config"
	"homestay/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Users"

// UserRepository is a read-only view of user profiles. Users are managed
// by the identity service.
type UserRepository interface {
	FindSummaries(ctx context.Context, ids []string) (map[string]*model.UserSummary, error)
}

type mongoUserRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoUserRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// FindSummaries returns public profiles keyed by user id. Ids that are not
// object ids are matched as strings.
func (r *mongoUserRepository) FindSummaries(ctx context.Context, ids []string) (map[string]*model.UserSummary, error) {
	summaries := make(map[string]*model.UserSummary, len(ids))
	keys := lookupKeys(ids)
	if len(keys) == 0 {
		return summaries, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{
		"first_name": 1, "last_name": 1, "email": 1, "phone": 1, "profile_image": 1,
	})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": keys}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*model.UserSummary
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	for _, u := range users {
		summaries[u.ID] = u
	}
	return summaries, nil
}

func lookupKeys(ids []string) []any {
	seen := make(map[string]struct{}, len(ids))
	keys := make([]any, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			keys = append(keys, oid)
			continue
		}
		keys = append(keys, id)
	}
	return keys
}
