package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aishanaaz19/assignment-growthx/types"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoIdentityRepository stores one identity partition in its own collection.
type MongoIdentityRepository struct {
	coll *mongo.Collection
	role types.Role
}

// NewMongoIdentityRepository constructs the repository for the collection of role.
func NewMongoIdentityRepository(db *mongo.Database, role types.Role) (*MongoIdentityRepository, error) {
	name, ok := identityTables[role]
	if !ok {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	return &MongoIdentityRepository{coll: db.Collection(name), role: role}, nil
}

// EnsureIndexes creates the unique username index.
func (r *MongoIdentityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *MongoIdentityRepository) GetByID(ctx context.Context, id string) (types.Identity, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoIdentityRepository) GetByUsername(ctx context.Context, username string) (types.Identity, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoIdentityRepository) Create(ctx context.Context, identity types.Identity) (types.Identity, error) {
	if identity.ID == "" {
		identity.ID = uuid.NewString()
	}
	identity.CreatedAt = time.Now().UTC()
	identity.Role = r.role

	if _, err := r.coll.InsertOne(ctx, identity); err != nil {
		if isUniqueViolation(err) {
			return types.Identity{}, ErrDuplicate
		}
		return types.Identity{}, err
	}
	return identity, nil
}

func (r *MongoIdentityRepository) List(ctx context.Context) ([]types.Identity, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "full_name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	identities := make([]types.Identity, 0)
	if err := cursor.All(ctx, &identities); err != nil {
		return nil, err
	}
	for i := range identities {
		identities[i].Role = r.role
	}
	return identities, nil
}

func (r *MongoIdentityRepository) findOne(ctx context.Context, filter bson.M) (types.Identity, error) {
	var identity types.Identity
	if err := r.coll.FindOne(ctx, filter).Decode(&identity); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Identity{}, ErrNotFound
		}
		return types.Identity{}, err
	}
	identity.Role = r.role
	return identity, nil
}

// MongoAssignmentRepository stores assignments in the "assignments" collection.
type MongoAssignmentRepository struct {
	coll *mongo.Collection
}

// NewMongoAssignmentRepository constructs a repository backed by MongoDB.
func NewMongoAssignmentRepository(db *mongo.Database) *MongoAssignmentRepository {
	return &MongoAssignmentRepository{coll: db.Collection("assignments")}
}

// EnsureIndexes creates the lookup index on the admin name.
func (r *MongoAssignmentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "admin", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func (r *MongoAssignmentRepository) Get(ctx context.Context, id string) (types.Assignment, error) {
	var assignment types.Assignment
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Assignment{}, ErrNotFound
		}
		return types.Assignment{}, err
	}
	return assignment, nil
}

func (r *MongoAssignmentRepository) ListByAdmin(ctx context.Context, admin string) ([]types.Assignment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"admin": admin}, opts)
	if err != nil {
		return nil, err
	}
	assignments := make([]types.Assignment, 0)
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *MongoAssignmentRepository) Create(ctx context.Context, assignment types.Assignment) (types.Assignment, error) {
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, assignment); err != nil {
		if isUniqueViolation(err) {
			return types.Assignment{}, ErrDuplicate
		}
		return types.Assignment{}, err
	}
	return assignment, nil
}

func (r *MongoAssignmentRepository) UpdateStatus(ctx context.Context, id string, status types.AssignmentStatus) (types.Assignment, error) {
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var assignment types.Assignment
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&assignment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Assignment{}, ErrNotFound
		}
		return types.Assignment{}, err
	}
	return assignment, nil
}
