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

	"github.com/shopdesk/commerce-api/internal/core/domain"
)

const collectionRoles = "roles"

type roleDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Slug          string             `bson:"slug"`
	Description   string             `bson:"description"`
	Permissions   []string           `bson:"permissions"`
	IsSystemAdmin bool               `bson:"is_system_admin"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (d *roleDocument) toDomain() *domain.Role {
	perms := d.Permissions
	if perms == nil {
		perms = []string{}
	}
	return &domain.Role{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Slug:          d.Slug,
		Description:   d.Description,
		Permissions:   perms,
		IsSystemAdmin: d.IsSystemAdmin,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func nonNil(perms []string) []string {
	if perms == nil {
		return []string{}
	}
	return perms
}

type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

// List returns every role, oldest first.
func (r *RoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []roleDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	roles := make([]*domain.Role, 0, len(docs))
	for i := range docs {
		roles = append(roles, docs[i].toDomain())
	}
	return roles, nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRoleNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid}, nil)
}

func (r *RoleRepository) FindBySlug(ctx context.Context, slug string) (*domain.Role, error) {
	return r.findOne(ctx, bson.M{"slug": slug}, nil)
}

// FindAssignable returns the oldest role that is not the system admin role.
func (r *RoleRepository) FindAssignable(ctx context.Context) (*domain.Role, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return r.findOne(ctx, bson.M{"is_system_admin": bson.M{"$ne": true}}, opts)
}

func (r *RoleRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var findOpts []*options.FindOneOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}

	var doc roleDocument
	if err := r.col.FindOne(ctx, filter, findOpts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return doc.toDomain(), nil
}

// Create inserts a role. The system admin flag is never written here.
func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := roleDocument{
		Name:        role.Name,
		Slug:        role.Slug,
		Description: role.Description,
		Permissions: nonNil(role.Permissions),
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateRole
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) error {
	oid, err := primitive.ObjectIDFromHex(role.ID)
	if err != nil {
		return domain.ErrRoleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"name":        role.Name,
		"slug":        role.Slug,
		"description": role.Description,
		"permissions": nonNil(role.Permissions),
		"updated_at":  role.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateRole
		}
		return fmt.Errorf("update role: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrRoleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

// Seed upserts a role by slug. Name, description and permissions are only
// written on insert so operator edits survive re-seeding; the system admin
// flag is always enforced. This is the only write path for that flag.
func (r *RoleRepository) Seed(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"name":        role.Name,
			"description": role.Description,
			"permissions": nonNil(role.Permissions),
			"created_at":  now,
		},
		"$set": bson.M{
			"is_system_admin": role.IsSystemAdmin,
			"updated_at":      now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc roleDocument
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"slug": role.Slug}, update, opts).Decode(&doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("seed role %q: %w", role.Slug, domain.ErrDuplicateRole)
		}
		return nil, fmt.Errorf("seed role %q: %w", role.Slug, err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the role indexes. At most one role can carry the
// system admin flag.
func (r *RoleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{{Key: "is_system_admin", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"is_system_admin": true}),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
