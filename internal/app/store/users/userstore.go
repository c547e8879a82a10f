package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/learnhub/internal/app/system/normalize"
	"github.com/dalemusser/learnhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrNotFound is returned when no user matches the given ID.
	ErrNotFound = errors.New("user not found")
	errBadRole  = errors.New(`role must be "admin"|"instructor"|"student"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetInstructor loads a user that holds the instructor role.
// Returns mongo.ErrNoDocuments if no such instructor exists.
func (s *Store) GetInstructor(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "role": models.RoleInstructor}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns every user ordered by creation time.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new user after normalizing & validating fields.
// PasswordHash must already be set by the caller.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	if u.Role == "" {
		u.Role = models.RoleStudent
	}
	if !models.IsValidRole(u.Role) {
		return models.User{}, errBadRole
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Update holds optional field changes. Nil fields are left untouched.
type Update struct {
	Name     *string
	Email    *string
	Role     *string
	Avatar   *string
	IsActive *bool
}

// Empty reports whether no field is set.
func (u Update) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Role == nil && u.Avatar == nil && u.IsActive == nil
}

func (u Update) set() bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = normalize.Name(*u.Name)
	}
	if u.Email != nil {
		set["email"] = normalize.Email(*u.Email)
	}
	if u.Role != nil {
		set["role"] = normalize.Role(*u.Role)
	}
	if u.Avatar != nil {
		set["avatar"] = *u.Avatar
	}
	if u.IsActive != nil {
		set["is_active"] = *u.IsActive
	}
	return set
}

// Update applies upd and sets updated_at. It reports whether any stored
// value changed. Returns ErrNotFound when id matches nothing and
// ErrDuplicateEmail when the new email belongs to another user.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (bool, error) {
	if upd.Role != nil && !models.IsValidRole(normalize.Role(*upd.Role)) {
		return false, errBadRole
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, ErrNotFound
		}
		return false, err
	}

	set := upd.set()
	if !differs(current, set) {
		return false, nil
	}
	set["updated_at"] = time.Now().UTC()

	if _, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		if wafflemongo.IsDup(err) {
			return false, ErrDuplicateEmail
		}
		return false, err
	}
	return true, nil
}

func differs(u *models.User, set bson.M) bool {
	for k, v := range set {
		switch k {
		case "name":
			if u.Name != v.(string) {
				return true
			}
		case "email":
			if u.Email != v.(string) {
				return true
			}
		case "role":
			if u.Role != v.(string) {
				return true
			}
		case "avatar":
			if u.Avatar != v.(string) {
				return true
			}
		case "is_active":
			if u.IsActive != v.(bool) {
				return true
			}
		}
	}
	return false
}

// SetAvatar stores url as the user's avatar (empty clears it).
func (s *Store) SetAvatar(ctx context.Context, id primitive.ObjectID, url string) error {
	var op bson.M
	if url == "" {
		op = bson.M{"$unset": bson.M{"avatar": ""}, "$set": bson.M{"updated_at": time.Now().UTC()}}
	} else {
		op = bson.M{"$set": bson.M{"avatar": url, "updated_at": time.Now().UTC()}}
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, op)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user document. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// SoftDelete deactivates a user and stamps deleted_at. Returns the number
// of users matched.
func (s *Store) SoftDelete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return s.SoftDeleteMany(ctx, []primitive.ObjectID{id})
}

// SoftDeleteMany deactivates every listed user and stamps deleted_at.
func (s *Store) SoftDeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"is_active": false, "deleted_at": now, "updated_at": now}})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// SetActiveMany sets is_active on every listed user. Reactivating clears
// deleted_at. Returns the number of users modified.
func (s *Store) SetActiveMany(ctx context.Context, ids []primitive.ObjectID, active bool) (int64, error) {
	update := bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now().UTC()}}
	if active {
		update["$unset"] = bson.M{"deleted_at": ""}
	}
	res, err := s.c.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// EmailExistsForOther reports whether email belongs to a user other than excludeID.
func (s *Store) EmailExistsForOther(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"email": normalize.Email(email),
		"_id":   bson.M{"$ne": excludeID},
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// PromoteToAdmin makes an existing user an active admin.
func (s *Store) PromoteToAdmin(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"role": models.RoleAdmin, "is_active": true, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"deleted_at": ""},
	})
	return err
}
