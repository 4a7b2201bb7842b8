package mongodb

import (
	"context"
	"errors"
	"html"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/observability"
)

// readProjection strips the password hash from every read path.
var readProjection = bson.M{"password": 0}

type UsersRepo struct {
	coll *mongo.Collection
	prom *observability.Prom
}

// NewUsersRepo wraps the users collection. prom may be nil (tests).
func NewUsersRepo(coll *mongo.Collection, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{coll: coll, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom == nil {
		return fn()
	}

	return r.prom.ObserveDB(op, fn)
}

// Create inserts a new user. The unique index on email is the authoritative
// uniqueness signal: a duplicate key error maps to user.ErrEmailTaken.
func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	err := r.observe("users.insert", func() error {
		res, err := r.coll.InsertOne(ctx, u)

		if err != nil {
			return err
		}

		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			u.ID = id
		}

		return nil
	})

	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrEmailTaken
		}

		return user.User{}, err
	}

	u.Password = ""

	return u, nil
}

// List returns one page of users sorted by createdAt descending, plus the
// total match count. A non-empty search becomes a case-insensitive substring
// filter over name OR email.
func (r *UsersRepo) List(ctx context.Context, filter user.ListFilter) ([]user.User, int, error) {
	query := bson.M{}

	if filter.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"email": re},
		}
	}

	var (
		users []user.User
		total int
	)

	err := r.observe("users.list", func() error {
		opts := options.Find().
			SetProjection(readProjection).
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip(int64(filter.Skip())).
			SetLimit(int64(filter.Limit))

		cur, err := r.coll.Find(ctx, query, opts)

		if err != nil {
			return err
		}

		users = make([]user.User, 0, filter.Limit)

		err = cur.All(ctx, &users)

		if err != nil {
			return err
		}

		n, err := r.coll.CountDocuments(ctx, query)

		if err != nil {
			return err
		}

		total = int(n)

		return nil
	})

	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)

	if err != nil {
		// malformed ids behave like missing records
		return user.User{}, user.ErrNotFound
	}

	var u user.User

	err = r.observe("users.get", func() error {
		return r.coll.FindOne(
			ctx,
			bson.M{"_id": oid},
			options.FindOne().SetProjection(readProjection),
		).Decode(&u)
	})

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

// Update modifies name, email, role and isActive. Password is never touched
// through this path. Setting an email owned by another document trips the
// unique index and surfaces as user.ErrEmailTaken.
func (r *UsersRepo) Update(ctx context.Context, id string, f user.UpdateUserForm) (user.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)

	if err != nil {
		return user.User{}, user.ErrNotFound
	}

	set := bson.M{
		"name":     html.EscapeString(f.Name),
		"email":    f.Email,
		"isActive": f.Active(),
	}

	if f.Role != "" {
		set["role"] = f.Role
	}

	var u user.User

	err = r.observe("users.update", func() error {
		opts := options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(readProjection)

		return r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&u)
	})

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}

		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrEmailTaken
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)

	if err != nil {
		return user.ErrNotFound
	}

	var res *mongo.DeleteResult

	err = r.observe("users.delete", func() error {
		var derr error
		res, derr = r.coll.DeleteOne(ctx, bson.M{"_id": oid})

		return derr
	})

	if err != nil {
		return err
	}

	if res.DeletedCount == 0 {
		return user.ErrNotFound
	}

	return nil
}

// SetActive persists a new isActive value and returns the updated user.
func (r *UsersRepo) SetActive(ctx context.Context, id string, active bool) (user.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)

	if err != nil {
		return user.User{}, user.ErrNotFound
	}

	var u user.User

	err = r.observe("users.set_active", func() error {
		opts := options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(readProjection)

		return r.coll.FindOneAndUpdate(
			ctx,
			bson.M{"_id": oid},
			bson.M{"$set": bson.M{"isActive": active}},
			opts,
		).Decode(&u)
	})

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}
