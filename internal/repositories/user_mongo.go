package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/juju/mgo/v3"
	"github.com/juju/mgo/v3/bson"
	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
	"github.com/sbilibin2017/gw-plant-doctor/internal/models"
)

type userDoc struct {
	ID        bson.ObjectId `bson:"_id"`
	Email     string        `bson:"email"`
	Password  string        `bson:"password"`
	Role      string        `bson:"role"`
	CreatedAt time.Time     `bson:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

func (d userDoc) toModel() models.User {
	return models.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// UserMongoRepository stores accounts in the users collection.
type UserMongoRepository struct {
	session *mgo.Session
	dbName  string
}

func NewUserMongoRepository(session *mgo.Session, dbName string) *UserMongoRepository {
	return &UserMongoRepository{session: session, dbName: dbName}
}

func (r *UserMongoRepository) collection() (*mgo.Collection, func()) {
	s := r.session.Copy()
	return s.DB(r.dbName).C(usersC), s.Close
}

// EnsureIndexes creates the unique email index that enforces one account per email.
func (r *UserMongoRepository) EnsureIndexes() error {
	coll, closer := r.collection()
	defer closer()

	return coll.EnsureIndex(mgo.Index{
		Key:    []string{"email"},
		Unique: true,
		Name:   "users_email_key",
	})
}

// GetByEmail returns the account with the given email, or nil when there is none.
func (r *UserMongoRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	coll, closer := r.collection()
	defer closer()

	var doc userDoc
	err := coll.Find(bson.M{"email": email}).One(&doc)

	logger.Log.Infow("mongo",
		"collection", usersC,
		"filter", bson.M{"email": email},
		"result", doc.ID.Hex(),
		"error", err,
	)

	if err == mgo.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user := doc.toModel()
	return &user, nil
}

// List returns all accounts in insertion order.
func (r *UserMongoRepository) List(ctx context.Context) ([]models.User, error) {
	coll, closer := r.collection()
	defer closer()

	var docs []userDoc
	err := coll.Find(nil).Sort("_id").All(&docs)

	logger.Log.Infow("mongo",
		"collection", usersC,
		"filter", nil,
		"result", len(docs),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toModel())
	}
	return users, nil
}

// Save inserts a new account and sets its ID. A duplicate email yields models.ErrDuplicateKey.
func (r *UserMongoRepository) Save(ctx context.Context, user *models.User) error {
	coll, closer := r.collection()
	defer closer()

	now := time.Now().UTC()
	doc := userDoc{
		ID:        bson.NewObjectId(),
		Email:     user.Email,
		Password:  user.PasswordHash,
		Role:      user.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := coll.Insert(doc)

	logger.Log.Infow("mongo",
		"collection", usersC,
		"insert", bson.M{"_id": doc.ID.Hex(), "email": doc.Email, "role": doc.Role},
		"error", err,
	)

	if err != nil {
		if mgo.IsDup(err) {
			return fmt.Errorf("save user %q: %w", user.Email, models.ErrDuplicateKey)
		}
		return err
	}
	user.ID = doc.ID.Hex()
	user.CreatedAt, user.UpdatedAt = now, now
	return nil
}

// UpdatePassword replaces the stored hash. An unknown email yields models.ErrNotFound.
func (r *UserMongoRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	return r.set(email, bson.M{"password": passwordHash})
}

// UpdateRole changes the role of an account. An unknown email yields models.ErrNotFound.
func (r *UserMongoRepository) UpdateRole(ctx context.Context, email, role string) error {
	return r.set(email, bson.M{"role": role})
}

func (r *UserMongoRepository) set(email string, fields bson.M) error {
	coll, closer := r.collection()
	defer closer()

	fields["updated_at"] = time.Now().UTC()
	err := coll.Update(bson.M{"email": email}, bson.M{"$set": fields})

	logger.Log.Infow("mongo",
		"collection", usersC,
		"filter", bson.M{"email": email},
		"fields", len(fields),
		"error", err,
	)

	if err == mgo.ErrNotFound {
		return fmt.Errorf("user %q: %w", email, models.ErrNotFound)
	}
	return err
}
