package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/go-registration-api/internal/domain"
)

const profileCollection = "user_profiles"

// ProfileRepo stores profiles in MongoDB. A unique index on email makes
// Create an atomic insert-if-absent; updates filter on the expected state.
type ProfileRepo struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewProfileRepo ensures the unique email index exists and returns the repo.
func NewProfileRepo(ctx context.Context, db *mongo.Database, log logrus.FieldLogger) (*ProfileRepo, error) {
	coll := db.Collection(profileCollection)
	name, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create email index: %w", err)
	}
	log.WithFields(logrus.Fields{"collection": profileCollection, "index": name}).Info("ensured index")
	return &ProfileRepo{coll: coll, now: time.Now}, nil
}

func (r *ProfileRepo) Create(ctx context.Context, p *domain.UserProfile) error {
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("profile already exists: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	var p domain.UserProfile
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("profile not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepo) MarkVerified(ctx context.Context, email, code string) error {
	filter, update := markVerifiedQuery(email, code, r.now().UTC())
	return r.updateOne(ctx, filter, update, "profile not pending verification")
}

func (r *ProfileRepo) ReplaceOTP(ctx context.Context, email, code string, expires time.Time) error {
	filter, update := replaceOTPQuery(email, code, expires, r.now().UTC())
	return r.updateOne(ctx, filter, update, "profile missing or already verified")
}

func (r *ProfileRepo) updateOne(ctx context.Context, filter, update bson.M, conflictMsg string) error {
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", conflictMsg, domain.ErrConflict)
	}
	return nil
}

func markVerifiedQuery(email, code string, now time.Time) (filter, update bson.M) {
	filter = bson.M{"email": email, "verified": false, "otp": code}
	update = bson.M{
		"$set":   bson.M{"verified": true, "updated_at": now},
		"$unset": bson.M{"otp": "", "otp_expires": ""},
	}
	return filter, update
}

func replaceOTPQuery(email, code string, expires, now time.Time) (filter, update bson.M) {
	filter = bson.M{"email": email, "verified": false}
	update = bson.M{
		"$set": bson.M{"otp": code, "otp_expires": expires, "updated_at": now},
	}
	return filter, update
}
