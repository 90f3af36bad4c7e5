package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tubeworks/media-api/internal/core/domain"
	"github.com/tubeworks/media-api/internal/core/ports"
)

const userCollection = "users"

// UserRepository is the MongoDB-backed credential store.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(userCollection)}
}

type mongoUser struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Username     string               `bson:"username"`
	Email        string               `bson:"email"`
	FullName     string               `bson:"fullname"`
	Avatar       string               `bson:"avatar,omitempty"`
	CoverImage   string               `bson:"cover_image,omitempty"`
	PasswordHash string               `bson:"password_hash"`
	RefreshToken string               `bson:"refresh_token,omitempty"`
	WatchHistory []primitive.ObjectID `bson:"watch_history,omitempty"`
	CreatedAt    int64                `bson:"created_at"`
	UpdatedAt    int64                `bson:"updated_at"`
}

func (mu mongoUser) toDomain() *domain.User {
	history := make([]string, 0, len(mu.WatchHistory))
	for _, id := range mu.WatchHistory {
		history = append(history, id.Hex())
	}
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		Email:        mu.Email,
		FullName:     mu.FullName,
		Avatar:       mu.Avatar,
		CoverImage:   mu.CoverImage,
		PasswordHash: mu.PasswordHash,
		RefreshToken: mu.RefreshToken,
		WatchHistory: history,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		Username:     user.Username,
		Email:        user.Email,
		FullName:     user.FullName,
		Avatar:       user.Avatar,
		CoverImage:   user.CoverImage,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	return r.findByObjectID(ctx, id)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findByObjectID(ctx, oid)
}

func (r *UserRepository) findByObjectID(ctx context.Context, oid primitive.ObjectID) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// FindByUsernameOrEmail resolves an identifier against either unique field.
func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": domain.NormalizeUsername(identifier)},
		bson.M{"email": identifier},
	}}

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// UpdateRefreshToken overwrites the stored refresh token unconditionally.
// An empty token clears the field.
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id, token string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	var update bson.M
	if token == "" {
		update = bson.M{
			"$unset": bson.M{"refresh_token": ""},
			"$set":   bson.M{"updated_at": time.Now().Unix()},
		}
	} else {
		update = bson.M{"$set": bson.M{"refresh_token": token, "updated_at": time.Now().Unix()}}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ReplaceRefreshToken swaps the stored refresh token only when it still
// equals current. The filter doubles as the compare of the compare-and-swap:
// a concurrent rotation that already replaced the value leaves nothing to
// match, and the loser gets domain.ErrInvalidCredentials.
func (r *UserRepository) ReplaceRefreshToken(ctx context.Context, id, current, next string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "refresh_token": current},
		bson.M{"$set": bson.M{"refresh_token": next, "updated_at": time.Now().Unix()}},
	)
	if err != nil {
		return fmt.Errorf("replace refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvalidCredentials
	}
	return nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"password_hash": hash, "updated_at": time.Now().Unix()}},
	)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, fields ports.ProfileUpdate) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	set := bson.M{"updated_at": time.Now().Unix()}
	if fields.FullName != nil {
		set["fullname"] = *fields.FullName
	}
	if fields.Email != nil {
		set["email"] = *fields.Email
	}
	if fields.Avatar != nil {
		set["avatar"] = *fields.Avatar
	}
	if fields.CoverImage != nil {
		set["cover_image"] = *fields.CoverImage
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.findByObjectID(ctx, oid)
}

// AppendWatchHistory adds the video once; $addToSet keeps the history free
// of duplicates without a read-modify-write.
func (r *UserRepository) AppendWatchHistory(ctx context.Context, id, videoID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	vid, err := primitive.ObjectIDFromHex(videoID)
	if err != nil {
		return domain.ErrVideoNotFound
	}

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$addToSet": bson.M{"watch_history": vid}},
	)
	if err != nil {
		return fmt.Errorf("append watch history: %w", err)
	}
	return nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
