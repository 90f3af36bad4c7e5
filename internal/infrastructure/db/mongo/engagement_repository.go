package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tubeworks/media-api/internal/core/domain"
)

const likeCollection = "likes"
const commentCollection = "comments"

type LikeRepository struct {
	coll *mongo.Collection
}

func NewLikeRepository(db *mongo.Database) *LikeRepository {
	return &LikeRepository{coll: db.Collection(likeCollection)}
}

type mongoLike struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Video     primitive.ObjectID `bson:"video"`
	LikedBy   primitive.ObjectID `bson:"liked_by"`
	CreatedAt int64              `bson:"created_at"`
}

func (r *LikeRepository) Find(ctx context.Context, videoID, userID string) (*domain.Like, error) {
	vid, err := primitive.ObjectIDFromHex(videoID)
	if err != nil {
		return nil, domain.ErrVideoNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var ml mongoLike
	if err := r.coll.FindOne(ctx, bson.M{"video": vid, "liked_by": uid}).Decode(&ml); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("find like: %w", err)
	}

	return &domain.Like{
		ID:        ml.ID.Hex(),
		VideoID:   ml.Video.Hex(),
		LikedBy:   ml.LikedBy.Hex(),
		CreatedAt: unixToTime(ml.CreatedAt),
	}, nil
}

func (r *LikeRepository) Create(ctx context.Context, like *domain.Like) error {
	vid, err := primitive.ObjectIDFromHex(like.VideoID)
	if err != nil {
		return domain.ErrVideoNotFound
	}
	uid, err := primitive.ObjectIDFromHex(like.LikedBy)
	if err != nil {
		return domain.ErrUserNotFound
	}

	_, err = r.coll.InsertOne(ctx, mongoLike{
		Video:     vid,
		LikedBy:   uid,
		CreatedAt: like.CreatedAt.Unix(),
	})
	if err != nil {
		// Unique index on (video, liked_by): concurrent double-tap, the
		// like already exists, nothing to do.
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return nil
}

func (r *LikeRepository) CountForVideo(ctx context.Context, videoID string) (int64, error) {
	vid, err := primitive.ObjectIDFromHex(videoID)
	if err != nil {
		return 0, domain.ErrVideoNotFound
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"video": vid})
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return n, nil
}

type CommentRepository struct {
	coll *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{coll: db.Collection(commentCollection)}
}

type mongoComment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Video     primitive.ObjectID `bson:"video"`
	Owner     primitive.ObjectID `bson:"owner"`
	Content   string             `bson:"content"`
	CreatedAt int64              `bson:"created_at"`
}

func (mc mongoComment) toDomain() domain.Comment {
	return domain.Comment{
		ID:        mc.ID.Hex(),
		VideoID:   mc.Video.Hex(),
		OwnerID:   mc.Owner.Hex(),
		Content:   mc.Content,
		CreatedAt: unixToTime(mc.CreatedAt),
	}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	vid, err := primitive.ObjectIDFromHex(comment.VideoID)
	if err != nil {
		return nil, domain.ErrVideoNotFound
	}
	owner, err := primitive.ObjectIDFromHex(comment.OwnerID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	doc := mongoComment{
		Video:     vid,
		Owner:     owner,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	created := doc.toDomain()
	return &created, nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCommentNotFound
	}

	var mc mongoComment
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	comment := mc.toDomain()
	return &comment, nil
}

func (r *CommentRepository) ListForVideo(ctx context.Context, videoID string, page, limit int) ([]domain.Comment, error) {
	vid, err := primitive.ObjectIDFromHex(videoID)
	if err != nil {
		return nil, domain.ErrVideoNotFound
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"video": vid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer cursor.Close(ctx)

	comments := make([]domain.Comment, 0, limit)
	for cursor.Next(ctx) {
		var mc mongoComment
		if err := cursor.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode comment: %w", err)
		}
		comments = append(comments, mc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCommentNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}
