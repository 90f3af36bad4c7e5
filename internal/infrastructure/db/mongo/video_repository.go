package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tubeworks/media-api/internal/core/domain"
	"github.com/tubeworks/media-api/internal/core/ports"
)

const videoCollection = "videos"

type VideoRepository struct {
	coll *mongo.Collection
}

func NewVideoRepository(db *mongo.Database) *VideoRepository {
	return &VideoRepository{coll: db.Collection(videoCollection)}
}

type mongoVideo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Owner       primitive.ObjectID `bson:"owner"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	VideoFile   string             `bson:"video_file"`
	Thumbnail   string             `bson:"thumbnail"`
	Duration    float64            `bson:"duration"`
	Views       int64              `bson:"views"`
	IsPublished bool               `bson:"is_published"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

func (mv mongoVideo) toDomain() domain.Video {
	return domain.Video{
		ID:          mv.ID.Hex(),
		OwnerID:     mv.Owner.Hex(),
		Title:       mv.Title,
		Description: mv.Description,
		VideoFile:   mv.VideoFile,
		Thumbnail:   mv.Thumbnail,
		Duration:    mv.Duration,
		Views:       mv.Views,
		IsPublished: mv.IsPublished,
		CreatedAt:   unixToTime(mv.CreatedAt),
		UpdatedAt:   unixToTime(mv.UpdatedAt),
	}
}

func (r *VideoRepository) Create(ctx context.Context, video *domain.Video) (*domain.Video, error) {
	owner, err := primitive.ObjectIDFromHex(video.OwnerID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	doc := mongoVideo{
		Owner:       owner,
		Title:       video.Title,
		Description: video.Description,
		VideoFile:   video.VideoFile,
		Thumbnail:   video.Thumbnail,
		Duration:    video.Duration,
		IsPublished: video.IsPublished,
		CreatedAt:   video.CreatedAt.Unix(),
		UpdatedAt:   video.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert video: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	return r.findByObjectID(ctx, id)
}

func (r *VideoRepository) FindByID(ctx context.Context, id string) (*domain.Video, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrVideoNotFound
	}
	return r.findByObjectID(ctx, oid)
}

func (r *VideoRepository) findByObjectID(ctx context.Context, oid primitive.ObjectID) (*domain.Video, error) {
	var mv mongoVideo
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mv); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrVideoNotFound
		}
		return nil, fmt.Errorf("find video: %w", err)
	}
	video := mv.toDomain()
	return &video, nil
}

func (r *VideoRepository) List(ctx context.Context, filter ports.VideoFilter) ([]domain.Video, error) {
	query := bson.M{}
	if filter.OnlyPublished {
		query["is_published"] = true
	}
	if filter.OwnerID != "" {
		owner, err := primitive.ObjectIDFromHex(filter.OwnerID)
		if err != nil {
			return nil, domain.ErrUserNotFound
		}
		query["owner"] = owner
	}
	if filter.Query != "" {
		pattern := primitive.Regex{Pattern: filter.Query, Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer cursor.Close(ctx)

	videos := make([]domain.Video, 0, filter.Limit)
	for cursor.Next(ctx) {
		var mv mongoVideo
		if err := cursor.Decode(&mv); err != nil {
			return nil, fmt.Errorf("decode video: %w", err)
		}
		videos = append(videos, mv.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

func (r *VideoRepository) Update(ctx context.Context, id string, fields ports.VideoUpdate) (*domain.Video, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrVideoNotFound
	}

	set := bson.M{"updated_at": time.Now().Unix()}
	if fields.Title != nil {
		set["title"] = *fields.Title
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.Thumbnail != nil {
		set["thumbnail"] = *fields.Thumbnail
	}
	if fields.IsPublished != nil {
		set["is_published"] = *fields.IsPublished
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update video: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrVideoNotFound
	}
	return r.findByObjectID(ctx, oid)
}

func (r *VideoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrVideoNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrVideoNotFound
	}
	return nil
}

func (r *VideoRepository) IncrementViews(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrVideoNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVideoNotFound
	}
	return nil
}
