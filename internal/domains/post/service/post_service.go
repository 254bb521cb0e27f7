package service

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/group"
	"blog-backend/internal/domains/post"
	"blog-backend/internal/infrastructure/queue"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/internal/shared"
)

const thumbnailName = "thumbnail.jpg"

type postService struct {
	repo    post.Repository
	groups  group.Repository
	storage storage.ObjectStorage
	images  *storage.ImageProcessor
	queue   queue.Enqueuer
}

// NewPostService wires the post service. A nil queue makes image jobs run
// inline, which is what the admin CLI and tests rely on.
func NewPostService(
	repo post.Repository,
	groups group.Repository,
	objects storage.ObjectStorage,
	images *storage.ImageProcessor,
	q queue.Enqueuer,
) post.Service {
	return &postService{
		repo:    repo,
		groups:  groups,
		storage: objects,
		images:  images,
		queue:   q,
	}
}

func (s *postService) Create(ctx context.Context, author post.Author, req post.CreatePostRequest) (*post.Post, error) {
	req.Normalize()

	// Collect every field error before giving up so the form shows them together.
	errs := validation.Errors{}
	if err := req.Validate(); err != nil {
		var verrs validation.Errors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		for field, ferr := range verrs {
			errs[field] = ferr
		}
	}

	groupID, err := s.checkGroup(ctx, req.GroupID, req.GroupMalformed)
	if err != nil {
		if !errors.Is(err, post.ErrInvalidGroup) {
			return nil, err
		}
		errs["group"] = post.ErrInvalidGroup
	}

	var format, contentType string
	if req.Image != nil {
		err = s.images.CheckSize(req.Image.Size)
		if err == nil {
			format, contentType, err = s.images.ValidateImage(req.Image.Data)
		}
		switch {
		case errors.Is(err, storage.ErrImageTooLarge):
			errs["image"] = err
		case err != nil:
			errs["image"] = post.ErrInvalidImage
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	p := &post.Post{
		Text:    req.Text,
		Author:  author,
		GroupID: groupID,
	}

	if req.Image != nil {
		key := fmt.Sprintf("posts/%s/original%s", uuid.NewString(), storage.Extension(format))
		url, err := s.storage.Upload(ctx, key, req.Image.Data, contentType)
		if err != nil {
			return nil, fmt.Errorf("upload post image: %w", err)
		}
		p.Image = &post.Image{Key: key, URL: url}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if p.Image != nil {
			if derr := s.storage.Delete(ctx, p.Image.Key); derr != nil {
				log.Warn().Err(derr).Str("key", p.Image.Key).Msg("Failed to remove orphaned post image")
			}
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	log.Info().Int64("post_id", p.ID).Str("author", author.Username).Msg("Post created")

	if p.Image != nil {
		s.scheduleThumbnail(ctx, p)
	}

	return s.repo.FindByID(ctx, p.ID)
}

func (s *postService) Get(ctx context.Context, username string, postID int64) (*post.Post, error) {
	p, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.Author.Username != username {
		return nil, post.ErrPostNotFound
	}
	return p, nil
}

func (s *postService) GetForEdit(ctx context.Context, editorID uuid.UUID, username string, postID int64) (*post.Post, error) {
	p, err := s.Get(ctx, username, postID)
	if err != nil {
		return nil, err
	}
	if p.Author.ID != editorID {
		return nil, post.ErrNotPostAuthor
	}
	return p, nil
}

func (s *postService) Update(
	ctx context.Context,
	editorID uuid.UUID,
	username string,
	postID int64,
	req post.UpdatePostRequest,
) (*post.Post, error) {
	p, err := s.GetForEdit(ctx, editorID, username, postID)
	if err != nil {
		return nil, err
	}

	req.Normalize()
	errs := validation.Errors{}
	if err := req.Validate(); err != nil {
		var verrs validation.Errors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		for field, ferr := range verrs {
			errs[field] = ferr
		}
	}

	var groupID *int64
	if req.GroupSet {
		groupID, err = s.checkGroup(ctx, req.GroupID, req.GroupMalformed)
		if err != nil {
			if !errors.Is(err, post.ErrInvalidGroup) {
				return nil, err
			}
			errs["group"] = post.ErrInvalidGroup
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	if req.Text != nil {
		p.Text = *req.Text
	}
	if req.GroupSet {
		p.GroupID = groupID
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update post %d: %w", postID, err)
	}

	log.Info().Int64("post_id", postID).Msg("Post updated")
	return s.repo.FindByID(ctx, postID)
}

func (s *postService) Delete(ctx context.Context, postID int64) error {
	p, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		return err
	}
	log.Info().Int64("post_id", postID).Msg("Post deleted")

	prefix := p.ImagePrefix()
	if prefix == "" {
		return nil
	}

	if s.queue == nil {
		return s.DeleteImages(ctx, prefix)
	}

	payload := shared.DeletePostImagesPayload{PostID: postID, Prefix: prefix}
	if _, err := queue.EnqueueJSON(s.queue, shared.TypeDeletePostImages, payload,
		asynq.Queue(shared.QueueLow), asynq.MaxRetry(5)); err != nil {
		log.Error().Err(err).Int64("post_id", postID).Msg("Failed to enqueue image deletion")
	}
	return nil
}

// GenerateThumbnail stores a thumbnail next to the original image. A post
// deleted in the meantime is not an error; its blobs are cleaned up instead.
func (s *postService) GenerateThumbnail(ctx context.Context, postID int64, imageKey string) error {
	data, err := s.storage.Download(ctx, imageKey)
	if err != nil {
		return fmt.Errorf("download %s: %w", imageKey, err)
	}

	thumb, err := s.images.Thumbnail(data)
	if err != nil {
		return fmt.Errorf("thumbnail %s: %w", imageKey, err)
	}

	thumbKey := post.ImagePrefixOf(imageKey) + thumbnailName
	url, err := s.storage.Upload(ctx, thumbKey, thumb, "image/jpeg")
	if err != nil {
		return fmt.Errorf("upload thumbnail: %w", err)
	}

	if err := s.repo.SetThumbnail(ctx, postID, url); err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			log.Warn().Int64("post_id", postID).Msg("Post gone before thumbnail was stored")
			return s.DeleteImages(ctx, post.ImagePrefixOf(imageKey))
		}
		return err
	}

	log.Info().Int64("post_id", postID).Str("key", thumbKey).Msg("Post thumbnail generated")
	return nil
}

func (s *postService) DeleteImages(ctx context.Context, prefix string) error {
	if prefix == "" || prefix == "./" || prefix == "/" {
		return fmt.Errorf("refusing to delete images under %q", prefix)
	}
	if err := s.storage.DeleteByPrefix(ctx, prefix); err != nil {
		return fmt.Errorf("delete images under %s: %w", prefix, err)
	}
	return nil
}

func (s *postService) scheduleThumbnail(ctx context.Context, p *post.Post) {
	if s.queue == nil {
		if err := s.GenerateThumbnail(ctx, p.ID, p.Image.Key); err != nil {
			log.Warn().Err(err).Int64("post_id", p.ID).Msg("Inline thumbnail generation failed")
		}
		return
	}

	payload := shared.ProcessPostImagePayload{PostID: p.ID, ImageKey: p.Image.Key}
	if _, err := queue.EnqueueJSON(s.queue, shared.TypeProcessPostImage, payload,
		asynq.Queue(shared.QueueDefault), asynq.MaxRetry(3)); err != nil {
		log.Error().Err(err).Int64("post_id", p.ID).Msg("Failed to enqueue thumbnail job")
	}
}

// checkGroup resolves an optional group id. Unknown ids become ErrInvalidGroup.
// checkGroup resolves the submitted group. malformed marks a form value that
// did not parse as an id.
func (s *postService) checkGroup(ctx context.Context, id *int64, malformed bool) (*int64, error) {
	if malformed {
		return nil, post.ErrInvalidGroup
	}
	if id == nil {
		return nil, nil
	}
	g, err := s.groups.FindByID(ctx, *id)
	if err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			return nil, post.ErrInvalidGroup
		}
		return nil, fmt.Errorf("check group: %w", err)
	}
	return &g.ID, nil
}
