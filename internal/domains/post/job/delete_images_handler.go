package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/post"
	"blog-backend/internal/shared"
)

// DeleteImagesHandler removes every blob stored for a deleted post.
type DeleteImagesHandler struct {
	posts post.Service
}

func NewDeleteImagesHandler(posts post.Service) *DeleteImagesHandler {
	return &DeleteImagesHandler{posts: posts}
}

func (h *DeleteImagesHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DeletePostImagesPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeletePostImages payload")
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Int64("post_id", payload.PostID).
		Str("prefix", payload.Prefix).
		Msg("Deleting post images")

	if err := h.posts.DeleteImages(ctx, payload.Prefix); err != nil {
		log.Error().
			Err(err).
			Int64("post_id", payload.PostID).
			Msg("Failed to delete post images")
		return fmt.Errorf("delete images: %w", err)
	}

	log.Info().Int64("post_id", payload.PostID).Msg("Post images deleted")
	return nil
}
