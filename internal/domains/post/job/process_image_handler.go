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

// ProcessImageHandler generates the thumbnail of a freshly uploaded post image.
type ProcessImageHandler struct {
	posts post.Service
}

func NewProcessImageHandler(posts post.Service) *ProcessImageHandler {
	return &ProcessImageHandler{posts: posts}
}

func (h *ProcessImageHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ProcessPostImagePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ProcessPostImage payload")
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Int64("post_id", payload.PostID).
		Str("image_key", payload.ImageKey).
		Msg("Processing post image")

	if err := h.posts.GenerateThumbnail(ctx, payload.PostID, payload.ImageKey); err != nil {
		log.Error().
			Err(err).
			Int64("post_id", payload.PostID).
			Msg("Failed to process post image")
		return fmt.Errorf("process image: %w", err)
	}

	return nil
}
