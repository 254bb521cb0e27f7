package shared

const (
	TypeProcessPostImage = "post:process_image"
	TypeDeletePostImages = "post:delete_images"

	QueueDefault = "default"
	QueueLow     = "low"
)

type ProcessPostImagePayload struct {
	PostID   int64  `json:"post_id"`
	ImageKey string `json:"image_key"`
}

type DeletePostImagesPayload struct {
	PostID int64  `json:"post_id"`
	Prefix string `json:"prefix"`
}
