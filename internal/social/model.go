package social

import "time"

// PostStatus is the publication state of a post draft.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
)

// Post is a social-media post draft. Publication itself happens outside the
// system; marking a post published records that it went out.
type Post struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Caption   string     `json:"caption"`
	ImageURL  string     `json:"image_url"`
	Status    PostStatus `json:"status"`
	CreatedBy int64      `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CreatePostRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Body     string `json:"body"`
	Caption  string `json:"caption" validate:"max=2000"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

type UpdatePostRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Body     *string `json:"body,omitempty"`
	Caption  *string `json:"caption,omitempty" validate:"omitempty,max=2000"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type SuggestCaptionRequest struct {
	Topic string `json:"topic" validate:"required,max=500"`
	Tone  string `json:"tone" validate:"omitempty,max=100"`
}

type ListPostsRequest struct {
	Status *PostStatus `json:"status,omitempty"`
	Limit  int         `json:"limit" validate:"gte=0,lte=1000"`
	Offset int         `json:"offset" validate:"gte=0"`
}
