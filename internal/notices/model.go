package notices

import "time"

// Notice is an entry on the unit notice board.
type Notice struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Pinned    bool       `json:"pinned"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	AuthorID  int64      `json:"author_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Acknowledgement records that a user has read a notice.
type Acknowledgement struct {
	NoticeID int64     `json:"notice_id"`
	UserID   int64     `json:"user_id"`
	AckedAt  time.Time `json:"acked_at"`
}

type CreateNoticeRequest struct {
	Title     string     `json:"title" validate:"required,max=200"`
	Body      string     `json:"body" validate:"required"`
	Pinned    bool       `json:"pinned"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type UpdateNoticeRequest struct {
	Title     *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Body      *string    `json:"body,omitempty"`
	Pinned    *bool      `json:"pinned,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type ListNoticesRequest struct {
	IncludeExpired bool `json:"include_expired"`
	Limit          int  `json:"limit" validate:"gte=0,lte=1000"`
	Offset         int  `json:"offset" validate:"gte=0"`
}
