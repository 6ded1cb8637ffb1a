package instruction

import "time"

// Material is a training material record. The file itself lives in external
// object storage; only its URL and checksum are recorded here.
type Material struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	AttachmentURL string    `json:"attachment_url"`
	Checksum      string    `json:"checksum"`
	UploadedBy    int64     `json:"uploaded_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateMaterialRequest struct {
	Title         string `json:"title" validate:"required,max=200"`
	Category      string `json:"category" validate:"required,max=100"`
	Description   string `json:"description"`
	AttachmentURL string `json:"attachment_url" validate:"omitempty,url"`
	Checksum      string `json:"checksum" validate:"omitempty,max=128"`
}

type UpdateMaterialRequest struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Category      *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Description   *string `json:"description,omitempty"`
	AttachmentURL *string `json:"attachment_url,omitempty" validate:"omitempty,url"`
	Checksum      *string `json:"checksum,omitempty" validate:"omitempty,max=128"`
}

type ListMaterialsRequest struct {
	Category *string `json:"category,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
