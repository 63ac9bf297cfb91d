package domain

import "time"

type CommunityCategory string

const (
	CommunityNews    CommunityCategory = "news"
	CommunityEvent   CommunityCategory = "event"
	CommunityGallery CommunityCategory = "gallery"
)

// Community is one community board post. MainPath is the object-store
// prefix all of the post's images live under; it is derived once from the
// creation date and never recomputed. FileCount mirrors how many
// sequentially numbered objects exist under MainPath.
type Community struct {
	ID        int64             `json:"id"`
	Title     string            `json:"title" validate:"required"`
	Content   string            `json:"content,omitempty" gorm:"type:text"`
	Category  CommunityCategory `json:"category"`
	MainPath  string            `json:"main_path,omitempty"`
	FileCount int               `json:"file_count"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
