package types

type ContentType string

const (
	CONTENT_TYPE_MOVIE   ContentType = "MOVIE"
	CONTENT_TYPE_SERIES  ContentType = "SERIES"
	CONTENT_TYPE_EPISODE ContentType = "EPISODE"
	CONTENT_TYPE_MUSIC   ContentType = "MUSIC"
)

func (t ContentType) Valid() bool {
	switch t {
	case CONTENT_TYPE_MOVIE, CONTENT_TYPE_SERIES, CONTENT_TYPE_EPISODE, CONTENT_TYPE_MUSIC:
		return true
	}
	return false
}

// Content 内容条目，视频/音频的目录元数据，字节本体在 File
type Content struct {
	ID               string      `json:"id" db:"id"`
	Title            string      `json:"title" db:"title"`
	Description      string      `json:"description" db:"description"`
	ContentType      ContentType `json:"content_type" db:"content_type"`
	ThumbnailImageID string      `json:"thumbnail_image_id" db:"thumbnail_image_id"` // 封面文件ID，可为空
	FileID           string      `json:"file_id" db:"file_id"`                       // 主文件ID，可为空
	Duration         int64       `json:"duration" db:"duration"`                     // 时长，单位秒
	Price            int64       `json:"price" db:"price"`                           // 价格，最小货币单位，0为免费
	Currency         string      `json:"currency" db:"currency"`
	IsAvailable      bool        `json:"is_available" db:"is_available"`
	IsPublished      bool        `json:"is_published" db:"is_published"`
	PublishedAt      int64       `json:"published_at" db:"published_at"`
	ReleaseDate      string      `json:"release_date" db:"release_date"` // YYYY-MM-DD
	ViewCount        int64       `json:"view_count" db:"view_count"`
	UpdatedBy        string      `json:"updated_by" db:"updated_by"` // 最后修改人
	UpdatedAt        int64       `json:"updated_at" db:"updated_at"`
	CreatedAt        int64       `json:"created_at" db:"created_at"`
}

// UpdateContentArgs 局部更新，nil字段不变
type UpdateContentArgs struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	ThumbnailImageID *string `json:"thumbnail_image_id"`
	FileID           *string `json:"file_id"`
	Duration         *int64  `json:"duration"`
	Price            *int64  `json:"price"`
	Currency         *string `json:"currency"`
	IsAvailable      *bool   `json:"is_available"`
	ReleaseDate      *string `json:"release_date"`
}

type ListContentOptions struct {
	ContentType ContentType
	Published   *bool
	CategoryID  string
	GenreID     string
	Keywords    string
}

// Category 内容分类，slug唯一
type Category struct {
	ID          string `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Slug        string `json:"slug" db:"slug"`
}

type Genre struct {
	ID          string `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Slug        string `json:"slug" db:"slug"`
}

type ContentCategory struct {
	ID         string `json:"id" db:"id"`
	ContentID  string `json:"content_id" db:"content_id"`
	CategoryID string `json:"category_id" db:"category_id"`
}

type ContentGenre struct {
	ID        string `json:"id" db:"id"`
	ContentID string `json:"content_id" db:"content_id"`
	GenreID   string `json:"genre_id" db:"genre_id"`
}
