package types

// Playlist 播放列表/课程，isSeries为true时按季/集组织
type Playlist struct {
	ID               string `json:"id" db:"id"`
	CreatorID        string `json:"creator_id" db:"creator_id"`
	Title            string `json:"title" db:"title"`
	Description      string `json:"description" db:"description"`
	ThumbnailImageID string `json:"thumbnail_image_id" db:"thumbnail_image_id"` // 封面文件ID，可为空
	IsSeries         bool   `json:"is_series" db:"is_series"`
	Price            int64  `json:"price" db:"price"` // 整单价格，最小货币单位
	Currency         string `json:"currency" db:"currency"`
	UpdatedAt        int64  `json:"updated_at" db:"updated_at"`
	CreatedAt        int64  `json:"created_at" db:"created_at"`
}

type PlaylistEpisode struct {
	ID            string `json:"id" db:"id"`
	PlaylistID    string `json:"playlist_id" db:"playlist_id"`
	ContentID     string `json:"content_id" db:"content_id"`
	EpisodeOrder  int    `json:"episode_order" db:"episode_order"` // 列表内顺序，从1开始
	SeasonNumber  int    `json:"season_number" db:"season_number"`
	EpisodeNumber int    `json:"episode_number" db:"episode_number"`
	Title         string `json:"title" db:"title"` // 单集标题，可为空
	AddedAt       int64  `json:"added_at" db:"added_at"`
}
