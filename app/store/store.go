package store

import (
	"context"

	"github.com/modlearn/modlearn/pkg/sqlstore"
	"github.com/modlearn/modlearn/pkg/types"
)

// Provider 数据层入口，事务与各实体store都从这里拿，
// 测试中可以用内存实现替换
type Provider interface {
	Transaction(ctx context.Context, next func(ctx context.Context) error) error

	UserStore() UserStore
	AccessTokenStore() AccessTokenStore
	FileStore() FileStore
	StorageStore() StorageStore
	CategoryStore() CategoryStore
	GenreStore() GenreStore
	ContentStore() ContentStore
	ContentCategoryStore() ContentCategoryStore
	ContentGenreStore() ContentGenreStore
	PlaylistStore() PlaylistStore
	PlaylistEpisodeStore() PlaylistEpisodeStore
	CartStore() CartStore
	CartItemStore() CartItemStore
	OrderStore() OrderStore
	OrderItemStore() OrderItemStore
	PaymentStore() PaymentStore
	PurchaseStore() PurchaseStore
}

type UserStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.User) error
	GetUser(ctx context.Context, id string) (*types.User, error)
	GetByEmail(ctx context.Context, email string) (*types.User, error)
	UpdateProfile(ctx context.Context, id, name, avatar string) error
	UpdateRole(ctx context.Context, id, role string) error
	ListUsers(ctx context.Context, opts types.ListUserOptions, page, pageSize uint64) ([]types.User, error)
	Total(ctx context.Context, opts types.ListUserOptions) (int64, error)
}

type AccessTokenStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.AccessToken) error
	GetAccessToken(ctx context.Context, token string) (*types.AccessToken, error)
	Delete(ctx context.Context, token string) error
	ClearUserTokens(ctx context.Context, userID string) error
}

// FileStore 文件元数据，只做软删除
type FileStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.File) error
	GetFile(ctx context.Context, id string) (*types.File, error)
	// MarkDeleted 条件更新，仅当记录未删除时生效，返回是否真的改到了行
	MarkDeleted(ctx context.Context, id string, deletedAt int64) (bool, error)
	ListFiles(ctx context.Context, uploaderID string, page, pageSize uint64) ([]types.File, error)
}

type StorageStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Storage) error
	GetByFileID(ctx context.Context, fileID string) (*types.Storage, error)
}

type CategoryStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Category) error
	Get(ctx context.Context, id string) (*types.Category, error)
	GetBySlug(ctx context.Context, slug string) (*types.Category, error)
	List(ctx context.Context) ([]types.Category, error)
	Delete(ctx context.Context, id string) error
}

type GenreStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Genre) error
	Get(ctx context.Context, id string) (*types.Genre, error)
	GetBySlug(ctx context.Context, slug string) (*types.Genre, error)
	List(ctx context.Context) ([]types.Genre, error)
	Delete(ctx context.Context, id string) error
}

type ContentStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Content) error
	GetContent(ctx context.Context, id string) (*types.Content, error)
	Update(ctx context.Context, id, updatedBy string, data types.UpdateContentArgs) error
	UpdatePublish(ctx context.Context, id string, published bool, publishedAt int64) error
	IncrViewCount(ctx context.Context, id string) error
	ListContents(ctx context.Context, opts types.ListContentOptions, page, pageSize uint64) ([]types.Content, error)
	Total(ctx context.Context, opts types.ListContentOptions) (int64, error)
	Delete(ctx context.Context, id string) error
}

type ContentCategoryStore interface {
	sqlstore.SqlCommons
	Bind(ctx context.Context, data types.ContentCategory) error
	Unbind(ctx context.Context, contentID, categoryID string) error
	ListByContent(ctx context.Context, contentID string) ([]types.ContentCategory, error)
}

type ContentGenreStore interface {
	sqlstore.SqlCommons
	Bind(ctx context.Context, data types.ContentGenre) error
	Unbind(ctx context.Context, contentID, genreID string) error
	ListByContent(ctx context.Context, contentID string) ([]types.ContentGenre, error)
}

type PlaylistStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Playlist) error
	Get(ctx context.Context, id string) (*types.Playlist, error)
	Update(ctx context.Context, id string, title, description, thumbnailImageID string) error
	Delete(ctx context.Context, id string) error
	ListByCreator(ctx context.Context, creatorID string, page, pageSize uint64) ([]types.Playlist, error)
}

type PlaylistEpisodeStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.PlaylistEpisode) error
	Delete(ctx context.Context, playlistID, id string) error
	DeleteAll(ctx context.Context, playlistID string) error
	ListByPlaylist(ctx context.Context, playlistID string) ([]types.PlaylistEpisode, error)
	GetByOrder(ctx context.Context, playlistID string, episodeOrder int) (*types.PlaylistEpisode, error)
}

type CartStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Cart) error
	GetByUserID(ctx context.Context, userID string) (*types.Cart, error)
	Touch(ctx context.Context, id string, updatedAt int64) error
}

type CartItemStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.CartItem) error
	Delete(ctx context.Context, cartID, id string) error
	DeleteAll(ctx context.Context, cartID string) error
	ListByCart(ctx context.Context, cartID string) ([]types.CartItem, error)
	GetByTarget(ctx context.Context, cartID string, itemType types.CartItemType, targetID string) (*types.CartItem, error)
}

type OrderStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Order) error
	Get(ctx context.Context, id string) (*types.Order, error)
	// UpdateStatus 条件流转，仅当当前状态为 from 时生效
	UpdateStatus(ctx context.Context, id string, from, to types.OrderStatus, updatedAt int64) (bool, error)
	ListByUser(ctx context.Context, userID string, page, pageSize uint64) ([]types.Order, error)
	Total(ctx context.Context, userID string) (int64, error)
	ListExpiredPending(ctx context.Context, before int64, limit uint64) ([]types.Order, error)
}

type OrderItemStore interface {
	sqlstore.SqlCommons
	BatchCreate(ctx context.Context, datas []types.OrderItem) error
	ListByOrder(ctx context.Context, orderID string) ([]types.OrderItem, error)
}

type PaymentStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Payment) error
	GetByProviderTx(ctx context.Context, provider, providerTransactionID string) (*types.Payment, error)
	ListByOrder(ctx context.Context, orderID string) ([]types.Payment, error)
}

type PurchaseStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Purchase) error
	HasPurchased(ctx context.Context, userID string, itemType types.CartItemType, targetID string) (bool, error)
	ListByUser(ctx context.Context, userID string, page, pageSize uint64) ([]types.Purchase, error)
}
