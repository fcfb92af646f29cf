package v1

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/modlearn/modlearn/app/core"
	"github.com/modlearn/modlearn/app/store"
	"github.com/modlearn/modlearn/pkg/objectstorage/s3"
	"github.com/modlearn/modlearn/pkg/security"
	"github.com/modlearn/modlearn/pkg/types"
	"github.com/modlearn/modlearn/pkg/utils"
)

func init() {
	utils.SetupIDWorker(1)
}

func newTestCore(provider store.Provider, storage core.FileStorage) *core.Core {
	cfg := core.CoreConfig{
		ObjectStorage: core.ObjectStorageDriver{
			Driver: "s3",
			S3:     &core.S3Config{Bucket: "modlearn-media"},
		},
	}
	return core.NewWith(cfg, provider, storage)
}

func ctxWithUser(userID, role string) context.Context {
	claims := security.NewTokenClaims(userID, role, 0)
	return context.WithValue(context.Background(), TOKEN_CONTEXT_KEY, claims)
}

// memData 内存数据集，事务回滚通过整体快照实现
type memData struct {
	users     map[string]types.User
	tokens    map[string]types.AccessToken
	files     map[string]types.File
	storages  map[string]types.Storage // key: file_id
	categorys map[string]types.Category
	genres    map[string]types.Genre
	contents  map[string]types.Content
	ccBinds   []types.ContentCategory
	cgBinds   []types.ContentGenre
	playlists map[string]types.Playlist
	episodes  map[string]types.PlaylistEpisode
	carts     map[string]types.Cart // key: user_id
	cartItems map[string]types.CartItem
	orders    map[string]types.Order
	orderItms []types.OrderItem
	payments  map[string]types.Payment
	purchases []types.Purchase
}

func newMemData() *memData {
	return &memData{
		users:     map[string]types.User{},
		tokens:    map[string]types.AccessToken{},
		files:     map[string]types.File{},
		storages:  map[string]types.Storage{},
		categorys: map[string]types.Category{},
		genres:    map[string]types.Genre{},
		contents:  map[string]types.Content{},
		playlists: map[string]types.Playlist{},
		episodes:  map[string]types.PlaylistEpisode{},
		carts:     map[string]types.Cart{},
		cartItems: map[string]types.CartItem{},
		orders:    map[string]types.Order{},
		payments:  map[string]types.Payment{},
	}
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (d *memData) clone() *memData {
	return &memData{
		users:     cloneMap(d.users),
		tokens:    cloneMap(d.tokens),
		files:     cloneMap(d.files),
		storages:  cloneMap(d.storages),
		categorys: cloneMap(d.categorys),
		genres:    cloneMap(d.genres),
		contents:  cloneMap(d.contents),
		ccBinds:   append([]types.ContentCategory(nil), d.ccBinds...),
		cgBinds:   append([]types.ContentGenre(nil), d.cgBinds...),
		playlists: cloneMap(d.playlists),
		episodes:  cloneMap(d.episodes),
		carts:     cloneMap(d.carts),
		cartItems: cloneMap(d.cartItems),
		orders:    cloneMap(d.orders),
		orderItms: append([]types.OrderItem(nil), d.orderItms...),
		payments:  cloneMap(d.payments),
		purchases: append([]types.Purchase(nil), d.purchases...),
	}
}

type memTxKey struct{}

// memProvider store.Provider 的内存实现，单测专用
type memProvider struct {
	mu   sync.Mutex
	data *memData

	orderUpdateStatusErr error
}

func newMemProvider() *memProvider {
	return &memProvider{data: newMemData()}
}

func (p *memProvider) Transaction(ctx context.Context, next func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return next(ctx)
	}

	p.mu.Lock()
	snapshot := p.data.clone()
	p.mu.Unlock()

	err := next(context.WithValue(ctx, memTxKey{}, true))
	if err != nil {
		p.mu.Lock()
		p.data = snapshot
		p.mu.Unlock()
	}
	return err
}

type memCommons struct{}

func (memCommons) GetTable(...interface{}) string { return "" }

func (p *memProvider) UserStore() store.UserStore                       { return &memUserStore{p: p} }
func (p *memProvider) AccessTokenStore() store.AccessTokenStore         { return &memTokenStore{p: p} }
func (p *memProvider) FileStore() store.FileStore                       { return &memFileStore{p: p} }
func (p *memProvider) StorageStore() store.StorageStore                 { return &memStorageStore{p: p} }
func (p *memProvider) CategoryStore() store.CategoryStore               { return &memCategoryStore{p: p} }
func (p *memProvider) GenreStore() store.GenreStore                     { return &memGenreStore{p: p} }
func (p *memProvider) ContentStore() store.ContentStore                 { return &memContentStore{p: p} }
func (p *memProvider) ContentCategoryStore() store.ContentCategoryStore { return &memCCStore{p: p} }
func (p *memProvider) ContentGenreStore() store.ContentGenreStore       { return &memCGStore{p: p} }
func (p *memProvider) PlaylistStore() store.PlaylistStore               { return &memPlaylistStore{p: p} }
func (p *memProvider) PlaylistEpisodeStore() store.PlaylistEpisodeStore { return &memEpisodeStore{p: p} }
func (p *memProvider) CartStore() store.CartStore                       { return &memCartStore{p: p} }
func (p *memProvider) CartItemStore() store.CartItemStore               { return &memCartItemStore{p: p} }
func (p *memProvider) OrderStore() store.OrderStore                     { return &memOrderStore{p: p} }
func (p *memProvider) OrderItemStore() store.OrderItemStore             { return &memOrderItemStore{p: p} }
func (p *memProvider) PaymentStore() store.PaymentStore                 { return &memPaymentStore{p: p} }
func (p *memProvider) PurchaseStore() store.PurchaseStore               { return &memPurchaseStore{p: p} }

type memUserStore struct {
	memCommons
	p *memProvider
}

func (s *memUserStore) Create(ctx context.Context, data types.User) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.data.users[data.ID] = data
	return nil
}

func (s *memUserStore) GetUser(ctx context.Context, id string) (*types.User, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if u, ok := s.p.data.users[id]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	for _, u := range s.p.data.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memUserStore) UpdateProfile(ctx context.Context, id, name, avatar string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	u, ok := s.p.data.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Name, u.Avatar = name, avatar
	s.p.data.users[id] = u
	return nil
}

func (s *memUserStore) UpdateRole(ctx context.Context, id, role string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	u, ok := s.p.data.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Role = role
	s.p.data.users[id] = u
	return nil
}

func (s *memUserStore) ListUsers(ctx context.Context, opts types.ListUserOptions, page, pageSize uint64) ([]types.User, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	var out []types.User
	for _, u := range s.p.data.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *memUserStore) Total(ctx context.Context, opts types.ListUserOptions) (int64, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	return int64(len(s.p.data.users)), nil
}

type memTokenStore struct {
	memCommons
	p *memProvider
}

func (s *memTokenStore) Create(ctx context.Context, data types.AccessToken) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.data.tokens[data.Token] = data
	return nil
}

func (s *memTokenStore) GetAccessToken(ctx context.Context, token string) (*types.AccessToken, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if t, ok := s.p.data.tokens[token]; ok {
		return &t, nil
	}
	return nil, sql.ErrNoRows
}

func (s *memTokenStore) Delete(ctx context.Context, token string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	delete(s.p.data.tokens, token)
	return nil
}

func (s *memTokenStore) ClearUserTokens(ctx context.Context, userID string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	for k, t := range s.p.data.tokens {
		if t.UserID == userID {
			delete(s.p.data.tokens, k)
		}
	}
	return nil
}

type memFileStore struct {
	memCommons
	p *memProvider
}

func (s *memFileStore) Create(ctx context.Context, data types.File) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if _, ok := s.p.data.files[data.ID]; ok {
		return fmt.Errorf("duplicate file id %s", data.ID)
	}
	s.p.data.files[data.ID] = data
	return nil
}

func (s *memFileStore) GetFile(ctx context.Context, id string) (*types.File, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if f, ok := s.p.data.files[id]; ok {
		return &f, nil
	}
	return nil, sql.ErrNoRows
}

func (s *memFileStore) MarkDeleted(ctx context.Context, id string, deletedAt int64) (bool, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	f, ok := s.p.data.files[id]
	if !ok || f.IsDeleted {
		return false, nil
	}
	f.IsDeleted = true
	f.DeletedAt = deletedAt
	s.p.data.files[id] = f
	return true, nil
}

func (s *memFileStore) ListFiles(ctx context.Context, uploaderID string, page, pageSize uint64) ([]types.File, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	var out []types.File
	for _, f := range s.p.data.files {
		if f.UploaderID == uploaderID && !f.IsDeleted {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memStorageStore struct {
	memCommons
	p *memProvider
}

func (s *memStorageStore) Create(ctx context.Context, data types.Storage) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if _, ok := s.p.data.storages[data.FileID]; ok {
		return fmt.Errorf("duplicate storage record for file %s", data.FileID)
	}
	s.p.data.storages[data.FileID] = data
	return nil
}

func (s *memStorageStore) GetByFileID(ctx context.Context, fileID string) (*types.Storage, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if v, ok := s.p.data.storages[fileID]; ok {
		return &v, nil
	}
	return nil, sql.ErrNoRows
}

type memCategoryStore struct {
	memCommons
	p *memProvider
}

func (s *memCategoryStore) Create(ctx context.Context, data types.Category) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.data.categorys[data.ID] = data
	return nil
}

func (s *memCategoryStore) Get(ctx context.Context, id string) (*types.Category, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if v, ok := s.p.data.categorys[id]; ok {
		return &v, nil
	}
	return nil, sql.ErrNoRows
}

func (s *memCategoryStore) GetBySlug(ctx context.Context, slug string) (*types.Category, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	for _, v := range s.p.data.categorys {
		if v.Slug == slug {
			return &v, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memCategoryStore) List(ctx context.Context) ([]types.Category, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	var out []types.Category
	for _, v := range s.p.data.categorys {
		out = append(out, v)
	}
	return out, nil
}

func (s *memCategoryStore) Delete(ctx context.Context, id string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	delete(s.p.data.categorys, id)
	return nil
}

type memGenreStore struct {
	memCommons
	p *memProvider
}

func (s *memGenreStore) Create(ctx context.Context, data types.Genre) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.data.genres[data.ID] = data
	return nil
}

func (s *memGenreStore) Get(ctx context.Context, id string) (*types.Genre, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if v, ok := s.p.data.genres[id]; ok {
		return &v, nil
	}
	return nil, sql.ErrNoRows
}

func (s *memGenreStore) GetBySlug(ctx context.Context, slug string) (*types.Genre, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	for _, v := range s.p.data.genres {
		if v.Slug == slug {
			return &v, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memGenreStore) List(ctx context.Context) ([]types.Genre, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	var out []types.Genre
	for _, v := range s.p.data.genres {
		out = append(out, v)
	}
	return out, nil
}

func (s *memGenreStore) Delete(ctx context.Context, id string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	delete(s.p.data.genres, id)
	return nil
}

type memContentStore struct {
	memCommons
	p *memProvider
}

func (s *memContentStore) Create(ctx context.Context, data types.Content) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.data.contents[data.ID] = data
	return nil
}

func (s *memContentStore) GetContent(ctx context.Context, id string) (*types.Content, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if v, ok := s.p.data.contents[id]; ok {
		return &v, nil
	}
	return nil, sql.ErrNoRows
}

func (s *memContentStore) Update(ctx context.Context, id, updatedBy string, data types.UpdateContentArgs) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	c, ok := s.p.data.contents[id]
	if !ok {
		return sql.ErrNoRows
	}
	if data.Title != nil {
		c.Title = *data.Title
	}
	if data.Description != nil {
		c.Description = *data.Description
	}
	if data.ThumbnailImageID != nil {
		c.ThumbnailImageID = *data.ThumbnailImageID
	}
	if data.FileID != nil {
		c.FileID = *data.FileID
	}
	if data.Duration != nil {
		c.Duration = *data.Duration
	}
	if data.Price != nil {
		c.Price = *data.Price
	}
	if data.Currency != nil {
		c.Currency = *data.Currency
	}
	if data.IsAvailable != nil {
		c.IsAvailable = *data.IsAvailable
	}
	if data.ReleaseDate != nil {
		c.ReleaseDate = *data.ReleaseDate
	}
	c.UpdatedBy = updatedBy
	s.p.data.contents[id] = c
	return nil
}

func (s *memContentStore) UpdatePublish(ctx context.Context, id string, published bool, publishedAt int64) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	c, ok := s.p.data.contents[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.IsPublished = published
	c.PublishedAt = publishedAt
	s.p.data.contents[id] = c
	return nil
}

func (s *memContentStore) IncrViewCount(ctx context.Context, id string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	c, ok := s.p.data.contents[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.ViewCount++
	s.p.data.contents[id] = c
	return nil
}

func (s *memContentStore) matches(c types.Content, opts types.ListContentOptions) bool {
	if opts.ContentType != "" && c.ContentType != opts.ContentType {
		return false
	}
	if opts.Published != nil && c.IsPublished != *opts.Published {
		return false
	}
	if opts.Keywords != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(opts.Keywords)) {
		return false
	}
	return true
}

func (s *memContentStore) ListContents(ctx context.Context, opts types.ListContentOptions, page, pageSize uint64) ([]types.Content, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	var out []types.Content
	for _, c := range s.p.data.contents {
		if s.matches(c, opts) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memContentStore) Total(ctx context.Context, opts types.ListContentOptions) (int64, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	var total int64
	for _, c := range s.p.data.contents {
		if s.matches(c, opts) {
			total++
		}
	}
	return total, nil
}

func (s *memContentStore) Delete(ctx context.Context, id string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	delete(s.p.data.contents, id)
	return nil
}

type memCCStore struct {
	memCommons
	p *memProvider
}

func (s *memCCStore) Bind(ctx context.Context, data types.ContentCategory) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	for _, b := range s.p.data.ccBinds {
		if b.ContentID == data.ContentID && b.CategoryID == data.CategoryID {
			return nil
		}
	}
	s.p.data.ccBinds = append(s.p.data.ccBinds, data)
	return nil
}

func (s *memCCStore) Unbind(ctx context.Context, contentID, categoryID string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	out := s.p.data.ccBinds[:0]
	for _, b := range s.p.data.ccBinds {
		if !(b.ContentID == contentID && b.CategoryID == categoryID) {
			out = append(out, b)
		}
	}
	s.p.data.ccBinds = out
	return nil
}

func (s *memCCStore) ListByContent(ctx context.Context, contentID string) ([]types.ContentCategory, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	var out []types.ContentCategory
	for _, b := range s.p.data.ccBinds {
		if b.ContentID == contentID {
			out = append(out, b)
		}
	}
	return out, nil
}

type memCGStore struct {
	memCommons
	p *memProvider
}

func (s *memCGStore) Bind(ctx context.Context, data types.ContentGenre) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	for _, b := range s.p.data.cgBinds {
		if b.ContentID == data.ContentID && b.GenreID == data.GenreID {
			return nil
		}
	}
	s.p.data.cgBinds = append(s.p.data.cgBinds, data)
	return nil
}

func (s *memCGStore) Unbind(ctx context.Context, contentID, genreID string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	out := s.p.data.cgBinds[:0]
	for _, b := range s.p.data.cgBinds {
		if !(b.ContentID == contentID && b.GenreID == genreID) {
			out = append(out, b)
		}
	}
	s.p.data.cgBinds = out
	return nil
}

func (s *memCGStore) ListByContent(ctx context.Context, contentID string) ([]types.ContentGenre, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	var out []types.ContentGenre
	for _, b := range s.p.data.cgBinds {
		if b.ContentID == contentID {
			out = append(out, b)
		}
	}
	return out, nil
}

type memPlaylistStore struct {
	memCommons
	p *memProvider
}

func (s *memPlaylistStore) Create(ctx context.Context, data types.Playlist) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.data.playlists[data.ID] = data
	return nil
}

func (s *memPlaylistStore) Get(ctx context.Context, id string) (*types.Playlist, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if v, ok := s.p.data.playlists[id]; ok {
		return &v, nil
	}
	return nil, sql.ErrNoRows
}

func (s *memPlaylistStore) Update(ctx context.Context, id string, title, description, thumbnailImageID string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	v, ok := s.p.data.playlists[id]
	if !ok {
		return sql.ErrNoRows
	}
	v.Title, v.Description, v.ThumbnailImageID = title, description, thumbnailImageID
	s.p.data.playlists[id] = v
	return nil
}

func (s *memPlaylistStore) Delete(ctx context.Context, id string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	delete(s.p.data.playlists, id)
	return nil
}

func (s *memPlaylistStore) ListByCreator(ctx context.Context, creatorID string, page, pageSize uint64) ([]types.Playlist, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	var out []types.Playlist
	for _, v := range s.p.data.playlists {
		if v.CreatorID == creatorID {
			out = append(out, v)
		}
	}
	return out, nil
}

type memEpisodeStore struct {
	memCommons
	p *memProvider
}

func (s *memEpisodeStore) Create(ctx context.Context, data types.PlaylistEpisode) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.data.episodes[data.ID] = data
	return nil
}

func (s *memEpisodeStore) Delete(ctx context.Context, playlistID, id string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if e, ok := s.p.data.episodes[id]; ok && e.PlaylistID == playlistID {
		delete(s.p.data.episodes, id)
	}
	return nil
}

func (s *memEpisodeStore) DeleteAll(ctx context.Context, playlistID string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	for id, e := range s.p.data.episodes {
		if e.PlaylistID == playlistID {
			delete(s.p.data.episodes, id)
		}
	}
	return nil
}

func (s *memEpisodeStore) ListByPlaylist(ctx context.Context, playlistID string) ([]types.PlaylistEpisode, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	var out []types.PlaylistEpisode
	for _, e := range s.p.data.episodes {
		if e.PlaylistID == playlistID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EpisodeOrder < out[j].EpisodeOrder })
	return out, nil
}

func (s *memEpisodeStore) GetByOrder(ctx context.Context, playlistID string, episodeOrder int) (*types.PlaylistEpisode, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	for _, e := range s.p.data.episodes {
		if e.PlaylistID == playlistID && e.EpisodeOrder == episodeOrder {
			return &e, nil
		}
	}
	return nil, sql.ErrNoRows
}

type memCartStore struct {
	memCommons
	p *memProvider
}

func (s *memCartStore) Create(ctx context.Context, data types.Cart) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.data.carts[data.UserID] = data
	return nil
}

func (s *memCartStore) GetByUserID(ctx context.Context, userID string) (*types.Cart, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if v, ok := s.p.data.carts[userID]; ok {
		return &v, nil
	}
	return nil, sql.ErrNoRows
}

func (s *memCartStore) Touch(ctx context.Context, id string, updatedAt int64) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	for k, v := range s.p.data.carts {
		if v.ID == id {
			v.UpdatedAt = updatedAt
			s.p.data.carts[k] = v
		}
	}
	return nil
}

type memCartItemStore struct {
	memCommons
	p *memProvider
}

func (s *memCartItemStore) Create(ctx context.Context, data types.CartItem) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.data.cartItems[data.ID] = data
	return nil
}

func (s *memCartItemStore) Delete(ctx context.Context, cartID, id string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if v, ok := s.p.data.cartItems[id]; ok && v.CartID == cartID {
		delete(s.p.data.cartItems, id)
	}
	return nil
}

func (s *memCartItemStore) DeleteAll(ctx context.Context, cartID string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	for id, v := range s.p.data.cartItems {
		if v.CartID == cartID {
			delete(s.p.data.cartItems, id)
		}
	}
	return nil
}

func (s *memCartItemStore) ListByCart(ctx context.Context, cartID string) ([]types.CartItem, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	var out []types.CartItem
	for _, v := range s.p.data.cartItems {
		if v.CartID == cartID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memCartItemStore) GetByTarget(ctx context.Context, cartID string, itemType types.CartItemType, targetID string) (*types.CartItem, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	for _, v := range s.p.data.cartItems {
		if v.CartID == cartID && v.ItemType == itemType && v.TargetID() == targetID {
			return &v, nil
		}
	}
	return nil, sql.ErrNoRows
}

type memOrderStore struct {
	memCommons
	p *memProvider
}

func (s *memOrderStore) Create(ctx context.Context, data types.Order) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.data.orders[data.ID] = data
	return nil
}

func (s *memOrderStore) Get(ctx context.Context, id string) (*types.Order, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if v, ok := s.p.data.orders[id]; ok {
		return &v, nil
	}
	return nil, sql.ErrNoRows
}

func (s *memOrderStore) UpdateStatus(ctx context.Context, id string, from, to types.OrderStatus, updatedAt int64) (bool, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if s.p.orderUpdateStatusErr != nil {
		return false, s.p.orderUpdateStatusErr
	}
	v, ok := s.p.data.orders[id]
	if !ok || v.Status != from {
		return false, nil
	}
	v.Status = to
	v.UpdatedAt = updatedAt
	s.p.data.orders[id] = v
	return true, nil
}

func (s *memOrderStore) ListByUser(ctx context.Context, userID string, page, pageSize uint64) ([]types.Order, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	var out []types.Order
	for _, v := range s.p.data.orders {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memOrderStore) Total(ctx context.Context, userID string) (int64, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	var total int64
	for _, v := range s.p.data.orders {
		if v.UserID == userID {
			total++
		}
	}
	return total, nil
}

func (s *memOrderStore) ListExpiredPending(ctx context.Context, before int64, limit uint64) ([]types.Order, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	var out []types.Order
	for _, v := range s.p.data.orders {
		if v.Status == types.ORDER_STATUS_PENDING && v.CreatedAt < before {
			out = append(out, v)
		}
		if uint64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

type memOrderItemStore struct {
	memCommons
	p *memProvider
}

func (s *memOrderItemStore) BatchCreate(ctx context.Context, datas []types.OrderItem) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.data.orderItms = append(s.p.data.orderItms, datas...)
	return nil
}

func (s *memOrderItemStore) ListByOrder(ctx context.Context, orderID string) ([]types.OrderItem, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	var out []types.OrderItem
	for _, v := range s.p.data.orderItms {
		if v.OrderID == orderID {
			out = append(out, v)
		}
	}
	return out, nil
}

type memPaymentStore struct {
	memCommons
	p *memProvider
}

func (s *memPaymentStore) Create(ctx context.Context, data types.Payment) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.data.payments[data.ID] = data
	return nil
}

func (s *memPaymentStore) GetByProviderTx(ctx context.Context, provider, providerTransactionID string) (*types.Payment, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	for _, v := range s.p.data.payments {
		if v.Provider == provider && v.ProviderTransactionID == providerTransactionID {
			return &v, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memPaymentStore) ListByOrder(ctx context.Context, orderID string) ([]types.Payment, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	var out []types.Payment
	for _, v := range s.p.data.payments {
		if v.OrderID == orderID {
			out = append(out, v)
		}
	}
	return out, nil
}

type memPurchaseStore struct {
	memCommons
	p *memProvider
}

func (s *memPurchaseStore) Create(ctx context.Context, data types.Purchase) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.data.purchases = append(s.p.data.purchases, data)
	return nil
}

func (s *memPurchaseStore) HasPurchased(ctx context.Context, userID string, itemType types.CartItemType, targetID string) (bool, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	for _, v := range s.p.data.purchases {
		if v.UserID != userID || v.ItemType != itemType {
			continue
		}
		if (itemType == types.CART_ITEM_TYPE_CONTENT && v.ContentID == targetID) ||
			(itemType == types.CART_ITEM_TYPE_PLAYLIST && v.PlaylistID == targetID) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memPurchaseStore) ListByUser(ctx context.Context, userID string, page, pageSize uint64) ([]types.Purchase, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	var out []types.Purchase
	for _, v := range s.p.data.purchases {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

// fakeStorage core.FileStorage 的假实现，记录调用并可注入错误
type fakeStorage struct {
	mu sync.Mutex

	uploadErr   error
	downloadErr error
	deleteErr   error
	existsErr   error

	exists bool

	uploadCalls   int
	downloadCalls int
	deleteCalls   int
	existsCalls   int

	lastUploadArgs   s3.UploadURLArgs
	lastDownloadArgs s3.DownloadURLArgs
	lastDeleteKey    string
}

func (f *fakeStorage) CreateUploadURL(ctx context.Context, args s3.UploadURLArgs) (*s3.PresignResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	f.lastUploadArgs = args
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &s3.PresignResult{
		URL:       "https://s3.test/upload/" + args.Key,
		Method:    "PUT",
		ExpiresAt: 1000,
	}, nil
}

func (f *fakeStorage) CreateDownloadURL(ctx context.Context, args s3.DownloadURLArgs) (*s3.PresignResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloadCalls++
	f.lastDownloadArgs = args
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return &s3.PresignResult{
		URL:       "https://s3.test/download/" + args.Key,
		Method:    "GET",
		ExpiresAt: 2000,
	}, nil
}

func (f *fakeStorage) DeleteObject(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	f.lastDeleteKey = key
	return f.deleteErr
}

func (f *fakeStorage) ObjectExists(ctx context.Context, key string) (*s3.ObjectMeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsCalls++
	if f.existsErr != nil {
		return nil, f.existsErr
	}
	return &s3.ObjectMeta{Exists: f.exists, Size: 1024}, nil
}

func (f *fakeStorage) EnsureBucketExists(ctx context.Context, bucket string) (bool, error) {
	return false, nil
}
