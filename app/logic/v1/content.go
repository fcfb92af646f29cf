package v1

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/modlearn/modlearn/app/core"
	"github.com/modlearn/modlearn/app/core/srv"
	"github.com/modlearn/modlearn/pkg/errors"
	"github.com/modlearn/modlearn/pkg/i18n"
	"github.com/modlearn/modlearn/pkg/types"
	"github.com/modlearn/modlearn/pkg/utils"
)

type ContentLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewContentLogic(ctx context.Context, core *core.Core) *ContentLogic {
	l := &ContentLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}

	return l
}

type CreateContentArgs struct {
	Title            string            `json:"title" binding:"required"`
	Description      string            `json:"description"`
	ContentType      types.ContentType `json:"content_type" binding:"required"`
	ThumbnailImageID string            `json:"thumbnail_image_id"`
	FileID           string            `json:"file_id"`
	Duration         int64             `json:"duration"`
	Price            int64             `json:"price"`
	Currency         string            `json:"currency"`
	ReleaseDate      string            `json:"release_date"`
	CategoryIDs      []string          `json:"category_ids"`
	GenreIDs         []string          `json:"genre_ids"`
}

func (l *ContentLogic) CreateContent(args CreateContentArgs) (string, error) {
	if err := l.Identification(srv.PermissionCreate); err != nil {
		return "", err
	}

	if !args.ContentType.Valid() {
		return "", errors.New("ContentLogic.CreateContent.content_type", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	if args.Price < 0 {
		return "", errors.New("ContentLogic.CreateContent.price", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	if args.Currency == "" {
		args.Currency = "USD"
	}

	contentID := utils.GenUniqIDStr()
	userID := l.GetUserInfo().User

	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		err := l.core.Store().ContentStore().Create(ctx, types.Content{
			ID:               contentID,
			Title:            args.Title,
			Description:      args.Description,
			ContentType:      args.ContentType,
			ThumbnailImageID: args.ThumbnailImageID,
			FileID:           args.FileID,
			Duration:         args.Duration,
			Price:            args.Price,
			Currency:         args.Currency,
			IsAvailable:      true,
			ReleaseDate:      args.ReleaseDate,
			UpdatedBy:        userID,
			CreatedAt:        time.Now().Unix(),
		})
		if err != nil {
			return errors.New("ContentLogic.CreateContent.ContentStore.Create", i18n.ERROR_INTERNAL, err)
		}

		for _, categoryID := range args.CategoryIDs {
			if err = l.core.Store().ContentCategoryStore().Bind(ctx, types.ContentCategory{
				ID:         utils.GenUniqIDStr(),
				ContentID:  contentID,
				CategoryID: categoryID,
			}); err != nil {
				return errors.New("ContentLogic.CreateContent.ContentCategoryStore.Bind", i18n.ERROR_INTERNAL, err)
			}
		}
		for _, genreID := range args.GenreIDs {
			if err = l.core.Store().ContentGenreStore().Bind(ctx, types.ContentGenre{
				ID:        utils.GenUniqIDStr(),
				ContentID: contentID,
				GenreID:   genreID,
			}); err != nil {
				return errors.New("ContentLogic.CreateContent.ContentGenreStore.Bind", i18n.ERROR_INTERNAL, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return contentID, nil
}

func (l *ContentLogic) UpdateContent(contentID string, args types.UpdateContentArgs) error {
	if err := l.Identification(srv.PermissionCreate); err != nil {
		return err
	}

	if _, err := l.getContent(contentID); err != nil {
		return err
	}

	if args.Price != nil && *args.Price < 0 {
		return errors.New("ContentLogic.UpdateContent.price", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	if err := l.core.Store().ContentStore().Update(l.ctx, contentID, l.GetUserInfo().User, args); err != nil {
		return errors.New("ContentLogic.UpdateContent", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

// PublishContent 发布要求内容已关联主文件
func (l *ContentLogic) PublishContent(contentID string, publish bool) error {
	if err := l.Identification(srv.PermissionCreate); err != nil {
		return err
	}

	content, err := l.getContent(contentID)
	if err != nil {
		return err
	}

	if publish && content.FileID == "" {
		return errors.New("ContentLogic.PublishContent.no_file", i18n.ERROR_CONTENT_NO_FILE, nil).Code(http.StatusBadRequest)
	}

	publishedAt := int64(0)
	if publish {
		publishedAt = time.Now().Unix()
	}

	if err = l.core.Store().ContentStore().UpdatePublish(l.ctx, contentID, publish, publishedAt); err != nil {
		return errors.New("ContentLogic.PublishContent", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

// GetContent 读取并累计浏览数，计数失败只记日志
func (l *ContentLogic) GetContent(contentID string) (*types.Content, error) {
	content, err := l.getContent(contentID)
	if err != nil {
		return nil, err
	}

	if err = l.core.Store().ContentStore().IncrViewCount(l.ctx, contentID); err != nil {
		slog.Error("failed to increase content view count",
			slog.String("content_id", contentID),
			slog.Any("error", err))
	}

	return content, nil
}

func (l *ContentLogic) ListContents(opts types.ListContentOptions, page, pageSize uint64) ([]types.Content, int64, error) {
	if pageSize > types.MAX_PAGE_SIZE {
		pageSize = types.MAX_PAGE_SIZE
	}

	list, err := l.core.Store().ContentStore().ListContents(l.ctx, opts, page, pageSize)
	if err != nil {
		return nil, 0, errors.New("ContentLogic.ListContents", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().ContentStore().Total(l.ctx, opts)
	if err != nil {
		return nil, 0, errors.New("ContentLogic.ListContents.Total", i18n.ERROR_INTERNAL, err)
	}

	return list, total, nil
}

func (l *ContentLogic) DeleteContent(contentID string) error {
	if err := l.Identification(srv.PermissionCreate); err != nil {
		return err
	}

	if _, err := l.getContent(contentID); err != nil {
		return err
	}

	if err := l.core.Store().ContentStore().Delete(l.ctx, contentID); err != nil {
		return errors.New("ContentLogic.DeleteContent", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

// GetPlaybackURL 播放鉴权，免费或已购买才放行
func (l *ContentLogic) GetPlaybackURL(contentID string) (DownloadURL, error) {
	content, err := l.getContent(contentID)
	if err != nil {
		return DownloadURL{}, err
	}

	if !content.IsPublished || !content.IsAvailable {
		return DownloadURL{}, errors.New("ContentLogic.GetPlaybackURL.unpublished", i18n.ERROR_CONTENT_NOT_PUBLISHED, nil).Code(http.StatusForbidden)
	}
	if content.FileID == "" {
		return DownloadURL{}, errors.New("ContentLogic.GetPlaybackURL.no_file", i18n.ERROR_CONTENT_NO_FILE, nil).Code(http.StatusNotFound)
	}

	if content.Price > 0 {
		userID := l.GetUserInfo().User
		purchased, err := l.core.Store().PurchaseStore().HasPurchased(l.ctx, userID, types.CART_ITEM_TYPE_CONTENT, contentID)
		if err != nil {
			return DownloadURL{}, errors.New("ContentLogic.GetPlaybackURL.HasPurchased", i18n.ERROR_INTERNAL, err)
		}
		if !purchased {
			return DownloadURL{}, errors.New("ContentLogic.GetPlaybackURL.unpaid", i18n.ERROR_PURCHASE_REQUIRED, nil).Code(http.StatusForbidden)
		}
	}

	return NewFileLogic(l.ctx, l.core).CreateDownloadURL(content.FileID)
}

func (l *ContentLogic) getContent(contentID string) (*types.Content, error) {
	content, err := l.core.Store().ContentStore().GetContent(l.ctx, contentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("ContentLogic.getContent", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, errors.New("ContentLogic.getContent", i18n.ERROR_INTERNAL, err)
	}
	return content, nil
}

type CategoryLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewCategoryLogic(ctx context.Context, core *core.Core) *CategoryLogic {
	return &CategoryLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *CategoryLogic) CreateCategory(title, description, slug string) (string, error) {
	if err := l.Identification(srv.PermissionAdmin); err != nil {
		return "", err
	}

	exist, err := l.core.Store().CategoryStore().GetBySlug(l.ctx, slug)
	if err != nil && err != sql.ErrNoRows {
		return "", errors.New("CategoryLogic.CreateCategory.GetBySlug", i18n.ERROR_INTERNAL, err)
	}
	if exist != nil {
		return "", errors.New("CategoryLogic.CreateCategory.slug_exist", i18n.ERROR_EXIST, nil).Code(http.StatusBadRequest)
	}

	id := utils.GenUniqIDStr()
	if err = l.core.Store().CategoryStore().Create(l.ctx, types.Category{
		ID:          id,
		Title:       title,
		Description: description,
		Slug:        slug,
	}); err != nil {
		return "", errors.New("CategoryLogic.CreateCategory", i18n.ERROR_INTERNAL, err)
	}
	return id, nil
}

func (l *CategoryLogic) ListCategories() ([]types.Category, error) {
	list, err := l.core.Store().CategoryStore().List(l.ctx)
	if err != nil {
		return nil, errors.New("CategoryLogic.ListCategories", i18n.ERROR_INTERNAL, err)
	}
	return list, nil
}

func (l *CategoryLogic) DeleteCategory(id string) error {
	if err := l.Identification(srv.PermissionAdmin); err != nil {
		return err
	}
	if err := l.core.Store().CategoryStore().Delete(l.ctx, id); err != nil {
		return errors.New("CategoryLogic.DeleteCategory", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

func (l *CategoryLogic) CreateGenre(title, description, slug string) (string, error) {
	if err := l.Identification(srv.PermissionAdmin); err != nil {
		return "", err
	}

	exist, err := l.core.Store().GenreStore().GetBySlug(l.ctx, slug)
	if err != nil && err != sql.ErrNoRows {
		return "", errors.New("CategoryLogic.CreateGenre.GetBySlug", i18n.ERROR_INTERNAL, err)
	}
	if exist != nil {
		return "", errors.New("CategoryLogic.CreateGenre.slug_exist", i18n.ERROR_EXIST, nil).Code(http.StatusBadRequest)
	}

	id := utils.GenUniqIDStr()
	if err = l.core.Store().GenreStore().Create(l.ctx, types.Genre{
		ID:          id,
		Title:       title,
		Description: description,
		Slug:        slug,
	}); err != nil {
		return "", errors.New("CategoryLogic.CreateGenre", i18n.ERROR_INTERNAL, err)
	}
	return id, nil
}

func (l *CategoryLogic) ListGenres() ([]types.Genre, error) {
	list, err := l.core.Store().GenreStore().List(l.ctx)
	if err != nil {
		return nil, errors.New("CategoryLogic.ListGenres", i18n.ERROR_INTERNAL, err)
	}
	return list, nil
}

func (l *CategoryLogic) DeleteGenre(id string) error {
	if err := l.Identification(srv.PermissionAdmin); err != nil {
		return err
	}
	if err := l.core.Store().GenreStore().Delete(l.ctx, id); err != nil {
		return errors.New("CategoryLogic.DeleteGenre", i18n.ERROR_INTERNAL, err)
	}
	return nil
}
