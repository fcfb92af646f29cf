package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/modlearn/modlearn/pkg/register"
	"github.com/modlearn/modlearn/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.CartStore = NewCartStore(provider)
		provider.stores.CartItemStore = NewCartItemStore(provider)
	})
}

type CartStore struct {
	CommonFields
}

func NewCartStore(provider SqlProviderAchieve) *CartStore {
	repo := &CartStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_CART)
	repo.SetAllColumns("id", "user_id", "updated_at", "created_at")
	return repo
}

func (s *CartStore) Create(ctx context.Context, data types.Cart) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = data.CreatedAt
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "user_id", "updated_at", "created_at").
		Values(data.ID, data.UserID, data.UpdatedAt, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *CartStore) GetByUserID(ctx context.Context, userID string) (*types.Cart, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"user_id": userID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Cart
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *CartStore) Touch(ctx context.Context, id string, updatedAt int64) error {
	query := sq.Update(s.GetTable()).Set("updated_at", updatedAt).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

type CartItemStore struct {
	CommonFields
}

func NewCartItemStore(provider SqlProviderAchieve) *CartItemStore {
	repo := &CartItemStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_CART_ITEM)
	repo.SetAllColumns("id", "cart_id", "item_type", "content_id", "playlist_id", "price", "currency", "added_at")
	return repo
}

func (s *CartItemStore) Create(ctx context.Context, data types.CartItem) error {
	if data.AddedAt == 0 {
		data.AddedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "cart_id", "item_type", "content_id", "playlist_id", "price", "currency", "added_at").
		Values(data.ID, data.CartID, data.ItemType, data.ContentID, data.PlaylistID, data.Price, data.Currency, data.AddedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *CartItemStore) Delete(ctx context.Context, cartID, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"cart_id": cartID, "id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *CartItemStore) DeleteAll(ctx context.Context, cartID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"cart_id": cartID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *CartItemStore) ListByCart(ctx context.Context, cartID string) ([]types.CartItem, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"cart_id": cartID}).
		OrderBy("added_at ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.CartItem
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *CartItemStore) GetByTarget(ctx context.Context, cartID string, itemType types.CartItemType, targetID string) (*types.CartItem, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"cart_id": cartID, "item_type": itemType})
	if itemType == types.CART_ITEM_TYPE_PLAYLIST {
		query = query.Where(sq.Eq{"playlist_id": targetID})
	} else {
		query = query.Where(sq.Eq{"content_id": targetID})
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.CartItem
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}
