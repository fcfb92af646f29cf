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
		provider.stores.OrderStore = NewOrderStore(provider)
		provider.stores.OrderItemStore = NewOrderItemStore(provider)
	})
}

type OrderStore struct {
	CommonFields
}

func NewOrderStore(provider SqlProviderAchieve) *OrderStore {
	repo := &OrderStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_ORDER)
	repo.SetAllColumns("id", "user_id", "total_amount", "currency", "status", "updated_at", "created_at")
	return repo
}

func (s *OrderStore) Create(ctx context.Context, data types.Order) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = data.CreatedAt
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "user_id", "total_amount", "currency", "status", "updated_at", "created_at").
		Values(data.ID, data.UserID, data.TotalAmount, data.Currency, data.Status, data.UpdatedAt, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *OrderStore) Get(ctx context.Context, id string) (*types.Order, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Order
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateStatus 状态条件流转，from不匹配时返回false
func (s *OrderStore) UpdateStatus(ctx context.Context, id string, from, to types.OrderStatus, updatedAt int64) (bool, error) {
	query := sq.Update(s.GetTable()).
		Set("status", to).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id, "status": from})

	queryString, args, err := query.ToSql()
	if err != nil {
		return false, ErrorSqlBuild(err)
	}

	result, err := s.GetMaster(ctx).Exec(queryString, args...)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *OrderStore) ListByUser(ctx context.Context, userID string, page, pageSize uint64) ([]types.Order, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	if page != types.NO_PAGINATION || pageSize != types.NO_PAGINATION {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Order
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *OrderStore) Total(ctx context.Context, userID string) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable()).Where(sq.Eq{"user_id": userID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var total int64
	if err = s.GetReplica(ctx).Get(&total, queryString, args...); err != nil {
		return 0, err
	}
	return total, nil
}

// ListExpiredPending 后台任务捞超时未支付订单
func (s *OrderStore) ListExpiredPending(ctx context.Context, before int64, limit uint64) ([]types.Order, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"status": types.ORDER_STATUS_PENDING}).
		Where(sq.Lt{"created_at": before}).
		OrderBy("created_at ASC").
		Limit(limit)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Order
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

type OrderItemStore struct {
	CommonFields
}

func NewOrderItemStore(provider SqlProviderAchieve) *OrderItemStore {
	repo := &OrderItemStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_ORDER_ITEM)
	repo.SetAllColumns("id", "order_id", "item_type", "content_id", "playlist_id", "price")
	return repo
}

func (s *OrderItemStore) BatchCreate(ctx context.Context, datas []types.OrderItem) error {
	if len(datas) == 0 {
		return nil
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "order_id", "item_type", "content_id", "playlist_id", "price")

	for _, data := range datas {
		query = query.Values(data.ID, data.OrderID, data.ItemType, data.ContentID, data.PlaylistID, data.Price)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *OrderItemStore) ListByOrder(ctx context.Context, orderID string) ([]types.OrderItem, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"order_id": orderID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.OrderItem
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}
