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
		provider.stores.PaymentStore = NewPaymentStore(provider)
		provider.stores.PurchaseStore = NewPurchaseStore(provider)
	})
}

type PaymentStore struct {
	CommonFields
}

func NewPaymentStore(provider SqlProviderAchieve) *PaymentStore {
	repo := &PaymentStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_PAYMENT)
	repo.SetAllColumns("id", "order_id", "provider", "provider_transaction_id", "amount", "currency",
		"status", "paid_at", "failure_reason", "created_at")
	return repo
}

func (s *PaymentStore) Create(ctx context.Context, data types.Payment) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "order_id", "provider", "provider_transaction_id", "amount", "currency",
			"status", "paid_at", "failure_reason", "created_at").
		Values(data.ID, data.OrderID, data.Provider, data.ProviderTransactionID, data.Amount, data.Currency,
			data.Status, data.PaidAt, data.FailureReason, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *PaymentStore) GetByProviderTx(ctx context.Context, provider, providerTransactionID string) (*types.Payment, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"provider": provider, "provider_transaction_id": providerTransactionID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Payment
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *PaymentStore) ListByOrder(ctx context.Context, orderID string) ([]types.Payment, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("created_at DESC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Payment
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

type PurchaseStore struct {
	CommonFields
}

func NewPurchaseStore(provider SqlProviderAchieve) *PurchaseStore {
	repo := &PurchaseStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_PURCHASE)
	repo.SetAllColumns("id", "user_id", "item_type", "content_id", "playlist_id", "order_id", "created_at")
	return repo
}

func (s *PurchaseStore) Create(ctx context.Context, data types.Purchase) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "user_id", "item_type", "content_id", "playlist_id", "order_id", "created_at").
		Values(data.ID, data.UserID, data.ItemType, data.ContentID, data.PlaylistID, data.OrderID, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *PurchaseStore) HasPurchased(ctx context.Context, userID string, itemType types.CartItemType, targetID string) (bool, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable()).Where(sq.Eq{"user_id": userID, "item_type": itemType})
	if itemType == types.CART_ITEM_TYPE_PLAYLIST {
		query = query.Where(sq.Eq{"playlist_id": targetID})
	} else {
		query = query.Where(sq.Eq{"content_id": targetID})
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return false, ErrorSqlBuild(err)
	}

	var count int64
	if err = s.GetReplica(ctx).Get(&count, queryString, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *PurchaseStore) ListByUser(ctx context.Context, userID string, page, pageSize uint64) ([]types.Purchase, error) {
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

	var res []types.Purchase
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}
