package v1

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/modlearn/modlearn/app/core"
	"github.com/modlearn/modlearn/pkg/errors"
	"github.com/modlearn/modlearn/pkg/i18n"
	"github.com/modlearn/modlearn/pkg/types"
	"github.com/modlearn/modlearn/pkg/utils"
)

type OrderLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewOrderLogic(ctx context.Context, core *core.Core) *OrderLogic {
	l := &OrderLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}

	return l
}

type AddToCartArgs struct {
	ItemType   types.CartItemType `json:"item_type" binding:"required"`
	ContentID  string             `json:"content_id"`
	PlaylistID string             `json:"playlist_id"`
}

// AddToCart 价格在加购时快照，下单按快照结算
func (l *OrderLogic) AddToCart(args AddToCartArgs) (string, error) {
	cart, err := l.getCart()
	if err != nil {
		return "", err
	}

	var (
		targetID string
		price    int64
		currency string
	)

	switch args.ItemType {
	case types.CART_ITEM_TYPE_CONTENT:
		if args.ContentID == "" {
			return "", errors.New("OrderLogic.AddToCart.content_id", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
		}
		content, err := l.core.Store().ContentStore().GetContent(l.ctx, args.ContentID)
		if err != nil {
			if err == sql.ErrNoRows {
				return "", errors.New("OrderLogic.AddToCart.content", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
			}
			return "", errors.New("OrderLogic.AddToCart.GetContent", i18n.ERROR_INTERNAL, err)
		}
		targetID, price, currency = content.ID, content.Price, content.Currency
	case types.CART_ITEM_TYPE_PLAYLIST:
		if args.PlaylistID == "" {
			return "", errors.New("OrderLogic.AddToCart.playlist_id", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
		}
		playlist, err := l.core.Store().PlaylistStore().Get(l.ctx, args.PlaylistID)
		if err != nil {
			if err == sql.ErrNoRows {
				return "", errors.New("OrderLogic.AddToCart.playlist", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
			}
			return "", errors.New("OrderLogic.AddToCart.GetPlaylist", i18n.ERROR_INTERNAL, err)
		}
		targetID, price, currency = playlist.ID, playlist.Price, playlist.Currency
	default:
		return "", errors.New("OrderLogic.AddToCart.item_type", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	if price <= 0 {
		return "", errors.New("OrderLogic.AddToCart.free", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	purchased, err := l.core.Store().PurchaseStore().HasPurchased(l.ctx, l.GetUserInfo().User, args.ItemType, targetID)
	if err != nil {
		return "", errors.New("OrderLogic.AddToCart.HasPurchased", i18n.ERROR_INTERNAL, err)
	}
	if purchased {
		return "", errors.New("OrderLogic.AddToCart.purchased", i18n.ERROR_EXIST, nil).Code(http.StatusBadRequest)
	}

	exist, err := l.core.Store().CartItemStore().GetByTarget(l.ctx, cart.ID, args.ItemType, targetID)
	if err != nil && err != sql.ErrNoRows {
		return "", errors.New("OrderLogic.AddToCart.GetByTarget", i18n.ERROR_INTERNAL, err)
	}
	if exist != nil {
		return exist.ID, nil
	}

	itemID := utils.GenUniqIDStr()
	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		err := l.core.Store().CartItemStore().Create(ctx, types.CartItem{
			ID:         itemID,
			CartID:     cart.ID,
			ItemType:   args.ItemType,
			ContentID:  args.ContentID,
			PlaylistID: args.PlaylistID,
			Price:      price,
			Currency:   currency,
			AddedAt:    time.Now().Unix(),
		})
		if err != nil {
			return errors.New("OrderLogic.AddToCart.CartItemStore.Create", i18n.ERROR_INTERNAL, err)
		}
		if err = l.core.Store().CartStore().Touch(ctx, cart.ID, time.Now().Unix()); err != nil {
			return errors.New("OrderLogic.AddToCart.CartStore.Touch", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return itemID, nil
}

func (l *OrderLogic) RemoveFromCart(itemID string) error {
	cart, err := l.getCart()
	if err != nil {
		return err
	}

	if err = l.core.Store().CartItemStore().Delete(l.ctx, cart.ID, itemID); err != nil {
		return errors.New("OrderLogic.RemoveFromCart", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

type CartDetail struct {
	Cart        *types.Cart      `json:"cart"`
	Items       []types.CartItem `json:"items"`
	TotalAmount int64            `json:"total_amount"`
}

func (l *OrderLogic) GetCart() (CartDetail, error) {
	cart, err := l.getCart()
	if err != nil {
		return CartDetail{}, err
	}

	items, err := l.core.Store().CartItemStore().ListByCart(l.ctx, cart.ID)
	if err != nil {
		return CartDetail{}, errors.New("OrderLogic.GetCart.ListByCart", i18n.ERROR_INTERNAL, err)
	}

	var total int64
	for _, item := range items {
		total += item.Price
	}

	return CartDetail{
		Cart:        cart,
		Items:       items,
		TotalAmount: total,
	}, nil
}

// Checkout 购物车结算，生成待支付订单并清空购物车
func (l *OrderLogic) Checkout() (*types.Order, error) {
	cart, err := l.getCart()
	if err != nil {
		return nil, err
	}

	items, err := l.core.Store().CartItemStore().ListByCart(l.ctx, cart.ID)
	if err != nil {
		return nil, errors.New("OrderLogic.Checkout.ListByCart", i18n.ERROR_INTERNAL, err)
	}
	if len(items) == 0 {
		return nil, errors.New("OrderLogic.Checkout.empty", i18n.ERROR_CART_EMPTY, nil).Code(http.StatusBadRequest)
	}

	var total int64
	currency := items[0].Currency
	orderItems := make([]types.OrderItem, 0, len(items))
	orderID := utils.GenUniqIDStr()
	for _, item := range items {
		total += item.Price
		orderItems = append(orderItems, types.OrderItem{
			ID:         utils.GenUniqIDStr(),
			OrderID:    orderID,
			ItemType:   item.ItemType,
			ContentID:  item.ContentID,
			PlaylistID: item.PlaylistID,
			Price:      item.Price,
		})
	}

	order := types.Order{
		ID:          orderID,
		UserID:      l.GetUserInfo().User,
		TotalAmount: total,
		Currency:    currency,
		Status:      types.ORDER_STATUS_PENDING,
		UpdatedAt:   time.Now().Unix(),
		CreatedAt:   time.Now().Unix(),
	}

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().OrderStore().Create(ctx, order); err != nil {
			return errors.New("OrderLogic.Checkout.OrderStore.Create", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().OrderItemStore().BatchCreate(ctx, orderItems); err != nil {
			return errors.New("OrderLogic.Checkout.OrderItemStore.BatchCreate", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().CartItemStore().DeleteAll(ctx, cart.ID); err != nil {
			return errors.New("OrderLogic.Checkout.CartItemStore.DeleteAll", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

type ConfirmPaymentArgs struct {
	OrderID               string `json:"order_id" binding:"required"`
	Provider              string `json:"provider" binding:"required"`
	ProviderTransactionID string `json:"provider_transaction_id" binding:"required"`
	Amount                int64  `json:"amount" binding:"required"`
	Currency              string `json:"currency"`
}

// ConfirmPayment 支付确认回调，按 (provider, provider_transaction_id) 幂等，
// 重复通知直接返回已有流水
func (l *OrderLogic) ConfirmPayment(args ConfirmPaymentArgs) (*types.Payment, error) {
	exist, err := l.core.Store().PaymentStore().GetByProviderTx(l.ctx, args.Provider, args.ProviderTransactionID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("OrderLogic.ConfirmPayment.GetByProviderTx", i18n.ERROR_INTERNAL, err)
	}
	if exist != nil {
		return exist, nil
	}

	order, err := l.core.Store().OrderStore().Get(l.ctx, args.OrderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("OrderLogic.ConfirmPayment.order", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, errors.New("OrderLogic.ConfirmPayment.OrderStore.Get", i18n.ERROR_INTERNAL, err)
	}

	if order.Status != types.ORDER_STATUS_PENDING {
		return nil, errors.New("OrderLogic.ConfirmPayment.status", i18n.ERROR_ORDER_NOT_PENDING, nil).Code(http.StatusConflict)
	}
	if args.Amount != order.TotalAmount {
		return nil, errors.New("OrderLogic.ConfirmPayment.amount", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	items, err := l.core.Store().OrderItemStore().ListByOrder(l.ctx, order.ID)
	if err != nil {
		return nil, errors.New("OrderLogic.ConfirmPayment.ListByOrder", i18n.ERROR_INTERNAL, err)
	}

	payment := types.Payment{
		ID:                    utils.GenUniqIDStr(),
		OrderID:               order.ID,
		Provider:              args.Provider,
		ProviderTransactionID: args.ProviderTransactionID,
		Amount:                args.Amount,
		Currency:              order.Currency,
		Status:                types.PAYMENT_STATUS_SUCCESS,
		PaidAt:                time.Now().Unix(),
		CreatedAt:             time.Now().Unix(),
	}

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().PaymentStore().Create(ctx, payment); err != nil {
			return errors.New("OrderLogic.ConfirmPayment.PaymentStore.Create", i18n.ERROR_INTERNAL, err)
		}

		updated, err := l.core.Store().OrderStore().UpdateStatus(ctx, order.ID, types.ORDER_STATUS_PENDING, types.ORDER_STATUS_PAID, time.Now().Unix())
		if err != nil {
			return errors.New("OrderLogic.ConfirmPayment.UpdateStatus", i18n.ERROR_INTERNAL, err)
		}
		// 状态已被他处流转，放弃本次确认
		if !updated {
			return errors.New("OrderLogic.ConfirmPayment.raced", i18n.ERROR_ORDER_NOT_PENDING, nil).Code(http.StatusConflict)
		}

		for _, item := range items {
			if err = l.core.Store().PurchaseStore().Create(ctx, types.Purchase{
				ID:         utils.GenUniqIDStr(),
				UserID:     order.UserID,
				ItemType:   item.ItemType,
				ContentID:  item.ContentID,
				PlaylistID: item.PlaylistID,
				OrderID:    order.ID,
				CreatedAt:  time.Now().Unix(),
			}); err != nil {
				return errors.New("OrderLogic.ConfirmPayment.PurchaseStore.Create", i18n.ERROR_INTERNAL, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

type OrderDetail struct {
	Order *types.Order      `json:"order"`
	Items []types.OrderItem `json:"items"`
}

func (l *OrderLogic) GetOrder(orderID string) (OrderDetail, error) {
	order, err := l.core.Store().OrderStore().Get(l.ctx, orderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return OrderDetail{}, errors.New("OrderLogic.GetOrder", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return OrderDetail{}, errors.New("OrderLogic.GetOrder", i18n.ERROR_INTERNAL, err)
	}

	if order.UserID != l.GetUserInfo().User {
		return OrderDetail{}, errors.New("OrderLogic.GetOrder.owner", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden)
	}

	items, err := l.core.Store().OrderItemStore().ListByOrder(l.ctx, orderID)
	if err != nil {
		return OrderDetail{}, errors.New("OrderLogic.GetOrder.ListByOrder", i18n.ERROR_INTERNAL, err)
	}

	return OrderDetail{
		Order: order,
		Items: items,
	}, nil
}

func (l *OrderLogic) ListOrders(page, pageSize uint64) ([]types.Order, int64, error) {
	if pageSize > types.MAX_PAGE_SIZE {
		pageSize = types.MAX_PAGE_SIZE
	}

	userID := l.GetUserInfo().User
	list, err := l.core.Store().OrderStore().ListByUser(l.ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, errors.New("OrderLogic.ListOrders", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().OrderStore().Total(l.ctx, userID)
	if err != nil {
		return nil, 0, errors.New("OrderLogic.ListOrders.Total", i18n.ERROR_INTERNAL, err)
	}

	return list, total, nil
}

func (l *OrderLogic) ListPurchases(page, pageSize uint64) ([]types.Purchase, error) {
	if pageSize > types.MAX_PAGE_SIZE {
		pageSize = types.MAX_PAGE_SIZE
	}

	list, err := l.core.Store().PurchaseStore().ListByUser(l.ctx, l.GetUserInfo().User, page, pageSize)
	if err != nil {
		return nil, errors.New("OrderLogic.ListPurchases", i18n.ERROR_INTERNAL, err)
	}
	return list, nil
}

func (l *OrderLogic) getCart() (*types.Cart, error) {
	userID := l.GetUserInfo().User
	cart, err := l.core.Store().CartStore().GetByUserID(l.ctx, userID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("OrderLogic.getCart", i18n.ERROR_INTERNAL, err)
	}

	// 老用户可能没有购物车记录，补建一条
	if cart == nil {
		cart = &types.Cart{
			ID:        utils.GenUniqIDStr(),
			UserID:    userID,
			CreatedAt: time.Now().Unix(),
		}
		if err = l.core.Store().CartStore().Create(l.ctx, *cart); err != nil {
			return nil, errors.New("OrderLogic.getCart.Create", i18n.ERROR_INTERNAL, err)
		}
	}
	return cart, nil
}

const orderSweepBatch = 200

// SweepExpiredOrders 定时关单，超时未支付的 PENDING 订单流转为 FAILED
func SweepExpiredOrders(ctx context.Context, core *core.Core) {
	before := time.Now().Unix() - core.Cfg().Order.PendingExpire()

	var swept int
	for {
		list, err := core.Store().OrderStore().ListExpiredPending(ctx, before, orderSweepBatch)
		if err != nil {
			slog.Error("failed to list expired pending orders", slog.Any("error", err))
			return
		}
		if len(list) == 0 {
			break
		}

		advanced := 0
		for _, order := range list {
			updated, err := core.Store().OrderStore().UpdateStatus(ctx, order.ID, types.ORDER_STATUS_PENDING, types.ORDER_STATUS_FAILED, time.Now().Unix())
			if err != nil {
				slog.Error("failed to expire pending order",
					slog.String("order_id", order.ID),
					slog.Any("error", err))
				continue
			}
			if updated {
				advanced++
			}
		}
		swept += advanced

		// 整批都没流转成功说明更新持续失败，留给下个周期重试
		if advanced == 0 || len(list) < orderSweepBatch {
			break
		}
	}

	core.Metrics().OrderSweepExpired(float64(swept))
	if swept > 0 {
		slog.Info("expired pending orders swept", slog.Int("count", swept))
	}
}
