package v1

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modlearn/modlearn/app/core"
	"github.com/modlearn/modlearn/pkg/errors"
	"github.com/modlearn/modlearn/pkg/i18n"
	"github.com/modlearn/modlearn/pkg/types"
	"github.com/modlearn/modlearn/pkg/utils"
)

func newCommerceTestEnv(t *testing.T) (*memProvider, *core.Core, *OrderLogic) {
	provider := newMemProvider()
	storage := &fakeStorage{exists: true}
	c := newTestCore(provider, storage)

	require.NoError(t, provider.CartStore().Create(context.Background(), types.Cart{
		ID:        utils.GenUniqIDStr(),
		UserID:    "buyer-1",
		CreatedAt: time.Now().Unix(),
	}))

	logic := NewOrderLogic(ctxWithUser("buyer-1", types.USER_ROLE_USER), c)
	return provider, c, logic
}

func seedPaidContent(t *testing.T, provider *memProvider, id string, price int64) {
	require.NoError(t, provider.ContentStore().Create(context.Background(), types.Content{
		ID:          id,
		Title:       "paid lesson " + id,
		ContentType: types.CONTENT_TYPE_MOVIE,
		FileID:      "file-" + id,
		Price:       price,
		Currency:    "USD",
		IsAvailable: true,
		IsPublished: true,
	}))
}

func Test_AddToCart(t *testing.T) {
	provider, _, logic := newCommerceTestEnv(t)
	seedPaidContent(t, provider, "c1", 990)

	itemID, err := logic.AddToCart(AddToCartArgs{
		ItemType:  types.CART_ITEM_TYPE_CONTENT,
		ContentID: "c1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, itemID)

	cart, err := logic.GetCart()
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	// 价格是加购时的快照
	assert.EqualValues(t, 990, cart.Items[0].Price)
	assert.EqualValues(t, 990, cart.TotalAmount)

	// 重复加购返回已有条目
	again, err := logic.AddToCart(AddToCartArgs{
		ItemType:  types.CART_ITEM_TYPE_CONTENT,
		ContentID: "c1",
	})
	require.NoError(t, err)
	assert.Equal(t, itemID, again)

	cart, err = logic.GetCart()
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func Test_AddToCart_FreeContentRejected(t *testing.T) {
	provider, _, logic := newCommerceTestEnv(t)
	seedPaidContent(t, provider, "free", 0)

	_, err := logic.AddToCart(AddToCartArgs{
		ItemType:  types.CART_ITEM_TYPE_CONTENT,
		ContentID: "free",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, i18n.ERROR_INVALIDARGUMENT))
}

func Test_Checkout(t *testing.T) {
	provider, _, logic := newCommerceTestEnv(t)
	seedPaidContent(t, provider, "c1", 990)
	seedPaidContent(t, provider, "c2", 1500)

	for _, id := range []string{"c1", "c2"} {
		_, err := logic.AddToCart(AddToCartArgs{ItemType: types.CART_ITEM_TYPE_CONTENT, ContentID: id})
		require.NoError(t, err)
	}

	order, err := logic.Checkout()
	require.NoError(t, err)
	assert.Equal(t, types.ORDER_STATUS_PENDING, order.Status)
	assert.EqualValues(t, 2490, order.TotalAmount)

	items, err := provider.OrderItemStore().ListByOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	// 结算后购物车清空
	cart, err := logic.GetCart()
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func Test_Checkout_EmptyCart(t *testing.T) {
	_, _, logic := newCommerceTestEnv(t)

	_, err := logic.Checkout()
	require.Error(t, err)
	assert.True(t, errors.Is(err, i18n.ERROR_CART_EMPTY))
}

func Test_ConfirmPayment(t *testing.T) {
	provider, _, logic := newCommerceTestEnv(t)
	seedPaidContent(t, provider, "c1", 990)

	_, err := logic.AddToCart(AddToCartArgs{ItemType: types.CART_ITEM_TYPE_CONTENT, ContentID: "c1"})
	require.NoError(t, err)
	order, err := logic.Checkout()
	require.NoError(t, err)

	payment, err := logic.ConfirmPayment(ConfirmPaymentArgs{
		OrderID:               order.ID,
		Provider:              "stripe",
		ProviderTransactionID: "tx-100",
		Amount:                990,
	})
	require.NoError(t, err)
	assert.Equal(t, types.PAYMENT_STATUS_SUCCESS, payment.Status)

	got, err := provider.OrderStore().Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ORDER_STATUS_PAID, got.Status)

	// 支付成功生成购买授权
	purchased, err := provider.PurchaseStore().HasPurchased(context.Background(), "buyer-1", types.CART_ITEM_TYPE_CONTENT, "c1")
	require.NoError(t, err)
	assert.True(t, purchased)
}

// 同一外部流水号重复通知只生效一次
func Test_ConfirmPayment_Idempotent(t *testing.T) {
	provider, _, logic := newCommerceTestEnv(t)
	seedPaidContent(t, provider, "c1", 990)

	_, err := logic.AddToCart(AddToCartArgs{ItemType: types.CART_ITEM_TYPE_CONTENT, ContentID: "c1"})
	require.NoError(t, err)
	order, err := logic.Checkout()
	require.NoError(t, err)

	args := ConfirmPaymentArgs{
		OrderID:               order.ID,
		Provider:              "stripe",
		ProviderTransactionID: "tx-200",
		Amount:                990,
	}

	first, err := logic.ConfirmPayment(args)
	require.NoError(t, err)
	second, err := logic.ConfirmPayment(args)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	provider.mu.Lock()
	assert.Len(t, provider.data.payments, 1)
	assert.Len(t, provider.data.purchases, 1)
	provider.mu.Unlock()
}

func Test_ConfirmPayment_AmountMismatch(t *testing.T) {
	provider, _, logic := newCommerceTestEnv(t)
	seedPaidContent(t, provider, "c1", 990)

	_, err := logic.AddToCart(AddToCartArgs{ItemType: types.CART_ITEM_TYPE_CONTENT, ContentID: "c1"})
	require.NoError(t, err)
	order, err := logic.Checkout()
	require.NoError(t, err)

	_, err = logic.ConfirmPayment(ConfirmPaymentArgs{
		OrderID:               order.ID,
		Provider:              "stripe",
		ProviderTransactionID: "tx-300",
		Amount:                1,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, err.(*errors.CustomizedError).GetCode())

	got, err := provider.OrderStore().Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ORDER_STATUS_PENDING, got.Status)
}

func Test_ConfirmPayment_NotPending(t *testing.T) {
	provider, _, logic := newCommerceTestEnv(t)
	seedPaidContent(t, provider, "c1", 990)

	_, err := logic.AddToCart(AddToCartArgs{ItemType: types.CART_ITEM_TYPE_CONTENT, ContentID: "c1"})
	require.NoError(t, err)
	order, err := logic.Checkout()
	require.NoError(t, err)

	_, err = provider.OrderStore().UpdateStatus(context.Background(), order.ID, types.ORDER_STATUS_PENDING, types.ORDER_STATUS_FAILED, time.Now().Unix())
	require.NoError(t, err)

	_, err = logic.ConfirmPayment(ConfirmPaymentArgs{
		OrderID:               order.ID,
		Provider:              "stripe",
		ProviderTransactionID: "tx-400",
		Amount:                990,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, i18n.ERROR_ORDER_NOT_PENDING))
}

// 超时未支付订单被关单，已支付订单不受影响
func Test_SweepExpiredOrders(t *testing.T) {
	provider, c, logic := newCommerceTestEnv(t)
	seedPaidContent(t, provider, "c1", 990)
	seedPaidContent(t, provider, "c2", 500)

	_, err := logic.AddToCart(AddToCartArgs{ItemType: types.CART_ITEM_TYPE_CONTENT, ContentID: "c1"})
	require.NoError(t, err)
	stale, err := logic.Checkout()
	require.NoError(t, err)

	_, err = logic.AddToCart(AddToCartArgs{ItemType: types.CART_ITEM_TYPE_CONTENT, ContentID: "c2"})
	require.NoError(t, err)
	fresh, err := logic.Checkout()
	require.NoError(t, err)

	// 把第一单的创建时间拨回超时线之前
	provider.mu.Lock()
	o := provider.data.orders[stale.ID]
	o.CreatedAt = time.Now().Unix() - c.Cfg().Order.PendingExpire() - 60
	provider.data.orders[stale.ID] = o
	provider.mu.Unlock()

	SweepExpiredOrders(context.Background(), c)

	got, err := provider.OrderStore().Get(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ORDER_STATUS_FAILED, got.Status)

	got, err = provider.OrderStore().Get(context.Background(), fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ORDER_STATUS_PENDING, got.Status)
}

// 整批订单都更新失败时不能死循环，本轮直接结束
func Test_SweepExpiredOrders_StopsWhenUpdatesFail(t *testing.T) {
	provider, c, _ := newCommerceTestEnv(t)

	before := time.Now().Unix() - c.Cfg().Order.PendingExpire() - 60
	provider.mu.Lock()
	for i := 0; i < orderSweepBatch; i++ {
		id := utils.GenUniqIDStr()
		provider.data.orders[id] = types.Order{
			ID:          id,
			UserID:      "buyer-1",
			TotalAmount: 990,
			Currency:    "USD",
			Status:      types.ORDER_STATUS_PENDING,
			CreatedAt:   before,
		}
	}
	provider.orderUpdateStatusErr = sql.ErrConnDone
	provider.mu.Unlock()

	done := make(chan struct{})
	go func() {
		SweepExpiredOrders(context.Background(), c)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sweep did not terminate with a failing batch")
	}

	list, err := provider.OrderStore().ListExpiredPending(context.Background(), time.Now().Unix(), orderSweepBatch)
	require.NoError(t, err)
	assert.Len(t, list, orderSweepBatch)
}
