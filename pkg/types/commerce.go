package types

type CartItemType string

const (
	CART_ITEM_TYPE_CONTENT  CartItemType = "CONTENT"
	CART_ITEM_TYPE_PLAYLIST CartItemType = "PLAYLIST"
)

type OrderStatus string

const (
	ORDER_STATUS_PENDING  OrderStatus = "PENDING"
	ORDER_STATUS_PAID     OrderStatus = "PAID"
	ORDER_STATUS_FAILED   OrderStatus = "FAILED"
	ORDER_STATUS_REFUNDED OrderStatus = "REFUNDED"
)

type PaymentStatus string

const (
	PAYMENT_STATUS_INITIATED PaymentStatus = "INITIATED"
	PAYMENT_STATUS_SUCCESS   PaymentStatus = "SUCCESS"
	PAYMENT_STATUS_FAILED    PaymentStatus = "FAILED"
)

// Cart 购物车，每个用户一条
type Cart struct {
	ID        string `json:"id" db:"id"`
	UserID    string `json:"user_id" db:"user_id"`
	UpdatedAt int64  `json:"updated_at" db:"updated_at"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
}

type CartItem struct {
	ID         string       `json:"id" db:"id"`
	CartID     string       `json:"cart_id" db:"cart_id"`
	ItemType   CartItemType `json:"item_type" db:"item_type"`
	ContentID  string       `json:"content_id" db:"content_id"`   // item_type=CONTENT 时有效
	PlaylistID string       `json:"playlist_id" db:"playlist_id"` // item_type=PLAYLIST 时有效
	Price      int64        `json:"price" db:"price"`             // 加入时的价格快照
	Currency   string       `json:"currency" db:"currency"`
	AddedAt    int64        `json:"added_at" db:"added_at"`
}

func (i CartItem) TargetID() string {
	if i.ItemType == CART_ITEM_TYPE_PLAYLIST {
		return i.PlaylistID
	}
	return i.ContentID
}

type Order struct {
	ID          string      `json:"id" db:"id"`
	UserID      string      `json:"user_id" db:"user_id"`
	TotalAmount int64       `json:"total_amount" db:"total_amount"`
	Currency    string      `json:"currency" db:"currency"`
	Status      OrderStatus `json:"status" db:"status"`
	UpdatedAt   int64       `json:"updated_at" db:"updated_at"`
	CreatedAt   int64       `json:"created_at" db:"created_at"`
}

type OrderItem struct {
	ID         string       `json:"id" db:"id"`
	OrderID    string       `json:"order_id" db:"order_id"`
	ItemType   CartItemType `json:"item_type" db:"item_type"`
	ContentID  string       `json:"content_id" db:"content_id"`
	PlaylistID string       `json:"playlist_id" db:"playlist_id"`
	Price      int64        `json:"price" db:"price"`
}

// Payment 支付流水，按 (provider, provider_transaction_id) 幂等
type Payment struct {
	ID                    string        `json:"id" db:"id"`
	OrderID               string        `json:"order_id" db:"order_id"`
	Provider              string        `json:"provider" db:"provider"`
	ProviderTransactionID string        `json:"provider_transaction_id" db:"provider_transaction_id"`
	Amount                int64         `json:"amount" db:"amount"`
	Currency              string        `json:"currency" db:"currency"`
	Status                PaymentStatus `json:"status" db:"status"`
	PaidAt                int64         `json:"paid_at" db:"paid_at"`
	FailureReason         string        `json:"failure_reason" db:"failure_reason"`
	CreatedAt             int64         `json:"created_at" db:"created_at"`
}

// Purchase 购买授权记录，支付成功后生成，播放鉴权依据
type Purchase struct {
	ID         string       `json:"id" db:"id"`
	UserID     string       `json:"user_id" db:"user_id"`
	ItemType   CartItemType `json:"item_type" db:"item_type"`
	ContentID  string       `json:"content_id" db:"content_id"`
	PlaylistID string       `json:"playlist_id" db:"playlist_id"`
	OrderID    string       `json:"order_id" db:"order_id"`
	CreatedAt  int64        `json:"created_at" db:"created_at"`
}
