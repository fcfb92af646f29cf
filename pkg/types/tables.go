package types

import "fmt"

type TableName string

func (s TableName) Name() string {
	return fmt.Sprintf("%s%s", TABLE_PREFIX, s)
}

const TABLE_PREFIX = "modlearn_"

const (
	TABLE_USER             = TableName("user")
	TABLE_ACCESS_TOKEN     = TableName("access_token")
	TABLE_FILE             = TableName("file")
	TABLE_STORAGE          = TableName("storage")
	TABLE_CATEGORY         = TableName("category")
	TABLE_GENRE            = TableName("genre")
	TABLE_CONTENT          = TableName("content")
	TABLE_CONTENT_CATEGORY = TableName("content_category")
	TABLE_CONTENT_GENRE    = TableName("content_genre")
	TABLE_PLAYLIST         = TableName("playlist")
	TABLE_PLAYLIST_EPISODE = TableName("playlist_episode")
	TABLE_CART             = TableName("cart")
	TABLE_CART_ITEM        = TableName("cart_item")
	TABLE_ORDER            = TableName("order")
	TABLE_ORDER_ITEM       = TableName("order_item")
	TABLE_PAYMENT          = TableName("payment")
	TABLE_PURCHASE         = TableName("purchase")
)
