package i18n

var ALLOW_LANG = map[string]bool{
	"en":    true,
	"zh-CN": true,
}

const DEFAULT_LANG = "en"

const (
	ERROR_INTERNAL          = "error.internal"
	ERROR_NOT_FOUND         = "error.notfound"
	ERROR_INVALIDARGUMENT   = "error.invalidargument"
	ERROR_UNAUTHORIZED      = "error.unauthorized"
	ERROR_FORBIDDEN         = "error.forbidden"
	ERROR_EXIST             = "error.exist"
	ERROR_TOO_MANY_REQUESTS = "error.tooManyRequests"

	ERROR_LOGIN_ACCOUNT_INCORRECT = "error.login.account.incorrect"
	ERROR_EMAIL_ALREADY_REGISTED  = "error.email_has_already_registed"
	ERROR_INVALID_TOKEN           = "error.invalid.token"
	ERROR_INVALID_ACCOUNT         = "error.invalid.account"

	ERROR_FILE_NOT_FOUND         = "error.file.notfound"
	ERROR_FILE_DELETED           = "error.file.deleted"
	ERROR_FILE_ALREADY_DELETED   = "error.file.already_deleted"
	ERROR_STORAGE_RECORD_MISSING = "error.file.storage_record_missing"
	ERROR_FILE_TOO_LARGE         = "error.file.moreThanMax"

	ERROR_CONTENT_NOT_PUBLISHED = "error.content.not_published"
	ERROR_CONTENT_NO_FILE       = "error.content.no_file"
	ERROR_PURCHASE_REQUIRED     = "error.purchase.required"
	ERROR_CART_EMPTY            = "error.cart.empty"
	ERROR_ORDER_NOT_PENDING     = "error.order.not_pending"
	ERROR_EPISODE_ORDER_TAKEN   = "error.playlist.episode_order_taken"
)
