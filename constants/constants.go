package constants

// 商品の状態とカテゴリ
const (
	ConditionNew         = "New"
	ConditionUsed        = "Used"
	ConditionRefurbished = "Refurbished"
	ConditionLikeNew     = "Like New"
	ConditionForParts    = "For Parts"

	CategoryElectronics = "Electronics"
	CategoryBooks       = "Books"
	CategoryClothing    = "Clothing"
	CategoryHome        = "Home"
	CategoryFood        = "Food"
	CategoryOther       = "Other"

	// 絞り込みなしを表すカテゴリ
	CategoryAll = "All"
)

// リダイレクト先
const (
	PathHome      = "/"
	PathSignup    = "/users/new"
	PathLogin     = "/users/login"
	PathProfile   = "/users/profile"
	PathCart      = "/users/cart"
	PathItems     = "/items"
	SessionCookie = "marketplace_session"
	FlashCookie   = "marketplace_flash"
)

// エラーメッセージ
const (
	ErrItemNotFound = "Item not found"
	ErrUserNotFound = "User not found"
	ErrUnexpected   = "Unexpected error"
	ErrInvalidID    = "Invalid item ID format."
	ErrInvalidInput = "Invalid input"

	ErrAlreadyLoggedIn = "You are already logged in."
	ErrLoginRequired   = "You need to log in to perform this action."
	ErrNotItemOwner    = "You are not authorized to edit or delete this item"
	ErrEmailInUse      = "That email is already in use. Please use a different email."
	ErrIncorrectEmail  = "Incorrect email address."
	ErrIncorrectPass   = "Incorrect password."
	ErrCartConflict    = "Your cart changed while we were updating it. Please try again."
	ErrRateLimited     = "Too many attempts. Please wait a moment and try again."
)

// 成功・案内メッセージ
const (
	MsgSignedUp      = "Your account has been created. Please log in."
	MsgLoggedIn      = "You have logged in."
	MsgLoggedOut     = "You have logged out"
	MsgAddedToCart   = "Item added to cart"
	MsgAlreadyInCart = "Item is already in your cart"
	MsgRemoved       = "Item removed from cart"
	MsgCartEmpty     = "Your cart is empty"
	MsgItemCreated   = "Item created successfully."
	MsgItemUpdated   = "Item updated successfully."
	MsgItemDeleted   = "Item deleted successfully."
)
