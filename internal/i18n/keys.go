// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthAccountDisabled    = "auth.account_disabled"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthAdminRegistration  = "auth.admin_registration"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthPasswordChanged    = "auth.password_changed"

	// User Management
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"
	KeyUserDeactivated    = "user.deactivated"

	// Catalog
	KeyCategoryNotFound = "category.not_found"
	KeyMaterialNotFound = "material.not_found"

	// Products
	KeyProductCreated    = "product.created"
	KeyProductUpdated    = "product.updated"
	KeyProductDeleted    = "product.deleted"
	KeyProductNotFound   = "product.not_found"
	KeyProductPublished  = "product.published"
	KeyProductOutOfStock = "product.out_of_stock"

	// Material Listings
	KeyListingCreated   = "listing.created"
	KeyListingUpdated   = "listing.updated"
	KeyListingDeleted   = "listing.deleted"
	KeyListingNotFound  = "listing.not_found"
	KeyListingPublished = "listing.published"

	// Cart
	KeyCartItemAdded   = "cart.item_added"
	KeyCartItemRemoved = "cart.item_removed"
	KeyCartCleared     = "cart.cleared"
	KeyCartNotFound    = "cart.not_found"

	// Orders
	KeyOrderCreated       = "order.created"
	KeyOrderConfirmed     = "order.confirmed"
	KeyOrderInProgress    = "order.in_progress"
	KeyOrderCompleted     = "order.completed"
	KeyOrderCancelled     = "order.cancelled"
	KeyOrderNotFound      = "order.not_found"
	KeyOrderInvalidStatus = "order.invalid_status"

	// Reviews and messages
	KeyReviewCreated   = "review.created"
	KeyReviewNotFound  = "review.not_found"
	KeyMessageSent     = "message.sent"
	KeyMessageNotFound = "message.not_found"
	KeyReportCreated   = "report.created"
	KeyReportNotFound  = "report.not_found"
	KeyReportResolved  = "report.resolved"

	// Payments
	KeyPaymentSuccess  = "payment.success"
	KeyPaymentFailed   = "payment.failed"
	KeyPaymentRefunded = "payment.refunded"

	// Admin
	KeyAdminActionSuccess = "admin.action_success"
	KeyAdminAccessDenied  = "admin.access_denied"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"
)
