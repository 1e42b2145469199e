package domain

const (
	RoleCustomer   = "CUSTOMER"
	RoleVendor     = "VENDOR"
	RoleSuperAdmin = "SUPER_ADMIN"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

const (
	TxTypeEarning              = "earning"
	TxTypePayout               = "payout"
	TxTypeRefund               = "refund"
	TxTypeCommissionAdjustment = "commission_adjustment"
	TxTypeManualAdjustment     = "manual_adjustment"
	TxTypeHoldRelease          = "hold_release"
)

const (
	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusFailed    = "failed"
	TxStatusCancelled = "cancelled"
)

const (
	PayoutStatusPending    = "pending"
	PayoutStatusProcessing = "processing"
	PayoutStatusCompleted  = "completed"
	PayoutStatusFailed     = "failed"
	PayoutStatusCancelled  = "cancelled"
)

const (
	PayoutMethodPayPal       = "paypal"
	PayoutMethodBankTransfer = "bank_transfer"
	PayoutMethodManual       = "manual"
)

// Wallet defaults applied when a wallet is created lazily on first earning.
const (
	DefaultCommissionRate = 0.10
	DefaultHoldPeriodDays = 7
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusDone    = "done"
	OutboxStatusDead    = "dead"
)

const OutboxTaskShipmentCreate = "shipment.create"
