package model

import "time"

// Order status
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment status
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Payment method
const (
	PaymentMethodBankTransfer   = "bank_transfer"
	PaymentMethodCashOnDelivery = "cash_on_delivery"
)

// Order 订单模型
// 不变量：Total = Subtotal + ShippingCost + Tax
type Order struct {
	ID              int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int64       `gorm:"not null;index" json:"user_id"`
	OrderNumber     string      `gorm:"size:64;uniqueIndex" json:"order_number"`
	Status          string      `gorm:"size:20;not null;default:pending;index" json:"status"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal        int64       `gorm:"not null" json:"subtotal"`
	ShippingCost    int64       `gorm:"not null" json:"shipping_cost"`
	Tax             int64       `gorm:"not null" json:"tax"`
	Total           int64       `gorm:"not null" json:"total"`
	ShippingAddress Address     `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	IsGift          bool        `gorm:"not null;default:false" json:"is_gift"`
	GiftMessage     string      `gorm:"size:500" json:"gift_message"`
	PaymentMethod   string      `gorm:"size:30;not null" json:"payment_method"`
	PaymentStatus   string      `gorm:"size:20;not null;default:pending" json:"payment_status"`
	PaymentIntentID string      `gorm:"size:100" json:"payment_intent_id"`
	TrackingNumber  string      `gorm:"size:100" json:"tracking_number"`
	ShippedAt       *time.Time  `json:"shipped_at"`
	DeliveredAt     *time.Time  `json:"delivered_at"`
	CreatedAt       time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*Order) TableName() string {
	return "orders"
}

// OrderItem 下单时刻的商品快照，之后商品怎么改都不再回写
type OrderItem struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      int64     `gorm:"not null;index" json:"order_id"`
	ProductID    int64     `gorm:"not null" json:"product_id"`
	ProductName  string    `gorm:"size:100;not null" json:"product_name"`
	ProductImage string    `gorm:"size:255" json:"product_image"`
	Price        int64     `gorm:"not null" json:"price"` // 最小货币单位（分）
	Quantity     int32     `gorm:"not null" json:"quantity"`
	CustomNote   string    `gorm:"size:500" json:"custom_note"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (*OrderItem) TableName() string {
	return "order_items"
}

// CanCancel 仅待处理/已确认订单允许取消
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}
