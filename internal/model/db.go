package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrientationHorizontal = "horizontal"
	OrientationVertical   = "vertical"
	OrientationSquared    = "squared"
	OrientationOther      = "other"
)

type Product struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:200;not null"`
	Slug        string `gorm:"size:200;uniqueIndex;not null"`
	Orientation string `gorm:"size:20;index;not null"` // horizontal, vertical, squared, other
	ImageURL    string `gorm:"size:500"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PrintVariant is a globally managed size/price entry. Products do not
// own variants; any print can be ordered in any size.
type PrintVariant struct {
	ID              uint            `gorm:"primaryKey"`
	SizeName        string          `gorm:"size:100;not null"` // e.g. "A2" or "A3"
	BasePrice       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	FrameAddonPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

type Order struct {
	ID         uint   `gorm:"primaryKey"`
	Number     string `gorm:"size:36;uniqueIndex;not null"` // public order reference
	FirstName  string `gorm:"size:100"`
	LastName   string `gorm:"size:100"`
	Email      string `gorm:"size:254"`
	Address    string `gorm:"size:250"`
	PostalCode string `gorm:"size:20"`
	City       string `gorm:"size:100"`
	Country    string `gorm:"size:2"`
	Paid       bool   `gorm:"not null;default:false"`

	// PaymentRef is the provider's checkout-session id. The unique index
	// backs idempotent order creation on duplicate confirmations.
	PaymentRef string `gorm:"size:128;uniqueIndex;not null"`
	// StripePID is the underlying payment intent, kept for reconciliation
	// against provider reports.
	StripePID string `gorm:"size:128"`

	AmountTotal int64  `gorm:"not null"` // minor units, includes shipping
	ShippingFee int64  `gorm:"not null"`
	Currency    string `gorm:"size:8;not null"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem snapshots everything needed to render the line without a
// catalog join. UnitPrice is the price actually paid, not the current
// catalog price.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   uint            `gorm:"index;not null"`
	ProductID uint            `gorm:"index;not null"`
	Title     string          `gorm:"size:200;not null"`
	SizeName  string          `gorm:"size:100;not null"`
	Framed    bool            `gorm:"not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time
}

// WebhookEvent records processed provider event ids so duplicate
// deliveries short-circuit.
type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
