package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultUnitOfMeasure = "pcs"

// SKU is a stock-keeping unit.
type SKU struct {
	ID                uuid.UUID `json:"skuid" db:"id"`
	Name              string    `json:"sku_name" db:"sku_name"`
	Description       string    `json:"description" db:"sku_description"`
	UnitOfMeasure     string    `json:"unit_of_measure" db:"unit_of_measure"`
	CurrentStockLevel int       `json:"current_stock_level" db:"current_stock_level"`
	IsActive          bool      `json:"is_active" db:"is_active"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// Sale is a single recorded sales transaction.
type Sale struct {
	ID           uuid.UUID       `json:"sale_id" db:"id"`
	SKUID        uuid.UUID       `json:"skuid" db:"sku_id"`
	SaleDate     time.Time       `json:"sale_date" db:"sale_date"`
	QuantitySold int             `json:"quantity_sold" db:"quantity_sold"`
	SellingPrice decimal.Decimal `json:"selling_price" db:"selling_price"`
}

// Revenue returns quantity times price.
func (s Sale) Revenue() decimal.Decimal {
	return s.SellingPrice.Mul(decimal.NewFromInt(int64(s.QuantitySold)))
}

type Supplier struct {
	ID          uuid.UUID `json:"supplier_id" db:"id"`
	Name        string    `json:"supplier_name" db:"supplier_name"`
	ContactInfo string    `json:"contact_info" db:"contact_info"`
	Notes       string    `json:"notes" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// PurchaseOrder is an order placed with a supplier for a single SKU.
type PurchaseOrder struct {
	ID                  uuid.UUID   `json:"order_id" db:"id"`
	SKUID               uuid.UUID   `json:"sku_id" db:"sku_id"`
	SupplierID          uuid.UUID   `json:"supplier_id" db:"supplier_id"`
	OrderQuantity       int         `json:"order_quantity" db:"order_quantity"`
	OrderDate           time.Time   `json:"order_date" db:"order_date"`
	ExpectedArrivalDate time.Time   `json:"expected_arrival_date" db:"expected_arrival_date"`
	Status              OrderStatus `json:"status" db:"order_status"`
	ReceivedAt          *time.Time  `json:"received_at,omitempty" db:"received_at"`
}

// DaysOverdue returns the whole days elapsed since the expected arrival.
func (o PurchaseOrder) DaysOverdue(now time.Time) int {
	if !now.After(o.ExpectedArrivalDate) {
		return 0
	}
	return int(now.Sub(o.ExpectedArrivalDate).Hours() / 24)
}

// StatusAt reports Overdue for a pending order whose expected arrival has passed.
func (o PurchaseOrder) StatusAt(now time.Time) OrderStatus {
	if o.Status == OrderPending && now.After(o.ExpectedArrivalDate) {
		return OrderOverdue
	}
	return o.Status
}

// AIHistory records a generated insight together with the inputs that produced it.
type AIHistory struct {
	ID          uuid.UUID   `json:"log_id" db:"id"`
	SKUID       uuid.UUID   `json:"skuid" db:"sku_id"`
	InsightType InsightType `json:"insight_type" db:"insight_type"`
	Output      string      `json:"ai_output" db:"ai_output"`
	InputParams Params      `json:"input_params" db:"input_params"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// Params is a free-form JSON object stored alongside an insight.
type Params map[string]any

func (p Params) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (p *Params) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = Params{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("params: unsupported source type")
	}
	out := Params{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*p = out
	return nil
}
