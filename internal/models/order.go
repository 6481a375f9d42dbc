package models

import (
	"time"

	"gorm.io/gorm/schema"
)

type Order struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SKU        string    `gorm:"column:sku;type:text;not null" json:"sku"`
	OrderDate  time.Time `gorm:"type:date;not null" json:"order_date"`
	CustomerID uint      `gorm:"not null;index" json:"customer_id"`

	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT;" json:"customer,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// All lists the models in parent-first order.
func All() []schema.Tabler {
	return []schema.Tabler{&City{}, &Customer{}, &Order{}}
}
