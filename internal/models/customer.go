package models

// Customer belongs to exactly one City; the city_id foreign key is
// created without cascading so a referenced city cannot be deleted.
type Customer struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"type:varchar(50);not null" json:"name"`
	Age    int    `gorm:"type:integer;not null" json:"age"`
	CityID uint   `gorm:"not null;index" json:"city_id"`

	City *City `gorm:"foreignKey:CityID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT;" json:"city,omitempty"`
}

func (Customer) TableName() string {
	return "customers"
}
