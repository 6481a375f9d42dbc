package models

type City struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(50);not null" json:"name"`
}

func (City) TableName() string {
	return "cities"
}
