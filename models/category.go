package models

// Category groups products. A category may exist before any product
// references it and outlives the products that do.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

func (c *Category) TableName() string {
	return "categories"
}
