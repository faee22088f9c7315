package model

import (
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// ItemsTable is the table Item rows live in.
const ItemsTable = "items"

// Item is the example catalogue entity served by the API.
// The db tags name its columns; ID is generated by the database.
type Item struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

func (i *Item) GetID() any {
	return i.ID
}

// SetID accepts any integer-like id reported by the driver.
func (i *Item) SetID(id any) {
	var n int64
	if err := mapstructure.WeakDecode(id, &n); err == nil {
		i.ID = n
	}
}
