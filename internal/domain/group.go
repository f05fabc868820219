package domain

import "time"

// Group is a named visibility partition over products. A product belongs to
// at most one group; deleting a group orphans its products (group_id nulled),
// it never deletes them.
type Group struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Description *string   `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Group) TableName() string {
	return "groups"
}
