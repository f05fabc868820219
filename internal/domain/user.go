package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// User matches the users table. AllowedGroups is a JSON array of group ids
// (as strings) and is only consulted for role "viewer".
type User struct {
	ID            uint           `gorm:"column:id;primaryKey" json:"id"`
	Username      string         `gorm:"column:username;not null;uniqueIndex" json:"username"`
	PasswordHash  string         `gorm:"column:password_hash;not null" json:"-"`
	Email         string         `gorm:"column:email;not null" json:"email"`
	Name          string         `gorm:"column:name;not null" json:"name"`
	Company       *string        `gorm:"column:company" json:"company"`
	Role          string         `gorm:"column:role;not null;default:guest" json:"role"`
	Approved      bool           `gorm:"column:approved;not null;default:false" json:"approved"`
	AllowedGroups datatypes.JSON `gorm:"column:allowed_groups" json:"allowed_groups"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// AllowedGroupIDs decodes the allowed_groups column. Nil or malformed
// content decodes to an empty slice (no products visible).
func (u *User) AllowedGroupIDs() []string {
	if len(u.AllowedGroups) == 0 {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(u.AllowedGroups, &ids); err != nil {
		return nil
	}
	return ids
}

// SetAllowedGroupIDs encodes the group id list into the JSON column.
func (u *User) SetAllowedGroupIDs(ids []string) {
	if ids == nil {
		ids = []string{}
	}
	b, _ := json.Marshal(ids)
	u.AllowedGroups = datatypes.JSON(b)
}
