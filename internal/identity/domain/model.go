// Package domain contains the user and team records that scope every other
// row in the system. A user owns metrics, transactions and adjustments; a
// team groups users for the manager rollup view.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Role string

const (
	RoleMember  Role = "member"
	RoleManager Role = "manager"
)

type Team struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Slug      string       `gorm:"type:text;not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Team) TableName() string { return "teams" }

type User struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	TeamID      *snowflake.ID `gorm:"index" json:"team_id,omitempty"`
	Email       string        `gorm:"type:text;not null;uniqueIndex" json:"email"`
	DisplayName string        `gorm:"type:text;not null" json:"display_name"`
	Role        Role          `gorm:"type:text;not null;default:member" json:"role"`
	Active      bool          `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) IsManager() bool { return u.Role == RoleManager }
