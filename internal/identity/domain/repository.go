package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertTeam(ctx context.Context, db *gorm.DB, team *Team) error
	InsertUser(ctx context.Context, db *gorm.DB, user *User) error
	FindUserByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error)
	ListUsersByTeam(ctx context.Context, db *gorm.DB, teamID snowflake.ID) ([]User, error)
	ListActiveUsers(ctx context.Context, db *gorm.DB) ([]User, error)
	ListTeams(ctx context.Context, db *gorm.DB) ([]Team, error)
}
