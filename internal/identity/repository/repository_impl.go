package repository

import (
	"context"
	"errors"

	identitydomain "github.com/adlenslabs/adlens/internal/identity/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() identitydomain.Repository {
	return &repo{}
}

func (r *repo) InsertTeam(ctx context.Context, db *gorm.DB, team *identitydomain.Team) error {
	return db.WithContext(ctx).Create(team).Error
}

func (r *repo) InsertUser(ctx context.Context, db *gorm.DB, user *identitydomain.User) error {
	return db.WithContext(ctx).Create(user).Error
}

func (r *repo) FindUserByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*identitydomain.User, error) {
	var user identitydomain.User
	err := db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repo) FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*identitydomain.User, error) {
	var user identitydomain.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repo) ListUsersByTeam(ctx context.Context, db *gorm.DB, teamID snowflake.ID) ([]identitydomain.User, error) {
	var users []identitydomain.User
	err := db.WithContext(ctx).
		Where("team_id = ? AND active = ?", teamID, true).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *repo) ListActiveUsers(ctx context.Context, db *gorm.DB) ([]identitydomain.User, error) {
	var users []identitydomain.User
	err := db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *repo) ListTeams(ctx context.Context, db *gorm.DB) ([]identitydomain.Team, error) {
	var teams []identitydomain.Team
	err := db.WithContext(ctx).Order("created_at ASC").Find(&teams).Error
	return teams, err
}
