package services

import (
	"context"

	repository "taskflow.com/taskflow/internal/repositories"
	model "taskflow.com/taskflow/pkg/models"
)

type UserService struct {
	repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// SyncUser stores the profile reported by the identity provider.
func (s *UserService) SyncUser(ctx context.Context, id, name, email, avatarURL string) (*model.User, error) {
	user := &model.User{ID: id, Name: name, Email: email, AvatarURL: avatarURL}
	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
