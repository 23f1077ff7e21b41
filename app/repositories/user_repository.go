package repositories

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/httpclient"
)

// UserRepository is the User Directory at /users.
type UserRepository struct {
	http *httpclient.Client
}

func NewUserRepository(c *httpclient.Client) *UserRepository {
	return &UserRepository{http: c}
}

// FindByCredentials returns the users whose email and password match.
func (r *UserRepository) FindByCredentials(ctx context.Context, email, password string) ([]models.User, error) {
	var users []models.User
	req := r.http.Get("/users").
		Query("email", email).
		Query("password", password).
		WithContext(ctx)
	if err := send(req, &users); err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return users, nil
}
