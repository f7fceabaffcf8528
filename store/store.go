// Package store persists user accounts and their order history.
package store

import (
	"context"
	"errors"

	"go-bookstore/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already exists")
)

// AccountStore owns users and the ordered list of orders placed under each
// email. Emails are compared after models.NormalizeEmail. OrderHistory
// returns newest first; implementations keep that order at write time
// instead of sorting on read.
type AccountStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUser(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	AppendOrder(ctx context.Context, email string, order models.Order) error
	OrderHistory(ctx context.Context, email string) ([]models.Order, error)
	Close(ctx context.Context) error
}
