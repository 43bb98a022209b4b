package users

import "context"

type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetUserByLogin(ctx context.Context, userName string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
}
