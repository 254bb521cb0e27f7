package user

import "context"

type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	DeleteByUsername(ctx context.Context, username string) error
}
