package in

import (
	"context"

	"ykwatch/internal/modules/credential/dto"
)

type Usecase interface {
	Login(ctx context.Context, input dto.LoginInput) (dto.LoginOutput, error)
	Logout(ctx context.Context) error
	Status(ctx context.Context) (dto.StatusOutput, error)
	RefreshIdentity(ctx context.Context) (dto.IdentityOutput, error)
	OpenLoginPage(ctx context.Context) error
}
