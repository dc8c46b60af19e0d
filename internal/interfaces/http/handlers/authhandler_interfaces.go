package handlers

import (
	"context"

	"gatehouse/internal/application/auth/usecases"
)

// Use case interfaces for AuthHandler - enables unit testing with mocks.

type registerUseCase interface {
	Execute(ctx context.Context, cmd usecases.RegisterWithPasswordCommand) (*usecases.RegisterWithPasswordResult, error)
}

type loginUseCase interface {
	Execute(ctx context.Context, cmd usecases.LoginWithPasswordCommand) (*usecases.IssueSessionResult, error)
}

type verifyEmailUseCase interface {
	Execute(ctx context.Context, cmd usecases.VerifyEmailCommand) error
}

type initiateOAuthUseCase interface {
	Execute(ctx context.Context, cmd usecases.InitiateOAuthLoginCommand) (*usecases.InitiateOAuthLoginResult, error)
}

type handleOAuthCallbackUseCase interface {
	Execute(ctx context.Context, cmd usecases.HandleOAuthCallbackCommand) (*usecases.IssueSessionResult, error)
}

type validateSessionUseCase interface {
	Execute(ctx context.Context, cmd usecases.ValidateSessionCommand) (*usecases.ValidateSessionResult, error)
}

type signOutUseCase interface {
	Execute(ctx context.Context, cmd usecases.SignOutCommand) error
}

type deleteUserUseCase interface {
	Execute(ctx context.Context, cmd usecases.DeleteUserCommand) error
}
