package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"motorpool/infras/otel"
	"motorpool/infras/postgres"
	"motorpool/internal/domains/weekend/model"
	gDto "motorpool/shared/dto"
	gRepo "motorpool/shared/repository"
)

type WeekendRequest interface {
	Insert(ctx context.Context, model model.WeekendRequest) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.WeekendRequest, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.WeekendRequest, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.WeekendRequest]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) WeekendRequest {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.WeekendRequest](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
