package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"shareit/infras/otel"
	"shareit/infras/postgres"
	"shareit/internal/domains/item/model"
	gDto "shareit/shared/dto"
	gRepo "shareit/shared/repository"
)

type Item interface {
	Insert(ctx context.Context, model model.Item) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Item, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Item, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type Comment interface {
	Insert(ctx context.Context, model model.Comment) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Comment, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Comment, error)
}

type itemRepository struct {
	gRepo.Repository[model.Item]
}

type commentRepository struct {
	gRepo.Repository[model.Comment]
}

func New(db *postgres.Connection, otel otel.Otel) Item {
	return &itemRepository{
		Repository: gRepo.NewRepository[model.Item](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func NewComment(db *postgres.Connection, otel otel.Otel) Comment {
	return &commentRepository{
		Repository: gRepo.NewRepository[model.Comment](model.CommentEntityName, model.CommentTableName, model.CommentFieldID, db, otel),
	}
}
