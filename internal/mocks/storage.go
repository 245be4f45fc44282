package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/bananaquest-server/internal/model"
)

type Storage struct {
	mock.Mock
}

func NewStorage(t testingT) *Storage {
	m := &Storage{}
	register(&m.Mock, t)
	return m
}

func (m *Storage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	return m.Called(ctx, key, reader, size, contentType).Error(0)
}

func (m *Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (m *Storage) Stat(ctx context.Context, key string) (model.ObjectInfo, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(model.ObjectInfo), args.Error(1)
}

func (m *Storage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
