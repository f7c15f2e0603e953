package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"cloudtalk/internal/blob"
	"cloudtalk/internal/models"
	"cloudtalk/internal/repositories"
)

type BlobClientMock struct {
	mock.Mock
}

func (m *BlobClientMock) Fetch(ctx context.Context) (models.Document, error) {
	args := m.Called(ctx)
	var doc models.Document
	if val := args.Get(0); val != nil {
		doc = val.(models.Document)
	}
	return doc, args.Error(1)
}

func (m *BlobClientMock) Put(ctx context.Context, doc models.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

type DocumentRepositoryMock struct {
	mock.Mock
}

func (m *DocumentRepositoryMock) Get(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	var body json.RawMessage
	if val := args.Get(0); val != nil {
		body = val.(json.RawMessage)
	}
	return body, args.Error(1)
}

func (m *DocumentRepositoryMock) Replace(ctx context.Context, body json.RawMessage) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}

var _ blob.Client = (*BlobClientMock)(nil)
var _ repositories.DocumentRepository = (*DocumentRepositoryMock)(nil)
