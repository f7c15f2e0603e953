package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cloudtalk/internal/mocks"
	"cloudtalk/internal/models"
	"cloudtalk/internal/repositories"
)

func setupDataRouter(handler *DataHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/data", handler.GetDocument)
	r.PUT("/api/data", handler.PutDocument)
	r.GET("/healthz", handler.Healthz)
	return r
}

func TestGetDocumentSuccess(t *testing.T) {
	repo := new(mocks.DocumentRepositoryMock)
	router := setupDataRouter(NewDataHandler(repo))

	body := json.RawMessage(`{"users":[{"uid":"u1"}],"chats":[]}`)
	repo.On("Get", mock.Anything).Return(body, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var doc models.Document
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&doc))
	require.Len(t, doc.Users, 1)
	repo.AssertExpectations(t)
}

func TestGetDocumentEmptyStoreBootstraps(t *testing.T) {
	repo := new(mocks.DocumentRepositoryMock)
	router := setupDataRouter(NewDataHandler(repo))

	repo.On("Get", mock.Anything).Return(nil, repositories.ErrDocumentNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"users":[],"chats":[]}`, rec.Body.String())
	repo.AssertExpectations(t)
}

func TestGetDocumentRepoError(t *testing.T) {
	repo := new(mocks.DocumentRepositoryMock)
	router := setupDataRouter(NewDataHandler(repo))

	repo.On("Get", mock.Anything).Return(nil, assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	repo.AssertExpectations(t)
}

func TestPutDocumentStoresWholesale(t *testing.T) {
	repo := new(mocks.DocumentRepositoryMock)
	router := setupDataRouter(NewDataHandler(repo))

	payload := `{"users":[],"chats":[{"id":"c1","users":["a","b"],"messages":[]}]}`
	repo.On("Replace", mock.Anything, json.RawMessage(payload)).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPut, "/api/data", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, payload, rec.Body.String())
	repo.AssertExpectations(t)
}

func TestPutDocumentRejectsMalformedBody(t *testing.T) {
	repo := new(mocks.DocumentRepositoryMock)
	router := setupDataRouter(NewDataHandler(repo))

	req := httptest.NewRequest(http.MethodPut, "/api/data", bytes.NewBufferString(`{"users": nope`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}

func TestPutDocumentRepoError(t *testing.T) {
	repo := new(mocks.DocumentRepositoryMock)
	router := setupDataRouter(NewDataHandler(repo))

	repo.On("Replace", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	req := httptest.NewRequest(http.MethodPut, "/api/data", bytes.NewBufferString(`{"users":[],"chats":[]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	repo.AssertExpectations(t)
}

func TestHealthz(t *testing.T) {
	router := setupDataRouter(NewDataHandler(new(mocks.DocumentRepositoryMock)))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
