package controllers

import (
	"context"
	"errors"
	"gin-marketplace/apperrors"
	"gin-marketplace/constants"
	"gin-marketplace/dto"
	"gin-marketplace/middlewares"
	"gin-marketplace/models"
	"gin-marketplace/services"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockCartService struct {
	mock.Mock
}

func (m *mockCartService) AddToCart(ctx context.Context, userID uuid.UUID, itemID string) (bool, error) {
	args := m.Called(ctx, userID, itemID)
	return args.Bool(0), args.Error(1)
}

func (m *mockCartService) RemoveFromCart(ctx context.Context, userID uuid.UUID, itemID string) error {
	return m.Called(ctx, userID, itemID).Error(0)
}

func (m *mockCartService) PurchaseItems(ctx context.Context, userID uuid.UUID) (*services.Receipt, error) {
	args := m.Called(ctx, userID)
	receipt, _ := args.Get(0).(*services.Receipt)
	return receipt, args.Error(1)
}

func (m *mockCartService) ViewCart(ctx context.Context, userID uuid.UUID) (*services.CartView, error) {
	args := m.Called(ctx, userID)
	view, _ := args.Get(0).(*services.CartView)
	return view, args.Error(1)
}

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Signup(ctx context.Context, input dto.SignupFields) error {
	return m.Called(ctx, input).Error(0)
}

func (m *mockAuthService) Login(ctx context.Context, email string, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *mockAuthService) GetSessionFromToken(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	session, _ := args.Get(0).(*models.Session)
	return session, args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newCartRouter(service services.ICartService, userID uuid.UUID) *gin.Engine {
	auth := new(mockAuthService)
	auth.On("GetSessionFromToken", mock.Anything, "token").Return(&models.Session{UserID: userID}, nil)

	controller := NewCartController(service)
	r := gin.New()
	r.Use(apperrors.ErrorMiddleware(), middlewares.FlashMiddleware(false), middlewares.SessionMiddleware(auth, false))
	r.POST("/users/cart/:id/add", controller.Add)
	r.POST("/users/cart/purchase", controller.Purchase)
	return r
}

func post(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.AddCookie(&http.Cookie{Name: constants.SessionCookie, Value: "token"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCartAddOutcomes(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.NewString()

	tests := []struct {
		name     string
		added    bool
		err      error
		status   int
		location string
	}{
		{name: "added", added: true, status: http.StatusFound, location: constants.PathCart},
		{name: "already in cart", added: false, status: http.StatusFound, location: constants.PathCart},
		{name: "user gone", err: apperrors.NotFound(constants.ErrUserNotFound), status: http.StatusFound, location: constants.PathLogin},
		{name: "conflict", err: apperrors.Conflict(constants.ErrCartConflict, nil), status: http.StatusFound, location: constants.PathCart},
		{name: "store failure", err: errors.New("disk full"), status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(mockCartService)
			service.On("AddToCart", mock.Anything, userID, itemID).Return(tt.added, tt.err)

			w := post(newCartRouter(service, userID), "/users/cart/"+itemID+"/add")

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
			service.AssertExpectations(t)
		})
	}
}

func TestCartPurchaseOutcomes(t *testing.T) {
	userID := uuid.New()

	t.Run("empty cart", func(t *testing.T) {
		service := new(mockCartService)
		service.On("PurchaseItems", mock.Anything, userID).Return(nil, services.ErrCartEmpty)

		w := post(newCartRouter(service, userID), "/users/cart/purchase")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, constants.PathCart, w.Header().Get("Location"))
	})

	t.Run("purchased", func(t *testing.T) {
		service := new(mockCartService)
		receipt := &services.Receipt{ItemCount: 1, Total: models.USD(decimal.RequireFromString("99.99"))}
		service.On("PurchaseItems", mock.Anything, userID).Return(receipt, nil)

		w := post(newCartRouter(service, userID), "/users/cart/purchase")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, constants.PathCart, w.Header().Get("Location"))
	})

	t.Run("save failure", func(t *testing.T) {
		service := new(mockCartService)
		service.On("PurchaseItems", mock.Anything, userID).Return(nil, errors.New("disk full"))

		w := post(newCartRouter(service, userID), "/users/cart/purchase")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Unexpected error"}`, w.Body.String())
	})
}

func TestLoginSetsSessionCookie(t *testing.T) {
	auth := new(mockAuthService)
	auth.On("Login", mock.Anything, "test@example.com", "password123").Return("signed-token", nil)
	auth.On("Login", mock.Anything, "test@example.com", "wrongpass").Return("", apperrors.Unauthorized(constants.ErrIncorrectPass))

	controller := NewAuthController(auth, time.Hour, true)
	r := gin.New()
	r.POST("/users/login", controller.Login)

	send := func(password string) *httptest.ResponseRecorder {
		form := url.Values{"email": {"test@example.com"}, "password": {password}}
		req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := send("password123")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, constants.PathProfile, w.Header().Get("Location"))
	var session *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == constants.SessionCookie {
			session = cookie
		}
	}
	if assert.NotNil(t, session) {
		assert.Equal(t, "signed-token", session.Value)
		assert.True(t, session.HttpOnly)
		assert.True(t, session.Secure)
	}

	w = send("wrongpass")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, constants.PathLogin, w.Header().Get("Location"))
	auth.AssertExpectations(t)
}
