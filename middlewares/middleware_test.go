package middlewares

import (
	"context"
	"encoding/json"
	"gin-marketplace/apperrors"
	"gin-marketplace/constants"
	"gin-marketplace/dto"
	"gin-marketplace/models"
	"gin-marketplace/services"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockItemService struct {
	mock.Mock
}

func (m *mockItemService) FindAll(ctx context.Context, filter dto.ItemFilter) ([]models.Item, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *mockItemService) FindById(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	args := m.Called(ctx, itemID)
	item, _ := args.Get(0).(*models.Item)
	return item, args.Error(1)
}

func (m *mockItemService) Create(ctx context.Context, fields dto.ItemFields, sellerID uuid.UUID) (*models.Item, error) {
	args := m.Called(ctx, fields, sellerID)
	item, _ := args.Get(0).(*models.Item)
	return item, args.Error(1)
}

func (m *mockItemService) Update(ctx context.Context, target *models.Item, fields dto.ItemFields) (*models.Item, error) {
	args := m.Called(ctx, target, fields)
	item, _ := args.Get(0).(*models.Item)
	return item, args.Error(1)
}

func (m *mockItemService) Delete(ctx context.Context, itemID uuid.UUID) error {
	return m.Called(ctx, itemID).Error(0)
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

// withIdentity stands in for SessionMiddleware.
func withIdentity(userID uuid.UUID) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(identityKey, Identity{UserID: userID, Token: "token"})
		ctx.Next()
	}
}

func newGuardedRouter(identity gin.HandlerFunc, guards ...Guard) (*gin.Engine, *bool) {
	reached := false
	r := gin.New()
	r.Use(apperrors.ErrorMiddleware(), FlashMiddleware(false), identity)
	r.GET("/items/:id", Guarded(guards...), func(ctx *gin.Context) {
		reached = true
		ctx.JSON(http.StatusOK, gin.H{"item": CurrentItem(ctx)})
	})
	return r, &reached
}

func flashFrom(t *testing.T, w *httptest.ResponseRecorder) []Flash {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == constants.FlashCookie && cookie.Value != "" {
			flashes, err := decodeFlashes(cookie.Value)
			require.NoError(t, err)
			return flashes
		}
	}
	return nil
}

func TestRequireAuthenticatedRedirectsAnonymous(t *testing.T) {
	r, reached := newGuardedRouter(withIdentity(uuid.Nil), RequireAuthenticated)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, constants.PathLogin, w.Header().Get("Location"))
	assert.Equal(t, []Flash{{Kind: FlashError, Message: constants.ErrLoginRequired}}, flashFrom(t, w))
	assert.False(t, *reached)
}

func TestRequireGuestRedirectsSignedIn(t *testing.T) {
	r, reached := newGuardedRouter(withIdentity(uuid.New()), RequireGuest)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/x", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, constants.PathProfile, w.Header().Get("Location"))
	assert.Equal(t, []Flash{{Kind: FlashInfo, Message: constants.ErrAlreadyLoggedIn}}, flashFrom(t, w))
	assert.False(t, *reached)
}

func TestValidateIdentifier(t *testing.T) {
	items := new(mockItemService)
	r, reached := newGuardedRouter(withIdentity(uuid.New()), ValidateIdentifier, RequireAuthenticated, RequireOwnership(items))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/invalid-id", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, constants.PathItems, w.Header().Get("Location"))
	assert.Equal(t, []Flash{{Kind: FlashError, Message: constants.ErrInvalidID}}, flashFrom(t, w))
	assert.False(t, *reached)
	items.AssertNotCalled(t, "FindById", mock.Anything, mock.Anything)
}

func TestRequireOwnership(t *testing.T) {
	owner := uuid.New()
	item := &models.Item{ID: uuid.New(), Title: "Laptop", SellerID: owner}

	tests := []struct {
		name     string
		userID   uuid.UUID
		found    *models.Item
		err      error
		status   int
		location string
		reached  bool
	}{
		{name: "owner", userID: owner, found: item, status: http.StatusOK, reached: true},
		{name: "not owner", userID: uuid.New(), found: item, status: http.StatusFound, location: constants.PathItems},
		{name: "missing", userID: owner, err: apperrors.NotFound("Cannot find an item"), status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := new(mockItemService)
			items.On("FindById", mock.Anything, item.ID).Return(tt.found, tt.err)
			r, reached := newGuardedRouter(withIdentity(tt.userID), ValidateIdentifier, RequireAuthenticated, RequireOwnership(items))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/"+item.ID.String(), nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
			assert.Equal(t, tt.reached, *reached)
			items.AssertExpectations(t)
		})
	}
}

func TestRequireOwnershipDenialMessage(t *testing.T) {
	item := &models.Item{ID: uuid.New(), SellerID: uuid.New()}
	items := new(mockItemService)
	items.On("FindById", mock.Anything, item.ID).Return(item, nil)
	r, _ := newGuardedRouter(withIdentity(uuid.New()), RequireOwnership(items))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/"+item.ID.String(), nil))

	assert.Equal(t, []Flash{{Kind: FlashError, Message: constants.ErrNotItemOwner}}, flashFrom(t, w))
}

func TestSessionMiddleware(t *testing.T) {
	userID := uuid.New()
	auth := new(mockAuthService)
	auth.On("GetSessionFromToken", mock.Anything, "good").Return(&models.Session{ID: "s1", UserID: userID}, nil)
	auth.On("GetSessionFromToken", mock.Anything, "stale").Return(nil, services.ErrInvalidSession)

	var seen Identity
	r := gin.New()
	r.Use(SessionMiddleware(auth, false))
	r.GET("/", func(ctx *gin.Context) {
		seen = CurrentIdentity(ctx)
		ctx.Status(http.StatusOK)
	})

	tests := []struct {
		name    string
		cookie  string
		want    Identity
		cleared bool
	}{
		{name: "no cookie", want: Identity{}},
		{name: "valid session", cookie: "good", want: Identity{UserID: userID, Token: "good"}},
		{name: "invalid session", cookie: "stale", want: Identity{}, cleared: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: constants.SessionCookie, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, seen)
			assert.Equal(t, tt.cleared, len(w.Result().Cookies()) > 0)
		})
	}
}

func TestFlashRoundTrip(t *testing.T) {
	r := gin.New()
	r.Use(FlashMiddleware(false))
	r.POST("/set", func(ctx *gin.Context) {
		SetFlash(ctx, FlashSuccess, "first")
		RedirectWithFlash(ctx, "/get", FlashInfo, "second")
	})
	r.GET("/get", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"flashes": Flashes(ctx)})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/set", nil))
	require.Equal(t, http.StatusFound, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(cookies[len(cookies)-1])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body struct {
		Flashes []Flash `json:"flashes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []Flash{{Kind: FlashSuccess, Message: "first"}, {Kind: FlashInfo, Message: "second"}}, body.Flashes)

	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, constants.FlashCookie, cleared[0].Name)
	assert.Less(t, cleared[0].MaxAge, 0)
}

func TestFlashIgnoresGarbageCookie(t *testing.T) {
	r := gin.New()
	r.Use(FlashMiddleware(false))
	r.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"flashes": Flashes(ctx)})
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: constants.FlashCookie, Value: "%%%not-base64"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"flashes":[]}`, w.Body.String())
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.POST("/users/login", RateLimitMiddleware(1, 2), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users/login", nil))
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestMethodOverride(t *testing.T) {
	r := gin.New()
	r.DELETE("/items/:id", func(ctx *gin.Context) { ctx.String(http.StatusOK, "deleted") })
	r.PUT("/items/:id", func(ctx *gin.Context) { ctx.String(http.StatusOK, ctx.PostForm("title")) })
	handler := MethodOverride(r)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/items/1?_method=DELETE", nil))
	assert.Equal(t, "deleted", w.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/items/1", strings.NewReader("_method=put&title=Lamp"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, "Lamp", w.Body.String())
}

func TestFlashCookieFollowsSecureFlag(t *testing.T) {
	for _, secure := range []bool{false, true} {
		r := gin.New()
		r.Use(FlashMiddleware(secure))
		r.POST("/items", func(ctx *gin.Context) {
			RedirectWithFlash(ctx, "/items", FlashSuccess, "Item created successfully.")
		})

		req := httptest.NewRequest(http.MethodPost, "/items", nil)
		req.AddCookie(&http.Cookie{Name: constants.FlashCookie, Value: "W10"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 2)
		for _, cookie := range cookies {
			assert.Equal(t, constants.FlashCookie, cookie.Name)
			assert.Equal(t, secure, cookie.Secure)
			assert.True(t, cookie.HttpOnly)
		}
	}
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(60, 5)
	clock := time.Now()
	rl.now = func() time.Time { return clock }
	rl.lastSweep = clock

	first := rl.GetLimiter("192.0.2.1")
	assert.Same(t, first, rl.GetLimiter("192.0.2.1"))

	clock = clock.Add(5 * time.Minute)
	rl.GetLimiter("192.0.2.2")
	assert.Equal(t, 2, rl.Len())

	clock = clock.Add(minIdleTTL - 5*time.Minute)
	rl.GetLimiter("192.0.2.2")
	assert.Equal(t, 1, rl.Len())
	assert.NotSame(t, first, rl.GetLimiter("192.0.2.1"))
	assert.Equal(t, 2, rl.Len())
}

func TestRateLimiterKeepsClientsUntilRefilled(t *testing.T) {
	rl := NewRateLimiter(1, 30)
	assert.Equal(t, 30*time.Minute, rl.idleTTL)
}
