package user

import (
	"blog_api/internal/auth"
	"blog_api/internal/observability"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	observability.InitMetrics()
	m.Run()
}

// MockUserService is a mock implementation of UserServiceInterface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Signup(ctx context.Context, name, email, password string) (*User, string, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*User), args.String(1), args.Error(2)
}

func (m *MockUserService) Signin(ctx context.Context, email, password string) (*User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*User), args.String(1), args.Error(2)
}

func (m *MockUserService) List(ctx context.Context) ([]*User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id string) (*Projection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Projection), args.Error(1)
}

func (m *MockUserService) UpdateSelf(ctx context.Context, callerID, name, email, password string) (*User, error) {
	args := m.Called(ctx, callerID, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserService) DeleteByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestSignupHandler_Success(t *testing.T) {
	mockService := new(MockUserService)
	router := setupTestRouter()
	controller := NewUserController(mockService)

	newUser := &User{ID: "u-1", Name: "A", Email: "a@x.com", Password: "$2a$10$secret"}
	mockService.On("Signup", mock.Anything, "A", "a@x.com", "p").Return(newUser, "issued-token", nil)

	router.POST("/user/signup", controller.Signup)

	body := `{"name":"A","email":"a@x.com","password":"p"}`
	req := httptest.NewRequest("POST", "/user/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "issued-token", response["token"])

	// The hashed credential never appears in any response.
	returnedUser := response["newUser"].(map[string]interface{})
	assert.Equal(t, "a@x.com", returnedUser["email"])
	assert.NotContains(t, returnedUser, "password")

	mockService.AssertExpectations(t)
}

func TestSignupHandler_DuplicateEmail(t *testing.T) {
	mockService := new(MockUserService)
	router := setupTestRouter()
	controller := NewUserController(mockService)

	mockService.On("Signup", mock.Anything, "A", "a@x.com", "p").Return(nil, "", ErrEmailInUse)

	router.POST("/user/signup", controller.Signup)

	body := `{"name":"A","email":"a@x.com","password":"p"}`
	req := httptest.NewRequest("POST", "/user/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "this email is already in use")

	mockService.AssertExpectations(t)
}

func TestSignupHandler_MissingFields(t *testing.T) {
	mockService := new(MockUserService)
	router := setupTestRouter()
	controller := NewUserController(mockService)

	mockService.On("Signup", mock.Anything, "", "", "").Return(nil, "", ErrMissingFields)

	router.POST("/user/signup", controller.Signup)

	req := httptest.NewRequest("POST", "/user/signup", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "please fill in all fields.")

	mockService.AssertExpectations(t)
}

func TestSigninHandler_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantBody   string
	}{
		{
			name:       "Unknown email",
			serviceErr: ErrNotRegistered,
			wantBody:   "you are not registered.",
		},
		{
			name:       "Wrong password",
			serviceErr: ErrPasswordMismatch,
			wantBody:   "passwords do not match.",
		},
		{
			name:       "Missing fields",
			serviceErr: ErrMissingFields,
			wantBody:   "please fill in all fields.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockUserService)
			router := setupTestRouter()
			controller := NewUserController(mockService)

			mockService.On("Signin", mock.Anything, "a@x.com", "p").Return(nil, "", tt.serviceErr)

			router.POST("/user/signin", controller.Signin)

			body := `{"email":"a@x.com","password":"p"}`
			req := httptest.NewRequest("POST", "/user/signin", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)

			mockService.AssertExpectations(t)
		})
	}
}

func TestSigninHandler_SuccessStripsPassword(t *testing.T) {
	mockService := new(MockUserService)
	router := setupTestRouter()
	controller := NewUserController(mockService)

	account := &User{ID: "u-1", Name: "A", Email: "a@x.com", Password: "$2a$10$secret"}
	mockService.On("Signin", mock.Anything, "a@x.com", "p").Return(account, "issued-token", nil)

	router.POST("/user/signin", controller.Signin)

	body := `{"email":"a@x.com","password":"p"}`
	req := httptest.NewRequest("POST", "/user/signin", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "issued-token", response["token"])

	returnedUser := response["user"].(map[string]interface{})
	assert.NotContains(t, returnedUser, "password")

	mockService.AssertExpectations(t)
}

func TestGetByIDHandler_AbsentUserIsNull(t *testing.T) {
	mockService := new(MockUserService)
	router := setupTestRouter()
	controller := NewUserController(mockService)

	mockService.On("GetByID", mock.Anything, "missing-id").Return(nil, nil)

	router.GET("/user/:id", controller.GetByID)

	req := httptest.NewRequest("GET", "/user/missing-id", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Nil(t, response["user"])

	mockService.AssertExpectations(t)
}

func TestGetByIDHandler_NameProjection(t *testing.T) {
	mockService := new(MockUserService)
	router := setupTestRouter()
	controller := NewUserController(mockService)

	mockService.On("GetByID", mock.Anything, "u-1").Return(&Projection{Name: "A"}, nil)

	router.GET("/user/:id", controller.GetByID)

	req := httptest.NewRequest("GET", "/user/u-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "A", response["user"]["name"])
	assert.NotContains(t, response["user"], "email")

	mockService.AssertExpectations(t)
}

func TestDeleteByIDHandler_AdminShape(t *testing.T) {
	mockService := new(MockUserService)
	router := setupTestRouter()
	controller := NewUserController(mockService)

	mockService.On("DeleteByID", mock.Anything, "u-1").Return(true, nil)

	router.DELETE("/user/delete", controller.DeleteByID)

	body := `{"userId":"u-1"}`
	req := httptest.NewRequest("DELETE", "/user/delete", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":true`)

	mockService.AssertExpectations(t)
}

func TestDeleteSelfHandler_UsesCallerIdentity(t *testing.T) {
	mockService := new(MockUserService)
	router := setupTestRouter()
	controller := NewUserController(mockService)

	mockService.On("DeleteByID", mock.Anything, "caller-id").Return(true, nil)

	router.DELETE("/user/delete", func(c *gin.Context) {
		c.Set(auth.UserIDKey, "caller-id")
		controller.DeleteSelf(c)
	})

	req := httptest.NewRequest("DELETE", "/user/delete", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":true`)

	mockService.AssertExpectations(t)
}

func TestDeleteHandler_ZeroRowsIs404(t *testing.T) {
	mockService := new(MockUserService)
	router := setupTestRouter()
	controller := NewUserController(mockService)

	mockService.On("DeleteByID", mock.Anything, "missing-id").Return(false, nil)

	router.DELETE("/user/delete", controller.DeleteByID)

	body := `{"userId":"missing-id"}`
	req := httptest.NewRequest("DELETE", "/user/delete", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":false`)

	mockService.AssertExpectations(t)
}

func TestUpdateSelfHandler_Success(t *testing.T) {
	mockService := new(MockUserService)
	router := setupTestRouter()
	controller := NewUserController(mockService)

	updated := &User{ID: "caller-id", Name: "B", Email: "b@x.com", Password: "$2a$10$rehashed"}
	mockService.On("UpdateSelf", mock.Anything, "caller-id", "B", "b@x.com", "newpass").Return(updated, nil)

	router.PUT("/user/update", func(c *gin.Context) {
		c.Set(auth.UserIDKey, "caller-id")
		controller.UpdateSelf(c)
	})

	body := `{"name":"B","email":"b@x.com","password":"newpass"}`
	req := httptest.NewRequest("PUT", "/user/update", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	returnedUser := response["newUser"].(map[string]interface{})
	assert.Equal(t, "B", returnedUser["name"])
	assert.NotContains(t, returnedUser, "password")

	mockService.AssertExpectations(t)
}

func TestListHandler(t *testing.T) {
	mockService := new(MockUserService)
	router := setupTestRouter()
	controller := NewUserController(mockService)

	users := []*User{
		{ID: "u-1", Name: "A", Email: "a@x.com", Password: "hash-a"},
		{ID: "u-2", Name: "B", Email: "b@x.com", Password: "hash-b"},
	}
	mockService.On("List", mock.Anything).Return(users, nil)

	router.GET("/user/", controller.List)

	req := httptest.NewRequest("GET", "/user/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "hash-a")
	assert.NotContains(t, w.Body.String(), "hash-b")

	var response map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response["users"], 2)

	mockService.AssertExpectations(t)
}
