package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/charry07/lavaca-app/internal/infrastructure/models"
	infraRepos "github.com/charry07/lavaca-app/internal/infrastructure/repositories"
	"github.com/charry07/lavaca-app/internal/interfaces/http/handlers"
	"github.com/charry07/lavaca-app/internal/interfaces/http/middleware"
	"github.com/charry07/lavaca-app/internal/usecases"
	"github.com/charry07/lavaca-app/pkg/jwt"
	"github.com/charry07/lavaca-app/pkg/redis"
)

const testOTPKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

var testDBCounter int

// testServer wires real usecases over an in-memory database and redis,
// exposing the same routes the server registers.
type testServer struct {
	router     *gin.Engine
	jwtService *jwt.JWTService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDBCounter++
	dsn := fmt.Sprintf("file:handlers_%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Participant{},
		&models.FeedEvent{},
		&models.FeedEventUser{},
		&models.Group{},
		&models.GroupMember{},
	))

	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("miniredis unavailable: %v", err)
	}
	t.Cleanup(srv.Close)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: srv.Addr()}))

	otpStore, err := redis.NewOTPStore(testOTPKey)
	require.NoError(t, err)

	userRepo := infraRepos.NewUserRepository(db)
	sessionRepo := infraRepos.NewSessionRepository(db)
	feedRepo := infraRepos.NewFeedEventRepository(db)
	groupRepo := infraRepos.NewGroupRepository(db)
	otpRepo := infraRepos.NewOTPRepository(otpStore, 5*time.Minute)
	uow := infraRepos.NewUnitOfWork(db)

	jwtService := jwt.NewJWTService("test-secret", 15*time.Minute, 7*24*time.Hour)

	feedUsecase := usecases.NewFeedUsecase(feedRepo, uow, 200, 50)
	authUsecase := usecases.NewAuthUsecase(userRepo, otpRepo, jwtService, 5*time.Minute, true)
	sessionUsecase := usecases.NewSessionUsecase(sessionRepo, userRepo, feedUsecase, uow)
	groupUsecase := usecases.NewGroupUsecase(groupRepo, userRepo)

	authHandler := handlers.NewAuthHandler(authUsecase)
	userHandler := handlers.NewUserHandler(authUsecase)
	sessionHandler := handlers.NewSessionHandler(sessionUsecase)
	feedHandler := handlers.NewFeedHandler(feedUsecase)
	groupHandler := handlers.NewGroupHandler(groupUsecase)

	router := gin.New()
	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/send-code", authHandler.SendCode)
	auth.POST("/verify-code", authHandler.VerifyCode)

	users := api.Group("/users")
	users.POST("/register", userHandler.Register)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", middleware.AuthMiddleware(jwtService), userHandler.Update)

	sessions := api.Group("/sessions")
	sessions.POST("", middleware.IdempotencyMiddleware(), sessionHandler.Create)
	sessions.GET("/user/:userId", sessionHandler.ListByUser)
	sessions.GET("/:joinCode", sessionHandler.Get)
	sessions.GET("/:joinCode/qr", sessionHandler.QR)
	sessions.POST("/:joinCode/join", sessionHandler.Join)
	sessions.POST("/:joinCode/split", sessionHandler.Split)
	sessions.POST("/:joinCode/pay", sessionHandler.Pay)

	feed := api.Group("/feed")
	feed.GET("", feedHandler.List)
	feed.GET("/user/:userId", feedHandler.ListByUser)

	groups := api.Group("/groups")
	groups.POST("", groupHandler.Create)
	groups.GET("/user/:userId", groupHandler.ListByUser)
	groups.GET("/:id", groupHandler.Get)
	groups.PUT("/:id", middleware.AuthMiddleware(jwtService), groupHandler.Update)
	groups.POST("/:id/members", groupHandler.AddMembers)
	groups.DELETE("/:id/members/:userId", groupHandler.RemoveMember)
	groups.DELETE("/:id", middleware.AuthMiddleware(jwtService), groupHandler.Delete)

	return &testServer{router: router, jwtService: jwtService}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// registerUser walks the full verification flow and returns the user ID
// and access token.
func (s *testServer) registerUser(t *testing.T, phone, displayName, username string) (string, string) {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/v1/auth/send-code", map[string]string{"phone": phone}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/auth/verify-code", map[string]string{"phone": phone, "code": "123456"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/users/register", map[string]string{
		"phone":       phone,
		"displayName": displayName,
		"username":    username,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeJSON(t, w)
	user := body["user"].(map[string]interface{})
	tokens := body["tokens"].(map[string]interface{})
	return user["id"].(string), tokens["accessToken"].(string)
}
