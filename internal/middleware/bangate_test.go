package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emilythestrangee/gamevault/backend/internal/database"
	"github.com/emilythestrangee/gamevault/backend/internal/models"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, isAdmin bool) *models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		IsAdmin:  isAdmin,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func asUser(userID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

// gatedRouter mounts BanGate behind an identity stub, mirroring the real
// route layout so FullPath prefixes line up with the exempt list.
func gatedRouter(db *gorm.DB, userID int) *gin.Engine {
	r := gin.New()
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }

	api := r.Group("/api")
	api.Use(asUser(userID), BanGate(db))
	{
		api.GET("/me", ok)
		api.POST("/logout", ok)
		api.GET("/ban-notice", ok)
		api.POST("/notifications/read", ok)

		consumer := api.Group("")
		consumer.Use(RequireConsumer())
		consumer.POST("/checkout", ok)

		admin := api.Group("/admin")
		admin.Use(RequireAdmin())
		admin.GET("", ok)
	}
	return r
}

func perform(t *testing.T, router http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func banUser(t *testing.T, db *gorm.DB, userID int, bannedAt time.Time, durationDays *int) {
	t.Helper()

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"is_banned":         true,
		"banned_at":         bannedAt,
		"ban_reason":        "spam",
		"ban_duration_days": durationDays,
	}).Error)
}

func TestBanGateBlocksBannedUsers(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "troll", false)
	banUser(t, db, user.ID, time.Now().UTC(), nil)

	r := gatedRouter(db, user.ID)

	w := perform(t, r, http.MethodGet, "/api/me")
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Your account is banned")
	assert.Contains(t, w.Body.String(), "spam")

	// Exempt routes stay reachable
	for _, target := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/logout"},
		{http.MethodGet, "/api/ban-notice"},
		{http.MethodPost, "/api/notifications/read"},
	} {
		w := perform(t, r, target.method, target.path)
		assert.Equal(t, http.StatusOK, w.Code, target.path)
	}
}

func TestBanGateLiftsLapsedTemporaryBan(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "reformed", false)
	duration := 2
	banUser(t, db, user.ID, time.Now().UTC().Add(-3*24*time.Hour), &duration)

	r := gatedRouter(db, user.ID)

	w := perform(t, r, http.MethodGet, "/api/me")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.False(t, fresh.IsBanned)
}

func TestBanGateRunsOverdueSweep(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "visitor", false)
	lender := createUser(t, db, "lender", false)
	borrower := createUser(t, db, "borrower", false)

	game := models.Game{Title: "Bloodborne", Platform: "PS4", Price: 19.99, IsAvailable: true}
	require.NoError(t, db.Create(&game).Error)

	returnDate := time.Now().UTC().Add(-24 * time.Hour)
	lending := models.GameLending{
		LenderID:   lender.ID,
		BorrowerID: &borrower.ID,
		GameID:     game.ID,
		ReturnDate: &returnDate,
	}
	require.NoError(t, db.Create(&lending).Error)

	w := perform(t, gatedRouter(db, user.ID), http.MethodGet, "/api/me")
	require.Equal(t, http.StatusOK, w.Code)

	var fresh models.GameLending
	require.NoError(t, db.First(&fresh, lending.ID).Error)
	assert.True(t, fresh.IsOverdue)
}

func TestRequireConsumerRejectsAdmins(t *testing.T) {
	db := setupTestDB(t)
	admin := createUser(t, db, "admin", true)
	user := createUser(t, db, "shopper", false)

	w := perform(t, gatedRouter(db, admin.ID), http.MethodPost, "/api/checkout")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = perform(t, gatedRouter(db, user.ID), http.MethodPost, "/api/checkout")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdminRejectsConsumers(t *testing.T) {
	db := setupTestDB(t)
	admin := createUser(t, db, "admin", true)
	user := createUser(t, db, "shopper", false)

	w := perform(t, gatedRouter(db, user.ID), http.MethodGet, "/api/admin")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = perform(t, gatedRouter(db, admin.ID), http.MethodGet, "/api/admin")
	assert.Equal(t, http.StatusOK, w.Code)
}
