package products

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"techsheet-backend/internal/domain"
	"techsheet-backend/internal/middleware"
	"techsheet-backend/internal/pkg/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type productEnv struct {
	app     *fiber.App
	service *Service
	rdb     *redis.Client
}

// setupProductApp wires the product routes with the same session, auth and
// permission middleware the real app uses.
func setupProductApp(t *testing.T) *productEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Group{}, &domain.Product{}, &domain.CosmeticDetails{}, &domain.SupplementDetails{}))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	sessionHandler, rdb, err := middleware.Session(middleware.SessionConfig{RedisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	service := &Service{DB: db}
	h := &Handlers{Service: service}

	app := fiber.New()
	app.Use(sessionHandler)
	g := app.Group("/api/v1/products", middleware.RequireAuth())
	g.Post("/", middleware.AuthorizePermission(constants.CreateProduct), h.CreateProduct)
	g.Get("/", middleware.AuthorizePermission(constants.ViewProducts), h.ListProducts)
	g.Get("/:id/autosave", middleware.AuthorizePermission(constants.EditProduct), h.GetAutosave)
	g.Put("/:id/autosave", middleware.AuthorizePermission(constants.EditProduct), h.Autosave)
	g.Post("/:id/approve", middleware.AuthorizePermission(constants.ApproveProduct), h.Approve)
	g.Get("/:id", middleware.AuthorizePermission(constants.ViewProducts), h.GetProduct)
	g.Put("/:id", middleware.AuthorizePermission(constants.EditProduct), h.UpdateProduct)
	g.Delete("/:id", middleware.AuthorizePermission(constants.DeleteProduct), h.DeleteProduct)

	return &productEnv{app: app, service: service, rdb: rdb}
}

// seedSession writes a session straight into Redis and returns its cookie,
// skipping the login flow.
func seedSession(t *testing.T, env *productEnv, user domain.User) *http.Cookie {
	require.NoError(t, env.service.DB.Create(&user).Error)

	sid := uuid.New().String()
	data := map[string]interface{}{
		"user": map[string]interface{}{
			"user_id":        float64(user.ID),
			"username":       user.Username,
			"name":           user.Name,
			"role":           user.Role,
			"allowed_groups": user.AllowedGroupIDs(),
		},
	}
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, env.rdb.Set(context.Background(), middleware.SessionRedisPrefix+sid, b, 0).Err())
	return &http.Cookie{Name: middleware.SessionCookieName, Value: sid}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func testUser(username, role string, groups []string) domain.User {
	u := domain.User{Username: username, PasswordHash: "x", Email: username + "@example.com", Name: username, Role: role, Approved: true}
	u.SetAllowedGroupIDs(groups)
	return u
}

func doJSON(t *testing.T, env *productEnv, method, path string, body interface{}, cookie *http.Cookie) *http.Response {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestProducts_RequireSession(t *testing.T) {
	env := setupProductApp(t)

	resp := doJSON(t, env, "GET", "/api/v1/products/", nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCreateProduct_CompilerAllowed(t *testing.T) {
	env := setupProductApp(t)
	cookie := seedSession(t, env, testUser("carla", constants.Compiler, nil))

	resp := doJSON(t, env, "POST", "/api/v1/products/", map[string]interface{}{
		"product": map[string]interface{}{"name": "Crema Mani", "type": "cosmetic"},
		"details": map[string]interface{}{"color": "Bianco"},
	}, cookie)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestCreateProduct_ViewerForbidden(t *testing.T) {
	env := setupProductApp(t)
	cookie := seedSession(t, env, testUser("vera", constants.Viewer, []string{"1"}))

	resp := doJSON(t, env, "POST", "/api/v1/products/", map[string]interface{}{
		"product": map[string]interface{}{"name": "Crema Mani", "type": "cosmetic"},
	}, cookie)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

// A viewer fetching a product outside their allowed groups gets 403, never
// 404: the product's existence is not hidden, only its content.
func TestGetProduct_ViewerOutsideGroup(t *testing.T) {
	env := setupProductApp(t)

	group := domain.Group{Name: "Linea Viso"}
	require.NoError(t, env.service.DB.Create(&group).Error)
	other := domain.Group{Name: "Linea Corpo"}
	require.NoError(t, env.service.DB.Create(&other).Error)

	pd, err := env.service.CreateProduct(context.Background(), domain.Product{Name: "x", Type: domain.TypeCosmetic, GroupID: &other.ID}, nil, nil)
	require.NoError(t, err)

	cookie := seedSession(t, env, testUser("vera", constants.Viewer, []string{"1"}))

	resp := doJSON(t, env, "GET", "/api/v1/products/"+itoa(pd.Product.ID), nil, cookie)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestGetProduct_ViewerInsideGroup(t *testing.T) {
	env := setupProductApp(t)

	group := domain.Group{Name: "Linea Viso"}
	require.NoError(t, env.service.DB.Create(&group).Error)

	pd, err := env.service.CreateProduct(context.Background(), domain.Product{Name: "x", Type: domain.TypeCosmetic, GroupID: &group.ID}, nil, nil)
	require.NoError(t, err)

	cookie := seedSession(t, env, testUser("vera", constants.Viewer, []string{itoa(group.ID)}))

	resp := doJSON(t, env, "GET", "/api/v1/products/"+itoa(pd.Product.ID), nil, cookie)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestListProducts_ViewerFiltered(t *testing.T) {
	env := setupProductApp(t)

	visible := domain.Group{Name: "Linea Viso"}
	require.NoError(t, env.service.DB.Create(&visible).Error)
	hidden := domain.Group{Name: "Linea Corpo"}
	require.NoError(t, env.service.DB.Create(&hidden).Error)

	_, err := env.service.CreateProduct(context.Background(), domain.Product{Name: "in", Type: domain.TypeCosmetic, GroupID: &visible.ID}, nil, nil)
	require.NoError(t, err)
	_, err = env.service.CreateProduct(context.Background(), domain.Product{Name: "out", Type: domain.TypeCosmetic, GroupID: &hidden.ID}, nil, nil)
	require.NoError(t, err)
	_, err = env.service.CreateProduct(context.Background(), domain.Product{Name: "ungrouped", Type: domain.TypeCosmetic}, nil, nil)
	require.NoError(t, err)

	cookie := seedSession(t, env, testUser("vera", constants.Viewer, []string{itoa(visible.ID)}))

	resp := doJSON(t, env, "GET", "/api/v1/products/", nil, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Products []domain.Product `json:"products"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data.Products, 1)
	assert.Equal(t, "in", body.Data.Products[0].Name)
}

func TestUpdateProduct_ViewerForbidden(t *testing.T) {
	env := setupProductApp(t)
	pd, err := env.service.CreateProduct(context.Background(), domain.Product{Name: "x", Type: domain.TypeCosmetic}, nil, nil)
	require.NoError(t, err)

	cookie := seedSession(t, env, testUser("vera", constants.Viewer, nil))

	resp := doJSON(t, env, "PUT", "/api/v1/products/"+itoa(pd.Product.ID), map[string]interface{}{
		"product": map[string]interface{}{"name": "y"},
	}, cookie)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestDeleteProduct_CompilerForbidden(t *testing.T) {
	env := setupProductApp(t)
	pd, err := env.service.CreateProduct(context.Background(), domain.Product{Name: "x", Type: domain.TypeCosmetic}, nil, nil)
	require.NoError(t, err)

	cookie := seedSession(t, env, testUser("carla", constants.Compiler, nil))

	resp := doJSON(t, env, "DELETE", "/api/v1/products/"+itoa(pd.Product.ID), nil, cookie)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestApprove_RouteRequiresAdministrator(t *testing.T) {
	env := setupProductApp(t)
	pd, err := env.service.CreateProduct(context.Background(), domain.Product{Name: "x", Type: domain.TypeCosmetic}, nil, nil)
	require.NoError(t, err)

	cookie := seedSession(t, env, testUser("carla", constants.Compiler, nil))
	resp := doJSON(t, env, "POST", "/api/v1/products/"+itoa(pd.Product.ID)+"/approve", nil, cookie)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	reloaded, err := env.service.GetProduct(context.Background(), pd.Product.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Product.IsApproved)
}

func TestApprove_AdministratorViaRoute(t *testing.T) {
	env := setupProductApp(t)
	pd, err := env.service.CreateProduct(context.Background(), domain.Product{Name: "x", Type: domain.TypeCosmetic}, nil, nil)
	require.NoError(t, err)

	cookie := seedSession(t, env, testUser("ada", constants.Administrator, nil))
	resp := doJSON(t, env, "POST", "/api/v1/products/"+itoa(pd.Product.ID)+"/approve", nil, cookie)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	reloaded, err := env.service.GetProduct(context.Background(), pd.Product.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Product.IsApproved)
}

func TestAutosave_RoundTripViaRoute(t *testing.T) {
	env := setupProductApp(t)
	pd, err := env.service.CreateProduct(context.Background(), domain.Product{Name: "x", Type: domain.TypeCosmetic}, nil, nil)
	require.NoError(t, err)

	cookie := seedSession(t, env, testUser("carla", constants.Compiler, nil))

	resp := doJSON(t, env, "PUT", "/api/v1/products/"+itoa(pd.Product.ID)+"/autosave", map[string]interface{}{"name": "draft"}, cookie)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, env, "GET", "/api/v1/products/"+itoa(pd.Product.ID)+"/autosave", nil, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Autosave map[string]interface{} `json:"autosave"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "draft", body.Data.Autosave["name"])
}

func TestAutosave_RejectsInvalidJSON(t *testing.T) {
	env := setupProductApp(t)
	pd, err := env.service.CreateProduct(context.Background(), domain.Product{Name: "x", Type: domain.TypeCosmetic}, nil, nil)
	require.NoError(t, err)

	cookie := seedSession(t, env, testUser("carla", constants.Compiler, nil))

	req := httptest.NewRequest("PUT", "/api/v1/products/"+itoa(pd.Product.ID)+"/autosave", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
