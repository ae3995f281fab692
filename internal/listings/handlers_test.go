package listings

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"propertyflow-backend/internal/middleware"
	"propertyflow-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupListingsApp(t *testing.T) (*fiber.App, *gorm.DB, *models.User, *models.Agent) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Agent{}, &models.Listing{},
		&models.ListingPhoto{}, &models.ListingVideo{}, &models.Lead{},
	))

	owner := &models.User{Email: "photo@studio.com", PasswordHash: "x", SubscriptionTier: models.TierFree}
	require.NoError(t, db.Create(owner).Error)
	agent := &models.Agent{PhotographerID: owner.ID, Name: "Jane Realtor"}
	require.NoError(t, db.Create(agent).Error)

	h := &Handlers{Service: &Service{DB: db}}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		middleware.SetAccountID(c, owner.ID)
		return c.Next()
	})
	app.Get("/listings", h.List)
	app.Post("/listings", h.Create)
	app.Get("/listings/:listing_id", h.Get)
	app.Put("/listings/:listing_id", h.Update)
	app.Patch("/listings/:listing_id/status", h.UpdateStatus)
	app.Delete("/listings/:listing_id", h.Delete)
	return app, db, owner, agent
}

func TestCreateListingEndpoint(t *testing.T) {
	app, _, _, agent := setupListingsApp(t)

	body, _ := json.Marshal(map[string]interface{}{
		"agent_id": agent.ID.String(),
		"address":  "123 Main Street, Austin TX",
		"price":    45000000,
		"beds":     3,
		"baths":    2,
		"sqft":     1800,
	})
	req := httptest.NewRequest("POST", "/listings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "123-main-street-austin-tx", data["slug"])
	assert.Equal(t, "/p/123-main-street-austin-tx", data["branded_url"])
}

func TestListListings_StatusFilter(t *testing.T) {
	app, db, owner, agent := setupListingsApp(t)

	active := models.Listing{PhotographerID: owner.ID, AgentID: agent.ID, Slug: "a", Address: "A", Status: models.ListingActive}
	archived := models.Listing{PhotographerID: owner.ID, AgentID: agent.ID, Slug: "b", Address: "B", Status: models.ListingArchived}
	require.NoError(t, db.Create(&active).Error)
	require.NoError(t, db.Create(&archived).Error)

	req := httptest.NewRequest("GET", "/listings?status=archived", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	data := result["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "b", data[0].(map[string]interface{})["slug"])
}

func TestUpdateStatusEndpoint_BadValueIs400(t *testing.T) {
	app, db, owner, agent := setupListingsApp(t)

	l := models.Listing{PhotographerID: owner.ID, AgentID: agent.ID, Slug: "a", Address: "A", Status: models.ListingActive}
	require.NoError(t, db.Create(&l).Error)

	body, _ := json.Marshal(map[string]string{"status": "sold"})
	req := httptest.NewRequest("PATCH", "/listings/"+l.ID.String()+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGetListingEndpoint_UnknownIs404(t *testing.T) {
	app, _, _, _ := setupListingsApp(t)
	req := httptest.NewRequest("GET", "/listings/"+uuid.New().String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestDeleteListingEndpoint(t *testing.T) {
	app, db, owner, agent := setupListingsApp(t)

	l := models.Listing{PhotographerID: owner.ID, AgentID: agent.ID, Slug: "a", Address: "A", Status: models.ListingActive}
	require.NoError(t, db.Create(&l).Error)

	req := httptest.NewRequest("DELETE", "/listings/"+l.ID.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
}
