package photos

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"propertyflow-backend/internal/media"
	"propertyflow-backend/internal/models"
	"propertyflow-backend/internal/pkg/apperrors"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeImageClient struct {
	uploads   int
	deletes   []string
	uploadErr error
	deleteErr error
}

func (f *fakeImageClient) Upload(ctx context.Context, fileBytes []byte, filename string) (*media.ImageUpload, error) {
	f.uploads++
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	id := uuid.New().String()
	return &media.ImageUpload{
		ProviderID:   id,
		URL:          "https://imagedelivery.net/acct/" + id + "/public",
		ThumbnailURL: "https://imagedelivery.net/acct/" + id + "/thumbnail",
	}, nil
}

func (f *fakeImageClient) Delete(ctx context.Context, providerID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, providerID)
	return nil
}

func setupPhotosTest(t *testing.T) (*Service, *fakeImageClient, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Agent{}, &models.Listing{}, &models.ListingPhoto{},
	))
	images := &fakeImageClient{}
	return &Service{DB: db, Images: images}, images, db
}

func seedListing(t *testing.T, db *gorm.DB) (uuid.UUID, *models.Listing) {
	t.Helper()
	user := &models.User{Email: uuid.New().String() + "@studio.com", PasswordHash: "x", SubscriptionTier: models.TierFree}
	require.NoError(t, db.Create(user).Error)
	agent := &models.Agent{PhotographerID: user.ID, Name: "Jane Realtor"}
	require.NoError(t, db.Create(agent).Error)
	listing := &models.Listing{
		PhotographerID: user.ID, AgentID: agent.ID,
		Slug: uuid.New().String(), Address: "123 Main St",
		Price: 1, Beds: 1, Baths: 1, Sqft: 1, Status: models.ListingActive,
	}
	require.NoError(t, db.Create(listing).Error)
	return user.ID, listing
}

func TestUpload_AppendsAtEnd(t *testing.T) {
	svc, _, db := setupPhotosTest(t)
	ownerID, listing := seedListing(t, db)

	first, err := svc.Upload(context.Background(), ownerID, listing.ID, []byte("jpeg"), "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, 0, first.Position)
	assert.NotEmpty(t, first.URL)
	assert.NotEmpty(t, first.ThumbnailURL)

	second, err := svc.Upload(context.Background(), ownerID, listing.ID, []byte("jpeg"), "b.jpg")
	require.NoError(t, err)
	assert.Equal(t, 1, second.Position)
}

func TestUpload_AtCapFailsBeforeProviderCall(t *testing.T) {
	svc, images, db := setupPhotosTest(t)
	ownerID, listing := seedListing(t, db)

	for i := 0; i < models.MaxPhotosPerListing; i++ {
		require.NoError(t, db.Create(&models.ListingPhoto{
			ListingID: listing.ID, ProviderImageID: fmt.Sprintf("img-%d", i),
			URL: "u", ThumbnailURL: "t", Position: i,
		}).Error)
	}

	_, err := svc.Upload(context.Background(), ownerID, listing.ID, []byte("jpeg"), "over.jpg")
	var le *apperrors.LimitError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, models.MaxPhotosPerListing, le.Limit)
	assert.Equal(t, 0, images.uploads, "provider must not be called when the cap is hit")
}

func TestUpload_ProviderFailureSurfaces(t *testing.T) {
	svc, images, db := setupPhotosTest(t)
	ownerID, listing := seedListing(t, db)
	images.uploadErr = errors.New("cloudflare error: status 500")

	_, err := svc.Upload(context.Background(), ownerID, listing.ID, []byte("jpeg"), "a.jpg")
	var ue *apperrors.UpstreamError
	require.ErrorAs(t, err, &ue)

	var count int64
	require.NoError(t, db.Model(&models.ListingPhoto{}).Count(&count).Error)
	assert.Zero(t, count, "no row persisted when the provider rejects the upload")
}

func TestUpload_OtherOwnersListingIs404(t *testing.T) {
	svc, images, db := setupPhotosTest(t)
	_, listing := seedListing(t, db)
	strangerID, _ := seedListing(t, db)

	_, err := svc.Upload(context.Background(), strangerID, listing.ID, []byte("jpeg"), "a.jpg")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 0, images.uploads)
}

func TestReorder_AssignsIndexAndIgnoresForeignIDs(t *testing.T) {
	svc, _, db := setupPhotosTest(t)
	ownerID, listing := seedListing(t, db)

	ids := make([]uuid.UUID, 3)
	for i := range ids {
		photo, err := svc.Upload(context.Background(), ownerID, listing.ID, []byte("jpeg"), "a.jpg")
		require.NoError(t, err)
		ids[i] = photo.ID
	}

	// reverse order, with one id from another listing mixed in
	_, other := seedListing(t, db)
	foreign := &models.ListingPhoto{ListingID: other.ID, ProviderImageID: "f", URL: "u", ThumbnailURL: "t", Position: 0}
	require.NoError(t, db.Create(foreign).Error)

	photos, err := svc.Reorder(context.Background(), ownerID, listing.ID, []uuid.UUID{ids[2], foreign.ID, ids[0], ids[1]})
	require.NoError(t, err)
	require.Len(t, photos, 3)
	assert.Equal(t, ids[2], photos[0].ID)
	assert.Equal(t, ids[0], photos[1].ID)
	assert.Equal(t, ids[1], photos[2].ID)

	var untouched models.ListingPhoto
	require.NoError(t, db.First(&untouched, "id = ?", foreign.ID).Error)
	assert.Equal(t, 0, untouched.Position)
}

func TestDelete_RemovesProviderCopyFirst(t *testing.T) {
	svc, images, db := setupPhotosTest(t)
	ownerID, listing := seedListing(t, db)

	photo, err := svc.Upload(context.Background(), ownerID, listing.ID, []byte("jpeg"), "a.jpg")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), ownerID, listing.ID, photo.ID))
	assert.Equal(t, []string{photo.ProviderImageID}, images.deletes)

	var count int64
	require.NoError(t, db.Model(&models.ListingPhoto{}).Where("listing_id = ?", listing.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDelete_ProviderFailureKeepsRow(t *testing.T) {
	svc, images, db := setupPhotosTest(t)
	ownerID, listing := seedListing(t, db)

	photo, err := svc.Upload(context.Background(), ownerID, listing.ID, []byte("jpeg"), "a.jpg")
	require.NoError(t, err)

	images.deleteErr = errors.New("cloudflare delete error: status 500")
	err = svc.Delete(context.Background(), ownerID, listing.ID, photo.ID)
	var ue *apperrors.UpstreamError
	require.ErrorAs(t, err, &ue)

	var count int64
	require.NoError(t, db.Model(&models.ListingPhoto{}).Where("listing_id = ?", listing.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDelete_GapInPositionsIsKept(t *testing.T) {
	svc, _, db := setupPhotosTest(t)
	ownerID, listing := seedListing(t, db)

	ids := make([]uuid.UUID, 3)
	for i := range ids {
		photo, err := svc.Upload(context.Background(), ownerID, listing.ID, []byte("jpeg"), "a.jpg")
		require.NoError(t, err)
		ids[i] = photo.ID
	}

	require.NoError(t, svc.Delete(context.Background(), ownerID, listing.ID, ids[1]))

	var photos []models.ListingPhoto
	require.NoError(t, db.Where("listing_id = ?", listing.ID).Order("position ASC").Find(&photos).Error)
	require.Len(t, photos, 2)
	assert.Equal(t, 0, photos[0].Position)
	assert.Equal(t, 2, photos[1].Position)
}
