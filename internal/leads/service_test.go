package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	"propertyflow-backend/internal/emails"
	"propertyflow-backend/internal/models"
	"propertyflow-backend/internal/pkg/apperrors"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSender struct {
	sent []emails.LeadNotification
	err  error
}

func (f *fakeSender) SendLeadNotification(ctx context.Context, n emails.LeadNotification) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

func setupLeadsTest(t *testing.T) (*Service, *fakeSender, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Agent{}, &models.Listing{}, &models.Lead{},
	))
	sender := &fakeSender{}
	return &Service{DB: db, Emails: sender}, sender, db
}

func seedListing(t *testing.T, db *gorm.DB, slug, status string, agentEmail *string) (uuid.UUID, *models.Listing) {
	t.Helper()
	user := &models.User{Email: uuid.New().String() + "@studio.com", PasswordHash: "x", SubscriptionTier: models.TierFree}
	require.NoError(t, db.Create(user).Error)
	agent := &models.Agent{PhotographerID: user.ID, Name: "Jane Realtor", Email: agentEmail}
	require.NoError(t, db.Create(agent).Error)
	listing := &models.Listing{
		PhotographerID: user.ID, AgentID: agent.ID,
		Slug: slug, Address: "123 Main St, Austin TX",
		Price: 1, Beds: 1, Baths: 1, Sqft: 1, Status: status,
	}
	require.NoError(t, db.Create(listing).Error)
	return user.ID, listing
}

func strPtr(s string) *string { return &s }

func TestSubmit_NotifiesAgentAndMarksLead(t *testing.T) {
	svc, sender, db := setupLeadsTest(t)
	seedListing(t, db, "123-main-st", models.ListingActive, strPtr("jane@brokerage.com"))

	lead, err := svc.Submit(context.Background(), "123-main-st", SubmitLeadInput{
		Name: "Buyer Bob", Email: "bob@example.com", Message: strPtr("Is it still available?"),
	})
	require.NoError(t, err)
	assert.True(t, lead.Notified)
	require.NotNil(t, lead.ListingAddress)
	assert.Equal(t, "123 Main St, Austin TX", *lead.ListingAddress)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "jane@brokerage.com", sender.sent[0].AgentEmail)
	assert.Equal(t, "Buyer Bob", sender.sent[0].LeadName)
	assert.Equal(t, "123 Main St, Austin TX", sender.sent[0].ListingAddress)
}

func TestSubmit_EmailFailureStillCreatesLead(t *testing.T) {
	svc, sender, db := setupLeadsTest(t)
	seedListing(t, db, "123-main-st", models.ListingActive, strPtr("jane@brokerage.com"))
	sender.err = errors.New("resend send failed: status 500")

	lead, err := svc.Submit(context.Background(), "123-main-st", SubmitLeadInput{
		Name: "Buyer Bob", Email: "bob@example.com",
	})
	require.NoError(t, err)
	assert.False(t, lead.Notified)

	var stored models.Lead
	require.NoError(t, db.First(&stored, "id = ?", lead.ID).Error)
	assert.False(t, stored.Notified)
}

func TestSubmit_AgentWithoutEmailSkipsNotification(t *testing.T) {
	svc, sender, db := setupLeadsTest(t)
	seedListing(t, db, "123-main-st", models.ListingActive, nil)

	lead, err := svc.Submit(context.Background(), "123-main-st", SubmitLeadInput{
		Name: "Buyer Bob", Email: "bob@example.com",
	})
	require.NoError(t, err)
	assert.False(t, lead.Notified)
	assert.Empty(t, sender.sent)
}

func TestSubmit_ArchivedListingIs404(t *testing.T) {
	svc, _, db := setupLeadsTest(t)
	seedListing(t, db, "123-main-st", models.ListingArchived, strPtr("jane@brokerage.com"))

	_, err := svc.Submit(context.Background(), "123-main-st", SubmitLeadInput{
		Name: "Buyer Bob", Email: "bob@example.com",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSubmit_UnknownSlugIs404(t *testing.T) {
	svc, _, _ := setupLeadsTest(t)
	_, err := svc.Submit(context.Background(), "no-such-slug", SubmitLeadInput{
		Name: "Buyer Bob", Email: "bob@example.com",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSubmit_ValidatesNameAndEmail(t *testing.T) {
	svc, _, db := setupLeadsTest(t)
	seedListing(t, db, "123-main-st", models.ListingActive, nil)

	var ve *apperrors.ValidationError
	_, err := svc.Submit(context.Background(), "123-main-st", SubmitLeadInput{Email: "bob@example.com"})
	require.ErrorAs(t, err, &ve)

	_, err = svc.Submit(context.Background(), "123-main-st", SubmitLeadInput{Name: "Bob", Email: "not-an-email"})
	require.ErrorAs(t, err, &ve)
}

func TestList_NewestFirstAcrossOwnListings(t *testing.T) {
	svc, _, db := setupLeadsTest(t)
	ownerID, first := seedListing(t, db, "first-listing", models.ListingActive, nil)
	second := &models.Listing{
		PhotographerID: ownerID, AgentID: first.AgentID,
		Slug: "second-listing", Address: "456 Oak Ave",
		Price: 1, Beds: 1, Baths: 1, Sqft: 1, Status: models.ListingActive,
	}
	require.NoError(t, db.Create(second).Error)
	_, strangers := seedListing(t, db, "strangers-listing", models.ListingActive, nil)

	old := &models.Lead{ListingID: first.ID, Name: "Old Lead", Email: "old@example.com", CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, db.Create(old).Error)
	recent := &models.Lead{ListingID: second.ID, Name: "Recent Lead", Email: "recent@example.com", CreatedAt: time.Now()}
	require.NoError(t, db.Create(recent).Error)
	foreign := &models.Lead{ListingID: strangers.ID, Name: "Foreign Lead", Email: "foreign@example.com"}
	require.NoError(t, db.Create(foreign).Error)

	leads, err := svc.List(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "Recent Lead", leads[0].Name)
	assert.Equal(t, "Old Lead", leads[1].Name)
	require.NotNil(t, leads[0].ListingAddress)
	assert.Equal(t, "456 Oak Ave", *leads[0].ListingAddress)
}
