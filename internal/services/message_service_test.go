// internal/services/message_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaddid/marketplace-backend/internal/models"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

func TestSendMessage(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMessageService(db)

	sender := createTestUser(t, db, models.UserRoleIndividual)
	recipient := createTestUser(t, db, models.UserRoleIndividual)

	message, err := svc.SendMessage(sender.ID, &SendMessageRequest{
		RecipientID: recipient.ID,
		Subject:     "Is this still available?",
		Body:        "Hi, I am interested in the table.",
	})
	require.NoError(t, err)
	assert.False(t, message.IsRead)
	assert.Nil(t, message.ReadAt)
}

func TestSendMessageRejectsSelf(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMessageService(db)
	user := createTestUser(t, db, models.UserRoleIndividual)

	_, err := svc.SendMessage(user.ID, &SendMessageRequest{
		RecipientID: user.ID,
		Body:        "note to self",
	})
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "recipient_id")
}

func TestSendMessageRejectsInactiveRecipient(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMessageService(db)

	sender := createTestUser(t, db, models.UserRoleIndividual)
	recipient := createTestUser(t, db, models.UserRoleIndividual)
	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", recipient.ID).
		UpdateColumn("is_active", false).Error)

	_, err := svc.SendMessage(sender.ID, &SendMessageRequest{
		RecipientID: recipient.ID,
		Body:        "hello?",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendMessageItemReference(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMessageService(db)

	seller := createTestUser(t, db, models.UserRoleFactory)
	buyer := createTestUser(t, db, models.UserRoleCompany)
	product := createTestProduct(t, db, seller.ID, models.ItemStatusActive, 5)
	listing := createTestListing(t, db, seller.ID, models.ItemStatusActive, 100)

	// About one item is fine
	_, err := svc.SendMessage(buyer.ID, &SendMessageRequest{
		RecipientID: seller.ID,
		ProductID:   &product.ID,
		Body:        "Can you ship this?",
	})
	assert.NoError(t, err)

	// About both kinds at once is not
	_, err = svc.SendMessage(buyer.ID, &SendMessageRequest{
		RecipientID:       seller.ID,
		ProductID:         &product.ID,
		MaterialListingID: &listing.ID,
		Body:              "About everything you sell",
	})
	_, ok := AsValidationError(err)
	assert.True(t, ok)
}

func TestMarkReadRecipientOnlyAndWriteOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMessageService(db)

	sender := createTestUser(t, db, models.UserRoleIndividual)
	recipient := createTestUser(t, db, models.UserRoleIndividual)

	message, err := svc.SendMessage(sender.ID, &SendMessageRequest{
		RecipientID: recipient.ID,
		Body:        "ping",
	})
	require.NoError(t, err)

	// The sender cannot mark their own message read
	_, err = svc.MarkRead(message.ID, sender.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	read, err := svc.MarkRead(message.ID, recipient.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	require.NotNil(t, read.ReadAt)
	firstReadAt := *read.ReadAt

	time.Sleep(10 * time.Millisecond)
	again, err := svc.MarkRead(message.ID, recipient.ID)
	require.NoError(t, err)
	assert.True(t, again.ReadAt.Equal(firstReadAt))
}

func TestInboxSentAndUnreadCount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMessageService(db)

	alice := createTestUser(t, db, models.UserRoleIndividual)
	bob := createTestUser(t, db, models.UserRoleIndividual)

	first, err := svc.SendMessage(alice.ID, &SendMessageRequest{RecipientID: bob.ID, Body: "one"})
	require.NoError(t, err)
	_, err = svc.SendMessage(alice.ID, &SendMessageRequest{RecipientID: bob.ID, Body: "two"})
	require.NoError(t, err)
	_, err = svc.SendMessage(bob.ID, &SendMessageRequest{RecipientID: alice.ID, Body: "reply"})
	require.NoError(t, err)

	params := utils.PaginationParams{Page: 1, Limit: 20}

	inbox, total, err := svc.Inbox(bob.ID, params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, inbox, 2)

	sent, total, err := svc.Sent(bob.ID, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, sent, 1)

	count, err := svc.UnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = svc.MarkRead(first.ID, bob.ID)
	require.NoError(t, err)
	count, err = svc.UnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
