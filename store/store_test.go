package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"go-bookstore/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder(id, email string, at time.Time) models.Order {
	return models.Order{
		ID:        id,
		UserEmail: email,
		Lines: []models.OrderLine{
			{Title: "The Great Gatsby", Category: "Fiction", Quantity: 2, UnitPrice: decimal.RequireFromString("10.99")},
			{Title: "1984", Category: "Dystopia", Quantity: 3, UnitPrice: decimal.RequireFromString("8.99")},
		},
		Shipping:     models.ShippingInfo{Name: "Jane", Address: "1 Main St", City: "Springfield", Zip: "12345"},
		Payment:      models.PaymentInfo{Method: models.PaymentCreditCard, TransactionID: "TXN42"},
		Subtotal:     decimal.RequireFromString("48.95"),
		DiscountCode: "SAVE10",
		Total:        decimal.RequireFromString("44.06"),
		CreatedAt:    at,
	}
}

func runStoreContract(t *testing.T, newStore func(t *testing.T) AccountStore) {
	ctx := context.Background()

	t.Run("create and find user case-insensitively", func(t *testing.T) {
		s := newStore(t)
		u, err := models.NewUser("Jane@Example.com", "secret123", "Jane", "1 Main St")
		require.NoError(t, err)
		require.NoError(t, s.CreateUser(ctx, u))

		got, err := s.FindUser(ctx, "JANE@example.COM")
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", got.Email)
		assert.Equal(t, "Jane", got.Name)
		assert.True(t, got.CheckPassword("secret123"))
	})

	t.Run("duplicate user", func(t *testing.T) {
		s := newStore(t)
		u, err := models.NewUser("a@b.com", "pw", "", "")
		require.NoError(t, err)
		require.NoError(t, s.CreateUser(ctx, u))

		dup, err := models.NewUser("A@B.COM", "other", "", "")
		require.NoError(t, err)
		assert.ErrorIs(t, s.CreateUser(ctx, dup), ErrDuplicateUser)
	})

	t.Run("missing user", func(t *testing.T) {
		s := newStore(t)
		_, err := s.FindUser(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)

		u, err := models.NewUser("nobody@example.com", "pw", "", "")
		require.NoError(t, err)
		assert.ErrorIs(t, s.UpdateUser(ctx, u), ErrUserNotFound)
	})

	t.Run("update user", func(t *testing.T) {
		s := newStore(t)
		u, err := models.NewUser("a@b.com", "old", "A", "")
		require.NoError(t, err)
		require.NoError(t, s.CreateUser(ctx, u))

		u.Name = "Alice"
		u.Address = "2 Side St"
		require.NoError(t, u.SetPassword("new"))
		require.NoError(t, s.UpdateUser(ctx, u))

		got, err := s.FindUser(ctx, "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Name)
		assert.Equal(t, "2 Side St", got.Address)
		assert.True(t, got.CheckPassword("new"))
	})

	t.Run("history is newest first", func(t *testing.T) {
		s := newStore(t)
		base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		for i := 1; i <= 5; i++ {
			require.NoError(t, s.AppendOrder(ctx, "Jane@Example.com", sampleOrder(fmt.Sprintf("ORD-%d", i), "jane@example.com", base.Add(time.Duration(i)*time.Minute))))
		}
		require.NoError(t, s.AppendOrder(ctx, "other@example.com", sampleOrder("ORD-X", "other@example.com", base)))

		history, err := s.OrderHistory(ctx, "jane@example.com")
		require.NoError(t, err)
		require.Len(t, history, 5)
		for i, o := range history {
			assert.Equal(t, fmt.Sprintf("ORD-%d", 5-i), o.ID)
		}

		first := history[0]
		require.Len(t, first.Lines, 2)
		assert.Equal(t, "The Great Gatsby", first.Lines[0].Title)
		assert.True(t, decimal.RequireFromString("8.99").Equal(first.Lines[1].UnitPrice))
		assert.True(t, decimal.RequireFromString("44.06").Equal(first.Total))
		assert.True(t, decimal.RequireFromString("48.95").Equal(first.Subtotal))
		assert.Equal(t, "TXN42", first.Payment.TransactionID)
		assert.Equal(t, "Springfield", first.Shipping.City)
		assert.True(t, base.Add(5*time.Minute).Equal(first.CreatedAt))
	})

	t.Run("unknown email has empty history", func(t *testing.T) {
		s := newStore(t)
		history, err := s.OrderHistory(ctx, "ghost@example.com")
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) AccountStore {
		return NewMemoryStore()
	})
}

func TestSQLiteStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) AccountStore {
		s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "bookstore.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close(context.Background()) })
		return s
	})
}

func TestMemoryStore_HistoryIsACopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.AppendOrder(ctx, "a@b.com", sampleOrder("ORD-1", "a@b.com", time.Now())))

	history, err := s.OrderHistory(ctx, "a@b.com")
	require.NoError(t, err)
	history[0].Lines[0].Quantity = 99
	history[0].ID = "tampered"

	again, err := s.OrderHistory(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", again[0].ID)
	assert.Equal(t, 2, again[0].Lines[0].Quantity)
}

func TestOrderDocConversion(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	o := sampleOrder("ORD-7", "jane@example.com", at)

	doc, err := toOrderDoc("Jane@Example.com", o)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", doc.UserEmail)
	assert.Equal(t, "44.06", doc.Total.String())

	back, err := fromOrderDoc(doc)
	require.NoError(t, err)
	assert.Equal(t, o.ID, back.ID)
	assert.True(t, o.Total.Equal(back.Total))
	assert.True(t, o.Lines[0].UnitPrice.Equal(back.Lines[0].UnitPrice))
	assert.Equal(t, o.Payment, back.Payment)
}
