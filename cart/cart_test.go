package cart

import (
	"testing"

	"go-bookstore/apperr"
	"go-bookstore/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	gatsby = models.Book{Title: "The Great Gatsby", Category: "Fiction", Price: decimal.RequireFromString("10.99")}
	orwell = models.Book{Title: "1984", Category: "Dystopia", Price: decimal.RequireFromString("8.99")}
	moby   = models.Book{Title: "Moby Dick", Category: "Adventure", Price: decimal.RequireFromString("12.49")}
)

func TestAdd_NewLine(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(gatsby, 2))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "The Great Gatsby", lines[0].Book.Title)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAdd_SameItemTwiceMerges(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(gatsby, 2))
	require.NoError(t, c.Add(gatsby, 3))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestAdd_NonPositiveIsNoop(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(gatsby, 0))
	require.NoError(t, c.Add(gatsby, -4))

	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.Lines())
}

func TestAdd_OverLimitRejected(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(gatsby, 98))

	err := c.Add(gatsby, 2)
	assert.ErrorIs(t, err, apperr.ErrQuantityLimitExceeded)
	assert.Equal(t, 98, c.Quantity(gatsby.ID()))

	err = c.Add(orwell, 100)
	assert.ErrorIs(t, err, apperr.ErrQuantityLimitExceeded)
	assert.Equal(t, 0, c.Quantity(orwell.ID()))
}

func TestUpdate_SetsQuantity(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(gatsby, 1))
	require.NoError(t, c.Update(gatsby.ID(), 5))

	assert.Equal(t, 5, c.Quantity(gatsby.ID()))
}

func TestUpdate_NonPositiveRemoves(t *testing.T) {
	for _, q := range []int{0, -1, -3, -100} {
		c := New()
		require.NoError(t, c.Add(gatsby, 1))
		require.NoError(t, c.Add(orwell, 2))

		require.NoError(t, c.Update(gatsby.ID(), q))

		assert.Equal(t, 0, c.Quantity(gatsby.ID()), "q=%d", q)
		assert.Equal(t, 2, c.TotalItems(), "q=%d", q)
		assert.Len(t, c.Lines(), 1)
	}
}

func TestUpdate_OverLimitRejected(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(gatsby, 3))

	err := c.Update(gatsby.ID(), 100)
	assert.ErrorIs(t, err, apperr.ErrQuantityLimitExceeded)
	assert.Equal(t, 3, c.Quantity(gatsby.ID()))

	require.NoError(t, c.Update(gatsby.ID(), 99))
	assert.Equal(t, 99, c.Quantity(gatsby.ID()))
}

func TestUpdate_OverLimitOnEmptyCartNeverShows100(t *testing.T) {
	c := New()
	err := c.Update(gatsby.ID(), 100)

	assert.ErrorIs(t, err, apperr.ErrQuantityLimitExceeded)
	assert.True(t, c.IsEmpty())
}

func TestUpdate_MissingItem(t *testing.T) {
	c := New()
	err := c.Update("Nope", 2)
	assert.ErrorIs(t, err, apperr.ErrItemNotInCart)
}

func TestUpdateFromInput_InvalidLeavesCartUnchanged(t *testing.T) {
	for _, raw := range []string{"", "   ", "abc", "1.5", "2x", "--1"} {
		c := New()
		require.NoError(t, c.Add(gatsby, 4))

		err := c.UpdateFromInput(gatsby.ID(), raw)

		assert.ErrorIs(t, err, apperr.ErrInvalidQuantity, "raw=%q", raw)
		assert.Equal(t, apperr.KindInvalidQuantity, apperr.KindOf(err))
		assert.Equal(t, 4, c.Quantity(gatsby.ID()), "raw=%q", raw)
	}
}

func TestUpdateFromInput_Valid(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(gatsby, 1))

	require.NoError(t, c.UpdateFromInput(gatsby.ID(), " 7 "))
	assert.Equal(t, 7, c.Quantity(gatsby.ID()))

	require.NoError(t, c.UpdateFromInput(gatsby.ID(), "-3"))
	assert.True(t, c.IsEmpty())
}

func TestRemove(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(gatsby, 1))
	require.NoError(t, c.Add(orwell, 1))
	require.NoError(t, c.Add(moby, 1))

	c.Remove(orwell.ID())
	c.Remove("missing")

	var titles []string
	for l := range c.Items() {
		titles = append(titles, l.Book.Title)
	}
	assert.Equal(t, []string{"The Great Gatsby", "Moby Dick"}, titles)

	require.NoError(t, c.Update(moby.ID(), 4))
	assert.Equal(t, 4, c.Quantity(moby.ID()))
}

func TestClear(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(gatsby, 1))
	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.True(t, c.Subtotal().IsZero())
	require.NoError(t, c.Add(gatsby, 2))
	assert.Equal(t, 2, c.TotalItems())
}

func TestItems_InsertionOrderAndRestartable(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(moby, 1))
	require.NoError(t, c.Add(gatsby, 2))
	require.NoError(t, c.Add(orwell, 3))
	require.NoError(t, c.Add(moby, 1))

	collect := func() []string {
		var out []string
		for l := range c.Items() {
			out = append(out, l.Book.Title)
		}
		return out
	}
	want := []string{"Moby Dick", "The Great Gatsby", "1984"}
	assert.Equal(t, want, collect())
	assert.Equal(t, want, collect())

	for l := range c.Items() {
		assert.Equal(t, "Moby Dick", l.Book.Title)
		break
	}
	assert.Equal(t, 2, c.Quantity(moby.ID()))
}

func TestSubtotal_RealWorldPrices(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(gatsby, 2))
	require.NoError(t, c.Add(orwell, 3))

	assert.Equal(t, 5, c.TotalItems())
	assert.Equal(t, "48.95", c.Subtotal().StringFixed(2))
	assert.True(t, decimal.RequireFromString("48.95").Equal(c.Subtotal()))
}

func TestSubtotal_LargeQuantities(t *testing.T) {
	c := New()
	for _, b := range []models.Book{gatsby, orwell, moby} {
		require.NoError(t, c.Add(b, MaxQuantity))
	}

	assert.Equal(t, 3*MaxQuantity, c.TotalItems())
	assert.Equal(t, "3214.53", c.Subtotal().StringFixed(2))
}
