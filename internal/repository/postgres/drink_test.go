package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"drinks-service/internal/domain/drink"
	apperrors "drinks-service/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	id     int64
	title  string
	recipe string
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int64) = r.id
	*dest[1].(*string) = r.title
	*dest[2].(*string) = r.recipe
	return nil
}

func TestScanDrink(t *testing.T) {
	d, err := scanDrink(fakeRow{id: 1, title: seedDrinkTitle, recipe: seedDrinkRecipe})
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.ID)
	assert.Equal(t, "water", d.Title)
	assert.Equal(t, []drink.Ingredient{{Name: "water", Color: "blue", Parts: 1}}, d.Recipe)
}

func TestScanDrink_SingleObjectRecipe(t *testing.T) {
	d, err := scanDrink(fakeRow{id: 2, title: "tea", recipe: `{"name":"tea","color":"brown","parts":2}`})
	require.NoError(t, err)
	assert.Equal(t, []drink.Ingredient{{Name: "tea", Color: "brown", Parts: 2}}, d.Recipe)
}

func TestScanDrink_Errors(t *testing.T) {
	cause := errors.New("conn closed")
	_, err := scanDrink(fakeRow{err: cause})
	assert.ErrorIs(t, err, cause)

	_, err = scanDrink(fakeRow{id: 3, title: "broken", recipe: "not json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "drink 3")
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.True(t, isUniqueViolation(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: uniqueViolationCode})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("plain")))
}

func TestWrapQueryError(t *testing.T) {
	err := wrapQueryError(fmt.Errorf("acquire: %w", context.DeadlineExceeded), errFailedListDrinks)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	cause := &pgconn.PgError{Code: "42P01"}
	err = wrapQueryError(cause, errFailedListDrinks)
	assert.NotErrorIs(t, err, apperrors.ErrUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to list drinks")
}
