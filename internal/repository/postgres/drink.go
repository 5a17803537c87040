package postgres

import (
	"context"
	"errors"
	"fmt"

	"drinks-service/internal/domain/drink"
	apperrors "drinks-service/pkg/errors"

	"github.com/jackc/pgx/v5"
)

const drinkColumns = `id, title, recipe`

type DrinkRepository struct {
	db *DB
}

func NewDrinkRepository(db *DB) *DrinkRepository {
	return &DrinkRepository{db: db}
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDrink(row rowScanner) (*drink.Drink, error) {
	d := &drink.Drink{}
	var recipe string
	if err := row.Scan(&d.ID, &d.Title, &recipe); err != nil {
		return nil, err
	}

	ingredients, err := drink.DecodeRecipe([]byte(recipe))
	if err != nil {
		return nil, fmt.Errorf(errStoredRecipeFmt, d.ID, err)
	}
	d.Recipe = ingredients

	return d, nil
}

func (r *DrinkRepository) List(ctx context.Context) ([]*drink.Drink, error) {
	query := `SELECT ` + drinkColumns + ` FROM drinks ORDER BY id`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, wrapQueryError(err, errFailedListDrinks)
	}
	defer rows.Close()

	drinks := []*drink.Drink{}
	for rows.Next() {
		d, err := scanDrink(rows)
		if err != nil {
			return nil, errFailedScanDrink(err)
		}
		drinks = append(drinks, d)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(err, errFailedListDrinks)
	}
	return drinks, nil
}

func (r *DrinkRepository) GetByID(ctx context.Context, id int64) (*drink.Drink, error) {
	query := `SELECT ` + drinkColumns + ` FROM drinks WHERE id = $1`

	d, err := scanDrink(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errDrinkNotFound)
		}
		return nil, wrapQueryError(err, errFailedGetDrink)
	}

	return d, nil
}

func (r *DrinkRepository) Create(ctx context.Context, input drink.CreateDrinkInput) (*drink.Drink, error) {
	recipe, err := drink.EncodeRecipe(input.Recipe)
	if err != nil {
		return nil, fmt.Errorf(errFailedEncodeRecipeFmt, err)
	}

	query := `
		INSERT INTO drinks (title, recipe)
		VALUES ($1, $2)
		RETURNING ` + drinkColumns

	d, err := scanDrink(r.db.Pool.QueryRow(ctx, query, input.Title, string(recipe)))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(errDrinkTitleExists)
		}
		return nil, wrapQueryError(err, errFailedCreateDrink)
	}

	return d, nil
}

// Update changes only the fields set in input.
func (r *DrinkRepository) Update(ctx context.Context, id int64, input drink.UpdateDrinkInput) (*drink.Drink, error) {
	var recipe *string
	if input.Recipe != nil {
		encoded, err := drink.EncodeRecipe(input.Recipe)
		if err != nil {
			return nil, fmt.Errorf(errFailedEncodeRecipeFmt, err)
		}
		s := string(encoded)
		recipe = &s
	}

	query := `
		UPDATE drinks
		SET title = COALESCE($2, title),
		    recipe = COALESCE($3, recipe)
		WHERE id = $1
		RETURNING ` + drinkColumns

	d, err := scanDrink(r.db.Pool.QueryRow(ctx, query, id, input.Title, recipe))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errDrinkNotFound)
		}
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(errDrinkTitleExists)
		}
		return nil, wrapQueryError(err, errFailedUpdateDrink)
	}

	return d, nil
}

func (r *DrinkRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM drinks WHERE id = $1`, id)
	if err != nil {
		return wrapQueryError(err, errFailedDeleteDrink)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errDrinkNotFound)
	}
	return nil
}

// Seed inserts the demo drink when the table is empty and reports whether it did.
func (r *DrinkRepository) Seed(ctx context.Context) (bool, error) {
	query := `
		INSERT INTO drinks (title, recipe)
		SELECT $1, $2
		WHERE NOT EXISTS (SELECT 1 FROM drinks)
	`

	tag, err := r.db.Pool.Exec(ctx, query, seedDrinkTitle, seedDrinkRecipe)
	if err != nil {
		return false, wrapQueryError(err, errFailedSeedDrinks)
	}
	return tag.RowsAffected() > 0, nil
}
