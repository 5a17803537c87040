package drink

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength  = 80
	MaxRecipeLength = 180

	errTitleRequired       = "title is required"
	errTitleTooLongFmt     = "title must be at most %d characters"
	errRecipeRequired      = "recipe must contain at least one ingredient"
	errRecipeTooLongFmt    = "recipe must encode to at most %d bytes"
	errIngredientNameFmt   = "ingredient %d: name is required"
	errIngredientColorFmt  = "ingredient %d: color is required"
	errIngredientPartsFmt  = "ingredient %d: parts must be greater than zero"
	errNothingToUpdate     = "title or recipe is required"
	errDecodeRecipeFmt     = "invalid recipe: %w"
	errRecipeEmptyDocument = "recipe is empty"
)

// Drink is a menu item. Recipe is stored as a JSON document.
type Drink struct {
	ID     int64
	Title  string
	Recipe []Ingredient
}

type Ingredient struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

// ShortIngredient is the public view of an ingredient: what it looks like in the
// cup, not what it is.
type ShortIngredient struct {
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

type ShortDrink struct {
	ID     int64             `json:"id"`
	Title  string            `json:"title"`
	Recipe []ShortIngredient `json:"recipe"`
}

type LongDrink struct {
	ID     int64        `json:"id"`
	Title  string       `json:"title"`
	Recipe []Ingredient `json:"recipe"`
}

func (d *Drink) Short() ShortDrink {
	recipe := make([]ShortIngredient, len(d.Recipe))
	for i, ing := range d.Recipe {
		recipe[i] = ShortIngredient{Color: ing.Color, Parts: ing.Parts}
	}
	return ShortDrink{ID: d.ID, Title: d.Title, Recipe: recipe}
}

func (d *Drink) Long() LongDrink {
	recipe := make([]Ingredient, len(d.Recipe))
	copy(recipe, d.Recipe)
	return LongDrink{ID: d.ID, Title: d.Title, Recipe: recipe}
}

type CreateDrinkInput struct {
	Title  string
	Recipe []Ingredient
}

func (in CreateDrinkInput) Validate() error {
	if err := validateTitle(in.Title); err != nil {
		return err
	}
	return validateRecipe(in.Recipe)
}

// UpdateDrinkInput is a partial update; nil fields are left unchanged.
type UpdateDrinkInput struct {
	Title  *string
	Recipe []Ingredient
}

func (in UpdateDrinkInput) Validate() error {
	if in.Title == nil && in.Recipe == nil {
		return errors.New(errNothingToUpdate)
	}
	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return err
		}
	}
	if in.Recipe != nil {
		return validateRecipe(in.Recipe)
	}
	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New(errTitleRequired)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf(errTitleTooLongFmt, MaxTitleLength)
	}
	return nil
}

func validateRecipe(recipe []Ingredient) error {
	if len(recipe) == 0 {
		return errors.New(errRecipeRequired)
	}
	for i, ing := range recipe {
		if strings.TrimSpace(ing.Name) == "" {
			return fmt.Errorf(errIngredientNameFmt, i)
		}
		if strings.TrimSpace(ing.Color) == "" {
			return fmt.Errorf(errIngredientColorFmt, i)
		}
		if ing.Parts <= 0 {
			return fmt.Errorf(errIngredientPartsFmt, i)
		}
	}

	encoded, err := EncodeRecipe(recipe)
	if err != nil {
		return err
	}
	if len(encoded) > MaxRecipeLength {
		return fmt.Errorf(errRecipeTooLongFmt, MaxRecipeLength)
	}
	return nil
}

// EncodeRecipe renders the recipe in its stored form.
func EncodeRecipe(recipe []Ingredient) ([]byte, error) {
	return json.Marshal(recipe)
}

// DecodeRecipe accepts either a list of ingredients or a single ingredient
// object, which is treated as a one-item list.
func DecodeRecipe(raw []byte) ([]Ingredient, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, errors.New(errRecipeEmptyDocument)
	}

	if trimmed[0] == '{' {
		var single Ingredient
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, fmt.Errorf(errDecodeRecipeFmt, err)
		}
		return []Ingredient{single}, nil
	}

	var recipe []Ingredient
	if err := json.Unmarshal(trimmed, &recipe); err != nil {
		return nil, fmt.Errorf(errDecodeRecipeFmt, err)
	}
	return recipe, nil
}
