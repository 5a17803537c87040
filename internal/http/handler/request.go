package handler

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"drinks-service/internal/domain/drink"
	apperrors "drinks-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

// drinkRequest is the body of POST and PATCH. Recipe may be a list of
// ingredients or a single ingredient object.
type drinkRequest struct {
	Title  *string         `json:"title"`
	Recipe json.RawMessage `json:"recipe"`
}

func bindJSON(c echo.Context, dst any) error {
	if !strings.HasPrefix(strings.ToLower(c.Request().Header.Get(echo.HeaderContentType)), contentTypeJSON) {
		return apperrors.Unprocessable(msgContentTypeJSONRequired)
	}

	body := io.LimitReader(c.Request().Body, maxBodyBytes)
	decoder := json.NewDecoder(body)

	if err := decoder.Decode(dst); err != nil {
		return apperrors.Unprocessable(msgInvalidRequestBody)
	}

	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperrors.Unprocessable(msgInvalidRequestBody)
	}

	return nil
}

func (r drinkRequest) hasRecipe() bool {
	trimmed := strings.TrimSpace(string(r.Recipe))
	return trimmed != "" && trimmed != "null"
}

func (r drinkRequest) toCreateInput() (drink.CreateDrinkInput, error) {
	if r.Title == nil {
		return drink.CreateDrinkInput{}, apperrors.Unprocessable(msgTitleRequired)
	}
	if !r.hasRecipe() {
		return drink.CreateDrinkInput{}, apperrors.Unprocessable(msgRecipeRequired)
	}

	recipe, err := drink.DecodeRecipe(r.Recipe)
	if err != nil {
		return drink.CreateDrinkInput{}, apperrors.Unprocessable(err.Error())
	}

	input := drink.CreateDrinkInput{Title: strings.TrimSpace(*r.Title), Recipe: recipe}
	if err := input.Validate(); err != nil {
		return drink.CreateDrinkInput{}, apperrors.Unprocessable(err.Error())
	}
	return input, nil
}

func (r drinkRequest) toUpdateInput() (drink.UpdateDrinkInput, error) {
	var input drink.UpdateDrinkInput

	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		input.Title = &title
	}

	if r.hasRecipe() {
		recipe, err := drink.DecodeRecipe(r.Recipe)
		if err != nil {
			return drink.UpdateDrinkInput{}, apperrors.Unprocessable(err.Error())
		}
		input.Recipe = recipe
	}

	if err := input.Validate(); err != nil {
		return drink.UpdateDrinkInput{}, apperrors.Unprocessable(err.Error())
	}
	return input, nil
}
