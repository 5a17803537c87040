package handler

import (
	"drinks-service/internal/domain/drink"
)

type shortDrinksResponse struct {
	Success bool               `json:"success"`
	Drinks  []drink.ShortDrink `json:"drinks"`
}

type longDrinksResponse struct {
	Success bool              `json:"success"`
	Drinks  []drink.LongDrink `json:"drinks"`
}

type deleteDrinkResponse struct {
	Success bool  `json:"success"`
	Delete  int64 `json:"delete"`
}

// ErrorResponse is the body of every non-authorization error.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

func newShortDrinksResponse(drinks []*drink.Drink) shortDrinksResponse {
	out := make([]drink.ShortDrink, len(drinks))
	for i, d := range drinks {
		out[i] = d.Short()
	}
	return shortDrinksResponse{Success: true, Drinks: out}
}

func newLongDrinksResponse(drinks ...*drink.Drink) longDrinksResponse {
	out := make([]drink.LongDrink, len(drinks))
	for i, d := range drinks {
		out[i] = d.Long()
	}
	return longDrinksResponse{Success: true, Drinks: out}
}
