package handler

import (
	"context"

	"drinks-service/internal/domain/drink"
)

// Consumer-side interfaces defined by handlers
// Each interface contains only the methods needed by the specific handler

type DrinkRepository interface {
	List(ctx context.Context) ([]*drink.Drink, error)
	GetByID(ctx context.Context, id int64) (*drink.Drink, error)
	Create(ctx context.Context, input drink.CreateDrinkInput) (*drink.Drink, error)
	Update(ctx context.Context, id int64, input drink.UpdateDrinkInput) (*drink.Drink, error)
	Delete(ctx context.Context, id int64) error
}

// HealthChecker reports whether a backing service is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
