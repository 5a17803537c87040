package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	seedDrinkTitle  = "water"
	seedDrinkRecipe = `[{"name": "water", "color": "blue", "parts": 1}]`

	errDrinkNotFound       = "drink not found"
	errDrinkTitleExists    = "drink with this title already exists"
	errDatabaseUnavailable = "database unavailable"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedCreateDrinkFmt  = "failed to create drink: %w"
	errFailedGetDrinkFmt     = "failed to get drink: %w"
	errFailedListDrinksFmt   = "failed to list drinks: %w"
	errFailedScanDrinkFmt    = "failed to scan drink: %w"
	errFailedUpdateDrinkFmt  = "failed to update drink: %w"
	errFailedDeleteDrinkFmt  = "failed to delete drink: %w"
	errFailedSeedDrinksFmt   = "failed to seed drinks: %w"
	errFailedEncodeRecipeFmt = "failed to encode recipe: %w"
	errStoredRecipeFmt       = "drink %d has an invalid stored recipe: %w"
)

var (
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedCreateDrink          = func(err error) error { return fmt.Errorf(errFailedCreateDrinkFmt, err) }
	errFailedDeleteDrink          = func(err error) error { return fmt.Errorf(errFailedDeleteDrinkFmt, err) }
	errFailedGetDrink             = func(err error) error { return fmt.Errorf(errFailedGetDrinkFmt, err) }
	errFailedListDrinks           = func(err error) error { return fmt.Errorf(errFailedListDrinksFmt, err) }
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedScanDrink            = func(err error) error { return fmt.Errorf(errFailedScanDrinkFmt, err) }
	errFailedSeedDrinks           = func(err error) error { return fmt.Errorf(errFailedSeedDrinksFmt, err) }
	errFailedUpdateDrink          = func(err error) error { return fmt.Errorf(errFailedUpdateDrinkFmt, err) }
)
