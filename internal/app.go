package internal

import (
	"dirpurge/internal/controllers"
	"dirpurge/internal/ledger"
	"dirpurge/internal/providers"
	"dirpurge/internal/structures"
)

// App is one invocation of the tool: the controllers for the commands and
// the ledger they share.
type App struct {
	Purge  *controllers.PurgeController
	Query  *controllers.QueryController
	Logger providers.Logger

	store ledger.Store
}

func NewApp(purge *controllers.PurgeController, query *controllers.QueryController, store ledger.Store, conf *structures.Config, logger providers.Logger) *App {
	logger.Debugf(providers.TypeApp, "Starting %s with %s ledger %s", conf.AppName, conf.Ledger.Driver, conf.Ledger.Path)
	return &App{
		Purge:  purge,
		Query:  query,
		Logger: logger,
		store:  store,
	}
}

// Close flushes the ledger and releases the log file.
func (a *App) Close() error {
	err := a.store.Close()
	if err != nil {
		a.Logger.Errorf(providers.TypeApp, "Closing ledger: %s", err)
	}
	a.Logger.Close()
	return err
}
