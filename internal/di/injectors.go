//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"dirpurge/internal"
	"dirpurge/internal/controllers"
	"dirpurge/internal/ledger"
	"dirpurge/internal/providers"
	"dirpurge/internal/services"
	"dirpurge/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewFsProvider,

		ledger.NewCompressor,
		ledger.NewStore,
		services.NewSession,
		services.NewDeleter,
		services.NewTreePurger,
		services.NewPurgeService,
		wire.Bind(new(services.PurgeServiceInterface), new(*services.PurgeService)),
		services.NewReportService,
		wire.Bind(new(services.ReportServiceInterface), new(*services.ReportService)),
		controllers.NewPurgeController,
		controllers.NewQueryController,
		internal.NewApp,
	)

	return nil, nil
}
