// Command prox runs the deals pipeline. With no argument it serves the HTTP
// trigger endpoints; `prox ingest`, `prox send` and `prox weekly` run the
// passes directly for cron use.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Chaitraputtabudhi/prox-deals-automation/config"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/delivery"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/delivery/worker"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/delivery/worker/handler"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/infra/category"
	logs "github.com/Chaitraputtabudhi/prox-deals-automation/internal/infra/log"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/infra/mail"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/infra/persistence/postgres"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/infra/pubsub"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/infra/render"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/infra/source"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/usecase"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/usecase/impl"

	"go.uber.org/fx"

	// Blob drivers for the feed bucket URL schemes.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

type runPassParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	IngestSvc usecase.IngestUsecase
	DigestSvc usecase.DigestUsecase
}

func main() {
	mode := "serve"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "serve":
		fx.New(
			baseOptions(),
			injectHandler(),
			injectDelivery(),
			fx.Invoke(startServer),
		).Run()
	case "ingest", "send", "weekly":
		fx.New(
			baseOptions(),
			fx.Invoke(runPass(mode)),
		).Run()
	default:
		fmt.Fprintf(os.Stderr, "usage: %s [serve|ingest|send|weekly]\n", os.Args[0])
		os.Exit(2)
	}
}

func baseOptions() fx.Option {
	return fx.Options(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
	)
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		// Expose section configs for the infra constructors
		func(cfg *config.Config) *config.FeedConfig {
			if cfg == nil || cfg.Feed == nil {
				return &config.FeedConfig{}
			}

			return cfg.Feed
		},
		func(cfg *config.Config) *config.DigestConfig {
			if cfg == nil || cfg.Digest == nil {
				return &config.DigestConfig{}
			}

			return cfg.Digest
		},
		func(cfg *config.Config) *config.SMTPConfig {
			if cfg == nil || cfg.SMTP == nil {
				return &config.SMTPConfig{}
			}

			return cfg.SMTP
		},
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewCatalogRepository,
			postgres.NewDealRepository,
			postgres.NewRecipientRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			source.NewBlobFeed,
			category.NewKeywordClassifier,
			render.NewTemplateRenderer,
			mail.NewSMTPMailer,
		),
		pubsub.Module,
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewIngestService,
			impl.NewDigestService,
			impl.NewRecipientService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewRunHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				worker.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}

// runPass registers a start hook that runs the requested pass(es) once and
// then shuts the app down, so OnStart hooks (DB ping, publisher setup) have
// run before the pass begins.
func runPass(mode string) func(params runPassParams) {
	return func(params runPassParams) {
		params.Append(fx.Hook{
			OnStart: func(context.Context) error {
				go func() {
					ctx := context.Background()
					exitCode := 0

					if mode == "ingest" || mode == "weekly" {
						if summary, err := params.IngestSvc.RunIngestPass(ctx); err != nil {
							slog.Error("Ingest pass failed", slog.Any("error", err))
							exitCode = 1
						} else {
							slog.Info("Ingest pass complete",
								slog.Int("inserted", summary.Inserted),
								slog.Int("duplicates", summary.Duplicates),
								slog.Int("failed", summary.Failed),
							)
						}
					}

					if exitCode == 0 && (mode == "send" || mode == "weekly") {
						if summary, err := params.DigestSvc.RunSendPass(ctx); err != nil {
							slog.Error("Send pass failed", slog.Any("error", err))
							exitCode = 1
						} else {
							slog.Info("Send pass complete",
								slog.Int("sent", summary.Sent),
								slog.Int("skipped_empty", summary.SkippedEmpty),
								slog.Int("failed", summary.Failed),
							)
						}
					}

					if err := params.Shutdown(fx.ExitCode(exitCode)); err != nil {
						slog.Error("Failed to shutdown gracefully", slog.Any("error", err))
						os.Exit(1)
					}
				}()

				return nil
			},
		})
	}
}
