package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/selvklart/docflow/pkg/catalog"
	"github.com/selvklart/docflow/pkg/cmd"
	"github.com/selvklart/docflow/pkg/engine"
	"github.com/selvklart/docflow/pkg/log"
	"github.com/selvklart/docflow/pkg/otelhelper"
	"github.com/selvklart/docflow/pkg/release"
	"github.com/selvklart/docflow/pkg/validation"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "docflow-api",
		Usage:                 "Manage document workflow state",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for metadata persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:     "workflow-config",
				Usage:    "Path to the workflow state configuration file",
				Required: true,
				Sources:  cli.EnvVars("WORKFLOW_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for distributed document locks (empty for in-process locks)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "validation-url",
				Usage:   "Base URL of the document validation service",
				Sources: cli.EnvVars("VALIDATION_URL"),
			},
			&cli.StringFlag{
				Name:    "release-url",
				Usage:   "Base URL of the document publishing service",
				Sources: cli.EnvVars("RELEASE_URL"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export spans to the OTLP endpoint from the environment",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Docflow API")

			cat, err := catalog.LoadConfig(command.String("workflow-config"))
			if err != nil {
				return err
			}

			store := cmd.NewStore(ctx, logger, command.String("database-url"))

			defer func() {
				err := store.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close store", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			var reporter validation.Reporter = &validation.Static{}
			if url := command.String("validation-url"); url != "" {
				reporter = validation.NewHTTPReporter(url)
			}

			var publisher release.Publisher = &release.Noop{Logger: logger}
			if url := command.String("release-url"); url != "" {
				publisher = release.NewHTTPPublisher(url)
			}

			opts := []engine.Option{
				engine.WithEventPublisher(eventBus),
				engine.WithLocker(cmd.NewLocker(command.String("redis-url"), logger)),
			}

			if command.Bool("tracing") {
				tracer, err := otelhelper.NewTracer(ctx, "docflow-api")
				if err != nil {
					return err
				}

				opts = append(opts, engine.WithTracer(tracer))
			}

			eng := engine.New(logger, cat, store, publisher, reporter, opts...)

			api := NewAPI(logger, eng)

			err = api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
