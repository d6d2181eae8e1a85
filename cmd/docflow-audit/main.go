package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/selvklart/docflow/pkg/cmd"
	"github.com/selvklart/docflow/pkg/log"
)

func main() {
	command := &cli.Command{
		Name:                  "docflow-audit",
		EnableShellCompletion: true,
		Usage:                 "Consume workflow events and write an audit log",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "auditor-id",
				Aliases: []string{"id"},
				Usage:   "Custom auditor ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("AUDITOR_ID"),
			},
			&cli.StringFlag{
				Name:     "event-bus",
				Usage:    "Event bus type (kafka, gochannel)",
				Required: true,
				Sources:  cli.EnvVars("EVENT_BUS_TYPE"),
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

			auditorID := command.String("auditor-id")
			if auditorID == "" {
				auditorID = "auditor-" + uuid.New().String()[:8]
			}

			logger := log.WithModule("docflow-audit").With("auditorId", auditorID)

			logger.InfoContext(ctx, "Initializing Docflow Auditor")

			eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
			defer func() {
				err := eventBus.Close()
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			auditor := NewAuditor(auditorID, eventBus, logger)

			err := auditor.Start(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start auditor", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
