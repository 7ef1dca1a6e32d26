// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the carpool
// backend. Commands are organized using the cobra library.
// The root command starts the web server itself while the "db"
// sub-command can be used for the database initialization actions,
// namely init-dev and init-prod for filling the database with the
// development or production suitable data records.
//
//	./carpool [-c /path/of/main/config.yaml]           # start web server
//	./carpool db init-dev [-c /path/of/main/config.yaml]
//	./carpool db init-prod [-c /path/of/main/config.yaml]
package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/momeni/carpool/pkg/adapter/config"
	"github.com/momeni/carpool/pkg/adapter/restful/gin"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/routes"
	"github.com/momeni/carpool/pkg/core/log"
	"github.com/momeni/carpool/pkg/core/repo"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "carpool",
	Short: "A carpooling backend",
	Long: `A carpooling backend which lets drivers publish their trips
and passengers search and book the available seats.
It serves a REST API for users registration and authentication, trips
publishing and lifecycle management, trips search, seats booking, and
the cities and ride options reference data.
Trip and booking events are published to an AMQP exchange (or logged
when no broker is configured).`,
	RunE: startWebServer,
}

func startWebServer(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := config.LoadFromDB(ctx, cfgPath)
	if err != nil {
		return fmt.Errorf("config.LoadFromDB(%q): %w", cfgPath, err)
	}
	log.Info(
		ctx, "configuration is loaded",
		slog.String("path", cfgPath),
		slog.String("version", c.Version().String()),
	)
	p, err := c.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	n, closeNotifier, err := c.Broker.NewNotifier(ctx)
	if err != nil {
		return fmt.Errorf("creating notifier: %w", err)
	}
	defer func() {
		if err := closeNotifier(); err != nil {
			log.Warn(ctx, "closing notifier", log.Err("err", err))
		}
	}()
	var e *gin.Engine = c.Gin.NewEngine()
	if _, err = routes.Register(ctx, e, p, c, n); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	if err = e.Run(); err != nil {
		return fmt.Errorf("running Gin engine: %w", err)
	}
	return nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code is
// zero for success and non-zero for failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	cfgPath = config.Path(cfgPath)
}
