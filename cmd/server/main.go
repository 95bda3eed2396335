package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/wisnuvb/calmsey/internal/config"
	"github.com/wisnuvb/calmsey/internal/db"
	"github.com/wisnuvb/calmsey/internal/handler"
	"github.com/wisnuvb/calmsey/internal/metrics"
	"github.com/wisnuvb/calmsey/internal/router"
	"github.com/wisnuvb/calmsey/internal/service"
)

func main() {
	root := &cobra.Command{
		Use:   "calmsey",
		Short: "Multilingual marketing site backend",
	}
	root.AddCommand(serveCmd(), initAdminCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(dev bool) *slog.Logger {
	if dev {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg.DevMode)
			slog.SetDefault(logger)

			gdb, err := db.Init(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("initialize database: %w", err)
			}

			if err := db.EnsureSuperAdmin(gdb, cfg.SuperAdminName, cfg.SuperAdminPassword); err != nil {
				return fmt.Errorf("ensure super admin: %w", err)
			}

			m := metrics.New()
			api := handler.NewAPI(gdb, cfg, logger, m)
			engine := router.Setup(api, cfg, m)

			logger.Info("server starting", "addr", cfg.ListenAddr)
			return engine.Run(cfg.ListenAddr)
		},
	}
}

func initAdminCmd() *cobra.Command {
	var username, password, roleTag string

	cmd := &cobra.Command{
		Use:   "init-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			gdb, err := db.Init(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("initialize database: %w", err)
			}

			users := service.NewUserService(gdb)
			user, err := users.Create(service.UserInput{
				Username: username,
				Password: password,
				Role:     roleTag,
				IsActive: true,
			})
			if err != nil {
				return err
			}

			fmt.Printf("created user %s (%s)\n", user.Username, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "account username")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&roleTag, "role", "SUPER_ADMIN", "account role")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(handler.AppVersion)
		},
	}
}
