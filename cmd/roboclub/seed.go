package main

import (
	"errors"

	"github.com/deppfellow/robotics-club/internal/database"
	"github.com/deppfellow/robotics-club/internal/repository"
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/deppfellow/robotics-club/internal/service"
	"github.com/spf13/cobra"
)

var seedAdmin struct {
	username string
	email    string
	password string
}

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the first admin account",
	Long: `Creates an Admin user with the given credentials. If an admin already
exists nothing is changed and the existing account is reported.`,
	RunE: runSeedAdmin,
}

func init() {
	flags := seedAdminCmd.Flags()
	flags.StringVar(&seedAdmin.username, "username", "admin", "admin username")
	flags.StringVar(&seedAdmin.email, "email", "", "admin email")
	flags.StringVar(&seedAdmin.password, "password", "", "admin password")
	_ = seedAdminCmd.MarkFlagRequired("email")
	_ = seedAdminCmd.MarkFlagRequired("password")
}

func runSeedAdmin(cmd *cobra.Command, _ []string) error {
	if len(seedAdmin.password) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	db, err := database.New(a.cfg, &a.log, a.loggerService)
	if err != nil {
		return err
	}
	defer db.Close()

	// Only the pool is needed; no jobs, cache or HTTP server.
	srv := &server.Server{Config: a.cfg, Logger: &a.log, LoggerService: a.loggerService, DB: db}
	users := service.NewUserService(repository.NewRepositories(srv).Users, nil, &a.log)

	user, created, err := users.SeedAdmin(cmd.Context(), seedAdmin.username, seedAdmin.email, seedAdmin.password)
	if err != nil {
		return err
	}

	if !created {
		a.log.Info().Str("username", user.Username).Str("email", user.Email).Msg("admin already exists")
		return nil
	}

	a.log.Info().Str("username", user.Username).Str("email", user.Email).Msg("admin created")
	return nil
}
