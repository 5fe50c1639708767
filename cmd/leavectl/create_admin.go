package main

import (
	"fmt"

	"go-leave/internal/auth"
	"go-leave/internal/auth/token"
	"go-leave/internal/shared/connection"
	"go-leave/internal/user"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	createAdminCmd = &cobra.Command{
		RunE:  runCreateAdmin,
		Use:   "create-admin",
		Short: "create an admin account",
	}
	adminReq auth.AdminRequest
)

func init() {
	createAdminCmd.Flags().StringVar(&adminReq.Name, "name", "", "display name")
	createAdminCmd.Flags().StringVar(&adminReq.Email, "email", "", "login email")
	createAdminCmd.Flags().StringVar(&adminReq.Password, "password", "", "initial password (min 6 characters)")
	createAdminCmd.Flags().StringVar(&adminReq.Department, "department", "", "department")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createAdminCmd)
}

func runCreateAdmin(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := connection.ConnectGORMWithRetry(cfg.DSN(), cfg.DBMaxRetries, logger)
	if err != nil {
		return err
	}

	if adminReq.Name == "" {
		adminReq.Name = "Administrator"
	}

	svc := auth.NewService(
		user.NewRepository(db),
		token.NewManager(cfg.JWTSecret, cfg.JWTTTL),
		cfg.BcryptCost,
		logger,
	)
	created, err := svc.CreateAdmin(cmd.Context(), adminReq)
	if err != nil {
		return err
	}

	logger.Info("admin created", zap.String("user_id", created.ID), zap.String("email", created.Email))
	fmt.Fprintln(cmd.OutOrStdout(), created.ID)
	return nil
}
