package main

import (
	"context"
	"fmt"
	"os"

	"github.com/heritage-atlas/heritage-api/internal/config"
	"github.com/heritage-atlas/heritage-api/internal/database"
	monumentrepo "github.com/heritage-atlas/heritage-api/internal/monument/repository"
	monumentsvc "github.com/heritage-atlas/heritage-api/internal/monument/service"
	"github.com/heritage-atlas/heritage-api/internal/users"
	"github.com/heritage-atlas/heritage-api/pkg/logger"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	userSvc     *users.Service
	monumentSvc *monumentsvc.Service

	mongoClient *mongo.Client
)

var rootCmd = &cobra.Command{
	Use:               "heritagectl",
	Short:             "Operator tool for the heritage monuments API",
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if mongoClient != nil {
			_ = mongoClient.Disconnect(context.Background())
		}
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(monumentCmd)
}

// initializeApp connects to MongoDB using the server's configuration. Services
// that are already set (tests) are kept.
func initializeApp(cmd *cobra.Command, args []string) error {
	if userSvc != nil && monumentSvc != nil {
		return nil
	}
	logger.Init(os.Getenv("LOG_LEVEL"))
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.MongoDB.URI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	mongoClient, err = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
	if err != nil {
		return err
	}
	db := mongoClient.Database(cfg.MongoDB.Database)

	ur, err := users.NewMongoUserRepository(ctx, db.Collection(database.UsersCollection))
	if err != nil {
		return err
	}
	mr, err := monumentrepo.NewMongoRepo(ctx, db.Collection(database.MonumentsCollection))
	if err != nil {
		return err
	}
	userSvc = users.NewService(ur)
	// media is unused by moderation commands
	monumentSvc = monumentsvc.NewService(mr, nil, false)
	return nil
}
