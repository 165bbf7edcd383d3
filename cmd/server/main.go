package main

import (
	"context"
	"log"
	"time"

	"github.com/plume-social/plume/internal/auth"
	"github.com/plume-social/plume/internal/config"
	"github.com/plume-social/plume/internal/engage"
	"github.com/plume-social/plume/internal/imagestore"
	"github.com/plume-social/plume/internal/server"
	"github.com/plume-social/plume/internal/store"
)

func main() {
	cfg := config.Load()
	logger := auth.StdLogger{Prefix: "PLUME"}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("mongo disconnect", "error", err)
		}
	}()

	db := client.Database(cfg.MongoDatabase)
	users := store.NewUsers(db)
	posts := store.NewPosts(db)
	notifications := store.NewNotifications(db)

	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatalf("mongo indexes: %v", err)
	}

	var images imagestore.Store = imagestore.Disabled{}
	if cfg.CloudinaryURL != "" {
		images, err = imagestore.NewCloudinary(cfg.CloudinaryURL, "plume")
		if err != nil {
			log.Fatalf("cloudinary: %v", err)
		}
	}

	tokens := auth.NewTokenService([]byte(cfg.SigningKey), cfg.TokenTTL, cfg.Issuer, logger)
	engine := engage.New(users, posts, notifications, logger)

	srv := server.New(server.Config{Production: cfg.Production},
		tokens, users, posts, notifications, engine, images, logger)

	logger.Info("listening", "addr", cfg.Addr)
	if err := srv.Listen(cfg.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
