/*
This project is the monolithic backend API for the OpenSourceDUTH team. Access to open data compiled and provided by the OpenSourceDUTH University Team as well as helper endpoints to integrate with our apps.
API Copyright (C) 2025 OpenSourceDUTH
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"MessAPI/internal/clock"
	"MessAPI/internal/common"
	"MessAPI/internal/config"
	"MessAPI/internal/provider"
	"MessAPI/internal/service"
	v0common "MessAPI/internal/v0/common"
	"MessAPI/internal/v0/menu"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	c, err := clock.New(cfg.Profile.Timezone)
	if err != nil {
		return err
	}

	menuProvider, closeProvider, err := openProvider(cfg.Source)
	if err != nil {
		return err
	}
	defer closeProvider()

	cache := provider.NewCache(cfg.Cache.Size, cfg.Cache.WeekTTL, cfg.Cache.ListTTL)
	svc, err := service.NewFromProfile(cfg.Profile, c, menuProvider, cache)
	if err != nil {
		return err
	}
	log.Printf("Serving %s (%s mode) from the %s source", cfg.Profile.Name, cfg.Profile.Mode, menuProvider.Name())

	router := gin.Default()
	router.Use(v0common.RequestID())

	// Global routes
	global := router.Group("/api")
	common.RegisterRoutes(global, common.NewHandler(cfg.Profile.Name, menuProvider.Name(), cache.Len))

	menuHandler := menu.NewHandler(svc)
	menu.RegisterCompatRoutes(global, menuHandler)

	// v0 API routes
	v0Group := router.Group("/api/v0")
	{
		menu.RegisterRoutes(v0Group, menuHandler)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if cfg.Cache.Warm {
		g.Go(func() error {
			if _, err := svc.Warm(ctx); err != nil {
				log.Printf("Warning: cache warmup failed: %v", err)
			}
			return nil
		})
	}
	// Graceful shutdown handling
	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openProvider builds the configured menu source and a function releasing it.
func openProvider(cfg config.SourceConfig) (provider.Provider, func(), error) {
	noop := func() {}
	switch cfg.Kind {
	case config.SourceSQLite, config.SourcePgx:
		store, err := provider.OpenStore(cfg.Kind, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case config.SourceHTTP:
		return provider.NewHTTP(cfg.RemoteURL, cfg.RemoteTimeout), noop, nil
	case config.SourceS3:
		store, err := provider.NewObjectStore(provider.ObjectStoreConfig{
			Endpoint:  cfg.S3.Endpoint,
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	default:
		return provider.NewFile(cfg.DataDir), noop, nil
	}
}
