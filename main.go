package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "ferry-backend/internal/config"
	"ferry-backend/internal/db"
	httpapi "ferry-backend/internal/http"
)

func main() {
	env := intconfig.LoadEnv()

	conn := intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	if err := db.EnsureSchema(conn); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	router := httpapi.NewRouter(env)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}
