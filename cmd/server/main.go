package main

import (
	"bufio"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"triviarena/server/internal/config"
	"triviarena/server/internal/game"
	"triviarena/server/internal/mail"
	"triviarena/server/internal/opentdb"
	"triviarena/server/internal/ops"
	"triviarena/server/internal/room"
	"triviarena/server/internal/server"
	"triviarena/server/internal/session"
	"triviarena/server/internal/storage"
)

func init() {
	config.LoadConfig()
}

func main() {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.TimeOnly,
	}))
	slog.SetDefault(logger)

	store, err := storage.Open(config.AppConfig.DatabaseURL, opentdb.NewClient(), config.AppConfig.MinQuestionPool)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}

	rooms := room.NewRegistry()
	games := game.NewRegistry(store, logger)

	deps := &session.Deps{
		Store:       store,
		Mail:        mail.NewMailjet(config.AppConfig.MailjetAPIKey, config.AppConfig.MailjetSecret, config.AppConfig.MailSender),
		Rooms:       rooms,
		Games:       games,
		Logins:      session.NewLoginTracker(),
		Log:         logger,
		TokenSecret: config.AppConfig.TokenSecret,
	}

	srv := server.New(deps, logger)

	go func() {
		api := ops.New(store, rooms, games, srv)
		if err := api.Router().Run(config.AppConfig.OpsAddr); err != nil {
			logger.Error("ops api stopped", "err", err)
		}
	}()

	go func() {
		if err := srv.ListenAndServe(config.AppConfig.ListenAddr()); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	console(srv, logger)
}

// console reads operator commands from stdin until "exit" shuts the server
// down.
func console(srv *server.Server, logger *slog.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "exit":
			logger.Info("shutting down")
			srv.Shutdown()
			return
		case "clear":
			fmt.Print("\033[2J\033[H")
		case "":
		default:
			fmt.Println("Unknown command. Available: clear, exit")
		}
	}
	// stdin closed (service deployments have no console); block forever
	select {}
}
