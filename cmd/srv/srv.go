package main

import (
	"context"
	"net/http"

	"github.com/rs/cors"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/quizbattle-lab/backend/config"
	"github.com/quizbattle-lab/backend/internal/domain"
	"github.com/quizbattle-lab/backend/internal/domain/gameproxy"
	"github.com/quizbattle-lab/backend/internal/domain/gameroom"
	"github.com/quizbattle-lab/backend/internal/domain/roommanager"
	"github.com/quizbattle-lab/backend/internal/repository"
	"github.com/quizbattle-lab/backend/migration"
	"github.com/quizbattle-lab/backend/pkg/logger"
)

type srv struct {
	app *cli.App

	configs config.Configs
	logger  logger.Logger
	db      *gorm.DB

	playerRepo   repository.PlayerRepository
	questionRepo repository.QuestionRepository
	categoryRepo repository.CategoryRepository

	sessionManager *gameproxy.SessionManager
	broadcaster    *gameproxy.Broadcaster
	roomManager    *roommanager.Manager

	gameDomain   domain.GameDomain
	lobbyDomain  domain.LobbyDomain
	playerDomain domain.PlayerDomain

	mux    *http.ServeMux
	server *http.Server
}

func (s *srv) loadConfig(path string) error {
	configs, err := config.Load(path)
	if err != nil {
		return err
	}
	s.configs = configs
	return nil
}

func (s *srv) loadLogger() {
	s.logger = logger.NewLogger(s.configs.LogLevel)
}

func (s *srv) loadDatabase(ctx context.Context) error {
	db, err := gorm.Open(sqlite.Open(s.configs.Database.Path), &gorm.Config{})
	if err != nil {
		return err
	}
	s.db = db

	if err := migration.AutoMigrate(s.db); err != nil {
		return err
	}

	questionRepo := repository.NewQuestionRepository(s.db)
	return migration.SeedQuestions(ctx, questionRepo, s.configs.Database.SeedDir)
}

func (s *srv) loadRepos() {
	s.playerRepo = repository.NewPlayerRepository(s.db)
	s.questionRepo = repository.NewQuestionRepository(s.db)
	s.categoryRepo = repository.NewCategoryRepository()
}

func (s *srv) loadDomains() {
	s.sessionManager = gameproxy.NewSessionManager(s.logger, s.configs.Ws.Compression)
	s.broadcaster = gameproxy.NewBroadcaster(s.logger, s.configs.Ws.Compression)

	factory := gameroom.NewFactory(s.questionRepo, s.broadcaster, s.logger, s.configs.Game)
	s.roomManager = roommanager.NewManager(
		s.logger, s.configs.Game, factory, s.categoryRepo, s.broadcaster, s.sessionManager)

	s.gameDomain = domain.NewGameDomain(s.logger, s.roomManager, s.sessionManager, s.broadcaster)
	s.lobbyDomain = domain.NewLobbyDomain(s.roomManager, s.categoryRepo)
	s.playerDomain = domain.NewPlayerDomain(s.playerRepo)
}

func (s *srv) loadRouter() {
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/rooms", s.handleGetRooms)
	s.mux.HandleFunc("/categories", s.handleGetCategories)
	s.mux.HandleFunc("/game-types", s.handleGetGameTypes)
	s.mux.HandleFunc("/players", s.handleCreatePlayer)
	s.mux.HandleFunc("/players/", s.handleGetPlayer)
	s.mux.HandleFunc("/game", s.handleGameWs)
}

func (s *srv) startServer() error {
	s.server = &http.Server{
		Addr:    s.configs.Server.Address(),
		Handler: cors.AllowAll().Handler(s.mux),
	}

	s.logger.Infof("Server listening on %s", s.configs.Server.Address())
	return s.server.ListenAndServe()
}
