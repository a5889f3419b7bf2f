package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Infraestrutura e utilitários
	"shelfmap/config"
	_ "shelfmap/docs"
	"shelfmap/internal/pkg/cache"
	"shelfmap/internal/pkg/database"
	"shelfmap/internal/pkg/logger"
	"shelfmap/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"shelfmap/internal/api/editor"
	"shelfmap/internal/api/placement"
	"shelfmap/internal/api/router"
	"shelfmap/internal/api/shelf"
	"shelfmap/internal/backend"
	"shelfmap/internal/repository/placementrepo"
	"shelfmap/internal/repository/shelfrepo"
	"shelfmap/internal/service/placementservice"
	"shelfmap/internal/service/shelfservice"
	"shelfmap/internal/websocket"
	"shelfmap/internal/workspace"
)

// @title shelfmap API
// @version 1.0
// @description Catálogo de prateleiras, atribuições de localização e reordenação de itens por loja.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	// Sem o arquivo seguimos com o ambiente do sistema (ex: Docker).
	if err := godotenv.Load(); err != nil {
		stdlog.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração e Inicialização
	cfg, err := config.LoadConfig()
	if err != nil {
		stdlog.Fatalf("Falha ao carregar configurações: %v", err)
	}
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment, "backend_url": cfg.BackendURL})

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		ConnMaxIdleTime: cfg.DBConnIdleLimit,
	})
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr, log)
	defer cacheClient.Close()

	// C. Serviço de Tokens (JWT)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler
	shelfRepo := shelfrepo.NewShelfRepository(db, cfg.DBTimeout, log)
	placementRepo := placementrepo.NewPlacementRepository(db, cfg.DBTimeout, log)

	shelfSvc := shelfservice.NewService(shelfRepo, cacheClient, cfg.CacheTTL, log)
	placementSvc := placementservice.NewService(placementRepo, shelfRepo, log)

	shelfHandler := shelf.NewHandler(shelfSvc, log)
	placementHandler := placement.NewHandler(placementSvc, log)
	log.Debug("Handlers de catálogo e atribuições inicializados.", nil)

	// D. Editor: conversa com o backend pelas mesmas rotas HTTP que os navegadores usam.
	backendClient := backend.NewClient(cfg.BackendURL, &http.Client{Timeout: cfg.CommitTimeout + cfg.CatalogTimeout}, tokenSvc)
	hub := websocket.NewHub(log)
	registry := workspace.NewRegistry(workspace.Deps{
		Layout:         backendClient,
		Shelves:        backendClient,
		Committer:      backendClient,
		Saver:          backendClient,
		Publisher:      hub,
		CatalogTimeout: cfg.CatalogTimeout,
		CommitTimeout:  cfg.CommitTimeout,
		TTL:            cfg.PageTTL,
		Logger:         log,
	})
	editorHandler := editor.NewHandler(registry, hub, log)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go registry.Run(sweepCtx, time.Minute)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(router.Handlers{
		Shelf:     shelfHandler,
		Placement: placementHandler,
		Editor:    editorHandler,
	}, router.Options{
		Tokens:      tokenSvc,
		Cache:       cacheClient,
		RateLimit:   cfg.RateLimitMaxRequests,
		RatePeriod:  cfg.RateLimitPeriod,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor shelfmap ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	stopSweep()
	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
