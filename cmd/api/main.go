package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/option"

	"medconnect/internal/adapter/api"
	"medconnect/internal/adapter/api/handler"
	apimiddleware "medconnect/internal/adapter/api/middleware"
	"medconnect/internal/adapter/api/router"
	"medconnect/internal/adapter/repository"
	"medconnect/internal/infrastructure/cache"
	"medconnect/internal/infrastructure/firebase"
	"medconnect/internal/infrastructure/localdb"
	"medconnect/internal/infrastructure/network"
	"medconnect/internal/infrastructure/ratelimit"
	"medconnect/internal/infrastructure/search"
	"medconnect/internal/infrastructure/storage"
	"medconnect/internal/infrastructure/telemetry"
	"medconnect/internal/infrastructure/websocket"
	"medconnect/internal/usecase"
	"medconnect/pkg/config"
	"medconnect/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opt, err := firebase.CredentialsOption(cfg)
	if err != nil {
		log.Fatalf("Failed to load credentials: %v", err)
	}
	var clientOpts []option.ClientOption
	if opt != nil {
		clientOpts = append(clientOpts, opt)
	}

	firebaseApp, err := firebase.NewApp(ctx, cfg, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	realtimeClient, err := firebaseApp.Database(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Realtime Database: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, clientOpts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	blobStore, err := newBlobStore(ctx, cfg, opt)
	if err != nil {
		log.Fatalf("Failed to initialize blob storage: %v", err)
	}
	defer blobStore.Close()

	fileCache, err := cache.NewFileCache(cfg.FileCacheDir)
	if err != nil {
		log.Fatalf("Failed to initialize file cache: %v", err)
	}
	images := storage.NewGateway(blobStore, fileCache)

	localDB, err := localdb.Open(cfg.LocalDataDir)
	if err != nil {
		log.Fatalf("Failed to open local database: %v", err)
	}
	defer localDB.Close()

	monitor := network.NewMonitor(cfg.ReachabilityHost, cfg.ReachabilityInterval)
	monitor.Start(ctx)

	recorder := telemetry.NewGlobal()
	functions := firebase.NewFunctionsClient(cfg.FunctionsBaseURL, cfg.FunctionsRatePerSecond)
	firebaseAuthClient := firebase.NewAuthClient(authClient, cfg.FirebaseApiKey)
	searcher := search.NewAlgoliaClient(cfg.AlgoliaAppID, cfg.AlgoliaApiKey)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	// toggles are broadcast to the user's other devices before they are written
	coalescer := usecase.NewCoalescer(cfg.CoalesceDelay, func(key usecase.ToggleKey, value, rollback bool) {
		wsManager.Publish(key.UserID, websocket.EventContentChanged, websocket.ContentChange{
			Kind:      string(key.Kind),
			ContentID: key.ContentID,
			CommentID: key.CommentID,
			ReplyID:   key.ReplyID,
			Value:     value,
			Rollback:  rollback,
		})
	})
	coalescer.OnFailure(func(key usecase.ToggleKey, err error) {
		recorder.Event(context.Background(), telemetry.EventWriteRollback, attribute.String("kind", string(key.Kind)))
		recorder.RecordError(context.Background(), err, "coalescer."+string(key.Kind))
	})

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	postRepo := repository.NewFirestorePostRepository(firestoreClient)
	caseRepo := repository.NewFirestoreCaseRepository(firestoreClient)
	commentRepo := repository.NewFirestoreCommentRepository(firestoreClient)
	connectionRepo := repository.NewFirestoreConnectionRepository(firestoreClient)
	followRepo := repository.NewFirestoreFollowRepository(firestoreClient)
	blockRepo := repository.NewFirestoreBlockRepository(firestoreClient)
	groupRepo := repository.NewFirestoreGroupRepository(firestoreClient)
	notificationRepo := repository.NewFirestoreNotificationRepository(firestoreClient)
	newsRepo := repository.NewFirestoreNewsRepository(firestoreClient)

	chatRepo := repository.NewRealtimeChatRepository(realtimeClient)
	profileRepo := repository.NewRealtimeProfileRepository(realtimeClient)
	recentRepo := repository.NewRealtimeRecentSearchRepository(realtimeClient)

	notificationStore := repository.NewSQLiteNotificationStore(localDB)
	conversationStore := repository.NewSQLiteConversationStore(localDB)

	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient, monitor, recorder)
	postUseCase := usecase.NewPostUseCase(postRepo, groupRepo, images, functions, monitor, coalescer, recorder)
	caseUseCase := usecase.NewCaseUseCase(caseRepo, groupRepo, images, functions, monitor, coalescer, recorder)
	userUseCase := usecase.NewUserUseCase(userRepo, followRepo, connectionRepo, postRepo, caseRepo, images, monitor, cfg.UserCacheSize)

	handler.Setup(handler.UseCases{
		Auth:         authUseCase,
		User:         userUseCase,
		Post:         postUseCase,
		Case:         caseUseCase,
		Comment:      usecase.NewCommentUseCase(commentRepo, postRepo, caseRepo, functions, monitor, coalescer, recorder),
		Connection:   usecase.NewConnectionUseCase(connectionRepo, blockRepo, functions, monitor, recorder),
		Follow:       usecase.NewFollowUseCase(followRepo, blockRepo, functions, monitor, recorder),
		Block:        usecase.NewBlockUseCase(blockRepo, monitor),
		Group:        usecase.NewGroupUseCase(groupRepo, functions, monitor, recorder),
		Notification: usecase.NewNotificationUseCase(notificationRepo, notificationStore, monitor),
		News:         usecase.NewNewsUseCase(newsRepo),
		Search:       usecase.NewSearchUseCase(searcher, userRepo, postRepo, caseRepo, recentRepo, recorder),
		Chat:         usecase.NewChatUseCase(chatRepo, blockRepo, conversationStore, images, wsManager, monitor, recorder),
		Profile:      usecase.NewProfileUseCase(profileRepo, monitor),
	})
	handler.SetupHealthHandler(monitor)
	handler.SetupMediaHandler(images)
	handler.SetupDevTokenHandler(firebaseAuthClient)

	e := echo.New()
	e.Debug = cfg.IsDevelopment()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authUseCase)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userUseCase)
	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine(ctx.Done())
	rateLimitMiddleware := apimiddleware.NewRateLimitMiddleware(limiter)
	wsHandler := handler.NewWebSocketHandler(wsManager, nil)

	router.Setup(e, authMiddleware, adminMiddleware, rateLimitMiddleware)
	router.SetupDevRouter(e, cfg.Environment)
	router.SetupWebSocketRouter(e, wsHandler, authMiddleware)

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown: %v", err)
	}

	// commit toggles still inside their window
	coalescer.Flush()
}

func newBlobStore(ctx context.Context, cfg *config.Config, opt option.ClientOption) (storage.BlobStore, error) {
	switch cfg.StorageProvider {
	case "minio":
		logger.Info("Using MinIO blob storage at %s", cfg.MinioEndpoint)
		return storage.NewMinioClient(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.StorageBucket, cfg.MinioUseSSL)
	default:
		logger.Info("Using Cloud Storage bucket %s", cfg.StorageBucket)
		return storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opt)
	}
}
