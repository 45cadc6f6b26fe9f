package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tecnoroute-be/internal/awsclient"
	"tecnoroute-be/internal/cart"
	"tecnoroute-be/internal/category"
	"tecnoroute-be/internal/config"
	"tecnoroute-be/internal/db"
	"tecnoroute-be/internal/events"
	"tecnoroute-be/internal/fleet"
	"tecnoroute-be/internal/graph"
	"tecnoroute-be/internal/idempotency"
	"tecnoroute-be/internal/logger"
	"tecnoroute-be/internal/metrics"
	"tecnoroute-be/internal/middleware"
	"tecnoroute-be/internal/notify"
	"tecnoroute-be/internal/order"
	"tecnoroute-be/internal/product"
	"tecnoroute-be/internal/reconcile"
	"tecnoroute-be/internal/rest"
	"tecnoroute-be/internal/shipment"
	"tecnoroute-be/internal/user"
	"tecnoroute-be/internal/verification"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = func(addr string, h http.Handler) error {
		srv := &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() { errCh <- srv.ListenAndServe() }()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err == http.ErrServerClosed {
				return nil
			}
			return err
		case <-stop:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	}
	startLambdaFunc = func(h http.Handler) {
		lambda.Start(httpadapter.New(h).ProxyWithContext)
	}
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	// background workers started by newServer stop when run returns
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := newServer(ctx, cfg, database)

	if cfg.AppRuntime == config.RuntimeLambda {
		logger.L().Info("starting lambda handler")
		startLambdaFunc(handler)
		return nil
	}

	logger.L().Info("HTTP server running", zap.String("port", cfg.AppPort))
	return startServerFunc(":"+cfg.AppPort, handler)
}

// newServer wires repositories, services and the HTTP stack. Goroutines it
// starts live until ctx is cancelled.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) http.Handler {
	m := metrics.New("api")

	var (
		publisher events.Publisher = events.Nop{}
		mailer    notify.Mailer    = notify.LogMailer{}
	)
	if cfg.KafkaEnabled() {
		publisher = events.NewKafkaPublisher(events.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopicEvents))
		mailer = notify.NewKafkaMailer(events.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopicEmail))
	}

	var (
		reconciler order.ReconcileEnqueuer
		idem       idempotency.Keeper
	)
	if cfg.ReconcileQueueURL != "" || cfg.IdempotencyTable != "" {
		clients, err := awsclient.New(ctx, cfg.AWSRegion)
		if err != nil {
			logger.L().Error("aws clients unavailable", zap.Error(err))
		} else {
			if cfg.ReconcileQueueURL != "" {
				reconciler = reconcile.NewPublisher(clients.SQS, cfg.ReconcileQueueURL)
			}
			if cfg.IdempotencyTable != "" {
				idem = idempotency.NewStore(clients.DynamoDB, cfg.IdempotencyTable, cfg.IdempotencyTTL)
			}
		}
	}

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	categoryRepo := category.NewRepository(database)
	categorySvc := category.NewService(categoryRepo, userRepo)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo, categoryRepo, userRepo)

	cartSvc := cart.NewService(cart.NewRepository(database), productRepo)

	fleetRepo := fleet.NewRepository(database)
	fleetSvc := fleet.NewService(fleetRepo, userRepo, userSvc)

	shipmentSvc := shipment.NewService(shipment.NewRepository(database), userRepo, publisher, shipment.Warehouse{
		Address: cfg.WarehouseAddress,
		Contact: cfg.WarehouseContact,
		Phone:   cfg.WarehousePhone,
	})

	orderSvc := order.NewService(order.NewRepository(database), userRepo, fleetRepo, shipmentSvc, publisher, reconciler, m)

	verificationSvc := verification.NewService(newCodeStore(cfg), userSvc, mailer)

	h := rest.NewHandler(rest.Services{
		Users:        userSvc,
		Verification: verificationSvc,
		Categories:   categorySvc,
		Products:     productSvc,
		Carts:        cartSvc,
		Orders:       orderSvc,
		Shipments:    shipmentSvc,
		Fleet:        fleetSvc,
	})

	gql := graph.NewHandler(&graph.Resolver{
		Orders:   orderSvc,
		Carts:    cartSvc,
		Products: productSvc,
	})

	limiter := middleware.NewRateLimiter(cfg.InternalToken)
	go limiter.Cleanup(ctx)

	var chain http.Handler = setupRouter(h, gql, m, idem)
	chain = limiter.Middleware(chain)
	chain = middleware.LoggingMiddleware(chain)
	chain = middleware.AuthMiddleware(chain)
	chain = middleware.CORS(cfg.CORSOrigin)(chain)
	chain = m.Middleware(chain)
	chain = logger.RequestIDMiddleware(chain)
	return chain
}

// newCodeStore connects the verification codes to redis. REDIS_ADDR falls back
// to a local instance.
func newCodeStore(cfg *config.Config) verification.CodeStore {
	return verification.NewStore(redis.NewClient(&redis.Options{
		Addr:     redisAddr(cfg),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}))
}

func redisAddr(cfg *config.Config) string {
	if cfg.RedisAddr == "" {
		return "localhost:6379"
	}
	return cfg.RedisAddr
}

func setupRouter(h *rest.Handler, gql http.Handler, m *metrics.Metrics, idem idempotency.Keeper) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))
	if gql != nil {
		r.GET("/graphql", gin.WrapH(gql))
		r.POST("/graphql", gin.WrapH(gql))
	}

	h.Register(r, idem)
	return r
}
