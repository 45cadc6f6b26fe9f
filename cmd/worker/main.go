package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"tecnoroute-be/internal/config"
	"tecnoroute-be/internal/db"
	"tecnoroute-be/internal/events"
	"tecnoroute-be/internal/logger"
	"tecnoroute-be/internal/metrics"
	"tecnoroute-be/internal/order"
	"tecnoroute-be/internal/reconcile"
	"tecnoroute-be/internal/shipment"
	"tecnoroute-be/internal/user"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

const localBody = `{"order_id":1,"reason":"local"}`

var (
	initDBFunc      = db.InitDB
	startLambdaFunc = func(p *reconcile.Processor) {
		lambda.Start(p.Handle)
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

	p := newProcessor(cfg, database)

	// RUN_LOCAL=true simulates a single SQS delivery.
	if os.Getenv("RUN_LOCAL") == "true" {
		body := os.Getenv("LOCAL_SQS_BODY")
		if body == "" {
			body = localBody
		}
		resp, err := p.Handle(context.Background(), awsevents.SQSEvent{
			Records: []awsevents.SQSMessage{{MessageId: "local-1", Body: body}},
		})
		if err != nil {
			return err
		}
		logger.L().Info("local reconcile done", zap.Int("failures", len(resp.BatchItemFailures)))
		return nil
	}

	startLambdaFunc(p)
	return nil
}

func newProcessor(cfg *config.Config, database *sql.DB) *reconcile.Processor {
	var publisher events.Publisher = events.Nop{}
	if cfg.KafkaEnabled() {
		publisher = events.NewKafkaPublisher(events.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopicEvents))
	}

	userRepo := user.NewRepository(database)
	shipments := shipment.NewService(shipment.NewRepository(database), userRepo, publisher, shipment.Warehouse{
		Address: cfg.WarehouseAddress,
		Contact: cfg.WarehouseContact,
		Phone:   cfg.WarehousePhone,
	})

	return reconcile.NewProcessor(order.NewRepository(database), shipments, metrics.New("worker"))
}
