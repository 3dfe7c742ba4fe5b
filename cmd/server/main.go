package main

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/yerinlee/dinepos/internal/config"
	"github.com/yerinlee/dinepos/internal/database"
	"github.com/yerinlee/dinepos/internal/handler"
	"github.com/yerinlee/dinepos/internal/queue"
	"github.com/yerinlee/dinepos/internal/repository"
	"github.com/yerinlee/dinepos/internal/router"
	"github.com/yerinlee/dinepos/internal/service/queue_publisher"
)

func main() {
	cfg := config.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Env == "development" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	if err := database.Migrate(db, "migrations", cfg.DBName); err != nil {
		logrus.WithError(err).Fatal("database migration failed")
	}

	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()

	var events handler.EventPublisher
	if cfg.AMQPURL != "" {
		events = queue_publisher.New(cfg.AMQPURL)
		go func() {
			if err := queue.StartChangeConsumer(cfg.AMQPURL); err != nil {
				logrus.WithError(err).Warn("change consumer stopped")
			}
		}()
	}

	tables := repository.NewTableRepo(db)
	tickets := repository.NewTicketRepo(db)
	menu := repository.NewMenuRepo(db)
	items := repository.NewItemRepo(db)
	kq := repository.NewQueueRepo(db)
	payments := repository.NewPaymentRepo(db)
	waits := repository.NewWaitRepo(db)

	h := router.Handlers{
		Table:    handler.NewTableHandler(tables, tickets, events),
		Order:    handler.NewOrderHandler(tables, tickets, menu, items, kq, events),
		Kitchen:  handler.NewKitchenHandler(items, kq, events),
		Serving:  handler.NewServingHandler(items, kq, events),
		Cashier:  handler.NewCashierHandler(payments, events),
		Menu:     handler.NewMenuHandler(menu),
		Waitlist: handler.NewWaitlistHandler(waits, tables, events),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e)
	router.RegisterGuest(e, h, cfg.Tenants)
	router.RegisterStaff(e, h, cfg.Tenants, cfg.JWTSecret, rdb, cacheCfg)

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
	if err := e.Start(addr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
