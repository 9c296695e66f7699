package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/controllers/http"
	"storefront/internal/infra"
	mmysql "storefront/internal/infra/mysql"
	"storefront/internal/infra/rabbitmq"
	"storefront/internal/metrics"
	mysqlrepo "storefront/internal/repository/mysql"
	redisrepo "storefront/internal/repository/redis"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	db, err := mmysql.NewMySQL(cfg)
	if err != nil {
		fatal("db: connect", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DB:           0,
		PoolSize:     200,
		MinIdleConns: 20,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	defer redisClient.Close()

	var publisher rabbitmq.PublisherInterface = rabbitmq.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.OrderExchange)
		if err != nil {
			fatal("failed to init publisher", err)
		}
		defer p.Close()
		publisher = rabbitmq.NewBreakerPublisher(p, 5, 30*time.Second)
	} else {
		slog.Warn("RABBITMQ_URL not set, order events are disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewCheckoutMetrics(reg)

	productRepo := mysqlrepo.NewProductRepository(db)
	productCache := infra.NewCachedProductReader(productRepo, redisClient, cfg.ProductCacheTTL)

	cartSvc := services.NewCartService(redisrepo.NewCartRepository(redisClient, cfg.CartTTL), productCache, m)
	checkoutSvc := services.NewCheckoutService(mysqlrepo.NewCheckoutStore(db), publisher, m)
	orderSvc := services.NewOrderService(mysqlrepo.NewOrderRepository(db), mysqlrepo.NewUserRepository(db))

	if len(cfg.WarmupProductIDs) > 0 {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			productCache.Warmup(ctx, cfg.WarmupProductIDs)
		}()
	}

	handler := http.NewHandler(cartSvc, checkoutSvc, orderSvc, productCache, productRepo)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/metrics", gin.WrapH(metrics.Handler(reg)))

	handler.RegisterRoutes(r)

	slog.Info("starting storefront", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		fatal("server run", err)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
