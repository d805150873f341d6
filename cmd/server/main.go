package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/pprof"
	"github.com/jaytnw/washwatch/internal/config"
	"github.com/jaytnw/washwatch/internal/database"
	"github.com/jaytnw/washwatch/internal/handlers"
	"github.com/jaytnw/washwatch/internal/mqtt"
	"github.com/jaytnw/washwatch/internal/notifications"
	"github.com/jaytnw/washwatch/internal/proxiwash"
	"github.com/jaytnw/washwatch/internal/repository"
	"github.com/jaytnw/washwatch/internal/routes"
	"github.com/jaytnw/washwatch/internal/services"
	redisPkg "github.com/jaytnw/washwatch/pkg/redisclient"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env not loaded (using system env)")
	}

	cfg := config.LoadConfig()
	pcfg := cfg.ProxiwashConfig

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Preferences
	db, err := database.Open(cfg.DatabaseConfig)
	if err != nil {
		log.Fatalf("❌ failed to connect to database: %v", err)
	}

	// Watch-list store
	redisClient := redisPkg.New(cfg.RedisConfig)
	if err := redisPkg.Ping(ctx, redisClient); err != nil {
		log.Printf("⚠️ Redis not reachable, watch-list kept in memory until it is: %v", err)
	}
	defer redisClient.Close()

	// MQTT Connect
	clientID := fmt.Sprintf("%s-%d", cfg.MQTTConfig.ClientID, time.Now().UnixNano())
	mqttClient, err := mqtt.NewClient(
		cfg.MQTTConfig.BrokerURL,
		clientID,
		cfg.MQTTConfig.Username,
		cfg.MQTTConfig.Password,
	)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer mqttClient.Disconnect()

	// Wire DI
	preferenceRepo := repository.NewPreferenceRepo(db)
	preferenceService := services.NewPreferenceService(preferenceRepo)

	notifier := notifications.NewTimerNotifier(mqttClient, pcfg.NotificationTopic)
	defer notifier.Stop()
	scheduler := notifications.NewScheduler(notifier, preferenceService, preferenceService, time.Now)
	notifier.OnFired(scheduler.Fired)

	prank := proxiwash.NewPrankReorderer(
		proxiwash.ParsePrankMode(pcfg.PrankMode),
		time.Month(pcfg.PrankMonth),
		pcfg.PrankDay,
	)

	watchService := services.NewWatchService(
		services.NewSnapshotFetcher(pcfg.DataURL),
		repository.NewRedisWatchListRepo(redisClient, pcfg.WatchListKey),
		scheduler,
		prank,
		time.Now,
	)
	watchService.Start(ctx)

	// MQTT Subscribe
	err = mqttClient.Subscribe(pcfg.SnapshotTopic, func(topic string, payload []byte) {
		log.Printf("📥 Topic: %s | %d bytes", topic, len(payload))
		watchService.HandleSnapshotMessage(topic, payload)
	})
	if err != nil {
		log.Fatalf("❌ MQTT subscribe failed: %v", err)
	}

	log.Printf("🔄 Polling %s (%s) every %s", pcfg.Laundromat, pcfg.DataURL, pcfg.PollInterval)
	go watchService.Run(ctx, pcfg.PollInterval)

	// Create Fiber app
	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New())
	app.Use(pprof.New())

	routes.Setup(app,
		handlers.NewWatchHandler(watchService),
		handlers.NewPreferenceHandler(preferenceService),
	)

	go func() {
		log.Printf("Server is running at %s", cfg.ServerAddress)
		if err := app.Listen(cfg.ServerAddress); err != nil {
			log.Printf("❌ Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("❌ Shutdown error: %v", err)
	}

	log.Println("✅ Server gracefully stopped.")
}
