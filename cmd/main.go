package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"motion_dashboard/internal/broker"
	"motion_dashboard/internal/handlers"
	"motion_dashboard/internal/logger"
	"motion_dashboard/internal/models"
	"motion_dashboard/internal/repository"
	"motion_dashboard/internal/server"
	"motion_dashboard/internal/service"

	"github.com/spf13/viper"
)

const defaultFreshnessTick = 15 * time.Second

func main() {
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(viper.GetString("log_level"))

	conn, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	mqttClient := broker.NewClient(brokerConfig(), log)
	services := service.NewService(repos, mqttClient, serviceConfig(), log)
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The tracker consumes the aggregated motion flag; it dedupes repeated
	// observations itself, so feeding it every status change is safe.
	unsubTracker := services.Monitor.SubscribeStatus(func(st models.SystemStatus) {
		services.Triggers.ObserveMotion(st.MotionDetected)
	})
	defer unsubTracker()

	if err := mqttClient.Connect(); err != nil {
		log.Fatalw("failed to connect to mqtt broker", "err", err)
	}
	defer mqttClient.Disconnect()

	if err := mqttClient.SubscribeAlarms(services.Monitor.ProcessAlarm); err != nil {
		log.Fatalw("failed to subscribe to alarm topic", "err", err)
	}
	if err := mqttClient.SubscribeSystem(services.Monitor.ApplySystemPatch); err != nil {
		log.Fatalw("failed to subscribe to system topic", "err", err)
	}

	go services.Monitor.RunFreshnessWatch(ctx, freshnessTick())

	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

func brokerConfig() broker.Config {
	return broker.Config{
		Broker:      viper.GetString("mqtt.broker"),
		ClientID:    viper.GetString("mqtt.client_id"),
		User:        viper.GetString("mqtt.user"),
		Password:    viper.GetString("mqtt.password"),
		AlarmTopic:  viper.GetString("mqtt.alarm_topic"),
		SystemTopic: viper.GetString("mqtt.system_topic"),
	}
}

func serviceConfig() service.Config {
	return service.Config{
		SensorLocation: viper.GetString("sensor.location"),
		WebhookURL:     viper.GetString("notify.webhook_url"),
	}
}

func freshnessTick() time.Duration {
	if tick := viper.GetDuration("monitor.freshness_tick"); tick > 0 {
		return tick
	}
	return defaultFreshnessTick
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "dashboard.db")
		dbPath = "dashboard.db"
	}
	return repository.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
