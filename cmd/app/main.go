package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"phantomtrack/cmd"
	adapterhttp "phantomtrack/internal/adapters/in/http"
	"phantomtrack/internal/adapters/out/postgres/orderrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	if err := configs.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := adapterhttp.ValidateOpenAPIDocument(context.Background()); err != nil {
		log.Fatalf("Invalid API document: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB, err := gorm.Open(pgdriver.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err = gormDB.AutoMigrate(&orderrepo.OrderDTO{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, logger)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),

		ShippoAPIToken:        goDotEnvVariable("SHIPPO_API_TOKEN"),
		ShippoFromAddressJSON: goDotEnvVariable("SHIPPO_FROM_ADDRESS_JSON"),
		ShippoParcelJSON:      goDotEnvVariable("SHIPPO_PARCEL_JSON"),

		StripeSecretKey:       goDotEnvVariable("STRIPE_SECRET_KEY"),
		CheckoutWebhookSecret: goDotEnvVariable("STRIPE_WEBHOOK_SECRET"),
		TrackingWebhookSecret: goDotEnvVariable("TRACKING_WEBHOOK_SECRET"),

		SMTPHost:     goDotEnvVariable("SMTP_HOST"),
		SMTPPort:     goDotEnvVariable("SMTP_PORT"),
		SMTPUser:     goDotEnvVariable("SMTP_USER"),
		SMTPPassword: goDotEnvVariable("SMTP_PASSWORD"),
		SMTPFrom:     goDotEnvVariable("SMTP_FROM"),

		AdminEmails: goDotEnvVariable("ADMIN_EMAILS"),
		SiteURL:     goDotEnvVariable("SITE_URL"),
		BrandName:   goDotEnvVariable("BRAND_NAME"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	_ = godotenv.Load(".env")
	return os.Getenv(key)
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	app.CreateServer().RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
