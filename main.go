package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/portfolio-backend/api"
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/docstore"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rpupo63/portfolio-backend/storage"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	setupLogger(c)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if path := config.GetString(c, "SSM_PARAMETER_PATH", ""); path != "" {
		if err := overlaySSM(ctx, c, path); err != nil {
			zlog.Fatal().Err(err).Msg("Error loading SSM parameters")
		}
		// Parameters may change the log settings.
		setupLogger(c)
	}

	store, err := openStore(c)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Error opening document store")
	}
	currentDB := database.New(store)

	client, err := openStorage(ctx, c)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Error initializing object storage")
	}

	authorizer, err := auth.ParseCredentials(config.GetString(c, "ADMIN_CREDENTIALS", ""))
	if err != nil {
		zlog.Fatal().Err(err).Msg("Error parsing ADMIN_CREDENTIALS")
	}
	if authorizer.Len() == 0 {
		zlog.Warn().Msg("ADMIN_CREDENTIALS is empty, nobody can log in")
	}

	tokens, err := auth.NewTokens(
		config.GetString(c, "JWT_SECRET", ""),
		config.GetMinutes(c, "JWT_TTL_MINUTES", time.Hour),
	)
	if err != nil {
		zlog.Warn().Err(err).Msg("Admin routes are disabled")
		tokens = nil
	}

	mailer := services.NewEmailSender(
		config.GetString(c, "RESEND_API_KEY", ""),
		config.GetString(c, "RESEND_FROM_EMAIL", ""),
	)

	sweepInterval := config.GetMinutes(c, "SWEEP_INTERVAL_MINUTES", 15*time.Minute)
	if sweepInterval > 0 {
		sweeper := services.NewSweeper(currentDB, client, config.GetMinutes(c, "SWEEP_MIN_AGE_MINUTES", 30*time.Minute))
		go sweeper.Run(ctx, sweepInterval)
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(c, api.Dependencies{
		Database:   currentDB,
		Storage:    client,
		Mailer:     mailer,
		Authorizer: authorizer,
		Tokens:     tokens,
	})
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	cancel()
	server.ShutdownGracefully(30 * time.Second)
}

func setupLogger(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if config.GetString(c, "LOG_FORMAT", "json") == "console" {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		zlog.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

func overlaySSM(ctx context.Context, c map[string]string, path string) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	loaded, err := config.LoadSSMParameters(ctx, ssm.NewFromConfig(awsCfg), path, c)
	if err != nil {
		return err
	}
	zlog.Info().Int("parameters", loaded).Str("path", path).Msg("Loaded SSM parameters")
	return nil
}

// openStore picks the document store backend from DB_TYPE.
func openStore(c map[string]string) (docstore.Store, error) {
	dbType := config.GetString(c, "DB_TYPE", "memory")
	fmt.Printf("DB_TYPE: %s\n", dbType)

	var connStr string
	switch dbType {
	case "memory":
		zlog.Warn().Msg("Using the in-memory document store, content is lost on restart")
		return docstore.NewMemory(), nil
	case "supa":
		connStr = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", ""),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		)
		fmt.Println("Connecting to Supabase database...")
	case "postgres":
		connStr = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetString(c, "POSTGRES_HOST", "localhost"),
			config.GetString(c, "POSTGRES_USER", "postgres"),
			config.GetString(c, "POSTGRES_PASSWORD", ""),
			config.GetString(c, "POSTGRES_DB", "portfolio"),
			config.GetString(c, "POSTGRES_PORT", "5432"),
			config.GetString(c, "POSTGRES_SSLMODE", "disable"),
		)
		fmt.Println("Connecting to Postgres database...")
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("error testing database connection: %w", err)
	}

	return docstore.NewGorm(db)
}

// openStorage picks the object storage backend from STORAGE_TYPE.
func openStorage(ctx context.Context, c map[string]string) (storage.Client, error) {
	switch storageType := config.GetString(c, "STORAGE_TYPE", "memory"); storageType {
	case "memory":
		zlog.Warn().Msg("Using in-memory object storage, uploads are lost on restart")
		return storage.NewMemory(config.GetString(c, "S3_PUBLIC_BASE_URL", "http://localhost:8080/assets")), nil
	case "s3":
		return storage.NewS3(ctx, storage.S3Config{
			Bucket:          config.GetString(c, "S3_BUCKET", ""),
			Region:          config.GetString(c, "S3_REGION", "us-east-1"),
			Endpoint:        config.GetString(c, "S3_ENDPOINT", ""),
			UsePathStyle:    config.GetBool(c, "S3_USE_PATH_STYLE", false),
			AccessKeyID:     config.GetString(c, "AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: config.GetString(c, "AWS_SECRET_ACCESS_KEY", ""),
			PublicBaseURL:   config.GetString(c, "S3_PUBLIC_BASE_URL", ""),
		})
	default:
		return nil, fmt.Errorf("unsupported STORAGE_TYPE %q", storageType)
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
