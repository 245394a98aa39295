package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sushihentaime/startuphub/internal/blogservice"
	"github.com/sushihentaime/startuphub/internal/common"
	"github.com/sushihentaime/startuphub/internal/faq"
	"github.com/sushihentaime/startuphub/internal/mailservice"
	"github.com/sushihentaime/startuphub/internal/site"
	"github.com/sushihentaime/startuphub/internal/slider"
	"github.com/sushihentaime/startuphub/internal/startupservice"
	"github.com/sushihentaime/startuphub/internal/uploadservice"
	"github.com/sushihentaime/startuphub/internal/userservice"
)

type application struct {
	config         *Config
	logger         *slog.Logger
	db             *sql.DB
	userService    *userservice.UserService
	blogService    *blogservice.BlogService
	startupService *startupservice.StartupService
	uploadService  *uploadservice.UploadService
	mailService    *mailservice.MailService
	broker         *common.MessageBroker
	faq            *faq.FAQ
	shell          *site.Shell
	testimonials   *slider.Rotator
}

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "startuphub",
		Short:         "API and web shell for the StartupHub directory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", ".env", "path to the .env configuration file")

	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		newLogger("").Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger(env string) *slog.Logger {
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the mail consumers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			return run(cfg, newLogger(cfg.Environment))
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	var source string
	cmd.PersistentFlags().StringVar(&source, "source", "file://migrations", "migration source URL")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(configPath)
				if err != nil {
					return err
				}

				m, err := common.MigrateUp(source, cfg.databaseURL())
				if err != nil {
					return err
				}
				defer m.Close()

				newLogger(cfg.Environment).Info("migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(configPath)
				if err != nil {
					return err
				}

				if err := common.MigrateDown(source, cfg.databaseURL(), 1); err != nil {
					return err
				}

				newLogger(cfg.Environment).Info("rolled back one migration")
				return nil
			},
		},
	)

	return cmd
}

func run(cfg *Config, logger *slog.Logger) error {
	db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode, 10, 5, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		return err
	}
	defer common.CloseDB(db)

	broker, err := common.NewMessageBroker(cfg.amqpURI())
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		return err
	}
	defer broker.Close()

	if err := common.SetupStartupExchange(broker); err != nil {
		logger.Error("failed to setup the startup exchange", slog.String("error", err.Error()))
		return err
	}

	faqs, err := faq.Load()
	if err != nil {
		return err
	}

	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	app := &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		userService:    userservice.NewUserService(db, cache, userservice.NewVerifier(cfg.JWTSecret)),
		blogService:    blogservice.NewBlogService(db, cache),
		startupService: startupservice.NewStartupService(db, cache, broker),
		uploadService:  uploadservice.NewUploadService(uploadservice.NewClient(cfg.UploadEndpoint, cfg.UploadPreset, cfg.UploadFolder, nil)),
		mailService:    mailservice.NewMailService(broker, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailPort, cfg.ContactRecipient, cfg.SiteURL, logger),
		broker:         broker,
		faq:            faqs,
		shell:          site.NewShell(cfg.StaticDir),
		testimonials:   slider.NewRotator(0, cfg.TestimonialInterval),
	}

	app.mailService.SendStartupApprovedEmails()
	app.mailService.SendStartupSubmittedEmails()
	defer app.mailService.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app.startTestimonialRotation(ctx)

	return app.serve(ctx)
}
