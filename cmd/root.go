package cmd

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/AzielCF/daily-post/core/config"
	"github.com/AzielCF/daily-post/core/database"
	domainHealth "github.com/AzielCF/daily-post/domains/health"
	domainPublish "github.com/AzielCF/daily-post/domains/publish"
	domainToken "github.com/AzielCF/daily-post/domains/token"
	"github.com/AzielCF/daily-post/infrastructure/valkey"
	"github.com/AzielCF/daily-post/integrations/alerts"
	"github.com/AzielCF/daily-post/integrations/meta"
	"github.com/AzielCF/daily-post/pkg/crypto"
	"github.com/AzielCF/daily-post/pkg/metrics"
	"github.com/AzielCF/daily-post/pkg/msgworker"
	"github.com/AzielCF/daily-post/pkg/utils"
	"github.com/AzielCF/daily-post/repository"
	"github.com/AzielCF/daily-post/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

var (
	envFile string
	v       *viper.Viper
	cfg     *config.Config

	db        *gorm.DB
	vkClient  *valkey.Client
	collector *metrics.Collector
	alertPool *msgworker.Pool

	runRepo      *repository.RunGormRepository
	templateRepo *repository.TemplateGormRepository
	tokenRepo    *repository.TokenGormRepository

	// Usecase
	tokenUsecase    domainToken.ITokenUsecase
	publishUsecase  domainPublish.IPublishUsecase
	previewUsecase  domainPublish.IPreviewUsecase
	runsUsecase     domainPublish.IRunsUsecase
	scheduleUsecase domainPublish.IScheduleUsecase
	healthUsecase   domainHealth.IHealthUsecase

	stopOnce sync.Once
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "daily-post",
	Short:        "Publish the daily carousel to Instagram and Facebook",
	Long:         `Posts the scheduled weekday carousel once per business day, keeping a run ledger so retries never double post.`,
	SilenceUsage: true,
}

func init() {
	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Initialize flags first, before any subcommands are added
	initFlags()

	cobra.OnInitialize(initEnvConfig, initApp)
}

func initFlags() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment | example: --env-file=.env.production")
	flags.StringP("port", "p", "", "change port number with --port <number> | example: --port=8080")
	flags.BoolP("debug", "d", false, "hide or displaying log with --debug <true/false> | example: --debug=true")
	flags.Bool("dry-run", false, "build payloads and record skipped runs without calling the platforms | example: --dry-run=true")
	flags.String("db-driver", "", "database driver, sqlite or postgres | example: --db-driver=postgres")
	flags.String("db-name", "", "sqlite file path or postgres database name | example: --db-name=storages/daily-post.db")
}

// initEnvConfig binds environment variables and persistent flags into viper.
func initEnvConfig() {
	v = utils.LoadEnvironment(envFile)

	bindings := map[string]string{
		"app_port":  "port",
		"app_debug": "debug",
		"dry_run":   "dry-run",
		"db_driver": "db-driver",
		"db_name":   "db-name",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			logrus.Fatalf("[CONFIG] failed to bind flag %s: %v", flag, err)
		}
	}
}

func initApp() {
	var err error
	cfg, err = config.LoadConfig(v)
	if err != nil {
		logrus.Fatalf("[CONFIG] %v", err)
	}
	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.WithFields(cfg.Settings()).Debug("[CONFIG] loaded")

	loc, err := cfg.Location()
	if err != nil {
		logrus.Fatalf("[CONFIG] %v", err)
	}

	ctx := context.Background()

	// 1. Storage
	db, err = database.NewDatabase(cfg)
	if err != nil {
		logrus.Fatalf("[DB] %v", err)
	}

	cipher, err := crypto.NewCipher(cfg.Security.SecretKey)
	if err != nil {
		logrus.Fatalf("[DB] failed to prepare token cipher: %v", err)
	}
	if !cipher.Enabled() {
		logrus.Warn("[DB] APP_SECRET_KEY is empty, API tokens are stored in plain text")
	}

	runRepo = repository.NewRunGormRepository(db)
	templateRepo = repository.NewTemplateGormRepository(db)
	tokenRepo = repository.NewTokenGormRepository(db, cipher)
	for _, repo := range []interface{ Init(context.Context) error }{runRepo, templateRepo, tokenRepo} {
		if err := repo.Init(ctx); err != nil {
			logrus.Fatalf("[DB] failed to migrate: %v", err)
		}
	}

	// 2. Infrastructure
	collector = metrics.NewCollector(cfg.App.ServiceName, cfg.App.Version)

	if cfg.Database.ValkeyEnabled {
		vkClient, err = valkey.NewClient(cfg.Database)
		if err != nil {
			logrus.WithError(err).Warn("[VALKEY] unavailable, scheduled runs rely on the run ledger only")
			vkClient = nil
		} else {
			logrus.Infof("[VALKEY] connected to %s", cfg.Database.ValkeyAddress)
		}
	}

	alertPool = msgworker.NewPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize)
	alertPool.OnJobDone = func(job msgworker.Job, err error) {
		if err != nil {
			logrus.WithError(err).WithField("run_date", job.Key).Debugf("[ALERT] job %s finished with error", job.Name)
		}
	}
	alertPool.Start(ctx)

	// 3. Platform clients
	graph := meta.NewGraphClient(cfg.Meta)
	exchanger := meta.NewTokenExchanger(graph, cfg.Meta.AppID, cfg.Meta.AppSecret, cfg.Meta.FBPageID)
	tokenUsecase = usecase.NewTokenService(tokenRepo, exchanger, usecase.TokenOptions{
		IGAccessToken: cfg.Meta.IGAccessToken,
		FBAccessToken: cfg.Meta.FBAccessToken,
	})
	instagram := meta.NewInstagramClient(graph, cfg.Meta.IGUserID, tokenUsecase.InstagramToken)
	facebook := meta.NewFacebookClient(graph, cfg.Meta.FBPageID, tokenUsecase.FacebookToken)

	var notifier domainPublish.INotifier = alerts.NoopNotifier{}
	if cfg.AlertsEnabled() {
		notifier = alerts.NewWebhookNotifier(cfg.Runtime.AlertWebhookURL, cfg.Runtime.AlertServiceName, alertPool, collector)
	}

	// 4. Usecases
	content := usecase.NewContentService(templateRepo, usecase.ContentOptions{
		PublicBaseURL: cfg.Schedule.PublicBaseURL,
		Production:    cfg.IsProduction(),
		Phone:         cfg.Content.Phone,
		PriceEN:       cfg.Content.PriceEN,
		PriceFR:       cfg.Content.PriceFR,
	})

	publishUsecase = usecase.NewPublishService(usecase.PublishDeps{
		Ledger:    runRepo,
		Content:   content,
		Primary:   usecase.NewContainerService(instagram, cfg.Poll.Interval, cfg.Poll.Timeout, collector),
		Secondary: usecase.NewFeedService(facebook),
		Notifier:  notifier,
		Location:  loc,
		DryRun:    cfg.Runtime.DryRun,
		Metrics:   collector,
	})
	previewUsecase = usecase.NewPreviewService(content, runRepo, loc, cfg.Schedule.PostHour, cfg.Runtime.DryRun)
	runsUsecase = usecase.NewRunsService(runRepo)

	scheduleOpts := usecase.ScheduleOptions{Location: loc, PostHour: cfg.Schedule.PostHour}
	var (
		leaser domainPublish.ILeaser
		pinger usecase.Pinger
	)
	if vkClient != nil {
		leaser = vkClient
		pinger = vkClient
		scheduleOpts.LeaseKey = func(runDate string) string {
			return vkClient.Key("publish-lease", runDate)
		}
	}
	scheduleUsecase = usecase.NewScheduleService(publishUsecase, leaser, scheduleOpts)
	healthUsecase = usecase.NewHealthService(db, pinger, cfg)
}

// StopApp drains pending alerts and closes connections. Safe to call twice.
func StopApp() {
	stopOnce.Do(func() {
		if alertPool != nil {
			alertPool.Stop()
		}
		if vkClient != nil {
			vkClient.Close()
		}
		if db != nil {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		logrus.Debug("[APP] stopped")
	})
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	StopApp()
	if err != nil {
		os.Exit(1)
	}
}
