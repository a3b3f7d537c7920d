package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/l3uddz/iconkit/config"
	"github.com/l3uddz/iconkit/git"
	"github.com/l3uddz/iconkit/harvest"
	"github.com/l3uddz/iconkit/provider"
	"github.com/l3uddz/iconkit/scrape"
	"github.com/l3uddz/iconkit/secrets"
	"github.com/l3uddz/iconkit/upload"
	"github.com/l3uddz/iconkit/utils/web"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagDebug bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [PROVIDER...]",
	Short: "Scrape icon providers",
	Long: `This command can be used to scrape icons from every enabled provider, or only those given,
into the database.`,

	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Config

		// validate inputs
		targets, err := parseTargets(args)
		if err != nil {
			log.WithError(err).Fatal("Failed validating inputs")
		}

		// init database
		db := openDatabase()

		// init uploader
		uploader, err := upload.New(db, upload.Options{
			BatchSize:  cfg.Upload.BatchSize,
			Interval:   cfg.Upload.Interval,
			Production: cfg.IsProduction(),
		})
		if err != nil {
			db.Close()
			log.WithError(err).Fatal("Failed initializing uploader")
		}

		// debug dumps
		debugDir := ""
		if flagDebug {
			debugDir = cfg.DebugDir
			if !filepath.IsAbs(debugDir) {
				debugDir = filepath.Join(flagConfigFolder, debugDir)
			}
		}

		scraper := scrape.New(db,
			git.NewFetcher(git.NewRunner(cfg.Timeouts.Git), cfg.CacheDir),
			harvest.New(cfg.Timeouts.File),
			uploader,
			secretStore(),
			scrape.Options{
				Concurrency:   cfg.Scrape.Concurrency,
				ScrapeTimeout: cfg.Timeouts.Scrape,
				FileTimeout:   cfg.Timeouts.File,
				DebugDir:      debugDir,
				SecretName:    cfg.Doppler.Secret,
			})

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		// scrape
		summary := scraper.ScrapeAll(ctx, targets)
		for _, r := range summary.Results {
			entry := log.WithFields(logrus.Fields{
				"provider": r.Provider,
				"version":  r.Version,
				"icons":    r.Icons,
				"duration": r.Duration,
			})
			if r.Err != nil {
				entry.WithError(r.Err).Error("Provider failed")
				continue
			}
			entry.Info("Provider succeeded")
		}

		db.Close()

		if summary.Err != nil {
			log.WithError(summary.Err).Fatal("Failed publishing total icon count")
		}
		if failed := summary.Failed(); len(failed) > 0 {
			log.WithField("failed", len(failed)).Fatal("Some providers failed to scrape")
		}

		log.WithField("total", summary.Total).Info("Finished")
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().BoolVar(&flagDebug, "debug", false, "Dump the first 100 icons of each provider")
}

/* Private Helpers */

// parseTargets resolves the providers to scrape, every enabled one when none are given.
func parseTargets(args []string) ([]scrape.Target, error) {
	keys := provider.Keys()
	explicit := len(args) > 0

	if explicit {
		keys = make([]provider.Key, 0, len(args))
		for _, arg := range args {
			k, err := provider.ParseKey(arg)
			if err != nil {
				return nil, err
			}
			keys = append(keys, k)
		}
	}

	targets := make([]scrape.Target, 0, len(keys))
	for _, k := range keys {
		t := scrape.Target{Key: k}

		if setting := config.Config.GetProviderSetting(string(k)); setting != nil {
			if setting.Disabled && !explicit {
				log.WithField("provider", k).Info("Skipping disabled provider")
				continue
			}

			t.GitURL = setting.GitURL
			t.Branch = setting.Branch
			t.Ignores = setting.Ignores
		}

		targets = append(targets, t)
	}

	if len(targets) == 0 {
		return nil, errors.New("no providers to scrape")
	}

	return targets, nil
}

func secretStore() secrets.Interface {
	cfg := config.Config.Doppler
	if cfg.Token == "" {
		log.Debug("No doppler token configured, total icon count will not be published")
		return secrets.Noop{}
	}

	return secrets.NewDoppler(secrets.DopplerConfig{
		Token:   cfg.Token,
		Project: cfg.Project,
		Config:  cfg.Config,
	}, web.NewRateLimiters())
}
