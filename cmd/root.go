package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/l3uddz/iconkit/build"
	"github.com/l3uddz/iconkit/config"
	"github.com/l3uddz/iconkit/database"
	"github.com/l3uddz/iconkit/logger"
	"github.com/l3uddz/iconkit/utils/paths"
	stringutils "github.com/l3uddz/iconkit/utils/strings"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagLogLevel     = 0
	flagConfigFolder = paths.GetCurrentBinaryPath()
	flagConfigFile   = "config.yaml"
	flagLogFile      = "activity.log"

	// Global vars
	log = logger.GetLogger("app")
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "iconkit",
	Short: "A CLI application to aggregate and search open source icons",
	Long: `A CLI application that scrapes open source icon libraries into a database
and serves a search API over them.
`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Parse persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfigFolder, "config-dir", flagConfigFolder, "Config folder")
	rootCmd.PersistentFlags().StringVarP(&flagConfigFile, "config", "c", flagConfigFile, "Config file")
	rootCmd.PersistentFlags().StringVarP(&flagLogFile, "log", "l", flagLogFile, "Log file")
	rootCmd.PersistentFlags().CountVarP(&flagLogLevel, "verbose", "v", "Verbose level")
}

func initConfig() {
	// Set core variables
	if !rootCmd.PersistentFlags().Changed("config") {
		flagConfigFile = filepath.Join(flagConfigFolder, flagConfigFile)
	}
	if !rootCmd.PersistentFlags().Changed("log") {
		flagLogFile = filepath.Join(flagConfigFolder, flagLogFile)
	}

	// Init Logging
	if err := logger.Init(flagLogLevel, flagLogFile); err != nil {
		log.WithError(err).Fatal("Failed to initialize logging")
	}

	log.Infof("Using %s = %s (%s@%s)", stringutils.StringLeftJust("VERSION", " ", 10),
		build.Version, build.GitCommit, build.Timestamp)
	logger.ShowUsing()

	// Init Config
	if err := config.Init(flagConfigFile); err != nil {
		log.WithError(err).Fatal("Failed to initialize config")
	}
	config.ShowUsing()
}

/* Private Helpers */

func openDatabase() *database.DB {
	cfg := config.Config.Database

	// relative sqlite files live next to the config
	dsn := cfg.DSN
	if database.IsSQLite(cfg.Driver) && !filepath.IsAbs(dsn) && !database.IsMemoryDSN(dsn) {
		dsn = filepath.Join(flagConfigFolder, dsn)
	}

	db, err := database.Open(cfg.Driver, dsn)
	if err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"driver": cfg.Driver,
		}).Fatal("Failed opening database")
	}

	db.ShowUsing()
	return db
}
