package database

import (
	"strings"

	"github.com/glebarez/sqlite"
	jsoniter "github.com/json-iterator/go"
	"github.com/l3uddz/iconkit/logger"
	stringutils "github.com/l3uddz/iconkit/utils/strings"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	log  = logger.GetLogger("db")
	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

/* Struct */

type DB struct {
	gorm   *gorm.DB
	driver string
	dsn    string
}

/* Public */

func Open(driver string, dsn string) (*DB, error) {
	var dialector gorm.Dialector

	switch {
	case isPostgres(driver):
		dialector = postgres.Open(dsn)
	case IsSQLite(driver):
		dialector = sqlite.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported database driver: %q", driver)
	}

	// open database
	g, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "failed opening %s database", driver)
	}

	// sqlite has a single writer, share one connection instead of failing with a locked table
	if IsSQLite(driver) {
		sqlDB, err := g.DB()
		if err != nil {
			return nil, errors.WithMessage(err, "failed retrieving database handle")
		}
		sqlDB.SetMaxOpenConns(1)
	}

	// migrate schema
	if err := g.AutoMigrate(&Provider{}, &Icon{}, &License{}); err != nil {
		return nil, errors.WithMessage(err, "failed migrating schema")
	}

	return &DB{
		gorm:   g,
		driver: strings.ToLower(driver),
		dsn:    dsn,
	}, nil
}

func (d *DB) ShowUsing() {
	log.Infof("Using %s = %s", stringutils.StringLeftJust("DATABASE", " ", 10), d.driver)
}

func (d *DB) Close() {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		log.WithError(err).Error("Failed retrieving database handle...")
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.WithError(err).Error("Failed closing database gracefully...")
	}
}

func IsSQLite(driver string) bool {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return true
	default:
		return false
	}
}

// IsMemoryDSN reports whether a sqlite dsn is in-memory or an explicit file: uri.
func IsMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file:")
}

func isPostgres(driver string) bool {
	switch strings.ToLower(driver) {
	case "postgres", "postgresql", "supabase":
		return true
	default:
		return false
	}
}

// OpenInMemory opens a private in-memory SQLite database, used for local runs and tests.
func OpenInMemory(name string) (*DB, error) {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	return Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
}
