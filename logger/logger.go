package logger

import (
	"io"
	"os"

	stringutils "github.com/l3uddz/iconkit/utils/strings"
	"github.com/natefinch/lumberjack"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var (
	prefixLen = 15

	// Logging
	logFilePath string
	log         = GetLogger("log")
)

/* Public */

func Init(logLevel int, logFile string) error {
	var useLevel logrus.Level

	// determine logging level
	switch logLevel {
	case 0:
		useLevel = logrus.InfoLevel
	case 1:
		useLevel = logrus.DebugLevel
	default:
		useLevel = logrus.TraceLevel
	}

	// set rotating file hook
	fileLogger := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    5,
		MaxBackups: 10,
		MaxAge:     90,
		Compress:   false,
	}

	// test the log file is writable
	if _, err := fileLogger.Write([]byte{}); err != nil {
		return errors.WithMessagef(err, "failed opening log file: %q", logFile)
	}

	// set logger formatter
	logrus.SetFormatter(&prefixed.TextFormatter{
		DisableColors:   false,
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		ForceFormatting: true,
	})
	logrus.SetOutput(io.MultiWriter(os.Stdout, fileLogger))
	logrus.SetLevel(useLevel)

	logFilePath = logFile
	return nil
}

func ShowUsing() {
	log.Infof("Using %s = %s", stringutils.StringLeftJust("LOG_LEVEL", " ", 10),
		logrus.GetLevel().String())
	log.Infof("Using %s = %q", stringutils.StringLeftJust("LOG", " ", 10), logFilePath)
}

func GetLogger(prefix string) *logrus.Entry {
	if len(prefix) > prefixLen {
		prefixLen = len(prefix)
	}

	return logrus.WithFields(logrus.Fields{"prefix": prefix})
}
