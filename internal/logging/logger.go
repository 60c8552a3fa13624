package logging

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger = logrus.New()

// Init configures the shared logger. When logFile is empty, logs go to stdout;
// otherwise they are written to the file with rotation.
func Init(logFile string, production bool) {
	if logFile != "" {
		Logger.SetOutput(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	} else {
		Logger.SetOutput(os.Stdout)
	}

	if production {
		Logger.SetFormatter(&logrus.JSONFormatter{})
		Logger.SetLevel(logrus.InfoLevel)
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		Logger.SetLevel(logrus.DebugLevel)
	}
}
