package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is usable before InitLogger; InitLogger only adjusts formatting.
var Log = logrus.New()

func InitLogger() {
	// Output to stdout instead of the default stderr
	Log.Out = os.Stdout

	if os.Getenv("APP_ENV") == "production" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	Log.SetLevel(logrus.InfoLevel)
}
