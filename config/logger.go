package config

import (
	"os"

	"go.uber.org/zap"
)

var (
	Log  *zap.Logger        = zap.NewNop()
	SLog *zap.SugaredLogger = Log.Sugar()
)

// InitLogger replaces the no-op default with a real logger. APP_ENV=dev
// switches to the human-readable development encoder.
func InitLogger() {
	var err error
	if env := os.Getenv("APP_ENV"); env == "dev" || env == "development" {
		Log, err = zap.NewDevelopment()
	} else {
		Log, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	SLog = Log.Sugar()
}
