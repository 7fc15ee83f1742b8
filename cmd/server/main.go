package main

import (
	"github.com/joho/godotenv"

	"opphub/internal/app"
	"opphub/pkg/logger"
)

// @title           OppHub API
// @version         1.0
// @description     Volunteering and internship opportunity marketplace.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in              header
// @name            Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		logger.Log.Debugf("no .env file loaded: %v", err)
	}
	app.Run()
}
