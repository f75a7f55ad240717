package main

import (
	_ "github.com/eleven-am/calorie-advisor/docs"
	"github.com/eleven-am/calorie-advisor/internal/bootstrap"
)

// @title Calorie Advisor API
// @version 1.0.0
// @description Detects food in photos and generates nutritional breakdowns

// @BasePath /v1

// @securityDefinitions.apikey APIKeyAuth
// @in header
// @name X-API-Key

func main() {
	bootstrap.Run()
}
