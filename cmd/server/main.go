package main

import (
	"log"

	"github.com/joho/godotenv"

	"fieldops/internal/app"
)

// @title           FieldOps API
// @version         1.0
// @description     Бэкенд операционного дашборда: продажи, посещаемость, отпуска и внутренний чат.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}
	app.Run()
}
