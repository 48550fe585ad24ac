package main

import (
	_ "github.com/leafsense/plant-backend/docs"
	"github.com/leafsense/plant-backend/internal/bootstrap"
)

// @title Plant Analysis API
// @version 1.0.0
// @description Backend for plant photo diagnosis: upload photos, get a structured health assessment

// @host localhost:8080
// @BasePath /v1

func main() {
	bootstrap.Run()
}
