package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nextforms/forms-server/config"
	"github.com/nextforms/forms-server/controllers"
	"github.com/nextforms/forms-server/directory"
	"github.com/nextforms/forms-server/routes"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	config.InitLogger()
	defer config.Log.Sync()

	config.ConnectDB()

	dir, err := directory.LoadFile(os.Getenv("DIRECTORY_FILE"))
	if err != nil {
		config.Log.Fatal("failed to load directory file", zap.Error(err))
	}
	controllers.Dir = dir

	r := gin.Default()

	corsOrigin := os.Getenv("CORS_ORIGIN")
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return corsOrigin == "" || origin == corsOrigin
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", controllers.HeaderFormLink},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		config.Log.Fatal("failed to set trusted proxies", zap.Error(err))
	}

	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	config.Log.Info("server listening", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		config.Log.Fatal("server stopped", zap.Error(err))
	}
}
