package main

import (
	"github.com/sociumlab/socium/config"
	"github.com/sociumlab/socium/models"
	"github.com/sociumlab/socium/routes"
	"github.com/sociumlab/socium/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
		&models.Relation{},
		&models.Direct{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
