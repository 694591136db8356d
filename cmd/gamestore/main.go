package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/talkincode/gamestore/config"
	"github.com/talkincode/gamestore/internal/adminapi"
	"github.com/talkincode/gamestore/internal/app"
	"github.com/talkincode/gamestore/internal/events"
	"github.com/talkincode/gamestore/internal/shopapi"
	"github.com/talkincode/gamestore/internal/webserver"
	"go.uber.org/zap"
)

var (
	conffile = flag.String("c", "gamestore.yml", "config file")
	initdb   = flag.Bool("initdb", false, "drop and recreate all tables before starting")
)

func main() {
	flag.Parse()

	cfg := config.LoadConfig(*conffile)
	appx := app.NewApplication(cfg)
	appx.Init(cfg)
	defer appx.Release()

	if *initdb {
		appx.InitDb()
	}

	events.SubscribeAudit(appx.DB())

	server := webserver.Init(appx)
	shopapi.InitRouter()
	adminapi.InitRouter()

	errc := make(chan error, 1)
	go func() {
		errc <- server.Start()
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		zap.S().Errorf("web server stopped: %v", err)
	case sig := <-sigc:
		zap.S().Infof("received signal %s, shutting down", sig)
	}
}
