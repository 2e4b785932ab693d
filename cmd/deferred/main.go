package main

import (
	"flag"
	"runtime"

	"deferred-gl/internal/config"
	"deferred-gl/internal/game"
	"deferred-gl/internal/logger"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
	"go.uber.org/zap"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "deferred.yaml", "path to the YAML configuration")
	flag.Parse()

	defer closer.Close()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Logging.Level); err != nil {
		panic(err)
	}
	// closer hooks run off the main thread; GL teardown is deferred instead
	closer.Bind(logger.Sync)

	if err := glfw.Init(); err != nil {
		logger.Log.Fatal("could not initialize GLFW", zap.Error(err))
	}
	defer glfw.Terminate()

	window, err := game.SetupWindow(cfg.Window)
	if err != nil {
		logger.Log.Fatal("could not open window", zap.Error(err))
	}
	defer window.Destroy()

	app, err := game.NewApp(window, cfg)
	if err != nil {
		logger.Log.Fatal("could not start renderer", zap.Error(err))
	}
	defer app.Close()

	logger.Log.Info("running",
		zap.String("config", *configPath),
		zap.Stringer("splitscreen", config.GetSplitscreenMode()))
	app.Run()
}
