// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具

package main

import (
	"flag"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ZSC714725/batchencoder/internal/api"
	"github.com/ZSC714725/batchencoder/internal/batch"
	"github.com/ZSC714725/batchencoder/internal/config"
	"github.com/ZSC714725/batchencoder/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	bind := flag.String("bind", "", "Bind address (overrides config)")
	ffmpegBin := flag.String("ffmpeg", "", "FFmpeg binary path (overrides config)")
	handbrakeBin := flag.String("handbrake", "", "HandBrakeCLI binary path (overrides config)")
	mkvinfoBin := flag.String("mkvinfo", "", "mkvinfo binary path (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Load config: %v", err)
		}
	}

	if *bind != "" {
		cfg.Server.Bind = *bind
	}
	if *ffmpegBin != "" {
		cfg.Tools.FFmpeg = *ffmpegBin
	}
	if *handbrakeBin != "" {
		cfg.Tools.HandBrake = *handbrakeBin
	}
	if *mkvinfoBin != "" {
		cfg.Tools.MKVInfo = *mkvinfoBin
	}

	logger := logger.New("batchencoder")

	runner, err := batch.NewRunner(cfg, logger)
	if err != nil {
		log.Fatalf("Runner init: %v", err)
	}

	store := batch.NewStore(runner, logger)
	handler := api.NewHandler(store)

	r := gin.Default()
	r.Use(cors.Default())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/scan", handler.Scan)

		v1.GET("/jobs", handler.ListJobs)
		v1.POST("/jobs", handler.AddJob)
		v1.GET("/jobs/:id", handler.GetJob)
		v1.GET("/jobs/:id/state", handler.GetJobState)
		v1.PUT("/jobs/:id/stop", handler.StopJob)
		v1.DELETE("/jobs/:id", handler.DeleteJob)
	}

	log.Printf("BatchEncoder listening on %s", cfg.Server.Bind)
	if err := r.Run(cfg.Server.Bind); err != nil {
		log.Fatalf("Server: %v", err)
	}
}
