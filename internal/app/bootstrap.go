// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package app

import (
	"fmt"

	"dialogue-platform/internal/conversation"
	"dialogue-platform/internal/routing"
	"dialogue-platform/internal/storage/cache"
	"dialogue-platform/pkg/config"
	"dialogue-platform/pkg/log"
)

// Bootstrap 统一初始化：配置、日志、缓存、路由器与对话管线
type Bootstrap struct {
	Config  *config.Config
	Logger  *log.Logger
	Cache   cache.Store
	Router  routing.Router
	Manager *conversation.Manager
}

// NewBootstrap 根据配置创建 Bootstrap
func NewBootstrap(cfg *config.Config) (*Bootstrap, error) {
	logCfg := &log.Config{}
	if cfg != nil {
		logCfg.Level = cfg.Log.Level
		logCfg.Format = cfg.Log.Format
		logCfg.File = cfg.Log.File
	}
	logger, err := log.NewLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	var cacheCfg config.CacheConfig
	var routingCfg config.RoutingConfig
	var dialogueCfg config.DialogueConfig
	if cfg != nil {
		cacheCfg = cfg.Storage.Cache
		routingCfg = cfg.Routing
		dialogueCfg = cfg.Dialogue
	}

	store, err := cache.NewCache(cacheCfg)
	if err != nil {
		return nil, fmt.Errorf("初始化缓存失败: %w", err)
	}

	router, err := routing.NewRouter(routingCfg)
	if err != nil {
		return nil, fmt.Errorf("初始化路由器失败: %w", err)
	}

	manager := conversation.NewManager(conversation.OptionsFromConfig(dialogueCfg), store, router, logger)

	return &Bootstrap{
		Config:  cfg,
		Logger:  logger,
		Cache:   store,
		Router:  router,
		Manager: manager,
	}, nil
}
