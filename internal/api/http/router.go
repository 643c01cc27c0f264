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

package http

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/hertz-contrib/jwt"

	"dialogue-platform/internal/api/http/middleware"
)

// Router HTTP 路由器
type Router struct {
	handler      *Handler
	middleware   *middleware.Middleware
	jwtAuth      *jwt.HertzJWTMiddleware
	rateLimitRPS int
}

// NewRouter 创建 HTTP 路由器
func NewRouter(handler *Handler, mw *middleware.Middleware) *Router {
	return &Router{handler: handler, middleware: mw}
}

// SetJWT 启用 JWT 认证（保护 /api/chat 路由组）
func (r *Router) SetJWT(auth *jwt.HertzJWTMiddleware) {
	r.jwtAuth = auth
}

// SetRateLimit 启用限流，rps<=0 时不限流
func (r *Router) SetRateLimit(rps int) {
	r.rateLimitRPS = rps
}

// Build 装配路由并返回 Hertz 服务，addr 如 ":8080"
func (r *Router) Build(addr string, opts ...config.Option) *server.Hertz {
	opts = append(opts, server.WithHostPorts(addr))
	h := server.Default(opts...)

	h.Use(r.middleware.CORS())
	if r.rateLimitRPS > 0 {
		h.Use(r.middleware.RateLimit(r.rateLimitRPS))
	}

	h.GET("/metrics", r.handler.Metrics)

	api := h.Group("/api")
	api.GET("/health", r.handler.HealthCheck)
	api.GET("/languages", r.handler.Languages)
	api.POST("/languages/detect", r.handler.DetectLanguage)

	chat := api.Group("/chat")
	if r.jwtAuth != nil {
		api.POST("/auth/login", r.jwtAuth.LoginHandler)
		api.GET("/auth/refresh", r.jwtAuth.RefreshHandler)
		chat.Use(r.jwtAuth.MiddlewareFunc())
	}
	chat.POST("/message", r.handler.ProcessMessage)
	chat.GET("/stats", r.handler.Stats)

	conversations := chat.Group("/conversations")
	conversations.GET("/:id/clarification", r.handler.GetClarification)
	conversations.DELETE("/:id/clarification", r.handler.CancelClarification)
	conversations.PUT("/:id/language", r.handler.SetLanguage)
	conversations.GET("/:id/language", r.handler.GetLanguage)
	conversations.DELETE("/:id", r.handler.ClearConversation)

	return h
}
