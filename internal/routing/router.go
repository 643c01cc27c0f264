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

// Package routing 将识别出的意图分发到下游智能体。
// RuleRouter 按静态映射表分发；HTTPRouter 委托远端路由服务。
package routing

import (
	"context"
	"fmt"

	"dialogue-platform/internal/nlu"
	"dialogue-platform/pkg/config"
)

// ConversationInfo 路由决策可用的会话侧信息
type ConversationInfo struct {
	ConversationID string       `json:"conversation_id"`
	UserID         string       `json:"user_id"`
	Language       nlu.Language `json:"language"`
}

// Result 路由决策结果
type Result struct {
	TargetAgent string  `json:"target_agent"`
	Confidence  float64 `json:"confidence"`
}

// Router 意图到目标智能体的路由器
type Router interface {
	Route(ctx context.Context, intent nlu.Intent, entities nlu.EntityResult, info ConversationInfo) (*Result, error)
}

// NewRouter 按配置构造路由器；类型未知返回错误
func NewRouter(cfg config.RoutingConfig) (Router, error) {
	switch cfg.Type {
	case "", "rule":
		return NewRuleRouter(cfg.FallbackAgent), nil
	case "http":
		return NewHTTPRouter(cfg)
	default:
		return nil, fmt.Errorf("unknown routing type: %s", cfg.Type)
	}
}
