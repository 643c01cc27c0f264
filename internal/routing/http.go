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

package routing

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"dialogue-platform/internal/nlu"
	"dialogue-platform/pkg/config"
	"dialogue-platform/pkg/errors"
	"dialogue-platform/pkg/utils"
)

// HTTPRouter 将路由决策委托给远端服务
type HTTPRouter struct {
	client        *resty.Client
	fallbackAgent string
}

// routeRequest 远端路由接口的请求载荷
type routeRequest struct {
	Intent         nlu.Intent     `json:"intent"`
	Entities       map[string]any `json:"entities"`
	ConversationID string         `json:"conversation_id"`
	UserID         string         `json:"user_id,omitempty"`
	Language       nlu.Language   `json:"language,omitempty"`
}

func NewHTTPRouter(cfg config.RoutingConfig) (*HTTPRouter, error) {
	if cfg.Endpoint == "" {
		return nil, errors.Wrap(errors.ErrInvalidArg, "http routing requires an endpoint")
	}
	timeout := utils.ParseDuration(cfg.Timeout, 5*time.Second)
	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &HTTPRouter{client: client, fallbackAgent: cfg.FallbackAgent}, nil
}

// Route 调用远端 POST /route；远端不可达或应答异常返回 ErrUnavailable
func (r *HTTPRouter) Route(ctx context.Context, intent nlu.Intent, entities nlu.EntityResult, info ConversationInfo) (*Result, error) {
	var out Result
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(routeRequest{
			Intent:         intent,
			Entities:       entities.Entities,
			ConversationID: info.ConversationID,
			UserID:         info.UserID,
			Language:       info.Language,
		}).
		SetResult(&out).
		Post("/route")
	if err != nil {
		return nil, errors.Wrap(errors.ErrUnavailable, "routing service request failed: "+err.Error())
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrUnavailable, "routing service returned %d: %s", resp.StatusCode(), resp.String())
	}
	if out.TargetAgent == "" {
		if r.fallbackAgent == "" {
			return nil, errors.Wrap(errors.ErrUnavailable, "routing service returned empty target agent")
		}
		return &Result{TargetAgent: r.fallbackAgent, Confidence: ruleFallbackConfidence}, nil
	}
	return &out, nil
}
