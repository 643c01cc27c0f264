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

	"dialogue-platform/internal/nlu"
)

const (
	ruleMatchConfidence    = 0.9
	ruleFallbackConfidence = 0.3
)

// intentAgents 意图到目标智能体的静态映射
var intentAgents = map[nlu.Intent]string{
	nlu.IntentInventory:    "inventory",
	nlu.IntentProcurement:  "procurement",
	nlu.IntentFinancial:    "finance",
	nlu.IntentNotification: "notification",
	nlu.IntentQuery:        "query",
}

// RuleRouter 基于静态映射表的本地路由器
type RuleRouter struct {
	fallbackAgent string
}

func NewRuleRouter(fallbackAgent string) *RuleRouter {
	if fallbackAgent == "" {
		fallbackAgent = "general"
	}
	return &RuleRouter{fallbackAgent: fallbackAgent}
}

// Route 映射表命中返回对应智能体，否则落到兜底智能体
func (r *RuleRouter) Route(_ context.Context, intent nlu.Intent, _ nlu.EntityResult, _ ConversationInfo) (*Result, error) {
	if agent, ok := intentAgents[intent]; ok {
		return &Result{TargetAgent: agent, Confidence: ruleMatchConfidence}, nil
	}
	return &Result{TargetAgent: r.fallbackAgent, Confidence: ruleFallbackConfidence}, nil
}
