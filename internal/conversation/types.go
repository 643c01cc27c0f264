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

// Package conversation 对话理解与路由编排：一条用户消息经
// 语言检测、意图识别、实体抽取、澄清判定后路由到目标智能体，
// 会话上下文落在 cache.Store 上并带 TTL。
package conversation

import (
	"time"

	"dialogue-platform/internal/nlu"
	"dialogue-platform/internal/routing"
)

// Turn 会话历史中的一轮
type Turn struct {
	Role      string     `json:"role"` // user | assistant
	Content   string     `json:"content"`
	Intent    nlu.Intent `json:"intent,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// Context 单个会话的持久状态
type Context struct {
	ConversationID    string       `json:"conversation_id"`
	UserID            string       `json:"user_id,omitempty"`
	DetectedLanguage  nlu.Language `json:"detected_language,omitempty"`
	PreferredLanguage nlu.Language `json:"preferred_language,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// Metadata 处理结果的附加信息
type Metadata struct {
	RequiresClarification bool         `json:"requires_clarification"`
	DetectedLanguage      nlu.Language `json:"detected_language,omitempty"`
	ResponseLanguage      nlu.Language `json:"response_language,omitempty"`
}

// Clarification 返回给调用方的澄清问题
type Clarification struct {
	Question           string   `json:"question"`
	SuggestedResponses []string `json:"suggested_responses,omitempty"`
	ExpectedEntityType string   `json:"expected_entity_type,omitempty"`
	MissingEntities    []string `json:"missing_entities,omitempty"`
	Attempts           int      `json:"attempts"`
}

// Result ProcessMessage 的返回值。Success=false 表示协作方故障，
// 调用方可原样重试；澄清与正常路由都是 Success=true。
type Result struct {
	Success        bool                 `json:"success"`
	ConversationID string               `json:"conversation_id"`
	Intent         nlu.Intent           `json:"intent,omitempty"`
	Confidence     float64              `json:"confidence,omitempty"`
	Entities       map[string]any       `json:"entities,omitempty"`
	Routing        *routing.Result      `json:"routing,omitempty"`
	Language       *nlu.DetectionResult `json:"language,omitempty"` // 多语言支持关闭时为 nil
	Clarification  *Clarification       `json:"clarification,omitempty"`
	Metadata       Metadata             `json:"metadata"`
	Error          string               `json:"error,omitempty"`
}

// Stats 运行时统计
type Stats struct {
	ActiveConversations   int `json:"active_conversations"`
	PendingClarifications int `json:"pending_clarifications"`
}
