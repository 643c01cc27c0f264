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

// Package clarify 澄清状态机：判定缺失实体/模糊输入，生成澄清问题，
// 并按会话跟踪重试次数。待答表为实例内状态，由 ConversationManager
// 持有，进程重启不保留。
package clarify

import (
	"sync"
	"time"

	"dialogue-platform/internal/nlu"
)

// Request 澄清请求。一个会话同一时刻至多有一个在途请求；
// 重复触发只会替换/递增，绝不产生重复条目。
type Request struct {
	ConversationID     string       `json:"conversation_id"`
	ExpectedEntityType string       `json:"expected_entity_type"` // 最重要的缺失字段
	MissingEntities    []string     `json:"missing_entities"`
	Question           string       `json:"question"`
	SuggestedResponses []string     `json:"suggested_responses"`
	Attempts           int          `json:"attempts"` // 从 1 起，每次重发递增
	Intent             nlu.Intent   `json:"intent"`
	Language           nlu.Language `json:"language"`
	OriginalText       string       `json:"original_text"` // 触发澄清的原话，供下一轮合并
	CreatedAt          time.Time    `json:"created_at"`
}

// Decision 一次评估的判定结果。Evaluate 只读不写，
// 由调用方在上下文持久化成功后通过 Apply 落表，
// 保证协作方失败不会留下悬挂的澄清条目。
type Decision struct {
	Raise   bool     // 本轮需要提出澄清
	Resolve bool     // 本轮消解了在途澄清
	GiveUp  bool     // 重试已达上限，降级放行
	Request *Request // Raise 时的请求内容
}

// Engine 澄清引擎。pending 表按会话 key 寻址，互不阻塞。
type Engine struct {
	mu          sync.RWMutex
	pending     map[string]*Request
	enabled     bool
	maxAttempts int
}

// NewEngine 创建澄清引擎。enabled=false 时 Evaluate 永不提出澄清。
func NewEngine(enabled bool, maxAttempts int) *Engine {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Engine{
		pending:     make(map[string]*Request),
		enabled:     enabled,
		maxAttempts: maxAttempts,
	}
}

// requiredEntities 按意图+动作计算必需实体集
func requiredEntities(intent nlu.Intent, entities nlu.EntityResult) []string {
	var missing []string
	switch intent {
	case nlu.IntentInventory:
		if !mutatingInventoryAction(entities) {
			return nil
		}
		if !entityPresent(entities, nlu.EntityItemName, nlu.EntityItems) {
			missing = append(missing, nlu.EntityItemName)
		}
		if !entityPresent(entities, nlu.EntityQuantity, nlu.EntityQuantities) {
			missing = append(missing, nlu.EntityQuantity)
		}
	case nlu.IntentProcurement:
		if !importLikeAction(entities) {
			return nil
		}
		if !entityPresent(entities, nlu.EntityPlatform, nlu.EntityPlatforms) {
			missing = append(missing, nlu.EntityPlatform)
		}
	}
	return missing
}

// mutatingInventoryAction 消耗/添加类库存动作（需要物品与数量）
func mutatingInventoryAction(entities nlu.EntityResult) bool {
	action, ok := entities.String(nlu.EntityAction)
	if !ok {
		return false
	}
	switch action {
	case "消耗", "使用", "用掉", "用了", "添加", "新增", "补充",
		"consume", "consumed", "use", "used", "add", "added":
		return true
	}
	return false
}

// importLikeAction 导入/采购类动作（需要平台）
func importLikeAction(entities nlu.EntityResult) bool {
	action, ok := entities.String(nlu.EntityAction)
	if !ok {
		return false
	}
	switch action {
	case "导入", "采购", "下单", "import", "imported", "order", "purchase", "purchased":
		return true
	}
	return false
}

func entityPresent(entities nlu.EntityResult, scalar, plural string) bool {
	return entities.Has(scalar) || entities.Has(plural)
}

// Evaluate 对一轮（可能已合并在途澄清原话的）输入做澄清判定。
// 不修改 pending 表；落表见 Apply。
func (e *Engine) Evaluate(conversationID, text string, intent nlu.Intent, entities nlu.EntityResult, lang nlu.Language) Decision {
	if !e.enabled {
		return Decision{}
	}

	missing := requiredEntities(intent, entities)
	ambiguous := nlu.IsAmbiguous(text)

	e.mu.RLock()
	existing := e.pending[conversationID]
	e.mu.RUnlock()

	if len(missing) == 0 && !ambiguous {
		// 要求已满足：在途澄清（若有）视为消解
		return Decision{Resolve: existing != nil}
	}

	if existing != nil && existing.Attempts >= e.maxAttempts {
		// 重试达上限：停止追问，降级放行
		return Decision{GiveUp: true}
	}

	attempts := 1
	if existing != nil {
		attempts = existing.Attempts + 1
	}
	req := &Request{
		ConversationID:     conversationID,
		ExpectedEntityType: primaryMissing(missing),
		MissingEntities:    missing,
		Attempts:           attempts,
		Intent:             intent,
		Language:           lang,
		OriginalText:       text,
		CreatedAt:          time.Now(),
	}
	req.Question, req.SuggestedResponses = buildQuestion(req.ExpectedEntityType, lang)
	return Decision{Raise: true, Request: req}
}

// primaryMissing 最重要的缺失字段：item_name > quantity > platform；
// 纯模糊输入无缺失实体时为空串（问句走模糊模板）
func primaryMissing(missing []string) string {
	order := []string{nlu.EntityItemName, nlu.EntityQuantity, nlu.EntityPlatform}
	for _, key := range order {
		for _, m := range missing {
			if m == key {
				return key
			}
		}
	}
	if len(missing) > 0 {
		return missing[0]
	}
	return ""
}

// Apply 将判定落到 pending 表。仅在调用方完成上下文持久化后调用。
func (e *Engine) Apply(conversationID string, d Decision) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case d.Raise:
		e.pending[conversationID] = d.Request
	case d.Resolve, d.GiveUp:
		delete(e.pending, conversationID)
	}
}

// Pending 返回会话的在途澄清请求（副本）
func (e *Engine) Pending(conversationID string) (*Request, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	req, ok := e.pending[conversationID]
	if !ok {
		return nil, false
	}
	cp := *req
	return &cp, true
}

// Cancel 取消会话的在途澄清。幂等：存在并删除时返回 true。
func (e *Engine) Cancel(conversationID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.pending[conversationID]; !ok {
		return false
	}
	delete(e.pending, conversationID)
	return true
}

// Count 当前在途澄清数（按需实时统计）
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.pending)
}

// Shutdown 原子清空 pending 表；重启不保留任何在途澄清
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = make(map[string]*Request)
}
