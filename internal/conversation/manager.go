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

package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"dialogue-platform/internal/clarify"
	"dialogue-platform/internal/nlu"
	"dialogue-platform/internal/routing"
	"dialogue-platform/internal/storage/cache"
	"dialogue-platform/pkg/config"
	"dialogue-platform/pkg/errors"
	"dialogue-platform/pkg/log"
	"dialogue-platform/pkg/metrics"
	"dialogue-platform/pkg/utils"
)

// 历史继承意图的置信度：低于意图阈值，仅作提示不作依据
const contextCarryConfidence = 0.5

// Options 对话管线的生效配置（已填默认值）
type Options struct {
	EnableLLMIntentRecognition   bool
	EnableEntityExtraction       bool
	EnableContextLearning        bool
	EnableClarificationQuestions bool
	EnableMultilingualSupport    bool
	MaxContextHistory            int
	IntentConfidenceThreshold    float64
	EntityConfidenceThreshold    float64
	MaxClarificationAttempts     int
	FallbackIntent               nlu.Intent
	DefaultLanguage              nlu.Language
	HighConfidenceThreshold      float64
	ResponseLanguageThreshold    float64
	ContextTTL                   time.Duration
}

// OptionsFromConfig 由配置推导生效选项，未配置项取默认值
func OptionsFromConfig(cfg config.DialogueConfig) Options {
	return Options{
		EnableLLMIntentRecognition:   cfg.EnableLLMIntentRecognition,
		EnableEntityExtraction:       utils.BoolOrDefault(cfg.EnableEntityExtraction, true),
		EnableContextLearning:        utils.BoolOrDefault(cfg.EnableContextLearning, true),
		EnableClarificationQuestions: utils.BoolOrDefault(cfg.EnableClarificationQuestions, true),
		EnableMultilingualSupport:    utils.BoolOrDefault(cfg.EnableMultilingualSupport, true),
		MaxContextHistory:            utils.DefaultInt(cfg.MaxContextHistory, 10),
		IntentConfidenceThreshold:    utils.DefaultFloat(cfg.IntentConfidenceThreshold, 0.7),
		EntityConfidenceThreshold:    utils.DefaultFloat(cfg.EntityConfidenceThreshold, 0.5),
		MaxClarificationAttempts:     utils.DefaultInt(cfg.MaxClarificationAttempts, 3),
		FallbackIntent:               nlu.Intent(utils.CoalesceString(cfg.FallbackIntent, string(nlu.IntentGeneral))),
		DefaultLanguage:              nlu.Language(utils.CoalesceString(cfg.DefaultLanguage, string(nlu.LanguageChinese))),
		HighConfidenceThreshold:      utils.DefaultFloat(cfg.HighConfidenceThreshold, 0.5),
		ResponseLanguageThreshold:    utils.DefaultFloat(cfg.ResponseLanguageThreshold, 0.5),
		ContextTTL:                   utils.ParseDuration(cfg.ContextTTL, 30*time.Minute),
	}
}

// Manager 对话理解管线编排器
type Manager struct {
	opts Options
	log  *log.Logger

	detector   *nlu.Detector
	recognizer *nlu.Recognizer
	extractor  *nlu.Extractor
	clarifier  *clarify.Engine
	router     routing.Router
	store      *ContextStore
}

func NewManager(opts Options, store cache.Store, router routing.Router, logger *log.Logger) *Manager {
	if opts.EnableLLMIntentRecognition {
		// 无外部模型接入：该开关保留但始终走规则路径
		logger.Warn("enable_llm_intent_recognition is set but no model backend is wired; using rule-based recognition")
	}
	return &Manager{
		opts:       opts,
		log:        logger.Named("conversation"),
		detector:   nlu.NewDetector(opts.DefaultLanguage),
		recognizer: nlu.NewRecognizer(opts.IntentConfidenceThreshold, opts.FallbackIntent),
		extractor:  nlu.NewExtractor(opts.EntityConfidenceThreshold),
		clarifier:  clarify.NewEngine(opts.EnableClarificationQuestions, opts.MaxClarificationAttempts),
		router:     router,
		store:      NewContextStore(store, opts.ContextTTL, opts.MaxContextHistory),
	}
}

// ProcessMessage 处理一条用户消息。协作方（存储、路由）故障时返回
// Success=false 的结果且不改动在途澄清状态，调用方可原样重试。
func (m *Manager) ProcessMessage(ctx context.Context, text, conversationID, userID string) *Result {
	start := time.Now()
	defer func() { metrics.ProcessDuration.Observe(time.Since(start).Seconds()) }()

	text = strings.TrimSpace(text)
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	detection := nlu.DetectionResult{Language: m.opts.DefaultLanguage, Confidence: 1}
	if m.opts.EnableMultilingualSupport {
		detection = m.detector.Detect(text)
	}

	convCtx, err := m.store.Get(ctx, conversationID)
	if err != nil {
		return m.failure(conversationID, "load conversation context: "+err.Error())
	}
	if convCtx == nil {
		convCtx = &Context{
			ConversationID: conversationID,
			UserID:         userID,
			CreatedAt:      time.Now(),
		}
	}
	// 多语言支持关闭时整个检测环节跳过，不触碰会话语言状态
	var detectedMeta nlu.Language
	if m.opts.EnableMultilingualSupport {
		detectedMeta = detection.Language
		convCtx.DetectedLanguage = detection.Language
		if detection.Confidence >= m.opts.HighConfidenceThreshold {
			convCtx.PreferredLanguage = detection.Language
		}
	}

	// 在途澄清：把原话与本轮回答合并后重新理解
	effectiveText := text
	if pending, ok := m.clarifier.Pending(conversationID); ok {
		effectiveText = strings.TrimSpace(pending.OriginalText + " " + text)
	}

	intentRes := m.recognizer.Recognize(effectiveText, detection.Language)
	entities := nlu.NewEntityResult()
	if m.opts.EnableEntityExtraction {
		entities = m.extractor.Extract(effectiveText, intentRes.Intent, detection.Language)
	}

	// 上下文学习：回退意图尝试继承最近一轮的明确意图
	if m.opts.EnableContextLearning && intentRes.Intent == m.opts.FallbackIntent && text != "" {
		if carried := m.carryIntent(ctx, conversationID); carried != "" {
			intentRes = nlu.IntentResult{Intent: carried, Confidence: contextCarryConfidence}
		}
	}
	metrics.IntentTotal.WithLabelValues(string(intentRes.Intent)).Inc()

	responseLang := m.responseLanguage(convCtx, detection)
	decision := m.clarifier.Evaluate(conversationID, effectiveText, intentRes.Intent, entities, responseLang)

	if decision.Raise {
		// 先持久化上下文，再落澄清状态：持久化失败不得污染在途表
		if err := m.store.Put(ctx, convCtx); err != nil {
			return m.failure(conversationID, "save conversation context: "+err.Error())
		}
		m.appendUserTurn(ctx, conversationID, text, intentRes.Intent)
		m.clarifier.Apply(conversationID, decision)
		metrics.ClarificationTotal.WithLabelValues("raised").Inc()
		metrics.PendingClarifications.Set(float64(m.clarifier.Count()))
		metrics.MessagesTotal.WithLabelValues("clarification").Inc()

		req := decision.Request
		return &Result{
			Success:        true,
			ConversationID: conversationID,
			Intent:         intentRes.Intent,
			Confidence:     intentRes.Confidence,
			Entities:       entities.Entities,
			Language:       m.languageField(detection),
			Clarification: &Clarification{
				Question:           req.Question,
				SuggestedResponses: req.SuggestedResponses,
				ExpectedEntityType: req.ExpectedEntityType,
				MissingEntities:    req.MissingEntities,
				Attempts:           req.Attempts,
			},
			Metadata: Metadata{
				RequiresClarification: true,
				DetectedLanguage:      detectedMeta,
				ResponseLanguage:      responseLang,
			},
		}
	}

	routeRes, err := m.router.Route(ctx, intentRes.Intent, entities, routing.ConversationInfo{
		ConversationID: conversationID,
		UserID:         userID,
		Language:       detection.Language,
	})
	if err != nil {
		// 路由失败：在途澄清原样保留
		return m.failure(conversationID, "route message: "+err.Error())
	}
	if routeRes.Confidence <= 0.3 {
		metrics.RoutingFallbackTotal.Inc()
	}

	if err := m.store.Put(ctx, convCtx); err != nil {
		return m.failure(conversationID, "save conversation context: "+err.Error())
	}
	m.appendUserTurn(ctx, conversationID, text, intentRes.Intent)

	// 全部协作方成功后才消解/放弃在途澄清
	if decision.Resolve || decision.GiveUp {
		m.clarifier.Apply(conversationID, decision)
		event := "resolved"
		if decision.GiveUp {
			event = "expired"
		}
		metrics.ClarificationTotal.WithLabelValues(event).Inc()
		metrics.PendingClarifications.Set(float64(m.clarifier.Count()))
	}
	metrics.MessagesTotal.WithLabelValues("ok").Inc()

	return &Result{
		Success:        true,
		ConversationID: conversationID,
		Intent:         intentRes.Intent,
		Confidence:     intentRes.Confidence,
		Entities:       entities.Entities,
		Routing:        routeRes,
		Language:       m.languageField(detection),
		Metadata: Metadata{
			DetectedLanguage: detectedMeta,
			ResponseLanguage: responseLang,
		},
	}
}

// appendUserTurn 追加一轮用户历史；追加失败只告警，不影响本轮结果
func (m *Manager) appendUserTurn(ctx context.Context, conversationID, text string, intent nlu.Intent) {
	if text == "" {
		return
	}
	if err := m.store.AppendTurn(ctx, conversationID, Turn{
		Role:      "user",
		Content:   text,
		Intent:    intent,
		Timestamp: time.Now(),
	}); err != nil {
		m.log.Warn("append conversation turn", "error", err, "conversation_id", conversationID)
	}
}

// carryIntent 返回最近一轮历史中的明确意图；无可继承返回空串
func (m *Manager) carryIntent(ctx context.Context, conversationID string) nlu.Intent {
	turns, err := m.store.History(ctx, conversationID)
	if err != nil {
		m.log.Warn("load history for context learning", "error", err, "conversation_id", conversationID)
		return ""
	}
	for i := len(turns) - 1; i >= 0; i-- {
		it := turns[i].Intent
		if it != "" && it != m.opts.FallbackIntent && it != nlu.IntentHelp {
			return it
		}
	}
	return ""
}

// responseLanguage 澄清问题等回复文本的语言：优先会话偏好语言，
// 其次足够可信的检测结果，最后默认语言
func (m *Manager) responseLanguage(c *Context, det nlu.DetectionResult) nlu.Language {
	if c.PreferredLanguage != "" {
		return c.PreferredLanguage
	}
	if m.opts.EnableMultilingualSupport && det.Confidence >= m.opts.ResponseLanguageThreshold {
		return det.Language
	}
	return m.opts.DefaultLanguage
}

// languageField 多语言支持关闭时结果不携带语言字段
func (m *Manager) languageField(det nlu.DetectionResult) *nlu.DetectionResult {
	if !m.opts.EnableMultilingualSupport {
		return nil
	}
	d := det
	return &d
}

func (m *Manager) failure(conversationID, msg string) *Result {
	m.log.Error("process message failed", "error", msg, "conversation_id", conversationID)
	metrics.MessagesTotal.WithLabelValues("failed").Inc()
	return &Result{
		Success:        false,
		ConversationID: conversationID,
		Error:          msg,
	}
}

// DetectLanguage 独立的语言检测入口
func (m *Manager) DetectLanguage(text string) nlu.DetectionResult {
	return m.detector.Detect(text)
}

// SupportedLanguages 支持的语言列表
func (m *Manager) SupportedLanguages() []nlu.Language {
	return nlu.SupportedLanguages()
}

// SetPreferredLanguage 显式设置会话的偏好语言
func (m *Manager) SetPreferredLanguage(ctx context.Context, conversationID string, lang nlu.Language) error {
	if !nlu.ValidLanguage(lang) {
		return errors.Wrapf(errors.ErrInvalidArg, "unsupported language: %s", lang)
	}
	c, err := m.store.Get(ctx, conversationID)
	if err != nil {
		return err
	}
	if c == nil {
		c = &Context{ConversationID: conversationID, CreatedAt: time.Now()}
	}
	c.PreferredLanguage = lang
	return m.store.Put(ctx, c)
}

// PreferredLanguage 返回会话的偏好语言；会话不存在返回 ErrNotFound
func (m *Manager) PreferredLanguage(ctx context.Context, conversationID string) (nlu.Language, error) {
	c, err := m.store.Get(ctx, conversationID)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", errors.Wrapf(errors.ErrNotFound, "conversation %s", conversationID)
	}
	if c.PreferredLanguage != "" {
		return c.PreferredLanguage, nil
	}
	return m.opts.DefaultLanguage, nil
}

// PendingClarification 返回会话的在途澄清；无在途返回 (nil, false)
func (m *Manager) PendingClarification(conversationID string) (*clarify.Request, bool) {
	return m.clarifier.Pending(conversationID)
}

// CancelClarification 取消会话的在途澄清；无在途返回 false
func (m *Manager) CancelClarification(conversationID string) bool {
	ok := m.clarifier.Cancel(conversationID)
	if ok {
		metrics.ClarificationTotal.WithLabelValues("canceled").Inc()
		metrics.PendingClarifications.Set(float64(m.clarifier.Count()))
	}
	return ok
}

// ClearConversationContext 删除会话的上下文、历史与在途澄清
func (m *Manager) ClearConversationContext(ctx context.Context, conversationID string) error {
	if err := m.store.Delete(ctx, conversationID); err != nil {
		return err
	}
	if m.clarifier.Cancel(conversationID) {
		metrics.PendingClarifications.Set(float64(m.clarifier.Count()))
	}
	return nil
}

// Stats 运行时统计
func (m *Manager) Stats() Stats {
	return Stats{
		ActiveConversations:   m.store.Count(),
		PendingClarifications: m.clarifier.Count(),
	}
}

// Shutdown 释放资源：清空在途澄清并关闭存储
func (m *Manager) Shutdown() error {
	m.clarifier.Shutdown()
	return m.store.Close()
}
