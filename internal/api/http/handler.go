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
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"dialogue-platform/internal/conversation"
	"dialogue-platform/internal/nlu"
	"dialogue-platform/pkg/errors"
	"dialogue-platform/pkg/metrics"
)

// Handler HTTP 处理器（仅依赖 conversation.Manager）
type Handler struct {
	manager *conversation.Manager
}

// NewHandler 创建 HTTP 处理器
func NewHandler(manager *conversation.Manager) *Handler {
	return &Handler{manager: manager}
}

// messageRequest POST /api/chat/message 请求体
type messageRequest struct {
	Text           string `json:"text"`
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
}

// ProcessMessage 处理一条用户消息
// POST /api/chat/message
func (h *Handler) ProcessMessage(c context.Context, ctx *app.RequestContext) {
	var req messageRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}

	res := h.manager.ProcessMessage(c, req.Text, req.ConversationID, req.UserID)
	if !res.Success {
		hlog.CtxErrorf(c, "process message failed: %s", res.Error)
		ctx.JSON(consts.StatusServiceUnavailable, res)
		return
	}
	ctx.JSON(consts.StatusOK, res)
}

// GetClarification 查询会话的在途澄清
// GET /api/chat/conversations/:id/clarification
func (h *Handler) GetClarification(_ context.Context, ctx *app.RequestContext) {
	id := ctx.Param("id")
	req, ok := h.manager.PendingClarification(id)
	if !ok {
		ctx.JSON(consts.StatusNotFound, map[string]string{
			"error": "no pending clarification for conversation " + id,
		})
		return
	}
	ctx.JSON(consts.StatusOK, req)
}

// CancelClarification 取消会话的在途澄清
// DELETE /api/chat/conversations/:id/clarification
func (h *Handler) CancelClarification(_ context.Context, ctx *app.RequestContext) {
	id := ctx.Param("id")
	if !h.manager.CancelClarification(id) {
		ctx.JSON(consts.StatusNotFound, map[string]string{
			"error": "no pending clarification for conversation " + id,
		})
		return
	}
	ctx.JSON(consts.StatusOK, map[string]string{"status": "canceled"})
}

// languageRequest PUT /api/chat/conversations/:id/language 请求体
type languageRequest struct {
	Language string `json:"language"`
}

// SetLanguage 设置会话的偏好语言
// PUT /api/chat/conversations/:id/language
func (h *Handler) SetLanguage(c context.Context, ctx *app.RequestContext) {
	id := ctx.Param("id")
	var req languageRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}
	if err := h.manager.SetPreferredLanguage(c, id, nlu.Language(req.Language)); err != nil {
		if errors.IsUnavailable(err) {
			ctx.JSON(consts.StatusServiceUnavailable, map[string]string{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	ctx.JSON(consts.StatusOK, map[string]string{
		"conversation_id": id,
		"language":        req.Language,
	})
}

// GetLanguage 查询会话的偏好语言
// GET /api/chat/conversations/:id/language
func (h *Handler) GetLanguage(c context.Context, ctx *app.RequestContext) {
	id := ctx.Param("id")
	lang, err := h.manager.PreferredLanguage(c, id)
	if err != nil {
		if errors.IsNotFound(err) {
			ctx.JSON(consts.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		hlog.CtxErrorf(c, "load preferred language for %s: %v", id, err)
		ctx.JSON(consts.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	ctx.JSON(consts.StatusOK, map[string]string{
		"conversation_id": id,
		"language":        string(lang),
	})
}

// ClearConversation 删除会话的上下文、历史与在途澄清
// DELETE /api/chat/conversations/:id
func (h *Handler) ClearConversation(c context.Context, ctx *app.RequestContext) {
	id := ctx.Param("id")
	if err := h.manager.ClearConversationContext(c, id); err != nil {
		hlog.CtxErrorf(c, "clear conversation %s: %v", id, err)
		ctx.JSON(consts.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	ctx.JSON(consts.StatusOK, map[string]string{"status": "cleared"})
}

// Stats 运行时统计
// GET /api/chat/stats
func (h *Handler) Stats(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, h.manager.Stats())
}

// Languages 支持的语言列表与默认检测入口
// GET /api/languages
func (h *Handler) Languages(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{
		"languages": h.manager.SupportedLanguages(),
	})
}

// detectRequest POST /api/languages/detect 请求体
type detectRequest struct {
	Text string `json:"text"`
}

// DetectLanguage 独立的语言检测入口
// POST /api/languages/detect
func (h *Handler) DetectLanguage(_ context.Context, ctx *app.RequestContext) {
	var req detectRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}
	ctx.JSON(consts.StatusOK, h.manager.DetectLanguage(req.Text))
}

// HealthCheck 健康检查
// GET /api/health
func (h *Handler) HealthCheck(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]string{"status": "ok"})
}

// Metrics Prometheus 文本格式指标
// GET /metrics
func (h *Handler) Metrics(c context.Context, ctx *app.RequestContext) {
	ctx.Response.Header.SetContentType("text/plain; version=0.0.4; charset=utf-8")
	if err := metrics.WritePrometheus(ctx.Response.BodyWriter()); err != nil {
		hlog.CtxErrorf(c, "write metrics: %v", err)
		ctx.SetStatusCode(consts.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(consts.StatusOK)
}
