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

package nlu

import "strings"

// intentPriority 意图评估顺序：先匹配者先赢
var intentPriority = []Intent{
	IntentInventory,
	IntentProcurement,
	IntentFinancial,
	IntentNotification,
	IntentQuery,
	IntentHelp,
}

// 每语言每意图的关键词模式表（数据驱动，可独立单测）
var intentKeywords = map[Language]map[Intent][]string{
	LanguageChinese: {
		IntentInventory: {
			"库存", "消耗", "添加", "补充", "用完", "用了", "剩余", "剩多少",
			"抽纸", "纸巾", "洗衣液", "洗发水", "牙膏", "垃圾袋",
		},
		IntentProcurement: {
			"导入", "订单", "购买", "采购", "下单", "买了",
			"淘宝", "京东", "拼多多", "1688", "抖音商城", "中免日上",
		},
		IntentFinancial: {
			"财务", "支出", "花费", "花了", "报告", "报表", "账单", "成本", "消费",
		},
		IntentNotification: {
			"通知", "提醒", "推送", "消息", "告诉我",
		},
		IntentQuery: {
			"查询", "查看", "看看", "多少", "情况", "状态", "列表",
		},
		IntentHelp: {
			"帮助", "怎么", "如何", "怎样", "使用方法", "教我",
		},
	},
	LanguageEnglish: {
		IntentInventory: {
			"inventory", "stock", "consume", "consumed", "add", "refill", "remaining", "tissue",
		},
		IntentProcurement: {
			"import", "order", "orders", "purchase", "buy", "bought",
			"taobao", "jd", "jingdong", "pinduoduo", "douyin",
		},
		IntentFinancial: {
			"finance", "financial", "expense", "expenses", "spend", "spending", "report", "cost", "bill",
		},
		IntentNotification: {
			"notify", "notification", "remind", "reminder", "teams", "alert", "message",
		},
		IntentQuery: {
			"query", "check", "status", "show", "list", "view",
		},
		IntentHelp: {
			"help", "how", "what", "guide", "usage",
		},
	},
}

// 置信度曲线：按命中关键词数饱和趋近 1.0
const (
	emptyInputConfidence = 0.1
	vagueConfidence      = 0.3
	vagueHelpConfidence  = 0.5
	matchBaseConfidence  = 0.6
	matchStepConfidence  = 0.1
	maxConfidence        = 0.95
)

// Recognizer 规则式意图识别器：按优先级顺序评估每语言关键词模式表。
// 无状态，可并发使用。
type Recognizer struct {
	threshold float64
	fallback  Intent
}

// NewRecognizer 创建意图识别器。threshold 为接受非回退意图的最小置信度，
// fallback 为置信度不足时的意图。
func NewRecognizer(threshold float64, fallback Intent) *Recognizer {
	if fallback == "" {
		fallback = IntentGeneral
	}
	return &Recognizer{threshold: threshold, fallback: fallback}
}

// Recognize 识别文本意图。空输入返回回退意图；模糊输入强制低置信度，
// 含求助词时可路由到 help_request。绝不返回错误。
func (r *Recognizer) Recognize(text string, lang Language) IntentResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return IntentResult{Intent: r.fallback, Confidence: emptyInputConfidence}
	}
	if IsAmbiguous(text) {
		if HasHelpToken(text) {
			return IntentResult{Intent: IntentHelp, Confidence: vagueHelpConfidence}
		}
		return IntentResult{Intent: r.fallback, Confidence: vagueConfidence}
	}

	intent, matches := r.matchTable(text, lang)
	if matches == 0 {
		// 主语言表无命中时回退到另一语言表（混合语输入常见）
		intent, matches = r.matchTable(text, otherLanguage(lang))
	}
	if matches == 0 {
		if HasHelpToken(text) {
			return IntentResult{Intent: IntentHelp, Confidence: vagueHelpConfidence}
		}
		return IntentResult{Intent: r.fallback, Confidence: vagueConfidence}
	}

	confidence := matchBaseConfidence + matchStepConfidence*float64(min(matches, 3))
	if confidence > maxConfidence {
		confidence = maxConfidence
	}
	if confidence < r.threshold {
		return IntentResult{Intent: r.fallback, Confidence: confidence}
	}
	return IntentResult{Intent: intent, Confidence: confidence}
}

// matchTable 在指定语言的模式表中按优先级找第一个有命中的意图
func (r *Recognizer) matchTable(text string, lang Language) (Intent, int) {
	table, ok := intentKeywords[lang]
	if !ok {
		return r.fallback, 0
	}
	lower := strings.ToLower(text)
	words := wordSet(lower)
	for _, intent := range intentPriority {
		matches := 0
		for _, kw := range table[intent] {
			if matchKeyword(lower, words, kw, lang) {
				matches++
			}
		}
		if matches > 0 {
			return intent, matches
		}
	}
	return r.fallback, 0
}

// matchKeyword 中文按子串匹配；英文按整词匹配（多词短语按子串）
func matchKeyword(lower string, words map[string]bool, kw string, lang Language) bool {
	if lang == LanguageEnglish && !strings.Contains(kw, " ") {
		return words[kw]
	}
	return strings.Contains(lower, kw)
}

func wordSet(lower string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range splitWords(lower) {
		set[w] = true
	}
	return set
}

func otherLanguage(lang Language) Language {
	if lang == LanguageEnglish {
		return LanguageChinese
	}
	return LanguageEnglish
}
