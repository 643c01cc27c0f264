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

import (
	"strings"
	"unicode"
)

// 中文指代/填充词：按子串去除（出现即判定含指代）
var zhVagueTokens = []string{
	"这个", "那个", "这些", "那些", "这种", "那种", "什么的", "什么",
	"东西", "物品", "玩意", "这", "那",
}

// 中文语气/礼貌填充词：不构成模糊判定，但不算内容
var zhFillerTokens = []string{
	"帮我", "我想", "我要", "请问", "麻烦", "一下", "可以", "能不能",
	"吧", "吗", "呢", "啊", "呀", "的", "了", "是", "有", "要",
}

// 英文指代词：按整词匹配
var enVagueWords = map[string]bool{
	"this": true, "that": true, "these": true, "those": true, "it": true,
	"thing": true, "things": true, "stuff": true, "something": true, "anything": true,
}

// 英文填充词：按整词匹配
var enFillerWords = map[string]bool{
	"please": true, "can": true, "could": true, "you": true, "i": true,
	"want": true, "need": true, "would": true, "like": true, "to": true,
	"the": true, "a": true, "an": true, "do": true, "with": true, "me": true,
	"is": true, "are": true, "about": true,
}

// 求助类词：模糊输入中出现时可路由到 help_request
var zhHelpTokens = []string{"怎么", "如何", "怎样", "帮助", "教我"}
var enHelpWords = map[string]bool{"help": true, "how": true, "what": true, "guide": true}

// IsAmbiguous 判断文本是否为无内容的模糊表达：
// 含指代/填充词，且去除指代词、填充词、求助词、标点后没有剩余内容词。
// 空串不算模糊（空输入走回退意图，不触发澄清）。
func IsAmbiguous(text string) bool {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return false
	}

	hadVague := false
	for _, tok := range zhVagueTokens {
		if strings.Contains(s, tok) {
			hadVague = true
			s = strings.ReplaceAll(s, tok, " ")
		}
	}
	for _, tok := range zhFillerTokens {
		s = strings.ReplaceAll(s, tok, " ")
	}
	for _, tok := range zhHelpTokens {
		s = strings.ReplaceAll(s, tok, " ")
	}

	// 剩余内容判定：汉字或数字即为内容；拉丁词逐词过滤
	for _, word := range splitWords(s) {
		if enVagueWords[word] {
			hadVague = true
			continue
		}
		if enFillerWords[word] || enHelpWords[word] {
			continue
		}
		// 剩下的是内容词
		return false
	}
	return hadVague
}

// splitWords 按连续的字母/数字/汉字切词；单个汉字或数字串也算词
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Han, r)
	})
}

// HasHelpToken 判断文本是否含求助类词
func HasHelpToken(text string) bool {
	s := strings.ToLower(text)
	for _, tok := range zhHelpTokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	for _, word := range splitWords(s) {
		if enHelpWords[word] {
			return true
		}
	}
	return false
}
