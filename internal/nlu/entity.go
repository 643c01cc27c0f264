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
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// 动作词表（按表序扫描，同位置时长词优先）
var zhActionTokens = []string{
	"消耗", "使用", "用掉", "用了", "添加", "新增", "补充", "导入",
	"购买", "采购", "下单", "查询", "查看",
}

var enActionWords = []string{
	"consume", "consumed", "use", "used", "add", "added", "import", "imported",
	"buy", "bought", "purchase", "purchased", "order", "check", "query",
}

// 平台/渠道词典：canonical 为返回值，aliases 为识别别名
var platformGazetteer = []struct {
	canonical string
	aliases   []string
}{
	{"淘宝", []string{"淘宝", "taobao"}},
	{"1688", []string{"1688"}},
	{"京东", []string{"京东", "jingdong", "jd"}},
	{"抖音商城", []string{"抖音商城", "抖音", "douyin"}},
	{"中免日上", []string{"中免日上", "日上", "cdf"}},
	{"拼多多", []string{"拼多多", "pinduoduo", "pdd"}},
	{"teams", []string{"teams"}},
	{"email", []string{"email", "邮件"}},
}

// 中文量词（长词在前，保证 千克 不被 克 截断）
const zhUnitAlt = "千克|公斤|毫升|包|瓶|盒|袋|卷|箱|桶|提|条|只|件|台|支|罐|升|克|斤|个"

var (
	// <item><qty><unit>：物品为连续汉字（非贪婪）
	zhTripleRe = regexp.MustCompile(`([\p{Han}]{1,8}?)(\d+(?:\.\d+)?)\s*(` + zhUnitAlt + `)`)
	// 裸 <qty><unit>
	zhBareQtyRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(` + zhUnitAlt + `)`)
	// 英文 <qty> <unit> [of] <item>
	enTripleRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(packs?|bottles?|boxes?|bags?|rolls?|cans?|pieces?|pcs|units?|kg|g|l|ml)\s*(?:of\s+)?([a-z][a-z ]{0,30})?`)
	// 连接词 → 空格，使多物品句可被逐段匹配
	connectorRe = regexp.MustCompile(`和|以及|还有|、|，|,|\band\b`)
)

// 物品启发式会误吞的上下文名词
var zhContextNouns = []string{
	"库存", "订单", "情况", "状态", "记录", "数量", "信息", "报告", "列表", "剩余", "多少",
}

// heuristicConfidence 物品启发式抽取（无数量锚点）的置信度；
// 低于 entity_confidence_threshold 时该规则不启用
const heuristicConfidence = 0.6

// Extractor 规则式实体抽取器：按语言选取有序模式表，
// 独立于意图置信度运行。无状态，可并发使用。
type Extractor struct {
	entityThreshold float64
}

// NewExtractor 创建实体抽取器。threshold 为实体可信的最小置信度，
// 决定低置信启发式规则是否参与。
func NewExtractor(threshold float64) *Extractor {
	return &Extractor{entityThreshold: threshold}
}

// Extract 从文本中抽取实体。单次命中填标量键，多物品/多数量命中
// 填复数键（按提及顺序对齐）。空或畸形输入返回空实体包，绝不报错。
func (e *Extractor) Extract(text string, intent Intent, lang Language) EntityResult {
	result := NewEntityResult()
	text = strings.TrimSpace(text)
	if text == "" {
		return result
	}

	working := text

	// 动作
	if action, rest := extractAction(working, lang); action != "" {
		result.Entities[EntityAction] = action
		working = rest
	}

	// 平台/渠道（抽取后从工作串移除，避免被物品规则吞掉）
	platforms, rest := extractPlatforms(working)
	working = rest
	switch {
	case len(platforms) == 1:
		result.Entities[EntityPlatform] = platforms[0]
	case len(platforms) > 1:
		result.Entities[EntityPlatforms] = platforms
	}

	// 数量-单位-物品
	working = connectorRe.ReplaceAllString(working, " ")
	items, quantities, units := extractTriples(working, lang)
	switch {
	case len(items) == 1:
		if items[0] != "" {
			result.Entities[EntityItemName] = items[0]
		}
		result.Entities[EntityQuantity] = quantities[0]
		if units[0] != "" {
			result.Entities[EntityUnit] = units[0]
		}
	case len(items) > 1:
		result.Entities[EntityItems] = items
		result.Entities[EntityQuantities] = quantities
	default:
		// 无三元组：尝试裸数量，再尝试物品启发式
		if qty, unit, ok := extractBareQuantity(working, lang); ok {
			result.Entities[EntityQuantity] = qty
			if unit != "" {
				result.Entities[EntityUnit] = unit
			}
		}
		if e.entityThreshold <= heuristicConfidence && heuristicIntentAllowed(intent) {
			if item := heuristicItem(working); item != "" {
				result.Entities[EntityItemName] = item
			}
		}
	}

	return result
}

// extractAction 找到最早出现的动作词，返回动作与移除动作后的文本
func extractAction(text string, lang Language) (string, string) {
	bestIdx := -1
	best := ""
	for _, tok := range zhActionTokens {
		if idx := strings.Index(text, tok); idx >= 0 {
			if bestIdx == -1 || idx < bestIdx || (idx == bestIdx && len(tok) > len(best)) {
				bestIdx, best = idx, tok
			}
		}
	}
	if best == "" {
		lower := strings.ToLower(text)
		for _, w := range splitWords(lower) {
			for _, a := range enActionWords {
				if w == a {
					best = a
					break
				}
			}
			if best != "" {
				break
			}
		}
		if best != "" {
			re := regexp.MustCompile(`(?i)\b` + best + `\b`)
			return best, re.ReplaceAllString(text, " ")
		}
		return "", text
	}
	return best, strings.Replace(text, best, " ", 1)
}

// extractPlatforms 按词典识别平台/渠道，返回 canonical 名（按首次出现顺序）
func extractPlatforms(text string) ([]string, string) {
	lower := strings.ToLower(text)
	type hit struct {
		idx  int
		name string
		len  int
	}
	var hits []hit
	for _, p := range platformGazetteer {
		for _, alias := range p.aliases {
			if idx := strings.Index(lower, alias); idx >= 0 {
				hits = append(hits, hit{idx: idx, name: p.canonical, len: len(alias)})
				break
			}
		}
	}
	if len(hits) == 0 {
		return nil, text
	}
	// 按出现位置排序（平台数很小，插入排序足够）
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].idx < hits[j-1].idx; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	names := make([]string, 0, len(hits))
	rest := text
	for _, h := range hits {
		names = append(names, h.name)
		for _, p := range platformGazetteer {
			if p.canonical == h.name {
				for _, alias := range p.aliases {
					rest = replaceFold(rest, alias, " ")
				}
			}
		}
	}
	return names, rest
}

// replaceFold 大小写不敏感地替换全部 old
func replaceFold(s, old, new string) string {
	lower := strings.ToLower(s)
	oldLower := strings.ToLower(old)
	var b strings.Builder
	for {
		idx := strings.Index(lower, oldLower)
		if idx < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:idx])
		b.WriteString(new)
		s = s[idx+len(old):]
		lower = lower[idx+len(oldLower):]
	}
}

// extractTriples 抽取全部 <物品,数量,单位> 三元组（按提及顺序）
func extractTriples(working string, lang Language) (items []string, quantities []float64, units []string) {
	matches := zhTripleRe.FindAllStringSubmatch(working, -1)
	for _, m := range matches {
		qty, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		items = append(items, cleanItem(m[1]))
		quantities = append(quantities, qty)
		units = append(units, m[3])
	}
	if len(items) > 0 {
		return items, quantities, units
	}

	for _, m := range enTripleRe.FindAllStringSubmatch(working, -1) {
		qty, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		items = append(items, strings.TrimSpace(strings.ToLower(m[3])))
		quantities = append(quantities, qty)
		units = append(units, strings.ToLower(m[2]))
	}
	return items, quantities, units
}

// extractBareQuantity 抽取无物品锚点的 <数量><单位>
func extractBareQuantity(working string, lang Language) (float64, string, bool) {
	if m := zhBareQtyRe.FindStringSubmatch(working); m != nil {
		if qty, err := strconv.ParseFloat(m[1], 64); err == nil {
			return qty, m[2], true
		}
	}
	if m := enTripleRe.FindStringSubmatch(working); m != nil {
		if qty, err := strconv.ParseFloat(m[1], 64); err == nil {
			return qty, strings.ToLower(m[2]), true
		}
	}
	return 0, "", false
}

// heuristicItem 物品启发式：移除上下文名词、标点、数字后，
// 剩余 1-8 个汉字则视为物品名
func heuristicItem(working string) string {
	s := working
	for _, noun := range zhContextNouns {
		s = strings.ReplaceAll(s, noun, "")
	}
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Han, r) {
			return r
		}
		return -1
	}, s)
	n := len([]rune(s))
	if n >= 1 && n <= 8 {
		return s
	}
	return ""
}

// heuristicIntentAllowed 物品启发式生效的意图范围
func heuristicIntentAllowed(intent Intent) bool {
	switch intent {
	case IntentInventory, IntentProcurement, IntentQuery, IntentGeneral:
		return true
	}
	return false
}

// cleanItem 去除物品名里残留的连接/填充单字
func cleanItem(item string) string {
	return strings.Trim(item, " 和与及了的")
}
