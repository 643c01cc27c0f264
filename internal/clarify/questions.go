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

package clarify

import "dialogue-platform/internal/nlu"

// questionTemplate 按缺失实体类型与语言的问句模板
type questionTemplate struct {
	question  string
	suggested []string
}

// 缺失类型键：空串表示纯模糊输入（无具体缺失实体）
var questionTemplates = map[nlu.Language]map[string]questionTemplate{
	nlu.LanguageChinese: {
		nlu.EntityItemName: {
			question:  "请问您说的具体是哪种物品？",
			suggested: []string{"抽纸", "牛奶", "洗衣液"},
		},
		nlu.EntityQuantity: {
			question:  "请问具体的数量是多少？",
			suggested: []string{"2包", "3瓶"},
		},
		nlu.EntityPlatform: {
			question:  "请问是哪个平台的订单？",
			suggested: []string{"淘宝", "京东", "拼多多"},
		},
		"": {
			question:  "这是一个比较模糊的表达，请具体说明您想做什么。",
			suggested: []string{"查询抽纸库存", "导入淘宝订单"},
		},
	},
	nlu.LanguageEnglish: {
		nlu.EntityItemName: {
			question:  "Which item do you mean exactly?",
			suggested: []string{"tissue", "milk", "detergent"},
		},
		nlu.EntityQuantity: {
			question:  "How many exactly?",
			suggested: []string{"2 packs", "3 bottles"},
		},
		nlu.EntityPlatform: {
			question:  "Which platform is the order from?",
			suggested: []string{"taobao", "jd", "pinduoduo"},
		},
		"": {
			question:  "I need a bit more information. Could you be more specific?",
			suggested: []string{"check tissue inventory", "import taobao orders"},
		},
	},
}

// buildQuestion 按缺失类型与语言生成本地化问句及建议回答
func buildQuestion(expected string, lang nlu.Language) (string, []string) {
	table, ok := questionTemplates[lang]
	if !ok {
		table = questionTemplates[nlu.LanguageChinese]
	}
	tpl, ok := table[expected]
	if !ok {
		tpl = table[""]
	}
	out := make([]string, len(tpl.suggested))
	copy(out, tpl.suggested)
	return tpl.question, out
}
