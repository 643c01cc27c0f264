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

import "testing"

func newTestExtractor() *Extractor {
	return NewExtractor(0.5)
}

func TestExtract_ActionItemQuantityUnit(t *testing.T) {
	e := newTestExtractor()
	res := e.Extract("消耗抽纸2包", IntentInventory, LanguageChinese)

	if action, _ := res.String(EntityAction); action != "消耗" {
		t.Errorf("action = %q, want 消耗", action)
	}
	if item, _ := res.String(EntityItemName); item != "抽纸" {
		t.Errorf("item_name = %q, want 抽纸", item)
	}
	if qty, ok := res.Number(EntityQuantity); !ok || qty != 2 {
		t.Errorf("quantity = %v (%v), want 2", qty, ok)
	}
	if unit, _ := res.String(EntityUnit); unit != "包" {
		t.Errorf("unit = %q, want 包", unit)
	}
}

func TestExtract_MultipleItems(t *testing.T) {
	e := newTestExtractor()
	res := e.Extract("添加牛奶3瓶和面包2个", IntentInventory, LanguageChinese)

	items, ok := res.Strings(EntityItems)
	if !ok {
		t.Fatalf("items missing: %v", res.Entities)
	}
	wantItems := map[string]bool{"牛奶": false, "面包": false}
	for _, it := range items {
		if _, exists := wantItems[it]; exists {
			wantItems[it] = true
		}
	}
	for it, seen := range wantItems {
		if !seen {
			t.Errorf("items %v missing %q", items, it)
		}
	}

	quantities, ok := res.Numbers(EntityQuantities)
	if !ok || len(quantities) != 2 || quantities[0] != 3 || quantities[1] != 2 {
		t.Errorf("quantities = %v, want [3 2]", quantities)
	}
	if res.Has(EntityItemName) {
		t.Error("scalar item_name should be absent for multi-item utterance")
	}
}

func TestExtract_Platform(t *testing.T) {
	e := newTestExtractor()
	res := e.Extract("导入淘宝订单", IntentProcurement, LanguageChinese)
	if p, _ := res.String(EntityPlatform); p != "淘宝" {
		t.Errorf("platform = %q, want 淘宝", p)
	}
	if action, _ := res.String(EntityAction); action != "导入" {
		t.Errorf("action = %q, want 导入", action)
	}
}

func TestExtract_MultiplePlatforms(t *testing.T) {
	e := newTestExtractor()
	res := e.Extract("对比淘宝和京东的订单", IntentProcurement, LanguageChinese)
	platforms, ok := res.Strings(EntityPlatforms)
	if !ok || len(platforms) != 2 {
		t.Fatalf("platforms = %v", res.Entities)
	}
	if platforms[0] != "淘宝" || platforms[1] != "京东" {
		t.Errorf("platforms = %v, want [淘宝 京东] in mention order", platforms)
	}
	if res.Has(EntityPlatform) {
		t.Error("scalar platform should be absent when multiple named")
	}
}

func TestExtract_PlatformAliases(t *testing.T) {
	e := newTestExtractor()
	res := e.Extract("import taobao orders", IntentProcurement, LanguageEnglish)
	if p, _ := res.String(EntityPlatform); p != "淘宝" {
		t.Errorf("platform = %q, want canonical 淘宝 for alias taobao", p)
	}
	res = e.Extract("导入1688订单", IntentProcurement, LanguageChinese)
	if p, _ := res.String(EntityPlatform); p != "1688" {
		t.Errorf("platform = %q, want 1688", p)
	}
}

func TestExtract_NotificationChannel(t *testing.T) {
	e := newTestExtractor()
	res := e.Extract("发送通知到teams", IntentNotification, LanguageChinese)
	if p, _ := res.String(EntityPlatform); p != "teams" {
		t.Errorf("platform = %q, want teams", p)
	}
}

func TestExtract_ZeroQuantity(t *testing.T) {
	e := newTestExtractor()
	res := e.Extract("消耗抽纸0包", IntentInventory, LanguageChinese)
	qty, ok := res.Number(EntityQuantity)
	if !ok {
		t.Fatal("quantity 0 should be present, distinct from absent")
	}
	if qty != 0 {
		t.Errorf("quantity = %v, want 0", qty)
	}
}

func TestExtract_BareQuantity(t *testing.T) {
	e := newTestExtractor()
	res := e.Extract("2包", IntentInventory, LanguageChinese)
	if qty, ok := res.Number(EntityQuantity); !ok || qty != 2 {
		t.Errorf("quantity = %v (%v), want 2", qty, ok)
	}
	if unit, _ := res.String(EntityUnit); unit != "包" {
		t.Errorf("unit = %q, want 包", unit)
	}
}

func TestExtract_HeuristicItem(t *testing.T) {
	e := newTestExtractor()
	res := e.Extract("查询抽纸库存", IntentInventory, LanguageChinese)
	if item, _ := res.String(EntityItemName); item != "抽纸" {
		t.Errorf("item_name = %q, want 抽纸 (context nouns stripped)", item)
	}

	// 阈值高于启发式置信度时不启用该规则
	strict := NewExtractor(0.8)
	res = strict.Extract("查询抽纸库存", IntentInventory, LanguageChinese)
	if res.Has(EntityItemName) {
		t.Error("heuristic item should be gated out by entity threshold")
	}
}

func TestExtract_English(t *testing.T) {
	e := newTestExtractor()
	res := e.Extract("add 2 packs of tissue", IntentInventory, LanguageEnglish)
	if action, _ := res.String(EntityAction); action != "add" {
		t.Errorf("action = %q, want add", action)
	}
	if qty, ok := res.Number(EntityQuantity); !ok || qty != 2 {
		t.Errorf("quantity = %v (%v), want 2", qty, ok)
	}
	if unit, _ := res.String(EntityUnit); unit != "packs" {
		t.Errorf("unit = %q, want packs", unit)
	}
	if item, _ := res.String(EntityItemName); item != "tissue" {
		t.Errorf("item_name = %q, want tissue", item)
	}
}

func TestExtract_EnglishMultiple(t *testing.T) {
	e := newTestExtractor()
	res := e.Extract("buy 3 bottles of milk and 2 cans of coffee", IntentProcurement, LanguageEnglish)
	items, _ := res.Strings(EntityItems)
	quantities, _ := res.Numbers(EntityQuantities)
	if len(items) != 2 || items[0] != "milk" || items[1] != "coffee" {
		t.Errorf("items = %v, want [milk coffee]", items)
	}
	if len(quantities) != 2 || quantities[0] != 3 || quantities[1] != 2 {
		t.Errorf("quantities = %v, want [3 2]", quantities)
	}
}

func TestExtract_EmptyAndMalformed(t *testing.T) {
	e := newTestExtractor()
	for _, in := range []string{"", "   ", "!@#$%", "？？？"} {
		res := e.Extract(in, IntentGeneral, LanguageChinese)
		if res.Entities == nil {
			t.Fatalf("Extract(%q) returned nil entity map", in)
		}
		if len(res.Entities) != 0 {
			t.Errorf("Extract(%q) = %v, want empty bag", in, res.Entities)
		}
	}
}

func TestExtract_DecimalQuantity(t *testing.T) {
	e := newTestExtractor()
	res := e.Extract("添加牛奶2.5升", IntentInventory, LanguageChinese)
	if qty, ok := res.Number(EntityQuantity); !ok || qty != 2.5 {
		t.Errorf("quantity = %v (%v), want 2.5", qty, ok)
	}
	if unit, _ := res.String(EntityUnit); unit != "升" {
		t.Errorf("unit = %q, want 升", unit)
	}
}
