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

import (
	"strings"
	"testing"

	"dialogue-platform/internal/nlu"
)

func entitiesWith(kv map[string]any) nlu.EntityResult {
	res := nlu.NewEntityResult()
	for k, v := range kv {
		res.Entities[k] = v
	}
	return res
}

func TestEvaluate_MissingItemAndQuantity(t *testing.T) {
	e := NewEngine(true, 3)
	entities := entitiesWith(map[string]any{nlu.EntityAction: "添加"})

	d := e.Evaluate("c1", "添加", nlu.IntentInventory, entities, nlu.LanguageChinese)
	if !d.Raise {
		t.Fatal("missing required entities should raise clarification")
	}
	req := d.Request
	if req.ExpectedEntityType != nlu.EntityItemName {
		t.Errorf("expected_entity_type = %s, want item_name", req.ExpectedEntityType)
	}
	foundItem, foundQty := false, false
	for _, m := range req.MissingEntities {
		if m == nlu.EntityItemName {
			foundItem = true
		}
		if m == nlu.EntityQuantity {
			foundQty = true
		}
	}
	if !foundItem || !foundQty {
		t.Errorf("missing_entities = %v, want item_name and quantity", req.MissingEntities)
	}
	if req.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", req.Attempts)
	}
	if !strings.Contains(req.Question, "物品") {
		t.Errorf("question = %q, want item question", req.Question)
	}
	if len(req.SuggestedResponses) == 0 {
		t.Error("suggested responses should not be empty")
	}
}

func TestEvaluate_SatisfiedPassesThrough(t *testing.T) {
	e := NewEngine(true, 3)
	entities := entitiesWith(map[string]any{
		nlu.EntityAction:   "消耗",
		nlu.EntityItemName: "抽纸",
		nlu.EntityQuantity: float64(2),
	})
	d := e.Evaluate("c1", "消耗抽纸2包", nlu.IntentInventory, entities, nlu.LanguageChinese)
	if d.Raise || d.Resolve || d.GiveUp {
		t.Errorf("satisfied turn should pass through, got %+v", d)
	}
}

func TestEvaluate_QueryActionNeedsNothing(t *testing.T) {
	e := NewEngine(true, 3)
	entities := entitiesWith(map[string]any{nlu.EntityAction: "查询", nlu.EntityItemName: "抽纸"})
	d := e.Evaluate("c1", "查询抽纸库存", nlu.IntentInventory, entities, nlu.LanguageChinese)
	if d.Raise {
		t.Error("query action should not require quantity")
	}
}

func TestEvaluate_ImportRequiresPlatform(t *testing.T) {
	e := NewEngine(true, 3)
	entities := entitiesWith(map[string]any{nlu.EntityAction: "导入"})
	d := e.Evaluate("c1", "导入订单", nlu.IntentProcurement, entities, nlu.LanguageChinese)
	if !d.Raise {
		t.Fatal("import without platform should raise")
	}
	if d.Request.ExpectedEntityType != nlu.EntityPlatform {
		t.Errorf("expected = %s, want platform", d.Request.ExpectedEntityType)
	}
	if !strings.Contains(d.Request.Question, "平台") {
		t.Errorf("question = %q, want platform question", d.Request.Question)
	}
}

func TestEvaluate_AmbiguousDemonstrative(t *testing.T) {
	e := NewEngine(true, 3)
	d := e.Evaluate("c1", "这个东西", nlu.IntentGeneral, nlu.NewEntityResult(), nlu.LanguageChinese)
	if !d.Raise {
		t.Fatal("demonstrative-only input should raise")
	}
	if !strings.Contains(d.Request.Question, "模糊的表达") || !strings.Contains(d.Request.Question, "具体") {
		t.Errorf("ambiguity question = %q, want 模糊的表达 + 具体", d.Request.Question)
	}
}

func TestEvaluate_EnglishTemplates(t *testing.T) {
	e := NewEngine(true, 3)
	d := e.Evaluate("c1", "that thing", nlu.IntentGeneral, nlu.NewEntityResult(), nlu.LanguageEnglish)
	if !d.Raise {
		t.Fatal("vague english input should raise")
	}
	if !strings.Contains(d.Request.Question, "information") {
		t.Errorf("generic english prompt = %q, want to contain 'information'", d.Request.Question)
	}
}

func TestApply_RaiseResolveLifecycle(t *testing.T) {
	e := NewEngine(true, 3)
	entities := entitiesWith(map[string]any{nlu.EntityAction: "添加"})

	d := e.Evaluate("c1", "添加", nlu.IntentInventory, entities, nlu.LanguageChinese)
	e.Apply("c1", d)

	req, ok := e.Pending("c1")
	if !ok || req.Attempts != 1 {
		t.Fatalf("pending after raise = %+v, %v", req, ok)
	}
	if e.Count() != 1 {
		t.Errorf("Count = %d, want 1", e.Count())
	}

	// 合并后的输入满足要求 → 消解
	merged := entitiesWith(map[string]any{
		nlu.EntityAction:   "添加",
		nlu.EntityItemName: "抽纸",
		nlu.EntityQuantity: float64(2),
	})
	d2 := e.Evaluate("c1", "添加 抽纸2包", nlu.IntentInventory, merged, nlu.LanguageChinese)
	if !d2.Resolve {
		t.Fatalf("satisfied merged input should resolve, got %+v", d2)
	}
	e.Apply("c1", d2)
	if _, ok := e.Pending("c1"); ok {
		t.Error("pending should be cleared after resolve")
	}
	if e.Count() != 0 {
		t.Errorf("Count = %d, want 0", e.Count())
	}
}

func TestApply_ReRaiseIncrementsNotDuplicates(t *testing.T) {
	e := NewEngine(true, 3)
	entities := entitiesWith(map[string]any{nlu.EntityAction: "添加"})

	d := e.Evaluate("c1", "添加", nlu.IntentInventory, entities, nlu.LanguageChinese)
	e.Apply("c1", d)
	d = e.Evaluate("c1", "添加 那个", nlu.IntentInventory, entities, nlu.LanguageChinese)
	if !d.Raise || d.Request.Attempts != 2 {
		t.Fatalf("re-raise should increment attempts, got %+v", d)
	}
	e.Apply("c1", d)

	if e.Count() != 1 {
		t.Errorf("Count = %d, want 1 (replace, never duplicate)", e.Count())
	}
	req, _ := e.Pending("c1")
	if req.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", req.Attempts)
	}
}

func TestEvaluate_AttemptCap(t *testing.T) {
	e := NewEngine(true, 2)
	entities := entitiesWith(map[string]any{nlu.EntityAction: "添加"})

	d := e.Evaluate("c1", "添加", nlu.IntentInventory, entities, nlu.LanguageChinese)
	e.Apply("c1", d)
	d = e.Evaluate("c1", "添加 这个", nlu.IntentInventory, entities, nlu.LanguageChinese)
	if !d.Raise || d.Request.Attempts != 2 {
		t.Fatalf("second raise = %+v", d)
	}
	e.Apply("c1", d)

	// 已达上限：不再追问，降级放行
	d = e.Evaluate("c1", "添加 那个", nlu.IntentInventory, entities, nlu.LanguageChinese)
	if d.Raise {
		t.Fatal("raise after cap should not happen")
	}
	if !d.GiveUp {
		t.Fatal("cap reached should give up and proceed")
	}
	e.Apply("c1", d)
	if e.Count() != 0 {
		t.Errorf("pending should be cleared after give-up, Count = %d", e.Count())
	}
}

func TestCancel_Idempotent(t *testing.T) {
	e := NewEngine(true, 3)
	entities := entitiesWith(map[string]any{nlu.EntityAction: "添加"})
	d := e.Evaluate("c1", "添加", nlu.IntentInventory, entities, nlu.LanguageChinese)
	e.Apply("c1", d)

	if !e.Cancel("c1") {
		t.Error("first cancel should return true")
	}
	if e.Cancel("c1") {
		t.Error("second cancel should return false")
	}
	if e.Cancel("unknown") {
		t.Error("cancel on unknown conversation should return false")
	}
}

func TestEngine_Disabled(t *testing.T) {
	e := NewEngine(false, 3)
	entities := entitiesWith(map[string]any{nlu.EntityAction: "添加"})
	d := e.Evaluate("c1", "添加", nlu.IntentInventory, entities, nlu.LanguageChinese)
	if d.Raise || d.Resolve || d.GiveUp {
		t.Errorf("disabled engine should never raise, got %+v", d)
	}
}

func TestShutdown_ClearsPending(t *testing.T) {
	e := NewEngine(true, 3)
	entities := entitiesWith(map[string]any{nlu.EntityAction: "添加"})
	for _, id := range []string{"c1", "c2"} {
		d := e.Evaluate(id, "添加", nlu.IntentInventory, entities, nlu.LanguageChinese)
		e.Apply(id, d)
	}
	if e.Count() != 2 {
		t.Fatalf("Count = %d, want 2", e.Count())
	}
	e.Shutdown()
	if e.Count() != 0 {
		t.Errorf("Count after Shutdown = %d, want 0", e.Count())
	}
}
