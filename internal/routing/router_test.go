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

package routing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dialogue-platform/internal/nlu"
	"dialogue-platform/pkg/config"
	"dialogue-platform/pkg/errors"
)

func TestRuleRouter_IntentMapping(t *testing.T) {
	r := NewRuleRouter("general")
	cases := []struct {
		intent nlu.Intent
		agent  string
		conf   float64
	}{
		{nlu.IntentInventory, "inventory", ruleMatchConfidence},
		{nlu.IntentProcurement, "procurement", ruleMatchConfidence},
		{nlu.IntentFinancial, "finance", ruleMatchConfidence},
		{nlu.IntentNotification, "notification", ruleMatchConfidence},
		{nlu.IntentQuery, "query", ruleMatchConfidence},
		{nlu.IntentHelp, "general", ruleFallbackConfidence},
		{nlu.IntentGeneral, "general", ruleFallbackConfidence},
	}
	for _, tc := range cases {
		res, err := r.Route(context.Background(), tc.intent, nlu.NewEntityResult(), ConversationInfo{})
		if err != nil {
			t.Fatalf("Route(%s): %v", tc.intent, err)
		}
		if res.TargetAgent != tc.agent {
			t.Errorf("Route(%s) agent = %s, want %s", tc.intent, res.TargetAgent, tc.agent)
		}
		if res.Confidence != tc.conf {
			t.Errorf("Route(%s) confidence = %v, want %v", tc.intent, res.Confidence, tc.conf)
		}
	}
}

func TestRuleRouter_CustomFallback(t *testing.T) {
	r := NewRuleRouter("concierge")
	res, err := r.Route(context.Background(), nlu.IntentGeneral, nlu.NewEntityResult(), ConversationInfo{})
	if err != nil {
		t.Fatal(err)
	}
	if res.TargetAgent != "concierge" {
		t.Errorf("agent = %s, want concierge", res.TargetAgent)
	}
}

func TestHTTPRouter_Route(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/route" || req.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", req.Method, req.URL.Path)
		}
		var in routeRequest
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if in.Intent != nlu.IntentInventory {
			t.Errorf("intent = %s, want inventory_management", in.Intent)
		}
		if in.ConversationID != "c1" {
			t.Errorf("conversation_id = %s, want c1", in.ConversationID)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Result{TargetAgent: "inventory", Confidence: 0.88})
	}))
	defer srv.Close()

	r, err := NewHTTPRouter(config.RoutingConfig{Type: "http", Endpoint: srv.URL, Timeout: "2s"})
	if err != nil {
		t.Fatal(err)
	}
	entities := nlu.NewEntityResult()
	entities.Entities[nlu.EntityItemName] = "抽纸"
	res, err := r.Route(context.Background(), nlu.IntentInventory, entities, ConversationInfo{ConversationID: "c1", UserID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	if res.TargetAgent != "inventory" || res.Confidence != 0.88 {
		t.Errorf("result = %+v", res)
	}
}

func TestHTTPRouter_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r, err := NewHTTPRouter(config.RoutingConfig{Type: "http", Endpoint: srv.URL, Timeout: "2s"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = r.Route(context.Background(), nlu.IntentQuery, nlu.NewEntityResult(), ConversationInfo{})
	if !errors.IsUnavailable(err) {
		t.Errorf("want ErrUnavailable, got %v", err)
	}
}

func TestHTTPRouter_EmptyAgentFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Result{})
	}))
	defer srv.Close()

	r, err := NewHTTPRouter(config.RoutingConfig{Type: "http", Endpoint: srv.URL, FallbackAgent: "general"})
	if err != nil {
		t.Fatal(err)
	}
	res, err := r.Route(context.Background(), nlu.IntentGeneral, nlu.NewEntityResult(), ConversationInfo{})
	if err != nil {
		t.Fatal(err)
	}
	if res.TargetAgent != "general" {
		t.Errorf("agent = %s, want general fallback", res.TargetAgent)
	}
}

func TestNewRouter(t *testing.T) {
	if _, err := NewRouter(config.RoutingConfig{Type: "rule"}); err != nil {
		t.Errorf("rule: %v", err)
	}
	if _, err := NewRouter(config.RoutingConfig{}); err != nil {
		t.Errorf("default: %v", err)
	}
	if _, err := NewRouter(config.RoutingConfig{Type: "http"}); err == nil {
		t.Error("http without endpoint should fail")
	}
	if _, err := NewRouter(config.RoutingConfig{Type: "carrier-pigeon"}); err == nil {
		t.Error("unknown type should fail")
	}
}
