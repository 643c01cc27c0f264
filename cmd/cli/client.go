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

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

func apiBaseURL() string {
	if u := os.Getenv("DIALOGUE_API_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func newClient() *resty.Client {
	return resty.New().
		SetBaseURL(apiBaseURL()).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json")
}

func postMessage(text, conversationID, userID string) (map[string]interface{}, error) {
	var out map[string]interface{}
	resp, err := newClient().R().
		SetBody(map[string]string{
			"text":            text,
			"conversation_id": conversationID,
			"user_id":         userID,
		}).
		SetResult(&out).
		Post("/api/chat/message")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("POST /api/chat/message: %s", resp.String())
	}
	return out, nil
}

func getClarification(conversationID string) (map[string]interface{}, error) {
	var out map[string]interface{}
	resp, err := newClient().R().
		SetResult(&out).
		Get("/api/chat/conversations/" + conversationID + "/clarification")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("GET clarification: %s", resp.String())
	}
	return out, nil
}

func cancelClarification(conversationID string) error {
	resp, err := newClient().R().
		Delete("/api/chat/conversations/" + conversationID + "/clarification")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("DELETE clarification: %s", resp.String())
	}
	return nil
}

func setLanguage(conversationID, lang string) error {
	resp, err := newClient().R().
		SetBody(map[string]string{"language": lang}).
		Put("/api/chat/conversations/" + conversationID + "/language")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("PUT language: %s", resp.String())
	}
	return nil
}

func getLanguage(conversationID string) (string, error) {
	var out map[string]string
	resp, err := newClient().R().
		SetResult(&out).
		Get("/api/chat/conversations/" + conversationID + "/language")
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("GET language: %s", resp.String())
	}
	return out["language"], nil
}

func clearConversation(conversationID string) error {
	resp, err := newClient().R().
		Delete("/api/chat/conversations/" + conversationID)
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("DELETE conversation: %s", resp.String())
	}
	return nil
}

func getStats() (map[string]interface{}, error) {
	var out map[string]interface{}
	resp, err := newClient().R().
		SetResult(&out).
		Get("/api/chat/stats")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("GET /api/chat/stats: %s", resp.String())
	}
	return out, nil
}

func getLanguages() (map[string]interface{}, error) {
	var out map[string]interface{}
	resp, err := newClient().R().
		SetResult(&out).
		Get("/api/languages")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("GET /api/languages: %s", resp.String())
	}
	return out, nil
}

func detectLanguage(text string) (map[string]interface{}, error) {
	var out map[string]interface{}
	resp, err := newClient().R().
		SetBody(map[string]string{"text": text}).
		SetResult(&out).
		Post("/api/languages/detect")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("POST /api/languages/detect: %s", resp.String())
	}
	return out, nil
}

func prettyJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
