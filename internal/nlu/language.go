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

import "unicode"

// guessConfidence 无可分类字符时返回的置信度：低于高置信阈值，
// 让调用方知道这是猜测而非测量。
const guessConfidence = 0.3

// Detector 按字符体系计数的语言检测器。无副作用，可并发使用。
type Detector struct {
	defaultLanguage Language
}

// NewDetector 创建语言检测器，def 为检测不确定时的语言
func NewDetector(def Language) *Detector {
	if !ValidLanguage(def) {
		def = LanguageChinese
	}
	return &Detector{defaultLanguage: def}
}

// Detect 检测文本语言。置信度为主导字符体系在全部可分类
// （非标点/非数字）字符中的占比；同分时偏向默认语言。
func (d *Detector) Detect(text string) DetectionResult {
	var han, latin int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			han++
		case unicode.IsLetter(r) && r < 0x250: // 拉丁字母（含扩展）
			latin++
		}
	}

	classifiable := han + latin
	if classifiable == 0 {
		return DetectionResult{Language: d.defaultLanguage, Confidence: guessConfidence}
	}

	lang := d.defaultLanguage
	dominant := han
	switch {
	case han > latin:
		lang = LanguageChinese
	case latin > han:
		lang = LanguageEnglish
		dominant = latin
	default:
		// 同分：偏向默认语言
		if d.defaultLanguage == LanguageEnglish {
			dominant = latin
		}
	}
	return DetectionResult{
		Language:   lang,
		Confidence: float64(dominant) / float64(classifiable),
	}
}
