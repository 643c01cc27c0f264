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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAmbiguous(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"", false},
		{"   ", false},
		{"这个", true},
		{"那个东西", true},
		{"麻烦一下这个", true},
		{"this thing", true},
		{"I want that", true},
		{"please help me with this", true},
		// 含内容词即不模糊
		{"这个抽纸", false},
		{"添加 那个", false},
		{"消耗抽纸2包", false},
		{"check that order", false},
		{"查询库存", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsAmbiguous(tc.text), "IsAmbiguous(%q)", tc.text)
	}
}

func TestHasHelpToken(t *testing.T) {
	assert.True(t, HasHelpToken("怎么用"))
	assert.True(t, HasHelpToken("how does this work"))
	assert.False(t, HasHelpToken("查询抽纸库存"))
	assert.False(t, HasHelpToken("add milk"))
}

func TestSplitWords(t *testing.T) {
	assert.Equal(t, []string{"add", "2", "packs", "牛奶"}, splitWords("add 2 packs, 牛奶!"))
	assert.Empty(t, splitWords(" ,.! "))
}
