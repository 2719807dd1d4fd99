// Copyright 2022-2023 Tigris Data, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenize_ComposedForms(t *testing.T) {
	r, err := NewBuilder().Register(
		Spec{Name: "en_stem", Type: KindUnicode, Lowercase: true, Stemmer: StemmerPorter},
		Spec{Name: "exact", Type: KindSingle},
	).Build()
	require.NoError(t, err)

	cases := []struct {
		tokenizer string
		input     string
		expected  []string
	}{
		{Default, "Cafe\u0301 Noir", []string{"caf\u00e9", "noir"}},
		{Default, "CAF\u00c9 noir", []string{"caf\u00e9", "noir"}},
		{"en_stem", "re\u0301sume\u0301", []string{"r\u00e9sum\u00e9"}},
		// tokenizers without lowercasing keep the input bytes
		{Raw, "Cafe\u0301", []string{"Cafe\u0301"}},
		{"exact", "Cafe\u0301", []string{"Cafe\u0301"}},
	}
	for _, c := range cases {
		t.Run(c.tokenizer+"/"+c.input, func(t *testing.T) {
			tok, err := r.Resolve(c.tokenizer)
			require.NoError(t, err)
			require.Equal(t, c.expected, tok.Tokenize(c.input))
		})
	}
}
