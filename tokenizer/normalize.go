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
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/registry"
	"golang.org/x/text/unicode/norm"
)

// NFCFilterName is the bleve token filter composing terms to Unicode normalization form C. Lowercasing tokenizers
// run it first so that precomposed and decomposed spellings produce the same term.
const NFCFilterName = "docmapper_nfc"

type nfcFilter struct{}

func (nfcFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	for _, tok := range input {
		if !norm.NFC.IsNormal(tok.Term) {
			tok.Term = norm.NFC.Bytes(tok.Term)
		}
	}
	return input
}

func nfcFilterConstructor(map[string]interface{}, *registry.Cache) (analysis.TokenFilter, error) {
	return nfcFilter{}, nil
}

func init() {
	registry.RegisterTokenFilter(NFCFilterName, nfcFilterConstructor)
}
