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

package schema

import (
	"strings"

	"github.com/tigrisdata/docmapper/util"
)

const ObjFlattenDelimiter = util.ObjFlattenDelimiter

type ReservedField uint8

const (
	Source ReservedField = iota
	Dynamic
	FieldPresence
	Timestamp
)

var ReservedFields = [...]string{
	Source:        "_source",
	Dynamic:       "_dynamic",
	FieldPresence: "_field_presence",
	Timestamp:     "_timestamp",
}

// InternalFieldPrefix is reserved for engine generated fields.
const InternalFieldPrefix = "__"

func IsReservedField(name string) bool {
	if strings.HasPrefix(name, InternalFieldPrefix) {
		return true
	}

	for _, r := range ReservedFields {
		if r == name {
			return true
		}
	}

	return false
}
