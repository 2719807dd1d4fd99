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

package util

import (
	"fmt"
	"os"
	"strings"
)

// ObjFlattenDelimiter joins the names of an object path, e.g. "attributes.status".
const ObjFlattenDelimiter = "."

// Version of this build.
var Version string

// Service program name used in logging and monitoring.
var Service = "docmapper"

// UnFlatMap nests a map keyed by flattened paths. With ignoreExtra a path crossing a non-map value is dropped
// instead of panicking. Nil values are skipped.
func UnFlatMap(flat map[string]any, ignoreExtra bool) map[string]any {
	result := make(map[string]any)

	for k, v := range flat {
		keys := strings.Split(k, ObjFlattenDelimiter)
		m := result

		skip := false
		for i := 0; i < len(keys)-1; i++ {
			if m[keys[i]] == nil {
				m[keys[i]] = make(map[string]any)
			}

			next, ok := m[keys[i]].(map[string]any)
			if !ok {
				if !ignoreExtra {
					panic(fmt.Sprintf("path '%s' crosses a non object value", k))
				}
				skip = true
				break
			}
			m = next
		}

		if !skip && v != nil {
			m[keys[len(keys)-1]] = v
		}
	}

	return result
}

func PrintError(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "%s\n", err.Error())
}
