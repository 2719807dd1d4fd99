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

package metrics

import (
	"github.com/tigrisdata/docmapper/errors"
)

const unknownValue = "unknown"

func mergeTags(tagSets ...map[string]string) map[string]string {
	res := make(map[string]string)
	for _, tagSet := range tagSets {
		for k, v := range tagSet {
			if _, ok := res[k]; !ok {
				res[k] = v
			} else {
				if res[k] == unknownValue {
					res[k] = v
				}
			}
		}
	}
	return res
}

// standardizeTags keeps exactly the given keys. Prometheus needs the same label set on every emission of a
// metric, so missing values are reported as "unknown".
func standardizeTags(tags map[string]string, keys []string) map[string]string {
	res := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := tags[k]; ok && v != "" {
			res[k] = v
		} else {
			res[k] = unknownValue
		}
	}
	return res
}

func getTagsForError(err error) map[string]string {
	var e *errors.Error
	if errors.As(err, &e) {
		return map[string]string{
			"error_kind":   e.Kind.String(),
			"error_reason": e.Reason.String(),
		}
	}
	return map[string]string{
		"error_kind":   unknownValue,
		"error_reason": unknownValue,
	}
}
