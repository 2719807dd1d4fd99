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
	"github.com/uber-go/tally"
)

var (
	CompileOkCount    tally.Scope = tally.NoopScope
	CompileErrorCount tally.Scope = tally.NoopScope
	CompileRespTime   tally.Scope = tally.NoopScope
	CompileCache      tally.Scope = tally.NoopScope
)

func getCompileOkTagKeys() []string {
	return []string{
		"index_id",
		"source",
	}
}

func getCompileTimerTagKeys() []string {
	return []string{
		"source",
	}
}

func getCompileErrorTagKeys() []string {
	return []string{
		"index_id",
		"source",
		"error_kind",
		"error_reason",
	}
}

func initializeCompileScopes() {
	CompileOkCount = CompileMetrics.SubScope("count")
	CompileErrorCount = CompileMetrics.SubScope("count")
	CompileRespTime = CompileMetrics.SubScope("response")
	CompileCache = CompileMetrics.SubScope("cache")
}

// GetCompileTags returns the base tags of a compilation. Source is the input format the document was read from.
func GetCompileTags(indexID string, source string) map[string]string {
	return map[string]string{
		"index_id": indexID,
		"source":   source,
	}
}

func GetCompileOkTags(tags map[string]string) map[string]string {
	return standardizeTags(tags, getCompileOkTagKeys())
}

func GetCompileErrorTags(tags map[string]string, err error) map[string]string {
	return standardizeTags(mergeTags(tags, getTagsForError(err)), getCompileErrorTagKeys())
}

func GetCompileTimerTags(tags map[string]string) map[string]string {
	return standardizeTags(tags, getCompileTimerTagKeys())
}

// CountCompile records the outcome of a single compilation.
func CountCompile(tags map[string]string, err error) {
	if err != nil {
		CompileErrorCount.Tagged(GetCompileErrorTags(tags, err)).Counter("error").Inc(1)
		return
	}
	CompileOkCount.Tagged(GetCompileOkTags(tags)).Counter("ok").Inc(1)
}

// StartCompileTimer starts the compile latency timer, the caller must Stop the returned stopwatch.
func StartCompileTimer(tags map[string]string) tally.Stopwatch {
	return CompileRespTime.Tagged(GetCompileTimerTags(tags)).Timer("time").Start()
}

// CountCacheLookup records a compiled configuration cache hit or miss.
func CountCacheLookup(hit bool) {
	if hit {
		CompileCache.Counter("hit").Inc(1)
	} else {
		CompileCache.Counter("miss").Inc(1)
	}
}
