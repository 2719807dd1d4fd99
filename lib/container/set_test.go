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

package container

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashSet(t *testing.T) {
	set := NewHashSet("a", "b", "a")
	require.Equal(t, 2, set.Length())
	require.True(t, set.Contains("a"))
	require.False(t, set.Contains("c"))
}

func TestOrderedSet(t *testing.T) {
	set := NewOrderedSet("name", "description")
	require.False(t, set.Insert("name"))
	require.True(t, set.Insert("title"))
	require.Equal(t, 3, set.Length())
	require.Equal(t, []string{"name", "description", "title"}, set.ToList())
	require.True(t, set.Contains("title"))

	require.Nil(t, NewOrderedSet().ToList())
}
