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

type HashSet struct {
	stringMap map[string]struct{}
}

func NewHashSet(s ...string) HashSet {
	set := HashSet{
		stringMap: make(map[string]struct{}, len(s)*2),
	}
	for _, ss := range s {
		set.Insert(ss)
	}
	return set
}

func (set *HashSet) Length() int {
	return len(set.stringMap)
}

func (set *HashSet) Insert(s ...string) {
	for _, ss := range s {
		set.stringMap[ss] = struct{}{}
	}
}

func (set *HashSet) Contains(s string) bool {
	_, ok := set.stringMap[s]
	return ok
}

// OrderedSet is a set of strings that remembers the order of first insertion. Re-inserting an existing member is a
// no-op and reports false.
type OrderedSet struct {
	members HashSet
	order   []string
}

func NewOrderedSet(s ...string) *OrderedSet {
	set := &OrderedSet{members: NewHashSet()}
	for _, ss := range s {
		set.Insert(ss)
	}
	return set
}

// Insert adds s and returns true if it was not already a member.
func (set *OrderedSet) Insert(s string) bool {
	if set.members.Contains(s) {
		return false
	}
	set.members.Insert(s)
	set.order = append(set.order, s)
	return true
}

func (set *OrderedSet) Contains(s string) bool {
	return set.members.Contains(s)
}

func (set *OrderedSet) Length() int {
	return len(set.order)
}

// ToList returns a copy of the members in insertion order.
func (set *OrderedSet) ToList() []string {
	if len(set.order) == 0 {
		return nil
	}
	list := make([]string, len(set.order))
	copy(list, set.order)
	return list
}
