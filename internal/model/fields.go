package model

import (
	"fmt"
	"slices"
	"strings"
)

// setField assigns v to *cur and records the change, returning false when unchanged
func setField[T comparable](log *ChangeLog, field string, cur *T, v T, actx AuditContext) bool {
	if *cur == v {
		return false
	}
	old := *cur
	*cur = v
	log.record(field, fmt.Sprint(old), fmt.Sprint(v), actx)
	return true
}

// idSet is a sorted set of IDs
type idSet []ID

func (s idSet) contains(id ID) bool {
	_, found := slices.BinarySearchFunc(s, id, Compare)
	return found
}

func (s *idSet) add(id ID) bool {
	i, found := slices.BinarySearchFunc(*s, id, Compare)
	if found {
		return false
	}
	*s = slices.Insert(*s, i, id)
	return true
}

func (s *idSet) remove(id ID) bool {
	i, found := slices.BinarySearchFunc(*s, id, Compare)
	if !found {
		return false
	}
	*s = slices.Delete(*s, i, i+1)
	return true
}

// tagSet is a sorted set of lower-cased tags
type tagSet []string

// NormalizeTag is the stored form of a tag
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func (s tagSet) contains(tag string) bool {
	_, found := slices.BinarySearch(s, NormalizeTag(tag))
	return found
}

func (s *tagSet) add(tag string) bool {
	tag = NormalizeTag(tag)
	if tag == "" {
		return false
	}
	i, found := slices.BinarySearch(*s, tag)
	if found {
		return false
	}
	*s = slices.Insert(*s, i, tag)
	return true
}

func (s *tagSet) remove(tag string) bool {
	i, found := slices.BinarySearch(*s, NormalizeTag(tag))
	if !found {
		return false
	}
	*s = slices.Delete(*s, i, i+1)
	return true
}

// taggable is embedded by entities that carry tags
type taggable struct {
	tags tagSet
}

// Tags returns the entity's tags in sorted order
func (t *taggable) Tags() []string {
	return slices.Clone(t.tags)
}

// HasTag reports whether the tag is present
func (t *taggable) HasTag(tag string) bool {
	return t.tags.contains(tag)
}

func (t *taggable) addTag(log *ChangeLog, tag string, actx AuditContext) bool {
	if !t.tags.add(tag) {
		return false
	}
	log.record("tags", "", NormalizeTag(tag), actx)
	return true
}

func (t *taggable) removeTag(log *ChangeLog, tag string, actx AuditContext) bool {
	if !t.tags.remove(tag) {
		return false
	}
	log.record("tags", NormalizeTag(tag), "", actx)
	return true
}
