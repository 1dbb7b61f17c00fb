// Package skiplist provides a sorted multi-map that keeps duplicate keys in insertion order.
package skiplist

import (
	"math/rand"
)

const (
	MaxLevel    = 16
	Probability = 0.5
)

// Node represents a node in the skip list
type Node[K any, V comparable] struct {
	Key     K
	Value   V
	Forward []*Node[K, V]
}

// SkipList is a probabilistic ordered structure. Equal keys are allowed; a new
// entry is placed after every entry with an equal key.
type SkipList[K any, V comparable] struct {
	head  *Node[K, V]
	cmp   func(a, b K) int
	level int
	size  int
}

// New creates a skip list ordered by cmp
func New[K any, V comparable](cmp func(a, b K) int) *SkipList[K, V] {
	return &SkipList[K, V]{
		head: &Node[K, V]{Forward: make([]*Node[K, V], MaxLevel)},
		cmp:  cmp,
	}
}

// randomLevel generates a random level for a new node
func (sl *SkipList[K, V]) randomLevel() int {
	level := 0
	for rand.Float64() < Probability && level < MaxLevel-1 {
		level++
	}
	return level
}

// Insert adds a key-value pair after all entries with an equal key
func (sl *SkipList[K, V]) Insert(key K, value V) {
	var update [MaxLevel]*Node[K, V]
	current := sl.head

	// Find the last node with key <= new key on every level
	for i := sl.level; i >= 0; i-- {
		for current.Forward[i] != nil && sl.cmp(current.Forward[i].Key, key) <= 0 {
			current = current.Forward[i]
		}
		update[i] = current
	}

	newLevel := sl.randomLevel()
	if newLevel > sl.level {
		for i := sl.level + 1; i <= newLevel; i++ {
			update[i] = sl.head
		}
		sl.level = newLevel
	}

	node := &Node[K, V]{
		Key:     key,
		Value:   value,
		Forward: make([]*Node[K, V], newLevel+1),
	}
	for i := 0; i <= newLevel; i++ {
		node.Forward[i] = update[i].Forward[i]
		update[i].Forward[i] = node
	}

	sl.size++
}

// seek fills update with the last node whose key is < key on every level
func (sl *SkipList[K, V]) seek(key K, update *[MaxLevel]*Node[K, V]) *Node[K, V] {
	current := sl.head
	for i := sl.level; i >= 0; i-- {
		for current.Forward[i] != nil && sl.cmp(current.Forward[i].Key, key) < 0 {
			current = current.Forward[i]
		}
		if update != nil {
			update[i] = current
		}
	}
	return current.Forward[0]
}

// Delete removes the first entry with an equal key whose value equals value
func (sl *SkipList[K, V]) Delete(key K, value V) bool {
	var update [MaxLevel]*Node[K, V]
	target := sl.seek(key, &update)

	for target != nil && sl.cmp(target.Key, key) == 0 && target.Value != value {
		target = target.Forward[0]
	}
	if target == nil || sl.cmp(target.Key, key) != 0 {
		return false
	}

	// Walk each level of the target's tower through the equal-key run
	for i := 0; i < len(target.Forward); i++ {
		prev := update[i]
		for prev.Forward[i] != target {
			prev = prev.Forward[i]
		}
		prev.Forward[i] = target.Forward[i]
	}

	for sl.level > 0 && sl.head.Forward[sl.level] == nil {
		sl.level--
	}

	sl.size--
	return true
}

// Contains reports whether an entry with an equal key holds value
func (sl *SkipList[K, V]) Contains(key K, value V) bool {
	for n := sl.seek(key, nil); n != nil && sl.cmp(n.Key, key) == 0; n = n.Forward[0] {
		if n.Value == value {
			return true
		}
	}
	return false
}

// Len returns the number of entries in the skip list
func (sl *SkipList[K, V]) Len() int {
	return sl.size
}

// Iterator returns an iterator positioned before the first entry
func (sl *SkipList[K, V]) Iterator() *Iterator[K, V] {
	return &Iterator[K, V]{current: sl.head}
}

// Seek returns an iterator positioned before the first entry with key >= key
func (sl *SkipList[K, V]) Seek(key K) *Iterator[K, V] {
	current := sl.head
	for i := sl.level; i >= 0; i-- {
		for current.Forward[i] != nil && sl.cmp(current.Forward[i].Key, key) < 0 {
			current = current.Forward[i]
		}
	}
	return &Iterator[K, V]{current: current}
}

// Iterator iterates over skip list entries in key order
type Iterator[K any, V comparable] struct {
	current *Node[K, V]
}

// Next moves to the next element
func (it *Iterator[K, V]) Next() bool {
	if it.current == nil {
		return false
	}
	it.current = it.current.Forward[0]
	return it.current != nil
}

// Key returns the current key
func (it *Iterator[K, V]) Key() K {
	if it.current == nil {
		var zero K
		return zero
	}
	return it.current.Key
}

// Value returns the current value
func (it *Iterator[K, V]) Value() V {
	if it.current == nil {
		var zero V
		return zero
	}
	return it.current.Value
}
