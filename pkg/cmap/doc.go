// Package cmap provides a concurrent map split into independently locked
// shards.
//
//	m := cmap.New[string, *domain.Session]()
//	m.SetIfAbsent(hash, s)
//	s, ok := m.Get(hash)
//
// Point operations lock a single shard. Range and Count visit the shards one
// at a time, so they observe each shard consistently but not the whole map.
package cmap
