// Package alias captures property navigation on stand-in objects as typed
// paths.
//
// A Factory owns the process-wide caches; each caller opens its own Session,
// which holds the "current expression" slot for that caller only:
//
//	f := alias.NewFactory()
//	s := f.NewSession()
//	cat := s.CreateRootAlias(catEntity, "cat")
//	mate := cat.MustChild("mate")
//	mate.MustField("name")        // s.Current() is now cat.mate.name
//
// Key constraints:
//   - Root nodes are computed once per (entity, variable) and shared by all
//     sessions
//   - The stand-in to path table is a non-owning back-reference: it never
//     keeps a stand-in alive and entries are purged once it is collected
//   - A Session is not safe for concurrent use; open one per goroutine
package alias
