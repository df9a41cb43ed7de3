// Package newsarc harvests news-archive articles at scale. It walks
// paginated sitemap indexes to discover article URLs, fetches rendered
// HTML through an external rendering backend, extracts normalized article
// records, and persists them with resumable progress tracking so that a
// multi-million-item harvest survives crashes and restarts.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, trafilatura/, sqlite/).
package newsarc
