// Package models defines domain entities and persistence interfaces for the crosspub publish orchestrator.
//
// The package contains two categories of types:
//
// 1. Status enumerations and pure functions over them:
//   - [TaskStatus] / [EntryStatus] : lifecycle states for tasks and their per-account slices
//   - [SessionMode] / [AutomationPhase] : session and driver outcome metadata
//   - [AggregateStatus] : the reducer mapping entry statuses to a task status
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Account] : a creator identity bound to one platform and one browser profile directory
//   - [PublishTask] : one publish request with shared video metadata
//   - [TaskPlatform] : the per-account slice of a task, tracked independently
//   - [Template] : reusable title/description/tags presets
//
// All persistent entities implement the Model interface providing ID generation, timestamps, and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
