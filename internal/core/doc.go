// Package core provides the business logic behind the toolbox modules.
//
// This package orchestrates the domain packages (lyrics, societary, table,
// tableio) against per-browser session state, independent of any UI or
// transport layer. It is used by the HTML handlers, the JSON API and tests
// without modification.
//
// # Architecture
//
// The package is organized around three concepts:
//
//   - Module Registry: Each tool registers a [ModuleDefinition] at init time
//     (see package core/modules); the UI shell builds its sidebar from [All].
//   - Service: The entry point for every operation. Methods take the caller's
//     *session.Session, whose lock the caller holds for the whole request.
//   - Upload Limiter: Parsing uploaded files is bounded by [UploadLimiter] so
//     a burst of large workbooks cannot exhaust memory.
//
// # Module Registry
//
// Modules are registered at init time using [Register]:
//
//	core.Register(core.ModuleDefinition{
//	    Info: core.ModuleInfo{Key: "excel", Label: "Excel Editor", Order: 30},
//	    Help: []string{"Upload .csv, .xlsx or .xlsm files."},
//	})
//
// # Dataset History
//
// Every change the Service applies to a dataset is appended to the dataset's
// history with the client IP taken from the request context
// ([ContextWithIPAddress]) and logged with the request's logger.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - NET001-NET004: Lyrics service errors (timeout, connection, status, body)
//   - JSON001-JSON002: Registry JSON errors
//   - COL001-COL002, DUP001-DUP002: Column and duplicate name errors
//   - DS001-DS006: Session state errors (missing dataset, nothing loaded)
//   - VAL001-VAL009: Input validation errors
//   - FILE001-FILE007: File errors (size, type, encoding, sheets)
//   - UPL001, REQ001-REQ002, RATE001: Request errors
//   - ERR000: Fallback "Operation failed"
package core
