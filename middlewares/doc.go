// Package middlewares provides net/http middleware used around the
// authentication routes.
//
//   - RequestID: reuses or generates a request ID, stores it in the context
//     and echoes it in X-Request-ID; RequestIDExtractor adds it to logs
//   - Recover: logs panics with a stack trace and answers 500
//
// Example:
//
//	r := chi.NewRouter()
//	r.Use(middlewares.RequestID(), middlewares.Recover(log))
package middlewares
