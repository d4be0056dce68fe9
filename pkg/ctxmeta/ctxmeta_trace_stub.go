//go:build !otel || gopls

package ctxmeta

import "context"

// Сборка без тега `otel`: trace/span в метаданных отсутствуют.
func TraceIDFromContext(context.Context) (string, bool) { return "", false }
func SpanIDFromContext(context.Context) (string, bool)  { return "", false }
