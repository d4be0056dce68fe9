// Пакет ctxmeta — нейтральный слой для метаданных обработки, которые
// прокидываются через context.Context (request_id, order_uid, trace_id).
// HTTP-слой, конвейер и логгер зависят от небольшого общего пакета,
// но не друг от друга.
package ctxmeta

import "context"

type ctxKey string

const (
	// Ключи контекста (собственный тип — чтобы избежать коллизий).
	KeyRequestID ctxKey = "request_id"
	KeyOrderUID  ctxKey = "order_uid"
)

// WithRequestID кладёт request_id в контекст (если пусто — ничего не делает).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withValue(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return fromContext(ctx, KeyRequestID)
}

// WithOrderUID кладёт order_uid обрабатываемого заказа в контекст.
// Конвейер выставляет его после валидации, логи ниже по стеку
// привязываются к заказу без прокидывания UID через аргументы.
func WithOrderUID(ctx context.Context, orderUID string) context.Context {
	return withValue(ctx, KeyOrderUID, orderUID)
}

// OrderUIDFromContext достаёт order_uid из контекста.
func OrderUIDFromContext(ctx context.Context) (string, bool) {
	return fromContext(ctx, KeyOrderUID)
}

// Pairs — все заполненные метаданные контекста как плоский список
// key1, val1, key2, val2 (формат zap.SugaredLogger.With).
func Pairs(ctx context.Context) []any {
	var kv []any
	if rid, ok := RequestIDFromContext(ctx); ok {
		kv = append(kv, "request_id", rid)
	}
	if uid, ok := OrderUIDFromContext(ctx); ok {
		kv = append(kv, "order_uid", uid)
	}
	if tr, ok := TraceIDFromContext(ctx); ok {
		kv = append(kv, "trace_id", tr)
	}
	if sp, ok := SpanIDFromContext(ctx); ok {
		kv = append(kv, "span_id", sp)
	}
	return kv
}

func withValue(ctx context.Context, key ctxKey, value string) context.Context {
	if ctx == nil || value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func fromContext(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
