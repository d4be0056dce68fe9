package domain

import "errors"

// Таксономия ошибок обработки заказа. Ошибки до списания средств прерывают
// обработку целиком; ошибки после — фиксируются по отдельности в ProcessResult
// и никогда не превращаются в ложный признак успеха.
var (
	// ErrInvalidPolicyConfig — политика скидок сконфигурирована некорректно
	// (например, процент вне диапазона [0,100]).
	ErrInvalidPolicyConfig = errors.New("invalid discount policy configuration")

	// ErrPaymentDeclined — платёж отклонён (постоянная ошибка, повтор бессмысленен).
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrGatewayUnavailable — платёжный шлюз недоступен (временная ошибка).
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrPersistence — ошибка сохранения заказа в хранилище.
	ErrPersistence = errors.New("persistence error")

	// ErrReconciliation — платёж списан, но заказ не записан:
	// требуется ручная сверка, ошибку нельзя маскировать под обычный отказ.
	ErrReconciliation = errors.New("payment captured but order not recorded")

	// ErrNotificationFailed — уведомление не доставлено (не фатально для заказа).
	ErrNotificationFailed = errors.New("notification failed")

	// ErrAnalyticsDelivery — событие аналитики не доставлено после всех попыток
	// (не фатально; отличимо от успеха).
	ErrAnalyticsDelivery = errors.New("analytics delivery failed")

	// ErrBackupWrite — резервная копия не записана (не фатально, но видимо оператору).
	ErrBackupWrite = errors.New("backup write failed")
)
