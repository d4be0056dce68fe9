package domain

// Stage — этап обработки, на котором произошла ошибка.
type Stage string

const (
	StageValidate  Stage = "validate"
	StageDiscount  Stage = "discount"
	StageCharge    Stage = "charge"
	StagePersist   Stage = "persist"
	StageNotify    Stage = "notify"
	StageAnalytics Stage = "analytics"
	StageBackup    Stage = "backup"
)

// ErrorKind — классификация ошибки для внешнего потребителя результата.
type ErrorKind string

const (
	KindInvalidOrder       ErrorKind = "invalid_order"
	KindInvalidPolicy      ErrorKind = "invalid_policy_configuration"
	KindPaymentDeclined    ErrorKind = "payment_declined"
	KindGatewayUnavailable ErrorKind = "payment_gateway_unavailable"
	KindPersistence        ErrorKind = "persistence"
	KindReconciliation     ErrorKind = "reconciliation"
	KindNotification       ErrorKind = "notification"
	KindAnalytics          ErrorKind = "analytics"
	KindBackup             ErrorKind = "backup"
)

// StageError — одна ошибка одного этапа.
type StageError struct {
	Stage   Stage     `json:"stage"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// ProcessResult — итог обработки одного заказа.
// Errors содержит как фатальную ошибку (если обработка прервана),
// так и нефатальные ошибки этапов после записи заказа.
type ProcessResult struct {
	OrderUID      string       `json:"order_uid"`
	Status        Status       `json:"status"`
	TransactionID string       `json:"transaction_id,omitempty"`
	Errors        []StageError `json:"errors,omitempty"`
}

// AddError — добавить ошибку этапа.
func (r *ProcessResult) AddError(stage Stage, kind ErrorKind, message string) {
	r.Errors = append(r.Errors, StageError{Stage: stage, Kind: kind, Message: message})
}

// HasErrorKind — есть ли среди ошибок результат указанного вида.
func (r *ProcessResult) HasErrorKind(kind ErrorKind) bool {
	for _, e := range r.Errors {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// AnalyticsEvent — событие для трекера аналитики.
type AnalyticsEvent struct {
	Name       string `json:"event"`
	OrderUID   string `json:"order_uid"`
	CustomerID string `json:"customer_id"`
	Value      string `json:"value,omitempty"` // сумма заказа строкой, без плавающей точки
}
