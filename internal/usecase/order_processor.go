package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/Gunvolt24/wb_l2/internal/ports"
	"github.com/Gunvolt24/wb_l2/pkg/ctxmeta"
	"github.com/Gunvolt24/wb_l2/pkg/metrics"
	"github.com/Gunvolt24/wb_l2/pkg/validate"
)

// OrderProcessor — прикладная логика проведения заказа (без знаний о транспорте).
// Все зависимости — абстракции из ports; конкретные реализации выбираются
// при сборке приложения. Процессор не хранит состояние между вызовами,
// поэтому один экземпляр безопасно использовать из нескольких горутин.
type OrderProcessor struct {
	discount  ports.DiscountPolicy
	gateway   ports.PaymentGateway
	repo      ports.OrderRepository
	notifier  ports.NotificationService
	analytics ports.AnalyticsTracker
	backup    ports.BackupService
	validator ports.OrderValidator
	cache     ports.OrderCache
	log       ports.Logger

	// defaultMethod применяется, когда заказ пришёл без способа оплаты.
	defaultMethod string
}

// Deps — зависимости процессора. Discount, Gateway, Repo, Validator и Log
// обязательны; Notifier, Analytics, Backup и Cache опциональны —
// соответствующий этап пропускается, если зависимость не задана.
type Deps struct {
	Discount  ports.DiscountPolicy
	Gateway   ports.PaymentGateway
	Repo      ports.OrderRepository
	Notifier  ports.NotificationService
	Analytics ports.AnalyticsTracker
	Backup    ports.BackupService
	Validator ports.OrderValidator
	Cache     ports.OrderCache
	Log       ports.Logger

	DefaultMethod string
}

// NewOrderProcessor — DI-конструктор.
func NewOrderProcessor(d Deps) (*OrderProcessor, error) {
	switch {
	case d.Discount == nil:
		return nil, errors.New("order processor: discount policy is required")
	case d.Gateway == nil:
		return nil, errors.New("order processor: payment gateway is required")
	case d.Repo == nil:
		return nil, errors.New("order processor: repository is required")
	case d.Validator == nil:
		return nil, errors.New("order processor: validator is required")
	case d.Log == nil:
		return nil, errors.New("order processor: logger is required")
	}

	method := d.DefaultMethod
	if method == "" {
		method = domain.MethodCreditCard
	}
	if !domain.KnownPaymentMethod(method) {
		return nil, fmt.Errorf("order processor: unknown default payment method %q", method)
	}

	return &OrderProcessor{
		discount:      d.Discount,
		gateway:       d.Gateway,
		repo:          d.Repo,
		notifier:      d.Notifier,
		analytics:     d.Analytics,
		backup:        d.Backup,
		validator:     d.Validator,
		cache:         d.Cache,
		log:           d.Log,
		defaultMethod: method,
	}, nil
}

// Process — провести заказ через весь конвейер:
// pending → priced → discounted → paid → recorded → completed.
//
// Ошибки до списания средств (валидация, конфигурация скидки, отказ или
// недоступность шлюза) прерывают обработку: заказ переводится в failed,
// ничего не сохраняется и не отправляется. Ошибки после списания
// (уведомление, аналитика, бэкап) не фатальны: они накапливаются в
// result.Errors, а заказ достигает completed. Сбой записи в БД после
// успешного списания — особый случай: возвращается ErrReconciliation
// с transaction_id в результате, чтобы оператор мог провести сверку.
//
// Process мутирует только переданный заказ; сам процессор состояния не имеет.
func (p *OrderProcessor) Process(ctx context.Context, order *domain.Order) (*domain.ProcessResult, error) {
	result := &domain.ProcessResult{Status: domain.StatusFailed}
	if order != nil {
		result.OrderUID = order.OrderUID
	}

	// 1) Валидация. До неё заказ не трогаем.
	if err := p.validator.Validate(ctx, order); err != nil {
		p.log.Warnf(ctx, "validation failed order_uid=%s err=%v", result.OrderUID, err)
		return p.abort(order, result, domain.StageValidate, domain.KindInvalidOrder, err)
	}
	// Дальше все логи конвейера привязаны к заказу через контекст.
	ctx = ctxmeta.WithOrderUID(ctx, order.OrderUID)
	if order.Status == "" {
		order.Status = domain.StatusPending
	}

	// 2) Подытог: total = сумма позиций, скидки ещё нет.
	subtotal := order.Subtotal()
	order.Total = subtotal
	if err := order.AdvanceTo(domain.StatusPriced); err != nil {
		return p.abort(order, result, domain.StageValidate, domain.KindInvalidOrder, err)
	}

	// 3) Скидка. Некорректная конфигурация политики — ошибка до оплаты.
	discount, err := p.discount.Apply(ctx, order)
	if err != nil {
		p.log.Errorf(ctx, "discount policy failed order_uid=%s err=%v", order.OrderUID, err)
		return p.abort(order, result, domain.StageDiscount, domain.KindInvalidPolicy, err)
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	order.Discount = discount
	order.Total = subtotal.Sub(discount)
	if err := order.AdvanceTo(domain.StatusDiscounted); err != nil {
		return p.abort(order, result, domain.StageDiscount, domain.KindInvalidPolicy, err)
	}

	// 4) Списание. Метод из заказа либо дефолтный из конфигурации.
	if order.PaymentMethod == "" {
		order.PaymentMethod = p.defaultMethod
	}
	payment, err := p.gateway.Charge(ctx, domain.ChargeRequest{
		OrderUID:   order.OrderUID,
		CustomerID: order.CustomerID,
		Method:     order.PaymentMethod,
		Amount:     order.Total,
	})
	if err != nil {
		kind := domain.KindGatewayUnavailable
		if errors.Is(err, domain.ErrPaymentDeclined) {
			kind = domain.KindPaymentDeclined
		}
		p.log.Warnf(ctx, "charge failed order_uid=%s method=%s err=%v", order.OrderUID, order.PaymentMethod, err)
		return p.abort(order, result, domain.StageCharge, kind, err)
	}
	order.TransactionID = payment.TransactionID
	result.TransactionID = payment.TransactionID
	if err := order.AdvanceTo(domain.StatusPaid); err != nil {
		return p.abort(order, result, domain.StageCharge, domain.KindInvalidOrder, err)
	}
	p.log.Infof(ctx, "payment captured order_uid=%s tx=%s amount=%s", order.OrderUID, payment.TransactionID, order.Total)

	// 5) Запись. Сбой здесь — деньги списаны, заказа в БД нет: сверка.
	if err := p.repo.Save(ctx, order); err != nil {
		p.log.Errorf(ctx, "save after capture failed order_uid=%s tx=%s err=%v", order.OrderUID, payment.TransactionID, err)
		reconErr := fmt.Errorf("%w: order %s tx %s: %v", domain.ErrReconciliation, order.OrderUID, payment.TransactionID, err)
		return p.abort(order, result, domain.StagePersist, domain.KindReconciliation, reconErr)
	}
	if err := order.AdvanceTo(domain.StatusRecorded); err != nil {
		return p.abort(order, result, domain.StagePersist, domain.KindPersistence, err)
	}

	// 6) Этапы после записи: нефатальные, но каждый сбой виден в результате.
	p.notify(ctx, order, result)
	p.track(ctx, order, result)
	p.writeBackup(ctx, order, result)

	if err := order.AdvanceTo(domain.StatusCompleted); err != nil {
		return p.abort(order, result, domain.StagePersist, domain.KindPersistence, err)
	}
	result.Status = order.Status

	// Кэш обновляем уже завершённым заказом.
	if p.cache != nil {
		if setErr := p.cache.Set(ctx, order); setErr != nil {
			p.log.Warnf(ctx, "cache.Set failed order_uid=%s err=%v", order.OrderUID, setErr)
		}
	}

	p.log.Infof(ctx, "order completed uid=%s total=%s discount=%s post_errors=%d",
		order.OrderUID, order.Total, order.Discount, len(result.Errors))
	return result, nil
}

// abort — перевести заказ в failed и вернуть результат с фатальной ошибкой этапа.
func (p *OrderProcessor) abort(order *domain.Order, result *domain.ProcessResult,
	stage domain.Stage, kind domain.ErrorKind, err error,
) (*domain.ProcessResult, error) {
	if order != nil {
		order.Fail()
		result.Status = order.Status
	}
	result.AddError(stage, kind, err.Error())
	metrics.OrdersFailed.WithLabelValues(string(stage)).Inc()
	metrics.StageErrors.WithLabelValues(string(stage), string(kind)).Inc()
	return result, err
}

// notify — подтверждение клиенту. Этап пропускается без notifier.
func (p *OrderProcessor) notify(ctx context.Context, order *domain.Order, result *domain.ProcessResult) {
	if p.notifier == nil {
		return
	}
	msg := fmt.Sprintf("Заказ %s подтверждён, сумма %s", order.OrderUID, order.Total.StringFixed(2))
	if err := p.notifier.Notify(ctx, order.CustomerID, msg); err != nil {
		p.log.Warnf(ctx, "notify failed order_uid=%s err=%v", order.OrderUID, err)
		result.AddError(domain.StageNotify, domain.KindNotification, err.Error())
		metrics.StageErrors.WithLabelValues(string(domain.StageNotify), string(domain.KindNotification)).Inc()
	}
}

// track — событие аналитики. Этап пропускается без трекера.
func (p *OrderProcessor) track(ctx context.Context, order *domain.Order, result *domain.ProcessResult) {
	if p.analytics == nil {
		return
	}
	event := domain.AnalyticsEvent{
		Name:       "order_processed",
		OrderUID:   order.OrderUID,
		CustomerID: order.CustomerID,
		Value:      order.Total.StringFixed(2),
	}
	if err := p.analytics.Track(ctx, event); err != nil {
		p.log.Warnf(ctx, "analytics failed order_uid=%s err=%v", order.OrderUID, err)
		result.AddError(domain.StageAnalytics, domain.KindAnalytics, err.Error())
		metrics.StageErrors.WithLabelValues(string(domain.StageAnalytics), string(domain.KindAnalytics)).Inc()
	}
}

// writeBackup — долговременная копия записи. Этап пропускается без бэкапа.
func (p *OrderProcessor) writeBackup(ctx context.Context, order *domain.Order, result *domain.ProcessResult) {
	if p.backup == nil {
		return
	}
	if err := p.backup.Backup(ctx, order); err != nil {
		p.log.Warnf(ctx, "backup failed order_uid=%s err=%v", order.OrderUID, err)
		result.AddError(domain.StageBackup, domain.KindBackup, err.Error())
		metrics.StageErrors.WithLabelValues(string(domain.StageBackup), string(domain.KindBackup)).Inc()
	}
}

// ProcessFromMessage — провести заказ, пришедший из Kafka (raw JSON).
// Строгий парсинг и валидация выполняются до любых побочных эффектов:
// битый JSON и невалидный заказ возвращают validate.ErrInvalidOrder
// (постоянная ошибка — консьюмер коммитит оффсет без повтора).
func (p *OrderProcessor) ProcessFromMessage(ctx context.Context, raw []byte) (*domain.ProcessResult, error) {
	order, err := validate.OrderFromJSON(ctx, p.validator, raw)
	if err != nil {
		p.log.Warnf(ctx, "message rejected err=%v", err)
		return nil, err
	}
	return p.Process(ctx, order)
}
