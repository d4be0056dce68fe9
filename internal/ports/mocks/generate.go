//go:generate mockgen -source=../order_repository.go     -destination=./mock_order_repository.go     -package=mocks
//go:generate mockgen -source=../order_cache.go          -destination=./mock_order_cache.go          -package=mocks
//go:generate mockgen -source=../validator.go            -destination=./mock_validator.go            -package=mocks
//go:generate mockgen -source=../logger.go               -destination=./mock_logger.go               -package=mocks
//go:generate mockgen -source=../message_consumer.go     -destination=./mock_message_consumer.go     -package=mocks
//go:generate mockgen -source=../discount_policy.go      -destination=./mock_discount_policy.go      -package=mocks
//go:generate mockgen -source=../payment_gateway.go      -destination=./mock_payment_gateway.go      -package=mocks
//go:generate mockgen -source=../notification_service.go -destination=./mock_notification_service.go -package=mocks
//go:generate mockgen -source=../analytics_tracker.go    -destination=./mock_analytics_tracker.go    -package=mocks
//go:generate mockgen -source=../backup_service.go       -destination=./mock_backup_service.go       -package=mocks

package mocks
