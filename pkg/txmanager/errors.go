package txmanager

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrBegin не удалось открыть транзакцию
	ErrBegin = errors.New("txmanager: failed to begin transaction")

	// ErrCommit не удалось зафиксировать транзакцию
	ErrCommit = errors.New("txmanager: failed to commit transaction")

	// ErrSerializationFailure конфликт сериализации, транзакцию можно повторить целиком
	ErrSerializationFailure = errors.New("txmanager: serialization failure")

	// ErrRetriesExhausted исчерпаны повторы после конфликтов сериализации
	ErrRetriesExhausted = errors.New("txmanager: retries exhausted")

	// ErrTimeout истекло время транзакции
	ErrTimeout = errors.New("txmanager: transaction timeout")
)

const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

// IsSerializationFailure true для ошибок postgres, после которых транзакцию безопасно повторить
func IsSerializationFailure(err error) bool {
	if errors.Is(err, ErrSerializationFailure) {
		return true
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == sqlStateSerializationFailure || pqErr.Code == sqlStateDeadlockDetected
}
