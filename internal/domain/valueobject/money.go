package valueobject

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/ledger-engine/internal/pkg/apperror"
)

// DefaultPrecision - количество знаков после запятой в суммах системы.
const DefaultPrecision int32 = 4

// Amount хранит денежную сумму как целое число минимальных единиц
// (сумма * 10^precision). Знаковое: доступный остаток может уйти в минус
// при оспаривании депозита.
type Amount int64

// ParseAmount переводит десятичную строку в Amount с заданной точностью.
// Лишние знаки отбрасываются, без округления.
func ParseAmount(raw string, precision int32) (Amount, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperror.New(apperror.ErrCodeValidation, "сумма не указана")
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeValidation, fmt.Sprintf("некорректная сумма %q", raw))
	}

	scaled := d.Shift(precision).Truncate(0)
	if scaled.Abs().GreaterThan(decimal.NewFromInt(maxAmount)) {
		return 0, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("сумма %q вне допустимого диапазона", raw))
	}

	return Amount(scaled.IntPart()), nil
}

// maxAmount ограничивает одну разобранную сумму. Переполнение при
// накоплении остатков отсекают Add и Sub.
const maxAmount = int64(1) << 62

// Add возвращает a + b или ErrAmountOverflow, если результат не помещается в int64.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, fmt.Errorf("%w: %s + %s", apperror.ErrAmountOverflow, a, b)
	}
	return sum, nil
}

// Sub возвращает a - b или ErrAmountOverflow, если результат не помещается в int64.
func (a Amount) Sub(b Amount) (Amount, error) {
	diff := a - b
	if (b > 0 && diff > a) || (b < 0 && diff < a) {
		return 0, fmt.Errorf("%w: %s - %s", apperror.ErrAmountOverflow, a, b)
	}
	return diff, nil
}

// Decimal возвращает сумму в виде десятичного числа.
func (a Amount) Decimal(precision int32) decimal.Decimal {
	return decimal.New(int64(a), -precision)
}

// Format выводит сумму ровно с precision знаками после запятой.
func (a Amount) Format(precision int32) string {
	return a.Decimal(precision).StringFixed(precision)
}

func (a Amount) IsPositive() bool {
	return a > 0
}

func (a Amount) String() string {
	return a.Format(DefaultPrecision)
}
