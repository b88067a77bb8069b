package spin

import (
	"errors"
	"fmt"
	"math"
)

const (
	MinNumber = 0
	MaxNumber = 999
)

var (
	ErrOutOfRange = errors.New("spin number must be in range from 0 to 999 (inclusive)")
	ErrNotInteger = errors.New("spin number must be integer")
)

// ValidateNumber проверяет число из внешнего ввода: сначала диапазон, потом целочисленность
func ValidateNumber(v float64) (int, error) {
	if v < MinNumber || v > MaxNumber {
		return 0, fmt.Errorf("%w: %v", ErrOutOfRange, v)
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: %v", ErrNotInteger, v)
	}
	return int(v), nil
}

// DivideToThreeDigits раскладывает число на три цифры с ведущими нулями: 7 -> [0 0 7]
func DivideToThreeDigits(number int) [ReelCount]int {
	return [ReelCount]int{
		number / 100 % 10,
		number / 10 % 10,
		number % 10,
	}
}
