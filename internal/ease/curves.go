package ease

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Curve функция формы прогресса, отображает [0,1] в [0,1] с f(0)=0 и f(1)=1
type Curve func(x float64) float64

// ErrUnknownCurve кривая с таким именем не зарегистрирована
var ErrUnknownCurve = errors.New("unknown easing curve")

func Linear(x float64) float64 {
	return x
}

func EaseOutQuint(x float64) float64 {
	return 1 - math.Pow(1-x, 5)
}

func EaseOutCubic(x float64) float64 {
	return 1 - math.Pow(1-x, 3)
}

func EaseInOutQuad(x float64) float64 {
	if x < 0.5 {
		return 2 * x * x
	}
	return 1 - math.Pow(-2*x+2, 2)/2
}

var curves = map[string]Curve{
	"linear":        Linear,
	"easeOutQuint":  EaseOutQuint,
	"easeOutCubic":  EaseOutCubic,
	"easeInOutQuad": EaseInOutQuad,
}

// CurveByName возвращает кривую по имени из конфигурации
func CurveByName(name string) (Curve, error) {
	curve, ok := curves[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q, available: %s", ErrUnknownCurve, name, strings.Join(CurveNames(), ", "))
	}
	return curve, nil
}

// CurveNames список доступных кривых
func CurveNames() []string {
	names := make([]string, 0, len(curves))
	for name := range curves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
