package utils

import (
	"math"
	"strconv"
	"strings"
)

type Formatter struct {
}

// TruncateQuantity cuts a quantity down to the exchange lot step, never
// rounding up. A step exponent of 3 means a step of 0.001.
func (m *Formatter) TruncateQuantity(quantity float64, stepExponent int64) float64 {
	if quantity <= 0.00 {
		return 0.00
	}

	ratio := math.Pow(10, float64(stepExponent))

	return math.Floor(quantity*ratio) / ratio
}

// FloatAsDecimalString renders a number the way the exchange wire expects
// it: fixed precision with trailing zeros (and a trailing dot) stripped.
func (m *Formatter) FloatAsDecimalString(num float64) string {
	formatted := strconv.FormatFloat(num, 'f', 8, 64)
	formatted = strings.TrimRight(formatted, "0")

	return strings.TrimRight(formatted, ".")
}

// StepSizeExponent converts an exchange LOT_SIZE step string into the
// decimal exponent of the step, e.g. "0.00100000" -> 3, "1.00000000" -> 0,
// "10.00000000" -> -1.
func (m *Formatter) StepSizeExponent(stepSize string) int64 {
	oneIndex := strings.Index(stepSize, "1")
	if oneIndex == 0 {
		return int64(1 - strings.Index(stepSize, "."))
	}

	return int64(oneIndex - 1)
}

func (m *Formatter) Round(num float64) int {
	return int(num + math.Copysign(0.5, num))
}

func (m *Formatter) ToFixed(num float64, precision int) float64 {
	output := math.Pow(10, float64(precision))
	return float64(m.Round(num*output)) / output
}
