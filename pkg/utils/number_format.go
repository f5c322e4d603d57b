package utils

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber 按 "00.00" 风格的模式格式化数字
//
// 规则：
//   - 小数点前 '0' 的个数为整数部分最少位数（不足补零）
//   - 小数点后 '0' 为必保留的小数位，'#' 为可选小数位（末尾的零会去掉）
//   - 舍入位数为 '0' 与 '#' 的总数（四舍五入）
//   - 空模式使用最短表示
//
// 示例：
//
//	FormatNumber(5, "00.00")   // "05.00"
//	FormatNumber(59.7, "00")   // "60"
//	FormatNumber(-3.14, "0.0") // "-3.1"
//	FormatNumber(1.5, "0.##")  // "1.5"
func FormatNumber(value float64, pattern string) string {
	if math.IsNaN(value) {
		return "NaN"
	}
	if pattern == "" {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}

	intPattern, fracPattern, _ := strings.Cut(pattern, ".")
	minIntDigits := strings.Count(intPattern, "0")
	required := strings.Count(fracPattern, "0")
	decimals := required + strings.Count(fracPattern, "#")

	digits := strconv.FormatFloat(math.Abs(value), 'f', decimals, 64)
	intPart, fracPart, hasFrac := strings.Cut(digits, ".")
	if len(intPart) < minIntDigits {
		intPart = strings.Repeat("0", minIntDigits-len(intPart)) + intPart
	}

	for len(fracPart) > required && strings.HasSuffix(fracPart, "0") {
		fracPart = fracPart[:len(fracPart)-1]
	}

	result := intPart
	if hasFrac && fracPart != "" {
		result += "." + fracPart
	}

	// 四舍五入到零时不保留负号
	if value < 0 && strings.Trim(result, "0.") != "" {
		result = "-" + result
	}
	return result
}
