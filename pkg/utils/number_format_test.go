package utils

import "testing"

// TestFormatNumber 测试数字格式化
func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		pattern  string
		expected string
	}{
		{"补零两位小数", 5, "00.00", "05.00"},
		{"整数模式四舍五入", 59.7, "00", "60"},
		{"三位整数", 7, "000", "007"},
		{"超过最少位数", 123.456, "00.0", "123.5"},
		{"井号小数位", 1.5, "0.##", "1.5"},
		{"井号小数位去掉小数点", 2, "0.##", "2"},
		{"井号小数位四舍五入", 1.257, "0.##", "1.26"},
		{"必选加可选小数位", 1.2, "0.0#", "1.2"},
		{"必选小数位保留零", 1, "0.0#", "1.0"},
		{"负数", -3.14, "0.0", "-3.1"},
		{"负数舍入为零", -0.01, "0.0", "0.0"},
		{"空模式", 2.75, "", "2.75"},
		{"零", 0, "00.00", "00.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatNumber(tt.value, tt.pattern)
			if result != tt.expected {
				t.Errorf("FormatNumber(%v, %q) = %q, 期望 %q", tt.value, tt.pattern, result, tt.expected)
			}
		})
	}
}
