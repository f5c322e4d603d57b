package components

// Result 表示一次状态机调用是否生效
// 非法调用（未就绪时 Start、无限模式下 Update 等）不会报错，而是返回 ResultIgnored
type Result int

const (
	// ResultApplied 调用已生效
	ResultApplied Result = iota
	// ResultIgnored 调用被忽略（无副作用）
	ResultIgnored
)

// String 返回结果名称
func (r Result) String() string {
	if r == ResultApplied {
		return "Applied"
	}
	return "Ignored"
}
