// Package script 将楼层配置中的 tengo 脚本编译为回调
//
// 脚本可读取的变量：
//   - timer: 倒计时名称
//   - current_time: 触发时的 CurrentTime
//   - floor_value: 楼层间隔
//
// 内置函数：
//   - log(args...): 以 [Script] 前缀写入日志
package script

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// 允许脚本导入的标准模块
var allowedModules = []string{"math", "text", "times", "fmt"}

// Vars 每次运行时注入的变量
type Vars struct {
	Timer       string
	CurrentTime float64
	FloorValue  float64
}

// Runner 已编译的脚本
// 非并发安全：同一个 Runner 只应由一个倒计时在帧循环中调用
type Runner struct {
	name     string
	compiled *tengo.Compiled
}

// Compile 编译脚本
//
// 参数：
//   - name: 脚本名称（用于日志）
//   - src: 脚本源码
//
// 返回：
//   - *Runner: 可重复运行的脚本
//   - error: 编译失败
func Compile(name, src string) (*Runner, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("script %s: empty source", name)
	}

	s := tengo.NewScript([]byte(src))
	s.SetImports(stdlib.GetModuleMap(allowedModules...))

	_ = s.Add("timer", "")
	_ = s.Add("current_time", 0.0)
	_ = s.Add("floor_value", 0.0)
	_ = s.Add("log", &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		log.Printf("[Script] %s: %s", name, joinObjects(args))
		return tengo.UndefinedValue, nil
	}})

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}

	return &Runner{name: name, compiled: compiled}, nil
}

// Name 返回脚本名称
func (r *Runner) Name() string {
	return r.name
}

// Run 注入变量并运行一次脚本
func (r *Runner) Run(vars Vars) error {
	if r == nil || r.compiled == nil {
		return fmt.Errorf("nil script runner")
	}
	if err := r.compiled.Set("timer", vars.Timer); err != nil {
		return err
	}
	if err := r.compiled.Set("current_time", vars.CurrentTime); err != nil {
		return err
	}
	if err := r.compiled.Set("floor_value", vars.FloorValue); err != nil {
		return err
	}
	if err := r.compiled.Run(); err != nil {
		return fmt.Errorf("script %s: %w", r.name, err)
	}
	return nil
}

// Get 读取脚本中的全局变量，未定义时返回 nil
func (r *Runner) Get(name string) interface{} {
	if r == nil || r.compiled == nil || !r.compiled.IsDefined(name) {
		return nil
	}
	return r.compiled.Get(name).Value()
}

// Callback 返回一个零参数回调，运行错误只记录日志
//
// 参数：
//   - vars: 每次触发时调用，提供最新变量
func (r *Runner) Callback(vars func() Vars) func() {
	return func() {
		var v Vars
		if vars != nil {
			v = vars()
		}
		if err := r.Run(v); err != nil {
			log.Printf("[Script] Error: %v", err)
		}
	}
}

func joinObjects(args []tengo.Object) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		if s, ok := tengo.ToString(arg); ok {
			parts = append(parts, s)
		} else {
			parts = append(parts, arg.String())
		}
	}
	return strings.Join(parts, " ")
}
