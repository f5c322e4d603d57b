//go:build !mobile

// Package mobile 在桌面构建下只保留 Dummy，
// gomobile 绑定入口见 mobile.go（-tags mobile）。
package mobile

// Dummy 供 gomobile bind 引用包时使用
func Dummy() {}
