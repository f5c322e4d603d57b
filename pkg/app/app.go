// Package app 提供计时器演示程序的 ebiten 包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/decker502/mmtimer/internal/watch"
	"github.com/decker502/mmtimer/pkg/components"
	"github.com/decker502/mmtimer/pkg/config"
	"github.com/decker502/mmtimer/pkg/embedded"
	"github.com/decker502/mmtimer/pkg/game"
	"github.com/decker502/mmtimer/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 窗口尺寸
const (
	WindowWidth  = 640
	WindowHeight = 480
)

// AppName gdata 存储使用的应用名
const AppName = "mmtimer"

const maxEventLines = 8

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 计时器配置文件路径，为空则使用嵌入的 data/timers.yaml
	ConfigPath string
	// Profile 快照存档名，为空则使用 game.DefaultProfile
	Profile string
	// Watch 监听配置文件所在目录并热重载（需要 ConfigPath）
	Watch bool
}

// App 实现 ebiten.Game 接口，以固定帧率驱动 TimerWorld
type App struct {
	world     *game.TimerWorld
	snapshots *game.SnapshotManager
	watcher   *watch.Watcher

	configPath string
	profile    string
	verbose    bool

	selected int
	paused   bool
	events   []string
}

// LoadConfig 加载计时器配置，path 为空时读取嵌入配置
func LoadConfig(path string) (*config.TimerConfig, error) {
	if path == "" {
		return config.LoadEmbeddedTimerConfig()
	}
	return config.LoadTimerConfig(path)
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	if cfg.ConfigPath == "" && !embedded.IsInitialized() {
		return nil, fmt.Errorf("embedded data not initialized")
	}

	timerConfig, err := LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("计时器配置加载失败: %w", err)
	}

	world, err := game.NewTimerWorld(timerConfig)
	if err != nil {
		return nil, fmt.Errorf("计时世界创建失败: %w", err)
	}
	world.SetVerbose(cfg.Verbose)

	profile := cfg.Profile
	if profile == "" {
		profile = game.DefaultProfile
	}

	a := &App{
		world:      world,
		snapshots:  game.OpenSnapshotManager(AppName),
		configPath: cfg.ConfigPath,
		profile:    profile,
		verbose:    cfg.Verbose,
	}
	world.OnEvent(a.recordEvent)

	if snap, err := a.snapshots.Load(profile); err == nil {
		world.Restore(snap)
		log.Printf("[App] Restored snapshot %s (profile %s, saved %s)", snap.ID, profile, snap.SavedAt.Format("2006-01-02 15:04:05"))
	} else {
		log.Printf("[App] No snapshot restored: %v", err)
	}

	if cfg.Watch {
		if cfg.ConfigPath == "" {
			log.Printf("[App] --watch ignored: no config file given")
		} else {
			dir := filepath.Dir(cfg.ConfigPath)
			watcher, err := watch.NewWatcher(dir)
			if err != nil {
				return nil, fmt.Errorf("配置监听失败: %w", err)
			}
			a.watcher = watcher
			log.Printf("[App] Watching %s for config changes", dir)
		}
	}

	return a, nil
}

// Update 更新逻辑
// 每个 tick 调用一次，tick 频率由 TimerConfig.TickRate 决定
func (a *App) Update() error {
	a.pollWatcher()
	a.handleInput()

	if !a.paused {
		a.world.Tick(a.world.Config().TickInterval())
	}
	return nil
}

func (a *App) pollWatcher() {
	if a.watcher == nil {
		return
	}
	for {
		path, ok := a.watcher.Poll()
		if !ok {
			break
		}
		log.Printf("[App] Config changed: %s", path)
		cfg, err := config.LoadTimerConfig(a.configPath)
		if err != nil {
			log.Printf("[App] Reload skipped: %v", err)
			continue
		}
		if err := a.world.Reload(cfg); err != nil {
			log.Printf("[App] Reload failed: %v", err)
			continue
		}
		ebiten.SetTPS(cfg.TickRate)
		a.pushEvent(fmt.Sprintf("[%.2f] config reloaded", a.world.Now()))
	}

	select {
	case err, ok := <-a.watcher.Errors:
		if ok {
			log.Printf("[App] Watcher error: %v", err)
		}
	default:
	}
}

// handleInput 键位：
//   - Up/Down 选择冷却量表，按住 Space 消耗，松开停止
//   - S 开始/暂停全部倒计时，R 重置全部倒计时
//   - 1/2/3 扣减生命/食物/水，Shift+数字 恢复
//   - P 暂停世界，F5 保存快照
func (a *App) handleInput() {
	names := a.world.CooldownNames()
	if len(names) > 0 {
		if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
			a.selected = (a.selected + 1) % len(names)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
			a.selected = (a.selected + len(names) - 1) % len(names)
		}
		if a.selected >= len(names) {
			a.selected = 0
		}

		name := names[a.selected]
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			a.startCooldown(name)
		}
		if inpututil.IsKeyJustReleased(ebiten.KeySpace) {
			_, err := a.world.StopCooldown(name)
			a.report("stop "+name, err)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		a.toggleCountdowns()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.resetCountdowns()
	}

	step := -10.0
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		step = 10
	}
	for key, resource := range map[ebiten.Key]string{
		ebiten.KeyDigit1: components.ResourceHealth,
		ebiten.KeyDigit2: components.ResourceFood,
		ebiten.KeyDigit3: components.ResourceWater,
	} {
		if inpututil.IsKeyJustPressed(key) {
			a.adjustResource(resource, step)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := a.Save(); err != nil {
			a.pushEvent(fmt.Sprintf("save failed: %v", err))
		} else {
			a.pushEvent(fmt.Sprintf("[%.2f] snapshot saved (%s)", a.world.Now(), a.profile))
		}
	}
}

func (a *App) startCooldown(name string) {
	r, err := a.world.StartCooldown(name)
	if a.report("start "+name, err) {
		return
	}
	if r == components.ResultIgnored {
		a.pushEvent(fmt.Sprintf("[%.2f] %s: not ready", a.world.Now(), name))
	}
}

// toggleCountdowns 运行中的暂停，暂停中的继续
func (a *App) toggleCountdowns() {
	for _, name := range a.world.CountdownNames() {
		r, err := a.world.StartCountdown(name)
		if a.report("start "+name, err) || r == components.ResultApplied {
			continue
		}
		_, err = a.world.StopCountdown(name)
		a.report("stop "+name, err)
	}
}

func (a *App) resetCountdowns() {
	for _, name := range a.world.CountdownNames() {
		a.report("reset "+name, a.world.ResetCountdown(name))
	}
}

func (a *App) adjustResource(name string, delta float64) {
	_, err := a.world.ApplyResource(name, delta)
	a.report("adjust "+name, err)
}

// report 记录按名称操作的失败（如配置中已删除的资源），返回是否失败
func (a *App) report(op string, err error) bool {
	if err == nil {
		return false
	}
	log.Printf("[App] %s failed: %v", op, err)
	return true
}

func (a *App) recordEvent(e game.Event) {
	// 刷新事件每帧都有，不进入面板
	if e.Kind == game.EventRefreshed {
		return
	}
	a.pushEvent(e.String())
}

func (a *App) pushEvent(line string) {
	a.events = append(a.events, line)
	if len(a.events) > maxEventLines {
		a.events = a.events[len(a.events)-maxEventLines:]
	}
	log.Printf("[Event] %s", line)
}

var (
	barBackground = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	barCooldown   = color.RGBA{R: 80, G: 170, B: 255, A: 255}
	barEmpty      = color.RGBA{R: 230, G: 80, B: 60, A: 255}
	barCountdown  = color.RGBA{R: 250, G: 200, B: 60, A: 255}
	barResource   = color.RGBA{R: 90, G: 200, B: 110, A: 255}
)

// Draw 绘制量表、倒计时、资源与事件面板
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 24, G: 24, B: 32, A: 255})

	status := fmt.Sprintf("t=%.2fs  profile=%s", a.world.Now(), a.profile)
	if a.paused {
		status += "  [PAUSED]"
	}
	ebitenutil.DebugPrintAt(screen, status, 10, 8)

	y := 32
	for i, name := range a.world.CooldownNames() {
		cd, ok := a.world.Cooldown(name)
		if !ok {
			continue
		}
		marker := "  "
		if i == a.selected {
			marker = "> "
		}
		label := fmt.Sprintf("%s%-10s %-12s %.2f/%.2f", marker, name, cd.State, cd.CurrentDurationLeft, cd.ConsumptionDuration)
		if cd.Unlimited {
			label = fmt.Sprintf("%s%-10s unlimited", marker, name)
		}
		ebitenutil.DebugPrintAt(screen, label, 10, y)

		fill := barCooldown
		if cd.State == components.CooldownPauseOnEmpty {
			fill = barEmpty
		}
		drawBar(screen, 340, y+2, systems.CooldownProgress(cd), fill)
		y += 20
	}

	y += 10
	for _, name := range a.world.CountdownNames() {
		cd, ok := a.world.Countdown(name)
		if !ok {
			continue
		}
		state := "stopped"
		if cd.Running {
			state = "running"
		}
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("  %-10s %8s  %s", name, cd.DisplayText, state), 10, y)
		drawBar(screen, 340, y+2, systems.CountdownProgress(cd), barCountdown)
		y += 20
	}

	y += 10
	if group := a.world.Resources(); group != nil {
		for _, name := range a.world.Config().ResourceNames() {
			r, ok := systems.GetResource(group, name)
			if !ok {
				continue
			}
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("  %-10s %6.1f/%.0f", name, r.Current, r.Max), 10, y)
			drawBar(screen, 340, y+2, systems.ResourcePercentage(r), barResource)
			y += 20
		}
	}

	y += 10
	ebitenutil.DebugPrintAt(screen, strings.Join(a.events, "\n"), 10, y)

	ebitenutil.DebugPrintAt(screen,
		"Up/Down select  Space hold  S start/stop  R reset  1/2/3 -res (Shift +)  P pause  F5 save",
		10, WindowHeight-20)
}

func drawBar(screen *ebiten.Image, x, y int, progress float64, fill color.Color) {
	const width, height = 260, 10
	vector.DrawFilledRect(screen, float32(x), float32(y), width, height, barBackground, false)
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(width*progress), height, fill, false)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}

// TickRate 返回当前配置的逻辑帧率
func (a *App) TickRate() int {
	return a.world.Config().TickRate
}

// Save 将当前状态保存到快照存档
func (a *App) Save() error {
	return a.snapshots.Save(a.profile, a.world.Snapshot())
}

// Close 停止配置监听
func (a *App) Close() error {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Close()
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
