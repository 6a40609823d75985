// Package main is a terminal demo host for the indent-guide engine. It
// opens a file in a read-only tcell viewport, feeds the engine the same
// viewport and line callbacks a real editor would, and paints the
// resulting guides over the text.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/indentguide/internal/config"
	"github.com/dshills/indentguide/internal/core"
	"github.com/dshills/indentguide/internal/engine"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

const (
	demoBuffer = core.BufferID(1)
	demoWindow = core.WindowID(1)
)

func main() {
	os.Exit(run())
}

type options struct {
	ConfigPath string
	LuaPath    string
	File       string
}

func run() int {
	opts := parseFlags()

	lines := sampleLines()
	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	}

	notices := &noticeBoard{}

	resolverOpts := []config.ResolverOption{}
	if opts.ConfigPath != "" {
		resolverOpts = append(resolverOpts, config.WithPath(opts.ConfigPath))
	}
	if opts.LuaPath != "" {
		lr, err := config.NewLuaResolver(opts.LuaPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer lr.Close()
		resolverOpts = append(resolverOpts, config.WithBufferFunc(lr.BufferFunc(notices.post)))
	}

	resolver := config.NewResolver(resolverOpts...)
	if err := resolver.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	for _, err := range resolver.LoadErrors() {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if opts.ConfigPath != "" {
		watcher, err := config.NewWatcher(resolver)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer watcher.Close()
		go func() {
			for err := range watcher.Errors() {
				notices.post(err)
			}
		}()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init screen: %v\n", err)
		return 1
	}
	defer screen.Fini()

	app := &demoApp{
		screen:   screen,
		lines:    lines,
		file:     opts.File,
		resolver: resolver,
		notices:  notices,
		sink: &screenSink{
			screen:   screen,
			fallback: tcell.StyleDefault.Foreground(tcell.ColorGray).Dim(true),
			styles: map[string]tcell.Style{
				"IndentGuide":      tcell.StyleDefault.Foreground(tcell.ColorGray).Dim(true),
				"IndentGuideScope": tcell.StyleDefault.Foreground(tcell.ColorOrange),
			},
		},
	}
	app.engine = engine.New(resolver, sliceSource{lines: lines}, app.sink, fullRepaint{})
	if err := app.engine.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	app.loop()
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to TOML configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to TOML configuration file (shorthand)")
	flag.StringVar(&opts.LuaPath, "lua", "", "Path to a Lua chunk defining resolve(buf)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "igdemo - indent guide demo viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: igdemo [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  j/k, arrows     Move the cursor\n")
		fmt.Fprintf(os.Stderr, "  h/l             Scroll horizontally\n")
		fmt.Fprintf(os.Stderr, "  PgUp/PgDn       Page\n")
		fmt.Fprintf(os.Stderr, "  e               Toggle guides for the buffer\n")
		fmt.Fprintf(os.Stderr, "  f               Toggle skip_first_indent\n")
		fmt.Fprintf(os.Stderr, "  q, Esc          Quit\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("igdemo %s (%s)\n", version, commit)
		os.Exit(0)
	}

	opts.File = flag.Arg(0)
	return opts
}

// sampleLines is the built-in buffer shown when no file is given.
func sampleLines() []string {
	return []string{
		"def fetch(urls):",
		"    results = []",
		"    for url in urls:",
		"        try:",
		"            body = get(url)",
		"",
		"            results.append(body)",
		"        except Timeout:",
		"            continue",
		"    return results",
		"",
		"def main():",
		"    print(fetch(URLS))",
	}
}

// noticeBoard keeps the most recent background error for the status
// line. Watcher and Lua failures land here from other goroutines.
type noticeBoard struct {
	mu   sync.Mutex
	last string
}

func (n *noticeBoard) post(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.last = err.Error()
}

func (n *noticeBoard) text() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

// sliceSource serves the demo's single in-memory buffer.
type sliceSource struct {
	lines []string
}

func (s sliceSource) Lines(buf core.BufferID, start, end int) []string {
	if buf != demoBuffer || start < 0 || start >= len(s.lines) {
		return nil
	}
	if end > len(s.lines) {
		end = len(s.lines)
	}
	return s.lines[start:end]
}

// screenSink paints guide glyphs straight onto the tcell screen. The
// demo repaints every frame, so Clear has nothing to erase.
type screenSink struct {
	screen   tcell.Screen
	top      int
	rows     int
	styles   map[string]tcell.Style
	fallback tcell.Style
}

func (s *screenSink) Draw(buf core.BufferID, line, col int, glyph, highlight string, priority int) {
	row := line - s.top
	width, _ := s.screen.Size()
	if row < 0 || row >= s.rows || col < 0 || col >= width {
		return
	}
	// Guides never overwrite text, only the whitespace under it.
	if r, _, _, _ := s.screen.GetContent(col, row); r != ' ' {
		return
	}
	style, ok := s.styles[highlight]
	if !ok {
		style = s.fallback
	}
	s.screen.SetContent(col, row, []rune(glyph)[0], nil, style)
}

func (s *screenSink) Clear(buf core.BufferID, start, end int) {}

// fullRepaint satisfies the engine's redraw request channel. The demo
// redraws the whole viewport every frame, so targeted requests need no
// bookkeeping; the engine still counts them for the status line.
type fullRepaint struct{}

func (fullRepaint) Redraw(buf core.BufferID, start, end int) {}

type demoApp struct {
	screen   tcell.Screen
	engine   *engine.Engine
	resolver *config.Resolver
	sink     *screenSink
	notices  *noticeBoard

	lines   []string
	file    string
	top     int
	leftCol int
	cursor  int

	enabled   bool
	skipFirst bool
}

func (a *demoApp) loop() {
	a.enabled = true
	for {
		a.draw()
		ev := a.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			a.screen.Sync()
		case *tcell.EventKey:
			if !a.handleKey(ev) {
				return
			}
		}
	}
}

func (a *demoApp) handleKey(ev *tcell.EventKey) bool {
	_, height := a.screen.Size()
	page := height - 2
	if page < 1 {
		page = 1
	}

	switch {
	case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
		return false
	case ev.Key() == tcell.KeyDown, ev.Rune() == 'j':
		a.moveCursor(1)
	case ev.Key() == tcell.KeyUp, ev.Rune() == 'k':
		a.moveCursor(-1)
	case ev.Key() == tcell.KeyPgDn:
		a.moveCursor(page)
	case ev.Key() == tcell.KeyPgUp:
		a.moveCursor(-page)
	case ev.Key() == tcell.KeyLeft, ev.Rune() == 'h':
		sw := a.resolver.Options(demoBuffer).Shiftwidth
		if a.leftCol >= sw {
			a.leftCol -= sw
		} else {
			a.leftCol = 0
		}
	case ev.Key() == tcell.KeyRight, ev.Rune() == 'l':
		a.leftCol += a.resolver.Options(demoBuffer).Shiftwidth
	case ev.Rune() == 'e':
		a.enabled = !a.enabled
		a.resolver.SetBufferLocal(demoBuffer, "enabled", a.enabled)
	case ev.Rune() == 'f':
		a.skipFirst = !a.skipFirst
		a.resolver.SetBufferLocal(demoBuffer, "skip_first_indent", a.skipFirst)
	}
	return true
}

func (a *demoApp) moveCursor(delta int) {
	a.cursor += delta
	if a.cursor < 0 {
		a.cursor = 0
	}
	if a.cursor >= len(a.lines) {
		a.cursor = len(a.lines) - 1
	}

	_, height := a.screen.Size()
	rows := height - 1
	if rows < 1 {
		rows = 1
	}
	if a.cursor < a.top {
		a.top = a.cursor
	}
	if a.cursor >= a.top+rows {
		a.top = a.cursor - rows + 1
	}
}

func (a *demoApp) draw() {
	a.screen.Clear()
	width, height := a.screen.Size()
	rows := height - 1
	if rows < 1 {
		rows = 1
	}

	bottom := a.top + rows - 1
	if bottom >= len(a.lines) {
		bottom = len(a.lines) - 1
	}

	textStyle := tcell.StyleDefault
	for row := 0; row < rows && a.top+row < len(a.lines); row++ {
		text := a.lines[a.top+row]
		for col := 0; col < width; col++ {
			src := col + a.leftCol
			r := ' '
			if src < len(text) {
				r = rune(text[src])
			}
			a.screen.SetContent(col, row, r, nil, textStyle)
		}
	}

	// Drive the engine the way an editor's redraw cycle would.
	a.sink.top = a.top
	a.sink.rows = rows
	vp := core.Viewport{
		Window:     demoWindow,
		Buffer:     demoBuffer,
		TopLine:    a.top,
		BottomLine: bottom,
		LeftCol:    a.leftCol,
		CursorLine: a.cursor,
		Focused:    true,
	}
	a.engine.OnViewportEvent(vp)
	for line := a.top; line <= bottom; line++ {
		a.engine.OnLineEvent(demoWindow, demoBuffer, line)
	}

	a.screen.ShowCursor(0, a.cursor-a.top)
	a.drawStatus(width, height-1)
	a.screen.Show()
}

func (a *demoApp) drawStatus(width, row int) {
	name := a.file
	if name == "" {
		name = "[sample]"
	}
	stats := a.engine.Stats()
	status := fmt.Sprintf(" %s  ln %d/%d  gen %d  state %s  passes %d  redraws %d  glyphs %d",
		name, a.cursor+1, len(a.lines), a.resolver.Generation(),
		a.engine.Lifecycle(), stats.ViewportPasses, stats.Redraws, stats.GlyphsDrawn)
	if msg := a.notices.text(); msg != "" {
		status += "  !" + msg
	}

	style := tcell.StyleDefault.Reverse(true)
	for col := 0; col < width; col++ {
		r := ' '
		if col < len(status) {
			r = rune(status[col])
		}
		a.screen.SetContent(col, row, r, nil, style)
	}
}
