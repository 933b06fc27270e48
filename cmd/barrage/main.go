// Command barrage renders scrolling captions, either to a PNG frame
// sequence or live in the terminal.
//
// Usage:
//
//	barrage -items captions.json -frames 300 -out frames/
//	barrage -items captions.json -term
//
// The items file holds a config object and an item list:
//
//	{
//	  "config": {"speed": 120, "duration": 20000, "fontSize": 28},
//	  "items": [{"time": 0, "text": "hello"}, {"time": 800, "text": "hi", "color": "#ff0"}]
//	}
//
// In the terminal, space toggles play/pause, r replays, the left and right
// arrows seek by one second and q quits.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/barrage"
	"github.com/gogpu/barrage/frame"
	"github.com/gogpu/barrage/surface"
	"github.com/gogpu/barrage/surface/term"
)

// document is the items file format.
type document struct {
	Config map[string]any    `json:"config"`
	Items  []barrage.RawItem `json:"items"`
}

type flags struct {
	items   string
	mask    string
	width   int
	height  int
	frames  int
	fps     float64
	out     string
	term    bool
	overlap bool
	seed    uint64
	logFile string
	verbose bool
}

func main() {
	var f flags
	flag.StringVar(&f.items, "items", "", "JSON file with config and items (default: built-in demo)")
	flag.StringVar(&f.mask, "mask", "", "mask image path or URL")
	flag.IntVar(&f.width, "width", 640, "frame width in pixels")
	flag.IntVar(&f.height, "height", 360, "frame height in pixels")
	flag.IntVar(&f.frames, "frames", 120, "number of frames to render")
	flag.Float64Var(&f.fps, "fps", 30, "frames per second")
	flag.StringVar(&f.out, "out", "frames", "output directory for PNG frames")
	flag.BoolVar(&f.term, "term", false, "play live in the terminal")
	flag.BoolVar(&f.overlap, "overlap", true, "reassign rows of colliding items")
	flag.Uint64Var(&f.seed, "seed", 0, "layout random seed (0: random)")
	flag.StringVar(&f.logFile, "log", "", "write logs to this file")
	flag.BoolVar(&f.verbose, "v", false, "debug logging")
	flag.Parse()

	closeLog, err := setupLogging(f)
	if err != nil {
		log.Fatalf("Failed to open log: %v", err)
	}
	defer closeLog()

	doc, err := loadDocument(f.items)
	if err != nil {
		log.Fatalf("Failed to load items: %v", err)
	}

	if f.term {
		err = playTerminal(f, doc)
	} else {
		err = renderFrames(f, doc)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func setupLogging(f flags) (func(), error) {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case f.logFile != "":
		file, err := os.OpenFile(f.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		w = file
		closeFn = func() { _ = file.Close() }
	case f.term:
		// The terminal is busy drawing.
		return closeFn, nil
	}

	barrage.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return closeFn, nil
}

func loadDocument(path string) (document, error) {
	if path == "" {
		return demoDocument(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return document{}, err
	}
	defer file.Close()

	var doc document
	dec := json.NewDecoder(file)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func demoDocument() document {
	texts := []string{
		"first!", "hello from the terminal", "これはテスト", "so smooth",
		"שלום", "go go go", "captions everywhere", "lol", "replay that part",
		"مرحبا", "nice", "who else is watching in 2026",
	}
	doc := document{Config: map[string]any{"duration": 12000}}
	for i, s := range texts {
		doc.Items = append(doc.Items, barrage.RawItem{Time: int64(i) * 700, Text: s})
	}
	return doc
}

func engineOptions(f flags, doc document, extra ...barrage.Option) []barrage.Option {
	opts := []barrage.Option{
		barrage.WithItems(doc.Items),
		barrage.WithConfigValues(doc.Config),
		barrage.WithOverlapOptimization(f.overlap),
	}
	if f.seed != 0 {
		opts = append(opts, barrage.WithRand(rand.New(rand.NewPCG(f.seed, f.seed))))
	}
	if f.mask != "" {
		opts = append(opts, barrage.WithMaskSource(f.mask))
	}
	return append(opts, extra...)
}

// renderFrames writes f.frames PNG files stepping a manual clock.
func renderFrames(f flags, doc document) error {
	if f.fps <= 0 {
		return fmt.Errorf("invalid fps %v", f.fps)
	}
	if err := os.MkdirAll(f.out, 0o755); err != nil {
		return err
	}

	clock := frame.NewManualClock(time.Unix(0, 0))
	sched := frame.NewManual()
	e, err := barrage.Open("image", surface.Options{Width: f.width, Height: f.height},
		engineOptions(f, doc, barrage.WithClock(clock), barrage.WithScheduler(sched))...)
	if err != nil {
		return err
	}
	defer e.Close()

	if f.mask != "" {
		// Let the mask load land before the first frame.
		waitForMask(e, sched)
	}

	step := time.Duration(float64(time.Second) / f.fps)
	e.Play()
	for i := range f.frames {
		sched.Step(clock.Advance(step))
		name := filepath.Join(f.out, fmt.Sprintf("frame_%05d.png", i))
		if err := savePNG(name, e.Surface()); err != nil {
			return err
		}
	}

	log.Printf("Rendered %d frames to %s (%dx%d)\n", f.frames, f.out, f.width, f.height)
	return nil
}

func waitForMask(e *barrage.Engine, sched *frame.Manual) {
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		sched.Flush()
		if e.Mask().IsSet() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	log.Printf("Mask %s not loaded, rendering unmasked", e.Mask().Kind())
}

func savePNG(name string, s surface.Surface) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(file, s.Snapshot()); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// playTerminal runs the engine live on a tcell screen until q is pressed.
func playTerminal(f flags, doc document) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	s := term.New(screen)

	// One cell per pixel: small rows and a slow crawl read better.
	defaults := map[string]any{"fontSize": 1, "speed": 12}
	for k, v := range doc.Config {
		defaults[k] = v
	}
	doc.Config = defaults

	loop := frame.NewLoop(frame.DefaultInterval)
	e, err := barrage.New(s, engineOptions(f, doc,
		barrage.WithScheduler(loop),
		barrage.WithAfterRender(func(surface.Surface) { s.Show() }),
	)...)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			loop.Post(func() {
				if !handleEvent(e, screen, ev) {
					cancel()
				}
			})
		}
	}()

	e.Play()
	if err := e.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// handleEvent applies a key press to the engine. It returns false to quit.
func handleEvent(e *barrage.Engine, screen tcell.Screen, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			e.Seek(max(e.Progress()-time.Second, 0))
		case tcell.KeyRight:
			e.Seek(e.Progress() + time.Second)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				if e.State() == barrage.Playing {
					e.Pause()
				} else {
					e.Play()
				}
			case 'r':
				e.Replay()
			}
		}
	case *tcell.EventResize:
		screen.Sync()
	}
	return true
}
