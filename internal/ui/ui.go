package ui

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"satviz/internal/scene"
)

var AccentColor = rl.NewColor(30, 255, 60, 255)
var HackerFont rl.Font

// HexStringToColor parses "#RRGGBBAA". Anything else yields white.
func HexStringToColor(hex string) color.RGBA {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 8 {
		return rl.White
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return rl.White
	}
	return rl.NewColor(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v))
}

// StatusLines renders the HUD text for st.
func StatusLines(st scene.Status, fps int32) []string {
	selected := st.Selected
	if selected == "" {
		selected = "-"
	}
	sim := time.Duration(st.SimSeconds * float64(time.Second)).Truncate(time.Second)
	return []string{
		fmt.Sprintf("T+%s  x%g", sim, st.Speed),
		fmt.Sprintf("color %s  visible %d/%d", st.ColorMode, st.Visible, st.Total),
		fmt.Sprintf("selected %s", selected),
		fmt.Sprintf("%d fps", fps),
	}
}

func DrawStatus(st scene.Status, fps int32) {
	for i, line := range StatusLines(st, fps) {
		rl.DrawTextEx(HackerFont, line, rl.NewVector2(10, 10+float32(i)*22), 20, 1.0, AccentColor)
	}
	help := "WASD/QE move  arrows look  click select  F2 command  Esc quit"
	w := rl.MeasureTextEx(HackerFont, help, 20, 1.0).X
	rl.DrawTextEx(HackerFont, help, rl.NewVector2(float32(rl.GetScreenWidth())-w-10, 10), 20, 1.0, rl.LightGray)
}

// CommandBox is a one-line text field. Submitted lines are returned by
// Update when Enter is pressed.
type CommandBox struct {
	Label  string
	Bounds rl.Rectangle
	Max    int

	buf         string
	focus       bool
	cursorTimer int32
}

func (b *CommandBox) Focused() bool { return b.focus }

func (b *CommandBox) SetFocus(focus bool) { b.focus = focus }

// nextFocus is the focus after a click. The box is hidden while unfocused,
// so only a click outside an open box changes it.
func nextFocus(focused, inside bool) bool {
	return focused && inside
}

// Update handles mouse focus and typed characters. It returns the line and
// true when the user pressed Enter.
func (b *CommandBox) Update() (string, bool) {
	if b.focus && rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		b.focus = nextFocus(b.focus, rl.CheckCollisionPointRec(rl.GetMousePosition(), b.Bounds))
	}
	if !b.focus {
		return "", false
	}

	for key := rl.GetCharPressed(); key > 0; key = rl.GetCharPressed() {
		if key >= 32 && key <= 125 && len(b.buf) < b.Max {
			b.buf += string(key)
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(b.buf) > 0 {
		b.buf = b.buf[:len(b.buf)-1]
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		b.focus = false
		return "", false
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		line := b.buf
		b.buf = ""
		return line, true
	}
	return "", false
}

func (b *CommandBox) Draw() {
	if !b.focus {
		return
	}
	box := b.Bounds
	rl.DrawTextEx(HackerFont, b.Label, rl.NewVector2(box.X, box.Y-20), 20, 1.0, rl.LightGray)
	rl.DrawRectangleRec(box, rl.Fade(rl.Black, 0.7))
	rl.DrawRectangleLinesEx(box, 2.0, AccentColor)

	text := rl.NewVector2(box.X+5, box.Y+8)
	rl.DrawTextEx(HackerFont, b.buf, text, 20, 1.0, AccentColor)

	b.cursorTimer++
	if len(b.buf) < b.Max && (b.cursorTimer/20)%2 == 0 {
		offset := rl.MeasureTextEx(HackerFont, b.buf, 20, 1.0).X
		rl.DrawTextEx(HackerFont, "_", rl.NewVector2(text.X+offset+2, text.Y), 20, 1.0, AccentColor)
	}
}
