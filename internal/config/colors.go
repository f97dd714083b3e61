package config

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Color represents a color in the application
type Color string

const (
	// DefaultColor represents a default color
	DefaultColor Color = "default"

	// TransparentColor represents the terminal bg color
	TransparentColor Color = "-"
)

// Colors tracks multiple colors
type Colors []Color

// Colors converts series string colors to colors
func (c Colors) Colors() []tcell.Color {
	cc := make([]tcell.Color, 0, len(c))
	for _, color := range c {
		cc = append(cc, color.Color())
	}
	return cc
}

// NewColor returns a new color
func NewColor(c string) Color {
	return Color(c)
}

// String returns color as string
func (c Color) String() string {
	if c.isHex() {
		return string(c)
	}
	if c == DefaultColor {
		return "-"
	}
	col := c.Color().TrueColor().Hex()
	if col < 0 {
		return "-"
	}
	return fmt.Sprintf("#%06x", col)
}

func (c Color) isHex() bool {
	return len(c) == 7 && c[0] == '#'
}

// Color returns a view color
func (c Color) Color() tcell.Color {
	if c == DefaultColor {
		return tcell.ColorDefault
	}
	return tcell.GetColor(string(c)).TrueColor()
}

// ItemColors defines colors for gallery item states
type ItemColors struct {
	PendingColor  Color `yaml:"pendingColor"`
	LoadedColor   Color `yaml:"loadedColor"`
	VideoColor    Color `yaml:"videoColor"`
	SelectedColor Color `yaml:"selectedColor"`
	CaptionColor  Color `yaml:"captionColor"`
}

// FrameColors defines colors for UI frame elements
type FrameColors struct {
	Border struct {
		FgColor    Color `yaml:"fgColor"`
		FocusColor Color `yaml:"focusColor"`
	} `yaml:"border"`
	Title struct {
		FgColor        Color `yaml:"fgColor"`
		BgColor        Color `yaml:"bgColor"`
		HighlightColor Color `yaml:"highlightColor"`
		CounterColor   Color `yaml:"counterColor"`
	} `yaml:"title"`
}

// TableColors defines colors for table elements
type TableColors struct {
	FgColor       Color `yaml:"fgColor"`
	BgColor       Color `yaml:"bgColor"`
	HeaderFgColor Color `yaml:"headerFgColor"`
	HeaderBgColor Color `yaml:"headerBgColor"`
}

// BodyColors defines colors for body elements
type BodyColors struct {
	FgColor   Color `yaml:"fgColor"`
	BgColor   Color `yaml:"bgColor"`
	LogoColor Color `yaml:"logoColor"`
}

// ColorsConfig defines the complete color configuration
type ColorsConfig struct {
	Body  BodyColors  `yaml:"body"`
	Frame FrameColors `yaml:"frame"`
	Table TableColors `yaml:"table"`
	Item  ItemColors  `yaml:"item"`
}

// DefaultColors returns the default color configuration
func DefaultColors() *ColorsConfig {
	return &ColorsConfig{
		Body: BodyColors{
			FgColor:   NewColor("#f8f8f2"),
			BgColor:   NewColor("#282a36"),
			LogoColor: NewColor("#bd93f9"),
		},
		Frame: FrameColors{
			Border: struct {
				FgColor    Color `yaml:"fgColor"`
				FocusColor Color `yaml:"focusColor"`
			}{
				FgColor:    NewColor("#44475a"),
				FocusColor: NewColor("#6272a4"),
			},
			Title: struct {
				FgColor        Color `yaml:"fgColor"`
				BgColor        Color `yaml:"bgColor"`
				HighlightColor Color `yaml:"highlightColor"`
				CounterColor   Color `yaml:"counterColor"`
			}{
				FgColor:        NewColor("#f8f8f2"),
				BgColor:        NewColor("#282a36"),
				HighlightColor: NewColor("#f1fa8c"),
				CounterColor:   NewColor("#50fa7b"),
			},
		},
		Table: TableColors{
			FgColor:       NewColor("#f8f8f2"),
			BgColor:       NewColor("#282a36"),
			HeaderFgColor: NewColor("#50fa7b"),
			HeaderBgColor: NewColor("#282a36"),
		},
		Item: ItemColors{
			PendingColor:  NewColor("#6272a4"),
			LoadedColor:   NewColor("#f8f8f2"),
			VideoColor:    NewColor("#ffb86c"),
			SelectedColor: NewColor("#f1fa8c"),
			CaptionColor:  NewColor("#8be9fd"),
		},
	}
}
