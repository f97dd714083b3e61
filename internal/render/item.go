package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"chatgallery/internal/config"
	"chatgallery/internal/domain"
	"chatgallery/internal/gallery"
)

// ItemColorer picks list colors for gallery items
type ItemColorer struct {
	PendingColor  tcell.Color
	LoadedColor   tcell.Color
	VideoColor    tcell.Color
	SelectedColor tcell.Color
	CaptionColor  tcell.Color
}

// NewItemColorer creates a new item colorer with default colors
func NewItemColorer() *ItemColorer {
	return &ItemColorer{
		PendingColor:  tcell.ColorGray,
		LoadedColor:   tcell.ColorWhite,
		VideoColor:    tcell.ColorOrange,
		SelectedColor: tcell.ColorYellow,
		CaptionColor:  tcell.ColorAqua,
	}
}

// ColorerFunc returns a colorer function for gallery items
func (ic *ItemColorer) ColorerFunc() func(*gallery.Item) tcell.Color {
	return func(it *gallery.Item) tcell.Color {
		switch it.State() {
		case gallery.StateLoaded:
			if it.Kind == domain.AttachmentVideo {
				return ic.VideoColor
			}
			return ic.LoadedColor
		default:
			// Pending and declined items render muted
			return ic.PendingColor
		}
	}
}

// UpdateFromStyles updates colors from configuration
func (ic *ItemColorer) UpdateFromStyles(colors *config.ColorsConfig) {
	ic.PendingColor = colors.Item.PendingColor.Color()
	ic.LoadedColor = colors.Item.LoadedColor.Color()
	ic.VideoColor = colors.Item.VideoColor.Color()
	ic.SelectedColor = colors.Item.SelectedColor.Color()
	ic.CaptionColor = colors.Item.CaptionColor.Color()
}

// ItemRenderer handles gallery item rendering and formatting
type ItemRenderer struct {
	colorer *ItemColorer
}

// NewItemRenderer creates a new item renderer
func NewItemRenderer() *ItemRenderer {
	return &ItemRenderer{
		colorer: NewItemColorer(),
	}
}

// Colorer returns the renderer's item colorer
func (ir *ItemRenderer) Colorer() *ItemColorer {
	return ir.colorer
}

// FormatItemList formats an item for list display
func (ir *ItemRenderer) FormatItemList(it *gallery.Item, maxWidth int) (string, tcell.Color) {
	sender := it.Sender
	if sender == "" {
		sender = "(unknown)"
	}

	name := ir.displayName(it)
	date := ir.formatRelativeTime(it.SentAt)

	// Fixed widths with padding for alignment
	// Keep a minimum width for usability
	if maxWidth < 40 {
		maxWidth = 40
	}
	senderWidth := 18
	dateWidth := 8
	// Remaining for the name minus suffix width (state icon + size chip)
	suffix := ir.buildBadges(it)
	suffixWidth := runewidth.StringWidth(suffix)
	// account for separators and spaces (" | ", " | ") = 6
	nameWidth := maxWidth - senderWidth - dateWidth - 6 - suffixWidth
	if nameWidth < 10 {
		nameWidth = 10
	}

	senderText := ir.fitWidth(sender, senderWidth)
	nameText := ir.fitWidth(name, nameWidth)
	// Date at the end, right aligned
	dateText := ir.rightFit(date, dateWidth)

	// Fixed columns: Sender | Name(+suffix) | Date
	formatted := fmt.Sprintf("%s | %s%s | %s", senderText, nameText, suffix, dateText)

	return formatted, ir.colorer.ColorerFunc()(it)
}

// buildBadges returns a string like " [1.2 MB] 🖼"
func (ir *ItemRenderer) buildBadges(it *gallery.Item) string {
	var b strings.Builder
	b.WriteString(" ")
	if it.Size > 0 {
		b.WriteString(" [")
		b.WriteString(humanSize(it.Size))
		b.WriteString("]")
	}
	switch {
	case it.State() == gallery.StatePending:
		b.WriteString(" ⏳")
	case it.State() == gallery.StateFailed:
		b.WriteString(" ✗")
	case it.Kind == domain.AttachmentVideo:
		b.WriteString(" 🎬")
	default:
		b.WriteString(" 🖼")
	}
	return b.String()
}

// FormatItemDetail returns a plain multi-line description for the detail view
func (ir *ItemRenderer) FormatItemDetail(it *gallery.Item) string {
	sender := it.Sender
	if sender == "" {
		sender = "(unknown)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", ir.displayName(it))
	fmt.Fprintf(&b, "From: %s\n", sender)
	fmt.Fprintf(&b, "Date: %s\n", ir.formatDate(it.SentAt))
	if it.Kind != "" {
		fmt.Fprintf(&b, "Kind: %s\n", string(it.Kind))
	}
	if it.Size > 0 {
		fmt.Fprintf(&b, "Size: %s\n", humanSize(it.Size))
	}
	if w, h, ok := ProbeDimensions(it.Payload()); ok {
		fmt.Fprintf(&b, "Dimensions: %dx%d\n", w, h)
	}
	fmt.Fprintf(&b, "State: %s\n", it.State())
	fmt.Fprintf(&b, "URL: %s", it.URL)
	return b.String()
}

// displayName prefers the stored filename, then the URL basename
func (ir *ItemRenderer) displayName(it *gallery.Item) string {
	if it.Filename != "" {
		return it.Filename
	}
	if u, err := url.Parse(it.URL); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" {
			return base
		}
	}
	return "(attachment)"
}

// fitWidth truncates and pads on the right to fit a fixed width
func (ir *ItemRenderer) fitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	// Truncate by display width with ellipsis
	s = runewidth.Truncate(s, width, "...")
	// Pad on the right to exact width
	pad := width - runewidth.StringWidth(s)
	if pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// rightFit truncates and right-aligns/pads to width
func (ir *ItemRenderer) rightFit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	// Truncate from the left by display width
	s = runewidth.TruncateLeft(s, width, "")
	// Pad on the left
	pad := width - runewidth.StringWidth(s)
	if pad > 0 {
		s = strings.Repeat(" ", pad) + s
	}
	return s
}

func (ir *ItemRenderer) formatRelativeTime(date time.Time) string {
	now := time.Now()
	diff := now.Sub(date)

	if diff < time.Minute {
		return "now"
	} else if diff < time.Hour {
		return fmt.Sprintf("%dm", int(diff.Minutes()))
	} else if diff < 24*time.Hour {
		return fmt.Sprintf("%dh", int(diff.Hours()))
	} else if diff < 7*24*time.Hour {
		return fmt.Sprintf("%dd", int(diff.Hours()/24))
	} else {
		return date.Format("Jan 2")
	}
}

func (ir *ItemRenderer) formatDate(date time.Time) string {
	return date.Format("Mon, 02 Jan 2006 15:04:05 -0700")
}

// UpdateFromConfig updates the renderer with new configuration
func (ir *ItemRenderer) UpdateFromConfig(colors *config.ColorsConfig) {
	ir.colorer.UpdateFromStyles(colors)
}

// ProbeDimensions reads pixel dimensions out of a resolved payload. Content
// that does not decode as a supported image simply reports no dimensions;
// failure here is never an error.
func ProbeDimensions(data []byte) (int, int, bool) {
	if len(data) == 0 {
		return 0, 0, false
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}

// humanSize renders a byte count the way file browsers do
func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
