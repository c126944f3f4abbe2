package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/arcanaland/cardtrader/internal/artwork"
	"github.com/arcanaland/cardtrader/internal/card"
	"github.com/arcanaland/cardtrader/internal/engine"
	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var showCmd = &cobra.Command{
	Use:   `show "name | set | $price"`,
	Short: "Display a catalog card with ANSI art",
	Long: `Show displays a catalog card next to its photo rendered as ANSI art.
Photos are read from <images>/<set>/<name>.jpg; a card without a photo
is shown with Placeholder.jpg from the same directory.

Examples:
  cardtrader show "Charizard | Base Set | $300"
  cardtrader show --width 24 --height 18 "Charizard | Base Set | $300"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")
		if width < 1 || height < 1 {
			return fmt.Errorf("--width and --height must be at least 1, got %dx%d", width, height)
		}

		ref, err := card.ParseReference(args[0])
		if err != nil {
			return err
		}

		e, release, err := openEngine()
		if err != nil {
			return err
		}
		defer release()

		c, err := e.Get(cmd.Context(), ref.Name, ref.Set)
		if err != nil {
			return fmt.Errorf("error getting card: %w", err)
		}

		photo, found := artwork.Resolve(cfg.ImagesDir, c.Set, c.Name)
		ansiArt, err := artwork.Cached(cfg.CacheDir, photo, width, height)
		if err != nil {
			logger.WithError(err).WithField("photo", photo).Warn("no art to show")
			ansiArt = ""
		}

		var notes []string
		if !found {
			notes = append(notes, fmt.Sprintf("No photo at %s, showing the placeholder.",
				artwork.Path(cfg.ImagesDir, c.Set, c.Name)))
		}

		band, err := engine.ComputeBand(c.Price, cfg.Percentage)
		if err != nil {
			return err
		}

		displayCard(cmd.OutOrStdout(), c, ansiArt, band, notes, terminalWidth())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().Int("width", artwork.DefaultWidth, "art width in terminal cells")
	showCmd.Flags().Int("height", artwork.DefaultHeight, "art height in terminal cells")
}

// terminalWidth returns the stdout width, or 80 when it is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 80
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// wrapText wraps text to a specified width
func wrapText(text string, width int) []string {
	if width < 10 {
		width = 40
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var result []string
	currentLine := words[0]
	for _, word := range words[1:] {
		if utf8.RuneCountInString(currentLine)+1+utf8.RuneCountInString(word) <= width {
			currentLine += " " + word
			continue
		}
		result = append(result, currentLine)
		currentLine = word
	}
	return append(result, currentLine)
}

// displayCard prints the art on the left and the card details on the right.
func displayCard(w io.Writer, c *card.Card, ansiArt string, band engine.Band, notes []string, width int) {
	ansiLines := strings.Split(strings.TrimSuffix(ansiArt, "\n"), "\n")
	if ansiArt == "" {
		ansiLines = nil
	}
	maxAnsiWidth := 0
	for _, line := range ansiLines {
		maxAnsiWidth = max(maxAnsiWidth, visibleWidth(line))
	}

	cardType := c.Type
	if cardType == "" {
		cardType = "untagged"
	}

	infoLines := []string{
		colorize.CyanString("Card:  ") + colorize.HiWhiteString("%s", c.Name),
		colorize.CyanString("Set:   ") + colorize.HiWhiteString("%s", c.Set),
		colorize.CyanString("Type:  ") + colorize.HiWhiteString("%s", cardType),
		colorize.CyanString("Price: ") + colorize.HiWhiteString("$%s", c.Price),
		colorize.CyanString("Band:  ") + colorize.HiWhiteString("%s", band),
	}
	if c.IsPromo() {
		infoLines = append(infoLines, colorize.YellowString("Promotional, never listed in searches"))
	}

	spacing := 4
	infoStartCol := maxAnsiWidth + spacing
	infoWidth := max(width-infoStartCol-2, 20)

	for _, note := range notes {
		infoLines = append(infoLines, "")
		infoLines = append(infoLines, wrapText(note, infoWidth)...)
	}

	_, _ = fmt.Fprintln(w)
	for i := 0; i < max(len(ansiLines), len(infoLines)); i++ {
		var b strings.Builder
		b.WriteString("  ")
		if i < len(ansiLines) {
			b.WriteString(ansiLines[i])
			b.WriteString(strings.Repeat(" ", infoStartCol-visibleWidth(ansiLines[i])))
		} else {
			b.WriteString(strings.Repeat(" ", infoStartCol))
		}
		if i < len(infoLines) {
			b.WriteString(infoLines[i])
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
	_, _ = fmt.Fprintln(w)
}

func visibleWidth(s string) int {
	return utf8.RuneCountInString(stripAnsi(s))
}

// stripAnsi removes ANSI escape sequences from a string
func stripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for _, c := range s {
		switch {
		case inEscape:
			if c == 'm' {
				inEscape = false
			}
		case c == '\033':
			inEscape = true
		default:
			result.WriteRune(c)
		}
	}
	return result.String()
}
