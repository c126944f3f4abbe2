package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arcanaland/cardtrader/internal/card"
	"github.com/arcanaland/cardtrader/internal/engine"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const browsePrompt = "cardtrader> "

// maxCompletions caps how many references tab completion offers.
const maxCompletions = 25

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive search with reference completion",
	Long: `Browse opens an interactive prompt. Type a reference (tab completes card
references from the catalog) to search around it, then narrow the result
with :facet, :tradeup or :all without retyping the reference.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, release, err := openEngine()
		if err != nil {
			return err
		}
		defer release()

		ctx := cmd.Context()

		historyFile := ""
		if err := os.MkdirAll(cfg.CacheDir, 0755); err == nil {
			historyFile = filepath.Join(cfg.CacheDir, "browse_history")
		}

		rl, err := readline.NewEx(&readline.Config{
			Prompt:          browsePrompt,
			HistoryFile:     historyFile,
			AutoComplete:    &referenceCompleter{ctx: ctx, engine: e},
			InterruptPrompt: "^C",
			EOFPrompt:       ":quit",
		})
		if err != nil {
			return fmt.Errorf("failed to initialize prompt: %w", err)
		}
		defer func() { _ = rl.Close() }()

		b := &browser{engine: e, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr(), percentage: cfg.Percentage}
		_, _ = fmt.Fprintln(b.out, "Type a card reference, :help for commands, :quit to exit")

		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			if b.handle(ctx, line) {
				return nil
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(browseCmd)
}

// browser holds the state of one browse session.
type browser struct {
	engine     *engine.Engine
	out        io.Writer
	errOut     io.Writer
	percentage int
	reference  *card.Reference
	facet      string
}

// handle runs one input line and reports whether the session should end.
func (b *browser) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if !strings.HasPrefix(line, ":") {
		ref, err := card.ParseReference(line)
		if err != nil {
			b.fail(err)
			return false
		}
		b.reference, b.facet = &ref, engine.FacetAll
		b.search(ctx)
		return false
	}

	command, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(command) {
	case ":quit", ":exit", ":q":
		return true
	case ":help":
		printBrowseHelp(b.out)
	case ":all":
		b.facet = engine.FacetAll
		b.search(ctx)
	case ":tradeup":
		b.facet = engine.FacetTradeUp
		b.search(ctx)
	case ":facet":
		if arg == "" {
			_, _ = fmt.Fprintln(b.errOut, "Usage: :facet <set or type>")
			return false
		}
		b.facet = arg
		b.search(ctx)
	case ":percent":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 || n > 100 {
			_, _ = fmt.Fprintln(b.errOut, "Usage: :percent <0-100>")
			return false
		}
		b.percentage = n
		b.search(ctx)
	default:
		_, _ = fmt.Fprintf(b.errOut, "Unknown command: %s (type :help for commands)\n", command)
	}
	return false
}

func (b *browser) search(ctx context.Context) {
	if b.reference == nil {
		_, _ = fmt.Fprintln(b.errOut, "Enter a card reference first")
		return
	}

	res, err := b.engine.Search(ctx, engine.Request{Reference: *b.reference, Percentage: b.percentage, Facet: b.facet})
	if err != nil {
		b.fail(err)
		return
	}
	renderResult(b.out, res, b.percentage)
	_, _ = fmt.Fprintln(b.out)
}

func (b *browser) fail(err error) {
	_, _ = fmt.Fprintf(b.errOut, "Error: %v\n", err)
}

func printBrowseHelp(w io.Writer) {
	help := `
Commands:
  <reference>      Search around "name | set | $price" (tab completes)
  :all             Show the whole band
  :tradeup         Only cards priced at or above the reference
  :facet <value>   Only cards of a set or type from the Facets line
  :percent <n>     Change the band percentage
  :help            Show this help message
  :quit            Exit
`
	_, _ = fmt.Fprintln(w, help)
}

// referenceCompleter completes card references typed at the prompt.
type referenceCompleter struct {
	ctx    context.Context
	engine *engine.Engine
}

// Do implements readline.AutoCompleter. Candidates are returned as the text
// still to be typed after the current input.
func (c *referenceCompleter) Do(line []rune, pos int) ([][]rune, int) {
	typed := line[:pos]
	if len(typed) > 0 && typed[0] == ':' {
		return nil, 0
	}

	return completions(c.ctx, c.engine, string(typed)), len(typed)
}

func completions(ctx context.Context, e *engine.Engine, prefix string) [][]rune {
	refs, err := e.Suggest(ctx, prefix, 0)
	if err != nil {
		return nil
	}

	var out [][]rune
	for _, ref := range refs {
		// Completion only appends, so the typed text must already match exactly.
		if !strings.HasPrefix(ref, prefix) {
			continue
		}
		out = append(out, []rune(ref)[len([]rune(prefix)):])
		if len(out) == maxCompletions {
			break
		}
	}
	return out
}
