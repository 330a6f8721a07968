// Package help serves long-form help topics compiled into the binary.
// `sysdot help <topic>` renders the matching markdown file; unknown names
// fall through to cobra's regular help.
package help

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicsFS embed.FS

// Topics lists the available topic names, sorted.
func Topics() []string {
	entries, err := topicsFS.ReadDir("topics")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(names)
	return names
}

// Render returns a topic formatted for the terminal. Rendering failures fall
// back to the raw markdown, never to an error the user has to see.
func Render(name string) (string, bool) {
	raw, err := topicsFS.ReadFile("topics/" + name + ".md")
	if err != nil {
		return "", false
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return string(raw), true
	}
	out, err := r.Render(string(raw))
	if err != nil {
		return string(raw), true
	}
	return out, true
}

// Install hooks topic lookup into the root command's help. Subcommand names
// take precedence; anything else is tried as a topic before falling through
// to cobra's usual unknown-topic handling.
func Install(root *cobra.Command) {
	root.SetHelpCommand(&cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				_ = root.Help()
				return
			}
			if c, _, err := root.Find(args); err == nil && c != root {
				_ = c.Help()
				return
			}
			if content, ok := Render(args[0]); ok {
				fmt.Fprint(cmd.OutOrStdout(), content)
				return
			}
			cmd.Printf("Unknown help topic %#q\n", args)
			_ = root.Usage()
		},
	})

	if len(Topics()) > 0 {
		root.SetUsageTemplate(root.UsageTemplate() +
			fmt.Sprintf("\nHelp Topics:\n  %s\n\nUse \"%s help <topic>\" for details.\n",
				strings.Join(Topics(), ", "), root.Name()))
	}
}
