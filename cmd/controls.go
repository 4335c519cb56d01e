package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const controlsHelp = `# Controls

## Placing

| key | action |
|---|---|
| arrows | move the pointer |
| c | click: place a card, or remove one in delete mode |
| enter | confirm placement in precision mode |
| tab | switch between quick and precision placement |
| delete, backspace | delete mode: click removes the card under the pointer |
| m | move mode: g grabs the card under the pointer, g again drops it |
| esc | back to place mode |

## Rotation

Presets set the base orientation. Their shortcuts are checked first, so a
preset bound to a letter shadows the key below.

| key | action |
|---|---|
| 1 - 0 | default presets (flat, standing, leaning, roof) |
| q / e | yaw left / right |
| r / f | pitch back / forward |
| z / x | roll left / right |
| [ / ] | wheel: coarse yaw |
| space | reset fine rotation |

## Table

| key | action |
|---|---|
| l | freeze or release every card |
| ctrl+s | save |
| ctrl+o | load |
| ctrl+c | quit |
`

var controlsCmd = &cobra.Command{
	Use:   "controls",
	Short: "Show the keyboard and pointer controls",
	RunE: func(cmd *cobra.Command, args []string) error {
		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || width <= 0 {
			width = 80
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width-4),
		)
		if err != nil {
			return err
		}
		out, err := r.Render(controlsHelp)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(controlsCmd)
}
