package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardhouse/internal/card"
	"github.com/arcanaland/cardhouse/internal/savegame"
	"github.com/arcanaland/cardhouse/internal/store"
	"github.com/arcanaland/cardhouse/internal/validator"
)

// saveCmd represents the save command group
var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Inspect and move the saved table",
	Long:  `Commands for the single save slot the game writes with ctrl+s.`,
}

func openSlot() (store.KV, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openStore(cfg)
}

func loadSnapshot(kv store.KV) (savegame.Snapshot, error) {
	snap, err := savegame.Load(kv)
	if errors.Is(err, savegame.ErrNoSave) {
		return snap, fmt.Errorf("%w: play and press ctrl+s, or run 'cardhouse save import'", err)
	}
	return snap, err
}

var saveShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved table",
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, err := openSlot()
		if err != nil {
			return err
		}
		snap, err := loadSnapshot(kv)
		if err != nil {
			return err
		}

		mode := color.GreenString("physics")
		if snap.IsFreezeMode {
			mode = color.CyanString("frozen")
		}
		fmt.Printf("%d cards, %s\n\n", len(snap.Cards), mode)
		for _, c := range snap.Cards {
			printCard(c)
		}
		return nil
	},
}

func printCard(c card.Card) {
	label := fmt.Sprintf("%s%-2s", card.StyleOf(c.Suit).Symbol, c.Rank)
	if c.Color == card.Red {
		label = color.RedString(label)
	}
	lock := ""
	if c.Locked {
		lock = color.CyanString(" locked")
	}
	fmt.Printf("  %s  %s  pos (%6.2f %6.2f %6.2f)  rot %s%s\n",
		label, c.ID,
		c.Position.X(), c.Position.Y(), c.Position.Z(),
		formatRotation(c.Rotation), lock)
}

var saveExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the saved table as JSON to a file, stdout or the clipboard",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, err := openSlot()
		if err != nil {
			return err
		}
		snap, err := loadSnapshot(kv)
		if err != nil {
			return err
		}
		raw, err := savegame.Encode(snap)
		if err != nil {
			return err
		}

		if toClipboard, _ := cmd.Flags().GetBool("clipboard"); toClipboard {
			if err := clipboard.WriteAll(raw); err != nil {
				return fmt.Errorf("error writing clipboard: %w", err)
			}
			fmt.Printf("Copied %d cards to the clipboard\n", len(snap.Cards))
			return nil
		}
		if len(args) == 0 {
			fmt.Println(raw)
			return nil
		}
		if err := os.WriteFile(args[0], []byte(raw+"\n"), 0644); err != nil {
			return fmt.Errorf("error writing %s: %w", args[0], err)
		}
		fmt.Printf("Exported %d cards to %s\n", len(snap.Cards), args[0])
		return nil
	},
}

var saveImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace the saved table with JSON from a file, stdin or the clipboard",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			raw []byte
			err error
		)
		fromClipboard, _ := cmd.Flags().GetBool("clipboard")
		switch {
		case fromClipboard:
			var s string
			s, err = clipboard.ReadAll()
			raw = []byte(s)
		case len(args) == 1 && args[0] != "-":
			raw, err = os.ReadFile(args[0])
		default:
			raw, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return fmt.Errorf("error reading save: %w", err)
		}

		snap, err := savegame.Decode(string(raw))
		if err != nil {
			return err
		}
		res, err := validator.NewSaveValidator(snap).Validate()
		if err != nil {
			return err
		}
		printResults("save", res)
		if !res.Valid() {
			return fmt.Errorf("validation failed")
		}

		kv, err := openSlot()
		if err != nil {
			return err
		}
		if err := savegame.Save(kv, snap); err != nil {
			return err
		}
		fmt.Printf("Imported %d cards\n", len(snap.Cards))
		return nil
	},
}

var saveClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved table",
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, err := openSlot()
		if err != nil {
			return err
		}
		if !savegame.Exists(kv) {
			fmt.Println("Nothing saved.")
			return nil
		}
		if err := kv.Delete(savegame.Key); err != nil {
			return fmt.Errorf("error deleting save: %w", err)
		}
		fmt.Println("Save deleted.")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(saveCmd)
	saveCmd.AddCommand(saveShowCmd)
	saveCmd.AddCommand(saveExportCmd)
	saveCmd.AddCommand(saveImportCmd)
	saveCmd.AddCommand(saveClearCmd)

	saveExportCmd.Flags().BoolP("clipboard", "c", false, "copy to the clipboard instead")
	saveImportCmd.Flags().BoolP("clipboard", "c", false, "read from the clipboard instead")
}
