package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardhouse/internal/card"
	"github.com/arcanaland/cardhouse/internal/deck"
)

// deckCmd represents the deck command group
var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Inspect the deck new cards are dealt from",
	Long: `Each placed card gets a face dealt at random from the configured deck.
The standard deck has all 52 cards; a deck file restricts the suits and
ranks:

  [deck]
  name = "aces"
  suits = ["hearts", "spades"]
  ranks = ["A"]

Deck files live in $XDG_DATA_HOME/cardhouse/decks and are selected with the
deck key of the config file.`,
}

// currentDeck returns the deck named by --deck or the config.
func currentDeck(cmd *cobra.Command) (*deck.Deck, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if name, _ := cmd.Flags().GetString("deck"); name != "" {
		cfg.Deck = name
	}
	deckPath, err := cfg.GetDeckPath()
	if err != nil {
		return nil, err
	}
	if deckPath == "" {
		return deck.Standard(), nil
	}
	return deck.LoadDeck(deckPath)
}

func faceLabel(f deck.Face) string {
	label := card.StyleOf(f.Suit).Symbol + f.Rank
	if f.Color == card.Red {
		return color.RedString(label)
	}
	return label
}

// deckListCmd represents the deck ls command
var deckListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List deck files in the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		libraryPath := filepath.Join(cfg.DataPath(), "decks")

		entries, err := os.ReadDir(libraryPath)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("error reading deck library: %w", err)
		}

		marker := func(active bool) string {
			if active {
				return "*"
			}
			return " "
		}
		fmt.Printf("%s standard (52 faces) [built in]\n", marker(cfg.Deck == ""))
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".toml") {
				continue
			}
			d, err := deck.LoadDeck(filepath.Join(libraryPath, entry.Name()))
			if err != nil {
				// Not a valid deck, skip
				continue
			}
			base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
			active := cfg.Deck == base || cfg.Deck == entry.Name()
			fmt.Printf("%s %s (%s, %d faces)\n", marker(active), base, d.Name, len(d.Faces))
		}
		return nil
	},
}

var deckShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every face of the deck",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := currentDeck(cmd)
		if err != nil {
			return err
		}
		fmt.Printf("%s, %d faces\n", d.Name, len(d.Faces))
		var line []string
		var suit card.Suit
		for _, f := range d.Faces {
			if f.Suit != suit && len(line) > 0 {
				fmt.Println("  " + strings.Join(line, " "))
				line = nil
			}
			suit = f.Suit
			line = append(line, faceLabel(f))
		}
		if len(line) > 0 {
			fmt.Println("  " + strings.Join(line, " "))
		}
		return nil
	},
}

var deckDealCmd = &cobra.Command{
	Use:   "deal",
	Short: "Deal faces the way placed cards get them",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := currentDeck(cmd)
		if err != nil {
			return err
		}
		n, _ := cmd.Flags().GetInt("count")
		seed, _ := cmd.Flags().GetInt64("seed")
		dealer := deck.NewDealer(d, seed)

		labels := make([]string, 0, n)
		for i := 0; i < n; i++ {
			labels = append(labels, faceLabel(dealer.Deal()))
		}
		fmt.Println(strings.Join(labels, " "))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(deckCmd)
	deckCmd.AddCommand(deckListCmd)
	deckCmd.AddCommand(deckShowCmd)
	deckCmd.AddCommand(deckDealCmd)

	for _, c := range []*cobra.Command{deckShowCmd, deckDealCmd} {
		c.Flags().StringP("deck", "d", "", "deck name in the library or a path to a deck file")
	}
	deckDealCmd.Flags().IntP("count", "n", 5, "number of faces to deal")
	deckDealCmd.Flags().Int64("seed", 1, "dealer seed")
}
