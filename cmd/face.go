package cmd

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arcanaland/cardhouse/internal/card"
	"github.com/arcanaland/cardhouse/internal/face"
)

var faceCmd = &cobra.Command{
	Use:   "face [rank] [suit]",
	Short: "Render a card face as terminal art or an image file",
	Long: `Face renders the texture a renderer draws on the front of a card.

Ranks are A, 2-10, J, Q and K; suits are spades, hearts, clubs and diamonds.
With --output the face is written as PNG, WebP or TGA, chosen by extension.

Examples:
  cardhouse face Q hearts
  cardhouse face 10 spades --output ten.webp`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rank, suit := strings.ToUpper(args[0]), card.Suit(strings.ToLower(args[1]))
		if !card.ValidRank(rank) {
			return fmt.Errorf("unknown rank %q", args[0])
		}
		if !suit.Valid() {
			return fmt.Errorf("unknown suit %q", args[1])
		}

		img := face.Render(suit, rank)

		if out, _ := cmd.Flags().GetString("output"); out != "" {
			if err := face.WriteFile(out, img); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", out)
			return nil
		}

		width, _ := cmd.Flags().GetInt("width")
		height := width * face.Height / face.Width / 2
		plain, _ := cmd.Flags().GetBool("plain")
		art := face.ToANSI(img, width, height, !plain && !colorize.NoColor)
		displayFace(suit, rank, art)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(faceCmd)

	faceCmd.Flags().StringP("output", "o", "", "write the face to a .png, .webp or .tga file")
	faceCmd.Flags().IntP("width", "w", 24, "preview width in columns")
	faceCmd.Flags().Bool("plain", false, "print the preview without colour")
}

// displayFace prints the art with a short description to its right.
func displayFace(suit card.Suit, rank, art string) {
	artLines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	maxArtWidth := 0
	for _, line := range artLines {
		if w := visibleWidth(line); w > maxArtWidth {
			maxArtWidth = w
		}
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}

	style := card.StyleOf(suit)
	info := []string{
		colorize.CyanString("Card:  ") + colorize.HiWhiteString("%s of %s", rank, suit),
		colorize.CyanString("Suit:  ") + colorize.HiWhiteString("%s · %s", suit, style.Symbol),
		colorize.CyanString("Color: ") + colorize.HiWhiteString(string(style.Color)),
		colorize.CyanString("Size:  ") + colorize.HiWhiteString("%dx%d", face.Width, face.Height),
	}

	spacing := 4
	infoStartCol := maxArtWidth + spacing
	sideBySide := infoStartCol+20 <= width

	fmt.Println()
	if !sideBySide {
		for _, line := range artLines {
			fmt.Println("  " + line)
		}
		fmt.Println()
		for _, line := range info {
			fmt.Println("  " + line)
		}
		fmt.Println()
		return
	}

	n := len(artLines)
	if len(info) > n {
		n = len(info)
	}
	for i := 0; i < n; i++ {
		fmt.Print("  ")
		if i < len(artLines) {
			fmt.Print(artLines[i])
			fmt.Print(strings.Repeat(" ", infoStartCol-visibleWidth(artLines[i])))
		} else {
			fmt.Print(strings.Repeat(" ", infoStartCol))
		}
		if i < len(info) {
			fmt.Print(info[i])
		}
		fmt.Println()
	}
	fmt.Println()
}

func visibleWidth(s string) int {
	return utf8.RuneCountInString(face.StripANSI(s))
}
