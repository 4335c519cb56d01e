package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardhouse/internal/geom"
	"github.com/arcanaland/cardhouse/internal/preset"
	"github.com/arcanaland/cardhouse/internal/state"
	"github.com/arcanaland/cardhouse/internal/validator"
)

// presetCmd represents the preset command group
var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage rotation presets",
	Long: `Rotation presets are named base orientations bound to a single-key
shortcut. Fine rotation during placement is applied on top of the active
preset.`,
}

// openPresets loads the stored preset list.
func openPresets() (*preset.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	kv, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	ps, err := preset.Load(kv, state.New())
	if err != nil {
		fmt.Printf("Warning: %v, using defaults\n", err)
	}
	return ps, nil
}

func printPreset(p preset.Preset, active bool) {
	marker := " "
	if active {
		marker = color.GreenString("*")
	}
	shortcut := p.Shortcut
	if shortcut == "" {
		shortcut = "-"
	}
	fmt.Printf("%s %s %-12s %-14s [%s]  %s\n",
		marker, p.Icon, p.ID, p.Name,
		color.CyanString(shortcut),
		formatRotation(p.Rotation))
}

func formatRotation(r geom.Euler) string {
	return fmt.Sprintf("%6.1f° %6.1f° %6.1f°", deg(r[0]), deg(r[1]), deg(r[2]))
}

func deg(rad float64) float64 { return rad * 180 / math.Pi }

// parseRotation reads "x,y,z" in degrees, or radians with the "rad" suffix
// on each component.
func parseRotation(s string) (geom.Euler, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return geom.Euler{}, fmt.Errorf("rotation must be x,y,z: %q", s)
	}
	var r geom.Euler
	for i, p := range parts {
		p = strings.TrimSpace(p)
		scale := math.Pi / 180
		if strings.HasSuffix(p, "rad") {
			p = strings.TrimSuffix(p, "rad")
			scale = 1
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return geom.Euler{}, fmt.Errorf("invalid rotation component %q: %w", parts[i], err)
		}
		r[i] = v * scale
	}
	return r, nil
}

// reportPresets prints validation problems for the stored list.
func reportPresets(ps *preset.Store) error {
	res, err := validator.NewPresetValidator(ps.List()).Validate()
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		color.Yellow("Warning: %s", w)
	}
	if !res.Valid() {
		for _, e := range res.Errors {
			color.Red("Error: %s", e)
		}
		return fmt.Errorf("preset list has %d errors", len(res.Errors))
	}
	return nil
}

var presetListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List rotation presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		ps, err := openPresets()
		if err != nil {
			return err
		}
		list := ps.List()
		if len(list) == 0 {
			fmt.Println("No presets. Run 'cardhouse preset reset' to restore the defaults.")
			return nil
		}
		first := list[0].ID
		for _, p := range list {
			printPreset(p, p.ID == first)
		}
		return nil
	},
}

var presetAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a preset",
	RunE: func(cmd *cobra.Command, args []string) error {
		ps, err := openPresets()
		if err != nil {
			return err
		}
		p, err := ps.Add()
		if err != nil {
			return fmt.Errorf("error saving presets: %w", err)
		}
		if p, err = applyPresetFlags(cmd, p); err != nil {
			return err
		}
		if err := ps.Update(p); err != nil {
			return fmt.Errorf("error saving presets: %w", err)
		}
		printPreset(p, false)
		return reportPresets(ps)
	},
}

var presetSetCmd = &cobra.Command{
	Use:   "set [id]",
	Short: "Change a preset's name, icon, shortcut or rotation",
	Example: `  cardhouse preset set lean_fwd --rotation 0,0,100
  cardhouse preset set stand_x --shortcut s --name standing`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ps, err := openPresets()
		if err != nil {
			return err
		}
		p, ok := ps.Get(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", preset.ErrNotFound, args[0])
		}
		if p, err = applyPresetFlags(cmd, p); err != nil {
			return err
		}
		if err := ps.Update(p); err != nil {
			return fmt.Errorf("error saving presets: %w", err)
		}
		printPreset(p, false)
		return reportPresets(ps)
	},
}

func applyPresetFlags(cmd *cobra.Command, p preset.Preset) (preset.Preset, error) {
	if cmd.Flags().Changed("name") {
		p.Name, _ = cmd.Flags().GetString("name")
	}
	if cmd.Flags().Changed("icon") {
		p.Icon, _ = cmd.Flags().GetString("icon")
	}
	if cmd.Flags().Changed("shortcut") {
		p.Shortcut, _ = cmd.Flags().GetString("shortcut")
	}
	if cmd.Flags().Changed("rotation") {
		s, _ := cmd.Flags().GetString("rotation")
		r, err := parseRotation(s)
		if err != nil {
			return p, err
		}
		p.Rotation = r
	}
	return p, nil
}

var presetRemoveCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ps, err := openPresets()
		if err != nil {
			return err
		}
		if _, ok := ps.Get(args[0]); !ok {
			return fmt.Errorf("%w: %s", preset.ErrNotFound, args[0])
		}
		if err := ps.Delete(args[0]); err != nil {
			return fmt.Errorf("error saving presets: %w", err)
		}
		fmt.Printf("Removed preset %s\n", args[0])
		return nil
	},
}

var presetResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		ps, err := openPresets()
		if err != nil {
			return err
		}
		if err := ps.Reset(); err != nil {
			return fmt.Errorf("error saving presets: %w", err)
		}
		fmt.Printf("Restored %d default presets\n", len(ps.List()))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(presetCmd)
	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetAddCmd)
	presetCmd.AddCommand(presetSetCmd)
	presetCmd.AddCommand(presetRemoveCmd)
	presetCmd.AddCommand(presetResetCmd)

	for _, c := range []*cobra.Command{presetAddCmd, presetSetCmd} {
		c.Flags().String("name", "", "display name")
		c.Flags().String("icon", "", "icon glyph")
		c.Flags().String("shortcut", "", "single-key shortcut, empty for none")
		c.Flags().String("rotation", "", "base rotation x,y,z in degrees (suffix a component with rad for radians)")
	}
}
