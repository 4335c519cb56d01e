package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arcanaland/cardhouse/internal/preset"
	"github.com/arcanaland/cardhouse/internal/savegame"
	"github.com/arcanaland/cardhouse/internal/state"
	"github.com/arcanaland/cardhouse/internal/validator"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a save, a preset list or a deck file",
	Long: `Validate checks a save snapshot, a preset list or a deck file.

A .toml path is read as a deck. A JSON path is read as a save when it holds
an object and as a preset list when it holds an array. Without a path the
stored save and presets are checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return validateStored()
		}
		path := args[0]

		// Check if path exists
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}

		v, err := validatorFor(path)
		if err != nil {
			return err
		}
		results, err := v.Validate()
		if err != nil {
			return fmt.Errorf("validation error: %v", err)
		}
		if !printResults(path, results) {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

func validatorFor(path string) (*validator.Validator, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return validator.NewDeckValidator(path), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		var list []preset.Preset
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("error decoding presets: %w", err)
		}
		return validator.NewPresetValidator(list), nil
	}
	snap, err := savegame.Decode(string(raw))
	if err != nil {
		return nil, err
	}
	return validator.NewSaveValidator(snap), nil
}

func validateStored() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	kv, err := openStore(cfg)
	if err != nil {
		return err
	}

	ok := true
	ps, err := preset.Load(kv, state.New())
	if err != nil {
		fmt.Printf("❌ Stored presets are unreadable: %v\n", err)
		ok = false
	} else {
		res, _ := validator.NewPresetValidator(ps.List()).Validate()
		ok = printResults("presets", res) && ok
	}

	snap, err := savegame.Load(kv)
	switch {
	case errors.Is(err, savegame.ErrNoSave):
		fmt.Println("\nNo save to check.")
	case err != nil:
		fmt.Printf("❌ Stored save is unreadable: %v\n", err)
		ok = false
	default:
		fmt.Println()
		res, _ := validator.NewSaveValidator(snap).Validate()
		ok = printResults("save", res) && ok
	}

	if !ok {
		return fmt.Errorf("validation failed")
	}
	return nil
}

// printResults displays validation results and reports whether there were
// no errors.
func printResults(name string, results validator.ValidationResults) bool {
	fmt.Println("Validation Results:")
	fmt.Println("-------------------")

	valid := results.Valid()
	if valid {
		fmt.Printf("✅ '%s' is valid.\n", name)
	} else {
		fmt.Printf("❌ '%s' has %d validation errors:\n", name, len(results.Errors))
		for i, err := range results.Errors {
			fmt.Printf("%d. %s\n", i+1, err)
		}
	}

	if len(results.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for i, warn := range results.Warnings {
			fmt.Printf("%d. %s\n", i+1, warn)
		}
	}
	return valid
}
