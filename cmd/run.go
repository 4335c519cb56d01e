package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arcanaland/cardhouse/internal/script"
	"github.com/arcanaland/cardhouse/internal/session"
	"github.com/arcanaland/cardhouse/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run [script.toml]",
	Short: "Replay a scripted sequence of input headlessly",
	Long: `Run replays a TOML script of key, pointer and wheel input against a fresh
table and prints the result. Unless --persist is given the script runs
against an in-memory store, so saves and presets on disk are not touched.

  tick_rate = 60

  [[step]]
  key = "4"              # stand the card on its side

  [[step]]
  pointer = [0.0, -0.1]  # normalised device coordinates
  do = "click"           # click, press, release, save, load, clear,
                         # freeze, unfreeze or settle
  ticks = 30`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg, false)
		if err != nil {
			return err
		}
		defer log.Sync()

		s, err := script.Load(args[0])
		if err != nil {
			return err
		}

		var kv store.KV = store.NewMemory()
		if persist, _ := cmd.Flags().GetBool("persist"); persist {
			if kv, err = openStore(cfg); err != nil {
				return err
			}
		}
		seed, _ := cmd.Flags().GetInt64("seed")
		opts, err := sessionOptions(cfg, kv, log.Named("session"), seed)
		if err != nil {
			return err
		}
		var notice string
		opts.Notify = func(n session.Notice) { notice = n.String() }
		sess := session.New(opts)

		verbose, _ := cmd.Flags().GetBool("verbose")
		err = s.Run(sess, func(i int, st script.Step) {
			log.Debug("step", zap.Int("step", i+1), zap.String("do", st.Do), zap.Int("cards", len(sess.Cards())))
			if verbose {
				fmt.Printf("%s %3d  cards=%d tick=%d\n", color.CyanString("step"), i+1, len(sess.Cards()), sess.Ticks())
			}
		})
		if err != nil {
			return err
		}

		fmt.Println(renderHUD(sess.View(), notice))
		for _, c := range sess.Cards() {
			printCard(c)
		}
		if !sess.Settled() {
			color.Yellow("table still moving after %d ticks", sess.Ticks())
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("persist", false, "use the stored presets and save slot")
	runCmd.Flags().Int64("seed", 1, "seed for dealing card faces")
	runCmd.Flags().BoolP("verbose", "v", false, "print a line per step")
}
