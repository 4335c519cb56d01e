package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/arcanaland/cardhouse/internal/input"
	"github.com/arcanaland/cardhouse/internal/session"
)

const (
	pointerStep = 0.05
	wheelNotch  = 100.0
	hudEvery    = 6 // ticks between redraws
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Build a house of cards in the terminal",
	Long: `Play runs the table in the terminal with a top-down map. The pointer is
moved with the arrow keys; see 'cardhouse controls' for the rest. The table
is loaded from the save slot when --resume is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return fmt.Errorf("play needs an interactive terminal; use 'cardhouse run' for scripts")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg, false)
		if err != nil {
			return err
		}
		// the HUD owns the terminal
		log = log.WithOptions(zap.IncreaseLevel(zap.ErrorLevel))
		defer log.Sync()

		kv, err := openStore(cfg)
		if err != nil {
			return err
		}
		opts, err := sessionOptions(cfg, kv, log.Named("session"), 0)
		if err != nil {
			return err
		}
		p := &player{}
		opts.Notify = func(n session.Notice) { p.notice = n.String() }
		p.sess = session.New(opts)

		if resume, _ := cmd.Flags().GetBool("resume"); resume {
			_ = p.sess.Load()
		}

		old, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("error entering raw mode: %w", err)
		}
		defer term.Restore(fd, old)
		fmt.Print("\x1b[?25l\x1b[2J")
		defer fmt.Print("\x1b[?25h\r\n")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return p.loop(ctx, cfg.TickRate)
	},
}

func init() {
	RootCmd.AddCommand(playCmd)

	playCmd.Flags().Bool("resume", false, "start from the saved table")
}

type player struct {
	sess    *session.Session
	pointer mgl64.Vec2
	notice  string
	quit    bool
}

func readKeys(ctx context.Context, out chan<- []byte) {
	buf := make([]byte, 64)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			close(out)
			return
		}
		chunk := append([]byte(nil), buf[:n]...)
		select {
		case out <- chunk:
		case <-ctx.Done():
			return
		}
	}
}

func (p *player) loop(ctx context.Context, tickRate int) error {
	keys := make(chan []byte, 16)
	go readKeys(ctx, keys)

	dt := 1.0 / float64(tickRate)
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	p.sess.HandlePointer(p.pointer)
	for !p.quit {
		select {
		case <-ctx.Done():
			return nil
		case chunk, ok := <-keys:
			if !ok {
				return nil
			}
			for len(chunk) > 0 {
				key, n := input.Decode(chunk)
				chunk = chunk[n:]
				p.key(key)
			}
		case <-ticker.C:
			p.sess.Tick(dt)
			if p.sess.Ticks()%hudEvery == 0 {
				p.draw()
			}
		}
	}
	return nil
}

// key handles terminal-only keys and forwards the rest to the session.
func (p *player) key(key string) {
	switch key {
	case "":
	case "ctrl+c", "ctrl+q":
		p.quit = true
	case "ctrl+s":
		p.sess.HandleSave()
	case "ctrl+o":
		p.sess.HandleLoad()
	case input.KeyUp, input.KeyDown, input.KeyLeft, input.KeyRight:
		p.move(key)
	case "c":
		p.sess.HandleClick()
	case "g":
		if p.sess.State().DraggingID != "" {
			p.sess.HandleRelease()
		} else {
			p.sess.HandlePress()
		}
	case "[":
		p.sess.HandleWheel(-wheelNotch)
	case "]":
		p.sess.HandleWheel(wheelNotch)
	default:
		p.sess.HandleKey(key)
	}
}

func (p *player) move(key string) {
	switch key {
	case input.KeyUp:
		p.pointer[1] += pointerStep
	case input.KeyDown:
		p.pointer[1] -= pointerStep
	case input.KeyLeft:
		p.pointer[0] -= pointerStep
	case input.KeyRight:
		p.pointer[0] += pointerStep
	}
	p.pointer[0] = mgl64.Clamp(p.pointer[0], -1, 1)
	p.pointer[1] = mgl64.Clamp(p.pointer[1], -1, 1)
	p.sess.HandlePointer(p.pointer)
}

func (p *player) draw() {
	out := renderHUD(p.sess.View(), p.notice)
	// raw mode does not translate newlines
	fmt.Print("\x1b[H" + strings.ReplaceAll(out, "\n", "\r\n") + "\x1b[J")
}
