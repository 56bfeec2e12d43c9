package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"digdug/server/game"
	"digdug/server/messages"
)

var log = logrus.WithField("logger", "viewer")

var (
	serverURL  string
	playerName string
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "viewer",
	Short: "Watch or play Dig Dug in the terminal",
	Long: `viewer draws the match running on a Dig Dug server.

Watch whoever is playing
	viewer --url ws://localhost:8000

Queue up and play with w a s d, A to shoot, B to stand still
	viewer --url ws://localhost:8000 --name ana

Esc or Ctrl-C quits.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// the terminal belongs to tcell, logs go to a file
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		logrus.SetOutput(f)

		return run()
	},
}

func init() {
	rootCmd.Flags().StringVar(&serverURL, "url", "ws://localhost:8000", "Server address")
	rootCmd.Flags().StringVar(&playerName, "name", "", "Join as a player with this name instead of watching")
	rootCmd.Flags().StringVar(&logFile, "log", "viewer.log", "Log file")
}

// endpoint picks /player or /viewer on the server address
func endpoint(base, name string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	path := "/viewer"
	if name != "" {
		path = "/player"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	return u.String(), nil
}

// keyFor maps a key press to a game command
func keyFor(ev *tcell.EventKey) (string, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return "w", true
	case tcell.KeyLeft:
		return "a", true
	case tcell.KeyDown:
		return "s", true
	case tcell.KeyRight:
		return "d", true
	case tcell.KeyRune:
		key := string(ev.Rune())
		if game.ValidateKey(key) == nil {
			return key, true
		}
	}
	return "", false
}

func run() error {
	addr, err := endpoint(serverURL, playerName)
	if err != nil {
		return err
	}
	ws, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer ws.Close()
	log.Infof("Connected to %s", addr)

	var writeMu sync.Mutex
	send := func(msgType messages.MessageType, payload interface{}) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return ws.WriteJSON(map[string]interface{}{"type": msgType, "payload": payload})
	}
	if err := send(messages.MessageTypeJoin, messages.JoinMessage{Name: playerName}); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	b := newBoard(screen)
	b.draw()

	go func() {
		receive(ws, b)
		screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			screen.Sync()
			b.draw()
		case *tcell.EventInterrupt:
			b.draw()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				return nil
			}
			if playerName == "" {
				continue
			}
			if key, ok := keyFor(ev); ok {
				if err := send(messages.MessageTypeKey, messages.KeyMessage{Key: key}); err != nil {
					log.WithError(err).Warn("Could not send key")
				}
			}
		}
	}
}

type envelope struct {
	Type    messages.MessageType `json:"type"`
	Payload json.RawMessage      `json:"payload"`
}

// receive feeds server messages to the board until the connection closes
func receive(ws *websocket.Conn, b *board) {
	for {
		var msg envelope
		if err := ws.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.WithError(err).Warn("Connection lost")
			}
			b.disconnected()
			b.draw()
			return
		}
		if err := apply(b, msg); err != nil {
			log.WithError(err).Warnf("Bad %s message", msg.Type)
			continue
		}
		b.draw()
	}
}

func apply(b *board, msg envelope) error {
	switch msg.Type {
	case messages.MessageTypeInfo:
		var info game.Info
		if err := json.Unmarshal(msg.Payload, &info); err != nil {
			return err
		}
		b.setInfo(&info)
	case messages.MessageTypeState:
		var state game.State
		if err := json.Unmarshal(msg.Payload, &state); err != nil {
			return err
		}
		b.setState(&state)
	case messages.MessageTypeError:
		var e messages.ErrorMessage
		if err := json.Unmarshal(msg.Payload, &e); err != nil {
			return err
		}
		log.Warnf("Server error %s: %s", e.Code, e.Message)
		if e.Code != messages.CodeInvalidKey {
			b.setStatus(e.Message)
		}
	default:
		log.Debugf("Ignoring %s message", msg.Type)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
