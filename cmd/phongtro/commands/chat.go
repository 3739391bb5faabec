package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/phongtro/phongtro/internal/api"
	"github.com/phongtro/phongtro/internal/chat"
	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/tui/styles"
)

const (
	chatHistoryLimit   = 50
	chatHistoryTimeout = 10 * time.Second
)

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat <user-id>",
		Short: "Nhắn tin với một người dùng ngay trong terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := requireSession()
			if err != nil {
				return err
			}
			defer a.Close()

			peerID := args[0]
			if peerID == cfg.Server.UserID {
				return fmt.Errorf("không thể nhắn tin với chính mình")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			url, err := a.client.ChatURL(cfg.WebSocketURL(), peerID)
			if err != nil {
				return err
			}
			hook := chat.NewHook(chat.NewDialer(cfg.Geo.UserAgent), url, peerID, cfg.Server.UserID, logger)
			defer hook.Close()

			peerName := peerID
			if p, err := a.profiles.Get(ctx, peerID); err == nil && p.Name != "" {
				peerName = p.Name
			}

			histCtx, cancel := context.WithTimeout(ctx, chatHistoryTimeout)
			history, err := a.client.ChatHistory(histCtx, peerID, chatHistoryLimit)
			cancel()
			if err != nil {
				logger.Warn("chat history unavailable", "peer_id", peerID, "error", err)
			} else {
				hook.Seed(history)
			}

			if err := hook.Connect(ctx); err != nil {
				return fmt.Errorf("không thể kết nối trò chuyện: %s", api.UserMessage(err))
			}

			out := newChatPrinter(os.Stdout, peerName)
			out.print(hook.Messages(), true)
			fmt.Println(styles.DimStyle.Render("Đang trò chuyện với " + peerName + ". Enter để gửi, Ctrl+D để thoát."))

			lines := make(chan string)
			go func() {
				defer close(lines)
				for {
					line, err := stdin.ReadString('\n')
					if text := strings.TrimSpace(line); text != "" {
						lines <- text
					}
					if err != nil {
						return
					}
				}
			}()

			for {
				select {
				case <-ctx.Done():
					return nil

				case _, ok := <-hook.Updates():
					if !ok {
						return nil
					}
					out.print(hook.Messages(), false)
					if !hook.Connected() {
						fmt.Println(styles.ErrorStyle.Render("● mất kết nối"))
						return nil
					}

				case text, ok := <-lines:
					if !ok {
						return nil
					}
					if err := hook.Send(text); err != nil {
						return fmt.Errorf("không gửi được tin nhắn: %s", api.UserMessage(err))
					}
				}
			}
		},
	}
}

// chatPrinter prints each message once
type chatPrinter struct {
	w        io.Writer
	peerName string
	seen     map[string]bool
}

func newChatPrinter(w io.Writer, peerName string) *chatPrinter {
	return &chatPrinter{w: w, peerName: peerName, seen: make(map[string]bool)}
}

// print writes messages not printed before. Outbound messages are only
// printed with history since the user just typed them.
func (p *chatPrinter) print(messages []domain.ChatMessage, withOutbound bool) {
	// Messages without IDs are told apart by content and by how often
	// that content occurred earlier in the list
	occurrences := make(map[string]int)
	for _, m := range messages {
		key := m.ID
		if key == "" {
			key = m.ClientID
		}
		if key == "" {
			content := fmt.Sprintf("%s|%d|%s", m.FromID, m.SentAt.UnixNano(), m.Text)
			occurrences[content]++
			key = fmt.Sprintf("anon|%s|%d", content, occurrences[content])
		}
		if p.seen[key] {
			continue
		}
		p.seen[key] = true
		if m.Outbound && !withOutbound {
			continue
		}

		who := styles.AccentStyle.Render(p.peerName)
		if m.Outbound {
			who = styles.SuccessStyle.Render("Bạn")
		}
		if m.SentAt.IsZero() {
			fmt.Fprintf(p.w, "%s: %s\n", who, m.Text)
			continue
		}
		fmt.Fprintf(p.w, "%s %s: %s\n", styles.DimStyle.Render(m.SentAt.Local().Format("15:04")), who, m.Text)
	}
}
