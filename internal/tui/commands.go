package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/phongtro/phongtro/internal/chat"
	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/query"
	"github.com/phongtro/phongtro/internal/service"
	"github.com/phongtro/phongtro/internal/tui/components"
	"golang.org/x/sync/errgroup"
)

// Number of stored messages loaded when a chat opens
const chatHistoryLimit = 50

// Command factories for async operations

// SearchListingsCmd loads one page of listings for f
func SearchListingsCmd(svc *service.ListingService, f query.Filter, sort query.Sort) tea.Cmd {
	key := searchKey(f, sort)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		page, err := svc.Search(ctx, f, sort)
		return ListingsLoadedMsg{Page: page, Key: key, Err: err}
	}
}

// RefreshListingsCmd reloads the page for f bypassing the cache
func RefreshListingsCmd(svc *service.ListingService, f query.Filter, sort query.Sort) tea.Cmd {
	key := searchKey(f, sort)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		page, err := svc.Refresh(ctx, f, sort)
		return ListingsLoadedMsg{Page: page, Key: key, Err: err}
	}
}

func searchKey(f query.Filter, sort query.Sort) string {
	return f.Key() + "#" + sort.String()
}

// LoadDetailCmd loads a listing together with its review summary, recent
// reviews and the user's connection. Only the listing itself is required;
// the other parts are left empty when they fail.
func LoadDetailCmd(svcs Services, listingID, selfID string, logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var data components.DetailData
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			listing, err := svcs.Listings.Get(gctx, listingID)
			if err != nil {
				return err
			}
			data.Listing = listing
			return nil
		})
		g.Go(func() error {
			summary, err := svcs.Reviews.Summary(gctx, listingID)
			if err != nil {
				logger.Warn("review summary unavailable", "listingID", listingID, "error", err)
				return nil
			}
			data.Summary = summary
			return nil
		})
		g.Go(func() error {
			reviews, err := svcs.Reviews.List(gctx, listingID)
			if err != nil {
				logger.Warn("reviews unavailable", "listingID", listingID, "error", err)
				return nil
			}
			data.Reviews = reviews
			return nil
		})
		g.Go(func() error {
			check, err := svcs.Connections.Check(gctx, listingID)
			if err != nil {
				logger.Warn("connection check unavailable", "listingID", listingID, "error", err)
				return nil
			}
			data.Connection = check
			return nil
		})

		if err := g.Wait(); err != nil {
			return ErrMsg{Err: err, Context: "tải tin đăng"}
		}

		data.IsOwner = selfID != "" && data.Listing.OwnerID == selfID
		data.Favorite = svcs.Favorites.IsFavorite(listingID)
		return DetailLoadedMsg{Data: data}
	}
}

// LoadFavoritesCmd loads the saved listings
func LoadFavoritesCmd(svc *service.FavoriteService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		favorites, err := svc.List(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "tải danh sách yêu thích"}
		}
		return FavoritesLoadedMsg{Favorites: favorites}
	}
}

// CommitFavoriteCmd sends a favorite flip already applied locally with Begin
func CommitFavoriteCmd(svc *service.FavoriteService, listingID string, saved bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := svc.Commit(ctx, listingID, saved)
		return FavoriteToggledMsg{ListingID: listingID, Saved: saved, Err: err}
	}
}

// LoadConnectionsCmd loads incoming and outgoing requests in parallel
func LoadConnectionsCmd(svc *service.ConnectionService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var msg ConnectionsLoadedMsg
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			msg.Incoming, err = svc.Incoming(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			msg.Outgoing, err = svc.Outgoing(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return ErrMsg{Err: err, Context: "tải kết nối"}
		}
		return msg
	}
}

// RequestConnectionCmd asks the owner of listingID to share contact details
func RequestConnectionCmd(svc *service.ConnectionService, listingID, message string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		conn, err := svc.Request(ctx, listingID, message)
		if err != nil {
			return ErrMsg{Err: err, Context: "gửi yêu cầu kết nối"}
		}
		return ConnectionRequestedMsg{Connection: conn}
	}
}

// RespondConnectionCmd accepts, rejects or cancels a connection request
func RespondConnectionCmd(svc *service.ConnectionService, id string, status domain.ConnectionStatus) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		conn, err := svc.Respond(ctx, id, status)
		if err != nil {
			return ErrMsg{Err: err, Context: "cập nhật kết nối"}
		}
		return ConnectionRespondedMsg{Connection: conn}
	}
}

// LoadNotificationsCmd loads every notification
func LoadNotificationsCmd(svc *service.NotificationService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		notifications, err := svc.List(ctx, false)
		if err != nil {
			return ErrMsg{Err: err, Context: "tải thông báo"}
		}
		return NotificationsLoadedMsg{Notifications: notifications}
	}
}

// UnreadCountCmd loads the unread badge count. Failures are silent; the
// badge keeps its last value.
func UnreadCountCmd(svc *service.NotificationService, logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		count, err := svc.UnreadCount(ctx)
		if err != nil {
			logger.Debug("unread count unavailable", "error", err)
			return nil
		}
		return UnreadCountMsg{Count: count}
	}
}

// MarkReadCmd marks one notification read
func MarkReadCmd(svc *service.NotificationService, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := svc.MarkRead(ctx, id); err != nil {
			return ErrMsg{Err: err, Context: "đánh dấu đã đọc"}
		}
		return NotificationsChangedMsg{}
	}
}

// MarkAllReadCmd marks every notification read
func MarkAllReadCmd(svc *service.NotificationService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := svc.MarkAllRead(ctx); err != nil {
			return ErrMsg{Err: err, Context: "đánh dấu đã đọc"}
		}
		return NotificationsChangedMsg{Message: "Đã đọc tất cả thông báo"}
	}
}

// DeleteNotificationCmd removes a notification
func DeleteNotificationCmd(svc *service.NotificationService, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := svc.Delete(ctx, id); err != nil {
			return ErrMsg{Err: err, Context: "xóa thông báo"}
		}
		return NotificationsChangedMsg{Message: "Đã xóa thông báo"}
	}
}

// LoadAnalyticsCmd loads the market dashboard, refreshing when force is set
func LoadAnalyticsCmd(svc *service.AnalyticsService, force bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		load := svc.Dashboard
		if force {
			load = svc.Refresh
		}
		dashboard, err := load(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "tải thống kê"}
		}
		return AnalyticsLoadedMsg{Dashboard: dashboard}
	}
}

// LoadRoommatesCmd loads roommate suggestions for the current user
func LoadRoommatesCmd(svc *service.MatchingService, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		matches, err := svc.Roommates(ctx, limit)
		if err != nil {
			return ErrMsg{Err: err, Context: "tìm bạn ở ghép"}
		}
		return RoommatesLoadedMsg{Matches: matches}
	}
}

// CreateReportCmd files a report against a listing
func CreateReportCmd(svc *service.ReportService, in domain.ReportInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		report, err := svc.Create(ctx, in)
		if err != nil {
			return ErrMsg{Err: err, Context: "gửi báo cáo"}
		}
		return ReportCreatedMsg{Report: report}
	}
}

// CreateReviewCmd posts a review
func CreateReviewCmd(svc *service.ReviewService, in domain.ReviewInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		review, err := svc.Create(ctx, in)
		if err != nil {
			return ErrMsg{Err: err, Context: "gửi đánh giá"}
		}
		return ReviewCreatedMsg{Review: review}
	}
}

// ConnectChatCmd dials the hook's socket. ctx bounds the whole connection,
// not just the dial.
func ConnectChatCmd(ctx context.Context, hook *chat.Hook) tea.Cmd {
	return func() tea.Msg {
		return ChatConnectedMsg{Hook: hook, Err: hook.Connect(ctx)}
	}
}

// LoadChatHistoryCmd merges stored messages into the hook
func LoadChatHistoryCmd(repo domain.ChatRepository, hook *chat.Hook) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		history, err := repo.ChatHistory(ctx, hook.PeerID(), chatHistoryLimit)
		if err == nil {
			hook.Seed(history)
		}
		return ChatHistoryMsg{Hook: hook, Err: err}
	}
}

// WaitChatCmd blocks until the hook reports a change
func WaitChatCmd(hook *chat.Hook) tea.Cmd {
	return func() tea.Msg {
		_, ok := <-hook.Updates()
		return ChatUpdateMsg{Hook: hook, Closed: !ok}
	}
}

// SendChatCmd writes text to the open conversation
func SendChatCmd(hook *chat.Hook, text string) tea.Cmd {
	return func() tea.Msg {
		if err := hook.Send(text); err != nil {
			return ErrMsg{Err: err, Context: "gửi tin nhắn"}
		}
		return nil
	}
}

// CloseChatCmd shuts the hook down, waiting for its reader to exit
func CloseChatCmd(hook *chat.Hook) tea.Cmd {
	return func() tea.Msg {
		_ = hook.Close()
		return nil
	}
}

// OpenImagesCmd hands the listing photos to the external viewer
func OpenImagesCmd(o Opener, urls []string) tea.Cmd {
	return func() tea.Msg {
		if err := o.OpenImages(urls); err != nil {
			return ErrMsg{Err: err, Context: "mở ảnh"}
		}
		return StatusMsg{Message: fmt.Sprintf("Đã mở %d ảnh", len(urls))}
	}
}

// OpenURLCmd opens a web page in the browser
func OpenURLCmd(o Opener, link string) tea.Cmd {
	return func() tea.Msg {
		if err := o.OpenURL(link); err != nil {
			return ErrMsg{Err: err, Context: "mở bản đồ"}
		}
		return StatusMsg{Message: "Đã mở bản đồ"}
	}
}

// LogoutCmd clears the session and cached data
func LogoutCmd(svc *service.SessionService) tea.Cmd {
	return func() tea.Msg {
		return LogoutCompleteMsg{Error: svc.Logout()}
	}
}

// PollCmd schedules the next unread-count refresh
func PollCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return PollMsg{}
	})
}

// ClearStatusCmd returns a command that clears status seq after a delay
func ClearStatusCmd(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
